package service

import (
	"context"
	"fmt"

	"agri/entities"
	"agri/pkg/store"
	"agri/pkg/validate"
)

type ReportService interface {
	History(ctx context.Context, page store.PageRequest) (store.Page[entities.Report], error)
	// Get returns the report with its sections.
	Get(ctx context.Context, id uint) (*entities.Report, error)
	Create(ctx context.Context, req ReportRequest) (*entities.Report, error)
	// Update replaces the report fields and its whole section list.
	Update(ctx context.Context, id uint, req ReportRequest) (*entities.Report, error)
	Delete(ctx context.Context, id uint) error
	// Export writes the report as a JSON document to blob storage and marks it READY.
	Export(ctx context.Context, id uint, by string) (*entities.Report, error)
}

type SectionRequest struct {
	SortOrder int    `json:"sort_order"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

type ReportRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	TaskID  *uint  `json:"task_id"`
	// Status is only honoured on update and only DRAFT or FAILED may be set;
	// create always starts in DRAFT.
	Status   string           `json:"status"`
	Sections []SectionRequest `json:"sections"`
}

func (r ReportRequest) Validate() error {
	c := validate.New().
		Required("title", r.Title).
		MaxLen("title", r.Title, 200).
		MaxLen("summary", r.Summary, 2000)
	if r.Status != "" {
		c.OneOf("status", r.Status, entities.ReportDraft, entities.ReportFailed)
	}
	seen := make(map[int]int, len(r.Sections))
	for i, s := range r.Sections {
		field := fmt.Sprintf("sections[%d]", i)
		c.Merge(field, validate.New().
			Required("title", s.Title).
			MaxLen("title", s.Title, 200))
		if prev, dup := seen[s.SortOrder]; dup {
			c.Add(field+".sort_order", fmt.Sprintf("duplicates sections[%d]", prev))
		} else {
			seen[s.SortOrder] = i
		}
	}
	return c.Err()
}
