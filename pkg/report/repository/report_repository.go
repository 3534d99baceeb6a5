package repository

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

type ReportRepository interface {
	store.Repository[entities.Report]
	// History pages reports newest first, without sections.
	History(ctx context.Context, page store.PageRequest) (store.Page[entities.Report], error)
	// Sections returns the sections of a report by sort order, then id.
	Sections(ctx context.Context, reportID uint) ([]entities.ReportSection, error)
	ReplaceSections(ctx context.Context, reportID uint, sections []entities.ReportSection) error
	DeleteSections(ctx context.Context, reportID uint) error
}
