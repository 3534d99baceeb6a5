package serviceImp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agri/entities"
	"agri/pkg/apperr"
	"agri/pkg/blob"
	forecastRepo "agri/pkg/forecast/repository"
	"agri/pkg/report/repository"
	"agri/pkg/report/service"
	"agri/pkg/store"
)

type reportSvc struct {
	repo    repository.ReportRepository
	tasks   forecastRepo.TaskRepository
	results forecastRepo.ResultRepository
	blobs   blob.Store
	tx      store.Transactor
	now     func() time.Time
}

func NewReportService(
	repo repository.ReportRepository,
	tasks forecastRepo.TaskRepository,
	results forecastRepo.ResultRepository,
	blobs blob.Store,
	tx store.Transactor,
) service.ReportService {
	return &reportSvc{repo: repo, tasks: tasks, results: results, blobs: blobs, tx: tx, now: time.Now}
}

func (s *reportSvc) History(ctx context.Context, page store.PageRequest) (store.Page[entities.Report], error) {
	out, err := s.repo.History(ctx, page.Normalize())
	return out, apperr.FromStore(err, "report")
}

func (s *reportSvc) Get(ctx context.Context, id uint) (*entities.Report, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "report")
	}
	return r, nil
}

func (s *reportSvc) Create(ctx context.Context, req service.ReportRequest) (*entities.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r := &entities.Report{Status: entities.ReportDraft}
	apply(r, req)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkTask(ctx, r.TaskID); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, r); err != nil {
			return err
		}
		return s.writeSections(ctx, r, req.Sections)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "report")
	}
	return r, nil
}

func (s *reportSvc) Update(ctx context.Context, id uint, req service.ReportRequest) (*entities.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out *entities.Report
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		apply(r, req)
		if req.Status != "" {
			r.Status = req.Status
		}
		if err := s.checkTask(ctx, r.TaskID); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, r); err != nil {
			return err
		}
		if err := s.writeSections(ctx, r, req.Sections); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "report")
	}
	return out, nil
}

func (s *reportSvc) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.find(ctx, id); err != nil {
			return err
		}
		if err := s.repo.DeleteSections(ctx, id); err != nil {
			return err
		}
		return s.repo.DeleteByID(ctx, id)
	})
	return apperr.FromStore(err, "report")
}

// exportDoc is the JSON document written by Export.
type exportDoc struct {
	Report     *entities.Report          `json:"report"`
	Task       *entities.ForecastTask    `json:"task,omitempty"`
	Results    []entities.ForecastResult `json:"results,omitempty"`
	ExportedAt time.Time                 `json:"exported_at"`
	ExportedBy string                    `json:"exported_by"`
}

func (s *reportSvc) Export(ctx context.Context, id uint, by string) (*entities.Report, error) {
	doc := exportDoc{ExportedBy: by, ExportedAt: s.now().UTC()}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if r.Status == entities.ReportGenerating {
			return apperr.Conflictf("report %d is already being generated", id)
		}
		if r.TaskID != nil {
			if doc.Task, err = s.tasks.FindByID(ctx, *r.TaskID); err != nil {
				return err
			}
			if doc.Results, err = s.results.FindByTask(ctx, *r.TaskID); err != nil {
				return err
			}
		}
		r.Status = entities.ReportGenerating
		doc.Report = r
		return s.repo.Save(ctx, r)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "report")
	}

	var url string
	key := fmt.Sprintf("reports/%d/%s.json", id, uuid.NewString())
	body, err := json.MarshalIndent(doc, "", "  ")
	if err == nil {
		url, err = s.blobs.Put(ctx, key, "application/json", bytes.NewReader(body))
	}

	saveCtx := context.WithoutCancel(ctx)
	if err != nil {
		if _, serr := s.finish(saveCtx, id, func(r *entities.Report) { r.Status = entities.ReportFailed }); serr != nil {
			return nil, apperr.FromStore(serr, "report")
		}
		if apperr.CodeOf(err) == apperr.Infrastructure {
			return nil, err
		}
		return nil, apperr.Infra(err, "export report %d", id)
	}

	r, err := s.finish(saveCtx, id, func(r *entities.Report) {
		now := s.now()
		r.FileURL = url
		r.GeneratedAt = &now
		r.GeneratedBy = by
		r.Status = entities.ReportReady
	})
	if err != nil {
		// the file is not referenced by any report
		_ = s.blobs.Delete(saveCtx, key)
		return nil, apperr.FromStore(err, "report")
	}
	return r, nil
}

// finish reloads the report and applies fn only while it is still
// GENERATING. Edits made during the upload are kept.
func (s *reportSvc) finish(ctx context.Context, id uint, fn func(r *entities.Report)) (*entities.Report, error) {
	var out *entities.Report
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != entities.ReportGenerating {
			return apperr.Conflictf("report %d changed to %s during export", id, r.Status)
		}
		fn(r)
		if err := s.repo.Save(ctx, r); err != nil {
			return err
		}
		out, err = s.load(ctx, id)
		return err
	})
	return out, err
}

func (s *reportSvc) find(ctx context.Context, id uint) (*entities.Report, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFoundf("report %d not found", id)
	}
	return r, nil
}

func (s *reportSvc) load(ctx context.Context, id uint) (*entities.Report, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Sections, err = s.repo.Sections(ctx, id); err != nil {
		return nil, err
	}
	if r.Sections == nil {
		r.Sections = []entities.ReportSection{}
	}
	return r, nil
}

func (s *reportSvc) checkTask(ctx context.Context, taskID *uint) error {
	if taskID == nil {
		return nil
	}
	t, err := s.tasks.FindByID(ctx, *taskID)
	if err != nil {
		return err
	}
	if t == nil {
		return apperr.NotFoundf("task_id: forecast task %d not found", *taskID)
	}
	return nil
}

func (s *reportSvc) writeSections(ctx context.Context, r *entities.Report, in []service.SectionRequest) error {
	sections := make([]entities.ReportSection, 0, len(in))
	for _, sr := range in {
		sections = append(sections, entities.ReportSection{
			SortOrder: sr.SortOrder,
			Title:     strings.TrimSpace(sr.Title),
			Content:   sr.Content,
		})
	}
	if err := s.repo.ReplaceSections(ctx, r.ID, sections); err != nil {
		return err
	}
	var err error
	if r.Sections, err = s.repo.Sections(ctx, r.ID); err != nil {
		return err
	}
	if r.Sections == nil {
		r.Sections = []entities.ReportSection{}
	}
	return nil
}

func apply(r *entities.Report, req service.ReportRequest) {
	r.Title = strings.TrimSpace(req.Title)
	r.Summary = strings.TrimSpace(req.Summary)
	r.TaskID = req.TaskID
}
