package serviceImp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"agri/entities"
	"agri/pkg/apperr"
	cropRepo "agri/pkg/crop/repository"
	"agri/pkg/forecast/engine"
	"agri/pkg/forecast/repository"
	"agri/pkg/forecast/service"
	priceRepo "agri/pkg/price/repository"
	regionRepo "agri/pkg/region/repository"
	"agri/pkg/store"
)

type TaskDeps struct {
	Tasks      repository.TaskRepository
	ResultRepo repository.ResultRepository
	Models     repository.ModelRepository
	Crops      cropRepo.CropRepository
	Regions    regionRepo.RegionRepository
	Prices     priceRepo.PriceRepository
	Engine     engine.Client
	Tx         store.Transactor
	Log        zerolog.Logger
}

type taskSvc struct {
	TaskDeps
	now func() time.Time
}

func NewTaskService(d TaskDeps) service.TaskService {
	if d.Engine == nil {
		d.Engine = engine.NewDisabled()
	}
	return &taskSvc{TaskDeps: d, now: time.Now}
}

func (s *taskSvc) List(ctx context.Context, f repository.TaskFilter) (store.Page[entities.ForecastTask], error) {
	if f.Status != "" {
		if err := statusErr(f.Status); err != nil {
			return store.Page[entities.ForecastTask]{}, err
		}
	}
	f.Page = f.Page.Normalize()
	page, err := s.Tasks.List(ctx, f)
	return page, apperr.FromStore(err, "forecast task")
}

func (s *taskSvc) Get(ctx context.Context, id uint) (*entities.ForecastTask, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "forecast task")
	}
	return t, nil
}

func (s *taskSvc) Create(ctx context.Context, req service.TaskRequest, createdBy string) (*entities.ForecastTask, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	t := &entities.ForecastTask{Status: entities.TaskPending, CreatedBy: createdBy}
	applyTask(t, req)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkRefs(ctx, t); err != nil {
			return err
		}
		return s.Tasks.Save(ctx, t)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "forecast task")
	}
	return t, nil
}

func (s *taskSvc) Update(ctx context.Context, id uint, patch service.TaskPatch) (*entities.ForecastTask, error) {
	if patch.Status != nil {
		if err := statusErr(*patch.Status); err != nil {
			return nil, err
		}
	}
	var out *entities.ForecastTask
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		if patch.TouchesParams() {
			if t.Status == entities.TaskRunning {
				return apperr.Conflictf("forecast task %d is running", id)
			}
			req := patch.Apply(paramsOf(t))
			if err := req.Validate(); err != nil {
				return err
			}
			applyTask(t, req)
			if err := s.checkRefs(ctx, t); err != nil {
				return err
			}
		}
		if patch.Status != nil {
			if !service.CanTransition(t.Status, *patch.Status) {
				return apperr.Conflictf("forecast task %d cannot move from %s to %s", id, t.Status, *patch.Status)
			}
			s.setStatus(t, *patch.Status)
		}
		if err := s.Tasks.Save(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "forecast task")
	}
	return out, nil
}

func (s *taskSvc) Delete(ctx context.Context, id uint) error {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		if t.Status == entities.TaskRunning {
			return apperr.Conflictf("forecast task %d is running", id)
		}
		used, err := s.Tasks.ReferencedByReport(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return apperr.Conflictf("forecast task %d is referenced by a report", id)
		}
		if err := s.ResultRepo.DeleteByTask(ctx, id); err != nil {
			return err
		}
		return s.Tasks.DeleteByID(ctx, id)
	})
	return apperr.FromStore(err, "forecast task")
}

func (s *taskSvc) Results(ctx context.Context, id uint) ([]entities.ForecastResult, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	out, err := s.ResultRepo.FindByTask(ctx, id)
	if out == nil && err == nil {
		out = []entities.ForecastResult{}
	}
	return out, apperr.FromStore(err, "forecast result")
}

func (s *taskSvc) Run(ctx context.Context, id uint) (*service.RunResult, error) {
	var (
		task *entities.ForecastTask
		req  engine.Request
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		if t.Status != entities.TaskPending && t.Status != entities.TaskFailed {
			return apperr.Conflictf("forecast task %d is %s; only PENDING or FAILED tasks run", id, t.Status)
		}
		model, err := s.Models.FindByID(ctx, t.ModelID)
		if err != nil {
			return err
		}
		if model == nil {
			return apperr.NotFoundf("model_id: forecast model %d not found", t.ModelID)
		}
		history, err := s.Prices.History(ctx, t.CropID, t.RegionID, t.StartYear, t.EndYear)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			return apperr.Invalid("history", "no price records for the crop and region in the requested years")
		}
		req = buildRequest(model, history, t.HorizonYears)

		s.setStatus(t, entities.TaskRunning)
		task = t
		return s.Tasks.Save(ctx, t)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "forecast task")
	}

	log := s.Log.With().Uint("task_id", id).Logger()
	log.Info().Int("history", len(req.History)).Int("horizon", req.Horizon).Msg("forecast run started")

	points, runErr := s.Engine.Forecast(ctx, req)
	if runErr != nil {
		log.Warn().Err(runErr).Msg("forecast run failed")
		// recorded even when the request was cancelled
		if err := s.finish(context.WithoutCancel(ctx), id, func(ctx context.Context, t *entities.ForecastTask) error {
			t.ErrorMessage = truncate(runErr.Error(), 500)
			s.setStatus(t, entities.TaskFailed)
			return nil
		}); err != nil {
			log.Error().Err(err).Msg("record forecast failure")
		}
		if apperr.CodeOf(runErr) == apperr.Infrastructure {
			return nil, runErr
		}
		return nil, apperr.Infra(runErr, "forecast engine failed")
	}

	results := make([]entities.ForecastResult, 0, len(points))
	for _, p := range points {
		results = append(results, entities.ForecastResult{
			Year:           p.Year,
			PredictedPrice: p.Value,
			LowerBound:     p.Lower,
			UpperBound:     p.Upper,
		})
	}
	err = s.finish(context.WithoutCancel(ctx), id, func(ctx context.Context, t *entities.ForecastTask) error {
		if err := s.ResultRepo.ReplaceForTask(ctx, t.ID, results); err != nil {
			return err
		}
		t.ErrorMessage = ""
		s.setStatus(t, entities.TaskCompleted)
		task = t
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "forecast result")
	}
	log.Info().Int("points", len(results)).Msg("forecast run completed")
	return &service.RunResult{Task: task, Results: results}, nil
}

// finish reloads the task and applies fn only while it is still RUNNING,
// so a status set during the engine call is never overwritten.
func (s *taskSvc) finish(ctx context.Context, id uint, fn func(ctx context.Context, t *entities.ForecastTask) error) error {
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		if t.Status != entities.TaskRunning {
			return apperr.Conflictf("forecast task %d changed to %s while running", id, t.Status)
		}
		if err := fn(ctx, t); err != nil {
			return err
		}
		return s.Tasks.Save(ctx, t)
	})
}

func (s *taskSvc) find(ctx context.Context, id uint) (*entities.ForecastTask, error) {
	t, err := s.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFoundf("forecast task %d not found", id)
	}
	return t, nil
}

func (s *taskSvc) checkRefs(ctx context.Context, t *entities.ForecastTask) error {
	crop, err := s.Crops.FindByID(ctx, t.CropID)
	if err != nil {
		return err
	}
	if crop == nil {
		return apperr.NotFoundf("crop_id: crop %d not found", t.CropID)
	}
	region, err := s.Regions.FindByID(ctx, t.RegionID)
	if err != nil {
		return err
	}
	if region == nil {
		return apperr.NotFoundf("region_id: region %d not found", t.RegionID)
	}
	model, err := s.Models.FindByID(ctx, t.ModelID)
	if err != nil {
		return err
	}
	if model == nil {
		return apperr.NotFoundf("model_id: forecast model %d not found", t.ModelID)
	}
	return nil
}

func (s *taskSvc) setStatus(t *entities.ForecastTask, status string) {
	now := s.now()
	switch status {
	case entities.TaskRunning:
		t.StartedAt = &now
		t.FinishedAt = nil
	case entities.TaskCompleted, entities.TaskFailed, entities.TaskCancelled:
		t.FinishedAt = &now
	case entities.TaskPending:
		t.StartedAt = nil
		t.FinishedAt = nil
	}
	t.Status = status
}

func statusErr(status string) error {
	for _, s := range entities.TaskStatuses {
		if s == status {
			return nil
		}
	}
	return apperr.Invalid("status", "must be one of PENDING, RUNNING, COMPLETED, FAILED, CANCELLED")
}

func applyTask(t *entities.ForecastTask, req service.TaskRequest) {
	t.CropID = req.CropID
	t.RegionID = req.RegionID
	t.ModelID = req.ModelID
	t.StartYear = req.StartYear
	t.EndYear = req.EndYear
	t.HorizonYears = req.HorizonYears
}

func paramsOf(t *entities.ForecastTask) service.TaskRequest {
	return service.TaskRequest{
		CropID:       t.CropID,
		RegionID:     t.RegionID,
		ModelID:      t.ModelID,
		StartYear:    t.StartYear,
		EndYear:      t.EndYear,
		HorizonYears: t.HorizonYears,
	}
}

// buildRequest averages records of the same year coming from different
// sources so the engine sees one observation per year. history is ordered by year.
func buildRequest(m *entities.ForecastModel, history []entities.PriceRecord, horizon int) engine.Request {
	obs := make([]engine.Observation, 0, len(history))
	for i := 0; i < len(history); {
		j := i + 1
		for j < len(history) && history[j].Year == history[i].Year {
			j++
		}
		rest := make([]decimal.Decimal, 0, j-i-1)
		for _, h := range history[i+1 : j] {
			rest = append(rest, h.AveragePrice)
		}
		obs = append(obs, engine.Observation{Year: history[i].Year, Price: decimal.Avg(history[i].AveragePrice, rest...)})
		i = j
	}
	return engine.Request{
		Model: engine.ModelSpec{
			Name:            m.Name,
			Algorithm:       m.Algorithm,
			Hyperparameters: json.RawMessage(m.Hyperparameters),
		},
		History: obs,
		Horizon: horizon,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
