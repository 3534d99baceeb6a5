package service

import (
	"bytes"
	"context"
	"encoding/json"

	"agri/entities"
	"agri/pkg/forecast/repository"
	"agri/pkg/store"
	"agri/pkg/validate"
)

type ModelService interface {
	List(ctx context.Context) ([]entities.ForecastModel, error)
	Get(ctx context.Context, id uint) (*entities.ForecastModel, error)
	Create(ctx context.Context, req ModelRequest) (*entities.ForecastModel, error)
	Update(ctx context.Context, id uint, req ModelRequest) (*entities.ForecastModel, error)
	Delete(ctx context.Context, id uint) error
}

type TaskService interface {
	List(ctx context.Context, f repository.TaskFilter) (store.Page[entities.ForecastTask], error)
	Get(ctx context.Context, id uint) (*entities.ForecastTask, error)
	Create(ctx context.Context, req TaskRequest, createdBy string) (*entities.ForecastTask, error)
	Update(ctx context.Context, id uint, patch TaskPatch) (*entities.ForecastTask, error)
	Delete(ctx context.Context, id uint) error
	Results(ctx context.Context, id uint) ([]entities.ForecastResult, error)
	// Run sends the task to the forecast engine and stores what comes back.
	Run(ctx context.Context, id uint) (*RunResult, error)
}

type ModelRequest struct {
	Name            string          `json:"name"`
	Algorithm       string          `json:"algorithm"`
	Hyperparameters json.RawMessage `json:"hyperparameters"`
	Description     string          `json:"description"`
}

func (r ModelRequest) Validate() error {
	c := validate.New().
		Required("name", r.Name).
		MaxLen("name", r.Name, 100).
		Required("algorithm", r.Algorithm).
		MaxLen("algorithm", r.Algorithm, 64).
		MaxLen("description", r.Description, 500)
	if raw := bytes.TrimSpace(r.Hyperparameters); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var obj map[string]any
		c.Check(json.Unmarshal(raw, &obj) == nil, "hyperparameters", "must be a JSON object")
	}
	return c.Err()
}

const (
	MinYear    = 1900
	MaxHorizon = 50
)

type TaskRequest struct {
	CropID       uint `json:"crop_id"`
	RegionID     uint `json:"region_id"`
	ModelID      uint `json:"model_id"`
	StartYear    int  `json:"start_year"`
	EndYear      int  `json:"end_year"`
	HorizonYears int  `json:"horizon_years"`
}

func (r TaskRequest) Validate() error {
	return validate.New().
		Check(r.CropID > 0, "crop_id", "is required").
		Check(r.RegionID > 0, "region_id", "is required").
		Check(r.ModelID > 0, "model_id", "is required").
		MinInt("start_year", r.StartYear, MinYear).
		Check(r.EndYear >= r.StartYear, "end_year", "must not be before start_year").
		Between("horizon_years", r.HorizonYears, 1, MaxHorizon).
		Err()
}

// TaskPatch changes only the fields that are set.
type TaskPatch struct {
	CropID       *uint   `json:"crop_id"`
	RegionID     *uint   `json:"region_id"`
	ModelID      *uint   `json:"model_id"`
	StartYear    *int    `json:"start_year"`
	EndYear      *int    `json:"end_year"`
	HorizonYears *int    `json:"horizon_years"`
	Status       *string `json:"status"`
}

// TouchesParams reports whether the patch changes what the task forecasts.
func (p TaskPatch) TouchesParams() bool {
	return p.CropID != nil || p.RegionID != nil || p.ModelID != nil ||
		p.StartYear != nil || p.EndYear != nil || p.HorizonYears != nil
}

// Apply merges the patch onto the current task parameters.
func (p TaskPatch) Apply(t TaskRequest) TaskRequest {
	if p.CropID != nil {
		t.CropID = *p.CropID
	}
	if p.RegionID != nil {
		t.RegionID = *p.RegionID
	}
	if p.ModelID != nil {
		t.ModelID = *p.ModelID
	}
	if p.StartYear != nil {
		t.StartYear = *p.StartYear
	}
	if p.EndYear != nil {
		t.EndYear = *p.EndYear
	}
	if p.HorizonYears != nil {
		t.HorizonYears = *p.HorizonYears
	}
	return t
}

// transitions lists the statuses a task may move to from each status.
var transitions = map[string][]string{
	entities.TaskPending:   {entities.TaskRunning, entities.TaskCancelled},
	entities.TaskRunning:   {entities.TaskCompleted, entities.TaskFailed, entities.TaskCancelled},
	entities.TaskFailed:    {entities.TaskPending, entities.TaskCancelled},
	entities.TaskCancelled: {entities.TaskPending},
	entities.TaskCompleted: {entities.TaskPending},
}

// CanTransition reports whether a task may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type RunResult struct {
	Task    *entities.ForecastTask    `json:"task"`
	Results []entities.ForecastResult `json:"results"`
}
