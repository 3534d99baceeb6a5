package entities

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ForecastModel struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Algorithm       string         `gorm:"size:64;not null" json:"algorithm"`
	Hyperparameters datatypes.JSON `json:"hyperparameters"`
	Description     string         `gorm:"size:500" json:"description"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

const (
	TaskPending   = "PENDING"
	TaskRunning   = "RUNNING"
	TaskCompleted = "COMPLETED"
	TaskFailed    = "FAILED"
	TaskCancelled = "CANCELLED"
)

var TaskStatuses = []string{TaskPending, TaskRunning, TaskCompleted, TaskFailed, TaskCancelled}

type ForecastTask struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CropID       uint       `gorm:"index;not null" json:"crop_id"`
	RegionID     uint       `gorm:"index;not null" json:"region_id"`
	ModelID      uint       `gorm:"index;not null" json:"model_id"`
	StartYear    int        `json:"start_year"`
	EndYear      int        `json:"end_year"`
	HorizonYears int        `json:"horizon_years"`
	Status       string     `gorm:"size:16;index;not null" json:"status"`
	ErrorMessage string     `gorm:"size:500" json:"error_message,omitempty"`
	CreatedBy    string     `gorm:"size:64" json:"created_by"`
	StartedAt    *time.Time `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ForecastResult is one predicted point, owned by its task.
type ForecastResult struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TaskID         uint            `gorm:"index;not null" json:"task_id"`
	Year           int             `json:"year"`
	PredictedPrice decimal.Decimal `gorm:"type:decimal(14,4)" json:"predicted_price"`
	LowerBound     decimal.Decimal `gorm:"type:decimal(14,4)" json:"lower_bound"`
	UpperBound     decimal.Decimal `gorm:"type:decimal(14,4)" json:"upper_bound"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
