package entities

import "time"

const (
	ReportDraft      = "DRAFT"
	ReportGenerating = "GENERATING"
	ReportReady      = "READY"
	ReportFailed     = "FAILED"
)

var ReportStatuses = []string{ReportDraft, ReportGenerating, ReportReady, ReportFailed}

type Report struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Summary     string     `gorm:"size:2000" json:"summary"`
	FileURL     string     `gorm:"size:500" json:"file_url"`
	GeneratedAt *time.Time `json:"generated_at"`
	GeneratedBy string     `gorm:"size:64" json:"generated_by"`
	Status      string     `gorm:"size:16;index;not null" json:"status"`
	TaskID      *uint      `gorm:"index" json:"task_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Sections are loaded and written explicitly by the report repository.
	Sections []ReportSection `gorm:"-" json:"sections"`
}

type ReportSection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReportID  uint      `gorm:"index;not null" json:"report_id"`
	SortOrder int       `json:"sort_order"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
