package entities

import "time"

const (
	SecurityStandard = "STANDARD"
	SecurityStrict   = "STRICT"
	SecurityRelaxed  = "RELAXED"
)

var SecurityStrategies = []string{SecurityStandard, SecurityStrict, SecurityRelaxed}

// SystemSetting is a singleton: the row with the lowest id is authoritative.
type SystemSetting struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	DefaultRegionID     *uint     `json:"default_region_id"`
	NotifyEmail         string    `gorm:"size:254" json:"notify_email"`
	ClusterEnabled      bool      `json:"cluster_enabled"`
	PendingChangeCount  int       `json:"pending_change_count"`
	SecurityStrategy    string    `gorm:"size:16" json:"security_strategy"`
	AnnouncementTitle   string    `gorm:"size:200" json:"announcement_title"`
	AnnouncementContent string    `gorm:"size:2000" json:"announcement_content"`
	AnnouncementEnabled bool      `json:"announcement_enabled"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// SystemLog rows are append-only.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;index" json:"username"`
	Action    string    `gorm:"size:128" json:"action"`
	Detail    string    `gorm:"size:1000" json:"detail"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
