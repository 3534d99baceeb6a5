package entities

import "time"

// Region is a node in the administrative hierarchy (province, district, ...).
// ParentID references another region by id; nil marks a root.
type Region struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Level     int       `gorm:"index" json:"level"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Hidden    bool      `gorm:"not null;default:false" json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
