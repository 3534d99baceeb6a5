package service

import (
	"context"

	"agri/entities"
	"agri/pkg/validate"
)

type SettingService interface {
	// Get returns the stored settings, or the defaults when nothing was saved yet.
	Get(ctx context.Context) (*entities.SystemSetting, error)
	Update(ctx context.Context, req SettingRequest) (*entities.SystemSetting, error)
}

type SettingRequest struct {
	DefaultRegionID     *uint  `json:"default_region_id"`
	NotifyEmail         string `json:"notify_email"`
	ClusterEnabled      bool   `json:"cluster_enabled"`
	PendingChangeCount  int    `json:"pending_change_count"`
	SecurityStrategy    string `json:"security_strategy"`
	AnnouncementTitle   string `json:"announcement_title"`
	AnnouncementContent string `json:"announcement_content"`
	AnnouncementEnabled bool   `json:"announcement_enabled"`
}

func (r SettingRequest) Validate() error {
	c := validate.New().
		MaxLen("notify_email", r.NotifyEmail, 254).
		Email("notify_email", r.NotifyEmail).
		MinInt("pending_change_count", r.PendingChangeCount, 0).
		MaxLen("announcement_title", r.AnnouncementTitle, 200).
		MaxLen("announcement_content", r.AnnouncementContent, 2000)
	if r.SecurityStrategy != "" {
		c.OneOf("security_strategy", r.SecurityStrategy, entities.SecurityStrategies...)
	}
	if r.AnnouncementEnabled {
		c.Required("announcement_title", r.AnnouncementTitle)
	}
	return c.Err()
}

// Defaults is what Get answers before the first Update.
func Defaults() entities.SystemSetting {
	return entities.SystemSetting{SecurityStrategy: entities.SecurityStandard}
}
