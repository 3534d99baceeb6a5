package serviceImp

import (
	"context"
	"strings"

	"agri/entities"
	"agri/pkg/apperr"
	"agri/pkg/store"
	"agri/pkg/syslog/repository"
	"agri/pkg/syslog/service"
)

const anonymous = "anonymous"

type logSvc struct{ repo repository.LogRepository }

func NewLogService(repo repository.LogRepository) service.LogService { return &logSvc{repo: repo} }

func (s *logSvc) Record(ctx context.Context, username, action, detail string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		username = anonymous
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return apperr.Invalid("action", "must not be blank")
	}
	entry := &entities.SystemLog{
		Username: clip(username, 64),
		Action:   clip(action, 128),
		Detail:   clip(detail, 1000),
	}
	return apperr.FromStore(s.repo.Append(ctx, entry), "system log")
}

func (s *logSvc) List(ctx context.Context, username string, page store.PageRequest) (store.Page[entities.SystemLog], error) {
	out, err := s.repo.List(ctx, strings.TrimSpace(username), page.Normalize())
	return out, apperr.FromStore(err, "system log")
}

// clip keeps the first n runes so long request details never fail the insert.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
