package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/store"
	"agri/pkg/syslog/repository"
)

type logRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.LogRepository { return &logRepo{db: db} }

func (r *logRepo) Append(ctx context.Context, entry *entities.SystemLog) error {
	return store.Conn(ctx, r.db).Create(entry).Error
}

func (r *logRepo) List(ctx context.Context, username string, page store.PageRequest) (store.Page[entities.SystemLog], error) {
	q := store.Conn(ctx, r.db).Model(&entities.SystemLog{})
	if username != "" {
		q = q.Where("username = ?", username)
	}
	return store.Paginate[entities.SystemLog](q.Order("id DESC"), page)
}
