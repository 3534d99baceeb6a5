package service

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

type LogService interface {
	Record(ctx context.Context, username, action, detail string) error
	List(ctx context.Context, username string, page store.PageRequest) (store.Page[entities.SystemLog], error)
}
