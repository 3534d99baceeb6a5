package repository

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

// LogRepository only appends and reads; system log rows are never changed.
type LogRepository interface {
	Append(ctx context.Context, entry *entities.SystemLog) error
	// List pages entries newest first. A blank username lists everyone.
	List(ctx context.Context, username string, page store.PageRequest) (store.Page[entities.SystemLog], error)
}
