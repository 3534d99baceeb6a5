package repository

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

type ModelRepository interface {
	store.Repository[entities.ForecastModel]
	FindByName(ctx context.Context, name string) (*entities.ForecastModel, error)
	InUse(ctx context.Context, id uint) (bool, error)
}

type TaskFilter struct {
	Status string
	Page   store.PageRequest
}

type TaskRepository interface {
	store.Repository[entities.ForecastTask]
	List(ctx context.Context, f TaskFilter) (store.Page[entities.ForecastTask], error)
	// ReferencedByReport reports whether any report was built from the task.
	ReferencedByReport(ctx context.Context, id uint) (bool, error)
}

type ResultRepository interface {
	FindByTask(ctx context.Context, taskID uint) ([]entities.ForecastResult, error)
	// ReplaceForTask drops the previous results of the task and stores the new set.
	ReplaceForTask(ctx context.Context, taskID uint, results []entities.ForecastResult) error
	DeleteByTask(ctx context.Context, taskID uint) error
}
