// Package store provides the generic keyed repository every aggregate builds on,
// the transaction scope used by create/update/delete use cases, and pagination.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository is the keyed CRUD contract shared by every entity type.
// FindByID reports absence as (nil, nil), never as an error.
type Repository[T any] interface {
	FindByID(ctx context.Context, id uint) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	// Save inserts when the primary key is zero, otherwise updates every column.
	Save(ctx context.Context, entity *T) error
	DeleteByID(ctx context.Context, id uint) error
}

type GormRepository[T any] struct {
	db *gorm.DB
}

func NewGormRepository[T any](db *gorm.DB) *GormRepository[T] {
	return &GormRepository[T]{db: db}
}

// DB returns the connection for ctx: the bound transaction when one is open.
func (r *GormRepository[T]) DB(ctx context.Context) *gorm.DB { return Conn(ctx, r.db) }

func (r *GormRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	return First[T](r.DB(ctx), "id = ?", id)
}

func (r *GormRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.DB(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository[T]) Save(ctx context.Context, entity *T) error {
	return r.DB(ctx).Save(entity).Error
}

func (r *GormRepository[T]) DeleteByID(ctx context.Context, id uint) error {
	return r.DB(ctx).Delete(new(T), id).Error
}

func (r *GormRepository[T]) Count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(new(T)).Where(query, args...).Count(&n).Error
	return n, err
}

// Exists reports whether any row of T matches the condition.
func (r *GormRepository[T]) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	n, err := r.Count(ctx, query, args...)
	return n > 0, err
}

// First runs an exact-match lookup returning (nil, nil) when nothing matches.
func First[T any](db *gorm.DB, query string, args ...any) (*T, error) {
	var out T
	err := db.Where(query, args...).Order("id ASC").First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
