package store

import "gorm.io/gorm"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PageRequest struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

// Normalize clamps page to >= 1 and size to [1, MaxPageSize].
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Size }

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, Size: req.Size}
}

// Paginate counts q, then loads one page of it. q must already carry its
// Model/Where clauses; order is applied by the caller.
func Paginate[T any](q *gorm.DB, req PageRequest) (Page[T], error) {
	req = req.Normalize()
	var total int64
	if err := q.Session(&gorm.Session{}).Model(new(T)).Count(&total).Error; err != nil {
		return Page[T]{}, err
	}
	var items []T
	if err := q.Session(&gorm.Session{}).Offset(req.Offset()).Limit(req.Size).Find(&items).Error; err != nil {
		return Page[T]{}, err
	}
	return NewPage(items, total, req), nil
}
