package tally

import (
	"context"
	"fmt"
)

const (
	DefaultPerPage = 100
	MaxPerPage     = 500
	MaxPage        = 1000000
)

type PageResult[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// List returns one page of the tenant's rows of kind. T must be kind's model type.
func List[T any](ctx context.Context, e *Engine, kind *Kind, tenantID uint, page, perPage int) (PageResult[T], error) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	db := e.db.WithContext(ctx).Model(kind.Model()).Where("user_id = ?", tenantID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return PageResult[T]{}, fmt.Errorf("count %s: %w", kind.Name, err)
	}

	items := make([]T, 0)
	q := e.db.WithContext(ctx).Where("user_id = ?", tenantID)
	for _, order := range kind.Order {
		q = q.Order(order)
	}
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Find(&items).Error; err != nil {
		return PageResult[T]{}, fmt.Errorf("list %s: %w", kind.Name, err)
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return PageResult[T]{
		Items:    items,
		Page:     page,
		PerPage:  perPage,
		Total:    total,
		LastPage: lastPage,
	}, nil
}
