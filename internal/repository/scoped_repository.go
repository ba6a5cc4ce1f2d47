package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ScopedRepository stores rows of T that belong to an owner, identified by
// scopeColumn (user_id or listing_id). Every read and delete is filtered by
// the owner so callers cannot reach another owner's rows.
type ScopedRepository[T any] struct {
	db          *gorm.DB
	scopeColumn string
}

func NewScopedRepository[T any](db *gorm.DB, scopeColumn string) *ScopedRepository[T] {
	return &ScopedRepository[T]{db: db, scopeColumn: scopeColumn}
}

func (r *ScopedRepository[T]) Create(ctx context.Context, row *T) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (r *ScopedRepository[T]) List(ctx context.Context, scope any) ([]T, error) {
	var rows []T
	err := r.db.WithContext(ctx).
		Where(r.scopeColumn+" = ?", scope).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return rows, nil
}

// Get returns nil, nil when no row with id belongs to scope.
func (r *ScopedRepository[T]) Get(ctx context.Context, scope, id any) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).
		Where(r.scopeColumn+" = ? AND id = ?", scope, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &row, nil
}

func (r *ScopedRepository[T]) Save(ctx context.Context, row *T) error {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Delete reports whether a row was removed.
func (r *ScopedRepository[T]) Delete(ctx context.Context, scope, id any) (bool, error) {
	var row T
	res := r.db.WithContext(ctx).
		Where(r.scopeColumn+" = ? AND id = ?", scope, id).
		Delete(&row)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete record: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindMany returns the rows among ids that belong to scope.
func (r *ScopedRepository[T]) FindMany(ctx context.Context, scope any, ids []uint) ([]T, error) {
	var rows []T
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where(r.scopeColumn+" = ? AND id IN ?", scope, ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find records: %w", err)
	}
	return rows, nil
}
