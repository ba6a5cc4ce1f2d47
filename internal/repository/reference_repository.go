package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsaheb/dsahebapi/internal/models"
	"gorm.io/gorm"
)

// ReferenceRepository reads the lookup tables listings point at.
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func listWhere[T any](ctx context.Context, db *gorm.DB, query string, args ...any) ([]T, error) {
	var rows []T
	tx := db.WithContext(ctx).Order("name")
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list reference data: %w", err)
	}
	return rows, nil
}

func byIDs[T any](ctx context.Context, db *gorm.DB, ids []uint) ([]T, error) {
	var rows []T
	if len(ids) == 0 {
		return rows, nil
	}
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	return rows, nil
}

func byID[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var row T
	err := db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	return &row, nil
}

func (r *ReferenceRepository) States(ctx context.Context) ([]models.State, error) {
	return listWhere[models.State](ctx, r.db, "")
}

func (r *ReferenceRepository) Cities(ctx context.Context, stateID uint) ([]models.City, error) {
	if stateID == 0 {
		return listWhere[models.City](ctx, r.db, "")
	}
	return listWhere[models.City](ctx, r.db, "state_id = ?", stateID)
}

func (r *ReferenceRepository) Locations(ctx context.Context, cityID uint) ([]models.Location, error) {
	if cityID == 0 {
		return listWhere[models.Location](ctx, r.db, "")
	}
	return listWhere[models.Location](ctx, r.db, "city_id = ?", cityID)
}

func (r *ReferenceRepository) Services(ctx context.Context) ([]models.Service, error) {
	return listWhere[models.Service](ctx, r.db, "status = ?", true)
}

func (r *ReferenceRepository) Specializations(ctx context.Context) ([]models.Specialization, error) {
	return listWhere[models.Specialization](ctx, r.db, "status = ?", true)
}

func (r *ReferenceRepository) Universities(ctx context.Context) ([]models.University, error) {
	return listWhere[models.University](ctx, r.db, "status = ?", true)
}

func (r *ReferenceRepository) Colleges(ctx context.Context) ([]models.College, error) {
	return listWhere[models.College](ctx, r.db, "status = ?", true)
}

func (r *ReferenceRepository) Degrees(ctx context.Context) ([]models.Degree, error) {
	return listWhere[models.Degree](ctx, r.db, "status = ?", true)
}

func (r *ReferenceRepository) Memberships(ctx context.Context) ([]models.Membership, error) {
	return listWhere[models.Membership](ctx, r.db, "status = ?", true)
}

func (r *ReferenceRepository) Registrations(ctx context.Context) ([]models.Registration, error) {
	return listWhere[models.Registration](ctx, r.db, "status = ?", true)
}

func (r *ReferenceRepository) ServicesByIDs(ctx context.Context, ids []uint) ([]models.Service, error) {
	return byIDs[models.Service](ctx, r.db, ids)
}

func (r *ReferenceRepository) SpecializationsByIDs(ctx context.Context, ids []uint) ([]models.Specialization, error) {
	return byIDs[models.Specialization](ctx, r.db, ids)
}

func (r *ReferenceRepository) MembershipsByIDs(ctx context.Context, ids []uint) ([]models.Membership, error) {
	return byIDs[models.Membership](ctx, r.db, ids)
}

func (r *ReferenceRepository) State(ctx context.Context, id uint) (*models.State, error) {
	return byID[models.State](ctx, r.db, id)
}

func (r *ReferenceRepository) City(ctx context.Context, id uint) (*models.City, error) {
	return byID[models.City](ctx, r.db, id)
}

func (r *ReferenceRepository) Location(ctx context.Context, id uint) (*models.Location, error) {
	return byID[models.Location](ctx, r.db, id)
}

func (r *ReferenceRepository) RegistrationBody(ctx context.Context, id uint) (*models.Registration, error) {
	return byID[models.Registration](ctx, r.db, id)
}
