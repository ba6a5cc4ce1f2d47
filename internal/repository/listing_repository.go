package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ListingRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewListingRepository(db *gorm.DB, logger *logrus.Logger) *ListingRepository {
	return &ListingRepository{db: db, logger: logger}
}

func (r *ListingRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("State").
		Preload("City").
		Preload("Location").
		Preload("Services").
		Preload("Specializations").
		Preload("Memberships").
		Preload("Educations").
		Preload("Experiences").
		Preload("Registrations")
}

func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create listing")
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Get returns nil, nil when the listing does not exist, or is inactive and
// activeOnly is set.
func (r *ListingRepository) Get(ctx context.Context, id uint, activeOnly bool) (*models.Listing, error) {
	tx := r.preloaded(ctx)
	if activeOnly {
		tx = tx.Where("status = ?", true)
	}

	var listing models.Listing
	err := tx.First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// Save writes every column of listing and replaces its associations.
func (r *ListingRepository) Save(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Services", "Specializations", "Memberships", "Educations", "Experiences", "Registrations").
			Save(listing).Error; err != nil {
			return fmt.Errorf("failed to save listing: %w", err)
		}

		assoc := map[string]any{
			"Services":        listing.Services,
			"Specializations": listing.Specializations,
			"Memberships":     listing.Memberships,
			"Educations":      listing.Educations,
			"Experiences":     listing.Experiences,
			"Registrations":   listing.Registrations,
		}
		for name, values := range assoc {
			if err := tx.Model(listing).Association(name).Replace(values); err != nil {
				return fmt.Errorf("failed to replace listing %s: %w", strings.ToLower(name), err)
			}
		}
		return nil
	})
}

// Deactivate soft-deletes a listing by clearing its status flag.
func (r *ListingRepository) Deactivate(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Update("status", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) SetImage(ctx context.Context, id uint, kind models.ImageKind, key string) error {
	column := "profile_image"
	if kind == models.ImageBanner {
		column = "banner_image"
	}
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Update(column, key).Error
	if err != nil {
		return fmt.Errorf("failed to set listing image: %w", err)
	}
	return nil
}

func (r *ListingRepository) ListByUser(ctx context.Context, userID string) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.preloaded(ctx).
		Where("user_id = ? AND status = ?", userID, true).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

// Search matches active listings whose search tags contain query. An empty
// userID searches every owner.
func (r *ListingRepository) Search(ctx context.Context, userID, query string, limit int) ([]models.Listing, error) {
	tx := r.preloaded(ctx).Where("status = ?", true)
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		tx = tx.Where("search_tags LIKE ?", "%"+escapeLike(q)+"%")
	}

	var listings []models.Listing
	if err := tx.Order("created_at DESC").Limit(limit).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return listings, nil
}

func (r *ListingRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
