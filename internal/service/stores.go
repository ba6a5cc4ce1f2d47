package service

import (
	"context"
	"time"

	"github.com/dsaheb/dsahebapi/internal/models"
)

type UserStore interface {
	GetByMobile(ctx context.Context, mobile string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, mobile string, patch models.ProfilePatch) (*models.User, error)
	SetVerified(ctx context.Context, mobile string) error
	SetPassword(ctx context.Context, mobile, passwordHash string) error
}

type OTPStore interface {
	Create(ctx context.Context, code *models.OneTimeCode) error
	LatestUnverified(ctx context.Context, phone string) (*models.OneTimeCode, error)
	MarkSent(ctx context.Context, code *models.OneTimeCode) error
	MarkVerified(ctx context.Context, code *models.OneTimeCode) (bool, error)
}

type AttemptStore interface {
	Append(ctx context.Context, attempt *models.LoginAttempt) error
	CountFailuresSince(ctx context.Context, userID string, since time.Time) (int, error)
	MarkAllSuccessful(ctx context.Context, userID string) error
}

type OutstandingTokenStore interface {
	Store(ctx context.Context, token *models.OutstandingToken) error
	ListByUser(ctx context.Context, userID string) ([]models.OutstandingToken, error)
	Delete(ctx context.Context, userID, jti string) error
}

type Blacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

type ListingStore interface {
	Create(ctx context.Context, listing *models.Listing) error
	Get(ctx context.Context, id uint, activeOnly bool) (*models.Listing, error)
	Save(ctx context.Context, listing *models.Listing) error
	Deactivate(ctx context.Context, id uint) error
	SetImage(ctx context.Context, id uint, kind models.ImageKind, key string) error
	ListByUser(ctx context.Context, userID string) ([]models.Listing, error)
	Search(ctx context.Context, userID, query string, limit int) ([]models.Listing, error)
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
}

// ReferenceStore resolves the lookup rows a listing links to.
type ReferenceStore interface {
	ServicesByIDs(ctx context.Context, ids []uint) ([]models.Service, error)
	SpecializationsByIDs(ctx context.Context, ids []uint) ([]models.Specialization, error)
	MembershipsByIDs(ctx context.Context, ids []uint) ([]models.Membership, error)
	State(ctx context.Context, id uint) (*models.State, error)
	City(ctx context.Context, id uint) (*models.City, error)
	Location(ctx context.Context, id uint) (*models.Location, error)
}

// ScopedStore holds rows owned by a user or a listing.
type ScopedStore[T any] interface {
	Create(ctx context.Context, row *T) error
	List(ctx context.Context, scope any) ([]T, error)
	Get(ctx context.Context, scope, id any) (*T, error)
	Save(ctx context.Context, row *T) error
	Delete(ctx context.Context, scope, id any) (bool, error)
	FindMany(ctx context.Context, scope any, ids []uint) ([]T, error)
}
