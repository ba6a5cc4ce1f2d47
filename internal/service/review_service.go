package service

import (
	"context"
	"strings"
	"time"

	"github.com/dsaheb/dsahebapi/internal/events"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/sirupsen/logrus"
)

type ReviewService struct {
	listings  ListingStore
	reviews   ScopedStore[models.Review]
	publisher events.Publisher
	now       func() time.Time
	logger    *logrus.Logger
}

func NewReviewService(listings ListingStore, reviews ScopedStore[models.Review], publisher events.Publisher, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		listings:  listings,
		reviews:   reviews,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// Submit records a review by user for an active listing.
func (s *ReviewService) Submit(ctx context.Context, user *models.User, listingID uint, in models.ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, invalid("Rating must be between 1 and 5.")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.requireActive(ctx, listingID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ListingID: listingID,
		UserID:    user.ID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	err := s.publisher.Publish(ctx, events.ReviewSubmitted, events.ReviewEvent{
		ListingID:  listingID,
		UserID:     user.ID,
		Rating:     review.Rating,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to publish review event")
	}
	return review, nil
}

func (s *ReviewService) List(ctx context.Context, listingID uint) ([]models.Review, error) {
	if err := s.requireActive(ctx, listingID); err != nil {
		return nil, err
	}
	return s.reviews.List(ctx, listingID)
}

func (s *ReviewService) requireActive(ctx context.Context, listingID uint) error {
	listing, err := s.listings.Get(ctx, listingID, true)
	if err != nil {
		return err
	}
	if listing == nil {
		return notFound(MsgListingNotFound)
	}
	return nil
}
