package service

import (
	"context"
	"testing"

	"github.com/dsaheb/dsahebapi/internal/events"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/stretchr/testify/require"
)

func TestReviewSubmit(t *testing.T) {
	ctx := context.Background()
	listings := newFakeListings()
	active := &models.Listing{UserID: "u1", Title: "Clinic", Status: true}
	closed := &models.Listing{UserID: "u1", Title: "Old Clinic", Status: false}
	require.NoError(t, listings.Create(ctx, active))
	require.NoError(t, listings.Create(ctx, closed))

	reviews := &fakeScoped[models.Review]{
		scopeOf: func(r *models.Review) any { return r.ListingID },
		idOf:    func(r *models.Review) any { return r.ID },
		setID:   func(r *models.Review, id uint) { r.ID = id },
	}
	pub := &capturePublisher{}
	svc := NewReviewService(listings, reviews, pub, quietLogger())
	patient := &models.User{ID: "p1", Role: models.RolePatient}

	for _, rating := range []int{0, 6} {
		_, err := svc.Submit(ctx, patient, active.ID, models.ReviewInput{Rating: rating})
		require.ErrorIs(t, err, ErrValidation)
		require.EqualError(t, err, "Rating must be between 1 and 5.")
	}

	_, err := svc.Submit(ctx, patient, closed.ID, models.ReviewInput{Rating: 4})
	require.ErrorIs(t, err, ErrNotFound)

	review, err := svc.Submit(ctx, patient, active.ID, models.ReviewInput{Rating: 5, Comment: "  Very kind doctor "})
	require.NoError(t, err)
	require.Equal(t, "Very kind doctor", review.Comment)
	require.Equal(t, []string{events.ReviewSubmitted}, pub.subjects())

	list, err := svc.List(ctx, active.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.List(ctx, closed.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
