package service

import (
	"context"
	"testing"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/stretchr/testify/require"
)

func newScheduleFixture(t *testing.T) (*ScheduleService, uint) {
	t.Helper()
	listings := newFakeListings()
	l := &models.Listing{UserID: "u1", Title: "Clinic", Status: true}
	require.NoError(t, listings.Create(context.Background(), l))

	availability := &fakeScoped[models.Availability]{
		scopeOf: func(r *models.Availability) any { return r.ListingID },
		idOf:    func(r *models.Availability) any { return r.ID },
		setID:   func(r *models.Availability, id uint) { r.ID = id },
	}
	unavailability := &fakeScoped[models.Unavailability]{
		scopeOf: func(r *models.Unavailability) any { return r.ListingID },
		idOf:    func(r *models.Unavailability) any { return r.ID },
		setID:   func(r *models.Unavailability, id uint) { r.ID = id },
	}
	return NewScheduleService(listings, availability, unavailability), l.ID
}

func TestCheckSlots(t *testing.T) {
	base := models.AvailabilityInput{Day: models.Monday, Slot1Start: "09:00", Slot1End: "12:00", SlotTime: 15}

	tests := []struct {
		name    string
		mutate  func(in *models.AvailabilityInput)
		wantErr string
	}{
		{name: "single slot"},
		{name: "back to back", mutate: func(in *models.AvailabilityInput) {
			in.Slot2Start, in.Slot2End = "12:00", "14:00"
			in.Slot3Start, in.Slot3End = "14:00", "18:00"
		}},
		{name: "empty first slot", mutate: func(in *models.AvailabilityInput) {
			in.Slot1End = "09:00"
		}, wantErr: "Start time cannot be after or equal to the end time."},
		{name: "second overlaps first", mutate: func(in *models.AvailabilityInput) {
			in.Slot2Start, in.Slot2End = "11:30", "13:00"
		}, wantErr: "Second slot overlaps with the first slot."},
		{name: "third overlaps second", mutate: func(in *models.AvailabilityInput) {
			in.Slot2Start, in.Slot2End = "13:00", "15:00"
			in.Slot3Start, in.Slot3End = "14:00", "16:00"
		}, wantErr: "Third slot overlaps with the second slot."},
		{name: "third without second", mutate: func(in *models.AvailabilityInput) {
			in.Slot3Start, in.Slot3End = "14:00", "16:00"
		}, wantErr: "Third slot requires a second slot."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			err := checkSlots(in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestAddAvailability(t *testing.T) {
	ctx := context.Background()
	svc, listingID := newScheduleFixture(t)
	owner := doctor("u1")

	row, err := svc.AddAvailability(ctx, owner, listingID, models.AvailabilityInput{
		Day: models.Tuesday, Slot1Start: "09:00", Slot1End: "12:00", SlotTime: 15,
	})
	require.NoError(t, err)
	require.Equal(t, 10, row.MaxInSlot)
	require.Equal(t, 50, row.MaxInDay)

	_, err = svc.AddAvailability(ctx, owner, listingID, models.AvailabilityInput{
		Day: models.Tuesday, Slot1Start: "09:00", Slot1End: "12:00", SlotTime: 7,
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddAvailability(ctx, owner, listingID, models.AvailabilityInput{
		Day: "someday", Slot1Start: "09:00", Slot1End: "12:00", SlotTime: 15,
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddAvailability(ctx, owner, listingID, models.AvailabilityInput{
		Day: models.Tuesday, Slot1Start: "9am", Slot1End: "12:00", SlotTime: 15,
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddAvailability(ctx, doctor("u2"), listingID, models.AvailabilityInput{
		Day: models.Tuesday, Slot1Start: "09:00", Slot1End: "12:00", SlotTime: 15,
	})
	require.ErrorIs(t, err, ErrNotFound)

	rows, err := svc.ListAvailability(ctx, owner, listingID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.ErrorIs(t, svc.DeleteAvailability(ctx, doctor("u2"), listingID, row.ID), ErrNotFound)
	require.NoError(t, svc.DeleteAvailability(ctx, owner, listingID, row.ID))
	require.ErrorIs(t, svc.DeleteAvailability(ctx, owner, listingID, row.ID), ErrNotFound)
}

func TestAddUnavailability(t *testing.T) {
	ctx := context.Background()
	svc, listingID := newScheduleFixture(t)
	owner := doctor("u1")

	_, err := svc.AddUnavailability(ctx, owner, listingID, models.UnavailabilityInput{Date: *date("2025-04-01")})
	require.ErrorIs(t, err, ErrValidation)
	require.EqualError(t, err, "Start time and end time are required if not an all-day unavailability.")

	_, err = svc.AddUnavailability(ctx, owner, listingID, models.UnavailabilityInput{
		Date: *date("2025-04-01"), StartTime: "15:00", EndTime: "14:00",
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddUnavailability(ctx, owner, listingID, models.UnavailabilityInput{AllDay: true})
	require.ErrorIs(t, err, ErrValidation)

	row, err := svc.AddUnavailability(ctx, owner, listingID, models.UnavailabilityInput{
		Date: *date("2025-04-01"), AllDay: true, StartTime: "10:00", EndTime: "11:00", Reason: "Conference",
	})
	require.NoError(t, err)
	require.Empty(t, row.StartTime)
	require.Equal(t, "2025-04-01", row.Date.Format(models.DateLayout))

	rows, err := svc.ListUnavailability(ctx, owner, listingID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, svc.DeleteUnavailability(ctx, owner, listingID, row.ID))
	require.ErrorIs(t, svc.DeleteUnavailability(ctx, owner, listingID, row.ID), ErrNotFound)
}

func TestAddUnavailabilityRejectsMalformedTimes(t *testing.T) {
	ctx := context.Background()
	svc, listingID := newScheduleFixture(t)

	for _, tc := range []struct{ start, end string }{
		{"24:00", "10:00"},
		{"09:00", "9.30"},
	} {
		_, err := svc.AddUnavailability(ctx, doctor("u1"), listingID, models.UnavailabilityInput{
			Date: *date("2025-04-01"), StartTime: tc.start, EndTime: tc.end,
		})
		require.ErrorIs(t, err, ErrValidation, "%s-%s", tc.start, tc.end)
	}
}

func TestClockMinutes(t *testing.T) {
	m, err := clockMinutes("09:30")
	require.NoError(t, err)
	require.Equal(t, 570, m)

	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd"} {
		_, err := clockMinutes(bad)
		require.ErrorIs(t, err, ErrValidation, bad)
	}
}
