package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dsaheb/dsahebapi/internal/models"
)

const (
	defaultMaxInSlot = 10
	defaultMaxInDay  = 50
)

// ScheduleService manages the weekly availability and the one-off
// unavailability of listings owned by the caller.
type ScheduleService struct {
	listings       ListingStore
	availability   ScopedStore[models.Availability]
	unavailability ScopedStore[models.Unavailability]
}

func NewScheduleService(listings ListingStore, availability ScopedStore[models.Availability], unavailability ScopedStore[models.Unavailability]) *ScheduleService {
	return &ScheduleService{
		listings:       listings,
		availability:   availability,
		unavailability: unavailability,
	}
}

func (s *ScheduleService) ListAvailability(ctx context.Context, user *models.User, listingID uint) ([]models.Availability, error) {
	if err := s.checkOwner(ctx, user, listingID); err != nil {
		return nil, err
	}
	return s.availability.List(ctx, listingID)
}

func (s *ScheduleService) AddAvailability(ctx context.Context, user *models.User, listingID uint, in models.AvailabilityInput) (*models.Availability, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkSlots(in); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, user, listingID); err != nil {
		return nil, err
	}

	row := &models.Availability{
		ListingID:  listingID,
		Day:        in.Day,
		Slot1Start: in.Slot1Start,
		Slot1End:   in.Slot1End,
		Slot2Start: in.Slot2Start,
		Slot2End:   in.Slot2End,
		Slot3Start: in.Slot3Start,
		Slot3End:   in.Slot3End,
		SlotTime:   in.SlotTime,
		MaxInSlot:  in.MaxInSlot,
		MaxInDay:   in.MaxInDay,
	}
	if row.MaxInSlot == 0 {
		row.MaxInSlot = defaultMaxInSlot
	}
	if row.MaxInDay == 0 {
		row.MaxInDay = defaultMaxInDay
	}
	if err := s.availability.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *ScheduleService) DeleteAvailability(ctx context.Context, user *models.User, listingID, id uint) error {
	if err := s.checkOwner(ctx, user, listingID); err != nil {
		return err
	}
	deleted, err := s.availability.Delete(ctx, listingID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Availability not found")
	}
	return nil
}

func (s *ScheduleService) ListUnavailability(ctx context.Context, user *models.User, listingID uint) ([]models.Unavailability, error) {
	if err := s.checkOwner(ctx, user, listingID); err != nil {
		return nil, err
	}
	return s.unavailability.List(ctx, listingID)
}

func (s *ScheduleService) AddUnavailability(ctx context.Context, user *models.User, listingID uint, in models.UnavailabilityInput) (*models.Unavailability, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if !in.AllDay {
		if in.StartTime == "" || in.EndTime == "" {
			return nil, invalid("Start time and end time are required if not an all-day unavailability.")
		}
		start, err := clockMinutes(in.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := clockMinutes(in.EndTime)
		if err != nil {
			return nil, err
		}
		if start >= end {
			return nil, invalid("Start time must be before end time.")
		}
	}
	if err := s.checkOwner(ctx, user, listingID); err != nil {
		return nil, err
	}

	row := &models.Unavailability{
		ListingID: listingID,
		Date:      in.Date.Time,
		AllDay:    in.AllDay,
		Reason:    in.Reason,
	}
	if !in.AllDay {
		row.StartTime = in.StartTime
		row.EndTime = in.EndTime
	}
	if err := s.unavailability.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *ScheduleService) DeleteUnavailability(ctx context.Context, user *models.User, listingID, id uint) error {
	if err := s.checkOwner(ctx, user, listingID); err != nil {
		return err
	}
	deleted, err := s.unavailability.Delete(ctx, listingID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Unavailability not found")
	}
	return nil
}

func (s *ScheduleService) checkOwner(ctx context.Context, user *models.User, listingID uint) error {
	listing, err := s.listings.Get(ctx, listingID, true)
	if err != nil {
		return err
	}
	if listing == nil || listing.UserID != user.ID {
		return notFound(MsgListingNotFound)
	}
	return nil
}

type slot struct {
	start, end int
}

// checkSlots requires every slot to start before it ends, the second slot to
// stay clear of the first and the third to stay clear of the second.
func checkSlots(in models.AvailabilityInput) error {
	first, err := parseSlot(in.Slot1Start, in.Slot1End)
	if err != nil {
		return err
	}
	if first.start >= first.end {
		return invalid("Start time cannot be after or equal to the end time.")
	}

	var second *slot
	if in.Slot2Start != "" {
		sl, err := parseSlot(in.Slot2Start, in.Slot2End)
		if err != nil {
			return err
		}
		if sl.start >= sl.end {
			return invalid("Second slot start time cannot be after or equal to the second slot end time.")
		}
		if overlaps(sl, first) {
			return invalid("Second slot overlaps with the first slot.")
		}
		second = &sl
	}

	if in.Slot3Start != "" {
		if second == nil {
			return invalid("Third slot requires a second slot.")
		}
		sl, err := parseSlot(in.Slot3Start, in.Slot3End)
		if err != nil {
			return err
		}
		if sl.start >= sl.end {
			return invalid("Third slot start time cannot be after or equal to the third slot end time.")
		}
		if overlaps(sl, *second) {
			return invalid("Third slot overlaps with the second slot.")
		}
	}
	return nil
}

func overlaps(a, b slot) bool {
	return a.start < b.end && a.end > b.start
}

func parseSlot(start, end string) (slot, error) {
	s, err := clockMinutes(start)
	if err != nil {
		return slot{}, err
	}
	e, err := clockMinutes(end)
	if err != nil {
		return slot{}, err
	}
	return slot{start: s, end: e}, nil
}

// clockMinutes converts "HH:MM" to minutes after midnight.
func clockMinutes(v string) (int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, invalid(fmt.Sprintf("invalid time %q", v))
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, invalid(fmt.Sprintf("invalid time %q", v))
	}
	return h*60 + m, nil
}
