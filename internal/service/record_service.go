package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dsaheb/dsahebapi/internal/models"
)

// RecordService manages per-user records of type T edited through input I.
// apply copies the non-nil fields of the input onto the row and checks the
// result; creating is true when the row is new.
type RecordService[T any, I any] struct {
	store ScopedStore[T]
	label string
	apply func(row *T, in I, creating bool, now time.Time) error
	owner func(row *T, userID string)
	now   func() time.Time
}

func (s *RecordService[T, I]) Create(ctx context.Context, userID string, in I) (*T, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	row := new(T)
	s.owner(row, userID)
	if err := s.apply(row, in, true, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *RecordService[T, I]) List(ctx context.Context, userID string) ([]T, error) {
	return s.store.List(ctx, userID)
}

func (s *RecordService[T, I]) Get(ctx context.Context, userID string, id uint) (*T, error) {
	row, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound(fmt.Sprintf("%s record not found", s.label))
	}
	return row, nil
}

func (s *RecordService[T, I]) Update(ctx context.Context, userID string, id uint, in I) (*T, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	row, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(row, in, false, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *RecordService[T, I]) Delete(ctx context.Context, userID string, id uint) error {
	deleted, err := s.store.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound(fmt.Sprintf("%s record not found", s.label))
	}
	return nil
}

// Label is the record name used in responses, e.g. "Education".
func (s *RecordService[T, I]) Label() string {
	return s.label
}

type (
	EducationService    = RecordService[models.Education, models.QualificationInput]
	TrainingService     = RecordService[models.Training, models.QualificationInput]
	ExperienceService   = RecordService[models.Experience, models.ExperienceInput]
	RegistrationService = RecordService[models.RegistrationEntry, models.RegistrationEntryInput]
)

func NewEducationService(store ScopedStore[models.Education]) *EducationService {
	return &EducationService{
		store: store,
		label: "Education",
		apply: func(row *models.Education, in models.QualificationInput, creating bool, now time.Time) error {
			return applyQualification(&row.DegreeID, &row.CollegeID, &row.Year, &row.Status, in, creating, now)
		},
		owner: func(row *models.Education, userID string) { row.UserID = userID },
		now:   time.Now,
	}
}

func NewTrainingService(store ScopedStore[models.Training]) *TrainingService {
	return &TrainingService{
		store: store,
		label: "Training",
		apply: func(row *models.Training, in models.QualificationInput, creating bool, now time.Time) error {
			return applyQualification(&row.DegreeID, &row.CollegeID, &row.Year, &row.Status, in, creating, now)
		},
		owner: func(row *models.Training, userID string) { row.UserID = userID },
		now:   time.Now,
	}
}

func NewExperienceService(store ScopedStore[models.Experience]) *ExperienceService {
	return &ExperienceService{
		store: store,
		label: "Experience",
		apply: applyExperience,
		owner: func(row *models.Experience, userID string) { row.UserID = userID },
		now:   time.Now,
	}
}

func NewRegistrationService(store ScopedStore[models.RegistrationEntry]) *RegistrationService {
	return &RegistrationService{
		store: store,
		label: "Registration",
		apply: applyRegistration,
		owner: func(row *models.RegistrationEntry, userID string) { row.UserID = userID },
		now:   time.Now,
	}
}

func applyQualification(degreeID, collegeID **uint, year *int, status *bool, in models.QualificationInput, creating bool, now time.Time) error {
	if creating {
		if in.Year == nil {
			return invalid("year is required")
		}
		*status = true
	}
	if in.DegreeID != nil {
		*degreeID = in.DegreeID
	}
	if in.CollegeID != nil {
		*collegeID = in.CollegeID
	}
	if in.Year != nil {
		*year = *in.Year
	}
	if in.Status != nil {
		*status = *in.Status
	}
	return checkYear(*year, now)
}

func applyExperience(row *models.Experience, in models.ExperienceInput, creating bool, now time.Time) error {
	if creating {
		if in.Title == nil {
			return invalid("title is required")
		}
		row.Status = true
	}
	if in.Title != nil {
		row.Title = *in.Title
	}
	if in.Description != nil {
		row.Description = *in.Description
	}
	if in.StartDate != nil {
		t := in.StartDate.Time
		row.StartDate = &t
	}
	if in.EndDate != nil {
		t := in.EndDate.Time
		row.EndDate = &t
	}
	if in.Ongoing != nil {
		row.Ongoing = *in.Ongoing
	}
	if in.Status != nil {
		row.Status = *in.Status
	}

	if row.StartDate != nil && row.EndDate != nil && row.StartDate.After(*row.EndDate) {
		return invalid("Start date cannot be after end date.")
	}
	return nil
}

func applyRegistration(row *models.RegistrationEntry, in models.RegistrationEntryInput, creating bool, now time.Time) error {
	if creating {
		if in.RegistrationID == nil {
			return invalid("registration_id is required")
		}
		if in.Year == nil {
			return invalid("year is required")
		}
		row.Status = true
	}
	if in.RegistrationID != nil {
		row.RegistrationID = *in.RegistrationID
	}
	if in.Year != nil {
		row.Year = *in.Year
	}
	if in.Status != nil {
		row.Status = *in.Status
	}
	return checkYear(row.Year, now)
}

func checkYear(year int, now time.Time) error {
	if year < 1900 || year > now.Year() {
		return invalid("Year must be valid and between 1900 and current year.")
	}
	return nil
}
