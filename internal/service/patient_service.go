package service

import (
	"context"
	"strings"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/google/uuid"
)

const MsgProfileNotFound = "Profile not found"

// PatientService manages the patient profiles a user keeps for themselves and
// their family members.
type PatientService struct {
	profiles ScopedStore[models.PatientProfile]
}

func NewPatientService(profiles ScopedStore[models.PatientProfile]) *PatientService {
	return &PatientService{profiles: profiles}
}

func (s *PatientService) List(ctx context.Context, user *models.User) ([]models.PatientProfile, error) {
	return s.profiles.List(ctx, user.ID)
}

func (s *PatientService) Get(ctx context.Context, user *models.User, id string) (*models.PatientProfile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound(MsgProfileNotFound)
	}
	profile, err := s.profiles.Get(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, notFound(MsgProfileNotFound)
	}
	return profile, nil
}

func (s *PatientService) Create(ctx context.Context, user *models.User, in models.PatientProfileInput) (*models.PatientProfile, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, invalid("name is required")
	}

	profile := &models.PatientProfile{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		Relation: "self",
	}
	applyPatient(profile, in)
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *PatientService) Update(ctx context.Context, user *models.User, id string, in models.PatientProfileInput) (*models.PatientProfile, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	profile, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	applyPatient(profile, in)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func applyPatient(p *models.PatientProfile, in models.PatientProfileInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.Name, in.Name)
	set(&p.Relation, in.Relation)
	set(&p.Gender, in.Gender)
	set(&p.BloodGroup, in.BloodGroup)
	set(&p.Phone, in.Phone)
	set(&p.Email, in.Email)
	set(&p.Address, in.Address)
	set(&p.MedicalHistory, in.MedicalHistory)
	set(&p.Allergies, in.Allergies)
	set(&p.EmergencyContact, in.EmergencyContact)
	if in.DateOfBirth != nil {
		dob := in.DateOfBirth.Time
		p.DateOfBirth = &dob
	}
}
