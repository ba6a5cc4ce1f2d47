package service

import (
	"context"
	"testing"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPatientProfiles(t *testing.T) {
	ctx := context.Background()
	svc := NewPatientService(&fakeScoped[models.PatientProfile]{
		scopeOf: func(r *models.PatientProfile) any { return r.UserID },
		idOf:    func(r *models.PatientProfile) any { return r.ID },
	})
	owner := &models.User{ID: "p1"}

	_, err := svc.Create(ctx, owner, models.PatientProfileInput{Relation: ptr("child")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, owner, models.PatientProfileInput{Name: ptr("Ravi"), BloodGroup: ptr("Z+")})
	require.ErrorIs(t, err, ErrValidation)

	profile, err := svc.Create(ctx, owner, models.PatientProfileInput{Name: ptr(" Ravi "), DateOfBirth: date("2015-08-15")})
	require.NoError(t, err)
	require.Equal(t, "Ravi", profile.Name)
	require.Equal(t, "self", profile.Relation)
	_, err = uuid.Parse(profile.ID)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, profile.ID, models.PatientProfileInput{Relation: ptr("child"), BloodGroup: ptr("O+")})
	require.NoError(t, err)
	require.Equal(t, "child", updated.Relation)
	require.Equal(t, "Ravi", updated.Name)

	_, err = svc.Get(ctx, &models.User{ID: "p2"}, profile.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, owner, "not-a-uuid")
	require.ErrorIs(t, err, ErrNotFound)
	require.EqualError(t, err, MsgProfileNotFound)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
