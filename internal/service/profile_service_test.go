package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-scheduler/internal/auth"
	"github.com/clinicore/clinic-scheduler/internal/domain"
	apperrors "github.com/clinicore/clinic-scheduler/pkg/util"
)

func newProfileService() (*ProfileService, *fakeDoctorRepo) {
	doctors := &fakeDoctorRepo{doctors: map[string]domain.Doctor{
		"doc1": {ID: "doc1", Name: "Dr. One", Email: "doc1@clinic.test", Fees: 120, Available: true},
	}}
	return NewProfileService(doctors, nil, 4), doctors
}

func TestAddDoctorHashesPassword(t *testing.T) {
	svc, repo := newProfileService()

	doctor, err := svc.AddDoctor(context.Background(), AddDoctorInput{
		Name:       "Dr. New",
		Email:      "NEW@Clinic.Test",
		Password:   "s3cret",
		Speciality: "dermatology",
		Fees:       90,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@clinic.test", doctor.Email)
	assert.True(t, doctor.Available)
	assert.NotEqual(t, "s3cret", doctor.PasswordHash)
	assert.NoError(t, auth.ComparePassword(doctor.PasswordHash, "s3cret"))

	stored, err := repo.GetByEmail(context.Background(), "new@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, int64(90), stored.Fees)
}

func TestAddDoctorDuplicateEmailRejected(t *testing.T) {
	svc, _ := newProfileService()

	_, err := svc.AddDoctor(context.Background(), AddDoctorInput{
		Name:     "Impostor",
		Email:    "doc1@clinic.test",
		Password: "s3cret",
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestToggleAvailabilityFlips(t *testing.T) {
	svc, repo := newProfileService()

	available, err := svc.ToggleAvailability(context.Background(), "doc1")
	require.NoError(t, err)
	assert.False(t, available)
	assert.False(t, repo.doctors["doc1"].Available)

	available, err = svc.ToggleAvailability(context.Background(), "doc1")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestToggleAvailabilityUnknownDoctor(t *testing.T) {
	svc, _ := newProfileService()

	_, err := svc.ToggleAvailability(context.Background(), "ghost")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
