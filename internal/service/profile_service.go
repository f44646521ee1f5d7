package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/clinic-scheduler/internal/auth"
	"github.com/clinicore/clinic-scheduler/internal/domain"
	"github.com/clinicore/clinic-scheduler/internal/repository"
	apperrors "github.com/clinicore/clinic-scheduler/pkg/util"
)

// ProfileService handles doctor and patient profile reads/updates and the
// admin-side doctor management operations.
type ProfileService struct {
	doctors    repository.DoctorRepository
	patients   repository.PatientRepository
	bcryptCost int
}

// NewProfileService constructs the service.
func NewProfileService(doctors repository.DoctorRepository, patients repository.PatientRepository, bcryptCost int) *ProfileService {
	return &ProfileService{doctors: doctors, patients: patients, bcryptCost: bcryptCost}
}

// DoctorByID returns a doctor record.
func (s *ProfileService) DoctorByID(ctx context.Context, id string) (*domain.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor")
		}
		return nil, err
	}
	return doctor, nil
}

// UpdateDoctorProfile applies the mutable profile fields for a doctor.
func (s *ProfileService) UpdateDoctorProfile(ctx context.Context, doctorID string, profile domain.DoctorProfile) error {
	if err := s.doctors.UpdateProfile(ctx, doctorID, profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("doctor")
		}
		return err
	}
	return nil
}

// PatientByID returns a patient record.
func (s *ProfileService) PatientByID(ctx context.Context, id string) (*domain.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("patient")
		}
		return nil, err
	}
	return patient, nil
}

// UpdatePatientProfile applies mutable patient fields.
func (s *ProfileService) UpdatePatientProfile(ctx context.Context, patient *domain.Patient) error {
	if err := s.patients.Update(ctx, patient); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("patient")
		}
		return err
	}
	return nil
}

// AddDoctorInput describes the admin add-doctor payload.
type AddDoctorInput struct {
	Name       string
	Email      string
	Password   string
	Speciality string
	Degree     string
	Experience string
	About      string
	Fees       int64
	Address1   string
	Address2   string
}

// AddDoctor registers a new doctor. Admin surface only.
func (s *ProfileService) AddDoctor(ctx context.Context, input AddDoctorInput) (*domain.Doctor, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.doctors.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	doctor := &domain.Doctor{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Speciality:   input.Speciality,
		Degree:       input.Degree,
		Experience:   input.Experience,
		About:        input.About,
		Fees:         input.Fees,
		AddressLine1: input.Address1,
		AddressLine2: input.Address2,
		Available:    true,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// ToggleAvailability flips a doctor's availability flag.
func (s *ProfileService) ToggleAvailability(ctx context.Context, doctorID string) (bool, error) {
	doctor, err := s.DoctorByID(ctx, doctorID)
	if err != nil {
		return false, err
	}
	next := !doctor.Available
	if err := s.doctors.SetAvailability(ctx, doctorID, next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NewNotFound("doctor")
		}
		return false, err
	}
	return next, nil
}

// ListDoctors returns the doctor roster.
func (s *ProfileService) ListDoctors(ctx context.Context, limit, offset int) ([]domain.Doctor, error) {
	return s.doctors.List(ctx, limit, offset)
}
