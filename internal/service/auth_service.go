package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/clinic-scheduler/internal/auth"
	"github.com/clinicore/clinic-scheduler/internal/config"
	"github.com/clinicore/clinic-scheduler/internal/domain"
	"github.com/clinicore/clinic-scheduler/internal/repository"
	apperrors "github.com/clinicore/clinic-scheduler/pkg/util"
)

// AuthService coordinates registration and login flows for all three roles.
type AuthService struct {
	doctors    repository.DoctorRepository
	patients   repository.PatientRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	adminEmail string
	adminPass  string
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	DoctorRepo  repository.DoctorRepository
	PatientRepo repository.PatientRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		doctors:    deps.DoctorRepo,
		patients:   deps.PatientRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		adminEmail: cfg.Auth.AdminEmail,
		adminPass:  cfg.Auth.AdminPassword,
	}
}

// RegisterPatient creates a new patient account and logs it in.
func (s *AuthService) RegisterPatient(ctx context.Context, name, email, password string) (*domain.Patient, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.patients.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	patient := &domain.Patient{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(patient.ID, domain.RolePatient, patient.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return patient, token, exp, nil
}

// LoginPatient authenticates a patient.
func (s *AuthService) LoginPatient(ctx context.Context, email, password string) (*domain.Patient, string, time.Time, error) {
	patient, err := s.patients.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(patient.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
	}
	token, exp, err := s.tokenMgr.Issue(patient.ID, domain.RolePatient, patient.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return patient, token, exp, nil
}

// LoginDoctor authenticates a doctor and returns a role-bearing token.
func (s *AuthService) LoginDoctor(ctx context.Context, email, password string) (*domain.Doctor, string, time.Time, error) {
	doctor, err := s.doctors.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(doctor.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
	}
	token, exp, err := s.tokenMgr.Issue(doctor.ID, domain.RoleDoctor, doctor.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return doctor, token, exp, nil
}

// LoginAdmin checks the supplied pair against the configured administrator
// identity and issues a token carrying the derived credential claim.
func (s *AuthService) LoginAdmin(_ context.Context, email, password string) (string, time.Time, error) {
	if s.adminEmail == "" || s.adminPass == "" {
		return "", time.Time{}, apperrors.NewInternalError(errors.New("administrator identity not configured"))
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPass)) == 1
	if !emailOK || !passOK {
		return "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
	}
	return s.tokenMgr.IssueAdmin(s.adminEmail, s.adminPass)
}

// TokenManager exposes the underlying token manager for gate construction.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
