package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinicore/clinic-scheduler/internal/api/http/handlers"
	"github.com/clinicore/clinic-scheduler/internal/auth"
	"github.com/clinicore/clinic-scheduler/internal/config"
	"github.com/clinicore/clinic-scheduler/internal/domain"
	"github.com/clinicore/clinic-scheduler/internal/observability"
	"github.com/clinicore/clinic-scheduler/internal/repository"
	"github.com/clinicore/clinic-scheduler/internal/service"
)

type memAppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]domain.Appointment
}

func (r *memAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt.ID == "" {
		appt.ID = "appt-1"
	}
	r.appts[appt.ID] = *appt
	return nil
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := appt
	return &out, nil
}

func (r *memAppointmentRepo) TransitionStatus(_ context.Context, id string, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok || appt.Status != from {
		return nil, pgx.ErrNoRows
	}
	appt.Status = to
	r.appts[id] = appt
	out := appt
	return &out, nil
}

func (r *memAppointmentRepo) ListByDoctor(_ context.Context, doctorID string, _, _ int) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Appointment
	for _, appt := range r.appts {
		if appt.DoctorID == doctorID {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (r *memAppointmentRepo) ListByPatient(_ context.Context, patientID string, _, _ int) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Appointment
	for _, appt := range r.appts {
		if appt.PatientID == patientID {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (r *memAppointmentRepo) ListAll(_ context.Context, _, _ int) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Appointment
	for _, appt := range r.appts {
		result = append(result, appt)
	}
	return result, nil
}

func (r *memAppointmentRepo) CountsForDoctor(_ context.Context, doctorID string) (repository.DashboardCounts, error) {
	appts, _ := r.ListByDoctor(context.Background(), doctorID, 0, 0)
	return repository.DashboardCounts{Appointments: int64(len(appts))}, nil
}

func (r *memAppointmentRepo) CountsForClinic(_ context.Context) (repository.DashboardCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return repository.DashboardCounts{Appointments: int64(len(r.appts))}, nil
}

type memDoctorRepo struct {
	doctors map[string]domain.Doctor
}

func (r *memDoctorRepo) Create(_ context.Context, doctor *domain.Doctor) error {
	if doctor.ID == "" {
		doctor.ID = "doc-new"
	}
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *memDoctorRepo) GetByID(_ context.Context, id string) (*domain.Doctor, error) {
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := doctor
	return &out, nil
}

func (r *memDoctorRepo) GetByEmail(_ context.Context, email string) (*domain.Doctor, error) {
	for _, doctor := range r.doctors {
		if doctor.Email == email {
			out := doctor
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memDoctorRepo) List(_ context.Context, _, _ int) ([]domain.Doctor, error) {
	var result []domain.Doctor
	for _, doctor := range r.doctors {
		result = append(result, doctor)
	}
	return result, nil
}

func (r *memDoctorRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.doctors)), nil
}

func (r *memDoctorRepo) UpdateProfile(_ context.Context, id string, profile domain.DoctorProfile) error {
	doctor, ok := r.doctors[id]
	if !ok {
		return pgx.ErrNoRows
	}
	doctor.Fees = profile.Fees
	doctor.About = profile.About
	doctor.AddressLine1 = profile.AddressLine1
	doctor.AddressLine2 = profile.AddressLine2
	doctor.Available = profile.Available
	r.doctors[id] = doctor
	return nil
}

func (r *memDoctorRepo) SetAvailability(_ context.Context, id string, available bool) error {
	doctor, ok := r.doctors[id]
	if !ok {
		return pgx.ErrNoRows
	}
	doctor.Available = available
	r.doctors[id] = doctor
	return nil
}

type memPatientRepo struct {
	patients map[string]domain.Patient
}

func (r *memPatientRepo) Create(_ context.Context, patient *domain.Patient) error {
	if patient.ID == "" {
		patient.ID = "pat-new"
	}
	r.patients[patient.ID] = *patient
	return nil
}

func (r *memPatientRepo) Update(_ context.Context, patient *domain.Patient) error {
	if _, ok := r.patients[patient.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.patients[patient.ID] = *patient
	return nil
}

func (r *memPatientRepo) GetByID(_ context.Context, id string) (*domain.Patient, error) {
	patient, ok := r.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := patient
	return &out, nil
}

func (r *memPatientRepo) GetByEmail(_ context.Context, email string) (*domain.Patient, error) {
	for _, patient := range r.patients {
		if patient.Email == email {
			out := patient
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memPatientRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.patients)), nil
}

const testSecret = "router-test-secret"

func newTestApp(t *testing.T) (*fiber.App, *auth.TokenManager, *memAppointmentRepo) {
	t.Helper()

	cfg := config.Config{}
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.BcryptCost = 4
	cfg.Auth.AdminEmail = "admin@clinic.test"
	cfg.Auth.AdminPassword = "hunter2"

	apptRepo := &memAppointmentRepo{appts: map[string]domain.Appointment{
		"A1": {ID: "A1", PatientID: "pat1", DoctorID: "doc1", SlotDate: "2026-09-01", SlotTime: "10:00", Amount: 120, Status: domain.AppointmentStatusBooked},
	}}
	doctorRepo := &memDoctorRepo{doctors: map[string]domain.Doctor{
		"doc1": {ID: "doc1", Name: "Dr. One", Email: "doc1@clinic.test", Fees: 120, Available: true},
	}}
	patientRepo := &memPatientRepo{patients: map[string]domain.Patient{
		"pat1": {ID: "pat1", Name: "Pat", Email: "pat1@clinic.test"},
	}}

	logger := zap.NewNop()
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		DoctorRepo:  doctorRepo,
		PatientRepo: patientRepo,
	})
	dashboardService := service.NewDashboardService(apptRepo, doctorRepo, patientRepo, nil, logger)
	appointmentService := service.NewAppointmentService(service.AppointmentDependencies{
		AppointmentRepo: apptRepo,
		DoctorRepo:      doctorRepo,
		PatientRepo:     patientRepo,
		Dashboards:      dashboardService,
	})
	profileService := service.NewProfileService(doctorRepo, patientRepo, cfg.Auth.BcryptCost)

	tokens := authService.TokenManager()
	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler("test", "test", nil, nil),
		Auth:        handlers.NewAuthHandler(authService),
		Doctor:      handlers.NewDoctorHandler(appointmentService, dashboardService, profileService),
		Patient:     handlers.NewPatientHandler(appointmentService, profileService),
		Admin:       handlers.NewAdminHandler(appointmentService, dashboardService, profileService),
		AdminGate:   auth.NewAdminGate(tokens, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, logger),
		DoctorGate:  auth.NewRoleGate(tokens, domain.RoleDoctor, logger),
		PatientGate: auth.NewRoleGate(tokens, domain.RolePatient, logger),
	})
	return app, tokens, apptRepo
}

func jsonRequest(t *testing.T, method, path, token string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestDoctorCompleteThenCancelFlow(t *testing.T) {
	app, tokens, _ := newTestApp(t)
	token, _, err := tokens.Issue("doc1", domain.RoleDoctor, "doc1@clinic.test")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/doctor/complete-appointment", token,
		map[string]string{"appointmentId": "A1"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	// listing reflects the committed transition on re-fetch
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/doctor/appointments", token, nil))
	require.NoError(t, err)
	body = decodeBody(t, resp)
	appts := body["appointments"].([]any)
	require.Len(t, appts, 1)
	assert.Equal(t, "completed", appts[0].(map[string]any)["status"])

	// a follow-up cancel observes the terminal state
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/doctor/cancel-appointment", token,
		map[string]string{"appointmentId": "A1"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "already")
}

func TestExpiredTokenIsUnauthenticatedEnvelope(t *testing.T) {
	app, _, _ := newTestApp(t)

	now := time.Now()
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		SubjectID: "doc1",
		Role:      domain.RoleDoctor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "doc1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	})
	tokenStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/doctor/appointments", tokenStr, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["message"].(string), "token expired")
	}
}

func TestPatientTokenRejectedByDoctorGate(t *testing.T) {
	app, tokens, _ := newTestApp(t)
	token, _, err := tokens.Issue("pat1", domain.RolePatient, "")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/doctor/complete-appointment", token,
		map[string]string{"appointmentId": "A1"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminLoginAndDashboard(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/login", "",
		map[string]string{"email": "admin@clinic.test", "password": "hunter2"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	token := body["token"].(string)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/admin/dashboard", token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["dashData"])
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/login", "",
		map[string]string{"email": "admin@clinic.test", "password": "wrong"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMissingAppointmentIsNotFound(t *testing.T) {
	app, tokens, _ := newTestApp(t)
	token, _, err := tokens.Issue("doc1", domain.RoleDoctor, "")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/doctor/complete-appointment", token,
		map[string]string{"appointmentId": "missing"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
