package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinicore/clinic-scheduler/internal/domain"
	"github.com/clinicore/clinic-scheduler/internal/repository"
)

const (
	dashboardCacheTTL = 30 * time.Second
	clinicCacheKey    = "dash:clinic"
	doctorCachePrefix = "dash:doctor:"
)

// DoctorDashboard is the summary returned to a doctor's dashboard view.
type DoctorDashboard struct {
	Earnings     int64                `json:"earnings"`
	Appointments int64                `json:"appointments"`
	Patients     int64                `json:"patients"`
	Latest       []domain.Appointment `json:"latestAppointments"`
}

// ClinicDashboard is the clinic-wide summary for the admin surface.
type ClinicDashboard struct {
	Doctors      int64                `json:"doctors"`
	Appointments int64                `json:"appointments"`
	Patients     int64                `json:"patients"`
	Latest       []domain.Appointment `json:"latestAppointments"`
}

// DashboardService computes dashboard summaries and caches them briefly in
// Redis. The cache is dropped whenever an appointment transitions, so a
// re-fetch after a mutation observes the committed state.
type DashboardService struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	cache        *redis.Client
	logger       *zap.Logger
}

// NewDashboardService constructs the service. cache may be nil; summaries are
// then computed on every call.
func NewDashboardService(appointments repository.AppointmentRepository, doctors repository.DoctorRepository, patients repository.PatientRepository, cache *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		cache:        cache,
		logger:       logger,
	}
}

// ForDoctor returns the dashboard summary for one doctor.
func (s *DashboardService) ForDoctor(ctx context.Context, doctorID string) (*DoctorDashboard, error) {
	key := doctorCachePrefix + doctorID
	var cached DoctorDashboard
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	counts, err := s.appointments.CountsForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	latest, err := s.appointments.ListByDoctor(ctx, doctorID, 5, 0)
	if err != nil {
		return nil, err
	}

	dash := &DoctorDashboard{
		Earnings:     counts.Earnings,
		Appointments: counts.Appointments,
		Patients:     counts.Patients,
		Latest:       latest,
	}
	s.writeCache(ctx, key, dash)
	return dash, nil
}

// ForClinic returns the clinic-wide summary.
func (s *DashboardService) ForClinic(ctx context.Context) (*ClinicDashboard, error) {
	var cached ClinicDashboard
	if s.readCache(ctx, clinicCacheKey, &cached) {
		return &cached, nil
	}

	counts, err := s.appointments.CountsForClinic(ctx)
	if err != nil {
		return nil, err
	}
	doctorCount, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, err
	}
	patientCount, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.appointments.ListAll(ctx, 5, 0)
	if err != nil {
		return nil, err
	}

	dash := &ClinicDashboard{
		Doctors:      doctorCount,
		Appointments: counts.Appointments,
		Patients:     patientCount,
		Latest:       latest,
	}
	s.writeCache(ctx, clinicCacheKey, dash)
	return dash, nil
}

// InvalidateDoctor drops the cached summary for a doctor.
func (s *DashboardService) InvalidateDoctor(ctx context.Context, doctorID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, doctorCachePrefix+doctorID).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// InvalidateClinic drops the clinic-wide cached summary.
func (s *DashboardService) InvalidateClinic(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, clinicCacheKey).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) readCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *DashboardService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, dashboardCacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}
