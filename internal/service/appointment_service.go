package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/clinicore/clinic-scheduler/internal/domain"
	"github.com/clinicore/clinic-scheduler/internal/events"
	"github.com/clinicore/clinic-scheduler/internal/repository"
	apperrors "github.com/clinicore/clinic-scheduler/pkg/util"
)

// DashboardInvalidator drops cached dashboard summaries after a mutation.
type DashboardInvalidator interface {
	InvalidateDoctor(ctx context.Context, doctorID string)
	InvalidateClinic(ctx context.Context)
}

// AppointmentService is the authoritative state machine for appointments.
// It holds no persistent copy of any appointment; every call re-reads from
// the storage layer and commits transitions through a single atomic
// conditional update, so concurrent callers racing on the same row resolve
// in the database and the loser observes AlreadyTerminal.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	dispatcher   events.Dispatcher
	dashboards   DashboardInvalidator
}

// AppointmentDependencies bundles repositories for the service.
type AppointmentDependencies struct {
	AppointmentRepo repository.AppointmentRepository
	DoctorRepo      repository.DoctorRepository
	PatientRepo     repository.PatientRepository
	Dispatcher      events.Dispatcher
	Dashboards      DashboardInvalidator
}

// BookingInput describes a booking request from a patient.
type BookingInput struct {
	DoctorID string
	SlotDate string
	SlotTime string
}

// NewAppointmentService constructs the service.
func NewAppointmentService(deps AppointmentDependencies) *AppointmentService {
	return &AppointmentService{
		appointments: deps.AppointmentRepo,
		doctors:      deps.DoctorRepo,
		patients:     deps.PatientRepo,
		dispatcher:   deps.Dispatcher,
		dashboards:   deps.Dashboards,
	}
}

// Book creates a booked appointment for the caller against an available
// doctor, snapshotting the doctor's fee as the appointment amount.
func (s *AppointmentService) Book(ctx context.Context, caller domain.Identity, input BookingInput) (*domain.Appointment, error) {
	if caller.Role != domain.RolePatient {
		return nil, apperrors.NewUnauthorized("only patients can book appointments")
	}
	doctor, err := s.doctors.GetByID(ctx, input.DoctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor")
		}
		return nil, err
	}
	if !doctor.Available {
		return nil, apperrors.NewValidationError("doctor not available", nil)
	}

	appt := &domain.Appointment{
		PatientID: caller.SubjectID,
		DoctorID:  doctor.ID,
		SlotDate:  input.SlotDate,
		SlotTime:  input.SlotTime,
		Amount:    doctor.Fees,
		Status:    domain.AppointmentStatusBooked,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:          events.EventAppointmentBooked,
		AppointmentID: appt.ID,
		Actor:         events.Actor{SubjectID: caller.SubjectID, Role: caller.Role},
		Payload: events.AppointmentBookedPayload{
			DoctorID:  appt.DoctorID,
			PatientID: appt.PatientID,
			SlotDate:  appt.SlotDate,
			SlotTime:  appt.SlotTime,
			Amount:    appt.Amount,
		},
	})
	s.invalidate(ctx, appt.DoctorID)
	return appt, nil
}

// Complete transitions a booked appointment to completed. Only the assigned
// doctor or an administrator may complete; a second call on an already
// terminal appointment fails with AlreadyTerminal rather than silently
// succeeding, so downstream side effects cannot double-fire.
func (s *AppointmentService) Complete(ctx context.Context, appointmentID string, caller domain.Identity) (*domain.Appointment, error) {
	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleDoctor:
		if appt.DoctorID != caller.SubjectID {
			return nil, apperrors.NewUnauthorized("not the assigned doctor")
		}
	default:
		return nil, apperrors.NewUnauthorized("not authorized to complete appointments")
	}

	return s.transition(ctx, appt, domain.AppointmentStatusCompleted, caller, events.EventAppointmentCompleted)
}

// Cancel transitions a booked appointment to cancelled. The owning patient,
// the assigned doctor or an administrator may cancel.
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID string, caller domain.Identity) (*domain.Appointment, error) {
	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleDoctor:
		if appt.DoctorID != caller.SubjectID {
			return nil, apperrors.NewUnauthorized("not the assigned doctor")
		}
	case domain.RolePatient:
		if appt.PatientID != caller.SubjectID {
			return nil, apperrors.NewUnauthorized("not your appointment")
		}
	default:
		return nil, apperrors.NewUnauthorized("not authorized to cancel appointments")
	}

	return s.transition(ctx, appt, domain.AppointmentStatusCancelled, caller, events.EventAppointmentCancelled)
}

// ListForDoctor returns appointments assigned to the doctor.
func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorID string, limit, offset int) ([]domain.Appointment, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
}

// ListForPatient returns appointments owned by the patient.
func (s *AppointmentService) ListForPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

// ListAll returns every appointment, newest first. Admin surface only.
func (s *AppointmentService) ListAll(ctx context.Context, limit, offset int) ([]domain.Appointment, error) {
	return s.appointments.ListAll(ctx, limit, offset)
}

func (s *AppointmentService) loadAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment")
		}
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) transition(ctx context.Context, appt *domain.Appointment, to domain.AppointmentStatus, caller domain.Identity, eventType events.EventType) (*domain.Appointment, error) {
	if appt.Status.Terminal() {
		return nil, apperrors.NewAlreadyTerminal("appointment already " + string(appt.Status))
	}

	updated, err := s.appointments.TransitionStatus(ctx, appt.ID, domain.AppointmentStatusBooked, to)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// conditional update matched nothing: either a concurrent caller
			// won the race or the row disappeared; re-read to tell them apart
			current, readErr := s.appointments.GetByID(ctx, appt.ID)
			if readErr != nil {
				if errors.Is(readErr, pgx.ErrNoRows) {
					return nil, apperrors.NewNotFound("appointment")
				}
				return nil, readErr
			}
			return nil, apperrors.NewAlreadyTerminal("appointment already " + string(current.Status))
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:          eventType,
		AppointmentID: updated.ID,
		Actor:         events.Actor{SubjectID: caller.SubjectID, Role: caller.Role},
		Payload: events.AppointmentTransitionPayload{
			OldStatus: domain.AppointmentStatusBooked,
			NewStatus: updated.Status,
			DoctorID:  updated.DoctorID,
			PatientID: updated.PatientID,
		},
	})
	s.invalidate(ctx, updated.DoctorID)
	return updated, nil
}

func (s *AppointmentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *AppointmentService) invalidate(ctx context.Context, doctorID string) {
	if s.dashboards == nil {
		return
	}
	s.dashboards.InvalidateDoctor(ctx, doctorID)
	s.dashboards.InvalidateClinic(ctx)
}
