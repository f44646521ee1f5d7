package events

import (
	"time"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppointmentBooked    EventType = "appointment_booked"
	EventAppointmentCompleted EventType = "appointment_completed"
	EventAppointmentCancelled EventType = "appointment_cancelled"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	SubjectID string      `json:"subject_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	AppointmentID string      `json:"appointment_id"`
	Actor         Actor       `json:"actor"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// AppointmentBookedPayload payload.
type AppointmentBookedPayload struct {
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"`
	SlotDate  string `json:"slot_date"`
	SlotTime  string `json:"slot_time"`
	Amount    int64  `json:"amount"`
}

// AppointmentTransitionPayload payload for completed/cancelled events.
type AppointmentTransitionPayload struct {
	OldStatus domain.AppointmentStatus `json:"old_status"`
	NewStatus domain.AppointmentStatus `json:"new_status"`
	DoctorID  string                   `json:"doctor_id"`
	PatientID string                   `json:"patient_id"`
}
