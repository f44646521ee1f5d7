package domain

import "time"

// AppointmentStatus enumerates lifecycle states for appointments.
type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from the status.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// Appointment is the aggregate for one scheduled encounter.
type Appointment struct {
	ID        string
	PatientID string
	DoctorID  string
	SlotDate  string
	SlotTime  string
	Amount    int64
	Paid      bool
	Status    AppointmentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
