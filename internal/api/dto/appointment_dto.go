package dto

import (
	"time"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

// AppointmentActionRequest identifies the appointment a mutation targets.
type AppointmentActionRequest struct {
	AppointmentID string `json:"appointmentId"`
}

// BookAppointmentRequest payload for the patient booking endpoint.
type BookAppointmentRequest struct {
	DoctorID string `json:"docId"`
	SlotDate string `json:"slotDate"`
	SlotTime string `json:"slotTime"`
}

// AppointmentView is the wire shape of one appointment.
type AppointmentView struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"docId"`
	SlotDate  string    `json:"slotDate"`
	SlotTime  string    `json:"slotTime"`
	Amount    int64     `json:"amount"`
	Paid      bool      `json:"paid"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAppointmentView maps a domain appointment to its wire shape.
func NewAppointmentView(appt *domain.Appointment) AppointmentView {
	return AppointmentView{
		ID:        appt.ID,
		PatientID: appt.PatientID,
		DoctorID:  appt.DoctorID,
		SlotDate:  appt.SlotDate,
		SlotTime:  appt.SlotTime,
		Amount:    appt.Amount,
		Paid:      appt.Paid,
		Status:    string(appt.Status),
		CreatedAt: appt.CreatedAt,
	}
}

// NewAppointmentViews maps a slice of appointments.
func NewAppointmentViews(appts []domain.Appointment) []AppointmentView {
	views := make([]AppointmentView, 0, len(appts))
	for i := range appts {
		views = append(views, NewAppointmentView(&appts[i]))
	}
	return views
}
