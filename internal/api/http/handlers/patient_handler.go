package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-scheduler/internal/api/dto"
	"github.com/clinicore/clinic-scheduler/internal/domain"
	"github.com/clinicore/clinic-scheduler/internal/service"
	apperrors "github.com/clinicore/clinic-scheduler/pkg/util"
)

// PatientHandler exposes the patient surface.
type PatientHandler struct {
	appointments *service.AppointmentService
	profiles     *service.ProfileService
}

// NewPatientHandler constructs handler.
func NewPatientHandler(appointments *service.AppointmentService, profiles *service.ProfileService) *PatientHandler {
	return &PatientHandler{appointments: appointments, profiles: profiles}
}

// BookAppointment POST /api/user/book-appointment.
func (h *PatientHandler) BookAppointment(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.BookAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.DoctorID == "" || req.SlotDate == "" || req.SlotTime == "" {
		return apperrors.NewValidationError("docId, slotDate, slotTime required", nil)
	}
	appt, err := h.appointments.Book(c.Context(), identity, service.BookingInput{
		DoctorID: req.DoctorID,
		SlotDate: req.SlotDate,
		SlotTime: req.SlotTime,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "appointment booked",
		"appointment": dto.NewAppointmentView(appt),
	})
}

// ListAppointments GET /api/user/appointments.
func (h *PatientHandler) ListAppointments(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	limit, offset := paging(c)
	appts, err := h.appointments.ListForPatient(c.Context(), identity.SubjectID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "appointments": dto.NewAppointmentViews(appts)})
}

// CancelAppointment POST /api/user/cancel-appointment.
func (h *PatientHandler) CancelAppointment(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	req, err := parseAppointmentAction(c)
	if err != nil {
		return err
	}
	if _, err := h.appointments.Cancel(c.Context(), req.AppointmentID, identity); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "appointment cancelled"})
}

// ListDoctors GET /api/user/doctors. Public roster used by the booking view.
func (h *PatientHandler) ListDoctors(c *fiber.Ctx) error {
	limit, offset := paging(c)
	doctors, err := h.profiles.ListDoctors(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	views := make([]dto.DoctorProfileView, 0, len(doctors))
	for i := range doctors {
		views = append(views, dto.NewDoctorProfileView(&doctors[i]))
	}
	return c.JSON(fiber.Map{"success": true, "doctors": views})
}

// Profile GET /api/user/profile.
func (h *PatientHandler) Profile(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	patient, err := h.profiles.PatientByID(c.Context(), identity.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "profileData": dto.NewPatientProfileView(patient)})
}

// UpdateProfile POST /api/user/update-profile.
func (h *PatientHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePatientProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patient := &domain.Patient{
		ID:           identity.SubjectID,
		Name:         req.Name,
		Phone:        req.Phone,
		Gender:       req.Gender,
		DOB:          req.DOB,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
	}
	if err := h.profiles.UpdatePatientProfile(c.Context(), patient); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "profile updated"})
}
