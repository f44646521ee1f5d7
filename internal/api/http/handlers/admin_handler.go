package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-scheduler/internal/api/dto"
	"github.com/clinicore/clinic-scheduler/internal/service"
	apperrors "github.com/clinicore/clinic-scheduler/pkg/util"
)

// AdminHandler exposes the administrator surface.
type AdminHandler struct {
	appointments *service.AppointmentService
	dashboards   *service.DashboardService
	profiles     *service.ProfileService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(appointments *service.AppointmentService, dashboards *service.DashboardService, profiles *service.ProfileService) *AdminHandler {
	return &AdminHandler{appointments: appointments, dashboards: dashboards, profiles: profiles}
}

// ListAppointments GET /api/admin/appointments.
func (h *AdminHandler) ListAppointments(c *fiber.Ctx) error {
	limit, offset := paging(c)
	appts, err := h.appointments.ListAll(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "appointments": dto.NewAppointmentViews(appts)})
}

// CompleteAppointment POST /api/admin/complete-appointment.
func (h *AdminHandler) CompleteAppointment(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	req, err := parseAppointmentAction(c)
	if err != nil {
		return err
	}
	if _, err := h.appointments.Complete(c.Context(), req.AppointmentID, identity); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "appointment completed"})
}

// CancelAppointment POST /api/admin/cancel-appointment.
func (h *AdminHandler) CancelAppointment(c *fiber.Ctx) error {
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

// Dashboard GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.dashboards.ForClinic(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "dashData": dash})
}

// AddDoctor POST /api/admin/add-doctor.
func (h *AdminHandler) AddDoctor(c *fiber.Ctx) error {
	var req dto.AddDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	doctor, err := h.profiles.AddDoctor(c.Context(), service.AddDoctorInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Speciality: req.Speciality,
		Degree:     req.Degree,
		Experience: req.Experience,
		About:      req.About,
		Fees:       req.Fees,
		Address1:   req.AddressLine1,
		Address2:   req.AddressLine2,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "doctor added",
		"doctor":  dto.NewDoctorProfileView(doctor),
	})
}

// ChangeAvailability POST /api/admin/change-availability.
func (h *AdminHandler) ChangeAvailability(c *fiber.Ctx) error {
	var req dto.ChangeAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.DoctorID == "" {
		return apperrors.NewValidationError("docId required", nil)
	}
	available, err := h.profiles.ToggleAvailability(c.Context(), req.DoctorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "availability changed", "available": available})
}

// ListDoctors GET /api/admin/doctors.
func (h *AdminHandler) ListDoctors(c *fiber.Ctx) error {
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
