package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-scheduler/internal/api/dto"
	"github.com/clinicore/clinic-scheduler/internal/auth"
	"github.com/clinicore/clinic-scheduler/internal/domain"
	"github.com/clinicore/clinic-scheduler/internal/service"
	apperrors "github.com/clinicore/clinic-scheduler/pkg/util"
)

// DoctorHandler exposes the doctor surface.
type DoctorHandler struct {
	appointments *service.AppointmentService
	dashboards   *service.DashboardService
	profiles     *service.ProfileService
}

// NewDoctorHandler constructs handler.
func NewDoctorHandler(appointments *service.AppointmentService, dashboards *service.DashboardService, profiles *service.ProfileService) *DoctorHandler {
	return &DoctorHandler{appointments: appointments, dashboards: dashboards, profiles: profiles}
}

// ListAppointments GET /api/doctor/appointments.
func (h *DoctorHandler) ListAppointments(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	limit, offset := paging(c)
	appts, err := h.appointments.ListForDoctor(c.Context(), identity.SubjectID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "appointments": dto.NewAppointmentViews(appts)})
}

// CompleteAppointment POST /api/doctor/complete-appointment.
func (h *DoctorHandler) CompleteAppointment(c *fiber.Ctx) error {
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

// CancelAppointment POST /api/doctor/cancel-appointment.
func (h *DoctorHandler) CancelAppointment(c *fiber.Ctx) error {
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

// Dashboard GET /api/doctor/dashboard.
func (h *DoctorHandler) Dashboard(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	dash, err := h.dashboards.ForDoctor(c.Context(), identity.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "dashData": dash})
}

// Profile GET /api/doctor/profile.
func (h *DoctorHandler) Profile(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	doctor, err := h.profiles.DoctorByID(c.Context(), identity.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "profileData": dto.NewDoctorProfileView(doctor)})
}

// UpdateProfile POST /api/doctor/update-profile.
func (h *DoctorHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateDoctorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile := domain.DoctorProfile{
		Fees:         req.Fees,
		About:        req.About,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		Available:    req.Available,
	}
	if err := h.profiles.UpdateDoctorProfile(c.Context(), identity.SubjectID, profile); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "profile updated"})
}

func requireIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthenticated("not authorized, login again")
	}
	return identity, nil
}

func parseAppointmentAction(c *fiber.Ctx) (dto.AppointmentActionRequest, error) {
	var req dto.AppointmentActionRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AppointmentID == "" {
		return req, apperrors.NewValidationError("appointmentId required", nil)
	}
	return req, nil
}

func paging(c *fiber.Ctx) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	return limit, offset
}
