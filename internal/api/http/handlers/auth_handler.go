package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-scheduler/internal/api/dto"
	"github.com/clinicore/clinic-scheduler/internal/service"
	apperrors "github.com/clinicore/clinic-scheduler/pkg/util"
)

// AuthHandler exposes the login and registration endpoints for all roles.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// LoginDoctor handles POST /api/doctor/login.
func (h *AuthHandler) LoginDoctor(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}
	_, token, _, err := h.auth.LoginDoctor(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

// LoginPatient handles POST /api/user/login.
func (h *AuthHandler) LoginPatient(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}
	_, token, _, err := h.auth.LoginPatient(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

// LoginAdmin handles POST /api/admin/login.
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}
	token, _, err := h.auth.LoginAdmin(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

// RegisterPatient handles POST /api/user/register.
func (h *AuthHandler) RegisterPatient(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	_, token, _, err := h.auth.RegisterPatient(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "token": token})
}

func parseLogin(c *fiber.Ctx) (dto.LoginRequest, error) {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return req, apperrors.NewValidationError("email and password required", nil)
	}
	return req, nil
}
