package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/e-wheels/workshop-service/internal/api/dto"
	"github.com/e-wheels/workshop-service/internal/auth"
	"github.com/e-wheels/workshop-service/internal/service"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// AuthHandler exposes technician login.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return errorutil.NewValidationError("email and password required", nil)
	}

	tech, token, exp, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:      token,
		ExpiresAt:  exp,
		Technician: technicianResponse(tech),
	}})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Technician == nil {
		return errorutil.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": technicianResponse(principal.Technician)})
}
