package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/loongallday/pdeservice-spb-sub004/internal/api/dto"
	"github.com/loongallday/pdeservice-spb-sub004/internal/service"
)

// AuthHandler exposes employee authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	employee, token, expiresAt, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"employee": dto.EmployeeResponse{
				ID:       employee.ID,
				Name:     employee.Name,
				Nickname: employee.Nickname,
				Email:    employee.Email,
				Level:    employee.Level,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}
