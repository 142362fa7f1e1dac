package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// RequireLevel ensures the employee holds at least the given permission level.
func RequireLevel(min domain.PermissionLevel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Employee == nil {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if principal.Employee.Level < min {
			return fiber.NewError(http.StatusForbidden, "insufficient permission level")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures any active employee is logged in.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}
