package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loongallday/pdeservice-spb-sub004/internal/api/http/handlers"
	"github.com/loongallday/pdeservice-spb-sub004/internal/auth"
	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Confirmations  *handlers.ConfirmationsHandler
	Notifications  *handlers.NotificationsHandler
	Watchers       *handlers.WatchersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	tickets := api.Group("/tickets")
	tickets.Post("", auth.RequireLevel(domain.LevelDispatcher), cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", auth.RequireLevel(domain.LevelDispatcher), cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireLevel(domain.LevelDispatcher), cfg.Tickets.Delete)
	tickets.Delete("/:id/employees/:employeeId", auth.RequireLevel(domain.LevelDispatcher), cfg.Tickets.RemoveEmployee)
	tickets.Get("/:id/history", cfg.Tickets.History)

	tickets.Post("/:id/appointment/approve", auth.RequireLevel(domain.LevelApprover), cfg.Tickets.Approve)
	tickets.Post("/:id/appointment/unapprove", auth.RequireLevel(domain.LevelApprover), cfg.Tickets.Unapprove)

	tickets.Post("/:id/confirmations", auth.RequireLevel(domain.LevelDispatcher), cfg.Confirmations.Confirm)
	tickets.Get("/:id/confirmations", cfg.Confirmations.List)

	tickets.Post("/:id/watchers", cfg.Watchers.Subscribe)
	tickets.Get("/:id/watchers", cfg.Watchers.List)
	tickets.Delete("/:id/watchers/:employeeId", cfg.Watchers.Unsubscribe)

	api.Post("/conflicts/check", cfg.Confirmations.CheckConflicts)

	api.Get("/notifications", cfg.Notifications.List)
	api.Post("/notifications/read-all", cfg.Notifications.MarkAllRead)
	api.Post("/notifications/:id/read", cfg.Notifications.MarkRead)
}
