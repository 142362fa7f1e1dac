package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/loongallday/pdeservice-spb-sub004/internal/api/dto"
	"github.com/loongallday/pdeservice-spb-sub004/internal/service"
)

// WatchersHandler exposes watcher subscription endpoints.
type WatchersHandler struct {
	watchers *service.WatcherService
}

// NewWatchersHandler constructs handler.
func NewWatchersHandler(watchers *service.WatcherService) *WatchersHandler {
	return &WatchersHandler{watchers: watchers}
}

// Subscribe handles POST /tickets/:id/watchers.
func (h *WatchersHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.WatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actorID(c)
	}
	if err := h.watchers.Subscribe(c.UserContext(), c.Params("id"), employeeID, actorID(c)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}

// Unsubscribe handles DELETE /tickets/:id/watchers/:employeeId.
func (h *WatchersHandler) Unsubscribe(c *fiber.Ctx) error {
	if err := h.watchers.Unsubscribe(c.UserContext(), c.Params("id"), c.Params("employeeId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// List handles GET /tickets/:id/watchers.
func (h *WatchersHandler) List(c *fiber.Ctx) error {
	rows, err := h.watchers.ListByTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]dto.WatcherResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.FromWatcher(row))
	}
	return c.JSON(fiber.Map{"data": out})
}
