package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/loongallday/pdeservice-spb-sub004/internal/api/dto"
	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/service"
)

// ConfirmationsHandler exposes technician-confirmation endpoints.
type ConfirmationsHandler struct {
	confirmations *service.ConfirmationService
	conflicts     *service.ConflictService
}

// NewConfirmationsHandler constructs handler.
func NewConfirmationsHandler(confirmations *service.ConfirmationService, conflicts *service.ConflictService) *ConfirmationsHandler {
	return &ConfirmationsHandler{confirmations: confirmations, conflicts: conflicts}
}

// Confirm handles POST /tickets/:id/confirmations.
func (h *ConfirmationsHandler) Confirm(c *fiber.Ctx) error {
	var req dto.ConfirmTechniciansRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	date, err := time.Parse(domain.DateOnly, req.Date)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	rows, err := h.confirmations.ConfirmTechnicians(c.UserContext(), c.Params("id"), date, req.Employees, req.Notes, actorID(c))
	if err != nil {
		return err
	}
	out := make([]dto.TechnicianConfirmationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.FromConfirmation(row))
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": out})
}

// List handles GET /tickets/:id/confirmations.
func (h *ConfirmationsHandler) List(c *fiber.Ctx) error {
	rows, err := h.confirmations.ListByTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]dto.TechnicianConfirmationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.FromConfirmation(row))
	}
	return c.JSON(fiber.Map{"data": out})
}

// CheckConflicts handles POST /conflicts/check.
func (h *ConfirmationsHandler) CheckConflicts(c *fiber.Ctx) error {
	var req dto.ConflictCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	var date *time.Time
	if req.Date != "" {
		parsed, err := time.Parse(domain.DateOnly, req.Date)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = &parsed
	}

	conflicted, err := h.conflicts.CheckConflicts(c.UserContext(), req.EmployeeIDs, date, req.TimeStart, req.TimeEnd, req.ExcludeTicketID)
	if err != nil {
		return err
	}
	if conflicted == nil {
		conflicted = []string{}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"conflicted_employee_ids": conflicted}})
}
