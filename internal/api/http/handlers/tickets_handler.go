package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/loongallday/pdeservice-spb-sub004/internal/api/dto"
	"github.com/loongallday/pdeservice-spb-sub004/internal/auth"
	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/service"
)

// TicketsHandler exposes the ticket aggregate endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	audit   *service.AuditService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, audit *service.AuditService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, audit: audit}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	detail, err := h.tickets.Create(c.UserContext(), req.ToCreateInput(), actorID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTicketDetail(detail)})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.tickets.GetDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicketDetail(detail)})
}

// Update handles PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	detail, err := h.tickets.Update(c.UserContext(), c.Params("id"), req.ToUpdateInput(), actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicketDetail(detail)})
}

// Delete handles DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	opts := service.DeleteOptions{
		DeleteAppointment: c.QueryBool("delete_appointment"),
		DeleteContact:     c.QueryBool("delete_contact"),
	}
	if err := h.tickets.Delete(c.UserContext(), c.Params("id"), actorID(c), opts); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RemoveEmployee handles DELETE /tickets/:id/employees/:employeeId.
func (h *TicketsHandler) RemoveEmployee(c *fiber.Ctx) error {
	date, err := time.Parse(domain.DateOnly, c.Query("date"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "date query must be YYYY-MM-DD")
	}
	if err := h.tickets.RemoveTicketEmployee(c.UserContext(), c.Params("id"), c.Params("employeeId"), date, actorID(c)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Approve handles POST /tickets/:id/appointment/approve.
func (h *TicketsHandler) Approve(c *fiber.Ctx) error {
	if err := h.tickets.ApproveAppointment(c.UserContext(), c.Params("id"), actorID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"is_approved": true}})
}

// Unapprove handles POST /tickets/:id/appointment/unapprove.
func (h *TicketsHandler) Unapprove(c *fiber.Ctx) error {
	if err := h.tickets.UnapproveAppointment(c.UserContext(), c.Params("id"), actorID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"is_approved": false}})
}

// History handles GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	entries, err := h.audit.ListByTicket(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	rows := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, dto.FromAuditEntry(entry))
	}
	return c.JSON(fiber.Map{"data": rows})
}

func actorID(c *fiber.Ctx) string {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Employee == nil {
		return ""
	}
	return principal.Employee.ID
}
