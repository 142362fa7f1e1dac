package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loongallday/pdeservice-spb-sub004/internal/api/dto"
	"github.com/loongallday/pdeservice-spb-sub004/internal/service"
)

// NotificationsHandler exposes the per-employee notification read model.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List handles GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	unreadOnly := c.QueryBool("unread_only")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	rows, err := h.notifications.ListByRecipient(c.UserContext(), actorID(c), unreadOnly, limit, offset)
	if err != nil {
		return err
	}
	out := make([]dto.NotificationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.FromNotification(row))
	}
	return c.JSON(fiber.Map{"data": out})
}

// MarkRead handles POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkRead(c.UserContext(), c.Params("id"), actorID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkAllRead(c.UserContext(), actorID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}
