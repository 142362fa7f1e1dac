package dto

import (
	"time"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// NotificationResponse renders one stored notification.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	TicketID  *string                 `json:"ticket_id"`
	CommentID *string                 `json:"comment_id"`
	AuditID   *string                 `json:"audit_id"`
	ActorID   *string                 `json:"actor_id"`
	IsRead    bool                    `json:"is_read"`
	ReadAt    *time.Time              `json:"read_at"`
	CreatedAt time.Time               `json:"created_at"`
}

// FromNotification converts a domain notification.
func FromNotification(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		TicketID:  n.TicketID,
		CommentID: n.CommentID,
		AuditID:   n.AuditID,
		ActorID:   n.ActorID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// WatchRequest subscribes an employee to a ticket.
type WatchRequest struct {
	EmployeeID string `json:"employee_id"`
}

// WatcherResponse renders one subscription.
type WatcherResponse struct {
	ID         string               `json:"id"`
	TicketID   string               `json:"ticket_id"`
	EmployeeID string               `json:"employee_id"`
	Source     domain.WatcherSource `json:"source"`
	CreatedAt  time.Time            `json:"created_at"`
}

// FromWatcher converts a domain watcher.
func FromWatcher(w domain.Watcher) WatcherResponse {
	return WatcherResponse{
		ID:         w.ID,
		TicketID:   w.TicketID,
		EmployeeID: w.EmployeeID,
		Source:     w.Source,
		CreatedAt:  w.CreatedAt,
	}
}

// AuditEntryResponse renders one history row.
type AuditEntryResponse struct {
	ID            string             `json:"id"`
	TicketID      string             `json:"ticket_id"`
	Action        domain.AuditAction `json:"action"`
	ChangedByID   string             `json:"changed_by_id"`
	OldValues     map[string]any     `json:"old_values,omitempty"`
	NewValues     map[string]any     `json:"new_values,omitempty"`
	ChangedFields []string           `json:"changed_fields,omitempty"`
	Metadata      map[string]any     `json:"metadata,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FromAuditEntry converts a domain audit entry.
func FromAuditEntry(e domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:            e.ID,
		TicketID:      e.TicketID,
		Action:        e.Action,
		ChangedByID:   e.ChangedByID,
		OldValues:     e.OldValues,
		NewValues:     e.NewValues,
		ChangedFields: e.ChangedFields,
		Metadata:      e.Metadata,
		CreatedAt:     e.CreatedAt,
	}
}

// TechnicianConfirmationResponse renders one confirmed technician row.
type TechnicianConfirmationResponse struct {
	TicketID         string `json:"ticket_id"`
	EmployeeID       string `json:"employee_id"`
	ConfirmedByID    string `json:"confirmed_by_id"`
	ConfirmationDate string `json:"confirmation_date"`
	IsKey            bool   `json:"is_key"`
	Notes            string `json:"notes,omitempty"`
}

// FromConfirmation converts a domain confirmation.
func FromConfirmation(c domain.TechnicianConfirmation) TechnicianConfirmationResponse {
	return TechnicianConfirmationResponse{
		TicketID:         c.TicketID,
		EmployeeID:       c.EmployeeID,
		ConfirmedByID:    c.ConfirmedByID,
		ConfirmationDate: c.ConfirmationDate.Format(domain.DateOnly),
		IsKey:            c.IsKey,
		Notes:            c.Notes,
	}
}
