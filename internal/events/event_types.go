package events

import (
	"time"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketUnapproved     EventType = "ticket_unapproved"
	EventAppointmentApproved  EventType = "appointment_approved"
	EventTechniciansConfirmed EventType = "technicians_confirmed"
	EventCommentAdded         EventType = "comment_added"
)

// Event represents a domain event emitted by services. Consumers own their
// error handling; a failing consumer never fails the producing operation.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload carries what the watcher registry and approver
// fanout need without reloading the ticket.
type TicketCreatedPayload struct {
	CreatorID  string  `json:"creator_id"`
	AssignerID string  `json:"assigner_id"`
	AuditID    string  `json:"audit_id"`
	SiteName   string  `json:"site_name"`
	Summary    *string `json:"summary,omitempty"`
}

// TicketUnapprovedPayload describes an approval being withdrawn, whether by
// an explicit call or the auto-unapproval cascade.
type TicketUnapprovedPayload struct {
	EditorID      string   `json:"editor_id"`
	AuditID       string   `json:"audit_id"`
	SiteName      string   `json:"site_name"`
	Auto          bool     `json:"auto"`
	ChangedFields []string `json:"changed_fields,omitempty"`
}

// AppointmentApprovedPayload payload.
type AppointmentApprovedPayload struct {
	ApproverID string `json:"approver_id"`
	AuditID    string `json:"audit_id"`
	CreatorID  string `json:"creator_id"`
	SiteName   string `json:"site_name"`
}

// TechniciansConfirmedPayload payload.
type TechniciansConfirmedPayload struct {
	ConfirmedByID string               `json:"confirmed_by_id"`
	AuditID       string               `json:"audit_id"`
	Date          time.Time            `json:"date"`
	Technicians   []domain.EmployeeRef `json:"technicians"`
	SiteName      string               `json:"site_name"`
}

// CommentAddedPayload payload for the watcher broadcast and the dedicated
// comment/mention notifications.
type CommentAddedPayload struct {
	CommentID    string   `json:"comment_id"`
	AuditID      string   `json:"audit_id"`
	BodyPreview  string   `json:"body_preview"`
	MentionedIDs []string `json:"mentioned_ids,omitempty"`
}
