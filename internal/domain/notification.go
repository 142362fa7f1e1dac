package domain

import "time"

// NotificationType enumerates per-recipient notification kinds.
type NotificationType string

const (
	NotifyApprovalRequested     NotificationType = "approval_requested"
	NotifyAppointmentApproved   NotificationType = "appointment_approved"
	NotifyAppointmentUnapproved NotificationType = "appointment_unapproved"
	NotifyTechnicianConfirmed   NotificationType = "technician_confirmed"
	NotifyNewComment            NotificationType = "new_comment"
	NotifyMention               NotificationType = "mention"
	NotifyWatchedTicket         NotificationType = "watched_ticket"
)

// Notification is one stored per-recipient message.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	TicketID    *string
	CommentID   *string
	AuditID     *string
	ActorID     *string
	IsRead      bool
	ReadAt      *time.Time
	Metadata    map[string]any
	CreatedAt   time.Time
}
