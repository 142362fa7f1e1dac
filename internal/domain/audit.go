package domain

import "time"

// AuditAction captures what kind of change an audit entry records.
type AuditAction string

const (
	AuditCreated             AuditAction = "created"
	AuditUpdated             AuditAction = "updated"
	AuditDeleted             AuditAction = "deleted"
	AuditApproved            AuditAction = "approved"
	AuditUnapproved          AuditAction = "unapproved"
	AuditTechnicianConfirmed AuditAction = "technician_confirmed"
	AuditTechnicianChanged   AuditAction = "technician_changed"
	AuditEmployeeAssigned    AuditAction = "employee_assigned"
	AuditEmployeeRemoved     AuditAction = "employee_removed"
	AuditWorkGiverSet        AuditAction = "work_giver_set"
	AuditWorkGiverChanged    AuditAction = "work_giver_changed"
	AuditCommentAdded        AuditAction = "comment_added"
)

// AuditEntry is an immutable, append-only change record for a ticket.
// ChangedFields holds field paths, including dotted "appointment.<field>"
// paths for appointment-level changes.
type AuditEntry struct {
	ID            string
	TicketID      string
	Action        AuditAction
	ChangedByID   string
	OldValues     map[string]any
	NewValues     map[string]any
	ChangedFields []string
	Metadata      map[string]any
	CreatedAt     time.Time
}
