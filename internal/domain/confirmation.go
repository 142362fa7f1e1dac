package domain

import "time"

// TechnicianConfirmation is an accepted commitment for a specific date,
// distinct from a requested assignment. Confirmations for a ticket+date are
// replaced wholesale on each confirm call.
type TechnicianConfirmation struct {
	ID               string
	TicketID         string
	EmployeeID       string
	ConfirmedByID    string
	ConfirmationDate time.Time
	IsKey            bool
	Notes            string
	CreatedAt        time.Time
}
