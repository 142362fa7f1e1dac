package domain

import "time"

// WorkGiver is the external party who commissioned the work.
type WorkGiver struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
}

// WorkGiverLink is the 0-or-1 per ticket reference to an active work giver.
type WorkGiverLink struct {
	ID          string
	TicketID    string
	WorkGiverID string
	CreatedAt   time.Time
}
