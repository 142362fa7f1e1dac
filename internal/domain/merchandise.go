package domain

import "time"

// Merchandise is a serviceable piece of equipment, optionally pinned to a site.
type Merchandise struct {
	ID           string
	SiteID       *string
	SerialNumber string
	Model        string
	Brand        string
	Capacity     string
	CreatedAt    time.Time
}

// MerchandiseLink joins equipment to a ticket. Links whose equipment sits on
// a different site than the ticket are rejected before insert.
type MerchandiseLink struct {
	ID            string
	TicketID      string
	MerchandiseID string
	CreatedAt     time.Time
}
