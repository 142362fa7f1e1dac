package domain

import "time"

// WorkType is a reference entity describing the kind of field work.
type WorkType struct {
	ID     string
	Name   string
	Code   string
	Active bool
}

// TicketStatus is a reference entity for the ticket workflow state.
type TicketStatus struct {
	ID   string
	Name string
	Code string
}

// Ticket is the aggregate root for a field-service work order.
// A ticket with a nil AppointmentID is a backlog ticket.
type Ticket struct {
	ID            string
	Details       string
	Additional    string
	Summary       *string
	WorkTypeID    string
	StatusID      string
	AssignerID    string
	CreatorID     string
	SiteID        *string
	ContactID     *string
	AppointmentID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TicketEmployee is an assigned employee as it appears in the joined view.
type TicketEmployee struct {
	Employee       Employee
	IsKey          bool
	AssignmentDate time.Time
}

// TicketMerchandise is a linked equipment row in the joined view.
type TicketMerchandise struct {
	Merchandise Merchandise
}

// TicketDetail is the fully joined representation returned by the
// orchestrator: the ticket row plus every resolved sub-entity.
type TicketDetail struct {
	Ticket      Ticket
	WorkType    *WorkType
	Status      *TicketStatus
	Assigner    *Employee
	Creator     *Employee
	Site        *Site
	Company     *Company
	Contact     *Contact
	Appointment *Appointment
	Employees   []TicketEmployee
	Merchandise []TicketMerchandise
	WorkGiver   *WorkGiver
}
