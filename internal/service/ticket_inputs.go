package service

import (
	"time"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

// TicketCoreInput carries the ticket's own columns on create.
type TicketCoreInput struct {
	WorkTypeID string
	AssignerID string
	StatusID   string
	Details    string
	Additional string
}

// CompanyInput resolves by id when given, otherwise finds-or-creates by tax id.
type CompanyInput struct {
	ID    *string
	Name  string
	TaxID string
}

// SiteInput reuses an existing site by id; without an id a new site is
// created (existing sites are immutable once referenced).
type SiteInput struct {
	ID              *string
	CompanyID       *string
	Name            string
	Address         string
	ProvinceCode    *string
	DistrictCode    *string
	SubdistrictCode *string
}

// ContactInput follows the same find-or-create pattern as SiteInput.
type ContactInput struct {
	ID    *string
	Name  string
	Phone string
	Email string
}

// AppointmentInput uses tri-state fields so an update can distinguish
// "leave untouched" from "clear".
type AppointmentInput struct {
	Date      domain.Optional[string]
	TimeStart domain.Optional[string]
	TimeEnd   domain.Optional[string]
	Type      domain.Optional[domain.AppointmentType]
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Ticket         TicketCoreInput
	Company        *CompanyInput
	Site           *SiteInput
	Contact        *ContactInput
	Appointment    *AppointmentInput
	EmployeeRefs   []domain.EmployeeRef
	MerchandiseIDs []string
	WorkGiverID    *string
	Summarize      bool
}

// TicketCoreUpdate carries tri-state updates for the ticket's own columns.
type TicketCoreUpdate struct {
	WorkTypeID domain.Optional[string]
	AssignerID domain.Optional[string]
	StatusID   domain.Optional[string]
	Details    domain.Optional[string]
	Additional domain.Optional[string]
}

// TicketUpdateInput mirrors the create shape with every section optional.
// Absent sections are left untouched; explicit nulls clear/unlink.
type TicketUpdateInput struct {
	Ticket         *TicketCoreUpdate
	Company        domain.Optional[CompanyInput]
	Site           domain.Optional[SiteInput]
	Contact        domain.Optional[ContactInput]
	Appointment    domain.Optional[AppointmentInput]
	EmployeeRefs   domain.Optional[[]domain.EmployeeRef]
	MerchandiseIDs domain.Optional[[]string]
	WorkGiverID    domain.Optional[string]
	Summarize      bool
}

// DeleteOptions controls cascade behavior on ticket deletion.
type DeleteOptions struct {
	DeleteAppointment bool
	DeleteContact     bool
}

// applyTo builds the appointment state from the input on top of current.
func (in AppointmentInput) applyTo(appt *domain.Appointment) error {
	if in.Date.Present() {
		if value, ok := in.Date.Get(); ok {
			parsed, err := time.Parse(domain.DateOnly, value)
			if err != nil {
				return apperrors.NewValidationError("appointment date must be YYYY-MM-DD", map[string]any{"date": value})
			}
			appt.Date = &parsed
		} else {
			appt.Date = nil
		}
	}
	if in.TimeStart.Present() {
		if value, ok := in.TimeStart.Get(); ok {
			appt.TimeStart = &value
		} else {
			appt.TimeStart = nil
		}
	}
	if in.TimeEnd.Present() {
		if value, ok := in.TimeEnd.Get(); ok {
			appt.TimeEnd = &value
		} else {
			appt.TimeEnd = nil
		}
	}
	if in.Type.Present() {
		if value, ok := in.Type.Get(); ok {
			appt.Type = value
		} else {
			appt.Type = domain.AppointmentCallToSchedule
		}
	}
	return nil
}
