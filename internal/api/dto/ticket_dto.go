package dto

import (
	"time"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/service"
)

// CompanyPayload resolves by id or finds-or-creates by tax id.
type CompanyPayload struct {
	ID    *string `json:"id"`
	Name  string  `json:"name"`
	TaxID string  `json:"tax_id"`
}

// SitePayload reuses by id or creates.
type SitePayload struct {
	ID              *string `json:"id"`
	CompanyID       *string `json:"company_id"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	ProvinceCode    *string `json:"province_code"`
	DistrictCode    *string `json:"district_code"`
	SubdistrictCode *string `json:"subdistrict_code"`
}

// ContactPayload reuses by id or creates.
type ContactPayload struct {
	ID    *string `json:"id"`
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email string  `json:"email"`
}

// AppointmentPayload carries tri-state schedule fields: a key that is absent
// leaves the field untouched, an explicit null clears it.
type AppointmentPayload struct {
	Date      domain.Optional[string]                 `json:"appointment_date"`
	TimeStart domain.Optional[string]                 `json:"appointment_time_start"`
	TimeEnd   domain.Optional[string]                 `json:"appointment_time_end"`
	Type      domain.Optional[domain.AppointmentType] `json:"appointment_type"`
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	WorkTypeID     string               `json:"work_type_id"`
	StatusID       string               `json:"status_id"`
	AssignerID     string               `json:"assigner_id"`
	Details        string               `json:"details"`
	Additional     string               `json:"additional"`
	Company        *CompanyPayload      `json:"company"`
	Site           *SitePayload         `json:"site"`
	Contact        *ContactPayload      `json:"contact"`
	Appointment    *AppointmentPayload  `json:"appointment"`
	Employees      []domain.EmployeeRef `json:"employees"`
	MerchandiseIDs []string             `json:"merchandise_ids"`
	WorkGiverID    *string              `json:"work_giver_id"`
	Summarize      bool                 `json:"summarize"`
}

// UpdateTicketRequest mirrors the create shape with every section optional.
type UpdateTicketRequest struct {
	WorkTypeID     domain.Optional[string]               `json:"work_type_id"`
	StatusID       domain.Optional[string]               `json:"status_id"`
	AssignerID     domain.Optional[string]               `json:"assigner_id"`
	Details        domain.Optional[string]               `json:"details"`
	Additional     domain.Optional[string]               `json:"additional"`
	Company        domain.Optional[CompanyPayload]       `json:"company"`
	Site           domain.Optional[SitePayload]          `json:"site"`
	Contact        domain.Optional[ContactPayload]       `json:"contact"`
	Appointment    domain.Optional[AppointmentPayload]   `json:"appointment"`
	Employees      domain.Optional[[]domain.EmployeeRef] `json:"employees"`
	MerchandiseIDs domain.Optional[[]string]             `json:"merchandise_ids"`
	WorkGiverID    domain.Optional[string]               `json:"work_giver_id"`
	Summarize      bool                                  `json:"summarize"`
}

// ConfirmTechniciansRequest payload.
type ConfirmTechniciansRequest struct {
	Date      string               `json:"date"`
	Employees []domain.EmployeeRef `json:"employees"`
	Notes     string               `json:"notes"`
}

// ConflictCheckRequest payload.
type ConflictCheckRequest struct {
	EmployeeIDs     []string `json:"employee_ids"`
	Date            string   `json:"date"`
	TimeStart       *string  `json:"time_start"`
	TimeEnd         *string  `json:"time_end"`
	ExcludeTicketID *string  `json:"exclude_ticket_id"`
}

// EmployeeResponse is the public shape of an employee.
type EmployeeResponse struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Nickname string                 `json:"nickname,omitempty"`
	Email    string                 `json:"email"`
	Level    domain.PermissionLevel `json:"permission_level"`
}

// TicketEmployeeResponse is an assignment row in the detail view.
type TicketEmployeeResponse struct {
	EmployeeResponse
	IsKey          bool   `json:"is_key"`
	AssignmentDate string `json:"assignment_date,omitempty"`
}

// AppointmentResponse renders the visit window.
type AppointmentResponse struct {
	ID         string  `json:"id"`
	Date       *string `json:"appointment_date"`
	TimeStart  *string `json:"appointment_time_start"`
	TimeEnd    *string `json:"appointment_time_end"`
	Type       string  `json:"appointment_type"`
	IsApproved bool    `json:"is_approved"`
}

// MerchandiseResponse renders linked equipment.
type MerchandiseResponse struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serial_number,omitempty"`
	Model        string `json:"model"`
	Brand        string `json:"brand,omitempty"`
	Capacity     string `json:"capacity,omitempty"`
}

// TicketDetailResponse is the fully joined ticket representation.
type TicketDetailResponse struct {
	ID          string                   `json:"id"`
	Details     string                   `json:"details"`
	Additional  string                   `json:"additional,omitempty"`
	Summary     *string                  `json:"summary"`
	WorkType    *RefResponse             `json:"work_type"`
	Status      *RefResponse             `json:"status"`
	Assigner    *EmployeeResponse        `json:"assigner"`
	Creator     *EmployeeResponse        `json:"creator"`
	Company     *CompanyResponse         `json:"company"`
	Site        *SiteResponse            `json:"site"`
	Contact     *ContactResponse         `json:"contact"`
	Appointment *AppointmentResponse     `json:"appointment"`
	Employees   []TicketEmployeeResponse `json:"employees"`
	Merchandise []MerchandiseResponse    `json:"merchandise"`
	WorkGiver   *WorkGiverResponse       `json:"work_giver"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// RefResponse is a generic reference row (work type, status).
type RefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// CompanyResponse renders a company.
type CompanyResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

// SiteResponse renders a site.
type SiteResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Address         string  `json:"address,omitempty"`
	ProvinceCode    *string `json:"province_code"`
	DistrictCode    *string `json:"district_code"`
	SubdistrictCode *string `json:"subdistrict_code"`
}

// ContactResponse renders a contact.
type ContactResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// WorkGiverResponse renders the commissioning party.
type WorkGiverResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ToCreateInput converts the request into the service input shape.
func (r CreateTicketRequest) ToCreateInput() service.TicketCreateInput {
	input := service.TicketCreateInput{
		Ticket: service.TicketCoreInput{
			WorkTypeID: r.WorkTypeID,
			AssignerID: r.AssignerID,
			StatusID:   r.StatusID,
			Details:    r.Details,
			Additional: r.Additional,
		},
		EmployeeRefs:   r.Employees,
		MerchandiseIDs: r.MerchandiseIDs,
		WorkGiverID:    r.WorkGiverID,
		Summarize:      r.Summarize,
	}
	if r.Company != nil {
		input.Company = companyInput(*r.Company)
	}
	if r.Site != nil {
		input.Site = siteInput(*r.Site)
	}
	if r.Contact != nil {
		input.Contact = contactInput(*r.Contact)
	}
	if r.Appointment != nil {
		in := appointmentInput(*r.Appointment)
		input.Appointment = &in
	}
	return input
}

// ToUpdateInput converts the request into the service input shape,
// preserving the absent/null/value distinction of every section.
func (r UpdateTicketRequest) ToUpdateInput() service.TicketUpdateInput {
	input := service.TicketUpdateInput{
		EmployeeRefs:   r.Employees,
		MerchandiseIDs: r.MerchandiseIDs,
		WorkGiverID:    r.WorkGiverID,
		Summarize:      r.Summarize,
	}
	if r.WorkTypeID.Present() || r.StatusID.Present() || r.AssignerID.Present() || r.Details.Present() || r.Additional.Present() {
		input.Ticket = &service.TicketCoreUpdate{
			WorkTypeID: r.WorkTypeID,
			AssignerID: r.AssignerID,
			StatusID:   r.StatusID,
			Details:    r.Details,
			Additional: r.Additional,
		}
	}
	input.Company = mapOptional(r.Company, func(p CompanyPayload) service.CompanyInput { return *companyInput(p) })
	input.Site = mapOptional(r.Site, func(p SitePayload) service.SiteInput { return *siteInput(p) })
	input.Contact = mapOptional(r.Contact, func(p ContactPayload) service.ContactInput { return *contactInput(p) })
	input.Appointment = mapOptional(r.Appointment, appointmentInput)
	return input
}

func mapOptional[A, B any](o domain.Optional[A], fn func(A) B) domain.Optional[B] {
	if !o.Present() {
		return domain.Optional[B]{}
	}
	if v, ok := o.Get(); ok {
		return domain.Set(fn(v))
	}
	return domain.Null[B]()
}

func companyInput(p CompanyPayload) *service.CompanyInput {
	return &service.CompanyInput{ID: p.ID, Name: p.Name, TaxID: p.TaxID}
}

func siteInput(p SitePayload) *service.SiteInput {
	return &service.SiteInput{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		Name:            p.Name,
		Address:         p.Address,
		ProvinceCode:    p.ProvinceCode,
		DistrictCode:    p.DistrictCode,
		SubdistrictCode: p.SubdistrictCode,
	}
}

func contactInput(p ContactPayload) *service.ContactInput {
	return &service.ContactInput{ID: p.ID, Name: p.Name, Phone: p.Phone, Email: p.Email}
}

func appointmentInput(p AppointmentPayload) service.AppointmentInput {
	return service.AppointmentInput{
		Date:      p.Date,
		TimeStart: p.TimeStart,
		TimeEnd:   p.TimeEnd,
		Type:      p.Type,
	}
}
