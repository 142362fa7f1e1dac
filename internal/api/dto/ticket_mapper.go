package dto

import (
	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// FromTicketDetail renders the joined aggregate for the API.
func FromTicketDetail(detail *domain.TicketDetail) TicketDetailResponse {
	resp := TicketDetailResponse{
		ID:          detail.Ticket.ID,
		Details:     detail.Ticket.Details,
		Additional:  detail.Ticket.Additional,
		Summary:     detail.Ticket.Summary,
		Employees:   []TicketEmployeeResponse{},
		Merchandise: []MerchandiseResponse{},
		CreatedAt:   detail.Ticket.CreatedAt,
		UpdatedAt:   detail.Ticket.UpdatedAt,
	}

	if detail.WorkType != nil {
		resp.WorkType = &RefResponse{ID: detail.WorkType.ID, Name: detail.WorkType.Name, Code: detail.WorkType.Code}
	}
	if detail.Status != nil {
		resp.Status = &RefResponse{ID: detail.Status.ID, Name: detail.Status.Name, Code: detail.Status.Code}
	}
	if detail.Assigner != nil {
		resp.Assigner = employeeResponse(*detail.Assigner)
	}
	if detail.Creator != nil {
		resp.Creator = employeeResponse(*detail.Creator)
	}
	if detail.Company != nil {
		resp.Company = &CompanyResponse{ID: detail.Company.ID, Name: detail.Company.Name, TaxID: detail.Company.TaxID}
	}
	if detail.Site != nil {
		resp.Site = &SiteResponse{
			ID:              detail.Site.ID,
			Name:            detail.Site.Name,
			Address:         detail.Site.Address,
			ProvinceCode:    detail.Site.ProvinceCode,
			DistrictCode:    detail.Site.DistrictCode,
			SubdistrictCode: detail.Site.SubdistrictCode,
		}
	}
	if detail.Contact != nil {
		resp.Contact = &ContactResponse{
			ID:    detail.Contact.ID,
			Name:  detail.Contact.Name,
			Phone: detail.Contact.Phone,
			Email: detail.Contact.Email,
		}
	}
	if detail.Appointment != nil {
		resp.Appointment = appointmentResponse(detail.Appointment)
	}
	if detail.WorkGiver != nil {
		resp.WorkGiver = &WorkGiverResponse{ID: detail.WorkGiver.ID, Name: detail.WorkGiver.Name}
	}

	for _, assigned := range detail.Employees {
		row := TicketEmployeeResponse{
			EmployeeResponse: *employeeResponse(assigned.Employee),
			IsKey:            assigned.IsKey,
		}
		if !assigned.AssignmentDate.IsZero() {
			row.AssignmentDate = assigned.AssignmentDate.Format(domain.DateOnly)
		}
		resp.Employees = append(resp.Employees, row)
	}
	for _, linked := range detail.Merchandise {
		resp.Merchandise = append(resp.Merchandise, MerchandiseResponse{
			ID:           linked.Merchandise.ID,
			SerialNumber: linked.Merchandise.SerialNumber,
			Model:        linked.Merchandise.Model,
			Brand:        linked.Merchandise.Brand,
			Capacity:     linked.Merchandise.Capacity,
		})
	}

	return resp
}

func employeeResponse(emp domain.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:       emp.ID,
		Name:     emp.Name,
		Nickname: emp.Nickname,
		Email:    emp.Email,
		Level:    emp.Level,
	}
}

func appointmentResponse(appt *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:         appt.ID,
		TimeStart:  appt.TimeStart,
		TimeEnd:    appt.TimeEnd,
		Type:       string(appt.Type),
		IsApproved: appt.IsApproved,
	}
	if appt.Date != nil {
		formatted := appt.Date.Format(domain.DateOnly)
		resp.Date = &formatted
	}
	return resp
}
