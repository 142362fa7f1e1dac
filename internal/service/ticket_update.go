package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/events"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

// Update applies a partial update across the ticket and its sub-entities.
// Absent sections are untouched, explicit nulls clear. All actual changes
// collapse into one audit entry; an appointment-related change made by a
// non-approver on an approved ticket additionally withdraws the approval.
func (s *TicketService) Update(ctx context.Context, ticketID string, input TicketUpdateInput, actorID string) (*domain.TicketDetail, error) {
	if actorID == "" {
		return nil, apperrors.NewValidationError("actor employee id is required", nil)
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	// Pre-change snapshot for the cascade decision: the approval state and
	// the actor's privilege are read before anything is written.
	var currentAppt *domain.Appointment
	wasApproved := false
	if ticket.AppointmentID != nil {
		if appt, err := s.appointments.GetByID(ctx, *ticket.AppointmentID); err == nil {
			currentAppt = appt
			wasApproved = appt.IsApproved
		}
	}
	actorIsApprover := false
	if actor, err := s.employees.GetByID(ctx, actorID); err == nil {
		actorIsApprover = actor.Level.CanApprove()
	}

	diff := newTicketDiff()

	if input.Ticket != nil {
		applyCoreUpdate(ticket, *input.Ticket, diff)
	}

	if err := s.applySiteUpdate(ctx, ticket, input, diff); err != nil {
		return nil, err
	}
	if err := s.applyContactUpdate(ctx, ticket, input.Contact, diff); err != nil {
		return nil, err
	}

	currentAppt, err = s.applyAppointmentUpdate(ctx, ticket, input.Appointment, currentAppt, diff)
	if err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.EmployeeRefs.Present() {
		if err := s.replaceAssignments(ctx, ticket, input.EmployeeRefs, currentAppt, diff); err != nil {
			return nil, err
		}
	}

	if input.MerchandiseIDs.Present() {
		if err := s.replaceMerchandise(ctx, ticket, input.MerchandiseIDs, diff); err != nil {
			return nil, err
		}
	}

	if input.WorkGiverID.Present() {
		if err := s.replaceWorkGiver(ctx, ticket, input.WorkGiverID, diff); err != nil {
			return nil, err
		}
	}

	if input.Summarize {
		s.refreshSummary(ctx, ticket)
	}

	if !diff.empty() {
		s.audit.Record(ctx, &domain.AuditEntry{
			TicketID:      ticketID,
			Action:        domain.AuditUpdated,
			ChangedByID:   actorID,
			OldValues:     diff.oldValues,
			NewValues:     diff.newValues,
			ChangedFields: diff.fields,
		})
	}

	if wasApproved && !actorIsApprover && ticket.AppointmentID != nil && diff.appointmentRelated() {
		s.autoUnapprove(ctx, ticket, actorID, diff.fields)
	}

	return s.GetDetail(ctx, ticketID)
}

func applyCoreUpdate(ticket *domain.Ticket, core TicketCoreUpdate, diff *ticketDiff) {
	if value, ok := core.WorkTypeID.Get(); ok {
		diff.compareString("work_type_id", ticket.WorkTypeID, value)
		ticket.WorkTypeID = value
	}
	if value, ok := core.AssignerID.Get(); ok {
		diff.compareString("assigner_id", ticket.AssignerID, value)
		ticket.AssignerID = value
	}
	if value, ok := core.StatusID.Get(); ok {
		diff.compareString("status_id", ticket.StatusID, value)
		ticket.StatusID = value
	}
	if core.Details.Present() {
		value, _ := core.Details.Get()
		diff.compareString("details", ticket.Details, value)
		ticket.Details = value
	}
	if core.Additional.Present() {
		value, _ := core.Additional.Get()
		diff.compareString("additional", ticket.Additional, value)
		ticket.Additional = value
	}
}

func (s *TicketService) applySiteUpdate(ctx context.Context, ticket *domain.Ticket, input TicketUpdateInput, diff *ticketDiff) error {
	// The company section resolves on its own, so a company-only update
	// still finds-or-creates the row the same way create does.
	var company *domain.Company
	if companyInput, ok := input.Company.Get(); ok {
		resolved, _, err := s.resolveCompany(ctx, &companyInput)
		if err != nil {
			return err
		}
		company = resolved
	}

	if !input.Site.Present() {
		return nil
	}
	siteInput, ok := input.Site.Get()
	if !ok {
		diff.comparePtr("site_id", ticket.SiteID, nil)
		ticket.SiteID = nil
		return nil
	}
	site, _, err := s.resolveSite(ctx, &siteInput, company)
	if err != nil {
		return err
	}
	diff.comparePtr("site_id", ticket.SiteID, &site.ID)
	ticket.SiteID = &site.ID
	return nil
}

func (s *TicketService) applyContactUpdate(ctx context.Context, ticket *domain.Ticket, optional domain.Optional[ContactInput], diff *ticketDiff) error {
	if !optional.Present() {
		return nil
	}
	contactInput, ok := optional.Get()
	if !ok {
		diff.comparePtr("contact_id", ticket.ContactID, nil)
		ticket.ContactID = nil
		return nil
	}
	// A contact created here belongs to the ticket's site, same as on
	// create. The site update has already been applied at this point.
	var site *domain.Site
	if ticket.SiteID != nil {
		if resolved, err := s.sites.GetByID(ctx, *ticket.SiteID); err == nil {
			site = resolved
		}
	}
	contact, _, err := s.resolveContact(ctx, &contactInput, site)
	if err != nil {
		return err
	}
	diff.comparePtr("contact_id", ticket.ContactID, &contact.ID)
	ticket.ContactID = &contact.ID
	return nil
}

// applyAppointmentUpdate mutates or detaches the linked appointment and
// returns the appointment state after the change.
func (s *TicketService) applyAppointmentUpdate(ctx context.Context, ticket *domain.Ticket, optional domain.Optional[AppointmentInput], currentAppt *domain.Appointment, diff *ticketDiff) (*domain.Appointment, error) {
	if !optional.Present() {
		return currentAppt, nil
	}
	apptInput, ok := optional.Get()
	if !ok {
		if ticket.AppointmentID == nil {
			return currentAppt, nil
		}
		old := *ticket.AppointmentID
		if err := s.appointments.Delete(ctx, old); err != nil {
			return nil, apperrors.MapError(err)
		}
		diff.add("appointment_id", old, "")
		ticket.AppointmentID = nil
		return nil, nil
	}

	if currentAppt == nil {
		created := &domain.Appointment{Type: domain.AppointmentCallToSchedule}
		if err := apptInput.applyTo(created); err != nil {
			return nil, err
		}
		if err := s.appointments.Create(ctx, created); err != nil {
			return nil, apperrors.MapError(err)
		}
		// A brand-new appointment is one change: the link. Field-level
		// dotted paths are only recorded for edits to an existing one.
		diff.add("appointment_id", "", created.ID)
		ticket.AppointmentID = &created.ID
		return created, nil
	}

	before := *currentAppt
	if err := apptInput.applyTo(currentAppt); err != nil {
		return nil, err
	}
	diff.diffAppointment(&before, currentAppt)
	if err := s.appointments.Update(ctx, currentAppt); err != nil {
		return nil, apperrors.MapError(err)
	}
	return currentAppt, nil
}

// replaceAssignments swaps the whole assignment set; a null input clears it.
func (s *TicketService) replaceAssignments(ctx context.Context, ticket *domain.Ticket, optional domain.Optional[[]domain.EmployeeRef], currentAppt *domain.Appointment, diff *ticketDiff) error {
	oldIDs := []string{}
	if rows, err := s.assignments.ListByTicket(ctx, ticket.ID); err == nil {
		for _, row := range rows {
			oldIDs = append(oldIDs, row.EmployeeID)
		}
	}

	refs, _ := optional.Get()
	normalized := domain.NormalizeEmployeeRefs(refs)

	if err := s.assignments.DeleteByTicket(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}
	if len(normalized) > 0 {
		if err := s.insertAssignments(ctx, ticket.ID, normalized, assignmentDate(currentAppt)); err != nil {
			return err
		}
	}

	newIDs := domain.EmployeeIDs(normalized)
	if !equalIDSets(oldIDs, newIDs) {
		diff.add("employee_ids", oldIDs, newIDs)
	}
	return nil
}

func (s *TicketService) replaceMerchandise(ctx context.Context, ticket *domain.Ticket, optional domain.Optional[[]string], diff *ticketDiff) error {
	oldIDs := []string{}
	if items, err := s.merchandise.ListByTicket(ctx, ticket.ID); err == nil {
		for _, item := range items {
			oldIDs = append(oldIDs, item.ID)
		}
	}

	ids, _ := optional.Get()

	if err := s.merchandise.DeleteLinksByTicket(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}
	if len(ids) > 0 {
		if err := s.linkMerchandise(ctx, ticket, ids); err != nil {
			return err
		}
	}

	if !equalIDSets(oldIDs, ids) {
		diff.add("merchandise_ids", oldIDs, ids)
	}
	return nil
}

func (s *TicketService) replaceWorkGiver(ctx context.Context, ticket *domain.Ticket, optional domain.Optional[string], diff *ticketDiff) error {
	var oldID string
	hadLink := false
	if link, err := s.workGivers.GetLinkByTicket(ctx, ticket.ID); err == nil {
		oldID = link.WorkGiverID
		hadLink = true
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}

	newID, ok := optional.Get()
	if !ok {
		if hadLink {
			if err := s.workGivers.DeleteLinkByTicket(ctx, ticket.ID); err != nil {
				return apperrors.MapError(err)
			}
			diff.add("work_giver_id", oldID, "")
		}
		return nil
	}

	if err := s.linkWorkGiver(ctx, ticket.ID, newID); err != nil {
		return err
	}
	if oldID != newID {
		diff.add("work_giver_id", oldID, newID)
	}
	return nil
}

func (s *TicketService) refreshSummary(ctx context.Context, ticket *domain.Ticket) {
	detail, err := s.GetDetail(ctx, ticket.ID)
	if err != nil {
		s.logger.Warn("summary refresh skipped", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	var location *domain.LocationRecord
	if detail.Site != nil && s.locations != nil {
		records, err := s.locations.BatchResolve(ctx, []domain.LocationQuery{{
			ProvinceCode:    deref(detail.Site.ProvinceCode),
			DistrictCode:    deref(detail.Site.DistrictCode),
			SubdistrictCode: deref(detail.Site.SubdistrictCode),
			Address:         detail.Site.Address,
		}})
		if err == nil && len(records) == 1 {
			location = &records[0]
		}
	}
	summary := buildTicketSummary(detail, location)
	if summary == "" {
		return
	}
	ticket.Summary = &summary
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Warn("summary persist failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
}

// autoUnapprove withdraws the approval after a schedule-affecting edit by a
// non-approver, records it, and notifies interested parties.
func (s *TicketService) autoUnapprove(ctx context.Context, ticket *domain.Ticket, actorID string, changedFields []string) {
	if err := s.appointments.SetApproval(ctx, *ticket.AppointmentID, false); err != nil {
		s.logger.Error("auto-unapproval write failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return
	}
	entry := s.audit.Record(ctx, &domain.AuditEntry{
		TicketID:      ticket.ID,
		Action:        domain.AuditUnapproved,
		ChangedByID:   actorID,
		NewValues:     map[string]any{"is_approved": false},
		ChangedFields: []string{"appointment.is_approved"},
		Metadata:      map[string]any{"auto_unapproved": true},
	})
	auditID := ""
	if entry != nil {
		auditID = entry.ID
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketUnapproved,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketUnapprovedPayload{
			EditorID:      actorID,
			AuditID:       auditID,
			SiteName:      s.siteName(ctx, ticket),
			Auto:          true,
			ChangedFields: changedFields,
		},
	})
}
