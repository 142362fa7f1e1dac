package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/events"
	"github.com/loongallday/pdeservice-spb-sub004/internal/repository"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

// TicketService orchestrates a ticket together with its owned sub-entities.
// Every step is an independent store call with no ambient transaction: on
// error, later steps are skipped but earlier writes persist, and the audit
// trail is the record of what happened.
type TicketService struct {
	tickets      repository.TicketRepository
	appointments repository.AppointmentRepository
	companies    repository.CompanyRepository
	sites        repository.SiteRepository
	contacts     repository.ContactRepository
	employees    repository.EmployeeRepository
	assignments  repository.AssignmentRepository
	merchandise  repository.MerchandiseRepository
	workGivers   repository.WorkGiverRepository
	references   repository.ReferenceRepository
	audit        *AuditService
	locations    *LocationService
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// TicketDependencies bundles repositories for the orchestrator.
type TicketDependencies struct {
	TicketRepo      repository.TicketRepository
	AppointmentRepo repository.AppointmentRepository
	CompanyRepo     repository.CompanyRepository
	SiteRepo        repository.SiteRepository
	ContactRepo     repository.ContactRepository
	EmployeeRepo    repository.EmployeeRepository
	AssignmentRepo  repository.AssignmentRepository
	MerchandiseRepo repository.MerchandiseRepository
	WorkGiverRepo   repository.WorkGiverRepository
	ReferenceRepo   repository.ReferenceRepository
	Audit           *AuditService
	Locations       *LocationService
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewTicketService constructs the orchestrator.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:      deps.TicketRepo,
		appointments: deps.AppointmentRepo,
		companies:    deps.CompanyRepo,
		sites:        deps.SiteRepo,
		contacts:     deps.ContactRepo,
		employees:    deps.EmployeeRepo,
		assignments:  deps.AssignmentRepo,
		merchandise:  deps.MerchandiseRepo,
		workGivers:   deps.WorkGiverRepo,
		references:   deps.ReferenceRepo,
		audit:        deps.Audit,
		locations:    deps.Locations,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
	}
}

// Create builds a ticket plus its owned sub-entities as ordered store
// steps, records the creation audit entry and fires watcher/approver side
// effects.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput, actorID string) (*domain.TicketDetail, error) {
	if err := validateCore(input.Ticket, actorID); err != nil {
		return nil, err
	}

	company, companyCreated, err := s.resolveCompany(ctx, input.Company)
	if err != nil {
		return nil, err
	}
	site, siteCreated, err := s.resolveSite(ctx, input.Site, company)
	if err != nil {
		return nil, err
	}
	contact, contactCreated, err := s.resolveContact(ctx, input.Contact, site)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Details:    input.Ticket.Details,
		Additional: input.Ticket.Additional,
		WorkTypeID: input.Ticket.WorkTypeID,
		StatusID:   input.Ticket.StatusID,
		AssignerID: input.Ticket.AssignerID,
		CreatorID:  actorID,
	}
	if site != nil {
		ticket.SiteID = &site.ID
	}
	if contact != nil {
		ticket.ContactID = &contact.ID
	}

	if input.Summarize {
		if summary := s.generateSummary(ctx, input, company, site, contact); summary != "" {
			ticket.Summary = &summary
		}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	// An appointment row always exists, even when the caller supplied no
	// fields; a dateless one marks a backlog ticket.
	appointment := &domain.Appointment{Type: domain.AppointmentCallToSchedule}
	if input.Appointment != nil {
		if err := input.Appointment.applyTo(appointment); err != nil {
			return nil, err
		}
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.AppointmentID = &appointment.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	refs := domain.NormalizeEmployeeRefs(input.EmployeeRefs)
	if len(refs) > 0 {
		if err := s.insertAssignments(ctx, ticket.ID, refs, assignmentDate(appointment)); err != nil {
			return nil, err
		}
	}

	if len(input.MerchandiseIDs) > 0 {
		if err := s.linkMerchandise(ctx, ticket, input.MerchandiseIDs); err != nil {
			return nil, err
		}
	}

	if input.WorkGiverID != nil {
		if err := s.linkWorkGiver(ctx, ticket.ID, *input.WorkGiverID); err != nil {
			return nil, err
		}
	}

	entry := s.audit.Record(ctx, &domain.AuditEntry{
		TicketID:    ticket.ID,
		Action:      domain.AuditCreated,
		ChangedByID: actorID,
		NewValues:   createSnapshot(ticket, appointment, refs, input.MerchandiseIDs, input.WorkGiverID),
		Metadata: map[string]any{
			"company_created":     companyCreated,
			"site_created":        siteCreated,
			"contact_created":     contactCreated,
			"appointment_created": true,
		},
	})

	s.publishCreated(ctx, ticket, site, entry)

	return s.GetDetail(ctx, ticket.ID)
}

// Delete removes the ticket after snapshotting it for the audit trail.
// Join-table rows cascade with the ticket row.
func (s *TicketService) Delete(ctx context.Context, ticketID, actorID string, opts DeleteOptions) error {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return err
	}

	assignmentIDs := []string{}
	if rows, err := s.assignments.ListByTicket(ctx, ticketID); err == nil {
		for _, row := range rows {
			assignmentIDs = append(assignmentIDs, row.EmployeeID)
		}
	}
	merchandiseIDs := []string{}
	if items, err := s.merchandise.ListByTicket(ctx, ticketID); err == nil {
		for _, item := range items {
			merchandiseIDs = append(merchandiseIDs, item.ID)
		}
	}

	if opts.DeleteAppointment && ticket.AppointmentID != nil {
		if err := s.appointments.Delete(ctx, *ticket.AppointmentID); err != nil {
			s.logger.Warn("appointment delete failed, continuing ticket delete",
				zap.String("ticket_id", ticketID),
				zap.String("appointment_id", *ticket.AppointmentID),
				zap.Error(err))
		}
	}

	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}

	s.audit.Record(ctx, &domain.AuditEntry{
		TicketID:    ticketID,
		Action:      domain.AuditDeleted,
		ChangedByID: actorID,
		OldValues:   deleteSnapshot(ticket, assignmentIDs, merchandiseIDs),
	})

	if opts.DeleteContact && ticket.ContactID != nil {
		count, err := s.tickets.CountByContact(ctx, *ticket.ContactID)
		if err == nil && count == 0 {
			if err := s.contacts.Delete(ctx, *ticket.ContactID); err != nil {
				s.logger.Warn("orphaned contact delete failed",
					zap.String("contact_id", *ticket.ContactID),
					zap.Error(err))
			}
		}
	}
	return nil
}

// RemoveTicketEmployee point-deletes one assignment row by its triple key.
func (s *TicketService) RemoveTicketEmployee(ctx context.Context, ticketID, employeeID string, date time.Time, actorID string) error {
	if ticketID == "" || employeeID == "" {
		return apperrors.NewValidationError("ticket_id and employee_id are required", nil)
	}
	if date.IsZero() {
		return apperrors.NewValidationError("assignment date is required", nil)
	}
	if err := s.assignments.DeleteByKey(ctx, ticketID, employeeID, date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee assignment", map[string]any{
				"ticket_id":   ticketID,
				"employee_id": employeeID,
				"date":        date.Format(domain.DateOnly),
			})
		}
		return apperrors.MapError(err)
	}
	s.audit.Record(ctx, &domain.AuditEntry{
		TicketID:    ticketID,
		Action:      domain.AuditEmployeeRemoved,
		ChangedByID: actorID,
		OldValues: map[string]any{
			"employee_id":     employeeID,
			"assignment_date": date.Format(domain.DateOnly),
		},
	})
	return nil
}

// ApproveAppointment marks the linked appointment approved.
func (s *TicketService) ApproveAppointment(ctx context.Context, ticketID, actorID string) error {
	return s.setApproval(ctx, ticketID, actorID, true)
}

// UnapproveAppointment withdraws an approval explicitly.
func (s *TicketService) UnapproveAppointment(ctx context.Context, ticketID, actorID string) error {
	return s.setApproval(ctx, ticketID, actorID, false)
}

func (s *TicketService) setApproval(ctx context.Context, ticketID, actorID string, approved bool) error {
	actor, err := s.employees.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", map[string]any{"employee_id": actorID})
		}
		return apperrors.MapError(err)
	}
	if !actor.Level.CanApprove() {
		return apperrors.NewForbidden("appointment approval requires approver privilege")
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.AppointmentID == nil {
		return apperrors.NewValidationError("ticket has no appointment", nil)
	}
	if err := s.appointments.SetApproval(ctx, *ticket.AppointmentID, approved); err != nil {
		return apperrors.MapError(err)
	}

	action := domain.AuditApproved
	if !approved {
		action = domain.AuditUnapproved
	}
	entry := s.audit.Record(ctx, &domain.AuditEntry{
		TicketID:      ticketID,
		Action:        action,
		ChangedByID:   actorID,
		NewValues:     map[string]any{"is_approved": approved},
		ChangedFields: []string{"appointment.is_approved"},
	})

	siteName := s.siteName(ctx, ticket)
	auditID := ""
	if entry != nil {
		auditID = entry.ID
	}
	if approved {
		s.publish(ctx, events.Event{
			Type:     events.EventAppointmentApproved,
			TicketID: ticketID,
			ActorID:  actorID,
			Payload: events.AppointmentApprovedPayload{
				ApproverID: actorID,
				AuditID:    auditID,
				CreatorID:  ticket.CreatorID,
				SiteName:   siteName,
			},
		})
	} else {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketUnapproved,
			TicketID: ticketID,
			ActorID:  actorID,
			Payload: events.TicketUnapprovedPayload{
				EditorID: actorID,
				AuditID:  auditID,
				SiteName: siteName,
			},
		})
	}
	return nil
}

// GetDetail returns the fully joined ticket representation.
func (s *TicketService) GetDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	detail := &domain.TicketDetail{Ticket: *ticket}

	if wt, err := s.references.GetWorkType(ctx, ticket.WorkTypeID); err == nil {
		detail.WorkType = wt
	}
	if st, err := s.references.GetStatus(ctx, ticket.StatusID); err == nil {
		detail.Status = st
	}
	if emp, err := s.employees.GetByID(ctx, ticket.AssignerID); err == nil {
		detail.Assigner = emp
	}
	if emp, err := s.employees.GetByID(ctx, ticket.CreatorID); err == nil {
		detail.Creator = emp
	}
	if ticket.SiteID != nil {
		if site, err := s.sites.GetByID(ctx, *ticket.SiteID); err == nil {
			detail.Site = site
			if site.CompanyID != nil {
				if company, err := s.companies.GetByID(ctx, *site.CompanyID); err == nil {
					detail.Company = company
				}
			}
		}
	}
	if ticket.ContactID != nil {
		if contact, err := s.contacts.GetByID(ctx, *ticket.ContactID); err == nil {
			detail.Contact = contact
		}
	}
	if ticket.AppointmentID != nil {
		if appt, err := s.appointments.GetByID(ctx, *ticket.AppointmentID); err == nil {
			detail.Appointment = appt
		}
	}

	rows, err := s.assignments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(rows) > 0 {
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.EmployeeID)
		}
		list, err := s.employees.ListByIDs(ctx, ids)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		byID := make(map[string]domain.Employee, len(list))
		for _, emp := range list {
			byID[emp.ID] = emp
		}
		for _, row := range rows {
			detail.Employees = append(detail.Employees, domain.TicketEmployee{
				Employee:       byID[row.EmployeeID],
				IsKey:          row.IsKey,
				AssignmentDate: row.AssignmentDate,
			})
		}
	}

	items, err := s.merchandise.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, item := range items {
		detail.Merchandise = append(detail.Merchandise, domain.TicketMerchandise{Merchandise: item})
	}

	if link, err := s.workGivers.GetLinkByTicket(ctx, ticketID); err == nil {
		if giver, err := s.workGivers.GetByID(ctx, link.WorkGiverID); err == nil {
			detail.WorkGiver = giver
		}
	}

	return detail, nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if ticketID == "" {
		return nil, apperrors.NewValidationError("ticket_id is required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) resolveCompany(ctx context.Context, input *CompanyInput) (*domain.Company, bool, error) {
	if input == nil {
		return nil, false, nil
	}
	if input.ID != nil {
		company, err := s.companies.GetByID(ctx, *input.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, false, apperrors.NewNotFound("company", map[string]any{"company_id": *input.ID})
			}
			return nil, false, apperrors.MapError(err)
		}
		return company, false, nil
	}
	if input.TaxID == "" {
		return nil, false, apperrors.NewValidationError("company tax_id is required", nil)
	}
	company, err := s.companies.GetByTaxID(ctx, input.TaxID)
	if err == nil {
		// Existing company is reused as-is, never merged with the input.
		return company, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, apperrors.MapError(err)
	}
	created := &domain.Company{Name: input.Name, TaxID: input.TaxID}
	if err := s.companies.Create(ctx, created); err != nil {
		return nil, false, apperrors.MapError(err)
	}
	return created, true, nil
}

func (s *TicketService) resolveSite(ctx context.Context, input *SiteInput, company *domain.Company) (*domain.Site, bool, error) {
	if input == nil {
		return nil, false, nil
	}
	if input.ID != nil {
		site, err := s.sites.GetByID(ctx, *input.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, false, apperrors.NewNotFound("site", map[string]any{"site_id": *input.ID})
			}
			return nil, false, apperrors.MapError(err)
		}
		return site, false, nil
	}
	created := &domain.Site{
		CompanyID:       input.CompanyID,
		Name:            input.Name,
		Address:         input.Address,
		ProvinceCode:    input.ProvinceCode,
		DistrictCode:    input.DistrictCode,
		SubdistrictCode: input.SubdistrictCode,
	}
	if created.CompanyID == nil && company != nil {
		created.CompanyID = &company.ID
	}
	if err := s.sites.Create(ctx, created); err != nil {
		return nil, false, apperrors.MapError(err)
	}
	return created, true, nil
}

func (s *TicketService) resolveContact(ctx context.Context, input *ContactInput, site *domain.Site) (*domain.Contact, bool, error) {
	if input == nil {
		return nil, false, nil
	}
	if input.ID != nil {
		contact, err := s.contacts.GetByID(ctx, *input.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, false, apperrors.NewNotFound("contact", map[string]any{"contact_id": *input.ID})
			}
			return nil, false, apperrors.MapError(err)
		}
		return contact, false, nil
	}
	created := &domain.Contact{Name: input.Name, Phone: input.Phone, Email: input.Email}
	if site != nil {
		created.SiteID = &site.ID
	}
	if err := s.contacts.Create(ctx, created); err != nil {
		return nil, false, apperrors.MapError(err)
	}
	return created, true, nil
}

func (s *TicketService) insertAssignments(ctx context.Context, ticketID string, refs []domain.EmployeeRef, date time.Time) error {
	rows := make([]domain.EmployeeAssignment, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, domain.EmployeeAssignment{
			TicketID:       ticketID,
			EmployeeID:     ref.ID,
			AssignmentDate: date,
			IsKey:          ref.IsKey,
		})
	}
	if err := s.assignments.Insert(ctx, rows); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.NewValidationError("employee already assigned on this date", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// linkMerchandise validates the whole batch first: missing ids and
// cross-site equipment reject everything, naming the offenders.
func (s *TicketService) linkMerchandise(ctx context.Context, ticket *domain.Ticket, merchandiseIDs []string) error {
	items, err := s.merchandise.ListByIDs(ctx, merchandiseIDs)
	if err != nil {
		return apperrors.MapError(err)
	}
	byID := make(map[string]domain.Merchandise, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	missing := []string{}
	for _, id := range merchandiseIDs {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewNotFound("merchandise", map[string]any{"merchandise_ids": missing})
	}

	crossSite := []string{}
	for _, id := range merchandiseIDs {
		item := byID[id]
		if item.SiteID == nil {
			continue
		}
		if ticket.SiteID == nil || *item.SiteID != *ticket.SiteID {
			crossSite = append(crossSite, id)
		}
	}
	if len(crossSite) > 0 {
		return apperrors.NewValidationError("merchandise does not belong to the ticket site", map[string]any{"merchandise_ids": crossSite})
	}

	return apperrors.MapError(s.merchandise.InsertLinks(ctx, ticket.ID, merchandiseIDs))
}

func (s *TicketService) linkWorkGiver(ctx context.Context, ticketID, workGiverID string) error {
	giver, err := s.workGivers.GetByID(ctx, workGiverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("work giver", map[string]any{"work_giver_id": workGiverID})
		}
		return apperrors.MapError(err)
	}
	if !giver.Active {
		return apperrors.NewValidationError("work giver is not active", map[string]any{"work_giver_id": workGiverID})
	}
	return apperrors.MapError(s.workGivers.SetLink(ctx, ticketID, workGiverID))
}

// generateSummary is best-effort enrichment: every lookup failure just
// leaves that part out.
func (s *TicketService) generateSummary(ctx context.Context, input TicketCreateInput, company *domain.Company, site *domain.Site, contact *domain.Contact) string {
	detail := &domain.TicketDetail{Company: company, Site: site, Contact: contact}

	if input.Appointment != nil {
		appt := &domain.Appointment{Type: domain.AppointmentCallToSchedule}
		if err := input.Appointment.applyTo(appt); err == nil {
			detail.Appointment = appt
		}
	}

	if wt, err := s.references.GetWorkType(ctx, input.Ticket.WorkTypeID); err == nil {
		detail.WorkType = wt
	}
	if st, err := s.references.GetStatus(ctx, input.Ticket.StatusID); err == nil {
		detail.Status = st
	}
	if emp, err := s.employees.GetByID(ctx, input.Ticket.AssignerID); err == nil {
		detail.Assigner = emp
	}
	refs := domain.NormalizeEmployeeRefs(input.EmployeeRefs)
	if len(refs) > 0 {
		if list, err := s.employees.ListByIDs(ctx, domain.EmployeeIDs(refs)); err == nil {
			byID := make(map[string]domain.Employee, len(list))
			for _, emp := range list {
				byID[emp.ID] = emp
			}
			for _, ref := range refs {
				detail.Employees = append(detail.Employees, domain.TicketEmployee{
					Employee: byID[ref.ID],
					IsKey:    ref.IsKey,
				})
			}
		}
	}
	if len(input.MerchandiseIDs) > 0 {
		if items, err := s.merchandise.ListByIDs(ctx, input.MerchandiseIDs); err == nil {
			for _, item := range items {
				detail.Merchandise = append(detail.Merchandise, domain.TicketMerchandise{Merchandise: item})
			}
		}
	}
	if input.WorkGiverID != nil {
		if giver, err := s.workGivers.GetByID(ctx, *input.WorkGiverID); err == nil {
			detail.WorkGiver = giver
		}
	}

	var location *domain.LocationRecord
	if site != nil && s.locations != nil {
		records, err := s.locations.BatchResolve(ctx, []domain.LocationQuery{{
			ProvinceCode:    deref(site.ProvinceCode),
			DistrictCode:    deref(site.DistrictCode),
			SubdistrictCode: deref(site.SubdistrictCode),
			Address:         site.Address,
		}})
		if err == nil && len(records) == 1 {
			location = &records[0]
		}
	}

	return buildTicketSummary(detail, location)
}

func (s *TicketService) siteName(ctx context.Context, ticket *domain.Ticket) string {
	if ticket.SiteID == nil {
		return ""
	}
	site, err := s.sites.GetByID(ctx, *ticket.SiteID)
	if err != nil {
		return ""
	}
	return site.Name
}

func (s *TicketService) publishCreated(ctx context.Context, ticket *domain.Ticket, site *domain.Site, entry *domain.AuditEntry) {
	auditID := ""
	if entry != nil {
		auditID = entry.ID
	}
	siteName := ""
	if site != nil {
		siteName = site.Name
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  ticket.CreatorID,
		Payload: events.TicketCreatedPayload{
			CreatorID:  ticket.CreatorID,
			AssignerID: ticket.AssignerID,
			AuditID:    auditID,
			SiteName:   siteName,
			Summary:    ticket.Summary,
		},
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateCore(core TicketCoreInput, actorID string) error {
	if actorID == "" {
		return apperrors.NewValidationError("actor employee id is required", nil)
	}
	if core.WorkTypeID == "" {
		return apperrors.NewValidationError("work_type_id is required", nil)
	}
	if core.AssignerID == "" {
		return apperrors.NewValidationError("assigner_id is required", nil)
	}
	if core.StatusID == "" {
		return apperrors.NewValidationError("status_id is required", nil)
	}
	return nil
}

func assignmentDate(appointment *domain.Appointment) time.Time {
	if appointment != nil && appointment.Date != nil {
		return *appointment.Date
	}
	return time.Now().Truncate(24 * time.Hour)
}

func createSnapshot(ticket *domain.Ticket, appointment *domain.Appointment, refs []domain.EmployeeRef, merchandiseIDs []string, workGiverID *string) map[string]any {
	snapshot := map[string]any{
		"details":        ticket.Details,
		"additional":     ticket.Additional,
		"work_type_id":   ticket.WorkTypeID,
		"status_id":      ticket.StatusID,
		"assigner_id":    ticket.AssignerID,
		"site_id":        ticket.SiteID,
		"contact_id":     ticket.ContactID,
		"appointment_id": ticket.AppointmentID,
		"employee_ids":   domain.EmployeeIDs(refs),
	}
	if appointment != nil && appointment.Date != nil {
		snapshot["appointment_date"] = appointment.Date.Format(domain.DateOnly)
	}
	if len(merchandiseIDs) > 0 {
		snapshot["merchandise_ids"] = merchandiseIDs
	}
	if workGiverID != nil {
		snapshot["work_giver_id"] = *workGiverID
	}
	return snapshot
}

func deleteSnapshot(ticket *domain.Ticket, employeeIDs, merchandiseIDs []string) map[string]any {
	return map[string]any{
		"details":         ticket.Details,
		"additional":      ticket.Additional,
		"work_type_id":    ticket.WorkTypeID,
		"status_id":       ticket.StatusID,
		"assigner_id":     ticket.AssignerID,
		"creator_id":      ticket.CreatorID,
		"site_id":         ticket.SiteID,
		"contact_id":      ticket.ContactID,
		"appointment_id":  ticket.AppointmentID,
		"employee_ids":    employeeIDs,
		"merchandise_ids": merchandiseIDs,
	}
}
