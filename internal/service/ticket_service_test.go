package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/events"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

type ticketFixture struct {
	svc          *TicketService
	tickets      *fakeTicketRepo
	appointments *fakeAppointmentRepo
	companies    *fakeCompanyRepo
	sites        *fakeSiteRepo
	contacts     *fakeContactRepo
	employees    *fakeEmployeeRepo
	assignments  *fakeAssignmentRepo
	merchandise  *fakeMerchandiseRepo
	workGivers   *fakeWorkGiverRepo
	audits       *fakeAuditRepo
	dispatcher   *syncDispatcher
}

func newTicketFixture(staff ...domain.Employee) *ticketFixture {
	fx := &ticketFixture{
		tickets:      newFakeTicketRepo(),
		appointments: newFakeAppointmentRepo(),
		companies:    newFakeCompanyRepo(),
		sites:        newFakeSiteRepo(),
		contacts:     newFakeContactRepo(),
		employees:    newFakeEmployeeRepo(staff...),
		assignments:  newFakeAssignmentRepo(),
		merchandise:  newFakeMerchandiseRepo(),
		workGivers:   newFakeWorkGiverRepo(),
		audits:       newFakeAuditRepo(),
		dispatcher:   newSyncDispatcher(),
	}
	logger := zap.NewNop()
	fx.svc = NewTicketService(TicketDependencies{
		TicketRepo:      fx.tickets,
		AppointmentRepo: fx.appointments,
		CompanyRepo:     fx.companies,
		SiteRepo:        fx.sites,
		ContactRepo:     fx.contacts,
		EmployeeRepo:    fx.employees,
		AssignmentRepo:  fx.assignments,
		MerchandiseRepo: fx.merchandise,
		WorkGiverRepo:   fx.workGivers,
		ReferenceRepo:   newFakeReferenceRepo(),
		Audit:           NewAuditService(fx.audits, logger),
		Locations:       NewLocationService(&fakeLocationRepo{}),
		Dispatcher:      fx.dispatcher,
		Logger:          logger,
	})
	return fx
}

func coreInput() TicketCoreInput {
	return TicketCoreInput{
		WorkTypeID: "wt1",
		StatusID:   "st1",
		AssignerID: "disp1",
		Details:    "compressor rattles under load",
	}
}

func dispatcherEmployee() domain.Employee {
	return domain.Employee{ID: "disp1", Name: "Dispatcher", Level: domain.LevelDispatcher, Active: true}
}

func approverEmployee() domain.Employee {
	return domain.Employee{ID: "appr1", Name: "Approver", Level: domain.LevelApprover, Active: true}
}

func TestCreateAlwaysCreatesAppointment(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	ctx := context.Background()

	detail, err := fx.svc.Create(ctx, TicketCreateInput{Ticket: coreInput()}, "disp1")
	require.NoError(t, err)

	require.NotNil(t, detail.Ticket.AppointmentID)
	require.NotNil(t, detail.Appointment)
	assert.Equal(t, domain.AppointmentCallToSchedule, detail.Appointment.Type)
	assert.Nil(t, detail.Appointment.Date)
	assert.False(t, detail.Appointment.IsApproved)

	created := fx.audits.byAction(domain.AuditCreated)
	require.Len(t, created, 1)
	assert.Equal(t, true, created[0].Metadata["appointment_created"])

	published := fx.dispatcher.eventsOfType(events.EventTicketCreated)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.TicketCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, "disp1", payload.CreatorID)
	assert.Equal(t, created[0].ID, payload.AuditID)
}

func TestCreateReusesCompanyByTaxID(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	ctx := context.Background()
	existing := &domain.Company{Name: "Acme Cooling", TaxID: "0105551234567"}
	require.NoError(t, fx.companies.Create(ctx, existing))

	input := TicketCreateInput{
		Ticket:  coreInput(),
		Company: &CompanyInput{Name: "Acme Cooling Ltd", TaxID: "0105551234567"},
		Site:    &SiteInput{Name: "Acme HQ"},
	}
	detail, err := fx.svc.Create(ctx, input, "disp1")
	require.NoError(t, err)

	assert.Len(t, fx.companies.companies, 1)
	require.NotNil(t, detail.Site)
	require.NotNil(t, detail.Site.CompanyID)
	assert.Equal(t, existing.ID, *detail.Site.CompanyID)

	created := fx.audits.byAction(domain.AuditCreated)
	require.Len(t, created, 1)
	assert.Equal(t, false, created[0].Metadata["company_created"])
	assert.Equal(t, true, created[0].Metadata["site_created"])
}

func TestCreateCompanyRequiresTaxID(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	input := TicketCreateInput{
		Ticket:  coreInput(),
		Company: &CompanyInput{Name: "No Tax"},
	}
	_, err := fx.svc.Create(context.Background(), input, "disp1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateRejectsCrossSiteMerchandise(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	ctx := context.Background()
	otherSite := "s-other"
	fx.merchandise.items["m1"] = domain.Merchandise{ID: "m1", SiteID: &otherSite}

	input := TicketCreateInput{
		Ticket:         coreInput(),
		Site:           &SiteInput{Name: "Branch"},
		MerchandiseIDs: []string{"m1"},
	}
	_, err := fx.svc.Create(ctx, input, "disp1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, fx.merchandise.links)
}

func TestCreateRejectsMissingMerchandise(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	input := TicketCreateInput{
		Ticket:         coreInput(),
		MerchandiseIDs: []string{"m-missing"},
	}
	_, err := fx.svc.Create(context.Background(), input, "disp1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateRejectsInactiveWorkGiver(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	fx.workGivers.givers["wg1"] = domain.WorkGiver{ID: "wg1", Name: "Retired Broker", Active: false}
	workGiverID := "wg1"
	input := TicketCreateInput{
		Ticket:      coreInput(),
		WorkGiverID: &workGiverID,
	}
	_, err := fx.svc.Create(context.Background(), input, "disp1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateAssignsEmployeesOnAppointmentDate(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	input := TicketCreateInput{
		Ticket: coreInput(),
		Appointment: &AppointmentInput{
			Date: domain.Set("2026-09-01"),
			Type: domain.Set(domain.AppointmentScheduled),
		},
		EmployeeRefs: []domain.EmployeeRef{{ID: "e1", IsKey: true}, {ID: "e2"}},
	}
	_, err := fx.svc.Create(context.Background(), input, "disp1")
	require.NoError(t, err)

	require.Len(t, fx.assignments.rows, 2)
	want, _ := time.Parse(domain.DateOnly, "2026-09-01")
	for _, row := range fx.assignments.rows {
		assert.True(t, row.AssignmentDate.Equal(want))
	}
	assert.True(t, fx.assignments.rows[0].IsKey)
	assert.False(t, fx.assignments.rows[1].IsKey)
}

func TestCreateSummaryIncludesAppointmentWindow(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	input := TicketCreateInput{
		Ticket: coreInput(),
		Appointment: &AppointmentInput{
			Date:      domain.Set("2026-09-01"),
			TimeStart: domain.Set("09:00"),
			TimeEnd:   domain.Set("12:00"),
		},
		Summarize: true,
	}
	detail, err := fx.svc.Create(context.Background(), input, "disp1")
	require.NoError(t, err)

	require.NotNil(t, detail.Ticket.Summary)
	assert.Contains(t, *detail.Ticket.Summary, "Installation")
	assert.Contains(t, *detail.Ticket.Summary, "Scheduled 2026-09-01 09:00-12:00")
}

func TestCreateValidatesCoreFields(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	input := TicketCreateInput{Ticket: TicketCoreInput{StatusID: "st1", AssignerID: "disp1"}}
	_, err := fx.svc.Create(context.Background(), input, "disp1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, fx.tickets.tickets)
}

func TestApproveRequiresApproverLevel(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	ctx := context.Background()
	detail, err := fx.svc.Create(ctx, TicketCreateInput{Ticket: coreInput()}, "disp1")
	require.NoError(t, err)

	err = fx.svc.ApproveAppointment(ctx, detail.Ticket.ID, "disp1")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestApproveMarksAppointmentAndAudits(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee(), approverEmployee())
	ctx := context.Background()
	detail, err := fx.svc.Create(ctx, TicketCreateInput{Ticket: coreInput()}, "disp1")
	require.NoError(t, err)

	require.NoError(t, fx.svc.ApproveAppointment(ctx, detail.Ticket.ID, "appr1"))

	appt, err := fx.appointments.GetByID(ctx, *detail.Ticket.AppointmentID)
	require.NoError(t, err)
	assert.True(t, appt.IsApproved)

	approved := fx.audits.byAction(domain.AuditApproved)
	require.Len(t, approved, 1)
	assert.Equal(t, "appr1", approved[0].ChangedByID)
	assert.Equal(t, []string{"appointment.is_approved"}, approved[0].ChangedFields)

	published := fx.dispatcher.eventsOfType(events.EventAppointmentApproved)
	require.Len(t, published, 1)
}

func TestUnapproveNotifiesAsManualWithdrawal(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee(), approverEmployee())
	ctx := context.Background()
	detail, err := fx.svc.Create(ctx, TicketCreateInput{Ticket: coreInput()}, "disp1")
	require.NoError(t, err)
	require.NoError(t, fx.svc.ApproveAppointment(ctx, detail.Ticket.ID, "appr1"))

	require.NoError(t, fx.svc.UnapproveAppointment(ctx, detail.Ticket.ID, "appr1"))

	appt, err := fx.appointments.GetByID(ctx, *detail.Ticket.AppointmentID)
	require.NoError(t, err)
	assert.False(t, appt.IsApproved)

	published := fx.dispatcher.eventsOfType(events.EventTicketUnapproved)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.TicketUnapprovedPayload)
	require.True(t, ok)
	assert.False(t, payload.Auto)
}

func TestApproveWithoutAppointmentFails(t *testing.T) {
	fx := newTicketFixture(approverEmployee())
	ctx := context.Background()
	ticket := &domain.Ticket{WorkTypeID: "wt1", StatusID: "st1", AssignerID: "disp1", CreatorID: "disp1"}
	require.NoError(t, fx.tickets.Create(ctx, ticket))

	err := fx.svc.ApproveAppointment(ctx, ticket.ID, "appr1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDeleteSnapshotsAndRemovesOrphanContact(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	ctx := context.Background()
	input := TicketCreateInput{
		Ticket:  coreInput(),
		Contact: &ContactInput{Name: "On-site lead", Phone: "0812345678"},
	}
	detail, err := fx.svc.Create(ctx, input, "disp1")
	require.NoError(t, err)
	contactID := *detail.Ticket.ContactID

	err = fx.svc.Delete(ctx, detail.Ticket.ID, "disp1", DeleteOptions{DeleteAppointment: true, DeleteContact: true})
	require.NoError(t, err)

	assert.Empty(t, fx.tickets.tickets)
	assert.Empty(t, fx.appointments.appointments)
	_, err = fx.contacts.GetByID(ctx, contactID)
	assert.Error(t, err)

	deleted := fx.audits.byAction(domain.AuditDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, detail.Ticket.ID, deleted[0].TicketID)
	assert.NotNil(t, deleted[0].OldValues)
}

func TestDeleteKeepsContactStillReferenced(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	ctx := context.Background()
	first, err := fx.svc.Create(ctx, TicketCreateInput{
		Ticket:  coreInput(),
		Contact: &ContactInput{Name: "Shared contact"},
	}, "disp1")
	require.NoError(t, err)
	contactID := *first.Ticket.ContactID

	_, err = fx.svc.Create(ctx, TicketCreateInput{
		Ticket:  coreInput(),
		Contact: &ContactInput{ID: &contactID},
	}, "disp1")
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, first.Ticket.ID, "disp1", DeleteOptions{DeleteContact: true}))

	_, err = fx.contacts.GetByID(ctx, contactID)
	assert.NoError(t, err)
}

func TestDeleteUnknownTicket(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	err := fx.svc.Delete(context.Background(), "nope", "disp1", DeleteOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveTicketEmployee(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	ctx := context.Background()
	detail, err := fx.svc.Create(ctx, TicketCreateInput{
		Ticket: coreInput(),
		Appointment: &AppointmentInput{
			Date: domain.Set("2026-09-02"),
		},
		EmployeeRefs: []domain.EmployeeRef{{ID: "e1"}},
	}, "disp1")
	require.NoError(t, err)

	date, _ := time.Parse(domain.DateOnly, "2026-09-02")
	require.NoError(t, fx.svc.RemoveTicketEmployee(ctx, detail.Ticket.ID, "e1", date, "disp1"))
	assert.Empty(t, fx.assignments.rows)

	removed := fx.audits.byAction(domain.AuditEmployeeRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, "e1", removed[0].OldValues["employee_id"])

	err = fx.svc.RemoveTicketEmployee(ctx, detail.Ticket.ID, "e1", date, "disp1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAssignmentUniqueViolationTranslated(t *testing.T) {
	fx := newTicketFixture(dispatcherEmployee())
	ctx := context.Background()
	date, _ := time.Parse(domain.DateOnly, "2026-09-03")
	// Pre-seed a clash for the first ticket id the fake will hand out.
	fx.assignments.rows = append(fx.assignments.rows, domain.EmployeeAssignment{
		ID: "seed", TicketID: "t1", EmployeeID: "e1", AssignmentDate: date,
	})

	_, err := fx.svc.Create(ctx, TicketCreateInput{
		Ticket: coreInput(),
		Appointment: &AppointmentInput{
			Date: domain.Set("2026-09-03"),
		},
		EmployeeRefs: []domain.EmployeeRef{{ID: "e1"}},
	}, "disp1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "already assigned")
}
