package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/events"
	"github.com/loongallday/pdeservice-spb-sub004/internal/repository"
)

var errDuplicateKey = errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)")

// syncDispatcher runs handlers inline so tests observe side effects
// deterministically.
type syncDispatcher struct {
	mu        sync.Mutex
	listeners map[events.EventType][]events.EventHandler
	published []events.Event
}

func newSyncDispatcher() *syncDispatcher {
	return &syncDispatcher{listeners: map[events.EventType][]events.EventHandler{}}
}

func (d *syncDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	d.published = append(d.published, event)
	handlers := append([]events.EventHandler{}, d.listeners[event.Type]...)
	d.mu.Unlock()
	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
	return nil
}

func (d *syncDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

func (d *syncDispatcher) eventsOfType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.published {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeTicketRepo struct {
	seq     int
	tickets map[string]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("t%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) CountByContact(_ context.Context, contactID string) (int, error) {
	count := 0
	for _, ticket := range r.tickets {
		if ticket.ContactID != nil && *ticket.ContactID == contactID {
			count++
		}
	}
	return count, nil
}

type fakeAppointmentRepo struct {
	seq          int
	appointments map[string]domain.Appointment
	conflicts    []string
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[string]domain.Appointment{}}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) error {
	r.seq++
	appt.ID = fmt.Sprintf("ap%d", r.seq)
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	r.appointments[appt.ID] = *appt
	return nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, appt *domain.Appointment) error {
	if _, ok := r.appointments[appt.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.appointments[appt.ID] = *appt
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := appt
	return &copied, nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id string) error {
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) SetApproval(_ context.Context, id string, approved bool) error {
	appt, ok := r.appointments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	appt.IsApproved = approved
	r.appointments[id] = appt
	return nil
}

func (r *fakeAppointmentRepo) FindConflicts(_ context.Context, q repository.ConflictQuery) ([]string, error) {
	var out []string
	for _, id := range q.EmployeeIDs {
		for _, conflicted := range r.conflicts {
			if id == conflicted {
				out = append(out, id)
			}
		}
	}
	return out, nil
}

type fakeCompanyRepo struct {
	seq       int
	companies map[string]domain.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: map[string]domain.Company{}}
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := company
	return &copied, nil
}

func (r *fakeCompanyRepo) GetByTaxID(_ context.Context, taxID string) (*domain.Company, error) {
	for _, company := range r.companies {
		if company.TaxID == taxID {
			copied := company
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *domain.Company) error {
	r.seq++
	company.ID = fmt.Sprintf("co%d", r.seq)
	company.CreatedAt = time.Now()
	r.companies[company.ID] = *company
	return nil
}

type fakeSiteRepo struct {
	seq   int
	sites map[string]domain.Site
}

func newFakeSiteRepo() *fakeSiteRepo {
	return &fakeSiteRepo{sites: map[string]domain.Site{}}
}

func (r *fakeSiteRepo) GetByID(_ context.Context, id string) (*domain.Site, error) {
	site, ok := r.sites[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := site
	return &copied, nil
}

func (r *fakeSiteRepo) Create(_ context.Context, site *domain.Site) error {
	r.seq++
	site.ID = fmt.Sprintf("s%d", r.seq)
	site.CreatedAt = time.Now()
	r.sites[site.ID] = *site
	return nil
}

type fakeContactRepo struct {
	seq      int
	contacts map[string]domain.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: map[string]domain.Contact{}}
}

func (r *fakeContactRepo) GetByID(_ context.Context, id string) (*domain.Contact, error) {
	contact, ok := r.contacts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := contact
	return &copied, nil
}

func (r *fakeContactRepo) Create(_ context.Context, contact *domain.Contact) error {
	r.seq++
	contact.ID = fmt.Sprintf("c%d", r.seq)
	contact.CreatedAt = time.Now()
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *fakeContactRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.contacts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.contacts, id)
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]domain.Employee
}

func newFakeEmployeeRepo(list ...domain.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: map[string]domain.Employee{}}
	for _, emp := range list {
		repo.employees[emp.ID] = emp
	}
	return repo
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := emp
	return &copied, nil
}

func (r *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	for _, emp := range r.employees {
		if emp.Email == email {
			copied := emp
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, id := range ids {
		if emp, ok := r.employees[id]; ok {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListActiveByMinLevel(_ context.Context, level domain.PermissionLevel) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, emp := range r.employees {
		if emp.Active && emp.Level >= level {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeAssignmentRepo struct {
	seq  int
	rows []domain.EmployeeAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo { return &fakeAssignmentRepo{} }

func (r *fakeAssignmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.EmployeeAssignment, error) {
	var out []domain.EmployeeAssignment
	for _, row := range r.rows {
		if row.TicketID == ticketID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Insert(_ context.Context, rows []domain.EmployeeAssignment) error {
	for _, row := range rows {
		for _, existing := range r.rows {
			if existing.TicketID == row.TicketID &&
				existing.EmployeeID == row.EmployeeID &&
				existing.AssignmentDate.Equal(row.AssignmentDate) {
				return errDuplicateKey
			}
		}
		r.seq++
		row.ID = fmt.Sprintf("as%d", r.seq)
		row.CreatedAt = time.Now()
		r.rows = append(r.rows, row)
	}
	return nil
}

func (r *fakeAssignmentRepo) DeleteByTicket(_ context.Context, ticketID string) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.TicketID != ticketID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeAssignmentRepo) DeleteByKey(_ context.Context, ticketID, employeeID string, date time.Time) error {
	for i, row := range r.rows {
		if row.TicketID == ticketID && row.EmployeeID == employeeID && row.AssignmentDate.Equal(date) {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeConfirmationRepo struct {
	seq  int
	rows []domain.TechnicianConfirmation
}

func newFakeConfirmationRepo() *fakeConfirmationRepo { return &fakeConfirmationRepo{} }

func (r *fakeConfirmationRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TechnicianConfirmation, error) {
	var out []domain.TechnicianConfirmation
	for _, row := range r.rows {
		if row.TicketID == ticketID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeConfirmationRepo) Insert(_ context.Context, rows []domain.TechnicianConfirmation) error {
	for _, row := range rows {
		for _, existing := range r.rows {
			if existing.TicketID == row.TicketID &&
				existing.EmployeeID == row.EmployeeID &&
				existing.ConfirmationDate.Equal(row.ConfirmationDate) {
				return errDuplicateKey
			}
		}
		r.seq++
		row.ID = fmt.Sprintf("tc%d", r.seq)
		row.CreatedAt = time.Now()
		r.rows = append(r.rows, row)
	}
	return nil
}

func (r *fakeConfirmationRepo) DeleteByTicketDate(_ context.Context, ticketID string, date time.Time) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.TicketID == ticketID && row.ConfirmationDate.Equal(date) {
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return nil
}

type fakeMerchandiseRepo struct {
	items map[string]domain.Merchandise
	links map[string][]string // ticket id -> merchandise ids
}

func newFakeMerchandiseRepo(items ...domain.Merchandise) *fakeMerchandiseRepo {
	repo := &fakeMerchandiseRepo{items: map[string]domain.Merchandise{}, links: map[string][]string{}}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeMerchandiseRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Merchandise, error) {
	var out []domain.Merchandise
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeMerchandiseRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Merchandise, error) {
	var out []domain.Merchandise
	for _, id := range r.links[ticketID] {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeMerchandiseRepo) InsertLinks(_ context.Context, ticketID string, merchandiseIDs []string) error {
	r.links[ticketID] = append(r.links[ticketID], merchandiseIDs...)
	return nil
}

func (r *fakeMerchandiseRepo) DeleteLinksByTicket(_ context.Context, ticketID string) error {
	delete(r.links, ticketID)
	return nil
}

type fakeWorkGiverRepo struct {
	givers map[string]domain.WorkGiver
	links  map[string]string // ticket id -> work giver id
}

func newFakeWorkGiverRepo(givers ...domain.WorkGiver) *fakeWorkGiverRepo {
	repo := &fakeWorkGiverRepo{givers: map[string]domain.WorkGiver{}, links: map[string]string{}}
	for _, giver := range givers {
		repo.givers[giver.ID] = giver
	}
	return repo
}

func (r *fakeWorkGiverRepo) GetByID(_ context.Context, id string) (*domain.WorkGiver, error) {
	giver, ok := r.givers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := giver
	return &copied, nil
}

func (r *fakeWorkGiverRepo) GetLinkByTicket(_ context.Context, ticketID string) (*domain.WorkGiverLink, error) {
	giverID, ok := r.links[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.WorkGiverLink{TicketID: ticketID, WorkGiverID: giverID}, nil
}

func (r *fakeWorkGiverRepo) SetLink(_ context.Context, ticketID, workGiverID string) error {
	r.links[ticketID] = workGiverID
	return nil
}

func (r *fakeWorkGiverRepo) DeleteLinkByTicket(_ context.Context, ticketID string) error {
	delete(r.links, ticketID)
	return nil
}

type fakeReferenceRepo struct {
	workTypes map[string]domain.WorkType
	statuses  map[string]domain.TicketStatus
}

func newFakeReferenceRepo() *fakeReferenceRepo {
	return &fakeReferenceRepo{
		workTypes: map[string]domain.WorkType{
			"wt1": {ID: "wt1", Name: "Installation", Code: "INSTALL", Active: true},
		},
		statuses: map[string]domain.TicketStatus{
			"st1": {ID: "st1", Name: "Open", Code: "OPEN"},
		},
	}
}

func (r *fakeReferenceRepo) GetWorkType(_ context.Context, id string) (*domain.WorkType, error) {
	wt, ok := r.workTypes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := wt
	return &copied, nil
}

func (r *fakeReferenceRepo) GetStatus(_ context.Context, id string) (*domain.TicketStatus, error) {
	st, ok := r.statuses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := st
	return &copied, nil
}

type fakeAuditRepo struct {
	seq     int
	entries []domain.AuditEntry
}

func newFakeAuditRepo() *fakeAuditRepo { return &fakeAuditRepo{} }

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditEntry) error {
	r.seq++
	entry.ID = fmt.Sprintf("au%d", r.seq)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByTicket(_ context.Context, ticketID string, limit, offset int) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].TicketID == ticketID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) LatestByAction(_ context.Context, ticketID string, action domain.AuditAction) (*domain.AuditEntry, error) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].TicketID == ticketID && r.entries[i].Action == action {
			copied := r.entries[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAuditRepo) byAction(action domain.AuditAction) []domain.AuditEntry {
	var out []domain.AuditEntry
	for _, entry := range r.entries {
		if entry.Action == action {
			out = append(out, entry)
		}
	}
	return out
}

type fakeWatcherRepo struct {
	seq      int
	watchers map[string]domain.Watcher // ticket|employee
}

func newFakeWatcherRepo() *fakeWatcherRepo {
	return &fakeWatcherRepo{watchers: map[string]domain.Watcher{}}
}

func watcherKey(ticketID, employeeID string) string { return ticketID + "|" + employeeID }

func (r *fakeWatcherRepo) Upsert(_ context.Context, watcher *domain.Watcher) error {
	key := watcherKey(watcher.TicketID, watcher.EmployeeID)
	if _, ok := r.watchers[key]; ok {
		return nil
	}
	r.seq++
	watcher.ID = fmt.Sprintf("w%d", r.seq)
	watcher.CreatedAt = time.Now()
	r.watchers[key] = *watcher
	return nil
}

func (r *fakeWatcherRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Watcher, error) {
	var out []domain.Watcher
	for _, watcher := range r.watchers {
		if watcher.TicketID == ticketID {
			out = append(out, watcher)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *fakeWatcherRepo) Delete(_ context.Context, ticketID, employeeID string) error {
	key := watcherKey(ticketID, employeeID)
	if _, ok := r.watchers[key]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.watchers, key)
	return nil
}

type fakeNotificationRepo struct {
	seq           int
	notifications []domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo { return &fakeNotificationRepo{} }

func (r *fakeNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	r.seq++
	n.ID = fmt.Sprintf("n%d", r.seq)
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ExistsForAudit(_ context.Context, recipientID, auditID string) (bool, error) {
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && n.AuditID != nil && *n.AuditID == auditID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) ExistsRecent(_ context.Context, q repository.RecentNotificationQuery) (bool, error) {
	for _, n := range r.notifications {
		if n.RecipientID != q.RecipientID || n.Type != q.Type || n.Title != q.Title {
			continue
		}
		if q.TicketID != nil && (n.TicketID == nil || *n.TicketID != *q.TicketID) {
			continue
		}
		if n.CreatedAt.Before(q.Since) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	for i, n := range r.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			now := time.Now()
			r.notifications[i].IsRead = true
			r.notifications[i].ReadAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	now := time.Now()
	for i, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			r.notifications[i].IsRead = true
			r.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) forRecipient(recipientID string) []domain.Notification {
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

type fakeCommentRepo struct {
	commenters map[string][]string
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{commenters: map[string][]string{}}
}

func (r *fakeCommentRepo) ListCommenterIDs(_ context.Context, ticketID string) ([]string, error) {
	return r.commenters[ticketID], nil
}

type fakeLocationRepo struct {
	districts    []domain.District
	subdistricts []domain.Subdistrict
	loads        int
}

func (r *fakeLocationRepo) ListDistricts(_ context.Context) ([]domain.District, error) {
	r.loads++
	return r.districts, nil
}

func (r *fakeLocationRepo) ListSubdistricts(_ context.Context) ([]domain.Subdistrict, error) {
	return r.subdistricts, nil
}
