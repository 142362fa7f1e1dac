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

// ConfirmationService moves a ticket's technicians from requested to
// confirmed for one date. Re-confirming a date replaces the prior set.
type ConfirmationService struct {
	tickets       repository.TicketRepository
	appointments  repository.AppointmentRepository
	confirmations repository.ConfirmationRepository
	sites         repository.SiteRepository
	audit         *AuditService
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// ConfirmationDependencies bundles collaborators.
type ConfirmationDependencies struct {
	TicketRepo       repository.TicketRepository
	AppointmentRepo  repository.AppointmentRepository
	ConfirmationRepo repository.ConfirmationRepository
	SiteRepo         repository.SiteRepository
	Audit            *AuditService
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewConfirmationService creates the service.
func NewConfirmationService(deps ConfirmationDependencies) *ConfirmationService {
	return &ConfirmationService{
		tickets:       deps.TicketRepo,
		appointments:  deps.AppointmentRepo,
		confirmations: deps.ConfirmationRepo,
		sites:         deps.SiteRepo,
		audit:         deps.Audit,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
	}
}

// ConfirmTechnicians confirms the given set against the ticket's approved
// appointment, replacing all prior confirmations for that date.
func (s *ConfirmationService) ConfirmTechnicians(ctx context.Context, ticketID string, date time.Time, refs []domain.EmployeeRef, notes, actorID string) ([]domain.TechnicianConfirmation, error) {
	if ticketID == "" {
		return nil, apperrors.NewValidationError("ticket_id is required", nil)
	}
	if date.IsZero() {
		return nil, apperrors.NewValidationError("confirmation date is required", nil)
	}
	normalized := domain.NormalizeEmployeeRefs(refs)
	if len(normalized) == 0 {
		return nil, apperrors.NewValidationError("at least one technician is required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.AppointmentID == nil {
		return nil, apperrors.NewValidationError("ticket has no appointment to confirm against", nil)
	}
	appointment, err := s.appointments.GetByID(ctx, *ticket.AppointmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !appointment.IsApproved {
		return nil, apperrors.NewValidationError("appointment must be approved before confirming technicians", nil)
	}

	if err := s.confirmations.DeleteByTicketDate(ctx, ticketID, date); err != nil {
		return nil, apperrors.MapError(err)
	}

	rows := make([]domain.TechnicianConfirmation, 0, len(normalized))
	for _, ref := range normalized {
		rows = append(rows, domain.TechnicianConfirmation{
			TicketID:         ticketID,
			EmployeeID:       ref.ID,
			ConfirmedByID:    actorID,
			ConfirmationDate: date,
			IsKey:            ref.IsKey,
			Notes:            notes,
		})
	}
	if err := s.confirmations.Insert(ctx, rows); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewValidationError("technician already assigned on this date", nil)
		}
		return nil, apperrors.MapError(err)
	}

	entry := s.audit.Record(ctx, &domain.AuditEntry{
		TicketID:    ticketID,
		Action:      domain.AuditTechnicianConfirmed,
		ChangedByID: actorID,
		NewValues: map[string]any{
			"confirmation_date": date.Format(domain.DateOnly),
			"employee_ids":      domain.EmployeeIDs(normalized),
		},
		ChangedFields: []string{"technician_confirmations"},
	})

	s.publishConfirmed(ctx, ticket, date, normalized, actorID, entry)
	return rows, nil
}

// ListByTicket returns the ticket's current confirmations.
func (s *ConfirmationService) ListByTicket(ctx context.Context, ticketID string) ([]domain.TechnicianConfirmation, error) {
	rows, err := s.confirmations.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if rows == nil {
		rows = []domain.TechnicianConfirmation{}
	}
	return rows, nil
}

func (s *ConfirmationService) publishConfirmed(ctx context.Context, ticket *domain.Ticket, date time.Time, refs []domain.EmployeeRef, actorID string, entry *domain.AuditEntry) {
	if s.dispatcher == nil {
		return
	}
	auditID := ""
	if entry != nil {
		auditID = entry.ID
	}
	siteName := ""
	if ticket.SiteID != nil {
		if site, err := s.sites.GetByID(ctx, *ticket.SiteID); err == nil {
			siteName = site.Name
		}
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTechniciansConfirmed,
		TicketID:  ticket.ID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.TechniciansConfirmedPayload{
			ConfirmedByID: actorID,
			AuditID:       auditID,
			Date:          date,
			Technicians:   refs,
			SiteName:      siteName,
		},
	})
}
