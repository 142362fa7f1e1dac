package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/events"
	"github.com/loongallday/pdeservice-spb-sub004/internal/repository"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

// WatcherService tracks which employees receive a ticket's notifications.
type WatcherService struct {
	watchers   repository.WatcherRepository
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// WatcherDependencies bundles repositories for the watcher registry.
type WatcherDependencies struct {
	WatcherRepo  repository.WatcherRepository
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewWatcherService creates the service.
func NewWatcherService(deps WatcherDependencies) *WatcherService {
	return &WatcherService{
		watchers:   deps.WatcherRepo,
		employees:  deps.EmployeeRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// RegisterHandlers subscribes the auto-subscription consumer.
func (s *WatcherService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
}

func (s *WatcherService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	s.AutoSubscribe(ctx, event.TicketID, payload.CreatorID, payload.AssignerID)
	return nil
}

// AutoSubscribe adds the creator, the assigner and every active superadmin
// as watchers. Errors are logged and swallowed.
func (s *WatcherService) AutoSubscribe(ctx context.Context, ticketID, creatorID, assignerID string) {
	s.upsert(ctx, ticketID, creatorID, creatorID, domain.WatcherAutoCreator)
	if assignerID != "" && assignerID != creatorID {
		s.upsert(ctx, ticketID, assignerID, creatorID, domain.WatcherAutoAssigner)
	}
	admins, err := s.employees.ListActiveByMinLevel(ctx, domain.LevelSuperadmin)
	if err != nil {
		s.logger.Warn("superadmin lookup failed", zap.String("ticket_id", ticketID), zap.Error(err))
		return
	}
	for _, admin := range admins {
		if admin.ID == creatorID || admin.ID == assignerID {
			continue
		}
		s.upsert(ctx, ticketID, admin.ID, creatorID, domain.WatcherAutoSuperadmin)
	}
}

// Subscribe adds a manual watcher.
func (s *WatcherService) Subscribe(ctx context.Context, ticketID, employeeID, addedByID string) error {
	if ticketID == "" || employeeID == "" {
		return apperrors.NewValidationError("ticket_id and employee_id are required", nil)
	}
	err := s.watchers.Upsert(ctx, &domain.Watcher{
		TicketID:   ticketID,
		EmployeeID: employeeID,
		AddedByID:  addedByID,
		Source:     domain.WatcherManual,
	})
	return apperrors.MapError(err)
}

// Unsubscribe removes a watcher.
func (s *WatcherService) Unsubscribe(ctx context.Context, ticketID, employeeID string) error {
	if err := s.watchers.Delete(ctx, ticketID, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("watcher", map[string]any{"ticket_id": ticketID, "employee_id": employeeID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListByTicket returns the ticket's watchers.
func (s *WatcherService) ListByTicket(ctx context.Context, ticketID string) ([]domain.Watcher, error) {
	watchers, err := s.watchers.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if watchers == nil {
		watchers = []domain.Watcher{}
	}
	return watchers, nil
}

func (s *WatcherService) upsert(ctx context.Context, ticketID, employeeID, addedByID string, source domain.WatcherSource) {
	err := s.watchers.Upsert(ctx, &domain.Watcher{
		TicketID:   ticketID,
		EmployeeID: employeeID,
		AddedByID:  addedByID,
		Source:     source,
	})
	if err != nil {
		s.logger.Warn("watcher upsert failed",
			zap.String("ticket_id", ticketID),
			zap.String("employee_id", employeeID),
			zap.Error(err))
	}
}
