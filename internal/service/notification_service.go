package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/loongallday/pdeservice-spb-sub004/internal/config"
	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/events"
	"github.com/loongallday/pdeservice-spb-sub004/internal/repository"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

// NotificationService builds and persists per-recipient notifications for
// ticket events. All entry points are best-effort: failures are logged,
// never propagated.
type NotificationService struct {
	notifications repository.NotificationRepository
	watchers      repository.WatcherRepository
	comments      repository.CommentRepository
	confirmations repository.ConfirmationRepository
	employees     repository.EmployeeRepository
	audit         *AuditService
	dispatcher    events.Dispatcher
	redis         *redis.Client
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NotificationDependencies bundles collaborators for the fanout.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	WatcherRepo      repository.WatcherRepository
	CommentRepo      repository.CommentRepository
	ConfirmationRepo repository.ConfirmationRepository
	EmployeeRepo     repository.EmployeeRepository
	Audit            *AuditService
	Dispatcher       events.Dispatcher
	Redis            *redis.Client
	Logger           *zap.Logger
	Config           config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		notifications: deps.NotificationRepo,
		watchers:      deps.WatcherRepo,
		comments:      deps.CommentRepo,
		confirmations: deps.ConfirmationRepo,
		employees:     deps.EmployeeRepo,
		audit:         deps.Audit,
		dispatcher:    deps.Dispatcher,
		redis:         deps.Redis,
		logger:        deps.Logger,
		cfg:           deps.Config,
	}
}

// RegisterHandlers subscribes the fanout consumers.
func (s *NotificationService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
	s.dispatcher.Subscribe(events.EventTicketUnapproved, s.handleTicketUnapproved)
	s.dispatcher.Subscribe(events.EventAppointmentApproved, s.handleAppointmentApproved)
	s.dispatcher.Subscribe(events.EventTechniciansConfirmed, s.handleTechniciansConfirmed)
	s.dispatcher.Subscribe(events.EventCommentAdded, s.handleCommentAdded)
}

// NotifyMany inserts every notification best-effort: a failed row is logged
// and the rest still go out.
func (s *NotificationService) NotifyMany(ctx context.Context, batch []domain.Notification) {
	for i := range batch {
		if err := s.notifications.Insert(ctx, &batch[i]); err != nil {
			s.logger.Warn("notification insert failed",
				zap.String("recipient_id", batch[i].RecipientID),
				zap.String("type", string(batch[i].Type)),
				zap.Error(err))
		}
	}
}

// NotifyManyDeduped inserts the batch, suppressing duplicates. With an audit
// id the suppression is exact (one notification per audit event per
// recipient); without one a per-recipient time window on type+title(+ticket)
// guards against repeated identical messages.
func (s *NotificationService) NotifyManyDeduped(ctx context.Context, batch []domain.Notification) {
	for i := range batch {
		suppress, err := s.shouldSuppress(ctx, &batch[i])
		if err != nil {
			s.logger.Warn("notification dedup check failed",
				zap.String("recipient_id", batch[i].RecipientID),
				zap.Error(err))
			continue
		}
		if suppress {
			continue
		}
		if err := s.notifications.Insert(ctx, &batch[i]); err != nil {
			s.logger.Warn("notification insert failed",
				zap.String("recipient_id", batch[i].RecipientID),
				zap.String("type", string(batch[i].Type)),
				zap.Error(err))
		}
	}
}

func (s *NotificationService) shouldSuppress(ctx context.Context, n *domain.Notification) (bool, error) {
	if n.AuditID != nil && *n.AuditID != "" {
		return s.notifications.ExistsForAudit(ctx, n.RecipientID, *n.AuditID)
	}

	// Window fallback. Redis SETNX is the cheap guard; when it is absent or
	// unreachable the store query decides.
	if s.redis != nil {
		key := windowKey(n)
		set, err := s.redis.SetNX(ctx, key, 1, s.cfg.DedupWindow()).Result()
		if err == nil {
			return !set, nil
		}
		s.logger.Debug("redis dedup guard unavailable", zap.Error(err))
	}

	return s.notifications.ExistsRecent(ctx, repository.RecentNotificationQuery{
		RecipientID: n.RecipientID,
		Type:        n.Type,
		Title:       n.Title,
		TicketID:    n.TicketID,
		Since:       time.Now().Add(-s.cfg.DedupWindow()),
	})
}

func windowKey(n *domain.Notification) string {
	key := fmt.Sprintf("notify:dedup:%s|%s|%s", n.RecipientID, n.Type, n.Title)
	if n.TicketID != nil {
		key += "|" + *n.TicketID
	}
	return key
}

// BroadcastToWatchers sends one notification per watcher, excluding the
// actor and any explicitly excluded recipients.
func (s *NotificationService) BroadcastToWatchers(ctx context.Context, ticketID, actorID string, template domain.Notification, exclude map[string]struct{}) {
	watchers, err := s.watchers.ListByTicket(ctx, ticketID)
	if err != nil {
		s.logger.Warn("watcher list failed", zap.String("ticket_id", ticketID), zap.Error(err))
		return
	}
	batch := make([]domain.Notification, 0, len(watchers))
	for _, watcher := range watchers {
		if watcher.EmployeeID == actorID {
			continue
		}
		if _, skip := exclude[watcher.EmployeeID]; skip {
			continue
		}
		n := template
		n.RecipientID = watcher.EmployeeID
		batch = append(batch, n)
	}
	s.NotifyManyDeduped(ctx, batch)
}

// ListByRecipient returns stored notifications for an employee.
func (s *NotificationService) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	list, err := s.notifications.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if list == nil {
		list = []domain.Notification{}
	}
	return list, nil
}

// MarkRead marks one notification read for its recipient.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID string) error {
	return apperrors.MapError(s.notifications.MarkRead(ctx, id, recipientID))
}

// MarkAllRead marks every unread notification read for the recipient.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	return apperrors.MapError(s.notifications.MarkAllRead(ctx, recipientID))
}

func (s *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	approvers, err := s.employees.ListActiveByMinLevel(ctx, domain.LevelApprover)
	if err != nil {
		return err
	}
	title := "New ticket awaiting appointment approval"
	message := fmt.Sprintf("A ticket at %s needs its appointment approved", payload.SiteName)
	batch := make([]domain.Notification, 0, len(approvers))
	for _, approver := range approvers {
		if approver.ID == payload.CreatorID {
			continue
		}
		batch = append(batch, domain.Notification{
			RecipientID: approver.ID,
			Type:        domain.NotifyApprovalRequested,
			Title:       title,
			Message:     message,
			TicketID:    &event.TicketID,
			AuditID:     auditRef(payload.AuditID),
			ActorID:     &payload.CreatorID,
		})
	}
	s.NotifyManyDeduped(ctx, batch)
	return nil
}

func (s *NotificationService) handleTicketUnapproved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketUnapprovedPayload)
	if !ok {
		return nil
	}
	title := "Appointment approval withdrawn"
	message := fmt.Sprintf("The appointment for the ticket at %s is no longer approved", payload.SiteName)

	batch := []domain.Notification{}
	if approverID, found := s.audit.LastApproverID(ctx, event.TicketID); found && approverID != payload.EditorID {
		batch = append(batch, domain.Notification{
			RecipientID: approverID,
			Type:        domain.NotifyAppointmentUnapproved,
			Title:       title,
			Message:     message,
			TicketID:    &event.TicketID,
			AuditID:     auditRef(payload.AuditID),
			ActorID:     &payload.EditorID,
		})
	}

	confirmations, err := s.confirmations.ListByTicket(ctx, event.TicketID)
	if err != nil {
		s.logger.Warn("confirmation list failed", zap.String("ticket_id", event.TicketID), zap.Error(err))
	}
	notified := map[string]struct{}{payload.EditorID: {}}
	for _, b := range batch {
		notified[b.RecipientID] = struct{}{}
	}
	for _, confirmation := range confirmations {
		if _, seen := notified[confirmation.EmployeeID]; seen {
			continue
		}
		notified[confirmation.EmployeeID] = struct{}{}
		batch = append(batch, domain.Notification{
			RecipientID: confirmation.EmployeeID,
			Type:        domain.NotifyAppointmentUnapproved,
			Title:       title,
			Message:     message,
			TicketID:    &event.TicketID,
			AuditID:     auditRef(payload.AuditID),
			ActorID:     &payload.EditorID,
		})
	}
	s.NotifyManyDeduped(ctx, batch)
	return nil
}

func (s *NotificationService) handleAppointmentApproved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AppointmentApprovedPayload)
	if !ok {
		return nil
	}
	if payload.CreatorID == "" || payload.CreatorID == payload.ApproverID {
		return nil
	}
	s.NotifyManyDeduped(ctx, []domain.Notification{{
		RecipientID: payload.CreatorID,
		Type:        domain.NotifyAppointmentApproved,
		Title:       "Appointment approved",
		Message:     fmt.Sprintf("The appointment for the ticket at %s was approved", payload.SiteName),
		TicketID:    &event.TicketID,
		AuditID:     auditRef(payload.AuditID),
		ActorID:     &payload.ApproverID,
	}})
	return nil
}

func (s *NotificationService) handleTechniciansConfirmed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TechniciansConfirmedPayload)
	if !ok {
		return nil
	}
	title := "You are confirmed for a job"
	message := fmt.Sprintf("You are confirmed at %s on %s", payload.SiteName, payload.Date.Format(domain.DateOnly))
	batch := make([]domain.Notification, 0, len(payload.Technicians))
	for _, technician := range payload.Technicians {
		if technician.ID == payload.ConfirmedByID {
			continue
		}
		batch = append(batch, domain.Notification{
			RecipientID: technician.ID,
			Type:        domain.NotifyTechnicianConfirmed,
			Title:       title,
			Message:     message,
			TicketID:    &event.TicketID,
			AuditID:     auditRef(payload.AuditID),
			ActorID:     &payload.ConfirmedByID,
		})
	}
	s.NotifyManyDeduped(ctx, batch)
	return nil
}

// handleCommentAdded sends dedicated comment/mention notifications and a
// watcher broadcast. Watchers who already got a dedicated notification are
// excluded from the broadcast so nobody is notified twice for one event.
func (s *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return nil
	}

	dedicated := map[string]struct{}{}

	commenters, err := s.comments.ListCommenterIDs(ctx, event.TicketID)
	if err != nil {
		s.logger.Warn("commenter list failed", zap.String("ticket_id", event.TicketID), zap.Error(err))
	}
	batch := []domain.Notification{}
	for _, commenter := range commenters {
		if commenter == event.ActorID {
			continue
		}
		dedicated[commenter] = struct{}{}
		batch = append(batch, domain.Notification{
			RecipientID: commenter,
			Type:        domain.NotifyNewComment,
			Title:       "New comment on a ticket you commented on",
			Message:     payload.BodyPreview,
			TicketID:    &event.TicketID,
			CommentID:   &payload.CommentID,
			AuditID:     auditRef(payload.AuditID),
			ActorID:     &event.ActorID,
		})
	}
	for _, mentioned := range payload.MentionedIDs {
		if mentioned == event.ActorID {
			continue
		}
		if _, seen := dedicated[mentioned]; seen {
			continue
		}
		dedicated[mentioned] = struct{}{}
		batch = append(batch, domain.Notification{
			RecipientID: mentioned,
			Type:        domain.NotifyMention,
			Title:       "You were mentioned in a comment",
			Message:     payload.BodyPreview,
			TicketID:    &event.TicketID,
			CommentID:   &payload.CommentID,
			AuditID:     auditRef(payload.AuditID),
			ActorID:     &event.ActorID,
		})
	}
	s.NotifyManyDeduped(ctx, batch)

	s.BroadcastToWatchers(ctx, event.TicketID, event.ActorID, domain.Notification{
		Type:      domain.NotifyWatchedTicket,
		Title:     "Activity on a watched ticket",
		Message:   payload.BodyPreview,
		TicketID:  &event.TicketID,
		CommentID: &payload.CommentID,
		AuditID:   auditRef(payload.AuditID),
		ActorID:   &event.ActorID,
	}, dedicated)
	return nil
}

func auditRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
