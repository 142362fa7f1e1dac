package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/repository"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

// AuditService appends immutable audit entries. Failures are swallowed so a
// broken audit channel can never fail a ticket mutation.
type AuditService struct {
	audits repository.AuditRepository
	logger *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(audits repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{audits: audits, logger: logger}
}

// Record writes the entry and returns it with its id populated. On failure
// the error is logged and nil is returned.
func (s *AuditService) Record(ctx context.Context, entry *domain.AuditEntry) *domain.AuditEntry {
	if s == nil || s.audits == nil {
		return nil
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("ticket_id", entry.TicketID),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		return nil
	}
	return entry
}

// ListByTicket returns the audit trail, newest first.
func (s *AuditService) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.AuditEntry, error) {
	entries, err := s.audits.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

// LastApproverID scans the audit history for the most recent approval and
// returns who performed it.
func (s *AuditService) LastApproverID(ctx context.Context, ticketID string) (string, bool) {
	entry, err := s.audits.LatestByAction(ctx, ticketID, domain.AuditApproved)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("audit lookup failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
		return "", false
	}
	return entry.ChangedByID, true
}
