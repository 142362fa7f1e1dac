package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// AuditRepository stores immutable ticket audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.AuditEntry, error)
	LatestByAction(ctx context.Context, ticketID string, action domain.AuditAction) (*domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO ticket_audits (ticket_id, action, changed_by_id, old_values, new_values, changed_fields, metadata)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.Action,
		entry.ChangedByID,
		entry.OldValues,
		entry.NewValues,
		entry.ChangedFields,
		entry.Metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, action, changed_by_id, old_values, new_values, changed_fields, metadata, created_at
        FROM ticket_audits WHERE ticket_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		entry, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func (r *auditRepository) LatestByAction(ctx context.Context, ticketID string, action domain.AuditAction) (*domain.AuditEntry, error) {
	const query = `
        SELECT id, ticket_id, action, changed_by_id, old_values, new_values, changed_fields, metadata, created_at
        FROM ticket_audits WHERE ticket_id=$1 AND action=$2 ORDER BY created_at DESC LIMIT 1`
	rows, err := r.pool.Query(ctx, query, ticketID, action)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, pgx.ErrNoRows
	}
	return scanAudit(rows)
}

func scanAudit(rows pgx.Rows) (*domain.AuditEntry, error) {
	var entry domain.AuditEntry
	if err := rows.Scan(
		&entry.ID,
		&entry.TicketID,
		&entry.Action,
		&entry.ChangedByID,
		&entry.OldValues,
		&entry.NewValues,
		&entry.ChangedFields,
		&entry.Metadata,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}
