package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// RecentNotificationQuery is the time-window dedup probe used when no audit
// id accompanies a notification.
type RecentNotificationQuery struct {
	RecipientID string
	Type        domain.NotificationType
	Title       string
	TicketID    *string
	Since       time.Time
}

// NotificationRepository stores per-recipient notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, notification *domain.Notification) error
	ExistsForAudit(ctx context.Context, recipientID, auditID string) (bool, error)
	ExistsRecent(ctx context.Context, q RecentNotificationQuery) (bool, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Insert(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_id, type, title, message, ticket_id, comment_id, audit_id, actor_id, metadata)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		notification.RecipientID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.TicketID,
		notification.CommentID,
		notification.AuditID,
		notification.ActorID,
		notification.Metadata,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *notificationRepository) ExistsForAudit(ctx context.Context, recipientID, auditID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM notifications WHERE recipient_id=$1 AND audit_id=$2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, recipientID, auditID).Scan(&exists)
	return exists, err
}

func (r *notificationRepository) ExistsRecent(ctx context.Context, q RecentNotificationQuery) (bool, error) {
	const query = `
        SELECT EXISTS(
            SELECT 1 FROM notifications
            WHERE recipient_id=$1 AND type=$2 AND title=$3
              AND ($4::uuid IS NULL OR ticket_id=$4)
              AND created_at >= $5)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, q.RecipientID, q.Type, q.Title, q.TicketID, q.Since).Scan(&exists)
	return exists, err
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
        SELECT id, recipient_id, type, title, message, ticket_id, comment_id, audit_id, actor_id, is_read, read_at, metadata, created_at
        FROM notifications WHERE recipient_id=$1`
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.TicketID,
			&n.CommentID,
			&n.AuditID,
			&n.ActorID,
			&n.IsRead,
			&n.ReadAt,
			&n.Metadata,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	const query = `UPDATE notifications SET is_read=TRUE, read_at=NOW() WHERE id=$1 AND recipient_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, recipientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	const query = `UPDATE notifications SET is_read=TRUE, read_at=NOW() WHERE recipient_id=$1 AND NOT is_read`
	_, err := r.pool.Exec(ctx, query, recipientID)
	return err
}
