package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// WatcherRepository stores ticket notification subscriptions.
type WatcherRepository interface {
	Upsert(ctx context.Context, watcher *domain.Watcher) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Watcher, error)
	Delete(ctx context.Context, ticketID, employeeID string) error
}

type watcherRepository struct {
	pool *pgxpool.Pool
}

// NewWatcherRepository instantiates repository.
func NewWatcherRepository(pool *pgxpool.Pool) WatcherRepository {
	return &watcherRepository{pool: pool}
}

// Upsert keeps the original row (and its source) when the employee is
// already subscribed.
func (r *watcherRepository) Upsert(ctx context.Context, watcher *domain.Watcher) error {
	const query = `
        INSERT INTO ticket_watchers (ticket_id, employee_id, added_by_id, source)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (ticket_id, employee_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query,
		watcher.TicketID,
		watcher.EmployeeID,
		watcher.AddedByID,
		watcher.Source,
	)
	return err
}

func (r *watcherRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Watcher, error) {
	const query = `
        SELECT id, ticket_id, employee_id, added_by_id, source, created_at
        FROM ticket_watchers WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Watcher
	for rows.Next() {
		var watcher domain.Watcher
		if err := rows.Scan(
			&watcher.ID,
			&watcher.TicketID,
			&watcher.EmployeeID,
			&watcher.AddedByID,
			&watcher.Source,
			&watcher.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, watcher)
	}
	return result, rows.Err()
}

func (r *watcherRepository) Delete(ctx context.Context, ticketID, employeeID string) error {
	const query = `DELETE FROM ticket_watchers WHERE ticket_id=$1 AND employee_id=$2`
	cmd, err := r.pool.Exec(ctx, query, ticketID, employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
