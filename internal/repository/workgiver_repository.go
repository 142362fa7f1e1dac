package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// WorkGiverRepository handles work-giver reference rows and the 0-or-1
// per-ticket link.
type WorkGiverRepository interface {
	GetByID(ctx context.Context, id string) (*domain.WorkGiver, error)
	GetLinkByTicket(ctx context.Context, ticketID string) (*domain.WorkGiverLink, error)
	SetLink(ctx context.Context, ticketID, workGiverID string) error
	DeleteLinkByTicket(ctx context.Context, ticketID string) error
}

type workGiverRepository struct {
	pool *pgxpool.Pool
}

// NewWorkGiverRepository instantiates repository.
func NewWorkGiverRepository(pool *pgxpool.Pool) WorkGiverRepository {
	return &workGiverRepository{pool: pool}
}

func (r *workGiverRepository) GetByID(ctx context.Context, id string) (*domain.WorkGiver, error) {
	const query = `SELECT id, name, active, created_at FROM work_givers WHERE id=$1`
	var wg domain.WorkGiver
	if err := r.pool.QueryRow(ctx, query, id).Scan(&wg.ID, &wg.Name, &wg.Active, &wg.CreatedAt); err != nil {
		return nil, err
	}
	return &wg, nil
}

func (r *workGiverRepository) GetLinkByTicket(ctx context.Context, ticketID string) (*domain.WorkGiverLink, error) {
	const query = `SELECT id, ticket_id, work_giver_id, created_at FROM work_giver_links WHERE ticket_id=$1`
	var link domain.WorkGiverLink
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&link.ID, &link.TicketID, &link.WorkGiverID, &link.CreatedAt); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *workGiverRepository) SetLink(ctx context.Context, ticketID, workGiverID string) error {
	const query = `
        INSERT INTO work_giver_links (ticket_id, work_giver_id) VALUES ($1,$2)
        ON CONFLICT (ticket_id) DO UPDATE SET work_giver_id=EXCLUDED.work_giver_id`
	_, err := r.pool.Exec(ctx, query, ticketID, workGiverID)
	return err
}

func (r *workGiverRepository) DeleteLinkByTicket(ctx context.Context, ticketID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM work_giver_links WHERE ticket_id=$1`, ticketID)
	return err
}
