package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// MerchandiseRepository handles equipment rows and their ticket links.
type MerchandiseRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]domain.Merchandise, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Merchandise, error)
	InsertLinks(ctx context.Context, ticketID string, merchandiseIDs []string) error
	DeleteLinksByTicket(ctx context.Context, ticketID string) error
}

type merchandiseRepository struct {
	pool *pgxpool.Pool
}

// NewMerchandiseRepository instantiates repository.
func NewMerchandiseRepository(pool *pgxpool.Pool) MerchandiseRepository {
	return &merchandiseRepository{pool: pool}
}

const merchandiseColumns = `id, site_id, serial_number, model, brand, capacity, created_at`

func (r *merchandiseRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Merchandise, error) {
	if len(ids) == 0 {
		return []domain.Merchandise{}, nil
	}
	query := `SELECT ` + merchandiseColumns + ` FROM merchandise WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMerchandise(rows)
}

func (r *merchandiseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Merchandise, error) {
	query := `
        SELECT m.id, m.site_id, m.serial_number, m.model, m.brand, m.capacity, m.created_at
        FROM merchandise m
        JOIN merchandise_links l ON l.merchandise_id = m.id
        WHERE l.ticket_id=$1 ORDER BY l.created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMerchandise(rows)
}

func (r *merchandiseRepository) InsertLinks(ctx context.Context, ticketID string, merchandiseIDs []string) error {
	const query = `INSERT INTO merchandise_links (ticket_id, merchandise_id) VALUES ($1,$2)`
	for _, id := range merchandiseIDs {
		if _, err := r.pool.Exec(ctx, query, ticketID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *merchandiseRepository) DeleteLinksByTicket(ctx context.Context, ticketID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM merchandise_links WHERE ticket_id=$1`, ticketID)
	return err
}

func scanMerchandise(rows pgx.Rows) ([]domain.Merchandise, error) {
	var result []domain.Merchandise
	for rows.Next() {
		var item domain.Merchandise
		if err := rows.Scan(
			&item.ID,
			&item.SiteID,
			&item.SerialNumber,
			&item.Model,
			&item.Brand,
			&item.Capacity,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
