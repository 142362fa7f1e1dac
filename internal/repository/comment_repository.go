package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository exposes the single comment query the fanout needs:
// comment CRUD itself lives outside this service.
type CommentRepository interface {
	ListCommenterIDs(ctx context.Context, ticketID string) ([]string, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) ListCommenterIDs(ctx context.Context, ticketID string) ([]string, error) {
	const query = `SELECT DISTINCT author_id FROM ticket_comments WHERE ticket_id=$1`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
