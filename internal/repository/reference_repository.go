package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// ReferenceRepository serves the small work-type and status lookup tables.
type ReferenceRepository interface {
	GetWorkType(ctx context.Context, id string) (*domain.WorkType, error)
	GetStatus(ctx context.Context, id string) (*domain.TicketStatus, error)
}

type referenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository instantiates repository.
func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool}
}

func (r *referenceRepository) GetWorkType(ctx context.Context, id string) (*domain.WorkType, error) {
	const query = `SELECT id, name, code, active FROM work_types WHERE id=$1`
	var wt domain.WorkType
	if err := r.pool.QueryRow(ctx, query, id).Scan(&wt.ID, &wt.Name, &wt.Code, &wt.Active); err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *referenceRepository) GetStatus(ctx context.Context, id string) (*domain.TicketStatus, error) {
	const query = `SELECT id, name, code FROM ticket_statuses WHERE id=$1`
	var st domain.TicketStatus
	if err := r.pool.QueryRow(ctx, query, id).Scan(&st.ID, &st.Name, &st.Code); err != nil {
		return nil, err
	}
	return &st, nil
}
