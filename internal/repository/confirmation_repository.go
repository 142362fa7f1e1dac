package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// ConfirmationRepository stores technician confirmations. Replacement is
// per (ticket, date): delete then insert.
type ConfirmationRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TechnicianConfirmation, error)
	Insert(ctx context.Context, rows []domain.TechnicianConfirmation) error
	DeleteByTicketDate(ctx context.Context, ticketID string, date time.Time) error
}

type confirmationRepository struct {
	pool *pgxpool.Pool
}

// NewConfirmationRepository instantiates repository.
func NewConfirmationRepository(pool *pgxpool.Pool) ConfirmationRepository {
	return &confirmationRepository{pool: pool}
}

func (r *confirmationRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TechnicianConfirmation, error) {
	const query = `
        SELECT id, ticket_id, employee_id, confirmed_by_id, confirmation_date, is_key, notes, created_at
        FROM technician_confirmations WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TechnicianConfirmation
	for rows.Next() {
		var row domain.TechnicianConfirmation
		if err := rows.Scan(
			&row.ID,
			&row.TicketID,
			&row.EmployeeID,
			&row.ConfirmedByID,
			&row.ConfirmationDate,
			&row.IsKey,
			&row.Notes,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *confirmationRepository) Insert(ctx context.Context, rows []domain.TechnicianConfirmation) error {
	const query = `
        INSERT INTO technician_confirmations (ticket_id, employee_id, confirmed_by_id, confirmation_date, is_key, notes)
        VALUES ($1,$2,$3,$4,$5,$6)`
	for i := range rows {
		if _, err := r.pool.Exec(ctx, query,
			rows[i].TicketID,
			rows[i].EmployeeID,
			rows[i].ConfirmedByID,
			rows[i].ConfirmationDate,
			rows[i].IsKey,
			rows[i].Notes,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *confirmationRepository) DeleteByTicketDate(ctx context.Context, ticketID string, date time.Time) error {
	const query = `DELETE FROM technician_confirmations WHERE ticket_id=$1 AND confirmation_date=$2`
	_, err := r.pool.Exec(ctx, query, ticketID, date)
	return err
}
