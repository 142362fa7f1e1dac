package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// AssignmentRepository stores employee-assignment join rows. Update
// semantics are delete-all-then-insert per ticket.
type AssignmentRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]domain.EmployeeAssignment, error)
	Insert(ctx context.Context, rows []domain.EmployeeAssignment) error
	DeleteByTicket(ctx context.Context, ticketID string) error
	DeleteByKey(ctx context.Context, ticketID, employeeID string, date time.Time) error
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.EmployeeAssignment, error) {
	const query = `
        SELECT id, ticket_id, employee_id, assignment_date, is_key, created_at
        FROM employee_assignments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EmployeeAssignment
	for rows.Next() {
		var row domain.EmployeeAssignment
		if err := rows.Scan(
			&row.ID,
			&row.TicketID,
			&row.EmployeeID,
			&row.AssignmentDate,
			&row.IsKey,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *assignmentRepository) Insert(ctx context.Context, rows []domain.EmployeeAssignment) error {
	const query = `
        INSERT INTO employee_assignments (ticket_id, employee_id, assignment_date, is_key)
        VALUES ($1,$2,$3,$4)`
	for i := range rows {
		if _, err := r.pool.Exec(ctx, query,
			rows[i].TicketID,
			rows[i].EmployeeID,
			rows[i].AssignmentDate,
			rows[i].IsKey,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *assignmentRepository) DeleteByTicket(ctx context.Context, ticketID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM employee_assignments WHERE ticket_id=$1`, ticketID)
	return err
}

func (r *assignmentRepository) DeleteByKey(ctx context.Context, ticketID, employeeID string, date time.Time) error {
	const query = `
        DELETE FROM employee_assignments WHERE ticket_id=$1 AND employee_id=$2 AND assignment_date=$3`
	cmd, err := r.pool.Exec(ctx, query, ticketID, employeeID, date)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
