package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// ConflictQuery describes an appointment-overlap check for a set of employees.
type ConflictQuery struct {
	EmployeeIDs     []string
	Date            time.Time
	TimeStart       *string
	TimeEnd         *string
	ExcludeTicketID *string
}

// AppointmentRepository encapsulates appointment persistence.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	Update(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	SetApproval(ctx context.Context, id string, approved bool) error
	FindConflicts(ctx context.Context, q ConflictQuery) ([]string, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (appointment_date, appointment_time_start, appointment_time_end, appointment_type, is_approved)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		appt.Date,
		appt.TimeStart,
		appt.TimeEnd,
		appt.Type,
		appt.IsApproved,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
}

func (r *appointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        UPDATE appointments SET appointment_date=$1, appointment_time_start=$2, appointment_time_end=$3,
            appointment_type=$4, is_approved=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		appt.Date,
		appt.TimeStart,
		appt.TimeEnd,
		appt.Type,
		appt.IsApproved,
		appt.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	const query = `
        SELECT id, appointment_date, appointment_time_start, appointment_time_end, appointment_type, is_approved, created_at, updated_at
        FROM appointments WHERE id=$1`
	var appt domain.Appointment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&appt.ID,
		&appt.Date,
		&appt.TimeStart,
		&appt.TimeEnd,
		&appt.Type,
		&appt.IsApproved,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	return err
}

func (r *appointmentRepository) SetApproval(ctx context.Context, id string, approved bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE appointments SET is_approved=$1, updated_at=NOW() WHERE id=$2`, approved, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FindConflicts delegates overlap detection to the server-side function so the
// window comparison stays in one place.
func (r *appointmentRepository) FindConflicts(ctx context.Context, q ConflictQuery) ([]string, error) {
	const query = `SELECT employee_id FROM find_appointment_conflicts($1,$2,$3,$4,$5)`
	rows, err := r.pool.Query(ctx, query,
		q.EmployeeIDs,
		q.Date,
		q.TimeStart,
		q.TimeEnd,
		q.ExcludeTicketID,
	)
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
