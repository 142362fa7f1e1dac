package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	CountByContact(ctx context.Context, contactID string) (int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (details, additional, summary, work_type_id, status_id, assigner_id, creator_id, site_id, contact_id, appointment_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Details,
		ticket.Additional,
		ticket.Summary,
		ticket.WorkTypeID,
		ticket.StatusID,
		ticket.AssignerID,
		ticket.CreatorID,
		ticket.SiteID,
		ticket.ContactID,
		ticket.AppointmentID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET details=$1, additional=$2, summary=$3, work_type_id=$4, status_id=$5,
            assigner_id=$6, site_id=$7, contact_id=$8, appointment_id=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Details,
		ticket.Additional,
		ticket.Summary,
		ticket.WorkTypeID,
		ticket.StatusID,
		ticket.AssignerID,
		ticket.SiteID,
		ticket.ContactID,
		ticket.AppointmentID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, details, additional, summary, work_type_id, status_id, assigner_id, creator_id,
               site_id, contact_id, appointment_id, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Details,
		&ticket.Additional,
		&ticket.Summary,
		&ticket.WorkTypeID,
		&ticket.StatusID,
		&ticket.AssignerID,
		&ticket.CreatorID,
		&ticket.SiteID,
		&ticket.ContactID,
		&ticket.AppointmentID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) CountByContact(ctx context.Context, contactID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE contact_id=$1`, contactID).Scan(&count)
	return count, err
}
