package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// EmployeeRepository encapsulates employee lookup.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Employee, error)
	ListActiveByMinLevel(ctx context.Context, level domain.PermissionLevel) ([]domain.Employee, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, name, nickname, email, password_hash, permission_level, active, created_at, updated_at`

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	return scanEmployeeRow(r.pool.QueryRow(ctx, query, id))
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email=$1`
	return scanEmployeeRow(r.pool.QueryRow(ctx, query, email))
}

func (r *employeeRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Employee, error) {
	if len(ids) == 0 {
		return []domain.Employee{}, nil
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

func (r *employeeRepository) ListActiveByMinLevel(ctx context.Context, level domain.PermissionLevel) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE active AND permission_level >= $1`
	rows, err := r.pool.Query(ctx, query, int(level))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

func scanEmployeeRow(row pgx.Row) (*domain.Employee, error) {
	var emp domain.Employee
	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Nickname,
		&emp.Email,
		&emp.PasswordHash,
		&emp.Level,
		&emp.Active,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}

func scanEmployees(rows pgx.Rows) ([]domain.Employee, error) {
	var result []domain.Employee
	for rows.Next() {
		var emp domain.Employee
		if err := rows.Scan(
			&emp.ID,
			&emp.Name,
			&emp.Nickname,
			&emp.Email,
			&emp.PasswordHash,
			&emp.Level,
			&emp.Active,
			&emp.CreatedAt,
			&emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, emp)
	}
	return result, rows.Err()
}
