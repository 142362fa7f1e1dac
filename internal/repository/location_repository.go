package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// LocationRepository loads the administrative-area reference tables the
// resolver caches in memory.
type LocationRepository interface {
	ListDistricts(ctx context.Context) ([]domain.District, error)
	ListSubdistricts(ctx context.Context) ([]domain.Subdistrict, error)
}

type locationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository instantiates repository.
func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

func (r *locationRepository) ListDistricts(ctx context.Context) ([]domain.District, error) {
	const query = `SELECT code, province_code, name FROM districts`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.District
	for rows.Next() {
		var d domain.District
		if err := rows.Scan(&d.Code, &d.ProvinceCode, &d.Name); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *locationRepository) ListSubdistricts(ctx context.Context) ([]domain.Subdistrict, error) {
	const query = `SELECT code, district_code, name FROM subdistricts`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subdistrict
	for rows.Next() {
		var s domain.Subdistrict
		if err := rows.Scan(&s.Code, &s.DistrictCode, &s.Name); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
