package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
)

// CompanyRepository resolves companies by natural key (tax id).
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	GetByTaxID(ctx context.Context, taxID string) (*domain.Company, error)
	Create(ctx context.Context, company *domain.Company) error
}

// SiteRepository finds or creates service locations. Sites are immutable
// once referenced by id, so there is no update.
type SiteRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	Create(ctx context.Context, site *domain.Site) error
}

// ContactRepository follows the same find-or-create pattern as sites.
type ContactRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	Create(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, id string) error
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository instantiates repository.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	const query = `SELECT id, name, tax_id, created_at FROM companies WHERE id=$1`
	return scanCompany(r.pool.QueryRow(ctx, query, id))
}

func (r *companyRepository) GetByTaxID(ctx context.Context, taxID string) (*domain.Company, error) {
	const query = `SELECT id, name, tax_id, created_at FROM companies WHERE tax_id=$1`
	return scanCompany(r.pool.QueryRow(ctx, query, taxID))
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, tax_id) VALUES ($1,$2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, company.Name, company.TaxID).Scan(&company.ID, &company.CreatedAt)
}

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var company domain.Company
	if err := row.Scan(&company.ID, &company.Name, &company.TaxID, &company.CreatedAt); err != nil {
		return nil, err
	}
	return &company, nil
}

type siteRepository struct {
	pool *pgxpool.Pool
}

// NewSiteRepository instantiates repository.
func NewSiteRepository(pool *pgxpool.Pool) SiteRepository {
	return &siteRepository{pool: pool}
}

func (r *siteRepository) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	const query = `
        SELECT id, company_id, name, address, province_code, district_code, subdistrict_code, created_at
        FROM sites WHERE id=$1`
	var site domain.Site
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&site.ID,
		&site.CompanyID,
		&site.Name,
		&site.Address,
		&site.ProvinceCode,
		&site.DistrictCode,
		&site.SubdistrictCode,
		&site.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) Create(ctx context.Context, site *domain.Site) error {
	const query = `
        INSERT INTO sites (company_id, name, address, province_code, district_code, subdistrict_code)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		site.CompanyID,
		site.Name,
		site.Address,
		site.ProvinceCode,
		site.DistrictCode,
		site.SubdistrictCode,
	).Scan(&site.ID, &site.CreatedAt)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository instantiates repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	const query = `SELECT id, site_id, name, phone, email, created_at FROM contacts WHERE id=$1`
	var contact domain.Contact
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&contact.ID,
		&contact.SiteID,
		&contact.Name,
		&contact.Phone,
		&contact.Email,
		&contact.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	const query = `
        INSERT INTO contacts (site_id, name, phone, email) VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		contact.SiteID,
		contact.Name,
		contact.Phone,
		contact.Email,
	).Scan(&contact.ID, &contact.CreatedAt)
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
