package domain

import "time"

// Company is resolved by tax id and reused as-is once it exists.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	CreatedAt time.Time
}

// Site is a service location. Once referenced by id it is immutable; the
// orchestrator only ever finds or creates, never updates.
type Site struct {
	ID              string
	CompanyID       *string
	Name            string
	Address         string
	ProvinceCode    *string
	DistrictCode    *string
	SubdistrictCode *string
	CreatedAt       time.Time
}

// Contact belongs to a site and follows the same find-or-create pattern.
type Contact struct {
	ID        string
	SiteID    *string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}
