package domain

// Province is an embedded static reference row.
type Province struct {
	Code string
	Name string
}

// District belongs to a province; loaded lazily into the resolver cache.
type District struct {
	Code         string
	ProvinceCode string
	Name         string
}

// Subdistrict belongs to a district.
type Subdistrict struct {
	Code         string
	DistrictCode string
	Name         string
}

// LocationQuery is one row to resolve in a batch.
type LocationQuery struct {
	ProvinceCode    string
	DistrictCode    string
	SubdistrictCode string
	Address         string
}

// LocationRecord is a display-ready resolved location.
type LocationRecord struct {
	Province    string
	District    string
	Subdistrict string
	Address     string
	// Display is a short human-readable join, e.g. "Bang Rak, Bangkok".
	Display string
}
