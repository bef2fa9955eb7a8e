package models

// Company represents a row in the "companies" table.
// Jobs is only populated when a single company is fetched.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
	Jobs         []Job   `json:"jobs,omitempty"`
}

// CreateCompanyParams holds the fields required to create a company.
// Handle is the natural key and cannot be changed afterwards.
type CreateCompanyParams struct {
	Handle       string
	Name         string
	Description  string
	NumEmployees *int
	LogoURL      *string
}

// CompanyFilters narrows a company listing. Nil bounds are ignored; a
// bound pointing at zero is applied. An empty Name is ignored.
type CompanyFilters struct {
	MinEmployees *int
	MaxEmployees *int
	// Name matches any company whose name contains it, ignoring case.
	Name string
}
