package models

// Job represents a row in the "jobs" table.
//
// CompanyName is filled by listings (joined from companies). Company is
// filled when a single job is fetched, in which case CompanyHandle is
// cleared in favour of the nested record.
type Job struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Salary        *int     `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle string   `json:"companyHandle,omitempty"`
	CompanyName   string   `json:"companyName,omitempty"`
	Company       *Company `json:"company,omitempty"`
}

// CreateJobParams holds the fields required to create a job. The id is
// assigned by the database.
type CreateJobParams struct {
	Title         string
	Salary        *int
	Equity        *float64
	CompanyHandle string
}

// JobFilters narrows a job listing.
type JobFilters struct {
	MinSalary *int
	// HasEquity restricts to jobs with a non-zero equity share when true.
	// False and nil both leave equity unfiltered.
	HasEquity *bool
	Title     string
}
