package repo

import (
	"github.com/Skryldev/jobly/apperr"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlfrag"
)

// CompanyFilter builds the WHERE clause of a company listing. The
// conditions bind in this order: minimum headcount, maximum headcount,
// name substring.
func CompanyFilter(d sqlfrag.Dialect) sqlfrag.Filter[models.CompanyFilters] {
	return sqlfrag.Filter[models.CompanyFilters]{
		Validate: validateCompanyFilters,
		Conditions: []sqlfrag.Condition[models.CompanyFilters]{
			sqlfrag.Compare("num_employees", ">=", func(f models.CompanyFilters) *int { return f.MinEmployees }),
			sqlfrag.Compare("num_employees", "<=", func(f models.CompanyFilters) *int { return f.MaxEmployees }),
			sqlfrag.Contains(d, "name", func(f models.CompanyFilters) string { return f.Name }),
		},
	}
}

func validateCompanyFilters(f models.CompanyFilters) error {
	if f.MinEmployees != nil && *f.MinEmployees < 0 {
		return apperr.Validation("minEmployees cannot be negative")
	}
	if f.MaxEmployees != nil && *f.MaxEmployees < 0 {
		return apperr.Validation("maxEmployees cannot be negative")
	}
	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return apperr.Validation("minEmployees cannot be greater than maxEmployees")
	}
	return nil
}

// JobFilter builds the WHERE clause of a job listing. The conditions bind
// in this order: minimum salary, equity flag (no parameter), title
// substring.
func JobFilter(d sqlfrag.Dialect) sqlfrag.Filter[models.JobFilters] {
	return sqlfrag.Filter[models.JobFilters]{
		Conditions: []sqlfrag.Condition[models.JobFilters]{
			sqlfrag.Compare("salary", ">=", func(f models.JobFilters) *int { return f.MinSalary }),
			sqlfrag.When(func(f models.JobFilters) bool { return f.HasEquity != nil && *f.HasEquity }, "equity > 0"),
			sqlfrag.Contains(d, "title", func(f models.JobFilters) string { return f.Title }),
		},
	}
}
