package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/jobly/apperr"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/repo"
	"github.com/Skryldev/jobly/sqlfrag"
)

func TestCompanyFilter_Build(t *testing.T) {
	tests := []struct {
		name     string
		filters  models.CompanyFilters
		wantSQL  string
		wantArgs []any
	}{
		{"none", models.CompanyFilters{}, "", nil},
		{"min", models.CompanyFilters{MinEmployees: ptr(10)}, "WHERE num_employees >= $1", []any{10}},
		{"zero min is present", models.CompanyFilters{MinEmployees: ptr(0)}, "WHERE num_employees >= $1", []any{0}},
		{"max and name", models.CompanyFilters{MaxEmployees: ptr(5), Name: "net"},
			"WHERE num_employees <= $1 AND name ILIKE $2", []any{5, "%net%"}},
		{"all", models.CompanyFilters{MinEmployees: ptr(1), MaxEmployees: ptr(9), Name: "a"},
			"WHERE num_employees >= $1 AND num_employees <= $2 AND name ILIKE $3", []any{1, 9, "%a%"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frag, err := repo.CompanyFilter(sqlfrag.Postgres).Build(tc.filters)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, frag.SQL)
			assert.Equal(t, tc.wantArgs, frag.Args)
		})
	}
}

func TestCompanyFilter_Validation(t *testing.T) {
	_, err := repo.CompanyFilter(sqlfrag.Postgres).Build(models.CompanyFilters{
		MinEmployees: ptr(10), MaxEmployees: ptr(1),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	// equal bounds are fine
	frag, err := repo.CompanyFilter(sqlfrag.Postgres).Build(models.CompanyFilters{
		MinEmployees: ptr(3), MaxEmployees: ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, []any{3, 3}, frag.Args)
}

func TestJobFilter_Build(t *testing.T) {
	tests := []struct {
		name     string
		filters  models.JobFilters
		wantSQL  string
		wantArgs []any
	}{
		{"none", models.JobFilters{}, "", nil},
		{"equity false is absent", models.JobFilters{HasEquity: ptr(false)}, "", nil},
		{"equity only binds nothing", models.JobFilters{HasEquity: ptr(true)}, "WHERE equity > 0", nil},
		{"equity does not consume a placeholder", models.JobFilters{MinSalary: ptr(100), HasEquity: ptr(true), Title: "eng"},
			"WHERE salary >= $1 AND equity > 0 AND title LIKE $2", []any{100, "%eng%"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frag, err := repo.JobFilter(sqlfrag.SQLite).Build(tc.filters)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, frag.SQL)
			assert.Equal(t, tc.wantArgs, frag.Args)
		})
	}
}
