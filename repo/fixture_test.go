package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/migrations"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/repo"
	"github.com/Skryldev/jobly/sqlfrag"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixture
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	db        *db.DB
	companies repo.CompanyRepository
	jobs      repo.JobRepository
	jobIDs    []int64
}

func ptr[T any](v T) *T { return &v }

// newFixture opens an in-memory SQLite database, applies the schema and
// seeds three companies (c1, c2, c3 with 1, 2 and 3 employees) and four
// jobs on c1:
//
//	j1  salary 100   equity 0.1
//	j2  salary 200   equity 0.2
//	j3  salary 300   equity 0
//	j4  salary nil   equity nil
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	d, err := db.Open(db.Config{
		DSN:          "file::memory:?_foreign_keys=on",
		DriverName:   "sqlite3",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, migrations.Apply(ctx, d, sqlfrag.SQLite))

	f := &fixture{
		db:        d,
		companies: repo.NewCompanyRepo(d, d.Dialect()),
		jobs:      repo.NewJobRepo(d, d.Dialect()),
	}

	for i, h := range []string{"c1", "c2", "c3"} {
		_, err := f.companies.Create(ctx, models.CreateCompanyParams{
			Handle:       h,
			Name:         "C" + h[1:],
			Description:  "Desc" + h[1:],
			NumEmployees: ptr(i + 1),
			LogoURL:      ptr("http://" + h + ".img"),
		})
		require.NoError(t, err)
	}

	for _, p := range []models.CreateJobParams{
		{Title: "J1", Salary: ptr(100), Equity: ptr(0.1), CompanyHandle: "c1"},
		{Title: "J2", Salary: ptr(200), Equity: ptr(0.2), CompanyHandle: "c1"},
		{Title: "J3", Salary: ptr(300), Equity: ptr(0.0), CompanyHandle: "c1"},
		{Title: "J4", CompanyHandle: "c1"},
	} {
		j, err := f.jobs.Create(ctx, p)
		require.NoError(t, err)
		f.jobIDs = append(f.jobIDs, j.ID)
	}
	return f
}
