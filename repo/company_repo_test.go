package repo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/jobly/apperr"
	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/repo"
	"github.com/Skryldev/jobly/sqlfrag"
)

func handles(cs []*models.Company) []string {
	return lo.Map(cs, func(c *models.Company, _ int) string { return c.Handle })
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestCompanyRepo_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.companies.Create(ctx, models.CreateCompanyParams{
		Handle:       "new",
		Name:         "New",
		Description:  "New Description",
		NumEmployees: ptr(1),
		LogoURL:      ptr("http://new.img"),
	})
	require.NoError(t, err)
	assert.Equal(t, &models.Company{
		Handle:       "new",
		Name:         "New",
		Description:  "New Description",
		NumEmployees: ptr(1),
		LogoURL:      ptr("http://new.img"),
	}, c)

	n, err := f.companies.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestCompanyRepo_Create_NullableFields(t *testing.T) {
	f := newFixture(t)

	c, err := f.companies.Create(context.Background(), models.CreateCompanyParams{
		Handle: "bare", Name: "Bare", Description: "",
	})
	require.NoError(t, err)
	assert.Nil(t, c.NumEmployees)
	assert.Nil(t, c.LogoURL)
}

func TestCompanyRepo_Create_DuplicateHandle(t *testing.T) {
	f := newFixture(t)

	_, err := f.companies.Create(context.Background(), models.CreateCompanyParams{
		Handle: "c1", Name: "Another", Description: "d",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, "duplicate company: c1", apperr.Message(err))
}

func TestCompanyRepo_Create_DuplicateName(t *testing.T) {
	f := newFixture(t)

	_, err := f.companies.Create(context.Background(), models.CreateCompanyParams{
		Handle: "c9", Name: "C1", Description: "d",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.True(t, db.IsDuplicateKey(err), "driver error must stay reachable")
}

func TestCompanyRepo_Create_InvalidHandle(t *testing.T) {
	f := newFixture(t)

	_, err := f.companies.Create(context.Background(), models.CreateCompanyParams{
		Handle: "UPPER", Name: "Upper", Description: "d",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

// blindCheck makes the existence check look up a handle that is never
// present, which is what a concurrent create between the check and the
// insert looks like to Create.
type blindCheck struct{ db.Querier }

func (b blindCheck) QueryRow(ctx context.Context, query string, args ...any) *db.Row {
	if strings.Join(strings.Fields(query), " ") == "SELECT handle FROM companies WHERE handle = $1" {
		args = []any{"not-a-company"}
	}
	return b.Querier.QueryRow(ctx, query, args...)
}

// The check-then-insert in Create is not atomic. Losing the race surfaces
// as the insert's primary key violation, which must still read as a
// conflict.
func TestCompanyRepo_Create_LostRaceIsConflict(t *testing.T) {
	f := newFixture(t)
	r := repo.NewCompanyRepo(blindCheck{f.db}, f.db.Dialect())

	_, err := r.Create(context.Background(), models.CreateCompanyParams{
		Handle: "c1", Name: "C1 again", Description: "d",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, "duplicate company: c1", apperr.Message(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll
// ─────────────────────────────────────────────────────────────────────────────

func TestCompanyRepo_FindAll_NoFilter(t *testing.T) {
	f := newFixture(t)

	cs, err := f.companies.FindAll(context.Background(), models.CompanyFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, handles(cs))
	assert.Equal(t, "Desc1", cs[0].Description)
	assert.Nil(t, cs[0].Jobs)
}

func TestCompanyRepo_FindAll_OrderedByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.companies.Create(ctx, models.CreateCompanyParams{Handle: "aaa", Name: "Zeta", Description: "d"})
	require.NoError(t, err)
	_, err = f.companies.Create(ctx, models.CreateCompanyParams{Handle: "zzz", Name: "Alpha", Description: "d"})
	require.NoError(t, err)

	cs, err := f.companies.FindAll(ctx, models.CompanyFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"zzz", "c1", "c2", "c3", "aaa"}, handles(cs))
}

func TestCompanyRepo_FindAll_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.companies.Create(ctx, models.CreateCompanyParams{Handle: "nohead", Name: "No Headcount", Description: "d"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		filters models.CompanyFilters
		want    []string
	}{
		{"min", models.CompanyFilters{MinEmployees: ptr(2)}, []string{"c2", "c3"}},
		{"max", models.CompanyFilters{MaxEmployees: ptr(2)}, []string{"c1", "c2"}},
		{"min and max", models.CompanyFilters{MinEmployees: ptr(2), MaxEmployees: ptr(2)}, []string{"c2"}},
		// A zero bound is applied, so unknown headcounts drop out.
		{"zero min", models.CompanyFilters{MinEmployees: ptr(0)}, []string{"c1", "c2", "c3"}},
		{"name ignores case", models.CompanyFilters{Name: "c"}, []string{"c1", "c2", "c3", "nohead"}},
		{"name substring", models.CompanyFilters{Name: "HEAD"}, []string{"nohead"}},
		{"all criteria", models.CompanyFilters{MinEmployees: ptr(1), MaxEmployees: ptr(3), Name: "3"}, []string{"c3"}},
		{"no match", models.CompanyFilters{Name: "nope"}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cs, err := f.companies.FindAll(ctx, tc.filters)
			require.NoError(t, err)
			assert.Equal(t, tc.want, handles(cs))
		})
	}
}

func TestCompanyRepo_FindAll_InvalidFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, fl := range []models.CompanyFilters{
		{MinEmployees: ptr(3), MaxEmployees: ptr(1)},
		{MinEmployees: ptr(-1)},
		{MaxEmployees: ptr(-1)},
	} {
		_, err := f.companies.FindAll(ctx, fl)
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Get
// ─────────────────────────────────────────────────────────────────────────────

func TestCompanyRepo_Get(t *testing.T) {
	f := newFixture(t)

	c, err := f.companies.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "C1", c.Name)
	require.Len(t, c.Jobs, 4)
	assert.Equal(t, f.jobIDs, lo.Map(c.Jobs, func(j models.Job, _ int) int64 { return j.ID }))
	assert.Equal(t, "J1", c.Jobs[0].Title)
	assert.Equal(t, ptr(100), c.Jobs[0].Salary)
	assert.InDelta(t, 0.1, *c.Jobs[0].Equity, 1e-9)
	assert.Nil(t, c.Jobs[3].Salary)
}

func TestCompanyRepo_Get_NoJobs(t *testing.T) {
	f := newFixture(t)

	c, err := f.companies.Get(context.Background(), "c2")
	require.NoError(t, err)
	assert.NotNil(t, c.Jobs)
	assert.Empty(t, c.Jobs)
}

func TestCompanyRepo_Get_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.companies.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func TestCompanyRepo_Update_Partial(t *testing.T) {
	f := newFixture(t)

	c, err := f.companies.Update(context.Background(), "c1", sqlfrag.NewPayload().Set("numEmployees", 50))
	require.NoError(t, err)
	assert.Equal(t, &models.Company{
		Handle:       "c1",
		Name:         "C1",
		Description:  "Desc1",
		NumEmployees: ptr(50),
		LogoURL:      ptr("http://c1.img"),
	}, c)
}

func TestCompanyRepo_Update_MappedAndUnmappedFields(t *testing.T) {
	f := newFixture(t)

	p := sqlfrag.NewPayload().
		Set("name", "New").
		Set("description", "New Description").
		Set("logoUrl", nil).
		Set("numEmployees", nil)
	c, err := f.companies.Update(context.Background(), "c1", p)
	require.NoError(t, err)
	assert.Equal(t, "New", c.Name)
	assert.Equal(t, "New Description", c.Description)
	assert.Nil(t, c.LogoURL)
	assert.Nil(t, c.NumEmployees)
}

func TestCompanyRepo_Update_EmptyPayload(t *testing.T) {
	f := newFixture(t)

	_, err := f.companies.Update(context.Background(), "c1", sqlfrag.NewPayload())
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "no data supplied", apperr.Message(err))
}

func TestCompanyRepo_Update_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.companies.Update(context.Background(), "nope", sqlfrag.NewPayload().Set("name", "x"))
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCompanyRepo_Update_DuplicateName(t *testing.T) {
	f := newFixture(t)

	_, err := f.companies.Update(context.Background(), "c1", sqlfrag.NewPayload().Set("name", "C2"))
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestCompanyRepo_Update_NegativeEmployees(t *testing.T) {
	f := newFixture(t)

	_, err := f.companies.Update(context.Background(), "c1", sqlfrag.NewPayload().Set("numEmployees", -5))
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Remove
// ─────────────────────────────────────────────────────────────────────────────

func TestCompanyRepo_Remove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.companies.Remove(ctx, "c1"))

	_, err := f.companies.Get(ctx, "c1")
	assert.True(t, apperr.IsNotFound(err))

	// jobs of c1 went with it
	n, err := f.jobs.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = f.companies.Remove(ctx, "c1")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Transactions
// ─────────────────────────────────────────────────────────────────────────────

func TestCompanyRepo_InsideTx_RollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.db.ExecTx(ctx, func(tx *db.Tx) error {
		r := repo.NewCompanyRepo(tx, f.db.Dialect())
		if _, err := r.Create(ctx, models.CreateCompanyParams{Handle: "tx", Name: "Tx", Description: "d"}); err != nil {
			return err
		}
		return r.Remove(ctx, "nope")
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	n, err := f.companies.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
