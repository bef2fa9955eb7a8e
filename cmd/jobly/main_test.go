package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/jobly/config"
	"github.com/Skryldev/jobly/models"
)

func TestHandleFor(t *testing.T) {
	tests := []struct {
		name string
		i    int
		want string
	}{
		{"Acme Inc", 0, "acme-inc-0"},
		{"  Smith, Jones & Co.  ", 7, "smith-jones-co-7"},
		{"A Very Long Company Name Incorporated", 12, "a-very-long-company-na-12"},
		{"!!!", 3, "-3"},
	}
	for _, tc := range tests {
		got := handleFor(tc.name, tc.i)
		assert.Equal(t, tc.want, got, tc.name)
		assert.LessOrEqual(t, len(got), 25)
		assert.Equal(t, strings.ToLower(got), got)
	}
}

func TestFakeData(t *testing.T) {
	gen := faker.New()

	companies := fakeCompanies(gen, 20)
	require.Len(t, companies, 20)
	names := map[string]bool{}
	handles := map[string]bool{}
	for _, c := range companies {
		assert.False(t, names[c.Name], "duplicate name %q", c.Name)
		assert.False(t, handles[c.Handle], "duplicate handle %q", c.Handle)
		names[c.Name], handles[c.Handle] = true, true
		require.NotNil(t, c.NumEmployees)
		assert.GreaterOrEqual(t, *c.NumEmployees, 1)
	}

	jobs := fakeJobs(gen, "acme-0", 50)
	require.Len(t, jobs, 50)
	for _, j := range jobs {
		assert.Equal(t, "acme-0", j.CompanyHandle)
		assert.NotEmpty(t, j.Title)
		if j.Equity != nil {
			assert.LessOrEqual(t, *j.Equity, 1.0)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log, err := newLogger(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")

	_, err = newLogger(config.LogConfig{Level: "loud", Format: "json"}, &buf)
	assert.Error(t, err)
	_, err = newLogger(config.LogConfig{Level: "info", Format: "xml"}, &buf)
	assert.Error(t, err)
}

func TestRenderCompanies(t *testing.T) {
	var buf bytes.Buffer
	n := 12
	renderCompanies(&buf, []*models.Company{
		{Handle: "acme-0", Name: "Acme", NumEmployees: &n},
		{Handle: "bare-1", Name: "Bare"},
	})

	out := buf.String()
	assert.Contains(t, out, "Handle")
	assert.Contains(t, out, "Employees")
	assert.Contains(t, out, "acme-0")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "bare-1")
}

func TestRenderJobs(t *testing.T) {
	var buf bytes.Buffer
	salary, equity := 1000, 0.05
	renderJobs(&buf, []*models.Job{
		{ID: 1, Title: "Engineer", Salary: &salary, Equity: &equity, CompanyName: "Acme"},
	})

	out := buf.String()
	assert.Contains(t, out, "Engineer")
	assert.Contains(t, out, "0.05")
	assert.Contains(t, out, "Acme")
}

// run executes the CLI with args and returns what it printed.
func run(t *testing.T, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	require.NoError(t, root.Execute(), "jobly %s: %s", strings.Join(args, " "), errOut.String())
	return out.String()
}

func TestCLI_MigrateSeedList(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(dir, "jobly.db")+"?_foreign_keys=on")
	t.Setenv("JOBLY_LOG_LEVEL", "error")

	run(t, "migrate", "up")
	assert.Contains(t, run(t, "migrate", "version"), "version: 2  dirty: false")

	out := run(t, "seed", "--companies", "3", "--jobs-per-company", "2")
	assert.Contains(t, out, "seeded 3 companies, 6 jobs (totals: 3 companies, 6 jobs)")

	out = run(t, "companies", "list", "--min-employees", "0")
	assert.Contains(t, out, "Handle")
	// borders, header and one line per company
	assert.Equal(t, 7, strings.Count(out, "\n"))

	out = run(t, "jobs", "list", "--min-salary", "0")
	assert.Contains(t, out, "Salary")

	run(t, "migrate", "down", "2")
	assert.Contains(t, run(t, "migrate", "version"), "version: 0  dirty: false")
}
