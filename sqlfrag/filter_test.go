package sqlfrag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/jobly/sqlfrag"
)

type criteria struct {
	Low    *int
	Flag   bool
	Search string
}

func testFilter(d sqlfrag.Dialect) sqlfrag.Filter[criteria] {
	return sqlfrag.Filter[criteria]{
		Conditions: []sqlfrag.Condition[criteria]{
			sqlfrag.Compare("low", ">=", func(c criteria) *int { return c.Low }),
			sqlfrag.When(func(c criteria) bool { return c.Flag }, "flag > 0"),
			sqlfrag.Contains(d, "search", func(c criteria) string { return c.Search }),
		},
	}
}

func intp(n int) *int { return &n }

func TestFilter_Empty(t *testing.T) {
	frag, err := testFilter(sqlfrag.Postgres).Build(criteria{})
	require.NoError(t, err)
	assert.True(t, frag.Empty())
	assert.Empty(t, frag.Args)
	assert.Equal(t, 1, frag.Next())
}

func TestFilter_AllPresent(t *testing.T) {
	frag, err := testFilter(sqlfrag.Postgres).Build(criteria{Low: intp(3), Flag: true, Search: "net"})
	require.NoError(t, err)
	assert.Equal(t, "WHERE low >= $1 AND flag > 0 AND search ILIKE $2", frag.SQL)
	assert.Equal(t, []any{3, "%net%"}, frag.Args)
}

func TestFilter_ParameterlessConditionConsumesNoIndex(t *testing.T) {
	frag, err := testFilter(sqlfrag.Postgres).Build(criteria{Flag: true, Search: "x"})
	require.NoError(t, err)
	assert.Equal(t, "WHERE flag > 0 AND search ILIKE $1", frag.SQL)
	assert.Equal(t, []any{"%x%"}, frag.Args)
}

func TestFilter_ZeroIsPresent(t *testing.T) {
	frag, err := testFilter(sqlfrag.Postgres).Build(criteria{Low: intp(0)})
	require.NoError(t, err)
	assert.Equal(t, "WHERE low >= $1", frag.SQL)
	assert.Equal(t, []any{0}, frag.Args)
}

func TestFilter_SQLiteDialect(t *testing.T) {
	frag, err := testFilter(sqlfrag.SQLite).Build(criteria{Search: "x"})
	require.NoError(t, err)
	assert.Equal(t, "WHERE search LIKE $1", frag.SQL)
}

func TestFilter_ValidateRunsFirst(t *testing.T) {
	bad := errors.New("bad")
	fl := testFilter(sqlfrag.Postgres)
	fl.Validate = func(criteria) error { return bad }

	frag, err := fl.Build(criteria{Low: intp(1)})
	assert.ErrorIs(t, err, bad)
	assert.True(t, frag.Empty())
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, sqlfrag.SQLite, sqlfrag.DialectFor("sqlite3"))
	assert.Equal(t, sqlfrag.Postgres, sqlfrag.DialectFor("postgres"))
	assert.Equal(t, sqlfrag.Postgres, sqlfrag.DialectFor("pgx"))
	assert.Equal(t, "sqlite", sqlfrag.SQLite.String())
}
