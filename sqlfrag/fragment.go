// Package sqlfrag builds the dynamic parts of otherwise hand-written SQL:
// the SET list of a partial UPDATE and the WHERE clause of a filtered
// listing. Every value is bound through a positional placeholder; nothing
// caller-supplied is ever spliced into the SQL text except column names
// resolved through a ColumnMap, which are quoted.
//
// Placeholders follow the PostgreSQL convention ($1, $2, …), which SQLite
// accepts as well. The Nth placeholder in Fragment.SQL always refers to
// Fragment.Args[N-1].
package sqlfrag

import (
	"strconv"
	"strings"
)

// Fragment is a piece of SQL meant to be substituted into a larger query
// template together with its positional arguments.
type Fragment struct {
	SQL  string
	Args []any
}

// Empty reports whether the fragment contributes nothing to the query.
func (f Fragment) Empty() bool { return f.SQL == "" }

// Next returns the index of the first placeholder free for parameters the
// query template appends after the fragment's own.
func (f Fragment) Next() int { return len(f.Args) + 1 }

// Placeholder renders the 1-based positional placeholder n.
func Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// QuoteIdent double-quotes a column name, doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Dialect covers the few places where the supported stores disagree on
// syntax.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// DialectFor maps a database/sql driver name to its dialect. Unknown
// drivers are assumed to speak PostgreSQL.
func DialectFor(driverName string) Dialect {
	switch driverName {
	case "sqlite3", "sqlite":
		return SQLite
	}
	return Postgres
}

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// ILike renders a case-insensitive LIKE of column against placeholder.
// SQLite's LIKE already ignores ASCII case.
func (d Dialect) ILike(column, placeholder string) string {
	if d == SQLite {
		return column + " LIKE " + placeholder
	}
	return column + " ILIKE " + placeholder
}
