// Package migrations embeds the schema migrations, one directory per SQL
// dialect, in golang-migrate's <version>_<name>.<up|down>.sql layout.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/sqlfrag"
)

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

func dir(d sqlfrag.Dialect) string { return d.String() }

// Source returns a golang-migrate source reading the dialect's migrations.
func Source(d sqlfrag.Dialect) (source.Driver, error) {
	return iofs.New(FS, dir(d))
}

// Up returns the dialect's up scripts in version order.
func Up(d sqlfrag.Dialect) ([]string, error) {
	names, err := fs.Glob(FS, dir(d)+"/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	scripts := make([]string, 0, len(names))
	for _, name := range names {
		b, err := FS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, string(b))
	}
	return scripts, nil
}

// Apply runs every up script on q without recording versions. It is meant
// for throwaway databases (tests, in-memory SQLite); use golang-migrate for
// anything that persists.
func Apply(ctx context.Context, q db.Querier, d sqlfrag.Dialect) error {
	scripts, err := Up(d)
	if err != nil {
		return err
	}
	for i, s := range scripts {
		if _, err := q.Exec(ctx, s); err != nil {
			return fmt.Errorf("migrations: script %d: %w", i+1, err)
		}
	}
	return nil
}
