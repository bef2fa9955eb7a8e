package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/spf13/cobra"

	"github.com/Skryldev/jobly/migrations"
	"github.com/Skryldev/jobly/sqlfrag"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Apply or roll back the embedded schema migrations.

The database is taken from DATABASE_URL or the database.* settings.`,
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.withMigrate(func(m *migrate.Migrate) error {
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("up failed: %w", err)
				}
				slog.Info("migrations: up completed")
				return nil
			})
		},
	}

	down := &cobra.Command{
		Use:   "down [N]",
		Short: "Roll back N migrations (default: 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			steps := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("down: invalid steps argument %q", args[0])
				}
				steps = n
			}
			return a.withMigrate(func(m *migrate.Migrate) error {
				if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("down failed: %w", err)
				}
				slog.Info("migrations: down completed", "steps", steps)
				return nil
			})
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withMigrate(func(m *migrate.Migrate) error {
				v, dirty, err := m.Version()
				if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
					return fmt.Errorf("version failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d  dirty: %v\n", v, dirty)
				return nil
			})
		},
	}

	force := &cobra.Command{
		Use:   "force V",
		Short: "Force the migration version (clears the dirty state)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("force: invalid version %q", args[0])
			}
			return a.withMigrate(func(m *migrate.Migrate) error {
				if err := m.Force(v); err != nil {
					return fmt.Errorf("force failed: %w", err)
				}
				slog.Info("migrations: forced", "version", v)
				return nil
			})
		},
	}

	var yes bool
	drop := &cobra.Command{
		Use:   "drop",
		Short: "Drop all tables (dev only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				fmt.Fprintln(cmd.ErrOrStderr(), "WARNING: drop will destroy all tables. Type 'yes' to confirm:")
				var confirm string
				_, _ = fmt.Fscanln(cmd.InOrStdin(), &confirm)
				if strings.TrimSpace(confirm) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			return a.withMigrate(func(m *migrate.Migrate) error {
				if err := m.Drop(); err != nil {
					return fmt.Errorf("drop failed: %w", err)
				}
				slog.Info("migrations: all tables dropped")
				return nil
			})
		},
	}
	drop.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")

	cmd.AddCommand(up, down, version, force, drop)
	return cmd
}

// withMigrate runs fn on a migrate instance reading the embedded
// migrations for the configured database.
func (a *app) withMigrate(fn func(*migrate.Migrate) error) error {
	url, err := a.cfg.Database.MigrateURL()
	if err != nil {
		return err
	}

	dialect := sqlfrag.DialectFor(a.cfg.Database.DriverName())
	src, err := migrations.Source(dialect)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}
	defer m.Close()
	m.Log = &migrateLogger{log: a.log}

	return fn(m)
}

type migrateLogger struct{ log *slog.Logger }

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
func (l *migrateLogger) Verbose() bool { return false }
