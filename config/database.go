package config

import (
	"fmt"
	"strings"

	"github.com/Skryldev/jobly/db"
)

// DriverName returns the database/sql driver to use. A URL beginning with
// "file:" or "sqlite3://" selects sqlite3; anything else uses Driver.
func (c DatabaseConfig) DriverName() string {
	switch {
	case strings.HasPrefix(c.URL, "file:"), strings.HasPrefix(c.URL, "sqlite3://"):
		return "sqlite3"
	}
	return c.Driver
}

// DriverOptions converts the structured fields for db.OpenWithDriver.
func (c DatabaseConfig) DriverOptions() db.DriverOptions {
	return db.DriverOptions{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Name,
		SSLMode:  c.SSLMode,
	}
}

// DBConfig returns the pool settings with the given hooks installed. DSN
// and DriverName are filled from URL when it is set.
func (c DatabaseConfig) DBConfig(hooks ...db.Hook) db.Config {
	cfg := db.Config{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		DefaultTimeout:  c.QueryTimeout,
		Hooks:           hooks,
	}
	if c.URL != "" {
		cfg.DriverName = c.DriverName()
		cfg.DSN = strings.TrimPrefix(c.URL, "sqlite3://")
	}
	return cfg
}

// Open connects to the configured database.
func (c DatabaseConfig) Open(hooks ...db.Hook) (*db.DB, error) {
	if c.URL != "" {
		return db.Open(c.DBConfig(hooks...))
	}
	return db.OpenWithDriver(c.Driver, c.DriverOptions(), c.DBConfig(hooks...))
}

// MigrateURL returns the database URL in the form golang-migrate's
// database drivers expect: postgres://… or sqlite3://….
func (c DatabaseConfig) MigrateURL() (string, error) {
	url := c.URL
	if url == "" {
		drv, err := db.LookupDriver(c.Driver)
		if err != nil {
			return "", err
		}
		if url, err = drv.DSN(c.DriverOptions()); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
	}

	switch {
	case strings.HasPrefix(url, "file:"):
		return "sqlite3://" + strings.TrimPrefix(url, "file:"), nil
	case strings.HasPrefix(url, "sqlite3://"),
		strings.HasPrefix(url, "postgres://"),
		strings.HasPrefix(url, "postgresql://"):
		return url, nil
	}
	return "", fmt.Errorf("config: unsupported database URL scheme in %q", url)
}
