package db

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"

	// Each adapter below relies on its database/sql driver being registered.
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Driver builds a DSN for one database/sql driver from structured options,
// so configuration can name host, port and credentials instead of a
// driver-specific connection string.
type Driver interface {
	// Name returns the name the driver is registered under with database/sql.
	Name() string

	// DSN converts structured options into the driver's connection string.
	DSN(opts DriverOptions) (string, error)
}

// DriverOptions carries the common connection parameters.
type DriverOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // "disable", "require", "verify-full", …
	// Extra holds driver-specific query parameters.
	Extra map[string]string
}

// ─────────────────────────────────────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────────────────────────────────────

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// RegisterDriver adds d to the registry. It panics if the name is taken.
func RegisterDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, ok := drivers[d.Name()]; ok {
		panic(fmt.Sprintf("jobly/db: driver %q already registered", d.Name()))
	}
	drivers[d.Name()] = d
}

// LookupDriver returns the registered Driver called name.
func LookupDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("jobly/db: driver %q not registered", name)
	}
	return d, nil
}

// OpenWithDriver builds the DSN through the named Driver and opens it with
// cfg. cfg.DSN and cfg.DriverName are overwritten.
//
//	d, err := db.OpenWithDriver("postgres", db.DriverOptions{
//	    Host: "localhost", User: "jobly", Password: "secret", Database: "jobly",
//	}, db.Config{MaxOpenConns: 25})
func OpenWithDriver(driverName string, opts DriverOptions, cfg Config) (*DB, error) {
	drv, err := LookupDriver(driverName)
	if err != nil {
		return nil, err
	}

	dsn, err := drv.DSN(opts)
	if err != nil {
		return nil, fmt.Errorf("jobly/db: DSN construction failed: %w", err)
	}

	cfg.DriverName = drv.Name()
	cfg.DSN = dsn
	return Open(cfg)
}

// ─────────────────────────────────────────────────────────────────────────────
// PostgreSQL (lib/pq and pgx)
// ─────────────────────────────────────────────────────────────────────────────

// PostgresDriver targets lib/pq ("postgres") or, with Pgx set, the pgx
// stdlib driver ("pgx"). Both accept the same URL form.
type PostgresDriver struct {
	Pgx bool
}

func (p PostgresDriver) Name() string {
	if p.Pgx {
		return "pgx"
	}
	return "postgres"
}

func (PostgresDriver) DSN(o DriverOptions) (string, error) {
	if o.Host == "" || o.Database == "" {
		return "", fmt.Errorf("postgres driver: Host and Database are required")
	}
	port := o.Port
	if port == 0 {
		port = 5432
	}
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	for k, v := range o.Extra {
		q.Set(k, v)
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     o.Host + ":" + strconv.Itoa(port),
		Path:     "/" + o.Database,
		RawQuery: q.Encode(),
	}
	if o.User != "" {
		u.User = url.UserPassword(o.User, o.Password)
	}
	return u.String(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite (mattn/go-sqlite3)
// ─────────────────────────────────────────────────────────────────────────────

// SQLiteDriver targets mattn/go-sqlite3. Foreign keys are switched on
// unless Extra says otherwise, since jobs reference companies.
type SQLiteDriver struct{}

func (SQLiteDriver) Name() string { return "sqlite3" }

func (SQLiteDriver) DSN(o DriverOptions) (string, error) {
	if o.Database == "" {
		return "", fmt.Errorf("sqlite3 driver: Database (file path) is required")
	}
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	for k, v := range o.Extra {
		q.Set(k, v)
	}
	return "file:" + o.Database + "?" + q.Encode(), nil
}

func init() {
	RegisterDriver(PostgresDriver{})
	RegisterDriver(PostgresDriver{Pgx: true})
	RegisterDriver(SQLiteDriver{})
}
