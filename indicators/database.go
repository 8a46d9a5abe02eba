package indicators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"

	"github.com/jonwraymond/healthgate/health"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// sqliteError is SQLITE_ERROR, reported for syntax errors and missing tables.
const sqliteError = 1

// DatabaseConfig configures the database indicator.
type DatabaseConfig struct {
	// Name is the indicator name.
	// Default: "database"
	Name string

	// Driver is the database/sql driver name: "postgres" or "sqlite".
	// Default: "postgres"
	Driver string

	// DSN is the data source name. An empty DSN makes the indicator
	// inapplicable.
	DSN string

	// Query is executed to validate the connection. A blank query pings the
	// database instead.
	Query string

	// ConnectTimeout bounds each check.
	// Default: 1s
	ConnectTimeout time.Duration
}

// DefaultDatabaseConfig returns the configuration used when none is given:
// a postgres connection validated with "SELECT 1".
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Name:           "database",
		Driver:         DriverPostgres,
		Query:          "SELECT 1",
		ConnectTimeout: time.Second,
	}
}

// Database reports whether a SQL database accepts connections and queries.
type Database struct {
	config DatabaseConfig
	db     *sql.DB
}

// NewDatabase creates a database indicator. The connection pool is opened
// lazily; nothing is dialled until the first check.
func NewDatabase(config DatabaseConfig) (*Database, error) {
	if config.Name == "" {
		config.Name = "database"
	}
	if config.Driver == "" {
		config.Driver = DriverPostgres
	}
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = time.Second
	}
	if !slices.Contains([]string{DriverPostgres, DriverSQLite}, config.Driver) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, config.Driver)
	}

	d := &Database{config: config}
	if config.DSN == "" {
		return d, nil
	}

	db, err := sql.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("indicators: open %s: %w", config.Driver, err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)
	d.db = db
	return d, nil
}

// NewDatabaseFromDB creates a database indicator over an existing pool.
func NewDatabaseFromDB(name string, db *sql.DB, query string) *Database {
	if name == "" {
		name = "database"
	}
	return &Database{
		config: DatabaseConfig{Name: name, Query: query, ConnectTimeout: time.Second},
		db:     db,
	}
}

// Name returns the configured indicator name.
func (d *Database) Name() string {
	return d.config.Name
}

// IsApplicable reports whether a database is configured.
func (d *Database) IsApplicable(context.Context) (bool, error) {
	return d.db != nil, nil
}

// Check validates the connection.
//
// A working connection reports up with connection=established. A query
// rejected as invalid SQL reports down without further attributes. Any
// other failure reports down with connection=error and the error message.
func (d *Database) Check(ctx context.Context) (health.Status, error) {
	if d.db == nil {
		return health.Status{}, ErrMissingDSN
	}

	ctx, cancel := context.WithTimeout(ctx, d.config.ConnectTimeout)
	defer cancel()

	err := d.validate(ctx)
	switch {
	case err == nil:
		return health.Up(d.Name()).With("connection", "established"), nil
	case isInvalidQuery(err):
		return health.Down(d.Name()), nil
	default:
		return health.Down(d.Name()).
			With("connection", "error").
			With(health.AttrMessage, err.Error()), nil
	}
}

func (d *Database) validate(ctx context.Context) error {
	if strings.TrimSpace(d.config.Query) == "" {
		return d.db.PingContext(ctx)
	}

	conn, err := d.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, d.config.Query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
	}
	return rows.Err()
}

// Close releases the connection pool.
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// isInvalidQuery reports whether err is the server rejecting the health
// query itself rather than a connectivity problem.
func isInvalidQuery(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 42: syntax error or access rule violation.
		return pqErr.Code.Class() == "42"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqliteError
	}
	return false
}

var _ health.Indicator = (*Database)(nil)
