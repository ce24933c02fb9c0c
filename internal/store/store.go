package store

import (
	"context"
	"database/sql"

	regerrors "github.com/telicent-oss/go-json-register/errors"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config describes the connection and schema layout for a gateway.
type Config struct {
	// Driver selects the dialect: DriverPostgres or DriverSQLite.
	Driver string

	// DSN is the driver-specific connection string: keyword conninfo for
	// Postgres, a file path or ":memory:" for SQLite.
	DSN string

	// Table, IDColumn and ValueColumn name the registration table. They are
	// interpolated into query text and must be pre-validated as alphanumeric
	// plus underscore.
	Table       string
	IDColumn    string
	ValueColumn string

	// PoolSize caps open connections. SQLite ignores it and pins the pool
	// to one connection.
	PoolSize int
}

// names carries the validated identifiers dialects interpolate into SQL.
type names struct {
	table  string
	idCol  string
	valCol string
}

// SQL is the database/sql-backed gateway. Connections are pooled by
// database/sql itself; every operation borrows a connection for its duration
// and returns it on all exit paths.
type SQL struct {
	db      *sql.DB
	dialect dialect
}

// Open creates the connection pool and verifies connectivity with a ping.
// Pool creation or ping failure surfaces as a ConnectionError.
func Open(ctx context.Context, cfg Config) (*SQL, error) {
	n := names{table: cfg.Table, idCol: cfg.IDColumn, valCol: cfg.ValueColumn}

	var d dialect
	switch cfg.Driver {
	case DriverPostgres:
		d = newPostgresDialect(n)
	case DriverSQLite:
		d = newSQLiteDialect(n)
	default:
		return nil, regerrors.NewConfigurationError("driver", "unknown driver "+cfg.Driver)
	}

	db, err := sql.Open(d.driverName(), cfg.DSN)
	if err != nil {
		return nil, regerrors.NewConnectionError("open pool", err)
	}

	maxOpen, maxIdle := d.poolLimits(cfg.PoolSize)
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, regerrors.NewConnectionError("open pool", err)
	}

	return &SQL{db: db, dialect: d}, nil
}

// GetOrInsert returns the id for the canonical value, inserting a new row if
// none exists. Concurrent callers registering the same value converge on one
// id via the value column's uniqueness constraint.
func (s *SQL) GetOrInsert(ctx context.Context, canonical string) (int64, error) {
	return s.dialect.getOrInsert(ctx, s.db, canonical)
}

// GetOrInsertBatch applies get-or-insert semantics to an ordered batch,
// returning one id per input element in input order. Duplicate inputs
// resolve to the same id. A result of any other length than the input is an
// InvalidResponseError; the batch either fully succeeds or fails entirely.
func (s *SQL) GetOrInsertBatch(ctx context.Context, canonicals []string) ([]int64, error) {
	if len(canonicals) == 0 {
		return []int64{}, nil
	}
	return s.dialect.getOrInsertBatch(ctx, s.db, canonicals)
}

// EnsureSchema creates the registration table if it does not exist: an
// auto-assigned integer primary key plus the value column under a UNIQUE
// constraint. Idempotent.
func (s *SQL) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schemaDDL()); err != nil {
		return regerrors.NewConnectionError("ensure schema", err)
	}
	return nil
}

// Ping verifies the pool can reach the database.
func (s *SQL) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return regerrors.NewConnectionError("ping", err)
	}
	return nil
}

// Close releases the connection pool. Safe to call more than once.
func (s *SQL) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// dialect abstracts the SQL differences between backends. Implementations
// hold their statements prebuilt from the validated identifier names.
type dialect interface {
	driverName() string
	poolLimits(poolSize int) (maxOpen, maxIdle int)
	schemaDDL() string
	getOrInsert(ctx context.Context, db *sql.DB, canonical string) (int64, error)
	getOrInsertBatch(ctx context.Context, db *sql.DB, canonicals []string) ([]int64, error)
}
