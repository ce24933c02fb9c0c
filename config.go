package jsonregister

import (
	"fmt"
	"regexp"
	"strings"

	regerrors "github.com/telicent-oss/go-json-register/errors"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Defaults applied by Config.withDefaults.
const (
	DefaultTableName   = "json_objects"
	DefaultIDColumn    = "id"
	DefaultValueColumn = "json_object"
	DefaultCacheSize   = 1000
	DefaultPoolSize    = 10
)

// identifierPattern restricts table and column names to alphanumeric plus
// underscore. These names are interpolated into generated query text, so
// anything looser would be an injection vector.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// sslModes lists the values Postgres accepts for sslmode.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// Config holds the construction parameters for a Registrar. The zero value
// plus connection details is usable: table/column names, cache size, and
// pool size fall back to the package defaults.
type Config struct {
	// Driver selects the backing store: DriverPostgres (default) or
	// DriverSQLite.
	Driver string

	// Postgres connection parameters.
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	// Path is the database file for the sqlite3 driver (":memory:" for an
	// in-memory store).
	Path string

	// TableName, IDColumn and ValueColumn name the registration table.
	TableName   string
	IDColumn    string
	ValueColumn string

	// CacheSize bounds the in-process LRU cache (entries, not bytes).
	CacheSize int

	// PoolSize caps the store connection pool.
	PoolSize int
}

// withDefaults returns a copy with package defaults applied to unset fields.
func (c Config) withDefaults() Config {
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	if c.TableName == "" {
		c.TableName = DefaultTableName
	}
	if c.IDColumn == "" {
		c.IDColumn = DefaultIDColumn
	}
	if c.ValueColumn == "" {
		c.ValueColumn = DefaultValueColumn
	}
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.PoolSize == 0 {
		c.PoolSize = DefaultPoolSize
	}
	return c
}

// Validate checks every construction parameter and fails fast with a
// ConfigurationError before any network I/O is attempted.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" {
			return regerrors.NewConfigurationError("host", "cannot be empty")
		}
		if c.Port < 1 || c.Port > 65535 {
			return regerrors.NewConfigurationError("port", fmt.Sprintf("must be between 1 and 65535, got %d", c.Port))
		}
		if c.Database == "" {
			return regerrors.NewConfigurationError("database", "cannot be empty")
		}
		if c.User == "" {
			return regerrors.NewConfigurationError("user", "cannot be empty")
		}
		if c.SSLMode != "" && !contains(sslModes, c.SSLMode) {
			return regerrors.NewConfigurationError("sslmode", fmt.Sprintf("must be one of %v", sslModes))
		}
	case DriverSQLite:
		if c.Path == "" {
			return regerrors.NewConfigurationError("path", "cannot be empty")
		}
	default:
		return regerrors.NewConfigurationError("driver", fmt.Sprintf("unknown driver %q", c.Driver))
	}

	for _, ident := range []struct {
		field string
		value string
	}{
		{"table_name", c.TableName},
		{"id_column", c.IDColumn},
		{"value_column", c.ValueColumn},
	} {
		if !identifierPattern.MatchString(ident.value) {
			return regerrors.NewConfigurationError(ident.field, "must be alphanumeric (with underscores)")
		}
	}

	if c.CacheSize < 1 {
		return regerrors.NewConfigurationError("cache_size", "must be at least 1")
	}
	if c.PoolSize < 1 {
		return regerrors.NewConfigurationError("pool_size", "must be at least 1")
	}
	return nil
}

// dsn builds the driver connection string. The password is never logged by
// this package; it only appears here.
func (c Config) dsn() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}

	var b strings.Builder
	fmt.Fprintf(&b, "host=%s port=%d dbname=%s user=%s password=%s",
		c.Host, c.Port, c.Database, c.User, c.Password)
	if c.SSLMode != "" {
		fmt.Fprintf(&b, " sslmode=%s", c.SSLMode)
	}
	return b.String()
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
