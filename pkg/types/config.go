package types

import "strings"

// Config selects the backing store for a Store handle.
type Config struct {
	// DSN is a connection-string-style selector. A value starting with
	// postgres:// or postgresql:// opens a client/server Postgres store;
	// anything else is treated as a local SQLite file path. Empty falls
	// back to DefaultDSN.
	DSN string `json:"dsn" yaml:"dsn"`
}

// EnvDSN is the environment variable consulted when no DSN is given on
// the command line or in the config file.
const EnvDSN = "STRATA_DB"

// DefaultDSN is the local store location used when nothing else is
// configured.
const DefaultDSN = ".strata/strata.db"

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Driver returns the database/sql driver name implied by the DSN.
func (c Config) Driver() string {
	if strings.HasPrefix(c.DSN, "postgres://") || strings.HasPrefix(c.DSN, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// EffectiveDSN returns the DSN, falling back to DefaultDSN when unset.
func (c Config) EffectiveDSN() string {
	if c.DSN == "" {
		return DefaultDSN
	}
	return c.DSN
}
