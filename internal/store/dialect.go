package store

import (
	"strconv"
	"strings"

	"github.com/strataworks/strata/pkg/types"
)

// dialect covers the SQL differences between the two supported drivers:
// placeholder syntax, auto-assigned primary keys, and catalog queries.
type dialect struct {
	name string
}

func dialectFor(driver string) dialect {
	return dialect{name: driver}
}

func (d dialect) postgres() bool { return d.name == types.DriverPostgres }

// rebind rewrites ? placeholders to $1..$n for Postgres. Queries in this
// package never contain literal question marks.
func (d dialect) rebind(query string) string {
	if !d.postgres() {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// pkColumn returns the DDL for a monotonically increasing surrogate
// primary key. SQLite's AUTOINCREMENT guarantees ids are never reused
// within a table.
func (d dialect) pkColumn() string {
	if d.postgres() {
		return "id BIGSERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

// tableNamesQuery returns the catalog query listing all table names.
func (d dialect) tableNamesQuery() string {
	if d.postgres() {
		return "SELECT tablename FROM pg_tables WHERE schemaname = 'public'"
	}
	return "SELECT name FROM sqlite_master WHERE type = 'table'"
}
