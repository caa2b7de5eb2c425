package types

import "testing"

func TestConfigDriver(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"file path selects sqlite", ".strata/strata.db", DriverSQLite},
		{"absolute path selects sqlite", "/var/lib/strata/strata.db", DriverSQLite},
		{"empty selects sqlite", "", DriverSQLite},
		{"postgres URL selects pgx", "postgres://user:pw@localhost:5432/strata", DriverPostgres},
		{"postgresql URL selects pgx", "postgresql://localhost/strata", DriverPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Config{DSN: tt.dsn}.Driver()
			if got != tt.want {
				t.Fatalf("Driver() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigEffectiveDSN(t *testing.T) {
	if got := (Config{}).EffectiveDSN(); got != DefaultDSN {
		t.Fatalf("EffectiveDSN() = %q, want %q", got, DefaultDSN)
	}
	if got := (Config{DSN: "x.db"}).EffectiveDSN(); got != "x.db" {
		t.Fatalf("EffectiveDSN() = %q, want %q", got, "x.db")
	}
}
