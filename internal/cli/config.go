package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/strataworks/strata/internal/paths"
	"github.com/strataworks/strata/internal/store"
	"github.com/strataworks/strata/pkg/types"
)

// Config keys inside config.yaml.
const cfgKeyDSN = "dsn"

// defaultConfigYAML is written to config.yaml on first init.
const defaultConfigYAML = `# strata configuration
#
# dsn selects the backing store: a file path opens an embedded SQLite
# database; a postgres:// URL opens a client/server store.
# The STRATA_DB environment variable and the --db flag take precedence.
# dsn: .strata/strata.db
`

// resolveConfig determines the store configuration: --db flag, then the
// STRATA_DB environment variable, then config.yaml, then the default
// database inside the config directory.
func resolveConfig() (types.Config, error) {
	if flags.db != "" {
		return types.Config{DSN: flags.db}, nil
	}
	if v := os.Getenv(types.EnvDSN); v != "" {
		return types.Config{DSN: v}, nil
	}

	configDir := paths.ResolveConfigDir(flags.configDir)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetDefault(cfgKeyDSN, paths.DefaultDBPath(configDir))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
		// A missing config.yaml is not an error.
	}

	return types.Config{DSN: v.GetString(cfgKeyDSN)}, nil
}

// openStore resolves the configuration and opens the store.
func openStore(ctx context.Context) (*store.Store, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg)
}

// ensureConfigFile creates the config directory and a default
// config.yaml if either is missing. Idempotent.
func ensureConfigFile(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(configDir, paths.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
