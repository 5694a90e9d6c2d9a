// Config loading for the venuekit CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/venueforge/venuekit/internal/logger"
	"github.com/venueforge/venuekit/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envFileName    = ".env"

	// Config keys.
	cfgKeyManifestURL = "manifest_url"
	cfgKeyDataDir     = "data_dir"
	cfgKeyHTTPTimeout = "http_timeout_seconds"
	cfgKeyDBDriver    = "database.driver"
	cfgKeyDBDSN       = "database.dsn"
)

// Environment overrides, typically fed from the .env file next to
// config.yaml so DSN credentials stay out of version-controlled config.
const (
	envManifestURL = "VENUEKIT_MANIFEST_URL"
	envDBDriver    = "VENUEKIT_DB_DRIVER"
	envDBDSN       = "VENUEKIT_DB_DSN"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# venuekit launcher configuration

# Manifest endpoint listing the available tools.
# manifest_url: https://tools.example.com/venuekit/manifest.json

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# HTTP timeout for manifest and artifact downloads.
http_timeout_seconds: 30

# Shared POS database connection handed to tools.
# Put the DSN in .env (VENUEKIT_DB_DSN) rather than here when it
# carries credentials.
# database:
#   driver: sqlserver
#   dsn:
`

// loadConfig reads .env and config.yaml from the config directory and
// returns the effective launcher config. A missing config.yaml is not an
// error; flags and env can carry the rest.
func loadConfig(configDir string) (types.Config, error) {
	// .env first so its values are visible as overrides below.
	envPath := filepath.Join(configDir, envFileName)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return types.Config{}, fmt.Errorf("loading %s: %w", envPath, err)
		}
		logger.Debug("loaded %s\n", envPath)
	}

	v := viper.New()
	v.SetDefault(cfgKeyHTTPTimeout, 30)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	c := types.Config{
		ManifestURL: v.GetString(cfgKeyManifestURL),
		DataDir:     v.GetString(cfgKeyDataDir),
		HTTPTimeout: time.Duration(v.GetInt(cfgKeyHTTPTimeout)) * time.Second,
		Database: types.DatabaseConfig{
			Driver: v.GetString(cfgKeyDBDriver),
			DSN:    v.GetString(cfgKeyDBDSN),
		},
	}

	if env := os.Getenv(envManifestURL); env != "" {
		c.ManifestURL = env
	}
	if env := os.Getenv(envDBDriver); env != "" {
		c.Database.Driver = env
	}
	if env := os.Getenv(envDBDSN); env != "" {
		c.Database.DSN = env
	}

	return c, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
