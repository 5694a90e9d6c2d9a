package types

import (
	"errors"
	"net/url"
	"time"
)

// Default HTTP timeout applied when the config does not set one.
const DefaultHTTPTimeout = 30 * time.Second

// Database drivers the launcher recognizes. The POS database is reached
// through database/sql, so adding a vendor driver is an import plus an
// entry here.
const (
	DriverSQLite    = "sqlite"
	DriverSQLServer = "sqlserver"
)

// knownDrivers lists the drivers that Validate accepts.
var knownDrivers = map[string]bool{
	DriverSQLite:    true,
	DriverSQLServer: true,
}

// Config validation errors.
var (
	ErrManifestURLEmpty   = errors.New("manifest_url must not be empty")
	ErrManifestURLInvalid = errors.New("manifest_url is not a valid URL")
	ErrDriverUnknown      = errors.New("unknown database driver")
	ErrDSNEmpty           = errors.New("database dsn must not be empty")
)

// DatabaseConfig is the shared SQL connection context handed to tools.
type DatabaseConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

// Configured reports whether a database connection has been provided.
func (d DatabaseConfig) Configured() bool {
	return d.Driver != "" || d.DSN != ""
}

// Validate checks the database settings. An entirely empty DatabaseConfig
// is valid; the database is optional until a tool requires it.
func (d DatabaseConfig) Validate() error {
	if !d.Configured() {
		return nil
	}
	if !knownDrivers[d.Driver] {
		return ErrDriverUnknown
	}
	if d.DSN == "" {
		return ErrDSNEmpty
	}
	return nil
}

// Config holds the launcher settings loaded from config.yaml.
type Config struct {
	ManifestURL string         `json:"manifest_url" yaml:"manifest_url"`
	DataDir     string         `json:"data_dir" yaml:"data_dir"`
	HTTPTimeout time.Duration  `json:"http_timeout" yaml:"http_timeout"`
	Database    DatabaseConfig `json:"database" yaml:"database"`
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.ManifestURL == "" {
		return ErrManifestURLEmpty
	}
	u, err := url.Parse(c.ManifestURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrManifestURLInvalid
	}
	return c.Database.Validate()
}
