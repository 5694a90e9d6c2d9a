package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty manifest URL",
			config:  Config{},
			wantErr: ErrManifestURLEmpty,
		},
		{
			name:    "manifest URL without scheme",
			config:  Config{ManifestURL: "example.com/manifest.json"},
			wantErr: ErrManifestURLInvalid,
		},
		{
			name:   "valid minimal config",
			config: Config{ManifestURL: "https://example.com/manifest.json"},
		},
		{
			name: "unknown database driver",
			config: Config{
				ManifestURL: "https://example.com/manifest.json",
				Database:    DatabaseConfig{Driver: "oracle", DSN: "x"},
			},
			wantErr: ErrDriverUnknown,
		},
		{
			name: "driver without DSN",
			config: Config{
				ManifestURL: "https://example.com/manifest.json",
				Database:    DatabaseConfig{Driver: DriverSQLite},
			},
			wantErr: ErrDSNEmpty,
		},
		{
			name: "valid database config",
			config: Config{
				ManifestURL: "https://example.com/manifest.json",
				Database:    DatabaseConfig{Driver: DriverSQLServer, DSN: "sqlserver://pos"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDatabaseConfigConfigured(t *testing.T) {
	assert.False(t, DatabaseConfig{}.Configured())
	assert.True(t, DatabaseConfig{Driver: DriverSQLite}.Configured())
	assert.True(t, DatabaseConfig{DSN: "file:pos.db"}.Configured())
}
