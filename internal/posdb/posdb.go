// Package posdb owns the shared POS database connection context. The
// launcher itself only opens the database to verify connectivity; the
// driver and DSN are otherwise handed through to tools in the run
// context. SQLite is registered here; the vendor's SQL Server sits
// behind the same database/sql seam.
package posdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/venueforge/venuekit/pkg/types"
)

// pingTimeout bounds the connectivity check.
const pingTimeout = 10 * time.Second

// Open validates the database config and opens a handle. The caller
// closes it.
func Open(cfg types.DatabaseConfig) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Configured() {
		return nil, types.ErrDSNEmpty
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// Check opens the configured database and pings it, returning the error
// a tool would hit when connecting.
func Check(ctx context.Context, cfg types.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging %s database: %w", cfg.Driver, err)
	}
	return nil
}
