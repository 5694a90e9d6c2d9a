// Package history persists run records in a SQLite database in the data
// dir. The launcher appends a row per run; reports and logs stay in the
// RunDir, with the report JSON mirrored into the row for quick listing.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/venueforge/venuekit/internal/paths"
	"github.com/venueforge/venuekit/pkg/types"
)

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("history store is detached")
	ErrAlreadyAttached = errors.New("history store is already attached")
)

// Schema DDL. The database persists across launcher invocations, so
// creation is idempotent.
const schemaSQL = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    tool TEXT NOT NULL,
    tool_version TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    exit_code INTEGER NOT NULL,
    status TEXT NOT NULL,
    report TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_tool_started ON runs(tool, started_at);`

// Store records and queries run history.
type Store struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
}

// NewStore creates a detached Store; call Attach with a data dir.
func NewStore() *Store {
	return &Store{}
}

// Attach opens (creating if needed) the history database in dataDir.
// Returns ErrAlreadyAttached if called twice.
func (s *Store) Attach(dataDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return ErrAlreadyAttached
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// busy_timeout covers a second launcher invocation touching the same
	// data dir; concurrent launchers are otherwise unsupported.
	db, err := sql.Open("sqlite", paths.HistoryPath(dataDir)+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("initializing history schema: %w", err)
	}

	s.db = db
	s.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	s.attached = false
	err := s.db.Close()
	s.db = nil
	return err
}

// Record appends one run record.
func (s *Store) Record(rec *types.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return ErrDetached
	}

	var report any
	if rec.Report != nil {
		data, err := json.Marshal(rec.Report)
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		report = string(data)
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, tool, tool_version, started_at, finished_at, exit_code, status, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Tool, rec.ToolVersion,
		rec.StartedAt.UTC().Format(time.RFC3339),
		rec.FinishedAt.UTC().Format(time.RFC3339),
		rec.ExitCode, rec.Status, report,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", rec.RunID, err)
	}
	return nil
}

// Get retrieves one run by ID. Returns types.ErrRunNotFound if absent.
func (s *Store) Get(runID string) (*types.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, ErrDetached
	}

	row := s.db.QueryRow(
		`SELECT run_id, tool, tool_version, started_at, finished_at, exit_code, status, report
		 FROM runs WHERE run_id = ?`, runID)

	rec, err := hydrateRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrRunNotFound
		}
		return nil, fmt.Errorf("getting run %s: %w", runID, err)
	}
	return rec, nil
}

// List returns run records newest first. A non-empty tool filters by
// tool name; limit <= 0 returns everything.
func (s *Store) List(tool string, limit int) ([]types.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, ErrDetached
	}

	query := `SELECT run_id, tool, tool_version, started_at, finished_at, exit_code, status, report
	          FROM runs`
	var args []any
	if tool != "" {
		query += " WHERE tool = ?"
		args = append(args, tool)
	}
	query += " ORDER BY started_at DESC, run_id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var records []types.RunRecord
	for rows.Next() {
		rec, err := hydrateRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return records, nil
}

// Prune deletes all but the newest keep runs, returning how many rows
// were removed. keep <= 0 deletes nothing.
func (s *Store) Prune(keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return 0, ErrDetached
	}
	if keep <= 0 {
		return 0, nil
	}

	res, err := s.db.Exec(
		`DELETE FROM runs WHERE run_id NOT IN (
		    SELECT run_id FROM runs ORDER BY started_at DESC, run_id DESC LIMIT ?
		 )`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return int(n), nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateRun scans one runs row into a RunRecord.
func hydrateRun(row scanner) (*types.RunRecord, error) {
	var (
		rec        types.RunRecord
		startedAt  string
		finishedAt string
		report     sql.NullString
	)
	if err := row.Scan(&rec.RunID, &rec.Tool, &rec.ToolVersion, &startedAt, &finishedAt,
		&rec.ExitCode, &rec.Status, &report); err != nil {
		return nil, err
	}

	var err error
	if rec.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if rec.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}

	if report.Valid && report.String != "" {
		var rep types.Report
		if err := json.Unmarshal([]byte(report.String), &rep); err != nil {
			return nil, fmt.Errorf("parsing stored report: %w", err)
		}
		rec.Report = &rep
	}
	return &rec, nil
}
