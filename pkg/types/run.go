package types

import (
	"errors"
	"time"
)

// Run statuses recorded in history.
const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// Run and history errors.
var (
	ErrRunNotFound = errors.New("run not found")
)

// Conventional file names inside a RunDir.
const (
	ContextFileName = "context.json"
	RunLogFileName  = "run.log"
	ReportFileName  = "report.json"
)

// Environment variables handed to tool child processes.
const (
	EnvRunDir   = "VENUEKIT_RUN_DIR"
	EnvContext  = "VENUEKIT_CONTEXT"
	EnvDBDriver = "VENUEKIT_DB_DRIVER"
	EnvDBDSN    = "VENUEKIT_DB_DSN"
)

// RunContext is the shared toolkit context written to context.json in the
// RunDir before the child process starts. Tools read it to find their
// scratch directory and the POS database connection.
type RunContext struct {
	RunID       string         `json:"run_id"`
	Tool        string         `json:"tool"`
	ToolVersion string         `json:"tool_version"`
	RunDir      string         `json:"run_dir"`
	DataDir     string         `json:"data_dir"`
	Database    DatabaseConfig `json:"database"`
	StartedAt   time.Time      `json:"started_at"`
}

// Report is the free-form result document a tool may leave behind as
// report.json in its RunDir. Absence of a report is not an error.
type Report struct {
	Status  string         `json:"status,omitempty"`
	Summary string         `json:"summary,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// RunRecord is one row of run history.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	Tool        string    `json:"tool"`
	ToolVersion string    `json:"tool_version"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	ExitCode    int       `json:"exit_code"`
	Status      string    `json:"status"`
	Report      *Report   `json:"report,omitempty"`
}
