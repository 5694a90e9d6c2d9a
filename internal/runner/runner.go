// Package runner executes installed tools as child processes. Every run
// gets a fresh scratch directory under runs/<run-id>/ holding the shared
// toolkit context, the combined output log, and whatever the tool leaves
// behind, conventionally a report.json.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/venueforge/venuekit/internal/logger"
	"github.com/venueforge/venuekit/internal/paths"
	"github.com/venueforge/venuekit/pkg/types"
)

// Runner launches tools one at a time. Runs are strictly sequential; the
// launcher never has more than one child process alive.
type Runner struct {
	dataDir string
	db      types.DatabaseConfig
	stdout  io.Writer
}

// New creates a Runner rooted at dataDir. Tool output is mirrored to
// os.Stdout unless SetOutput overrides it.
func New(dataDir string, db types.DatabaseConfig) *Runner {
	return &Runner{
		dataDir: dataDir,
		db:      db,
		stdout:  os.Stdout,
	}
}

// SetOutput redirects the mirrored tool output, used by tests.
func (r *Runner) SetOutput(w io.Writer) {
	r.stdout = w
}

// Run executes one installed tool and returns the run record. A non-zero
// tool exit is reported in the record, not as an error; Run only errors
// when the launcher itself fails (RunDir setup, process start).
func (r *Runner) Run(ctx context.Context, tool types.Tool, installed types.InstalledTool, extraArgs []string) (*types.RunRecord, error) {
	runID := uuid.Must(uuid.NewV7()).String()
	runDir := filepath.Join(paths.RunsDir(r.dataDir), runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run dir: %w", err)
	}

	startedAt := time.Now().UTC()
	runCtx := types.RunContext{
		RunID:       runID,
		Tool:        tool.Name,
		ToolVersion: installed.Version,
		RunDir:      runDir,
		DataDir:     r.dataDir,
		Database:    r.db,
		StartedAt:   startedAt,
	}
	contextPath := filepath.Join(runDir, types.ContextFileName)
	if err := writeContext(contextPath, runCtx); err != nil {
		return nil, err
	}

	logPath := filepath.Join(runDir, types.RunLogFileName)
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("creating run log: %w", err)
	}
	defer logFile.Close()

	entry := filepath.Join(installed.InstallDir, filepath.FromSlash(installed.Entry))
	args := append(append([]string{}, tool.Args...), extraArgs...)

	cmd := exec.CommandContext(ctx, entry, args...)
	cmd.Dir = runDir
	cmd.Env = append(os.Environ(),
		types.EnvRunDir+"="+runDir,
		types.EnvContext+"="+contextPath,
		types.EnvDBDriver+"="+r.db.Driver,
		types.EnvDBDSN+"="+r.db.DSN,
	)
	out := io.MultiWriter(logFile, r.stdout)
	cmd.Stdout = out
	cmd.Stderr = out

	logger.Info("running %s@%s (run %s)\n", tool.Name, installed.Version, runID)
	logger.Debug("exec %s %v in %s\n", entry, args, runDir)

	runErr := cmd.Run()

	exitCode := 0
	status := types.RunStatusOK
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// The process never started; this is a launcher failure.
			return nil, fmt.Errorf("starting %s: %w", tool.Name, runErr)
		}
		// Signal-killed children report -1 here; still a failed run.
		exitCode = exitErr.ExitCode()
		status = types.RunStatusFailed
	}

	record := &types.RunRecord{
		RunID:       runID,
		Tool:        tool.Name,
		ToolVersion: installed.Version,
		StartedAt:   startedAt,
		FinishedAt:  time.Now().UTC(),
		ExitCode:    exitCode,
		Status:      status,
		Report:      readReport(runDir),
	}
	return record, nil
}

// writeContext writes the shared toolkit context document for the child.
func writeContext(path string, rc types.RunContext) error {
	data, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run context: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run context: %w", err)
	}
	return nil
}

// readReport loads report.json from the run dir if the tool wrote one.
// A missing report is fine; a malformed one is logged and dropped.
func readReport(runDir string) *types.Report {
	data, err := os.ReadFile(filepath.Join(runDir, types.ReportFileName))
	if err != nil {
		return nil
	}
	var rep types.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		logger.Warn("ignoring malformed report.json in %s: %v\n", runDir, err)
		return nil
	}
	return &rep
}
