// Shared helpers for venuekit CLI commands.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/venueforge/venuekit/internal/history"
	"github.com/venueforge/venuekit/internal/manifest"
	"github.com/venueforge/venuekit/internal/state"
	"github.com/venueforge/venuekit/pkg/types"
)

// timeRounding keeps printed run durations readable.
const timeRounding = 10 * time.Millisecond

// errAborted is returned when the operator declines a confirmation prompt.
var errAborted = errors.New("aborted")

// errToolFailed is returned when a tool run finishes with a non-zero
// exit code. The run itself is still recorded.
var errToolFailed = errors.New("tool run failed")

// confirmIn reads a y/N answer from r. The --yes flag short-circuits it.
func confirmIn(r *bufio.Reader, prompt string) bool {
	if flagYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := r.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// confirm prompts on stdin.
func confirm(prompt string) bool {
	return confirmIn(bufio.NewReader(os.Stdin), prompt)
}

// requireManifest loads the cached manifest, translating the missing
// case into the standard "run update first" user error.
func requireManifest() (*types.Manifest, error) {
	m, err := manifest.Load(dataDir)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// findTool resolves a tool name against the manifest with a helpful
// error listing valid names.
func findTool(m *types.Manifest, name string) (types.Tool, error) {
	tool, ok := m.Find(name)
	if !ok {
		return types.Tool{}, fmt.Errorf("%w: %q (valid: %s)",
			types.ErrToolNotFound, name, strings.Join(m.Names(), ", "))
	}
	return tool, nil
}

// loadState loads installed.json for the current data dir.
func loadState() (*state.State, error) {
	return state.Load(dataDir)
}

// withHistory attaches the run-history store, runs fn, and detaches.
func withHistory(fn func(*history.Store) error) error {
	store := history.NewStore()
	if err := store.Attach(dataDir); err != nil {
		return fmt.Errorf("attach history: %w", err)
	}
	defer store.Detach()
	return fn(store)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
