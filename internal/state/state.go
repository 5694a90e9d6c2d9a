// Package state tracks which tool versions are installed in the data dir.
// installed.json is the single source of truth; the tools/ directory on
// disk is rebuilt from the manifest whenever the two disagree.
package state

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/venueforge/venuekit/internal/fsutil"
	"github.com/venueforge/venuekit/internal/paths"
	"github.com/venueforge/venuekit/pkg/types"
)

// State holds the installed-tool records keyed by tool name.
type State struct {
	Tools map[string]types.InstalledTool `json:"tools"`
}

// New returns an empty State with an initialized map.
func New() *State {
	return &State{Tools: make(map[string]types.InstalledTool)}
}

// Load reads installed.json from the data dir. A missing file yields an
// empty state; a corrupt file is an error rather than silent data loss.
func Load(dataDir string) (*State, error) {
	data, err := os.ReadFile(paths.StatePath(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading installed state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing installed state: %w", err)
	}
	if st.Tools == nil {
		st.Tools = make(map[string]types.InstalledTool)
	}
	return &st, nil
}

// Save writes the state to installed.json atomically.
func Save(dataDir string, st *State) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling installed state: %w", err)
	}
	data = append(data, '\n')

	if err := fsutil.WriteFileAtomic(paths.StatePath(dataDir), data, 0o644); err != nil {
		return fmt.Errorf("writing installed state: %w", err)
	}
	return nil
}

// Get returns the installed record for a tool.
func (s *State) Get(name string) (types.InstalledTool, bool) {
	it, ok := s.Tools[name]
	return it, ok
}

// Set records an installed tool version.
func (s *State) Set(name string, it types.InstalledTool) {
	s.Tools[name] = it
}

// Remove drops a tool from the state. Removing an absent tool is a no-op.
func (s *State) Remove(name string) {
	delete(s.Tools, name)
}
