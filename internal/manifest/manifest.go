// Package manifest fetches, validates, and caches the tool manifest.
// The cached copy in the data dir is what every other command reads;
// only `update` talks to the network.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/venueforge/venuekit/internal/fsutil"
	"github.com/venueforge/venuekit/internal/paths"
	"github.com/venueforge/venuekit/pkg/types"
)

// Load reads the cached manifest from the data dir.
// Returns types.ErrManifestMissing if no manifest has been cached yet.
func Load(dataDir string) (*types.Manifest, error) {
	data, err := os.ReadFile(paths.ManifestPath(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.ErrManifestMissing
		}
		return nil, fmt.Errorf("reading cached manifest: %w", err)
	}

	var m types.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing cached manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("cached manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest to the data dir atomically, creating the data
// dir if needed.
func Save(dataDir string, m *types.Manifest) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	data = append(data, '\n')

	if err := fsutil.WriteFileAtomic(paths.ManifestPath(dataDir), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest cache: %w", err)
	}
	return nil
}
