// Package installer downloads tool artifacts and installs them into the
// data dir under tools/<name>/<version>/. Installs are staged so a failed
// download or extraction never leaves a half-installed version behind.
package installer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/venueforge/venuekit/internal/logger"
	"github.com/venueforge/venuekit/internal/paths"
	"github.com/venueforge/venuekit/internal/state"
	"github.com/venueforge/venuekit/pkg/types"
)

// Installer installs and removes tool versions.
type Installer struct {
	dataDir string
	client  *http.Client
}

// New creates an Installer rooted at dataDir. A zero timeout falls back
// to types.DefaultHTTPTimeout.
func New(dataDir string, timeout time.Duration) *Installer {
	if timeout <= 0 {
		timeout = types.DefaultHTTPTimeout
	}
	return &Installer{
		dataDir: dataDir,
		client:  &http.Client{Timeout: timeout},
	}
}

// Install downloads the tool's artifact, unpacks it into a staging
// directory, and moves it into place as tools/<name>/<version>/.
// An existing install of the same version is replaced.
func (i *Installer) Install(ctx context.Context, tool types.Tool) (types.InstalledTool, error) {
	if err := tool.Validate(); err != nil {
		return types.InstalledTool{}, err
	}

	logger.Info("installing %s@%s\n", tool.Name, tool.Version)

	payload, err := i.download(ctx, tool)
	if err != nil {
		return types.InstalledTool{}, err
	}
	defer os.Remove(payload)

	versionDir := paths.ToolVersionDir(i.dataDir, tool.Name, tool.Version)
	toolDir := filepath.Dir(versionDir)
	if err := os.MkdirAll(toolDir, 0o755); err != nil {
		return types.InstalledTool{}, fmt.Errorf("creating tool dir: %w", err)
	}

	stage, err := os.MkdirTemp(toolDir, ".stage-")
	if err != nil {
		return types.InstalledTool{}, fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	if err := unpack(payload, tool, stage); err != nil {
		return types.InstalledTool{}, err
	}

	entryPath := filepath.Join(stage, filepath.FromSlash(tool.Entry))
	if _, err := os.Stat(entryPath); err != nil {
		return types.InstalledTool{}, fmt.Errorf("artifact for %s has no entry point %q: %w", tool.Name, tool.Entry, err)
	}
	if err := os.Chmod(entryPath, 0o755); err != nil {
		return types.InstalledTool{}, fmt.Errorf("marking entry executable: %w", err)
	}

	// Replace any previous install of this version, then move the staged
	// tree into place. State is only updated after this succeeds.
	if err := os.RemoveAll(versionDir); err != nil {
		return types.InstalledTool{}, fmt.Errorf("removing previous install: %w", err)
	}
	if err := os.Rename(stage, versionDir); err != nil {
		return types.InstalledTool{}, fmt.Errorf("moving install into place: %w", err)
	}

	return types.InstalledTool{
		Version:     tool.Version,
		InstallDir:  versionDir,
		Entry:       tool.Entry,
		InstalledAt: time.Now().UTC(),
	}, nil
}

// Ensure makes sure the manifest version of the tool is installed,
// installing or upgrading as needed. The state is updated and saved when
// anything changed. Returns the installed record.
func (i *Installer) Ensure(ctx context.Context, tool types.Tool, st *state.State) (types.InstalledTool, error) {
	if current, ok := st.Get(tool.Name); ok && current.Current(tool.Version) {
		logger.Debug("%s@%s already installed\n", tool.Name, tool.Version)
		return current, nil
	}

	previous, hadPrevious := st.Get(tool.Name)

	installed, err := i.Install(ctx, tool)
	if err != nil {
		return types.InstalledTool{}, err
	}

	st.Set(tool.Name, installed)
	if err := state.Save(i.dataDir, st); err != nil {
		return types.InstalledTool{}, err
	}

	// Old version dirs are only swept after the new install is recorded.
	if hadPrevious && previous.Version != installed.Version {
		old := paths.ToolVersionDir(i.dataDir, tool.Name, previous.Version)
		if err := os.RemoveAll(old); err != nil {
			logger.Warn("could not remove old version dir %s: %v\n", old, err)
		}
	}

	return installed, nil
}

// Uninstall removes a tool's install tree and its state entry.
// Returns types.ErrToolNotInstalled if the tool is not in the state.
func (i *Installer) Uninstall(name string, st *state.State) error {
	if _, ok := st.Get(name); !ok {
		return types.ErrToolNotInstalled
	}

	if err := os.RemoveAll(filepath.Join(paths.ToolsDir(i.dataDir), name)); err != nil {
		return fmt.Errorf("removing install dir: %w", err)
	}

	st.Remove(name)
	return state.Save(i.dataDir, st)
}
