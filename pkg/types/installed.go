package types

import (
	"errors"
	"time"
)

// Installed-tool errors.
var (
	ErrToolNotInstalled = errors.New("tool is not installed")
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
)

// InstalledTool records one installed tool version in installed.json.
type InstalledTool struct {
	Version     string    `json:"version"`
	InstallDir  string    `json:"install_dir"`
	Entry       string    `json:"entry"`
	InstalledAt time.Time `json:"installed_at"`
}

// Current reports whether the installed version matches the manifest
// version. Plain string equality; any difference triggers a re-download.
func (it InstalledTool) Current(manifestVersion string) bool {
	return it.Version == manifestVersion
}
