package types

import (
	"errors"
	"fmt"
	"time"
)

// SupportedSchemaVersion is the manifest schema this launcher understands.
// Newer manifests are rejected rather than half-parsed.
const SupportedSchemaVersion = 1

// Artifact formats. "binary" is a single executable file; the rest are
// archives extracted into the tool's install directory.
const (
	FormatBinary = "binary"
	FormatZip    = "zip"
	FormatTarGz  = "tar.gz"
	FormatTarBz2 = "tar.bz2"
	FormatTarXz  = "tar.xz"
	Format7z     = "7z"
)

// validFormats is the set of recognized artifact formats.
var validFormats = map[string]bool{
	FormatBinary: true,
	FormatZip:    true,
	FormatTarGz:  true,
	FormatTarBz2: true,
	FormatTarXz:  true,
	Format7z:     true,
}

// Manifest and tool errors.
var (
	ErrManifestMissing   = errors.New("no cached manifest; run update first")
	ErrSchemaUnsupported = errors.New("unsupported manifest schema version")
	ErrToolNotFound      = errors.New("tool not found in manifest")
	ErrToolInvalid       = errors.New("invalid tool entry")
)

// Artifact describes where a tool's payload lives and how to unpack it.
type Artifact struct {
	URL    string `json:"url"`
	SHA256 string `json:"sha256,omitempty"`
	Format string `json:"format"`
}

// Tool is a single versioned maintenance tool listed in the manifest.
type Tool struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Entry       string   `json:"entry"`
	Args        []string `json:"args,omitempty"`
	RequiresDB  bool     `json:"requires_db,omitempty"`
	Confirm     bool     `json:"confirm,omitempty"`
	Artifact    Artifact `json:"artifact"`
}

// Validate checks a single tool entry. Errors wrap ErrToolInvalid so the
// CLI can classify them as manifest problems rather than user mistakes.
func (t Tool) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: missing name", ErrToolInvalid)
	}
	if t.Version == "" {
		return fmt.Errorf("%w: %s has no version", ErrToolInvalid, t.Name)
	}
	if t.Entry == "" {
		return fmt.Errorf("%w: %s has no entry point", ErrToolInvalid, t.Name)
	}
	if t.Artifact.URL == "" {
		return fmt.Errorf("%w: %s has no artifact url", ErrToolInvalid, t.Name)
	}
	if t.Artifact.Format != "" && !validFormats[t.Artifact.Format] {
		return fmt.Errorf("%w: %s has unknown artifact format %q", ErrToolInvalid, t.Name, t.Artifact.Format)
	}
	return nil
}

// Manifest lists the tools available to this launcher.
type Manifest struct {
	SchemaVersion int       `json:"schema_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	Tools         []Tool    `json:"tools"`
}

// Validate checks the manifest as a whole: schema version, per-tool
// fields, and tool name uniqueness.
func (m *Manifest) Validate() error {
	if m.SchemaVersion != SupportedSchemaVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrSchemaUnsupported, m.SchemaVersion, SupportedSchemaVersion)
	}
	seen := make(map[string]bool, len(m.Tools))
	for _, t := range m.Tools {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: duplicate tool %q", ErrToolInvalid, t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// Find returns the tool with the given name.
func (m *Manifest) Find(name string) (Tool, bool) {
	for _, t := range m.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// Names returns the tool names in manifest order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Tools))
	for _, t := range m.Tools {
		names = append(names, t.Name)
	}
	return names
}
