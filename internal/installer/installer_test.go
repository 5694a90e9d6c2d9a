package installer

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueforge/venuekit/internal/state"
	"github.com/venueforge/venuekit/pkg/types"
)

// serveArtifact starts a test server that serves body at any path.
func serveArtifact(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// tarGz builds a tar.gz archive from a map of path -> content.
func tarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o755,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// zipArchive builds a zip archive from a map of path -> content.
func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestInstallBinaryArtifact(t *testing.T) {
	script := []byte("#!/bin/sh\necho audit\n")
	srv := serveArtifact(t, script)
	dataDir := t.TempDir()

	tool := types.Tool{
		Name:    "venue-audit",
		Version: "1.4.0",
		Entry:   "venue-audit",
		Artifact: types.Artifact{
			URL:    srv.URL + "/venue-audit",
			Format: types.FormatBinary,
		},
	}

	inst := New(dataDir, 5*time.Second)
	installed, err := inst.Install(context.Background(), tool)
	require.NoError(t, err)

	entry := filepath.Join(installed.InstallDir, "venue-audit")
	info, err := os.Stat(entry)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	got, err := os.ReadFile(entry)
	require.NoError(t, err)
	assert.Equal(t, script, got)
}

func TestInstallTarGzArtifact(t *testing.T) {
	body := tarGz(t, map[string]string{
		"bin/terminal-create": "#!/bin/sh\necho create\n",
		"README.txt":          "docs\n",
	})
	srv := serveArtifact(t, body)
	dataDir := t.TempDir()

	tool := types.Tool{
		Name:    "terminal-create",
		Version: "2.0.1",
		Entry:   "bin/terminal-create",
		Artifact: types.Artifact{
			URL:    srv.URL + "/terminal-create-2.0.1.tar.gz",
			Format: types.FormatTarGz,
		},
	}

	inst := New(dataDir, 5*time.Second)
	installed, err := inst.Install(context.Background(), tool)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(installed.InstallDir, "bin", "terminal-create"))
	assert.FileExists(t, filepath.Join(installed.InstallDir, "README.txt"))
}

func TestInstallZipArtifactFormatInferred(t *testing.T) {
	body := zipArchive(t, map[string]string{"card-names": "#!/bin/sh\n"})
	srv := serveArtifact(t, body)
	dataDir := t.TempDir()

	tool := types.Tool{
		Name:    "card-names",
		Version: "0.9.0",
		Entry:   "card-names",
		// Format left empty: inferred from the .zip suffix.
		Artifact: types.Artifact{URL: srv.URL + "/card-names-0.9.0.zip"},
	}

	inst := New(dataDir, 5*time.Second)
	installed, err := inst.Install(context.Background(), tool)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(installed.InstallDir, "card-names"))
}

func TestInstallChecksum(t *testing.T) {
	script := []byte("#!/bin/sh\n")
	srv := serveArtifact(t, script)
	dataDir := t.TempDir()

	sum := sha256.Sum256(script)
	tool := types.Tool{
		Name:    "venue-audit",
		Version: "1.4.0",
		Entry:   "venue-audit",
		Artifact: types.Artifact{
			URL:    srv.URL + "/venue-audit",
			Format: types.FormatBinary,
			SHA256: hex.EncodeToString(sum[:]),
		},
	}

	inst := New(dataDir, 5*time.Second)
	_, err := inst.Install(context.Background(), tool)
	require.NoError(t, err)

	// Tamper with the expected checksum.
	tool.Artifact.SHA256 = "deadbeef"
	_, err = inst.Install(context.Background(), tool)
	assert.ErrorIs(t, err, types.ErrChecksumMismatch)

	// A failed install must not leave a staged tree behind.
	entries, err := os.ReadDir(filepath.Join(dataDir, "tools", "venue-audit"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".stage-")
	}
}

func TestInstallMissingEntry(t *testing.T) {
	body := tarGz(t, map[string]string{"other-file": "x"})
	srv := serveArtifact(t, body)

	tool := types.Tool{
		Name:    "venue-audit",
		Version: "1.4.0",
		Entry:   "venue-audit",
		Artifact: types.Artifact{
			URL:    srv.URL + "/venue-audit.tar.gz",
			Format: types.FormatTarGz,
		},
	}

	inst := New(t.TempDir(), 5*time.Second)
	_, err := inst.Install(context.Background(), tool)
	assert.ErrorContains(t, err, "no entry point")
}

func TestExtractRejectsEscapingPaths(t *testing.T) {
	body := tarGz(t, map[string]string{"../evil": "x"})
	srv := serveArtifact(t, body)

	tool := types.Tool{
		Name:    "venue-audit",
		Version: "1.4.0",
		Entry:   "venue-audit",
		Artifact: types.Artifact{
			URL:    srv.URL + "/venue-audit.tar.gz",
			Format: types.FormatTarGz,
		},
	}

	inst := New(t.TempDir(), 5*time.Second)
	_, err := inst.Install(context.Background(), tool)
	assert.ErrorContains(t, err, "escapes destination")
}

func TestEnsure(t *testing.T) {
	script := []byte("#!/bin/sh\n")
	srv := serveArtifact(t, script)
	dataDir := t.TempDir()

	tool := types.Tool{
		Name:    "venue-audit",
		Version: "1.4.0",
		Entry:   "venue-audit",
		Artifact: types.Artifact{
			URL:    srv.URL + "/venue-audit",
			Format: types.FormatBinary,
		},
	}

	inst := New(dataDir, 5*time.Second)
	st := state.New()

	installed, err := inst.Ensure(context.Background(), tool, st)
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", installed.Version)

	// Second Ensure with the same version is a no-op.
	again, err := inst.Ensure(context.Background(), tool, st)
	require.NoError(t, err)
	assert.Equal(t, installed.InstalledAt, again.InstalledAt)

	// Version bump triggers a re-download and removes the old dir.
	oldDir := installed.InstallDir
	tool.Version = "1.5.0"
	upgraded, err := inst.Ensure(context.Background(), tool, st)
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", upgraded.Version)
	assert.NoDirExists(t, oldDir)

	// State was persisted.
	reloaded, err := state.Load(dataDir)
	require.NoError(t, err)
	it, ok := reloaded.Get("venue-audit")
	require.True(t, ok)
	assert.Equal(t, "1.5.0", it.Version)
}

func TestUninstall(t *testing.T) {
	script := []byte("#!/bin/sh\n")
	srv := serveArtifact(t, script)
	dataDir := t.TempDir()

	tool := types.Tool{
		Name:    "venue-audit",
		Version: "1.4.0",
		Entry:   "venue-audit",
		Artifact: types.Artifact{
			URL:    srv.URL + "/venue-audit",
			Format: types.FormatBinary,
		},
	}

	inst := New(dataDir, 5*time.Second)
	st := state.New()

	installed, err := inst.Ensure(context.Background(), tool, st)
	require.NoError(t, err)

	require.NoError(t, inst.Uninstall("venue-audit", st))
	assert.NoDirExists(t, filepath.Dir(installed.InstallDir))

	err = inst.Uninstall("venue-audit", st)
	assert.ErrorIs(t, err, types.ErrToolNotInstalled)
}
