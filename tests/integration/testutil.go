// Package integration provides CLI integration tests for venuekit.
// Tests drive the built binary against a local manifest server and fake
// shell-script tools.
package integration

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// venuekitBin is the path to the built venuekit binary.
	venuekitBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv provides an isolated test environment with its own config and
// data directory plus a local tool server.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	DataDir   string
	Server    *httptest.Server

	// artifacts maps URL path -> body served by the tool server.
	artifacts map[string][]byte
	// manifestJSON is the body served at /manifest.json.
	manifestJSON []byte
}

// NewTestEnv creates a new isolated test environment with a manifest
// server and writes a config.yaml pointing at it.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build venuekit: %v", buildErr)
	}
	if venuekitBin == "" {
		t.Fatal("venuekit binary not built (venuekitBin is empty)")
	}

	env := &TestEnv{
		t:         t,
		artifacts: make(map[string][]byte),
	}

	env.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/manifest.json" {
			w.Write(env.manifestJSON)
			return
		}
		if body, ok := env.artifacts[r.URL.Path]; ok {
			w.Write(body)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(env.Server.Close)

	env.TempDir = t.TempDir()
	env.DataDir = filepath.Join(env.TempDir, "data")
	env.ConfigDir = filepath.Join(env.TempDir, "config")

	if err := os.MkdirAll(env.ConfigDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := fmt.Sprintf("manifest_url: %s/manifest.json\ndata_dir: %s\n",
		env.Server.URL, env.DataDir)
	if err := os.WriteFile(filepath.Join(env.ConfigDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return env
}

// ServeManifest sets the manifest body returned by the test server.
func (e *TestEnv) ServeManifest(body string) {
	e.manifestJSON = []byte(body)
}

// ServeArtifact registers an artifact body at the given URL path.
func (e *TestEnv) ServeArtifact(path string, body []byte) {
	e.artifacts[path] = body
}

// CmdResult holds the result of a venuekit command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunVenuekit executes the venuekit CLI with the given arguments.
func (e *TestEnv) RunVenuekit(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(venuekitBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run venuekit: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunVenuekit executes the CLI and fails the test on a non-zero exit.
func (e *TestEnv) MustRunVenuekit(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunVenuekit(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("venuekit %v failed (exit %d)\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}
