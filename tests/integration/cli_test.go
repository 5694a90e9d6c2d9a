// CLI integration tests covering the launcher lifecycle: init, update,
// install, run, reports.
package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain builds the venuekit binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}

	tmpDir, err := os.MkdirTemp("", "venuekit-test-*")
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}
	venuekitBin = filepath.Join(tmpDir, "venuekit")

	cmd := exec.Command("go", "build", "-o", venuekitBin, "./cmd/venuekit")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(output)}
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// toolManifest renders a one-tool manifest against the test server.
func toolManifest(serverURL string) string {
	return fmt.Sprintf(`{
  "schema_version": 1,
  "generated_at": "2026-08-12T09:00:00Z",
  "tools": [
    {
      "name": "venue-audit",
      "version": "1.4.0",
      "description": "Audit venue records",
      "entry": "venue-audit",
      "artifact": {"url": "%s/artifacts/venue-audit", "format": "binary"}
    }
  ]
}`, serverURL)
}

func TestVersion(t *testing.T) {
	env := NewTestEnv(t)
	result := env.MustRunVenuekit("version")
	assert.Contains(t, result.Stdout, "venuekit")
}

func TestInit(t *testing.T) {
	env := NewTestEnv(t)
	result := env.MustRunVenuekit("init")
	assert.Contains(t, result.Stdout, "venuekit initialized")
	assert.DirExists(t, env.DataDir)
}

func TestListWithoutManifestIsUserError(t *testing.T) {
	env := NewTestEnv(t)
	result := env.RunVenuekit("list")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "update")
}

func TestUpdateListInstallRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	env := NewTestEnv(t)
	env.ServeManifest(toolManifest(env.Server.URL))
	env.ServeArtifact("/artifacts/venue-audit", []byte(
		"#!/bin/sh\necho \"auditing venues\"\nprintf '{\"status\":\"ok\",\"summary\":\"2 venues fixed\"}' > report.json\n"))

	// update caches the manifest.
	result := env.MustRunVenuekit("update")
	assert.Contains(t, result.Stdout, "1 tools available")
	assert.FileExists(t, filepath.Join(env.DataDir, "manifest.json"))

	// list shows the tool as not installed.
	result = env.MustRunVenuekit("list")
	assert.Contains(t, result.Stdout, "venue-audit")
	assert.Contains(t, result.Stdout, "not installed")

	// install downloads the artifact.
	result = env.MustRunVenuekit("install", "venue-audit")
	assert.Contains(t, result.Stdout, "installed venue-audit@1.4.0")
	assert.FileExists(t, filepath.Join(env.DataDir, "tools", "venue-audit", "1.4.0", "venue-audit"))

	// run executes it and records the run.
	result = env.MustRunVenuekit("run", "venue-audit")
	assert.Contains(t, result.Stdout, "auditing venues")
	assert.Contains(t, result.Stdout, "2 venues fixed")

	// reports lists the run with its report.
	result = env.MustRunVenuekit("reports", "--json")
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Stdout), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "venue-audit", records[0]["tool"])
	assert.Equal(t, "ok", records[0]["status"])

	runID, _ := records[0]["run_id"].(string)
	require.NotEmpty(t, runID)

	// The RunDir holds the context, log, and report.
	runDir := filepath.Join(env.DataDir, "runs", runID)
	assert.FileExists(t, filepath.Join(runDir, "context.json"))
	assert.FileExists(t, filepath.Join(runDir, "run.log"))
	assert.FileExists(t, filepath.Join(runDir, "report.json"))

	// reports show prints the stored report.
	result = env.MustRunVenuekit("reports", "show", runID)
	assert.Contains(t, result.Stdout, "2 venues fixed")
}

func TestRunUnknownToolIsUserError(t *testing.T) {
	env := NewTestEnv(t)
	env.ServeManifest(toolManifest(env.Server.URL))
	env.MustRunVenuekit("update")

	result := env.RunVenuekit("run", "no-such-tool")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "venue-audit")
}

func TestRunInstallsOnDemand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	env := NewTestEnv(t)
	env.ServeManifest(toolManifest(env.Server.URL))
	env.ServeArtifact("/artifacts/venue-audit", []byte("#!/bin/sh\necho ran\n"))
	env.MustRunVenuekit("update")

	// No explicit install; run fetches the tool first.
	result := env.MustRunVenuekit("run", "venue-audit")
	assert.Contains(t, result.Stdout, "ran")
	assert.FileExists(t, filepath.Join(env.DataDir, "installed.json"))
}

func TestFailingToolPropagatesExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	env := NewTestEnv(t)
	env.ServeManifest(toolManifest(env.Server.URL))
	env.ServeArtifact("/artifacts/venue-audit", []byte("#!/bin/sh\necho boom >&2\nexit 3\n"))
	env.MustRunVenuekit("update")

	result := env.RunVenuekit("run", "venue-audit")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "exited with code 3")

	// The failed run is still recorded.
	reports := env.MustRunVenuekit("reports", "--json")
	assert.Contains(t, reports.Stdout, `"failed"`)
}

func TestUninstall(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	env := NewTestEnv(t)
	env.ServeManifest(toolManifest(env.Server.URL))
	env.ServeArtifact("/artifacts/venue-audit", []byte("#!/bin/sh\n"))
	env.MustRunVenuekit("update")
	env.MustRunVenuekit("install", "venue-audit")

	result := env.MustRunVenuekit("--yes", "uninstall", "venue-audit")
	assert.Contains(t, result.Stdout, "uninstalled venue-audit")

	listed := env.MustRunVenuekit("list")
	assert.Contains(t, listed.Stdout, "not installed")

	// Uninstalling again is a user error.
	again := env.RunVenuekit("--yes", "uninstall", "venue-audit")
	assert.Equal(t, 1, again.ExitCode)
}

func TestVersionAwareReinstall(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	env := NewTestEnv(t)
	env.ServeManifest(toolManifest(env.Server.URL))
	env.ServeArtifact("/artifacts/venue-audit", []byte("#!/bin/sh\necho v1\n"))
	env.MustRunVenuekit("update")
	env.MustRunVenuekit("install", "venue-audit")

	// Bump the manifest version and change the artifact.
	env.ServeManifest(strings.ReplaceAll(toolManifest(env.Server.URL), "1.4.0", "1.5.0"))
	env.ServeArtifact("/artifacts/venue-audit", []byte("#!/bin/sh\necho v2\n"))
	env.MustRunVenuekit("update")

	listed := env.MustRunVenuekit("list")
	assert.Contains(t, listed.Stdout, "1.4.0 -> 1.5.0")

	// run picks up the new version automatically.
	result := env.MustRunVenuekit("run", "venue-audit")
	assert.Contains(t, result.Stdout, "v2")
	assert.NoDirExists(t, filepath.Join(env.DataDir, "tools", "venue-audit", "1.4.0"))
}

func TestDBCheck(t *testing.T) {
	env := NewTestEnv(t)
	env.ServeManifest(toolManifest(env.Server.URL))

	// Point the database at a throwaway sqlite file via env override.
	dsn := "file:" + filepath.Join(env.TempDir, "pos.db")
	cmd := exec.Command(venuekitBin,
		"--config-dir", env.ConfigDir, "--data-dir", env.DataDir, "db", "check")
	cmd.Env = append(os.Environ(),
		"VENUEKIT_DB_DRIVER=sqlite",
		"VENUEKIT_DB_DSN="+dsn,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "database ok")
}
