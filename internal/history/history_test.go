package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueforge/venuekit/pkg/types"
)

// setupStore creates an attached Store in a temp data dir.
func setupStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.Attach(t.TempDir()))
	t.Cleanup(func() { s.Detach() })
	return s
}

// record builds a run record n minutes after a fixed base time.
func record(runID, tool string, n int) *types.RunRecord {
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	return &types.RunRecord{
		RunID:       runID,
		Tool:        tool,
		ToolVersion: "1.0.0",
		StartedAt:   base.Add(time.Duration(n) * time.Minute),
		FinishedAt:  base.Add(time.Duration(n)*time.Minute + 30*time.Second),
		ExitCode:    0,
		Status:      types.RunStatusOK,
	}
}

func TestAttachLifecycle(t *testing.T) {
	s := NewStore()
	dataDir := t.TempDir()

	require.NoError(t, s.Attach(dataDir))
	assert.ErrorIs(t, s.Attach(dataDir), ErrAlreadyAttached)

	require.NoError(t, s.Detach())
	require.NoError(t, s.Detach()) // idempotent

	_, err := s.List("", 0)
	assert.ErrorIs(t, err, ErrDetached)
}

func TestHistoryPersistsAcrossAttaches(t *testing.T) {
	dataDir := t.TempDir()

	s := NewStore()
	require.NoError(t, s.Attach(dataDir))
	require.NoError(t, s.Record(record("run-1", "venue-audit", 0)))
	require.NoError(t, s.Detach())

	s2 := NewStore()
	require.NoError(t, s2.Attach(dataDir))
	defer s2.Detach()

	got, err := s2.Get("run-1")
	require.NoError(t, err)
	assert.Equal(t, "venue-audit", got.Tool)
}

func TestRecordAndGetWithReport(t *testing.T) {
	s := setupStore(t)

	rec := record("run-1", "venue-audit", 0)
	rec.Report = &types.Report{
		Status:  "ok",
		Summary: "12 venues checked",
		Details: map[string]any{"fixed": float64(3)},
	}
	require.NoError(t, s.Record(rec))

	got, err := s.Get("run-1")
	require.NoError(t, err)
	require.NotNil(t, got.Report)
	assert.Equal(t, "12 venues checked", got.Report.Summary)
	assert.Equal(t, float64(3), got.Report.Details["fixed"])
	assert.Equal(t, rec.StartedAt, got.StartedAt)
}

func TestGetUnknownRun(t *testing.T) {
	s := setupStore(t)
	_, err := s.Get("no-such-run")
	assert.ErrorIs(t, err, types.ErrRunNotFound)
}

func TestListNewestFirstWithFilter(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Record(record("run-1", "venue-audit", 0)))
	require.NoError(t, s.Record(record("run-2", "terminal-create", 1)))
	require.NoError(t, s.Record(record("run-3", "venue-audit", 2)))

	all, err := s.List("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "run-3", all[0].RunID)
	assert.Equal(t, "run-1", all[2].RunID)

	audits, err := s.List("venue-audit", 0)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, "run-3", audits[0].RunID)

	limited, err := s.List("", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-3", limited[0].RunID)
}

func TestListFailedRunRecorded(t *testing.T) {
	s := setupStore(t)

	rec := record("run-1", "venue-audit", 0)
	rec.ExitCode = 3
	rec.Status = types.RunStatusFailed
	require.NoError(t, s.Record(rec))

	got, err := s.Get("run-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.ExitCode)
	assert.Equal(t, types.RunStatusFailed, got.Status)
}

func TestPrune(t *testing.T) {
	s := setupStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(record(
			[]string{"run-a", "run-b", "run-c", "run-d", "run-e"}[i], "venue-audit", i)))
	}

	removed, err := s.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	left, err := s.List("", 0)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "run-e", left[0].RunID)
	assert.Equal(t, "run-d", left[1].RunID)

	// keep <= 0 is a no-op.
	removed, err = s.Prune(0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
