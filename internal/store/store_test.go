// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levmap/incident-engine/pkg/types"
)

func testRecord(channel string, msgID int64, it types.IncidentType) types.IncidentRecord {
	return types.IncidentRecord{
		IncidentType: it,
		Location:     "بيروت",
		Coordinates:  []float64{35.5, 33.89},
		Channel:      channel,
		MessageID:    msgID,
		Date:         "2026-08-30T10:00:00Z",
		ThreatLevel:  types.ThreatYes,
		Details: types.Details{
			NumbersFound: []string{"3"},
			Casualties:   []types.CasualtyTag{types.CasualtyInjured},
			Summary:      "حريق كبير في بيروت، 3 جرحى",
		},
	}
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "incidents.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestAdmitPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.json")

	s, err := Open(path)
	require.NoError(t, err)

	changed, err := s.Admit(testRecord("lbci", 1, "fire"))
	require.NoError(t, err)
	assert.True(t, changed)

	// Reopen from disk: the record round-trips.
	s2, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 1, s2.Len())
	got := s2.Snapshot()[0]
	assert.Equal(t, types.IncidentType("fire"), got.IncidentType)
	assert.Equal(t, "بيروت", got.Location)
	assert.Equal(t, []types.CasualtyTag{types.CasualtyInjured}, got.Details.Casualties)
}

func TestStoredFileKeepsArabicReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.json")
	s, err := Open(path)
	require.NoError(t, err)

	_, err = s.Admit(testRecord("lbci", 1, "fire"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "بيروت")
	assert.NotContains(t, string(data), `\u0`)
}

func TestAdmitIdempotentReingestion(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "incidents.json"))
	require.NoError(t, err)

	rec := testRecord("lbci", 7, "fire")
	for i := 0; i < 3; i++ {
		_, err := s.Admit(rec)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, s.Len())
}

func TestAdmitRichnessReplaceInPlace(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "incidents.json"))
	require.NoError(t, err)

	poor := testRecord("lbci", 1, "fire")
	poor.Details = types.Details{Summary: "حريق"}
	rich := testRecord("mtv", 9, "fire")

	_, err = s.Admit(poor)
	require.NoError(t, err)
	changed, err := s.Admit(rich)
	require.NoError(t, err)
	assert.True(t, changed)

	require.Equal(t, 1, s.Len())
	assert.Equal(t, int64(9), s.Snapshot()[0].MessageID)
}

func TestAdmitFailedWriteRetainsRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "incidents.json")
	s, err := Open(path)
	require.NoError(t, err)

	// Make the write fail by occupying the path with a directory.
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err = s.Admit(testRecord("lbci", 1, "fire"))
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len(), "record must survive the failed write in memory")

	// Clear the obstruction: the next admission flushes everything.
	require.NoError(t, os.Remove(path))
	_, err = s.Admit(testRecord("lbci", 2, "flood"))
	require.NoError(t, err)

	s2, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s2.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "incidents.json"))
	require.NoError(t, err)
	_, err = s.Admit(testRecord("lbci", 1, "fire"))
	require.NoError(t, err)

	snap := s.Snapshot()
	snap[0].Location = "مزور"
	assert.Equal(t, "بيروت", s.Snapshot()[0].Location)
}

func TestAdmitConcurrentSameEvent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "incidents.json"))
	require.NoError(t, err)

	// Many workers admit reports of the same (type, location, day) event;
	// exactly one survivor must remain.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := testRecord("ch", int64(100+i), "fire")
			_, err := s.Admit(rec)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Len())
}

func TestExportSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "incidents.db")

	records := []types.IncidentRecord{
		testRecord("lbci", 1, "fire"),
		testRecord("mtv", 2, "flood"),
	}

	n, err := ExportSQLite(records, dbPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-export over the same file rebuilds the table.
	n, err = ExportSQLite(records[:1], dbPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoredFileIsAJSONList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.json")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Admit(testRecord("lbci", 1, "fire"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "["))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "fire", out[0]["incident_type"])
}
