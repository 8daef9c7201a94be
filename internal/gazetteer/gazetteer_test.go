// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gazetteer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levmap/incident-engine/internal/normalize"
)

func feature(name, coords string) Feature {
	return Feature{Name: name, Coordinates: json.RawMessage(coords)}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		features  []Feature
		wantLen   int
		collision int
	}{
		{
			name:     "point feature",
			features: []Feature{feature("بيروت", `[35.5, 33.89]`)},
			wantLen:  1,
		},
		{
			name:     "skips empty name",
			features: []Feature{feature("", `[35.5, 33.89]`)},
			wantLen:  0,
		},
		{
			name:     "skips non arabic name",
			features: []Feature{feature("Beirut", `[35.5, 33.89]`)},
			wantLen:  0,
		},
		{
			name:     "skips missing coordinates",
			features: []Feature{feature("بيروت", `[]`)},
			wantLen:  0,
		},
		{
			name:     "skips malformed coordinates",
			features: []Feature{feature("بيروت", `"oops"`)},
			wantLen:  0,
		},
		{
			name: "collision keeps first registration",
			features: []Feature{
				feature("صيدا", `[35.37, 33.56]`),
				feature("صَيدا", `[10.0, 10.0]`), // same normalized key
			},
			wantLen:   1,
			collision: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := Build(tt.features)
			assert.Equal(t, tt.wantLen, ix.Len())
			assert.Equal(t, tt.collision, ix.Collisions())
		})
	}
}

func TestBuildCollisionKeepsFirstCoordinates(t *testing.T) {
	ix := Build([]Feature{
		feature("صيدا", `[35.37, 33.56]`),
		feature("صَيدا", `[10.0, 10.0]`),
	})
	e, ok := ix.Lookup(normalize.Normalize("صيدا"))
	require.True(t, ok)
	assert.Equal(t, 35.37, e.Lon)
	assert.Equal(t, 33.56, e.Lat)
}

func TestCentroidNested(t *testing.T) {
	tests := []struct {
		name    string
		coords  string
		wantLon float64
		wantLat float64
	}{
		{
			name:    "point",
			coords:  `[35.5, 33.89]`,
			wantLon: 35.5,
			wantLat: 33.89,
		},
		{
			name:    "ring",
			coords:  `[[0, 0], [2, 0], [2, 2], [0, 2]]`,
			wantLon: 1,
			wantLat: 1,
		},
		{
			name:    "polygon with nested rings",
			coords:  `[[[0, 0], [4, 0]], [[0, 4], [4, 4]]]`,
			wantLon: 2,
			wantLat: 2,
		},
		{
			name:    "multipolygon",
			coords:  `[[[[1, 1], [3, 1]]], [[[1, 3], [3, 3]]]]`,
			wantLon: 2,
			wantLat: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := Build([]Feature{feature("بعبدا", tt.coords)})
			e, ok := ix.Lookup(normalize.Normalize("بعبدا"))
			require.True(t, ok)
			assert.InDelta(t, tt.wantLon, e.Lon, 1e-9)
			assert.InDelta(t, tt.wantLat, e.Lat, 1e-9)
		})
	}
}

func TestLookupRoundTrip(t *testing.T) {
	names := []string{"بيروت", "طرابلس", "صور", "بنت جبيل"}
	features := make([]Feature, len(names))
	for i, n := range names {
		features[i] = feature(n, `[35.0, 33.0]`)
	}
	ix := Build(features)

	for _, n := range names {
		e, ok := ix.Lookup(normalize.Normalize(n))
		require.True(t, ok, "lookup %q", n)
		assert.Equal(t, n, e.Name)
	}
}

func TestLookupLongestMatchWins(t *testing.T) {
	ix := Build([]Feature{
		feature("بنت", `[1, 1]`),
		feature("بنت جبيل", `[2, 2]`),
	})

	text := normalize.Normalize("قصف على بنت جبيل هذا المساء")
	e, ok := ix.Lookup(text)
	require.True(t, ok)
	assert.Equal(t, "بنت جبيل", e.Name)
}

func TestLookupInsideSentence(t *testing.T) {
	ix := Build([]Feature{feature("بيروت", `[35.5, 33.89]`)})

	e, ok := ix.Lookup(normalize.Normalize("حريق كبير في بيروت، 3 جرحى"))
	require.True(t, ok)
	assert.Equal(t, "بيروت", e.Name)

	_, ok = ix.Lookup(normalize.Normalize("حريق كبير في مكان مجهول"))
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.json")
	content := `[{"name": "بيروت", "coordinates": [35.5, 33.89]}, {"name": "صور", "coordinates": [[35.2, 33.27], [35.21, 33.28]]}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	features, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "بيروت", features[0].Name)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
