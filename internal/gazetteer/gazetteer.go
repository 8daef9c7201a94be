// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gazetteer indexes known place names and resolves normalized
// message text to canonical names with coordinates. The index is built once
// at startup from the reference files produced by the shapefile conversion
// tooling and is read-only afterwards, so concurrent lookups need no
// synchronization.
package gazetteer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/levmap/incident-engine/internal/normalize"
)

// maxWindow is the largest lookup window in tokens. Multi-word windows are
// tried before shorter ones so that a short place name embedded in a longer
// one never wins over the longer match.
const maxWindow = 3

// Feature is one geographic reference record. Coordinates may be a single
// [lon, lat] point or an arbitrarily nested polygon/multipolygon ring.
type Feature struct {
	Name        string          `json:"name"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Entry is one indexed place.
type Entry struct {
	// Name is the canonical name as found in the reference data.
	Name string

	// Normalized is the index key derived from Name.
	Normalized string

	// Lon and Lat are the centroid of the place geometry.
	Lon float64
	Lat float64
}

// Index is the in-memory place-name index.
type Index struct {
	entries    map[string]Entry
	collisions int
}

// LoadFile reads one reference file: a JSON array of features.
func LoadFile(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gazetteer file %s: %w", path, err)
	}
	var features []Feature
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, fmt.Errorf("parsing gazetteer file %s: %w", path, err)
	}
	return features, nil
}

// Build indexes the given features by normalized name. Features with empty
// or non-Arabic names or without a resolvable centroid are skipped. When two
// names normalize to the same key the first registration wins; the collision
// count is kept so operators can audit the reference data.
func Build(features []Feature) *Index {
	ix := &Index{entries: make(map[string]Entry, len(features))}

	for _, f := range features {
		if !normalize.HasArabic(f.Name) {
			continue
		}
		key := normalize.Normalize(f.Name)
		if key == "" {
			continue
		}

		lon, lat, ok := centroid(f.Coordinates)
		if !ok {
			continue
		}

		if _, exists := ix.entries[key]; exists {
			ix.collisions++
			continue
		}
		ix.entries[key] = Entry{Name: f.Name, Normalized: key, Lon: lon, Lat: lat}
	}

	return ix
}

// Len returns the number of indexed places.
func (ix *Index) Len() int { return len(ix.entries) }

// Collisions returns the number of names dropped because another name
// already claimed the same normalized key.
func (ix *Index) Collisions() int { return ix.collisions }

// Lookup resolves normalized text to an indexed place. It slides token
// windows over the text, widest first (3, then 2, then 1 words), and
// returns the first exact window match. Absence is the normal unresolved
// outcome, not an error.
func (ix *Index) Lookup(normalized string) (Entry, bool) {
	tokens := strings.Fields(normalized)

	for w := maxWindow; w >= 1; w-- {
		for i := 0; i+w <= len(tokens); i++ {
			key := strings.Join(tokens[i:i+w], " ")
			if e, ok := ix.entries[key]; ok {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// centroid reduces a nested coordinate structure to a single point by
// averaging all leaf [x, y] pairs. Leaves are arrays whose first two
// elements are numbers; anything nested deeper is flattened recursively.
func centroid(raw json.RawMessage) (lon, lat float64, ok bool) {
	if len(raw) == 0 {
		return 0, 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, 0, false
	}

	var sumX, sumY float64
	var n int
	flatten(v, &sumX, &sumY, &n)
	if n == 0 {
		return 0, 0, false
	}
	return sumX / float64(n), sumY / float64(n), true
}

func flatten(v any, sumX, sumY *float64, n *int) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return
	}

	// Leaf point: [x, y, ...] of numbers.
	if x, xok := arr[0].(float64); xok {
		if len(arr) < 2 {
			return
		}
		y, yok := arr[1].(float64)
		if !yok {
			return
		}
		*sumX += x
		*sumY += y
		*n++
		return
	}

	for _, elem := range arr {
		flatten(elem, sumX, sumY, n)
	}
}
