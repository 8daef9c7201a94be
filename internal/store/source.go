// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/levmap/incident-engine/pkg/types"
)

// FileSource serves snapshots straight from the incidents file, re-reading
// it on every call. The map backend runs as its own process while the
// watcher owns the writes; re-reading picks up new incidents without any
// coordination beyond the whole-file write.
type FileSource struct {
	mu   sync.Mutex
	path string
	last []types.IncidentRecord
}

// NewFileSource creates a source over the incidents file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Snapshot returns the current file contents. A missing, unreadable, or
// half-written file yields the last good snapshot rather than an error:
// the map keeps serving stale markers instead of flapping.
func (f *FileSource) Snapshot() []types.IncidentRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return f.last
	}

	var records []types.IncidentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return f.last
	}
	f.last = records
	return records
}
