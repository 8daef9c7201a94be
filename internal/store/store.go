// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists incident records to a single JSON file. The file
// is the only mutable shared resource in the process: all mutation goes
// through one mutex, and readers take immutable snapshots. Whole-file
// read/write is acceptable at this system's single-process throughput.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/levmap/incident-engine/internal/dedupe"
	"github.com/levmap/incident-engine/pkg/types"
)

// Store owns the incident collection and its backing file.
type Store struct {
	mu      sync.Mutex
	path    string
	records []types.IncidentRecord

	// unflushed is set when the last write failed; the records already
	// admitted stay in memory and the next admission retries the flush,
	// so a transient I/O failure never silently loses a record.
	unflushed bool
}

// Open loads the incident file at path. A missing file yields an empty
// store; an unreadable or malformed file is an error the caller must
// surface rather than quietly starting from scratch over existing data.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading incidents file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parsing incidents file %s: %w", path, err)
	}
	return s, nil
}

// Admit runs the candidate through deduplication and persists the outcome.
// It reports whether the candidate changed the collection. A persistence
// failure is returned for logging but the in-memory state keeps the
// admitted record; the next Admit retries the write.
func (s *Store) Admit(candidate types.IncidentRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := dedupe.Admit(candidate, s.records)

	changed := true
	switch d.Action {
	case dedupe.Append:
		s.records = append(s.records, candidate)
	case dedupe.Replace:
		s.records[d.Index] = candidate
	case dedupe.Discard:
		changed = false
	}

	if !changed && !s.unflushed {
		return false, nil
	}

	if err := s.flushLocked(); err != nil {
		s.unflushed = true
		return changed, fmt.Errorf("writing incidents file %s: %w", s.path, err)
	}
	s.unflushed = false
	return changed, nil
}

// Snapshot returns a copy of the current collection for readers that need
// a consistent view (e.g. the HTTP map backend).
func (s *Store) Snapshot() []types.IncidentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.IncidentRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// flushLocked writes the whole collection. Arabic text is stored readably:
// no ASCII or HTML escaping.
func (s *Store) flushLocked() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	records := s.records
	if records == nil {
		records = []types.IncidentRecord{}
	}
	if err := enc.Encode(records); err != nil {
		return err
	}
	return os.WriteFile(s.path, buf.Bytes(), 0o644)
}
