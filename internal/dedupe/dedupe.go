// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe decides whether a candidate incident duplicates an already
// stored one. Independent channels report the same event with varying
// detail; keeping every report floods the map with redundant markers while
// keeping only the first loses better-detailed later reports. The richest
// report survives.
package dedupe

import "github.com/levmap/incident-engine/pkg/types"

// Action is the admission decision for a candidate record.
type Action int

const (
	// Append adds the candidate as a new record.
	Append Action = iota

	// Replace substitutes the candidate for the existing record at Index.
	Replace

	// Discard drops the candidate.
	Discard
)

// Decision is the outcome of Admit. Index is meaningful only for Replace.
type Decision struct {
	Action Action
	Index  int
}

// Admit compares a candidate against the existing collection.
//
// A record from an already-ingested message (same channel and message ID,
// same type) is discarded unconditionally: re-ingestion is idempotent.
// A record about the same event (same type, location, and calendar day)
// merges by richness: the candidate replaces the existing record only when
// it carries strictly more extractable detail; ties keep the existing
// record so replays cause no churn. Anything else appends.
//
// Callers must serialize Admit calls against one store; two concurrent
// admissions reading the same existing state would both append and leave
// duplicate survivors.
func Admit(candidate types.IncidentRecord, existing []types.IncidentRecord) Decision {
	for _, rec := range existing {
		// One message may legitimately yield several records when it
		// matched several incident types; only the same type is a replay.
		if rec.SameMessage(candidate) && rec.IncidentType == candidate.IncidentType {
			return Decision{Action: Discard}
		}
	}

	for i, rec := range existing {
		if rec.IncidentType != candidate.IncidentType {
			continue
		}
		if rec.Location != candidate.Location {
			continue
		}
		if rec.Day() != candidate.Day() {
			continue
		}
		if candidate.Richness() > rec.Richness() {
			return Decision{Action: Replace, Index: i}
		}
		return Decision{Action: Discard}
	}

	return Decision{Action: Append}
}
