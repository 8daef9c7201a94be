// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model defines the external free-text classifier contract and its
// Ollama-backed implementation. The external model is a best-effort
// collaborator: its output is untrusted, its latency unbounded, and a
// failed or garbled call must degrade to "no result", never into a
// pipeline error.
package model

import "context"

// Result is the (still unvalidated) outcome of one external classification.
// The zero value means the model produced nothing usable.
type Result struct {
	// Location is a free-text place name, or empty.
	Location string

	// IncidentTypes holds the suggested type labels. The wire format
	// allows a scalar or a list; both collapse to this slice.
	IncidentTypes []string

	// ThreatLevel is the raw threat flag text, expected "yes" or "no".
	ThreatLevel string
}

// Empty reports whether the result carries no usable field.
func (r Result) Empty() bool {
	return r.Location == "" && len(r.IncidentTypes) == 0 && r.ThreatLevel == ""
}

// Classifier is the narrow interface the pipeline consults when local
// signals are insufficient. Implementations must honor ctx cancellation;
// callers bound every invocation with a timeout.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}
