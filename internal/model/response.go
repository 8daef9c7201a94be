// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"encoding/json"
	"strings"
)

// wireResult mirrors the JSON object the prompt asks for. incident_type
// arrives as a scalar in most responses but some models return a list;
// both shapes are accepted.
type wireResult struct {
	Location     string    `json:"location"`
	IncidentType typeField `json:"incident_type"`
	ThreatLevel  string    `json:"threat_level"`
}

type typeField []string

func (t *typeField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "" {
			*t = []string{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = list
		return nil
	}
	// Unusable shape (number, object, ...): drop the field, keep the rest.
	return nil
}

// ParseResult extracts a Result from raw model output. The output is
// adversarial text: it may wrap the JSON object in prose, markdown fences,
// or trailing garbage, or contain no object at all. Best-effort by
// contract: any doubt yields the empty Result, never an error.
func ParseResult(raw string) Result {
	obj, ok := FirstJSONObject(raw)
	if !ok {
		return Result{}
	}

	var w wireResult
	if err := json.Unmarshal([]byte(obj), &w); err != nil {
		return Result{}
	}

	r := Result{
		Location:    strings.TrimSpace(w.Location),
		ThreatLevel: strings.ToLower(strings.TrimSpace(w.ThreatLevel)),
	}
	for _, t := range w.IncidentType {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			r.IncidentTypes = append(r.IncidentTypes, t)
		}
	}
	return r
}

// FirstJSONObject scans s for the first well-formed top-level JSON object
// and returns it verbatim. Brace depth is tracked outside string literals
// so braces inside values do not terminate the scan. When a candidate
// closes but fails validation, the scan resumes at the next opening brace.
func FirstJSONObject(s string) (string, bool) {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}

		depth := 0
		inString := false
		escaped := false

		for i := start; i < len(s); i++ {
			c := s[i]

			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}

			switch c {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					candidate := s[start : i+1]
					if json.Valid([]byte(candidate)) {
						return candidate, true
					}
					// Invalid despite balanced braces; try the next '{'.
					i = len(s)
				}
			}
		}
	}
	return "", false
}
