// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps normalized message text to incident types and
// casualty tags via curated keyword sets. Substring matching over a
// bilingual keyword table is deliberately simple and auditable; it is the
// first-pass filter that keeps the common case away from the external
// model.
package classify

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/levmap/incident-engine/internal/normalize"
	"github.com/levmap/incident-engine/pkg/types"
)

// Config is the injectable keyword table. Keys define the closed incident
// type set; the catch-all "other" is always a member whether listed or not.
type Config struct {
	Incidents  map[types.IncidentType][]string `yaml:"incidents"`
	Casualties map[types.CasualtyTag][]string  `yaml:"casualties"`
}

// LoadConfig reads a keyword table from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading keywords file %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}
	if len(cfg.Incidents) == 0 {
		return Config{}, fmt.Errorf("keywords file %s: no incident types defined", path)
	}
	return cfg, nil
}

// Classifier matches normalized text against a keyword configuration.
// Safe for concurrent use: all state is built in New and read-only after.
type Classifier struct {
	incidents  map[types.IncidentType][]string
	casualties map[types.CasualtyTag][]string
	typeOrder  []types.IncidentType
	tagOrder   []types.CasualtyTag
}

// New builds a classifier from the given configuration. Keyword phrases are
// normalized with the same canonicalization applied to message text, so a
// phrase written with diacritics still matches.
func New(cfg Config) *Classifier {
	c := &Classifier{
		incidents:  make(map[types.IncidentType][]string, len(cfg.Incidents)),
		casualties: make(map[types.CasualtyTag][]string, len(cfg.Casualties)),
	}

	for it, phrases := range cfg.Incidents {
		c.incidents[it] = normalizeAll(phrases)
		c.typeOrder = append(c.typeOrder, it)
	}
	for tag, phrases := range cfg.Casualties {
		c.casualties[tag] = normalizeAll(phrases)
		c.tagOrder = append(c.tagOrder, tag)
	}

	// Deterministic match order regardless of map iteration.
	sort.Slice(c.typeOrder, func(i, j int) bool { return c.typeOrder[i] < c.typeOrder[j] })
	sort.Slice(c.tagOrder, func(i, j int) bool { return c.tagOrder[i] < c.tagOrder[j] })

	return c
}

func normalizeAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if n := normalize.Normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Incidents returns every incident type whose keywords occur in the
// normalized text, in deterministic order. A message describing both a fire
// and a medical response yields both types; each becomes an independent
// record downstream.
func (c *Classifier) Incidents(normalized string) []types.IncidentType {
	var matched []types.IncidentType
	for _, it := range c.typeOrder {
		if containsAny(normalized, c.incidents[it]) {
			matched = append(matched, it)
		}
	}
	return matched
}

// Casualties returns every casualty tag whose keywords occur in the
// normalized text.
func (c *Classifier) Casualties(normalized string) []types.CasualtyTag {
	var matched []types.CasualtyTag
	for _, tag := range c.tagOrder {
		if containsAny(normalized, c.casualties[tag]) {
			matched = append(matched, tag)
		}
	}
	return matched
}

// KnownType reports whether t is a member of the configured incident type
// set. The catch-all "other" is always known. External classifier output is
// accepted only for known types.
func (c *Classifier) KnownType(t types.IncidentType) bool {
	if t == types.TypeOther {
		return true
	}
	_, ok := c.incidents[t]
	return ok
}

// Types returns the configured incident type set in deterministic order,
// without the catch-all.
func (c *Classifier) Types() []types.IncidentType {
	out := make([]types.IncidentType, len(c.typeOrder))
	copy(out, c.typeOrder)
	return out
}

// containsAny is substring containment; phrase matching deliberately
// ignores token boundaries so inflected forms still hit (e.g. "الحريق"
// contains "حريق").
func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}
