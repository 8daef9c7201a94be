// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ThreatLevel is the binary threat flag attached to every incident.
type ThreatLevel string

const (
	ThreatYes ThreatLevel = "yes"
	ThreatNo  ThreatLevel = "no"
)

// IncidentType labels the category of a reported event. The set of valid
// types is defined by the keyword configuration loaded at startup; TypeOther
// is the catch-all member present in every configuration.
type IncidentType string

// TypeOther is the catch-all incident type.
const TypeOther IncidentType = "other"

// CasualtyTag marks a casualty mention found in a message.
type CasualtyTag string

const (
	CasualtyKilled  CasualtyTag = "killed"
	CasualtyInjured CasualtyTag = "injured"
	CasualtyMissing CasualtyTag = "missing"
)

// Details carries the extractable evidence found in the message text.
type Details struct {
	// NumbersFound lists numeric tokens in source order, filtered to a
	// bounded digit length so phone numbers and IDs never pollute
	// casualty-count heuristics.
	NumbersFound []string `json:"numbers_found"`

	// Casualties lists the casualty tags detected in the message.
	Casualties []CasualtyTag `json:"casualties"`

	// Summary is a bounded excerpt of the raw message text, suffixed with
	// "..." when truncated.
	Summary string `json:"summary"`
}

// IncidentRecord is one extracted incident as persisted in the store and
// served to the map front-end. A single message may yield several records,
// one per detected incident type.
type IncidentRecord struct {
	// IncidentType is a member of the configured type set.
	IncidentType IncidentType `json:"incident_type"`

	// Location is the canonical gazetteer name the message resolved to.
	Location string `json:"location"`

	// Coordinates is the [longitude, latitude] centroid of the location.
	Coordinates []float64 `json:"coordinates,omitempty"`

	// Channel identifies the origin feed.
	Channel string `json:"channel"`

	// MessageID is the message identifier within the channel. The pair
	// (Channel, MessageID) uniquely identifies the originating message.
	MessageID int64 `json:"message_id"`

	// Date is the message timestamp as an ISO-8601 string.
	Date string `json:"date"`

	ThreatLevel ThreatLevel `json:"threat_level"`

	Details Details `json:"details"`
}

// Day returns the calendar-day portion of the record timestamp. Records
// reported on the same day about the same type and place are merge
// candidates.
func (r IncidentRecord) Day() string {
	if len(r.Date) < 10 {
		return r.Date
	}
	return r.Date[:10]
}

// Richness scores how much extractable detail the record carries. Among
// duplicate reports of one event the richer record survives.
func (r IncidentRecord) Richness() int {
	return len(r.Details.NumbersFound) + len(r.Details.Casualties) + len(r.Details.Summary)
}

// SameMessage reports whether two records originate from the same source
// message.
func (r IncidentRecord) SameMessage(o IncidentRecord) bool {
	return r.Channel == o.Channel && r.MessageID == o.MessageID
}
