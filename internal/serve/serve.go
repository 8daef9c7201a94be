// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package serve republishes stored incidents to the map front-end. The
// server only snapshots the store; polling cadence is the client's
// concern.
package serve

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/levmap/incident-engine/pkg/types"
)

// markerColors maps incident types to map marker colors. Types without an
// entry fall back to white.
var markerColors = map[types.IncidentType]string{
	"fire":          "red",
	"accident":      "orange",
	"shooting":      "red",
	"earthquake":    "brown",
	"flood":         "blue",
	"explosion":     "gray",
	"protest":       "purple",
	"medical":       "yellow",
	types.TypeOther: "white",
}

// Snapshotter provides a consistent view of the incident collection.
// *store.Store satisfies it.
type Snapshotter interface {
	Snapshot() []types.IncidentRecord
}

// incidentView is one incident as served to the front-end: the stored
// record plus a marker color, with coordinates flipped to [lat, lon] as
// Leaflet expects.
type incidentView struct {
	IncidentType types.IncidentType `json:"incident_type"`
	Location     string             `json:"location"`
	Coordinates  []float64          `json:"coordinates"`
	Channel      string             `json:"channel"`
	MessageID    int64              `json:"message_id"`
	Date         string             `json:"date"`
	ThreatLevel  types.ThreatLevel  `json:"threat_level"`
	Details      types.Details      `json:"details"`
	Color        string             `json:"color"`
}

// Server is the incident map backend.
type Server struct {
	source Snapshotter
	log    *log.Logger
}

// New builds a server over the given snapshot source.
func New(source Snapshotter, logger *log.Logger) *Server {
	return &Server{source: source, log: logger}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/incidents", s.handleIncidents).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	return r
}

func (s *Server) handleIncidents(w http.ResponseWriter, _ *http.Request) {
	records := s.source.Snapshot()

	views := make([]incidentView, 0, len(records))
	for _, rec := range records {
		views = append(views, toView(rec))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string][]incidentView{"incidents": views}); err != nil {
		s.log.Error("encoding incidents response", "err", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Incident Monitor Backend Running. Use /incidents to fetch data.\n"))
}

func toView(rec types.IncidentRecord) incidentView {
	color, ok := markerColors[rec.IncidentType]
	if !ok {
		color = "white"
	}

	v := incidentView{
		IncidentType: rec.IncidentType,
		Location:     rec.Location,
		Coordinates:  []float64{},
		Channel:      rec.Channel,
		MessageID:    rec.MessageID,
		Date:         rec.Date,
		ThreatLevel:  rec.ThreatLevel,
		Details:      rec.Details,
		Color:        color,
	}
	if len(rec.Coordinates) == 2 {
		// Stored as [lon, lat]; Leaflet wants [lat, lon].
		v.Coordinates = []float64{rec.Coordinates[1], rec.Coordinates[0]}
	}
	return v
}
