// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/levmap/incident-engine/pkg/types"
)

// ExportSQLite mirrors the given records into a SQLite database for ad hoc
// querying. The table is rebuilt on every export; the JSON file stays the
// source of truth.
func ExportSQLite(records []types.IncidentRecord, dbPath string) (int, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return 0, fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	defer db.Close()

	statements := []string{
		`DROP TABLE IF EXISTS incidents`,
		`CREATE TABLE incidents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			incident_type TEXT NOT NULL,
			location TEXT NOT NULL,
			longitude REAL,
			latitude REAL,
			channel TEXT NOT NULL,
			message_id INTEGER NOT NULL,
			date TEXT,
			threat_level TEXT,
			numbers_found TEXT,
			casualties TEXT,
			summary TEXT
		)`,
		`CREATE INDEX idx_incidents_type ON incidents(incident_type)`,
		`CREATE INDEX idx_incidents_location ON incidents(location)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return 0, fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	insert, err := tx.Prepare(`INSERT INTO incidents
		(incident_type, location, longitude, latitude, channel, message_id, date, threat_level, numbers_found, casualties, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for _, r := range records {
		var lon, lat any
		if len(r.Coordinates) == 2 {
			lon, lat = r.Coordinates[0], r.Coordinates[1]
		}

		casualties, err := json.Marshal(r.Details.Casualties)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("marshaling casualties: %w", err)
		}

		_, err = insert.Exec(
			string(r.IncidentType), r.Location, lon, lat,
			r.Channel, r.MessageID, r.Date, string(r.ThreatLevel),
			strings.Join(r.Details.NumbersFound, ","), string(casualties), r.Details.Summary,
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting record %s/%d: %w", r.Channel, r.MessageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing export: %w", err)
	}
	return len(records), nil
}
