// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ReadMessages parses newline-delimited JSON message tuples, the interface
// the ingestion collaborator delivers on. Blank lines are skipped; a
// malformed line is an error carrying its line number, since silently
// dropping feed input would hide broken ingestion.
func ReadMessages(r io.Reader) ([]Message, error) {
	var msgs []Message

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var msg Message
		if err := json.Unmarshal([]byte(text), &msg); err != nil {
			return nil, fmt.Errorf("feed line %d: %w", line, err)
		}
		msgs = append(msgs, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading feed: %w", err)
	}
	return msgs, nil
}
