// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the logger for the long-running daemons. The
// batch commands print progress to stdout instead; only watch and serve
// need leveled output.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New returns a logger at the given level ("debug", "info", "warn",
// "error"). Unrecognized levels fall back to info.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
