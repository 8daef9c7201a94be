// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/levmap/incident-engine/internal/logging"
	"github.com/levmap/incident-engine/internal/serve"
	"github.com/levmap/incident-engine/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored incidents to the map front-end",
	Long: `Serve exposes the incident store over HTTP for the map viewer:
GET /incidents returns every stored record with a marker color and
[lat, lon] coordinates. The incidents file is re-read per request, so a
watcher running in another process is picked up without coordination.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address")
	serveCmd.Flags().String("store", "", "incidents JSON file")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	logger := logging.New(level)

	source := store.NewFileSource(cfg.Store.Path)
	server := serve.New(source, logger)

	logger.Info("map backend listening", "addr", cfg.Serve.Addr, "store", cfg.Store.Path)
	return http.ListenAndServe(cfg.Serve.Addr, server.Router())
}
