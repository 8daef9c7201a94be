// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/levmap/incident-engine/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Mirror the incident store into a SQLite database",
	Long: `Export reads the incidents JSON file and rebuilds a SQLite table from
it for ad hoc querying. The JSON file remains the source of truth; the
database is disposable and fully rewritten on every export.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("store", "", "incidents JSON file")
	exportCmd.Flags().String("db", "incidents.db", "SQLite database file to write")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}

	dbPath, _ := cmd.Flags().GetString("db")
	n, err := store.ExportSQLite(st.Snapshot(), dbPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "exported %d record(s) to %s\n", n, dbPath)
	return nil
}
