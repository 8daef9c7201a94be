// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/levmap/incident-engine/internal/normalize"
)

var gazetteerCmd = &cobra.Command{
	Use:   "gazetteer",
	Short: "Build the place-name index and probe lookups",
	Long: `Gazetteer builds the place-name index from the configured reference
files and reports how many places were indexed and how many names
collided after normalization. With --lookup, it additionally resolves the
given text against the index, the same way the pipeline does.`,
	RunE: runGazetteer,
}

func init() {
	gazetteerCmd.Flags().StringSlice("gazetteer", nil, "gazetteer reference file (repeatable)")
	gazetteerCmd.Flags().String("lookup", "", "probe text to resolve against the index")

	rootCmd.AddCommand(gazetteerCmd)
}

func runGazetteer(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	ix, err := buildGazetteer(cfg.Gazetteer)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "indexed %d places (%d collisions) from %d file(s)\n",
		ix.Len(), ix.Collisions(), len(cfg.Gazetteer.Files))

	probe, _ := cmd.Flags().GetString("lookup")
	if probe == "" {
		return nil
	}

	entry, ok := ix.Lookup(normalize.Normalize(probe))
	if !ok {
		fmt.Fprintln(os.Stdout, "no match")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%s [%f, %f]\n", entry.Name, entry.Lon, entry.Lat)
	return nil
}
