// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/levmap/incident-engine/internal/classify"
	"github.com/levmap/incident-engine/internal/gazetteer"
	"github.com/levmap/incident-engine/internal/logging"
	"github.com/levmap/incident-engine/internal/model"
	"github.com/levmap/incident-engine/internal/pipeline"
	"github.com/levmap/incident-engine/internal/store"
	"github.com/levmap/incident-engine/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest feed messages and extract incident records",
	Long: `Watch reads feed messages as newline-delimited JSON tuples
({"channel", "message_id", "date", "text"}) from a file or stdin, runs the
extraction pipeline on each, and persists accepted records to the incident
store.

A regular file is processed as a batch and a summary is printed. Reading
from stdin ("-") streams: messages are enqueued as they arrive and workers
process them until the feed closes or the process is interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("input", "-", "feed file, or - for stdin")
	watchCmd.Flags().StringSlice("gazetteer", nil, "gazetteer reference file (repeatable)")
	watchCmd.Flags().String("keywords", "", "YAML keywords file overriding the built-in sets")
	watchCmd.Flags().String("store", "", "incidents JSON file")
	watchCmd.Flags().Int("workers", 0, "number of pipeline workers")
	watchCmd.Flags().String("model-endpoint", "", "external model base URL")
	watchCmd.Flags().String("model", "", "external model identifier")
	watchCmd.Flags().Bool("no-model", false, "disable the external model fallback")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	logger := logging.New(level)

	classifier, err := buildClassifier(cfg.Extraction)
	if err != nil {
		return err
	}

	gaz, err := buildGazetteer(cfg.Gazetteer)
	if err != nil {
		return err
	}
	logger.Info("gazetteer ready", "places", gaz.Len(), "collisions", gaz.Collisions())

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	logger.Info("store ready", "path", cfg.Store.Path, "records", st.Len())

	var external model.Classifier
	if noModel, _ := cmd.Flags().GetBool("no-model"); !noModel {
		external = model.NewOllamaClassifier(cfg.Model, classifier.Types())
		logger.Info("external model enabled", "endpoint", cfg.Model.Endpoint, "model", cfg.Model.Model)
	}

	p := pipeline.New(classifier, gaz, external, st, cfg.Extraction, cfg.Model, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	input, _ := cmd.Flags().GetString("input")
	if input == "-" {
		return streamFeed(ctx, p, os.Stdin, logger)
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening feed file: %w", err)
	}
	defer f.Close()

	msgs, err := pipeline.ReadMessages(f)
	if err != nil {
		return err
	}

	stats := p.Run(ctx, msgs)
	fmt.Fprintln(os.Stdout, stats.String())
	return nil
}

// streamFeed enqueues messages as they arrive on the reader. A malformed
// line is logged and skipped; a dying feed must not kill the watcher.
func streamFeed(ctx context.Context, p *pipeline.Pipeline, r io.Reader, logger *log.Logger) error {
	p.Start(ctx)
	defer p.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if len(text) == 0 {
			continue
		}

		var msg pipeline.Message
		if err := json.Unmarshal([]byte(text), &msg); err != nil {
			logger.Warn("skipping malformed feed line", "line", line, "err", err)
			continue
		}

		if err := p.Enqueue(ctx, msg); err != nil {
			return nil // interrupted; workers drain on Close
		}
	}
	return scanner.Err()
}

func buildClassifier(cfg types.ExtractionConfig) (*classify.Classifier, error) {
	if cfg.KeywordsFile == "" {
		return classify.New(classify.DefaultConfig()), nil
	}
	kw, err := classify.LoadConfig(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}
	return classify.New(kw), nil
}

func buildGazetteer(cfg types.GazetteerConfig) (*gazetteer.Index, error) {
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("no gazetteer files configured: set gazetteer.files or pass --gazetteer")
	}

	var features []gazetteer.Feature
	for _, path := range cfg.Files {
		fs, err := gazetteer.LoadFile(path)
		if err != nil {
			return nil, err
		}
		features = append(features, fs...)
	}
	return gazetteer.Build(features), nil
}
