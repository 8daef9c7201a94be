// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the incident-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/levmap/incident-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the incident-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "incident-engine",
	Short: "Extract structured incident records from Lebanese feed messages",
	Long: `incident-engine turns free-text feed messages (primarily Arabic, about
Lebanon) into structured incident records for a map front-end: it
normalizes the text, classifies incident and casualty keywords, resolves
place names against a gazetteer, consults a local language model when the
local signals are insufficient, deduplicates repeated reports of the same
event, and persists the survivors.

Each stage is a subcommand: watch ingests messages, gazetteer inspects the
place-name index, serve republishes incidents over HTTP, and export
mirrors the incident store into SQLite.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./incident-engine.yaml or ~/.config/incident-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("incident-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "incident-engine"))
		}
	}

	viper.SetEnvPrefix("INCIDENT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configuration from the config file,
// environment, and flags; flags win when set on the invoked command.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	var cfg types.PipelineConfig

	cfg.Gazetteer.Files = viper.GetStringSlice("gazetteer.files")
	cfg.Extraction.KeywordsFile = viper.GetString("extraction.keywords_file")
	cfg.Extraction.MaxDigits = viper.GetInt("extraction.max_digits")
	cfg.Extraction.SummaryLimit = viper.GetInt("extraction.summary_limit")
	cfg.Extraction.TrustModelLocation = viper.GetBool("extraction.trust_model_location")
	cfg.Extraction.Workers = viper.GetInt("extraction.workers")
	cfg.Extraction.QueueSize = viper.GetInt("extraction.queue_size")
	cfg.Model.Endpoint = viper.GetString("model.endpoint")
	cfg.Model.Model = viper.GetString("model.model")
	cfg.Model.Timeout = viper.GetDuration("model.timeout")
	cfg.Model.MinInterval = viper.GetDuration("model.min_interval")
	cfg.Store.Path = viper.GetString("store.path")
	cfg.Serve.Addr = viper.GetString("serve.addr")

	flags := cmd.Flags()
	if flags.Changed("gazetteer") {
		cfg.Gazetteer.Files, _ = flags.GetStringSlice("gazetteer")
	}
	if flags.Changed("keywords") {
		cfg.Extraction.KeywordsFile, _ = flags.GetString("keywords")
	}
	if flags.Changed("workers") {
		cfg.Extraction.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("store") {
		cfg.Store.Path, _ = flags.GetString("store")
	}
	if flags.Changed("model-endpoint") {
		cfg.Model.Endpoint, _ = flags.GetString("model-endpoint")
	}
	if flags.Changed("model") {
		cfg.Model.Model, _ = flags.GetString("model")
	}
	if flags.Changed("addr") {
		cfg.Serve.Addr, _ = flags.GetString("addr")
	}

	cfg.Defaults()
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
