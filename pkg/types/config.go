// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ModelConfig holds settings for the external free-text classifier.
type ModelConfig struct {
	// Endpoint is the base URL of the model server (e.g. "http://localhost:11434").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Model is the model identifier (e.g. "phi3:mini").
	Model string `json:"model" yaml:"model"`

	// Timeout bounds a single classification call (default 45s). On expiry
	// the pipeline proceeds with local signals only.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MinInterval is the minimum spacing between model calls (default 500ms).
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval"`
}

// ExtractionConfig holds settings for the extraction pipeline.
type ExtractionConfig struct {
	// KeywordsFile is an optional YAML file overriding the built-in
	// incident/casualty keyword sets.
	KeywordsFile string `json:"keywords_file,omitempty" yaml:"keywords_file,omitempty"`

	// MaxDigits bounds the digit length of numeric tokens kept in
	// Details.NumbersFound (default 6). Longer tokens are identifiers,
	// not counts.
	MaxDigits int `json:"max_digits" yaml:"max_digits"`

	// SummaryLimit bounds the excerpt length in characters (default 300).
	SummaryLimit int `json:"summary_limit" yaml:"summary_limit"`

	// TrustModelLocation accepts an externally suggested location even
	// when the matched place name does not occur in the message text.
	// Off by default: the model routinely invents plausible places, so
	// the text is required to corroborate the suggestion.
	TrustModelLocation bool `json:"trust_model_location" yaml:"trust_model_location"`

	// Workers is the number of pipeline workers (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// QueueSize bounds the ingestion queue (default 256).
	QueueSize int `json:"queue_size" yaml:"queue_size"`
}

// GazetteerConfig holds settings for building the place-name index.
type GazetteerConfig struct {
	// Files lists the geographic reference files (JSON feature lists
	// produced by the shapefile conversion tooling).
	Files []string `json:"files" yaml:"files"`
}

// StoreConfig holds settings for incident persistence.
type StoreConfig struct {
	// Path is the JSON incidents file (default "matched_incidents.json").
	Path string `json:"path" yaml:"path"`
}

// ServeConfig holds settings for the map backend HTTP server.
type ServeConfig struct {
	// Addr is the listen address (default ":5000").
	Addr string `json:"addr" yaml:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Gazetteer  GazetteerConfig  `json:"gazetteer" yaml:"gazetteer"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Model      ModelConfig      `json:"model" yaml:"model"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Serve      ServeConfig      `json:"serve" yaml:"serve"`
}

// Defaults fills zero-valued fields with their documented defaults.
func (c *PipelineConfig) Defaults() {
	if c.Extraction.MaxDigits <= 0 {
		c.Extraction.MaxDigits = 6
	}
	if c.Extraction.SummaryLimit <= 0 {
		c.Extraction.SummaryLimit = 300
	}
	if c.Extraction.Workers <= 0 {
		c.Extraction.Workers = 4
	}
	if c.Extraction.QueueSize <= 0 {
		c.Extraction.QueueSize = 256
	}
	if c.Model.Endpoint == "" {
		c.Model.Endpoint = "http://localhost:11434"
	}
	if c.Model.Model == "" {
		c.Model.Model = "phi3:mini"
	}
	if c.Model.Timeout <= 0 {
		c.Model.Timeout = 45 * time.Second
	}
	if c.Model.MinInterval <= 0 {
		c.Model.MinInterval = 500 * time.Millisecond
	}
	if c.Store.Path == "" {
		c.Store.Path = "matched_incidents.json"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = ":5000"
	}
}
