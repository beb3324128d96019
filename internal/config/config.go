// Package config defines process configuration and its loading hooks.
//
// Values are layered defaults, then an optional YAML file named by
// GROWUP_CONFIG, then GROWUP_* environment variables.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// TablesDir holds the converted *_zscores.json reference tables.
	TablesDir string `koanf:"tables_dir" validate:"required"`

	// IncludeCDC also loads the CDC 2-20 year tables.
	IncludeCDC bool `koanf:"include_cdc"`

	// AdjustHeightData enables the +0.7 cm weight-for-height correction.
	AdjustHeightData bool `koanf:"adjust_height_data"`

	// AdjustWeightScores enables the ±3 SD tail restriction.
	AdjustWeightScores bool `koanf:"adjust_weight_scores"`

	// WorkerCount sets the number of batch scoring workers.
	WorkerCount int `koanf:"worker_count" validate:"gte=1,lte=1024"`

	// QueueSize bounds the in-memory batch queue.
	QueueSize int `koanf:"queue_size" validate:"gte=1"`

	// DedupeSize is the minimum number of record IDs the batch deduper remembers;
	// larger batches remember every ID.
	DedupeSize int `koanf:"dedupe_size" validate:"gte=1"`

	// LoadConcurrency bounds parallel table decoding at startup.
	LoadConcurrency int `koanf:"load_concurrency" validate:"gte=1,lte=64"`

	// MetricsFile, when set, receives a Prometheus textfile dump on exit.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		TablesDir:          "data",
		IncludeCDC:         false,
		AdjustHeightData:   false,
		AdjustWeightScores: false,
		WorkerCount:        runtime.NumCPU(),
		QueueSize:          10_000,
		DedupeSize:         100_000,
		LoadConcurrency:    4,
	}
}
