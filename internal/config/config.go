// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding the raw CSV tables.
	DataDir string `koanf:"data_dir"`

	// ModelPath and ScalerPath point at the trained artifacts.
	ModelPath  string `koanf:"model_path"`
	ScalerPath string `koanf:"scaler_path"`

	// MinDurationSeconds and MaxDurationSeconds bound plausible module
	// durations; rows at or outside the bounds are dropped.
	MinDurationSeconds float64 `koanf:"min_duration_seconds"`
	MaxDurationSeconds float64 `koanf:"max_duration_seconds"`

	// ConfidenceHighCut and ConfidenceLowCut split the 0-100 confidence
	// range into the narrative tiers.
	ConfidenceHighCut float64 `koanf:"confidence_high_cut"`
	ConfidenceLowCut  float64 `koanf:"confidence_low_cut"`

	// Reason-rule thresholds.
	SufficientVolume   float64 `koanf:"sufficient_volume"`
	GoodScore          float64 `koanf:"good_score"`
	ConsistentActivity float64 `koanf:"consistent_activity"`
	LowRevision        float64 `koanf:"low_revision"`
	LowVolume          float64 `koanf:"low_volume"`
	NeedsImprovement   float64 `koanf:"needs_improvement"`
	HighRevision       float64 `koanf:"high_revision"`
	ExcessiveTime      float64 `koanf:"excessive_time_seconds"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		DataDir:            "data",
		ModelPath:          "artifacts/model.json",
		ScalerPath:         "artifacts/scaler.json",
		MinDurationSeconds: 5,
		MaxDurationSeconds: 259_200,
		ConfidenceHighCut:  70,
		ConfidenceLowCut:   40,
		SufficientVolume:   20,
		GoodScore:          80,
		ConsistentActivity: 30,
		LowRevision:        0.10,
		LowVolume:          5,
		NeedsImprovement:   60,
		HighRevision:       0.50,
		ExcessiveTime:      14_400,
	}
}
