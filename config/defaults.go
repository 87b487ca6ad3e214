// Package config provides configuration defaults and YAML loading
// for the hexpresso engine.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via config.yaml or CLI flags.
package config

// =============================================================================
// Reduce Defaults
// =============================================================================

const (
	// DefaultWorkers is the maximum number of concurrent partition workers.
	// 0 means one worker per partition.
	// Override via config: workers
	DefaultWorkers = 0

	// DefaultParsePolicy decides what a worker does with a malformed value:
	// "abort" discards the worker's contribution and surfaces the failure,
	// "skip" drops the value and counts it.
	// Override via config: parse_policy
	DefaultParsePolicy = "abort"
)

// =============================================================================
// Percentile Defaults
// =============================================================================

const (
	// DefaultSketchAccuracy is the DDSketch relative accuracy: quantile
	// answers are within this fraction of the true value.
	// Range: (0, 1)
	// Override via config: sketch_accuracy
	DefaultSketchAccuracy = 0.01
)

// DefaultPercentiles are the percentiles reported when percentile output is
// requested without an explicit list.
// Override via config: percentiles
var DefaultPercentiles = []float64{50, 90, 95, 99}

// =============================================================================
// Logging Defaults
// =============================================================================

const (
	// DefaultLogLevel is the minimum level emitted: debug, info, warn, error.
	// Override via config: log.level
	DefaultLogLevel = "info"

	// DefaultLogJSON selects JSON log output when true, text when false.
	// Override via config: log.json
	DefaultLogJSON = false
)
