package analytics

import "go.uber.org/zap"

// Config carries the process-wide analytics constants. It is set once at
// construction and read-only afterwards; there is no global engine state.
type Config struct {
	// BenchmarkROI is the target ROI percentage deltas are computed against.
	BenchmarkROI float64
	// BenchmarkROAS is the target return-on-ad-spend ratio.
	BenchmarkROAS float64
	// CostRatio estimates cost as a fraction of revenue when no payout data
	// applies (the fixed-ratio cost strategy).
	CostRatio float64
	// BaselineDays is the window split for incremental ROAS.
	BaselineDays int
	// TopLimit is the default ranking cutoff.
	TopLimit int
}

// DefaultConfig returns the standard benchmarks.
func DefaultConfig() Config {
	return Config{
		BenchmarkROI:  200,
		BenchmarkROAS: 4.0,
		CostRatio:     0.25,
		BaselineDays:  30,
		TopLimit:      10,
	}
}

// Engine computes campaign-performance analytics over immutable dataset
// snapshots. All methods are pure with respect to their inputs and safe for
// concurrent use.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine creates an analytics engine with the given configuration.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopLimit <= 0 {
		cfg.TopLimit = DefaultConfig().TopLimit
	}
	if cfg.BaselineDays <= 0 {
		cfg.BaselineDays = DefaultConfig().BaselineDays
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
