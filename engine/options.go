package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS - Functional options for Merge, Derive and Extract
// ============================================================================

// Default insight thresholds.
const (
	DefaultHighRatingThreshold = 3.5
	DefaultHeavyUserThreshold  = 100
)

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	HighRatingThreshold float64 // ratings at or above count as high
	HeavyUserThreshold  int     // users with at least this many ratings are heavy
	Logger              *zap.Logger
}

// WithHighRatingThreshold sets the rating counted as "high" by the rating insight.
func WithHighRatingThreshold(t float64) Option {
	return func(c *config) {
		c.HighRatingThreshold = t
	}
}

// WithHeavyUserThreshold sets the activity level counted as a heavy user.
func WithHeavyUserThreshold(n int) Option {
	return func(c *config) {
		c.HeavyUserThreshold = n
	}
}

// WithLogger routes engine logs to l. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		HighRatingThreshold: DefaultHighRatingThreshold,
		HeavyUserThreshold:  DefaultHeavyUserThreshold,
		Logger:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.Logger = cfg.Logger.Named("engine")
	return cfg
}
