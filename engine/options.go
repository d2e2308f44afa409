package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	DefaultBins int // histogram bins when Request.Bins is 0
	RowLimit    int // data table row cap when Request.Limit is 0 (0 = all)
}

// WithDefaultBins sets the histogram bin count used when a request leaves it at 0.
func WithDefaultBins(bins int) Option {
	return func(c *config) {
		c.DefaultBins = bins
	}
}

// WithRowLimit caps the raw data table when a request leaves Limit at 0.
func WithRowLimit(limit int) Option {
	return func(c *config) {
		c.RowLimit = limit
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		DefaultBins: 30, // slider default on the histogram tab
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
