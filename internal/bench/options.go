package bench

import "go.uber.org/zap"

// DefaultPruneMultiplier is the outlier cut-off, in standard deviations,
// applied to timer samples before reporting.
const DefaultPruneMultiplier = 3.0

type options struct {
	logger          *zap.Logger
	explicitZeroes  bool
	profileCount    int
	pruneMultiplier float64
	flush           bool
}

// Option configures a benchmark.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:          zap.NewNop(),
		explicitZeroes:  true,
		profileCount:    20,
		pruneMultiplier: DefaultPruneMultiplier,
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithExplicitZeroes keeps stored zero entries when reading the matrix.
func WithExplicitZeroes(keep bool) Option {
	return func(o *options) { o.explicitZeroes = keep }
}

// WithProfileCount sets the number of timer samples reserved per slot.
func WithProfileCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.profileCount = n
		}
	}
}

// WithPruneMultiplier sets the outlier cut-off used by Report. Values
// that are not positive keep DefaultPruneMultiplier.
func WithPruneMultiplier(k float64) Option {
	return func(o *options) {
		if k > 0 {
			o.pruneMultiplier = k
		}
	}
}

// WithFlush synchronises with the device after every multiply.
func WithFlush(flush bool) Option {
	return func(o *options) { o.flush = flush }
}
