package rvec

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/hupe1980/rvec/blobstore"
	"github.com/hupe1980/rvec/config"
	"github.com/hupe1980/rvec/resource"
	"github.com/hupe1980/rvec/rng"
)

type options struct {
	config           *config.Config
	store            blobstore.Store
	rc               *resource.Controller
	seed             *int32
	rngOptions       []rng.Option
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Context.
type Option func(*options)

// WithConfig applies a loaded configuration. Explicit options take
// precedence over the values it carries.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithBlobStore backs the lazy-load database with store instead of the
// configured backend.
func WithBlobStore(store blobstore.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithResourceController shares rc with other contexts. Without it each
// context gets its own controller built from the configured limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithSeed seeds the context RNG.
func WithSeed(seed int32) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithRNGOptions passes options to the context RNG, e.g. rng.WithKind.
func WithRNGOptions(opts ...rng.Option) Option {
	return func(o *options) {
		o.rngOptions = append(o.rngOptions, opts...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &rvec.BasicMetricsCollector{}
//	rc, _ := rvec.New(ctx, rvec.WithMetricsCollector(metrics))
//	// ... use rc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Evals: %d, Avg latency: %dns\n", stats.EvalCount, stats.EvalAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// loggerFromConfig builds the logger named by cfg.
func loggerFromConfig(cfg config.LogConfig) (*Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	switch cfg.Format {
	case "json":
		return NewJSONLogger(level), nil
	case "auto":
		if !stderrIsTerminal() {
			return NewJSONLogger(level), nil
		}
	}
	return NewTextLogger(level), nil
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
