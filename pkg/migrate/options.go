package migrate

import (
	"log/slog"
	"time"

	"github.com/aretw0/questvault/pkg/classifier"
)

const (
	// MaxBatchSize is the largest commit group the driver produces.
	MaxBatchSize = 500
	// DefaultBatchSize is used when no batch size is configured.
	DefaultBatchSize = MaxBatchSize
)

// Option configures a Driver.
type Option func(*Driver)

// WithClassifier sets the classifier used for suggestions and strict checks.
func WithClassifier(c *classifier.Classifier) Option {
	return func(d *Driver) {
		if c != nil {
			d.classifier = c
		}
	}
}

// WithLogger sets the logger for per-record and summary lines.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithBatchSize bounds the number of writes per commit group. Values outside
// 1..MaxBatchSize are clamped. A size of 1 writes every record on its own.
func WithBatchSize(n int) Option {
	return func(d *Driver) {
		switch {
		case n < 1:
			d.batchSize = 1
		case n > MaxBatchSize:
			d.batchSize = MaxBatchSize
		default:
			d.batchSize = n
		}
	}
}

// WithPacing pauses for delay after every `every` records. Zero values disable pacing.
func WithPacing(every int, delay time.Duration) Option {
	return func(d *Driver) {
		d.paceEvery = every
		d.paceDelay = delay
	}
}

// WithDryRun classifies and reports without writing.
func WithDryRun(enabled bool) Option {
	return func(d *Driver) {
		d.dryRun = enabled
	}
}

// WithStrict rejects legacy field values that are not taxonomy keys.
func WithStrict(enabled bool) Option {
	return func(d *Driver) {
		d.strict = enabled
	}
}

// WithClock sets the source of the updatedAt timestamp.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		if now != nil {
			d.now = now
		}
	}
}

// WithOutcomeHandler registers a callback invoked once per record when its
// outcome is final. Records staged in a commit group are reported when the
// group is committed, so calls may arrive out of delivery order.
func WithOutcomeHandler(fn func(Outcome)) Option {
	return func(d *Driver) {
		d.onOutcome = fn
	}
}
