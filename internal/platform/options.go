package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/taxonomy"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
)

// options holds the internal configuration for a questvault App.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	// config carries adapter-specific settings.
	config map[string]any

	taxonomy     *taxonomy.Taxonomy
	taxonomyFile string
	batchSize    int
	paceEvery    int
	paceDelay    time.Duration
	strict       bool
}

// Option defines a functional option for configuring questvault.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		config:  make(map[string]any),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAutoInit enables automatic initialization of the vault (creates directory and git init).
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables git versioning of the fs adapter.
// When not set, versioning follows the presence of a .git directory.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["gitless"] = !enabled
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly enables read-only mode: writes return core.ErrReadOnly and
// initialization creates nothing.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithSystemDir sets the hidden directory name of the fs adapter (".questvault").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithLogger sets the logger for the store, the migration and the importer.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a storage adapter; the named adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return func(o *options) {
		if name != "" {
			o.adapter = name
		}
	}
}

// WithTaxonomy replaces the built-in taxonomy.
func WithTaxonomy(t *taxonomy.Taxonomy) Option {
	return func(o *options) {
		o.taxonomy = t
	}
}

// WithTaxonomyFile loads the taxonomy from a YAML or JSON file at New.
func WithTaxonomyFile(path string) Option {
	return func(o *options) {
		o.taxonomyFile = path
	}
}

// WithBatchSize bounds the writes per commit group of the migration.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithPacing makes the migration pause for delay after every `every` records.
func WithPacing(every int, delay time.Duration) Option {
	return func(o *options) {
		o.paceEvery = every
		o.paceDelay = delay
	}
}

// WithStrict makes the migration reject legacy field values outside the taxonomy.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}
