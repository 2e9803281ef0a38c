package questvault

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/questvault/internal/platform"
	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/taxonomy"
	"github.com/aretw0/questvault/pkg/typed"
)

// --- Types ---

// App bundles a repository with the classifier, migration and seeding.
type App = platform.App

// QuestResult is the effect of App.CompleteQuest.
type QuestResult = platform.QuestResult

// ProjectFile is the content of questvault.yaml.
type ProjectFile = platform.ProjectFile

// DocumentModel is a public alias for the typed document model.
type DocumentModel[T any] = typed.DocumentModel[T]

// TypedRepository is a public alias for the typed repository.
type TypedRepository[T any] = typed.Repository[T]

// --- Configuration ---

// Option defines a functional option for configuring questvault.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
)

// WithAutoInit enables automatic initialization of the vault (creates directory and git init).
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git versioning.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir sets the hidden directory name (".questvault").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithTaxonomy replaces the built-in taxonomy.
func WithTaxonomy(t *taxonomy.Taxonomy) Option {
	return platform.WithTaxonomy(t)
}

// WithTaxonomyFile loads the taxonomy from a YAML or JSON file.
func WithTaxonomyFile(path string) Option {
	return platform.WithTaxonomyFile(path)
}

// WithBatchSize bounds the writes per migration commit group.
func WithBatchSize(n int) Option {
	return platform.WithBatchSize(n)
}

// WithPacing makes the migration pause for delay after every `every` records.
func WithPacing(every int, delay time.Duration) Option {
	return platform.WithPacing(every, delay)
}

// WithStrict rejects legacy field values outside the taxonomy during migration.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// --- Factory ---

// New opens the store at uri and returns the App.
func New(ctx context.Context, uri string, opts ...Option) (*App, error) {
	return platform.New(ctx, uri, opts...)
}

// Init opens and initializes a repository explicitly.
func Init(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	return platform.Init(ctx, uri, opts...)
}

// NewTypedRepository creates a type-safe view of one collection.
func NewTypedRepository[T any](repo core.Repository, collection string) *typed.Repository[T] {
	return typed.NewRepository[T](repo, collection)
}

// --- Operations ---

// Sync performs a synchronization (pull/push) of the vault.
func Sync(ctx context.Context, uri string, opts ...Option) error {
	return platform.Sync(ctx, uri, opts...)
}

// --- Project ---

// ErrRootNotFound is returned by FindVaultRoot when no vault root exists above the start directory.
var ErrRootNotFound = platform.ErrRootNotFound

// ProjectFileName is the optional project configuration file.
const ProjectFileName = platform.ProjectFileName

// FindVaultRoot walks upwards for a vault root indicator.
func FindVaultRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// LoadProjectFile reads questvault.yaml from dir.
func LoadProjectFile(dir string) (*ProjectFile, error) {
	return platform.LoadProjectFile(dir)
}
