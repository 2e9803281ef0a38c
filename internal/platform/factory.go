package platform

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/questvault/pkg/classifier"
	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/migrate"
	"github.com/aretw0/questvault/pkg/seed"
	"github.com/aretw0/questvault/pkg/taxonomy"
)

// App wires a repository with the classifier, the migration driver and the
// seed importer.
type App struct {
	Service    *core.Service
	Classifier *classifier.Classifier

	logger *slog.Logger
	opts   *options
}

// New opens the repository at uri and builds the App around it.
//
//	app, err := platform.New(ctx, "./vault", platform.WithAutoInit(true))
func New(ctx context.Context, uri string, opts ...Option) (*App, error) {
	o := applyOptions(opts)

	tax := o.taxonomy
	if tax == nil && o.taxonomyFile != "" {
		var err error
		if tax, err = taxonomy.Load(o.taxonomyFile); err != nil {
			return nil, err
		}
	}

	repo, err := Init(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &App{
		Service:    core.NewService(repo, core.WithServiceLogger(logger)),
		Classifier: classifier.New(tax),
		logger:     logger,
		opts:       o,
	}, nil
}

// Repository returns the underlying repository.
func (a *App) Repository() core.Repository {
	return a.Service.Repository()
}

// Taxonomy returns the active taxonomy.
func (a *App) Taxonomy() *taxonomy.Taxonomy {
	return a.Classifier.Taxonomy()
}

// Migrator builds a migration driver from the App options; extra options are
// applied last.
func (a *App) Migrator(extra ...migrate.Option) *migrate.Driver {
	opts := []migrate.Option{
		migrate.WithClassifier(a.Classifier),
		migrate.WithLogger(a.logger),
		migrate.WithStrict(a.opts.strict),
	}
	if a.opts.batchSize > 0 {
		opts = append(opts, migrate.WithBatchSize(a.opts.batchSize))
	}
	if a.opts.paceEvery > 0 {
		opts = append(opts, migrate.WithPacing(a.opts.paceEvery, a.opts.paceDelay))
	}
	return migrate.New(a.Repository(), append(opts, extra...)...)
}

// Migrate runs the field migration over collection.
func (a *App) Migrate(ctx context.Context, collection string, extra ...migrate.Option) (*migrate.Report, error) {
	return a.Migrator(extra...).Run(ctx, collection)
}

// Seed imports the files under root matching pattern into collection.
func (a *App) Seed(ctx context.Context, root, pattern, collection string) (*seed.Result, error) {
	im := seed.NewImporter(a.Repository(), seed.Config{
		Collection: collection,
		Logger:     a.logger,
	})
	return im.ImportGlob(ctx, root, pattern)
}

// Close releases repositories holding open handles.
func (a *App) Close() error {
	if c, ok := a.Repository().(io.Closer); ok {
		return c.Close()
	}
	return nil
}
