package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/questvault/pkg/adapters/fs"
	"github.com/aretw0/questvault/pkg/adapters/sqlite"
	"github.com/aretw0/questvault/pkg/core"
)

// DefaultDatabaseName is the sqlite file created when the URI is a directory.
const DefaultDatabaseName = "questvault.db"

// Init opens and initializes the repository selected by the options.
// The uri is adapter-specific: a vault directory for "fs", a database file
// (or a directory holding questvault.db) for "sqlite".
func Init(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	o := applyOptions(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	repo, err := newRepository(uri, o)
	if err != nil {
		return nil, err
	}
	if err := repo.Initialize(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func newRepository(uri string, o *options) (core.Repository, error) {
	switch o.adapter {
	case AdapterFS:
		return initFS(uri, o), nil
	case AdapterSQLite:
		return initSQLite(uri, o), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initFS builds the filesystem adapter. When versioning is not configured it
// is detected: an existing .git means versioned, an existing system dir
// without .git means gitless, and a fresh auto-initialized vault is versioned.
func initFS(path string, o *options) *fs.Repository {
	autoInit, _ := o.config["auto_init"].(bool)
	gitless, gitlessSet := o.config["gitless"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	if systemDir == "" {
		systemDir = fs.DefaultSystemDir
	}

	if !gitlessSet {
		switch {
		case hasFile(path, ".git"):
			gitless = false
		case autoInit && !hasFile(path, systemDir):
			gitless = false
		default:
			gitless = true
		}
		if gitless && o.logger != nil {
			o.logger.Debug("auto-detected gitless mode", "reason", ".git missing", "path", path)
		}
	}

	return fs.NewRepository(fs.Config{
		Path:         path,
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    mustExist || !autoInit,
		ReadOnly:     readOnly,
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	})
}

func initSQLite(uri string, o *options) *sqlite.Repository {
	readOnly, _ := o.config["read_only"].(bool)

	path := uri
	if path == "" {
		path = DefaultDatabaseName
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultDatabaseName)
	}

	return sqlite.NewRepository(sqlite.Config{
		Path:     path,
		ReadOnly: readOnly,
		Logger:   o.logger,
	})
}

// Sync synchronizes the vault at uri with its git remote.
func Sync(ctx context.Context, uri string, opts ...Option) error {
	o := applyOptions(opts)

	repo := o.repository
	if repo == nil {
		o.config["must_exist"] = true
		var err error
		if repo, err = newRepository(uri, o); err != nil {
			return err
		}
	}

	syncable, ok := repo.(core.Syncable)
	if !ok {
		return fmt.Errorf("%w: synchronization", core.ErrUnsupported)
	}
	return syncable.Sync(ctx)
}
