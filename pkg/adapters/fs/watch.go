package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/questvault/pkg/core"
)

const (
	watchBuffer   = 100
	watchDebounce = 50 * time.Millisecond
)

// Watch reports document changes under the vault until ctx is cancelled.
// pattern is a doublestar glob over document IDs (e.g. "careers/**"); empty
// matches everything. The returned channel is closed when watching stops.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.addRecursive(watcher, r.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event, watchBuffer)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()

		lastSent := make(map[string]time.Time)
		for {
			select {
			case <-ctx.Done():
				return nil
			case fe, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				e, ok := r.translate(watcher, fe, pattern)
				if !ok {
					continue
				}
				now := time.Now()
				if last, seen := lastSent[e.ID+string(e.Type)]; seen && now.Sub(last) < watchDebounce {
					continue
				}
				lastSent[e.ID+string(e.Type)] = now
				e.Timestamp = now.Unix()

				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				r.reportWatchError(err)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.reportWatchError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

func (r *Repository) reportWatchError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.config.Logger.Error("watch error", "error", err)
}

// addRecursive watches dir and its subdirectories, skipping .git and the system dir.
func (r *Repository) addRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Path && (d.Name() == ".git" || d.Name() == r.config.SystemDir) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// translate maps a filesystem event to a document event. New directories are
// added to the watcher and produce no event.
func (r *Repository) translate(w *fsnotify.Watcher, fe fsnotify.Event, pattern string) (core.Event, bool) {
	rel, err := filepath.Rel(r.Path, fe.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return core.Event{}, false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".git" || strings.HasPrefix(rel, ".git/") ||
		rel == r.config.SystemDir || strings.HasPrefix(rel, r.config.SystemDir+"/") ||
		strings.HasPrefix(rel, r.config.SystemDir+".lock") || isTempFile(rel) {
		return core.Event{}, false
	}

	if fe.Has(fsnotify.Create) {
		if info, err := os.Stat(fe.Name); err == nil && info.IsDir() {
			if err := r.addRecursive(w, fe.Name); err != nil {
				r.reportWatchError(err)
			}
			return core.Event{}, false
		}
	}

	if !isSupported(r.serializers, strings.ToLower(filepath.Ext(rel))) {
		return core.Event{}, false
	}

	id := idFor(rel)
	if pattern != "" {
		if ok, _ := doublestar.Match(pattern, id); !ok {
			return core.Event{}, false
		}
	}

	switch {
	case fe.Has(fsnotify.Create):
		return core.Event{Type: core.EventCreate, ID: id}, true
	case fe.Has(fsnotify.Write):
		return core.Event{Type: core.EventModify, ID: id}, true
	case fe.Has(fsnotify.Remove), fe.Has(fsnotify.Rename):
		return core.Event{Type: core.EventDelete, ID: id}, true
	default:
		return core.Event{}, false
	}
}
