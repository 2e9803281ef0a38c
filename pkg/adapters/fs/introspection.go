package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	SystemDir     string     `json:"system_dir"`
	CacheSize     int        `json:"cache_size"`
	Gitless       bool       `json:"gitless"`
	ReadOnly      bool       `json:"read_only"`
	DefaultExt    string     `json:"default_ext"`
	Serializers   []string   `json:"serializers"`
	WatcherActive bool       `json:"watcher_active"`
	LastList      *time.Time `json:"last_list,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serializers := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	return RepositoryState{
		Path:          r.Path,
		SystemDir:     r.config.SystemDir,
		CacheSize:     r.cache.Len(),
		Gitless:       r.config.Gitless,
		ReadOnly:      r.config.ReadOnly,
		DefaultExt:    r.config.DefaultExt,
		Serializers:   serializers,
		WatcherActive: r.watcherActive,
		LastList:      r.lastList,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
