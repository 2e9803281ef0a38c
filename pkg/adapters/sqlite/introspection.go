package sqlite

import (
	"context"
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string         `json:"path"`
	ReadOnly      bool           `json:"read_only"`
	Open          bool           `json:"open"`
	SchemaVersion int            `json:"schema_version"`
	Collections   map[string]int `json:"collections,omitempty"`
	Initialized   *time.Time     `json:"initialized,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	db, initialized := r.db, r.initialized
	r.mu.RUnlock()

	state := RepositoryState{
		Path:        r.Path,
		ReadOnly:    r.config.ReadOnly,
		Open:        db != nil,
		Initialized: initialized,
	}
	if db == nil {
		return state
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_ = db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&state.SchemaVersion)

	rows, err := db.QueryContext(ctx, "SELECT collection, COUNT(*) FROM documents GROUP BY collection")
	if err != nil {
		return state
	}
	defer rows.Close()

	state.Collections = make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if rows.Scan(&name, &n) == nil {
			state.Collections[name] = n
		}
	}
	return state
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
