package core

import "context"

// Repository defines the contract for storing and retrieving documents.
// Adhering to this interface keeps the core independent of the
// underlying storage (filesystem, SQLite, a hosted document database).
type Repository interface {
	// Save persists a document. It creates if not exists, or replaces it if it does.
	Save(ctx context.Context, doc Document) error

	// Get retrieves a document by its ID. Missing documents yield ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)

	// List returns the documents of a collection. An empty collection lists everything.
	List(ctx context.Context, collection string) ([]Document, error)

	// Delete removes a document by its ID.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready (directories, git init, schema).
	Initialize(ctx context.Context) error
}

// Syncable defines an interface for repositories that support synchronization with a remote.
type Syncable interface {
	Sync(ctx context.Context) error
}

type contextKey string

// ChangeReasonKey is the context key for passing the change reason (commit message)
// to Save/Delete operations.
const ChangeReasonKey contextKey = "change_reason"

// Transaction defines the contract for a unit of work.
type Transaction interface {
	// Save stages a document for persistence.
	Save(ctx context.Context, doc Document) error

	// Get retrieves a document, preferring the staged version if it exists.
	Get(ctx context.Context, id string) (Document, error)

	// Delete stages a document for removal.
	Delete(ctx context.Context, id string) error

	// Commit applies all staged changes as one group.
	Commit(ctx context.Context, changeReason string) error

	// Rollback discards all staged changes.
	Rollback(ctx context.Context) error
}

// Transactional is implemented by repositories that can group writes.
type Transactional interface {
	Repository
	Begin(ctx context.Context) (Transaction, error)
}

// Watchable is implemented by repositories that can report changes.
// The pattern is a doublestar glob over document IDs; empty means everything.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
