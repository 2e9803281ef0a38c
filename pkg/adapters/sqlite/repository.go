// Package sqlite implements core.Repository on a single SQLite database file
// using the pure-Go modernc.org/sqlite driver. Each document is one row of the
// documents table; metadata is stored as a JSON object.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/questvault/pkg/core"
)

// DefaultBusyTimeout is applied with PRAGMA busy_timeout.
const DefaultBusyTimeout = 10 * time.Second

// Config holds the configuration for the SQLite repository.
type Config struct {
	Path        string
	ReadOnly    bool
	Logger      *slog.Logger
	BusyTimeout time.Duration
}

// Repository implements core.Repository on SQLite.
type Repository struct {
	Path   string
	config Config

	mu          sync.RWMutex
	db          *sql.DB
	initialized *time.Time
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewRepository creates a new SQLite-backed repository. The database is opened
// by Initialize.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = DefaultBusyTimeout
	}
	return &Repository{Path: config.Path, config: config}
}

// Initialize opens the database, applies the connection pragmas and creates the
// schema. In read-only mode the file must exist and no schema is written.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return nil
	}

	if r.config.ReadOnly {
		if _, err := os.Stat(r.Path); err != nil {
			return fmt.Errorf("database does not exist: %s", r.Path)
		}
	} else if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", r.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them in force.
	db.SetMaxOpenConns(1)

	if err := r.applyPragmas(ctx, db); err != nil {
		db.Close()
		return err
	}

	if !r.config.ReadOnly {
		if err := migrateSchema(ctx, db); err != nil {
			db.Close()
			return err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	now := time.Now()
	r.db = db
	r.initialized = &now
	r.config.Logger.Debug("sqlite repository ready", "path", r.Path, "read_only", r.config.ReadOnly)
	return nil
}

func (r *Repository) applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", r.config.BusyTimeout.Milliseconds()),
	}
	if r.config.ReadOnly {
		pragmas = append(pragmas, "PRAGMA query_only = ON")
	} else {
		pragmas = append(pragmas,
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		)
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to apply %s: %w", p, err)
		}
	}
	return nil
}

func migrateSchema(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}
	if _, err := db.ExecContext(ctx, createTablesSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Repository) conn() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, errors.New("sqlite repository is not initialized")
	}
	return r.db, nil
}

// Save inserts or replaces a document.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := r.conn()
	if err != nil {
		return err
	}
	return saveDocument(ctx, db, doc)
}

// Get retrieves a document by ID.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	db, err := r.conn()
	if err != nil {
		return core.Document{}, err
	}
	return getDocument(ctx, db, id)
}

// List returns the documents of a collection ordered by ID.
func (r *Repository) List(ctx context.Context, collection string) ([]core.Document, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT id, content, metadata FROM documents ORDER BY id"
	var args []any
	if collection != "" {
		query = "SELECT id, content, metadata FROM documents WHERE collection = ? ORDER BY id"
		args = append(args, collection)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var id, content, metadata string
		if err := rows.Scan(&id, &content, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := decodeRow(id, content, metadata)
		if err != nil {
			r.config.Logger.Warn("skipping unparseable document", "id", id, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := r.conn()
	if err != nil {
		return err
	}
	n, err := deleteDocument(ctx, db, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return nil
}

// Begin starts a database transaction.
func (r *Repository) Begin(ctx context.Context) (core.Transaction, error) {
	if r.config.ReadOnly {
		return nil, core.ErrReadOnly
	}
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Transaction{tx: tx, logger: r.config.Logger}, nil
}

func saveDocument(ctx context.Context, q queryer, doc core.Document) error {
	if doc.ID == "" {
		return core.ErrInvalidID
	}

	metadata := []byte("{}")
	if len(doc.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(doc.Metadata); err != nil {
			return fmt.Errorf("failed to encode metadata of %s: %w", doc.ID, err)
		}
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO documents (id, collection, content, metadata, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			collection = excluded.collection,
			content = excluded.content,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		doc.ID, core.CollectionOf(doc.ID), doc.Content, string(metadata),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.ID, err)
	}
	return nil
}

func getDocument(ctx context.Context, q queryer, id string) (core.Document, error) {
	if id == "" {
		return core.Document{}, core.ErrInvalidID
	}

	var content, metadata string
	err := q.QueryRowContext(ctx, "SELECT content, metadata FROM documents WHERE id = ?", id).Scan(&content, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return decodeRow(id, content, metadata)
}

func deleteDocument(ctx context.Context, q queryer, id string) (int64, error) {
	if id == "" {
		return 0, core.ErrInvalidID
	}
	res, err := q.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return res.RowsAffected()
}

func decodeRow(id, content, metadata string) (core.Document, error) {
	doc := core.Document{ID: id, Content: content, Metadata: make(core.Metadata)}
	if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
		return core.Document{}, fmt.Errorf("invalid metadata for %s: %w", id, err)
	}
	return doc, nil
}

var (
	_ core.Repository    = (*Repository)(nil)
	_ core.Transactional = (*Repository)(nil)
)
