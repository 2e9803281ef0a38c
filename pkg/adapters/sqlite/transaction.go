package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/questvault/pkg/core"
)

// Transaction implements core.Transaction on a database transaction.
type Transaction struct {
	tx     *sql.Tx
	logger *slog.Logger
	mu     sync.Mutex
	ops    int
	closed bool
}

// Save writes a document inside the transaction.
func (t *Transaction) Save(ctx context.Context, doc core.Document) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}
	if err := saveDocument(ctx, t.tx, doc); err != nil {
		return err
	}
	t.ops++
	return nil
}

// Get reads a document, seeing the transaction's own writes.
func (t *Transaction) Get(ctx context.Context, id string) (core.Document, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.Document{}, core.ErrTransactionClosed
	}
	return getDocument(ctx, t.tx, id)
}

// Delete removes a document inside the transaction. Missing documents are ignored.
func (t *Transaction) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}
	if _, err := deleteDocument(ctx, t.tx, id); err != nil {
		return err
	}
	t.ops++
	return nil
}

// Commit commits the database transaction. The change reason is logged only.
func (t *Transaction) Commit(ctx context.Context, changeReason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}
	t.closed = true

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.logger.Debug("sqlite transaction committed", "operations", t.ops, "reason", changeReason)
	return nil
}

// Rollback aborts the database transaction.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
