package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/questvault/pkg/core"
)

// Transaction implements core.Transaction for the filesystem.
// Staged writes are applied in staging order on Commit, then committed to git
// as a single commit when versioning is enabled.
type Transaction struct {
	repo    *Repository
	staged  map[string]core.Document
	order   []string
	deleted map[string]bool
	mu      sync.Mutex
	closed  bool
}

// NewTransaction creates a new transaction.
func NewTransaction(repo *Repository) *Transaction {
	return &Transaction{
		repo:    repo,
		staged:  make(map[string]core.Document),
		deleted: make(map[string]bool),
	}
}

// Len returns the number of staged operations.
func (t *Transaction) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.staged) + len(t.deleted)
}

// Save stages a document for saving.
func (t *Transaction) Save(ctx context.Context, doc core.Document) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}
	if doc.ID == "" {
		return core.ErrInvalidID
	}

	if _, ok := t.staged[doc.ID]; !ok {
		t.order = append(t.order, doc.ID)
	}
	t.staged[doc.ID] = doc
	delete(t.deleted, doc.ID)
	return nil
}

// Get retrieves a document, favoring staged changes.
func (t *Transaction) Get(ctx context.Context, id string) (core.Document, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.Document{}, core.ErrTransactionClosed
	}
	if t.deleted[id] {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if doc, ok := t.staged[id]; ok {
		return doc, nil
	}
	return t.repo.Get(ctx, id)
}

// Delete stages a document for deletion.
func (t *Transaction) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}
	t.deleted[id] = true
	delete(t.staged, id)
	return nil
}

// Commit applies all staged changes. The transaction is closed afterwards,
// whether or not the commit succeeded. If any write, delete or git step fails,
// the files touched so far are restored, so a failed Commit leaves the vault
// as it was.
func (t *Transaction) Commit(ctx context.Context, changeReason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}
	t.closed = true

	if t.repo.config.ReadOnly {
		return core.ErrReadOnly
	}

	writes := make([]pendingWrite, 0, len(t.order))
	for _, id := range t.order {
		doc, ok := t.staged[id]
		if !ok {
			continue // deleted after staging
		}
		w, err := t.repo.prepareWrite(doc)
		if err != nil {
			return fmt.Errorf("failed to prepare %s: %w", id, err)
		}
		writes = append(writes, w)
	}

	if !t.repo.config.Gitless {
		unlock, err := t.repo.git.Lock(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()
	}

	var (
		backups               []fileBackup
		filesToAdd, filesToRm []string
	)
	fail := func(err error) error {
		t.restore(ctx, backups, append(filesToAdd, filesToRm...))
		return err
	}

	for _, w := range writes {
		b, err := backupFile(w.filename, w.fullPath)
		if err != nil {
			return fail(err)
		}
		backups = append(backups, b)
		if err := t.repo.applyWrite(w); err != nil {
			return fail(fmt.Errorf("failed to write %s: %w", w.doc.ID, err))
		}
		filesToAdd = append(filesToAdd, w.filename)
	}

	for id := range t.deleted {
		filename, _, err := t.repo.resolve(id)
		if err != nil {
			return fail(err)
		}
		fullPath := filepath.Join(t.repo.Path, filepath.FromSlash(filename))
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			continue
		}
		b, err := backupFile(filename, fullPath)
		if err != nil {
			return fail(err)
		}
		backups = append(backups, b)
		t.repo.cache.Delete(filename)
		if t.repo.config.Gitless {
			if err := os.Remove(fullPath); err != nil {
				return fail(fmt.Errorf("failed to remove file %s: %w", id, err))
			}
			continue
		}
		filesToRm = append(filesToRm, filename)
	}

	if !t.repo.config.Gitless {
		if err := t.repo.git.Add(ctx, filesToAdd...); err != nil {
			return fail(fmt.Errorf("failed to git add: %w", err))
		}
		if err := t.repo.git.Rm(ctx, filesToRm...); err != nil {
			return fail(fmt.Errorf("failed to git rm: %w", err))
		}

		msg := changeReason
		if msg == "" {
			msg = "batch transaction update"
		}
		if err := t.repo.git.Commit(ctx, msg); err != nil {
			return fail(fmt.Errorf("failed to git commit: %w", err))
		}
	}

	if err := t.repo.cache.Save(); err != nil {
		t.repo.config.Logger.Warn("failed to persist cache", "error", err)
	}
	return nil
}

// fileBackup is the content of one file before Commit touched it.
type fileBackup struct {
	filename string
	fullPath string
	data     []byte
	existed  bool
}

func backupFile(filename, fullPath string) (fileBackup, error) {
	b := fileBackup{filename: filename, fullPath: fullPath}
	data, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return fileBackup{}, fmt.Errorf("failed to back up %s: %w", filename, err)
	}
	b.data = data
	b.existed = true
	return b, nil
}

// restore puts backed up files back in reverse order and unstages paths from git.
func (t *Transaction) restore(ctx context.Context, backups []fileBackup, paths []string) {
	logger := t.repo.config.Logger
	for i := len(backups) - 1; i >= 0; i-- {
		b := backups[i]
		t.repo.cache.Delete(b.filename)
		var err error
		if b.existed {
			err = writeFileAtomic(b.fullPath, b.data, 0644)
		} else if rmErr := os.Remove(b.fullPath); rmErr != nil && !os.IsNotExist(rmErr) {
			err = rmErr
		}
		if err != nil {
			logger.Error("failed to restore file after failed commit", "file", b.filename, "error", err)
		}
	}

	if t.repo.config.Gitless || len(paths) == 0 {
		return
	}
	// reset fails on a repository without commits; the error is only logged.
	args := append([]string{"reset", "-q", "--"}, paths...)
	if _, err := t.repo.git.Run(context.WithoutCancel(ctx), args...); err != nil {
		logger.Debug("failed to unstage paths after failed commit", "error", err)
	}
}

// Rollback discards all staged changes.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.staged = nil
	t.deleted = nil
	t.order = nil
	t.closed = true
	return nil
}
