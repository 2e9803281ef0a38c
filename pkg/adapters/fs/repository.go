// Package fs implements core.Repository on a plain directory tree, optionally
// versioned with git. Each document is one file: "careers/nurse" is stored as
// careers/nurse.md, careers/nurse.json or careers/nurse.yaml.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/git"
)

// DefaultSystemDir is the hidden directory holding the cache.
// The cache is persisted by List and by transaction commits only.
const DefaultSystemDir = ".questvault"

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	AutoInit  bool
	Gitless   bool
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".questvault"
	// DefaultExt is the format of new documents whose ID has no extension (".md" when empty).
	DefaultExt string
	// Serializers overrides or extends DefaultSerializers, keyed by extension.
	Serializers map[string]Serializer
	// ErrorHandler receives runtime watcher errors.
	ErrorHandler func(error)
}

// Repository implements core.Repository using the filesystem and, optionally, Git.
type Repository struct {
	Path        string
	git         *git.Client
	cache       *cache
	config      Config
	serializers map[string]Serializer

	mu            sync.RWMutex
	watcherActive bool
	lastList      *time.Time
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.DefaultExt == "" {
		config.DefaultExt = ".md"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	serializers := DefaultSerializers()
	for ext, s := range config.Serializers {
		serializers[strings.ToLower(ext)] = s
	}

	return &Repository{
		Path:        config.Path,
		git:         git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config:      config,
		cache:       newCache(config.Path, config.SystemDir),
		serializers: serializers,
	}
}

// Initialize prepares the vault directory and, when versioned, the git repository.
// In read-only mode nothing is created.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.ReadOnly || r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	}
	if r.config.ReadOnly {
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	if r.config.Gitless {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod && wasNewRepo {
		if err := r.git.Add(ctx, ".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := r.git.Commit(ctx, fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// ensureIgnore keeps the system directory and the lock file out of git.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	entries := []string{r.config.SystemDir + "/", r.config.SystemDir + ".lock"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	var buf bytes.Buffer
	buf.Write(content)
	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		buf.WriteByte('\n')
	}
	for _, e := range missing {
		buf.WriteString(e + "\n")
	}
	return true, writeFileAtomic(ignorePath, buf.Bytes(), 0644)
}

// Sync synchronizes the repository with its remote.
func (r *Repository) Sync(ctx context.Context) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if r.config.Gitless {
		return fmt.Errorf("cannot sync in gitless mode")
	}
	if !r.git.IsRepo() {
		return fmt.Errorf("path is not a git repository: %s", r.Path)
	}

	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return r.git.Sync(ctx)
}

// resolve maps a document ID to its relative filename and serializer extension.
// An ID without extension resolves to the first existing file among the
// supported extensions, or to DefaultExt for a new document.
func (r *Repository) resolve(id string) (filename, ext string, err error) {
	if id == "" {
		return "", "", core.ErrInvalidID
	}
	if !filepath.IsLocal(filepath.FromSlash(id)) || strings.HasPrefix(id, r.config.SystemDir) {
		return "", "", fmt.Errorf("%w: %q", core.ErrInvalidID, id)
	}

	if e := strings.ToLower(filepath.Ext(id)); isSupported(r.serializers, e) {
		return id, e, nil
	}

	for _, e := range supportedExts {
		candidate := id + e
		if _, err := os.Stat(filepath.Join(r.Path, filepath.FromSlash(candidate))); err == nil {
			return candidate, e, nil
		}
	}
	return id + r.config.DefaultExt, r.config.DefaultExt, nil
}

// idFor maps a relative filename back to its document ID.
func idFor(relPath string) string {
	return strings.TrimSuffix(relPath, filepath.Ext(relPath))
}

// Save persists a document and, when versioned, commits it.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	filename, err := r.writeDocument(doc)
	if err != nil {
		return err
	}

	if r.config.Gitless {
		return nil
	}

	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Add(ctx, filename); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}

	msg := "update " + doc.ID
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}
	if err := r.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// pendingWrite is a serialized document ready to be written.
type pendingWrite struct {
	doc      core.Document
	filename string
	fullPath string
	data     []byte
}

// prepareWrite resolves and serializes doc without touching the disk.
func (r *Repository) prepareWrite(doc core.Document) (pendingWrite, error) {
	filename, ext, err := r.resolve(doc.ID)
	if err != nil {
		return pendingWrite{}, err
	}
	data, err := r.serializers[ext].Serialize(doc)
	if err != nil {
		return pendingWrite{}, fmt.Errorf("failed to serialize document %s: %w", doc.ID, err)
	}
	return pendingWrite{
		doc:      doc,
		filename: filename,
		fullPath: filepath.Join(r.Path, filepath.FromSlash(filename)),
		data:     data,
	}, nil
}

// applyWrite writes a prepared document and refreshes its cache entry.
func (r *Repository) applyWrite(w pendingWrite) error {
	if err := os.MkdirAll(filepath.Dir(w.fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := writeFileAtomic(w.fullPath, w.data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if info, err := os.Stat(w.fullPath); err == nil {
		r.cache.Set(w.filename, &indexEntry{
			ID:           idFor(w.filename),
			Content:      w.doc.Content,
			Metadata:     w.doc.Metadata,
			LastModified: info.ModTime(),
			Size:         info.Size(),
		})
	}
	return nil
}

// writeDocument serializes doc to its file and refreshes the cache entry.
// It returns the relative filename.
func (r *Repository) writeDocument(doc core.Document) (string, error) {
	w, err := r.prepareWrite(doc)
	if err != nil {
		return "", err
	}
	if err := r.applyWrite(w); err != nil {
		return "", err
	}
	return w.filename, nil
}

// Get retrieves a document from the filesystem.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	filename, ext, err := r.resolve(id)
	if err != nil {
		return core.Document{}, err
	}

	doc, err := r.readFile(filename, ext)
	if err != nil {
		return core.Document{}, err
	}
	doc.ID = idFor(filename)
	return *doc, nil
}

func (r *Repository) readFile(filename, ext string) (*core.Document, error) {
	f, err := os.Open(filepath.Join(r.Path, filepath.FromSlash(filename)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, idFor(filename))
		}
		return nil, err
	}
	defer f.Close()

	doc, err := r.serializers[ext].Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", filename, err)
	}
	return doc, nil
}

// List scans a collection directory, reusing cached parses for unchanged files.
// Unparseable files are logged and skipped. Results are sorted by ID.
func (r *Repository) List(ctx context.Context, collection string) ([]core.Document, error) {
	if err := r.cache.Load(); err != nil {
		r.config.Logger.Warn("ignoring unreadable cache", "error", err)
	}

	root := r.Path
	if collection != "" {
		root = filepath.Join(r.Path, filepath.FromSlash(collection))
	}

	var docs []core.Document
	seen := make(map[string]bool)
	ids := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, os.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && (d.Name() == ".git" || d.Name() == r.config.SystemDir) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if !isSupported(r.serializers, ext) || isTempFile(d.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		id := idFor(relPath)

		if other, dup := ids[id]; dup {
			r.config.Logger.Warn("duplicate document id, keeping first file", "id", id, "kept", other, "ignored", relPath)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		seen[relPath] = true

		if entry, hit := r.cache.Get(relPath, info.ModTime(), info.Size()); hit {
			ids[id] = relPath
			docs = append(docs, core.Document{ID: entry.ID, Content: entry.Content, Metadata: entry.Metadata})
			return nil
		}

		doc, err := r.readFile(relPath, ext)
		if err != nil {
			r.config.Logger.Warn("skipping unparseable document", "path", relPath, "error", err)
			return nil
		}
		doc.ID = id
		ids[id] = relPath

		r.cache.Set(relPath, &indexEntry{
			ID:           id,
			Content:      doc.Content,
			Metadata:     doc.Metadata,
			LastModified: info.ModTime(),
			Size:         info.Size(),
		})
		docs = append(docs, *doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.cache.Prune(collection, seen)
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Warn("failed to persist cache", "error", err)
		}
	}

	now := time.Now()
	r.mu.Lock()
	r.lastList = &now
	r.mu.Unlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	filename, _, err := r.resolve(id)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(r.Path, filepath.FromSlash(filename))
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	r.cache.Delete(filename)

	if r.config.Gitless {
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		return nil
	}

	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Rm(ctx, filename); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}
	if err := r.git.Commit(ctx, "delete "+id); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// Begin starts a new transaction.
func (r *Repository) Begin(ctx context.Context) (core.Transaction, error) {
	if r.config.ReadOnly {
		return nil, core.ErrReadOnly
	}
	return NewTransaction(r), nil
}

var (
	_ core.Repository    = (*Repository)(nil)
	_ core.Transactional = (*Repository)(nil)
	_ core.Syncable      = (*Repository)(nil)
	_ core.Watchable     = (*Repository)(nil)
)
