// Package seed imports records from JSON, YAML and CSV files into a collection.
//
// Files are parsed concurrently and written sequentially in file order, so the
// same input always yields the same IDs.
package seed

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/questvault/pkg/core"
)

// DefaultBatchSize bounds the writes per transaction when the store groups writes.
const DefaultBatchSize = 500

// Config holds the importer configuration.
type Config struct {
	// Collection receives the records, e.g. "careers".
	Collection string
	// Concurrency bounds parallel file parsing (GOMAXPROCS when zero).
	Concurrency int
	BatchSize   int
	Logger      *slog.Logger
	// NewID generates IDs for records with neither id nor title (UUIDv7 when nil).
	NewID func() string
}

// Result summarizes an import.
type Result struct {
	Files   []string `json:"files"`
	Records int      `json:"records"`
	IDs     []string `json:"ids"`
}

// Importer writes seed records into a repository.
type Importer struct {
	repo   core.Repository
	config Config
}

// NewImporter creates an importer over repo.
func NewImporter(repo core.Repository, config Config) *Importer {
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.GOMAXPROCS(0)
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.NewID == nil {
		config.NewID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	return &Importer{repo: repo, config: config}
}

// ImportGlob imports every file under root matching the doublestar pattern.
func (im *Importer) ImportGlob(ctx context.Context, root, pattern string) (*Result, error) {
	return im.ImportFS(ctx, os.DirFS(root), pattern)
}

// ImportFS imports every file of fsys matching the doublestar pattern.
// Matches with unsupported extensions are ignored.
func (im *Importer) ImportFS(ctx context.Context, fsys fs.FS, pattern string) (*Result, error) {
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid seed pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		switch strings.ToLower(path.Ext(m)) {
		case ".json", ".yaml", ".yml", ".csv":
			files = append(files, m)
		}
	}
	slices.Sort(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no seed files match %q", pattern)
	}

	parsed := make([][]Record, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.config.Concurrency)
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			recs, err := Parse(data, path.Ext(name))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", name, err)
			}
			parsed[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Record
	for i, recs := range parsed {
		im.config.Logger.Debug("parsed seed file", "file", files[i], "records", len(recs))
		all = append(all, recs...)
	}
	docs, err := im.toDocuments(all)
	if err != nil {
		return nil, err
	}

	if err := im.write(ctx, docs); err != nil {
		return nil, err
	}

	res := &Result{Files: files, Records: len(docs), IDs: make([]string, len(docs))}
	for i, d := range docs {
		res.IDs[i] = d.ID
	}
	im.config.Logger.Info("seed imported", "collection", im.config.Collection, "files", len(files), "records", len(docs))
	return res, nil
}

// Import writes already parsed records.
func (im *Importer) Import(ctx context.Context, recs []Record) ([]string, error) {
	docs, err := im.toDocuments(recs)
	if err != nil {
		return nil, err
	}
	if err := im.write(ctx, docs); err != nil {
		return nil, err
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// toDocuments derives each document ID from "id", else from the slug of
// "title", else from NewID. Explicit IDs are reserved before any ID is
// derived, so a derived ID never takes the key of a later explicit record;
// derived IDs get a -2, -3 ... suffix instead. The same explicit ID on two
// records is an error.
func (im *Importer) toDocuments(recs []Record) ([]core.Document, error) {
	used := make(map[string]bool)
	for _, rec := range recs {
		key, ok := explicitKey(rec)
		if !ok {
			continue
		}
		id := im.documentID(key)
		if used[id] {
			return nil, fmt.Errorf("duplicate seed id %q", id)
		}
		used[id] = true
	}

	docs := make([]core.Document, len(recs))
	for i, rec := range recs {
		meta := make(core.Metadata, len(rec))
		for k, v := range rec {
			meta[k] = v
		}
		delete(meta, "id")

		id := ""
		if key, ok := explicitKey(rec); ok {
			id = im.documentID(key)
		} else {
			key := ""
			if title, ok := meta["title"].(string); ok {
				key = Slugify(title)
			}
			if key == "" {
				key = im.config.NewID()
			}
			base := key
			id = im.documentID(key)
			for n := 2; used[id]; n++ {
				id = im.documentID(base + "-" + strconv.Itoa(n))
			}
			used[id] = true
		}

		content := ""
		if c, ok := meta["content"].(string); ok {
			content = c
			delete(meta, "content")
		}
		docs[i] = core.Document{ID: id, Content: content, Metadata: meta}
	}
	return docs, nil
}

func explicitKey(rec Record) (string, bool) {
	v, ok := rec["id"]
	if !ok || v == nil {
		return "", false
	}
	key := strings.TrimSpace(fmt.Sprint(v))
	return key, key != ""
}

// documentID prefixes key with the collection unless it already carries it.
func (im *Importer) documentID(key string) string {
	if im.config.Collection == "" || strings.HasPrefix(key, im.config.Collection+"/") {
		return key
	}
	return core.DocumentID(im.config.Collection, key)
}

// write saves docs in order, grouped in transactions when the store supports them.
func (im *Importer) write(ctx context.Context, docs []core.Document) error {
	tr, ok := im.repo.(core.Transactional)
	if !ok {
		for _, d := range docs {
			wctx := context.WithValue(ctx, core.ChangeReasonKey, "seed: import "+d.ID)
			if err := im.repo.Save(wctx, d); err != nil {
				return core.NewDataAccessError("write", d.ID, err)
			}
		}
		return nil
	}

	for start := 0; start < len(docs); start += im.config.BatchSize {
		end := min(start+im.config.BatchSize, len(docs))

		tx, err := tr.Begin(ctx)
		if err != nil {
			return core.NewDataAccessError("commit", im.config.Collection, err)
		}
		for _, d := range docs[start:end] {
			if err := tx.Save(ctx, d); err != nil {
				_ = tx.Rollback(ctx)
				return core.NewDataAccessError("write", d.ID, err)
			}
		}
		msg := fmt.Sprintf("seed: import %d records into %s", end-start, im.config.Collection)
		if err := tx.Commit(ctx, msg); err != nil {
			return core.NewDataAccessError("commit", im.config.Collection, err)
		}
	}
	return nil
}
