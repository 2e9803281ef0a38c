// Package typed provides type-safe access to the documents of one collection.
// Metadata is converted to and from T with a JSON round trip, so T controls its
// shape through json tags or custom (un)marshalers.
package typed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/questvault/pkg/core"
)

// DocumentModel wraps the raw core.Document with a typed metadata field.
type DocumentModel[T any] struct {
	ID      string
	Content string
	Data    T        // The typed metadata/entity
	Saver   Saver[T] // Active Record reference
}

// Saver avoids coupling documents to a concrete repository.
type Saver[T any] interface {
	Save(ctx context.Context, doc *DocumentModel[T]) error
}

// Save persists the document using the attached saver.
func (d *DocumentModel[T]) Save(ctx context.Context) error {
	if d.Saver == nil {
		return fmt.Errorf("document is detached (missing Saver)")
	}
	return d.Saver.Save(ctx, d)
}

// Key returns the ID without its collection prefix.
func (d *DocumentModel[T]) Key() string {
	if i := strings.IndexByte(d.ID, '/'); i >= 0 {
		return d.ID[i+1:]
	}
	return d.ID
}

// Repository wraps a core.Repository to provide type-safe access to one collection.
type Repository[T any] struct {
	repo       core.Repository
	collection string
}

// NewRepository creates a typed view of collection on repo.
func NewRepository[T any](repo core.Repository, collection string) *Repository[T] {
	return &Repository[T]{repo: repo, collection: collection}
}

// Collection returns the collection this repository is scoped to.
func (r *Repository[T]) Collection() string {
	return r.collection
}

// ID turns a key into a document ID of the collection. IDs that already carry
// the collection prefix are returned unchanged.
func (r *Repository[T]) ID(key string) string {
	if r.collection == "" || strings.HasPrefix(key, r.collection+"/") {
		return key
	}
	return core.DocumentID(r.collection, key)
}

// Save persists a typed document.
func (r *Repository[T]) Save(ctx context.Context, doc *DocumentModel[T]) error {
	doc.ID = r.ID(doc.ID)
	coreDoc, err := Encode(doc)
	if err != nil {
		return err
	}

	if doc.Saver == nil {
		doc.Saver = r
	}
	return r.repo.Save(ctx, coreDoc)
}

// Get retrieves a document by key or ID and decodes it.
func (r *Repository[T]) Get(ctx context.Context, key string) (*DocumentModel[T], error) {
	coreDoc, err := r.repo.Get(ctx, r.ID(key))
	if err != nil {
		return nil, err
	}
	model, err := Decode[T](coreDoc)
	if err != nil {
		return nil, err
	}
	model.Saver = r
	return model, nil
}

// List returns all documents of the collection converted to the typed model.
func (r *Repository[T]) List(ctx context.Context) ([]*DocumentModel[T], error) {
	coreDocs, err := r.repo.List(ctx, r.collection)
	if err != nil {
		return nil, err
	}

	result := make([]*DocumentModel[T], 0, len(coreDocs))
	for _, d := range coreDocs {
		model, err := Decode[T](d)
		if err != nil {
			return nil, err
		}
		model.Saver = r
		result = append(result, model)
	}
	return result, nil
}

// Delete removes a document by key or ID.
func (r *Repository[T]) Delete(ctx context.Context, key string) error {
	return r.repo.Delete(ctx, r.ID(key))
}

// Encode converts a typed document into a core.Document.
func Encode[T any](doc *DocumentModel[T]) (core.Document, error) {
	dataBytes, err := json.Marshal(doc.Data)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to marshal typed data: %w", err)
	}

	var metadata core.Metadata
	if err := json.Unmarshal(dataBytes, &metadata); err != nil {
		return core.Document{}, fmt.Errorf("failed to convert typed data to map: %w", err)
	}

	return core.Document{
		ID:       doc.ID,
		Content:  doc.Content,
		Metadata: metadata,
	}, nil
}

// Decode converts a core.Document into a typed document without a Saver.
func Decode[T any](coreDoc core.Document) (*DocumentModel[T], error) {
	dataBytes, err := json.Marshal(coreDoc.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to process document %s: metadata marshal failed: %w", coreDoc.ID, err)
	}

	var data T
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to process document %s: %w", coreDoc.ID, err)
	}

	return &DocumentModel[T]{
		ID:      coreDoc.ID,
		Content: coreDoc.Content,
		Data:    data,
	}, nil
}
