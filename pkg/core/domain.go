// Package core holds the storage-agnostic domain of questvault: documents,
// the repository ports every adapter implements, and the Service built on them.
package core

import (
	"fmt"
	"strings"
)

// Metadata represents the flexible key-value pairs associated with a document.
type Metadata map[string]any

// Document is the unit of storage.
// Its ID is a slash separated path whose first segment is the collection,
// e.g. "careers/registered-nurse".
type Document struct {
	ID       string
	Content  string
	Metadata Metadata
}

// Collection returns the collection segment of the document ID.
func (d Document) Collection() string {
	return CollectionOf(d.ID)
}

// CollectionOf returns the first path segment of id, or "" for top-level IDs.
func CollectionOf(id string) string {
	i := strings.IndexByte(id, '/')
	if i <= 0 {
		return ""
	}
	return id[:i]
}

// DocumentID joins a collection name and a key into a document ID.
func DocumentID(collection, key string) string {
	if collection == "" {
		return key
	}
	return collection + "/" + key
}

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the store.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
