// Package taxonomy defines the fixed table of career fields used to classify
// career records. A Taxonomy is immutable once built and safe for concurrent use.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmpty        = errors.New("taxonomy has no categories")
	ErrDuplicateKey = errors.New("duplicate category key")
	ErrInvalidKey   = errors.New("category key cannot be empty")
	ErrNoKeywords   = errors.New("category has no keywords")
)

// Definition describes one career field.
type Definition struct {
	Key      string   `json:"key" yaml:"key"`
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Taxonomy is an ordered, read-only set of definitions.
// Declaration order is significant: it breaks ties during classification.
type Taxonomy struct {
	defs  []Definition
	index map[string]int
}

// New validates defs and builds a Taxonomy from a private copy of them.
// Keywords are trimmed and lowercased; blank keywords are dropped.
func New(defs []Definition) (*Taxonomy, error) {
	if len(defs) == 0 {
		return nil, ErrEmpty
	}

	t := &Taxonomy{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		key := strings.TrimSpace(d.Key)
		if key == "" {
			return nil, fmt.Errorf("category #%d: %w", i, ErrInvalidKey)
		}
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}

		keywords := make([]string, 0, len(d.Keywords))
		for _, kw := range d.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoKeywords, key)
		}

		name := strings.TrimSpace(d.Name)
		if name == "" {
			name = key
		}

		t.index[key] = len(t.defs)
		t.defs = append(t.defs, Definition{Key: key, Name: name, Keywords: keywords})
	}
	return t, nil
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int { return len(t.defs) }

// Keys returns the category keys in declaration order.
func (t *Taxonomy) Keys() []string {
	keys := make([]string, len(t.defs))
	for i, d := range t.defs {
		keys[i] = d.Key
	}
	return keys
}

// Definitions returns a copy of the definitions in declaration order.
func (t *Taxonomy) Definitions() []Definition {
	out := make([]Definition, len(t.defs))
	for i, d := range t.defs {
		out[i] = Definition{
			Key:      d.Key,
			Name:     d.Name,
			Keywords: append([]string(nil), d.Keywords...),
		}
	}
	return out
}

// At returns the definition at declaration index i. The keyword slice is shared
// and must not be modified.
func (t *Taxonomy) At(i int) Definition { return t.defs[i] }

// Lookup returns the definition for key.
func (t *Taxonomy) Lookup(key string) (Definition, bool) {
	i, ok := t.index[key]
	if !ok {
		return Definition{}, false
	}
	return t.defs[i], true
}

// Index returns the declaration index of key, or -1.
func (t *Taxonomy) Index(key string) int {
	if i, ok := t.index[key]; ok {
		return i
	}
	return -1
}

// Contains reports whether key is a category of the taxonomy.
func (t *Taxonomy) Contains(key string) bool {
	_, ok := t.index[key]
	return ok
}
