// Package classifier ranks career fields for free text by keyword matching.
//
// Matching is plain case-insensitive substring containment, so the keyword
// "gas" matches "gasoline". Stored records were classified this way, and the
// behaviour is kept as is.
package classifier

import (
	"sort"
	"strings"

	"github.com/aretw0/questvault/pkg/taxonomy"
)

// MaxFields is the maximum number of field keys returned by Classify.
const MaxFields = 3

// Match is the score of one category for one input.
type Match struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	// Keywords lists the matched keywords in declaration order.
	Keywords []string `json:"keywords,omitempty"`
}

type category struct {
	key      string
	name     string
	keywords []string
}

// Classifier scores text against a taxonomy. It is immutable and safe for concurrent use.
type Classifier struct {
	tax        *taxonomy.Taxonomy
	categories []category
}

// New builds a classifier over tax. A nil taxonomy selects taxonomy.Default().
func New(tax *taxonomy.Taxonomy) *Classifier {
	if tax == nil {
		tax = taxonomy.Default()
	}

	c := &Classifier{
		tax:        tax,
		categories: make([]category, tax.Len()),
	}
	for i := 0; i < tax.Len(); i++ {
		d := tax.At(i)
		seen := make(map[string]struct{}, len(d.Keywords))
		kws := make([]string, 0, len(d.Keywords))
		for _, kw := range d.Keywords {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			kws = append(kws, kw)
		}
		c.categories[i] = category{key: d.Key, name: d.Name, keywords: kws}
	}
	return c
}

// Taxonomy returns the taxonomy the classifier scores against.
func (c *Classifier) Taxonomy() *taxonomy.Taxonomy {
	return c.tax
}

// Classify returns up to MaxFields field keys for the given title and description,
// ordered by descending match count. Ties keep taxonomy declaration order.
// An empty result means no keyword matched.
func (c *Classifier) Classify(title, description string) []string {
	matches := c.Matches(title, description)
	if len(matches) > MaxFields {
		matches = matches[:MaxFields]
	}

	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = m.Key
	}
	return keys
}

// Matches returns every category with at least one matching keyword, ranked like
// Classify but without truncation.
func (c *Classifier) Matches(title, description string) []Match {
	t := strings.ToLower(title)
	d := strings.ToLower(description)
	if t == "" && d == "" {
		return []Match{}
	}

	matches := make([]Match, 0, 4)
	for _, cat := range c.categories {
		var hits []string
		for _, kw := range cat.keywords {
			if strings.Contains(t, kw) || strings.Contains(d, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) == 0 {
			continue
		}
		matches = append(matches, Match{
			Key:      cat.key,
			Name:     cat.name,
			Count:    len(hits),
			Keywords: hits,
		})
	}

	// matches is already in declaration order, so a stable sort keeps it for ties.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Count > matches[j].Count
	})
	return matches
}
