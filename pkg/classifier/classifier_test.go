package classifier_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questvault/pkg/classifier"
	"github.com/aretw0/questvault/pkg/taxonomy"
)

func TestClassify_Scenarios(t *testing.T) {
	c := classifier.New(nil)

	tests := []struct {
		name        string
		title, desc string
		want        []string
	}{
		{
			name:  "Registered Nurse",
			title: "Registered Nurse",
			desc:  "Provide patient care in hospital",
			want:  []string{"healthcare_social"},
		},
		{
			name:  "Software Engineer",
			title: "Software Engineer",
			desc:  "Develop web applications using computer systems",
			want:  []string{"information", "professional_scientific"},
		},
		{
			name: "Empty Input",
			want: []string{},
		},
		{
			name:  "Case Insensitive",
			title: "NURSE",
			want:  []string{"healthcare_social"},
		},
		{
			name:  "Substring Without Word Boundary",
			title: "Gasoline Attendant",
			want:  []string{"mining_oil_gas"},
		},
		{
			name:  "Tie Keeps Declaration Order",
			title: "Bank",
			desc:  "shop",
			want:  []string{"retail_trade", "finance_insurance"},
		},
		{
			name:  "Truncated To Three",
			title: "Farm Truck Driver",
			desc:  "Bank loans, teach school, nurse",
			want:  []string{"transportation_warehousing", "finance_insurance", "educational_services"},
		},
		{
			name:  "No Confident Match",
			title: "Zxqv",
			desc:  "Lorem ipsum",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.title, tt.desc)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatches_Counts(t *testing.T) {
	c := classifier.New(nil)

	matches := c.Matches("Registered Nurse", "Provide patient care in hospital")
	require.Len(t, matches, 1)
	assert.Equal(t, "healthcare_social", matches[0].Key)
	assert.Equal(t, 4, matches[0].Count)
	assert.Equal(t, []string{"nurse", "patient", "hospital", "care"}, matches[0].Keywords)

	// A keyword present in both fields, or repeated, still counts once.
	matches = c.Matches("Nurse nurse", "nurse")
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Count)
}

func TestMatches_FarmTruckDriverIsNotTruncated(t *testing.T) {
	c := classifier.New(nil)

	matches := c.Matches("Farm Truck Driver", "Bank loans, teach school, nurse")
	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = m.Key
	}
	assert.Equal(t, []string{
		"transportation_warehousing", "finance_insurance", "educational_services",
		"agriculture_forestry", "healthcare_social",
	}, keys)
}

func TestClassify_DuplicateKeywordsCountOnce(t *testing.T) {
	tax, err := taxonomy.New([]taxonomy.Definition{
		{Key: "a", Keywords: []string{"web", "web", "WEB"}},
		{Key: "b", Keywords: []string{"web", "data"}},
	})
	require.NoError(t, err)
	c := classifier.New(tax)

	matches := c.Matches("web data", "")
	require.Len(t, matches, 2)
	assert.Equal(t, "b", matches[0].Key)
	assert.Equal(t, 2, matches[0].Count)
	assert.Equal(t, "a", matches[1].Key)
	assert.Equal(t, 1, matches[1].Count)
}

// TestClassify_Properties checks the ranking invariants over generated inputs built
// from real keywords and filler words.
func TestClassify_Properties(t *testing.T) {
	c := classifier.New(nil)
	tax := c.Taxonomy()
	rng := rand.New(rand.NewSource(42))

	var vocabulary []string
	for _, d := range tax.Definitions() {
		vocabulary = append(vocabulary, d.Keywords...)
	}
	vocabulary = append(vocabulary, "the", "and", "quest", "xp", "level", "hours")

	phrase := func() string {
		n := rng.Intn(6)
		words := make([]string, n)
		for i := range words {
			w := vocabulary[rng.Intn(len(vocabulary))]
			if rng.Intn(2) == 0 {
				w = strings.ToUpper(w)
			}
			words[i] = w
		}
		return strings.Join(words, " ")
	}

	for i := 0; i < 500; i++ {
		title, desc := phrase(), phrase()
		got := c.Classify(title, desc)

		require.LessOrEqual(t, len(got), classifier.MaxFields)

		seen := map[string]bool{}
		for _, key := range got {
			require.True(t, tax.Contains(key), "unknown key %q", key)
			require.False(t, seen[key], "duplicate key %q for %q / %q", key, title, desc)
			seen[key] = true
		}

		matches := c.Matches(title, desc)
		for j := 1; j < len(matches); j++ {
			prev, cur := matches[j-1], matches[j]
			require.GreaterOrEqual(t, prev.Count, cur.Count)
			if prev.Count == cur.Count {
				require.Less(t, tax.Index(prev.Key), tax.Index(cur.Key),
					"tie not in declaration order for %q / %q", title, desc)
			}
		}

		// Classify is the truncated prefix of Matches.
		for j, key := range got {
			require.Equal(t, matches[j].Key, key)
		}
		if len(matches) > 0 {
			require.NotEmpty(t, got)
		}
	}
}

func TestClassify_Pure(t *testing.T) {
	c := classifier.New(nil)
	first := c.Classify("Chef", "Cook food in a restaurant and hotel kitchen")
	second := c.Classify("Chef", "Cook food in a restaurant and hotel kitchen")
	assert.Equal(t, []string{"accommodation_food"}, first)
	assert.Equal(t, first, second)
}
