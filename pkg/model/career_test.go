package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questvault/pkg/model"
)

func TestCareer_UnmarshalLegacy(t *testing.T) {
	data := `{"title":"Cashier","description":"Ring up sales","field":"retail_trade","salary":42000,"tags":["entry"]}`

	var c model.Career
	require.NoError(t, json.Unmarshal([]byte(data), &c))

	assert.Equal(t, "Cashier", c.Title)
	assert.Equal(t, "retail_trade", c.LegacyField())
	assert.False(t, c.HasFields())
	assert.Equal(t, float64(42000), c.Extra["salary"])
	assert.Equal(t, []any{"entry"}, c.Extra["tags"])
}

func TestCareer_UnmarshalLoose(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantField  string
		wantFields []string
	}{
		{"Null Field", `{"title":"x","field":null}`, "", nil},
		{"Empty Field", `{"title":"x","field":""}`, "", nil},
		{"Scalar Fields", `{"title":"x","fields":"construction"}`, "", []string{"construction"}},
		{"Null Fields", `{"title":"x","fields":null}`, "", nil},
		{"List Fields", `{"title":"x","fields":["a","b"]}`, "", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c model.Career
			require.NoError(t, json.Unmarshal([]byte(tt.data), &c))
			assert.Equal(t, tt.wantField, c.LegacyField())
			assert.Equal(t, tt.wantFields, c.Fields)
		})
	}

	var c model.Career
	assert.Error(t, json.Unmarshal([]byte(`{"fields":[1,2]}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"title":7}`), &c))
}

func TestCareer_MarshalKeepsExtra(t *testing.T) {
	ts := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	c := model.Career{
		Title:     "Carpenter",
		Fields:    []string{"construction"},
		UpdatedAt: &ts,
		Extra: map[string]any{
			"salary": 51000,
			"title":  "ignored, known keys win",
		},
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Carpenter", raw["title"])
	assert.Equal(t, float64(51000), raw["salary"])
	assert.Equal(t, []any{"construction"}, raw["fields"])
	assert.Equal(t, "2026-10-14T09:30:00Z", raw["updatedAt"])
	assert.NotContains(t, raw, "field", "absent legacy field is not written")

	var back model.Career
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.UpdatedAt)
	assert.True(t, ts.Equal(*back.UpdatedAt))
	assert.Equal(t, c.Fields, back.Fields)
}
