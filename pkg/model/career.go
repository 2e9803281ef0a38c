// Package model declares the entities of the career tracker: careers, quests,
// achievements and users.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Collection names used by the application.
const (
	CollectionCareers      = "careers"
	CollectionQuests       = "quests"
	CollectionAchievements = "achievements"
	CollectionUsers        = "users"
)

// Career is a career record. Field is the legacy single-category attribute,
// Fields the current ordered multi-category one.
//
// Attributes the type does not know about are kept in Extra and written back
// unchanged, so older or newer writers of the same collection do not lose data.
type Career struct {
	Title       string
	Description string
	Field       *string
	Fields      []string
	UpdatedAt   *time.Time
	Extra       map[string]any
}

var careerKnownKeys = map[string]bool{
	"title": true, "description": true, "field": true, "fields": true, "updatedAt": true,
}

// HasFields reports whether the career already carries a non-empty fields list.
func (c *Career) HasFields() bool {
	return len(c.Fields) > 0
}

// LegacyField returns the legacy field value, or "" when absent.
func (c *Career) LegacyField() string {
	if c.Field == nil {
		return ""
	}
	return *c.Field
}

// MarshalJSON merges the known attributes over Extra.
func (c Career) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+5)
	for k, v := range c.Extra {
		if !careerKnownKeys[k] {
			out[k] = v
		}
	}
	out["title"] = c.Title
	out["description"] = c.Description
	if c.Field != nil {
		out["field"] = *c.Field
	}
	if len(c.Fields) > 0 {
		out["fields"] = c.Fields
	}
	if c.UpdatedAt != nil {
		out["updatedAt"] = c.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts loosely typed stored documents: a null or empty legacy
// field is treated as absent, and a scalar fields value as a one-element list.
func (c *Career) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Career{}
	for k, v := range raw {
		switch k {
		case "title":
			if err := decodeString(v, &c.Title); err != nil {
				return fmt.Errorf("title: %w", err)
			}
		case "description":
			if err := decodeString(v, &c.Description); err != nil {
				return fmt.Errorf("description: %w", err)
			}
		case "field":
			var s string
			if err := decodeString(v, &s); err != nil {
				return fmt.Errorf("field: %w", err)
			}
			if s != "" {
				c.Field = &s
			}
		case "fields":
			fields, err := decodeFields(v)
			if err != nil {
				return fmt.Errorf("fields: %w", err)
			}
			c.Fields = fields
		case "updatedAt":
			var s string
			if err := decodeString(v, &s); err != nil || s == "" {
				continue
			}
			if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
				c.UpdatedAt = &ts
			}
		default:
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			if c.Extra == nil {
				c.Extra = make(map[string]any)
			}
			c.Extra[k] = val
		}
	}
	return nil
}

// decodeString decodes a JSON string; null leaves dst untouched.
func decodeString(raw json.RawMessage, dst *string) error {
	if string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func decodeFields(raw json.RawMessage) ([]string, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("expected a list of strings")
	}
	if single == "" {
		return nil, nil
	}
	return []string{single}, nil
}
