package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a taxonomy override.
//
//	categories:
//	  - key: construction
//	    name: Construction
//	    keywords: [carpenter, plumb]
type File struct {
	Categories []Definition `json:"categories" yaml:"categories"`
}

// Load reads a taxonomy from a YAML (.yaml, .yml) or JSON (.json) file.
// The file replaces the built-in table entirely; order in the file is the
// declaration order.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	t, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a taxonomy document. ext selects the format (".json" or YAML otherwise).
func Parse(data []byte, ext string) (*Taxonomy, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	}
	return New(f.Categories)
}

// Marshal encodes t in the File shape, as YAML or JSON depending on ext.
func Marshal(t *Taxonomy, ext string) ([]byte, error) {
	f := File{Categories: t.Definitions()}
	if strings.ToLower(ext) == ".json" {
		return json.MarshalIndent(f, "", "  ")
	}
	return yaml.Marshal(f)
}
