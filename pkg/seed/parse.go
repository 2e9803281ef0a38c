package seed

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is one raw record read from a seed file.
type Record map[string]any

// listColumns are CSV columns holding ";"-separated lists.
var listColumns = map[string]bool{"fields": true, "skills": true, "requiredQuests": true}

// textColumns are CSV columns never converted to numbers or booleans.
var textColumns = map[string]bool{"id": true, "title": true, "description": true, "content": true, "field": true}

// Parse decodes the records of a seed file. JSON and YAML files hold either one
// object or a list of objects; CSV files have a header row.
func Parse(data []byte, ext string) ([]Record, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".csv":
		return parseCSV(data)
	default:
		return nil, fmt.Errorf("unsupported seed format %q", ext)
	}
}

func parseJSON(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var rec Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return []Record{rec}, nil
	}
	var recs []Record
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return recs, nil
}

func parseYAML(data []byte) ([]Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		var rec Record
		if err := root.Decode(&rec); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		return []Record{rec}, nil
	case yaml.SequenceNode:
		var recs []Record
		if err := root.Decode(&recs); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		return recs, nil
	default:
		return nil, errors.New("yaml seed must be a mapping or a list of mappings")
	}
}

func parseCSV(data []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var recs []Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}

		rec := make(Record, len(header))
		for i, col := range header {
			if i >= len(row) || col == "" {
				continue
			}
			if v, ok := csvValue(col, row[i]); ok {
				rec[col] = v
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// csvValue converts a cell. Empty cells are dropped.
func csvValue(col, cell string) (any, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, false
	}
	if listColumns[col] {
		var list []any
		for _, part := range strings.Split(cell, ";") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		return list, len(list) > 0
	}
	if textColumns[col] {
		return cell, true
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f, true
	}
	if b, err := strconv.ParseBool(cell); err == nil {
		return b, true
	}
	return cell, true
}
