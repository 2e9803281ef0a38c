package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/questvault/pkg/core"
)

// Serializer defines how to read and write a specific file format.
type Serializer interface {
	// Parse reads from r and returns a Document without ID.
	Parse(r io.Reader) (*core.Document, error)
	// Serialize converts the Document to bytes.
	Serialize(doc core.Document) ([]byte, error)
}

// contentKey holds the document body in formats without a separate body section.
const contentKey = "content"

// supportedExts lists the extensions tried, in order, when an ID has none.
var supportedExts = []string{".md", ".json", ".yaml", ".yml"}

// DefaultSerializers returns the standard set of serializers.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".md":   MarkdownSerializer{},
		".json": JSONSerializer{},
		".yaml": YAMLSerializer{},
		".yml":  YAMLSerializer{},
	}
}

// JSONSerializer stores metadata as top-level keys and the body under "content".
type JSONSerializer struct{}

func (JSONSerializer) Parse(r io.Reader) (*core.Document, error) {
	var payload map[string]any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return fromPayload(payload), nil
}

func (JSONSerializer) Serialize(doc core.Document) ([]byte, error) {
	data, err := json.MarshalIndent(toPayload(doc), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// YAMLSerializer stores metadata as top-level keys and the body under "content".
type YAMLSerializer struct{}

func (YAMLSerializer) Parse(r io.Reader) (*core.Document, error) {
	var payload map[string]any
	if err := yaml.NewDecoder(r).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return fromPayload(payload), nil
}

func (YAMLSerializer) Serialize(doc core.Document) ([]byte, error) {
	return yaml.Marshal(toPayload(doc))
}

// MarkdownSerializer stores metadata as YAML frontmatter followed by the body.
type MarkdownSerializer struct{}

func (MarkdownSerializer) Parse(r io.Reader) (*core.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &core.Document{Metadata: make(core.Metadata)}

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		doc.Content = string(data)
		return doc, nil
	}

	rest := data[len("---\n"):]
	var front, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")):
		body = bytes.TrimPrefix(bytes.TrimPrefix(rest, []byte("---")), []byte("\n"))
	default:
		end := bytes.Index(rest, []byte("\n---\n"))
		switch {
		case end >= 0:
			front, body = rest[:end], rest[end+len("\n---\n"):]
		case bytes.HasSuffix(rest, []byte("\n---")):
			front = rest[:len(rest)-len("\n---")]
		default:
			return nil, errors.New("frontmatter started but no closing delimiter found")
		}
	}

	if len(bytes.TrimSpace(front)) > 0 {
		if err := yaml.Unmarshal(front, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}
	doc.Content = string(body)
	return doc, nil
}

func (MarkdownSerializer) Serialize(doc core.Document) ([]byte, error) {
	var buf bytes.Buffer
	if len(doc.Metadata) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(map[string]any(doc.Metadata)); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	}
	buf.WriteString(doc.Content)
	return buf.Bytes(), nil
}

func toPayload(doc core.Document) map[string]any {
	payload := make(map[string]any, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		payload[k] = v
	}
	if doc.Content != "" {
		payload[contentKey] = doc.Content
	}
	return payload
}

func fromPayload(payload map[string]any) *core.Document {
	doc := &core.Document{Metadata: make(core.Metadata, len(payload))}
	for k, v := range payload {
		if k == contentKey {
			if s, ok := v.(string); ok {
				doc.Content = s
				continue
			}
		}
		doc.Metadata[k] = v
	}
	return doc
}

// isSupported reports whether ext has a serializer registered in m.
func isSupported(m map[string]Serializer, ext string) bool {
	_, ok := m[strings.ToLower(ext)]
	return ok
}
