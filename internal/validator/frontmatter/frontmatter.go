// Package frontmatter parses the YAML header block at the top of corpus
// Markdown files. Parsing keeps document order and reports a specific
// reason for each way a header can be broken.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is one frontmatter entry in document order.
type Field struct {
	Key   string
	Value any
	Line  int // 1-based line in the source file
}

// Header is a parsed frontmatter block.
type Header struct {
	Fields []Field
	byKey  map[string]int
}

// Parsed is the outcome of splitting a corpus file into header and body.
type Parsed struct {
	Header   *Header
	Body     string
	BodyLine int // 1-based line where the body starts
}

// Parse splits content into a frontmatter header and the remaining body.
// The error, when non-nil, is the reason the header is unusable: empty
// file, missing start delimiter, missing end delimiter, or malformed YAML
// inside the block.
func Parse(content string) (Parsed, error) {
	if strings.TrimSpace(content) == "" {
		return Parsed{}, errors.New("file is empty or contains only whitespace")
	}

	lines := strings.Split(content, "\n")
	if !isDelimiter(lines[0]) {
		return Parsed{}, errors.New("frontmatter must start with '---' on line 1")
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			end = i
			break
		}
	}
	if end < 0 {
		return Parsed{}, errors.New("frontmatter not terminated with '---'")
	}

	block := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")

	header, err := decodeBlock(block)
	if err != nil {
		return Parsed{}, err
	}
	return Parsed{Header: header, Body: body, BodyLine: end + 2}, nil
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == "---"
}

func decodeBlock(block string) (*Header, error) {
	h := &Header{byKey: map[string]int{}}
	if strings.TrimSpace(block) == "" {
		return h, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return h, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("frontmatter is not a mapping of key: value pairs")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]
		field := Field{
			Key:   keyNode.Value,
			Value: nodeValue(valNode),
			Line:  keyNode.Line + 1, // +1 for the opening delimiter line
		}
		h.byKey[field.Key] = len(h.Fields)
		h.Fields = append(h.Fields, field)
	}
	return h, nil
}

func nodeValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, nodeValue(c))
		}
		return items
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = nodeValue(n.Content[i+1])
		}
		return m
	case yaml.AliasNode:
		if n.Alias != nil {
			return nodeValue(n.Alias)
		}
		return nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err == nil {
				return b
			}
		case "!!int":
			var i int
			if err := n.Decode(&i); err == nil {
				return i
			}
		}
		return n.Value
	}
	return nil
}

// Has reports whether key appears in the header.
func (h *Header) Has(key string) bool {
	if h == nil {
		return false
	}
	_, ok := h.byKey[key]
	return ok
}

// Get returns the raw value for key and whether it is present.
func (h *Header) Get(key string) (any, bool) {
	if h == nil {
		return nil, false
	}
	i, ok := h.byKey[key]
	if !ok {
		return nil, false
	}
	return h.Fields[i].Value, true
}

// Str returns the trimmed string value for key. Missing, non-string, and
// blank values all come back empty.
func (h *Header) Str(key string) string {
	v, ok := h.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// StringList returns the value for key as a string slice. ok is false when
// the key is absent or the value is not a list.
func (h *Header) StringList(key string) ([]string, bool) {
	v, present := h.Get(key)
	if !present {
		return nil, false
	}
	items, isList := v.([]any)
	if !isList {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprintf("%v", it))
	}
	return out, true
}

// Line returns the 1-based file line of key, or 0 when absent.
func (h *Header) Line(key string) int {
	if h == nil {
		return 0
	}
	i, ok := h.byKey[key]
	if !ok {
		return 0
	}
	return h.Fields[i].Line
}

// TypeName describes a parsed value's shape for error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int:
		return "int"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	}
	return "unknown"
}
