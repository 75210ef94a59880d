// Package codec implements the document-as-conversation wire format: the
// fenced metadata header, the marker-delimited turn blocks, and the window
// policy applied to decoded histories.
package codec

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// metadataFence is the delimiter line bounding the metadata block.
const metadataFence = "---"

// Metadata is the parsed key/value header block. Key order is preserved so
// repeated renders are stable.
type Metadata struct {
	keys   []string
	values map[string]string
}

// Get returns the raw scalar text stored under key.
func (m *Metadata) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present in the block.
func (m *Metadata) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the property names in document order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Int decodes the value under key as a YAML integer scalar.
func (m *Metadata) Int(key string) (int, bool) {
	raw, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	var v int
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return 0, false
	}
	return v, true
}

// Float decodes the value under key as a YAML float scalar.
func (m *Metadata) Float(key string) (float64, bool) {
	raw, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	var v float64
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return 0, false
	}
	return v, true
}

// Bool decodes the value under key as a YAML boolean scalar.
func (m *Metadata) Bool(key string) (bool, bool) {
	raw, ok := m.Get(key)
	if !ok {
		return false, false
	}
	var v bool
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return false, false
	}
	return v, true
}

// String decodes the value under key as a YAML string scalar, unwrapping
// quoting if present.
func (m *Metadata) String(key string) (string, bool) {
	raw, ok := m.Get(key)
	if !ok {
		return "", false
	}
	var v string
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		// Non-string scalar; hand back the raw text.
		return raw, true
	}
	return v, true
}

// ParseMetadata reads the metadata block at document offset 0. A missing or
// malformed block yields (nil, false); per contract a malformed block is
// treated as absent rather than failing the caller.
func ParseMetadata(text string) (*Metadata, bool) {
	body, ok := metadataRegion(text)
	if !ok {
		return nil, false
	}
	m := &Metadata{values: make(map[string]string)}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, false
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, false
		}
		if _, dup := m.values[key]; !dup {
			m.keys = append(m.keys, key)
		}
		m.values[key] = strings.TrimSpace(value)
	}
	return m, true
}

// BlockEnd returns the byte offset just past the closing fence line, or 0
// when no well-formed block is present.
func BlockEnd(text string) int {
	if _, ok := metadataRegion(text); !ok {
		return 0
	}
	_, close := fenceOffsets(text)
	end := close + len(metadataFence)
	if end < len(text) && text[end] == '\n' {
		end++
	}
	return end
}

// UpsertField writes key: value into the metadata block and returns the
// updated document. An existing key is replaced in place; a new key is
// inserted immediately before the closing fence; a document without a block
// (or with a malformed one) gains a fresh block at offset 0. The block is
// never duplicated.
func UpsertField(text, key, value string) string {
	line := key + ": " + value
	if _, ok := metadataRegion(text); !ok {
		return metadataFence + "\n" + line + "\n" + metadataFence + "\n" + text
	}
	open, close := fenceOffsets(text)
	body := text[open+len(metadataFence)+1 : close]

	lines := strings.Split(body, "\n")
	replaced := false
	for i, l := range lines {
		k, _, found := strings.Cut(l, ":")
		if found && strings.TrimSpace(k) == key {
			lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		// Insert before the closing delimiter; body ends with a newline, so
		// the final element is the empty tail.
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines[n-1] = line
			lines = append(lines, "")
		} else {
			lines = append(lines, line)
		}
	}
	return text[:open+len(metadataFence)+1] + strings.Join(lines, "\n") + text[close:]
}

// metadataRegion returns the text between the fences when a well-formed
// block sits at offset 0.
func metadataRegion(text string) (string, bool) {
	open, close := fenceOffsets(text)
	if close < 0 {
		return "", false
	}
	return text[open+len(metadataFence)+1 : close], true
}

// fenceOffsets locates the opening fence at offset 0 and the start offset of
// the closing fence line. close is -1 when the block is absent or unclosed.
func fenceOffsets(text string) (open, close int) {
	if !strings.HasPrefix(text, metadataFence+"\n") {
		return 0, -1
	}
	rest := text[len(metadataFence)+1:]
	off := len(metadataFence) + 1
	for len(rest) > 0 {
		line := rest
		next := -1
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i]
			next = i + 1
		}
		if strings.TrimRight(line, "\r") == metadataFence {
			return 0, off
		}
		if next < 0 {
			break
		}
		rest = rest[next:]
		off += next
	}
	return 0, -1
}
