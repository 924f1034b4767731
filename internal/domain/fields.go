package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Fields is the ordered string mapping extracted by the classifier. Key order
// follows the order in which the model emitted them.
type Fields struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewFields builds Fields from alternating key/value pairs.
func NewFields(kv ...string) Fields {
	f := Fields{m: orderedmap.New[string, string]()}
	for i := 0; i+1 < len(kv); i += 2 {
		f.m.Set(kv[i], kv[i+1])
	}
	return f
}

// Get returns the value for key and whether it was present.
func (f Fields) Get(key string) (string, bool) {
	if f.m == nil {
		return "", false
	}
	return f.m.Get(key)
}

// Value returns the value for key, or fallback when absent.
func (f Fields) Value(key, fallback string) string {
	if v, ok := f.Get(key); ok {
		return v
	}
	return fallback
}

// Text returns the value for key, or fallback when absent or blank.
func (f Fields) Text(key, fallback string) string {
	if v, ok := f.Get(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// Len returns the number of entries.
func (f Fields) Len() int {
	if f.m == nil {
		return 0
	}
	return f.m.Len()
}

// Keys returns keys in insertion order.
func (f Fields) Keys() []string {
	if f.m == nil {
		return nil
	}
	keys := make([]string, 0, f.m.Len())
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// With returns a copy of f with key set to value. Existing keys keep their
// position; new keys are appended.
func (f Fields) With(key, value string) Fields {
	out := Fields{m: orderedmap.New[string, string]()}
	if f.m != nil {
		for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
			out.m.Set(pair.Key, pair.Value)
		}
	}
	out.m.Set(key, value)
	return out
}

// MarshalJSON encodes the fields as a JSON object preserving order.
func (f Fields) MarshalJSON() ([]byte, error) {
	if f.m == nil {
		return []byte("{}"), nil
	}
	return f.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object. String values are taken verbatim,
// other scalars and nested values keep their JSON text, nulls are dropped.
func (f *Fields) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("fields: expected JSON object")
	}
	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("fields: %w", err)
	}
	out := orderedmap.New[string, string]()
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		value := bytes.TrimSpace(pair.Value)
		if len(value) == 0 || string(value) == "null" {
			continue
		}
		if value[0] == '"' {
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return fmt.Errorf("fields: key %q: %w", pair.Key, err)
			}
			out.Set(pair.Key, s)
			continue
		}
		out.Set(pair.Key, string(value))
	}
	f.m = out
	return nil
}
