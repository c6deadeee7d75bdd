package store

import (
	"encoding/json"
	"fmt"
)

// Encode round-trips a typed document into the generic map form stored by
// the memory and sqlite backends.
func Encode(doc any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return m, nil
}

// Decode fills a typed document from the generic map form.
func Decode(m map[string]any, out any) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// MergeFields deep-merges src into dst. Non-empty nested maps merge
// recursively; anything else, including an explicit empty map, overwrites.
// Matches how the firestore backend treats set-with-merge values.
func MergeFields(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok && len(sv) > 0 {
			if dv, ok := dst[k].(map[string]any); ok {
				MergeFields(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}

// SetField writes a value at a nested path inside a generic document,
// creating intermediate maps as needed.
func SetField(doc map[string]any, path []string, value any) {
	for len(path) > 1 {
		next, ok := doc[path[0]].(map[string]any)
		if !ok {
			next = map[string]any{}
			doc[path[0]] = next
		}
		doc = next
		path = path[1:]
	}
	doc[path[0]] = value
}
