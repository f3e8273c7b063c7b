// Package metadata models the loosely-typed document returned by the
// extraction engine for one media item.
//
// The engine's output has no fixed schema: fields may be absent, null, or of
// an unexpected type depending on the extractor. Every accessor is therefore
// defensive and returns a zero value instead of panicking.
package metadata

import (
	"fmt"
	"strings"
)

// Info is one engine result: an arbitrarily nested mapping.
// It is produced once by the engine and treated as read-only.
type Info map[string]any

// String returns the value at key if it is a non-empty string.
func (i Info) String(key string) string {
	if v, ok := i[key].(string); ok {
		return v
	}
	return ""
}

// Stringify returns the value at key rendered as text, or fallback when the
// key is absent, null, or renders empty. Used for fields like "id" that some
// extractors emit as numbers.
func (i Info) Stringify(key, fallback string) string {
	v, ok := i[key]
	if !ok || v == nil {
		return fallback
	}
	switch v.(type) {
	case map[string]any, []any:
		return fallback
	}
	text := fmt.Sprint(v)
	if text == "" {
		return fallback
	}
	return text
}

// Float returns the value at key if it is numeric.
func (i Info) Float(key string) (float64, bool) {
	switch v := i[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// List returns the value at key if it is a list.
func (i Info) List(key string) []any {
	if v, ok := i[key].([]any); ok {
		return v
	}
	return nil
}

// Maps returns the list at key filtered down to its mapping elements.
func (i Info) Maps(key string) []Info {
	var out []Info
	for _, item := range i.List(key) {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Info(m))
		}
	}
	return out
}

// Headers returns the normalized header mapping stored at key.
func (i Info) Headers(key string) map[string]string {
	return NormalizeHeaders(i[key])
}

// Truthy reports whether a decoded JSON value carries content: null, false,
// zero numbers and empty strings, lists and mappings do not.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return true
}

// IsHTTPURL reports whether value is a string holding an absolute http or https URL.
func IsHTTPURL(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// NormalizeHeaders projects a raw header mapping into trimmed string pairs.
// Non-string keys or values and pairs that trim to empty are dropped.
func NormalizeHeaders(raw any) map[string]string {
	headers := map[string]string{}

	add := func(key string, value any) {
		text, ok := value.(string)
		if !ok {
			return
		}
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(text)
		if k == "" || v == "" {
			return
		}
		headers[k] = v
	}

	switch m := raw.(type) {
	case map[string]any:
		for k, v := range m {
			add(k, v)
		}
	case map[string]string:
		for k, v := range m {
			add(k, v)
		}
	}
	return headers
}
