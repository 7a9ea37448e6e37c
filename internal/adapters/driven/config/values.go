// Package config holds the typed lookups shared by the ConfigStore
// implementations.
package config

import "math"

// Values is a flat configuration keyed by dotted names such as
// "retrieval.top_k". Decoders hand back int64 and float64 for TOML numbers
// and []any for arrays; the getters absorb those differences.
type Values map[string]any

// String returns the string at key, or "".
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Int returns the integer at key. Floats count only when they hold a whole
// number, so 6.0 reads as 6 and 0.5 reads as 0.
func (v Values) Int(key string) int {
	switch n := v[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == math.Trunc(n) {
			return int(n)
		}
	}
	return 0
}

// Float returns the number at key, widening integers.
func (v Values) Float(key string) float64 {
	switch n := v[key].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Bool returns the boolean at key, or false.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// StringSlice returns the strings at key, skipping non-string elements.
func (v Values) StringSlice(key string) []string {
	switch s := v[key].(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
