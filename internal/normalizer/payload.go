package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Payload is a decoded JSON value as produced by encoding/json or
// structpb.Value.AsInterface: map[string]any, []any, float64, string, bool or nil.
type Payload = any

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// asArray reports whether v is a non-nil JSON array. Typed slices are accepted
// so Go callers can build payloads without boxing every element.
func asArray(v any) ([]any, bool) {
	switch a := v.(type) {
	case []any:
		return a, a != nil
	case []map[string]any:
		if a == nil {
			return nil, false
		}
		out := make([]any, len(a))
		for i := range a {
			out[i] = a[i]
		}
		return out, true
	case []float64:
		if a == nil {
			return nil, false
		}
		out := make([]any, len(a))
		for i := range a {
			out[i] = a[i]
		}
		return out, true
	case []string:
		if a == nil {
			return nil, false
		}
		out := make([]any, len(a))
		for i := range a {
			out[i] = a[i]
		}
		return out, true
	}
	return nil, false
}

func arrayField(obj map[string]any, key string) ([]any, bool) {
	if obj == nil {
		return nil, false
	}
	return asArray(obj[key])
}

// number coerces JSON numbers and numeric strings. NaN and infinities are
// rejected so they fall through to the default chain.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// firstNumber returns the first key of obj holding a number, else 0.
func firstNumber(obj map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := number(obj[k]); ok {
			return f
		}
	}
	return 0
}

// firstRating is firstNumber for 1-5 ratings, where a zero marks a missing
// answer and falls through to the next key.
func firstRating(obj map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := number(obj[k]); ok && f != 0 {
			return f
		}
	}
	return 0
}

// firstString returns the first key of obj holding a non-blank string.
func firstString(obj map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// Section unwraps one keyed envelope of a backend response. It returns
// payload[key].data when present, payload[key] otherwise, and nil when the key
// is missing, which the detector classifies as Empty.
func Section(payload Payload, key string) Payload {
	obj, ok := asObject(payload)
	if !ok {
		return nil
	}
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	if inner, ok := asObject(v); ok {
		if data, ok := inner["data"]; ok && data != nil {
			return data
		}
	}
	return v
}
