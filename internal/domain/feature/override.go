package feature

import (
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// FromOverride builds a vector directly from a caller-supplied feature map,
// bypassing aggregation. Fields absent from the override default to 0; keys
// outside the schema are ignored. A value that cannot be coerced to a number
// defaults to 0 and is counted in the returned failure count rather than
// failing the request.
func FromOverride(schema Schema, override map[string]any) (Vector, int) {
	v := NewVector(schema)
	failures := 0
	for _, field := range schema {
		raw, ok := override[field]
		if !ok {
			continue
		}
		val, ok := coerce(raw)
		if !ok {
			failures++
			continue
		}
		v.Set(field, val)
	}
	return v, failures
}

// coerce converts the value shapes a JSON body or config map can carry.
func coerce(raw any) (float64, bool) {
	switch x := raw.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
