// Package feature defines the fixed feature schema and the aggregation that
// turns raw learning-activity tables into a feature vector.
package feature

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
)

// Base feature field names. The order below is the canonical schema order
// shared with the trained model and scaler artifacts.
const (
	FieldModulesCompleted = "total_modules_completed"
	FieldAvgDuration      = "avg_module_duration_seconds"
	FieldReviews          = "total_reviews"
	FieldActiveDays       = "total_active_days"
	FieldDailyStddev      = "daily_completion_stddev"
	FieldAvgExamScore     = "avg_exam_score"
	FieldExamPassRate     = "exam_pass_rate"
	FieldExamsTaken       = "total_exams_taken"
	FieldAvgSubmitRating  = "avg_submission_rating"
	FieldSubmissions      = "total_submissions"
)

// Categories is the fixed set of tutorial categories pivoted into
// per-category columns. Tutorial types outside this set are not part of the
// model contract and are skipped during the pivot.
var Categories = []string{"reading", "video", "practice"}

// DurationField returns the per-category mean duration column name.
func DurationField(category string) string { return "avg_duration_" + category }

// CountField returns the per-category completion count column name.
func CountField(category string) string { return "count_" + category }

// Schema is an ordered list of feature field names.
type Schema []string

// DefaultSchema returns the canonical schema: the base fields followed by
// the per-category duration and count columns.
func DefaultSchema() Schema {
	s := Schema{
		FieldModulesCompleted,
		FieldAvgDuration,
		FieldReviews,
		FieldActiveDays,
		FieldDailyStddev,
		FieldAvgExamScore,
		FieldExamPassRate,
		FieldExamsTaken,
		FieldAvgSubmitRating,
		FieldSubmissions,
	}
	for _, c := range Categories {
		s = append(s, DurationField(c))
	}
	for _, c := range Categories {
		s = append(s, CountField(c))
	}
	return s
}

// Index returns the position of a field in the schema, or -1.
func (s Schema) Index(field string) int {
	for i, f := range s {
		if f == field {
			return i
		}
	}
	return -1
}

// Equal reports whether two schemas have the same fields in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Vector is a fully populated feature vector over a fixed schema. The zero
// value for every field is 0; a Vector never has missing or extra fields.
type Vector struct {
	schema Schema
	values []float64
}

// NewVector returns an all-zero vector over the given schema.
func NewVector(schema Schema) Vector {
	return Vector{schema: schema, values: make([]float64, len(schema))}
}

// Schema returns the vector's schema.
func (v Vector) Schema() Schema { return v.schema }

// Len returns the number of fields.
func (v Vector) Len() int { return len(v.values) }

// Get returns the value of a named field, or 0 for a field outside the schema.
func (v Vector) Get(field string) float64 {
	if i := v.schema.Index(field); i >= 0 {
		return v.values[i]
	}
	return 0
}

// Set assigns a named field. Fields outside the schema are ignored.
func (v Vector) Set(field string, value float64) {
	if i := v.schema.Index(field); i >= 0 {
		v.values[i] = value
	}
}

// Values returns the raw values in schema order. The slice is a copy.
func (v Vector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Map returns the vector as a field-name map. Key order is not preserved by
// Go maps; use MarshalJSON when canonical order matters on the wire.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.values))
	for i, f := range v.schema {
		out[f] = v.values[i]
	}
	return out
}

// MarshalJSON renders the vector as a JSON object with keys in canonical
// schema order.
func (v Vector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range v.schema {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(v.values[i], 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
