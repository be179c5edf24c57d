package airtable

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a single row of a table: the remote identifier plus the raw field
// map as the API returns it. Records are transient carriers between fetch and
// transformation, never long-lived state.
type Record struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

// StringField returns the named field rendered as a trimmed string. Missing
// fields come back empty.
func (r *Record) StringField(name string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return valueAsString(r.Fields[name])
}

// NumberField returns the named field as a float64, tolerating numbers that
// arrive as strings. Anything else comes back as zero.
func (r *Record) NumberField(name string) float64 {
	if r == nil || r.Fields == nil {
		return 0
	}

	switch v := r.Fields[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// LinkedTo reports whether the named link field contains the given identifier.
// Link fields hold a collection of identifiers, so this is a membership test.
// Decoded responses carry the collection as []any; locally built records may
// still hold []string.
func (r *Record) LinkedTo(name, id string) bool {
	if r == nil || r.Fields == nil || id == "" {
		return false
	}

	switch items := r.Fields[name].(type) {
	case []any:
		for _, item := range items {
			if valueAsString(item) == id {
				return true
			}
		}
	case []string:
		for _, item := range items {
			if strings.TrimSpace(item) == id {
				return true
			}
		}
	}

	return false
}

func valueAsString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
