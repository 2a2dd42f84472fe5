package tracker

import (
	"encoding/json"
	"strconv"
	"strings"
)

// toFloat coerces loosely typed upstream values to float64. The history
// endpoint returns velocidade (and sometimes coordinates) as strings.
func toFloat(v any, def float64) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return def
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// toString coerces a value to string, empty when absent or not a string.
func toString(v any) string {
	s, _ := v.(string)
	return s
}

// truthy applies the explicit ignition coercion rule: absent, null, false,
// zero, empty string, "0" and "false" are off; everything else is on.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s != "" && s != "0" && s != "false"
	default:
		return true
	}
}
