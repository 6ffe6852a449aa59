package question

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// present reports whether a decoded JSON value counts as supplied: null,
// false, zero, "" and empty collections do not.
func present(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case float64:
		return val != 0
	case string:
		return val != ""
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return true
	}
}

func coerceText(field string, v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%s: cannot store %T as text", field, v)
	}
}

func coerceInt32(field string, v interface{}) (int32, error) {
	var f float64
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return checkInt32(field, n)
		}
		parsed, err := val.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", field, err)
		}
		f = parsed
	case float64:
		f = val
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid integer %q", field, val)
		}
		return checkInt32(field, n)
	default:
		return 0, fmt.Errorf("%s: cannot store %T as integer", field, v)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: %v is not an integer", field, f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%s: %v out of range", field, f)
	}
	return int32(f), nil
}

func checkInt32(field string, n int64) (int32, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%s: %d out of range", field, n)
	}
	return int32(n), nil
}
