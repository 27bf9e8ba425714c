package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseInt converts various types to int64 using explicit type switching.
// Strings and byte slices are trimmed first. Floats and numeric strings are
// accepted only when they hold an integral value. ok is false otherwise.
func ParseInt(val any) (n int64, ok bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		return integral(v)
	case float32:
		return integral(float64(v))
	case string:
		return parseIntString(v)
	case []byte:
		return parseIntString(string(v))
	default:
		return 0, false
	}
}

func parseIntString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return integral(f)
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// ParseFloat converts various types to float64. NaN and infinities are
// rejected so they never reach storage.
func ParseFloat(val any) (f float64, ok bool) {
	switch v := val.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case string, []byte:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(ToString(v)), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		n, isInt := ParseInt(val)
		if !isInt {
			return 0, false
		}
		f = float64(n)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool reports whether val is the boolean true or the string "true".
// Every other value, including "1" and "TRUE", is false.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	case []byte:
		return string(v) == "true"
	default:
		return false
	}
}

// ToStringSlice converts a list value to []string. It accepts []string and
// []any whose elements are all strings; ok is false for anything else.
func ToStringSlice(val any) (out []string, ok bool) {
	switch v := val.(type) {
	case []string:
		return append([]string{}, v...), true
	case []any:
		out = make([]string, 0, len(v))
		for _, item := range v {
			s, isStr := item.(string)
			if !isStr {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// ParseTime converts an RFC 3339 string, a time.Time or a millisecond Unix
// epoch (numeric or numeric string) into a UTC time.
func ParseTime(val any) (time.Time, bool) {
	switch v := val.(type) {
	case time.Time:
		return v.UTC(), true
	case string, []byte:
		s := strings.TrimSpace(ToString(v))
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC(), true
		}
		if ms, ok := ParseInt(s); ok {
			return time.UnixMilli(ms).UTC(), true
		}
		return time.Time{}, false
	default:
		ms, ok := ParseInt(val)
		if !ok {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}
}
