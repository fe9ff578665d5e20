package server

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	errNotScalar    = errors.New("not a scalar value")
	errNotInteger   = errors.New("not an integer")
	errNotFinite    = errors.New("not a finite number")
	errNotTimestamp = errors.New("not a timestamp")
	errOutOfRange   = errors.New("out of range")
	errEmptyNumber  = errors.New("empty number")
	errNotNumeric   = errors.New("not a number")
)

// timestampLayouts are the ISO 8601 forms accepted for Datetime. A fractional
// second after the seconds field parses with every layout that has seconds.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02 15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// textValue renders a decoded JSON scalar in its text form.
func textValue(v any) (string, error) {
	switch v.(type) {
	case map[string]any, []any:
		return "", errNotScalar
	}
	return cast.ToStringE(v)
}

func intValue(v any, bits int) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, errNotInteger
		}
		if bits == 32 && (n < math.MinInt32 || n > math.MaxInt32) {
			return 0, errOutOfRange
		}
		if n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, errOutOfRange
		}
		return int64(n), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, errEmptyNumber
		}
		return strconv.ParseInt(s, 10, bits)
	default:
		return 0, fmt.Errorf("%w: %T", errNotNumeric, v)
	}
}

func floatValue(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, errEmptyNumber
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %T", errNotNumeric, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

// timestampValue parses Datetime. Values without an offset are read as UTC.
func timestampValue(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, errNotTimestamp
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errNotTimestamp, s)
}
