package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotANumber = errors.New("not a number")

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// IsNull reports a missing or JSON null value.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func unquote(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(trimmed), nil
}

// ParseJSONInt accepts 3, 3.0 and "3"; fractions, values outside int64 and
// other types fail.
func ParseJSONInt(raw json.RawMessage) (int64, error) {
	if IsNull(raw) {
		return 0, ErrNotANumber
	}
	s, err := unquote(raw)
	if err != nil || s == "" {
		return 0, ErrNotANumber
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() || d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return 0, ErrNotANumber
	}
	return d.IntPart(), nil
}

// ParseJSONDecimal accepts a JSON number or a numeric string.
func ParseJSONDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	if IsNull(raw) {
		return decimal.Zero, ErrNotANumber
	}
	s, err := unquote(raw)
	if err != nil || s == "" {
		return decimal.Zero, ErrNotANumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}
	return d, nil
}

// ParseJSONString accepts strings and, for convenience, bare numbers.
func ParseJSONString(raw json.RawMessage) (string, bool) {
	if IsNull(raw) {
		return "", false
	}
	trimmed := bytes.TrimSpace(raw)
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[', 't', 'f':
		return "", false
	default:
		return string(trimmed), true
	}
}
