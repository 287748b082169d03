package dotosu

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Strict parsers used by the hit object and timing point grammars. They report
// NumericFormat with the field name on any bad token.

func parseUint[T constraints.Unsigned](s, field string) (T, error) {
	var zero T
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 10, bitSize[T]())
	if err != nil {
		return zero, &DecodeError{Kind: NumericFormat, Field: field, Msg: "expected unsigned integer, got " + strconv.Quote(s)}
	}
	return T(v), nil
}

func parseSigned[T constraints.Signed](s, field string) (T, error) {
	var zero T
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 10, bitSize[T]())
	if err != nil {
		return zero, &DecodeError{Kind: NumericFormat, Field: field, Msg: "expected integer, got " + strconv.Quote(s)}
	}
	return T(v), nil
}

func parseFloat64(s, field string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &DecodeError{Kind: NumericFormat, Field: field, Msg: "expected number, got " + strconv.Quote(s)}
	}
	return v, nil
}

func bitSize[T constraints.Integer]() int {
	var v T
	switch any(v).(type) {
	case int8, uint8:
		return 8
	case int16, uint16:
		return 16
	case int32, uint32:
		return 32
	default:
		return 64
	}
}

// Lenient parsers for the flat Key: Value sections: a bad value keeps the default.

func splitKeyVal(line string) (key, val string) {
	k, v, ok := strings.Cut(line, ":")
	if !ok {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(k), strings.TrimSpace(v)
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseBoolInt(s string, def bool) bool {
	switch strings.TrimSpace(s) {
	case "1":
		return true
	case "0":
		return false
	default:
		return def
	}
}
