// Package utils provides small helpers shared across insiderscan: date and
// quarter parsing, rounding, number formatting, and ticker normalization.
package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// ParseFloat parses a numeric dataset cell. Blank or non-numeric input returns false.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// FormatFloat renders v in its shortest round-trip form, always with a
// fractional part: 1500000 → "1500000.0", 16.6667 → "16.6667".
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatFloatComma is FormatFloat with a comma as decimal separator, for
// spreadsheets in locales that read "1,5" as one and a half.
func FormatFloatComma(v float64) string {
	return strings.Replace(FormatFloat(v), ".", ",", 1)
}

// FormatCount renders a whole quantity such as a share count without a fractional part.
func FormatCount(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e18 {
		return strconv.FormatInt(int64(v), 10)
	}
	return FormatFloat(v)
}

// Truncate cuts s to limit-1 characters followed by "..." when it is longer than limit.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "..."
}
