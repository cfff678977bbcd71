package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ISODate is the layout used for dates on the command line and in output file names.
const ISODate = "2006-01-02"

// secDateLayouts are the two formats seen in the insider transaction datasets:
// "02-JAN-2024" in the TSV files and ISO dates in the XBRL documents.
var secDateLayouts = []string{"02-Jan-2006", ISODate}

// ParseSECDate parses a dataset date. Empty or unparsable input returns false.
func ParseSECDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range secDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf drops the clock part of t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Quarter is a calendar quarter, e.g. 2024Q3.
type Quarter struct {
	Year    int
	Quarter int
}

// QuarterOf returns the quarter containing t.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Quarter: (int(t.Month())-1)/3 + 1}
}

// ParseQuarter parses "YYYYQn" (case-insensitive), n in 1..4.
func ParseQuarter(s string) (Quarter, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 6 || s[4] != 'Q' {
		return Quarter{}, fmt.Errorf("invalid quarter %q: want YYYYQn", s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return Quarter{}, fmt.Errorf("invalid quarter year %q: %w", s[:4], err)
	}
	q := int(s[5] - '0')
	if q < 1 || q > 4 {
		return Quarter{}, fmt.Errorf("invalid quarter number in %q", s)
	}
	return Quarter{Year: year, Quarter: q}, nil
}

// Prev returns the quarter before q.
func (q Quarter) Prev() Quarter {
	if q.Quarter == 1 {
		return Quarter{Year: q.Year - 1, Quarter: 4}
	}
	return Quarter{Year: q.Year, Quarter: q.Quarter - 1}
}

// String formats the quarter as "2024Q3".
func (q Quarter) String() string {
	return fmt.Sprintf("%dQ%d", q.Year, q.Quarter)
}

// RecentQuarters lists n quarters, newest first, starting with the one containing t.
func RecentQuarters(t time.Time, n int) []Quarter {
	out := make([]Quarter, 0, n)
	q := QuarterOf(t)
	for i := 0; i < n; i++ {
		out = append(out, q)
		q = q.Prev()
	}
	return out
}
