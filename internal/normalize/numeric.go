package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Int reads the leading integer of a field, the way a lenient form parser
// would: "12" and "12abc" give 12, "12.7" gives 12, "-3" gives -3.
// Missing, empty or non-numeric input gives 0. Negative values are not
// clamped here; range checks belong to the domain validation.
func Int(f RawField) int {
	s, ok := f.Value()
	if !ok {
		return 0
	}
	return leadingInt(strings.TrimSpace(s))
}

func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of range for int
		return 0
	}
	return n
}

// WholeNumber parses the whole field as a number and drops any fraction:
// "1e1" gives 10, "12.7" gives 12, "12abc" gives 0. Missing, empty,
// malformed or out-of-range input gives 0.
func WholeNumber(f RawField) int {
	v := Float(f)
	if math.Abs(v) >= 1<<53 {
		return 0
	}
	return int(v)
}

// Float parses the whole field as a decimal number.
// Missing, empty, malformed, NaN or infinite input gives 0.
func Float(f RawField) float64 {
	s, ok := f.Value()
	if !ok {
		return 0
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp parses a date/time field. ok is false when the field is absent or
// blank. Bare integers are read as Unix milliseconds.
func Timestamp(f RawField) (t time.Time, ok bool, err error) {
	s, present := f.Value()
	s = strings.TrimSpace(s)
	if !present || s == "" {
		return time.Time{}, false, nil
	}
	if ms, convErr := strconv.ParseInt(s, 10, 64); convErr == nil {
		return time.UnixMilli(ms).UTC(), true, nil
	}
	for _, layout := range timestampLayouts {
		if parsed, parseErr := time.Parse(layout, s); parseErr == nil {
			return parsed.UTC(), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognised date %q", s)
}
