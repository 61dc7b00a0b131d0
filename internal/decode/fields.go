package decode

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// stringField returns the string at key. Missing and null values are empty.
func stringField(f map[string]json.RawMessage, key string) (string, error) {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("expected string: %w", err)
	}
	return s, nil
}

// stringsField returns the string list at key. Missing and null values give
// an empty, non-nil slice.
func stringsField(f map[string]json.RawMessage, key string) ([]string, error) {
	out := []string{}
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return out, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out, fmt.Errorf("expected array: %w", err)
	}
	var bad int
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			bad++
			continue
		}
		out = append(out, s)
	}
	if bad > 0 {
		return out, fmt.Errorf("%d non-string elements skipped", bad)
	}
	return out, nil
}

// numberField accepts JSON numbers and numeric strings. Missing and null
// values are 0.
func numberField(f map[string]json.RawMessage, key string) (float64, error) {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return 0, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected number")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("expected numeric string, got %q", s)
	}
	return n, nil
}

// unixTimeField reads a Unix timestamp in seconds. Missing, null and 0 give
// the zero time.
func unixTimeField(f map[string]json.RawMessage, key string) (time.Time, error) {
	n, err := numberField(f, key)
	if err != nil {
		return time.Time{}, err
	}
	if n == 0 {
		return time.Time{}, nil
	}
	if n < 0 || n > math.MaxInt32*4 {
		return time.Time{}, fmt.Errorf("timestamp %v out of range", n)
	}
	sec, frac := math.Modf(n)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))), nil
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
}

// parseISOTime parses the ISO-8601 forms the official API emits
func parseISOTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// rawTimestamp is the display fallback for a timestamp that did not parse
func rawTimestamp(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "T", " "), "Z", "")
}
