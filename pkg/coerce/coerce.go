// Package coerce converts raw CSV cells into typed values. Malformed numeric
// cells never abort a build: they coerce to null and report a *Warning the
// caller may log or ignore.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedField matches every *Warning via errors.Is.
var ErrMalformedField = errors.New("malformed field")

// Warning describes one cell that failed coercion.
type Warning struct {
	Table  string
	Column string
	Line   int
	Value  string
	Reason string
}

func (w *Warning) Error() string {
	switch {
	case w.Table != "" && w.Column != "":
		return fmt.Sprintf("%s:%d column %q: %s (value %q)", w.Table, w.Line, w.Column, w.Reason, w.Value)
	case w.Column != "":
		return fmt.Sprintf("column %q: %s (value %q)", w.Column, w.Reason, w.Value)
	default:
		return fmt.Sprintf("%s (value %q)", w.Reason, w.Value)
	}
}

func (w *Warning) Is(target error) bool {
	return target == ErrMalformedField
}

func malformed(value, reason string) *Warning {
	return &Warning{Value: value, Reason: reason}
}

// isNull reports whether a cell stands for "no value".
func isNull(s string) bool {
	return s == "" || strings.EqualFold(s, "none")
}

// NullableNumber returns nil for empty cells and the literal "none". A cell
// that does not parse as a finite number also returns nil, together with a
// *Warning.
func NullableNumber(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if isNull(s) {
		return nil, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, malformed(s, "not a number")
	}
	return &n, nil
}

// NullableInt is NullableNumber restricted to integral values.
func NullableInt(s string) (*int, error) {
	n, err := NullableNumber(s)
	if n == nil || err != nil {
		return nil, err
	}
	if *n != math.Trunc(*n) {
		return nil, malformed(strings.TrimSpace(s), "not an integer")
	}
	if *n >= -float64(math.MinInt) || *n < math.MinInt {
		return nil, malformed(strings.TrimSpace(s), "out of integer range")
	}
	i := int(*n)
	return &i, nil
}

// NullableString returns nil for an empty cell.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Boolean is true iff the trimmed, lowercased cell equals "true".
func Boolean(s string) bool {
	return strings.ToLower(strings.TrimSpace(s)) == "true"
}

// Array splits a list cell. Cells starting with '[' are first tried as a
// JSON array, with single quotes read as double quotes; anything else is
// split on commas and pipes.
func Array(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	if strings.HasPrefix(s, "[") {
		if parsed, ok := jsonArray(strings.ReplaceAll(s, "'", `"`)); ok {
			return parsed
		}
	}
	return splitList(s, ",|")
}

func jsonArray(s string) ([]string, bool) {
	if !gjson.Valid(s) {
		return nil, false
	}
	res := gjson.Parse(s)
	if !res.IsArray() {
		return nil, false
	}
	out := []string{}
	res.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			out = append(out, strings.TrimSpace(v.Str))
		} else {
			out = append(out, strings.TrimSpace(v.Raw))
		}
		return true
	})
	return out, true
}

// SlugList splits a comma-only list cell.
func SlugList(s string) []string {
	return splitList(s, ",")
}

func splitList(s, seps string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses runs of non-alphanumerics into one
// hyphen and trims hyphens from both ends.
func Slugify(name string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// Stats parses "key:value" pairs separated by commas. Pairs without exactly
// one separator are skipped; non-numeric values count as 0 and are reported.
func Stats(s string) (map[string]float64, error) {
	stats := make(map[string]float64)
	var errs []error
	for _, pair := range SlugList(s) {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 {
			continue
		}
		key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			errs = append(errs, malformed(pair, "stat value is not a number"))
			n = 0
		}
		stats[key] = n
	}
	return stats, errors.Join(errs...)
}
