// Package normalize provides utilities for normalizing and coercing user and catalogue input.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// UnknownAuthor is used when a catalogue record carries no authors.
const UnknownAuthor = "Unknown"

var yearPattern = regexp.MustCompile(`\d{4}`)

// CleanISBN strips everything but ASCII digits from a raw identifier.
// "978-0-441-17271-9" -> "9780441172719". The result may be empty.
func CleanISBN(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ISBNInput normalizes an ISBN typed into a form.
// Blank input and the literal "none" (any case) both mean the copy has no ISBN recorded.
// Anything else is kept as typed.
func ISBNInput(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "none") {
		return ""
	}
	return raw
}

// OptionalText returns "" for blank input and the input unchanged otherwise.
func OptionalText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return raw
}

// FormatAuthorName converts "First Middle Last" into "Last, First Middle".
// Single-token names are returned trimmed but otherwise unchanged.
func FormatAuthorName(name string) string {
	parts := strings.Split(strings.TrimSpace(name), " ")
	if len(parts) < 2 {
		// Single names come back trimmed, not as received.
		return strings.TrimSpace(name)
	}
	last := parts[len(parts)-1]
	first := strings.Join(parts[:len(parts)-1], " ")
	return last + ", " + first
}

// FormatAuthors formats each name with FormatAuthorName and joins them with " & ".
// An empty list yields UnknownAuthor.
func FormatAuthors(names []string) string {
	if len(names) == 0 {
		return UnknownAuthor
	}
	formatted := make([]string, len(names))
	for i, name := range names {
		formatted[i] = FormatAuthorName(name)
	}
	return strings.Join(formatted, " & ")
}

// ExtractYear returns the first run of four digits in a free-form date,
// e.g. "June 1965" -> 1965. It returns nil when there is none.
func ExtractYear(date string) *int {
	match := yearPattern.FindString(date)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}

// OptionalInt parses an integer field. Blank input means unset.
func OptionalInt(raw string) (*int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", raw)
	}
	return &v, nil
}

// OptionalFloat parses a real-valued field. Blank input means unset.
func OptionalFloat(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return &v, nil
}
