package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var yearRe = regexp.MustCompile(`\d{4}`)

// ParseYear extracts the first 4-digit year from a free-form date string.
// Returns 0 when none is found. Memorial dates come in every imaginable
// shape ("1923", "05.03.1923", "март 1923 г."), so only the year is trusted.
func ParseYear(s string) int {
	m := yearRe.FindString(s)
	if m == "" {
		return 0
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return y
}

// dateLayouts are tried in order when parsing publication dates.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"02.01.2006",
	"2006/01/02",
}

// ParseDate parses a publication timestamp. The zero time means missing.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseCount parses a non-negative integer count field.
// The second return is false for missing or non-numeric values.
func ParseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, true
	}
	// Some exports carry counts as floats ("3.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(f), true
	}
	return 0, false
}

// CleanHeader normalizes a CSV header cell: trims whitespace, strips
// quotes and a UTF-8 BOM, and lowercases.
func CleanHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.ReplaceAll(h, `"`, "")
	return strings.ToLower(h)
}

// FirstSegment returns the part of a place string before the first comma,
// trimmed. Region columns often carry "Регион, район, село"; only the
// region part is comparable across cards.
func FirstSegment(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Round3 rounds to three decimals, the precision published for all
// derived scores.
func Round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
