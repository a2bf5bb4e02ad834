package search

import (
	"strings"
)

// Snippet window size in runes on either side of the first match.
const (
	snippetBefore = 60
	snippetAfter  = 160
)

// Snippet extracts a story excerpt around the first term occurrence and
// wraps every matched term in <mark> tags. Stories without a match (or
// without text) yield a plain leading excerpt.
func Snippet(story string, terms []string) string {
	if story == "" {
		return ""
	}
	runes := []rune(story)
	lowered := []rune(strings.ToLower(story))
	if len(lowered) != len(runes) {
		// Lowercasing changed the rune count, offsets no longer line
		// up. Give up on highlighting.
		return clip(runes, 0, snippetBefore+snippetAfter, false, len(runes) > snippetBefore+snippetAfter)
	}

	first := firstMatch(lowered, terms)
	start, end := 0, len(runes)
	if first >= 0 {
		start = first - snippetBefore
		if start < 0 {
			start = 0
		}
		end = first + snippetAfter
		if end > len(runes) {
			end = len(runes)
		}
	} else if end > snippetBefore+snippetAfter {
		end = snippetBefore + snippetAfter
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("…")
	}
	i := start
	for i < end {
		if n := matchLen(lowered, i, terms); n > 0 {
			b.WriteString("<mark>")
			b.WriteString(string(runes[i : i+n]))
			b.WriteString("</mark>")
			i += n
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	if end < len(runes) {
		b.WriteString("…")
	}
	return b.String()
}

func clip(runes []rune, start, end int, pre, post bool) string {
	if end > len(runes) {
		end = len(runes)
	}
	var b strings.Builder
	if pre {
		b.WriteString("…")
	}
	b.WriteString(string(runes[start:end]))
	if post {
		b.WriteString("…")
	}
	return b.String()
}

func firstMatch(lowered []rune, terms []string) int {
	for i := range lowered {
		if matchLen(lowered, i, terms) > 0 {
			return i
		}
	}
	return -1
}

// matchLen reports the rune length of the longest term starting at
// position i, or 0 when no term matches there.
func matchLen(lowered []rune, i int, terms []string) int {
	best := 0
	for _, term := range terms {
		tr := []rune(term)
		if len(tr) == 0 || len(tr) <= best || i+len(tr) > len(lowered) {
			continue
		}
		ok := true
		for j, r := range tr {
			if lowered[i+j] != r {
				ok = false
				break
			}
		}
		if ok {
			best = len(tr)
		}
	}
	return best
}
