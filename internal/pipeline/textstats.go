package pipeline

import (
	"strings"
	"unicode"
)

// mattrWindow is the moving-average type-token ratio window size.
const mattrWindow = 50

// Tokenize splits text into lowercased word tokens. Anything that is not
// a letter or digit separates tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// MATTR computes the moving-average type-token ratio with the standard
// window of 50 words. Texts shorter than the window fall back to the
// plain type-token ratio.
func MATTR(text string) float64 {
	words := Tokenize(text)
	if len(words) == 0 {
		return 0
	}
	if len(words) < mattrWindow {
		return ttr(words)
	}

	// Sliding window with incremental counts instead of re-hashing
	// every chunk; the 50K-narrative corpus makes the naive version
	// noticeably slow.
	counts := make(map[string]int, mattrWindow)
	distinct := 0
	for _, w := range words[:mattrWindow] {
		if counts[w] == 0 {
			distinct++
		}
		counts[w]++
	}
	sum := float64(distinct)
	for i := mattrWindow; i < len(words); i++ {
		out := words[i-mattrWindow]
		counts[out]--
		if counts[out] == 0 {
			distinct--
		}
		in := words[i]
		if counts[in] == 0 {
			distinct++
		}
		counts[in]++
		sum += float64(distinct)
	}
	windows := len(words) - mattrWindow + 1
	return sum / float64(mattrWindow) / float64(windows)
}

func ttr(words []string) float64 {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}

// Sentiment lexicon. Stems, matched by prefix against tokens, so
// "гордимся"/"гордились" both hit "горд". The positive list leans toward
// family-memory vocabulary and the negative toward loss and captivity,
// which keeps the expected ordering of narrative types
// (family story > memoir > mixed > form entry).
var positiveStems = []string{
	"помним", "горд", "люб", "герой", "геро", "побед", "слав",
	"награжд", "вернулс", "мирн", "счаст", "благодар", "дорог", "светл",
}

var negativeStems = []string{
	"погиб", "пропал", "плен", "ранен", "убит", "умер", "тяжел", "тяжёл",
	"лагер", "госпитал", "потер", "похорон", "могил", "безвест",
}

// SentimentScore scores a narrative in [-1, 1] from lexicon stem hits.
// Zero hits yield a neutral 0.
func SentimentScore(text string) float64 {
	words := Tokenize(text)
	if len(words) == 0 {
		return 0
	}
	var pos, neg int
	for _, w := range words {
		if hasAnyPrefix(w, positiveStems) {
			pos++
		} else if hasAnyPrefix(w, negativeStems) {
			neg++
		}
	}
	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

func hasAnyPrefix(w string, stems []string) bool {
	for _, s := range stems {
		if strings.HasPrefix(w, s) {
			return true
		}
	}
	return false
}

// WordStats returns character, word and unique-word counts for a story.
func WordStats(text string) (chars, words, unique int) {
	chars = len([]rune(text))
	toks := Tokenize(text)
	words = len(toks)
	seen := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		seen[t] = struct{}{}
	}
	return chars, words, len(seen)
}
