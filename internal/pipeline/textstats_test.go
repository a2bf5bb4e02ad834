package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	toks := Tokenize("Мой дед, Иван Петрович, воевал под Ржевом (1942).")
	assert.Equal(t, []string{"мой", "дед", "иван", "петрович", "воевал", "под", "ржевом", "1942"}, toks)
	assert.Empty(t, Tokenize("  ...  "))
}

func TestMATTRShortText(t *testing.T) {
	// Under the 50-word window the plain type-token ratio is used.
	assert.InDelta(t, 1.0, MATTR("один два три"), 1e-9)
	assert.InDelta(t, 0.5, MATTR("слово слово"), 1e-9)
	assert.Zero(t, MATTR(""))
}

func TestMATTRWindowed(t *testing.T) {
	// A single word repeated: every window holds one distinct type.
	text := strings.TrimSpace(strings.Repeat("слово ", 120))
	assert.InDelta(t, 1.0/50.0, MATTR(text), 1e-9)
}

func TestSentimentScore(t *testing.T) {
	assert.Positive(t, SentimentScore("Мы помним и гордимся нашим героем"))
	assert.Negative(t, SentimentScore("Погиб в бою, похоронен в братской могиле"))
	assert.Zero(t, SentimentScore("Служил в пехоте с июня"))
	assert.Zero(t, SentimentScore(""))

	// Balanced hits cancel out.
	assert.Zero(t, SentimentScore("герой погиб"))
}

func TestWordStats(t *testing.T) {
	chars, words, unique := WordStats("дед воевал, дед вернулся")
	assert.Equal(t, 24, chars)
	assert.Equal(t, 4, words)
	assert.Equal(t, 3, unique)
}
