package pipeline

import (
	"strings"

	"go-memorial-analytics/internal/model"
	"go-memorial-analytics/pkg/utils"
)

var officerKeywords = []string{"лейтенант", "капитан", "майор", "полковник", "генерал", "маршал", "командир"}

var ncoKeywords = []string{"сержант", "старшина", "ефрейтор"}

var privateKeywords = []string{"рядовой", "красноармеец", "солдат"}

// firstPersonMarkers signal a family-written narrative.
var firstPersonMarkers = []string{"я помню", "мой дед", "моя бабушка", "наш", "мой отец", "мой прадед"}

// Derive fills the computed fields of a card in place.
func Derive(c *model.Card) {
	c.PubTime = utils.ParseDate(c.PubDate)
	c.BirthYear = utils.ParseYear(c.Birthday)
	c.DeathYear = utils.ParseYear(c.Death)
	c.RankGroup = RankGroup(c.Rank)
	c.NarrativeType = ClassifyNarrative(c)
}

// RankGroup buckets a free-text rank into the four demographic groups.
func RankGroup(rank string) string {
	if strings.TrimSpace(rank) == "" {
		return model.RankUnknown
	}
	r := strings.ToLower(rank)
	for _, k := range officerKeywords {
		if strings.Contains(r, k) {
			return model.RankOfficers
		}
	}
	for _, k := range ncoKeywords {
		if strings.Contains(r, k) {
			return model.RankNCOs
		}
	}
	for _, k := range privateKeywords {
		if strings.Contains(r, k) {
			return model.RankPrivates
		}
	}
	return model.RankOther
}

// ClassifyNarrative assigns one of the four narrative types.
// Thresholds follow the published methodology: under 100 characters is a
// bare form entry; first-person text over 500 characters is a family
// story; over 1000 characters with battle data is a memoir.
func ClassifyNarrative(c *model.Card) string {
	story := c.Story
	length := len([]rune(story))
	if length < 100 {
		return model.NarrativeForm
	}

	lower := strings.ToLower(story)
	firstPerson := false
	for _, m := range firstPersonMarkers {
		if strings.Contains(lower, m) {
			firstPerson = true
			break
		}
	}
	hasBattles := len([]rune(c.Battles)) > 5

	switch {
	case firstPerson && length > 500:
		return model.NarrativeFamily
	case length > 1000 && hasBattles:
		return model.NarrativeMemoir
	case firstPerson || length > 300:
		return model.NarrativeMixed
	default:
		return model.NarrativeForm
	}
}
