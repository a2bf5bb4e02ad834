package pipeline

import (
	"strings"

	"go-memorial-analytics/internal/model"
)

// TopicCount is fixed: the seven themes of the memorial corpus.
const TopicCount = 7

// Topic is one narrative theme with its seed vocabulary.
type Topic struct {
	ID    int
	Label string
	Words []model.TopicWord
}

// Topics holds the fixed seven-topic model. Seed words and weights are
// the published per-topic vocabularies; assignment is deterministic
// weighted stem matching, so topic boundaries reproduce exactly across
// builds without a trained model.
var Topics = buildTopics()

func buildTopics() []Topic {
	defs := []struct {
		label string
		words []struct {
			w      string
			weight float64
		}
	}{
		{"Боевой путь", seeds("фронт", 0.08, "бой", 0.07, "наступлени", 0.06, "дивизи", 0.05, "полк", 0.05, "батальон", 0.04, "командир", 0.04, "позици", 0.03)},
		{"Награды", seeds("орден", 0.09, "медал", 0.08, "отечественной", 0.06, "красной", 0.05, "звезды", 0.05, "славы", 0.04, "награжд", 0.04, "степени", 0.03)},
		{"Семья", seeds("семь", 0.08, "дети", 0.06, "жен", 0.05, "сын", 0.05, "дочь", 0.04, "внук", 0.04, "помним", 0.04, "родны", 0.03)},
		{"Плен/гибель", seeds("погиб", 0.09, "пропал", 0.07, "безвести", 0.06, "плен", 0.05, "лагер", 0.04, "захоронен", 0.04, "братск", 0.03, "могил", 0.03)},
		{"Мобилизация", seeds("призван", 0.09, "военкомат", 0.07, "район", 0.05, "област", 0.05, "отправлен", 0.04, "обучени", 0.04, "курс", 0.03, "запас", 0.03)},
		{"Ранения", seeds("ранен", 0.09, "госпитал", 0.07, "ранени", 0.06, "тяжёл", 0.05, "контузи", 0.04, "лечени", 0.04, "эвакуирован", 0.03, "инвалид", 0.03)},
		{"Труд/тыл", seeds("работал", 0.08, "завод", 0.06, "труд", 0.05, "тыл", 0.05, "колхоз", 0.04, "производств", 0.04, "строительств", 0.03, "восстановлени", 0.03)},
	}

	topics := make([]Topic, len(defs))
	for i, d := range defs {
		t := Topic{ID: i, Label: d.label}
		for _, s := range d.words {
			t.Words = append(t.Words, model.TopicWord{
				TopicID:    i,
				TopicLabel: d.label,
				Word:       s.w,
				Weight:     s.weight,
			})
		}
		topics[i] = t
	}
	return topics
}

func seeds(pairs ...any) []struct {
	w      string
	weight float64
} {
	out := make([]struct {
		w      string
		weight float64
	}, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, struct {
			w      string
			weight float64
		}{pairs[i].(string), pairs[i+1].(float64)})
	}
	return out
}

// TopicWordRows flattens the topic model into its persisted table form.
func TopicWordRows() []model.TopicWord {
	var rows []model.TopicWord
	for _, t := range Topics {
		rows = append(rows, t.Words...)
	}
	return rows
}

// AssignTopic scores a narrative against every topic and returns the id
// of the best match. Score is Σ weight × stem occurrences; ties resolve
// to the lowest topic id. The bool is false when no seed word occurs at
// all, in which case the narrative carries no topic signal and is
// excluded from topic shares.
func AssignTopic(story string) (int, bool) {
	words := Tokenize(story)
	if len(words) == 0 {
		return 0, false
	}

	var scores [TopicCount]float64
	for _, w := range words {
		for _, t := range Topics {
			for _, seed := range t.Words {
				if strings.HasPrefix(w, seed.Word) {
					scores[t.ID] += seed.Weight
				}
			}
		}
	}

	best, bestScore := 0, 0.0
	for id, s := range scores {
		if s > bestScore {
			best, bestScore = id, s
		}
	}
	if bestScore == 0 {
		return 0, false
	}
	return best, true
}
