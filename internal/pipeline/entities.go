package pipeline

import (
	"sort"
	"strings"

	"go-memorial-analytics/internal/model"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Gazetteer vocabularies for entity extraction: wartime place names and
// military organizations known to appear in the corpus. Scanning counts
// actual mentions; the lists only bound what can be recognized.
var gazetteerLocations = []string{
	"Москва", "Сталинград", "Ленинград", "Курск", "Берлин", "Киев",
	"Минск", "Смоленск", "Варшава", "Прага", "Будапешт", "Вена",
	"Харьков", "Одесса", "Севастополь", "Брест", "Ржев", "Орёл",
	"Кёнигсберг", "Днепропетровск", "Воронеж", "Тула", "Новгород",
	"Псков", "Витебск", "Ростов-на-Дону", "Новороссийск", "Керчь",
	"Мурманск", "Вязьма",
}

var gazetteerOrgs = []string{
	"Красная Армия", "РККА", "ВМФ", "НКВД", "ВВС", "Партизанский отряд",
	"Гвардейская дивизия", "Стрелковая дивизия", "Танковая бригада",
	"Артиллерийский полк", "Пехотный полк", "Кавалерийский корпус",
	"Военный госпиталь", "Сапёрный батальон", "Зенитная батарея",
	"Морская пехота", "Штурмовой полк", "Разведрота",
	"Инженерная бригада", "Связной батальон", "Военкомат",
	"Запасной полк", "Учебный полк", "Эвакогоспиталь", "Медсанбат",
	"Транспортная рота", "Штаб фронта", "Особый отдел", "Автобат",
	"Понтонная рота",
}

// EntityScanner counts gazetteer mentions in narrative text using a
// single Aho–Corasick automaton over all surface forms.
type EntityScanner struct {
	ac       ahocorasick.AhoCorasick
	patterns []string // lowercased surface forms, automaton order
	display  []string // original casing per pattern
	counts   map[string]int
	kindOf   map[string]string
}

// NewEntityScanner builds the automaton from the gazetteer.
func NewEntityScanner() *EntityScanner {
	s := &EntityScanner{
		counts: make(map[string]int),
		kindOf: make(map[string]string),
	}
	add := func(names []string, kind string) {
		for _, n := range names {
			s.patterns = append(s.patterns, strings.ToLower(n))
			s.display = append(s.display, n)
			s.kindOf[n] = kind
		}
	}
	add(gazetteerLocations, "LOC")
	add(gazetteerOrgs, "ORG")

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		MatchOnlyWholeWords: true,
		MatchKind:           ahocorasick.LeftMostLongestMatch,
	})
	s.ac = builder.Build(s.patterns)
	return s
}

// Scan counts all gazetteer mentions in one narrative.
// Matching is case-insensitive via lowercase normalization; the
// automaton itself only folds ASCII.
func (s *EntityScanner) Scan(text string) {
	if text == "" {
		return
	}
	for _, m := range s.ac.FindAll(strings.ToLower(text)) {
		s.counts[s.display[m.Pattern()]]++
	}
}

// Rows returns the accumulated entity counts, locations first, each group
// sorted by count descending then name for deterministic output.
func (s *EntityScanner) Rows() []model.EntityCount {
	var rows []model.EntityCount
	for name, cnt := range s.counts {
		rows = append(rows, model.EntityCount{
			EntityType: s.kindOf[name],
			Entity:     name,
			Count:      cnt,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EntityType != rows[j].EntityType {
			return rows[i].EntityType < rows[j].EntityType // LOC before ORG
		}
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Entity < rows[j].Entity
	})
	return rows
}
