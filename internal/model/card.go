package model

import "time"

// Rank groups used by the demographic aggregates.
const (
	RankPrivates = "Рядовые"
	RankNCOs     = "Сержанты/старшины"
	RankOfficers = "Офицеры"
	RankOther    = "Другие"
	RankUnknown  = "Неизвестно"
)

// Narrative types assigned to card stories.
const (
	NarrativeForm   = "Формуляр"
	NarrativeMemoir = "Мемуар"
	NarrativeFamily = "Семейная история"
	NarrativeMixed  = "Смешанный"
)

// NarrativeTypes lists all narrative classes in display order.
var NarrativeTypes = []string{NarrativeForm, NarrativeMemoir, NarrativeFamily, NarrativeMixed}

// Card is a single memorial record from the raw CSV.
// Every field except ID may be empty; empty means missing, never zero.
type Card struct {
	ID           string
	URL          string
	FIO          string
	Title        string
	Story        string
	Region       string
	Locality     string
	Birthplace   string
	Rank         string
	Specialty    string
	ServiceYears string
	Birthday     string
	Death        string
	DraftPlace   string
	DraftDate    string
	Subdivision  string
	Battles      string
	Hospitals    string
	AwardsCnt    int
	AwardsKnown  bool // awards_cnt column was present and numeric
	AwardsTxt    string
	PhotosCnt    int
	AuthorName   string
	AuthorURL    string
	AddedRegion  string
	PubDate      string

	// Derived at build time, never read from the CSV.
	PubTime       time.Time // zero when pub_date is missing or unparseable
	BirthYear     int       // 0 when missing
	DeathYear     int       // 0 when missing
	RankGroup     string
	NarrativeType string
}

// HasStory reports whether the card carries narrative text.
func (c *Card) HasStory() bool { return c.Story != "" }

// PubYear returns the publication year, or 0 when the date is missing.
func (c *Card) PubYear() int {
	if c.PubTime.IsZero() {
		return 0
	}
	return c.PubTime.Year()
}

// Age returns age at death, or 0 when either year is missing.
func (c *Card) Age() int {
	if c.BirthYear == 0 || c.DeathYear == 0 {
		return 0
	}
	return c.DeathYear - c.BirthYear
}

// SampleRow is the column subset persisted for the searchable sample.
type SampleRow struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	FIO       string `json:"fio"`
	Story     string `json:"story"`
	Region    string `json:"region"`
	Rank      string `json:"rank"`
	Birthday  string `json:"birthday"`
	Death     string `json:"death"`
	AwardsTxt string `json:"awards_txt"`
	AwardsCnt int    `json:"awards_cnt"`
	PhotosCnt int    `json:"photos_cnt"`
	PubDate   string `json:"pub_date"`
}

// ToSampleRow trims a card down to the sample schema.
func (c *Card) ToSampleRow() SampleRow {
	return SampleRow{
		ID:        c.ID,
		URL:       c.URL,
		FIO:       c.FIO,
		Story:     c.Story,
		Region:    c.Region,
		Rank:      c.Rank,
		Birthday:  c.Birthday,
		Death:     c.Death,
		AwardsTxt: c.AwardsTxt,
		AwardsCnt: c.AwardsCnt,
		PhotosCnt: c.PhotosCnt,
		PubDate:   c.PubDate,
	}
}
