package model

// View payloads returned by the dashboard API. Each view is a pure
// function of the persisted artifacts; Notice is set instead of failing
// when an artifact is missing or unreadable.

// OverviewView carries headline counts and findings.
type OverviewView struct {
	TotalCards   int          `json:"total_cards"`
	StoryPct     float64      `json:"story_pct"`
	SampleRows   int          `json:"sample_rows"`
	Gini         float64      `json:"gini"`
	StoryAwardsR float64      `json:"story_awards_r"`
	HalfLifeDays *int         `json:"halflife_days"`
	LocalShare   float64      `json:"local_share_pct"`
	TopRegions   []RegionStat `json:"top_regions"`
	Years        []YearlyStat `json:"years"`
	Notice       string       `json:"notice,omitempty"`
}

// SeasonalityPoint is the total count for one calendar month across years.
type SeasonalityPoint struct {
	Month int `json:"month"` // 1..12
	Count int `json:"count"`
}

// DynamicsView carries the publication time series.
type DynamicsView struct {
	Monthly     []MonthlyCount     `json:"monthly"`
	Seasonality []SeasonalityPoint `json:"seasonality"`
	HalfLife    []HalfLifeYear     `json:"halflife"`
	Notice      string             `json:"notice,omitempty"`
}

// TextsView carries every narrative-derived aggregate.
type TextsView struct {
	NarrativeTypes []NarrativeShare `json:"narrative_types"`
	Sentiment      []SentimentYear  `json:"sentiment"`
	Mattr          []MattrYear      `json:"mattr"`
	TopicWords     []TopicWord      `json:"topic_words"`
	TopicEvolution []TopicYearShare `json:"topic_evolution"`
	TopEntities    []EntityCount    `json:"top_entities"`
	Notice         string           `json:"notice,omitempty"`
}

// GeographyView carries the migration matrix and flow edges.
type GeographyView struct {
	Matrix     []MigrationCell `json:"matrix"`
	Edges      []NetworkEdge   `json:"edges"`
	LocalShare float64         `json:"local_share_pct"`
	Notice     string          `json:"notice,omitempty"`
}

// AgeGapPoint compares mean age at death between officers and privates.
type AgeGapPoint struct {
	DeathYear   int     `json:"death_year"`
	OfficerMean float64 `json:"officer_mean_age"`
	PrivateMean float64 `json:"private_mean_age"`
	Gap         float64 `json:"gap"`
}

// DemographyView carries the rank × age distribution and the
// demographic convergence comparison.
type DemographyView struct {
	Distribution []RankAgeBucket `json:"distribution"`
	AgeGap       []AgeGapPoint   `json:"age_gap"`
	Notice       string          `json:"notice,omitempty"`
}

// SearchHit is one ranked match from the sample.
type SearchHit struct {
	Row      SampleRow `json:"row"`
	Score    float64   `json:"score"`
	Snippet  string    `json:"snippet"` // story excerpt with <mark> highlighting
	Chars    int       `json:"chars"`
	Words    int       `json:"words"`
	Unique   int       `json:"unique_words"`
	Mattr    float64   `json:"mattr"`
	Narrtype string    `json:"narrative_type"`
}

// SearchView is the response of the sample search endpoint.
type SearchView struct {
	Query   string      `json:"query"`
	Total   int         `json:"total"`
	Hits    []SearchHit `json:"hits"`
	Elapsed string      `json:"elapsed"`
	Notice  string      `json:"notice,omitempty"`
}
