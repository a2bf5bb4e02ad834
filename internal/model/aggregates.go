package model

// MonthlyCount is one point of the publication time series.
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// YearlyStat summarizes cards published in one year.
type YearlyStat struct {
	Year       int `json:"year"`
	Total      int `json:"total"`
	WithStory  int `json:"with_story"`
	WithPhoto  int `json:"with_photo"`
	WithAwards int `json:"with_awards"`
}

// RegionStat summarizes cards attributed to one region.
type RegionStat struct {
	Region    string  `json:"region"`
	Count     int     `json:"count"`
	StoryPct  float64 `json:"story_pct"`
	PhotoPct  float64 `json:"photo_pct"`
	AwardsPct float64 `json:"awards_pct"`
}

// RankAgeBucket is one cell of the rank-group × age × death-year cross-tab.
type RankAgeBucket struct {
	RankGroup string `json:"rank_group"`
	Age       int    `json:"age"`
	DeathYear int    `json:"death_year"`
	Count     int    `json:"count"`
}

// NarrativeShare holds per-type percentages for one publication year.
type NarrativeShare struct {
	Year   int                `json:"year"`
	Shares map[string]float64 `json:"shares"` // narrative type -> percent
}

// SentimentYear holds the mean lexicon sentiment for one year,
// overall and broken down by narrative type.
type SentimentYear struct {
	Year    int                `json:"year"`
	Mean    float64            `json:"mean_score"`
	ByType  map[string]float64 `json:"by_type"`
	Samples int                `json:"samples"`
}

// MattrYear holds mean lexical diversity for one year.
type MattrYear struct {
	Year   int                `json:"year"`
	Mattr  float64            `json:"mattr"`
	ByType map[string]float64 `json:"by_type"`
}

// TopicWord is one weighted seed word of a topic.
type TopicWord struct {
	TopicID    int     `json:"topic_id"`
	TopicLabel string  `json:"topic_label"`
	Word       string  `json:"word"`
	Weight     float64 `json:"weight"`
}

// TopicYearShare holds per-topic narrative shares for one year.
type TopicYearShare struct {
	Year   int       `json:"year"`
	Shares []float64 `json:"shares"` // indexed by topic id
}

// MigrationCell counts cards born in one region and submitted from another.
type MigrationCell struct {
	BirthRegion  string `json:"birth_region"`
	SubmitRegion string `json:"submit_region"`
	Count        int    `json:"count"`
}

// RegionDMI is the digital-memory index row for one region.
type RegionDMI struct {
	Region    string  `json:"region"`
	Count     int     `json:"count"`
	StoryPct  float64 `json:"story_pct"`
	PhotoPct  float64 `json:"photo_pct"`
	AwardsPct float64 `json:"awards_pct"`
	DMI       float64 `json:"dmi"`
}

// EntityCount is one gazetteer entity with its mention count.
type EntityCount struct {
	EntityType string `json:"entity_type"` // LOC or ORG
	Entity     string `json:"entity"`
	Count      int    `json:"count"`
}

// HalfLifeYear is the activity half-life, in days, for one year.
type HalfLifeYear struct {
	Year     int `json:"year"`
	HalfLife int `json:"halflife"`
}

// NetworkEdge is one inter-regional memory flow.
type NetworkEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Count  int    `json:"count"`
}

// Manifest records one build run and its headline metrics. It carries
// no wall-clock values: rebuilding from identical input must reproduce
// identical artifact bytes, manifest included.
type Manifest struct {
	RunID         string  `json:"run_id"` // derived from the input fingerprint
	Input         string  `json:"input"`
	TotalRows     int     `json:"total_rows"`
	SkippedRows   int     `json:"skipped_rows"`
	SampleRows    int     `json:"sample_rows"`
	StoryPct      float64 `json:"story_pct"`
	Gini          float64 `json:"gini"`
	StoryAwardsR  float64 `json:"story_awards_r"`
	HalfLifeDays  *int    `json:"halflife_days"` // nil when undefined
	LocalShare    float64 `json:"local_share_pct"`
	SchemaVersion int     `json:"schema_version"`
}

// Aggregates bundles every table produced by one build.
type Aggregates struct {
	MonthlyCounts  []MonthlyCount
	YearlyStats    []YearlyStat
	RegionStats    []RegionStat
	RankAge        []RankAgeBucket
	NarrativeTypes []NarrativeShare
	Sentiment      []SentimentYear
	Mattr          []MattrYear
	TopicWords     []TopicWord
	TopicEvolution []TopicYearShare
	Migration      []MigrationCell
	DMI            []RegionDMI
	Entities       []EntityCount
	HalfLife       []HalfLifeYear
	NetworkEdges   []NetworkEdge
	Manifest       Manifest
}
