package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-memorial-analytics/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// ErrArtifactMissing reports that an artifact file has not been built.
// Views catch it and render a notice instead of failing.
var ErrArtifactMissing = errors.New("artifact not found; run the build command first")

// ErrArtifactCorrupt reports that an artifact file exists but cannot be
// read as a SQLite database. Views catch it the same way as a missing
// artifact.
var ErrArtifactCorrupt = errors.New("artifact unreadable; rebuild the artifacts")

type cacheEntry struct {
	mtime time.Time
	value any
}

// Store reads persisted artifacts through a process-wide cache keyed by
// artifact path and modification time. A rebuilt artifact invalidates
// its entries on the next read; nothing else ever does.
type Store struct {
	dir string

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// New returns a store over the given data directory.
func New(dir string) *Store {
	return &Store{dir: dir, cache: make(map[string]cacheEntry)}
}

// Dir returns the data directory the store reads from.
func (s *Store) Dir() string { return s.dir }

// cached runs load under the cache. The key names the logical table; the
// file's mtime decides freshness.
func (s *Store) cached(file, key string, load func(db *sql.DB) (any, error)) (any, error) {
	path := filepath.Join(s.dir, file)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrArtifactMissing)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	s.mu.Lock()
	if e, ok := s.cache[key]; ok && e.mtime.Equal(info.ModTime()) {
		s.mu.Unlock()
		return e.value, nil
	}
	s.mu.Unlock()

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrArtifactCorrupt, err)
	}
	defer db.Close()

	value, err := load(db)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", key, ErrArtifactCorrupt, err)
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{mtime: info.ModTime(), value: value}
	s.mu.Unlock()
	return value, nil
}

// Invalidate drops every cached table.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
}

func (s *Store) MonthlyCounts() ([]model.MonthlyCount, error) {
	v, err := s.cached(AggregatesFile, "monthly_counts", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT month, count FROM monthly_counts ORDER BY month`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.MonthlyCount
		for rows.Next() {
			var r model.MonthlyCount
			if err := rows.Scan(&r.Month, &r.Count); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.MonthlyCount), nil
}

func (s *Store) YearlyStats() ([]model.YearlyStat, error) {
	v, err := s.cached(AggregatesFile, "yearly_stats", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT year, total, with_story, with_photo, with_awards FROM yearly_stats ORDER BY year`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.YearlyStat
		for rows.Next() {
			var r model.YearlyStat
			if err := rows.Scan(&r.Year, &r.Total, &r.WithStory, &r.WithPhoto, &r.WithAwards); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.YearlyStat), nil
}

func (s *Store) RegionStats() ([]model.RegionStat, error) {
	v, err := s.cached(AggregatesFile, "region_stats", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT region, count, story_pct, photo_pct, awards_pct FROM region_stats ORDER BY count DESC, region`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.RegionStat
		for rows.Next() {
			var r model.RegionStat
			if err := rows.Scan(&r.Region, &r.Count, &r.StoryPct, &r.PhotoPct, &r.AwardsPct); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.RegionStat), nil
}

func (s *Store) RankAgeDistribution() ([]model.RankAgeBucket, error) {
	v, err := s.cached(AggregatesFile, "rank_age_distribution", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT rank_group, age, death_year, count FROM rank_age_distribution ORDER BY rank_group, age, death_year`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.RankAgeBucket
		for rows.Next() {
			var r model.RankAgeBucket
			if err := rows.Scan(&r.RankGroup, &r.Age, &r.DeathYear, &r.Count); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.RankAgeBucket), nil
}

func (s *Store) NarrativeTypesYearly() ([]model.NarrativeShare, error) {
	v, err := s.cached(AggregatesFile, "narrative_types_yearly", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT year, narrative_type, pct FROM narrative_types_yearly ORDER BY year`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		byYear := make(map[int]map[string]float64)
		var years []int
		for rows.Next() {
			var year int
			var nt string
			var pct float64
			if err := rows.Scan(&year, &nt, &pct); err != nil {
				return nil, err
			}
			if byYear[year] == nil {
				byYear[year] = make(map[string]float64)
				years = append(years, year)
			}
			byYear[year][nt] = pct
		}
		out := make([]model.NarrativeShare, 0, len(years))
		for _, y := range years {
			out = append(out, model.NarrativeShare{Year: y, Shares: byYear[y]})
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.NarrativeShare), nil
}

func (s *Store) SentimentYearly() ([]model.SentimentYear, error) {
	v, err := s.cached(AggregatesFile, "sentiment_yearly", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT year, narrative_type, score, samples FROM sentiment_yearly ORDER BY year`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		byYear := make(map[int]*model.SentimentYear)
		var years []int
		for rows.Next() {
			var year, samples int
			var nt string
			var score float64
			if err := rows.Scan(&year, &nt, &score, &samples); err != nil {
				return nil, err
			}
			r := byYear[year]
			if r == nil {
				r = &model.SentimentYear{Year: year, ByType: make(map[string]float64)}
				byYear[year] = r
				years = append(years, year)
			}
			if nt == "all" {
				r.Mean, r.Samples = score, samples
			} else {
				r.ByType[nt] = score
			}
		}
		out := make([]model.SentimentYear, 0, len(years))
		for _, y := range years {
			out = append(out, *byYear[y])
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.SentimentYear), nil
}

func (s *Store) MattrYearly() ([]model.MattrYear, error) {
	v, err := s.cached(AggregatesFile, "mattr_yearly", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT year, narrative_type, mattr FROM mattr_yearly ORDER BY year`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		byYear := make(map[int]*model.MattrYear)
		var years []int
		for rows.Next() {
			var year int
			var nt string
			var mattr float64
			if err := rows.Scan(&year, &nt, &mattr); err != nil {
				return nil, err
			}
			r := byYear[year]
			if r == nil {
				r = &model.MattrYear{Year: year, ByType: make(map[string]float64)}
				byYear[year] = r
				years = append(years, year)
			}
			if nt == "all" {
				r.Mattr = mattr
			} else {
				r.ByType[nt] = mattr
			}
		}
		out := make([]model.MattrYear, 0, len(years))
		for _, y := range years {
			out = append(out, *byYear[y])
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.MattrYear), nil
}

func (s *Store) TopicWords() ([]model.TopicWord, error) {
	v, err := s.cached(AggregatesFile, "topic_words", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT topic_id, topic_label, word, weight FROM topic_words ORDER BY topic_id, weight DESC, word`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.TopicWord
		for rows.Next() {
			var r model.TopicWord
			if err := rows.Scan(&r.TopicID, &r.TopicLabel, &r.Word, &r.Weight); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.TopicWord), nil
}

func (s *Store) TopicEvolution() ([]model.TopicYearShare, error) {
	v, err := s.cached(AggregatesFile, "topic_evolution", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT year, topic_id, share FROM topic_evolution ORDER BY year, topic_id`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		byYear := make(map[int][]float64)
		var years []int
		for rows.Next() {
			var year, id int
			var share float64
			if err := rows.Scan(&year, &id, &share); err != nil {
				return nil, err
			}
			if byYear[year] == nil {
				years = append(years, year)
			}
			for len(byYear[year]) <= id {
				byYear[year] = append(byYear[year], 0)
			}
			byYear[year][id] = share
		}
		out := make([]model.TopicYearShare, 0, len(years))
		for _, y := range years {
			out = append(out, model.TopicYearShare{Year: y, Shares: byYear[y]})
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.TopicYearShare), nil
}

func (s *Store) MigrationMatrix() ([]model.MigrationCell, error) {
	v, err := s.cached(AggregatesFile, "migration_matrix", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT birth_region, submit_region, count FROM migration_matrix ORDER BY birth_region, submit_region`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.MigrationCell
		for rows.Next() {
			var r model.MigrationCell
			if err := rows.Scan(&r.BirthRegion, &r.SubmitRegion, &r.Count); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.MigrationCell), nil
}

func (s *Store) DMIByRegion() ([]model.RegionDMI, error) {
	v, err := s.cached(AggregatesFile, "dmi_by_region", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT region, count, story_pct, photo_pct, awards_pct, dmi FROM dmi_by_region ORDER BY dmi DESC, region`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.RegionDMI
		for rows.Next() {
			var r model.RegionDMI
			if err := rows.Scan(&r.Region, &r.Count, &r.StoryPct, &r.PhotoPct, &r.AwardsPct, &r.DMI); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.RegionDMI), nil
}

func (s *Store) TopEntities() ([]model.EntityCount, error) {
	v, err := s.cached(AggregatesFile, "ner_top_entities", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT entity_type, entity, count FROM ner_top_entities ORDER BY entity_type, count DESC, entity`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.EntityCount
		for rows.Next() {
			var r model.EntityCount
			if err := rows.Scan(&r.EntityType, &r.Entity, &r.Count); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.EntityCount), nil
}

func (s *Store) HalfLifeYearly() ([]model.HalfLifeYear, error) {
	v, err := s.cached(AggregatesFile, "halflife_yearly", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT year, halflife FROM halflife_yearly ORDER BY year`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.HalfLifeYear
		for rows.Next() {
			var r model.HalfLifeYear
			if err := rows.Scan(&r.Year, &r.HalfLife); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.HalfLifeYear), nil
}

func (s *Store) NetworkEdges() ([]model.NetworkEdge, error) {
	v, err := s.cached(AggregatesFile, "network_edges", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT source, target, count FROM network_edges ORDER BY count DESC, source, target`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.NetworkEdge
		for rows.Next() {
			var r model.NetworkEdge
			if err := rows.Scan(&r.Source, &r.Target, &r.Count); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.NetworkEdge), nil
}

func (s *Store) Manifest() (*model.Manifest, error) {
	v, err := s.cached(AggregatesFile, "build_manifest", func(db *sql.DB) (any, error) {
		row := db.QueryRow(`SELECT run_id, input, total_rows, skipped_rows, sample_rows, story_pct, gini, story_awards_r, halflife_days, local_share_pct, schema_version FROM build_manifest LIMIT 1`)
		var m model.Manifest
		var hl sql.NullInt64
		if err := row.Scan(
			&m.RunID, &m.Input, &m.TotalRows, &m.SkippedRows, &m.SampleRows,
			&m.StoryPct, &m.Gini, &m.StoryAwardsR, &hl, &m.LocalShare,
			&m.SchemaVersion,
		); err != nil {
			return nil, err
		}
		if hl.Valid {
			days := int(hl.Int64)
			m.HalfLifeDays = &days
		}
		return &m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Manifest), nil
}

// Sample loads the full searchable sample, ordered by card id.
func (s *Store) Sample() ([]model.SampleRow, error) {
	v, err := s.cached(SampleFile, "sample_cards", func(db *sql.DB) (any, error) {
		rows, err := db.Query(`SELECT id, url, fio, story, region, rank, birthday, death, awards_txt, awards_cnt, photos_cnt, pub_date FROM cards ORDER BY id`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []model.SampleRow
		for rows.Next() {
			var r model.SampleRow
			if err := rows.Scan(
				&r.ID, &r.URL, &r.FIO, &r.Story, &r.Region, &r.Rank,
				&r.Birthday, &r.Death, &r.AwardsTxt, &r.AwardsCnt, &r.PhotosCnt, &r.PubDate,
			); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.SampleRow), nil
}
