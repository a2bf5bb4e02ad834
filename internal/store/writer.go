package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go-memorial-analytics/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Artifact file names under the data directory.
const (
	AggregatesFile = "aggregates.db"
	SampleFile     = "sample.db"
)

// aggregatesDDL creates one table per aggregate plus the build manifest.
const aggregatesDDL = `
CREATE TABLE monthly_counts (month TEXT PRIMARY KEY, count INTEGER NOT NULL);
CREATE TABLE yearly_stats (year INTEGER PRIMARY KEY, total INTEGER, with_story INTEGER, with_photo INTEGER, with_awards INTEGER);
CREATE TABLE region_stats (region TEXT PRIMARY KEY, count INTEGER, story_pct REAL, photo_pct REAL, awards_pct REAL);
CREATE TABLE rank_age_distribution (rank_group TEXT, age INTEGER, death_year INTEGER, count INTEGER);
CREATE TABLE narrative_types_yearly (year INTEGER, narrative_type TEXT, pct REAL);
CREATE TABLE sentiment_yearly (year INTEGER, narrative_type TEXT, score REAL, samples INTEGER);
CREATE TABLE mattr_yearly (year INTEGER, narrative_type TEXT, mattr REAL);
CREATE TABLE topic_words (topic_id INTEGER, topic_label TEXT, word TEXT, weight REAL);
CREATE TABLE topic_evolution (year INTEGER, topic_id INTEGER, share REAL);
CREATE TABLE migration_matrix (birth_region TEXT, submit_region TEXT, count INTEGER);
CREATE TABLE dmi_by_region (region TEXT PRIMARY KEY, count INTEGER, story_pct REAL, photo_pct REAL, awards_pct REAL, dmi REAL);
CREATE TABLE ner_top_entities (entity_type TEXT, entity TEXT, count INTEGER);
CREATE TABLE halflife_yearly (year INTEGER PRIMARY KEY, halflife INTEGER);
CREATE TABLE network_edges (source TEXT, target TEXT, count INTEGER);
CREATE TABLE build_manifest (
	run_id TEXT PRIMARY KEY,
	input TEXT,
	total_rows INTEGER,
	skipped_rows INTEGER,
	sample_rows INTEGER,
	story_pct REAL,
	gini REAL,
	story_awards_r REAL,
	halflife_days INTEGER,
	local_share_pct REAL,
	schema_version INTEGER
);
`

const sampleDDL = `
CREATE TABLE cards (
	id TEXT PRIMARY KEY,
	url TEXT,
	fio TEXT,
	story TEXT,
	region TEXT,
	rank TEXT,
	birthday TEXT,
	death TEXT,
	awards_txt TEXT,
	awards_cnt INTEGER,
	photos_cnt INTEGER,
	pub_date TEXT
);
`

// WriteArtifacts persists all aggregates and the sample into dir.
// Both databases are built in a temp directory and renamed into place
// only after every table has been written, so a failed build never
// leaves a half-written artifact behind.
func WriteArtifacts(dir string, agg *model.Aggregates, sample []model.SampleRow) error {
	tmp := dir + ".tmp-" + agg.Manifest.RunID
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", tmp, err)
	}
	defer os.RemoveAll(tmp)

	if err := writeAggregates(filepath.Join(tmp, AggregatesFile), agg); err != nil {
		return fmt.Errorf("write aggregates: %w", err)
	}
	if err := writeSample(filepath.Join(tmp, SampleFile), sample); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	for _, name := range []string{AggregatesFile, SampleFile} {
		if err := os.Rename(filepath.Join(tmp, name), filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
	}
	return nil
}

func openForBulkWrite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Bulk-insert tuning; the file is thrown away on any failure.
	for _, pragma := range []string{
		"PRAGMA synchronous = OFF",
		"PRAGMA journal_mode = MEMORY",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func writeAggregates(path string, agg *model.Aggregates) error {
	db, err := openForBulkWrite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(aggregatesDDL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ins := func(query string, rows func(func(args ...any) error) error) error {
		stmt, err := tx.Prepare(query)
		if err != nil {
			return fmt.Errorf("prepare %q: %w", query, err)
		}
		defer stmt.Close()
		return rows(func(args ...any) error {
			_, err := stmt.Exec(args...)
			return err
		})
	}

	steps := []func() error{
		func() error {
			return ins(`INSERT INTO monthly_counts VALUES (?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.MonthlyCounts {
					if err := exec(r.Month, r.Count); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO yearly_stats VALUES (?, ?, ?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.YearlyStats {
					if err := exec(r.Year, r.Total, r.WithStory, r.WithPhoto, r.WithAwards); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO region_stats VALUES (?, ?, ?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.RegionStats {
					if err := exec(r.Region, r.Count, r.StoryPct, r.PhotoPct, r.AwardsPct); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO rank_age_distribution VALUES (?, ?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.RankAge {
					if err := exec(r.RankGroup, r.Age, r.DeathYear, r.Count); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO narrative_types_yearly VALUES (?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.NarrativeTypes {
					for _, nt := range model.NarrativeTypes {
						if err := exec(r.Year, nt, r.Shares[nt]); err != nil {
							return err
						}
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO sentiment_yearly VALUES (?, ?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.Sentiment {
					if err := exec(r.Year, "all", r.Mean, r.Samples); err != nil {
						return err
					}
					for _, nt := range model.NarrativeTypes {
						if score, ok := r.ByType[nt]; ok {
							if err := exec(r.Year, nt, score, 0); err != nil {
								return err
							}
						}
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO mattr_yearly VALUES (?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.Mattr {
					if err := exec(r.Year, "all", r.Mattr); err != nil {
						return err
					}
					for _, nt := range model.NarrativeTypes {
						if v, ok := r.ByType[nt]; ok {
							if err := exec(r.Year, nt, v); err != nil {
								return err
							}
						}
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO topic_words VALUES (?, ?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.TopicWords {
					if err := exec(r.TopicID, r.TopicLabel, r.Word, r.Weight); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO topic_evolution VALUES (?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.TopicEvolution {
					for id, share := range r.Shares {
						if err := exec(r.Year, id, share); err != nil {
							return err
						}
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO migration_matrix VALUES (?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.Migration {
					if err := exec(r.BirthRegion, r.SubmitRegion, r.Count); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO dmi_by_region VALUES (?, ?, ?, ?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.DMI {
					if err := exec(r.Region, r.Count, r.StoryPct, r.PhotoPct, r.AwardsPct, r.DMI); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO ner_top_entities VALUES (?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.Entities {
					if err := exec(r.EntityType, r.Entity, r.Count); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO halflife_yearly VALUES (?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.HalfLife {
					if err := exec(r.Year, r.HalfLife); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			return ins(`INSERT INTO network_edges VALUES (?, ?, ?)`, func(exec func(...any) error) error {
				for _, r := range agg.NetworkEdges {
					if err := exec(r.Source, r.Target, r.Count); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func() error {
			m := agg.Manifest
			var hl any
			if m.HalfLifeDays != nil {
				hl = *m.HalfLifeDays
			}
			_, err := tx.Exec(
				`INSERT INTO build_manifest VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				m.RunID, m.Input, m.TotalRows, m.SkippedRows, m.SampleRows,
				m.StoryPct, m.Gini, m.StoryAwardsR, hl, m.LocalShare, m.SchemaVersion,
			)
			return err
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func writeSample(path string, sample []model.SampleRow) error {
	db, err := openForBulkWrite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(sampleDDL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range sample {
		if _, err := stmt.Exec(
			r.ID, r.URL, r.FIO, r.Story, r.Region, r.Rank,
			r.Birthday, r.Death, r.AwardsTxt, r.AwardsCnt, r.PhotosCnt, r.PubDate,
		); err != nil {
			return fmt.Errorf("insert card %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}
