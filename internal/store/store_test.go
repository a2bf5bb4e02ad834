package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-memorial-analytics/internal/model"
)

func testAggregates(runID string) *model.Aggregates {
	hl := 12
	return &model.Aggregates{
		MonthlyCounts: []model.MonthlyCount{{Month: "2015-04", Count: 7}, {Month: "2015-05", Count: 11}},
		YearlyStats:   []model.YearlyStat{{Year: 2015, Total: 18, WithStory: 9, WithPhoto: 4, WithAwards: 6}},
		RegionStats: []model.RegionStat{
			{Region: "Московская область", Count: 12, StoryPct: 50, PhotoPct: 25, AwardsPct: 30},
			{Region: "Тульская область", Count: 6, StoryPct: 40, PhotoPct: 10, AwardsPct: 20},
		},
		RankAge: []model.RankAgeBucket{{RankGroup: model.RankPrivates, Age: 23, DeathYear: 1943, Count: 3}},
		NarrativeTypes: []model.NarrativeShare{{
			Year:   2015,
			Shares: map[string]float64{model.NarrativeForm: 50, model.NarrativeMemoir: 10, model.NarrativeFamily: 15, model.NarrativeMixed: 25},
		}},
		Sentiment: []model.SentimentYear{{
			Year: 2015, Mean: 0.2, Samples: 9,
			ByType: map[string]float64{model.NarrativeFamily: 0.4},
		}},
		Mattr: []model.MattrYear{{
			Year: 2015, Mattr: 0.81,
			ByType: map[string]float64{model.NarrativeMemoir: 0.76},
		}},
		TopicWords:     []model.TopicWord{{TopicID: 0, TopicLabel: "Боевой путь", Word: "фронт", Weight: 0.08}},
		TopicEvolution: []model.TopicYearShare{{Year: 2015, Shares: []float64{0.3, 0.2, 0.1, 0.1, 0.1, 0.1, 0.1}}},
		Migration:      []model.MigrationCell{{BirthRegion: "Тула", SubmitRegion: "Москва", Count: 15}},
		DMI: []model.RegionDMI{
			{Region: "Московская область", Count: 12, StoryPct: 50, PhotoPct: 25, AwardsPct: 30, DMI: 1},
			{Region: "Тульская область", Count: 6, StoryPct: 40, PhotoPct: 10, AwardsPct: 20, DMI: 0},
		},
		Entities:     []model.EntityCount{{EntityType: "LOC", Entity: "Сталинград", Count: 4}},
		HalfLife:     []model.HalfLifeYear{{Year: 2015, HalfLife: 12}},
		NetworkEdges: []model.NetworkEdge{{Source: "Тула", Target: "Москва", Count: 15}},
		Manifest: model.Manifest{
			RunID: runID, Input: "cards.csv",
			TotalRows: 18, SkippedRows: 1, SampleRows: 10,
			StoryPct: 50, Gini: 0.31, StoryAwardsR: 0.12,
			HalfLifeDays: &hl, LocalShare: 40, SchemaVersion: 1,
		},
	}
}

func testSample() []model.SampleRow {
	return []model.SampleRow{
		{ID: "a-1", FIO: "Иванов Иван", Story: "Воевал", Region: "Тульская область", Rank: "рядовой", AwardsCnt: 2, PhotosCnt: 1, PubDate: "2015-05-09"},
		{ID: "a-2", FIO: "Петров Пётр", Region: "Московская область", Rank: "сержант"},
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	agg := testAggregates("run-1")
	require.NoError(t, WriteArtifacts(dir, agg, testSample()))

	st := New(dir)

	monthly, err := st.MonthlyCounts()
	require.NoError(t, err)
	assert.Equal(t, agg.MonthlyCounts, monthly)

	yearly, err := st.YearlyStats()
	require.NoError(t, err)
	assert.Equal(t, agg.YearlyStats, yearly)

	regions, err := st.RegionStats()
	require.NoError(t, err)
	assert.Equal(t, agg.RegionStats, regions)

	ra, err := st.RankAgeDistribution()
	require.NoError(t, err)
	assert.Equal(t, agg.RankAge, ra)

	nt, err := st.NarrativeTypesYearly()
	require.NoError(t, err)
	assert.Equal(t, agg.NarrativeTypes, nt)

	sent, err := st.SentimentYearly()
	require.NoError(t, err)
	assert.Equal(t, agg.Sentiment, sent)

	mattr, err := st.MattrYearly()
	require.NoError(t, err)
	assert.Equal(t, agg.Mattr, mattr)

	tw, err := st.TopicWords()
	require.NoError(t, err)
	assert.Equal(t, agg.TopicWords, tw)

	te, err := st.TopicEvolution()
	require.NoError(t, err)
	assert.Equal(t, agg.TopicEvolution, te)

	mig, err := st.MigrationMatrix()
	require.NoError(t, err)
	assert.Equal(t, agg.Migration, mig)

	dmi, err := st.DMIByRegion()
	require.NoError(t, err)
	assert.Equal(t, agg.DMI, dmi)

	ents, err := st.TopEntities()
	require.NoError(t, err)
	assert.Equal(t, agg.Entities, ents)

	hl, err := st.HalfLifeYearly()
	require.NoError(t, err)
	assert.Equal(t, agg.HalfLife, hl)

	edges, err := st.NetworkEdges()
	require.NoError(t, err)
	assert.Equal(t, agg.NetworkEdges, edges)

	manifest, err := st.Manifest()
	require.NoError(t, err)
	assert.Equal(t, agg.Manifest, *manifest)

	sample, err := st.Sample()
	require.NoError(t, err)
	assert.Equal(t, testSample(), sample)
}

func TestMissingArtifacts(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Manifest()
	assert.ErrorIs(t, err, ErrArtifactMissing)

	_, err = st.Sample()
	assert.ErrorIs(t, err, ErrArtifactMissing)
}

func TestCorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	garbage := []byte("this is not a sqlite database at all")
	require.NoError(t, os.WriteFile(filepath.Join(dir, AggregatesFile), garbage, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SampleFile), garbage, 0o644))

	st := New(dir)
	_, err := st.Manifest()
	assert.ErrorIs(t, err, ErrArtifactCorrupt)

	_, err = st.Sample()
	assert.ErrorIs(t, err, ErrArtifactCorrupt)
}

func TestManifestNilHalfLife(t *testing.T) {
	dir := t.TempDir()
	agg := testAggregates("run-2")
	agg.Manifest.HalfLifeDays = nil
	require.NoError(t, WriteArtifacts(dir, agg, nil))

	manifest, err := New(dir).Manifest()
	require.NoError(t, err)
	assert.Nil(t, manifest.HalfLifeDays)
}

func TestRebuildRefreshesCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteArtifacts(dir, testAggregates("run-1"), testSample()))

	st := New(dir)
	m1, err := st.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "run-1", m1.RunID)

	// A rebuild replaces the artifact files; the changed mtime alone
	// must refresh the cache. Coarse filesystem timestamps could leave
	// the rewritten file with the old mtime, so force a distinct one.
	agg := testAggregates("run-2")
	require.NoError(t, WriteArtifacts(dir, agg, testSample()))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(dir, AggregatesFile), later, later))

	m2, err := st.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "run-2", m2.RunID)
}

func TestInvalidateDropsCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteArtifacts(dir, testAggregates("run-1"), testSample()))
	path := filepath.Join(dir, AggregatesFile)
	info, err := os.Stat(path)
	require.NoError(t, err)

	st := New(dir)
	m1, err := st.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "run-1", m1.RunID)

	// Pin the mtime so the rewrite is invisible to the cache key; the
	// stale entry survives until Invalidate drops it.
	require.NoError(t, WriteArtifacts(dir, testAggregates("run-2"), testSample()))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	m2, err := st.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "run-1", m2.RunID)

	st.Invalidate()
	m3, err := st.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "run-2", m3.RunID)
}
