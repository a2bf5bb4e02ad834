package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-memorial-analytics/internal/model"
)

// aggCorpus builds 100 derived cards: region А gets 60, region Б 40;
// every second card carries a story; all published in 2015.
func aggCorpus() []*model.Card {
	var cards []*model.Card
	for i := 0; i < 100; i++ {
		c := &model.Card{
			ID:      fmt.Sprintf("c-%03d", i),
			Region:  "А",
			PubDate: fmt.Sprintf("2015-%02d-15", i%12+1),
		}
		if i >= 60 {
			c.Region = "Б"
		}
		if i%2 == 0 {
			c.Story = "Мой дед воевал. " + strings.Repeat("Он защищал Сталинград и вернулся. ", 4)
		}
		Derive(c)
		cards = append(cards, c)
	}
	return cards
}

func TestAggregatorCounts(t *testing.T) {
	a := NewAggregator(42)
	for _, c := range aggCorpus() {
		a.Add(c)
	}
	agg := a.Finalize()

	require.Len(t, agg.RegionStats, 2)
	assert.Equal(t, "А", agg.RegionStats[0].Region)
	assert.Equal(t, 60, agg.RegionStats[0].Count)
	assert.Equal(t, 40, agg.RegionStats[1].Count)
	assert.InDelta(t, 50, agg.RegionStats[0].StoryPct, 1)

	require.Len(t, agg.YearlyStats, 1)
	assert.Equal(t, 2015, agg.YearlyStats[0].Year)
	assert.Equal(t, 100, agg.YearlyStats[0].Total)
	assert.Equal(t, 50, agg.YearlyStats[0].WithStory)

	// 12 publication months, all in 2015.
	assert.Len(t, agg.MonthlyCounts, 12)
	assert.Equal(t, "2015-01", agg.MonthlyCounts[0].Month)

	assert.Equal(t, 100, agg.Manifest.TotalRows)
	assert.InDelta(t, 50, agg.Manifest.StoryPct, 1e-9)
}

func TestAggregatorNarrativeShares(t *testing.T) {
	a := NewAggregator(42)
	for _, c := range aggCorpus() {
		a.Add(c)
	}
	agg := a.Finalize()

	require.Len(t, agg.NarrativeTypes, 1)
	shares := agg.NarrativeTypes[0].Shares
	var sum float64
	for _, nt := range model.NarrativeTypes {
		sum += shares[nt]
	}
	assert.InDelta(t, 100, sum, 1e-6)
	// Half the cards have no story at all.
	assert.InDelta(t, 50, shares[model.NarrativeForm], 1)
}

func TestAggregatorSkipsMissingGroupingFields(t *testing.T) {
	a := NewAggregator(42)
	c := &model.Card{ID: "x"} // no region, no dates
	Derive(c)
	a.Add(c)
	agg := a.Finalize()

	assert.Empty(t, agg.RegionStats)
	assert.Empty(t, agg.MonthlyCounts)
	assert.Empty(t, agg.YearlyStats)
	assert.Equal(t, 1, agg.Manifest.TotalRows)
}

func TestAggregatorAgeFilter(t *testing.T) {
	a := NewAggregator(42)
	young := &model.Card{ID: "a", Birthday: "1938", Death: "1943", Rank: "рядовой"} // age 5
	old := &model.Card{ID: "b", Birthday: "1850", Death: "1943", Rank: "рядовой"}   // age 93
	ok := &model.Card{ID: "c", Birthday: "1920", Death: "1943", Rank: "рядовой"}    // age 23
	for _, c := range []*model.Card{young, old, ok} {
		Derive(c)
		a.Add(c)
	}
	agg := a.Finalize()

	require.Len(t, agg.RankAge, 1)
	assert.Equal(t, model.RankPrivates, agg.RankAge[0].RankGroup)
	assert.Equal(t, 23, agg.RankAge[0].Age)
	assert.Equal(t, 1943, agg.RankAge[0].DeathYear)
	assert.Equal(t, 1, agg.RankAge[0].Count)
}

func TestAggregatorMigration(t *testing.T) {
	a := NewAggregator(42)
	for i := 0; i < 15; i++ {
		c := &model.Card{ID: fmt.Sprintf("m-%02d", i), Birthplace: "Тула, село Н", AddedRegion: "Москва"}
		Derive(c)
		a.Add(c)
	}
	// Below the noise threshold: must not appear in the matrix.
	for i := 0; i < 5; i++ {
		c := &model.Card{ID: fmt.Sprintf("n-%02d", i), Birthplace: "Псков", AddedRegion: "Псков"}
		Derive(c)
		a.Add(c)
	}
	agg := a.Finalize()

	require.Len(t, agg.Migration, 1)
	assert.Equal(t, "Тула", agg.Migration[0].BirthRegion)
	assert.Equal(t, "Москва", agg.Migration[0].SubmitRegion)
	assert.Equal(t, 15, agg.Migration[0].Count)

	require.Len(t, agg.NetworkEdges, 1)
	assert.Equal(t, "Тула", agg.NetworkEdges[0].Source)

	// 15 of 20 pairs cross regions.
	assert.InDelta(t, 25, agg.Manifest.LocalShare, 1e-9)
}

func TestAggregatorDeterministic(t *testing.T) {
	run := func() *model.Aggregates {
		a := NewAggregator(42)
		for _, c := range aggCorpus() {
			a.Add(c)
		}
		return a.Finalize()
	}
	assert.Equal(t, run(), run())
}
