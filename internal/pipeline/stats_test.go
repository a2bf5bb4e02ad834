package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-memorial-analytics/internal/model"
)

func TestGini(t *testing.T) {
	// Perfect equality.
	assert.InDelta(t, 0, Gini([]float64{5, 5, 5, 5}), 1e-9)

	// Total concentration in one of n regions approaches (n-1)/n.
	assert.InDelta(t, 0.75, Gini([]float64{0, 0, 0, 100}), 1e-9)

	assert.Zero(t, Gini(nil))
	assert.Zero(t, Gini([]float64{0, 0}))
}

func TestPearsonR(t *testing.T) {
	assert.InDelta(t, 1, PearsonR([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, -1, PearsonR([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-9)
	assert.Zero(t, PearsonR([]float64{1}, []float64{2}))
	assert.Zero(t, PearsonR([]float64{1, 2}, []float64{1}))
}

func TestHalfLife(t *testing.T) {
	// Peak on day 129, decays to half by day 132.
	hl, ok := HalfLife(map[int]int{128: 40, 129: 100, 130: 80, 132: 50, 140: 10})
	assert.True(t, ok)
	assert.Equal(t, 3, hl)

	// Never decays to half within the year.
	_, ok = HalfLife(map[int]int{129: 100, 150: 90, 200: 60})
	assert.False(t, ok)

	// Single burst day: undefined, not zero.
	_, ok = HalfLife(map[int]int{129: 100})
	assert.False(t, ok)

	_, ok = HalfLife(nil)
	assert.False(t, ok)
}

func TestDMI(t *testing.T) {
	rows := []model.RegionDMI{
		{Region: "А", StoryPct: 10, PhotoPct: 20, AwardsPct: 30},
		{Region: "Б", StoryPct: 30, PhotoPct: 40, AwardsPct: 50},
	}
	DMI(rows)
	assert.InDelta(t, 0, rows[0].DMI, 1e-9)
	assert.InDelta(t, 1, rows[1].DMI, 1e-9)
}

func TestDMIFlatDimension(t *testing.T) {
	// No spread anywhere: every dimension contributes 0.5.
	rows := []model.RegionDMI{
		{Region: "А", StoryPct: 10, PhotoPct: 10, AwardsPct: 10},
		{Region: "Б", StoryPct: 10, PhotoPct: 10, AwardsPct: 10},
	}
	DMI(rows)
	assert.InDelta(t, 0.5, rows[0].DMI, 1e-9)
	assert.InDelta(t, 0.5, rows[1].DMI, 1e-9)
}
