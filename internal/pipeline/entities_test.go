package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityScannerCounts(t *testing.T) {
	s := NewEntityScanner()
	s.Scan("Под Сталинград прибыла стрелковая дивизия.")
	s.Scan("Служил в РККА. Защищал Сталинград.")

	rows := s.Rows()
	byName := make(map[string]int)
	for _, r := range rows {
		byName[r.Entity] = r.Count
	}
	assert.Equal(t, 2, byName["Сталинград"])
	assert.Equal(t, 1, byName["Стрелковая дивизия"])
	assert.Equal(t, 1, byName["РККА"])
	assert.NotContains(t, byName, "Москва")
}

func TestEntityScannerRowOrder(t *testing.T) {
	s := NewEntityScanner()
	s.Scan("Москва Москва Сталинград РККА")

	rows := s.Rows()
	assert.Len(t, rows, 3)
	// LOC group first, ordered by count desc.
	assert.Equal(t, "LOC", rows[0].EntityType)
	assert.Equal(t, "Москва", rows[0].Entity)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, "Сталинград", rows[1].Entity)
	assert.Equal(t, "ORG", rows[2].EntityType)
	assert.Equal(t, "РККА", rows[2].Entity)
}

func TestEntityScannerEmpty(t *testing.T) {
	s := NewEntityScanner()
	s.Scan("")
	assert.Empty(t, s.Rows())
}
