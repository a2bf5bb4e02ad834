package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-memorial-analytics/internal/store"
)

// writeTestCSV creates a small raw export with a realistic header.
func writeTestCSV(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,url,fio,story,region,rank,birthday,death,awards_cnt,photos_cnt,birthplace,added_region,pub_date\n")
	for i := 0; i < 200; i++ {
		region := "Тульская область"
		if i%3 == 0 {
			region = "Московская область"
		}
		story := ""
		if i%2 == 0 {
			story = "Мой дед воевал под Ржевом и вернулся домой с наградами за отвагу и мужество в боях"
		}
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s,%s,%s,%d,%d,%s,%s,%s\n",
			fmt.Sprintf("id-%04d", i),
			fmt.Sprintf("https://example.org/card/%d", i),
			fmt.Sprintf("Иванов Иван %d", i),
			story,
			region,
			"рядовой",
			"1920", "1943",
			i%4, i%3,
			region, region,
			fmt.Sprintf("2015-%02d-15", i%12+1))
	}
	// One malformed row: wrong field count.
	b.WriteString("broken,row\n")
	// One row without an id.
	b.WriteString(",,,,,,,,,,,,\n")

	path := filepath.Join(dir, "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestBuildEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeTestCSV(t, dir)
	out := filepath.Join(dir, "data")

	manifest, err := Build(context.Background(), BuildOptions{
		Input:      input,
		OutDir:     out,
		SampleSize: 50,
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 200, manifest.TotalRows)
	assert.Equal(t, 2, manifest.SkippedRows)
	assert.Equal(t, 50, manifest.SampleRows)
	assert.InDelta(t, 50, manifest.StoryPct, 1e-9)
	assert.NotEmpty(t, manifest.RunID)

	st := store.New(out)
	loaded, err := st.Manifest()
	require.NoError(t, err)
	assert.Equal(t, manifest.RunID, loaded.RunID)

	sample, err := st.Sample()
	require.NoError(t, err)
	assert.Len(t, sample, 50)

	regions, err := st.RegionStats()
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "Тульская область", regions[0].Region) // larger region first
}

func TestBuildMissingInput(t *testing.T) {
	_, err := Build(context.Background(), BuildOptions{
		Input:  filepath.Join(t.TempDir(), "nope.csv"),
		OutDir: t.TempDir(),
	}, zap.NewNop())
	assert.Error(t, err)
}

func TestBuildReproducibleBytes(t *testing.T) {
	dir := t.TempDir()
	input := writeTestCSV(t, dir)

	runOnce := func(out string) (agg, sample []byte) {
		_, err := Build(context.Background(), BuildOptions{
			Input:      input,
			OutDir:     out,
			SampleSize: 50,
		}, zap.NewNop())
		require.NoError(t, err)
		agg, err = os.ReadFile(filepath.Join(out, store.AggregatesFile))
		require.NoError(t, err)
		sample, err = os.ReadFile(filepath.Join(out, store.SampleFile))
		require.NoError(t, err)
		return agg, sample
	}

	agg1, sample1 := runOnce(filepath.Join(dir, "run1"))
	agg2, sample2 := runOnce(filepath.Join(dir, "run2"))
	assert.Equal(t, agg1, agg2)
	assert.Equal(t, sample1, sample2)
}
