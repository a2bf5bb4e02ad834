package pipeline

import (
	"sort"

	"go-memorial-analytics/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Gini computes the Gini coefficient over the given values.
// Formula: (2·Σ i·xᵢ − (n+1)·Σ x) / (n·Σ x) over the ascending-sorted
// array with 1-based indices. Empty or all-zero input yields 0.
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum, weighted float64
	for i, v := range sorted {
		sum += v
		weighted += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}
	return (2*weighted - float64(n+1)*sum) / (float64(n) * sum)
}

// PearsonR computes the Pearson correlation coefficient between two
// equal-length series. Fewer than two points yields 0.
func PearsonR(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// HalfLife computes the activity half-life for one year of publication
// activity: daily counts keyed by day-of-year; the half-life is the
// distance from the peak day to the first later day whose count drops to
// half the peak or below. The bool is false when the decay never reaches
// half the peak within the year (including the degenerate single-day
// case), which callers must report as undefined rather than a number.
func HalfLife(daily map[int]int) (int, bool) {
	if len(daily) == 0 {
		return 0, false
	}
	days := make([]int, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Ints(days)

	peakDay, peakVal := days[0], daily[days[0]]
	for _, d := range days {
		if daily[d] > peakVal {
			peakDay, peakVal = d, daily[d]
		}
	}
	half := float64(peakVal) / 2
	for _, d := range days {
		if d <= peakDay {
			continue
		}
		if float64(daily[d]) <= half {
			return d - peakDay, true
		}
	}
	return 0, false
}

// DMI computes the digital-memory index for each region: story, photo and
// awards percentages are min-max normalized across regions and combined
// with weights 0.4 / 0.3 / 0.3. A dimension with no spread contributes a
// flat 0.5. Rows are modified in place.
func DMI(rows []model.RegionDMI) {
	if len(rows) == 0 {
		return
	}
	norm := func(get func(model.RegionDMI) float64) []float64 {
		lo, hi := get(rows[0]), get(rows[0])
		for _, r := range rows[1:] {
			v := get(r)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		out := make([]float64, len(rows))
		for i, r := range rows {
			if hi > lo {
				out[i] = (get(r) - lo) / (hi - lo)
			} else {
				out[i] = 0.5
			}
		}
		return out
	}

	story := norm(func(r model.RegionDMI) float64 { return r.StoryPct })
	photo := norm(func(r model.RegionDMI) float64 { return r.PhotoPct })
	awards := norm(func(r model.RegionDMI) float64 { return r.AwardsPct })
	for i := range rows {
		rows[i].DMI = 0.4*story[i] + 0.3*photo[i] + 0.3*awards[i]
	}
}
