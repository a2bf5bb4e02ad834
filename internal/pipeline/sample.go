package pipeline

import (
	"math/rand"
	"sort"

	"go-memorial-analytics/internal/model"
)

// DefaultSampleSize is the published searchable-sample size.
const DefaultSampleSize = 50_000

type strataKey struct {
	region   string
	hasStory bool
}

type stratum struct {
	seen int
	rows []model.SampleRow // uniform reservoir, cap = target size
}

// SampleBuilder draws a stratified sample preserving proportional
// representation across region × narrative presence. One uniform
// reservoir is kept per stratum; quotas are allocated by largest
// remainder once stratum totals are known, so the sampled proportions
// track the source within a fraction of a percentage point.
type SampleBuilder struct {
	target int
	rng    *rand.Rand
	strata map[strataKey]*stratum
}

// NewSampleBuilder creates a sampler for the given target size and seed.
// The seed fixes the draw: same input, same sample, byte for byte.
func NewSampleBuilder(target int, seed int64) *SampleBuilder {
	return &SampleBuilder{
		target: target,
		rng:    rand.New(rand.NewSource(seed)),
		strata: make(map[strataKey]*stratum),
	}
}

// Add offers one card to its stratum's reservoir.
func (b *SampleBuilder) Add(c *model.Card) {
	key := strataKey{region: c.Region, hasStory: c.HasStory()}
	s := b.strata[key]
	if s == nil {
		s = &stratum{}
		b.strata[key] = s
	}
	s.seen++
	if len(s.rows) < b.target {
		s.rows = append(s.rows, c.ToSampleRow())
		return
	}
	if j := b.rng.Intn(s.seen); j < b.target {
		s.rows[j] = c.ToSampleRow()
	}
}

// Build allocates per-stratum quotas and returns the final sample,
// sorted by card id. The result has exactly min(target, population) rows.
func (b *SampleBuilder) Build() []model.SampleRow {
	keys := make([]strataKey, 0, len(b.strata))
	population := 0
	for k, s := range b.strata {
		keys = append(keys, k)
		population += s.seen
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].region != keys[j].region {
			return keys[i].region < keys[j].region
		}
		return !keys[i].hasStory && keys[j].hasStory
	})

	target := b.target
	if population < target {
		target = population
	}
	if target == 0 {
		return nil
	}

	// Largest-remainder allocation.
	type alloc struct {
		key       strataKey
		quota     int
		remainder float64
	}
	allocs := make([]alloc, len(keys))
	assigned := 0
	for i, k := range keys {
		exact := float64(target) * float64(b.strata[k].seen) / float64(population)
		q := int(exact)
		allocs[i] = alloc{key: k, quota: q, remainder: exact - float64(q)}
		assigned += q
	}
	rest := make([]int, len(allocs))
	for i := range rest {
		rest[i] = i
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return allocs[rest[i]].remainder > allocs[rest[j]].remainder
	})
	for i := 0; assigned < target; i++ {
		j := rest[i%len(rest)]
		if allocs[j].quota < b.strata[allocs[j].key].seen {
			allocs[j].quota++
			assigned++
		}
	}

	var out []model.SampleRow
	for _, al := range allocs {
		s := b.strata[al.key]
		rows := s.rows
		// The reservoir is a uniform subset of the stratum; taking its
		// first quota rows after a deterministic shuffle keeps the draw
		// uniform when the quota is smaller than the reservoir.
		b.rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		q := al.quota
		if q > len(rows) {
			q = len(rows)
		}
		out = append(out, rows[:q]...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
