package pipeline

import (
	"math/rand"
	"sort"

	"go-memorial-analytics/internal/model"
	"go-memorial-analytics/pkg/utils"
)

// mattrSampleCap bounds how many narratives feed the lexical-diversity
// aggregate; MATTR over the full corpus would dominate build time.
const mattrSampleCap = 5000

// minMigrationCount filters noise pairs out of the migration matrix.
const minMigrationCount = 10

// maxNetworkEdges caps the inter-regional flow list.
const maxNetworkEdges = 100

type yearAcc struct {
	total, story, photo, awards int
}

type regionAcc struct {
	count, story, photo, awards int
}

type rankAgeKey struct {
	group     string
	age       int
	deathYear int
}

type pairKey struct {
	birth, submit string
}

type sentAcc struct {
	sum    float64
	n      int
	bySum  map[string]float64
	byN    map[string]int
}

type mattrCand struct {
	year  int
	ntype string
	story string
}

// Aggregator accumulates every aggregate table in a single pass over the
// card stream. All grouping excludes cards whose grouping field is
// missing; nothing is ever coerced to zero.
type Aggregator struct {
	monthly   map[string]int
	yearly    map[int]*yearAcc
	region    map[string]*regionAcc
	rankAge   map[rankAgeKey]int
	narrYear  map[int]map[string]int
	sentiment map[int]*sentAcc
	topicNum  map[int][TopicCount]int
	topicDen  map[int]int
	migration map[pairKey]int
	daily     map[int]map[int]int // year -> day of year -> count
	entities  *EntityScanner

	mattrRes  []mattrCand // reservoir, cap mattrSampleCap
	mattrSeen int
	rng       *rand.Rand

	corrStory  []float64
	corrAwards []float64

	total int
	story int
}

// NewAggregator returns an empty aggregator. The seed fixes the MATTR
// reservoir so identical input produces identical artifacts.
func NewAggregator(seed int64) *Aggregator {
	return &Aggregator{
		monthly:   make(map[string]int),
		yearly:    make(map[int]*yearAcc),
		region:    make(map[string]*regionAcc),
		rankAge:   make(map[rankAgeKey]int),
		narrYear:  make(map[int]map[string]int),
		sentiment: make(map[int]*sentAcc),
		topicNum:  make(map[int][TopicCount]int),
		topicDen:  make(map[int]int),
		migration: make(map[pairKey]int),
		daily:     make(map[int]map[int]int),
		entities:  NewEntityScanner(),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Add folds one derived card into every accumulator.
func (a *Aggregator) Add(c *model.Card) {
	a.total++

	hasStory := c.HasStory()
	if hasStory {
		a.story++
	}
	year := c.PubYear()

	if !c.PubTime.IsZero() {
		a.monthly[c.PubTime.Format("2006-01")]++

		y := a.yearly[year]
		if y == nil {
			y = &yearAcc{}
			a.yearly[year] = y
		}
		y.total++
		if hasStory {
			y.story++
		}
		if c.PhotosCnt > 0 {
			y.photo++
		}
		if c.AwardsKnown && c.AwardsCnt > 0 {
			y.awards++
		}

		d := a.daily[year]
		if d == nil {
			d = make(map[int]int)
			a.daily[year] = d
		}
		d[c.PubTime.YearDay()]++
	}

	if c.Region != "" {
		r := a.region[c.Region]
		if r == nil {
			r = &regionAcc{}
			a.region[c.Region] = r
		}
		r.count++
		if hasStory {
			r.story++
		}
		if c.PhotosCnt > 0 {
			r.photo++
		}
		if c.AwardsKnown && c.AwardsCnt > 0 {
			r.awards++
		}
	}

	if age := c.Age(); age > 10 && age < 80 && c.DeathYear != 0 {
		a.rankAge[rankAgeKey{c.RankGroup, age, c.DeathYear}]++
	}

	if year != 0 {
		ny := a.narrYear[year]
		if ny == nil {
			ny = make(map[string]int)
			a.narrYear[year] = ny
		}
		ny[c.NarrativeType]++
	}

	if year != 0 && hasStory {
		score := SentimentScore(c.Story)
		s := a.sentiment[year]
		if s == nil {
			s = &sentAcc{bySum: make(map[string]float64), byN: make(map[string]int)}
			a.sentiment[year] = s
		}
		s.sum += score
		s.n++
		s.bySum[c.NarrativeType] += score
		s.byN[c.NarrativeType]++

		if id, ok := AssignTopic(c.Story); ok {
			nums := a.topicNum[year]
			nums[id]++
			a.topicNum[year] = nums
			a.topicDen[year]++
		}

		a.entities.Scan(c.Story)
	}

	if year != 0 && hasStory && len([]rune(c.Story)) > 100 {
		a.addMattrCandidate(mattrCand{year: year, ntype: c.NarrativeType, story: c.Story})
	}

	birth := utils.FirstSegment(c.Birthplace)
	submit := utils.FirstSegment(c.AddedRegion)
	if birth != "" && submit != "" {
		a.migration[pairKey{birth, submit}]++
	}

	if c.AwardsKnown {
		presence := 0.0
		if hasStory {
			presence = 1
		}
		a.corrStory = append(a.corrStory, presence)
		a.corrAwards = append(a.corrAwards, float64(c.AwardsCnt))
	}
}

// addMattrCandidate maintains a uniform reservoir of narrative texts.
func (a *Aggregator) addMattrCandidate(c mattrCand) {
	a.mattrSeen++
	if len(a.mattrRes) < mattrSampleCap {
		a.mattrRes = append(a.mattrRes, c)
		return
	}
	if j := a.rng.Intn(a.mattrSeen); j < mattrSampleCap {
		a.mattrRes[j] = c
	}
}

// Finalize materializes every aggregate table in deterministic order.
func (a *Aggregator) Finalize() *model.Aggregates {
	agg := &model.Aggregates{}

	for _, m := range sortedKeys(a.monthly) {
		agg.MonthlyCounts = append(agg.MonthlyCounts, model.MonthlyCount{Month: m, Count: a.monthly[m]})
	}

	for _, y := range sortedIntKeys(a.yearly) {
		v := a.yearly[y]
		agg.YearlyStats = append(agg.YearlyStats, model.YearlyStat{
			Year: y, Total: v.total, WithStory: v.story, WithPhoto: v.photo, WithAwards: v.awards,
		})
	}

	for _, reg := range sortedKeys(a.region) {
		v := a.region[reg]
		agg.RegionStats = append(agg.RegionStats, model.RegionStat{
			Region:    reg,
			Count:     v.count,
			StoryPct:  pct(v.story, v.count),
			PhotoPct:  pct(v.photo, v.count),
			AwardsPct: pct(v.awards, v.count),
		})
	}

	rakeys := make([]rankAgeKey, 0, len(a.rankAge))
	for k := range a.rankAge {
		rakeys = append(rakeys, k)
	}
	sort.Slice(rakeys, func(i, j int) bool {
		if rakeys[i].group != rakeys[j].group {
			return rakeys[i].group < rakeys[j].group
		}
		if rakeys[i].age != rakeys[j].age {
			return rakeys[i].age < rakeys[j].age
		}
		return rakeys[i].deathYear < rakeys[j].deathYear
	})
	for _, k := range rakeys {
		agg.RankAge = append(agg.RankAge, model.RankAgeBucket{
			RankGroup: k.group, Age: k.age, DeathYear: k.deathYear, Count: a.rankAge[k],
		})
	}

	for _, y := range sortedIntKeys(a.narrYear) {
		counts := a.narrYear[y]
		total := 0
		for _, n := range counts {
			total += n
		}
		shares := make(map[string]float64, len(model.NarrativeTypes))
		for _, nt := range model.NarrativeTypes {
			shares[nt] = pct(counts[nt], total)
		}
		agg.NarrativeTypes = append(agg.NarrativeTypes, model.NarrativeShare{Year: y, Shares: shares})
	}

	for _, y := range sortedIntKeys(a.sentiment) {
		s := a.sentiment[y]
		row := model.SentimentYear{
			Year:    y,
			Mean:    utils.Round3(s.sum / float64(s.n)),
			ByType:  make(map[string]float64, len(s.byN)),
			Samples: s.n,
		}
		for _, nt := range model.NarrativeTypes {
			if n := s.byN[nt]; n > 0 {
				row.ByType[nt] = utils.Round3(s.bySum[nt] / float64(n))
			}
		}
		agg.Sentiment = append(agg.Sentiment, row)
	}

	agg.Mattr = a.finalizeMattr()
	agg.TopicWords = TopicWordRows()

	for _, y := range sortedIntKeys(a.topicDen) {
		den := a.topicDen[y]
		nums := a.topicNum[y]
		shares := make([]float64, TopicCount)
		for id := 0; id < TopicCount; id++ {
			shares[id] = utils.Round3(float64(nums[id]) / float64(den))
		}
		agg.TopicEvolution = append(agg.TopicEvolution, model.TopicYearShare{Year: y, Shares: shares})
	}

	agg.Migration, agg.NetworkEdges = a.finalizeMigration()

	for _, r := range agg.RegionStats {
		agg.DMI = append(agg.DMI, model.RegionDMI{
			Region: r.Region, Count: r.Count,
			StoryPct: r.StoryPct, PhotoPct: r.PhotoPct, AwardsPct: r.AwardsPct,
		})
	}
	DMI(agg.DMI)

	agg.Entities = a.entities.Rows()

	for _, y := range sortedIntKeys(a.daily) {
		if hl, ok := HalfLife(a.daily[y]); ok {
			agg.HalfLife = append(agg.HalfLife, model.HalfLifeYear{Year: y, HalfLife: hl})
		}
	}

	agg.Manifest = a.buildManifest(agg)
	return agg
}

func (a *Aggregator) finalizeMattr() []model.MattrYear {
	type acc struct {
		sum   float64
		n     int
		bySum map[string]float64
		byN   map[string]int
	}
	years := make(map[int]*acc)
	for _, c := range a.mattrRes {
		v := MATTR(c.story)
		y := years[c.year]
		if y == nil {
			y = &acc{bySum: make(map[string]float64), byN: make(map[string]int)}
			years[c.year] = y
		}
		y.sum += v
		y.n++
		y.bySum[c.ntype] += v
		y.byN[c.ntype]++
	}

	var out []model.MattrYear
	for _, y := range sortedIntKeys(years) {
		v := years[y]
		row := model.MattrYear{
			Year:   y,
			Mattr:  utils.Round3(v.sum / float64(v.n)),
			ByType: make(map[string]float64, len(v.byN)),
		}
		for _, nt := range model.NarrativeTypes {
			if n := v.byN[nt]; n > 0 {
				row.ByType[nt] = utils.Round3(v.bySum[nt] / float64(n))
			}
		}
		out = append(out, row)
	}
	return out
}

func (a *Aggregator) finalizeMigration() ([]model.MigrationCell, []model.NetworkEdge) {
	keys := make([]pairKey, 0, len(a.migration))
	for k := range a.migration {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].birth != keys[j].birth {
			return keys[i].birth < keys[j].birth
		}
		return keys[i].submit < keys[j].submit
	})

	var cells []model.MigrationCell
	for _, k := range keys {
		if n := a.migration[k]; n > minMigrationCount {
			cells = append(cells, model.MigrationCell{BirthRegion: k.birth, SubmitRegion: k.submit, Count: n})
		}
	}

	// Off-diagonal flows, strongest first.
	var edges []model.NetworkEdge
	for _, k := range keys {
		if k.birth != k.submit {
			edges = append(edges, model.NetworkEdge{Source: k.birth, Target: k.submit, Count: a.migration[k]})
		}
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Count > edges[j].Count })
	if len(edges) > maxNetworkEdges {
		edges = edges[:maxNetworkEdges]
	}
	return cells, edges
}

func (a *Aggregator) buildManifest(agg *model.Aggregates) model.Manifest {
	m := model.Manifest{TotalRows: a.total, SchemaVersion: 1}

	counts := make([]float64, 0, len(agg.RegionStats))
	for _, r := range agg.RegionStats {
		counts = append(counts, float64(r.Count))
	}
	m.Gini = utils.Round3(Gini(counts))
	m.StoryAwardsR = utils.Round3(PearsonR(a.corrStory, a.corrAwards))

	m.StoryPct = utils.Round3(pct(a.story, a.total))

	if len(agg.HalfLife) > 0 {
		hls := make([]int, len(agg.HalfLife))
		for i, h := range agg.HalfLife {
			hls[i] = h.HalfLife
		}
		sort.Ints(hls)
		median := hls[len(hls)/2]
		m.HalfLifeDays = &median
	}

	var local, all int
	for k, n := range a.migration {
		all += n
		if k.birth == k.submit {
			local += n
		}
	}
	if all > 0 {
		m.LocalShare = utils.Round3(pct(local, all))
	}
	return m
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
