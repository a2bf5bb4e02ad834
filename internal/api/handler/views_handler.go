package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-memorial-analytics/internal/model"
	"go-memorial-analytics/internal/search"
	"go-memorial-analytics/internal/store"
)

// topRegionsShown caps the region leaderboard on the overview.
const topRegionsShown = 10

// Handler serves the dashboard views from the persisted artifacts.
// Every view endpoint answers 200 even when the artifacts are absent;
// the payload then carries a notice instead of data.
type Handler struct {
	store  *store.Store
	logger *zap.Logger

	mu        sync.Mutex
	index     *search.Index
	indexRows []model.SampleRow // sample slice the index was built from
}

func New(st *store.Store, logger *zap.Logger) *Handler {
	return &Handler{store: st, logger: logger}
}

// Health reports liveness
// @Summary Service health
// @Tags service
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, map[string]string{"status": "ok"})
}

// Overview returns headline metrics and findings
// @Summary Overview metrics
// @Description Headline counts, concentration and correlation metrics, top regions and yearly totals
// @Tags views
// @Produce json
// @Success 200 {object} model.OverviewView
// @Failure 500 {object} map[string]string
// @Router /views/overview [get]
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	var view model.OverviewView
	manifest, err := h.store.Manifest()
	if h.fail(w, &view.Notice, err) {
		return
	}
	if view.Notice == "" {
		view.TotalCards = manifest.TotalRows
		view.StoryPct = manifest.StoryPct
		view.SampleRows = manifest.SampleRows
		view.Gini = manifest.Gini
		view.StoryAwardsR = manifest.StoryAwardsR
		view.HalfLifeDays = manifest.HalfLifeDays
		view.LocalShare = manifest.LocalShare

		regions, err := h.store.RegionStats()
		if h.fail(w, &view.Notice, err) {
			return
		}
		// RegionStats rows arrive count-descending, so the prefix is
		// the leaderboard.
		if len(regions) > topRegionsShown {
			regions = regions[:topRegionsShown]
		}
		view.TopRegions = regions

		if view.Years, err = h.store.YearlyStats(); h.fail(w, &view.Notice, err) {
			return
		}
	}
	h.respond(w, view)
}

// Dynamics returns the publication time series
// @Summary Publication dynamics
// @Description Monthly counts, cross-year seasonality and per-year activity half-life
// @Tags views
// @Produce json
// @Success 200 {object} model.DynamicsView
// @Failure 500 {object} map[string]string
// @Router /views/dynamics [get]
func (h *Handler) Dynamics(w http.ResponseWriter, r *http.Request) {
	var view model.DynamicsView
	monthly, err := h.store.MonthlyCounts()
	if h.fail(w, &view.Notice, err) {
		return
	}
	if view.Notice == "" {
		view.Monthly = monthly
		view.Seasonality = seasonality(monthly)
		if view.HalfLife, err = h.store.HalfLifeYearly(); h.fail(w, &view.Notice, err) {
			return
		}
	}
	h.respond(w, view)
}

// seasonality folds the monthly series onto the 12 calendar months.
func seasonality(monthly []model.MonthlyCount) []model.SeasonalityPoint {
	points := make([]model.SeasonalityPoint, 12)
	for i := range points {
		points[i].Month = i + 1
	}
	for _, m := range monthly {
		t, err := time.Parse("2006-01", m.Month)
		if err != nil {
			continue
		}
		points[int(t.Month())-1].Count += m.Count
	}
	return points
}

// Texts returns the narrative-text aggregates
// @Summary Text analytics
// @Description Narrative type shares, sentiment, lexical diversity, topics and gazetteer entities
// @Tags views
// @Produce json
// @Success 200 {object} model.TextsView
// @Failure 500 {object} map[string]string
// @Router /views/texts [get]
func (h *Handler) Texts(w http.ResponseWriter, r *http.Request) {
	var view model.TextsView
	var err error
	if view.NarrativeTypes, err = h.store.NarrativeTypesYearly(); h.fail(w, &view.Notice, err) {
		return
	}
	if view.Notice == "" {
		if view.Sentiment, err = h.store.SentimentYearly(); h.fail(w, &view.Notice, err) {
			return
		}
		if view.Mattr, err = h.store.MattrYearly(); h.fail(w, &view.Notice, err) {
			return
		}
		if view.TopicWords, err = h.store.TopicWords(); h.fail(w, &view.Notice, err) {
			return
		}
		if view.TopicEvolution, err = h.store.TopicEvolution(); h.fail(w, &view.Notice, err) {
			return
		}
		if view.TopEntities, err = h.store.TopEntities(); h.fail(w, &view.Notice, err) {
			return
		}
	}
	h.respond(w, view)
}

// Geography returns inter-regional memory flows
// @Summary Memory geography
// @Description Birth-to-submission migration matrix and the strongest inter-regional edges
// @Tags views
// @Produce json
// @Success 200 {object} model.GeographyView
// @Failure 500 {object} map[string]string
// @Router /views/geography [get]
func (h *Handler) Geography(w http.ResponseWriter, r *http.Request) {
	var view model.GeographyView
	matrix, err := h.store.MigrationMatrix()
	if h.fail(w, &view.Notice, err) {
		return
	}
	if view.Notice == "" {
		view.Matrix = matrix
		if view.Edges, err = h.store.NetworkEdges(); h.fail(w, &view.Notice, err) {
			return
		}
		manifest, err := h.store.Manifest()
		if h.fail(w, &view.Notice, err) {
			return
		}
		if manifest != nil {
			view.LocalShare = manifest.LocalShare
		}
	}
	h.respond(w, view)
}

// Demography returns the rank and age distributions
// @Summary Demography
// @Description Rank-group age distribution and the officer/private age-gap series
// @Tags views
// @Produce json
// @Success 200 {object} model.DemographyView
// @Failure 500 {object} map[string]string
// @Router /views/demography [get]
func (h *Handler) Demography(w http.ResponseWriter, r *http.Request) {
	var view model.DemographyView
	dist, err := h.store.RankAgeDistribution()
	if h.fail(w, &view.Notice, err) {
		return
	}
	if view.Notice == "" {
		view.Distribution = dist
		view.AgeGap = ageGap(dist)
	}
	h.respond(w, view)
}

// ageGap compares mean age at death between officers and privates for
// every death year where both groups are present.
func ageGap(dist []model.RankAgeBucket) []model.AgeGapPoint {
	type acc struct {
		sum, n int
	}
	officers := make(map[int]*acc)
	privates := make(map[int]*acc)
	for _, b := range dist {
		var m map[int]*acc
		switch b.RankGroup {
		case model.RankOfficers:
			m = officers
		case model.RankPrivates:
			m = privates
		default:
			continue
		}
		a, ok := m[b.DeathYear]
		if !ok {
			a = &acc{}
			m[b.DeathYear] = a
		}
		a.sum += b.Age * b.Count
		a.n += b.Count
	}

	var years []int
	for y := range officers {
		if _, ok := privates[y]; ok {
			years = append(years, y)
		}
	}
	sort.Ints(years)

	points := make([]model.AgeGapPoint, 0, len(years))
	for _, y := range years {
		o := float64(officers[y].sum) / float64(officers[y].n)
		p := float64(privates[y].sum) / float64(privates[y].n)
		points = append(points, model.AgeGapPoint{
			DeathYear:   y,
			OfficerMean: o,
			PrivateMean: p,
			Gap:         o - p,
		})
	}
	return points
}

// Search runs a full-text query over the stratified sample
// @Summary Sample search
// @Description Ranked full-text search over the 50K sample with optional region and rank filters
// @Tags views
// @Produce json
// @Param q query string true "Query text"
// @Param region query string false "Exact region filter"
// @Param rank query string false "Exact rank filter"
// @Param limit query int false "Maximum hits (default 50)"
// @Param offset query int false "Ranked hits to skip"
// @Success 200 {object} model.SearchView
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /views/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := model.SearchView{Query: q.Get("q")}
	if view.Query == "" {
		http.Error(w, "query parameter q is required", http.StatusBadRequest)
		return
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	offset := 0
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "offset must be a non-negative integer", http.StatusBadRequest)
			return
		}
		offset = n
	}

	idx, err := h.searchIndex()
	if h.fail(w, &view.Notice, err) {
		return
	}
	if idx != nil {
		start := time.Now()
		view.Hits, view.Total = idx.Search(search.Query{
			Text:   view.Query,
			Region: q.Get("region"),
			Rank:   q.Get("rank"),
			Limit:  limit,
			Offset: offset,
		})
		view.Elapsed = time.Since(start).String()
	}
	h.respond(w, view)
}

// searchIndex returns the sample index, rebuilding it when the store
// served a fresh sample slice.
func (h *Handler) searchIndex() (*search.Index, error) {
	rows, err := h.store.Sample()
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == nil || !sameRows(h.indexRows, rows) {
		h.logger.Info("building search index", zap.Int("rows", len(rows)))
		h.index = search.New(rows)
		h.indexRows = rows
	}
	return h.index, nil
}

// sameRows reports whether both slices are the same cached sample.
func sameRows(a, b []model.SampleRow) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

// fail handles a loader error: a missing or unreadable artifact turns
// into a notice on the view (and the caller proceeds to respond),
// anything else is a plain 500. Returns true when the request is
// already answered.
func (h *Handler) fail(w http.ResponseWriter, notice *string, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrArtifactMissing) || errors.Is(err, store.ErrArtifactCorrupt) {
		*notice = err.Error()
		return false
	}
	h.logger.Error("view failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
	return true
}

func (h *Handler) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}
