package search

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"go-memorial-analytics/internal/model"
	"go-memorial-analytics/internal/pipeline"
)

// Field weights for ranking. A name hit outranks a story hit.
const (
	weightFIO    = 3.0
	weightRegion = 1.5
	weightRank   = 1.5
	weightStory  = 1.0
)

// DefaultLimit caps the hits returned when the query does not set one.
const DefaultLimit = 50

// Index is an in-memory inverted index over the stratified sample.
// Tokens from every searchable field map to a bitmap of row positions;
// a query intersects the bitmaps, then verifies and scores candidates
// field by field.
type Index struct {
	rows   []model.SampleRow
	tokens map[string]*roaring.Bitmap
	lower  []rowFields // lowercased field cache for verification
}

type rowFields struct {
	fio    string
	story  string
	region string
	rank   string
}

// Query is one search request against the sample.
type Query struct {
	Text   string
	Region string // exact region filter, empty = all
	Rank   string // exact rank filter, empty = all
	Limit  int    // 0 = DefaultLimit
	Offset int    // ranked hits to skip, for pagination
}

// New builds the index. Rows keep their slice order, which is the
// ID order the sample was persisted in.
func New(rows []model.SampleRow) *Index {
	idx := &Index{
		rows:   rows,
		tokens: make(map[string]*roaring.Bitmap),
		lower:  make([]rowFields, len(rows)),
	}
	for i := range rows {
		r := &rows[i]
		idx.lower[i] = rowFields{
			fio:    strings.ToLower(r.FIO),
			story:  strings.ToLower(r.Story),
			region: strings.ToLower(r.Region),
			rank:   strings.ToLower(r.Rank),
		}
		pos := uint32(i)
		idx.addTokens(pos, idx.lower[i].fio)
		idx.addTokens(pos, idx.lower[i].story)
		idx.addTokens(pos, idx.lower[i].region)
		idx.addTokens(pos, idx.lower[i].rank)
	}
	return idx
}

func (idx *Index) addTokens(pos uint32, text string) {
	for _, tok := range pipeline.Tokenize(text) {
		bm, ok := idx.tokens[tok]
		if !ok {
			bm = roaring.New()
			idx.tokens[tok] = bm
		}
		bm.Add(pos)
	}
}

// Size returns the number of indexed rows.
func (idx *Index) Size() int { return len(idx.rows) }

// Search runs the query and returns ranked hits plus the total match
// count before the limit was applied.
func (idx *Index) Search(q Query) ([]model.SearchHit, int) {
	terms := pipeline.Tokenize(strings.ToLower(q.Text))
	if len(terms) == 0 {
		return nil, 0
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	cand := idx.candidates(terms)
	if cand.IsEmpty() {
		return nil, 0
	}

	region := strings.ToLower(q.Region)
	rank := strings.ToLower(q.Rank)

	type scored struct {
		pos   int
		score float64
	}
	var matched []scored
	it := cand.Iterator()
	for it.HasNext() {
		pos := int(it.Next())
		f := &idx.lower[pos]
		if region != "" && f.region != region {
			continue
		}
		if rank != "" && f.rank != rank {
			continue
		}
		score, ok := scoreRow(f, terms)
		if !ok {
			continue
		}
		matched = append(matched, scored{pos: pos, score: score})
	}
	total := len(matched)

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return idx.rows[matched[i].pos].ID < idx.rows[matched[j].pos].ID
	})
	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	hits := make([]model.SearchHit, 0, len(matched))
	for _, m := range matched {
		hits = append(hits, idx.buildHit(m.pos, m.score, terms))
	}
	return hits, total
}

// candidates intersects per-term bitmaps. A term absent from the
// vocabulary falls back to a substring scan over the vocabulary, so
// partial words (inflected forms) still find their rows.
func (idx *Index) candidates(terms []string) *roaring.Bitmap {
	var acc *roaring.Bitmap
	for _, term := range terms {
		bm := idx.termBitmap(term)
		if acc == nil {
			acc = bm.Clone()
			continue
		}
		acc.And(bm)
		if acc.IsEmpty() {
			return acc
		}
	}
	if acc == nil {
		return roaring.New()
	}
	return acc
}

func (idx *Index) termBitmap(term string) *roaring.Bitmap {
	if bm, ok := idx.tokens[term]; ok {
		return bm
	}
	// Inflection fallback: union every vocabulary token containing the
	// term as a substring.
	union := roaring.New()
	for tok, bm := range idx.tokens {
		if strings.Contains(tok, term) {
			union.Or(bm)
		}
	}
	return union
}

// scoreRow verifies that every term occurs in at least one field and
// returns the weighted hit score.
func scoreRow(f *rowFields, terms []string) (float64, bool) {
	var score float64
	for _, term := range terms {
		var termScore float64
		if strings.Contains(f.fio, term) {
			termScore += weightFIO
		}
		if strings.Contains(f.region, term) {
			termScore += weightRegion
		}
		if strings.Contains(f.rank, term) {
			termScore += weightRank
		}
		if n := strings.Count(f.story, term); n > 0 {
			termScore += weightStory * float64(n)
		}
		if termScore == 0 {
			return 0, false
		}
		score += termScore
	}
	return score, true
}

func (idx *Index) buildHit(pos int, score float64, terms []string) model.SearchHit {
	row := idx.rows[pos]
	chars, words, unique := pipeline.WordStats(row.Story)
	card := model.Card{Story: row.Story}
	return model.SearchHit{
		Row:      row,
		Score:    score,
		Snippet:  Snippet(row.Story, terms),
		Chars:    chars,
		Words:    words,
		Unique:   unique,
		Mattr:    pipeline.MATTR(row.Story),
		Narrtype: pipeline.ClassifyNarrative(&card),
	}
}
