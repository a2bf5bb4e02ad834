package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"go-memorial-analytics/internal/model"
	"go-memorial-analytics/pkg/utils"

	"go.uber.org/zap"
)

// logEvery controls ingest progress logging cadence.
const logEvery = 100_000

// Ingestor streams cards out of the raw CSV export.
type Ingestor struct {
	Path   string
	Logger *zap.Logger

	skipped atomic.Int64
	total   atomic.Int64
}

// NewIngestor returns an ingestor for the given CSV path.
func NewIngestor(path string, logger *zap.Logger) *Ingestor {
	return &Ingestor{Path: path, Logger: logger}
}

// Skipped returns the number of malformed rows skipped so far.
func (in *Ingestor) Skipped() int { return int(in.skipped.Load()) }

// Total returns the number of rows successfully ingested so far.
func (in *Ingestor) Total() int { return int(in.total.Load()) }

// Run reads the CSV and sends one Card per well-formed row, closing out
// when the file is exhausted. A missing or unreadable file is fatal;
// malformed rows are skipped and counted.
func (in *Ingestor) Run(ctx context.Context, out chan<- model.Card) error {
	defer close(out)

	f, err := os.Open(in.Path)
	if err != nil {
		return fmt.Errorf("open input %s: %w", in.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[utils.CleanHeader(h)] = i
	}
	if _, ok := cols["id"]; !ok {
		return fmt.Errorf("input %s: header has no id column", in.Path)
	}

	field := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			in.Logger.Info("ingest complete",
				zap.Int("rows", in.Total()),
				zap.Int("skipped", in.Skipped()))
			return nil
		}
		if err != nil {
			// Wrong field count or broken quoting: skip, keep reading.
			in.skipped.Add(1)
			continue
		}

		card := model.Card{
			ID:           field(row, "id"),
			URL:          field(row, "url"),
			FIO:          field(row, "fio"),
			Title:        field(row, "title"),
			Story:        field(row, "story"),
			Region:       field(row, "region"),
			Locality:     field(row, "locality"),
			Birthplace:   field(row, "birthplace"),
			Rank:         field(row, "rank"),
			Specialty:    field(row, "specialty"),
			ServiceYears: field(row, "service_years"),
			Birthday:     field(row, "birthday"),
			Death:        field(row, "death"),
			DraftPlace:   field(row, "draft_place"),
			DraftDate:    field(row, "draft_date"),
			Subdivision:  field(row, "subdivision"),
			Battles:      field(row, "battles"),
			Hospitals:    field(row, "hospitals"),
			AwardsTxt:    field(row, "awards_txt"),
			AuthorName:   field(row, "author_name"),
			AuthorURL:    field(row, "author_url"),
			AddedRegion:  field(row, "added_region"),
			PubDate:      field(row, "pub_date"),
		}
		if card.ID == "" {
			in.skipped.Add(1)
			continue
		}
		card.AwardsCnt, card.AwardsKnown = utils.ParseCount(field(row, "awards_cnt"))
		card.PhotosCnt, _ = utils.ParseCount(field(row, "photos_cnt"))

		Derive(&card)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- card:
			if n := in.total.Add(1); n%logEvery == 0 {
				in.Logger.Info("ingest progress", zap.Int64("rows", n))
			}
		}
	}
}
