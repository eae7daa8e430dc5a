package bref

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/fetch"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/normalize"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/reconcile"
)

// Ingester walks one day of box score pages through the reconciliation
// path. This source carries base and advanced stats on the same page, so
// each record goes through the full ingest in one shot.
type Ingester struct {
	client      *Client
	coordinator *reconcile.Coordinator
	pacer       *fetch.Pacer
	maxRetries  int
	baseDelay   time.Duration
}

// NewIngester wires a box score ingester.
func NewIngester(client *Client, coordinator *reconcile.Coordinator, pacer *fetch.Pacer, maxRetries int, baseDelay time.Duration) *Ingester {
	return &Ingester{
		client:      client,
		coordinator: coordinator,
		pacer:       pacer,
		maxRetries:  maxRetries,
		baseDelay:   baseDelay,
	}
}

// IngestDate ingests every game played on one date. A page that fails to
// fetch or parse is logged and skipped so one bad game does not sink the
// whole day.
func (i *Ingester) IngestDate(ctx context.Context, date time.Time) error {
	var pageIDs []string
	err := fetch.WithRetry(ctx, "daily box score index", i.maxRetries, i.baseDelay, func(ctx context.Context) error {
		var err error
		pageIDs, err = i.client.FetchDailyIndex(ctx, date)
		return err
	})
	if err != nil {
		return fmt.Errorf("fetching box score index for %s: %w", date.Format("2006-01-02"), err)
	}

	if len(pageIDs) == 0 {
		log.Printf("[bref] No games on %s", date.Format("2006-01-02"))
		return nil
	}
	log.Printf("[bref] ✓ Found %d games on %s", len(pageIDs), date.Format("2006-01-02"))

	season := normalize.SeasonString(date)
	dateRaw := date.Format("2006-01-02")

	for _, pageID := range pageIDs {
		if err := i.pacer.Wait(ctx); err != nil {
			return err
		}
		if err := i.ingestGame(ctx, pageID, season, dateRaw); err != nil {
			log.Printf("[bref] ⚠️ Skipping game %s: %v", pageID, err)
		}
	}

	i.coordinator.Metrics().LogSummary("box scores " + dateRaw)
	return nil
}

func (i *Ingester) ingestGame(ctx context.Context, pageID, season, dateRaw string) error {
	var records []*reconcile.PerformanceRecord
	err := fetch.WithRetry(ctx, "box score "+pageID, i.maxRetries, i.baseDelay, func(ctx context.Context) error {
		doc, err := i.client.FetchBoxScore(ctx, pageID)
		if err != nil {
			return err
		}
		records, err = ParseGame(doc, dateRaw)
		return err
	})
	if err != nil {
		return err
	}

	for _, rec := range records {
		if _, err := i.coordinator.Ingest(ctx, season, rec); err != nil {
			log.Printf("[bref] ⚠️ Failed to ingest %s: %v", rec.PlayerName, err)
		}
	}
	return nil
}
