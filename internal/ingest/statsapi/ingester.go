package statsapi

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/fetch"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/reconcile"
)

// Ingester pulls a season's game logs through the reconciliation path:
// the Base measure first to establish game logs, then the Advanced measure
// attached to them.
type Ingester struct {
	client      *Client
	coordinator *reconcile.Coordinator
	pacer       *fetch.Pacer
	maxRetries  int
	baseDelay   time.Duration
}

// NewIngester wires a stats endpoint ingester.
func NewIngester(client *Client, coordinator *reconcile.Coordinator, pacer *fetch.Pacer, maxRetries int, baseDelay time.Duration) *Ingester {
	return &Ingester{
		client:      client,
		coordinator: coordinator,
		pacer:       pacer,
		maxRetries:  maxRetries,
		baseDelay:   baseDelay,
	}
}

// IngestSeason runs the full base-then-advanced pass for one season.
// Per-record failures are logged and skipped; a failed fetch aborts.
func (i *Ingester) IngestSeason(ctx context.Context, season string) error {
	base, err := i.fetchLogs(ctx, season, MeasureBase)
	if err != nil {
		return fmt.Errorf("fetching base game logs: %w", err)
	}
	for _, rec := range ParseGameLogs(base) {
		if _, err := i.coordinator.Ingest(ctx, season, rec); err != nil {
			log.Printf("[statsapi] ⚠️ Failed to ingest %s: %v", rec.PlayerName, err)
		}
	}

	if err := i.pacer.Wait(ctx); err != nil {
		return err
	}

	advanced, err := i.fetchLogs(ctx, season, MeasureAdvanced)
	if err != nil {
		return fmt.Errorf("fetching advanced game logs: %w", err)
	}
	for _, rec := range ParseAdvancedGameLogs(advanced) {
		if _, err := i.coordinator.IngestAdvanced(ctx, season, rec); err != nil {
			log.Printf("[statsapi] ⚠️ Failed to ingest advanced line for %s: %v", rec.PlayerName, err)
		}
	}

	i.coordinator.Metrics().LogSummary("season " + season)
	return nil
}

// fetchLogs retries transient failures and falls back to the alternate
// parameter shape once if the endpoint rejects the primary one.
func (i *Ingester) fetchLogs(ctx context.Context, season string, measure MeasureType) (*RowSet, error) {
	var rs *RowSet
	label := fmt.Sprintf("playergamelogs %s %s", season, measure)

	err := fetch.WithShapeFallback(ctx, label, func(ctx context.Context, fallbackShape bool) error {
		return fetch.WithRetry(ctx, label, i.maxRetries, i.baseDelay, func(ctx context.Context) error {
			var err error
			rs, err = i.client.PlayerGameLogs(ctx, season, measure, fallbackShape)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}
