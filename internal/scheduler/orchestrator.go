// Package scheduler runs the two recurring jobs: the morning odds snapshot
// and the nightly stats ingestion.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/enrich"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/ingest/odds"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/ingest/statsapi"
)

// Config holds scheduler configuration
type Config struct {
	OddsFetchHour    int    // Default: 9 (9 AM)
	NightlyIngestHr  int    // Default: 3 (3 AM)
	CurrentSeason    string // e.g., "2025-26"
	DataDir          string
	EnableOddsFetch  bool
	EnableEnrichment bool
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		OddsFetchHour:    9,
		NightlyIngestHr:  3,
		CurrentSeason:    "2025-26",
		DataDir:          "data",
		EnableOddsFetch:  true,
		EnableEnrichment: true,
	}
}

// Orchestrator manages the recurring ingestion jobs
type Orchestrator struct {
	config      *Config
	statsIngest *statsapi.Ingester
	oddsClient  *odds.Client
	enricher    *enrich.HeadshotEnricher
	cancel      context.CancelFunc
}

// NewOrchestrator creates a scheduler over the wired ingesters. oddsClient
// and enricher may be nil when their jobs are disabled.
func NewOrchestrator(config *Config, statsIngest *statsapi.Ingester, oddsClient *odds.Client, enricher *enrich.HeadshotEnricher) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Orchestrator{
		config:      config,
		statsIngest: statsIngest,
		oddsClient:  oddsClient,
		enricher:    enricher,
	}
}

// Start begins all scheduled tasks and blocks until ctx is cancelled or
// Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	log.Printf("[scheduler] Starting: nightly ingest at %02d:00, odds fetch at %02d:00 (enabled: %v)",
		o.config.NightlyIngestHr, o.config.OddsFetchHour, o.config.EnableOddsFetch)
	log.Printf("[scheduler] Season: %s", o.config.CurrentSeason)

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	go o.runDaily(ctx, "nightly ingest", o.config.NightlyIngestHr, o.runNightlyIngest)
	if o.config.EnableOddsFetch && o.oddsClient != nil {
		go o.runDaily(ctx, "odds fetch", o.config.OddsFetchHour, o.runOddsFetch)
	}

	<-ctx.Done()
	log.Println("[scheduler] Stopping...")
}

// Stop cancels all scheduled tasks.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
}

// runDaily fires task once a day at the given hour, local time.
func (o *Orchestrator) runDaily(ctx context.Context, name string, hour int, task func(ctx context.Context)) {
	log.Printf("[scheduler] → %s scheduled daily at %02d:00", name, hour)

	for {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
		if now.After(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		waitDuration := time.Until(nextRun)
		log.Printf("[scheduler] Next %s: %s (in %v)", name, nextRun.Format("2006-01-02 15:04:05"), waitDuration.Round(time.Second))

		select {
		case <-ctx.Done():
			log.Printf("[scheduler] → %s stopped", name)
			return
		case <-time.After(waitDuration):
			start := time.Now()
			task(ctx)
			log.Printf("[scheduler] ✓ %s complete in %v", name, time.Since(start).Round(time.Second))
		}
	}
}

// runNightlyIngest pulls the season's game logs; by 03:00 the previous
// evening's stats have settled upstream.
func (o *Orchestrator) runNightlyIngest(ctx context.Context) {
	if err := o.statsIngest.IngestSeason(ctx, o.config.CurrentSeason); err != nil {
		log.Printf("[scheduler] ❌ Nightly ingest failed: %v", err)
		return
	}

	if o.config.EnableEnrichment && o.enricher != nil {
		if err := o.enricher.Run(ctx); err != nil {
			log.Printf("[scheduler] ⚠️ Headshot enrichment failed: %v", err)
		}
	}
}

// runOddsFetch snapshots the upcoming event list to disk.
func (o *Orchestrator) runOddsFetch(ctx context.Context) {
	events, err := o.oddsClient.Events(ctx)
	if err != nil {
		log.Printf("[scheduler] ❌ Odds fetch failed: %v", err)
		return
	}

	path, err := odds.WriteSnapshot(o.config.DataDir, time.Now(), events)
	if err != nil {
		log.Printf("[scheduler] ❌ Failed to write odds snapshot: %v", err)
		return
	}
	log.Printf("[scheduler] ✓ Odds snapshot written to %s", path)
}
