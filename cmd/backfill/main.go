package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/backfill"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/config"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/fetch"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/identity"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/ingest/bref"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/reconcile"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/store/repository"
)

const (
	appName    = "statshub-backfill"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		season    = flag.String("season", "", "Season to backfill (e.g., 2024-25)")
		startDate = flag.String("start", "", "Start date (YYYY-MM-DD)")
		endDate   = flag.String("end", "", "End date (YYYY-MM-DD)")
		dryRun    = flag.Bool("dry-run", false, "Dry run (do not write to DB)")
	)
	flag.Parse()

	if *season == "" && (*startDate == "" || *endDate == "") {
		log.Fatalf("Specify --season or --start/--end")
	}

	cfg := config.Load()

	db, err := store.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	players := repository.NewPlayerRepository(db)
	gameLogs := repository.NewGameLogRepository(db)
	advanced := repository.NewAdvancedRepository(db)

	resolver := identity.NewResolver(players, nil)
	coordinator := reconcile.NewCoordinator(resolver, gameLogs, advanced)

	brefClient := bref.NewClient(cfg.BrefBase, cfg.RequestTimeout)
	defer brefClient.Close()

	// Historical scrapes get longer pauses than the nightly job; there is
	// no deadline and the source bans impatient crawlers.
	pacer := fetch.NewPacer(4*time.Second, 10*time.Second)
	ingester := bref.NewIngester(brefClient, coordinator, pacer, cfg.MaxRetries, cfg.BaseRetryDelay)

	spec, err := buildSpec(*season, *startDate, *endDate)
	if err != nil {
		log.Fatalf("build spec: %v", err)
	}
	spec.DryRun = *dryRun

	reporter := &consoleReporter{dryRun: *dryRun}
	if err := backfill.NewRunner(ingester).Run(context.Background(), spec, reporter); err != nil {
		log.Fatalf("backfill failed: %v", err)
	}

	log.Println("✓ Backfill completed successfully")
}

func buildSpec(season, startStr, endStr string) (backfill.JobSpec, error) {
	if season != "" {
		return backfill.JobSpec{Type: backfill.JobTypeSeason, Season: season}, nil
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return backfill.JobSpec{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return backfill.JobSpec{}, fmt.Errorf("invalid end date: %w", err)
	}

	return backfill.JobSpec{Type: backfill.JobTypeDateRange, Start: start, End: end}, nil
}

type consoleReporter struct {
	dryRun bool
}

func (c *consoleReporter) OnJobStart(spec backfill.JobSpec) {
	log.Printf("Starting %s job (dry_run=%v)", spec.Type, c.dryRun)
}

func (c *consoleReporter) OnDateStart(date time.Time, index int, total int) {
	log.Printf("[%d/%d] %s", index+1, total, date.Format("2006-01-02"))
}

func (c *consoleReporter) OnProgress(message string, current int, total int) {
	log.Printf("Progress: %s (%d/%d)", message, current, total)
}

func (c *consoleReporter) OnJobComplete() {
	log.Println("Job complete")
}

func (c *consoleReporter) OnJobError(err error) {
	log.Printf("Job error: %v", err)
}
