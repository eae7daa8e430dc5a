package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/api/rest"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/cache"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/config"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/enrich"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/fetch"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/identity"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/ingest/odds"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/ingest/statsapi"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/reconcile"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/scheduler"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/store/repository"
)

const (
	serviceName    = "statshub"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s", serviceName, serviceVersion)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := store.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✓ Connected to database")

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// Redis is a shared lookup layer, not a dependency; run without it
	// when unreachable.
	var identityCache identity.IdentityCache
	var cacheHealth rest.HealthChecker
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, running without identity cache: %v", err)
	} else {
		defer redisCache.Close()
		identityCache = redisCache
		cacheHealth = redisCache
		log.Println("✓ Connected to Redis")
	}

	players := repository.NewPlayerRepository(db)
	gameLogs := repository.NewGameLogRepository(db)
	advanced := repository.NewAdvancedRepository(db)

	resolver := identity.NewResolver(players, identityCache)
	coordinator := reconcile.NewCoordinator(resolver, gameLogs, advanced)

	statsClient := statsapi.NewClient(cfg.StatsAPIBase, cfg.RequestTimeout)
	pacer := fetch.NewPacer(2*time.Second, 5*time.Second)
	statsIngester := statsapi.NewIngester(statsClient, coordinator, pacer, cfg.MaxRetries, cfg.BaseRetryDelay)

	directory := statsapi.NewLeagueDirectory(statsClient, pacer, cfg.CurrentSeason)
	enricher := enrich.NewHeadshotEnricher(directory, players)

	oddsClient := odds.NewClient(cfg.OddsAPIBase, cfg.OddsAPIKey, cfg.RequestTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sched *scheduler.Orchestrator
	if cfg.EnableScheduler {
		sched = scheduler.NewOrchestrator(&scheduler.Config{
			OddsFetchHour:    cfg.ScheduleFetchHr,
			NightlyIngestHr:  cfg.NightlyIngestHr,
			CurrentSeason:    cfg.CurrentSeason,
			DataDir:          cfg.DataDir,
			EnableOddsFetch:  cfg.OddsAPIKey != "",
			EnableEnrichment: cfg.EnableEnrichment,
		}, statsIngester, oddsClient, enricher)
		go sched.Start(ctx)
		log.Println("✓ Scheduler started")
	}

	restHandler := rest.NewHandler(db, cacheHealth, players, gameLogs, advanced)
	restServer := rest.NewServer(cfg.RESTPort, restHandler)
	go func() {
		log.Printf("✓ REST API listening on :%s", cfg.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Printf("Shutting down %s gracefully...", serviceName)

	cancel()
	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}
