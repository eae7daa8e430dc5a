package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded once at startup.
type Config struct {
	DatabaseURL string
	RedisURL    string
	RESTPort    string

	StatsAPIBase string
	BrefBase     string
	OddsAPIBase  string
	OddsAPIKey   string

	CurrentSeason string
	DataDir       string

	RequestTimeout time.Duration
	MaxRetries     int
	BaseRetryDelay time.Duration

	EnableScheduler  bool
	ScheduleFetchHr  int // morning schedule fetch (local hour)
	NightlyIngestHr  int // nightly stats ingestion (local hour)
	EnableEnrichment bool
}

// Load reads configuration from the environment. A .env file is applied
// first if present so local runs match the deployed job environment.
func Load() Config {
	// Missing .env is fine; deployed jobs get real env vars.
	_ = godotenv.Load()

	return Config{
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/nba_stats?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		RESTPort:    getEnv("REST_PORT", "8080"),

		StatsAPIBase: getEnv("STATS_API_BASE", "https://stats.nba.com/stats"),
		BrefBase:     getEnv("BREF_BASE", "https://www.basketball-reference.com"),
		OddsAPIBase:  getEnv("ODDS_API_BASE", "https://api.the-odds-api.com"),
		OddsAPIKey:   getEnv("ODDS_API_KEY", ""),

		CurrentSeason: getEnv("CURRENT_SEASON", "2025-26"),
		DataDir:       getEnv("DATA_DIR", "data"),

		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 120*time.Second),
		MaxRetries:     getEnvInt("MAX_RETRIES", 5),
		BaseRetryDelay: getEnvDuration("BASE_RETRY_DELAY", time.Second),

		EnableScheduler:  getEnv("ENABLE_SCHEDULER", "true") == "true",
		ScheduleFetchHr:  getEnvInt("SCHEDULE_FETCH_HOUR", 9),
		NightlyIngestHr:  getEnvInt("NIGHTLY_INGEST_HOUR", 3),
		EnableEnrichment: getEnv("ENABLE_ENRICHMENT", "true") == "true",
	}
}

// Validate reports configuration that would make scheduled jobs fail at
// runtime rather than startup.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be non-negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
