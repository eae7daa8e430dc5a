package reconcile

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/normalize"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// Outcome classifies what happened to a single record.
type Outcome int

const (
	// Inserted means a new game log row was created.
	Inserted Outcome = iota
	// Updated means an existing row was overwritten with new values.
	Updated
	// Skipped means the stored row already matched the record.
	Skipped
	// Unmatched means the record could not be keyed, or no game log
	// could be located for it.
	Unmatched
	// Dropped means the record failed the activity filter and nothing
	// was written.
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case Skipped:
		return "skipped"
	case Unmatched:
		return "unmatched"
	case Dropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// IdentityResolver is the slice of the identity resolver the reconciler
// needs.
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, rawName, teamAbbr string) (int, error)
	Resolve(ctx context.Context, rawName string) (int, bool, error)
}

// Metrics counts outcomes across a run. Safe for concurrent use.
type Metrics struct {
	mu     sync.Mutex
	counts map[Outcome]int
	errors int
}

// NewMetrics creates an empty counter set.
func NewMetrics() *Metrics {
	return &Metrics{counts: make(map[Outcome]int)}
}

func (m *Metrics) record(o Outcome) {
	m.mu.Lock()
	m.counts[o]++
	m.mu.Unlock()
}

// RecordError counts a failed record.
func (m *Metrics) RecordError() {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
}

// Count returns the tally for one outcome.
func (m *Metrics) Count(o Outcome) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[o]
}

// LogSummary prints the run tallies.
func (m *Metrics) LogSummary(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.Printf("[reconcile] ✓ %s: %d inserted, %d updated, %d skipped, %d unmatched, %d dropped, %d errors",
		label, m.counts[Inserted], m.counts[Updated], m.counts[Skipped],
		m.counts[Unmatched], m.counts[Dropped], m.errors)
}

// Coordinator runs the full reconciliation path for each record: resolve
// the player, match or create the game log, then write advanced metrics
// keyed to the resulting row. Re-ingesting identical data is a no-op.
type Coordinator struct {
	resolver IdentityResolver
	matcher  *Matcher
	gameLogs GameLogStore
	advanced AdvancedStore
	metrics  *Metrics
}

// NewCoordinator wires a coordinator over the given stores.
func NewCoordinator(resolver IdentityResolver, gameLogs GameLogStore, advanced AdvancedStore) *Coordinator {
	return &Coordinator{
		resolver: resolver,
		matcher:  NewMatcher(gameLogs),
		gameLogs: gameLogs,
		advanced: advanced,
		metrics:  NewMetrics(),
	}
}

// Metrics exposes the run counters.
func (c *Coordinator) Metrics() *Metrics {
	return c.metrics
}

// Ingest reconciles one full record (base stats, optionally advanced) for
// the given season. New players and new game logs are created as needed.
func (c *Coordinator) Ingest(ctx context.Context, season string, rec *PerformanceRecord) (Outcome, error) {
	if rec.DidNotPlay() {
		c.metrics.record(Dropped)
		return Dropped, nil
	}

	gameDate, dateOK := normalize.GameDate(rec.GameDateRaw)
	if !dateOK && rec.SourceGameID == "" {
		log.Printf("[reconcile] ⚠️ Unparseable game date %q for %s and no source game id, record unmatched", rec.GameDateRaw, rec.PlayerName)
		c.metrics.record(Unmatched)
		return Unmatched, nil
	}

	playerID, err := c.resolver.ResolveOrCreate(ctx, rec.PlayerName, rec.Team)
	if err != nil {
		c.metrics.RecordError()
		return Dropped, fmt.Errorf("identity resolution failed for %q: %w", rec.PlayerName, err)
	}

	// A bad date leaves the source game id as the only usable key; an
	// id hit still lands the record on the stored row.
	var existing *store.GameLog
	if dateOK {
		existing, err = c.matcher.Match(ctx, playerID, season, gameDate, rec.SourceGameID)
	} else {
		existing, err = c.matcher.MatchBySourceID(ctx, playerID, season, rec.SourceGameID)
	}
	if err != nil {
		c.metrics.RecordError()
		return Dropped, err
	}
	if !dateOK && existing == nil {
		log.Printf("[reconcile] ⚠️ Unparseable game date %q for %s and unknown source game id %q, record unmatched", rec.GameDateRaw, rec.PlayerName, rec.SourceGameID)
		c.metrics.record(Unmatched)
		return Unmatched, nil
	}

	if existing != nil && rec.sameBaseStats(existing) {
		if err := c.writeAdvanced(ctx, existing.GameLogID, rec.Advanced); err != nil {
			c.metrics.RecordError()
			return Skipped, err
		}
		c.metrics.record(Skipped)
		return Skipped, nil
	}

	g := &store.GameLog{
		PlayerID:     playerID,
		Season:       season,
		GameDate:     gameDate,
		Opponent:     store.NullStr(rec.Opponent),
		SourceGameID: store.NullStr(rec.SourceGameID),
		Minutes:      rec.Minutes,
		Points:       rec.Points,
		Rebounds:     rec.Rebounds,
		Assists:      rec.Assists,
		Steals:       rec.Steals,
		Blocks:       rec.Blocks,
	}
	// A source-id match can carry a corrected date; keep the stored key so
	// the upsert hits the existing row instead of minting a sibling.
	if existing != nil {
		g.GameDate = existing.GameDate
	}

	inserted, err := c.gameLogs.Upsert(ctx, g)
	if err != nil {
		c.metrics.RecordError()
		return Dropped, fmt.Errorf("game log upsert failed for %q on %s: %w", rec.PlayerName, g.GameDate.Format("2006-01-02"), err)
	}

	if err := c.writeAdvanced(ctx, g.GameLogID, rec.Advanced); err != nil {
		c.metrics.RecordError()
		outcome := Updated
		if inserted {
			outcome = Inserted
		}
		return outcome, err
	}

	if inserted {
		c.metrics.record(Inserted)
		return Inserted, nil
	}
	c.metrics.record(Updated)
	return Updated, nil
}

// IngestAdvanced reconciles an advanced-only record against an existing
// game log. Unlike Ingest it never creates players or game logs: a record
// with no base row to attach to is reported Unmatched.
func (c *Coordinator) IngestAdvanced(ctx context.Context, season string, rec *PerformanceRecord) (Outcome, error) {
	if !rec.Advanced.HasData() {
		c.metrics.record(Dropped)
		return Dropped, nil
	}

	gameDate, dateOK := normalize.GameDate(rec.GameDateRaw)
	if !dateOK && rec.SourceGameID == "" {
		log.Printf("[reconcile] ⚠️ Unparseable game date %q for advanced record %q and no source game id, record unmatched", rec.GameDateRaw, rec.PlayerName)
		c.metrics.record(Unmatched)
		return Unmatched, nil
	}

	playerID, known, err := c.resolver.Resolve(ctx, rec.PlayerName)
	if err != nil {
		c.metrics.RecordError()
		return Unmatched, err
	}
	if !known {
		log.Printf("[reconcile] ⚠️ No known player for advanced record %q", rec.PlayerName)
		c.metrics.record(Unmatched)
		return Unmatched, nil
	}

	var existing *store.GameLog
	if dateOK {
		existing, err = c.matcher.Match(ctx, playerID, season, gameDate, rec.SourceGameID)
	} else {
		existing, err = c.matcher.MatchBySourceID(ctx, playerID, season, rec.SourceGameID)
	}
	if err != nil {
		c.metrics.RecordError()
		return Unmatched, err
	}
	if existing == nil {
		log.Printf("[reconcile] ⚠️ No game log for advanced record %q (%s), record unmatched", rec.PlayerName, rec.GameDateRaw)
		c.metrics.record(Unmatched)
		return Unmatched, nil
	}

	if err := c.writeAdvanced(ctx, existing.GameLogID, rec.Advanced); err != nil {
		c.metrics.RecordError()
		return Unmatched, err
	}
	c.metrics.record(Updated)
	return Updated, nil
}

// writeAdvanced persists advanced metrics under a game log id. Net rating
// is always recomputed from the two component ratings.
func (c *Coordinator) writeAdvanced(ctx context.Context, gameLogID int, m *AdvancedMetrics) error {
	if !m.HasData() {
		return nil
	}

	net := normalize.NetRating(m.OffensiveRating, m.DefensiveRating)
	adv := &store.AdvancedBoxScore{
		GameLogID:              gameLogID,
		OffensiveRating:        store.NullFloat(m.OffensiveRating, m.OffensiveRating != 0),
		DefensiveRating:        store.NullFloat(m.DefensiveRating, m.DefensiveRating != 0),
		NetRating:              store.NullFloat(net, net != 0),
		EffectiveFGPercentage:  m.EffectiveFG,
		TrueShootingPercentage: m.TrueShooting,
		UsagePercentage:        m.Usage,
		Pace:                   m.Pace,
		PlayerImpactEstimate:   m.PIE,
	}

	if err := c.advanced.Upsert(ctx, adv); err != nil {
		return fmt.Errorf("advanced upsert failed for game log %d: %w", gameLogID, err)
	}
	return nil
}
