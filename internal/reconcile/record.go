// Package reconcile merges performance records from heterogeneous sources
// into the canonical store. Every source parser emits PerformanceRecord;
// the Coordinator owns identity resolution, game-log matching, and the
// idempotent write path.
package reconcile

import (
	"database/sql"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// PerformanceRecord is one player's line for one game, already normalized
// to canonical units by the source parser. Minutes uses decimal minutes;
// percentage metrics use the whole-number convention.
type PerformanceRecord struct {
	PlayerName   string
	Team         string
	Opponent     string
	GameDateRaw  string
	SourceGameID string

	Minutes      float64
	MinutesKnown bool
	Points       int
	Rebounds     int
	Assists      int
	Steals       int
	Blocks       int

	Advanced *AdvancedMetrics
}

// AdvancedMetrics carries the efficiency line of a record. Ratings use 0.0
// as the no-data sentinel; optional percentages carry their own validity.
type AdvancedMetrics struct {
	OffensiveRating float64
	DefensiveRating float64
	TrueShooting    sql.NullFloat64
	EffectiveFG     sql.NullFloat64
	Usage           sql.NullFloat64
	Pace            sql.NullFloat64
	PIE             sql.NullFloat64
}

// HasData reports whether the metrics carry anything worth persisting.
// All-sentinel rows come from sources that pad advanced tables for bench
// players who never checked in.
func (m *AdvancedMetrics) HasData() bool {
	if m == nil {
		return false
	}
	return m.OffensiveRating != 0 || m.DefensiveRating != 0 ||
		m.TrueShooting.Valid || m.EffectiveFG.Valid ||
		m.Usage.Valid || m.PIE.Valid || m.Pace.Valid
}

// DidNotPlay is the activity filter: zero minutes and zero points means the
// row is a DNP placeholder, not a performance.
func (r *PerformanceRecord) DidNotPlay() bool {
	return r.Minutes == 0 && r.Points == 0
}

// sameBaseStats reports whether an existing game log already holds this
// record's counting line.
func (r *PerformanceRecord) sameBaseStats(g *store.GameLog) bool {
	return g.Minutes == r.Minutes &&
		g.Points == r.Points &&
		g.Rebounds == r.Rebounds &&
		g.Assists == r.Assists &&
		g.Steals == r.Steals &&
		g.Blocks == r.Blocks
}
