package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// GameLogStore is the slice of the game-log repository the reconciler needs.
type GameLogStore interface {
	FindByDateKey(ctx context.Context, playerID int, season string, gameDate time.Time) (*store.GameLog, error)
	FindBySourceGameID(ctx context.Context, playerID int, season, sourceGameID string) (*store.GameLog, error)
	Upsert(ctx context.Context, g *store.GameLog) (bool, error)
}

// AdvancedStore is the slice of the advanced repository the reconciler needs.
type AdvancedStore interface {
	Upsert(ctx context.Context, adv *store.AdvancedBoxScore) error
}

// Matcher locates the existing game log a record refers to. The natural
// key (player, season, date) is tried first; the source game id is a
// fallback for rows whose dates were recorded off-by-one by an earlier
// source.
type Matcher struct {
	gameLogs GameLogStore
}

// NewMatcher creates a matcher over the given game-log store.
func NewMatcher(gameLogs GameLogStore) *Matcher {
	return &Matcher{gameLogs: gameLogs}
}

// Match returns the matching game log, or nil when the record is new.
func (m *Matcher) Match(ctx context.Context, playerID int, season string, gameDate time.Time, sourceGameID string) (*store.GameLog, error) {
	g, err := m.gameLogs.FindByDateKey(ctx, playerID, season, gameDate)
	if err != nil {
		return nil, fmt.Errorf("date-key lookup failed: %w", err)
	}
	if g != nil {
		return g, nil
	}

	if sourceGameID == "" {
		return nil, nil
	}

	return m.MatchBySourceID(ctx, playerID, season, sourceGameID)
}

// MatchBySourceID locates a game log by its raw source id alone. Records
// whose dates fail to parse still key on the id a prior ingest stored.
func (m *Matcher) MatchBySourceID(ctx context.Context, playerID int, season, sourceGameID string) (*store.GameLog, error) {
	g, err := m.gameLogs.FindBySourceGameID(ctx, playerID, season, sourceGameID)
	if err != nil {
		return nil, fmt.Errorf("source-game-id lookup failed: %w", err)
	}
	return g, nil
}
