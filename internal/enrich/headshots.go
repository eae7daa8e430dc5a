// Package enrich backfills presentation data that the stat pipeline does
// not carry, currently player headshot URLs.
package enrich

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/ingest/statsapi"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/normalize"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// headshotURLTemplate is the league CDN path keyed by remote player id.
const headshotURLTemplate = "https://cdn.nba.com/headshots/nba/latest/1040x760/%d.png"

// Directory lists league roster entries, the source of remote player ids.
type Directory interface {
	LeagueRoster(ctx context.Context) ([]statsapi.RosterEntry, error)
}

// PlayerStore is the slice of the player repository enrichment needs.
type PlayerStore interface {
	MissingHeadshots(ctx context.Context) ([]store.Player, error)
	UpdateHeadshot(ctx context.Context, playerID int, url string) error
}

// HeadshotEnricher fills in headshot URLs for players missing one.
type HeadshotEnricher struct {
	directory Directory
	players   PlayerStore
}

// NewHeadshotEnricher wires an enricher.
func NewHeadshotEnricher(directory Directory, players PlayerStore) *HeadshotEnricher {
	return &HeadshotEnricher{directory: directory, players: players}
}

// Run resolves every player missing a headshot against the roster
// directory and writes the CDN URL for each match. Matching is exact on
// the normalized name first, then substring containment; a fuzzy miss is
// logged and skipped, never guessed harder.
func (e *HeadshotEnricher) Run(ctx context.Context) error {
	missing, err := e.players.MissingHeadshots(ctx)
	if err != nil {
		return fmt.Errorf("listing players without headshots: %w", err)
	}
	if len(missing) == 0 {
		log.Printf("[enrich] ✓ All players already have headshots")
		return nil
	}

	roster, err := e.directory.LeagueRoster(ctx)
	if err != nil {
		return fmt.Errorf("fetching league roster: %w", err)
	}

	byName := make(map[string]int, len(roster))
	for _, entry := range roster {
		byName[normalize.PlayerName(entry.Name)] = entry.RemoteID
	}

	matched := 0
	for _, p := range missing {
		remoteID, ok := resolveRemoteID(byName, p.FullName)
		if !ok {
			log.Printf("[enrich] ⚠️ No roster match for %q, skipping headshot", p.FullName)
			continue
		}

		url := fmt.Sprintf(headshotURLTemplate, remoteID)
		if err := e.players.UpdateHeadshot(ctx, p.PlayerID, url); err != nil {
			return fmt.Errorf("updating headshot for player %d: %w", p.PlayerID, err)
		}
		matched++
	}

	log.Printf("[enrich] ✓ Headshots set for %d of %d players", matched, len(missing))
	return nil
}

func resolveRemoteID(byName map[string]int, fullName string) (int, bool) {
	key := normalize.PlayerName(fullName)
	if id, ok := byName[key]; ok {
		return id, true
	}

	// First containment match wins; acceptable here because a wrong
	// headshot is cosmetic and correctable.
	for name, id := range byName {
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return id, true
		}
	}
	return 0, false
}
