package statsapi

import (
	"context"
	"log"
	"strconv"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/fetch"
)

// League team ids are contiguous across the 30 franchises.
const (
	firstTeamID = 1610612737
	lastTeamID  = 1610612766
)

// LeagueDirectory aggregates every team roster into one league-wide list.
type LeagueDirectory struct {
	client *Client
	pacer  *fetch.Pacer
	season string
}

// NewLeagueDirectory wires a directory for one season.
func NewLeagueDirectory(client *Client, pacer *fetch.Pacer, season string) *LeagueDirectory {
	return &LeagueDirectory{client: client, pacer: pacer, season: season}
}

// LeagueRoster fetches all 30 rosters. A team that fails to fetch is
// logged and skipped; enrichment can pick its players up on the next run.
func (d *LeagueDirectory) LeagueRoster(ctx context.Context) ([]RosterEntry, error) {
	var all []RosterEntry
	for teamID := firstTeamID; teamID <= lastTeamID; teamID++ {
		rs, err := d.client.CommonTeamRoster(ctx, strconv.Itoa(teamID), d.season)
		if err != nil {
			log.Printf("[statsapi] ⚠️ Roster fetch failed for team %d: %v", teamID, err)
		} else {
			all = append(all, ParseRoster(rs)...)
		}

		if err := d.pacer.Wait(ctx); err != nil {
			return all, err
		}
	}

	log.Printf("[statsapi] ✓ League roster assembled: %d players", len(all))
	return all, nil
}
