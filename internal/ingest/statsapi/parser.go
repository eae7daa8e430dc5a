package statsapi

import (
	"github.com/chrisk320/Sports-Analytics-Hub/internal/normalize"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/reconcile"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// ratingKey reads a rating column, trying the plain header first and the
// estimated variant second. Which one the endpoint populates depends on the
// measure-type revision.
func ratingKey(rs *RowSet, row []interface{}, primary, estimated string) float64 {
	if v := rs.Get(row, primary); v != nil {
		return normalize.Rating(v)
	}
	return normalize.Rating(rs.Get(row, estimated))
}

// ParseGameLogs converts a Base-measure row set into performance records.
func ParseGameLogs(rs *RowSet) []*reconcile.PerformanceRecord {
	records := make([]*reconcile.PerformanceRecord, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		name, _ := rs.Get(row, "PLAYER_NAME").(string)
		if name == "" {
			continue
		}

		mins, minsOK := normalize.MinutesFromClock(rs.Get(row, "MIN"))
		matchup, _ := rs.Get(row, "MATCHUP").(string)
		gameDate, _ := rs.Get(row, "GAME_DATE").(string)
		gameID, _ := rs.Get(row, "GAME_ID").(string)
		team, _ := rs.Get(row, "TEAM_ABBREVIATION").(string)

		records = append(records, &reconcile.PerformanceRecord{
			PlayerName:   name,
			Team:         team,
			Opponent:     normalize.Opponent(matchup),
			GameDateRaw:  gameDate,
			SourceGameID: gameID,
			Minutes:      mins,
			MinutesKnown: minsOK,
			Points:       normalize.IntStat(rs.Get(row, "PTS")),
			Rebounds:     normalize.IntStat(rs.Get(row, "REB")),
			Assists:      normalize.IntStat(rs.Get(row, "AST")),
			Steals:       normalize.IntStat(rs.Get(row, "STL")),
			Blocks:       normalize.IntStat(rs.Get(row, "BLK")),
		})
	}
	return records
}

// ParseAdvancedGameLogs converts an Advanced-measure row set into
// advanced-only performance records.
func ParseAdvancedGameLogs(rs *RowSet) []*reconcile.PerformanceRecord {
	records := make([]*reconcile.PerformanceRecord, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		name, _ := rs.Get(row, "PLAYER_NAME").(string)
		if name == "" {
			continue
		}

		mins, minsOK := normalize.MinutesFromClock(rs.Get(row, "MIN"))
		matchup, _ := rs.Get(row, "MATCHUP").(string)
		gameDate, _ := rs.Get(row, "GAME_DATE").(string)
		gameID, _ := rs.Get(row, "GAME_ID").(string)

		efg, efgOK := normalize.Percentage(rs.Get(row, "EFG_PCT"), normalize.EncDecimalFraction)
		ts, tsOK := normalize.Percentage(rs.Get(row, "TS_PCT"), normalize.EncDecimalFraction)
		usg, usgOK := normalize.Percentage(rs.Get(row, "USG_PCT"), normalize.EncDecimalFraction)
		pie, pieOK := normalize.Percentage(rs.Get(row, "PIE"), normalize.EncDecimalFraction)

		records = append(records, &reconcile.PerformanceRecord{
			PlayerName:   name,
			Opponent:     normalize.Opponent(matchup),
			GameDateRaw:  gameDate,
			SourceGameID: gameID,
			Minutes:      mins,
			MinutesKnown: minsOK,
			Advanced: &reconcile.AdvancedMetrics{
				OffensiveRating: ratingKey(rs, row, "OFF_RATING", "E_OFF_RATING"),
				DefensiveRating: ratingKey(rs, row, "DEF_RATING", "E_DEF_RATING"),
				EffectiveFG:     store.NullFloat(efg, efgOK),
				TrueShooting:    store.NullFloat(ts, tsOK),
				Usage:           store.NullFloat(usg, usgOK),
				Pace:            store.NullFloat(normalize.Rating(rs.Get(row, "PACE")), rs.Get(row, "PACE") != nil),
				PIE:             store.NullFloat(pie, pieOK),
			},
		})
	}
	return records
}

// RosterEntry is one (player name, remote player id) pair from a team
// roster, used by headshot enrichment.
type RosterEntry struct {
	Name     string
	RemoteID int
}

// ParseRoster converts a CommonTeamRoster row set into roster entries.
func ParseRoster(rs *RowSet) []RosterEntry {
	entries := make([]RosterEntry, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		name, _ := rs.Get(row, "PLAYER").(string)
		if name == "" {
			continue
		}
		entries = append(entries, RosterEntry{
			Name:     name,
			RemoteID: normalize.IntStat(rs.Get(row, "PLAYER_ID")),
		})
	}
	return entries
}
