package statsapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRowSet() *RowSet {
	return &RowSet{
		Headers: []string{"PLAYER_NAME", "TEAM_ABBREVIATION", "GAME_ID", "GAME_DATE", "MATCHUP", "MIN", "PTS", "REB", "AST", "STL", "BLK"},
		Rows: [][]interface{}{
			{"Stephen Curry", "GSW", "0022500432", "2026-01-05T00:00:00", "GSW vs. LAL", "34:30", 31.0, 5.0, 8.0, 2.0, 0.0},
			{"Deep Bench", "GSW", "0022500432", "2026-01-05T00:00:00", "GSW vs. LAL", nil, 0.0, 0.0, 0.0, 0.0, 0.0},
		},
	}
}

func TestParseGameLogs(t *testing.T) {
	records := ParseGameLogs(baseRowSet())
	require.Len(t, records, 2)

	curry := records[0]
	assert.Equal(t, "Stephen Curry", curry.PlayerName)
	assert.Equal(t, "GSW", curry.Team)
	assert.Equal(t, "LAL", curry.Opponent)
	assert.Equal(t, "0022500432", curry.SourceGameID)
	assert.InDelta(t, 34.5, curry.Minutes, 0.001)
	assert.True(t, curry.MinutesKnown)
	assert.Equal(t, 31, curry.Points)
	assert.Equal(t, 5, curry.Rebounds)
	assert.Nil(t, curry.Advanced)

	dnp := records[1]
	assert.False(t, dnp.MinutesKnown)
	assert.True(t, dnp.DidNotPlay())
}

func TestParseAdvancedGameLogs(t *testing.T) {
	rs := &RowSet{
		Headers: []string{"PLAYER_NAME", "GAME_ID", "GAME_DATE", "MATCHUP", "MIN", "OFF_RATING", "DEF_RATING", "EFG_PCT", "TS_PCT", "USG_PCT", "PACE", "PIE"},
		Rows: [][]interface{}{
			{"Stephen Curry", "0022500432", "2026-01-05T00:00:00", "GSW vs. LAL", "34:30", 118.3, 104.3, 0.58, 0.612, 0.294, 99.8, 0.182},
		},
	}

	records := ParseAdvancedGameLogs(rs)
	require.Len(t, records, 1)

	m := records[0].Advanced
	require.NotNil(t, m)
	assert.InDelta(t, 118.3, m.OffensiveRating, 0.001)
	assert.InDelta(t, 104.3, m.DefensiveRating, 0.001)
	// Fraction-encoded columns come out in whole-number form.
	assert.InDelta(t, 58.0, m.EffectiveFG.Float64, 0.001)
	assert.InDelta(t, 61.2, m.TrueShooting.Float64, 0.001)
	assert.InDelta(t, 29.4, m.Usage.Float64, 0.001)
	assert.InDelta(t, 18.2, m.PIE.Float64, 0.001)
	assert.InDelta(t, 99.8, m.Pace.Float64, 0.001)
}

func TestParseAdvancedGameLogsEstimatedRatingFallback(t *testing.T) {
	rs := &RowSet{
		Headers: []string{"PLAYER_NAME", "GAME_ID", "GAME_DATE", "MATCHUP", "MIN", "E_OFF_RATING", "E_DEF_RATING"},
		Rows: [][]interface{}{
			{"Stephen Curry", "0022500432", "2026-01-05T00:00:00", "GSW vs. LAL", "34:30", 115.0, 103.0},
		},
	}

	records := ParseAdvancedGameLogs(rs)
	require.Len(t, records, 1)
	assert.InDelta(t, 115.0, records[0].Advanced.OffensiveRating, 0.001)
	assert.InDelta(t, 103.0, records[0].Advanced.DefensiveRating, 0.001)
}

func TestParseRoster(t *testing.T) {
	rs := &RowSet{
		Headers: []string{"PLAYER", "PLAYER_ID"},
		Rows: [][]interface{}{
			{"Stephen Curry", 201939.0},
			{"", 0.0},
		},
	}

	entries := ParseRoster(rs)
	require.Len(t, entries, 1)
	assert.Equal(t, "Stephen Curry", entries[0].Name)
	assert.Equal(t, 201939, entries[0].RemoteID)
}
