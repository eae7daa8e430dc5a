package store

import (
	"database/sql"
	"time"
)

// Player is the canonical internal identity a source spelling resolves to.
// FullName holds the display spelling as last observed; matching happens on
// the normalized form, never on this column.
type Player struct {
	PlayerID         int            `json:"player_id" db:"player_id"`
	FullName         string         `json:"full_name" db:"full_name"`
	TeamAbbreviation sql.NullString `json:"team_abbreviation,omitempty" db:"team_abbreviation"`
	HeadshotURL      sql.NullString `json:"headshot_url,omitempty" db:"headshot_url"`
}

// GameLog is one player's box-score line for one game. The triple
// (player_id, season, game_date) is unique: at most one game per day.
type GameLog struct {
	GameLogID    int            `json:"game_log_id" db:"game_log_id"`
	PlayerID     int            `json:"player_id" db:"player_id"`
	Season       string         `json:"season" db:"season"`
	GameDate     time.Time      `json:"game_date" db:"game_date"`
	Opponent     sql.NullString `json:"opponent,omitempty" db:"opponent"`
	SourceGameID sql.NullString `json:"source_game_id,omitempty" db:"source_game_id"`
	Minutes      float64        `json:"min" db:"min"`
	Points       int            `json:"pts" db:"pts"`
	Rebounds     int            `json:"reb" db:"reb"`
	Assists      int            `json:"ast" db:"ast"`
	Steals       int            `json:"stl" db:"stl"`
	Blocks       int            `json:"blk" db:"blk"`
}

// AdvancedBoxScore holds derived efficiency metrics for a game log, keyed
// 1:1 by game_log_id. Percentage columns use the whole-number convention
// (56.7 means 56.7%). NetRating is recomputed on ingest, never trusted from
// the source.
type AdvancedBoxScore struct {
	GameLogID              int             `json:"game_log_id" db:"game_log_id"`
	OffensiveRating        sql.NullFloat64 `json:"offensive_rating,omitempty" db:"offensive_rating"`
	DefensiveRating        sql.NullFloat64 `json:"defensive_rating,omitempty" db:"defensive_rating"`
	NetRating              sql.NullFloat64 `json:"net_rating,omitempty" db:"net_rating"`
	EffectiveFGPercentage  sql.NullFloat64 `json:"effective_fg_percentage,omitempty" db:"effective_fg_percentage"`
	TrueShootingPercentage sql.NullFloat64 `json:"true_shooting_percentage,omitempty" db:"true_shooting_percentage"`
	UsagePercentage        sql.NullFloat64 `json:"usage_percentage,omitempty" db:"usage_percentage"`
	Pace                   sql.NullFloat64 `json:"pace,omitempty" db:"pace"`
	PlayerImpactEstimate   sql.NullFloat64 `json:"player_impact_estimate,omitempty" db:"player_impact_estimate"`
}

// NullFloat wraps an optional metric value.
func NullFloat(v float64, ok bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: ok}
}

// NullStr wraps a possibly-empty string column value.
func NullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
