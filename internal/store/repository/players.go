package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// PlayerRepository handles player identity data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetByID finds a player by ID. Returns nil without error when no row exists.
func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (*store.Player, error) {
	query := `
		SELECT player_id, full_name, team_abbreviation, headshot_url
		FROM players
		WHERE player_id = $1
	`

	player := &store.Player{}
	err := r.db.DB().QueryRowContext(ctx, query, playerID).Scan(
		&player.PlayerID, &player.FullName, &player.TeamAbbreviation, &player.HeadshotURL,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}

	return player, nil
}

// ListIdentities returns every player identity. The resolver primes its
// normalized-name lookup from this once per process.
func (r *PlayerRepository) ListIdentities(ctx context.Context) ([]store.Player, error) {
	query := `
		SELECT player_id, full_name, team_abbreviation, headshot_url
		FROM players
		ORDER BY player_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// Create inserts a new player identity with the raw source spelling as the
// display name. IDs continue from the current maximum so rows sourced from
// external identity schemes and locally-allocated rows share one sequence.
func (r *PlayerRepository) Create(ctx context.Context, fullName, teamAbbr string) (store.Player, error) {
	query := `
		INSERT INTO players (player_id, full_name, team_abbreviation)
		VALUES ((SELECT COALESCE(MAX(player_id), 0) + 1 FROM players), $1, $2)
		RETURNING player_id
	`

	player := store.Player{
		FullName:         fullName,
		TeamAbbreviation: store.NullStr(teamAbbr),
	}
	err := r.db.DB().QueryRowContext(ctx, query, fullName, player.TeamAbbreviation).Scan(&player.PlayerID)
	if err != nil {
		return store.Player{}, fmt.Errorf("creating player %q: %w", fullName, err)
	}

	return player, nil
}

// UpdateTeam overwrites a player's current team (last-write-wins).
func (r *PlayerRepository) UpdateTeam(ctx context.Context, playerID int, teamAbbr string) error {
	query := `UPDATE players SET team_abbreviation = $1 WHERE player_id = $2`

	if _, err := r.db.DB().ExecContext(ctx, query, store.NullStr(teamAbbr), playerID); err != nil {
		return fmt.Errorf("updating team for player %d: %w", playerID, err)
	}
	return nil
}

// MissingHeadshots returns players with no headshot URL, oldest IDs first.
func (r *PlayerRepository) MissingHeadshots(ctx context.Context) ([]store.Player, error) {
	query := `
		SELECT player_id, full_name, team_abbreviation, headshot_url
		FROM players
		WHERE headshot_url IS NULL OR headshot_url = ''
		ORDER BY player_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying players without headshots: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// UpdateHeadshot sets a player's headshot URL.
func (r *PlayerRepository) UpdateHeadshot(ctx context.Context, playerID int, url string) error {
	query := `UPDATE players SET headshot_url = $1 WHERE player_id = $2`

	if _, err := r.db.DB().ExecContext(ctx, query, url, playerID); err != nil {
		return fmt.Errorf("updating headshot for player %d: %w", playerID, err)
	}
	return nil
}

// scanPlayers is a helper to scan multiple player rows
func scanPlayers(rows *sql.Rows) ([]store.Player, error) {
	var players []store.Player
	for rows.Next() {
		var player store.Player
		err := rows.Scan(&player.PlayerID, &player.FullName, &player.TeamAbbreviation, &player.HeadshotURL)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}
