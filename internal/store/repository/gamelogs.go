package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// GameLogRepository handles game log data access
type GameLogRepository struct {
	db *store.Database
}

// NewGameLogRepository creates a new game log repository
func NewGameLogRepository(db *store.Database) *GameLogRepository {
	return &GameLogRepository{db: db}
}

const gameLogColumns = `game_log_id, player_id, season, game_date, opponent, source_game_id,
	min, pts, reb, ast, stl, blk`

// FindByDateKey looks up a log by the primary (player, season, date) key.
// Returns nil without error when no row exists.
func (r *GameLogRepository) FindByDateKey(ctx context.Context, playerID int, season string, gameDate time.Time) (*store.GameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM player_game_logs
		WHERE player_id = $1 AND season = $2 AND game_date = $3
	`

	return r.queryOne(ctx, query, playerID, season, gameDate)
}

// FindBySourceGameID looks up a log by the fallback (player, season,
// source game id) key. Returns nil without error when no row exists.
func (r *GameLogRepository) FindBySourceGameID(ctx context.Context, playerID int, season, sourceGameID string) (*store.GameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM player_game_logs
		WHERE player_id = $1 AND season = $2 AND source_game_id = $3
	`

	return r.queryOne(ctx, query, playerID, season, sourceGameID)
}

// Upsert writes a game log atomically under the unique date key. Base stats
// are overwritten on conflict (corrections and re-fetches, not doubleheaders).
// Sets g.GameLogID and reports whether the row was newly created.
func (r *GameLogRepository) Upsert(ctx context.Context, g *store.GameLog) (bool, error) {
	query := `
		INSERT INTO player_game_logs
		(player_id, season, game_date, opponent, source_game_id, min, pts, reb, ast, stl, blk)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (player_id, season, game_date) DO UPDATE SET
			opponent = EXCLUDED.opponent,
			source_game_id = COALESCE(EXCLUDED.source_game_id, player_game_logs.source_game_id),
			min = EXCLUDED.min,
			pts = EXCLUDED.pts,
			reb = EXCLUDED.reb,
			ast = EXCLUDED.ast,
			stl = EXCLUDED.stl,
			blk = EXCLUDED.blk
		RETURNING game_log_id, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.DB().QueryRowContext(ctx, query,
		g.PlayerID, g.Season, g.GameDate, g.Opponent, g.SourceGameID,
		g.Minutes, g.Points, g.Rebounds, g.Assists, g.Steals, g.Blocks,
	).Scan(&g.GameLogID, &inserted)

	if err != nil {
		return false, fmt.Errorf("upserting game log: %w", err)
	}

	return inserted, nil
}

// ListByPlayer returns a player's logs for a season, most recent first.
func (r *GameLogRepository) ListByPlayer(ctx context.Context, playerID int, season string) ([]store.GameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM player_game_logs
		WHERE player_id = $1 AND season = $2
		ORDER BY game_date DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("querying game logs: %w", err)
	}
	defer rows.Close()

	var logs []store.GameLog
	for rows.Next() {
		var g store.GameLog
		if err := scanGameLog(rows.Scan, &g); err != nil {
			return nil, err
		}
		logs = append(logs, g)
	}

	return logs, rows.Err()
}

func (r *GameLogRepository) queryOne(ctx context.Context, query string, args ...any) (*store.GameLog, error) {
	g := &store.GameLog{}
	err := scanGameLog(r.db.DB().QueryRowContext(ctx, query, args...).Scan, g)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying game log: %w", err)
	}
	return g, nil
}

func scanGameLog(scan func(...any) error, g *store.GameLog) error {
	return scan(
		&g.GameLogID, &g.PlayerID, &g.Season, &g.GameDate, &g.Opponent, &g.SourceGameID,
		&g.Minutes, &g.Points, &g.Rebounds, &g.Assists, &g.Steals, &g.Blocks,
	)
}
