package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// AdvancedRepository handles advanced box score data access
type AdvancedRepository struct {
	db *store.Database
}

// NewAdvancedRepository creates a new advanced box score repository
func NewAdvancedRepository(db *store.Database) *AdvancedRepository {
	return &AdvancedRepository{db: db}
}

// Upsert inserts or overwrites the advanced metrics for a game log.
func (r *AdvancedRepository) Upsert(ctx context.Context, adv *store.AdvancedBoxScore) error {
	query := `
		INSERT INTO advanced_box_scores
		(game_log_id, offensive_rating, defensive_rating, net_rating, effective_fg_percentage,
		 true_shooting_percentage, usage_percentage, pace, player_impact_estimate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_log_id) DO UPDATE SET
			offensive_rating = EXCLUDED.offensive_rating,
			defensive_rating = EXCLUDED.defensive_rating,
			net_rating = EXCLUDED.net_rating,
			effective_fg_percentage = EXCLUDED.effective_fg_percentage,
			true_shooting_percentage = EXCLUDED.true_shooting_percentage,
			usage_percentage = EXCLUDED.usage_percentage,
			pace = EXCLUDED.pace,
			player_impact_estimate = EXCLUDED.player_impact_estimate
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		adv.GameLogID, adv.OffensiveRating, adv.DefensiveRating, adv.NetRating,
		adv.EffectiveFGPercentage, adv.TrueShootingPercentage, adv.UsagePercentage,
		adv.Pace, adv.PlayerImpactEstimate,
	)
	if err != nil {
		return fmt.Errorf("upserting advanced box score: %w", err)
	}

	return nil
}

// GetByGameLogID returns the advanced metrics for a game log, or nil when
// the source never supplied advanced data for it.
func (r *AdvancedRepository) GetByGameLogID(ctx context.Context, gameLogID int) (*store.AdvancedBoxScore, error) {
	query := `
		SELECT game_log_id, offensive_rating, defensive_rating, net_rating,
			effective_fg_percentage, true_shooting_percentage, usage_percentage,
			pace, player_impact_estimate
		FROM advanced_box_scores
		WHERE game_log_id = $1
	`

	adv := &store.AdvancedBoxScore{}
	err := r.db.DB().QueryRowContext(ctx, query, gameLogID).Scan(
		&adv.GameLogID, &adv.OffensiveRating, &adv.DefensiveRating, &adv.NetRating,
		&adv.EffectiveFGPercentage, &adv.TrueShootingPercentage, &adv.UsagePercentage,
		&adv.Pace, &adv.PlayerImpactEstimate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying advanced box score: %w", err)
	}

	return adv, nil
}
