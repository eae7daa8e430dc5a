package store

// migration pairs a tracked version string with the SQL it applies.
type migration struct {
	Version string
	SQL     string
}

// migrations run in order. Never edit an applied migration; append a new one.
var migrations = []migration{
	{
		Version: "001_create_players.sql",
		SQL: `
			CREATE TABLE IF NOT EXISTS players (
				player_id SERIAL PRIMARY KEY,
				full_name VARCHAR(255) NOT NULL,
				team_abbreviation VARCHAR(5),
				headshot_url VARCHAR(255)
			);
		`,
	},
	{
		Version: "002_create_player_game_logs.sql",
		SQL: `
			CREATE TABLE IF NOT EXISTS player_game_logs (
				game_log_id SERIAL PRIMARY KEY,
				player_id INT REFERENCES players(player_id),
				season VARCHAR(10) NOT NULL,
				game_date DATE NOT NULL,
				opponent VARCHAR(5),
				source_game_id VARCHAR(20),
				min REAL,
				pts INT,
				reb INT,
				ast INT,
				stl INT,
				blk INT,
				UNIQUE(player_id, season, game_date)
			);
		`,
	},
	{
		Version: "003_create_advanced_box_scores.sql",
		SQL: `
			CREATE TABLE IF NOT EXISTS advanced_box_scores (
				game_log_id INT PRIMARY KEY REFERENCES player_game_logs(game_log_id) ON DELETE CASCADE,
				offensive_rating REAL,
				defensive_rating REAL,
				net_rating REAL,
				effective_fg_percentage REAL,
				true_shooting_percentage REAL,
				usage_percentage REAL,
				pace REAL,
				player_impact_estimate REAL
			);
		`,
	},
	{
		Version: "004_index_source_game_id.sql",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_game_logs_source_game
			ON player_game_logs (player_id, season, source_game_id)
			WHERE source_game_id IS NOT NULL;
		`,
	},
}
