package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// PlayerReader is the player lookup surface the API serves from.
type PlayerReader interface {
	GetByID(ctx context.Context, playerID int) (*store.Player, error)
	ListIdentities(ctx context.Context) ([]store.Player, error)
}

// GameLogReader is the game log lookup surface the API serves from.
type GameLogReader interface {
	ListByPlayer(ctx context.Context, playerID int, season string) ([]store.GameLog, error)
}

// AdvancedReader is the advanced-metrics lookup surface the API serves from.
type AdvancedReader interface {
	GetByGameLogID(ctx context.Context, gameLogID int) (*store.AdvancedBoxScore, error)
}

// HealthChecker reports backing store liveness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db       HealthChecker
	cache    HealthChecker // nil when the service runs without Redis
	players  PlayerReader
	gameLogs GameLogReader
	advanced AdvancedReader
}

// NewHandler creates a new handler. cache may be nil.
func NewHandler(db, cache HealthChecker, players PlayerReader, gameLogs GameLogReader, advanced AdvancedReader) *Handler {
	return &Handler{
		db:       db,
		cache:    cache,
		players:  players,
		gameLogs: gameLogs,
		advanced: advanced,
	}
}

// HealthCheck handles health check requests. The database is load-bearing
// and fails the check; the cache only degrades it.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unreachable", err)
		return
	}

	status := "healthy"
	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "healthy"
		if err := h.cache.HealthCheck(r.Context()); err != nil {
			status = "degraded"
			cacheStatus = "unreachable"
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"service": "statshub",
		"cache":   cacheStatus,
	})
}

// ListPlayers returns all known players
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.players.ListIdentities(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch players", err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

// GetPlayer returns one player by id
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathInt(w, r, "playerID")
	if !ok {
		return
	}

	player, err := h.players.GetByID(r.Context(), playerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch player", err)
		return
	}
	if player == nil {
		respondError(w, http.StatusNotFound, "Player not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

// gameLogResponse joins a game log with its advanced metrics, when present.
type gameLogResponse struct {
	store.GameLog
	Advanced *store.AdvancedBoxScore `json:"advanced,omitempty"`
}

// GetPlayerGameLogs returns a player's game logs for a season, each joined
// with its advanced line. The season query parameter is required.
func (h *Handler) GetPlayerGameLogs(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathInt(w, r, "playerID")
	if !ok {
		return
	}

	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing required query parameter 'season'", nil)
		return
	}

	logs, err := h.gameLogs.ListByPlayer(r.Context(), playerID, season)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch game logs", err)
		return
	}

	response := make([]gameLogResponse, 0, len(logs))
	for _, g := range logs {
		adv, err := h.advanced.GetByGameLogID(r.Context(), g.GameLogID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to fetch advanced metrics", err)
			return
		}
		response = append(response, gameLogResponse{GameLog: g, Advanced: adv})
	}

	respondJSON(w, http.StatusOK, response)
}

// pathInt extracts an integer path variable, writing a 400 on failure.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := mux.Vars(r)[name]
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return v, true
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error": message,
	}
	if err != nil {
		response["detail"] = err.Error()
	}
	json.NewEncoder(w).Encode(response)
}
