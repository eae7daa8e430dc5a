package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

type fakeReader struct {
	players  map[int]*store.Player
	logs     []store.GameLog
	advanced map[int]*store.AdvancedBoxScore
	healthy  bool
}

func (f *fakeReader) HealthCheck(ctx context.Context) error {
	if !f.healthy {
		return context.DeadlineExceeded
	}
	return nil
}

func (f *fakeReader) GetByID(ctx context.Context, playerID int) (*store.Player, error) {
	return f.players[playerID], nil
}

func (f *fakeReader) ListIdentities(ctx context.Context) ([]store.Player, error) {
	var out []store.Player
	for _, p := range f.players {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeReader) ListByPlayer(ctx context.Context, playerID int, season string) ([]store.GameLog, error) {
	var out []store.GameLog
	for _, g := range f.logs {
		if g.PlayerID == playerID && g.Season == season {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeReader) GetByGameLogID(ctx context.Context, gameLogID int) (*store.AdvancedBoxScore, error) {
	return f.advanced[gameLogID], nil
}

type fakeCacheHealth struct {
	healthy bool
}

func (f *fakeCacheHealth) HealthCheck(ctx context.Context) error {
	if !f.healthy {
		return context.DeadlineExceeded
	}
	return nil
}

func testRouter(f *fakeReader) *mux.Router {
	return testRouterWithCache(f, nil)
}

func testRouterWithCache(f *fakeReader, cache HealthChecker) *mux.Router {
	handler := NewHandler(f, cache, f, f, f)
	router := mux.NewRouter()
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.HandleFunc("/api/players/{playerID}", handler.GetPlayer).Methods("GET")
	router.HandleFunc("/api/players/{playerID}/gamelogs", handler.GetPlayerGameLogs).Methods("GET")
	return router
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		healthy: true,
		players: map[int]*store.Player{
			1: {PlayerID: 1, FullName: "Stephen Curry"},
		},
		logs: []store.GameLog{
			{
				GameLogID: 100,
				PlayerID:  1,
				Season:    "2025-26",
				GameDate:  time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
				Points:    31,
			},
		},
		advanced: map[int]*store.AdvancedBoxScore{
			100: {GameLogID: 100, NetRating: store.NullFloat(14.0, true)},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(newFakeReader())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	unhealthy := newFakeReader()
	unhealthy.healthy = false
	rec = httptest.NewRecorder()
	testRouter(unhealthy).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthCheckCacheStatus(t *testing.T) {
	// Without a cache the service reports healthy with the cache disabled.
	rec := httptest.NewRecorder()
	testRouter(newFakeReader()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["cache"])

	// A reachable cache is reported alongside the database.
	rec = httptest.NewRecorder()
	testRouterWithCache(newFakeReader(), &fakeCacheHealth{healthy: true}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "healthy", body["cache"])

	// A down cache degrades the service but keeps it serving.
	rec = httptest.NewRecorder()
	testRouterWithCache(newFakeReader(), &fakeCacheHealth{healthy: false}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unreachable", body["cache"])
}

func TestGetPlayer(t *testing.T) {
	router := testRouter(newFakeReader())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var p store.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Stephen Curry", p.FullName)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlayerGameLogs(t *testing.T) {
	router := testRouter(newFakeReader())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players/1/gamelogs?season=2025-26", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var logs []gameLogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, 31, logs[0].Points)
	require.NotNil(t, logs[0].Advanced)
	assert.InDelta(t, 14.0, logs[0].Advanced.NetRating.Float64, 0.001)

	// Missing season parameter.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players/1/gamelogs", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
