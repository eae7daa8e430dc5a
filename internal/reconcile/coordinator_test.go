package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

type fakeResolver struct {
	ids    map[string]int
	nextID int
}

func newFakeResolver(known ...string) *fakeResolver {
	f := &fakeResolver{ids: make(map[string]int), nextID: 1}
	for _, name := range known {
		f.ids[name] = f.nextID
		f.nextID++
	}
	return f
}

func (f *fakeResolver) ResolveOrCreate(ctx context.Context, rawName, teamAbbr string) (int, error) {
	if id, ok := f.ids[rawName]; ok {
		return id, nil
	}
	id := f.nextID
	f.nextID++
	f.ids[rawName] = id
	return id, nil
}

func (f *fakeResolver) Resolve(ctx context.Context, rawName string) (int, bool, error) {
	id, ok := f.ids[rawName]
	return id, ok, nil
}

type logKey struct {
	playerID int
	season   string
	date     string
}

type fakeGameLogStore struct {
	logs   map[logKey]*store.GameLog
	nextID int
}

func newFakeGameLogStore() *fakeGameLogStore {
	return &fakeGameLogStore{logs: make(map[logKey]*store.GameLog), nextID: 100}
}

func (f *fakeGameLogStore) FindByDateKey(ctx context.Context, playerID int, season string, gameDate time.Time) (*store.GameLog, error) {
	g := f.logs[logKey{playerID, season, gameDate.Format("2006-01-02")}]
	if g == nil {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGameLogStore) FindBySourceGameID(ctx context.Context, playerID int, season, sourceGameID string) (*store.GameLog, error) {
	for _, g := range f.logs {
		if g.PlayerID == playerID && g.Season == season && g.SourceGameID.Valid && g.SourceGameID.String == sourceGameID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeGameLogStore) Upsert(ctx context.Context, g *store.GameLog) (bool, error) {
	key := logKey{g.PlayerID, g.Season, g.GameDate.Format("2006-01-02")}
	if existing, ok := f.logs[key]; ok {
		g.GameLogID = existing.GameLogID
		cp := *g
		f.logs[key] = &cp
		return false, nil
	}
	g.GameLogID = f.nextID
	f.nextID++
	cp := *g
	f.logs[key] = &cp
	return true, nil
}

type fakeAdvancedStore struct {
	rows map[int]*store.AdvancedBoxScore
}

func newFakeAdvancedStore() *fakeAdvancedStore {
	return &fakeAdvancedStore{rows: make(map[int]*store.AdvancedBoxScore)}
}

func (f *fakeAdvancedStore) Upsert(ctx context.Context, adv *store.AdvancedBoxScore) error {
	cp := *adv
	f.rows[adv.GameLogID] = &cp
	return nil
}

func curryRecord() *PerformanceRecord {
	return &PerformanceRecord{
		PlayerName:  "Stephen Curry",
		Team:        "GSW",
		Opponent:    "LAL",
		GameDateRaw: "Jan 5, 2026",
		Minutes:     34.5,
		Points:      31,
		Rebounds:    5,
		Assists:     8,
		Steals:      2,
		Blocks:      0,
		Advanced: &AdvancedMetrics{
			OffensiveRating: 118.3,
			DefensiveRating: 104.3,
			TrueShooting:    store.NullFloat(61.2, true),
			EffectiveFG:     store.NullFloat(58.0, true),
			Usage:           store.NullFloat(29.4, true),
		},
	}
}

func TestIngestEndToEnd(t *testing.T) {
	logs := newFakeGameLogStore()
	adv := newFakeAdvancedStore()
	c := NewCoordinator(newFakeResolver(), logs, adv)

	outcome, err := c.Ingest(context.Background(), "2025-26", curryRecord())
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)

	require.Len(t, logs.logs, 1)
	var g *store.GameLog
	for _, v := range logs.logs {
		g = v
	}
	assert.Equal(t, "2025-26", g.Season)
	assert.Equal(t, 31, g.Points)
	assert.Equal(t, "LAL", g.Opponent.String)
	assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), g.GameDate)

	row := adv.rows[g.GameLogID]
	require.NotNil(t, row)
	// Net rating is derived from the component ratings, never trusted.
	assert.InDelta(t, 14.0, row.NetRating.Float64, 0.001)
	assert.InDelta(t, 61.2, row.TrueShootingPercentage.Float64, 0.001)
}

func TestIngestIdempotent(t *testing.T) {
	logs := newFakeGameLogStore()
	c := NewCoordinator(newFakeResolver(), logs, newFakeAdvancedStore())

	outcome, err := c.Ingest(context.Background(), "2025-26", curryRecord())
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)

	outcome, err = c.Ingest(context.Background(), "2025-26", curryRecord())
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)
	assert.Len(t, logs.logs, 1)
}

func TestIngestLastWriteWins(t *testing.T) {
	logs := newFakeGameLogStore()
	c := NewCoordinator(newFakeResolver(), logs, newFakeAdvancedStore())

	_, err := c.Ingest(context.Background(), "2025-26", curryRecord())
	require.NoError(t, err)

	// A corrected feed revises the scoring line for the same game.
	revised := curryRecord()
	revised.Points = 33
	outcome, err := c.Ingest(context.Background(), "2025-26", revised)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	require.Len(t, logs.logs, 1)
	for _, g := range logs.logs {
		assert.Equal(t, 33, g.Points)
	}
}

func TestIngestActivityFilter(t *testing.T) {
	logs := newFakeGameLogStore()
	c := NewCoordinator(newFakeResolver(), logs, newFakeAdvancedStore())

	dnp := &PerformanceRecord{
		PlayerName:  "Deep Bench",
		GameDateRaw: "Jan 5, 2026",
		Minutes:     0,
		Points:      0,
	}
	outcome, err := c.Ingest(context.Background(), "2025-26", dnp)
	require.NoError(t, err)
	assert.Equal(t, Dropped, outcome)
	assert.Empty(t, logs.logs)
}

func TestIngestUnparseableDateUnmatched(t *testing.T) {
	logs := newFakeGameLogStore()
	c := NewCoordinator(newFakeResolver(), logs, newFakeAdvancedStore())

	// No date and no source game id leaves nothing to key on.
	rec := curryRecord()
	rec.GameDateRaw = "sometime in January"
	outcome, err := c.Ingest(context.Background(), "2025-26", rec)
	require.NoError(t, err)
	assert.Equal(t, Unmatched, outcome)
	assert.Empty(t, logs.logs)
	assert.Equal(t, 1, c.Metrics().Count(Unmatched))
	assert.Equal(t, 0, c.Metrics().Count(Dropped))
}

func TestIngestUnparseableDateKeysOnSourceGameID(t *testing.T) {
	logs := newFakeGameLogStore()
	c := NewCoordinator(newFakeResolver(), logs, newFakeAdvancedStore())

	first := curryRecord()
	first.SourceGameID = "0022500432"
	_, err := c.Ingest(context.Background(), "2025-26", first)
	require.NoError(t, err)

	// A later feed mangles the timestamp but carries the same id; the
	// revision still lands on the stored row under its stored date.
	revised := curryRecord()
	revised.SourceGameID = "0022500432"
	revised.GameDateRaw = "2026-01-05T99:99:99"
	revised.Points = 33
	outcome, err := c.Ingest(context.Background(), "2025-26", revised)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	require.Len(t, logs.logs, 1)
	for _, g := range logs.logs {
		assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), g.GameDate)
		assert.Equal(t, 33, g.Points)
	}

	// An id nothing stored leaves the record unmatched, not inserted.
	stray := curryRecord()
	stray.SourceGameID = "0022599999"
	stray.GameDateRaw = "sometime in January"
	outcome, err = c.Ingest(context.Background(), "2025-26", stray)
	require.NoError(t, err)
	assert.Equal(t, Unmatched, outcome)
	assert.Len(t, logs.logs, 1)
}

func TestIngestSourceGameIDFallback(t *testing.T) {
	logs := newFakeGameLogStore()
	c := NewCoordinator(newFakeResolver(), logs, newFakeAdvancedStore())

	first := curryRecord()
	first.SourceGameID = "0022500432"
	_, err := c.Ingest(context.Background(), "2025-26", first)
	require.NoError(t, err)

	// Same game reported a day late by another source; the id match keeps
	// the stored date instead of minting a second row.
	late := curryRecord()
	late.SourceGameID = "0022500432"
	late.GameDateRaw = "Jan 6, 2026"
	late.Points = 33
	outcome, err := c.Ingest(context.Background(), "2025-26", late)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	require.Len(t, logs.logs, 1)
	for _, g := range logs.logs {
		assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), g.GameDate)
		assert.Equal(t, 33, g.Points)
	}
}

func TestIngestAdvancedUnmatched(t *testing.T) {
	logs := newFakeGameLogStore()
	adv := newFakeAdvancedStore()
	c := NewCoordinator(newFakeResolver("Stephen Curry"), logs, adv)

	rec := curryRecord()
	outcome, err := c.IngestAdvanced(context.Background(), "2025-26", rec)
	require.NoError(t, err)
	assert.Equal(t, Unmatched, outcome)
	assert.Empty(t, adv.rows)

	// Unknown players never get rows created by the advanced path.
	rec2 := curryRecord()
	rec2.PlayerName = "Total Stranger"
	outcome, err = c.IngestAdvanced(context.Background(), "2025-26", rec2)
	require.NoError(t, err)
	assert.Equal(t, Unmatched, outcome)
}

func TestIngestAdvancedAttachesToExistingLog(t *testing.T) {
	logs := newFakeGameLogStore()
	adv := newFakeAdvancedStore()
	resolver := newFakeResolver()
	c := NewCoordinator(resolver, logs, adv)

	base := curryRecord()
	base.Advanced = nil
	_, err := c.Ingest(context.Background(), "2025-26", base)
	require.NoError(t, err)

	outcome, err := c.IngestAdvanced(context.Background(), "2025-26", curryRecord())
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	require.Len(t, adv.rows, 1)

	assert.Equal(t, 1, c.Metrics().Count(Inserted))
	assert.Equal(t, 1, c.Metrics().Count(Updated))
}

func TestIngestAdvancedUnparseableDateKeysOnSourceGameID(t *testing.T) {
	logs := newFakeGameLogStore()
	adv := newFakeAdvancedStore()
	c := NewCoordinator(newFakeResolver(), logs, adv)

	base := curryRecord()
	base.SourceGameID = "0022500432"
	base.Advanced = nil
	_, err := c.Ingest(context.Background(), "2025-26", base)
	require.NoError(t, err)

	// The advanced feed for the same game arrives with a malformed
	// timestamp; the source id alone must still attach the metrics.
	rec := curryRecord()
	rec.SourceGameID = "0022500432"
	rec.GameDateRaw = "2026-01-05T99:99:99"
	outcome, err := c.IngestAdvanced(context.Background(), "2025-26", rec)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	require.Len(t, adv.rows, 1)
	for _, row := range adv.rows {
		assert.InDelta(t, 14.0, row.NetRating.Float64, 0.001)
	}

	// With neither key usable the record stays unmatched.
	rec2 := curryRecord()
	rec2.GameDateRaw = "sometime in January"
	outcome, err = c.IngestAdvanced(context.Background(), "2025-26", rec2)
	require.NoError(t, err)
	assert.Equal(t, Unmatched, outcome)
	assert.Len(t, adv.rows, 1)
}
