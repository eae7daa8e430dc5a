package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

type fakePlayerStore struct {
	players     []store.Player
	nextID      int
	teamUpdates map[int]string
}

func newFakePlayerStore(players ...store.Player) *fakePlayerStore {
	maxID := 0
	for _, p := range players {
		if p.PlayerID > maxID {
			maxID = p.PlayerID
		}
	}
	return &fakePlayerStore{
		players:     players,
		nextID:      maxID + 1,
		teamUpdates: make(map[int]string),
	}
}

func (f *fakePlayerStore) ListIdentities(ctx context.Context) ([]store.Player, error) {
	return f.players, nil
}

func (f *fakePlayerStore) Create(ctx context.Context, fullName, teamAbbr string) (store.Player, error) {
	p := store.Player{
		PlayerID:         f.nextID,
		FullName:         fullName,
		TeamAbbreviation: store.NullStr(teamAbbr),
	}
	f.nextID++
	f.players = append(f.players, p)
	return p, nil
}

func (f *fakePlayerStore) UpdateTeam(ctx context.Context, playerID int, teamAbbr string) error {
	f.teamUpdates[playerID] = teamAbbr
	return nil
}

func TestResolveOrCreateExistingPlayer(t *testing.T) {
	fake := newFakePlayerStore(store.Player{PlayerID: 7, FullName: "Stephen Curry"})
	r := NewResolver(fake, nil)

	id, err := r.ResolveOrCreate(context.Background(), "Stephen Curry", "GSW")
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Len(t, fake.players, 1, "no new row for a known name")
	assert.Equal(t, "GSW", fake.teamUpdates[7])
}

func TestResolveOrCreateMatchesAcrossSpellings(t *testing.T) {
	fake := newFakePlayerStore(store.Player{PlayerID: 3, FullName: "Luka Dončić"})
	r := NewResolver(fake, nil)

	// ASCII rendering from a different source resolves to the same row.
	id, err := r.ResolveOrCreate(context.Background(), "Luka Doncic", "")
	require.NoError(t, err)
	assert.Equal(t, 3, id)
	assert.Len(t, fake.players, 1)

	// Suffixed spellings collapse too.
	fake2 := newFakePlayerStore(store.Player{PlayerID: 9, FullName: "Gary Payton II"})
	r2 := NewResolver(fake2, nil)
	id, err = r2.ResolveOrCreate(context.Background(), "Gary Payton", "")
	require.NoError(t, err)
	assert.Equal(t, 9, id)
}

func TestResolveOrCreateNewPlayer(t *testing.T) {
	fake := newFakePlayerStore(store.Player{PlayerID: 1, FullName: "Stephen Curry"})
	r := NewResolver(fake, nil)

	id, err := r.ResolveOrCreate(context.Background(), "Victor Wembanyama", "SAS")
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	require.Len(t, fake.players, 2)
	assert.Equal(t, "Victor Wembanyama", fake.players[1].FullName)

	// A second sighting of the same name reuses the new row.
	id2, err := r.ResolveOrCreate(context.Background(), "Victor Wembanyama", "")
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Len(t, fake.players, 2)
}

func TestResolveOrCreateRejectsEmptyName(t *testing.T) {
	r := NewResolver(newFakePlayerStore(), nil)
	_, err := r.ResolveOrCreate(context.Background(), "   ", "GSW")
	assert.Error(t, err)
}

func TestResolveDoesNotCreate(t *testing.T) {
	fake := newFakePlayerStore()
	r := NewResolver(fake, nil)

	_, ok, err := r.Resolve(context.Background(), "Unknown Rookie")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, fake.players)
}

func TestResolveFuzzy(t *testing.T) {
	fake := newFakePlayerStore(
		store.Player{PlayerID: 1, FullName: "Stephen Curry"},
		store.Player{PlayerID: 2, FullName: "Jaylen Brown"},
	)
	r := NewResolver(fake, nil)

	id, ok, err := r.ResolveFuzzy(context.Background(), "S. Curry")
	require.NoError(t, err)
	// Abbreviated first names do not contain-match; only truncations do.
	_ = id
	assert.False(t, ok)

	// Truncated names contain-match.
	id, ok, err = r.ResolveFuzzy(context.Background(), "Jaylen Brow")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, id)
}
