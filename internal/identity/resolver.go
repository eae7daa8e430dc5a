// Package identity maps source-reported player names to canonical player
// rows. Resolution is deterministic: exact match on the normalized spelling,
// with an optional fuzzy fallback for enrichment flows that can tolerate
// approximate matches.
package identity

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/chrisk320/Sports-Analytics-Hub/internal/normalize"
	"github.com/chrisk320/Sports-Analytics-Hub/internal/store"
)

// PlayerStore is the slice of the player repository the resolver needs.
type PlayerStore interface {
	ListIdentities(ctx context.Context) ([]store.Player, error)
	Create(ctx context.Context, fullName, teamAbbr string) (store.Player, error)
	UpdateTeam(ctx context.Context, playerID int, teamAbbr string) error
}

// IdentityCache is an optional shared lookup layer. Lookups and writes are
// best effort; a failing cache never fails resolution.
type IdentityCache interface {
	LookupIdentity(ctx context.Context, normalizedName string) (int, bool, error)
	CacheIdentity(ctx context.Context, normalizedName string, playerID int) error
}

// Resolver resolves raw player names to canonical ids, creating players on
// first sight. Safe for concurrent use; the mutex serializes the
// check-then-create window so two workers seeing a new name race to one row.
type Resolver struct {
	players PlayerStore
	cache   IdentityCache

	mu     sync.Mutex
	byName map[string]int // normalized name -> player id
	primed bool
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(players PlayerStore, cache IdentityCache) *Resolver {
	return &Resolver{
		players: players,
		cache:   cache,
		byName:  make(map[string]int),
	}
}

// Prime loads all known identities into the in-process map. Called once at
// startup; ResolveOrCreate also primes lazily on first use.
func (r *Resolver) Prime(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.primeLocked(ctx)
}

func (r *Resolver) primeLocked(ctx context.Context) error {
	if r.primed {
		return nil
	}

	players, err := r.players.ListIdentities(ctx)
	if err != nil {
		return fmt.Errorf("failed to load player identities: %w", err)
	}

	for _, p := range players {
		r.byName[normalize.PlayerName(p.FullName)] = p.PlayerID
	}
	r.primed = true

	log.Printf("[identity] ✓ Primed resolver with %d known players", len(players))
	return nil
}

// ResolveOrCreate returns the canonical player id for a raw source name,
// creating the player when no spelling of the name is known. teamAbbr, when
// nonempty, is applied last-write-wins to an existing player's team.
func (r *Resolver) ResolveOrCreate(ctx context.Context, rawName, teamAbbr string) (int, error) {
	key := normalize.PlayerName(rawName)
	if key == "" {
		return 0, fmt.Errorf("cannot resolve empty player name %q", rawName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.primeLocked(ctx); err != nil {
		return 0, err
	}

	if id, ok := r.byName[key]; ok {
		if teamAbbr != "" {
			if err := r.players.UpdateTeam(ctx, id, teamAbbr); err != nil {
				return 0, fmt.Errorf("failed to update team for player %d: %w", id, err)
			}
		}
		r.cacheBestEffort(ctx, key, id)
		return id, nil
	}

	if r.cache != nil {
		if id, ok, err := r.cache.LookupIdentity(ctx, key); err == nil && ok {
			r.byName[key] = id
			return id, nil
		}
	}

	p, err := r.players.Create(ctx, strings.TrimSpace(rawName), teamAbbr)
	if err != nil {
		return 0, fmt.Errorf("failed to create player %q: %w", rawName, err)
	}
	r.byName[key] = p.PlayerID
	r.cacheBestEffort(ctx, key, p.PlayerID)

	log.Printf("[identity] ✓ Created player %d for %q", p.PlayerID, rawName)
	return p.PlayerID, nil
}

// Resolve looks up a name without creating it. The second return is false
// when the name is unknown.
func (r *Resolver) Resolve(ctx context.Context, rawName string) (int, bool, error) {
	key := normalize.PlayerName(rawName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.primeLocked(ctx); err != nil {
		return 0, false, err
	}

	id, ok := r.byName[key]
	return id, ok, nil
}

// ResolveFuzzy matches a name by normalized substring containment in either
// direction, for sources that truncate or decorate names. The first match
// in iteration order wins, so this is only suitable for non-destructive
// flows like headshot enrichment.
func (r *Resolver) ResolveFuzzy(ctx context.Context, rawName string) (int, bool, error) {
	key := normalize.PlayerName(rawName)
	if key == "" {
		return 0, false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.primeLocked(ctx); err != nil {
		return 0, false, err
	}

	if id, ok := r.byName[key]; ok {
		return id, true, nil
	}

	for name, id := range r.byName {
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return id, true, nil
		}
	}

	return 0, false, nil
}

func (r *Resolver) cacheBestEffort(ctx context.Context, key string, id int) {
	if r.cache == nil {
		return
	}
	if err := r.cache.CacheIdentity(ctx, key, id); err != nil {
		log.Printf("[identity] ⚠️ Failed to cache identity %q: %v", key, err)
	}
}
