package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/codequest-gg/gameserver/types"
)

// MemoryPlayerRepository is an in-memory implementation of the player
// repository interface. It backs tests and deployments that run without
// a database; the storage medium is irrelevant to the engine's
// correctness.
type MemoryPlayerRepository struct {
	mu      sync.RWMutex
	nextID  int
	byID    map[int]types.Player
	byName  map[string]int
}

func NewMemoryPlayerRepository() *MemoryPlayerRepository {
	return &MemoryPlayerRepository{
		nextID: 1,
		byID:   make(map[int]types.Player),
		byName: make(map[string]int),
	}
}

func (r *MemoryPlayerRepository) GetByID(ctx context.Context, id int) (types.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.byID[id]
	if !ok {
		return types.Player{}, ErrNotFound
	}
	return clonePlayer(player), nil
}

func (r *MemoryPlayerRepository) GetByUsername(ctx context.Context, username string) (types.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return types.Player{}, ErrNotFound
	}
	return clonePlayer(r.byID[id]), nil
}

func (r *MemoryPlayerRepository) Create(ctx context.Context, player types.Player) (types.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	player.ID = r.nextID
	player.CreatedAt = now
	player.UpdatedAt = now
	if player.Level < 1 {
		player.Level = 1
	}
	r.nextID++

	r.byID[player.ID] = clonePlayer(player)
	r.byName[player.Username] = player.ID
	return player, nil
}

func (r *MemoryPlayerRepository) Update(ctx context.Context, player types.Player) (types.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[player.ID]
	if !ok {
		return types.Player{}, ErrNotFound
	}

	player.UpdatedAt = time.Now()
	delete(r.byName, existing.Username)
	r.byID[player.ID] = clonePlayer(player)
	r.byName[player.Username] = player.ID
	return player, nil
}

func (r *MemoryPlayerRepository) ListTop(ctx context.Context, limit int) ([]types.Player, error) {
	if limit < 1 {
		limit = 10
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]types.Player, 0, len(r.byID))
	for _, player := range r.byID {
		players = append(players, clonePlayer(player))
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].TotalScore != players[j].TotalScore {
			return players[i].TotalScore > players[j].TotalScore
		}
		return players[i].ID < players[j].ID
	})

	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

func (r *MemoryPlayerRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byName, player.Username)
	return nil
}

// clonePlayer copies the slices so callers cannot mutate stored state.
func clonePlayer(player types.Player) types.Player {
	player.CompletedChallenges = append([]string(nil), player.CompletedChallenges...)
	player.Achievements = append([]types.Achievement(nil), player.Achievements...)
	return player
}
