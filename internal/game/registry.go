package game

import (
	"context"
	"sync"
	"time"

	"github.com/codequest-gg/gameserver/internal/catalog"
	"github.com/codequest-gg/gameserver/internal/runner"
	"github.com/codequest-gg/gameserver/internal/sandbox"
	"github.com/codequest-gg/gameserver/internal/services"
)

// Registry hands out one engine per player, creating it lazily on
// first use. Engines get their own runner so one player's execution
// cannot block another's; the sandbox timeout is shared configuration.
type Registry struct {
	mu      sync.Mutex
	engines map[int]*Engine

	catalog        *catalog.Catalog
	players        *services.PlayerService
	sandboxTimeout time.Duration

	events       EventPublisher
	eventChannel string
}

// NewRegistry constructs an engine registry.
func NewRegistry(cat *catalog.Catalog, players *services.PlayerService, sandboxTimeout time.Duration) *Registry {
	return &Registry{
		engines:        make(map[int]*Engine),
		catalog:        cat,
		players:        players,
		sandboxTimeout: sandboxTimeout,
	}
}

// SetEventPublisher enables completion events on engines created from
// now on. Call before serving traffic.
func (r *Registry) SetEventPublisher(pub EventPublisher, channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = pub
	r.eventChannel = channel
}

// Engine returns the player's engine, loading the player record and
// creating the engine on first access.
func (r *Registry) Engine(ctx context.Context, playerID int) (*Engine, error) {
	r.mu.Lock()
	if engine, ok := r.engines[playerID]; ok {
		r.mu.Unlock()
		return engine, nil
	}
	r.mu.Unlock()

	// Load outside the lock; repository calls can block.
	player, err := r.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if engine, ok := r.engines[playerID]; ok {
		return engine, nil
	}
	engine := NewEngine(r.catalog, runner.New(sandbox.New(r.sandboxTimeout)), r.players, player)
	if r.events != nil {
		engine.events = r.events
		engine.eventChannel = r.eventChannel
	}
	r.engines[playerID] = engine
	return engine, nil
}

// Drop removes a player's engine, discarding any in-memory session.
func (r *Registry) Drop(playerID int) {
	r.mu.Lock()
	engine, ok := r.engines[playerID]
	delete(r.engines, playerID)
	r.mu.Unlock()
	if ok {
		engine.ResetGame()
	}
}
