package services

import (
	"context"

	"github.com/codequest-gg/gameserver/types"
)

// PlayerRepository defines persistence operations for players. The
// engine only needs load and save; the API additionally lists top
// players for the leaderboard.
type PlayerRepository interface {
	GetByID(ctx context.Context, id int) (types.Player, error)
	GetByUsername(ctx context.Context, username string) (types.Player, error)
	Create(ctx context.Context, player types.Player) (types.Player, error)
	Update(ctx context.Context, player types.Player) (types.Player, error)
	ListTop(ctx context.Context, limit int) ([]types.Player, error)
	Delete(ctx context.Context, id int) error
}

// PlayerService encapsulates player use-cases.
type PlayerService struct {
	repo PlayerRepository
}

func NewPlayerService(repo PlayerRepository) *PlayerService {
	return &PlayerService{repo: repo}
}

func (s *PlayerService) GetByID(ctx context.Context, id int) (types.Player, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PlayerService) GetByUsername(ctx context.Context, username string) (types.Player, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *PlayerService) Create(ctx context.Context, player types.Player) (types.Player, error) {
	return s.repo.Create(ctx, player)
}

func (s *PlayerService) Update(ctx context.Context, player types.Player) (types.Player, error) {
	return s.repo.Update(ctx, player)
}

func (s *PlayerService) ListTop(ctx context.Context, limit int) ([]types.Player, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.ListTop(ctx, limit)
}

func (s *PlayerService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
