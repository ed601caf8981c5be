package store

import (
	"context"
	"errors"
	"testing"

	"github.com/codequest-gg/gameserver/types"
)

func TestMemoryRepositoryCreateAndGet(t *testing.T) {
	repo := NewMemoryPlayerRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, types.Player{Username: "codemaster", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.Level != 1 {
		t.Fatalf("expected level floor of 1, got %d", created.Level)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Username != "codemaster" {
		t.Fatalf("unexpected username %q", byID.Username)
	}

	byName, err := repo.GetByUsername(ctx, "codemaster")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("lookup mismatch: %d vs %d", byName.ID, created.ID)
	}
}

func TestMemoryRepositoryNotFound(t *testing.T) {
	repo := NewMemoryPlayerRepository()
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByUsername(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Update(ctx, types.Player{ID: 99}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepositoryUpdatePersistsProgress(t *testing.T) {
	repo := NewMemoryPlayerRepository()
	ctx := context.Background()

	player, err := repo.Create(ctx, types.Player{Username: "solver", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	player.TotalScore = 150
	player.CompletedChallenges = []string{"sum-two-numbers"}
	player.Streak = 1
	if _, err := repo.Update(ctx, player); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := repo.GetByID(ctx, player.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.TotalScore != 150 || reloaded.Streak != 1 {
		t.Fatalf("progress not persisted: %+v", reloaded)
	}
	if len(reloaded.CompletedChallenges) != 1 || reloaded.CompletedChallenges[0] != "sum-two-numbers" {
		t.Fatalf("completed set not persisted: %v", reloaded.CompletedChallenges)
	}
}

func TestMemoryRepositoryStoredStateIsIsolated(t *testing.T) {
	repo := NewMemoryPlayerRepository()
	ctx := context.Background()

	player, _ := repo.Create(ctx, types.Player{Username: "iso", PasswordHash: "x", CompletedChallenges: []string{"a"}})

	got, _ := repo.GetByID(ctx, player.ID)
	got.CompletedChallenges[0] = "mutated"

	again, _ := repo.GetByID(ctx, player.ID)
	if again.CompletedChallenges[0] != "a" {
		t.Fatal("returned slice aliases stored state")
	}
}

func TestMemoryRepositoryListTopOrdersByScore(t *testing.T) {
	repo := NewMemoryPlayerRepository()
	ctx := context.Background()

	for _, p := range []struct {
		name  string
		score int
	}{{"low", 100}, {"high", 900}, {"mid", 500}} {
		created, err := repo.Create(ctx, types.Player{Username: p.name, PasswordHash: "x"})
		if err != nil {
			t.Fatalf("Create %s: %v", p.name, err)
		}
		created.TotalScore = p.score
		if _, err := repo.Update(ctx, created); err != nil {
			t.Fatalf("Update %s: %v", p.name, err)
		}
	}

	top, err := repo.ListTop(ctx, 2)
	if err != nil {
		t.Fatalf("ListTop: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].Username != "high" || top[1].Username != "mid" {
		t.Fatalf("unexpected order: %s, %s", top[0].Username, top[1].Username)
	}
}
