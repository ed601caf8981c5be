// Package catalog loads and serves the read-only challenge catalog.
// Catalogs are authored as JSON documents, shipped with the binary or
// published to object storage, and validated once at load time.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/codequest-gg/gameserver/internal/storage"
	"github.com/codequest-gg/gameserver/types"
)

// Catalog is an immutable, ordered collection of challenges
// addressable by id.
type Catalog struct {
	challenges []types.Challenge
	byID       map[string]int
}

// Load decodes and validates a catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var challenges []types.Challenge
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&challenges); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := &Catalog{
		challenges: challenges,
		byID:       make(map[string]int, len(challenges)),
	}
	for i, challenge := range challenges {
		if err := validate(challenge); err != nil {
			return nil, fmt.Errorf("challenge %d (%q): %w", i, challenge.ID, err)
		}
		if _, exists := catalog.byID[challenge.ID]; exists {
			return nil, fmt.Errorf("duplicate challenge id %q", challenge.ID)
		}
		catalog.byID[challenge.ID] = i
	}
	return catalog, nil
}

// LoadFile loads a catalog from the local filesystem.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// LoadObject loads a catalog bundle from object storage.
func LoadObject(ctx context.Context, store *storage.Storage, key string) (*Catalog, error) {
	data, err := store.GetBytes(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog object %q: %w", key, err)
	}
	return Load(bytes.NewReader(data))
}

// List returns all challenges in catalog order.
func (c *Catalog) List() []types.Challenge {
	out := make([]types.Challenge, len(c.challenges))
	copy(out, c.challenges)
	return out
}

// Get looks up a challenge by id.
func (c *Catalog) Get(id string) (types.Challenge, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Challenge{}, false
	}
	return c.challenges[i], true
}

// AvailableFor returns the challenges a player of the given level may
// attempt, in catalog order.
func (c *Catalog) AvailableFor(level int) []types.Challenge {
	out := make([]types.Challenge, 0, len(c.challenges))
	for _, challenge := range c.challenges {
		if challenge.MinLevel() <= level {
			out = append(out, challenge)
		}
	}
	return out
}

// Len returns the number of challenges in the catalog.
func (c *Catalog) Len() int {
	return len(c.challenges)
}

func validate(challenge types.Challenge) error {
	if challenge.ID == "" {
		return fmt.Errorf("missing id")
	}
	if challenge.Title == "" {
		return fmt.Errorf("missing title")
	}
	if challenge.StarterCode == "" {
		return fmt.Errorf("missing starter code")
	}
	if challenge.Solution == "" {
		return fmt.Errorf("missing reference solution")
	}
	if len(challenge.TestCases) == 0 {
		return fmt.Errorf("no test cases")
	}
	if challenge.MaxScore <= 0 {
		return fmt.Errorf("max score must be positive")
	}
	if _, ok := types.DifficultyRank[challenge.Difficulty]; !ok {
		return fmt.Errorf("unknown difficulty %q", challenge.Difficulty)
	}

	seen := make(map[string]struct{}, len(challenge.TestCases))
	for i, tc := range challenge.TestCases {
		if tc.ID == "" {
			return fmt.Errorf("test case %d missing id", i)
		}
		if _, dup := seen[tc.ID]; dup {
			return fmt.Errorf("duplicate test case id %q", tc.ID)
		}
		seen[tc.ID] = struct{}{}
	}
	return nil
}
