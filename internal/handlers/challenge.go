package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codequest-gg/gameserver/internal/catalog"
	"github.com/codequest-gg/gameserver/internal/game"
	"github.com/codequest-gg/gameserver/internal/store"
	"github.com/codequest-gg/gameserver/types"
)

// ChallengeHandler serves the player-facing catalog views.
type ChallengeHandler struct {
	catalog  *catalog.Catalog
	registry *game.Registry
}

// NewChallengeHandler constructs a handler over the loaded catalog.
func NewChallengeHandler(cat *catalog.Catalog, registry *game.Registry) *ChallengeHandler {
	return &ChallengeHandler{catalog: cat, registry: registry}
}

// ChallengeRouter registers catalog routes. All routes require auth:
// the listing is filtered by the caller's level.
func ChallengeRouter(r chi.Router, cat *catalog.Catalog, registry *game.Registry, authMiddleware func(http.Handler) http.Handler) {
	handler := NewChallengeHandler(cat, registry)

	r.Use(authMiddleware)
	r.Get("/", handler.ListChallenges)
	r.Get("/{challengeID}", handler.GetChallenge)
}

// ChallengeView is the sanitized challenge shape exposed over the API.
// The reference solution and the hint texts are withheld; hints are
// revealed one at a time through the game endpoints.
type ChallengeView struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Difficulty   string         `json:"difficulty"`
	Category     string         `json:"category"`
	Instructions string         `json:"instructions"`
	StarterCode  string         `json:"starter_code"`
	TestCases    []TestCaseView `json:"test_cases"`
	HintCount    int            `json:"hint_count"`
	MaxScore     int            `json:"max_score"`
	TimeLimit    int            `json:"time_limit,omitempty"`
}

// TestCaseView is the sanitized test case shape. Hidden cases keep
// their id and hidden flag but reveal neither input nor expectation.
type TestCaseView struct {
	ID             string `json:"id"`
	Input          []any  `json:"input,omitempty"`
	ExpectedOutput any    `json:"expected_output,omitempty"`
	Description    string `json:"description,omitempty"`
	IsHidden       bool   `json:"is_hidden,omitempty"`
}

// ListChallenges returns the challenges the caller's level unlocks.
func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(w, r)
	if !ok {
		return
	}

	challenges := engine.AvailableChallenges()
	views := make([]ChallengeView, 0, len(challenges))
	for _, challenge := range challenges {
		views = append(views, sanitizeChallenge(challenge))
	}
	writeJSON(w, http.StatusOK, ChallengeListResponse{Items: views, Total: h.catalog.Len()})
}

// GetChallenge returns one challenge regardless of level gating, so
// players can preview locked challenges.
func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "challengeID")
	challenge, ok := h.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "challenge not found")
		return
	}
	writeJSON(w, http.StatusOK, sanitizeChallenge(challenge))
}

// ChallengeListResponse is the catalog listing payload. Total counts
// the whole catalog so clients can show locked-challenge progress.
type ChallengeListResponse struct {
	Items []ChallengeView `json:"items"`
	Total int             `json:"total"`
}

func (h *ChallengeHandler) engineFor(w http.ResponseWriter, r *http.Request) (*game.Engine, bool) {
	playerID, err := playerIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	engine, err := h.registry.Engine(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "failed to load player")
		return nil, false
	}
	return engine, true
}

func sanitizeChallenge(challenge types.Challenge) ChallengeView {
	cases := make([]TestCaseView, 0, len(challenge.TestCases))
	for _, tc := range challenge.TestCases {
		view := TestCaseView{ID: tc.ID, IsHidden: tc.IsHidden}
		if !tc.IsHidden {
			view.Input = tc.Input
			view.ExpectedOutput = tc.ExpectedOutput
			view.Description = tc.Description
		}
		cases = append(cases, view)
	}
	return ChallengeView{
		ID:           challenge.ID,
		Title:        challenge.Title,
		Description:  challenge.Description,
		Difficulty:   challenge.Difficulty,
		Category:     challenge.Category,
		Instructions: challenge.Instructions,
		StarterCode:  challenge.StarterCode,
		TestCases:    cases,
		HintCount:    len(challenge.Hints),
		MaxScore:     challenge.MaxScore,
		TimeLimit:    challenge.TimeLimit,
	}
}
