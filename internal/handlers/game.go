package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codequest-gg/gameserver/internal/game"
	"github.com/codequest-gg/gameserver/internal/runner"
	"github.com/codequest-gg/gameserver/internal/store"
	"github.com/codequest-gg/gameserver/types"
)

// GameHandler exposes the per-player session state machine over HTTP.
type GameHandler struct {
	registry *game.Registry
}

// NewGameHandler constructs a GameHandler over the engine registry.
func NewGameHandler(registry *game.Registry) *GameHandler {
	return &GameHandler{registry: registry}
}

// GameRouter registers the game routes. Every route requires auth.
func GameRouter(r chi.Router, registry *game.Registry, authMiddleware func(http.Handler) http.Handler) {
	handler := NewGameHandler(registry)

	r.Use(authMiddleware)
	r.Post("/start", handler.StartChallenge)
	r.Post("/run", handler.RunTests)
	r.Post("/submit", handler.SubmitSolution)
	r.Post("/hint", handler.UseHint)
	r.Post("/reset", handler.ResetGame)
	r.Get("/state", handler.GetState)
	r.Get("/stats", handler.GetStats)
}

type StartRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type RunRequest struct {
	Code string `json:"code"`
}

type RunResponse struct {
	Results []types.TestResult `json:"results"`
}

type HintResponse struct {
	Hint      string `json:"hint"`
	HintsUsed int    `json:"hints_used"`
}

// StateResponse mirrors the engine snapshot with the active challenge
// sanitized.
type StateResponse struct {
	Challenge     *ChallengeView     `json:"challenge,omitempty"`
	Session       *types.GameSession `json:"session,omitempty"`
	Player        types.Player       `json:"player"`
	IsPlaying     bool               `json:"is_playing"`
	IsExecuting   bool               `json:"is_executing"`
	TimeRemaining *int               `json:"time_remaining,omitempty"`
}

// StartChallenge begins a fresh session for the requested challenge.
func (h *GameHandler) StartChallenge(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(w, r)
	if !ok {
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChallengeID == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if !engine.StartChallenge(req.ChallengeID) {
		writeError(w, http.StatusNotFound, "challenge not found")
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(engine.Snapshot()))
}

// RunTests executes the submitted code against the active challenge
// without counting an attempt.
func (h *GameHandler) RunTests(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(w, r)
	if !ok {
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	results, err := engine.RunTests(req.Code)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RunResponse{Results: results})
}

// SubmitSolution scores the session's current code.
func (h *GameHandler) SubmitSolution(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(w, r)
	if !ok {
		return
	}

	outcome, err := engine.SubmitSolution(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// UseHint reveals the next hint for the active challenge.
func (h *GameHandler) UseHint(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(w, r)
	if !ok {
		return
	}

	hint, ok := engine.UseHint()
	if !ok {
		writeError(w, http.StatusConflict, "no hint available")
		return
	}
	state := engine.Snapshot()
	hintsUsed := 0
	if state.Session != nil {
		hintsUsed = state.Session.HintsUsed
	}
	writeJSON(w, http.StatusOK, HintResponse{Hint: hint, HintsUsed: hintsUsed})
}

// ResetGame discards the active session.
func (h *GameHandler) ResetGame(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(w, r)
	if !ok {
		return
	}

	engine.ResetGame()
	w.WriteHeader(http.StatusNoContent)
}

// GetState returns the current game state snapshot.
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(engine.Snapshot()))
}

// GetStats returns the player's derived progress summary.
func (h *GameHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Stats())
}

func (h *GameHandler) engineFor(w http.ResponseWriter, r *http.Request) (*game.Engine, bool) {
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

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNoActiveChallenge):
		writeError(w, http.StatusConflict, "no active challenge")
	case errors.Is(err, runner.ErrBusy):
		writeError(w, http.StatusConflict, "execution already in progress")
	default:
		writeError(w, http.StatusInternalServerError, "failed to execute")
	}
}

func stateResponse(state types.GameState) StateResponse {
	resp := StateResponse{
		Session:       state.Session,
		Player:        state.Player,
		IsPlaying:     state.IsPlaying,
		IsExecuting:   state.IsExecuting,
		TimeRemaining: state.TimeRemaining,
	}
	if state.Challenge != nil {
		view := sanitizeChallenge(*state.Challenge)
		resp.Challenge = &view
	}
	return resp
}
