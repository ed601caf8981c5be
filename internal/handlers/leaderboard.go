package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/codequest-gg/gameserver/internal/services"
)

// LeaderboardHandler serves the public ranking.
type LeaderboardHandler struct {
	playerService *services.PlayerService
}

// NewLeaderboardHandler constructs a LeaderboardHandler.
func NewLeaderboardHandler(playerService *services.PlayerService) *LeaderboardHandler {
	return &LeaderboardHandler{playerService: playerService}
}

// LeaderboardRouter registers the leaderboard route. The ranking is
// public; it exposes no credentials or per-session data.
func LeaderboardRouter(r chi.Router, playerService *services.PlayerService) {
	handler := NewLeaderboardHandler(playerService)
	r.Get("/", handler.GetLeaderboard)
}

// LeaderboardEntry is one row of the ranking.
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	Username     string `json:"username"`
	Level        int    `json:"level"`
	TotalScore   int    `json:"total_score"`
	Streak       int    `json:"streak"`
	Completed    int    `json:"completed"`
	Achievements int    `json:"achievements"`
}

// LeaderboardResponse is the ranking payload.
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// GetLeaderboard returns the top players ordered by total score.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	players, err := h.playerService.ListTop(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for i, player := range players {
		entries = append(entries, LeaderboardEntry{
			Rank:         i + 1,
			Username:     player.Username,
			Level:        player.Level,
			TotalScore:   player.TotalScore,
			Streak:       player.Streak,
			Completed:    len(player.CompletedChallenges),
			Achievements: len(player.Achievements),
		})
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Entries: entries})
}
