// Package game owns the session state machine: which challenge is
// active, the countdown for timed challenges, hint disclosure, and the
// player's cumulative record. It orchestrates the runner and scoring
// packages but contains no execution logic itself.
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/codequest-gg/gameserver/internal/catalog"
	"github.com/codequest-gg/gameserver/internal/runner"
	"github.com/codequest-gg/gameserver/internal/scoring"
	"github.com/codequest-gg/gameserver/internal/services"
	"github.com/codequest-gg/gameserver/types"
)

// ErrNoActiveChallenge is returned by run/submit when no session is
// active.
var ErrNoActiveChallenge = errors.New("no active challenge")

// EventPublisher publishes completion events. *mq.MQ satisfies it; a
// nil publisher disables events.
type EventPublisher interface {
	PublishJSON(ctx context.Context, channel string, value any, attrs map[string]string) (string, error)
}

// SubmitOutcome summarizes one submit.
type SubmitOutcome struct {
	AllPassed bool               `json:"all_passed"`
	Score     int                `json:"score"`
	Results   []types.TestResult `json:"results"`
}

// PlayerStats is the derived progress summary exposed to the UI.
type PlayerStats struct {
	CompletedChallenges int     `json:"completed_challenges"`
	TotalChallenges     int     `json:"total_challenges"`
	CompletionRate      float64 `json:"completion_rate"`
	CurrentStreak       int     `json:"current_streak"`
	TotalScore          int     `json:"total_score"`
	Level               int     `json:"level"`
	Achievements        int     `json:"achievements"`
}

// Engine is the per-player session state machine. It is single-owner,
// single-writer: one engine per player, all transitions serialized by
// its mutex. Test execution itself runs outside the lock so a slow
// submission cannot block snapshots.
type Engine struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	runner  *runner.Runner
	players *services.PlayerService

	events       EventPublisher
	eventChannel string

	player    types.Player
	challenge *types.Challenge
	session   *types.GameSession
	playing   bool

	// Countdown state. hasTimer controls snapshot display; timerGen
	// invalidates stale ticker goroutines on every exit path.
	timeRemaining int
	hasTimer      bool
	timerGen      int
	timerStop     chan struct{}
	tick          time.Duration
}

// NewEngine constructs an engine for one player.
func NewEngine(cat *catalog.Catalog, run *runner.Runner, players *services.PlayerService, player types.Player) *Engine {
	return &Engine{
		catalog: cat,
		runner:  run,
		players: players,
		player:  player,
		tick:    time.Second,
	}
}

// SetEventPublisher enables completion-event publishing.
func (e *Engine) SetEventPublisher(pub EventPublisher, channel string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = pub
	e.eventChannel = channel
}

// StartChallenge initializes a fresh session for the challenge.
// Unknown ids are a no-op: the engine state is left untouched and
// false is returned.
func (e *Engine) StartChallenge(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	challenge, ok := e.catalog.Get(id)
	if !ok {
		return false
	}

	e.cancelTimerLocked()
	e.challenge = &challenge
	e.session = &types.GameSession{
		ChallengeID: challenge.ID,
		StartTime:   time.Now(),
		Code:        challenge.StarterCode,
		TestResults: []types.TestResult{},
	}
	e.playing = true

	if challenge.TimeLimit > 0 {
		e.timeRemaining = challenge.TimeLimit
		e.hasTimer = true
		e.startTimerLocked()
	} else {
		e.timeRemaining = 0
		e.hasTimer = false
	}
	return true
}

// RunTests executes code against the active challenge's test cases and
// records the results on the session. The session's code is updated to
// the submitted text.
func (e *Engine) RunTests(code string) ([]types.TestResult, error) {
	e.mu.Lock()
	if e.session == nil || e.challenge == nil {
		e.mu.Unlock()
		return nil, ErrNoActiveChallenge
	}
	challenge := *e.challenge
	session := e.session
	session.Code = code
	e.mu.Unlock()

	results, err := e.runner.Run(challenge, code)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	// The session may have been reset or replaced while executing; a
	// stale run must not mutate its successor.
	if e.session == session {
		session.TestResults = results
	}
	e.mu.Unlock()
	return results, nil
}

// SubmitSolution runs the session's current code, scores it and, on a
// full pass, updates the player record, persists it and returns to
// idle. On a partial pass the session stays active for another attempt.
func (e *Engine) SubmitSolution(ctx context.Context) (*SubmitOutcome, error) {
	e.mu.Lock()
	if e.session == nil || e.challenge == nil {
		e.mu.Unlock()
		return nil, ErrNoActiveChallenge
	}
	challenge := *e.challenge
	session := e.session
	code := session.Code
	e.mu.Unlock()

	results, err := e.runner.Run(challenge, code)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != session {
		return nil, ErrNoActiveChallenge
	}

	now := time.Now()
	allPassed := runner.AllPassed(results)
	score := scoring.Score(challenge, results, session.HintsUsed)

	session.EndTime = now
	session.Attempts++
	session.Completed = allPassed
	session.TestResults = results
	session.Score = score

	outcome := &SubmitOutcome{AllPassed: allPassed, Score: score, Results: results}
	if !allPassed {
		return outcome, nil
	}

	e.playing = false
	e.cancelTimerLocked()

	elapsed := now.Sub(session.StartTime)
	e.player.TotalScore += score
	if !e.player.HasCompleted(challenge.ID) {
		e.player.CompletedChallenges = append(e.player.CompletedChallenges, challenge.ID)
	}
	e.player.Streak++
	if level := types.LevelForScore(e.player.TotalScore); level > e.player.Level {
		e.player.Level = level
	}
	e.player.LastPlayedAt = now
	e.unlockAchievementsLocked(now, elapsed, session)

	saved, err := e.players.Update(ctx, e.player)
	if err != nil {
		return outcome, err
	}
	e.player = saved

	e.publishCompletedLocked(ctx, challenge, session, score, elapsed)
	return outcome, nil
}

// UseHint reveals the next unseen hint in declaration order. It
// returns false when no session is active or all hints are spent.
func (e *Engine) UseHint() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.challenge == nil {
		return "", false
	}
	if e.session.HintsUsed >= len(e.challenge.Hints) {
		return "", false
	}

	hint := e.challenge.Hints[e.session.HintsUsed]
	e.session.HintsUsed++
	return hint, true
}

// ResetGame unconditionally returns to idle, discarding the session.
func (e *Engine) ResetGame() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelTimerLocked()
	e.challenge = nil
	e.session = nil
	e.playing = false
	e.timeRemaining = 0
	e.hasTimer = false
}

// Snapshot returns an immutable-per-update copy of the game state.
func (e *Engine) Snapshot() types.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := types.GameState{
		Player:      e.player,
		IsPlaying:   e.playing,
		IsExecuting: e.runner.IsExecuting(),
	}
	if e.challenge != nil {
		challenge := *e.challenge
		state.Challenge = &challenge
	}
	if e.session != nil {
		session := *e.session
		session.TestResults = append([]types.TestResult(nil), e.session.TestResults...)
		state.Session = &session
	}
	if e.hasTimer {
		remaining := e.timeRemaining
		state.TimeRemaining = &remaining
	}
	return state
}

// Player returns the engine's current view of the player record.
func (e *Engine) Player() types.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player
}

// AvailableChallenges returns the catalog entries the player's level
// unlocks.
func (e *Engine) AvailableChallenges() []types.Challenge {
	e.mu.Lock()
	level := e.player.Level
	e.mu.Unlock()
	return e.catalog.AvailableFor(level)
}

// Stats derives the progress summary for the UI.
func (e *Engine) Stats() PlayerStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	completed := len(e.player.CompletedChallenges)
	total := e.catalog.Len()
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total) * 100
	}
	return PlayerStats{
		CompletedChallenges: completed,
		TotalChallenges:     total,
		CompletionRate:      rate,
		CurrentStreak:       e.player.Streak,
		TotalScore:          e.player.TotalScore,
		Level:               e.player.Level,
		Achievements:        len(e.player.Achievements),
	}
}

func (e *Engine) startTimerLocked() {
	e.timerGen++
	stop := make(chan struct{})
	e.timerStop = stop
	go e.countdown(e.timerGen, stop)
}

// cancelTimerLocked stops the countdown goroutine and invalidates any
// tick already in flight. Called on every state-exit path so a stale
// timer can never mutate a superseded session.
func (e *Engine) cancelTimerLocked() {
	e.timerGen++
	if e.timerStop != nil {
		close(e.timerStop)
		e.timerStop = nil
	}
}

func (e *Engine) countdown(gen int, stop chan struct{}) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !e.tickOnce(gen) {
				return
			}
		}
	}
}

// tickOnce decrements the countdown by one second. It returns false
// when the goroutine should exit: generation mismatch, no longer
// playing, or time just ran out.
func (e *Engine) tickOnce(gen int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.timerGen || !e.playing || !e.hasTimer {
		return false
	}

	e.timeRemaining--
	if e.timeRemaining > 0 {
		return true
	}

	// Time is up: forced exit to idle. The player record is untouched;
	// running out of time is not a failure recorded against them.
	e.timeRemaining = 0
	e.playing = false
	e.timerStop = nil
	return false
}

func (e *Engine) unlockAchievementsLocked(now time.Time, elapsed time.Duration, session *types.GameSession) {
	grant := func(a types.Achievement) {
		if e.player.HasAchievement(a.ID) {
			return
		}
		a.UnlockedAt = now
		e.player.Achievements = append(e.player.Achievements, a)
	}

	grant(types.Achievement{
		ID:          "first-solve",
		Title:       "First Steps",
		Description: "Complete your first challenge",
		Icon:        "🎯",
		Category:    types.AchievementCompletion,
	})
	if elapsed < 30*time.Second {
		grant(types.Achievement{
			ID:          "speed-demon",
			Title:       "Speed Demon",
			Description: "Complete a challenge in under 30 seconds",
			Icon:        "⚡",
			Category:    types.AchievementSpeed,
		})
	}
	if session.Attempts == 1 && session.HintsUsed == 0 {
		grant(types.Achievement{
			ID:          "flawless",
			Title:       "Flawless",
			Description: "Pass every test on the first attempt without hints",
			Icon:        "💎",
			Category:    types.AchievementEfficiency,
		})
	}
	if e.player.Streak >= 5 {
		grant(types.Achievement{
			ID:          "on-a-roll",
			Title:       "On a Roll",
			Description: "Complete five challenges in a row",
			Icon:        "🔥",
			Category:    types.AchievementStreak,
		})
	}
}

func (e *Engine) publishCompletedLocked(ctx context.Context, challenge types.Challenge, session *types.GameSession, score int, elapsed time.Duration) {
	if e.events == nil || e.eventChannel == "" {
		return
	}
	event := CompletedEvent{
		PlayerID:       e.player.ID,
		Username:       e.player.Username,
		ChallengeID:    challenge.ID,
		Score:          score,
		Attempts:       session.Attempts,
		HintsUsed:      session.HintsUsed,
		ElapsedSeconds: elapsed.Seconds(),
		CompletedAt:    session.EndTime,
	}
	// Best effort: a broker outage must not fail the submit.
	_, _ = e.events.PublishJSON(ctx, e.eventChannel, event, map[string]string{
		"challenge_id": challenge.ID,
	})
}
