package types

import "time"

// ExecutionResult is the outcome of one sandbox invocation attempt.
// It is produced and consumed within a single test-run cycle.
type ExecutionResult struct {
	// Success reports whether the submitted code compiled to a callable
	// and returned without throwing.
	Success bool `json:"success"`

	// Output is the raw value returned by the call, or nil on failure.
	Output any `json:"output"`

	// Error holds the captured compile or runtime error message, if any.
	Error string `json:"error,omitempty"`

	// ExecutionTime is the wall-clock time of the attempt in
	// milliseconds. It is reported even when the attempt failed.
	ExecutionTime float64 `json:"execution_time"`
}

// TestResult represents the outcome of running a submission against a
// single test case. A list of TestResults is the unit exchanged between
// the runner, the scoring engine and the API.
type TestResult struct {
	// TestCaseID references the test case this result belongs to.
	TestCaseID string `json:"test_case_id"`

	// Passed is true iff execution succeeded and the output equals the
	// expected value.
	Passed bool `json:"passed"`

	// ActualOutput is the value the submission returned.
	// This field is omitted when the test case is hidden.
	ActualOutput any `json:"actual_output,omitempty"`

	// ExpectedOutput is the correct value, duplicated for display.
	// This field is omitted when the test case is hidden.
	ExpectedOutput any `json:"expected_output,omitempty"`

	// ExecutionTime is the wall-clock time of the case in milliseconds.
	ExecutionTime float64 `json:"execution_time"`

	// Error holds the captured error message, if any.
	Error string `json:"error,omitempty"`

	// Hidden marks results whose outputs were suppressed.
	Hidden bool `json:"hidden,omitempty"`
}

// GameSession is the mutable record of one in-progress attempt at a
// challenge. Sessions live in memory only and are discarded when the
// player leaves the challenge.
type GameSession struct {
	// ChallengeID identifies the challenge being attempted.
	ChallengeID string `json:"challenge_id"`

	// StartTime is when the session was created.
	StartTime time.Time `json:"start_time"`

	// EndTime is stamped on submit; zero until then.
	EndTime time.Time `json:"end_time,omitzero"`

	// Code is the player's current source text.
	Code string `json:"code"`

	// Score is the score computed by the most recent submit.
	Score int `json:"score"`

	// Attempts counts submits made in this session.
	Attempts int `json:"attempts"`

	// HintsUsed counts hints revealed. It never decreases and is
	// bounded by the challenge's hint count.
	HintsUsed int `json:"hints_used"`

	// Completed is true once a submit passed every test case.
	Completed bool `json:"completed"`

	// TestResults is the result list from the most recent run or submit.
	TestResults []TestResult `json:"test_results"`
}

// GameState is the immutable-per-update snapshot the engine exposes to
// the presentation layer.
type GameState struct {
	// Challenge is the active challenge, nil when idle.
	Challenge *Challenge `json:"challenge,omitempty"`

	// Session is a copy of the active session, nil when idle.
	Session *GameSession `json:"session,omitempty"`

	// Player is the owning player's current record.
	Player Player `json:"player"`

	// IsPlaying reports whether a challenge is active.
	IsPlaying bool `json:"is_playing"`

	// IsExecuting reports whether a run or submit is in flight.
	IsExecuting bool `json:"is_executing"`

	// TimeRemaining is the countdown in seconds for timed challenges;
	// nil when the active challenge is untimed or no challenge is active.
	TimeRemaining *int `json:"time_remaining,omitempty"`
}
