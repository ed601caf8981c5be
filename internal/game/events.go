package game

import "time"

// CompletedEvent is the message published on the completion channel
// after a fully passing submission.
type CompletedEvent struct {
	// PlayerID identifies the player who completed the challenge.
	PlayerID int `json:"player_id"`

	// Username duplicates the player's login name for consumers that
	// do not want a lookup.
	Username string `json:"username"`

	// ChallengeID identifies the completed challenge.
	ChallengeID string `json:"challenge_id"`

	// Score is the score awarded for this completion.
	Score int `json:"score"`

	// Attempts counts submits made in the completing session.
	Attempts int `json:"attempts"`

	// HintsUsed counts hints revealed in the completing session.
	HintsUsed int `json:"hints_used"`

	// ElapsedSeconds is the wall-clock duration of the session.
	ElapsedSeconds float64 `json:"elapsed_seconds"`

	// CompletedAt is when the passing submit was recorded.
	CompletedAt time.Time `json:"completed_at"`
}
