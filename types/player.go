package types

import "time"

// Achievement categories.
const (
	AchievementCompletion = "completion"
	AchievementSpeed      = "speed"
	AchievementEfficiency = "efficiency"
	AchievementStreak     = "streak"
)

// PointsPerLevel is the total-score interval at which a player gains a
// level. Level 1 is the floor.
const PointsPerLevel = 500

// Player represents a registered account and its cumulative progress.
// Progress fields are mutated only on a fully passing submission.
type Player struct {
	// ID is the unique identifier of the player.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the player.
	Username string `json:"username" db:"username"`

	// Level gates which challenges the player may attempt. It is
	// derived from TotalScore and never decreases.
	Level int `json:"level" db:"level"`

	// TotalScore is the sum of all awarded scores. It is monotonically
	// non-decreasing; there is no negative scoring.
	TotalScore int `json:"total_score" db:"total_score"`

	// CompletedChallenges lists the ids of challenges the player has
	// completed. A challenge id appears at most once regardless of
	// repeated completions.
	CompletedChallenges []string `json:"completed_challenges" db:"completed_challenges"`

	// Achievements lists unlocked achievements, each at most once.
	Achievements []Achievement `json:"achievements" db:"achievements"`

	// Streak counts consecutive challenge completions.
	Streak int `json:"streak" db:"streak"`

	// LastPlayedAt is the timestamp of the most recent completion.
	LastPlayedAt time.Time `json:"last_played_at" db:"last_played_at"`

	// PasswordHash stores the bcrypt hash of the player's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Achievement represents a badge unlocked by a player.
type Achievement struct {
	// ID is the unique slug of the achievement (e.g. "first-solve").
	ID string `json:"id"`

	// Title is the display name of the achievement.
	Title string `json:"title"`

	// Description explains how the achievement was earned.
	Description string `json:"description"`

	// Icon is the emoji shown next to the title.
	Icon string `json:"icon"`

	// Category is one of "completion", "speed", "efficiency", "streak".
	Category string `json:"category"`

	// UnlockedAt is when the player earned the achievement.
	UnlockedAt time.Time `json:"unlocked_at"`
}

// LevelForScore derives a player level from a cumulative score.
func LevelForScore(totalScore int) int {
	if totalScore < 0 {
		return 1
	}
	return 1 + totalScore/PointsPerLevel
}

// HasCompleted reports whether the player already completed the
// given challenge.
func (p Player) HasCompleted(challengeID string) bool {
	for _, id := range p.CompletedChallenges {
		if id == challengeID {
			return true
		}
	}
	return false
}

// HasAchievement reports whether the achievement is already unlocked.
func (p Player) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}
