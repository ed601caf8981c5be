// Package scoring reduces a test-result list and session metadata into
// a numeric score. The function is pure and deterministic: the same
// inputs always produce the same score.
package scoring

import (
	"math"

	"github.com/codequest-gg/gameserver/types"
)

const (
	// hintPenalty is the score fraction each revealed hint costs.
	hintPenalty = 0.1

	// penaltyFloor is the lowest the hint multiplier can go: hints
	// alone never zero out a score once at least one test passes.
	penaltyFloor = 0.5
)

// Score computes the score for a submission. Zero passed cases short
// circuit to zero with no partial credit; otherwise the passed fraction
// of MaxScore is discounted by the hint penalty and rounded.
func Score(challenge types.Challenge, results []types.TestResult, hintsUsed int) int {
	passed := 0
	for _, result := range results {
		if result.Passed {
			passed++
		}
	}
	if passed == 0 || len(results) == 0 {
		return 0
	}

	raw := float64(passed) / float64(len(results)) * float64(challenge.MaxScore)
	factor := math.Max(penaltyFloor, 1-float64(hintsUsed)*hintPenalty)

	return int(math.Round(raw * factor))
}
