package scoring

import (
	"testing"

	"github.com/codequest-gg/gameserver/types"
)

func resultsWithPasses(passed, total int) []types.TestResult {
	results := make([]types.TestResult, total)
	for i := range results {
		results[i] = types.TestResult{TestCaseID: "t", Passed: i < passed}
	}
	return results
}

func TestScoreAllPassWithOneHint(t *testing.T) {
	challenge := types.Challenge{MaxScore: 200}

	got := Score(challenge, resultsWithPasses(3, 3), 1)
	if got != 180 {
		t.Fatalf("Score = %d, want 180", got)
	}
}

func TestScoreZeroPassedShortCircuits(t *testing.T) {
	challenge := types.Challenge{MaxScore: 300}

	for hints := 0; hints < 5; hints++ {
		if got := Score(challenge, resultsWithPasses(0, 4), hints); got != 0 {
			t.Fatalf("Score with %d hints = %d, want 0", hints, got)
		}
	}
}

func TestScoreEmptyResultList(t *testing.T) {
	if got := Score(types.Challenge{MaxScore: 100}, nil, 0); got != 0 {
		t.Fatalf("Score = %d, want 0", got)
	}
}

func TestScorePartialCredit(t *testing.T) {
	challenge := types.Challenge{MaxScore: 100}

	if got := Score(challenge, resultsWithPasses(1, 4), 0); got != 25 {
		t.Fatalf("Score = %d, want 25", got)
	}
}

func TestScoreMonotonicInPassedFraction(t *testing.T) {
	challenge := types.Challenge{MaxScore: 240}

	prev := -1
	for passed := 0; passed <= 6; passed++ {
		got := Score(challenge, resultsWithPasses(passed, 6), 2)
		if got < prev {
			t.Fatalf("score decreased from %d to %d at %d passed", prev, got, passed)
		}
		prev = got
	}
}

func TestScoreMonotonicInHintsWithFloor(t *testing.T) {
	challenge := types.Challenge{MaxScore: 200}
	results := resultsWithPasses(3, 3)

	prev := Score(challenge, results, 0)
	for hints := 1; hints <= 10; hints++ {
		got := Score(challenge, results, hints)
		if got > prev {
			t.Fatalf("score increased from %d to %d at %d hints", prev, got, hints)
		}
		prev = got
	}

	// Penalty factor never drops below 0.5.
	if got := Score(challenge, results, 100); got != 100 {
		t.Fatalf("floored score = %d, want 100", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	challenge := types.Challenge{MaxScore: 175}
	results := resultsWithPasses(2, 3)

	first := Score(challenge, results, 1)
	for i := 0; i < 10; i++ {
		if got := Score(challenge, results, 1); got != first {
			t.Fatalf("score changed across calls: %d then %d", first, got)
		}
	}
}
