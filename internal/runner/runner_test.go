package runner

import (
	"errors"
	"strings"
	"testing"

	"github.com/codequest-gg/gameserver/internal/sandbox"
	"github.com/codequest-gg/gameserver/types"
)

func newTestRunner() *Runner {
	return New(sandbox.New(0))
}

func sumChallenge() types.Challenge {
	return types.Challenge{
		ID:       "sum-two-numbers",
		MaxScore: 150,
		TestCases: []types.TestCase{
			{ID: "test1", Input: []any{2, 3}, ExpectedOutput: 5, Description: "addNumbers(2, 3) should return 5"},
			{ID: "test2", Input: []any{10, -5}, ExpectedOutput: 5, Description: "addNumbers(10, -5) should return 5"},
			{ID: "test3", Input: []any{0, 0}, ExpectedOutput: 0, Description: "addNumbers(0, 0) should return 0"},
		},
	}
}

func TestRunAllCasesPass(t *testing.T) {
	r := newTestRunner()

	results, err := r.Run(sumChallenge(), "function addNumbers(a, b) { return a + b }")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, result := range results {
		if !result.Passed {
			t.Fatalf("case %d failed: %q", i, result.Error)
		}
	}
	if !AllPassed(results) {
		t.Fatal("expected AllPassed to be true")
	}
}

func TestRunPreservesCaseOrderAndLength(t *testing.T) {
	r := newTestRunner()
	challenge := sumChallenge()

	results, err := r.Run(challenge, "function addNumbers(a, b) { return a * b }")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(challenge.TestCases) {
		t.Fatalf("expected %d results, got %d", len(challenge.TestCases), len(results))
	}
	for i, result := range results {
		if result.TestCaseID != challenge.TestCases[i].ID {
			t.Fatalf("result %d references %q, want %q", i, result.TestCaseID, challenge.TestCases[i].ID)
		}
	}
}

func TestRunMissingReturnSurfacesUndefinedHint(t *testing.T) {
	r := newTestRunner()

	results, err := r.Run(sumChallenge(), "function addNumbers(a, b) { console.log(a + b) }")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, result := range results {
		if result.Passed {
			t.Fatalf("case %d unexpectedly passed", i)
		}
		if !strings.Contains(result.Error, "undefined") {
			t.Fatalf("case %d expected undefined hint, got %q", i, result.Error)
		}
	}
}

func TestRunFailureDoesNotAbortLoop(t *testing.T) {
	r := newTestRunner()
	challenge := types.Challenge{
		ID: "throwy",
		TestCases: []types.TestCase{
			{ID: "a", Input: []any{1}, ExpectedOutput: float64(1)},
			{ID: "b", Input: []any{0}, ExpectedOutput: float64(0)},
		},
	}

	results, err := r.Run(challenge, `function f(n) { if (n === 1) { throw new Error("no") } return n }`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Passed {
		t.Fatal("expected first case to fail")
	}
	if !results[1].Passed {
		t.Fatalf("expected second case to pass, got error %q", results[1].Error)
	}
}

func TestRunHiddenCaseSuppressesOutputs(t *testing.T) {
	r := newTestRunner()
	challenge := types.Challenge{
		ID: "with-hidden",
		TestCases: []types.TestCase{
			{ID: "visible", Input: []any{2}, ExpectedOutput: float64(4)},
			{ID: "secret", Input: []any{3}, ExpectedOutput: float64(6), IsHidden: true},
		},
	}

	results, err := r.Run(challenge, "function double(n) { return n * 2 }")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if results[0].ActualOutput == nil || results[0].ExpectedOutput == nil {
		t.Fatal("visible case must carry outputs")
	}
	if !results[1].Passed {
		t.Fatalf("hidden case must still count toward pass/fail, got error %q", results[1].Error)
	}
	if !results[1].Hidden {
		t.Fatal("hidden flag must be carried through")
	}
	if results[1].ActualOutput != nil || results[1].ExpectedOutput != nil {
		t.Fatal("hidden case leaked outputs")
	}
}

func TestRunDeepEqualityOnCompositeOutputs(t *testing.T) {
	r := newTestRunner()
	challenge := types.Challenge{
		ID: "composite",
		TestCases: []types.TestCase{
			{ID: "arr", Input: []any{}, ExpectedOutput: []any{float64(1), float64(2), float64(3)}},
		},
	}

	results, err := r.Run(challenge, "function make() { return [1, 2, 3] }")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !results[0].Passed {
		t.Fatalf("expected composite equality to pass, got error %q", results[0].Error)
	}
}

func TestRunRejectsReentrantInvocation(t *testing.T) {
	r := newTestRunner()
	r.executing.Store(true)

	if _, err := r.Run(sumChallenge(), "function addNumbers(a, b) { return a + b }"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	r.executing.Store(false)
	if _, err := r.Run(sumChallenge(), "function addNumbers(a, b) { return a + b }"); err != nil {
		t.Fatalf("expected run to succeed after release, got %v", err)
	}
	if r.IsExecuting() {
		t.Fatal("executing flag must be cleared after Run returns")
	}
}
