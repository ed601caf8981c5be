package runner

import (
	"errors"
	"reflect"
	"sync/atomic"

	"github.com/codequest-gg/gameserver/internal/sandbox"
	"github.com/codequest-gg/gameserver/types"
)

// ErrBusy is returned when a run is requested while another run for the
// same Runner is still in flight.
var ErrBusy = errors.New("a test run is already executing")

// Runner evaluates a submission against a challenge's test cases, one
// case at a time in catalog order. Per-case failures are captured into
// the TestResult and never abort the loop: a buggy or malicious
// submission cannot crash the runner.
type Runner struct {
	sandbox   *sandbox.Sandbox
	executing atomic.Bool
}

// New constructs a Runner on top of the given sandbox.
func New(sb *sandbox.Sandbox) *Runner {
	return &Runner{sandbox: sb}
}

// IsExecuting reports whether a run is currently in flight.
func (r *Runner) IsExecuting() bool {
	return r.executing.Load()
}

// Run executes source against every test case of the challenge and
// returns one TestResult per case, preserving the challenge's order.
// Concurrent calls are rejected with ErrBusy; the executing flag is
// released exactly once even if a case fails internally.
func (r *Runner) Run(challenge types.Challenge, source string) ([]types.TestResult, error) {
	if !r.executing.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer r.executing.Store(false)

	results := make([]types.TestResult, 0, len(challenge.TestCases))
	for _, tc := range challenge.TestCases {
		execution := r.sandbox.Execute(source, tc.Input, tc.ExpectedOutput != nil)

		result := types.TestResult{
			TestCaseID:    tc.ID,
			Passed:        execution.Success && outputsEqual(execution.Output, tc.ExpectedOutput),
			ExecutionTime: execution.ExecutionTime,
			Error:         execution.Error,
			Hidden:        tc.IsHidden,
		}
		// Hidden cases count toward pass/fail but never reveal values.
		if !tc.IsHidden {
			result.ActualOutput = execution.Output
			result.ExpectedOutput = tc.ExpectedOutput
		}

		results = append(results, result)
	}

	return results, nil
}

// AllPassed reports whether every result in the list passed. An empty
// list does not count as a pass.
func AllPassed(results []types.TestResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// outputsEqual compares an interpreter export against a catalog value
// by deep equality. Numeric representations differ across the two
// worlds (the interpreter exports int64 for integral numbers, JSON
// decodes everything to float64), so numbers are normalized first.
func outputsEqual(actual, expected any) bool {
	return reflect.DeepEqual(normalize(actual), normalize(expected))
}

func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalize(item)
		}
		return out
	default:
		return value
	}
}
