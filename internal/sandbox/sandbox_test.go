package sandbox

import (
	"strings"
	"testing"
	"time"
)

func TestExecuteReturnsValue(t *testing.T) {
	s := New(0)

	result := s.Execute("function addNumbers(a, b) { return a + b }", []any{2, 3}, true)
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if got, ok := result.Output.(int64); !ok || got != 5 {
		t.Fatalf("expected output 5, got %#v", result.Output)
	}
	if result.ExecutionTime < 0 {
		t.Fatalf("expected non-negative execution time, got %v", result.ExecutionTime)
	}
}

func TestExecuteArgumentsSpreadPositionally(t *testing.T) {
	s := New(0)

	result := s.Execute("function pick(a, b, c) { return c }", []any{"x", "y", "z"}, true)
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Output != "z" {
		t.Fatalf("expected %q, got %#v", "z", result.Output)
	}
}

func TestExecuteNonCallableSource(t *testing.T) {
	s := New(0)

	result := s.Execute("42", nil, true)
	if result.Success {
		t.Fatal("expected failure for non-callable source")
	}
	if result.Error != "code must define a function" {
		t.Fatalf("unexpected error: %q", result.Error)
	}
	if result.Output != nil {
		t.Fatalf("expected nil output, got %#v", result.Output)
	}
}

func TestExecuteSyntaxError(t *testing.T) {
	s := New(0)

	result := s.Execute("function broken( {", nil, true)
	if result.Success {
		t.Fatal("expected failure for invalid syntax")
	}
	if result.Error == "" {
		t.Fatal("expected error message for invalid syntax")
	}
}

func TestExecuteThrownError(t *testing.T) {
	s := New(0)

	result := s.Execute(`function boom() { throw new Error("kaboom") }`, nil, true)
	if result.Success {
		t.Fatal("expected failure for thrown error")
	}
	if !strings.Contains(result.Error, "kaboom") {
		t.Fatalf("expected thrown message in error, got %q", result.Error)
	}
}

func TestExecuteUndefinedReturnHint(t *testing.T) {
	s := New(0)

	result := s.Execute("function addNumbers(a, b) { console.log(a + b) }", []any{2, 3}, true)
	if result.Success {
		t.Fatal("expected failure for undefined return")
	}
	if !strings.Contains(result.Error, "undefined") {
		t.Fatalf("expected undefined hint, got %q", result.Error)
	}
}

func TestExecuteUndefinedAllowedWhenNotExpected(t *testing.T) {
	s := New(0)

	result := s.Execute("function noop() {}", nil, false)
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Output != nil {
		t.Fatalf("expected nil output for undefined, got %#v", result.Output)
	}
}

func TestExecuteInfiniteLoopTimesOut(t *testing.T) {
	s := New(50 * time.Millisecond)

	start := time.Now()
	result := s.Execute("function spin() { while (true) {} }", nil, true)
	if result.Success {
		t.Fatal("expected failure for infinite loop")
	}
	if !strings.Contains(result.Error, "timed out") {
		t.Fatalf("expected timeout error, got %q", result.Error)
	}
	if result.ExecutionTime <= 0 {
		t.Fatalf("expected elapsed time to be reported, got %v", result.ExecutionTime)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
}

func TestExecuteIsolatedBetweenRuns(t *testing.T) {
	s := New(0)

	first := s.Execute("function set() { globalThis.leak = 1; return 1 }", nil, true)
	if !first.Success {
		t.Fatalf("setup run failed: %q", first.Error)
	}

	second := s.Execute("function get() { return typeof globalThis.leak }", nil, true)
	if !second.Success {
		t.Fatalf("probe run failed: %q", second.Error)
	}
	if second.Output != "undefined" {
		t.Fatalf("expected fresh VM per run, leaked value visible: %#v", second.Output)
	}
}
