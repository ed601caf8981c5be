package sandbox

import (
	"errors"
	"fmt"
	"time"

	"github.com/codequest-gg/gameserver/types"
	"github.com/dop251/goja"
)

// DefaultTimeout is the wall-clock budget for a single invocation when
// the config does not override it.
const DefaultTimeout = 2 * time.Second

// UndefinedReturnError is the targeted hint surfaced when a submission
// returns undefined while the test case expects a defined value.
const UndefinedReturnError = "function returned undefined: did you forget to return a value instead of printing it?"

// Sandbox evaluates user-submitted JavaScript source text and invokes
// the resulting function with concrete arguments. Each invocation runs
// in a fresh interpreter with no access to ambient state beyond
// language builtins, and is bounded by a hard wall-clock deadline.
//
// Execute never propagates an error to the caller: every failure mode
// (syntax error, non-callable source, thrown exception, timeout) is
// converted into an ExecutionResult with Success=false.
type Sandbox struct {
	timeout time.Duration
}

// New constructs a Sandbox with the given per-invocation deadline.
// A non-positive timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *Sandbox {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sandbox{timeout: timeout}
}

// Execute compiles source into a callable and invokes it with args
// spread positionally. expectDefined tells the sandbox that the caller
// expects a defined return value, enabling the undefined-return hint.
func (s *Sandbox) Execute(source string, args []any, expectDefined bool) types.ExecutionResult {
	start := time.Now()
	result := s.run(source, args, expectDefined)
	result.ExecutionTime = float64(time.Since(start).Microseconds()) / 1000.0
	return result
}

func (s *Sandbox) run(source string, args []any, expectDefined bool) types.ExecutionResult {
	vm := goja.New()
	installConsole(vm)

	// The interrupt fires on the VM regardless of whether it is still
	// compiling or already inside user code.
	timer := time.AfterFunc(s.timeout, func() {
		vm.Interrupt("deadline exceeded")
	})
	defer timer.Stop()

	// Wrapping in parentheses turns a top-level function declaration
	// into an expression whose completion value is the function itself,
	// matching the catalog's starter-code shape.
	value, err := vm.RunString("(" + source + "\n)")
	if err != nil {
		return failure(s.describe(err))
	}

	fn, ok := goja.AssertFunction(value)
	if !ok {
		return failure("code must define a function")
	}

	callArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		callArgs[i] = vm.ToValue(arg)
	}

	returned, err := fn(goja.Undefined(), callArgs...)
	if err != nil {
		return failure(s.describe(err))
	}

	if expectDefined && goja.IsUndefined(returned) {
		return failure(UndefinedReturnError)
	}

	return types.ExecutionResult{
		Success: true,
		Output:  returned.Export(),
	}
}

func (s *Sandbox) describe(err error) string {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Sprintf("execution timed out after %s", s.timeout)
	}
	var exception *goja.Exception
	if errors.As(err, &exception) {
		return exception.Value().String()
	}
	return err.Error()
}

func failure(message string) types.ExecutionResult {
	return types.ExecutionResult{
		Success: false,
		Output:  nil,
		Error:   message,
	}
}

// installConsole provides a no-op console so print-style submissions
// run to completion and reach the undefined-return hint instead of
// dying on a ReferenceError.
func installConsole(vm *goja.Runtime) {
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }
	console := vm.NewObject()
	_ = console.Set("log", noop)
	_ = console.Set("info", noop)
	_ = console.Set("warn", noop)
	_ = console.Set("error", noop)
	_ = vm.Set("console", console)
}
