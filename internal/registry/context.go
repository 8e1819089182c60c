package registry

import (
	"time"

	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// Context is the minimal surface a built-in needs from the executor,
// grounded on the teacher's builtins.Context interface: error construction
// with positional context, plus the handful of environment queries a jq
// standard library actually needs (`now`, `env`/`$ENV`, `input_line_number`).
// Keeping this interface narrow is what lets registry built-ins stay free of
// any import on the executor package.
type Context interface {
	// Errorf builds a Diagnostic of the given kind positioned at the call
	// currently executing.
	Errorf(kind errors.Kind, format string, args ...any) error

	// Now returns the current time, routed through the executor so a fixed
	// clock can be injected for reproducible snapshot tests.
	Now() time.Time

	// Env returns the process environment as a jq object, backing the `env`
	// built-in and `$ENV` variable.
	Env() *value.Object

	// Args returns the `$ARGS` object: the positional and named arguments
	// supplied on the command line.
	Args() value.Value
}

// Emit is the callback a built-in uses to produce each output value of its
// result stream. Simple single-output built-ins call it exactly once;
// streaming built-ins (range, splits, ..) may call it any number of times,
// including zero. Returning a non-nil error from Emit (e.g. because a
// downstream consumer short-circuited via `first`/`limit`) must abort the
// built-in immediately, propagating that error back out unwrapped.
type Emit func(value.Value) error

// BuiltinFunc is the signature for every simple registry-dispatched
// built-in: it receives the current input value and the already-evaluated
// (eager) argument values, and produces zero or more output values via
// emit.
type BuiltinFunc func(ctx Context, input value.Value, args []value.Value, emit Emit) error
