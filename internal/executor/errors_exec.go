package executor

import (
	stderrors "errors"

	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// valueError carries the exact value passed to the `error` keyword/builtin,
// grounded on jq's own error semantics: `try error({a:1}) catch .` must see
// the original object, not a stringified message, so it cannot be routed
// through the registry's string-only errors.Diagnostic.
type valueError struct {
	v   value.Value
	pos errors.Position
}

func (e *valueError) Error() string {
	if e.v.Kind() == value.KindString {
		return e.v.AsString()
	}
	s, err := value.ToJSON(e.v)
	if err != nil {
		return e.v.String()
	}
	return s
}

func raiseValue(pos errors.Position, v value.Value) error {
	return &valueError{v: v, pos: pos}
}

// breakSignal unwinds the call stack up to the matching `label $name`,
// implemented as a sentinel error rather than a control-flow channel so it
// composes with the push-style Emit callback used everywhere else.
type breakSignal struct{ name string }

func (b *breakSignal) Error() string { return "break $" + b.name }

// errStopFirst aborts a stream evaluation early once the first output has
// been captured, used by firstValue (reduce/foreach Init) and anywhere only
// the first result of a multi-output expression is wanted.
var errStopFirst = stderrors.New("executor: stop after first value")

// errorValue extracts the value a catch/optional block should see from err:
// the original raised value for `error`, the message string for any other
// Diagnostic, and the raw Go error text as a last resort.
func errorValue(err error) value.Value {
	var ve *valueError
	if stderrors.As(err, &ve) {
		return ve.v
	}
	var d *errors.Diagnostic
	if stderrors.As(err, &d) {
		return value.String(d.Message)
	}
	return value.String(err.Error())
}

// isCatchable reports whether try/catch (and the `?` postfix, which uses the
// same gate) may capture err instead of propagating it.
func isCatchable(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*valueError); ok {
		return true
	}
	var d *errors.Diagnostic
	if stderrors.As(err, &d) {
		return d.Catchable()
	}
	return false
}

// isSuppressible reports whether the `?` postfix form specifically may
// swallow err, per spec §7's narrower set than try/catch.
func isSuppressible(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*valueError); ok {
		return true
	}
	var d *errors.Diagnostic
	if stderrors.As(err, &d) {
		return d.Suppressible()
	}
	return false
}
