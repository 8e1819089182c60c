package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a Diagnostic according to the taxonomy fixed by the
// language spec's error handling design: parser/compiler failures are
// static, the rest are raised while a plan runs.
type Kind string

const (
	KindParseError        Kind = "ParseError"
	KindCompileError      Kind = "CompileError"
	KindTypeError         Kind = "TypeError"
	KindValueError        Kind = "ValueError"
	KindKeyError          Kind = "KeyError"
	KindRuntimeError      Kind = "RuntimeError"
	KindRecursionLimit    Kind = "RecursionLimitError"
	KindMemoryLimit       Kind = "MemoryLimitError"
	KindCancelled         Kind = "CancelledError"
	KindUnknownFunction   Kind = "UnknownFunction"
	KindArityMismatch     Kind = "ArityMismatch"
	KindInvalidAssignTgt  Kind = "InvalidAssignmentTarget"
	KindBreakOutsideLabel Kind = "BreakOutsideLabel"
	KindUndefinedVariable Kind = "UndefinedVariable"
)

// Fatal reports whether a caught error of this kind must always abort the
// enclosing query, even inside try/catch, per the propagation rules in
// spec §7.
func (k Kind) Fatal() bool {
	return k == KindRecursionLimit || k == KindCancelled
}

// Diagnostic is the single error type produced anywhere in the engine: by
// the lexer, the parser, the compiler, or the executor. Source is kept so
// Format can render a caret under the offending column, mirroring
// CompilerError.Format in the teacher project.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     Position
	Source  string
	// Class further narrows a ParseError (UnexpectedToken, UnterminatedString,
	// UnknownEscape, InvalidNumber, TrailingInput, UnclosedBracket) or a
	// CompileError (InvalidAssignmentTarget), and is empty for kinds that
	// don't need it.
	Class string
}

// New builds a Diagnostic of the given kind at the given position.
func New(kind Kind, pos Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WithClass attaches an error class (see Diagnostic.Class) and returns the
// receiver for chaining.
func (d *Diagnostic) WithClass(class string) *Diagnostic {
	d.Class = class
	return d
}

// WithSource attaches the originating source text, enabling Format to print
// a source line and caret.
func (d *Diagnostic) WithSource(src string) *Diagnostic {
	d.Source = src
	return d
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic with an optional ANSI-colored caret pointing
// at the offending column, the same two-mode contract as
// CompilerError.Format in the teacher project.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.Pos.IsZero() {
		sb.WriteString(fmt.Sprintf("%s: %s", d.Kind, d.Message))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%s at %s: %s\n", d.Kind, d.Pos, d.Message))

	line := sourceLine(d.Source, d.Pos.Line)
	if line == "" {
		return strings.TrimRight(sb.String(), "\n")
	}

	prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteString("\n")

	col := d.Pos.Column - 1
	if col < 0 {
		col = 0
	}
	sb.WriteString(strings.Repeat(" ", len(prefix)+col))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Is reports whether err is a *Diagnostic of the given kind, unwrapping
// through errors.Is-compatible wrapping.
func Is(err error, kind Kind) bool {
	var d *Diagnostic
	return stderrors.As(err, &d) && d.Kind == kind
}

// ParseError constructs a Kind-tagged parse diagnostic.
func ParseError(pos Position, class, format string, args ...any) *Diagnostic {
	return New(KindParseError, pos, format, args...).WithClass(class)
}

// CompileError constructs a compile-time diagnostic.
func CompileError(pos Position, format string, args ...any) *Diagnostic {
	return New(KindCompileError, pos, format, args...)
}

// UnknownFunction reports a call site with no matching user or built-in
// function of the given name/arity.
func UnknownFunction(pos Position, name string, arity int) *Diagnostic {
	d := New(KindCompileError, pos, "unknown function %s/%d", name, arity)
	d.Class = string(KindUnknownFunction)
	return d
}

// ArityMismatch reports a call site whose argument count doesn't match any
// overload of the named function.
func ArityMismatch(pos Position, name string, got int, want string) *Diagnostic {
	d := New(KindCompileError, pos, "%s/%d: wrong number of arguments, expected %s", name, got, want)
	d.Class = string(KindArityMismatch)
	return d
}

// TypeErrorf builds a runtime TypeError.
func TypeErrorf(pos Position, format string, args ...any) *Diagnostic {
	return New(KindTypeError, pos, format, args...)
}

// ValueErrorf builds a runtime ValueError.
func ValueErrorf(pos Position, format string, args ...any) *Diagnostic {
	return New(KindValueError, pos, format, args...)
}

// KeyErrorf builds a runtime KeyError.
func KeyErrorf(pos Position, format string, args ...any) *Diagnostic {
	return New(KindKeyError, pos, format, args...)
}

// RuntimeErrorf wraps an underlying backend failure (typically from the
// tabular backend) as a RuntimeError.
func RuntimeErrorf(pos Position, format string, args ...any) *Diagnostic {
	return New(KindRuntimeError, pos, format, args...)
}

// RecursionLimit builds the fatal RecursionLimitError.
func RecursionLimit(pos Position, depth int) *Diagnostic {
	return New(KindRecursionLimit, pos, "recursion limit exceeded (depth %d)", depth)
}

// MemoryLimit builds a MemoryLimitError for strict-mode memory caps.
func MemoryLimit(pos Position, limit int64) *Diagnostic {
	return New(KindMemoryLimit, pos, "memory limit of %d bytes exceeded", limit)
}

// Cancelled builds the fatal CancelledError.
func Cancelled(pos Position) *Diagnostic {
	return New(KindCancelled, pos, "query cancelled")
}

// Suppressible reports whether the `?` postfix operator may swallow this
// diagnostic, producing an empty stream instead of propagating it.
func (d *Diagnostic) Suppressible() bool {
	switch d.Kind {
	case KindTypeError, KindKeyError, KindValueError:
		return true
	default:
		return false
	}
}

// Catchable reports whether a try/catch form may capture this diagnostic.
// RecursionLimitError and CancelledError are always fatal per spec §7.
func (d *Diagnostic) Catchable() bool {
	return !d.Kind.Fatal()
}
