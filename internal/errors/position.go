// Package errors defines the diagnostic taxonomy used throughout the filter
// engine: parse errors, compile errors, and the runtime error kinds raised by
// the executor. Every diagnostic carries the source position it originated
// from so that embeddings can render a line/column plus a caret, the way the
// teacher project's internal/errors package does for DWScript.
package errors

import "fmt"

// Position identifies a single point in source text. Columns and lines are
// 1-indexed; Offset is the 0-indexed byte offset, matching the convention
// used by the lexer.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String renders the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether the position was never set.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0 && p.Offset == 0
}
