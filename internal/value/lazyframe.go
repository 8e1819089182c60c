package value

// LazyFrame defers frame construction until Collect is called, letting the
// compiler's pushdown passes rewrite the pending operations (projection,
// predicate) before any column is materialized. It holds a thunk rather than
// an operation list itself: the compiler/executor package is responsible for
// building that thunk from a lowered plan, so this package stays free of any
// dependency on the compiler.
type LazyFrame struct {
	// Source, if set, is an already-resident Frame this LazyFrame defers
	// over without modification — the trivial "not actually lazy yet" case
	// produced by wrapping a literal frame in `.lazy`.
	source *Frame

	collect func() (*Frame, error)

	// Description is a short human-readable summary of the pending
	// operation chain, surfaced by the `explain` builtin.
	Description string
}

// NewLazyFrame wraps an already-built Frame with no pending operations.
func NewLazyFrame(f *Frame) *LazyFrame {
	return &LazyFrame{source: f, Description: "scan"}
}

// NewDeferredLazyFrame builds a LazyFrame whose materialization is supplied
// by collect, annotated with a description for `explain`.
func NewDeferredLazyFrame(description string, collect func() (*Frame, error)) *LazyFrame {
	return &LazyFrame{collect: collect, Description: description}
}

// Collect materializes the LazyFrame into a concrete Frame, running any
// deferred computation exactly once and caching the result.
func (lf *LazyFrame) Collect() (*Frame, error) {
	if lf.source != nil {
		return lf.source, nil
	}
	f, err := lf.collect()
	if err != nil {
		return nil, err
	}
	lf.source = f
	lf.collect = nil
	return f, nil
}

// Explain returns the description of the pending operation chain without
// forcing materialization.
func (lf *LazyFrame) Explain() string {
	return lf.Description
}
