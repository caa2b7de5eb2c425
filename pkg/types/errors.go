package types

import "errors"

// Standard error values. Callers branch with errors.Is; wrapped messages
// carry the field or operation that failed.
var (
	// ErrValidation reports a field-level contract violation (empty title,
	// progress outside 0-100, unknown severity or status). Raised before
	// any persistence side effect.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition reports a workflow helper invoked from a state
	// that does not support it. Direct status edits through Update are
	// never gated by the state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound reports a missing entity where the operation must
	// distinguish "missing" from "empty result". Finder operations return
	// a nil entity or empty slice instead.
	ErrNotFound = errors.New("entity not found")

	// ErrStore reports an underlying persistence failure. The enclosing
	// transaction is rolled back and the error is surfaced as-is.
	ErrStore = errors.New("store failure")

	// ErrUnknownLayer reports a layer name outside the twelve defined
	// layers.
	ErrUnknownLayer = errors.New("unknown layer")
)
