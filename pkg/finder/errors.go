package finder

import "errors"

// Sentinel errors returned by Search. Callers should use errors.Is.
var (
	// ErrInvalidValue reports a search item that is not fully specified
	// (wrong type, or a value that does not fit the type's width).
	ErrInvalidValue = errors.New("finder: invalid search value")

	// ErrMismatchedValueType reports a refinement search whose value type
	// does not match the type of the existing result set.
	ErrMismatchedValueType = errors.New("finder: value type does not match existing results")

	// ErrMemoryNotInitialized reports that the backing guest memory has no
	// running session attached.
	ErrMemoryNotInitialized = errors.New("finder: memory is not initialized")

	// ErrUnknownValueSize reports a search item whose type has no known
	// byte width.
	ErrUnknownValueSize = errors.New("finder: unknown value size")

	// ErrNoValidMemoryRanges reports that none of the candidate memory
	// regions are currently mapped and large enough for the value's size.
	ErrNoValidMemoryRanges = errors.New("finder: no valid memory ranges to search")

	// ErrSearchInProgress reports that a scan is already running and has
	// not yet been collected by NewResults.
	ErrSearchInProgress = errors.New("finder: a search is already in progress")
)
