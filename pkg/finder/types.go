package finder

import "github.com/calvinalkan/cheatfind/pkg/valuecodec"

// SearchResult is one surviving address from a scan: its current value and
// the value it held before the most recent refinement (equal to Current for
// a result produced by a fresh scan).
type SearchResult struct {
	Address  uint32
	Current  valuecodec.MemoryItem
	Previous valuecodec.MemoryItem
}

// NewResultsFunc is invoked from the scanning goroutine once a scan has
// finished (cancelled or not) and handed its outcome to NewResults, before
// NewResults installs it; ClearResults also invokes it after emptying the
// result set. It receives no arguments; listeners call back into the
// Finder's accessors for details.
type NewResultsFunc func()

// SearchProgressFunc is invoked from the scanning goroutine at roughly 1%
// intervals of the search domain with a value in [0,100]. It must not call
// back into the Finder that is driving it.
type SearchProgressFunc func(percent int)
