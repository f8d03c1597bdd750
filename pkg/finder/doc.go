// Package finder implements the background memory scanner: a single search
// runs on its own goroutine against a guestmem.Memory, and the foreground
// collects results by polling NewResults.
//
// A Finder holds at most one outstanding scan at a time. A fresh scan (no
// existing results) walks every aligned candidate address; a refinement
// scan (existing results present) re-reads only the addresses already held
// and keeps the ones still matching. Both modes share one worker loop.
package finder
