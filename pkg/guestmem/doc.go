// Package guestmem defines the minimal memory abstraction the cheat-search
// core consumes: a guest machine's addressable RAM, read and written through
// a translation mode.
//
// The real console's memory subsystem is an external collaborator; this
// package only ships two implementations used for demos and tests, never the
// production one: [FakeMemory] (deterministic, in-process) and [RealMemory]
// (an anonymous-mmap arena sized like real console RAM, for benchmarks).
package guestmem
