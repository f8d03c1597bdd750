// Package cheattree implements the CheatEntryTree: an in-memory,
// insertion-ordered tree of pinned cheat entries keyed by an opaque id.
//
// The original source reuses raw pointer values as entry handles, stored in
// two hash maps (entries, and a parent→children multimap). This port uses a
// monotonic uint64 id plus a map keyed by id for entries, and a parallel
// map from parent id to an ordered slice of child ids, keeping the
// parent→children relation queryable in O(children of parent).
package cheattree
