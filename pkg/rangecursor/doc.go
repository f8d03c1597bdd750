// Package rangecursor provides a forward, randomly-subtractable cursor over
// a shared, immutable set of address ranges plus an alignment stride.
//
// It has no knowledge of guest memory or value types: callers (the Finder)
// are responsible for turning validated candidate memory regions into
// [Range] values — trimming each range's upper bound by a type's size minus
// one before construction, per the search domain being built.
package rangecursor
