// Package valuecodec converts between typed primitive memory values, their
// decimal text form, and big-endian guest bytes.
//
// MemoryItem stands in for the tagged union {Unspecified, U8, U16, U32,
// U64} described by the cheat-search data model: Unspecified is the
// absent/invalid value and carries an optional width so a scan can still
// skip addresses that don't leave room for any typed read.
package valuecodec
