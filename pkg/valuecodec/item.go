package valuecodec

// MemoryItemType enumerates the variants of MemoryItem. Its ordinal equals
// the variant index of MemoryItem, by construction: conversion between the
// two is direct.
type MemoryItemType uint8

const (
	TypeUnspecified MemoryItemType = iota
	TypeU8
	TypeU16
	TypeU32
	TypeU64
)

var typeNames = [...]string{
	TypeUnspecified: "Unspecified",
	TypeU8:          "Byte",
	TypeU16:         "Short",
	TypeU32:         "Long",
	TypeU64:         "Quad",
}

var friendlyTypeNames = [...]string{
	TypeUnspecified: "Unspecified",
	TypeU8:          "Byte (8 bit)",
	TypeU16:         "Short (16 bit)",
	TypeU32:         "Long (32 bit)",
	TypeU64:         "Quad (64 bit)",
}

// IsValid reports whether t is one of the sized variants (not Unspecified,
// and in range).
func (t MemoryItemType) IsValid() bool {
	return t > TypeUnspecified && int(t) < len(typeNames)
}

// Name returns the short type name ("Byte", "Short", ...), or "" if t is
// not valid.
func (t MemoryItemType) Name() string {
	if !t.IsValid() {
		return ""
	}

	return typeNames[t]
}

// FriendlyName returns the human-readable type name ("Byte (8 bit)", ...),
// or "" if t is not valid.
func (t MemoryItemType) FriendlyName() string {
	if !t.IsValid() {
		return ""
	}

	return friendlyTypeNames[t]
}

// TypeForName resolves a (case-insensitive) type name to a MemoryItemType,
// or TypeUnspecified if name matches none.
func TypeForName(name string) MemoryItemType {
	for t, n := range typeNames {
		if MemoryItemType(t) == TypeUnspecified {
			continue
		}

		if equalFold(n, name) {
			return MemoryItemType(t)
		}
	}

	return TypeUnspecified
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}

		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}

		if ca != cb {
			return false
		}
	}

	return true
}

// MemoryItem is the tagged union over {Unspecified, U8, U16, U32, U64}. The
// zero value is Unspecified with size 0.
type MemoryItem struct {
	typ   MemoryItemType
	value uint64
	size  uint32 // only meaningful when typ == TypeUnspecified
}

// Unspecified returns the absent/invalid value, recording size as the
// number of bytes that were considered (so a scan can still skip addresses
// too close to a range's end).
func Unspecified(size uint32) MemoryItem {
	return MemoryItem{typ: TypeUnspecified, size: size}
}

// U8, U16, U32, and U64 construct sized MemoryItems carrying a
// native-endian unsigned value.
func U8(v uint8) MemoryItem   { return MemoryItem{typ: TypeU8, value: uint64(v)} }
func U16(v uint16) MemoryItem { return MemoryItem{typ: TypeU16, value: uint64(v)} }
func U32(v uint32) MemoryItem { return MemoryItem{typ: TypeU32, value: uint64(v)} }
func U64(v uint64) MemoryItem { return MemoryItem{typ: TypeU64, value: v} }

// Type returns the item's variant.
func (m MemoryItem) Type() MemoryItemType { return m.typ }

// IsValid reports whether m holds a sized value (not Unspecified).
func (m MemoryItem) IsValid() bool { return m.typ != TypeUnspecified }

// Uint64 returns the native-endian value for a sized item, and 0 for
// Unspecified.
func (m MemoryItem) Uint64() uint64 { return m.value }

// Size returns the width recorded on an Unspecified item.
func (m MemoryItem) Size() uint32 { return m.size }

// Equal reports whether m and other hold the same variant and value.
func (m MemoryItem) Equal(other MemoryItem) bool {
	if m.typ != other.typ {
		return false
	}

	if m.typ == TypeUnspecified {
		return m.size == other.size
	}

	return m.value == other.value
}
