package valuecodec

import (
	"encoding/binary"
	"strconv"

	"github.com/calvinalkan/cheatfind/pkg/guestmem"
)

// TypeSize returns the width in bytes of t: {1,2,4,8} for the sized
// variants, 0 for Unspecified.
func TypeSize(t MemoryItemType) uint32 {
	switch t {
	case TypeU8:
		return 1
	case TypeU16:
		return 2
	case TypeU32:
		return 4
	case TypeU64:
		return 8
	default:
		return 0
	}
}

// TypeAlignment returns the required address alignment for t. Every
// current type reports 1: the original source reserves this hook for
// native alignment (u16/u32/u64 aligned to their size) but never enables
// it, and this port preserves that — see SPEC_FULL.md's Open Questions.
func TypeAlignment(t MemoryItemType) uint32 {
	_ = t
	return 1
}

// MakeZero returns the zero value of the requested variant (Unspecified{0}
// for an invalid type).
func MakeZero(t MemoryItemType) MemoryItem {
	switch t {
	case TypeU8:
		return U8(0)
	case TypeU16:
		return U16(0)
	case TypeU32:
		return U32(0)
	case TypeU64:
		return U64(0)
	default:
		return Unspecified(0)
	}
}

// Format renders item as decimal text, or reports ok=false for an
// Unspecified item.
func Format(item MemoryItem) (text string, ok bool) {
	if !item.IsValid() {
		return "", false
	}

	return strconv.FormatUint(item.Uint64(), 10), true
}

// Parse decodes text as an unsigned decimal integer of type t. It returns
// Unspecified if text is empty, not fully consumed, or out of range for t.
func Parse(text string, t MemoryItemType) MemoryItem {
	size := TypeSize(t)
	if size == 0 || text == "" {
		return Unspecified(size)
	}

	v, err := strconv.ParseUint(text, 10, int(size)*8)
	if err != nil {
		return Unspecified(size)
	}

	switch t {
	case TypeU8:
		return U8(uint8(v))
	case TypeU16:
		return U16(uint16(v))
	case TypeU32:
		return U32(uint32(v))
	case TypeU64:
		return U64(v)
	default:
		return Unspecified(size)
	}
}

// Read copies TypeSize(t) bytes from mem at addr and byte-swaps them from
// guest big-endian to host native order. It returns Unspecified on any
// failure: invalid type, uninitialized memory, or a failed guest read.
func Read(mem guestmem.Memory, addr uint32, t MemoryItemType) MemoryItem {
	size := TypeSize(t)
	if size == 0 {
		return Unspecified(0)
	}

	if !mem.IsInitialized() {
		return Unspecified(size)
	}

	buf := make([]byte, size)
	if !mem.ReadAt(buf, addr, size, guestmem.Data) {
		return Unspecified(size)
	}

	switch t {
	case TypeU8:
		return U8(buf[0])
	case TypeU16:
		return U16(binary.BigEndian.Uint16(buf))
	case TypeU32:
		return U32(binary.BigEndian.Uint32(buf))
	case TypeU64:
		return U64(binary.BigEndian.Uint64(buf))
	default:
		return Unspecified(size)
	}
}

// Write byte-swaps item to guest big-endian and writes it through mem. It
// fails (returns false) if item is Unspecified or mem rejects the write.
func Write(mem guestmem.Memory, addr uint32, item MemoryItem) bool {
	if !item.IsValid() {
		return false
	}

	if !mem.IsInitialized() {
		return false
	}

	size := TypeSize(item.Type())
	buf := make([]byte, size)

	switch item.Type() {
	case TypeU8:
		buf[0] = uint8(item.Uint64())
	case TypeU16:
		binary.BigEndian.PutUint16(buf, uint16(item.Uint64()))
	case TypeU32:
		binary.BigEndian.PutUint32(buf, uint32(item.Uint64()))
	case TypeU64:
		binary.BigEndian.PutUint64(buf, item.Uint64())
	default:
		return false
	}

	return mem.WriteAt(addr, buf, size, guestmem.Data)
}
