package guestmem

// Translation selects the address space a guest access goes through.
// The cheat-search core always passes Data; Instruction exists because the
// real console distinguishes the two and callers outside this core may care.
type Translation uint8

const (
	Data Translation = iota
	Instruction
)

// Memory is the minimal guest-RAM abstraction the cheat-search core
// consumes. Implementations must be safe for concurrent use: the Finder
// reads through it from a background worker while the foreground thread may
// be reading through it too (e.g. CheatEntryTree's lock loop).
type Memory interface {
	// IsInitialized reports whether the memory subsystem is ready to serve
	// reads and writes at all.
	IsInitialized() bool

	// IsRangeValid reports whether size bytes starting at addr are mapped
	// and accessible under translation.
	IsRangeValid(addr uint32, size uint32, translation Translation) bool

	// ReadAt copies size bytes from addr into dst[:size] and reports
	// success. dst must have length >= size.
	ReadAt(dst []byte, addr uint32, size uint32, translation Translation) bool

	// WriteAt writes size bytes from src[:size] to addr and reports
	// success. src must have length >= size.
	WriteAt(addr uint32, src []byte, size uint32, translation Translation) bool

	// Sizes reports the byte sizes of the candidate RAM regions this
	// implementation backs: REALRAM_SIZE and EXRAM_SIZE. A region with
	// size 0 is treated as unmapped by CandidateRanges.
	Sizes() (realRAMSize, exRAMSize uint32)
}

// Candidate memory base addresses, fixed per spec.
const (
	physicalScanBase uint32 = 0x00000000
	logicalScanBase  uint32 = 0x80000000
	realRAMOffset    uint32 = 0x00000000
	exRAMOffset      uint32 = 0x10000000
)

// CandidateRange is one of the four fixed (base, size) pairs spanning
// physical and logical views of main and extended guest RAM.
type CandidateRange struct {
	Base uint32
	Size uint32
}

// CandidateRanges returns the four fixed candidate ranges for mem, in a
// stable order: physical main RAM, physical extended RAM, logical main RAM,
// logical extended RAM.
func CandidateRanges(mem Memory) [4]CandidateRange {
	realSize, exSize := mem.Sizes()

	return [4]CandidateRange{
		{Base: physicalScanBase + realRAMOffset, Size: realSize},
		{Base: physicalScanBase + exRAMOffset, Size: exSize},
		{Base: logicalScanBase + realRAMOffset, Size: realSize},
		{Base: logicalScanBase + exRAMOffset, Size: exSize},
	}
}
