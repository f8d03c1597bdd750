package guestmem

import "sync"

// FakeMemory is a deterministic, in-process [Memory] backed by a flat byte
// arena split into two candidate regions (main RAM and extended RAM, each
// addressable through a physical and a logical base). It is the memory used
// by every test in this module and is grounded directly on the fixture
// described in the original source's test plan: "64 bytes, all-zero,
// big-endian".
type FakeMemory struct {
	mu          sync.RWMutex
	realRAM     []byte
	exRAM       []byte
	initialized bool
}

// NewFakeMemory returns an initialized FakeMemory with realRAMSize bytes of
// main RAM and exRAMSize bytes of extended RAM, all zeroed.
func NewFakeMemory(realRAMSize, exRAMSize uint32) *FakeMemory {
	return &FakeMemory{
		realRAM:     make([]byte, realRAMSize),
		exRAM:       make([]byte, exRAMSize),
		initialized: true,
	}
}

// SetInitialized forces the initialized state, for tests exercising
// Finder's ErrMemoryNotInitialized path.
func (m *FakeMemory) SetInitialized(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.initialized = v
}

func (m *FakeMemory) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.initialized
}

// regionFor resolves addr to one of the four candidate bases and returns
// the backing slice plus the offset within it, or ok=false if addr does not
// fall in any candidate region.
func (m *FakeMemory) regionFor(addr uint32) (region []byte, offset uint32, ok bool) {
	for _, r := range CandidateRanges(m) {
		if r.Size == 0 {
			continue
		}

		if addr < r.Base || addr-r.Base >= r.Size {
			continue
		}

		offset = addr - r.Base
		if r.Base == physicalScanBase+realRAMOffset || r.Base == logicalScanBase+realRAMOffset {
			return m.realRAM, offset, true
		}

		return m.exRAM, offset, true
	}

	return nil, 0, false
}

func (m *FakeMemory) IsRangeValid(addr uint32, size uint32, _ Translation) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if size == 0 {
		return false
	}

	region, offset, ok := m.regionFor(addr)
	if !ok {
		return false
	}

	end := uint64(offset) + uint64(size)

	return end <= uint64(len(region))
}

func (m *FakeMemory) ReadAt(dst []byte, addr uint32, size uint32, _ Translation) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized || uint32(len(dst)) < size {
		return false
	}

	region, offset, ok := m.regionFor(addr)
	if !ok || uint64(offset)+uint64(size) > uint64(len(region)) {
		return false
	}

	copy(dst[:size], region[offset:offset+size])

	return true
}

func (m *FakeMemory) WriteAt(addr uint32, src []byte, size uint32, _ Translation) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized || uint32(len(src)) < size {
		return false
	}

	region, offset, ok := m.regionFor(addr)
	if !ok || uint64(offset)+uint64(size) > uint64(len(region)) {
		return false
	}

	copy(region[offset:offset+size], src[:size])

	return true
}

func (m *FakeMemory) Sizes() (realRAMSize, exRAMSize uint32) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return uint32(len(m.realRAM)), uint32(len(m.exRAM))
}

// Poke writes raw bytes directly at addr, bypassing translation checks, for
// test setup. It panics if addr/len(data) falls outside both regions.
func (m *FakeMemory) Poke(addr uint32, data []byte) {
	if !m.WriteAt(addr, data, uint32(len(data)), Data) {
		panic("guestmem: Poke out of range")
	}
}
