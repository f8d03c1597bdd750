package guestmem

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// RealMemory backs the candidate RAM regions with anonymously-mmap'd
// arenas, the way the real console's memory subsystem backs guest RAM with
// a dedicated address range rather than a heap-allocated slice. It exists
// for cmd/cheatfind's benchmark mode, where "tens of millions of typed
// reads" (see Finder) need a RAM-scale backing store; it is scaffolding,
// not a reimplementation of an emulator's memory subsystem.
type RealMemory struct {
	mu      sync.RWMutex
	realRAM []byte
	exRAM   []byte
	closed  bool
}

// NewRealMemory mmaps two anonymous, zero-filled arenas of the given sizes.
func NewRealMemory(realRAMSize, exRAMSize uint32) (*RealMemory, error) {
	realRAM, err := mmapAnon(int(realRAMSize))
	if err != nil {
		return nil, fmt.Errorf("guestmem: mmap real RAM: %w", err)
	}

	exRAM, err := mmapAnon(int(exRAMSize))
	if err != nil {
		_ = unix.Munmap(realRAM)
		return nil, fmt.Errorf("guestmem: mmap extended RAM: %w", err)
	}

	return &RealMemory{realRAM: realRAM, exRAM: exRAM}, nil
}

func mmapAnon(size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}

	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

// Close unmaps both arenas. After Close, all methods report failure.
func (m *RealMemory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true

	var firstErr error

	if m.realRAM != nil {
		if err := unix.Munmap(m.realRAM); err != nil {
			firstErr = err
		}

		m.realRAM = nil
	}

	if m.exRAM != nil {
		if err := unix.Munmap(m.exRAM); err != nil && firstErr == nil {
			firstErr = err
		}

		m.exRAM = nil
	}

	return firstErr
}

func (m *RealMemory) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return !m.closed
}

func (m *RealMemory) regionFor(addr uint32) (region []byte, offset uint32, ok bool) {
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

func (m *RealMemory) IsRangeValid(addr uint32, size uint32, _ Translation) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed || size == 0 {
		return false
	}

	region, offset, ok := m.regionFor(addr)
	if !ok {
		return false
	}

	return uint64(offset)+uint64(size) <= uint64(len(region))
}

func (m *RealMemory) ReadAt(dst []byte, addr uint32, size uint32, _ Translation) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed || uint32(len(dst)) < size {
		return false
	}

	region, offset, ok := m.regionFor(addr)
	if !ok || uint64(offset)+uint64(size) > uint64(len(region)) {
		return false
	}

	copy(dst[:size], region[offset:offset+size])

	return true
}

func (m *RealMemory) WriteAt(addr uint32, src []byte, size uint32, _ Translation) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || uint32(len(src)) < size {
		return false
	}

	region, offset, ok := m.regionFor(addr)
	if !ok || uint64(offset)+uint64(size) > uint64(len(region)) {
		return false
	}

	copy(region[offset:offset+size], src[:size])

	return true
}

func (m *RealMemory) Sizes() (realRAMSize, exRAMSize uint32) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return uint32(len(m.realRAM)), uint32(len(m.exRAM))
}
