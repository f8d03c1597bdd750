package guestmem_test

import (
	"testing"

	"github.com/calvinalkan/cheatfind/pkg/guestmem"
)

func TestFakeMemory_ReadWrite_Roundtrip(t *testing.T) {
	t.Parallel()

	mem := guestmem.NewFakeMemory(64, 64)

	if !mem.WriteAt(0x80000010, []byte{0xDE, 0xAD, 0xBE, 0xEF}, 4, guestmem.Data) {
		t.Fatal("WriteAt failed")
	}

	dst := make([]byte, 4)
	if !mem.ReadAt(dst, 0x80000010, 4, guestmem.Data) {
		t.Fatal("ReadAt failed")
	}

	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, dst[i], want[i])
		}
	}
}

func TestFakeMemory_ReadAt_OutOfRange(t *testing.T) {
	t.Parallel()

	mem := guestmem.NewFakeMemory(64, 0)
	dst := make([]byte, 4)

	if mem.ReadAt(dst, 0x80000040, 4, guestmem.Data) {
		t.Fatal("expected failure reading past the end of main RAM")
	}

	if mem.ReadAt(dst, 0x10000000, 4, guestmem.Data) {
		t.Fatal("expected failure reading unmapped extended RAM")
	}
}

func TestFakeMemory_IsRangeValid(t *testing.T) {
	t.Parallel()

	mem := guestmem.NewFakeMemory(64, 64)

	if !mem.IsRangeValid(0x00000000, 4, guestmem.Data) {
		t.Fatal("expected physical main RAM start to be valid")
	}

	if mem.IsRangeValid(0x00000000, 0, guestmem.Data) {
		t.Fatal("size 0 must never be valid")
	}

	if mem.IsRangeValid(0x0000003E, 4, guestmem.Data) {
		t.Fatal("read overrunning the region end must be invalid")
	}
}

func TestFakeMemory_NotInitialized(t *testing.T) {
	t.Parallel()

	mem := guestmem.NewFakeMemory(64, 64)
	mem.SetInitialized(false)

	if mem.IsInitialized() {
		t.Fatal("expected IsInitialized to report false")
	}

	dst := make([]byte, 4)
	if mem.ReadAt(dst, 0, 4, guestmem.Data) {
		t.Fatal("ReadAt must fail when uninitialized")
	}
}

func TestFakeMemory_AllFourCandidateRanges(t *testing.T) {
	t.Parallel()

	mem := guestmem.NewFakeMemory(64, 32)
	ranges := guestmem.CandidateRanges(mem)

	want := [4]guestmem.CandidateRange{
		{Base: 0x00000000, Size: 64},
		{Base: 0x10000000, Size: 32},
		{Base: 0x80000000, Size: 64},
		{Base: 0x90000000, Size: 32},
	}

	if ranges != want {
		t.Fatalf("got %+v want %+v", ranges, want)
	}
}
