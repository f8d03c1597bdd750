package finder_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/calvinalkan/cheatfind/pkg/finder"
	"github.com/calvinalkan/cheatfind/pkg/guestmem"
	"github.com/calvinalkan/cheatfind/pkg/valuecodec"
)

// expectedFreshCount computes the number of addresses a fresh U32(0) scan
// should visit and match against an all-zero memory: every byte offset in
// every candidate range that leaves room for a full 4-byte read (alignment
// is always 1, per valuecodec.TypeAlignment).
func expectedFreshCount(mem guestmem.Memory, size uint32) int {
	total := 0
	for _, cr := range guestmem.CandidateRanges(mem) {
		if cr.Size >= size {
			total += int(cr.Size-size) + 1
		}
	}
	return total
}

func newFake64() *guestmem.FakeMemory {
	return guestmem.NewFakeMemory(64, 64)
}

// TestSearch_Fresh_FindsEveryZeroAddress mirrors spec.md scenario 1: a
// fresh U32(0) search against all-zero memory matches every byte offset
// across all four candidate ranges.
func TestSearch_Fresh_FindsEveryZeroAddress(t *testing.T) {
	t.Parallel()

	mem := newFake64()
	f := finder.New(mem, nil)

	if err := f.Search(valuecodec.U32(0), nil); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !f.NewResults() {
		t.Fatal("expected NewResults to report a completed scan")
	}

	want := expectedFreshCount(mem, 4)
	if got := f.ResultCount(); got != want {
		t.Fatalf("ResultCount() = %d, want %d", got, want)
	}
}

// TestSearch_Fresh_ExcludesOverlappingNonZeroReads mirrors spec.md
// scenario 2: poking a 4-byte non-zero value excludes every byte offset
// whose 4-byte read window overlaps the poke, on top of the untouched
// baseline count.
func TestSearch_Fresh_ExcludesOverlappingNonZeroReads(t *testing.T) {
	t.Parallel()

	mem := newFake64()
	mem.Poke(0x80000010, []byte{0xDE, 0xAD, 0xBE, 0xEF})

	f := finder.New(mem, nil)

	if err := f.Search(valuecodec.U32(0), nil); err != nil {
		t.Fatalf("Search: %v", err)
	}
	f.NewResults()

	baseline := expectedFreshCount(mem, 4)

	// Both the physical and logical views of main RAM alias the same
	// backing bytes, so the same 7 overlapping offsets (0xD..0x13) are
	// excluded from each.
	excludedPerView := 7
	want := baseline - excludedPerView*2

	if got := f.ResultCount(); got != want {
		t.Fatalf("ResultCount() = %d, want %d", got, want)
	}

	for i := 0; i < f.ResultCount(); i++ {
		addr, _ := f.Address(i)
		if addr == 0x80000010 || addr == 0x10 {
			t.Fatalf("result %d: address %#x should have been excluded", i, addr)
		}
	}
}

// TestSearch_Refinement_NarrowsToExactMatch mirrors spec.md scenario 3: a
// fresh search over all-zero memory, followed by a poke and a refinement
// for the poked value, narrows to exactly the addresses whose current
// value now equals it. The poke happens between the two searches, so the
// refinement's domain (the fresh scan's full zero-match set) still
// contains the addresses it needs to re-check.
func TestSearch_Refinement_NarrowsToExactMatch(t *testing.T) {
	t.Parallel()

	mem := newFake64()

	f := finder.New(mem, nil)

	if err := f.Search(valuecodec.U32(0), nil); err != nil {
		t.Fatalf("first search: %v", err)
	}
	f.NewResults()

	mem.Poke(0x80000010, []byte{0xDE, 0xAD, 0xBE, 0xEF})

	if err := f.Search(valuecodec.U32(0xDEADBEEF), nil); err != nil {
		t.Fatalf("refinement search: %v", err)
	}
	f.NewResults()

	// Physical and logical main RAM alias the same bytes, so both
	// 0x10 and 0x80000010 survive the refinement.
	if got := f.ResultCount(); got != 2 {
		t.Fatalf("ResultCount() = %d, want 2", got)
	}

	sawLogical := false
	for i := 0; i < f.ResultCount(); i++ {
		addr, _ := f.Address(i)
		if addr != 0x10 && addr != 0x80000010 {
			t.Fatalf("unexpected surviving address %#x", addr)
		}
		if addr == 0x80000010 {
			sawLogical = true
		}
		if cur := f.CurrentItem(i); cur.Uint64() != 0xDEADBEEF {
			t.Fatalf("CurrentItem(%d) = %#x, want 0xDEADBEEF", i, cur.Uint64())
		}
	}
	if !sawLogical {
		t.Fatal("expected 0x80000010 to survive the refinement")
	}
}

func TestSearch_MismatchedValueType(t *testing.T) {
	t.Parallel()

	mem := newFake64()
	f := finder.New(mem, nil)

	if err := f.Search(valuecodec.U32(0), nil); err != nil {
		t.Fatalf("first search: %v", err)
	}
	f.NewResults()

	err := f.Search(valuecodec.U16(0), nil)
	if err == nil || !errors.Is(err, finder.ErrMismatchedValueType) {
		t.Fatalf("Search() = %v, want ErrMismatchedValueType", err)
	}
}

func TestSearch_InvalidValue(t *testing.T) {
	t.Parallel()

	mem := newFake64()
	f := finder.New(mem, nil)

	err := f.Search(valuecodec.Unspecified(4), nil)
	if !errors.Is(err, finder.ErrInvalidValue) {
		t.Fatalf("Search() = %v, want ErrInvalidValue", err)
	}
}

func TestSearch_MemoryNotInitialized(t *testing.T) {
	t.Parallel()

	mem := newFake64()
	mem.SetInitialized(false)

	f := finder.New(mem, nil)

	err := f.Search(valuecodec.U32(0), nil)
	if !errors.Is(err, finder.ErrMemoryNotInitialized) {
		t.Fatalf("Search() = %v, want ErrMemoryNotInitialized", err)
	}
}

func TestSearch_NoValidMemoryRanges(t *testing.T) {
	t.Parallel()

	mem := guestmem.NewFakeMemory(0, 0)
	f := finder.New(mem, nil)

	err := f.Search(valuecodec.U32(0), nil)
	if !errors.Is(err, finder.ErrNoValidMemoryRanges) {
		t.Fatalf("Search() = %v, want ErrNoValidMemoryRanges", err)
	}
}

// TestSearch_SearchInProgress blocks the worker on a progress callback so
// a second, concurrent Search call observes ErrSearchInProgress.
func TestSearch_SearchInProgress(t *testing.T) {
	t.Parallel()

	mem := newFake64()
	f := finder.New(mem, nil)

	release := make(chan struct{})
	started := make(chan struct{})

	var once sync.Once
	progress := func(percent int) {
		once.Do(func() { close(started) })
		<-release
	}

	if err := f.Search(valuecodec.U32(0), progress); err != nil {
		t.Fatalf("Search: %v", err)
	}

	<-started

	err := f.Search(valuecodec.U32(0), nil)
	close(release)

	if !errors.Is(err, finder.ErrSearchInProgress) {
		t.Fatalf("Search() = %v, want ErrSearchInProgress", err)
	}

	f.NewResults()
}

// TestCancelSearch_LeavesPriorResultsUnchanged mirrors spec.md's
// cancellation property: cancelling a refinement, then draining, leaves
// the prior result set untouched.
func TestCancelSearch_LeavesPriorResultsUnchanged(t *testing.T) {
	t.Parallel()

	mem := newFake64()
	f := finder.New(mem, nil)

	if err := f.Search(valuecodec.U32(0), nil); err != nil {
		t.Fatalf("first search: %v", err)
	}
	f.NewResults()

	before := f.ResultCount()
	if before == 0 {
		t.Fatal("expected a non-empty baseline result set")
	}

	release := make(chan struct{})
	started := make(chan struct{})

	var once sync.Once
	progress := func(percent int) {
		once.Do(func() { close(started) })
		<-release
	}

	if err := f.Search(valuecodec.U32(0), progress); err != nil {
		t.Fatalf("refinement search: %v", err)
	}

	<-started
	f.CancelSearch()
	close(release)

	if f.NewResults() {
		t.Fatal("expected NewResults to report no new (cancelled) result set")
	}

	if got := f.ResultCount(); got != before {
		t.Fatalf("ResultCount() = %d, want unchanged %d", got, before)
	}
}

// TestClearResults_IsIdempotentAndFiresListenerEachTime mirrors spec.md's
// idempotence property.
func TestClearResults_IsIdempotentAndFiresListenerEachTime(t *testing.T) {
	t.Parallel()

	mem := newFake64()

	var fires int
	var mu sync.Mutex

	f := finder.New(mem, func() {
		mu.Lock()
		fires++
		mu.Unlock()
	})

	if err := f.Search(valuecodec.U32(0), nil); err != nil {
		t.Fatalf("search: %v", err)
	}
	f.NewResults()

	f.ClearResults()
	f.ClearResults()

	mu.Lock()
	got := fires
	mu.Unlock()

	if got != 2 {
		t.Fatalf("listener fired %d times, want 2", got)
	}

	if f.ResultCount() != 0 {
		t.Fatalf("ResultCount() = %d, want 0", f.ResultCount())
	}
}

func TestRefinement_IsSubsetOfPriorResultSet(t *testing.T) {
	t.Parallel()

	mem := newFake64()
	mem.Poke(0x4, []byte{0, 0, 0, 1})

	f := finder.New(mem, nil)

	if err := f.Search(valuecodec.U32(0), nil); err != nil {
		t.Fatalf("first search: %v", err)
	}
	f.NewResults()

	prior := make(map[uint32]bool, f.ResultCount())
	for i := 0; i < f.ResultCount(); i++ {
		addr, _ := f.Address(i)
		prior[addr] = true
	}

	if err := f.Search(valuecodec.U32(1), nil); err != nil {
		t.Fatalf("refinement: %v", err)
	}
	f.NewResults()

	for i := 0; i < f.ResultCount(); i++ {
		addr, _ := f.Address(i)
		if !prior[addr] {
			t.Fatalf("refinement introduced new address %#x not in prior result set", addr)
		}
	}
}

func TestRegisterListener_NilRejected(t *testing.T) {
	t.Parallel()

	f := finder.New(newFake64(), nil)

	if id := f.RegisterListener(nil); id != -1 {
		t.Fatalf("RegisterListener(nil) = %d, want -1", id)
	}
}

func TestUnregisterListener_StopsFurtherCalls(t *testing.T) {
	t.Parallel()

	mem := newFake64()
	f := finder.New(mem, nil)

	var calls int
	id := f.RegisterListener(func() { calls++ })

	f.ClearResults()
	f.UnregisterListener(id)
	f.ClearResults()

	if calls != 1 {
		t.Fatalf("listener called %d times, want 1", calls)
	}
}
