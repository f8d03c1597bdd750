package rangecursor_test

import (
	"math/rand/v2"
	"testing"

	"github.com/calvinalkan/cheatfind/pkg/rangecursor"
)

func TestCursor_Advance_WithinAndAcrossRanges(t *testing.T) {
	t.Parallel()

	set := rangecursor.New([]rangecursor.Range{
		{Low: 0, High: 7},
		{Low: 100, High: 103},
	}, 4)

	cur := rangecursor.Start(set)

	var addrs []uint32
	for !cur.AtEnd() {
		addrs = append(addrs, cur.Address())
		cur.Advance()
	}

	want := []uint32{0, 4, 100}
	if len(addrs) != len(want) {
		t.Fatalf("got %v want %v", addrs, want)
	}

	for i := range want {
		if addrs[i] != want[i] {
			t.Fatalf("got %v want %v", addrs, want)
		}
	}
}

func TestCursor_SkipsEmptyRanges(t *testing.T) {
	t.Parallel()

	// A range whose High < ceil(Low,alignment) contains no candidate
	// address and must be skipped entirely.
	set := rangecursor.New([]rangecursor.Range{
		{Low: 1, High: 2}, // alignment 4: ceil(1,4)=4 > floor(2,4)=0, empty
		{Low: 8, High: 11},
	}, 4)

	cur := rangecursor.Start(set)
	if cur.Address() != 8 {
		t.Fatalf("expected to skip the empty range straight to 8, got %d", cur.Address())
	}
}

func TestCursor_Equal_PanicsAcrossDifferentSets(t *testing.T) {
	t.Parallel()

	setA := rangecursor.New([]rangecursor.Range{{Low: 0, High: 3}}, 1)
	setB := rangecursor.New([]rangecursor.Range{{Low: 0, High: 3}}, 1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic comparing cursors from different range sets")
		}
	}()

	rangecursor.Start(setA).Equal(rangecursor.Start(setB))
}

func TestDistance_MatchesManualAdvanceCount(t *testing.T) {
	t.Parallel()

	set := rangecursor.New([]rangecursor.Range{
		{Low: 0, High: 9},
		{Low: 20, High: 21},
		{Low: 40, High: 47},
	}, 2)

	start := rangecursor.Start(set)
	end := rangecursor.End(set)

	// Count every step by manual advance.
	steps := int64(0)
	cur := start.Clone()
	for !cur.Equal(end) {
		cur.Advance()
		steps++
	}

	if got := rangecursor.Distance(start, end); got != steps {
		t.Fatalf("Distance(start,end) = %d, want %d", got, steps)
	}

	if got := rangecursor.Distance(end, start); got != -steps {
		t.Fatalf("Distance(end,start) = %d, want %d", got, -steps)
	}
}

// TestDistance_Property drives spec.md §8's RangeCursor invariants with a
// seeded PRNG: for two positions p <= q reachable by Advance,
// Distance(p,q) equals the number of Advance() calls to go from p to q,
// and Distance(p,q) == -Distance(q,p).
func TestDistance_Property(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))

	for trial := range 200 {
		numRanges := 1 + rng.IntN(4)
		ranges := make([]rangecursor.Range, 0, numRanges)

		cursor := uint32(0)
		for range numRanges {
			cursor += uint32(rng.IntN(5))
			low := cursor
			cursor += uint32(rng.IntN(20))
			high := cursor
			ranges = append(ranges, rangecursor.Range{Low: low, High: high})
			cursor += uint32(1 + rng.IntN(5))
		}

		alignment := uint32(1) << rng.IntN(3) // 1, 2, or 4

		set := rangecursor.New(ranges, alignment)

		all := []*rangecursor.Cursor{rangecursor.Start(set)}
		for !all[len(all)-1].AtEnd() {
			next := all[len(all)-1].Clone()
			next.Advance()
			all = append(all, next)
		}

		if len(all) < 2 {
			continue
		}

		i := rng.IntN(len(all))
		j := rng.IntN(len(all))
		if i > j {
			i, j = j, i
		}

		want := int64(j - i)
		if got := rangecursor.Distance(all[i], all[j]); got != want {
			t.Fatalf("trial %d: Distance(p%d,p%d) = %d, want %d", trial, i, j, got, want)
		}

		if got := rangecursor.Distance(all[j], all[i]); got != -want {
			t.Fatalf("trial %d: Distance(p%d,p%d) = %d, want %d", trial, j, i, got, -want)
		}
	}
}
