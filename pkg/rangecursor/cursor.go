package rangecursor

// Cursor is a forward iterator positioned at an aligned address within a
// RangeSet, or at the end position past the last range.
//
// Invariants while positioned inside a range: Low <= Address <= high (the
// range's aligned upper bound), and Address is a multiple of the RangeSet's
// alignment.
type Cursor struct {
	set        *RangeSet
	rangeIdx   int
	address    uint32
	upperBound uint32 // aligned upper bound of the current range
}

// Start returns a cursor at the first valid aligned address in set, or the
// end position if set contains no valid addresses at all.
func Start(set *RangeSet) *Cursor {
	c := &Cursor{set: set, rangeIdx: 0}
	c.findNonEmptyRange()

	return c
}

// End returns the cursor position one past the last range in set.
func End(set *RangeSet) *Cursor {
	return &Cursor{set: set, rangeIdx: len(set.ranges)}
}

// findNonEmptyRange advances rangeIdx past any ranges that contain no
// aligned address, positioning Address/upperBound at the first one that
// does. If none remain, it parks at the end position.
func (c *Cursor) findNonEmptyRange() {
	ranges := c.set.ranges
	alignment := c.set.alignment

	for c.rangeIdx < len(ranges) {
		r := ranges[c.rangeIdx]
		lo := ceilAlign(r.Low, alignment)
		hi := floorAlign(r.High, alignment)

		if lo <= hi && lo >= r.Low {
			c.address = lo
			c.upperBound = hi

			return
		}

		c.rangeIdx++
	}

	c.address = 0
	c.upperBound = 0
}

// AtEnd reports whether c is positioned past the last range.
func (c *Cursor) AtEnd() bool {
	return c.rangeIdx >= len(c.set.ranges)
}

// Address returns the cursor's current guest address. Calling it at the
// end position returns 0 and should not be relied upon.
func (c *Cursor) Address() uint32 {
	return c.address
}

// Advance moves the cursor to the next aligned address, crossing into the
// next non-empty range (or the end position) when the current range is
// exhausted. It must not be called when c.AtEnd().
func (c *Cursor) Advance() {
	if c.AtEnd() {
		panic("rangecursor: Advance called at end position")
	}

	alignment := c.set.alignment
	next := c.address + alignment

	if next <= c.upperBound && next > c.address {
		c.address = next
		return
	}

	c.rangeIdx++
	c.findNonEmptyRange()
}

// Clone returns an independent copy of c's position.
func (c *Cursor) Clone() *Cursor {
	cp := *c
	return &cp
}

func (c *Cursor) requireSameSet(other *Cursor) {
	if c.set != other.set {
		panic("rangecursor: cursors over different range sets cannot be compared")
	}
}

// Equal reports whether c and other are at the same position. It panics if
// c and other were built over different RangeSets.
func (c *Cursor) Equal(other *Cursor) bool {
	c.requireSameSet(other)

	return c.rangeIdx == other.rangeIdx && c.address == other.address
}

// lessOrEqual reports whether c is at or before other, ordering cursor
// positions within one RangeSet by (rangeIdx, address) lexicographically.
func (c *Cursor) lessOrEqual(other *Cursor) bool {
	if c.rangeIdx != other.rangeIdx {
		return c.rangeIdx < other.rangeIdx
	}

	return c.address <= other.address
}

// Distance returns the number of Advance() calls needed to move from a to
// b: positive if b is ahead of a, negative if behind, zero if equal.
// Distance(a, b) == -Distance(b, a). It panics if a and b were built over
// different RangeSets.
func Distance(a, b *Cursor) int64 {
	a.requireSameSet(b)

	if a.lessOrEqual(b) {
		return forwardDistance(a, b)
	}

	return -forwardDistance(b, a)
}

// forwardDistance computes the number of advances from "from" to "to",
// assuming from.lessOrEqual(to).
func forwardDistance(from, to *Cursor) int64 {
	alignment := from.set.alignment

	if from.rangeIdx == to.rangeIdx {
		return int64(to.address-from.address) / int64(alignment)
	}

	// Steps remaining in from's own range, including from's own position.
	dist := int64(from.upperBound-from.address)/int64(alignment) + 1

	ranges := from.set.ranges
	for idx := from.rangeIdx + 1; idx < to.rangeIdx; idx++ {
		dist += spanCount(ranges[idx], alignment)
	}

	if to.rangeIdx < len(ranges) {
		toRangeLow := ceilAlign(ranges[to.rangeIdx].Low, alignment)
		dist += int64(to.address-toRangeLow) / int64(alignment)
	}

	return dist
}
