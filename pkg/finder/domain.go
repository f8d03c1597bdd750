package finder

import (
	"github.com/calvinalkan/cheatfind/pkg/guestmem"
	"github.com/calvinalkan/cheatfind/pkg/rangecursor"
	"github.com/calvinalkan/cheatfind/pkg/valuecodec"
)

// searchDomain enumerates the addresses a scan visits, in order, along with
// whatever prior value (if any) the scan should compare against.
type searchDomain interface {
	// Len returns the total number of addresses the scan will visit.
	Len() int64

	// Next returns the next address to read. hasPrior is true for a
	// refinement scan, in which case prior is the address's previous
	// stored current value; for a fresh scan hasPrior is false and the
	// worker uses the freshly-read value as its own previous.
	Next() (addr uint32, prior valuecodec.MemoryItem, hasPrior bool)
}

// freshDomain walks every aligned address across the candidate memory
// regions large enough to hold a value of the searched size.
type freshDomain struct {
	cur   *rangecursor.Cursor
	total int64
}

func newFreshDomain(mem guestmem.Memory, size, alignment uint32) (*freshDomain, bool) {
	var ranges []rangecursor.Range

	for _, cr := range guestmem.CandidateRanges(mem) {
		if cr.Size < size {
			continue
		}

		if !mem.IsRangeValid(cr.Base, cr.Size, guestmem.Data) {
			continue
		}

		ranges = append(ranges, rangecursor.Range{Low: cr.Base, High: cr.Base + cr.Size - size})
	}

	if len(ranges) == 0 {
		return nil, false
	}

	set := rangecursor.New(ranges, alignment)
	start := rangecursor.Start(set)
	total := rangecursor.Distance(start, rangecursor.End(set))

	return &freshDomain{cur: start, total: total}, true
}

func (d *freshDomain) Len() int64 { return d.total }

func (d *freshDomain) Next() (addr uint32, prior valuecodec.MemoryItem, hasPrior bool) {
	addr = d.cur.Address()
	d.cur.Advance()

	return addr, valuecodec.MemoryItem{}, false
}

// refinementDomain re-visits exactly the addresses already held by an
// existing result set, in the order they were stored.
type refinementDomain struct {
	results []SearchResult
	idx     int
}

func (d *refinementDomain) Len() int64 { return int64(len(d.results)) }

func (d *refinementDomain) Next() (addr uint32, prior valuecodec.MemoryItem, hasPrior bool) {
	r := d.results[d.idx]
	d.idx++

	return r.Address, r.Current, true
}
