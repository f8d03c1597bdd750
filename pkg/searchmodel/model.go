// Package searchmodel adapts a Finder to a bounded table view: a fixed
// ceiling on visible rows plus a sentinel overflow row, and per-column
// read/write accessors suited to a GUI table widget.
package searchmodel

import (
	"fmt"

	"github.com/calvinalkan/cheatfind/pkg/finder"
	"github.com/calvinalkan/cheatfind/pkg/valuecodec"
)

// RowCeiling is the hard ceiling on visible rows. A Finder result count
// beyond this is reported as RowCeiling rows plus one overflow row.
const RowCeiling = 9999

// Column selects one of the model's four fields.
type Column int

const (
	ColumnAddress Column = iota
	ColumnType
	ColumnCurrentValue
	ColumnPreviousValue
)

// Model adapts a *finder.Finder to a table with a bounded row count. The
// zero value is not usable; construct with New.
type Model struct {
	f *finder.Finder

	rowCount int
	overflow bool
}

// New returns a Model over f with no rows until the first NewResults call.
func New(f *finder.Finder) *Model {
	if f == nil {
		panic("searchmodel: f must not be nil")
	}

	return &Model{f: f}
}

// NewResults pulls the latest result count from the Finder and reseats the
// model's row count, capping it at RowCeiling and flagging overflow when
// the real count exceeds it. Call this from a listener registered on the
// underlying Finder.
func (m *Model) NewResults() {
	count := m.f.ResultCount()

	if count > RowCeiling {
		m.rowCount = RowCeiling
		m.overflow = true
		return
	}

	m.rowCount = count
	m.overflow = false
}

// RowCount returns the number of visible rows, including the overflow
// sentinel row (if any).
func (m *Model) RowCount() int {
	if m.overflow {
		return m.rowCount + 1
	}

	return m.rowCount
}

// IsOverflowRow reports whether row is the sentinel "too many results" row
// appended past RowCeiling.
func (m *Model) IsOverflowRow(row int) bool {
	return m.overflow && row == m.rowCount
}

// Get reads row/col as display text. For the overflow row it returns the
// "more results omitted" text, whatever col is. ok is false for an
// out-of-range row, an unknown column, or a value that cannot be read.
func (m *Model) Get(row int, col Column) (text string, ok bool) {
	if m.IsOverflowRow(row) {
		return fmt.Sprintf("(%d more results omitted)", m.realOverflowCount()), true
	}

	if row < 0 || row >= m.rowCount {
		return "", false
	}

	switch col {
	case ColumnAddress:
		addr, ok := m.f.Address(row)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%08X", addr), true
	case ColumnType:
		return m.f.ItemType(row).FriendlyName(), true
	case ColumnCurrentValue:
		return valuecodec.Format(m.f.CurrentItem(row))
	case ColumnPreviousValue:
		return valuecodec.Format(m.f.PreviousItem(row))
	default:
		return "", false
	}
}

// Set writes text to row/col. Only ColumnCurrentValue is writable: it
// parses text as the Finder's search type and pokes the result through to
// guest memory via the Finder.
func (m *Model) Set(row int, col Column, text string) bool {
	if col != ColumnCurrentValue {
		return false
	}

	if row < 0 || row >= m.rowCount {
		return false
	}

	item := valuecodec.Parse(text, m.f.ItemType(row))
	if !item.IsValid() {
		return false
	}

	return m.f.Poke(row, item)
}

func (m *Model) realOverflowCount() int {
	return m.f.ResultCount() - RowCeiling
}
