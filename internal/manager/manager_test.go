package manager_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/cheatfind/internal/manager"
	"github.com/calvinalkan/cheatfind/pkg/cheattree"
	"github.com/calvinalkan/cheatfind/pkg/guestmem"
	"github.com/calvinalkan/cheatfind/pkg/valuecodec"
)

func drain(t *testing.T, core *manager.Core) {
	t.Helper()

	for !core.Finder.NewResults() {
	}

	core.Model.NewResults()
}

func TestActivateRow_PinsSearchResultAsCheatEntry(t *testing.T) {
	t.Parallel()

	mem := guestmem.NewFakeMemory(64, 0)
	mem.Poke(0x80000010, []byte{0xDE, 0xAD, 0xBE, 0xEF})

	core := manager.New(mem)

	require.NoError(t, core.Finder.Search(valuecodec.U32(0xDEADBEEF), nil))
	drain(t, core)

	// 0x80000010 is the logical view of the same backing RAM as
	// 0x00000010, so both addresses carry the poked value; find the
	// logical row explicitly instead of assuming an ordering.
	row := -1

	for i := 0; i < core.Finder.ResultCount(); i++ {
		addr, ok := core.Finder.Address(i)
		require.True(t, ok)

		if addr == 0x80000010 {
			row = i
			break
		}
	}

	require.GreaterOrEqual(t, row, 0, "expected a result at the logical address")

	id, ok := core.ActivateRow(row)
	require.True(t, ok)

	entry, ok := core.Tree.Entry(id)
	require.True(t, ok)

	want := cheattree.Entry{
		ID:          id,
		ParentID:    cheattree.RootID,
		Name:        entry.Name, // generated name, not asserted on
		Description: "",
		Data: &cheattree.CheatData{
			Address: 0x80000010,
			Type:    valuecodec.TypeU32,
			Content: valuecodec.MemoryItem{},
			Locked:  false,
		},
	}

	diff := cmp.Diff(want, entry,
		cmp.AllowUnexported(valuecodec.MemoryItem{}),
		cmpopts.IgnoreFields(cheattree.CheatData{}, "Content"),
	)
	assert.Empty(t, diff, "pinned entry mismatch")
}

func TestActivateRow_OutOfRangeRowFails(t *testing.T) {
	t.Parallel()

	mem := guestmem.NewFakeMemory(64, 0)
	core := manager.New(mem)

	_, ok := core.ActivateRow(0)
	assert.False(t, ok)
}
