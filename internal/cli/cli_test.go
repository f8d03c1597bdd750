package cli

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/cheatfind/internal/manager"
	"github.com/calvinalkan/cheatfind/pkg/guestmem"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer, *guestmem.FakeMemory) {
	t.Helper()

	mem := guestmem.NewFakeMemory(64, 0)
	core := manager.New(mem)

	var out bytes.Buffer

	return NewREPL(core, &out), &out, mem
}

func TestREPL_SearchResultsPinLockTick(t *testing.T) {
	t.Parallel()

	r, out, mem := newTestREPL(t)
	mem.Poke(0x80000010, []byte{0xDE, 0xAD, 0xBE, 0xEF})

	require.False(t, r.dispatch("type u32"))
	out.Reset()

	require.False(t, r.dispatch("search 3735928559")) // 0xDEADBEEF
	assert.Contains(t, out.String(), "OK:")
	out.Reset()

	require.False(t, r.dispatch("results"))
	assert.Contains(t, out.String(), "80000010")
	out.Reset()

	// Find the row for the logical address; it may not be row 0 since the
	// physical view of the same backing RAM also matches.
	row := -1

	for i := 0; i < r.core.Finder.ResultCount(); i++ {
		addr, _ := r.core.Finder.Address(i)
		if addr == 0x80000010 {
			row = i
		}
	}

	require.GreaterOrEqual(t, row, 0)

	require.False(t, r.dispatch("pin "+strconv.Itoa(row)))
	assert.Contains(t, out.String(), "OK: pinned as entry")
	out.Reset()

	require.False(t, r.dispatch("tree"))
	assert.Contains(t, out.String(), "80000010")
	out.Reset()

	require.False(t, r.dispatch("set 1 value 305419896")) // 0x12345678
	assert.Contains(t, out.String(), "OK")
	out.Reset()

	require.False(t, r.dispatch("lock 1"))
	assert.Contains(t, out.String(), "OK")
	out.Reset()

	require.False(t, r.dispatch("tick"))

	var buf [4]byte
	require.True(t, mem.ReadAt(buf[:], 0x80000010, 4, guestmem.Data))
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, buf[:])
}

func TestREPL_UnknownCommand(t *testing.T) {
	t.Parallel()

	r, out, _ := newTestREPL(t)

	require.False(t, r.dispatch("frobnicate"))
	assert.Contains(t, out.String(), "unknown command")
}

func TestREPL_QuitStopsTheLoop(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestREPL(t)

	assert.True(t, r.dispatch("quit"))
}
