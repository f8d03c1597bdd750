// Package cli implements cheatfind's interactive REPL: the headless
// stand-in for the emulator's out-of-scope windowing layer (spec §1). It
// drives internal/manager's Core from line-oriented commands and contains
// no core scanning/tree logic of its own.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/calvinalkan/cheatfind/internal/config"
	"github.com/calvinalkan/cheatfind/internal/manager"
	"github.com/calvinalkan/cheatfind/pkg/cheattree"
	"github.com/calvinalkan/cheatfind/pkg/guestmem"
	"github.com/calvinalkan/cheatfind/pkg/searchmodel"
	"github.com/calvinalkan/cheatfind/pkg/valuecodec"
)

// commandNames lists every REPL command for liner's tab completion.
var commandNames = []string{
	"search", "type", "cancel", "status", "results", "pin", "tree",
	"get", "set", "lock", "unlock", "delete", "clear", "poll", "tick",
	"help", "quit", "exit",
}

// New constructs a manager.Core over the backend selected by cfg: a
// guestmem.FakeMemory sized cfg.FakeSize, or a guestmem.RealMemory sized
// cfg.RealRAMSize/cfg.ExRAMSize. The returned closer releases any mmap'd
// arenas; callers must defer it.
func New(cfg config.Config) (core *manager.Core, closer func() error, err error) {
	switch cfg.MemoryBackend {
	case "real":
		mem, err := guestmem.NewRealMemory(cfg.RealRAMSize, cfg.ExRAMSize)
		if err != nil {
			return nil, nil, fmt.Errorf("cli: creating real memory backend: %w", err)
		}

		return manager.New(mem), mem.Close, nil
	default:
		mem := guestmem.NewFakeMemory(cfg.FakeSize, cfg.FakeSize)
		return manager.New(mem), func() error { return nil }, nil
	}
}

// REPL is the interactive command loop driving a manager.Core. It mirrors
// the structure of the teacher's sloty REPL: a liner.State for
// readline-style input and history, one cmdXxx method per command.
type REPL struct {
	core *manager.Core
	out  io.Writer
	ln   *liner.State

	// searchType is the type the next bare "search <value>" command uses.
	// It only matters for a fresh search (len(results) == 0); once results
	// exist the Finder's own locked-in type governs refinements.
	searchType valuecodec.MemoryItemType
}

// NewREPL returns a REPL over core, writing to out. Call Run to start it
// and Close when done.
func NewREPL(core *manager.Core, out io.Writer) *REPL {
	return &REPL{core: core, out: out, searchType: valuecodec.TypeU32}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".cheatfind_history")
}

// Run starts the REPL loop. It returns when the user exits or stdin is
// closed.
func (r *REPL) Run() error {
	r.ln = liner.NewLiner()
	r.ln.SetCtrlCAborts(true)
	r.ln.SetCompleter(r.completer)

	if f, err := os.Open(historyFilePath()); err == nil {
		r.ln.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(r.out, "cheatfind - guest memory search REPL")
	fmt.Fprintln(r.out, "Type 'help' for available commands.")
	fmt.Fprintln(r.out)

	for {
		line, err := r.ln.Prompt("cheatfind> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(r.out, "\nBye!")
				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.ln.AppendHistory(line)

		if r.dispatch(line) {
			break
		}
	}

	r.saveHistory()

	return nil
}

// dispatch runs one command line and reports whether the REPL should stop.
func (r *REPL) dispatch(line string) (stop bool) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		fmt.Fprintln(r.out, "Bye!")
		return true
	case "help", "?":
		r.printHelp()
	case "search":
		r.cmdSearch(args)
	case "type":
		r.cmdType(args)
	case "cancel":
		r.core.Finder.CancelSearch()
		fmt.Fprintln(r.out, "OK: cancellation requested")
	case "status":
		r.cmdStatus()
	case "clear":
		r.core.Finder.ClearResults()
		r.core.Model.NewResults()
		fmt.Fprintln(r.out, "OK: results cleared")
	case "poll":
		r.cmdPoll()
	case "results":
		r.cmdResults(args)
	case "pin":
		r.cmdPin(args)
	case "tree":
		r.cmdTree()
	case "get":
		r.cmdGet(args)
	case "set":
		r.cmdSet(args)
	case "lock":
		r.cmdLockSet(args, true)
	case "unlock":
		r.cmdLockSet(args, false)
	case "tick":
		r.core.Tree.Tick()
		fmt.Fprintln(r.out, "OK: locked entries written back")
	case "delete":
		r.cmdDelete(args)
	default:
		fmt.Fprintf(r.out, "unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return false
}

// Close releases the liner state. History is written to disk by Run when
// the loop ends, not here.
func (r *REPL) Close() {
	if r.ln != nil {
		r.ln.Close()
	}
}

func (r *REPL) saveHistory() {
	path := historyFilePath()
	if path == "" {
		return
	}

	if f, err := os.Create(path); err == nil {
		r.ln.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) completer(line string) []string {
	var out []string

	lower := strings.ToLower(line)
	for _, c := range commandNames {
		if strings.HasPrefix(c, lower) {
			out = append(out, c)
		}
	}

	return out
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  search <value>                First/refine search for a decimal value against the current type")
	fmt.Fprintln(r.out, "  type <u8|u16|u32|u64>         Set the type used by the next fresh search")
	fmt.Fprintln(r.out, "  cancel                         Request cancellation of an in-progress search")
	fmt.Fprintln(r.out, "  status                         Print result count + search type (not whether a scan is running)")
	fmt.Fprintln(r.out, "  clear                          Discard the current result set")
	fmt.Fprintln(r.out, "  poll                           Drain a completed search into the result set")
	fmt.Fprintln(r.out, "  results [offset] [n]          List result rows (address, type, current, previous)")
	fmt.Fprintln(r.out, "  pin <row>                     Pin a result row as a new cheat entry")
	fmt.Fprintln(r.out, "  tree                           List cheat entries")
	fmt.Fprintln(r.out, "  get <id> <col>                Read a cheat entry column")
	fmt.Fprintln(r.out, "  set <id> <col> <value>        Write a cheat entry column (name/description/type/value/locked)")
	fmt.Fprintln(r.out, "  lock <id> / unlock <id>       Lock/unlock a cheat entry")
	fmt.Fprintln(r.out, "  tick                           Run one pass of the lock loop")
	fmt.Fprintln(r.out, "  delete <id>                   Delete a cheat entry (promotes its children)")
	fmt.Fprintln(r.out, "  help                           Show this help")
	fmt.Fprintln(r.out, "  quit / exit / q               Exit")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Types: u8, u16, u32, u64. Values are unsigned decimal.")
}

func parseType(s string) valuecodec.MemoryItemType {
	switch strings.ToLower(s) {
	case "u8", "byte", "b":
		return valuecodec.TypeU8
	case "u16", "short", "s":
		return valuecodec.TypeU16
	case "u32", "long", "l":
		return valuecodec.TypeU32
	case "u64", "quad", "q":
		return valuecodec.TypeU64
	default:
		return valuecodec.TypeUnspecified
	}
}

func (r *REPL) cmdType(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(r.out, "current type: %s\n", r.searchType.Name())
		return
	}

	typ := parseType(args[0])
	if !typ.IsValid() {
		fmt.Fprintf(r.out, "unknown type: %s\n", args[0])
		return
	}

	r.searchType = typ
	fmt.Fprintf(r.out, "OK: type set to %s\n", typ.Name())
}

func (r *REPL) cmdSearch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: search <value>")
		return
	}

	typ := r.searchType
	if r.core.Finder.ResultCount() > 0 {
		typ = r.core.Finder.ItemType(0)
	}

	item := valuecodec.Parse(args[0], typ)
	if !item.IsValid() {
		fmt.Fprintf(r.out, "value %q does not fit %s\n", args[0], typ.Name())
		return
	}

	start := time.Now()

	progress := func(percent int) {
		if percent%25 == 0 {
			fmt.Fprintf(r.out, "  ... %d%%\n", percent)
		}
	}

	if err := r.core.Finder.Search(item, progress); err != nil {
		fmt.Fprintf(r.out, "search error: %v\n", err)
		return
	}

	// A real UI polls NewResults on a timer; the REPL has no other work to
	// do while a command is in flight, so it drains synchronously here.
	for !r.core.Finder.NewResults() {
	}

	r.core.Model.NewResults()

	fmt.Fprintf(r.out, "OK: %d results in %v\n", r.core.Finder.ResultCount(), time.Since(start).Round(time.Millisecond))
}

func (r *REPL) cmdStatus() {
	count := r.core.Finder.ResultCount()

	fmt.Fprintf(r.out, "results: %d\n", count)

	if count > 0 {
		fmt.Fprintf(r.out, "search type: %s\n", r.core.Finder.ItemType(0).Name())
	} else {
		fmt.Fprintf(r.out, "next search type: %s\n", r.searchType.Name())
	}
}

func (r *REPL) cmdPoll() {
	if r.core.Finder.NewResults() {
		r.core.Model.NewResults()
		fmt.Fprintf(r.out, "OK: %d results installed\n", r.core.Finder.ResultCount())
		return
	}

	fmt.Fprintln(r.out, "no new results")
}

func (r *REPL) cmdResults(args []string) {
	offset := 0
	limit := 20

	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			fmt.Fprintln(r.out, "Usage: results [offset] [n]")
			return
		}

		offset = n
	default:
		o, err1 := strconv.Atoi(args[0])
		n, err2 := strconv.Atoi(args[1])

		if err1 != nil || err2 != nil || o < 0 || n < 0 {
			fmt.Fprintln(r.out, "Usage: results [offset] [n]")
			return
		}

		offset, limit = o, n
	}

	count := r.core.Model.RowCount()
	if count == 0 {
		fmt.Fprintln(r.out, "(no results)")
		return
	}

	end := offset + limit
	if end > count {
		end = count
	}

	for row := offset; row < end; row++ {
		if r.core.Model.IsOverflowRow(row) {
			text, _ := r.core.Model.Get(row, searchmodel.ColumnAddress)
			fmt.Fprintf(r.out, "%4d. %s\n", row, text)
			continue
		}

		addr, _ := r.core.Model.Get(row, searchmodel.ColumnAddress)
		typ, _ := r.core.Model.Get(row, searchmodel.ColumnType)
		cur, _ := r.core.Model.Get(row, searchmodel.ColumnCurrentValue)
		prev, _ := r.core.Model.Get(row, searchmodel.ColumnPreviousValue)

		fmt.Fprintf(r.out, "%4d. %s  %-16s cur=%-12s prev=%s\n", row, addr, typ, cur, prev)
	}

	if end < count {
		fmt.Fprintf(r.out, "... (%d more, use 'results %d %d')\n", count-end, end, limit)
	}
}

func (r *REPL) cmdPin(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: pin <row>")
		return
	}

	row, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(r.out, "Usage: pin <row>")
		return
	}

	id, ok := r.core.ActivateRow(row)
	if !ok {
		fmt.Fprintf(r.out, "no such row: %d\n", row)
		return
	}

	fmt.Fprintf(r.out, "OK: pinned as entry %d\n", id)
}

func (r *REPL) cmdTree() {
	ids := r.core.Tree.Children(cheattree.RootID)
	if len(ids) == 0 {
		fmt.Fprintln(r.out, "(no entries)")
		return
	}

	r.printEntries(ids, 0)
}

func (r *REPL) printEntries(ids []cheattree.EntryID, depth int) {
	for _, id := range ids {
		entry, ok := r.core.Tree.Entry(id)
		if !ok {
			continue
		}

		indent := strings.Repeat("  ", depth)

		if entry.Data == nil {
			fmt.Fprintf(r.out, "%s[%d] %s (header)\n", indent, id, entry.Name)
		} else {
			valueText, _ := r.core.Tree.Get(id, cheattree.ColumnValue)
			lockTag := ""
			if entry.Data.Locked {
				lockTag = " [locked]"
			}

			fmt.Fprintf(r.out, "%s[%d] %s = %08X %s=%s%s\n", indent, id, entry.Name,
				entry.Data.Address, entry.Data.Type.Name(), valueText, lockTag)
		}

		r.printEntries(r.core.Tree.Children(id), depth+1)
	}
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.out, "Usage: get <id> <name|description|address|type|value|locked>")
		return
	}

	id, err := parseEntryID(args[0])
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	col, ok := parseColumn(args[1])
	if !ok {
		fmt.Fprintf(r.out, "unknown column: %s\n", args[1])
		return
	}

	text, ok := r.core.Tree.Get(id, col)
	if !ok {
		fmt.Fprintln(r.out, "no value for that entry/column")
		return
	}

	fmt.Fprintln(r.out, text)
}

func (r *REPL) cmdSet(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(r.out, "Usage: set <id> <name|description|type|value|locked> <value>")
		return
	}

	id, err := parseEntryID(args[0])
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	col, ok := parseColumn(args[1])
	if !ok {
		fmt.Fprintf(r.out, "unknown column: %s\n", args[1])
		return
	}

	value := strings.Join(args[2:], " ")

	if !r.core.Tree.Set(id, col, value) {
		fmt.Fprintln(r.out, "set failed")
		return
	}

	fmt.Fprintln(r.out, "OK")
}

func (r *REPL) cmdLockSet(args []string, locked bool) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: lock|unlock <id>")
		return
	}

	id, err := parseEntryID(args[0])
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	if !r.core.Tree.Set(id, cheattree.ColumnLocked, strconv.FormatBool(locked)) {
		fmt.Fprintln(r.out, "failed: entry missing or has no valid type")
		return
	}

	fmt.Fprintln(r.out, "OK")
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: delete <id>")
		return
	}

	id, err := parseEntryID(args[0])
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	if !r.core.Tree.DeleteEntry(id) {
		fmt.Fprintf(r.out, "no such entry: %d\n", id)
		return
	}

	fmt.Fprintln(r.out, "OK")
}

func parseEntryID(s string) (cheattree.EntryID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id: %s", s)
	}

	return cheattree.EntryID(n), nil
}

func parseColumn(s string) (cheattree.Column, bool) {
	switch strings.ToLower(s) {
	case "name":
		return cheattree.ColumnName, true
	case "description", "desc":
		return cheattree.ColumnDescription, true
	case "address", "addr":
		return cheattree.ColumnAddress, true
	case "type":
		return cheattree.ColumnType, true
	case "value":
		return cheattree.ColumnValue, true
	case "locked":
		return cheattree.ColumnLocked, true
	default:
		return 0, false
	}
}
