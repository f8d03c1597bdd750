package cheattree

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/calvinalkan/cheatfind/pkg/guestmem"
	"github.com/calvinalkan/cheatfind/pkg/valuecodec"
)

// EntryID is a stable opaque handle assigned at creation and never reused
// for the lifetime of the tree.
type EntryID uint64

// RootID is the implicit root's id. It never names a real entry; it is
// only ever used as a ParentID value.
const RootID EntryID = 0

// Column selects one field of an entry for Get/Set/Enabled.
type Column int

const (
	ColumnName Column = iota
	ColumnDescription
	ColumnAddress
	ColumnType
	ColumnValue
	ColumnLocked
)

// CheatData is the address/type/value payload of a leaf entry. A header
// (container) entry has no CheatData.
type CheatData struct {
	Address uint32
	Type    valuecodec.MemoryItemType
	Content valuecodec.MemoryItem
	Locked  bool
}

// Entry is one node in the tree.
type Entry struct {
	ID          EntryID
	ParentID    EntryID
	Name        string
	Description string
	Data        *CheatData
}

// StructureChangeFunc is invoked after an operation that changes the
// tree's shape (add, delete).
type StructureChangeFunc func()

// Tree is an in-memory, insertion-ordered tree of pinned cheat entries.
// The zero value is not usable; construct with New.
type Tree struct {
	mem guestmem.Memory

	mu       sync.RWMutex
	entries  map[EntryID]*Entry
	children map[EntryID][]EntryID
	nextID   uint64

	listenersMu sync.Mutex
	listeners   []structureListener
	nextListID  int
}

type structureListener struct {
	id int
	fn StructureChangeFunc
}

// New returns an empty Tree backed by mem (used by the lock loop and by
// unlocked value reads).
func New(mem guestmem.Memory) *Tree {
	if mem == nil {
		panic("cheattree: mem must not be nil")
	}

	return &Tree{
		mem:      mem,
		entries:  make(map[EntryID]*Entry),
		children: make(map[EntryID][]EntryID),
	}
}

// AddEntry appends a new leaf entry under the root with a default name, an
// empty description, and data = {address, typ, Unspecified, false}.
func (t *Tree) AddEntry(address uint32, typ valuecodec.MemoryItemType) EntryID {
	t.mu.Lock()

	t.nextID++
	id := EntryID(t.nextID)

	entry := &Entry{
		ID:          id,
		ParentID:    RootID,
		Name:        fmt.Sprintf("Cheat %d", id),
		Description: "",
		Data: &CheatData{
			Address: address,
			Type:    typ,
			Content: valuecodec.Unspecified(0),
			Locked:  false,
		},
	}

	t.entries[id] = entry
	t.children[RootID] = append(t.children[RootID], id)

	t.mu.Unlock()

	t.invokeListeners()

	return id
}

// AddHeader appends a new container (header) entry under the root: one with
// no CheatData of its own, used to group other entries moved under it with
// MoveEntry. Grounded on the original source's "Just a Header" demonstration
// entry (see internal/config.SeedDemoTree).
func (t *Tree) AddHeader(name, description string) EntryID {
	t.mu.Lock()

	t.nextID++
	id := EntryID(t.nextID)

	entry := &Entry{
		ID:          id,
		ParentID:    RootID,
		Name:        name,
		Description: description,
	}

	t.entries[id] = entry
	t.children[RootID] = append(t.children[RootID], id)

	t.mu.Unlock()

	t.invokeListeners()

	return id
}

// DeleteEntry removes id if present. Its children are promoted to its own
// parent, preserving their relative order and appending them after any
// existing children of that parent (see SPEC_FULL.md's Open Questions).
// It reports whether an entry was removed.
func (t *Tree) DeleteEntry(id EntryID) bool {
	t.mu.Lock()

	entry, ok := t.entries[id]
	if !ok {
		t.mu.Unlock()
		return false
	}

	parent := entry.ParentID
	orphans := t.children[id]

	delete(t.children, id)
	delete(t.entries, id)

	siblings := t.children[parent]
	for i, sid := range siblings {
		if sid == id {
			siblings = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}

	for _, oid := range orphans {
		t.entries[oid].ParentID = parent
	}

	t.children[parent] = append(siblings, orphans...)

	t.mu.Unlock()

	t.invokeListeners()

	return true
}

// MoveEntry reparents id to newParent, appending it after newParent's
// existing children. This supports the GUI's drag-and-drop reorganization,
// which the distilled add_entry/delete_entry pair alone cannot express. It
// reports false if id or newParent does not exist, or if newParent is id
// itself or one of id's own descendants (which would create a cycle).
func (t *Tree) MoveEntry(id, newParent EntryID) bool {
	t.mu.Lock()

	entry, ok := t.entries[id]
	if !ok {
		t.mu.Unlock()
		return false
	}

	if newParent != RootID {
		if _, ok := t.entries[newParent]; !ok {
			t.mu.Unlock()
			return false
		}
	}

	if id == newParent || t.isDescendant(newParent, id) {
		t.mu.Unlock()
		return false
	}

	oldParent := entry.ParentID

	siblings := t.children[oldParent]
	for i, sid := range siblings {
		if sid == id {
			siblings = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	t.children[oldParent] = siblings

	entry.ParentID = newParent
	t.children[newParent] = append(t.children[newParent], id)

	t.mu.Unlock()

	t.invokeListeners()

	return true
}

// isDescendant reports whether candidate is id itself or nested anywhere
// under id. Caller must hold t.mu.
func (t *Tree) isDescendant(candidate, id EntryID) bool {
	if candidate == id {
		return true
	}

	for _, child := range t.children[id] {
		if t.isDescendant(candidate, child) {
			return true
		}
	}

	return false
}

// Children returns id's direct children, in insertion order.
func (t *Tree) Children(id EntryID) []EntryID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	kids := t.children[id]
	out := make([]EntryID, len(kids))
	copy(out, kids)

	return out
}

// Entry returns a copy of the entry's top-level fields (not its live
// value), plus ok = false if id is not present.
func (t *Tree) Entry(id EntryID) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[id]
	if !ok {
		return Entry{}, false
	}

	cp := *e
	if e.Data != nil {
		data := *e.Data
		cp.Data = &data
	}

	return cp, true
}

// IsContainer reports whether id is a container: it has children, or it
// carries no data (a header entry). It returns false if id is not present.
func (t *Tree) IsContainer(id EntryID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[id]
	if !ok {
		return false
	}

	return len(t.children[id]) > 0 || e.Data == nil
}

// Enabled reports whether column is editable for id: name/description
// always are; address requires data; type/value/locked require data and a
// valid type.
func (t *Tree) Enabled(id EntryID, col Column) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[id]
	if !ok {
		return false
	}

	switch col {
	case ColumnName, ColumnDescription:
		return true
	case ColumnAddress:
		return e.Data != nil
	case ColumnType, ColumnValue, ColumnLocked:
		return e.Data != nil && e.Data.Type.IsValid()
	default:
		return false
	}
}

// Get reads column as display text. For ColumnValue on an unlocked entry
// it reads through guest memory; on a locked entry it returns the stored
// content instead. ok is false if id is not present or the column has no
// meaningful value for this entry.
func (t *Tree) Get(id EntryID, col Column) (text string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, found := t.entries[id]
	if !found {
		return "", false
	}

	switch col {
	case ColumnName:
		return e.Name, true
	case ColumnDescription:
		return e.Description, true
	case ColumnAddress:
		if e.Data == nil {
			return "", false
		}
		return fmt.Sprintf("%08X", e.Data.Address), true
	case ColumnType:
		if e.Data == nil {
			return "", false
		}
		return e.Data.Type.FriendlyName(), true
	case ColumnValue:
		if e.Data == nil || !e.Data.Type.IsValid() {
			return "", false
		}

		if e.Data.Locked {
			text, ok := valuecodec.Format(e.Data.Content)
			return text, ok
		}

		live := valuecodec.Read(t.mem, e.Data.Address, e.Data.Type)
		e.Data.Content = live

		text, ok := valuecodec.Format(live)
		return text, ok
	case ColumnLocked:
		if e.Data == nil {
			return "", false
		}
		return strconv.FormatBool(e.Data.Locked), true
	default:
		return "", false
	}
}

// Set writes column from text, per the rules in SPEC_FULL.md §4.4. It
// reports whether the write took effect.
func (t *Tree) Set(id EntryID, col Column, text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, found := t.entries[id]
	if !found {
		return false
	}

	switch col {
	case ColumnName:
		e.Name = text
		return true
	case ColumnDescription:
		e.Description = text
		return true
	case ColumnType:
		if e.Data == nil {
			return false
		}

		newType := valuecodec.TypeForName(strings.TrimSpace(text))
		if !newType.IsValid() {
			return false
		}

		if newType != e.Data.Type {
			e.Data.Type = newType
			e.Data.Content = valuecodec.MakeZero(newType)
		}

		return true
	case ColumnValue:
		if e.Data == nil || !e.Data.Type.IsValid() {
			return false
		}

		item := valuecodec.Parse(text, e.Data.Type)
		if !item.IsValid() {
			return false
		}

		if !e.Data.Locked {
			if !valuecodec.Write(t.mem, e.Data.Address, item) {
				return false
			}
		}

		e.Data.Content = item
		return true
	case ColumnLocked:
		if e.Data == nil || !e.Data.Type.IsValid() {
			return false
		}

		wantLocked, err := strconv.ParseBool(text)
		if err != nil {
			return false
		}

		if wantLocked == e.Data.Locked {
			return true
		}

		if wantLocked {
			e.Data.Content = valuecodec.Read(t.mem, e.Data.Address, e.Data.Type)
		}

		e.Data.Locked = wantLocked
		return true
	default:
		return false
	}
}

// Tick runs one pass of the lock loop: every entry with Data.Locked = true
// and a valid type has its stored content written back to guest memory.
// Write failures are swallowed; the next tick retries.
func (t *Tree) Tick() {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, e := range t.entries {
		if e.Data == nil || !e.Data.Locked || !e.Data.Type.IsValid() {
			continue
		}

		valuecodec.Write(t.mem, e.Data.Address, e.Data.Content)
	}
}

// RegisterListener adds fn to the set of callbacks invoked after the
// tree's structure changes (add, delete), returning an id for Unregister.
func (t *Tree) RegisterListener(fn StructureChangeFunc) int {
	if fn == nil {
		return -1
	}

	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()

	t.nextListID++
	id := t.nextListID

	t.listeners = append(t.listeners, structureListener{id: id, fn: fn})

	return id
}

// UnregisterListener removes a listener previously added by
// RegisterListener. It does nothing if id is not registered.
func (t *Tree) UnregisterListener(id int) {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()

	for i, l := range t.listeners {
		if l.id == id {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

func (t *Tree) invokeListeners() {
	t.listenersMu.Lock()
	snapshot := append([]structureListener(nil), t.listeners...)
	t.listenersMu.Unlock()

	for _, l := range snapshot {
		l.fn()
	}
}
