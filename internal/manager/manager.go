// Package manager wires a single Finder and a single CheatEntryTree
// together into the unit the CLI and any future GUI drive: ManagerCore.
package manager

import (
	"github.com/calvinalkan/cheatfind/pkg/cheattree"
	"github.com/calvinalkan/cheatfind/pkg/finder"
	"github.com/calvinalkan/cheatfind/pkg/guestmem"
	"github.com/calvinalkan/cheatfind/pkg/searchmodel"
)

// Core owns exactly one Finder and one CheatEntryTree and exposes the one
// piece of coupling between them: activating a search row pins it as a
// cheat entry. The zero value is not usable; construct with New.
type Core struct {
	Finder *finder.Finder
	Tree   *cheattree.Tree
	Model  *searchmodel.Model
}

// New wires a Finder and CheatEntryTree over mem. The returned Model is
// kept in sync with the Finder via a registered listener.
func New(mem guestmem.Memory) *Core {
	f := finder.New(mem, nil)
	model := searchmodel.New(f)

	f.RegisterListener(model.NewResults)

	return &Core{
		Finder: f,
		Tree:   cheattree.New(mem),
		Model:  model,
	}
}

// ActivateRow implements the "activate row -> add cheat entry" signal:
// activating a search result row pins it as a new, unlocked cheat entry of
// the same address and type.
func (c *Core) ActivateRow(row int) (cheattree.EntryID, bool) {
	addr, ok := c.Finder.Address(row)
	if !ok {
		return 0, false
	}

	typ := c.Finder.ItemType(row)

	return c.Tree.AddEntry(addr, typ), true
}
