package config

import (
	"github.com/calvinalkan/cheatfind/pkg/cheattree"
	"github.com/calvinalkan/cheatfind/pkg/valuecodec"
)

// SeedDemoTree populates tree with the five demonstration entries the
// original source's CheatsTreeModel constructor hard-coded: a header, a
// byte with its own children, and three typed leaves nested under those
// two (Short and Quad under the header, Long under the byte).
// It is opt-in (gated by Config.SeedDemoTree) rather than baked into
// cheattree.New, since a library's zero value should start empty.
func SeedDemoTree(tree *cheattree.Tree) {
	header := tree.AddHeader("Just a Header", "Thing you can expand and collapse.")

	byteWithChildren := tree.AddEntry(0x80001111, valuecodec.TypeU8)
	tree.Set(byteWithChildren, cheattree.ColumnName, "Byte with Children")

	short := tree.AddEntry(0x80002222, valuecodec.TypeU16)
	tree.Set(short, cheattree.ColumnName, "Short")
	tree.MoveEntry(short, header)

	long := tree.AddEntry(0x80004444, valuecodec.TypeU32)
	tree.Set(long, cheattree.ColumnName, "Long")
	tree.MoveEntry(long, byteWithChildren)

	quad := tree.AddEntry(0x80008888, valuecodec.TypeU64)
	tree.Set(quad, cheattree.ColumnName, "Quad")
	tree.MoveEntry(quad, header)
}
