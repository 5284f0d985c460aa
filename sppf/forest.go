/*
Package sppf implements a "Shared Packed Parse Forest".

A packed parse forest re-uses existing parse tree nodes between different
parse trees. For a conventional non-ambiguous parse, a parse forest degrades
to a single tree. Ambiguous grammars, on the other hand, may result in parse
runs where more than one parse tree is created. To save space these parse
trees will share common nodes: two derivations producing the same symbol
over the same input span share one symbol node, with the differing
derivations attached as separate packed children.

All nodes are owned by a Forest, which is scoped to a single parse. Nodes
are interned: requesting a node for an already known structural key returns
the identical node. This bounds the forest polynomially in the input length,
even when the number of distinct parse trees is exponential.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sppf

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/gll"
	"github.com/npillmayer/gll/grammar"
)

// tracer traces with key 'gll.sppf'.
func tracer() tracing.Trace {
	return tracing.Select("gll.sppf")
}

// --- Nodes ------------------------------------------------------------

// Node is a forest node owning packed children: either a *SymbolNode or an
// *IntermediateNode.
type Node interface {
	Span() gll.Span
	PackedChildren() []*PackedNode
	String() string
}

// SymbolNode represents "symbol matches input[start:end)". Terminal symbol
// nodes are the leaves of the forest and additionally carry the matched
// lexeme. A symbol node with a nil symbol is an ε-leaf, resulting from an
// empty production.
type SymbolNode struct {
	Symbol *grammar.Symbol
	Extent gll.Span
	lexeme string
	packed *treeset.Set
	serial int
}

// Span returns the input span the node covers.
func (n *SymbolNode) Span() gll.Span {
	return n.Extent
}

// IsTerminal returns true for terminal leaves.
func (n *SymbolNode) IsTerminal() bool {
	return n.Symbol != nil && n.Symbol.IsTerminal()
}

// IsEpsilon returns true for ε-leaves.
func (n *SymbolNode) IsEpsilon() bool {
	return n.Symbol == nil
}

// Lexeme returns the matched input text of a terminal leaf.
func (n *SymbolNode) Lexeme() string {
	return n.lexeme
}

// IsAmbiguous returns true if more than one derivation ends in this node.
func (n *SymbolNode) IsAmbiguous() bool {
	return n.packed != nil && n.packed.Size() > 1
}

// PackedChildren returns the derivations of this node, in a deterministic
// order (alternative index, then split position).
func (n *SymbolNode) PackedChildren() []*PackedNode {
	return packedChildren(n.packed)
}

func (n *SymbolNode) String() string {
	if n.IsEpsilon() {
		return fmt.Sprintf("(ε %v)", n.Extent)
	}
	return fmt.Sprintf("(%s %v)", n.Symbol.Name, n.Extent)
}

// IntermediateNode represents a partially matched production prefix. Its
// slot points into the production right behind the symbols the node covers.
type IntermediateNode struct {
	Slot   grammar.Slot
	Extent gll.Span
	packed *treeset.Set
	serial int
}

// Span returns the input span the node covers.
func (n *IntermediateNode) Span() gll.Span {
	return n.Extent
}

// IsAmbiguous returns true if more than one derivation ends in this node.
func (n *IntermediateNode) IsAmbiguous() bool {
	return n.packed != nil && n.packed.Size() > 1
}

// PackedChildren returns the derivations of this node in deterministic order.
func (n *IntermediateNode) PackedChildren() []*PackedNode {
	return packedChildren(n.packed)
}

func (n *IntermediateNode) String() string {
	return fmt.Sprintf("(%v %v)", n.Slot, n.Extent)
}

// PackedNode represents one way of deriving its parent node: one split of
// the parent's span between a production prefix (Left) and the symbol just
// matched (Right). Left may be nil for the first symbol of a production, and
// is an *IntermediateNode whenever the prefix covers more than one symbol.
type PackedNode struct {
	Slot   grammar.Slot
	Split  uint64
	Left   Node // nil or *SymbolNode or *IntermediateNode
	Right  Node
	serial int
}

func (n *PackedNode) String() string {
	return fmt.Sprintf("(pack %v @%d)", n.Slot, n.Split)
}

func packedChildren(set *treeset.Set) []*PackedNode {
	if set == nil {
		return nil
	}
	children := make([]*PackedNode, 0, set.Size())
	it := set.Iterator()
	for it.Next() {
		children = append(children, it.Value().(*PackedNode))
	}
	return children
}

// Packed children are ordered by the production's alternative index, then by
// split position. CST extraction relies on this order being deterministic.
func packedCmp(a, b interface{}) int {
	p1, p2 := a.(*PackedNode), b.(*PackedNode)
	if c := utils.IntComparator(p1.Slot.Prod.Serial, p2.Slot.Prod.Serial); c != 0 {
		return c
	}
	if c := utils.IntComparator(p1.Slot.Dot, p2.Slot.Dot); c != 0 {
		return c
	}
	return utils.UInt64Comparator(p1.Split, p2.Split)
}

// --- Forest -----------------------------------------------------------

type symKey struct {
	name     string // "" for ε
	from, to uint64
}

type interKey struct {
	prod     *grammar.Production
	dot      int
	from, to uint64
}

type packKey struct {
	parent Node
	prod   *grammar.Production
	dot    int
	split  uint64
}

// Forest is a shared packed parse forest under construction. It owns every
// node and deduplicates them by structural key. A forest is mutable while
// the parser runs and is frozen when the parse completes; afterwards it is
// safe for shared read access.
type Forest struct {
	g        *grammar.Grammar
	symNodes map[symKey]*SymbolNode
	interNds map[interKey]*IntermediateNode
	packNds  map[packKey]*PackedNode
	root     *SymbolNode
	frozen   bool
	serials  int
}

// New creates an empty forest for a parse with a given grammar.
func New(g *grammar.Grammar) *Forest {
	return &Forest{
		g:        g,
		symNodes: map[symKey]*SymbolNode{},
		interNds: map[interKey]*IntermediateNode{},
		packNds:  map[packKey]*PackedNode{},
	}
}

// Grammar returns the grammar this forest was built for.
func (f *Forest) Grammar() *grammar.Grammar {
	return f.g
}

// Fingerprint returns the fingerprint of the grammar this forest was built
// for. CST extraction checks it against the grammar it is handed.
func (f *Forest) Fingerprint() string {
	return f.g.Fingerprint()
}

// Terminal finds or creates a terminal leaf for sym spanning (from…to).
func (f *Forest) Terminal(sym *grammar.Symbol, from, to uint64, lexeme string) *SymbolNode {
	f.mutable()
	key := symKey{name: sym.Name, from: from, to: to}
	if n, ok := f.symNodes[key]; ok {
		return n
	}
	n := &SymbolNode{Symbol: sym, Extent: gll.Span{from, to}, lexeme: lexeme, serial: f.nextSerial()}
	f.symNodes[key] = n
	return n
}

// Epsilon finds or creates the ε-leaf at an input position.
func (f *Forest) Epsilon(at uint64) *SymbolNode {
	f.mutable()
	key := symKey{from: at, to: at}
	if n, ok := f.symNodes[key]; ok {
		return n
	}
	n := &SymbolNode{Extent: gll.Span{at, at}, serial: f.nextSerial()}
	f.symNodes[key] = n
	return n
}

// SymbolNode finds or creates the node for a nonterminal spanning (from…to).
func (f *Forest) SymbolNode(sym *grammar.Symbol, from, to uint64) *SymbolNode {
	f.mutable()
	key := symKey{name: sym.Name, from: from, to: to}
	if n, ok := f.symNodes[key]; ok {
		return n
	}
	n := &SymbolNode{Symbol: sym, Extent: gll.Span{from, to}, serial: f.nextSerial()}
	f.symNodes[key] = n
	return n
}

// Intermediate finds or creates the node for a production prefix, identified
// by the slot behind the prefix, spanning (from…to).
func (f *Forest) Intermediate(slot grammar.Slot, from, to uint64) *IntermediateNode {
	f.mutable()
	key := interKey{prod: slot.Prod, dot: slot.Dot, from: from, to: to}
	if n, ok := f.interNds[key]; ok {
		return n
	}
	n := &IntermediateNode{Slot: slot, Extent: gll.Span{from, to}, serial: f.nextSerial()}
	f.interNds[key] = n
	return n
}

// Pack attaches a derivation to a parent node: production slot, split
// position and the left/right children covering the two halves. Adding a
// derivation already present is a no-op and returns the existing packed
// node; adding a second, different derivation makes the parent ambiguous.
func (f *Forest) Pack(parent Node, slot grammar.Slot, split uint64, left, right Node) *PackedNode {
	f.mutable()
	key := packKey{parent: parent, prod: slot.Prod, dot: slot.Dot, split: split}
	if p, ok := f.packNds[key]; ok {
		return p
	}
	p := &PackedNode{Slot: slot, Split: split, Left: left, Right: right, serial: f.nextSerial()}
	f.packNds[key] = p
	switch n := parent.(type) {
	case *SymbolNode:
		if n.packed == nil {
			n.packed = treeset.NewWith(packedCmp)
		}
		n.packed.Add(p)
		if n.packed.Size() == 2 {
			tracer().Debugf("symbol node %v became ambiguous", n)
		}
	case *IntermediateNode:
		if n.packed == nil {
			n.packed = treeset.NewWith(packedCmp)
		}
		n.packed.Add(p)
	default:
		panic(fmt.Sprintf("sppf: cannot pack into %T", parent))
	}
	return p
}

// FindSymbol returns the node for (symbol, from, to) if the parse created
// one, without creating it.
func (f *Forest) FindSymbol(name string, from, to uint64) *SymbolNode {
	return f.symNodes[symKey{name: name, from: from, to: to}]
}

// SetRoot marks the root symbol node of the forest.
func (f *Forest) SetRoot(n *SymbolNode) {
	f.mutable()
	f.root = n
}

// Root returns the root node of the forest, covering the complete input, or
// nil if the parse did not succeed.
func (f *Forest) Root() *SymbolNode {
	if f == nil {
		return nil
	}
	return f.root
}

// Freeze marks the end of forest construction. A frozen forest is immutable;
// the engine freezes it when it signals parse completion.
func (f *Forest) Freeze() {
	f.frozen = true
}

// Frozen returns true once the parse has completed.
func (f *Forest) Frozen() bool {
	return f.frozen
}

// NodeCount returns the number of symbol and intermediate nodes.
func (f *Forest) NodeCount() int {
	return len(f.symNodes) + len(f.interNds)
}

func (f *Forest) mutable() {
	if f.frozen {
		panic("sppf: forest is frozen, parse has completed")
	}
}

func (f *Forest) nextSerial() int {
	f.serials++
	return f.serials
}
