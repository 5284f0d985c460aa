package parser

import (
	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/npillmayer/gll/grammar"
	"github.com/npillmayer/gll/sppf"
)

// The graph-structured stack (GSS) generalizes the parser's call stack:
// every concurrently active parse path is a walk through the GSS, and paths
// with a common suffix share nodes. A GSS node stands for "return to slot L,
// called at input position k" and is interned per parse: at most one node
// per (slot, position) pair exists at any time.

type gssKey struct {
	prod *grammar.Production
	dot  int
	pos  uint64
}

// gssNode is a node of the graph-structured stack. Edges point to
// predecessor nodes (the callers awaiting this node's result); each edge is
// labeled with the SPPF fragment derived so far on that path. pops records
// the results this node has already been popped with, so that edges added
// later (left recursion, shared prefixes) replay those completions.
type gssNode struct {
	slot  grammar.Slot    // return position within the calling production
	pos   uint64          // input position of the call
	edges *arraylist.List // of gssEdge
	pops  []sppf.Node
}

type gssEdge struct {
	to *gssNode
	w  sppf.Node // derivation consumed so far on this path, may be nil
}

func (p *Parser) gssFor(slot grammar.Slot, pos uint64) *gssNode {
	key := gssKey{prod: slot.Prod, dot: slot.Dot, pos: pos}
	if v, ok := p.gss[key]; ok {
		return v
	}
	v := &gssNode{slot: slot, pos: pos, edges: arraylist.New()}
	p.gss[key] = v
	return v
}

// addEdge links v to its predecessor u, labeled with w. Returns false if the
// edge was already present.
func (v *gssNode) addEdge(u *gssNode, w sppf.Node) bool {
	it := v.edges.Iterator()
	for it.Next() {
		e := it.Value().(gssEdge)
		if e.to == u && e.w == w {
			return false
		}
	}
	v.edges.Add(gssEdge{to: u, w: w})
	return true
}

// recordPop remembers that v has been popped with result z. Returns false if
// this pop was already recorded.
func (v *gssNode) recordPop(z sppf.Node) bool {
	for _, known := range v.pops {
		if known == z {
			return false
		}
	}
	v.pops = append(v.pops, z)
	return true
}
