package sppf

import (
	"github.com/emirpasic/gods/sets/treeset"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Dump is a debugging helper. It traces every node of the forest at debug
// level, in creation order.
func (f *Forest) Dump() {
	tracer().Debugf("--- forest: %d nodes ------------------------", f.NodeCount())
	syms := maps.Values(f.symNodes)
	slices.SortFunc(syms, func(a, b *SymbolNode) bool { return a.serial < b.serial })
	for _, n := range syms {
		if n.IsTerminal() {
			tracer().Debugf("[%4d] %v %q", n.serial, n, n.lexeme)
			continue
		}
		tracer().Debugf("[%4d] %v", n.serial, n)
		dumpPacked(n.packed)
	}
	inters := maps.Values(f.interNds)
	slices.SortFunc(inters, func(a, b *IntermediateNode) bool { return a.serial < b.serial })
	for _, n := range inters {
		tracer().Debugf("[%4d] %v", n.serial, n)
		dumpPacked(n.packed)
	}
	tracer().Debugf("---------------------------------------------")
}

func dumpPacked(set *treeset.Set) {
	for _, p := range packedChildren(set) {
		left := "·"
		if p.Left != nil {
			left = p.Left.String()
		}
		tracer().Debugf("        %v: %s %s", p, left, p.Right)
	}
}
