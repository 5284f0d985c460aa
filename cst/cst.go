/*
Package cst derives concrete syntax trees from parse forests.

A parse forest (package sppf) may encode more than one derivation for parts
of the input. Extraction walks the forest top-down and, wherever more than
one derivation is packed into a node, asks a disambiguation policy to pick
one. The default policy prefers the production listed first in the grammar
and, among derivations of the same production, the one binding the most
input to the left. A strict policy refuses to pick and surfaces every
ambiguity as an error.

The resulting tree mirrors the grammar: interior nodes carry the
nonterminal and the index of the production that matched, leaves are tokens
(including trivia like whitespace, which AST lowering drops later; see
package ast). Concatenating the leaf lexemes left to right reproduces the
parsed input exactly.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cst

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/gll"
	"github.com/npillmayer/gll/sppf"
)

// tracer traces with key 'gll.cst'.
func tracer() tracing.Trace {
	return tracing.Select("gll.cst")
}

// Node is an interior node of a concrete syntax tree. It remembers which
// production of its nonterminal matched, by position within the grammar's
// list of alternatives for that nonterminal.
type Node struct {
	Nonterm  string   // nonterminal this node derives
	Alt      int      // index of the matched production among the nonterminal's alternatives
	Extent   gll.Span // input positions covered
	Children []Child  // sub-trees and tokens, in input order
}

// Child is an element of a CST node's child list: either a *Node or a
// gll.Token.
type Child interface {
	Span() gll.Span
}

// Span returns the input positions the subtree covers.
func (n *Node) Span() gll.Span {
	return n.Extent
}

func (n *Node) String() string {
	return fmt.Sprintf("%s.%d%v", n.Nonterm, n.Alt, n.Extent)
}

// Sexpr returns a bracketed one-line rendering of the subtree, with tokens
// as quoted lexemes. Intended for debugging and tests.
func (n *Node) Sexpr() string {
	var sb strings.Builder
	n.sexpr(&sb)
	return sb.String()
}

func (n *Node) sexpr(sb *strings.Builder) {
	sb.WriteByte('(')
	sb.WriteString(n.Nonterm)
	for _, ch := range n.Children {
		sb.WriteByte(' ')
		switch c := ch.(type) {
		case *Node:
			c.sexpr(sb)
		case gll.Token:
			sb.WriteString(strconv.Quote(c.Lexeme))
		}
	}
	sb.WriteByte(')')
}

// Extract derives a concrete syntax tree from a parse forest, using policy
// to settle ambiguities (nil means PreferFirst). It fails with an
// *AmbiguityError if the policy leaves an ambiguity unresolved, i.e.
// returns 0 for a pair of candidate derivations neither of which beats all
// others.
//
// Forests of cyclic grammars (A ::= A | …) contain derivations that would
// unfold into an infinite tree. Extraction skips those in favor of the next
// candidate under the policy; the result is always a finite tree.
func Extract(forest *sppf.Forest, policy Policy) (*Node, error) {
	if forest == nil || forest.Root() == nil {
		return nil, fmt.Errorf("cannot extract a tree from an empty forest")
	}
	if policy == nil {
		policy = PreferFirst
	}
	x := &extractor{
		policy: policy,
		memo:   map[*sppf.SymbolNode]*Node{},
		active: map[*sppf.SymbolNode]bool{},
	}
	n, err := x.symbol(forest.Root())
	if errors.Is(err, errCyclicDerivation) {
		return nil, fmt.Errorf("cannot extract a tree: every derivation of the root is cyclic")
	}
	return n, err
}

// errCyclicDerivation aborts the spine under a packed candidate that loops
// back into a node currently being extracted. The owning node falls back to
// its next candidate.
var errCyclicDerivation = errors.New("derivation is cyclic")

// extractor holds per-extraction state. Symbol nodes are memoized, so shared
// sub-derivations turn into shared sub-trees and extraction stays linear in
// the size of the forest. active is the set of symbol nodes on the current
// extraction path, used to detect cyclic derivations.
type extractor struct {
	policy Policy
	memo   map[*sppf.SymbolNode]*Node
	active map[*sppf.SymbolNode]bool
}

func (x *extractor) symbol(sn *sppf.SymbolNode) (*Node, error) {
	if n, ok := x.memo[sn]; ok {
		return n, nil
	}
	if x.active[sn] {
		return nil, errCyclicDerivation
	}
	x.active[sn] = true
	defer delete(x.active, sn)
	pn, children, err := x.derive(sn.Symbol.Name, sn.Extent, sn.PackedChildren())
	if err != nil {
		return nil, err
	}
	n := &Node{
		Nonterm:  sn.Symbol.Name,
		Alt:      pn.Slot.Prod.Alt,
		Extent:   sn.Extent,
		Children: children,
	}
	x.memo[sn] = n
	return n, nil
}

// spine collects the children of one derivation in input order, flattening
// the binarized encoding of the forest back into an n-ary child list.
func (x *extractor) spine(pn *sppf.PackedNode) ([]Child, error) {
	var kids []Child
	if pn.Left != nil {
		left, err := x.lower(pn.Left)
		if err != nil {
			return nil, err
		}
		kids = left
	}
	right, err := x.lower(pn.Right)
	if err != nil {
		return nil, err
	}
	return append(kids, right...), nil
}

func (x *extractor) lower(n sppf.Node) ([]Child, error) {
	switch v := n.(type) {
	case *sppf.IntermediateNode:
		_, children, err := x.derive(v.Slot.Prod.LHS, v.Extent, v.PackedChildren())
		return children, err
	case *sppf.SymbolNode:
		if v.IsEpsilon() {
			return nil, nil
		}
		if v.IsTerminal() {
			tok := gll.Token{
				Name:   v.Symbol.Name,
				Lexeme: v.Lexeme(),
				Extent: v.Extent,
				Trivia: v.Symbol.IsTrivia(),
			}
			return []Child{tok}, nil
		}
		sub, err := x.symbol(v)
		if err != nil {
			return nil, err
		}
		return []Child{sub}, nil
	}
	return nil, fmt.Errorf("unexpected forest node %v", n)
}

// derive picks one derivation from the packed children of a forest node and
// collects its children. Candidates are tried in policy order; a candidate
// whose spine loops back into a node currently being extracted is skipped,
// as it would unfold into an infinite tree. A tie between the two best
// remaining candidates is an unresolved ambiguity.
func (x *extractor) derive(symbol string, span gll.Span, packed []*sppf.PackedNode) (*sppf.PackedNode, []Child, error) {
	if len(packed) == 0 {
		if gconf.GetBool("panic-on-lost-derivation") {
			panic(fmt.Sprintf("forest node for %s at %v has no derivation", symbol, span))
		}
		return nil, nil, fmt.Errorf("forest node for %s at %v has no derivation", symbol, span)
	}
	ordered := make([]*sppf.PackedNode, len(packed))
	copy(ordered, packed)
	sort.SliceStable(ordered, func(i, j int) bool {
		return x.policy(candidate(ordered[i]), candidate(ordered[j])) < 0
	})
	for i, pn := range ordered {
		if i+1 < len(ordered) && x.policy(candidate(pn), candidate(ordered[i+1])) == 0 {
			tracer().Infof("unresolved ambiguity for %s at %v", symbol, span)
			return nil, nil, &AmbiguityError{Symbol: symbol, Span: span}
		}
		children, err := x.spine(pn)
		if errors.Is(err, errCyclicDerivation) {
			tracer().Debugf("derivation %d of %s at %v loops, falling back", i, symbol, span)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if len(ordered) > 1 {
			tracer().Debugf("ambiguity for %s at %v settled on alternative %d", symbol, span,
				pn.Slot.Prod.Alt)
		}
		return pn, children, nil
	}
	return nil, nil, errCyclicDerivation
}

func candidate(pn *sppf.PackedNode) Candidate {
	return Candidate{Alt: pn.Slot.Prod.Alt, Split: pn.Split}
}
