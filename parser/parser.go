/*
Package parser implements a generalized-LL (GLL) parser.

The parser handles arbitrary context-free grammars, including left-recursive
and ambiguous ones, in polynomial time and space, and runs in linear time on
LL-parsable inputs. It follows the scheme of Scott & Johnstone: parsing state
is a worklist of descriptors over a graph-structured stack (GSS), and every
match is recorded in a shared packed parse forest (see package sppf).

The parser works scannerless: terminal symbols carry matchers (package
grammar) which are probed directly against the input text. A parser instance
is good for exactly one parse; create a fresh one per input.

Usage

	b := grammar.NewBuilder("Expr")
	b.LHS("E").N("E").L("+").N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").T("num", grammar.Literal()).End()
	g, _ := b.Grammar()

	p := parser.NewParser(g)
	forest, err := p.Parse("1+2+3")

On success, forest.Root() covers the complete input. On a non-match, err is
a *parser.Failure carrying furthest-failure diagnostics.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"fmt"
	"time"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/gll/grammar"
	"github.com/npillmayer/gll/sppf"
)

// tracer traces with key 'gll.parser'.
func tracer() tracing.Trace {
	return tracing.Select("gll.parser")
}

// checkEvery is the number of worklist iterations between deadline checks.
const checkEvery = 1024

// descriptor is a unit of pending work: continue parsing at grammar position
// slot, in GSS context node, at input position pos, with w holding the
// derivation of the production prefix before slot.
type descriptor struct {
	slot grammar.Slot
	node *gssNode
	pos  uint64
	w    sppf.Node
}

type descKey struct {
	prod *grammar.Production
	dot  int
	node *gssNode
	pos  uint64
	w    sppf.Node
}

// Parser is a GLL parser for one input. Create one with NewParser; a second
// call to Parse on the same instance fails.
type Parser struct {
	g      *grammar.Grammar
	text   string
	forest *sppf.Forest

	work []descriptor
	seen map[descKey]struct{}
	gss  map[gssKey]*gssNode
	u0   *gssNode

	furthest uint64
	expected *treeset.Set // of terminal names

	deadline time.Time
	used     bool
}

// Option configures a parser.
type Option func(p *Parser)

// Deadline makes the parser abandon the parse when the deadline has passed.
// The check happens between worklist iterations; descriptor processing is
// never interrupted mid-way.
func Deadline(t time.Time) Option {
	return func(p *Parser) {
		p.deadline = t
	}
}

// NewParser creates a parser for one parse with the given grammar.
func NewParser(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{
		g:        g,
		forest:   sppf.New(g),
		seen:     map[descKey]struct{}{},
		gss:      map[gssKey]*gssNode{},
		expected: treeset.NewWith(utils.StringComparator),
	}
	p.u0 = &gssNode{} // synthetic GSS root, never popped through
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse matches the grammar against an input text. On success the returned
// forest is frozen and its root covers the complete input. A non-match
// yields a *Failure; the forest is nil then.
//
// State is not carried over between parses: re-parsing requires a fresh
// parser instance.
func (p *Parser) Parse(text string) (*sppf.Forest, error) {
	if p.used {
		return nil, fmt.Errorf("parser instances are single-use; create a new one per parse")
	}
	p.used = true
	p.text = text
	tracer().P("grammar", p.g.Name).Debugf("parsing %d bytes of input", len(text))
	for _, alt := range p.g.Productions(p.g.Start()) {
		p.add(grammar.Slot{Prod: alt}, p.u0, 0, nil)
	}
	iterations := 0
	for len(p.work) > 0 {
		iterations++
		if !p.deadline.IsZero() && iterations%checkEvery == 0 && time.Now().After(p.deadline) {
			return nil, fmt.Errorf("parse abandoned after %d descriptors: deadline exceeded", iterations)
		}
		d := p.work[len(p.work)-1]
		p.work = p.work[:len(p.work)-1]
		p.process(d)
	}
	tracer().Debugf("worklist drained after %d descriptors, %d GSS nodes, %d forest nodes",
		iterations, len(p.gss), p.forest.NodeCount())
	root := p.forest.FindSymbol(p.g.Start(), 0, uint64(len(text)))
	if root == nil {
		return nil, p.failure()
	}
	p.forest.SetRoot(root)
	p.forest.Freeze()
	return p.forest, nil
}

// process runs one descriptor to its end: terminals are matched in-line,
// the first nonterminal (or the end of the production) ends the descriptor.
func (p *Parser) process(d descriptor) {
	L, u, i, w := d.slot, d.node, d.pos, d.w
	for {
		if L.EndOfRule() {
			if L.Prod.IsEpsilon() {
				w = p.nodeP(L, nil, p.forest.Epsilon(i))
			}
			p.pop(u, i, w)
			return
		}
		sym := L.PeekSymbol()
		if sym.IsTerminal() {
			n, ok := sym.Matcher().Match(p.text, int(i))
			if !ok {
				p.fail(sym, i)
				return
			}
			z := p.forest.Terminal(sym, i, i+uint64(n), p.text[i:i+uint64(n)])
			L = L.Advance()
			w = p.nodeP(L, w, z)
			i += uint64(n)
			continue
		}
		// Nonterminal call: push a GSS node for the return position and
		// schedule every alternative of the callee.
		v := p.create(L.Advance(), u, i, w)
		for _, alt := range p.g.Productions(sym.Name) {
			p.add(grammar.Slot{Prod: alt}, v, i, nil)
		}
		return
	}
}

// add schedules a descriptor unless it has been scheduled before. This is
// what guarantees termination: the number of distinct descriptors is bounded
// by (grammar positions × GSS nodes × input positions).
func (p *Parser) add(L grammar.Slot, u *gssNode, i uint64, w sppf.Node) {
	key := descKey{prod: L.Prod, dot: L.Dot, node: u, pos: i, w: w}
	if _, ok := p.seen[key]; ok {
		return
	}
	p.seen[key] = struct{}{}
	p.work = append(p.work, descriptor{slot: L, node: u, pos: i, w: w})
}

// create finds or creates the GSS node for returning to slot L, called at
// input position i, and links it to the caller's context u with the prefix
// derivation w. If the node has already been popped (left recursion, shared
// call prefixes), the recorded completions are replayed for the new edge.
func (p *Parser) create(L grammar.Slot, u *gssNode, i uint64, w sppf.Node) *gssNode {
	v := p.gssFor(L, i)
	if v.addEdge(u, w) {
		for _, z := range v.pops {
			y := p.nodeP(L, w, z)
			p.add(L, u, z.Span().To(), y)
		}
	}
	return v
}

// pop completes the GSS node u with result z at input position i: every
// caller awaiting this result is resumed with z attached as the latest
// fragment of its path.
func (p *Parser) pop(u *gssNode, i uint64, z sppf.Node) {
	if u == p.u0 || z == nil {
		return
	}
	if !u.recordPop(z) {
		return
	}
	it := u.edges.Iterator()
	for it.Next() {
		e := it.Value().(gssEdge)
		y := p.nodeP(u.slot, e.w, z)
		p.add(u.slot, e.to, i, y)
	}
}

// nodeP is the binarized SPPF construction step. L is the slot right behind
// the symbol that z derives; w derives the production prefix before that
// symbol (nil at the start of a production). While the production is only
// partially matched the result is an intermediate node; reaching the end of
// the rule yields the symbol node for the production's LHS, with the
// derivation attached as a packed child.
func (p *Parser) nodeP(L grammar.Slot, w, z sppf.Node) sppf.Node {
	if L.Dot == 1 && !L.EndOfRule() {
		return z
	}
	from := z.Span().From()
	if w != nil {
		from = w.Span().From()
	}
	to := z.Span().To()
	var parent sppf.Node
	if L.EndOfRule() {
		parent = p.forest.SymbolNode(p.g.SymbolByName(L.Prod.LHS), from, to)
	} else {
		parent = p.forest.Intermediate(L, from, to)
	}
	p.forest.Pack(parent, L, z.Span().From(), w, z)
	return parent
}

// fail records a terminal mismatch for the furthest-failure diagnostic.
func (p *Parser) fail(sym *grammar.Symbol, i uint64) {
	if i < p.furthest {
		return
	}
	if i > p.furthest {
		p.furthest = i
		p.expected.Clear()
	}
	p.expected.Add(sym.Name)
}

func (p *Parser) failure() *Failure {
	// The grammar may have matched a proper prefix of the input without any
	// terminal ever mismatching. The longest completed start-symbol match
	// then marks the furthest progress, and the parse stopped because input
	// was left over.
	for to := uint64(len(p.text)); to > p.furthest; to-- {
		if p.forest.FindSymbol(p.g.Start(), 0, to) == nil {
			continue
		}
		tracer().Infof("no parse: %s matches up to %d, trailing input", p.g.Start(), to)
		return &Failure{
			Grammar:  p.g.Name,
			Position: to,
			Expected: []string{"end of input"},
		}
	}
	expected := make([]string, 0, p.expected.Size())
	it := p.expected.Iterator()
	for it.Next() {
		expected = append(expected, it.Value().(string))
	}
	tracer().Infof("no parse: expected one of %v at %d", expected, p.furthest)
	return &Failure{
		Grammar:  p.g.Name,
		Position: p.furthest,
		Expected: expected,
	}
}
