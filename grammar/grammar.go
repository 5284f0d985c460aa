/*
Package grammar holds the static grammar model consumed by the GLL engine:
nonterminals, productions and terminal matchers. Grammars are constructed
through a builder and validated on construction. Once built, a grammar is
read-only; productions of a nonterminal are kept in declaration order, which
later determines disambiguation precedence during CST extraction.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"bytes"
	"fmt"

	"github.com/cnf/structhash"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gll.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("gll.grammar")
}

// --- Symbols ----------------------------------------------------------

// Symbol is a grammar symbol, either a terminal or a nonterminal. Terminals
// carry a Matcher; nonterminals are identified by name only.
type Symbol struct {
	Name    string
	matcher Matcher // nil ⇒ nonterminal
	trivia  bool
}

// IsTerminal returns true for terminal symbols.
func (sym *Symbol) IsTerminal() bool {
	return sym.matcher != nil
}

// IsTrivia returns true for terminals flagged as pure layout (whitespace,
// comments). Trivia tokens are kept in the CST but dropped during AST lowering.
func (sym *Symbol) IsTrivia() bool {
	return sym.trivia
}

// Matcher returns the terminal matcher, or nil for nonterminals.
func (sym *Symbol) Matcher() Matcher {
	return sym.matcher
}

func (sym *Symbol) String() string {
	if sym == nil {
		return "<nil>"
	}
	if sym.IsTerminal() {
		return sym.Name
	}
	return "[" + sym.Name + "]"
}

// --- Productions ------------------------------------------------------

// Production is a grammar production
//
//	LHS ::= X1 … Xn
//
// with X being terminals or nonterminals. Serial numbers productions globally
// over the grammar; Alt is the position among the alternatives of LHS and is
// the key for disambiguation ordering and AST-rule dispatch.
type Production struct {
	LHS    string
	Serial int
	Alt    int
	rhs    []*Symbol
}

// RHS returns the right-hand side of the production.
func (p *Production) RHS() []*Symbol {
	return p.rhs
}

// IsEpsilon returns true for empty productions.
func (p *Production) IsEpsilon() bool {
	return len(p.rhs) == 0
}

func (p *Production) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s ::= [", p.LHS)
	for i, sym := range p.rhs {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sym.Name)
	}
	b.WriteString("]")
	return b.String()
}

// --- Slots ------------------------------------------------------------

// Slot is a grammar position: a production with a dot between RHS symbols.
// Slots identify positions of GSS nodes and descriptors during a parse, and
// label intermediate nodes of the parse forest.
type Slot struct {
	Prod *Production
	Dot  int
}

// PeekSymbol returns the symbol right after the dot, or nil if the dot is at
// the end of the production.
func (s Slot) PeekSymbol() *Symbol {
	if s.Dot < len(s.Prod.rhs) {
		return s.Prod.rhs[s.Dot]
	}
	return nil
}

// Advance moves the dot one symbol to the right.
func (s Slot) Advance() Slot {
	return Slot{Prod: s.Prod, Dot: s.Dot + 1}
}

// EndOfRule returns true if the dot sits behind the complete RHS.
func (s Slot) EndOfRule() bool {
	return s.Dot >= len(s.Prod.rhs)
}

func (s Slot) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s ::= ", s.Prod.LHS)
	for i, sym := range s.Prod.rhs {
		if i == s.Dot {
			b.WriteString("∙")
		}
		b.WriteString(sym.Name)
		if i+1 < len(s.Prod.rhs) {
			b.WriteString(" ")
		}
	}
	if s.EndOfRule() {
		b.WriteString("∙")
	}
	return b.String()
}

// --- Grammars ---------------------------------------------------------

// Grammar is a validated, read-only grammar model. Create one with a Builder.
type Grammar struct {
	Name         string
	start        string
	prods        []*Production
	byLHS        map[string][]*Production
	terminals    map[string]*Symbol
	nonterminals map[string]*Symbol
	fingerprint  string
}

// Start returns the name of the start nonterminal.
func (g *Grammar) Start() string {
	return g.start
}

// Productions returns the alternatives for a nonterminal, in declaration
// order. The order determines disambiguation precedence.
func (g *Grammar) Productions(nonterm string) []*Production {
	return g.byLHS[nonterm]
}

// Production returns a production by its serial number.
func (g *Grammar) Production(serial int) *Production {
	if serial < 0 || serial >= len(g.prods) {
		return nil
	}
	return g.prods[serial]
}

// Size returns the total number of productions.
func (g *Grammar) Size() int {
	return len(g.prods)
}

// SymbolByName returns the symbol with a given name, or nil.
func (g *Grammar) SymbolByName(name string) *Symbol {
	if sym, ok := g.nonterminals[name]; ok {
		return sym
	}
	return g.terminals[name]
}

// EachNonTerminal iterates over all nonterminals of the grammar, applying a
// mapper function. Iteration order is the declaration order of the first
// production of each nonterminal.
func (g *Grammar) EachNonTerminal(mapper func(name string, sym *Symbol) interface{}) {
	seen := map[string]bool{}
	for _, p := range g.prods {
		if seen[p.LHS] {
			continue
		}
		seen[p.LHS] = true
		mapper(p.LHS, g.nonterminals[p.LHS])
	}
}

// Fingerprint returns a stable hash over the grammar's structure. Forests
// record it so that CST extraction can detect a grammar/forest mismatch.
func (g *Grammar) Fingerprint() string {
	return g.fingerprint
}

// Dump is a debugging helper, tracing all productions of the grammar.
func (g *Grammar) Dump() {
	tracer().Debugf("grammar %q, start symbol [%s]", g.Name, g.start)
	for _, p := range g.prods {
		tracer().Debugf("%3d: %v", p.Serial, p)
	}
}

// signature is the structure hashed for Fingerprint. Matchers do not
// contribute beyond their pattern strings.
type signature struct {
	Name  string
	Start string
	Prods []string
}

func fingerprint(g *Grammar) string {
	sig := signature{Name: g.Name, Start: g.start}
	for _, p := range g.prods {
		s := p.String()
		for _, sym := range p.rhs {
			if sym.IsTerminal() {
				s += "|" + sym.Matcher().Pattern()
			}
		}
		sig.Prods = append(sig.Prods, s)
	}
	hash, err := structhash.Hash(sig, 1)
	if err != nil {
		tracer().Errorf("cannot fingerprint grammar: %v", err)
		return ""
	}
	return hash
}
