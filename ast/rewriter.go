/*
Package ast lowers concrete syntax trees to application ASTs.

Clients register one transform per grammar production, keyed by the
production's nonterminal and its index among the nonterminal's alternatives.
The rewriter walks a CST bottom-up, lowers every child first, drops trivia
tokens (whitespace, comments), and hands the node plus the lowered children
to the matching transform. What a transform returns is entirely up to the
client: an expression value, an IR node, whatever the application calls an
AST.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/gll"
	"github.com/npillmayer/gll/cst"
	"github.com/npillmayer/gll/grammar"
)

// tracer traces with key 'gll.ast'.
func tracer() tracing.Trace {
	return tracing.Select("gll.ast")
}

// RuleKey identifies one production of a grammar: the nonterminal it derives
// and its position among the nonterminal's alternatives.
type RuleKey struct {
	Nonterm string
	Alt     int
}

// Transform lowers one CST node. The children slice holds the already
// lowered children in input order, with trivia tokens removed: transform
// results for nonterminal children, gll.Token values for terminal ones.
type Transform func(node *cst.Node, children []interface{}) (interface{}, error)

// Rewriter maps productions of a grammar to transforms. The zero value is
// not usable; create rewriters with NewRewriter.
type Rewriter struct {
	g     *grammar.Grammar
	table map[RuleKey]Transform
}

// NewRewriter creates a rewriter for CSTs parsed with the given grammar.
func NewRewriter(g *grammar.Grammar) *Rewriter {
	return &Rewriter{
		g:     g,
		table: map[RuleKey]Transform{},
	}
}

// Register attaches a transform to one production. Registering a production
// the grammar does not have is an error, as is registering one twice.
func (rw *Rewriter) Register(nonterm string, alt int, t Transform) error {
	if alt < 0 || alt >= len(rw.g.Productions(nonterm)) {
		return fmt.Errorf("grammar %s has no production %s.%d", rw.g.Name, nonterm, alt)
	}
	key := RuleKey{Nonterm: nonterm, Alt: alt}
	if _, ok := rw.table[key]; ok {
		return fmt.Errorf("transform for %s.%d registered twice", nonterm, alt)
	}
	rw.table[key] = t
	return nil
}

// MustRegister is Register for statically known productions; it panics on
// error.
func (rw *Rewriter) MustRegister(nonterm string, alt int, t Transform) {
	if err := rw.Register(nonterm, alt, t); err != nil {
		panic(err)
	}
}

// Rewrite lowers a CST bottom-up. Children are lowered before their parent,
// trivia tokens are dropped, and each node is dispatched to the transform
// registered for its production. Nodes without a registered transform make
// the rewrite fail with an *UnhandledProductionError.
func (rw *Rewriter) Rewrite(root *cst.Node) (interface{}, error) {
	return rw.lower(root)
}

func (rw *Rewriter) lower(n *cst.Node) (interface{}, error) {
	key := RuleKey{Nonterm: n.Nonterm, Alt: n.Alt}
	t, ok := rw.table[key]
	if !ok {
		tracer().Infof("no transform for %s.%d", n.Nonterm, n.Alt)
		return nil, &UnhandledProductionError{
			Nonterm: n.Nonterm,
			Alt:     n.Alt,
			Span:    n.Extent,
		}
	}
	children := make([]interface{}, 0, len(n.Children))
	for _, ch := range n.Children {
		switch c := ch.(type) {
		case *cst.Node:
			sub, err := rw.lower(c)
			if err != nil {
				return nil, err
			}
			children = append(children, sub)
		case gll.Token:
			if c.Trivia {
				continue
			}
			children = append(children, c)
		}
	}
	return t(n, children)
}

// UnhandledProductionError is returned by Rewrite when a CST node's
// production has no registered transform.
type UnhandledProductionError struct {
	Nonterm string
	Alt     int
	Span    gll.Span
}

func (e *UnhandledProductionError) Error() string {
	return fmt.Sprintf("no transform registered for production %s.%d at %v",
		e.Nonterm, e.Alt, e.Span)
}
