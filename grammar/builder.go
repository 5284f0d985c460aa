package grammar

import "fmt"

// Builder is a builder object for grammars. Clients add productions,
// consisting of nonterminal and terminal symbols, and finally call
// Builder.Grammar(), which validates the model.
//
// Example:
//
//	b := grammar.NewBuilder("Expr")
//	b.LHS("E").N("E").L("+").N("T").End() //  E ::= E + T
//	b.LHS("E").N("T").End()               //  E ::= T
//	b.LHS("T").T("num", grammar.Literal()).End()
//	g, err := b.Grammar()
//
// The first production's LHS becomes the start symbol, unless overridden
// with SetStart.
type Builder struct {
	name         string
	start        string
	prods        []*Production
	terminals    map[string]*Symbol
	nonterminals map[string]*Symbol
	err          *Error
}

// NewBuilder creates a grammar builder for a grammar with a given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:         name,
		terminals:    map[string]*Symbol{},
		nonterminals: map[string]*Symbol{},
	}
}

// SetStart overrides the start symbol, which otherwise defaults to the LHS
// of the first production added.
func (b *Builder) SetStart(nonterm string) *Builder {
	b.start = nonterm
	return b
}

// LHS starts a new production for a nonterminal.
func (b *Builder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{b: b, lhs: name}
}

func (b *Builder) nonterminal(name string) *Symbol {
	if sym, ok := b.nonterminals[name]; ok {
		return sym
	}
	if _, clash := b.terminals[name]; clash && b.err == nil {
		b.err = grammarError(b.name, name, "name used for both a terminal and a nonterminal")
	}
	sym := &Symbol{Name: name}
	b.nonterminals[name] = sym
	return sym
}

func (b *Builder) terminal(name string, m Matcher, trivia bool) *Symbol {
	if sym, ok := b.terminals[name]; ok {
		if sym.matcher.Pattern() != m.Pattern() && b.err == nil {
			b.err = grammarError(b.name, name, "terminal redefined with a different pattern")
		}
		return sym
	}
	if _, clash := b.nonterminals[name]; clash && b.err == nil {
		b.err = grammarError(b.name, name, "name used for both a terminal and a nonterminal")
	}
	sym := &Symbol{Name: name, matcher: m, trivia: trivia}
	b.terminals[name] = sym
	return sym
}

// Grammar validates the collected productions and returns the grammar model.
// It fails with a *grammar.Error if a referenced nonterminal is undefined or
// the start symbol is missing.
func (b *Builder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.prods) == 0 {
		return nil, grammarError(b.name, "", "grammar has no productions")
	}
	g := &Grammar{
		Name:         b.name,
		start:        b.start,
		prods:        b.prods,
		byLHS:        map[string][]*Production{},
		terminals:    b.terminals,
		nonterminals: b.nonterminals,
	}
	if g.start == "" {
		g.start = b.prods[0].LHS
	}
	for serial, p := range b.prods {
		p.Serial = serial
		p.Alt = len(g.byLHS[p.LHS])
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], p)
	}
	if _, ok := g.byLHS[g.start]; !ok {
		return nil, grammarError(b.name, g.start, "start symbol has no productions")
	}
	for _, p := range b.prods {
		for _, sym := range p.rhs {
			if sym.IsTerminal() {
				continue
			}
			if _, ok := g.byLHS[sym.Name]; !ok {
				return nil, grammarError(b.name, sym.Name,
					"nonterminal referenced in %q but never defined", p.String())
			}
		}
	}
	g.fingerprint = fingerprint(g)
	tracer().P("grammar", g.Name).Debugf("grammar has %d productions", len(g.prods))
	return g, nil
}

// RuleBuilder represents a production under construction.
type RuleBuilder struct {
	b   *Builder
	lhs string
	rhs []*Symbol
}

// N appends a nonterminal to the RHS of the production.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.b.nonterminal(name))
	return rb
}

// L appends a literal terminal to the RHS of the production. The literal
// itself serves as the terminal's name.
func (rb *RuleBuilder) L(lit string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.b.terminal(fmt.Sprintf("%q", lit), Lit(lit), false))
	return rb
}

// T appends a named terminal with an explicit matcher to the RHS of the
// production.
func (rb *RuleBuilder) T(name string, m Matcher) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.b.terminal(name, m, false))
	return rb
}

// Trivia appends a terminal flagged as trivia to the RHS of the production.
// Trivia terminals match layout (whitespace runs, comments); they stay in the
// CST but are dropped during AST lowering.
func (rb *RuleBuilder) Trivia(name string, m Matcher) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.b.terminal(name, m, true))
	return rb
}

// End finishes the production and hands it to the builder.
func (rb *RuleBuilder) End() *Production {
	p := &Production{LHS: rb.lhs, rhs: rb.rhs}
	rb.b.nonterminal(rb.lhs)
	rb.b.prods = append(rb.b.prods, p)
	return p
}

// Epsilon finishes the production as an empty production.
func (rb *RuleBuilder) Epsilon() *Production {
	if len(rb.rhs) > 0 && rb.b.err == nil {
		rb.b.err = grammarError(rb.b.name, rb.lhs, "Epsilon() on a non-empty production")
	}
	rb.rhs = nil
	return rb.End()
}
