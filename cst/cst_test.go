package cst

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/tools/txtar"

	"github.com/npillmayer/gll"
	"github.com/npillmayer/gll/grammar"
	"github.com/npillmayer/gll/parser"
)

// E ::= E + num | num
func sumGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("Sums")
	b.LHS("E").N("E").L("+").T("num", grammar.MustClass("0-9")).End()
	b.LHS("E").T("num", grammar.MustClass("0-9")).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	return g
}

// S ::= A | B ,  A ::= a ,  B ::= a
func ambiguousGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("G")
	b.LHS("S").N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").L("a").End()
	b.LHS("B").L("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	return g
}

func parse(t *testing.T, g *grammar.Grammar, input string) *Node {
	t.Helper()
	forest, err := parser.NewParser(g).Parse(input)
	if err != nil {
		t.Fatalf("input %q should parse, but: %v", input, err)
	}
	tree, err := Extract(forest, nil)
	if err != nil {
		t.Fatalf("tree extraction for %q failed: %v", input, err)
	}
	return tree
}

func TestExtractLeftAssociative(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.cst")
	defer teardown()
	tree := parse(t, sumGrammar(t), "1+2+3")
	want := `(E (E (E "1") "+" "2") "+" "3")`
	if tree.Sexpr() != want {
		t.Errorf("sums expected to nest to the left:\nwant %s\nhave %s", want, tree.Sexpr())
	}
}

func TestExtractPrefersFirstAlternative(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.cst")
	defer teardown()
	g := ambiguousGrammar(t)
	tree := parse(t, g, "a")
	if tree.Alt != 0 {
		t.Errorf("default policy expected to pick alternative 0, picked %d", tree.Alt)
	}
	child, ok := tree.Children[0].(*Node)
	if !ok || child.Nonterm != "A" {
		t.Errorf("derivation expected to run through A, is %v", tree.Children[0])
	}
}

func TestExtractStrict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.cst")
	defer teardown()
	g := ambiguousGrammar(t)
	forest, err := parser.NewParser(g).Parse("a")
	if err != nil {
		t.Fatalf("input should parse, but: %v", err)
	}
	_, err = Extract(forest, Strict)
	if err == nil {
		t.Fatal("strict extraction of an ambiguous parse expected to fail")
	}
	var amb *AmbiguityError
	if !errors.As(err, &amb) {
		t.Fatalf("error expected to be an *AmbiguityError, is %T", err)
	}
	if amb.Symbol != "S" || amb.Span != (gll.Span{0, 1}) {
		t.Errorf("ambiguity expected to be reported for S over (0…1), is %v at %v",
			amb.Symbol, amb.Span)
	}
}

func TestExtractSkipsCyclicDerivation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.cst")
	defer teardown()
	b := grammar.NewBuilder("G") // A derives itself
	b.LHS("A").N("A").End()
	b.LHS("A").L("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	forest, err := parser.NewParser(g).Parse("a")
	if err != nil {
		t.Fatalf("input should parse, but: %v", err)
	}
	if !forest.Root().IsAmbiguous() {
		t.Fatal("A derives the input directly and via itself, root should be ambiguous")
	}
	tree, err := Extract(forest, nil)
	if err != nil {
		t.Fatalf("tree extraction failed: %v", err)
	}
	if tree.Alt != 1 {
		t.Errorf("self-derivation expected to be skipped in favor of alternative 1, picked %d",
			tree.Alt)
	}
	if want := `(A "a")`; tree.Sexpr() != want {
		t.Errorf("tree expected to be %s, is %s", want, tree.Sexpr())
	}
	seen := map[*Node]bool{}
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if seen[n] {
			return false
		}
		seen[n] = true
		defer delete(seen, n)
		for _, ch := range n.Children {
			if sub, ok := ch.(*Node); ok && !walk(sub) {
				return false
			}
		}
		return true
	}
	if !walk(tree) {
		t.Error("extracted tree contains a node that is its own descendant")
	}
	if _, err := Extract(forest, Strict); err == nil {
		t.Error("strict extraction of a cyclic forest expected to fail")
	}
}

func collectLexemes(n *Node, lexemes []string) []string {
	for _, ch := range n.Children {
		switch c := ch.(type) {
		case *Node:
			lexemes = collectLexemes(c, lexemes)
		case gll.Token:
			lexemes = append(lexemes, c.Lexeme)
		}
	}
	return lexemes
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.cst")
	defer teardown()
	b := grammar.NewBuilder("Sums")
	b.LHS("E").N("E").T("op", grammar.Punct()).T("num", grammar.Literal()).End()
	b.LHS("E").T("num", grammar.Literal()).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	input := "1 + 2 +3" // matchers absorb the layout into the lexemes
	tree := parse(t, g, input)
	joined := strings.Join(collectLexemes(tree, nil), "")
	if joined != input {
		t.Errorf("leaf lexemes expected to reproduce the input %q, produce %q", input, joined)
	}
}

func TestExtractCorpus(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.cst")
	defer teardown()
	b := grammar.NewBuilder("Expr")
	b.LHS("E").N("E").L("+").N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").N("T").L("*").N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("F").T("num", grammar.MustClass("0-9")).End()
	b.LHS("F").L("(").N("E").L(")").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	archive, err := txtar.ParseFile("testdata/expr.txtar")
	if err != nil {
		t.Fatalf("cannot read corpus: %v", err)
	}
	for _, f := range archive.Files {
		input := strings.TrimSpace(f.Name)
		want := strings.TrimSpace(string(f.Data))
		tree := parse(t, g, input)
		if tree.Sexpr() != want {
			t.Errorf("tree for %q:\nwant %s\nhave %s", input, want, tree.Sexpr())
		}
	}
}
