package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/gll/grammar"
)

// E ::= E + num | num
func leftRecursiveGrammar(t *testing.T) *grammar.Grammar {
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

func TestParseLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.parser")
	defer teardown()
	g := leftRecursiveGrammar(t)
	forest, err := NewParser(g).Parse("1+2+3")
	if err != nil {
		t.Fatalf("input should parse, but: %v", err)
	}
	forest.Dump()
	root := forest.Root()
	if root == nil || root.Symbol.Name != "E" {
		t.Fatalf("forest root expected to derive E, is %v", root)
	}
	if root.Extent.From() != 0 || root.Extent.To() != 5 {
		t.Errorf("root expected to cover the complete input, covers %v", root.Extent)
	}
	if root.IsAmbiguous() {
		t.Error("sum grammar is unambiguous, root should have a single derivation")
	}
	if !forest.Frozen() {
		t.Error("forest expected to be frozen after a completed parse")
	}
}

func TestParseAmbiguity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.parser")
	defer teardown()
	b := grammar.NewBuilder("G")
	b.LHS("S").N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").L("a").End()
	b.LHS("B").L("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	forest, err := NewParser(g).Parse("a")
	if err != nil {
		t.Fatalf("input should parse, but: %v", err)
	}
	root := forest.Root()
	if !root.IsAmbiguous() {
		t.Error("S derives the input via A and via B, root should be ambiguous")
	}
	if len(root.PackedChildren()) != 2 {
		t.Errorf("root expected to hold 2 derivations, holds %d", len(root.PackedChildren()))
	}
}

func TestParseFailureDiagnostics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.parser")
	defer teardown()
	b := grammar.NewBuilder("G")
	b.LHS("S").L("a").L("b").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	if _, err := NewParser(g).Parse("ab"); err != nil {
		t.Fatalf("input should parse, but: %v", err)
	}
	_, err = NewParser(g).Parse("ac")
	if err == nil {
		t.Fatal("mismatching input expected to be rejected")
	}
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error expected to be a *Failure, is %T", err)
	}
	if failure.Position != 1 {
		t.Errorf("failure expected at position 1, reported at %d", failure.Position)
	}
	if len(failure.Expected) != 1 || failure.Expected[0] != `"b"` {
		t.Errorf("failure expected to list terminal \"b\", lists %v", failure.Expected)
	}
}

func TestParseTrailingInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.parser")
	defer teardown()
	b := grammar.NewBuilder("G")
	b.LHS("S").L("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	_, err = NewParser(g).Parse("ab")
	if err == nil {
		t.Fatal("input with trailing text expected to be rejected")
	}
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error expected to be a *Failure, is %T", err)
	}
	if failure.Position != 1 {
		t.Errorf("failure expected at the end of the matched prefix (1), reported at %d",
			failure.Position)
	}
	if len(failure.Expected) != 1 || failure.Expected[0] != "end of input" {
		t.Errorf("failure expected to ask for end of input, asks for %v", failure.Expected)
	}
}

func TestParseEpsilonProduction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.parser")
	defer teardown()
	b := grammar.NewBuilder("G")
	b.LHS("S").N("A").L("b").End()
	b.LHS("A").L("a").End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	for _, input := range []string{"ab", "b"} {
		if _, err := NewParser(g).Parse(input); err != nil {
			t.Errorf("input %q should parse, but: %v", input, err)
		}
	}
	if _, err := NewParser(g).Parse(""); err == nil {
		t.Error("empty input expected to be rejected, S always derives b")
	}
}

func TestParseEmptyInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.parser")
	defer teardown()
	b := grammar.NewBuilder("G")
	b.LHS("S").L("a").End()
	b.LHS("S").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	forest, err := NewParser(g).Parse("")
	if err != nil {
		t.Fatalf("nullable start symbol should accept empty input, but: %v", err)
	}
	if forest.Root().Extent.Len() != 0 {
		t.Errorf("root expected to cover the empty span, covers %v", forest.Root().Extent)
	}
}

func TestParserIsSingleUse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.parser")
	defer teardown()
	g := leftRecursiveGrammar(t)
	p := NewParser(g)
	if _, err := p.Parse("1"); err != nil {
		t.Fatalf("input should parse, but: %v", err)
	}
	if _, err := p.Parse("2"); err == nil {
		t.Error("re-using a parser instance expected to be rejected")
	}
}

func TestParseDeadline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.parser")
	defer teardown()
	b := grammar.NewBuilder("G") // highly ambiguous
	b.LHS("E").N("E").N("E").End()
	b.LHS("E").L("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	p := NewParser(g, Deadline(time.Now().Add(-time.Second)))
	_, err = p.Parse(strings.Repeat("a", 64))
	if err == nil {
		t.Fatal("parse expected to be abandoned at the deadline")
	}
	var failure *Failure
	if errors.As(err, &failure) {
		t.Error("deadline abort expected to be distinct from a syntax error")
	}
}
