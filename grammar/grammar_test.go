package grammar

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestBuilderExpressionGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	b := NewBuilder("Expr")
	b.LHS("E").N("E").L("+").N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").T("num", Literal()).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	if g.Start() != "E" {
		t.Errorf("start symbol expected to default to E, is %s", g.Start())
	}
	if g.Size() != 3 {
		t.Errorf("grammar expected to have 3 productions, has %d", g.Size())
	}
	alts := g.Productions("E")
	if len(alts) != 2 {
		t.Fatalf("E expected to have 2 alternatives, has %d", len(alts))
	}
	if alts[0].Alt != 0 || alts[1].Alt != 1 {
		t.Errorf("alternatives of E numbered %d and %d", alts[0].Alt, alts[1].Alt)
	}
	if p := g.Production(2); p == nil || p.LHS != "T" {
		t.Errorf("production #2 expected to derive T, is %v", p)
	}
	var nonterms []string
	g.EachNonTerminal(func(name string, sym *Symbol) interface{} {
		nonterms = append(nonterms, name)
		return nil
	})
	if len(nonterms) != 2 || nonterms[0] != "E" || nonterms[1] != "T" {
		t.Errorf("nonterminals expected to iterate in declaration order, got %v", nonterms)
	}
	g.Dump()
}

func TestBuilderStartOverride(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	b := NewBuilder("G")
	b.SetStart("S")
	b.LHS("A").L("a").End()
	b.LHS("S").N("A").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	if g.Start() != "S" {
		t.Errorf("start symbol expected to be S, is %s", g.Start())
	}
}

func TestBuilderEpsilonProduction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	b := NewBuilder("G")
	b.LHS("S").L("a").N("B").End()
	b.LHS("B").L("b").End()
	b.LHS("B").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	alts := g.Productions("B")
	if len(alts) != 2 || !alts[1].IsEpsilon() {
		t.Errorf("B expected to have an empty second alternative: %v", alts)
	}
}

func TestBuilderRejectsUndefinedNonterminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	b := NewBuilder("G")
	b.LHS("S").N("Ghost").End()
	if _, err := b.Grammar(); err == nil {
		t.Error("grammar with an undefined nonterminal expected to be rejected")
	}
}

func TestBuilderRejectsEmptyGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	if _, err := NewBuilder("G").Grammar(); err == nil {
		t.Error("grammar without productions expected to be rejected")
	}
}

func TestBuilderRejectsStartWithoutProductions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	b := NewBuilder("G")
	b.SetStart("S")
	b.LHS("A").L("a").End()
	b.LHS("S").N("A").End()
	b.SetStart("X")
	if _, err := b.Grammar(); err == nil {
		t.Error("start symbol without productions expected to be rejected")
	}
}

func TestBuilderRejectsConflictingTerminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	b := NewBuilder("G")
	b.LHS("S").T("x", Lit("x")).End()
	b.LHS("S").T("x", Lit("y")).End()
	if _, err := b.Grammar(); err == nil {
		t.Error("terminal redefinition with a different pattern expected to be rejected")
	}
}

func TestBuilderRejectsSymbolKindClash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	b := NewBuilder("G")
	b.LHS("S").N("x").End()
	b.LHS("x").L("x").End()
	b.LHS("S").T("x", Lit("x")).End()
	if _, err := b.Grammar(); err == nil {
		t.Error("name used as terminal and nonterminal expected to be rejected")
	}
}

func TestSlotPrinting(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	b := NewBuilder("Expr")
	p := b.LHS("E").N("E").L("+").N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").T("num", Literal()).End()
	if _, err := b.Grammar(); err != nil {
		t.Fatalf("grammar should be valid, but: %v", err)
	}
	slot := Slot{Prod: p, Dot: 2}
	if s := slot.String(); !strings.Contains(s, "∙") || !strings.HasPrefix(s, "E ::= ") {
		t.Errorf("unexpected slot rendering: %s", s)
	}
	if slot.EndOfRule() {
		t.Error("dot position 2 of 3 should not be end-of-rule")
	}
	if sym := slot.PeekSymbol(); sym == nil || sym.Name != "T" {
		t.Errorf("symbol after dot expected to be T, is %v", sym)
	}
	if !slot.Advance().EndOfRule() {
		t.Error("dot position 3 of 3 should be end-of-rule")
	}
}

func TestFingerprintReflectsStructure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.grammar")
	defer teardown()
	build := func(lit string) *Grammar {
		b := NewBuilder("G")
		b.LHS("S").L(lit).End()
		g, err := b.Grammar()
		if err != nil {
			t.Fatalf("grammar should be valid, but: %v", err)
		}
		return g
	}
	g1, g2, g3 := build("a"), build("a"), build("b")
	if g1.Fingerprint() == "" {
		t.Fatal("fingerprint expected to be non-empty")
	}
	if g1.Fingerprint() != g2.Fingerprint() {
		t.Error("identical grammars expected to have identical fingerprints")
	}
	if g1.Fingerprint() == g3.Fingerprint() {
		t.Error("different grammars expected to have different fingerprints")
	}
}
