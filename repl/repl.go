package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/gll"
	"github.com/npillmayer/gll/ast"
	"github.com/npillmayer/gll/cst"
	"github.com/npillmayer/gll/grammar"
	"github.com/npillmayer/gll/parser"
)

// We provide a simple expression grammar as a default for parsing and AST
// rewriting experiments.
//
//	Expr   ➞ Expr SumOp Term  |  Term
//	Term   ➞ Term ProdOp Factor  |  Factor
//	Factor ➞ number  |  ( Expr )
//	SumOp  ➞ +  |  -
//	ProdOp ➞ *  |  /
//
// The grammar is left-recursive, which the GLL engine handles without any
// rewriting on our part.
func makeExprGrammar() *grammar.Grammar {
	b := grammar.NewBuilder("Expr")
	b.LHS("Expr").N("Expr").N("SumOp").N("Term").End()
	b.LHS("Expr").N("Term").End()
	b.LHS("Term").N("Term").N("ProdOp").N("Factor").End()
	b.LHS("Term").N("Factor").End()
	b.LHS("Factor").T("number", grammar.Literal()).End()
	b.LHS("Factor").L("(").N("Expr").L(")").End()
	b.LHS("SumOp").L("+").End()
	b.LHS("SumOp").L("-").End()
	b.LHS("ProdOp").L("*").End()
	b.LHS("ProdOp").L("/").End()
	g, err := b.Grammar()
	if err != nil {
		panic(fmt.Errorf("error creating grammar: %s", err.Error()))
	}
	return g
}

// main() starts an interactive CLI where users may enter arithmetic
// expressions. Each line is parsed with a GLL parser, the concrete syntax
// tree is rendered on the terminal, and the expression's value is computed
// by lowering the tree with a rewriter (see package ast).
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	strict := flag.Bool("strict", false, "Fail on ambiguous parses instead of disambiguating")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))
	pterm.Info.Println("Welcome to the GLL expression REPL")
	g := makeExprGrammar()
	g.Dump() // only visible in debug mode
	policy := cst.Policy(nil)
	if *strict {
		policy = cst.Strict
	}
	repl, err := readline.New("gll> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{
		g:      g,
		repl:   repl,
		rew:    makeEvaluator(g),
		policy: policy,
	}
	if input := strings.TrimSpace(strings.Join(flag.Args(), " ")); input != "" {
		intp.Eval(input)
	}
	tracer().Infof("Quit with <ctrl>D")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object.
type Intp struct {
	g      *grammar.Grammar
	repl   *readline.Instance
	rew    *ast.Rewriter
	policy cst.Policy
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		intp.Eval(line)
	}
	println("Good bye!")
}

// Eval parses one input line, shows the syntax tree and prints the value of
// the expression.
func (intp *Intp) Eval(line string) {
	p := parser.NewParser(intp.g) // parsers are single-use
	forest, err := p.Parse(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	tree, err := cst.Extract(forest, intp.policy)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	renderTree(tree)
	value, err := intp.rew.Rewrite(tree)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Info.Println(fmt.Sprintf("= %v", value))
}

func renderTree(tree *cst.Node) {
	ll := leveledNode(tree, pterm.LeveledList{}, 0)
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

func leveledNode(n *cst.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  n.String(),
	})
	for _, ch := range n.Children {
		switch c := ch.(type) {
		case *cst.Node:
			ll = leveledNode(c, ll, level+1)
		case gll.Token:
			ll = append(ll, pterm.LeveledListItem{
				Level: level + 1,
				Text:  c.String(),
			})
		}
	}
	return ll
}

// makeEvaluator wires an AST rewriter which computes the numeric value of an
// expression tree.
func makeEvaluator(g *grammar.Grammar) *ast.Rewriter {
	rew := ast.NewRewriter(g)
	binop := func(node *cst.Node, children []interface{}) (interface{}, error) {
		x := children[0].(float64)
		y := children[2].(float64)
		switch children[1].(string) {
		case "+":
			return x + y, nil
		case "-":
			return x - y, nil
		case "*":
			return x * y, nil
		case "/":
			if y == 0 {
				return nil, fmt.Errorf("division by zero at %v", node.Extent)
			}
			return x / y, nil
		}
		return nil, fmt.Errorf("unknown operator at %v", node.Extent)
	}
	passthru := func(node *cst.Node, children []interface{}) (interface{}, error) {
		return children[0], nil
	}
	operator := func(node *cst.Node, children []interface{}) (interface{}, error) {
		return strings.TrimSpace(children[0].(gll.Token).Lexeme), nil
	}
	rew.MustRegister("Expr", 0, binop)
	rew.MustRegister("Expr", 1, passthru)
	rew.MustRegister("Term", 0, binop)
	rew.MustRegister("Term", 1, passthru)
	rew.MustRegister("Factor", 0, func(node *cst.Node, children []interface{}) (interface{}, error) {
		lexeme := strings.TrimSpace(children[0].(gll.Token).Lexeme)
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number at %v: %q", node.Extent, lexeme)
		}
		return f, nil
	})
	rew.MustRegister("Factor", 1, func(node *cst.Node, children []interface{}) (interface{}, error) {
		return children[1], nil
	})
	rew.MustRegister("SumOp", 0, operator)
	rew.MustRegister("SumOp", 1, operator)
	rew.MustRegister("ProdOp", 0, operator)
	rew.MustRegister("ProdOp", 1, operator)
	return rew
}
