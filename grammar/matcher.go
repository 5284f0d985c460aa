package grammar

import (
	"fmt"
	"strings"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Matcher matches a terminal pattern against the input text at a given
// offset. As the engine works scannerless, matchers are the only connection
// between the grammar model and the raw text.
//
// Match returns the length of the match in bytes. Matchers never match
// past len(input) and never return a match not anchored at pos.
type Matcher interface {
	Match(input string, pos int) (length int, ok bool)
	Pattern() string // human-readable pattern, used in diagnostics
}

// --- Literals ---------------------------------------------------------

type literalMatcher struct {
	lit string
}

// Lit creates a matcher for a literal string.
func Lit(s string) Matcher {
	return literalMatcher{lit: s}
}

func (m literalMatcher) Match(input string, pos int) (int, bool) {
	if strings.HasPrefix(input[pos:], m.lit) {
		return len(m.lit), true
	}
	return 0, false
}

func (m literalMatcher) Pattern() string {
	return fmt.Sprintf("%q", m.lit)
}

// --- Character classes ------------------------------------------------

type charRange struct {
	lo, hi rune
}

type classMatcher struct {
	spec   string
	negate bool
	ranges []charRange
}

// Class creates a matcher for a single character out of a character class.
// The spec uses the usual bracket-expression notation without the brackets,
// e.g. "a-zA-Z_" or "^0-9" for a negated class.
func Class(spec string) (Matcher, error) {
	m := classMatcher{spec: spec}
	runes := []rune(spec)
	if len(runes) > 0 && runes[0] == '^' {
		m.negate = true
		runes = runes[1:]
	}
	if len(runes) == 0 {
		return nil, fmt.Errorf("empty character class")
	}
	for i := 0; i < len(runes); {
		if i+2 < len(runes) && runes[i+1] == '-' {
			if runes[i] > runes[i+2] {
				return nil, fmt.Errorf("invalid character range %c-%c", runes[i], runes[i+2])
			}
			m.ranges = append(m.ranges, charRange{runes[i], runes[i+2]})
			i += 3
			continue
		}
		m.ranges = append(m.ranges, charRange{runes[i], runes[i]})
		i++
	}
	return m, nil
}

// MustClass is like Class, but panics on a malformed spec.
func MustClass(spec string) Matcher {
	m, err := Class(spec)
	if err != nil {
		panic(fmt.Sprintf("gll: grammar: %v", err))
	}
	return m
}

func (m classMatcher) Match(input string, pos int) (int, bool) {
	if pos >= len(input) {
		return 0, false
	}
	for _, r := range input[pos:] { // decode one rune
		in := false
		for _, rng := range m.ranges {
			if r >= rng.lo && r <= rng.hi {
				in = true
				break
			}
		}
		if in != m.negate {
			return len(string(r)), true
		}
		return 0, false
	}
	return 0, false
}

func (m classMatcher) Pattern() string {
	return "[" + m.spec + "]"
}

// --- Lexical patterns -------------------------------------------------

// patternMatcher matches composed lexical patterns, backed by a lexmachine
// DFA compiled from a single regular expression.
type patternMatcher struct {
	name  string
	re    string
	lexer *lexmachine.Lexer
}

// Pattern creates a matcher for a lexical pattern, given as a regular
// expression in lexmachine syntax. Compilation happens once, up front;
// Pattern returns an error if compiling the DFA failed.
func Pattern(name string, re string) (Matcher, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(re), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(0, string(m.Bytes), m), nil
	})
	if err := lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA for %q: %v", name, err)
		return nil, err
	}
	return &patternMatcher{name: name, re: re, lexer: lexer}, nil
}

// MustPattern is like Pattern, but panics if the expression does not compile.
// It is intended for the built-in lexical rules, whose patterns are constant.
func MustPattern(name string, re string) Matcher {
	m, err := Pattern(name, re)
	if err != nil {
		panic(fmt.Sprintf("gll: grammar: pattern %s: %v", name, err))
	}
	return m
}

func (m *patternMatcher) Match(input string, pos int) (int, bool) {
	if pos >= len(input) {
		return 0, false
	}
	// A fresh scanner per probe keeps the matcher stateless. Matchers,
	// including the package-level built-ins, are shared between parsers;
	// the expensive part, the compiled DFA, is reused anyway.
	s, err := m.lexer.Scanner([]byte(input))
	if err != nil {
		return 0, false
	}
	s.TC = pos
	tok, err, eof := s.Next()
	if eof || err != nil { // UnconsumedInput ⇒ no match anchored at pos
		return 0, false
	}
	token := tok.(*lexmachine.Token)
	if token.TC != pos {
		return 0, false
	}
	return len(token.Lexeme), true
}

func (m *patternMatcher) Pattern() string {
	return "/" + m.re + "/"
}
