package gll

import "fmt"

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input text. For every
// terminal and non-terminal, a parse forest will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// --- Tokens -----------------------------------------------------------

// Token represents a matched terminal. The parser works scannerless, thus
// tokens are created during the parse, one per terminal leaf of a derivation.
//
// An example would be a token for an identifier:
//
//	Name    = "IDENT"     // name of the terminal in the grammar
//	Lexeme  = "  counter" // text as it appeared in the input, incl. absorbed layout
//	Span    = 67…76       // positions covered in the input text
//	Trivia  = false       // not a pure-layout token
//
// Tokens flagged as trivia stem from terminals which carry no meaning of their
// own (whitespace runs, comments). They survive into the concrete syntax tree,
// but AST lowering will drop them.
type Token struct {
	Name   string // terminal name within the grammar
	Lexeme string // matched input text
	Extent Span   // positions covered
	Trivia bool   // layout/comment token?
}

// Span returns the input positions the token covers.
func (t Token) Span() Span {
	return t.Extent
}

func (t Token) String() string {
	return fmt.Sprintf("%s[%q]%v", t.Name, t.Lexeme, t.Extent)
}
