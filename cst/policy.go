package cst

import (
	"fmt"

	"github.com/npillmayer/gll"
)

// Candidate describes one of several derivations packed into a forest node:
// the production alternative it used and the input position where the
// derivation splits its last child off the preceding ones.
type Candidate struct {
	Alt   int    // production index among the nonterminal's alternatives
	Split uint64 // boundary between the leading children and the last one
}

// Policy compares two candidate derivations for the same forest node. A
// negative result prefers a, a positive one prefers b, zero means the policy
// cannot tell them apart. Extraction fails with an *AmbiguityError whenever
// no candidate beats all others.
type Policy func(a, b Candidate) int

// PreferFirst prefers the production listed first in the grammar, and among
// derivations of the same production prefers the one that binds the most
// input to the leading children. This is the default policy.
func PreferFirst(a, b Candidate) int {
	if a.Alt != b.Alt {
		return a.Alt - b.Alt
	}
	switch {
	case a.Split > b.Split:
		return -1
	case a.Split < b.Split:
		return 1
	}
	return 0
}

// Strict never picks: any ambiguity in the forest makes extraction fail.
func Strict(a, b Candidate) int {
	return 0
}

// AmbiguityError is returned by Extract when the policy cannot settle on a
// single derivation for a region of the input.
type AmbiguityError struct {
	Symbol string   // nonterminal with the ambiguous derivation
	Span   gll.Span // input positions covered by it
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous parse: multiple derivations for %s at %v", e.Symbol, e.Span)
}
