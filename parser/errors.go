package parser

import (
	"bytes"
	"fmt"
)

// Failure reports that the input does not match the grammar. It is an
// expected, user-visible outcome, not a defect. Position is the furthest
// input offset any terminal match was attempted at; Expected lists the
// terminals attempted there, sorted by name. When the grammar matched a
// proper prefix of the input, Position is the end of the longest such match
// and Expected holds "end of input". Together they support an "expected one
// of {…} at position P" diagnostic.
type Failure struct {
	Grammar  string
	Position uint64
	Expected []string
}

func (e *Failure) Error() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "syntax error at position %d", e.Position)
	if len(e.Expected) > 0 {
		b.WriteString(": expected one of {")
		for i, name := range e.Expected {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
		}
		b.WriteString("}")
	}
	return b.String()
}
