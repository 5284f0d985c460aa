package grammar

import "fmt"

// Error is a grammar validation error, detected during construction of a
// grammar model. It is a caller defect: the grammar has to be fixed, the
// construction is not retried.
type Error struct {
	Grammar string // name of the offending grammar
	Symbol  string // offending symbol, if any
	Reason  string
}

func (e *Error) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("grammar %q: symbol %q: %s", e.Grammar, e.Symbol, e.Reason)
	}
	return fmt.Sprintf("grammar %q: %s", e.Grammar, e.Reason)
}

func grammarError(g string, sym string, format string, args ...interface{}) *Error {
	return &Error{
		Grammar: g,
		Symbol:  sym,
		Reason:  fmt.Sprintf(format, args...),
	}
}
