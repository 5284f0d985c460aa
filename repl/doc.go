/*
Package main implements an interactive playground for GLL parsing.

The REPL carries a small arithmetic expression grammar. Users type in
expressions, the REPL parses them, displays the resulting syntax tree on the
terminal and evaluates the expression via AST lowering. It is intended as a
sandbox during grammar development, not as a polished tool.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gll.repl'.
func tracer() tracing.Trace {
	return tracing.Select("gll.repl")
}
