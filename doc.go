/*
Package gll is a generalized-LL parsing engine.

GLL parsing extends LL parsing to arbitrary context-free grammars, including
left-recursive and ambiguous ones, in polynomial time and space. The engine
consumes a validated grammar model together with an input text and produces a
shared packed parse forest (SPPF) holding every valid derivation. A single
concrete syntax tree is then extracted from the forest under a disambiguation
policy, and may finally be lowered into a typed abstract syntax tree.
Package structure is as follows:

■ grammar: Package grammar holds the static grammar model: nonterminals,
productions and terminal matchers (literals, character classes, composed
lexical patterns), validated on construction.

■ parser: Package parser implements the GLL algorithm proper, driven by a
descriptor worklist over a graph-structured stack (GSS).

■ sppf: Package sppf builds and deduplicates the parse forest.

■ cst: Package cst extracts one concrete syntax tree from a forest, applying
a disambiguation policy.

■ ast: Package ast lowers a concrete syntax tree into caller-defined AST
values via per-production transforms.

The base package contains data types which are used throughout all the other
packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gll
