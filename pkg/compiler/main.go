// Package compiler provides a lexer, parser, type checker, and code
// generator for a reduced C++-style language, producing a flat
// three-address instruction sequence.
//
// Pipeline: source → Lex → Parse → Check → Generate → Optimize
package compiler
