// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import "strings"

// Term builds a terminal clause from an arbitrary predicate.
// canMatchZero must correctly state whether pred can match the empty
// string; analysis takes it on faith (§7: computing it inconsistently
// with the clause's semantics is a programmer-contract violation, not
// a runtime-detectable error).
func Term(name string, canMatchZero bool, pred TermPredicate) *Clause {
	return &Clause{
		Kind:             KindTerm,
		Name:             name,
		Term:             pred,
		termCanMatchZero: canMatchZero,
	}
}

// Lit matches a literal string exactly.
func Lit(s string) *Clause {
	return Term(quote(s), s == "", func(input string, pos int) (int, bool) {
		if strings.HasPrefix(input[pos:], s) {
			return len(s), true
		}
		return 0, false
	})
}

// Any matches a single arbitrary character (byte), failing only at
// end of input.
func Any() *Clause {
	return Term(".", false, func(input string, pos int) (int, bool) {
		if pos < len(input) {
			return 1, true
		}
		return 0, false
	})
}

// CharPred matches a single character satisfying pred.
func CharPred(name string, pred func(byte) bool) *Clause {
	return Term(name, false, func(input string, pos int) (int, bool) {
		if pos < len(input) && pred(input[pos]) {
			return 1, true
		}
		return 0, false
	})
}

func quote(s string) string { return "'" + s + "'" }

// Seq matches every subclause in order; its length is the sum of its
// children's lengths.
func Seq(subs ...*Clause) *Clause {
	return &Clause{Kind: KindSeq, Subclauses: subs}
}

// Choice is left-biased ordered choice: the first subclause (by
// grammar order) that matches wins.
func Choice(subs ...*Clause) *Clause {
	return &Clause{Kind: KindChoice, Subclauses: subs}
}

// Longest tries every subclause and keeps the longest match, breaking
// ties in favor of the lowest index.
func Longest(subs ...*Clause) *Clause {
	return &Clause{Kind: KindLongest, Subclauses: subs}
}

// Opt matches sub if possible, and otherwise succeeds with a
// zero-width match.
func Opt(sub *Clause) *Clause {
	return &Clause{Kind: KindOpt, Subclauses: []*Clause{sub}}
}

// OneOrMore repeats sub while it matches at an advancing position,
// requiring at least one iteration.
func OneOrMore(sub *Clause) *Clause {
	return &Clause{Kind: KindOneOrMore, Subclauses: []*Clause{sub}}
}

// ZeroOrMore repeats sub while it matches at an advancing position,
// and always succeeds (zero-width if sub never matches).
func ZeroOrMore(sub *Clause) *Clause {
	return &Clause{Kind: KindZeroOrMore, Subclauses: []*Clause{sub}}
}

// And is positive lookahead: sub must match, but And itself produces
// a zero-width success and consumes nothing.
func And(sub *Clause) *Clause {
	return &Clause{Kind: KindAnd, Subclauses: []*Clause{sub}}
}

// Not is negative lookahead: sub must NOT match; Not itself produces
// a zero-width success.
func Not(sub *Clause) *Clause {
	return &Clause{Kind: KindNot, Subclauses: []*Clause{sub}}
}

// WithRule attaches a named rule binding to c (with an optional AST
// label, opaque to this package) and returns c for chaining. Rules
// are metadata only; they do not affect matching.
func (c *Clause) WithRule(name, astLabel string) *Clause {
	c.Rules = append(c.Rules, Rule{Name: name, ASTLabel: astLabel})
	return c
}
