// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

// Grammar is a frozen clause graph plus a designated toplevel clause.
// Per §3, the grammar graph is frozen before parsing begins:
// canMatchZeroChars and seedParentClauses are computed once, here, and
// are never recomputed.
type Grammar struct {
	Toplevel *Clause
	clauses  []*Clause
}

// NewGrammar freezes the graph reachable from toplevel and returns a
// Grammar ready to be parsed with. Mutating any clause reachable from
// toplevel after this call is a programmer-contract violation (§7).
func NewGrammar(toplevel *Clause) *Grammar {
	return &Grammar{
		Toplevel: toplevel,
		clauses:  freeze(toplevel),
	}
}

// Clauses returns every clause reachable from the toplevel clause, in
// a stable discovery order. Used by ParseDriver to find the terminal
// clauses to seed from.
func (g *Grammar) Clauses() []*Clause {
	return g.clauses
}

// TerminalClauses returns the subset of Clauses() that are terminals,
// i.e. the seed set for the fixpoint's first phase.
func (g *Grammar) TerminalClauses() []*Clause {
	var out []*Clause
	for _, c := range g.clauses {
		if c.Kind == KindTerm {
			out = append(out, c)
		}
	}
	return out
}

// LookaheadClauses returns the subset of Clauses() that are positive or
// negative lookahead (And/Not). Whether a lookahead clause's child
// "never matches" only becomes a stable fact once the positive
// fixpoint over the rest of the grammar has converged, so ParseDriver
// also evaluates these in a separate sweep after that fixpoint, on top
// of their ordinary place in the seed-parent propagation graph; see
// driver.go.
func (g *Grammar) LookaheadClauses() []*Clause {
	var out []*Clause
	for _, c := range g.clauses {
		if c.Kind == KindAnd || c.Kind == KindNot {
			out = append(out, c)
		}
	}
	return out
}
