// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import (
	"github.com/hlukeshu-pika/pika/lib/containers"
)

// collectClauses walks the grammar graph from toplevel and returns
// every reachable clause exactly once, keyed by pointer identity
// (back-edges from left recursion make this a graph, not a tree, so
// a visited-set walk rather than a plain recursive descent is
// required).
func collectClauses(toplevel *Clause) []*Clause {
	seen := containers.NewSet[*Clause]()
	var order []*Clause
	var walk func(c *Clause)
	walk = func(c *Clause) {
		if seen.Has(c) {
			return
		}
		seen.Insert(c)
		order = append(order, c)
		for _, sub := range c.Subclauses {
			walk(sub)
		}
	}
	walk(toplevel)
	return order
}

// computeCanMatchZero implements the §4.5 table: terminals report
// their own precomputed answer; optional/not/and/zero-or-more report
// true unconditionally; sequence requires every child; choice/longest
// require any child; one-or-more inherits from its single child.
func computeCanMatchZero(c *Clause) bool {
	switch c.Kind {
	case KindTerm:
		return c.termCanMatchZero
	case KindOpt, KindNot, KindAnd, KindZeroOrMore:
		return true
	case KindSeq:
		for _, sub := range c.Subclauses {
			if !sub.canMatchZeroChars {
				return false
			}
		}
		return true
	case KindChoice, KindLongest:
		for _, sub := range c.Subclauses {
			if sub.canMatchZeroChars {
				return true
			}
		}
		return false
	case KindOneOrMore:
		return c.Subclauses[0].canMatchZeroChars
	default:
		panic("pika: unhandled Kind in computeCanMatchZero")
	}
}

// freeze runs the two grammar-only analyses of §3 over every clause
// reachable from toplevel: the canMatchZeroChars fixpoint (obvious
// monotonic relaxation: start false, flip to true, never flip back)
// and the seedParentClauses inverse-edge computation.
func freeze(toplevel *Clause) []*Clause {
	clauses := collectClauses(toplevel)

	for _, c := range clauses {
		c.seedParentClauses = containers.NewSet[*Clause]()
	}

	for changed := true; changed; {
		changed = false
		for _, c := range clauses {
			if v := computeCanMatchZero(c); v != c.canMatchZeroChars {
				c.canMatchZeroChars = v
				changed = true
			}
		}
	}

	for _, c := range clauses {
		for _, seed := range c.seedSubclauses() {
			seed.seedParentClauses.Insert(c)
		}
	}

	for _, c := range clauses {
		c.frozen = true
	}
	return clauses
}
