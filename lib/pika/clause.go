// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import (
	"fmt"

	"github.com/hlukeshu-pika/pika/lib/containers"
)

// Kind discriminates the clause variants.  Clauses are a tagged sum,
// not a class hierarchy: every operator-specific behavior dispatches
// on Kind inside Clause.Match and inside the analysis pass.
type Kind int

const (
	KindTerm Kind = iota
	KindSeq
	KindChoice
	KindLongest
	KindOpt
	KindOneOrMore
	KindZeroOrMore
	KindAnd
	KindNot
)

func (k Kind) String() string {
	switch k {
	case KindTerm:
		return "Term"
	case KindSeq:
		return "Seq"
	case KindChoice:
		return "Choice"
	case KindLongest:
		return "Longest"
	case KindOpt:
		return "Opt"
	case KindOneOrMore:
		return "OneOrMore"
	case KindZeroOrMore:
		return "ZeroOrMore"
	case KindAnd:
		return "And"
	case KindNot:
		return "Not"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Rule is a named binding `name ← clause`, with an optional AST label
// that is opaque to this package (AST construction is a collaborator,
// not part of the core).
type Rule struct {
	Name     string
	ASTLabel string
}

// TermPredicate recognizes a terminal at a given position of input.
// It reports how many characters were consumed on success.
type TermPredicate func(input string, pos int) (length int, ok bool)

// Clause is a node in the grammar graph.  Clauses are shared
// read-only once a Grammar is frozen; they outlive any MemoTable that
// references them.
type Clause struct {
	Kind Kind
	Name string // for diagnostics only; not consulted by the algorithm

	Subclauses []*Clause
	Labels     []string // parallel to Subclauses, opaque to the core

	Rules []Rule

	// Term is only meaningful when Kind == KindTerm.
	Term             TermPredicate
	termCanMatchZero bool

	// computed by NewGrammar
	canMatchZeroChars bool
	seedParentClauses containers.Set[*Clause]
	frozen            bool
}

// CanMatchZeroChars reports whether this clause can match the empty
// string at any position.  Valid only after NewGrammar.
func (c *Clause) CanMatchZeroChars() bool {
	if !c.frozen {
		panic("pika: CanMatchZeroChars queried before NewGrammar")
	}
	return c.canMatchZeroChars
}

// SeedParentClauses returns the clauses that must be re-evaluated at
// the same start position when this clause gets a new memoized match.
// Valid only after NewGrammar.
func (c *Clause) SeedParentClauses() containers.Set[*Clause] {
	if !c.frozen {
		panic("pika: SeedParentClauses queried before NewGrammar")
	}
	return c.seedParentClauses
}

// seedSubclauses implements the seed-subclause rule of §3: for most
// kinds, the single first subclause; ordered-choice and longest-match
// seed from every alternative, since any one of them may produce the
// clause's match at the start position.
func (c *Clause) seedSubclauses() []*Clause {
	switch c.Kind {
	case KindTerm:
		return nil
	case KindChoice, KindLongest:
		return c.Subclauses
	default:
		if len(c.Subclauses) == 0 {
			return nil
		}
		return c.Subclauses[:1]
	}
}
