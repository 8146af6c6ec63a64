// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

// MemoKey is the pair (clause, startPos) that identifies a memo cell.
// MemoKeys are value-typed, structurally comparable, and never
// mutated; Clause identity is pointer identity, which is exactly the
// identity the grammar graph uses.
type MemoKey struct {
	Clause   *Clause
	StartPos int
}

// Match is an immutable record of a successful match.  Matches are
// produced by MemoTable's addTerminalMatch/addNonTerminalMatch, by
// the zero-width placeholder path in LookUpBestMatch, and by TopDown
// evaluation (whose results are never stored); they are never mutated
// after construction.
type Match struct {
	Key MemoKey

	// FirstMatchingSubClauseIdx is the index of the alternative that
	// produced this match, for ordered-choice and longest-match; 0 for
	// every other variant.
	FirstMatchingSubClauseIdx int

	// Len is the non-negative number of characters consumed, with
	// 0 <= Len <= len(input)-Key.StartPos.
	Len int

	// SubClauseMatches is the ordered list of child matches.  It is
	// nil for a terminal match, and also nil for a zero-width Opt,
	// ZeroOrMore, And or Not match that has no child match, so a nil
	// slice alone does not tell a terminal match apart; Key.Clause.Kind
	// does.
	SubClauseMatches []*Match

	// Placeholder marks a zero-width match synthesized by
	// LookUpBestMatch to break a dependency deadlock on a nullable
	// subclause.  It is never inserted into the table, and any
	// downstream consumer (e.g. AST construction) must reject it
	// rather than treat it as a real memoized result.
	Placeholder bool
}

// betterThan implements the "better than" ordering of §3: strictly
// greater Len wins; on a Len tie, the smaller FirstMatchingSubClauseIdx
// wins (left-biased PEG choice); otherwise the incumbent is kept.
func betterThan(candidate, incumbent *Match) bool {
	if incumbent == nil {
		return true
	}
	if candidate.Len != incumbent.Len {
		return candidate.Len > incumbent.Len
	}
	return candidate.FirstMatchingSubClauseIdx < incumbent.FirstMatchingSubClauseIdx
}
