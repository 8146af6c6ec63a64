// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digitClause() *Clause {
	return CharPred("digit", func(b byte) bool { return b >= '0' && b <= '9' })
}

func runScenario(t *testing.T, grammar *Grammar, input string, workers int) *MemoTable {
	t.Helper()
	driver := NewParseDriver(grammar, RunOptions{Workers: workers})
	return driver.Run(context.Background(), input)
}

// Scenario 1: S <- 'a'*; input "aaa".
func TestScenarioZeroOrMore(t *testing.T) {
	t.Parallel()
	s := ZeroOrMore(Lit("a"))
	grammar := NewGrammar(s)
	assert.True(t, s.CanMatchZeroChars())

	table := runScenario(t, grammar, "aaa", 1)
	matches := table.GetNonOverlappingMatches(s)
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Key.StartPos)
	assert.Equal(t, 3, matches[0].Len)
}

// Scenario 2: S <- 'a' / 'ab'; input "ab". Left-biased choice wins
// with the shorter alternative.
func TestScenarioOrderedChoiceIsLeftBiased(t *testing.T) {
	t.Parallel()
	s := Choice(Lit("a"), Lit("ab"))
	grammar := NewGrammar(s)

	table := runScenario(t, grammar, "ab", 1)
	entry, ok := table.GetEntry(MemoKey{Clause: s, StartPos: 0})
	require.True(t, ok)
	m := entry.BestMatch()
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Len)
	assert.Equal(t, 0, m.FirstMatchingSubClauseIdx)
}

// Scenario 3: S <- 'a' | 'ab' (longest); input "ab".
func TestScenarioLongestMatchWins(t *testing.T) {
	t.Parallel()
	s := Longest(Lit("a"), Lit("ab"))
	grammar := NewGrammar(s)

	table := runScenario(t, grammar, "ab", 1)
	entry, ok := table.GetEntry(MemoKey{Clause: s, StartPos: 0})
	require.True(t, ok)
	m := entry.BestMatch()
	require.NotNil(t, m)
	assert.Equal(t, 2, m.Len)
	assert.Equal(t, 1, m.FirstMatchingSubClauseIdx)
}

// Scenario 4: left-recursive E <- E '+' E / digit; input "1+2+3".
func TestScenarioLeftRecursiveArithmetic(t *testing.T) {
	t.Parallel()
	e := &Clause{Kind: KindChoice}
	plus := Seq(e, Lit("+"), e)
	e.Subclauses = []*Clause{plus, digitClause()}
	grammar := NewGrammar(e)

	for _, workers := range []int{1, 4} {
		table := runScenario(t, grammar, "1+2+3", workers)
		entry, ok := table.GetEntry(MemoKey{Clause: e, StartPos: 0})
		require.True(t, ok, "workers=%d", workers)
		m := entry.BestMatch()
		require.NotNil(t, m, "workers=%d", workers)
		assert.Equal(t, 5, m.Len, "workers=%d", workers)
	}
}

// Scenario 5: S <- !'x' . ; inputs "y" and "x".
func TestScenarioNegativeLookahead(t *testing.T) {
	t.Parallel()
	s := Seq(Not(Lit("x")), Any())
	grammar := NewGrammar(s)

	okTable := runScenario(t, grammar, "y", 1)
	entry, ok := okTable.GetEntry(MemoKey{Clause: s, StartPos: 0})
	require.True(t, ok)
	m := entry.BestMatch()
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Len)

	failTable := runScenario(t, grammar, "x", 1)
	assert.Contains(t, failTable.GetNonMatchPositions(s), 0)
}

// Scenario 6: S <- 'a'?; input "".
func TestScenarioOptionalOnEmptyInput(t *testing.T) {
	t.Parallel()
	s := Opt(Lit("a"))
	grammar := NewGrammar(s)
	assert.True(t, s.CanMatchZeroChars())

	table := runScenario(t, grammar, "", 1)
	entry, ok := table.GetEntry(MemoKey{Clause: s, StartPos: 0})
	require.True(t, ok)
	m := entry.BestMatch()
	require.NotNil(t, m)
	assert.Equal(t, 0, m.Len)
	assert.False(t, m.Placeholder, "the converged result must be a real memoized match")
}

// Determinism (§8): running the same grammar and input with different
// worker counts must yield identical bestMatch content.
func TestDeterminismAcrossWorkerCounts(t *testing.T) {
	t.Parallel()
	e := &Clause{Kind: KindChoice}
	plus := Seq(e, Lit("+"), e)
	e.Subclauses = []*Clause{plus, digitClause()}
	grammar := NewGrammar(e)

	const input = "1+2+3+4+5"
	var lens []int
	for _, workers := range []int{1, 2, 8} {
		table := runScenario(t, grammar, input, workers)
		entry, ok := table.GetEntry(MemoKey{Clause: e, StartPos: 0})
		require.True(t, ok)
		m := entry.BestMatch()
		require.NotNil(t, m)
		lens = append(lens, m.Len)
	}
	for _, l := range lens[1:] {
		assert.Equal(t, lens[0], l)
	}
}
