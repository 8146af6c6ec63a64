// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTerminalMatch(t *testing.T) {
	t.Parallel()
	a := Lit("a")
	NewGrammar(a)

	table := NewMemoTable("aaa")
	dirty := newDirtySet()
	key := MemoKey{Clause: a, StartPos: 0}

	m := a.Match(BottomUp, table, key, "aaa", dirty)
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Len)
	assert.Same(t, m, table.GetNonOverlappingMatches(a)[0])
	assert.EqualValues(t, 1, table.NumMatchObjectsCreated())
	assert.EqualValues(t, 1, table.NumMatchObjectsMemoized())
}

func TestAddNewBestMatchIsMonotonic(t *testing.T) {
	t.Parallel()
	c := &Clause{Kind: KindSeq} // stand-in clause identity; never evaluated
	NewGrammar(c)

	table := NewMemoTable("xxxxx")
	dirty := newDirtySet()
	key := MemoKey{Clause: c, StartPos: 0}
	entry := table.getOrCreateEntry(key)

	short := &Match{Key: key, Len: 1}
	long := &Match{Key: key, Len: 3}

	entry.addNewBestMatch(table, short, dirty)
	assert.Same(t, short, entry.BestMatch())

	// A worse candidate must not regress the incumbent.
	entry.addNewBestMatch(table, &Match{Key: key, Len: 1, FirstMatchingSubClauseIdx: 9}, dirty)
	assert.Same(t, short, entry.BestMatch())

	entry.addNewBestMatch(table, long, dirty)
	assert.Same(t, long, entry.BestMatch())
}

func TestLookUpBestMatchPlaceholder(t *testing.T) {
	t.Parallel()
	opt := Opt(Lit("a"))
	NewGrammar(opt)
	assert.True(t, opt.CanMatchZeroChars())

	table := NewMemoTable("")
	m := table.LookUpBestMatch(MemoKey{Clause: opt, StartPos: 0}, MemoKey{Clause: opt, StartPos: 0})
	require.NotNil(t, m)
	assert.True(t, m.Placeholder)
	assert.Equal(t, 0, m.Len)

	// The placeholder must never be memoized.
	_, ok := table.GetEntry(MemoKey{Clause: opt, StartPos: 0})
	assert.True(t, ok, "lookup must still create the entry")
	assert.Nil(t, table.GetEntry2(opt, 0))
}

// GetEntry2 is a tiny test helper wrapping GetEntry's bestMatch for
// readability above.
func (t *MemoTable) GetEntry2(c *Clause, pos int) *Match {
	e, ok := t.GetEntry(MemoKey{Clause: c, StartPos: pos})
	if !ok {
		return nil
	}
	return e.BestMatch()
}

func TestGetNonOverlappingMatchesAdvancesPastZeroWidth(t *testing.T) {
	t.Parallel()
	c := &Clause{Kind: KindSeq}
	NewGrammar(c)

	table := NewMemoTable("abc")
	dirty := newDirtySet()
	table.addNonTerminalMatch(MemoKey{Clause: c, StartPos: 0}, 0, nil, dirty)
	table.addNonTerminalMatch(MemoKey{Clause: c, StartPos: 1}, 0, nil, dirty)
	table.addNonTerminalMatch(MemoKey{Clause: c, StartPos: 2}, 0, nil, dirty)

	matches := table.GetNonOverlappingMatches(c)
	require.Len(t, matches, 3)
	assert.Equal(t, 0, matches[0].Key.StartPos)
	assert.Equal(t, 1, matches[1].Key.StartPos)
	assert.Equal(t, 2, matches[2].Key.StartPos)
}

func TestDualCompleteness(t *testing.T) {
	t.Parallel()
	c := &Clause{Kind: KindSeq}
	NewGrammar(c)

	table := NewMemoTable("ab")
	dirty := newDirtySet()
	// Probe position 0 successfully, position 1 unsuccessfully, leave
	// position 2 (end of input) entirely unprobed.
	table.addNonTerminalMatch(MemoKey{Clause: c, StartPos: 0}, 0, nil, dirty)
	table.getOrCreateEntry(MemoKey{Clause: c, StartPos: 1})

	all := table.GetAllMatches(c)
	nonMatch := table.GetNonMatchPositions(c)
	unprobed := table.GetUnprobedPositions(c)

	require.Len(t, all, 1)
	assert.Equal(t, 0, all[0].Key.StartPos)
	require.Len(t, nonMatch, 1)
	assert.Equal(t, 1, nonMatch[0])
	require.Len(t, unprobed, 1)
	assert.Equal(t, 2, unprobed[0])
}
