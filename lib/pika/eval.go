// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

// Direction selects a Clause's evaluation mode (§4.5).
type Direction int

const (
	// BottomUp is the canonical, memoized mode: subclause results come
	// only from MemoTable.LookUpBestMatch, never from direct recursion.
	BottomUp Direction = iota
	// TopDown is a non-memoized recursive-descent fallback used for
	// traversal and inspection of an already-populated table.
	TopDown
)

// Match evaluates c at key according to dir. In BottomUp mode it is
// the fixpoint's re-evaluation primitive: a return of nil means "no
// match found on this evaluation", which is not necessarily permanent
// -- a later re-evaluation, triggered by a subclause's bestMatch
// improving, may succeed. In TopDown mode the result reflects a single
// recursive descent and is never stored.
func (c *Clause) Match(dir Direction, table *MemoTable, key MemoKey, input string, dirty *dirtySet) *Match {
	if dir == TopDown {
		return c.matchTopDown(table, key, input)
	}
	return c.matchBottomUp(table, key, input, dirty)
}

func (c *Clause) matchBottomUp(table *MemoTable, key MemoKey, input string, dirty *dirtySet) *Match {
	// Touch the entry even if this evaluation fails, so that "a
	// MemoEntry exists iff some evaluation has inspected that
	// (clause, startPos)" (§3) holds for every clause kind, not only
	// the ones whose every failure happens to go through a subclause
	// lookup. This is what lets GetNonMatchPositions distinguish
	// "probed but failed" from "never evaluated" for every clause, not
	// just ones some parent happened to query.
	table.getOrCreateEntry(key)

	switch c.Kind {
	case KindTerm:
		length, ok := c.Term(input, key.StartPos)
		if !ok {
			return nil
		}
		return table.addTerminalMatch(key, length, dirty)

	case KindSeq:
		pos := key.StartPos
		children := make([]*Match, 0, len(c.Subclauses))
		for _, sub := range c.Subclauses {
			m := table.LookUpBestMatch(MemoKey{Clause: sub, StartPos: pos}, key)
			if m == nil {
				return nil
			}
			children = append(children, m)
			pos += m.Len
		}
		return table.addNonTerminalMatch(key, 0, children, dirty)

	case KindChoice:
		for idx, sub := range c.Subclauses {
			m := table.LookUpBestMatch(MemoKey{Clause: sub, StartPos: key.StartPos}, key)
			if m != nil {
				return table.addNonTerminalMatch(key, idx, []*Match{m}, dirty)
			}
		}
		return nil

	case KindLongest:
		var best *Match
		bestIdx := 0
		for idx, sub := range c.Subclauses {
			m := table.LookUpBestMatch(MemoKey{Clause: sub, StartPos: key.StartPos}, key)
			if m != nil && (best == nil || m.Len > best.Len) {
				best, bestIdx = m, idx
			}
		}
		if best == nil {
			return nil
		}
		return table.addNonTerminalMatch(key, bestIdx, []*Match{best}, dirty)

	case KindOpt:
		sub := c.Subclauses[0]
		m := table.LookUpBestMatch(MemoKey{Clause: sub, StartPos: key.StartPos}, key)
		if m != nil {
			return table.addNonTerminalMatch(key, 0, []*Match{m}, dirty)
		}
		return table.addNonTerminalMatch(key, 0, nil, dirty)

	case KindOneOrMore, KindZeroOrMore:
		sub := c.Subclauses[0]
		pos := key.StartPos
		var children []*Match
		for {
			m := table.LookUpBestMatch(MemoKey{Clause: sub, StartPos: pos}, key)
			if m == nil {
				break
			}
			children = append(children, m)
			pos += m.Len
			if m.Len == 0 {
				// A zero-width iteration can never fail on the next
				// attempt either; stop here rather than looping forever.
				break
			}
		}
		if c.Kind == KindOneOrMore && len(children) == 0 {
			return nil
		}
		return table.addNonTerminalMatch(key, 0, children, dirty)

	case KindAnd:
		sub := c.Subclauses[0]
		if table.LookUpBestMatch(MemoKey{Clause: sub, StartPos: key.StartPos}, key) == nil {
			return nil
		}
		return table.addNonTerminalMatch(key, 0, nil, dirty)

	case KindNot:
		sub := c.Subclauses[0]
		if table.LookUpBestMatch(MemoKey{Clause: sub, StartPos: key.StartPos}, key) != nil {
			return nil
		}
		return table.addNonTerminalMatch(key, 0, nil, dirty)

	default:
		panic("pika: unhandled Kind in matchBottomUp")
	}
}

// matchTopDown mirrors matchBottomUp's combination rules but recurses
// directly into subclause Match calls instead of consulting the
// table, and never inserts into the table.  It exists for traversal
// and inspection scenarios over an already-completed fixpoint (e.g.
// re-deriving which alternative chain produced a match), not for
// driving the fixpoint itself.
func (c *Clause) matchTopDown(table *MemoTable, key MemoKey, input string) *Match {
	build := func(firstIdx int, children []*Match) *Match {
		total := 0
		for _, ch := range children {
			total += ch.Len
		}
		return &Match{Key: key, FirstMatchingSubClauseIdx: firstIdx, Len: total, SubClauseMatches: children}
	}

	switch c.Kind {
	case KindTerm:
		length, ok := c.Term(input, key.StartPos)
		if !ok {
			return nil
		}
		return &Match{Key: key, Len: length}

	case KindSeq:
		pos := key.StartPos
		children := make([]*Match, 0, len(c.Subclauses))
		for _, sub := range c.Subclauses {
			m := sub.Match(TopDown, table, MemoKey{Clause: sub, StartPos: pos}, input, nil)
			if m == nil {
				return nil
			}
			children = append(children, m)
			pos += m.Len
		}
		return build(0, children)

	case KindChoice:
		for idx, sub := range c.Subclauses {
			m := sub.Match(TopDown, table, MemoKey{Clause: sub, StartPos: key.StartPos}, input, nil)
			if m != nil {
				return build(idx, []*Match{m})
			}
		}
		return nil

	case KindLongest:
		var best *Match
		bestIdx := 0
		for idx, sub := range c.Subclauses {
			m := sub.Match(TopDown, table, MemoKey{Clause: sub, StartPos: key.StartPos}, input, nil)
			if m != nil && (best == nil || m.Len > best.Len) {
				best, bestIdx = m, idx
			}
		}
		if best == nil {
			return nil
		}
		return build(bestIdx, []*Match{best})

	case KindOpt:
		sub := c.Subclauses[0]
		if m := sub.Match(TopDown, table, MemoKey{Clause: sub, StartPos: key.StartPos}, input, nil); m != nil {
			return build(0, []*Match{m})
		}
		return build(0, nil)

	case KindOneOrMore, KindZeroOrMore:
		sub := c.Subclauses[0]
		pos := key.StartPos
		var children []*Match
		for {
			m := sub.Match(TopDown, table, MemoKey{Clause: sub, StartPos: pos}, input, nil)
			if m == nil {
				break
			}
			children = append(children, m)
			pos += m.Len
			if m.Len == 0 {
				break
			}
		}
		if c.Kind == KindOneOrMore && len(children) == 0 {
			return nil
		}
		return build(0, children)

	case KindAnd:
		sub := c.Subclauses[0]
		if sub.Match(TopDown, table, MemoKey{Clause: sub, StartPos: key.StartPos}, input, nil) == nil {
			return nil
		}
		return build(0, nil)

	case KindNot:
		sub := c.Subclauses[0]
		if sub.Match(TopDown, table, MemoKey{Clause: sub, StartPos: key.StartPos}, input, nil) != nil {
			return nil
		}
		return build(0, nil)

	default:
		panic("pika: unhandled Kind in matchTopDown")
	}
}
