// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import (
	"io"
	"sync"
	"sync/atomic"

	"git.lukeshu.com/go/lowmemjson"

	"github.com/hlukeshu-pika/pika/lib/containers"
)

// position is startPos wrapped to satisfy containers.Ordered, so that
// per-clause sub-maps can be kept in a containers.SortedMap and
// support "least key >= k" queries (needed by GetNonOverlappingMatches).
type position int

func (a position) Cmp(b position) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// clauseTable is the inner, per-clause map of the outer
// Clause -> (startPos -> MemoEntry) association.  It is guarded by its
// own mutex rather than relying on SortedMap's (nonexistent) internal
// synchronization, per the concurrency model of §5: "a single writer
// per entry is sufficient if parent re-evaluations for the same entry
// are serialized; otherwise the replacement is guarded."
type clauseTable struct {
	mu        sync.Mutex
	positions containers.SortedMap[position, *MemoEntry]
}

// MemoTable is a sparse map Clause -> (startPos -> MemoEntry), bound
// to one immutable input string.  It exclusively owns its MemoEntries
// and the Matches they point to for its whole lifetime: there is no
// eviction.
type MemoTable struct {
	input string

	outer containers.SyncMap[*Clause, *clauseTable]

	numMatchObjectsCreated  atomic.Int64
	numMatchObjectsMemoized atomic.Int64
}

// NewMemoTable constructs an empty table bound to input.
func NewMemoTable(input string) *MemoTable {
	return &MemoTable{input: input}
}

// Input returns the string this table is bound to.
func (t *MemoTable) Input() string { return t.input }

// NumMatchObjectsCreated is a monotonic statistic: how many Match
// values have ever been constructed, whether or not they won.
func (t *MemoTable) NumMatchObjectsCreated() int64 { return t.numMatchObjectsCreated.Load() }

// NumMatchObjectsMemoized is a monotonic statistic: how many times a
// MemoEntry's bestMatch was replaced.
func (t *MemoTable) NumMatchObjectsMemoized() int64 { return t.numMatchObjectsMemoized.Load() }

// NumClausesTouched reports how many distinct clauses have at least one
// MemoEntry, i.e. were evaluated at some position.
func (t *MemoTable) NumClausesTouched() int { return t.outer.Len() }

func (t *MemoTable) getOrCreateClauseTable(c *Clause) *clauseTable {
	if ct, ok := t.outer.Load(c); ok {
		return ct
	}
	ct := &clauseTable{}
	actual, _ := t.outer.LoadOrStore(c, ct)
	return actual
}

func (t *MemoTable) getOrCreateEntry(key MemoKey) *MemoEntry {
	ct := t.getOrCreateClauseTable(key.Clause)
	ct.mu.Lock()
	defer ct.mu.Unlock()
	if e, ok := ct.positions.Load(position(key.StartPos)); ok {
		return e
	}
	e := &MemoEntry{Key: key}
	ct.positions.Store(position(key.StartPos), e)
	return e
}

// GetEntry looks up an existing MemoEntry without creating one. This
// is the "direct MemoEntry lookup by MemoKey" of §6.
func (t *MemoTable) GetEntry(key MemoKey) (*MemoEntry, bool) {
	ct, ok := t.outer.Load(key.Clause)
	if !ok {
		return nil, false
	}
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.positions.Load(position(key.StartPos))
}

// LookUpBestMatch is the operation of §4.2.
func (t *MemoTable) LookUpBestMatch(key, parent MemoKey) *Match {
	entry := t.getOrCreateEntry(key)
	if parent.StartPos != key.StartPos {
		entry.addBackRef(parent)
	}
	if m := entry.BestMatch(); m != nil {
		return m
	}
	if !key.Clause.canMatchZeroChars {
		return nil
	}
	if key.Clause.Kind == KindAnd || key.Clause.Kind == KindNot {
		// A lookahead clause's outcome is never "pending" the way an
		// ordinary nullable clause's is: ParseDriver's deferred
		// lookahead sweep (driver.go) only gets to run once the
		// positive fixpoint has converged, so a missing bestMatch
		// here means "permanently fails", not "not decided yet".
		// Synthesizing a zero-width placeholder would let a consuming
		// Seq treat a failing lookahead as a zero-width success that
		// the monotonic merge could then never retract.
		return nil
	}
	return &Match{
		Key:                       key,
		FirstMatchingSubClauseIdx: firstZeroWidthSubclauseIdx(key.Clause),
		Len:                       0,
		Placeholder:               true,
	}
}

func firstZeroWidthSubclauseIdx(c *Clause) int {
	for i, sub := range c.Subclauses {
		if sub.canMatchZeroChars {
			return i
		}
	}
	return 0
}

// addMatch is the private entry point of §4.3: it builds the Match,
// bumps the creation counter, and lets the entry decide whether it
// wins.  It returns the Match that was just built, which is what the
// calling clause's evaluation round produced -- regardless of whether
// it unseated the entry's incumbent.
func (t *MemoTable) addMatch(key MemoKey, firstMatchingSubClauseIdx, length int, children []*Match, dirty *dirtySet) *Match {
	m := &Match{
		Key:                       key,
		FirstMatchingSubClauseIdx: firstMatchingSubClauseIdx,
		Len:                       length,
		SubClauseMatches:          children,
	}
	t.numMatchObjectsCreated.Add(1)
	t.getOrCreateEntry(key).addNewBestMatch(t, m, dirty)
	return m
}

func (t *MemoTable) addTerminalMatch(key MemoKey, length int, dirty *dirtySet) *Match {
	return t.addMatch(key, 0, length, nil, dirty)
}

func (t *MemoTable) addNonTerminalMatch(key MemoKey, firstMatchingSubClauseIdx int, children []*Match, dirty *dirtySet) *Match {
	total := 0
	for _, child := range children {
		total += child.Len
	}
	return t.addMatch(key, firstMatchingSubClauseIdx, total, children, dirty)
}

// GetNonOverlappingMatches implements the extraction query of §4.4: a
// greedy left-to-right scan that, at every matched position, jumps the
// cursor past the match (advancing by at least 1 to guarantee
// termination on zero-width matches), and otherwise advances one
// position at a time.
func (t *MemoTable) GetNonOverlappingMatches(c *Clause) []*Match {
	ct, ok := t.outer.Load(c)
	if !ok {
		return nil
	}
	ct.mu.Lock()
	defer ct.mu.Unlock()

	end := position(len(t.input))
	var out []*Match
	cursor := position(0)
	for {
		gotKey, entry, ok := ct.positions.Ceiling(cursor)
		if !ok {
			break
		}
		// A match sitting exactly at end-of-input is always
		// zero-width: terminals are seeded at len(input) too, and
		// ParseDriver.Run probes the toplevel clause at every position
		// including len(input) (needed for dual completeness, see
		// driver.go), so a nullable clause trivially "matches" zero
		// characters past the last one. That isn't a token to
		// extract -- there's nothing left after it to consume -- so
		// it must not be reported as a second, phantom match trailing
		// a real one that already reached the end of input.
		if gotKey == end {
			break
		}
		m := entry.BestMatch()
		if m == nil {
			cursor = gotKey + 1
			continue
		}
		out = append(out, m)
		advance := m.Len
		if advance < 1 {
			advance = 1
		}
		cursor = gotKey + position(advance)
	}
	return out
}

// GetAllMatches implements the extraction query of §4.4: every probed
// entry with a non-nil bestMatch, in ascending startPos order.
func (t *MemoTable) GetAllMatches(c *Clause) []*Match {
	ct, ok := t.outer.Load(c)
	if !ok {
		return nil
	}
	ct.mu.Lock()
	defer ct.mu.Unlock()

	var out []*Match
	ct.positions.Range(func(_ position, e *MemoEntry) bool {
		if m := e.BestMatch(); m != nil {
			out = append(out, m)
		}
		return true
	})
	return out
}

// GetNonMatchPositions implements the dual of GetAllMatches: every
// probed position whose entry has no bestMatch.  This is "probed but
// failed", not "never probed" -- see GetUnprobedPositions for the
// complementary set.
func (t *MemoTable) GetNonMatchPositions(c *Clause) []int {
	ct, ok := t.outer.Load(c)
	if !ok {
		return nil
	}
	ct.mu.Lock()
	defer ct.mu.Unlock()

	var out []int
	ct.positions.Range(func(p position, e *MemoEntry) bool {
		if e.BestMatch() == nil {
			out = append(out, int(p))
		}
		return true
	})
	return out
}

// GetUnprobedPositions returns every position in [0, len(input)] for
// which c was never even evaluated -- positions with no MemoEntry at
// all. Together with GetAllMatches and GetNonMatchPositions this gives
// a caller the full three-way split over a clause's position space.
func (t *MemoTable) GetUnprobedPositions(c *Clause) []int {
	probed := containers.NewSet[int]()
	if ct, ok := t.outer.Load(c); ok {
		ct.mu.Lock()
		ct.positions.Range(func(p position, _ *MemoEntry) bool {
			probed.Insert(int(p))
			return true
		})
		ct.mu.Unlock()
	}
	var out []int
	for p := 0; p <= len(t.input); p++ {
		if !probed.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// DumpNonMatches writes GetNonMatchPositions(c) as a JSON array, for
// callers that want a machine-readable error-recovery report without
// pulling in AST construction.
func (t *MemoTable) DumpNonMatches(w io.Writer, c *Clause) error {
	return lowmemjson.Encode(w, t.GetNonMatchPositions(c))
}
