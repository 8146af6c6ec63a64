// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import (
	"sync"

	"github.com/hlukeshu-pika/pika/lib/containers"
)

// MemoEntry is the mutable cell keyed by a MemoKey.  A MemoEntry
// exists in a MemoTable iff some evaluation has inspected that
// (clause, startPos) pair.
type MemoEntry struct {
	Key MemoKey

	mu        sync.Mutex
	bestMatch *Match
	backRefs  containers.Set[MemoKey]
}

// BestMatch returns the current best match, or nil if none has been
// found yet.  bestMatch only ever improves under the "better than"
// order (§3); once non-nil, it never becomes nil again.
func (e *MemoEntry) BestMatch() *Match {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bestMatch
}

// addBackRef records parent as a dynamic dependent of e, to be
// re-evaluated whenever e's bestMatch improves.  Idempotent.
func (e *MemoEntry) addBackRef(parent MemoKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.backRefs == nil {
		e.backRefs = containers.NewSet[MemoKey]()
	}
	e.backRefs.Insert(parent)
}

// backRefSnapshot copies out the current back-refs so callers can
// iterate them without holding e's lock across re-evaluation (which
// may itself want to add back-refs to e).
func (e *MemoEntry) backRefSnapshot() []MemoKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]MemoKey, 0, len(e.backRefs))
	for k := range e.backRefs {
		out = append(out, k)
	}
	return out
}

// addNewBestMatch is the contract of §4.3: if there is no incumbent,
// or candidate is strictly better, replace the incumbent, bump the
// table's memoized counter, and mark e dirty.  Otherwise the
// candidate is discarded with no state change.
func (e *MemoEntry) addNewBestMatch(table *MemoTable, candidate *Match, dirty *dirtySet) {
	e.mu.Lock()
	if !betterThan(candidate, e.bestMatch) {
		e.mu.Unlock()
		return
	}
	e.bestMatch = candidate
	e.mu.Unlock()

	table.numMatchObjectsMemoized.Add(1)
	dirty.add(e.Key)
}
