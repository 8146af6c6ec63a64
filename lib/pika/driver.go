// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"

	"github.com/hlukeshu-pika/pika/lib/containers"
	"github.com/hlukeshu-pika/pika/lib/textui"
)

// dirtySet is the "work queue of dirty clauses/positions" of §2 and
// the "shared mutable entry set" design note of §9: a FIFO of
// not-yet-reprocessed MemoKeys, deduplicated by a side Set so that a
// key dirtied twice in the same round is only drained once. Safe for
// concurrent use by the driver's worker goroutines.
type dirtySet struct {
	mu      sync.Mutex
	queue   containers.LinkedList[MemoKey]
	queued  containers.Set[MemoKey]
	entries map[MemoKey]*containers.LinkedListEntry[MemoKey]
}

func newDirtySet() *dirtySet {
	return &dirtySet{
		queued:  containers.NewSet[MemoKey](),
		entries: make(map[MemoKey]*containers.LinkedListEntry[MemoKey]),
	}
}

func (d *dirtySet) add(key MemoKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.queued.Has(key) {
		return
	}
	d.queued.Insert(key)
	entry := &containers.LinkedListEntry[MemoKey]{Value: key}
	d.queue.Store(entry)
	d.entries[key] = entry
}

// drain removes and returns every key currently queued, resetting the
// set for the next round.
func (d *dirtySet) drain() []MemoKey {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]MemoKey, 0, d.queue.Len)
	for d.queue.Oldest != nil {
		entry := d.queue.Oldest
		d.queue.Delete(entry)
		out = append(out, entry.Value)
	}
	d.queued = containers.NewSet[MemoKey]()
	d.entries = make(map[MemoKey]*containers.LinkedListEntry[MemoKey])
	return out
}

func (d *dirtySet) isEmpty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.IsEmpty()
}

// RunOptions configures ParseDriver.Run.
type RunOptions struct {
	// Workers is how many goroutines drain each propagation round
	// concurrently. Workers <= 1 runs single-threaded. Per §8's
	// Determinism property, the final table must not depend on this.
	Workers int

	// ProgressInterval, if non-zero, periodically logs fixpoint
	// progress via lib/textui.Progress.
	ProgressInterval time.Duration
}

// fixpointStats is what gets logged by the progress ticker each round.
type fixpointStats struct {
	Round    int
	Dirty    int
	Created  int64
	Memoized int64
}

func (s fixpointStats) String() string {
	return textui.Sprintf("round %d: %d dirty entries, %d matches created, %v memoized",
		s.Round, s.Dirty, s.Created, textui.Portion[int64]{N: s.Memoized, D: s.Created})
}

// ParseDriver owns the work queue of dirty clauses/positions: it
// seeds the table from terminals and runs the fixpoint until the
// queue drains (§4.6).
type ParseDriver struct {
	Grammar *Grammar
	Opts    RunOptions
}

// NewParseDriver constructs a driver for grammar with the given
// options, normalizing Workers to at least 1.
func NewParseDriver(grammar *Grammar, opts RunOptions) *ParseDriver {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &ParseDriver{Grammar: grammar, Opts: opts}
}

// Run seeds every (terminal-clause, position) pair over input and
// drains the propagation queue until it is empty, returning the
// completed MemoTable. ctx may be canceled to abort early; per §5 the
// resulting table is still internally consistent, just a partial
// fixpoint.
func (d *ParseDriver) Run(ctx context.Context, input string) *MemoTable {
	table := NewMemoTable(input)
	dirty := newDirtySet()

	var progress *textui.Progress[fixpointStats]
	if d.Opts.ProgressInterval > 0 {
		progress = textui.NewProgress[fixpointStats](ctx, dlog.LogLevelInfo, d.Opts.ProgressInterval)
		defer progress.Done()
	}

	terminals := d.Grammar.TerminalClauses()
	lookaheads := d.Grammar.LookaheadClauses()
	toplevel := d.Grammar.Toplevel

	round := 0
	drainAll := func() {
		for !dirty.isEmpty() {
			if ctx.Err() != nil {
				return
			}
			round++
			keys := dirty.drain()
			if progress != nil {
				progress.Set(fixpointStats{
					Round:    round,
					Dirty:    len(keys),
					Created:  table.NumMatchObjectsCreated(),
					Memoized: table.NumMatchObjectsMemoized(),
				})
			}
			d.propagateRound(ctx, table, input, keys, dirty)
		}
	}

	dlog.Infof(ctx, "seeding %d terminal clauses over %d positions", len(terminals), len(input)+1)
	for pos := 0; pos <= len(input); pos++ {
		if ctx.Err() != nil {
			return table
		}
		for _, term := range terminals {
			term.Match(BottomUp, table, MemoKey{Clause: term, StartPos: pos}, input, dirty)
		}
	}
	drainAll()

	// A lookahead clause's child "permanently fails to match" is only a
	// stable fact once the positive fixpoint above has converged, so
	// And/Not are also evaluated in a deferred sweep here. Through the
	// ordinary seed-parent graph a lookahead clause is re-evaluated only
	// when its child gains a match, which can never make a Not succeed;
	// the sweep is what evaluates them against a child that stays
	// unmatched. And the toplevel clause has no seed-parents of its own --
	// nothing will ever invoke it via propagation alone -- so it is
	// probed directly here too, the same way a terminal is seeded
	// directly. Both sweeps are idempotent against an already-converged
	// entry, so this loop always terminates once a full iteration adds
	// no new memoized matches.
	for ctx.Err() == nil {
		before := table.NumMatchObjectsMemoized()

		for pos := 0; pos <= len(input); pos++ {
			for _, la := range lookaheads {
				la.Match(BottomUp, table, MemoKey{Clause: la, StartPos: pos}, input, dirty)
			}
		}
		drainAll()

		for pos := 0; pos <= len(input); pos++ {
			toplevel.Match(BottomUp, table, MemoKey{Clause: toplevel, StartPos: pos}, input, dirty)
		}
		drainAll()

		if table.NumMatchObjectsMemoized() == before {
			break
		}
	}

	dlog.Infof(ctx, "fixpoint reached after %d rounds (%d clauses touched, %d matches created, %d memoized)",
		round, table.NumClausesTouched(), table.NumMatchObjectsCreated(), table.NumMatchObjectsMemoized())
	return table
}

// propagateRound implements step 2 of §4.6: for every key dirtied
// last round, re-evaluate its static seed-parents (at the same
// position) and its dynamic back-ref parents (at their own position).
// With more than one worker, the round's keys are sharded across a
// dgroup.Group of goroutines; every worker writes into the same
// MemoTable and dirtySet, both of which are internally synchronized.
func (d *ParseDriver) propagateRound(ctx context.Context, table *MemoTable, input string, keys []MemoKey, dirty *dirtySet) {
	if d.Opts.Workers <= 1 || len(keys) < d.Opts.Workers {
		reevaluate(table, input, keys, dirty)
		return
	}

	grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{})
	shardSize := (len(keys) + d.Opts.Workers - 1) / d.Opts.Workers
	for w := 0; w < d.Opts.Workers; w++ {
		lo := w * shardSize
		if lo >= len(keys) {
			break
		}
		hi := lo + shardSize
		if hi > len(keys) {
			hi = len(keys)
		}
		shard := keys[lo:hi]
		grp.Go(fmt.Sprintf("worker-%d", w), func(ctx context.Context) error {
			reevaluate(table, input, shard, dirty)
			return nil
		})
	}
	_ = grp.Wait() // reevaluate is infallible; Wait only for completion
}

func reevaluate(table *MemoTable, input string, keys []MemoKey, dirty *dirtySet) {
	for _, key := range keys {
		entry, ok := table.GetEntry(key)
		if !ok {
			continue
		}
		for pc := range key.Clause.SeedParentClauses() {
			parentKey := MemoKey{Clause: pc, StartPos: key.StartPos}
			pc.Match(BottomUp, table, parentKey, input, dirty)
		}
		for _, pk := range entry.backRefSnapshot() {
			pk.Clause.Match(BottomUp, table, pk, input, dirty)
		}
	}
}
