// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMatchZeroChars(t *testing.T) {
	t.Parallel()

	digit := CharPred("digit", func(b byte) bool { return b >= '0' && b <= '9' })
	lit := Lit("a")
	empty := Lit("")

	cases := []struct {
		name  string
		build func() *Clause
		want  bool
	}{
		{"terminal-nonempty", func() *Clause { return lit }, false},
		{"terminal-empty", func() *Clause { return empty }, true},
		{"opt", func() *Clause { return Opt(lit) }, true},
		{"not", func() *Clause { return Not(lit) }, true},
		{"and", func() *Clause { return And(lit) }, true},
		{"zero-or-more", func() *Clause { return ZeroOrMore(digit) }, true},
		{"one-or-more-nullable-child", func() *Clause { return OneOrMore(empty) }, true},
		{"one-or-more-nonnullable-child", func() *Clause { return OneOrMore(digit) }, false},
		{"seq-all-nullable", func() *Clause { return Seq(Opt(lit), Opt(digit)) }, true},
		{"seq-one-nonnullable", func() *Clause { return Seq(lit, Opt(digit)) }, false},
		{"choice-any-nullable", func() *Clause { return Choice(lit, Opt(digit)) }, true},
		{"choice-none-nullable", func() *Clause { return Choice(lit, digit) }, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			top := tc.build()
			NewGrammar(top)
			assert.Equal(t, tc.want, top.CanMatchZeroChars())
		})
	}
}

func TestSeedParentClauses(t *testing.T) {
	t.Parallel()

	a := Lit("a")
	b := Lit("b")
	choice := Choice(a, b)
	longest := Longest(a, b)
	seq := Seq(a, b)

	top := Seq(choice, longest, seq)
	NewGrammar(top)

	// Ordered-choice and longest seed from every alternative.
	assert.True(t, a.SeedParentClauses().Has(choice))
	assert.True(t, b.SeedParentClauses().Has(choice))
	assert.True(t, a.SeedParentClauses().Has(longest))
	assert.True(t, b.SeedParentClauses().Has(longest))

	// Sequence seeds only from its first subclause.
	assert.True(t, a.SeedParentClauses().Has(seq))
	assert.False(t, b.SeedParentClauses().Has(seq))

	// Top seeds from its first subclause only (choice).
	assert.True(t, choice.SeedParentClauses().Has(top))
	assert.False(t, longest.SeedParentClauses().Has(top))
}

func TestLeftRecursiveGrammarFreezeTerminates(t *testing.T) {
	t.Parallel()

	// E <- E '+' E / digit
	digit := CharPred("digit", func(b byte) bool { return b >= '0' && b <= '9' })
	e := &Clause{Kind: KindChoice}
	plus := Seq(e, Lit("+"), e)
	e.Subclauses = []*Clause{plus, digit}

	NewGrammar(e)
	assert.False(t, e.CanMatchZeroChars())
	assert.True(t, digit.SeedParentClauses().Has(e))
	assert.True(t, plus.SeedParentClauses().Has(e))
}
