// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pika

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetterThan(t *testing.T) {
	t.Parallel()

	shorter := &Match{Len: 1, FirstMatchingSubClauseIdx: 0}
	longer := &Match{Len: 3, FirstMatchingSubClauseIdx: 5}
	tieLeft := &Match{Len: 3, FirstMatchingSubClauseIdx: 0}
	tieRight := &Match{Len: 3, FirstMatchingSubClauseIdx: 1}

	assert.True(t, betterThan(shorter, nil))
	assert.True(t, betterThan(longer, shorter))
	assert.False(t, betterThan(shorter, longer))
	assert.True(t, betterThan(tieLeft, tieRight))
	assert.False(t, betterThan(tieRight, tieLeft))
	assert.False(t, betterThan(tieLeft, tieLeft))
}
