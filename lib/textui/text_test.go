// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package textui_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hlukeshu-pika/pika/lib/textui"
)

// memoOffset mimics the style of a domain-specific address type (as
// btrfsvol.LogicalAddr does for on-disk addresses) so that Humanized's
// dispatch through a value's own Format method can be exercised: a
// memoized byte offset into the parser's input, rendered in hex by
// default and as a plain integer under %d.
type memoOffset uint64

func (o memoOffset) Format(f fmt.State, verb rune) {
	switch verb {
	case 'd':
		fmt.Fprintf(f, "%d", uint64(o))
	default:
		fmt.Fprintf(f, "0x%016x", uint64(o))
	}
}

func TestFprintf(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	textui.Fprintf(&out, "%d", 12345)
	assert.Equal(t, "12,345", out.String())
}

func TestHumanized(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "12,345", fmt.Sprint(textui.Humanized(12345)))
	assert.Equal(t, "12,345  ", fmt.Sprintf("%-8d", textui.Humanized(12345)))

	pos := memoOffset(345243543)
	assert.Equal(t, "0x000000001493ff97", fmt.Sprintf("%v", textui.Humanized(pos)))
	assert.Equal(t, "345243543", fmt.Sprintf("%d", textui.Humanized(pos)))
	assert.Equal(t, "345,243,543", fmt.Sprintf("%d", textui.Humanized(uint64(pos))))
}

func TestPortion(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "100% (0/0)", fmt.Sprint(textui.Portion[int]{}))
	assert.Equal(t, "0% (1/12,345)", fmt.Sprint(textui.Portion[int]{N: 1, D: 12345}))
	assert.Equal(t, "100% (0/0)", fmt.Sprint(textui.Portion[uint32]{}))
	assert.Equal(t, "0% (1/12,345)", fmt.Sprint(textui.Portion[uint32]{N: 1, D: 12345}))
}
