// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"sort"

	"github.com/hlukeshu-pika/pika/lib/pika"
)

// demo is one of pikabench's built-in grammars: §8's scenarios,
// expressed with the Go-native construction DSL of lib/pika/builders.go
// rather than parsed from surface syntax (out of scope, see SPEC_FULL.md
// §1/§C.2).
type demo struct {
	Name        string
	Description string
	DefaultArg  string
	Build       func() *pika.Grammar
}

func digitClause() *pika.Clause {
	return pika.CharPred("digit", func(b byte) bool { return b >= '0' && b <= '9' })
}

var demos = map[string]demo{
	"star": {
		Name:        "star",
		Description: `S <- 'a'*`,
		DefaultArg:  "aaa",
		Build: func() *pika.Grammar {
			return pika.NewGrammar(pika.ZeroOrMore(pika.Lit("a")))
		},
	},
	"choice": {
		Name:        "choice",
		Description: `S <- 'a' / 'ab'  (ordered choice, left-biased)`,
		DefaultArg:  "ab",
		Build: func() *pika.Grammar {
			return pika.NewGrammar(pika.Choice(pika.Lit("a"), pika.Lit("ab")))
		},
	},
	"longest": {
		Name:        "longest",
		Description: `S <- 'a' | 'ab'  (longest-match, exhaustive)`,
		DefaultArg:  "ab",
		Build: func() *pika.Grammar {
			return pika.NewGrammar(pika.Longest(pika.Lit("a"), pika.Lit("ab")))
		},
	},
	"arith": {
		Name:        "arith",
		Description: `E <- E '+' E / digit  (left recursion)`,
		DefaultArg:  "1+2+3",
		Build: func() *pika.Grammar {
			e := &pika.Clause{Kind: pika.KindChoice}
			plus := pika.Seq(e, pika.Lit("+"), e)
			e.Subclauses = []*pika.Clause{plus, digitClause()}
			return pika.NewGrammar(e)
		},
	},
	"lookahead": {
		Name:        "lookahead",
		Description: `S <- !'x' .  (negative lookahead)`,
		DefaultArg:  "y",
		Build: func() *pika.Grammar {
			return pika.NewGrammar(pika.Seq(pika.Not(pika.Lit("x")), pika.Any()))
		},
	},
}

func demoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
