// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package pika implements the memoization engine and bottom-up
// matching protocol of a pika parser: a dynamic-programming evaluator
// for Parsing Expression Grammars that seeds a memo table from
// terminal matches and propagates improvements upward along static
// and dynamic back-edges until a fixpoint is reached.
//
// Grammars are built as Go values (see builders.go) rather than
// parsed from a surface syntax; surface syntax, AST construction, and
// pretty-printing are all left to callers.
package pika
