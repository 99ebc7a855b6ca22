//-----------------------------------------------------------------------------
// Copyright (c) 2025-present Detlef Stern
//
// This file is part of rtfmark.
//
// rtfmark is licensed under the latest version of the EUPL (European Union
// Public License). Please see file LICENSE.txt for your rights and obligations
// under this license.
//
// SPDX-License-Identifier: EUPL-1.2
// SPDX-FileCopyrightText: 2025-present Detlef Stern
//-----------------------------------------------------------------------------

// Package intern stores the text of words exactly once per conversion run.
//
// Strings are kept in 256 buckets, keyed by their first byte. For control
// words, which start with a backslash, the byte after the backslash is used,
// so that "\b" and "\i" do not end up in the same chain.
package intern

import "strings"

// escape starts an RTF control word.
const escape = '\\'

// Handle is a stable, read-only reference to an interned string. Two handles
// are equal if and only if they refer to the same canonical storage. The zero
// handle refers to no string at all.
type Handle struct{ it *item }

// String returns the interned text.
func (h Handle) String() string {
	if h.it == nil {
		return ""
	}
	return h.it.text
}

// IsValid returns true, if the handle refers to some interned text.
func (h Handle) IsValid() bool { return h.it != nil }

type item struct {
	next *item
	text string
}

// Table is the interned string table of one conversion run. The zero value
// is ready to use. A Table must not be used by more than one goroutine.
type Table struct {
	buckets [256]*item
	count   int
}

// NewTable creates a new, empty table.
func NewTable() *Table { return &Table{} }

// Intern returns the canonical handle for text, storing a copy of text if it
// was not seen before.
func (t *Table) Intern(text string) Handle {
	key := bucketKey(text)
	for it := t.buckets[key]; it != nil; it = it.next {
		if it.text == text {
			return Handle{it}
		}
	}
	it := &item{next: t.buckets[key], text: strings.Clone(text)}
	t.buckets[key] = it
	t.count++
	return Handle{it}
}

// Stats returns the number of distinct strings stored in the table.
func (t *Table) Stats() int { return t.count }

// Reset releases all interned strings. Handles retrieved before stay
// readable, but are no longer canonical.
func (t *Table) Reset() {
	clear(t.buckets[:])
	t.count = 0
}

func bucketKey(text string) byte {
	if len(text) == 0 {
		return 0
	}
	if text[0] == escape && len(text) > 1 {
		return text[1]
	}
	return text[0]
}
