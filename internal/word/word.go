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

// Package word provides the tree of words of an RTF document, as delivered
// by a tokenizer: groups, literal text, and control words.
package word

import (
	"strconv"

	"t73f.de/r/rtfmark/internal/attr"
	"t73f.de/r/rtfmark/internal/intern"
)

// Kind enumerates the kinds of words.
type Kind uint8

// Constants for Kind
const (
	_         Kind = iota
	KindGroup      // {...}, has children
	KindText       // literal text
	KindSet        // set an attribute, with optional parameter
	KindClear      // clear an attribute
	KindPlain      // \plain: clear all attributes
	KindPar        // \par
	KindLine       // \line
	KindPage       // \page
	KindIntbl      // \intbl: paragraph is part of a table
	KindCell       // \cell
	KindRow        // \row
	KindPard       // \pard: reset paragraph properties
	numKinds
)

var kindNames = [...]string{
	KindGroup: "group",
	KindText:  "text",
	KindSet:   "set",
	KindClear: "clear",
	KindPlain: "plain",
	KindPar:   "par",
	KindLine:  "line",
	KindPage:  "page",
	KindIntbl: "intbl",
	KindCell:  "cell",
	KindRow:   "row",
	KindPard:  "pard",
}

func (k Kind) String() string {
	if 0 < k && k < numKinds {
		return kindNames[k]
	}
	return strconv.Itoa(int(k))
}

func parseKind(name string) Kind {
	for k := KindGroup; k < numKinds; k++ {
		if kindNames[k] == name {
			return k
		}
	}
	return 0
}

// Word is one node of the word tree.
type Word struct {
	Kind     Kind
	Attr     attr.Kind     // KindSet, KindClear
	Text     intern.Handle // text of KindText, parameter of KindSet
	Children []*Word       // KindGroup
}

// NewGroup creates a group of words.
func NewGroup(children ...*Word) *Word { return &Word{Kind: KindGroup, Children: children} }

// NewText creates a text word.
func NewText(text intern.Handle) *Word { return &Word{Kind: KindText, Text: text} }

// NewSet creates a word that sets an attribute.
func NewSet(k attr.Kind, param intern.Handle) *Word {
	return &Word{Kind: KindSet, Attr: k, Text: param}
}

// NewClear creates a word that clears an attribute.
func NewClear(k attr.Kind) *Word { return &Word{Kind: KindClear, Attr: k} }

// NewControl creates a control word without further data, like KindPar.
func NewControl(k Kind) *Word { return &Word{Kind: k} }

// IsEmpty returns true, if the word is a group without children, or an
// empty text.
func (w *Word) IsEmpty() bool {
	switch w.Kind {
	case KindGroup:
		return len(w.Children) == 0
	case KindText:
		return w.Text.String() == ""
	}
	return false
}

// Optimize simplifies the tree: adjacent text words are merged, empty text
// words and empty groups are removed. Merged text is interned into tab.
func Optimize(w *Word, tab *intern.Table) {
	if w == nil || w.Kind != KindGroup {
		return
	}
	result := w.Children[:0]
	for _, child := range w.Children {
		Optimize(child, tab)
		if child.IsEmpty() {
			continue
		}
		if child.Kind == KindText && len(result) > 0 {
			if last := result[len(result)-1]; last.Kind == KindText {
				result[len(result)-1] = NewText(tab.Intern(last.Text.String() + child.Text.String()))
				continue
			}
		}
		result = append(result, child)
	}
	clear(w.Children[len(result):])
	w.Children = result
}

// Count returns the number of words in the tree, including w.
func Count(w *Word) int {
	if w == nil {
		return 0
	}
	n := 1
	for _, child := range w.Children {
		n += Count(child)
	}
	return n
}
