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

package word

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"t73f.de/r/rtfmark/internal/attr"
	"t73f.de/r/rtfmark/internal/intern"
	"t73f.de/r/sx"
	"t73f.de/r/sx/sxreader"
)

// ErrSyntax is returned if a word tree could not be read.
var ErrSyntax = errors.New("word syntax error")

// ReadSx reads a word tree in sx syntax. All text is interned into tab.
//
//	(group (set fontface "Arial") "Hello " (group (set bold) "World") (par))
//
// Text is given as a string, groups and control words as lists.
func ReadSx(r io.Reader, tab *intern.Table) (*Word, error) {
	obj, err := sxreader.MakeReader(r).Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	pair, isPair := sx.GetPair(obj)
	if !isPair || pair == nil {
		return nil, fmt.Errorf("%w: group expected, but got %v", ErrSyntax, obj)
	}
	w, err := readWord(pair, tab)
	if err != nil {
		return nil, err
	}
	if w.Kind != KindGroup {
		return nil, fmt.Errorf("%w: group expected, but got %v", ErrSyntax, w.Kind)
	}
	return w, nil
}

func readWord(pair *sx.Pair, tab *intern.Table) (*Word, error) {
	sym, isSymbol := sx.GetSymbol(pair.Car())
	if !isSymbol {
		return nil, fmt.Errorf("%w: symbol expected, but got %v", ErrSyntax, pair.Car())
	}
	kind := parseKind(sym.GetValue())
	args := pair.Tail()
	switch kind {
	case KindGroup:
		return readGroup(args, tab)
	case KindText:
		if args != nil {
			if s, isString := sx.GetString(args.Car()); isString {
				return NewText(tab.Intern(s.GetValue())), nil
			}
		}
		return nil, fmt.Errorf("%w: text without string", ErrSyntax)
	case KindSet, KindClear:
		if args == nil {
			return nil, fmt.Errorf("%w: %v without attribute", ErrSyntax, kind)
		}
		ak := attr.ParseKind(symbolName(args.Car()))
		if ak == attr.None {
			return nil, fmt.Errorf("%w: unknown attribute %v", ErrSyntax, args.Car())
		}
		if kind == KindClear {
			return NewClear(ak), nil
		}
		var param intern.Handle
		if rest := args.Tail(); rest != nil {
			p, err := readParam(rest.Car())
			if err != nil {
				return nil, err
			}
			param = tab.Intern(p)
		}
		return NewSet(ak, param), nil
	case 0:
		return nil, fmt.Errorf("%w: unknown word %q", ErrSyntax, sym.GetValue())
	}
	return NewControl(kind), nil
}

func readGroup(args *sx.Pair, tab *intern.Table) (*Word, error) {
	var children []*Word
	for node := args; node != nil; node = node.Tail() {
		obj := node.Car()
		if s, isString := sx.GetString(obj); isString {
			children = append(children, NewText(tab.Intern(s.GetValue())))
			continue
		}
		pair, isPair := sx.GetPair(obj)
		if !isPair || pair == nil {
			return nil, fmt.Errorf("%w: word expected, but got %v", ErrSyntax, obj)
		}
		child, err := readWord(pair, tab)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return NewGroup(children...), nil
}

func readParam(obj sx.Object) (string, error) {
	if s, isString := sx.GetString(obj); isString {
		return s.GetValue(), nil
	}
	if num, isNumber := obj.(sx.Int64); isNumber {
		return strconv.FormatInt(int64(num), 10), nil
	}
	if name := symbolName(obj); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("%w: invalid parameter %v", ErrSyntax, obj)
}

func symbolName(obj sx.Object) string {
	if sym, isSymbol := sx.GetSymbol(obj); isSymbol {
		return sym.GetValue()
	}
	return ""
}

// Sx returns the sx representation of a word tree.
func Sx(w *Word) sx.Object {
	switch w.Kind {
	case KindGroup:
		var lb sx.ListBuilder
		lb.Add(sx.MakeSymbol(KindGroup.String()))
		for _, child := range w.Children {
			lb.Add(Sx(child))
		}
		return lb.List()
	case KindText:
		return sx.MakeString(w.Text.String())
	case KindSet:
		if w.Text.IsValid() {
			return sx.MakeList(
				sx.MakeSymbol(KindSet.String()),
				sx.MakeSymbol(w.Attr.String()),
				sx.MakeString(w.Text.String()),
			)
		}
		return sx.MakeList(sx.MakeSymbol(KindSet.String()), sx.MakeSymbol(w.Attr.String()))
	case KindClear:
		return sx.MakeList(sx.MakeSymbol(KindClear.String()), sx.MakeSymbol(w.Attr.String()))
	}
	return sx.MakeList(sx.MakeSymbol(w.Kind.String()))
}

// WriteSx writes the sx representation of a word tree.
func WriteSx(w io.Writer, word *Word) error {
	_, err := sx.Print(w, Sx(word))
	return err
}
