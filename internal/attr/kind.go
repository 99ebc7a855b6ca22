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

package attr

import "strconv"

// Kind enumerates the character formatting attributes.
type Kind uint8

// Constants for Kind
const (
	None Kind = iota
	Bold
	Italic

	Underline
	DoubleUnderline
	WordUnderline
	ThickUnderline
	WaveUnderline
	DotUnderline
	DashUnderline
	DotDashUnderline
	DotDotDashUnderline

	FontSize
	FontFace
	Foreground
	Background
	Caps
	SmallCaps

	Shadow
	Outline
	Emboss
	Engrave

	Superscript
	Subscript
	Strike
	DoubleStrike

	Expand
	Encoding

	numKinds
)

var kindNames = [...]string{
	None:                "none",
	Bold:                "bold",
	Italic:              "italic",
	Underline:           "underline",
	DoubleUnderline:     "double-underline",
	WordUnderline:       "word-underline",
	ThickUnderline:      "thick-underline",
	WaveUnderline:       "wave-underline",
	DotUnderline:        "dot-underline",
	DashUnderline:       "dash-underline",
	DotDashUnderline:    "dot-dash-underline",
	DotDotDashUnderline: "2dot-dash-underline",
	FontSize:            "fontsize",
	FontFace:            "fontface",
	Foreground:          "foreground",
	Background:          "background",
	Caps:                "caps",
	SmallCaps:           "smallcaps",
	Shadow:              "shadow",
	Outline:             "outline",
	Emboss:              "emboss",
	Engrave:             "engrave",
	Superscript:         "superscript",
	Subscript:           "subscript",
	Strike:              "strike",
	DoubleStrike:        "double-strike",
	Expand:              "expand",
	Encoding:            "encoding",
}

// IsValid returns true, if the kind is a known attribute (excluding None).
func (k Kind) IsValid() bool { return None < k && k < numKinds }

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return strconv.Itoa(int(k))
}

// HasParam returns true, if an attribute of this kind carries a parameter.
func (k Kind) HasParam() bool {
	switch k {
	case FontSize, FontFace, Foreground, Background, Expand, Encoding:
		return true
	}
	return false
}

// IsUnderline returns true for all underline variants.
func (k Kind) IsUnderline() bool { return Underline <= k && k <= DotDotDashUnderline }

// ParseKind returns the kind with the given name, or None.
func ParseKind(name string) Kind {
	for k := Bold; k < numKinds; k++ {
		if kindNames[k] == name {
			return k
		}
	}
	return None
}

// Kinds returns all valid kinds, ordered by value.
func Kinds() []Kind {
	result := make([]Kind, 0, numKinds-1)
	for k := Bold; k < numKinds; k++ {
		result = append(result, k)
	}
	return result
}

// Entry is one open attribute together with its optional parameter.
type Entry struct {
	Kind  Kind
	Param string
}

func (e Entry) String() string {
	if e.Param == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + "=" + e.Param
}
