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

package convert

import (
	"unicode"
	"unicode/utf8"

	"t73f.de/r/rtfmark/internal/personality"
)

// writeText writes literal text. The state of simulated capitals is sampled
// once per text.
func (s *session) writeText(text string) {
	p := s.c.p
	switch caps := s.x.Caps(); {
	case caps.AllCaps:
		s.w.WriteString(p.ReplaceChars(s.upper.String(text)))
	case caps.SmallCaps:
		s.writeSmallCaps(text)
	default:
		s.w.WriteString(p.ReplaceChars(text))
	}
}

// writeSmallCaps writes lower case letters as smaller upper case letters.
func (s *session) writeSmallCaps(text string) {
	p := s.c.p
	for len(text) > 0 {
		r, _ := utf8.DecodeRuneInString(text)
		lower := unicode.IsLower(r)
		end := len(text)
		for i, ch := range text {
			if unicode.IsLower(ch) != lower {
				end = i
				break
			}
		}
		run := text[:end]
		text = text[end:]
		if lower {
			s.x.BeginMarkup(personality.KeySmaller)
			s.w.WriteString(p.ReplaceChars(s.upper.String(run)))
			s.x.EndMarkup(personality.KeySmaller)
		} else {
			s.w.WriteString(p.ReplaceChars(run))
		}
	}
}
