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

// Package personality describes output formats ("personalities") and loads
// them from sx, TOML, or YAML files.
//
// A personality maps markup keys to begin/end templates. Templates may
// contain one placeholder "%", which is substituted by the parameter of an
// attribute (font face, colour, ...). "\%" is a literal percent sign.
package personality

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"t73f.de/r/rtfmark/internal/attr"
	"t73f.de/r/zero/set"
)

// Markup keys for document structure.
const (
	KeyDocument = "document"
	KeyHeader   = "header"
	KeyBody     = "body"
	KeyCharset  = "charset"
	KeyTable    = "table"
	KeyRow      = "row"
	KeyCell     = "cell"
	KeySmaller  = "smaller"
	KeyFontSize = "fontsize"
)

// Names of attributes that may be simulated.
const (
	SimulateCaps      = "caps"
	SimulateSmallCaps = "smallcaps"
)

// StandardSizes are the font sizes (in points) for which a personality may
// define specific markup, e.g. "fontsize-12".
var StandardSizes = []int{8, 10, 12, 14, 18, 24, 36, 48}

// FontSizeKey returns the markup key for a standard font size.
func FontSizeKey(size int) string { return KeyFontSize + "-" + strconv.Itoa(size) }

// Errors returned when building or loading a personality.
var (
	ErrUnknownKey         = errors.New("unknown personality key")
	ErrUnknownPersonality = errors.New("unknown personality")
)

// validKeys contains all keys that may be used for markup.
var validKeys = set.New(markupKeys()...)

func markupKeys() []string {
	keys := []string{
		KeyDocument, KeyHeader, KeyBody, KeyCharset,
		KeyTable, KeyRow, KeyCell, KeySmaller,
	}
	for _, k := range attr.Kinds() {
		if HasMarkup(k) {
			keys = append(keys, k.String())
		}
	}
	for _, size := range StandardSizes {
		keys = append(keys, FontSizeKey(size))
	}
	return keys
}

// HasMarkup returns true, if the attribute kind has markup on its own. All
// underline variants, except the double underline, are written as a plain
// underline. The encoding is never written as an attribute.
func HasMarkup(k attr.Kind) bool {
	switch {
	case k == attr.Encoding:
		return false
	case k.IsUnderline():
		return k == attr.Underline || k == attr.DoubleUnderline
	}
	return k.IsValid()
}

// IsValidKey returns true, if the key may be used for markup.
func IsValidKey(key string) bool { return validKeys.Contains(key) }

// Markup is the pair of templates for beginning and ending something.
type Markup struct {
	Begin string `toml:"begin" yaml:"begin"`
	End   string `toml:"end" yaml:"end"`
}

// Definition is the external form of a personality, as stored in a file.
type Definition struct {
	Name           string            `toml:"name" yaml:"name"`
	Simple         bool              `toml:"simple" yaml:"simple"`
	Simulate       []string          `toml:"simulate" yaml:"simulate"`
	CellReset      bool              `toml:"cell-reset" yaml:"cell-reset"`
	LineBreak      string            `toml:"line-break" yaml:"line-break"`
	PageBreak      string            `toml:"page-break" yaml:"page-break"`
	ParagraphBreak string            `toml:"paragraph-break" yaml:"paragraph-break"`
	Markup         map[string]Markup `toml:"markup" yaml:"markup"`
	Chars          map[string]string `toml:"chars" yaml:"chars"`
}

// Personality is a validated, read-only output format. It may be shared
// between concurrent conversions.
type Personality struct {
	name              string
	simple            bool
	simulateCaps      bool
	simulateSmallCaps bool
	cellReset         bool
	lineBreak         string
	pageBreak         string
	paraBreak         string
	markup            map[string]Markup
	chars             *strings.Replacer
}

// Build validates the definition and creates a personality from it.
func (def *Definition) Build() (*Personality, error) {
	if def.Name == "" {
		return nil, errors.New("personality without name")
	}
	p := Personality{
		name:      def.Name,
		simple:    def.Simple,
		cellReset: def.CellReset,
		lineBreak: def.LineBreak,
		pageBreak: def.PageBreak,
		paraBreak: def.ParagraphBreak,
		markup:    make(map[string]Markup, len(def.Markup)),
	}
	for _, name := range def.Simulate {
		switch name {
		case SimulateCaps:
			p.simulateCaps = true
		case SimulateSmallCaps:
			p.simulateSmallCaps = true
		default:
			return nil, fmt.Errorf("%w: simulate %q in personality %q", ErrUnknownKey, name, def.Name)
		}
	}
	for key, m := range def.Markup {
		if !IsValidKey(key) {
			return nil, fmt.Errorf("%w: markup %q in personality %q", ErrUnknownKey, key, def.Name)
		}
		p.markup[key] = m
	}
	if len(def.Chars) > 0 {
		oldnew := make([]string, 0, 2*len(def.Chars))
		for _, from := range slices.Sorted(maps.Keys(def.Chars)) {
			if from == "" {
				return nil, fmt.Errorf("empty character replacement in personality %q", def.Name)
			}
			oldnew = append(oldnew, from, def.Chars[from])
		}
		p.chars = strings.NewReplacer(oldnew...)
	}
	return &p, nil
}

// Name returns the name of the personality.
func (p *Personality) Name() string { return p.name }

// Simple returns true, if the personality wants a reduced output, e.g.
// without background colours.
func (p *Personality) Simple() bool { return p.simple }

// SimulateCaps returns true, if all-caps text is produced by upper-casing
// the text instead of using markup.
func (p *Personality) SimulateCaps() bool { return p.simulateCaps }

// SimulateSmallCaps returns true, if small-caps text is produced by
// transforming the text instead of using markup.
func (p *Personality) SimulateSmallCaps() bool { return p.simulateSmallCaps }

// CellReset returns true, if a table cell resets all character attributes.
func (p *Personality) CellReset() bool { return p.cellReset }

// LineBreak returns the text for a forced line break.
func (p *Personality) LineBreak() string { return p.lineBreak }

// PageBreak returns the text for a page break.
func (p *Personality) PageBreak() string { return p.pageBreak }

// ParagraphBreak returns the text for the end of a paragraph.
func (p *Personality) ParagraphBreak() string { return p.paraBreak }

// Markup returns the markup for the given key.
func (p *Personality) Markup(key string) (Markup, bool) {
	m, found := p.markup[key]
	return m, found
}

// Keys returns all defined markup keys, sorted.
func (p *Personality) Keys() []string { return slices.Sorted(maps.Keys(p.markup)) }

// ReplaceChars replaces all characters that have a special meaning in the
// output format.
func (p *Personality) ReplaceChars(s string) string {
	if p.chars == nil {
		return s
	}
	return p.chars.Replace(s)
}
