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

// Package markup writes the markup of a personality for attributes and
// document structure.
package markup

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"t73f.de/r/rtfmark/internal/attr"
	"t73f.de/r/rtfmark/internal/logging"
	"t73f.de/r/rtfmark/internal/personality"
)

// Caps is the state of simulated capitals. It is consulted when text is
// written.
type Caps struct {
	AllCaps   bool
	SmallCaps bool
}

// Reset clears all flags.
func (c *Caps) Reset() { *c = Caps{} }

// Options control the behaviour of an expressor.
type Options struct {
	// Simple suppresses markup that is not essential, e.g. background colours.
	Simple bool

	// Logger receives diagnostics. If nil, diagnostics are discarded.
	Logger *slog.Logger
}

// Expressor writes markup for attributes. It implements attr.Expresser.
type Expressor struct {
	w      *Writer
	p      *personality.Personality
	simple bool
	caps   Caps
	logger *slog.Logger
}

// NewExpressor creates a new expressor that writes to w, using the given
// personality.
func NewExpressor(w *Writer, p *personality.Personality, opts Options) *Expressor {
	return &Expressor{
		w:      w,
		p:      p,
		simple: opts.Simple || p.Simple(),
		logger: logging.System(opts.Logger, "markup"),
	}
}

// Writer returns the writer of the expressor.
func (x *Expressor) Writer() *Writer { return x.w }

// Personality returns the personality of the expressor.
func (x *Expressor) Personality() *personality.Personality { return x.p }

// Simple returns true, if simple mode is active.
func (x *Expressor) Simple() bool { return x.simple }

// Caps returns the current state of simulated capitals.
func (x *Expressor) Caps() Caps { return x.caps }

// Reset clears the state of simulated capitals.
func (x *Expressor) Reset() { x.caps.Reset() }

type variant uint8

const (
	varNone       variant = iota // nothing to write
	varPlain                     // template without parameter
	varParam                     // begin template with one parameter
	varFontSize                  // standard size classes
	varCaps                      // markup or simulation
	varBackground                // suppressed in simple mode
)

// handler describes how an attribute kind is expressed. If there is no
// markup for key, the markup for fallback is used.
type handler struct {
	variant  variant
	key      string
	fallback string
}

var handlers = map[attr.Kind]handler{
	attr.None:                {varNone, "", ""},
	attr.Bold:                {varPlain, "bold", ""},
	attr.Italic:              {varPlain, "italic", ""},
	attr.Underline:           {varPlain, "underline", ""},
	attr.DoubleUnderline:     {varPlain, "double-underline", "underline"},
	attr.WordUnderline:       {varPlain, "underline", ""},
	attr.ThickUnderline:      {varPlain, "underline", ""},
	attr.WaveUnderline:       {varPlain, "underline", ""},
	attr.DotUnderline:        {varPlain, "underline", ""},
	attr.DashUnderline:       {varPlain, "underline", ""},
	attr.DotDashUnderline:    {varPlain, "underline", ""},
	attr.DotDotDashUnderline: {varPlain, "underline", ""},
	attr.FontSize:            {varFontSize, personality.KeyFontSize, ""},
	attr.FontFace:            {varParam, "fontface", ""},
	attr.Foreground:          {varParam, "foreground", ""},
	attr.Background:          {varBackground, "background", ""},
	attr.Caps:                {varCaps, "caps", ""},
	attr.SmallCaps:           {varCaps, "smallcaps", ""},
	attr.Shadow:              {varPlain, "shadow", ""},
	attr.Outline:             {varPlain, "outline", ""},
	attr.Emboss:              {varPlain, "emboss", ""},
	attr.Engrave:             {varPlain, "engrave", ""},
	attr.Superscript:         {varPlain, "superscript", ""},
	attr.Subscript:           {varPlain, "subscript", ""},
	attr.Strike:              {varPlain, "strike", ""},
	attr.DoubleStrike:        {varPlain, "double-strike", ""},
	attr.Expand:              {varParam, "expand", ""},
	attr.Encoding:            {varNone, "", ""},
}

// Begin writes the begin markup of an attribute.
func (x *Expressor) Begin(e attr.Entry) { x.express(e, true) }

// End writes the end markup of an attribute.
func (x *Expressor) End(e attr.Entry) { x.express(e, false) }

func (x *Expressor) express(e attr.Entry, begin bool) {
	h, found := handlers[e.Kind]
	if !found {
		x.logger.Warn("unknown attribute", "kind", e.Kind)
		return
	}
	switch h.variant {
	case varPlain:
		x.writeHandler(h, begin)
	case varParam:
		x.writeHandler(h, begin, e.Param)
	case varBackground:
		if !x.simple {
			x.writeHandler(h, begin, e.Param)
		}
	case varFontSize:
		x.fontSize(e.Param, begin)
	case varCaps:
		x.capitals(e.Kind, h, begin)
	}
}

func (x *Expressor) writeHandler(h handler, begin bool, params ...string) {
	if m, found := x.p.Markup(h.key); found {
		x.write(h.key, m, begin, params...)
	} else if h.fallback != "" {
		if m, found = x.p.Markup(h.fallback); found {
			x.write(h.fallback, m, begin, params...)
		}
	}
}

// write writes the begin or end template. Only begin templates receive
// parameters. Parameters get the same character replacement as text.
func (x *Expressor) write(key string, m personality.Markup, begin bool, params ...string) {
	tmpl, suffix := m.End, "-end"
	if begin {
		tmpl, suffix = m.Begin, "-begin"
		replaced := make([]string, len(params))
		for i, param := range params {
			replaced[i] = x.p.ReplaceChars(param)
		}
		params = replaced
	} else {
		params = nil
	}
	if tmpl == "" {
		return
	}
	s, excess := Expand(tmpl, params...)
	if excess > 0 {
		x.logger.Warn("too many placeholders", "template", key+suffix, "excess", excess)
	}
	x.w.WriteString(s)
}

// fontSize writes markup for a font size. An exact markup for a standard
// size is preferred, then a generic markup with the size as parameter, and
// at last the markup of the nearest standard size.
func (x *Expressor) fontSize(param string, begin bool) {
	size, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil {
		x.logger.Warn("invalid font size", "size", param)
		return
	}
	if slices.Contains(personality.StandardSizes, size) {
		key := personality.FontSizeKey(size)
		if m, found := x.p.Markup(key); found {
			x.write(key, m, begin)
			return
		}
	}
	if m, found := x.p.Markup(personality.KeyFontSize); found {
		x.write(personality.KeyFontSize, m, begin, strconv.Itoa(size))
		return
	}
	key := personality.FontSizeKey(StandardSize(size))
	if m, found := x.p.Markup(key); found {
		x.write(key, m, begin)
	}
}

// StandardSize returns the standard size class of a font size in points.
func StandardSize(size int) int {
	switch {
	case size < 9:
		return 8
	case size < 11:
		return 10
	case size < 13:
		return 12
	case size < 16:
		return 14
	case size < 21:
		return 18
	case size < 30:
		return 24
	case size < 42:
		return 36
	default:
		return 48
	}
}

func (x *Expressor) capitals(kind attr.Kind, h handler, begin bool) {
	switch {
	case kind == attr.Caps && x.p.SimulateCaps():
		x.caps.AllCaps = begin
	case kind == attr.SmallCaps && x.p.SimulateSmallCaps():
		x.caps.SmallCaps = begin
	default:
		x.writeHandler(h, begin)
	}
}

// BeginMarkup writes the begin markup for a structural key, like "body" or
// "cell". Nothing is written if the personality has no such markup.
func (x *Expressor) BeginMarkup(key string, params ...string) {
	if m, found := x.p.Markup(key); found {
		x.write(key, m, true, params...)
	}
}

// EndMarkup writes the end markup for a structural key.
func (x *Expressor) EndMarkup(key string) {
	if m, found := x.p.Markup(key); found {
		x.write(key, m, false)
	}
}
