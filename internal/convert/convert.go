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

// Package convert drives the conversion of a word tree into the markup of
// a personality.
package convert

import (
	"io"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"t73f.de/r/rtfmark/internal/attr"
	"t73f.de/r/rtfmark/internal/intern"
	"t73f.de/r/rtfmark/internal/logging"
	"t73f.de/r/rtfmark/internal/markup"
	"t73f.de/r/rtfmark/internal/personality"
	"t73f.de/r/rtfmark/internal/word"
)

// DefaultCharset is written into the document header, if the document
// does not specify an encoding.
const DefaultCharset = "utf-8"

// Options control a conversion.
type Options struct {
	// Simple suppresses non-essential markup, e.g. background colours.
	Simple bool

	// Inline omits the markup for document, header, and body.
	Inline bool

	// MaxAttrs is the maximum number of open attributes per group. Zero
	// means attr.DefaultMaxAttrs, attr.Unbounded means no limit.
	MaxAttrs int

	// Logger receives diagnostics. If nil, diagnostics are discarded.
	Logger *slog.Logger
}

// Converter converts word trees. It holds no state of a conversion, so it
// may be used for concurrent conversions.
type Converter struct {
	p    *personality.Personality
	opts Options
}

// New creates a new converter for the given personality.
func New(p *personality.Personality, opts Options) *Converter {
	return &Converter{p: p, opts: opts}
}

// Personality returns the personality of the converter.
func (c *Converter) Personality() *personality.Personality { return c.p }

// Convert writes the markup of the given document to w. Only write errors
// are returned; all other problems are logged.
func (c *Converter) Convert(w io.Writer, doc *word.Word) error {
	return c.convert(w, doc, intern.NewTable())
}

// ConvertReader reads a word tree in sx syntax and converts it.
func (c *Converter) ConvertReader(w io.Writer, r io.Reader) error {
	tab := intern.NewTable()
	doc, err := word.ReadSx(r, tab)
	if err != nil {
		return err
	}
	return c.convert(w, doc, tab)
}

func (c *Converter) convert(w io.Writer, doc *word.Word, tab *intern.Table) error {
	s := c.newSession(w, tab)
	word.Optimize(doc, tab)
	s.beginDocument()
	s.walk(doc)
	s.endDocument()
	s.logger.Debug("converted",
		"personality", c.p.Name(), "words", word.Count(doc), "interned", tab.Stats())
	s.reset()
	return s.w.Flush()
}

// session is the state of one conversion.
type session struct {
	c      *Converter
	w      *markup.Writer
	x      *markup.Expressor
	e      *attr.Engine
	tab    *intern.Table
	logger *slog.Logger
	upper  cases.Caser

	inBody  bool
	intbl   bool // current paragraph belongs to a table
	inTable bool
	inRow   bool
	inCell  bool
}

func (c *Converter) newSession(w io.Writer, tab *intern.Table) *session {
	s := &session{
		c:      c,
		w:      markup.NewWriter(w),
		tab:    tab,
		logger: logging.System(c.opts.Logger, "convert"),
		upper:  cases.Upper(language.Und),
	}
	s.x = markup.NewExpressor(s.w, c.p, markup.Options{Simple: c.opts.Simple, Logger: c.opts.Logger})
	s.e = attr.NewEngine(s.x, attr.Options{
		MaxAttrs: c.opts.MaxAttrs,
		Logger:   c.opts.Logger,
		OnStart:  s.startText,
	})
	return s
}

func (s *session) reset() {
	s.e.Reset()
	s.x.Reset()
	s.tab.Reset()
}

func (s *session) beginDocument() {
	if s.c.opts.Inline {
		return
	}
	s.x.BeginMarkup(personality.KeyDocument)
	s.x.BeginMarkup(personality.KeyHeader)
	charset, found := s.e.GetParam(attr.Encoding)
	if !found {
		charset = DefaultCharset
	}
	s.x.BeginMarkup(personality.KeyCharset, charset)
	s.x.EndMarkup(personality.KeyCharset)
}

func (s *session) endDocument() {
	s.closeTable()
	if s.c.opts.Inline {
		return
	}
	s.startBody()
	s.x.EndMarkup(personality.KeyBody)
	s.x.EndMarkup(personality.KeyDocument)
}

func (s *session) walk(w *word.Word) {
	switch w.Kind {
	case word.KindGroup:
		s.e.EnterScope()
		for _, child := range w.Children {
			s.walk(child)
		}
		s.e.LeaveScope()
	case word.KindText:
		s.startText()
		s.writeText(w.Text.String())
	case word.KindSet:
		s.e.Push(w.Attr, w.Text.String())
	case word.KindClear:
		s.e.FindPop(w.Attr)
	case word.KindPlain:
		s.e.PopAll()
	case word.KindPar:
		s.writeBreak(s.c.p.ParagraphBreak())
	case word.KindLine:
		s.writeBreak(s.c.p.LineBreak())
	case word.KindPage:
		s.writeBreak(s.c.p.PageBreak())
	case word.KindIntbl:
		s.intbl = true
	case word.KindPard:
		s.intbl = false
	case word.KindCell:
		s.intbl = true
		s.startBody()
		s.openCell()
		s.endCell()
	case word.KindRow:
		s.endRow()
	default:
		s.logger.Warn("unknown word", "kind", w.Kind)
	}
}

func (s *session) writeBreak(text string) {
	s.startText()
	s.w.WriteString(text)
}

// startBody makes sure that the header is closed and the body is open.
func (s *session) startBody() {
	if s.inBody {
		return
	}
	s.inBody = true
	if !s.c.opts.Inline {
		s.x.EndMarkup(personality.KeyHeader)
		s.x.BeginMarkup(personality.KeyBody)
	}
}

// startText is called before text is written and before an attribute is
// opened. It opens or closes table structure as needed and expresses the
// attributes again that were closed for the structure.
func (s *session) startText() {
	s.startBody()
	if s.intbl {
		s.openCell()
	} else if s.inTable {
		s.closeTable()
	}
	if s.e.Depth() > 0 && s.e.Suspended() {
		s.e.ExpressAll()
	}
}

// unexpress closes all attributes visually, so that structural markup can be
// written outside of them.
func (s *session) unexpress() {
	if s.e.Depth() > 0 {
		s.e.UnexpressAll()
	}
}

func (s *session) openCell() {
	if !s.inTable {
		s.unexpress()
		s.x.BeginMarkup(personality.KeyTable)
		s.inTable = true
	}
	if !s.inRow {
		s.unexpress()
		s.x.BeginMarkup(personality.KeyRow)
		s.inRow = true
	}
	if !s.inCell {
		s.unexpress()
		s.x.BeginMarkup(personality.KeyCell)
		s.inCell = true
	}
}

func (s *session) endCell() {
	if !s.inCell {
		return
	}
	s.unexpress()
	if s.c.p.CellReset() && s.e.Depth() > 0 {
		s.e.DropAll()
	}
	s.x.EndMarkup(personality.KeyCell)
	s.inCell = false
}

func (s *session) endRow() {
	s.endCell()
	if s.inRow {
		s.unexpress()
		s.x.EndMarkup(personality.KeyRow)
		s.inRow = false
	}
}

func (s *session) closeTable() {
	s.endRow()
	if s.inTable {
		s.unexpress()
		s.x.EndMarkup(personality.KeyTable)
		s.inTable = false
	}
}
