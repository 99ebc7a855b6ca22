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

package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// LineHandler is a slog.Handler that writes one line per record:
//
//	2025-01-02 15:04:05 WARN  attr   too many attributes kind=bold
//
// The value of an attribute with key "system" is written as a padded prefix.
type LineHandler struct {
	lw     *lineWriter
	level  slog.Leveler
	system string
	attrs  string
}

// NewLineHandler creates a new handler that writes to w.
func NewLineHandler(w io.Writer, level slog.Leveler) *LineHandler {
	return newLineHandler(&lineWriter{w: w, buf: make([]byte, 0, 500)}, level)
}

func newLineHandler(lw *lineWriter, level slog.Leveler) *LineHandler {
	return &LineHandler{
		lw:     lw,
		level:  level,
		system: "",
		attrs:  "",
	}
}

// Enabled reports whether the handler handles records at the given level.
func (lh *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lh.level.Level()
}

// Handle writes the record.
func (lh *LineHandler) Handle(_ context.Context, rec slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(lh.attrs)
	rec.Attrs(func(attr slog.Attr) bool {
		if !attr.Equal(slog.Attr{}) {
			buf.WriteByte(' ')
			buf.WriteString(attr.String())
		}
		return true
	})
	return lh.lw.writeMessage(rec.Level, rec.Time, lh.system, rec.Message, buf.Bytes())
}

// WithAttrs returns a new handler, whose records will contain the given attributes.
func (lh *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h := newLineHandler(lh.lw, lh.level)
	h.system = lh.system
	h.attrs = lh.attrs
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		if attr.Key == "system" {
			system := attr.Value.String()
			if len(system) < 6 {
				system += "     "[:6-len(system)]
			}
			h.system = system
			continue
		}
		h.attrs += " " + attr.String()
	}
	return h
}

// WithGroup is not supported; only the empty group name is accepted.
func (lh *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return lh
	}
	panic("LineHandler.WithGroup(name) not implemented")
}

// lineWriter serializes the writes of all handlers derived from one LineHandler.
type lineWriter struct {
	mx  sync.Mutex // protects buf, serializes w.Write
	w   io.Writer
	buf []byte
}

func (lw *lineWriter) writeMessage(level slog.Level, ts time.Time, prefix, msg string, details []byte) error {
	lw.mx.Lock()
	defer lw.mx.Unlock()

	buf := lw.buf[:0]
	if !ts.IsZero() {
		addTimestamp(&buf, ts)
		buf = append(buf, ' ')
	}
	buf = append(buf, LevelStringPad(level)...)
	buf = append(buf, ' ')
	if prefix != "" {
		buf = append(buf, prefix...)
		buf = append(buf, ' ')
	}
	buf = append(buf, msg...)
	buf = append(buf, details...)
	buf = append(buf, '\n')
	lw.buf = buf
	_, err := lw.w.Write(buf)
	return err
}

func addTimestamp(buf *[]byte, ts time.Time) {
	year, month, day := ts.Date()
	itoa(buf, year, 4)
	*buf = append(*buf, '-')
	itoa(buf, int(month), 2)
	*buf = append(*buf, '-')
	itoa(buf, day, 2)
	*buf = append(*buf, ' ')
	hour, minute, second := ts.Clock()
	itoa(buf, hour, 2)
	*buf = append(*buf, ':')
	itoa(buf, minute, 2)
	*buf = append(*buf, ':')
	itoa(buf, second, 2)
}

func itoa(buf *[]byte, i, wid int) {
	var b [20]byte
	for bp := wid - 1; bp >= 0; bp-- {
		q := i / 10
		b[bp] = byte('0' + i - q*10)
		i = q
	}
	*buf = append(*buf, b[:wid]...)
}
