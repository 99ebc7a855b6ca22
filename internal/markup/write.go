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

package markup

import "io"

// Writer is a specialized writer for markup output. The first write error
// is kept; all later writes are ignored.
type Writer struct {
	w   io.Writer // The io.Writer to write to
	err error     // Collect error
}

// NewWriter creates a new Writer.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Write writes the content of p.
func (w *Writer) Write(p []byte) (l int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	l, w.err = w.w.Write(p)
	return l, w.err
}

// WriteString writes the content of s.
func (w *Writer) WriteString(s string) {
	if w.err != nil || s == "" {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// WriteLn writes a new line character.
func (w *Writer) WriteLn() { w.WriteString("\n") }

// Flush returns the collected error.
func (w *Writer) Flush() error { return w.err }
