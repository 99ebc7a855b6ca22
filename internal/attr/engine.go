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

// Package attr tracks the character attributes of RTF text and decides when
// their markup must begin and end.
//
// For each RTF group (the text within braces) there is an attribute stack,
// i.e. the attributes opened so far, in the order they were opened, together
// with their optional parameter. Since groups are nested, these make up a
// stack of stacks. A new group inherits all attributes of its parent group:
// they are copied as live entries, so that leaving the group closes them and
// the parent simply expresses its own (unchanged) entries again.
//
// RTF allows to remove an attribute that is not the most recently opened
// one. Since most output formats need strictly nested markup, such an
// attribute is "pulled out": everything above it is closed, the attribute is
// removed, and everything above it is opened again.
package attr

import (
	"log/slog"
	"slices"

	"t73f.de/r/rtfmark/internal/logging"
)

// Expresser writes the markup for beginning and ending an attribute.
type Expresser interface {
	Begin(Entry)
	End(Entry)
}

// DefaultMaxAttrs is the number of attributes that may be open within one
// group at the same time.
const DefaultMaxAttrs = 100

// Unbounded may be used as Options.MaxAttrs to allow an unlimited number of
// open attributes per group.
const Unbounded = -1

// Options control the behaviour of an engine.
type Options struct {
	// MaxAttrs is the maximum number of open attributes per group. Zero
	// means DefaultMaxAttrs, a negative value means no limit.
	MaxAttrs int

	// Logger receives diagnostics. If nil, diagnostics are discarded.
	Logger *slog.Logger

	// OnStart is called before an attribute is pushed. It is used to make
	// sure that the output is within the text part of a document. It must
	// be idempotent.
	OnStart func()
}

// stack is the attribute stack of one group.
type stack struct {
	entries []Entry
	prev    *stack
}

// find returns the index of the topmost entry with the given kind, or -1.
func (s *stack) find(kind Kind) int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Kind == kind {
			return i
		}
	}
	return -1
}

// Engine is the attribute state of one conversion. An engine must not be
// shared between concurrent conversions; create one engine per conversion.
type Engine struct {
	exp       Expresser
	logger    *slog.Logger
	maxAttrs  int
	onStart   func()
	top       *stack
	depth     int
	suspended bool
}

// NewEngine creates a new engine that writes markup through exp.
func NewEngine(exp Expresser, opts Options) *Engine {
	maxAttrs := opts.MaxAttrs
	if maxAttrs == 0 {
		maxAttrs = DefaultMaxAttrs
	}
	return &Engine{
		exp:      exp,
		logger:   logging.System(opts.Logger, "attr"),
		maxAttrs: maxAttrs,
		onStart:  opts.OnStart,
	}
}

func (e *Engine) begin(entry Entry) {
	if !e.suspended {
		e.exp.Begin(entry)
	}
}

func (e *Engine) end(entry Entry) {
	if !e.suspended {
		e.exp.End(entry)
	}
}

func (e *Engine) current(op string) *stack {
	if e.top == nil {
		e.logger.Warn("no attribute stack", "op", op)
	}
	return e.top
}

// Push opens an attribute within the current group. If the attribute is
// already open, it is pulled out first, so that it restarts.
func (e *Engine) Push(kind Kind, param string) bool {
	s := e.current("push")
	if s == nil {
		return false
	}
	if i := s.find(kind); i >= 0 {
		e.pullOut(s, i)
	}
	if e.maxAttrs >= 0 && len(s.entries) >= e.maxAttrs {
		e.logger.Warn("too many attributes", "kind", kind, "max", e.maxAttrs)
		return false
	}
	if e.onStart != nil {
		e.onStart()
	}
	entry := Entry{Kind: kind, Param: param}
	s.entries = append(s.entries, entry)
	logging.LogTrace(e.logger, "push", "entry", entry, "depth", e.depth)
	e.begin(entry)
	return true
}

// pullOut removes the entry at the given index, closing and re-opening all
// newer entries in appropriate order.
func (e *Engine) pullOut(s *stack, index int) {
	for j := len(s.entries) - 1; j >= index; j-- {
		e.end(s.entries[j])
	}
	s.entries = slices.Delete(s.entries, index, index+1)
	for j := index; j < len(s.entries); j++ {
		e.begin(s.entries[j])
	}
}

// FindPop removes the attribute of the given kind from the current group,
// even if it is not the most recently opened one. It returns false if the
// attribute is not open.
func (e *Engine) FindPop(kind Kind) bool {
	s := e.current("find-pop")
	if s == nil {
		return false
	}
	i := s.find(kind)
	if i < 0 {
		return false
	}
	e.pullOut(s, i)
	return true
}

// Pop removes the most recently opened attribute, but only if it is of the
// given kind.
func (e *Engine) Pop(kind Kind) bool {
	s := e.current("pop")
	if s == nil {
		return false
	}
	if len(s.entries) == 0 {
		e.logger.Warn("pop from empty attribute stack", "kind", kind)
		return false
	}
	if s.entries[len(s.entries)-1].Kind != kind {
		return false
	}
	e.popTop(s)
	return true
}

func (e *Engine) popTop(s *stack) {
	last := len(s.entries) - 1
	e.end(s.entries[last])
	s.entries[last] = Entry{}
	s.entries = s.entries[:last]
}

// PopAll closes all attributes of the current group, most recent first.
func (e *Engine) PopAll() {
	if s := e.current("pop-all"); s != nil {
		for len(s.entries) > 0 {
			e.popTop(s)
		}
	}
}

// DropAll removes all attributes of the current group without writing any
// end markup. It is used, when the output structure itself resets the
// visible attributes.
func (e *Engine) DropAll() {
	if s := e.current("drop-all"); s != nil {
		clear(s.entries)
		s.entries = s.entries[:0]
	}
}

// Read returns the kind of the most recently opened attribute, or None.
func (e *Engine) Read() Kind {
	s := e.current("read")
	if s == nil || len(s.entries) == 0 {
		return None
	}
	return s.entries[len(s.entries)-1].Kind
}

// GetParam returns the parameter of the most recent attribute of the given
// kind. The current group is searched first, then all enclosing groups.
func (e *Engine) GetParam(kind Kind) (string, bool) {
	if e.top == nil {
		// The encoding is retrieved once before any group exists.
		if kind != Encoding {
			e.logger.Warn("no attribute stack", "op", "get-param", "kind", kind)
		}
		return "", false
	}
	for s := e.top; s != nil; s = s.prev {
		if i := s.find(kind); i >= 0 {
			return s.entries[i].Param, true
		}
	}
	return "", false
}

// EnterScope creates a new group that inherits all attributes of the
// current group.
func (e *Engine) EnterScope() {
	s := &stack{prev: e.top}
	if e.top != nil {
		s.entries = slices.Clone(e.top.entries)
	}
	e.top = s
	e.depth++
	logging.LogTrace(e.logger, "enter scope", "depth", e.depth, "inherited", len(s.entries))
}

// LeaveScope closes all attributes of the current group and removes it. The
// attributes of the enclosing group are expressed again.
func (e *Engine) LeaveScope() {
	s := e.current("leave-scope")
	if s == nil {
		return
	}
	e.PopAll()
	e.top = s.prev
	e.depth--
	logging.LogTrace(e.logger, "leave scope", "depth", e.depth)
	if e.top == nil {
		e.suspended = false
		return
	}
	if !e.suspended {
		e.ExpressAll()
	}
}

// ExpressAll writes the begin markup of all attributes of the current
// group, oldest first. It ends a suspension started by UnexpressAll.
func (e *Engine) ExpressAll() {
	s := e.current("express-all")
	if s == nil {
		return
	}
	e.suspended = false
	for _, entry := range s.entries {
		e.exp.Begin(entry)
	}
}

// UnexpressAll writes the end markup of all attributes of the current
// group, most recent first, without removing them.
//
// Until the next call to ExpressAll, the engine is suspended: attributes
// are still tracked, but no markup is written for them.
func (e *Engine) UnexpressAll() {
	s := e.current("unexpress-all")
	if s == nil || e.suspended {
		return
	}
	for j := len(s.entries) - 1; j >= 0; j-- {
		e.exp.End(s.entries[j])
	}
	e.suspended = true
}

// Suspended returns true, if all attributes were visually closed by
// UnexpressAll and not yet expressed again.
func (e *Engine) Suspended() bool { return e.suspended }

// Depth returns the number of nested groups.
func (e *Engine) Depth() int { return e.depth }

// Entries returns a copy of the attributes of the current group, oldest first.
func (e *Engine) Entries() []Entry {
	if e.top == nil {
		return nil
	}
	return slices.Clone(e.top.entries)
}

// Reset removes all groups without writing any markup. Afterwards, the
// engine can be used for another conversion.
func (e *Engine) Reset() {
	e.top = nil
	e.depth = 0
	e.suspended = false
}
