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

// Package watch notifies about changes of files.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"t73f.de/r/zero/set"

	"t73f.de/r/rtfmark/internal/logging"
)

// Watcher reports changes to a fixed set of files.
//
// The directories of the files are supervised, not the files themselves,
// because many editors replace a file instead of writing into it.
type Watcher struct {
	logger *slog.Logger
	events chan string
	done   chan struct{}
	base   *fsnotify.Watcher
	isFile func(string) bool
}

// New creates a watcher for the given files.
func New(logger *slog.Logger, paths ...string) (*Watcher, error) {
	logger = logging.System(logger, "watch")
	absPaths := make([]string, 0, len(paths))
	var dirs []string
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			logger.Debug("Unable to create absolute path", logging.Err(err), "path", path)
			return nil, err
		}
		absPaths = append(absPaths, absPath)
		if dir := filepath.Dir(absPath); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Debug("Unable to create watcher", logging.Err(err))
		return nil, err
	}
	for _, dir := range dirs {
		if err = watcher.Add(dir); err != nil {
			logger.Error("Unable to supervise directory", "dir", dir, logging.Err(err))
			_ = watcher.Close()
			return nil, err
		}
	}
	w := &Watcher{
		logger: logger,
		events: make(chan string),
		done:   make(chan struct{}),
		base:   watcher,
		isFile: set.New(absPaths...).Contains,
	}
	go w.eventLoop()
	return w, nil
}

// Events returns the channel of changed files. Each file is given by its
// absolute path. The channel is closed, when the watcher stops.
func (w *Watcher) Events() <-chan string { return w.events }

// Close stops the watcher.
func (w *Watcher) Close() {
	close(w.done)
}

func (w *Watcher) eventLoop() {
	defer func() { _ = w.base.Close() }()
	defer close(w.events)
	for w.readAndProcessEvent() {
	}
}

func (w *Watcher) readAndProcessEvent() bool {
	select {
	case <-w.done:
		logging.LogTrace(w.logger, "done")
		return false
	case err, ok := <-w.base.Errors:
		logging.LogTrace(w.logger, "got errors", "err", err, "ok", ok)
		if !ok {
			return false
		}
		w.logger.Warn("Unable to watch files", logging.Err(err))
	case ev, ok := <-w.base.Events:
		logging.LogTrace(w.logger, "file event", "name", ev.Name, "op", ev.Op, "ok", ok)
		if !ok {
			return false
		}
		return w.processEvent(&ev)
	}
	return true
}

func (w *Watcher) processEvent(ev *fsnotify.Event) bool {
	name := filepath.Clean(ev.Name)
	if !w.isFile(name) {
		return true
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		logging.LogTrace(w.logger, "ignore event", "name", name, "op", ev.Op)
		return true
	}
	if fi, err := os.Lstat(name); err != nil || !fi.Mode().IsRegular() {
		logging.LogTrace(w.logger, "error with file", "name", name, "err", err)
		return true
	}
	w.logger.Debug("File updated", "name", name)
	select {
	case w.events <- name:
		return true
	case <-w.done:
		return false
	}
}
