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

package logging_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"t73f.de/r/rtfmark/internal/logging"
)

func TestParseLevel(t *testing.T) {
	testcases := []struct {
		text string
		exp  slog.Level
	}{
		{"tra", logging.LevelTrace},
		{"deb", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"err", slog.LevelError},
		{"d", logging.LevelMissing},
		{"", logging.LevelMissing},
	}
	for i, tc := range testcases {
		got := logging.ParseLevel(tc.text)
		if got != tc.exp {
			t.Errorf("%d: ParseLevel(%q) == %v, but got %v", i, tc.text, tc.exp, got)
		}
	}
}

func TestLevelStringPad(t *testing.T) {
	for _, lvl := range []slog.Level{logging.LevelTrace, slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if got := logging.LevelStringPad(lvl); len(got) < 5 {
			t.Errorf("LevelStringPad(%v) == %q is too short", lvl, got)
		}
	}
}

func TestLineHandler(t *testing.T) {
	var sb strings.Builder
	h := logging.NewLineHandler(&sb, slog.LevelInfo)
	hs := h.WithAttrs([]slog.Attr{slog.String("system", "attr"), slog.Int("scope", 2)})

	ctx := context.Background()
	if hs.Enabled(ctx, slog.LevelDebug) {
		t.Error("debug level must not be enabled")
	}
	rec := slog.NewRecord(time.Time{}, slog.LevelWarn, "too many attributes", 0)
	rec.AddAttrs(slog.String("kind", "bold"))
	if err := hs.Handle(ctx, rec); err != nil {
		t.Fatal(err)
	}
	exp := "WARN  attr   too many attributes scope=2 kind=bold\n"
	if got := sb.String(); got != exp {
		t.Errorf("\nexpected: %q\n but got: %q", exp, got)
	}

	sb.Reset()
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	rec = slog.NewRecord(ts, slog.LevelError, "write failed", 0)
	if err := h.Handle(ctx, rec); err != nil {
		t.Fatal(err)
	}
	exp = "2025-03-04 05:06:07 ERROR write failed\n"
	if got := sb.String(); got != exp {
		t.Errorf("\nexpected: %q\n but got: %q", exp, got)
	}
}

func TestSystemNil(t *testing.T) {
	logger := logging.System(nil, "attr")
	if logger == nil {
		t.Fatal("System(nil) must return a logger")
	}
	logger.Warn("dropped")
}

func TestErr(t *testing.T) {
	var sb strings.Builder
	logger := slog.New(logging.NewLineHandler(&sb, slog.LevelInfo))
	logger.Info("no error", logging.Err(nil))
	logger.Info("error", logging.Err(errors.New("disk full")))
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("two lines expected, but got %q", lines)
	}
	if got := lines[0]; !strings.HasSuffix(got, " no error") {
		t.Errorf("no attribute expected: %q", got)
	}
	if got := lines[1]; !strings.HasSuffix(got, " error err=disk full") {
		t.Errorf("err attribute expected: %q", got)
	}
}
