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

package convert_test

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"t73f.de/r/rtfmark/internal/attr"
	"t73f.de/r/rtfmark/internal/convert"
	"t73f.de/r/rtfmark/internal/intern"
	"t73f.de/r/rtfmark/internal/logging"
	"t73f.de/r/rtfmark/internal/personality"
	"t73f.de/r/rtfmark/internal/word"
)

const testMarkup = `
  (line-break "<br>") (paragraph-break "<p>") (page-break "<hr>")
  (markup
    (document "<doc>" "</doc>") (header "<head>" "</head>") (charset "<cs %>")
    (body "<body>" "</body>")
    (table "<table>" "</table>") (row "<tr>" "</tr>") (cell "<td>" "</td>")
    (bold "<b>" "</b>") (italic "<i>" "</i>") (caps "<caps>" "</caps>")
    (smaller "<small>" "</small>") (background "<bg %>" "</bg>"))
  (chars ("<" "&lt;")))`

const (
	plainPersonality = `(personality (name "plain") (simulate smallcaps)` + testMarkup
	resetPersonality = `(personality (name "reset") (cell-reset)` + testMarkup
	capsPersonality  = `(personality (name "caps") (simulate caps)` + testMarkup
)

func mustPersonality(t *testing.T, src string) *personality.Personality {
	t.Helper()
	p, err := personality.Parse(personality.FormatSxn, []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestConvert(t *testing.T) {
	testcases := []struct {
		name   string
		pers   string
		src    string
		inline bool
		simple bool
		exp    string
	}{
		{"empty", plainPersonality, `(group)`, false, false,
			"<doc><head><cs utf-8></head><body></body></doc>"},
		{"text", plainPersonality, `(group (set bold) "a<b" (clear bold) "c")`, true, false,
			"<b>a&lt;b</b>c"},
		{"pull-out", plainPersonality, `(group (set bold) (set italic) (clear bold))`, true, false,
			"<b><i></i></b><i></i>"},
		{"scope", plainPersonality, `(group (set bold) "a" (group (set italic) "b") "c")`, true, false,
			"<b>a<i>b</i></b><b>c</b>"},
		{"plain", plainPersonality, `(group (set bold) (set italic) "x" (plain) "y")`, true, false,
			"<b><i>x</i></b>y"},
		{"background", plainPersonality, `(group (set background "red") "x")`, true, false,
			"<bg red>x</bg>"},
		{"background-simple", plainPersonality, `(group (set background "red") "x")`, true, true,
			"x"},
		{"smallcaps", plainPersonality, `(group (set smallcaps) "Ab1c" (clear smallcaps) "d")`, true, false,
			"A<small>B</small>1<small>C</small>d"},
		{"caps-markup", plainPersonality, `(group (set caps) "ab")`, true, false,
			"<caps>ab</caps>"},
		{"caps-simulated", capsPersonality, `(group (set caps) "ab-é<" (clear caps) "c")`, true, false,
			"AB-É&lt;c"},
		{"breaks", plainPersonality, `(group "a" (par) "b" (line) (page))`, true, false,
			"a<p>b<br><hr>"},
		{"merge", plainPersonality, `(group "a" (group) "b")`, true, false,
			"ab"},
		{"encoding", plainPersonality, `(group (set encoding "latin1") "x")`, true, false,
			"x"},
		{"table", plainPersonality,
			`(group (intbl) (set bold) "a" (cell) "b" (cell) (row) (pard) "c")`, true, false,
			"<table><tr><td><b>a</b></td><td><b>b</b></td></tr></table><b>c</b>"},
		{"table-reset", resetPersonality,
			`(group (intbl) (set bold) "a" (cell) "b" (cell) (row) (pard) "c")`, true, false,
			"<table><tr><td><b>a</b></td><td>b</td></tr></table>c"},
		{"table-empty-cell", plainPersonality, `(group (intbl) (cell) "x" (cell) (row))`, true, false,
			"<table><tr><td></td><td>x</td></tr></table>"},
		{"table-at-end", plainPersonality, `(group (intbl) "a" (cell))`, false, false,
			"<doc><head><cs utf-8></head><body><table><tr><td>a</td></tr></table></body></doc>"},
		{"table-rows", plainPersonality,
			`(group (intbl) "a" (cell) (row) (intbl) "b" (cell) (row) (pard) (par))`, true, false,
			"<table><tr><td>a</td></tr><tr><td>b</td></tr></table><p>"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var diag strings.Builder
			c := convert.New(mustPersonality(t, tc.pers), convert.Options{
				Simple: tc.simple,
				Inline: tc.inline,
				Logger: slog.New(logging.NewLineHandler(&diag, slog.LevelWarn)),
			})
			var sb strings.Builder
			if err := c.ConvertReader(&sb, strings.NewReader(tc.src)); err != nil {
				t.Fatal(err)
			}
			if got := sb.String(); got != tc.exp {
				t.Errorf("\nexpected: %q\n but got: %q", tc.exp, got)
			}
			if d := diag.String(); d != "" {
				t.Errorf("no diagnostics expected, but got %q", d)
			}
		})
	}
}

func TestConvertCapacity(t *testing.T) {
	var diag strings.Builder
	c := convert.New(mustPersonality(t, plainPersonality), convert.Options{
		Inline:   true,
		MaxAttrs: 1,
		Logger:   slog.New(logging.NewLineHandler(&diag, slog.LevelWarn)),
	})
	var sb strings.Builder
	if err := c.ConvertReader(&sb, strings.NewReader(`(group (set bold) (set italic) "x")`)); err != nil {
		t.Fatal(err)
	}
	if got, exp := sb.String(), "<b>x</b>"; got != exp {
		t.Errorf("expected %q, but got %q", exp, got)
	}
	if got := strings.Count(diag.String(), "\n"); got != 1 {
		t.Errorf("expected one diagnostic, got %q", diag.String())
	}
}

func TestConvertWord(t *testing.T) {
	var tab intern.Table
	doc := word.NewGroup(
		word.NewSet(attr.Italic, intern.Handle{}),
		word.NewText(tab.Intern("x")),
		word.NewText(tab.Intern("y")),
	)
	c := convert.New(mustPersonality(t, plainPersonality), convert.Options{Inline: true})
	var sb strings.Builder
	if err := c.Convert(&sb, doc); err != nil {
		t.Fatal(err)
	}
	if got, exp := sb.String(), "<i>xy</i>"; got != exp {
		t.Errorf("expected %q, but got %q", exp, got)
	}
}

type failWriter struct{}

var errFail = errors.New("broken pipe")

func (failWriter) Write([]byte) (int, error) { return 0, errFail }

func TestConvertErrors(t *testing.T) {
	c := convert.New(mustPersonality(t, plainPersonality), convert.Options{})
	if err := c.ConvertReader(failWriter{}, strings.NewReader(`(group "x")`)); !errors.Is(err, errFail) {
		t.Errorf("expected write error, got %v", err)
	}
	var sb strings.Builder
	if err := c.ConvertReader(&sb, strings.NewReader(`(group (bold))`)); !errors.Is(err, word.ErrSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}
}

func TestConvertBuiltinHTML(t *testing.T) {
	p, err := personality.Builtin("html")
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	err = convert.New(p, convert.Options{}).ConvertReader(&sb,
		strings.NewReader(`(group (set bold) "x" (set fontsize 24) "y")`))
	if err != nil {
		t.Fatal(err)
	}
	got := sb.String()
	if !strings.HasPrefix(got, "<!DOCTYPE html>") || !strings.HasSuffix(got, "</html>\n") {
		t.Errorf("no HTML document: %q", got)
	}
	if exp := `<b>x<font size="6">y</font></b>`; !strings.Contains(got, exp) {
		t.Errorf("expected %q in %q", exp, got)
	}
	if exp := `<meta charset="utf-8">`; !strings.Contains(got, exp) {
		t.Errorf("expected %q in %q", exp, got)
	}
}

func TestConvertParamChars(t *testing.T) {
	p, err := personality.Builtin("html")
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	err = convert.New(p, convert.Options{Inline: true}).ConvertReader(&sb,
		strings.NewReader(`(group (set fontface "A&B \"C\"") "x")`))
	if err != nil {
		t.Fatal(err)
	}
	if got, exp := sb.String(), `<font face="A&amp;B &quot;C&quot;">x</font>`; got != exp {
		t.Errorf("\nexpected: %q\n but got: %q", exp, got)
	}
}

func TestConvertConcurrent(t *testing.T) {
	c := convert.New(mustPersonality(t, plainPersonality), convert.Options{Inline: true})
	const src = `(group (set bold) "a" (group (set italic) (clear bold) "b") (intbl) "c" (cell) (row))`
	var want strings.Builder
	if err := c.ConvertReader(&want, strings.NewReader(src)); err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var sb strings.Builder
			if err := c.ConvertReader(&sb, strings.NewReader(src)); err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = sb.String()
		}()
	}
	wg.Wait()
	for i, got := range results {
		if got != want.String() {
			t.Errorf("conversion %d: expected %q, but got %q", i, want.String(), got)
		}
	}
}
