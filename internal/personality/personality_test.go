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

package personality_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"t73f.de/r/rtfmark/internal/attr"
	"t73f.de/r/rtfmark/internal/personality"
	"t73f.de/r/zero/set"
)

func TestBuiltins(t *testing.T) {
	names := personality.Names()
	if exp := []string{"html", "latex", "text", "vt"}; !slices.Equal(names, exp) {
		t.Errorf("Names() == %v, but expected %v", names, exp)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p, err := personality.Builtin(name)
			if err != nil {
				t.Fatal(err)
			}
			if got := p.Name(); got != name {
				t.Errorf("Name() == %q", got)
			}
			if p.ParagraphBreak() == "" {
				t.Error("no paragraph break")
			}
			for _, key := range p.Keys() {
				if !personality.IsValidKey(key) {
					t.Errorf("invalid key %q", key)
				}
			}
		})
	}
	if _, err := personality.Builtin(personality.DefaultName); err != nil {
		t.Errorf("default personality: %v", err)
	}
	if _, err := personality.Builtin("rtf"); !errors.Is(err, personality.ErrUnknownPersonality) {
		t.Errorf("expected ErrUnknownPersonality, got %v", err)
	}
}

func TestBuiltinHTML(t *testing.T) {
	p, err := personality.Builtin("html")
	if err != nil {
		t.Fatal(err)
	}
	if p.SimulateCaps() || !p.SimulateSmallCaps() {
		t.Error("html simulates small caps only")
	}
	if m, found := p.Markup("bold"); !found || m.Begin != "<b>" || m.End != "</b>" {
		t.Errorf("bold markup: %v/%v", m, found)
	}
	if m, _ := p.Markup(personality.KeyDocument); !strings.HasSuffix(m.Begin, "<html>\n") {
		t.Errorf("document markup: %q", m.Begin)
	}
	if got, exp := p.ReplaceChars(`a<b & "c"`), "a&lt;b &amp; &quot;c&quot;"; got != exp {
		t.Errorf("ReplaceChars: expected %q, but got %q", exp, got)
	}
	for _, size := range personality.StandardSizes {
		if _, found := p.Markup(personality.FontSizeKey(size)); !found {
			t.Errorf("html does not define font size %d", size)
		}
	}
}

func TestBuiltinVT(t *testing.T) {
	p, err := personality.Builtin("vt")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Simple() || !p.CellReset() || !p.SimulateCaps() {
		t.Error("vt must be simple, reset cells, and simulate caps")
	}
	if m, _ := p.Markup("bold"); m.Begin != "\x1b[1m" {
		t.Errorf("bold begin: %q", m.Begin)
	}
}

func TestValidKeys(t *testing.T) {
	names := []string{"document", "header", "body", "charset", "table", "row", "cell", "smaller"}
	for _, k := range attr.Kinds() {
		if personality.HasMarkup(k) {
			names = append(names, k.String())
		}
	}
	keys := set.New(names...)
	for key := range keys.Values() {
		if !personality.IsValidKey(key) {
			t.Errorf("key %q must be valid", key)
		}
	}
	for _, key := range []string{"", "encoding", "fontsize-11", "bld", "none", "wave-underline"} {
		if personality.IsValidKey(key) {
			t.Errorf("key %q must be invalid", key)
		}
	}
}

func TestParseErrors(t *testing.T) {
	testcases := []struct {
		name    string
		format  personality.Format
		src     string
		unknown bool
	}{
		{"sxn-empty", personality.FormatSxn, "()", false},
		{"sxn-no-personality", personality.FormatSxn, `(persona (name "x"))`, false},
		{"sxn-no-name", personality.FormatSxn, `(personality (simple))`, false},
		{"sxn-field", personality.FormatSxn, `(personality (name "x") (colour "red"))`, true},
		{"sxn-key", personality.FormatSxn, `(personality (name "x") (markup (bld "<b>" "</b>")))`, true},
		{"sxn-simulate", personality.FormatSxn, `(personality (name "x") (simulate bold))`, true},
		{"sxn-markup-string", personality.FormatSxn, `(personality (name "x") (markup (bold b)))`, false},
		{"toml-field", personality.FormatTOML, "name = \"x\"\ncolour = \"red\"\n", true},
		{"toml-key", personality.FormatTOML, "name = \"x\"\n[markup.bld]\nbegin = \"<b>\"\n", true},
		{"yaml-field", personality.FormatYAML, "name: x\ncolour: red\n", true},
		{"yaml-key", personality.FormatYAML, "name: x\nmarkup:\n  bld:\n    begin: \"<b>\"\n", true},
		{"yaml-empty", personality.FormatYAML, "", false},
		{"chars-empty", personality.FormatYAML, "name: x\nchars:\n  \"\": y\n", false},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := personality.Parse(tc.format, []byte(tc.src))
			if err == nil {
				t.Fatal("error expected")
			}
			if got := errors.Is(err, personality.ErrUnknownKey); got != tc.unknown {
				t.Errorf("ErrUnknownKey expected %v, got %v (%v)", tc.unknown, got, err)
			}
		})
	}
}

func TestSameInAllFormats(t *testing.T) {
	sources := map[personality.Format]string{
		personality.FormatSxn: `(personality (name "demo") (simple) (simulate caps)
  (line-break "\n") (markup (bold "[b]" "[/b]") (fontface "[f=%]" "[/f]")) (chars ("[" "\\[")))`,
		personality.FormatTOML: `name = "demo"
simple = true
simulate = ["caps"]
line-break = "\n"
[markup.bold]
begin = "[b]"
end = "[/b]"
[markup.fontface]
begin = "[f=%]"
end = "[/f]"
[chars]
"[" = "\\["
`,
		personality.FormatYAML: `name: demo
simple: true
simulate: [caps]
line-break: "\n"
markup:
  bold: {begin: "[b]", end: "[/b]"}
  fontface: {begin: "[f=%]", end: "[/f]"}
chars:
  "[": "\\["
`,
	}
	for format, src := range sources {
		t.Run(string(format), func(t *testing.T) {
			p, err := personality.Parse(format, []byte(src))
			if err != nil {
				t.Fatal(err)
			}
			if p.Name() != "demo" || !p.Simple() || !p.SimulateCaps() || p.SimulateSmallCaps() {
				t.Error("wrong flags")
			}
			if got := p.LineBreak(); got != "\n" {
				t.Errorf("LineBreak() == %q", got)
			}
			if got := p.Keys(); !slices.Equal(got, []string{"bold", "fontface"}) {
				t.Errorf("Keys() == %v", got)
			}
			if m, _ := p.Markup("fontface"); m.Begin != "[f=%]" || m.End != "[/f]" {
				t.Errorf("fontface: %v", m)
			}
			if got := p.ReplaceChars("a[b"); got != `a\[b` {
				t.Errorf("ReplaceChars() == %q", got)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mine.yml")
	if err := os.WriteFile(path, []byte("name: mine\nparagraph-break: \"\\n\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := personality.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Name(); got != "mine" {
		t.Errorf("Name() == %q", got)
	}
	if _, err = personality.Get(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file must be an error")
	}
	if _, err = personality.Get("mine.txt"); !errors.Is(err, personality.ErrUnknownPersonality) {
		t.Errorf("expected ErrUnknownPersonality, got %v", err)
	}
	if _, err = personality.LoadFile(filepath.Join(dir, "mine.txt")); err == nil {
		t.Error("unknown format must be an error")
	}
}

func TestFormatOf(t *testing.T) {
	testcases := []struct {
		path   string
		format personality.Format
		found  bool
	}{
		{"a.sxn", personality.FormatSxn, true},
		{"dir/a.SX", personality.FormatSxn, true},
		{"a.toml", personality.FormatTOML, true},
		{"a.yaml", personality.FormatYAML, true},
		{"a.yml", personality.FormatYAML, true},
		{"a.conf", "", false},
		{"html", "", false},
	}
	for _, tc := range testcases {
		format, found := personality.FormatOf(tc.path)
		if format != tc.format || found != tc.found {
			t.Errorf("FormatOf(%q) == %q/%v, expected %q/%v", tc.path, format, found, tc.format, tc.found)
		}
	}
}
