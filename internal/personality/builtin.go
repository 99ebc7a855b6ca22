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

package personality

import (
	_ "embed" // Allow to embed file content
	"fmt"
	"maps"
	"slices"
	"sync"
)

// DefaultName is the name of the personality used if nothing else is given.
const DefaultName = "html"

//go:embed html.sxn
var contentHTML []byte

//go:embed latex.sxn
var contentLaTeX []byte

//go:embed text.yaml
var contentText []byte

//go:embed vt.toml
var contentVT []byte

type builtinSource struct {
	format  Format
	content []byte
}

var builtinSources = map[string]builtinSource{
	"html":  {FormatSxn, contentHTML},
	"latex": {FormatSxn, contentLaTeX},
	"text":  {FormatYAML, contentText},
	"vt":    {FormatTOML, contentVT},
}

var (
	builtinOnce sync.Once
	builtins    map[string]*Personality
	builtinErr  error
)

func loadBuiltins() {
	builtins = make(map[string]*Personality, len(builtinSources))
	for name, src := range builtinSources {
		p, err := Parse(src.format, src.content)
		if err != nil {
			builtinErr = fmt.Errorf("built-in personality %q: %w", name, err)
			return
		}
		builtins[name] = p
	}
}

// Builtin returns the built-in personality with the given name.
func Builtin(name string) (*Personality, error) {
	builtinOnce.Do(loadBuiltins)
	if builtinErr != nil {
		return nil, builtinErr
	}
	if p, found := builtins[name]; found {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPersonality, name)
}

// Names returns the names of all built-in personalities, sorted.
func Names() []string { return slices.Sorted(maps.Keys(builtinSources)) }

// Get returns a personality, given by name or by file name. Names of
// built-in personalities take precedence.
func Get(nameOrPath string) (*Personality, error) {
	if _, found := builtinSources[nameOrPath]; found {
		return Builtin(nameOrPath)
	}
	if _, found := FormatOf(nameOrPath); found {
		return LoadFile(nameOrPath)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPersonality, nameOrPath)
}
