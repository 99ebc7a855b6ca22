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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
	"t73f.de/r/sx"
	"t73f.de/r/sx/sxreader"
)

// Format is the syntax of a personality file.
type Format string

// Constants for Format.
const (
	FormatSxn  Format = "sxn"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format of a file, based on its extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sxn", ".sx":
		return FormatSxn, true
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// LoadFile reads a personality from a file.
func LoadFile(path string) (*Personality, error) {
	format, found := FormatOf(path)
	if !found {
		return nil, fmt.Errorf("unknown personality format of file %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse creates a personality from its textual representation.
func Parse(format Format, data []byte) (*Personality, error) {
	var def *Definition
	var err error
	switch format {
	case FormatSxn:
		def, err = ParseSxn(bytes.NewReader(data))
	case FormatTOML:
		def, err = parseTOML(data)
	case FormatYAML:
		def, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("unknown personality format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return def.Build()
}

func parseTOML(data []byte) (*Definition, error) {
	var def Definition
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownKey, sme.String())
		}
		return nil, err
	}
	return &def, nil
}

func parseYAML(data []byte) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty personality")
		}
		if strings.Contains(err.Error(), "not found in type") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownKey, err)
		}
		return nil, err
	}
	return &def, nil
}

// Symbols of the sx personality syntax.
const (
	sxPersonality    = "personality"
	sxName           = "name"
	sxSimple         = "simple"
	sxSimulate       = "simulate"
	sxCellReset      = "cell-reset"
	sxLineBreak      = "line-break"
	sxPageBreak      = "page-break"
	sxParagraphBreak = "paragraph-break"
	sxMarkup         = "markup"
	sxChars          = "chars"
)

// ParseSxn reads a personality definition in sx syntax:
//
//	(personality
//	  (name "html")
//	  (simulate smallcaps)
//	  (line-break "<br>\n")
//	  (markup (bold "<b>" "</b>") (fontface "<font face=\"%\">" "</font>"))
//	  (chars ("<" "&lt;")))
//
// Flags, like (simple) or (cell-reset), are set by just mentioning them.
func ParseSxn(r io.Reader) (*Definition, error) {
	obj, err := sxreader.MakeReader(r).Read()
	if err != nil {
		return nil, err
	}
	pair, isPair := sx.GetPair(obj)
	if !isPair || pair == nil || symbolName(pair.Car()) != sxPersonality {
		return nil, fmt.Errorf("personality expected, but got %v", obj)
	}
	var def Definition
	for node := pair.Tail(); node != nil; node = node.Tail() {
		field, isField := sx.GetPair(node.Car())
		if !isField || field == nil {
			return nil, fmt.Errorf("personality field expected, but got %v", node.Car())
		}
		args := field.Tail()
		switch key := symbolName(field.Car()); key {
		case sxName:
			def.Name, err = sxString(key, args)
		case sxSimple:
			def.Simple = true
		case sxCellReset:
			def.CellReset = true
		case sxSimulate:
			for arg := args; arg != nil; arg = arg.Tail() {
				name := symbolName(arg.Car())
				if name == "" {
					return nil, fmt.Errorf("symbol expected in %s, but got %v", key, arg.Car())
				}
				def.Simulate = append(def.Simulate, name)
			}
		case sxLineBreak:
			def.LineBreak, err = sxString(key, args)
		case sxPageBreak:
			def.PageBreak, err = sxString(key, args)
		case sxParagraphBreak:
			def.ParagraphBreak, err = sxString(key, args)
		case sxMarkup:
			def.Markup, err = sxMarkupMap(args)
		case sxChars:
			def.Chars, err = sxCharMap(args)
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnknownKey, field.Car())
		}
		if err != nil {
			return nil, err
		}
	}
	return &def, nil
}

func symbolName(obj sx.Object) string {
	if sym, isSymbol := sx.GetSymbol(obj); isSymbol {
		return sym.GetValue()
	}
	return ""
}

func sxString(key string, args *sx.Pair) (string, error) {
	if args != nil {
		if s, isString := sx.GetString(args.Car()); isString {
			return s.GetValue(), nil
		}
	}
	return "", fmt.Errorf("string expected for %s", key)
}

func sxMarkupMap(args *sx.Pair) (map[string]Markup, error) {
	result := map[string]Markup{}
	for node := args; node != nil; node = node.Tail() {
		entry, isPair := sx.GetPair(node.Car())
		if !isPair || entry == nil {
			return nil, fmt.Errorf("markup entry expected, but got %v", node.Car())
		}
		key := symbolName(entry.Car())
		if key == "" {
			return nil, fmt.Errorf("markup key expected, but got %v", entry.Car())
		}
		var m Markup
		rest := entry.Tail()
		begin, err := sxString(key, rest)
		if err != nil {
			return nil, err
		}
		m.Begin = begin
		if rest = rest.Tail(); rest != nil {
			if m.End, err = sxString(key, rest); err != nil {
				return nil, err
			}
		}
		result[key] = m
	}
	return result, nil
}

func sxCharMap(args *sx.Pair) (map[string]string, error) {
	result := map[string]string{}
	for node := args; node != nil; node = node.Tail() {
		entry, isPair := sx.GetPair(node.Car())
		if !isPair || entry == nil {
			return nil, fmt.Errorf("character replacement expected, but got %v", node.Car())
		}
		from, err := sxString(sxChars, entry)
		if err != nil {
			return nil, err
		}
		to, err := sxString(sxChars, entry.Tail())
		if err != nil {
			return nil, err
		}
		result[from] = to
	}
	return result, nil
}
