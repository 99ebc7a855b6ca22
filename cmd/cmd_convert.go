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

package cmd

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio"

	"t73f.de/r/rtfmark/internal/intern"
	"t73f.de/r/rtfmark/internal/markup"
	"t73f.de/r/rtfmark/internal/personality"
	"t73f.de/r/rtfmark/internal/word"
)

// ---------- Subcommand: convert --------------------------------------------

func cmdConvert(env *Env, fs *flag.FlagSet) (int, error) {
	s, err := getSettings(env.Cfg, env.Stdout)
	if err != nil {
		return 2, err
	}
	src, err := getInput(env, fs.Args())
	if err != nil {
		return 2, err
	}
	if err = convertInput(env, &s, src); err != nil {
		if errors.Is(err, word.ErrSyntax) || errors.Is(err, personality.ErrUnknownPersonality) {
			return 2, err
		}
		return 1, err
	}
	return 0, nil
}

func convertInput(env *Env, s *settings, src []byte) error {
	conv, err := s.converter(env.Logger)
	if err != nil {
		return err
	}
	return writeOutput(env, s.output, func(w io.Writer) error {
		return conv.ConvertReader(w, bytes.NewReader(src))
	})
}

func getInput(env *Env, args []string) ([]byte, error) {
	switch len(args) {
	case 0:
		return io.ReadAll(env.Stdin)
	case 1:
		if args[0] == "-" {
			return io.ReadAll(env.Stdin)
		}
		return os.ReadFile(args[0])
	}
	return nil, fmt.Errorf("at most one input file expected, but got %d", len(args))
}

// writeOutput calls fn with the output stream. A named output file is only
// replaced, when fn succeeds.
func writeOutput(env *Env, path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(env.Stdout)
	}
	pf, err := renameio.TempFile("", path)
	if err != nil {
		return err
	}
	defer func() { _ = pf.Cleanup() }()
	if err = pf.Chmod(0o644); err != nil {
		return err
	}
	if err = fn(pf); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}

// ---------- Subcommand: dump -----------------------------------------------

func cmdDump(env *Env, fs *flag.FlagSet) (int, error) {
	src, err := getInput(env, fs.Args())
	if err != nil {
		return 2, err
	}
	tab := intern.NewTable()
	doc, err := word.ReadSx(bytes.NewReader(src), tab)
	if err != nil {
		return 2, err
	}
	if fs.Lookup("optimize").Value.String() == "true" {
		word.Optimize(doc, tab)
	}
	w := markup.NewWriter(env.Stdout)
	_ = word.WriteSx(w, doc)
	w.WriteLn()
	if err = w.Flush(); err != nil {
		return 1, err
	}
	return 0, nil
}

// ---------- Subcommand: personalities --------------------------------------

func cmdPersonalities(env *Env, _ *flag.FlagSet) (int, error) {
	for _, name := range personality.Names() {
		p, err := personality.Builtin(name)
		if err != nil {
			return 1, err
		}
		var flags []byte
		if p.Simple() {
			flags = append(flags, 'S')
		}
		if p.SimulateCaps() || p.SimulateSmallCaps() {
			flags = append(flags, 'C')
		}
		if p.CellReset() {
			flags = append(flags, 'R')
		}
		if name == personality.DefaultName {
			flags = append(flags, '*')
		}
		fmt.Fprintf(env.Stdout, "%-8s %s\n", name, flags)
	}
	return 0, nil
}
