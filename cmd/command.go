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
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"t73f.de/r/zsc/domain/meta"
)

// Env is the environment in which a command is executed.
type Env struct {
	Ctx    context.Context
	Cfg    *meta.Meta
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CommandFunc is the function that executes the command.
// It accepts the parsed command line parameters.
// It returns the exit code and an error.
type CommandFunc func(*Env, *flag.FlagSet) (int, error)

// Command stores information about commands / sub-commands.
type Command struct {
	Name     string              // command name as it appears on the command line
	Func     CommandFunc         // function that executes a command
	Usage    string              // one line description
	Header   bool                // Print a heading on startup
	SetFlags func(*flag.FlagSet) // function to set up flag.FlagSet
}

// GetFlags return a flag.FlagSet after calling SetFlags. Each call creates
// a new flag set, so that a command may be executed more than once.
func (c *Command) GetFlags(output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(c.Name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.String("c", "", "configuration file")
	fs.String("l", "", "log level (trace, debug, info, warn, error)")
	if c.SetFlags != nil {
		c.SetFlags(fs)
	}
	return fs
}

var commands = make(map[string]Command)

// RegisterCommand registers the given command.
func RegisterCommand(cmd Command) {
	if cmd.Name == "" || cmd.Func == nil {
		panic("Required command values missing")
	}
	if _, ok := commands[cmd.Name]; ok {
		panic(fmt.Sprintf("Command %q already registered", cmd.Name))
	}
	commands[cmd.Name] = cmd
}

// Get returns the command identified by the given name and a bool to signal success.
func Get(name string) (Command, bool) {
	cmd, ok := commands[name]
	return cmd, ok
}

// List returns a sorted list of all registered command names.
func List() []string { return slices.Sorted(maps.Keys(commands)) }
