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

// Package cmd provides the commands to call rtfmark from the command line.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
	"t73f.de/r/zsc/domain/id"
	"t73f.de/r/zsc/domain/meta"
	"t73f.de/r/zsx/input"

	"t73f.de/r/rtfmark/internal/attr"
	"t73f.de/r/rtfmark/internal/convert"
	"t73f.de/r/rtfmark/internal/logging"
	"t73f.de/r/rtfmark/internal/personality"
)

const strConvert = "convert"

func init() {
	RegisterCommand(Command{
		Name:  "help",
		Usage: "list all commands",
		Func: func(env *Env, _ *flag.FlagSet) (int, error) {
			fmt.Fprintln(env.Stdout, "Available commands:")
			for _, name := range List() {
				cmd, _ := Get(name)
				fmt.Fprintf(env.Stdout, "- %-14s %s\n", name, cmd.Usage)
			}
			return 0, nil
		},
	})
	RegisterCommand(Command{
		Name:  "version",
		Usage: "show the version",
		Func: func(env *Env, _ *flag.FlagSet) (int, error) {
			fmt.Fprintf(env.Stdout, "%s %s (%s)\n", progInfo.name, progInfo.version, progInfo.time.Format(time.DateOnly))
			return 0, nil
		},
	})
	RegisterCommand(Command{
		Name:     strConvert,
		Usage:    "convert a word tree into markup",
		Func:     cmdConvert,
		SetFlags: flgConvert,
	})
	RegisterCommand(Command{
		Name:  "dump",
		Usage: "print a word tree",
		Func:  cmdDump,
		SetFlags: func(fs *flag.FlagSet) {
			fs.Bool("optimize", false, "merge adjacent text, remove empty groups")
		},
	})
	RegisterCommand(Command{
		Name:  "personalities",
		Usage: "list the built-in personalities",
		Func:  cmdPersonalities,
	})
	RegisterCommand(Command{
		Name:     "watch",
		Usage:    "convert again whenever the input changes",
		Func:     cmdWatch,
		Header:   true,
		SetFlags: flgConvert,
	})
}

func flgConvert(fs *flag.FlagSet) {
	fs.String("t", personality.DefaultName, "personality name or file (vt on a terminal)")
	fs.String("o", "", "output file")
	fs.Bool("simple", false, "simple mode, no background colours")
	fs.Bool("inline", false, "inline mode, no document structure")
	fs.Int("max-attrs", attr.DefaultMaxAttrs, "maximum number of attributes per group (-1=unbounded)")
}

func fetchStartupConfiguration(fs *flag.FlagSet) (string, *meta.Meta, error) {
	if configFlag := fs.Lookup("c"); configFlag != nil {
		if filename := configFlag.Value.String(); filename != "" {
			content, err := readConfiguration(filename)
			if err != nil {
				return filename, nil, err
			}
			return filename, createConfiguration(content), nil
		}
	}
	filename, content, err := searchAndReadConfiguration()
	if err != nil {
		return "", meta.New(id.Invalid), nil
	}
	return filename, createConfiguration(content), nil
}

func createConfiguration(content []byte) *meta.Meta {
	return meta.NewFromInput(id.Invalid, input.NewInput(content))
}

func readConfiguration(filename string) ([]byte, error) { return os.ReadFile(filename) }

func searchAndReadConfiguration() (string, []byte, error) {
	for _, filename := range []string{"rtfmark.cfg", ".rtfmarkrc"} {
		if content, err := readConfiguration(filename); err == nil {
			return filename, content, nil
		}
	}
	return "", nil, os.ErrNotExist
}

func getConfig(fs *flag.FlagSet) (string, *meta.Meta, error) {
	filename, cfg, err := fetchStartupConfiguration(fs)
	if err != nil {
		return filename, nil, err
	}
	fs.Visit(func(flg *flag.Flag) {
		switch flg.Name {
		case "t":
			cfg.Set(keyPersonality, meta.Value(flg.Value.String()))
		case "o":
			cfg.Set(keyOutput, meta.Value(flg.Value.String()))
		case "simple":
			cfg.Set(keySimpleMode, meta.Value(flg.Value.String()))
		case "inline":
			cfg.Set(keyInlineMode, meta.Value(flg.Value.String()))
		case "l":
			cfg.Set(keyLogLevel, meta.Value(flg.Value.String()))
		case "max-attrs":
			cfg.Set(keyMaxAttributes, meta.Value(flg.Value.String()))
		}
	})
	return filename, cfg, nil
}

const (
	keyInlineMode    = "inline-mode"
	keyLogLevel      = "log-level"
	keyMaxAttributes = "max-attributes"
	keyOutput        = "output"
	keyPersonality   = "personality"
	keySimpleMode    = "simple-mode"
)

// settings are the values of the configuration, checked and converted.
type settings struct {
	personality string
	output      string
	simple      bool
	inline      bool
	maxAttrs    int
}

func getSettings(cfg *meta.Meta, stdout io.Writer) (settings, error) {
	s := settings{
		output:   string(cfg.GetDefault(keyOutput, "")),
		simple:   cfg.GetBool(keySimpleMode),
		inline:   cfg.GetBool(keyInlineMode),
		maxAttrs: attr.DefaultMaxAttrs,
	}
	if val, found := cfg.Get(keyPersonality); found {
		s.personality = string(val)
	} else if (s.output == "" || s.output == "-") && isTerminal(stdout) {
		s.personality = termPersonality
	} else {
		s.personality = personality.DefaultName
	}
	if val, found := cfg.Get(keyMaxAttributes); found {
		maxAttrs, err := strconv.Atoi(strings.TrimSpace(string(val)))
		if err != nil || maxAttrs < attr.Unbounded || maxAttrs == 0 {
			return s, fmt.Errorf("invalid value for %s: %q", keyMaxAttributes, val)
		}
		s.maxAttrs = maxAttrs
	}
	return s, nil
}

// termPersonality is the default personality, if the output goes to a
// terminal.
const termPersonality = "vt"

func isTerminal(w io.Writer) bool {
	f, isFile := w.(*os.File)
	return isFile && term.IsTerminal(int(f.Fd()))
}

// converter loads the personality and creates a converter for it. The
// personality is loaded on every call, so that changed files are used.
func (s *settings) converter(logger *slog.Logger) (*convert.Converter, error) {
	p, err := personality.Get(s.personality)
	if err != nil {
		return nil, err
	}
	return convert.New(p, convert.Options{
		Simple:   s.simple,
		Inline:   s.inline,
		MaxAttrs: s.maxAttrs,
		Logger:   logger,
	}), nil
}

func createLogger(cfg *meta.Meta, w io.Writer) (*slog.Logger, error) {
	level := slog.LevelWarn
	if val, found := cfg.Get(keyLogLevel); found {
		if level = logging.ParseLevel(string(val)); level == logging.LevelMissing {
			return nil, fmt.Errorf("unknown log level %q", val)
		}
	}
	return slog.New(logging.NewLineHandler(w, level)), nil
}

func executeCommand(env Env, name string, args ...string) int {
	command, ok := Get(name)
	if !ok {
		fmt.Fprintf(env.Stderr, "Unknown command %q\n", name)
		return 1
	}
	fs := command.GetFlags(env.Stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(env.Stderr, "%s: unable to parse flags: %v %v\n", name, args, err)
		return 1
	}
	filename, cfg, err := getConfig(fs)
	if err != nil {
		fmt.Fprintf(env.Stderr, "%s: unable to read configuration %q: %v\n", name, filename, err)
		return 2
	}
	logger, err := createLogger(cfg, env.Stderr)
	if err != nil {
		fmt.Fprintf(env.Stderr, "%s: %v\n", name, err)
		fs.Usage()
		return 2
	}
	env.Cfg = cfg
	env.Logger = logger
	cmdLogger := logging.System(logger, "cmd")
	if command.Header {
		logging.LogMandatory(cmdLogger, progInfo.name, "version", progInfo.version)
	}
	if filename != "" {
		cmdLogger.Info("Configuration read", "file", filename)
	}

	exitCode, err := command.Func(&env, fs)
	if err != nil {
		fmt.Fprintf(env.Stderr, "%s: %v\n", name, err)
	}
	return exitCode
}

// Run executes the command given by the arguments. Without a command, or
// if the first argument is a flag, the input is converted.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	env := Env{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return executeCommand(env, strConvert, args...)
	}
	return executeCommand(env, args[0], args[1:]...)
}

var progInfo struct {
	name    string
	version string
	time    time.Time
}

// Main is the real entrypoint of rtfmark.
func Main(progName, buildVersion string) int {
	info := retrieveVCSInfo(buildVersion)
	fullVersion := info.revision
	if info.dirty {
		fullVersion += "-dirty"
	}
	progInfo.name, progInfo.version, progInfo.time = progName, fullVersion, info.time

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

type vcsInfo struct {
	revision string
	dirty    bool
	time     time.Time
}

func retrieveVCSInfo(version string) vcsInfo {
	buildTime := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return vcsInfo{revision: version, dirty: false, time: buildTime}
	}
	result := vcsInfo{revision: version, time: buildTime}
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			revision := "+" + kv.Value
			if len(revision) > 11 {
				revision = revision[:11]
			}
			result.revision = version + revision
		case "vcs.modified":
			if kv.Value == "true" {
				result.dirty = true
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, kv.Value); err == nil {
				result.time = t
			}
		}
	}
	return result
}
