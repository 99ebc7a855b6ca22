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
	"errors"
	"flag"
	"os"
	"time"

	"t73f.de/r/rtfmark/internal/logging"
	"t73f.de/r/rtfmark/internal/personality"
	"t73f.de/r/rtfmark/internal/watch"
)

// ---------- Subcommand: watch ----------------------------------------------

// watchDelay is the time to wait for more changes before converting again.
// Editors often write a file in more than one step.
const watchDelay = 100 * time.Millisecond

func cmdWatch(env *Env, fs *flag.FlagSet) (int, error) {
	args := fs.Args()
	if len(args) != 1 || args[0] == "-" {
		return 2, errors.New("exactly one input file expected")
	}
	s, err := getSettings(env.Cfg, env.Stdout)
	if err != nil {
		return 2, err
	}
	inputFile := args[0]
	paths := []string{inputFile}
	if _, isFile := personality.FormatOf(s.personality); isFile {
		paths = append(paths, s.personality)
	}
	logger := logging.System(env.Logger, "watch")

	w, err := watch.New(env.Logger, paths...)
	if err != nil {
		return 1, err
	}
	defer w.Close()

	run := func() {
		src, errRun := os.ReadFile(inputFile)
		if errRun == nil {
			errRun = convertInput(env, &s, src)
		}
		if errRun != nil {
			logger.Error("Unable to convert", "input", inputFile, logging.Err(errRun))
			return
		}
		logger.Info("Converted", "input", inputFile, "output", s.output)
	}
	run()

	timer := time.NewTimer(watchDelay)
	timer.Stop()
	for {
		select {
		case <-env.Ctx.Done():
			logger.Info("Stop watching")
			return 0, nil
		case name, ok := <-w.Events():
			if !ok {
				return 1, errors.New("watcher stopped unexpectedly")
			}
			logging.LogTrace(logger, "changed", "name", name)
			timer.Reset(watchDelay)
		case <-timer.C:
			run()
		}
	}
}
