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

// Package main is the starting point for the rtfmark command.
package main

import (
	"os"

	"t73f.de/r/rtfmark/cmd"
)

// Version variable. Will be filled by build process.
var version string

func main() {
	exitCode := cmd.Main("rtfmark", version)
	os.Exit(exitCode)
}
