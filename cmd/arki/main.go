// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command arki is a thin inspection CLI over the metadata, matcher,
// index and summary packages: dump a metadata stream as text, query or
// summarize a dataset's index, or serve a read-only debug HTTP surface
// (spec.md §1's "thin CLI tools", SPEC_FULL.md §1's ambient CLI entry
// point).
package main

import (
	"fmt"
	"os"

	"github.com/arkimet/arkimet/internal/config"
	"github.com/arkimet/arkimet/pkg/arkilog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "dump":
		runDump(args)
	case "query":
		runQuery(args)
	case "summary":
		runSummary(args)
	case "serve":
		runServe(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: arki <dump|query|summary|serve> [flags] [args]")
}

// initConfig loads the config file named by -config (if it exists)
// before a subcommand does anything else.
func initConfig(configFile string) {
	config.Init(configFile)
	arkilog.Debug("configuration loaded, log level", config.Keys.LogLevel)
}
