// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/arkilog"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/summary"
	"github.com/arkimet/arkimet/pkg/types"
)

// runSummary folds every record a dataset's index holds (optionally
// narrowed by a matcher expression) into a Summary and writes its
// binary bundle to stdout, optionally zstd-compressed (spec.md §4.7
// "Binary format", SPEC_FULL.md's klauspost/compress wiring note for
// "*.summary files written by arki summary --compress").
func runSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	configFile := fs.String("config", "./arki.json", "configuration file")
	indexPath := fs.String("index", "./index.sqlite", "path to the dataset's index database")
	compress := fs.Bool("compress", false, "zstd-compress the written bundle")
	fs.Parse(args)
	initConfig(*configFile)

	expr := ""
	if rest := fs.Args(); len(rest) == 1 {
		expr = rest[0]
	} else if len(rest) > 1 {
		fmt.Fprintln(os.Stderr, "usage: arki summary -index <path> [-compress] [matcher-expression]")
		os.Exit(2)
	}

	m, err := matcher.Parse(expr)
	if err != nil {
		arkilog.Fatalf("parse matcher: %v", err)
	}

	store, err := openDataset(*indexPath)
	if err != nil {
		arkilog.Fatalf("open index: %v", err)
	}
	defer store.Close()

	results, err := store.Query(m)
	if err != nil {
		arkilog.Fatalf("query: %v", err)
	}

	s := summary.New()
	for _, r := range results {
		md := metadata.New()
		for _, item := range r.Items.Items() {
			md.Set(item)
		}
		md.Source = types.SourceBlob{Filename: r.File, Offset: uint64(r.Offset), Size: uint64(r.Size)}
		s.Add(md)
	}

	buf := s.Encode()
	if *compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			arkilog.Fatal(err)
		}
		buf = enc.EncodeAll(buf, nil)
		enc.Close()
	}

	if _, err := os.Stdout.Write(buf); err != nil {
		arkilog.Fatal(err)
	}
}
