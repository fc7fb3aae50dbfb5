// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/arkimet/arkimet/internal/index"
	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/arkilog"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/types"
)

// defaultMembers is the attribute set a dataset indexes when no
// dataset-specific configuration says otherwise (dataset configuration
// loading itself is out of scope, spec.md's Non-goals); it is exactly
// the MSO-ordered attribute set the summary trie also keys on.
var defaultMembers = types.MSOOrder

// defaultIndexed are the member codes cheap enough, and common enough
// as query predicates, to warrant a SQL index of their own.
var defaultIndexed = []types.Code{types.CodeOrigin, types.CodeProduct}

func openDataset(path string) (*index.Store, error) {
	return index.Open(path, defaultMembers, defaultIndexed)
}

// runQuery opens one dataset's index and prints every record matching
// a matcher expression (spec.md §4.5/§4.6's query path, exercised end
// to end).
func runQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configFile := fs.String("config", "./arki.json", "configuration file")
	indexPath := fs.String("index", "./index.sqlite", "path to the dataset's index database")
	fs.Parse(args)
	initConfig(*configFile)

	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: arki query -index <path> <matcher-expression>")
		os.Exit(2)
	}

	m, err := matcher.Parse(rest[0])
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

	for _, r := range results {
		fmt.Printf("File: %s\nOffset: %d\nSize: %d\n", r.File, r.Offset, r.Size)
		if err := metadata.WriteItemSetText(os.Stdout, r.Items); err != nil {
			arkilog.Fatal(err)
		}
		fmt.Println()
	}
}
