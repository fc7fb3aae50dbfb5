// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arkimet/arkimet/pkg/arkilog"
	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/summary"
)

// runDump renders a binary metadata/summary stream as text (spec.md §6
// "Binary metadata stream": a concatenation of bundles distinguished by
// signature; a clean EOF only ever falls at a bundle boundary).
func runDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	configFile := fs.String("config", "./arki.json", "configuration file")
	fs.Parse(args)
	initConfig(*configFile)

	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: arki dump <file>")
		os.Exit(2)
	}

	raw, err := os.ReadFile(rest[0])
	if err != nil {
		arkilog.Fatal(err)
	}

	d := binary.NewDecoder(raw)
	out := os.Stdout
	for d.HasData() {
		sig, err := peekSignature(d)
		if err != nil {
			arkilog.Fatalf("cannot parse stream: %v", err)
		}
		switch sig {
		case "SU":
			if err := dumpSummary(d, out); err != nil {
				arkilog.Fatalf("cannot parse summary bundle: %v", err)
			}
		default:
			m, err := metadata.Read(d)
			if err != nil {
				arkilog.Fatalf("cannot parse metadata bundle: %v", err)
			}
			if err := m.WriteText(out); err != nil {
				arkilog.Fatal(err)
			}
			fmt.Fprintln(out)
		}
	}
}

// peekSignature reads the 2-byte bundle signature without consuming it,
// so the dump loop can dispatch between Metadata and Summary bundles
// sharing one stream.
func peekSignature(d *binary.Decoder) (string, error) {
	if len(d.Buf) < 2 {
		return "", io.ErrUnexpectedEOF
	}
	return string(d.Buf[:2]), nil
}

func dumpSummary(d *binary.Decoder, out io.Writer) error {
	sig, version, payload, err := d.PopBundle()
	if err != nil {
		return err
	}
	bundle := binary.NewEncoder()
	bundle.AddBundle(sig, version, payload.Buf)
	s, err := summary.Decode(bundle.Dest)
	if err != nil {
		return err
	}
	st := s.Stats()
	fmt.Fprintf(out, "Summary: count=%d size=%d begin=%s end=%s\n",
		st.Count, st.Size, st.Begin.ToISO8601('T'), st.End.ToISO8601('T'))
	return nil
}
