// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package metadata

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/types"
)

func TestWriteTextBasic(t *testing.T) {
	m := New()
	m.Set(types.OriginGRIB1{Centre: 1, Subcentre: 2, Process: 3})
	m.Source = types.SourceBlob{Format: "grib", Filename: "/base", Offset: 10, Size: 20}
	m.AddNote(types.Note{Time: aktime.New(2025, 1, 1, 0, 0, 0), Text: "imported"})

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "Origin: GRIB1(1, 2, 3)\n") {
		t.Errorf("missing/misplaced Origin line, got:\n%s", out)
	}
	if !strings.Contains(out, "Note: ") {
		t.Errorf("missing Note line, got:\n%s", out)
	}
	if !strings.Contains(out, "imported") {
		t.Errorf("note text missing, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "Source: BLOB(grib,/base:10+20)\n") {
		t.Errorf("Source line missing/misplaced, got:\n%s", out)
	}
}
