// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/types"
)

func TestItemSetSortedInsertAndGet(t *testing.T) {
	s := NewItemSet()
	s.Set(types.Run{Minute: 0})
	s.Set(types.OriginGRIB1{Centre: 1, Subcentre: 2, Process: 3})
	s.Set(types.Task{Name: "pvol"})
	if s.Get(types.CodeOrigin) == nil {
		t.Fatal("expected origin to be set")
	}
	for i := 1; i < len(s.Items()); i++ {
		if s.Items()[i-1].Code() > s.Items()[i].Code() {
			t.Fatalf("items not code-sorted: %v", s.Items())
		}
	}
}

func TestMetadataInlineRoundTrip(t *testing.T) {
	m := New()
	m.Set(types.OriginGRIB1{Centre: 1, Subcentre: 2, Process: 3})
	m.Source = types.SourceInline{Format: "grib1", Size: 4}
	m.AddNote(types.Note{Time: aktime.New(2020, 1, 1, 0, 0, 0), Text: "scanned"})

	e := binary.NewEncoder()
	e.AddRaw(m.Encode())
	e.AddRaw([]byte("DATA"))

	d := binary.NewDecoder(e.Dest)
	got, err := Read(d)
	if err != nil {
		t.Fatal(err)
	}
	if got.Get(types.CodeOrigin) == nil {
		t.Fatal("expected origin to survive round trip")
	}
	if len(got.Notes) != 1 || got.Notes[0].Text != "scanned" {
		t.Fatalf("unexpected notes: %+v", got.Notes)
	}
	data, err := got.GetData(ReadContext{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "DATA" {
		t.Fatalf("got %q want DATA", data)
	}
}

func TestMetadataBlobGetData(t *testing.T) {
	dir := t.TempDir()
	segPath := filepath.Join(dir, "2020/01-01.grib")
	if err := os.MkdirAll(filepath.Dir(segPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(segPath, []byte("xxHELLOxx"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New()
	m.Source = types.SourceBlob{Format: "grib1", Filename: "2020/01-01.grib", Offset: 2, Size: 5}
	data, err := m.GetData(ReadContext{BaseDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "HELLO" {
		t.Fatalf("got %q want HELLO", data)
	}
}
