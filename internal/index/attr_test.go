// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"path/filepath"
	"testing"

	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/types"
)

func testDB(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.sqlite")
	s, err := Open(path, []types.Code{types.CodeOrigin, types.CodeProduct}, []types.Code{types.CodeProduct})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAttrInsertAndLookup(t *testing.T) {
	s := testDB(t)
	a := s.aggregate.attrs.list[0] // origin

	md := metadata.New()
	md.Set(types.OriginGRIB1{Centre: 200, Subcentre: 1, Process: 2})

	id, err := a.insert(md)
	if err != nil {
		t.Fatal(err)
	}
	if id < 0 {
		t.Fatalf("expected a non-negative id, got %d", id)
	}

	id2, err := a.insert(md)
	if err != nil {
		t.Fatal(err)
	}
	if id2 != id {
		t.Errorf("expected idempotent insert, got %d then %d", id, id2)
	}

	lookup, err := a.id(md)
	if err != nil {
		t.Fatal(err)
	}
	if lookup != id {
		t.Errorf("id() = %d, want %d", lookup, id)
	}

	empty := metadata.New()
	absent, err := a.id(empty)
	if err != nil {
		t.Fatal(err)
	}
	if absent != -1 {
		t.Errorf("expected -1 for an md without the attribute, got %d", absent)
	}
}

func TestAttrRead(t *testing.T) {
	s := testDB(t)
	a := s.aggregate.attrs.list[0]

	md := metadata.New()
	md.Set(types.OriginGRIB1{Centre: 10, Subcentre: 0, Process: 0})
	id, err := a.insert(md)
	if err != nil {
		t.Fatal(err)
	}

	out := metadata.New()
	if err := a.read(id, out); err != nil {
		t.Fatal(err)
	}
	got := out.Get(types.CodeOrigin)
	if got == nil || !got.Equal(types.OriginGRIB1{Centre: 10, Subcentre: 0, Process: 0}) {
		t.Errorf("read back %v, want OriginGRIB1{10,0,0}", got)
	}
}
