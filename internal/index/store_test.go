// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"testing"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/types"
)

func newBlobMD(t *testing.T, file string, offset, size uint64, centre int, year int) *metadata.Metadata {
	t.Helper()
	md := metadata.New()
	md.Source = types.SourceBlob{Format: "grib", BaseDir: "/data", Filename: file, Offset: offset, Size: size}
	md.Set(types.OriginGRIB1{Centre: centre, Subcentre: 0, Process: 0})
	md.Set(types.ProductGRIB1{Origin: centre, Table: 2, Product: 11})
	md.Set(types.ReftimePosition{Time: aktime.New(year, 1, 1, 0, 0, 0)})
	return md
}

func TestStoreAcquireInsertsOnce(t *testing.T) {
	s := testDB(t)
	md := newBlobMD(t, "2026/01.grib", 0, 100, 1, 2026)

	res, err := s.Acquire(md, 1, ReplaceNever)
	if err != nil {
		t.Fatal(err)
	}
	if res != AcquireOK {
		t.Fatalf("first Acquire = %v, want AcquireOK", res)
	}

	res, err = s.Acquire(md, 1, ReplaceNever)
	if err != nil {
		t.Fatal(err)
	}
	if res != AcquireDuplicateError {
		t.Fatalf("second Acquire under ReplaceNever = %v, want AcquireDuplicateError", res)
	}
}

func TestStoreAcquireReplaceHigherUSN(t *testing.T) {
	s := testDB(t)
	md := newBlobMD(t, "2026/01.grib", 0, 100, 1, 2026)

	if _, err := s.Acquire(md, 5, ReplaceHigherUSN); err != nil {
		t.Fatal(err)
	}

	md2 := newBlobMD(t, "2026/01.grib", 0, 200, 1, 2026)
	res, err := s.Acquire(md2, 3, ReplaceHigherUSN)
	if err != nil {
		t.Fatal(err)
	}
	if res != AcquireDuplicateError {
		t.Fatalf("lower USN replace = %v, want AcquireDuplicateError", res)
	}

	res, err = s.Acquire(md2, 7, ReplaceHigherUSN)
	if err != nil {
		t.Fatal(err)
	}
	if res != AcquireOK {
		t.Fatalf("higher USN replace = %v, want AcquireOK", res)
	}

	existing, err := s.findByFileOffset("2026/01.grib", 0)
	if err != nil {
		t.Fatal(err)
	}
	if existing == nil || existing.Size != 200 || existing.USN != 7 {
		t.Errorf("row after replace = %+v, want size 200 usn 7", existing)
	}
}

func TestStoreQuery(t *testing.T) {
	s := testDB(t)

	a := newBlobMD(t, "2026/01.grib", 0, 100, 1, 2026)
	b := newBlobMD(t, "2025/01.grib", 0, 100, 9, 2025)

	for _, md := range []*metadata.Metadata{a, b} {
		if _, err := s.Acquire(md, 1, ReplaceNever); err != nil {
			t.Fatal(err)
		}
	}

	m, err := matcher.Parse("origin:GRIB1,1")
	if err != nil {
		t.Fatal(err)
	}
	results, err := s.Query(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].File != "2026/01.grib" {
		t.Errorf("matched file %q, want 2026/01.grib", results[0].File)
	}
}
