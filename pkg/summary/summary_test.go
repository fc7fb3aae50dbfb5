// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package summary

import (
	"testing"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/types"
)

func newMD(centre, product int, year int) *metadata.Metadata {
	md := metadata.New()
	md.Source = types.SourceBlob{Format: "grib", Filename: "f", Offset: 0, Size: 100}
	md.Set(types.OriginGRIB1{Centre: centre, Subcentre: 0, Process: 0})
	md.Set(types.ProductGRIB1{Origin: centre, Table: 2, Product: product})
	md.Set(types.ReftimePosition{Time: aktime.New(year, 1, 1, 0, 0, 0)})
	return md
}

func TestSummaryAddMergesStats(t *testing.T) {
	s := New()
	s.Add(newMD(1, 11, 2025))
	s.Add(newMD(1, 11, 2026))
	s.Add(newMD(2, 12, 2025))

	st := s.Stats()
	if st.Count != 3 {
		t.Fatalf("overall count = %d, want 3", st.Count)
	}
	if st.Size != 300 {
		t.Fatalf("overall size = %d, want 300", st.Size)
	}
	if st.Begin != aktime.New(2025, 1, 1, 0, 0, 0) {
		t.Errorf("begin = %v, want 2025", st.Begin)
	}
	if st.End != aktime.New(2026, 1, 1, 0, 0, 0) {
		t.Errorf("end = %v, want 2026", st.End)
	}

	var leaves int
	s.Visit(nil, func(items []types.Type, stats Stats) bool {
		leaves++
		return true
	})
	if leaves != 2 {
		t.Fatalf("got %d leaves, want 2 (one per distinct origin/product combination)", leaves)
	}
}

func TestSummaryVisitFiltered(t *testing.T) {
	s := New()
	s.Add(newMD(1, 11, 2025))
	s.Add(newMD(2, 12, 2025))

	m, err := matcher.Parse("origin:GRIB1,1")
	if err != nil {
		t.Fatal(err)
	}

	var matched int
	s.Visit(m, func(items []types.Type, stats Stats) bool {
		matched++
		return true
	})
	if matched != 1 {
		t.Fatalf("got %d filtered leaves, want 1", matched)
	}
}

func TestSummaryEncodeDecodeRoundTrip(t *testing.T) {
	s := New()
	s.Add(newMD(1, 11, 2025))
	s.Add(newMD(2, 12, 2026))

	buf := s.Encode()
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}

	want := s.Stats()
	have := got.Stats()
	if have.Count != want.Count || have.Size != want.Size || have.Begin != want.Begin || have.End != want.End {
		t.Fatalf("round-tripped stats = %+v, want %+v", have, want)
	}

	var leaves int
	got.Visit(nil, func(items []types.Type, stats Stats) bool {
		leaves++
		return true
	})
	if leaves != 2 {
		t.Fatalf("round-tripped summary has %d leaves, want 2", leaves)
	}
}

func TestSummaryAddSummary(t *testing.T) {
	a := New()
	a.Add(newMD(1, 11, 2025))

	b := New()
	b.Add(newMD(2, 12, 2026))

	a.AddSummary(b)
	if a.Stats().Count != 2 {
		t.Fatalf("combined count = %d, want 2", a.Stats().Count)
	}
}
