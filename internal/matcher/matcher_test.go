// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"testing"

	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/types"
	"github.com/arkimet/arkimet/pkg/value"
)

func newMD(items ...types.Type) *metadata.Metadata {
	m := metadata.New()
	for _, it := range items {
		m.Set(it)
	}
	return m
}

func TestExactQueryRoundTrip(t *testing.T) {
	cases := []types.Type{
		types.OriginGRIB1{Centre: 200, Subcentre: 0, Process: 0},
		types.ProductGRIB1{Origin: 1, Table: 2, Product: 3},
		types.LevelGRIB1{LevelType: 1, L1: 0, HasL1: true},
		types.Run{Minute: 12*60 + 0},
		types.Task{Name: "pvol"},
	}
	for _, it := range cases {
		q := it.ExactQuery()
		if q == "" {
			continue
		}
		md := newMD(it)
		mm, err := Parse(q)
		if err != nil {
			t.Fatalf("Parse(%q): %v", q, err)
		}
		if !mm.MatchItemSet(md) {
			t.Errorf("exact query %q did not match its own item", q)
		}
	}
}

func TestTimedefCanonicalization(t *testing.T) {
	md := newMD(types.TimerangeGRIB1{Type: 0, Unit: 1, P1: 2, P2: 0})

	mm, err := Parse("timerange:Timedef,+2h")
	if err != nil {
		t.Fatal(err)
	}
	if !mm.MatchItemSet(md) {
		t.Errorf("timerange:Timedef,+2h should match GRIB1(0,1,2,0)")
	}

	mm2, err := Parse("timerange:Timedef,+2h,1")
	if err != nil {
		t.Fatal(err)
	}
	if mm2.MatchItemSet(md) {
		t.Errorf("timerange:Timedef,+2h,1 should not match an instantaneous forecast")
	}
}

func TestAliasExpansion(t *testing.T) {
	db := NewAliasDB()
	db.Set(types.CodeOrigin, "t1", "GRIB1,200")

	md := newMD(types.OriginGRIB1{Centre: 200, Subcentre: 0, Process: 0})
	mm, err := ParseWithAliases("origin:t1", db)
	if err != nil {
		t.Fatal(err)
	}
	if !mm.MatchItemSet(md) {
		t.Errorf("alias origin:t1 should match Origin.GRIB1(200, 0, 0)")
	}
	if mm.String() != "origin:t1" {
		t.Errorf("String() should preserve raw alias text, got %q", mm.String())
	}
	if mm.StringExpanded() != "origin:GRIB1,200" {
		t.Errorf("StringExpanded() should resolve the alias, got %q", mm.StringExpanded())
	}
}

func TestMatchItemSetAbsenceFails(t *testing.T) {
	mm, err := Parse("origin:GRIB1,200")
	if err != nil {
		t.Fatal(err)
	}
	md := newMD(types.ProductGRIB1{Origin: 1, Table: 2, Product: 3})
	if mm.MatchItemSet(md) {
		t.Errorf("matcher should fail when the constrained code is absent from the item set")
	}
}

func TestReftimeComparison(t *testing.T) {
	mm, err := Parse("reftime:>=2015-01-01,<=2015-12-31")
	if err != nil {
		t.Fatal(err)
	}
	inside := newMD(types.ReftimePosition{Time: aktime.New(2015, 6, 1, 0, 0, 0)})
	if !mm.MatchItemSet(inside) {
		t.Errorf("expected instant inside the interval to match")
	}
	outside := newMD(types.ReftimePosition{Time: aktime.New(2016, 1, 1, 0, 0, 0)})
	if mm.MatchItemSet(outside) {
		t.Errorf("expected instant outside the interval to not match")
	}
}

func TestReftimeTimeOfDay(t *testing.T) {
	mm, err := Parse("reftime:>=12:00,<=18:00")
	if err != nil {
		t.Fatal(err)
	}
	noon := newMD(types.ReftimePosition{Time: aktime.New(2015, 6, 1, 12, 30, 0)})
	if !mm.MatchItemSet(noon) {
		t.Errorf("expected 12:30 to match >=12:00,<=18:00")
	}
	morning := newMD(types.ReftimePosition{Time: aktime.New(2015, 6, 1, 7, 0, 0)})
	if mm.MatchItemSet(morning) {
		t.Errorf("expected 07:00 to not match >=12:00,<=18:00")
	}
}

func TestReftimeRelativeKeywords(t *testing.T) {
	now := aktime.Now()
	mm, err := Parse("reftime:=today")
	if err != nil {
		t.Fatal(err)
	}
	md := newMD(types.ReftimePosition{Time: aktime.New(now.Ye, now.Mo, now.Da, 10, 0, 0)})
	if !mm.MatchItemSet(md) {
		t.Errorf("expected today at 10:00 to match reftime:=today")
	}
}

func TestValueBagSubsetMatch(t *testing.T) {
	bag, err := value.ParseBag("blo=1,sta=1")
	if err != nil {
		t.Fatal(err)
	}
	md := newMD(types.NewProductBUFR(1, 2, 3, bag))
	mm, err := Parse("product:BUFR,1,2,3,blo=1")
	if err != nil {
		t.Fatal(err)
	}
	if !mm.MatchItemSet(md) {
		t.Errorf("subset ValueBag query should match a superset candidate")
	}

	mm2, err := Parse("product:BUFR,1,2,3,blo=2")
	if err != nil {
		t.Fatal(err)
	}
	if mm2.MatchItemSet(md) {
		t.Errorf("mismatched ValueBag entry should not match")
	}
}

func TestSQLPushdownNarrowsReftime(t *testing.T) {
	mm, err := Parse("reftime:>=2015-01-01,<=2015-12-31")
	if err != nil {
		t.Fatal(err)
	}
	where, residual := mm.SQLPushdown("md.reftime")
	if where == nil || residual == nil {
		t.Fatal("expected a non-nil SQL fragment and residual")
	}
	sqlStr, args, err := where.ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if sqlStr == "" || len(args) == 0 {
		t.Errorf("expected a non-trivial WHERE fragment, got %q %v", sqlStr, args)
	}
}
