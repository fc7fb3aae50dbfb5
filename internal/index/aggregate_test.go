// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"testing"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/types"
)

func TestAggregateObtainGetRead(t *testing.T) {
	s := testDB(t)
	agg := s.aggregate

	md := metadata.New()
	md.Set(types.OriginGRIB1{Centre: 200, Subcentre: 1, Process: 2})
	md.Set(types.ProductGRIB1{Origin: 200, Table: 2, Product: 11})

	id, err := agg.Obtain(md)
	if err != nil {
		t.Fatal(err)
	}

	id2, err := agg.Obtain(md)
	if err != nil {
		t.Fatal(err)
	}
	if id2 != id {
		t.Errorf("Obtain is not idempotent: %d then %d", id, id2)
	}

	got, err := agg.Get(md)
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Errorf("Get() = %d, want %d", got, id)
	}

	other := metadata.New()
	other.Set(types.OriginGRIB1{Centre: 9, Subcentre: 9, Process: 9})
	absent, err := agg.Get(other)
	if err != nil {
		t.Fatal(err)
	}
	if absent != -1 {
		t.Errorf("expected -1 for an unseen combination, got %d", absent)
	}

	out := metadata.NewItemSet()
	if err := agg.Read(id, out); err != nil {
		t.Fatal(err)
	}
	if origin := out.Get(types.CodeOrigin); origin == nil || !origin.Equal(types.OriginGRIB1{Centre: 200, Subcentre: 1, Process: 2}) {
		t.Errorf("read back origin %v, want OriginGRIB1{200,1,2}", origin)
	}
	if product := out.Get(types.CodeProduct); product == nil || !product.Equal(types.ProductGRIB1{Origin: 200, Table: 2, Product: 11}) {
		t.Errorf("read back product %v, want ProductGRIB1{200,2,11}", product)
	}
}

func TestAggregateMakeSubquery(t *testing.T) {
	s := testDB(t)
	agg := s.aggregate

	md := metadata.New()
	md.Set(types.OriginGRIB1{Centre: 1, Subcentre: 0, Process: 0})
	md.Set(types.ProductGRIB1{Origin: 1, Table: 2, Product: 3})
	if _, err := agg.Obtain(md); err != nil {
		t.Fatal(err)
	}

	m, err := matcher.Parse("origin:GRIB1,1")
	if err != nil {
		t.Fatal(err)
	}
	sql, args, ok, err := agg.MakeSubquery(m)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected MakeSubquery to produce a constrained subquery")
	}
	if sql == "" {
		t.Error("expected a non-empty subquery")
	}
	if len(args) == 0 {
		t.Error("expected subquery args")
	}
}
