// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"testing"

	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/value"
)

func roundTrip(t *testing.T, v Type) Type {
	t.Helper()
	buf := Encode(v)
	d := binary.NewDecoder(buf)
	got, err := Decode(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.HasData() {
		t.Fatalf("leftover bytes after decode: %d", len(d.Buf))
	}
	return got
}

func TestOriginGRIB1EnvelopeBytes(t *testing.T) {
	o := OriginGRIB1{1, 2, 3}
	buf := Encode(o)
	want := []byte{0x01, 0x04, 0x01, 0x01, 0x02, 0x03}
	if len(buf) != len(want) {
		t.Fatalf("got %v want %v", buf, want)
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("got %v want %v", buf, want)
		}
	}
}

func TestOriginRoundTrip(t *testing.T) {
	cases := []Type{
		OriginGRIB1{1, 2, 3},
		OriginGRIB2{98, 0, 1, 2, 3},
		OriginBUFR{98, 0},
		OriginODIMH5{"16144", "109", "SVISS"},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if !got.Equal(c) {
			t.Errorf("origin round trip: got %v want %v", got, c)
		}
	}
}

func TestProductRoundTrip(t *testing.T) {
	bag, err := DecodeString(CodeProduct, "BUFR(0,1,2)")
	if err != nil {
		t.Fatal(err)
	}
	got := roundTrip(t, bag)
	if !got.Equal(bag) {
		t.Errorf("product bufr round trip: got %v want %v", got, bag)
	}

	grib2 := ProductGRIB2{98, 0, 200, 0, 1, 15}
	got2 := roundTrip(t, grib2)
	if !got2.Equal(grib2) {
		t.Errorf("product grib2 round trip: got %v want %v", got2, grib2)
	}
}

func TestLevelRoundTrip(t *testing.T) {
	cases := []Type{
		LevelGRIB1{100, true, false, 1000, 0},
		LevelGRIB2S{100, true, 0, 100000},
		LevelGRIB2D{100, 0, 0, 100, 0, 3000},
		LevelODIMH5{0.5, 1.5},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if !got.Equal(c) {
			t.Errorf("level round trip: got %v want %v", got, c)
		}
	}
}

func TestTimerangeRoundTrip(t *testing.T) {
	cases := []Type{
		TimerangeGRIB1{0, 1, 0, 0},
		TimerangeGRIB2{0, 1, 0, 0},
		TimerangeTimedef{StepUnit: 1, StepLen: 12, HasStat: true, StatType: 0, StatUnit: 1, StatLen: 24},
		TimerangeBUFR{3600, true},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if !got.Equal(c) {
			t.Errorf("timerange round trip: got %v want %v", got, c)
		}
	}
}

func TestReftimePositionExactQuery(t *testing.T) {
	r := ReftimePosition{aktime.New(2007, 1, 2, 3, 4, 5)}
	got := roundTrip(t, r)
	if !got.Equal(r) {
		t.Errorf("reftime round trip: got %v want %v", got, r)
	}
	if r.ExactQuery() != "reftime:=2007-01-02T03:04:05Z" {
		t.Errorf("unexpected exact query: %s", r.ExactQuery())
	}
}

func TestAreaValuesRoundTrip(t *testing.T) {
	a, err := DecodeString(CodeArea, "GRIB(lat=4500000, lon=1180000)")
	if err != nil {
		t.Fatal(err)
	}
	got := roundTrip(t, a)
	if !got.Equal(a) {
		t.Errorf("area round trip: got %v want %v", got, a)
	}
}

func TestAreaODIMH5RoundTripAndBoundingBox(t *testing.T) {
	a, err := DecodeString(CodeArea, "ODIMH5(lon=11623600, lat=44456700, radius=100000)")
	if err != nil {
		t.Fatal(err)
	}
	got := roundTrip(t, a)
	if !got.Equal(a) {
		t.Errorf("area odimh5 round trip: got %v want %v", got, a)
	}
	box, ok := got.(AreaODIMH5).BoundingBox()
	if !ok {
		t.Fatal("expected a bounding box from lon/lat fields")
	}
	if len(box) != 1 || box[0].Lon != 11623600 || box[0].Lat != 44456700 {
		t.Errorf("unexpected bounding box: %v", box)
	}
}

func TestAreaGRIBNoCoordinatesHasNoBoundingBox(t *testing.T) {
	a := NewAreaGRIB(mustParseBag(t, "foo=1"))
	if _, ok := a.BoundingBox(); ok {
		t.Error("expected no bounding box without lon/lat fields")
	}
}

func TestAreaVM2RoundTripVerbatimDerivedValues(t *testing.T) {
	a, err := DecodeString(CodeArea, "VM2(1:lon=1207738)")
	if err != nil {
		t.Fatal(err)
	}
	vm2 := a.(AreaVM2)
	if vm2.StationID != 1 {
		t.Fatalf("unexpected station id: %d", vm2.StationID)
	}
	if vm2.Derived == nil {
		t.Fatal("expected a verbatim derived bag from explicit text")
	}

	got := roundTrip(t, a)
	if !got.Equal(a) {
		t.Errorf("area vm2 round trip: got %v want %v", got, a)
	}
	gotVM2 := got.(AreaVM2)
	if gotVM2.Derived == nil {
		t.Fatal("expected the decoded form to retain the derived bag verbatim")
	}
	if lon, ok := gotVM2.DerivedValues().Get("lon").Int(); !ok || lon != 1207738 {
		t.Errorf("unexpected derived lon: %v ok=%v", lon, ok)
	}

	indexBuf := EncodeForIndexing(a)
	indexed, err := Decode(binary.NewDecoder(indexBuf))
	if err != nil {
		t.Fatal(err)
	}
	indexedVM2 := indexed.(AreaVM2)
	if indexedVM2.Derived != nil {
		t.Error("expected EncodeForIndexing to elide the derived bag")
	}
	if len(indexBuf) >= len(Encode(a)) {
		t.Errorf("expected indexing encoding to be shorter: index=%d full=%d", len(indexBuf), len(Encode(a)))
	}
}

func TestAreaVM2AbsentDerivedResolvesLazily(t *testing.T) {
	old := VM2StationLookup
	defer func() { VM2StationLookup = old }()

	bag, err := value.ParseBag("lon=42")
	if err != nil {
		t.Fatal(err)
	}
	VM2StationLookup = func(id int) (*value.Bag, bool) {
		if id == 7 {
			return bag, true
		}
		return nil, false
	}

	a, err := DecodeString(CodeArea, "VM2(7)")
	if err != nil {
		t.Fatal(err)
	}
	vm2 := a.(AreaVM2)
	if vm2.Derived != nil {
		t.Fatal("expected no verbatim derived bag when the text omits it")
	}
	if lon, ok := vm2.DerivedValues().Get("lon").Int(); !ok || lon != 42 {
		t.Errorf("expected lazily resolved lon=42, got %v ok=%v", lon, ok)
	}
}

func TestProddefRoundTrip(t *testing.T) {
	cases := []Type{
		NewProddefGRIB(mustParseBag(t, "foo=1")),
		NewProddefODIMH5(mustParseBag(t, "bar=2")),
		ProddefVM2{StationID: 3, Derived: mustParseBag(t, "unit=K")},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if !got.Equal(c) {
			t.Errorf("proddef round trip: got %v want %v", got, c)
		}
	}
}

func TestProductODIMH5RoundTrip(t *testing.T) {
	p := ProductODIMH5{Obj: "PVOL", Prod: "SCAN"}
	got := roundTrip(t, p)
	if !got.Equal(p) {
		t.Errorf("product odimh5 round trip: got %v want %v", got, p)
	}
}

func TestProductVM2RoundTripAndIndexingElidesDerived(t *testing.T) {
	p, err := DecodeString(CodeProduct, "VM2(42:bcode=B01,unit=K)")
	if err != nil {
		t.Fatal(err)
	}
	vm2 := p.(ProductVM2)
	if vm2.Derived == nil {
		t.Fatal("expected a verbatim derived bag from explicit text")
	}

	got := roundTrip(t, p)
	if !got.Equal(p) {
		t.Errorf("product vm2 round trip: got %v want %v", got, p)
	}
	if got.(ProductVM2).Derived == nil {
		t.Error("expected the decoded form to retain the derived bag verbatim")
	}

	indexBuf := EncodeForIndexing(p)
	indexed, err := Decode(binary.NewDecoder(indexBuf))
	if err != nil {
		t.Fatal(err)
	}
	if indexed.(ProductVM2).Derived != nil {
		t.Error("expected EncodeForIndexing to elide the derived bag")
	}
	if len(indexBuf) >= len(Encode(p)) {
		t.Errorf("expected indexing encoding to be shorter: index=%d full=%d", len(indexBuf), len(Encode(p)))
	}
}

func mustParseBag(t *testing.T, s string) *value.Bag {
	t.Helper()
	b, err := value.ParseBag(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestQuantityRoundTripSortsAndDedups(t *testing.T) {
	q := NewQuantity([]string{"VRAD", "TH", "VRAD"})
	if len(q.Names()) != 2 {
		t.Fatalf("expected dedup, got %v", q.Names())
	}
	got := roundTrip(t, q)
	if !got.Equal(q) {
		t.Errorf("quantity round trip: got %v want %v", got, q)
	}
}

func TestBBoxRoundTrip(t *testing.T) {
	cases := []Type{
		BBoxPoint{11.3, 44.5},
		BBoxBox{10, 44, 12, 46},
		BBoxHull{[]BBoxPoint{{10, 44}, {12, 44}, {12, 46}, {10, 46}}},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if !got.Equal(c) {
			t.Errorf("bbox round trip: got %v want %v", got, c)
		}
	}
}

func TestMSOOrderMatchesSpec(t *testing.T) {
	want := []Code{CodeOrigin, CodeProduct, CodeLevel, CodeTimerange, CodeArea,
		CodeProddef, CodeBBox, CodeRun, CodeQuantity, CodeTask}
	if len(MSOOrder) != len(want) {
		t.Fatalf("got %d codes want %d", len(MSOOrder), len(want))
	}
	for i := range want {
		if MSOOrder[i] != want[i] {
			t.Errorf("MSOOrder[%d] = %v, want %v", i, MSOOrder[i], want[i])
		}
	}
}

func TestCompareOrdersByCodeThenStyle(t *testing.T) {
	a := OriginGRIB1{1, 1, 1}
	b := OriginBUFR{1, 1}
	if Compare(a, b) >= 0 {
		t.Error("expected GRIB1 (style 1) to sort before BUFR (style 3)")
	}
}
