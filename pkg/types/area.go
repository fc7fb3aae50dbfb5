// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/types/geo"
	"github.com/arkimet/arkimet/pkg/value"
)

// Area style values (original_source/arki/types/area.h:60-62).
const (
	AreaStyleGRIB   uint8 = 1
	AreaStyleODIMH5 uint8 = 2
	AreaStyleVM2    uint8 = 3
)

// areaBBox extracts a best-effort bounding point from a ValueBag's
// "lon"/"lat" entries, as seen on ODIMH5 areas (e.g.
// "ODIMH5(lon=11623600,lat=44456700,radius=100000)" in
// original_source's matcher/area-test.cc); full GRIB grid-shape
// geometry is not reconstructed here. The box is recomputed on every
// call rather than cached on the value: Area is an immutable value
// type and the lookup is cheap. It is never part of the wire or
// structured-form encoding.
func areaBBox(b *value.Bag) (geo.Polygon, bool) {
	lonVal, latVal := b.Get("lon"), b.Get("lat")
	if lonVal == nil || latVal == nil {
		return nil, false
	}
	lon, ok1 := lonVal.Int()
	lat, ok2 := latVal.Int()
	if !ok1 || !ok2 {
		return nil, false
	}
	return geo.Polygon{{Lon: float64(lon), Lat: float64(lat)}}, true
}

// AreaGRIB is a GRIB area: a ValueBag of grid-shape parameters.
type AreaGRIB struct{ h *valueBagHolder }

// NewAreaGRIB wraps an existing ValueBag as a GRIB area.
func NewAreaGRIB(b *value.Bag) AreaGRIB { return AreaGRIB{newValueBagHolder(b)} }

func (a AreaGRIB) Code() Code          { return CodeArea }
func (a AreaGRIB) Style() uint8        { return AreaStyleGRIB }
func (a AreaGRIB) Clone() Type         { return AreaGRIB{newValueBagHolder(a.h.bag.Clone())} }
func (a AreaGRIB) Equal(t Type) bool   { o, ok := t.(AreaGRIB); return ok && a.h.equal(o.h) }
func (a AreaGRIB) Compare(t Type) int  { return a.h.compare(t.(AreaGRIB).h) }
func (a AreaGRIB) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, AreaStyleGRIB)
	a.h.encode(e)
}
func (a AreaGRIB) String() string     { return "GRIB(" + a.h.bag.String() + ")" }
func (a AreaGRIB) ExactQuery() string { return "area:" + a.String() }
func (a AreaGRIB) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeArea.String(), k.StyleField: "GRIB", k.field("values"): a.h.bag.String()}
}

// Values returns the underlying ValueBag.
func (a AreaGRIB) Values() *value.Bag { return a.h.bag }

// BoundingBox returns a computed, not serialized, bounding polygon
// derived from the area's "lon"/"lat" entries (SPEC_FULL.md §4.3); ok
// is false when the bag carries no recognizable coordinate fields.
func (a AreaGRIB) BoundingBox() (geo.Polygon, bool) { return areaBBox(a.h.bag) }

// AreaODIMH5 is an ODIM-H5 area: a ValueBag of radar site parameters
// (typically lon/lat/radius).
type AreaODIMH5 struct{ h *valueBagHolder }

// NewAreaODIMH5 wraps an existing ValueBag as an ODIMH5 area.
func NewAreaODIMH5(b *value.Bag) AreaODIMH5 { return AreaODIMH5{newValueBagHolder(b)} }

func (a AreaODIMH5) Code() Code         { return CodeArea }
func (a AreaODIMH5) Style() uint8       { return AreaStyleODIMH5 }
func (a AreaODIMH5) Clone() Type        { return AreaODIMH5{newValueBagHolder(a.h.bag.Clone())} }
func (a AreaODIMH5) Equal(t Type) bool  { o, ok := t.(AreaODIMH5); return ok && a.h.equal(o.h) }
func (a AreaODIMH5) Compare(t Type) int { return a.h.compare(t.(AreaODIMH5).h) }
func (a AreaODIMH5) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, AreaStyleODIMH5)
	a.h.encode(e)
}
func (a AreaODIMH5) String() string     { return "ODIMH5(" + a.h.bag.String() + ")" }
func (a AreaODIMH5) ExactQuery() string { return "area:" + a.String() }
func (a AreaODIMH5) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeArea.String(), k.StyleField: "ODIMH5", k.field("values"): a.h.bag.String()}
}
func (a AreaODIMH5) Values() *value.Bag { return a.h.bag }

// BoundingBox is the ODIMH5 counterpart of AreaGRIB.BoundingBox.
func (a AreaODIMH5) BoundingBox() (geo.Polygon, bool) { return areaBBox(a.h.bag) }

// AreaVM2 identifies a value-monitor-v2 station by its numeric id,
// together with a derived ValueBag that is either retained verbatim
// from the wire or lazily resolved via VM2StationLookup (spec.md §3,
// §9).
type AreaVM2 struct {
	StationID int
	// Derived is non-nil only when the wire carried an explicit
	// derived-value ValueBag on decode; nil means "resolve lazily".
	Derived *value.Bag
}

func (a AreaVM2) Code() Code   { return CodeArea }
func (a AreaVM2) Style() uint8 { return AreaStyleVM2 }
func (a AreaVM2) Clone() Type  { return a }
func (a AreaVM2) Equal(t Type) bool {
	o, ok := t.(AreaVM2)
	return ok && a.StationID == o.StationID
}
func (a AreaVM2) Compare(t Type) int { return a.StationID - t.(AreaVM2).StationID }

// DerivedValues returns the derived ValueBag: verbatim if the wire
// carried one, otherwise resolved via VM2StationLookup (empty if no
// resolver is installed or the station is unknown).
func (a AreaVM2) DerivedValues() *value.Bag {
	return resolveVM2(a.Derived, VM2StationLookup, a.StationID)
}

func (a AreaVM2) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, AreaStyleVM2)
	e.AddVarint(uint64(a.StationID))
	a.DerivedValues().Encode(e)
}

// EncodeForIndexingWithoutEnvelope elides the derived ValueBag
// (spec.md §4.6, §9).
func (a AreaVM2) EncodeForIndexingWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, AreaStyleVM2)
	e.AddVarint(uint64(a.StationID))
}

func (a AreaVM2) String() string {
	return fmt.Sprintf("VM2(%d%s)", a.StationID, (&valueBagHolder{bag: a.DerivedValues()}).suffix())
}
func (a AreaVM2) ExactQuery() string { return fmt.Sprintf("area:VM2,%d", a.StationID) }
func (a AreaVM2) Serialize(k Keys) map[string]any {
	m := map[string]any{k.TypeField: CodeArea.String(), k.StyleField: "VM2", k.field("station_id"): a.StationID}
	(&valueBagHolder{bag: a.DerivedValues()}).addTo(m, k.field("derived_values"))
	return m
}

func init() {
	RegisterDecoder(CodeArea, func(style uint8, body *binary.Decoder) (Type, error) {
		switch style {
		case AreaStyleGRIB:
			h, err := decodeValueBagHolder(body)
			if err != nil {
				return nil, err
			}
			return AreaGRIB{h}, nil
		case AreaStyleODIMH5:
			h, err := decodeValueBagHolder(body)
			if err != nil {
				return nil, err
			}
			return AreaODIMH5{h}, nil
		case AreaStyleVM2:
			id, err := body.PopVarint("area vm2 station id")
			if err != nil {
				return nil, err
			}
			var derived *value.Bag
			if body.HasData() {
				derived, err = value.DecodeBag(body)
				if err != nil {
					return nil, err
				}
			}
			return AreaVM2{int(id), derived}, nil
		default:
			return nil, &binary.ParseError{What: "area style", Reason: fmt.Sprintf("unknown style %d", style)}
		}
	})

	RegisterTextDecoder(CodeArea, func(s string) (Type, error) {
		style, args, err := splitStyleArgs(s)
		if err != nil {
			return nil, err
		}
		switch style {
		case "GRIB":
			h, err := parseValueBagHolder(args)
			if err != nil {
				return nil, err
			}
			return AreaGRIB{h}, nil
		case "ODIMH5":
			h, err := parseValueBagHolder(args)
			if err != nil {
				return nil, err
			}
			return AreaODIMH5{h}, nil
		case "VM2":
			id, derived, err := parseVM2Args(args)
			if err != nil {
				return nil, err
			}
			return AreaVM2{StationID: id, Derived: derived}, nil
		default:
			return nil, &binary.ParseError{What: "area", Reason: "unsupported textual style " + style}
		}
	})
}
