// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/value"
)

// Proddef style values, mirroring Area's GRIB/ODIMH5/VM2 split
// (spec.md §3: "Area / Proddef: GRIB(ValueBag) · ODIMH5(ValueBag) ·
// VM2(station_id, derived_values)").
const (
	ProddefStyleGRIB   uint8 = 1
	ProddefStyleODIMH5 uint8 = 2
	ProddefStyleVM2    uint8 = 3
)

// ProddefGRIB is a ValueBag of GRIB product-specific metadata not
// covered by Product itself (e.g. BUFR local descriptors).
type ProddefGRIB struct{ h *valueBagHolder }

func NewProddefGRIB(b *value.Bag) ProddefGRIB { return ProddefGRIB{newValueBagHolder(b)} }

func (p ProddefGRIB) Code() Code         { return CodeProddef }
func (p ProddefGRIB) Style() uint8       { return ProddefStyleGRIB }
func (p ProddefGRIB) Clone() Type        { return ProddefGRIB{newValueBagHolder(p.h.bag.Clone())} }
func (p ProddefGRIB) Equal(t Type) bool  { o, ok := t.(ProddefGRIB); return ok && p.h.equal(o.h) }
func (p ProddefGRIB) Compare(t Type) int { return p.h.compare(t.(ProddefGRIB).h) }
func (p ProddefGRIB) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProddefStyleGRIB)
	p.h.encode(e)
}
func (p ProddefGRIB) String() string     { return "GRIB(" + p.h.bag.String() + ")" }
func (p ProddefGRIB) ExactQuery() string { return "proddef:" + p.String() }
func (p ProddefGRIB) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeProddef.String(), k.StyleField: "GRIB", k.field("values"): p.h.bag.String()}
}
func (p ProddefGRIB) Values() *value.Bag { return p.h.bag }

// ProddefODIMH5 is the ODIM-H5 counterpart of ProddefGRIB.
type ProddefODIMH5 struct{ h *valueBagHolder }

func NewProddefODIMH5(b *value.Bag) ProddefODIMH5 { return ProddefODIMH5{newValueBagHolder(b)} }

func (p ProddefODIMH5) Code() Code         { return CodeProddef }
func (p ProddefODIMH5) Style() uint8       { return ProddefStyleODIMH5 }
func (p ProddefODIMH5) Clone() Type        { return ProddefODIMH5{newValueBagHolder(p.h.bag.Clone())} }
func (p ProddefODIMH5) Equal(t Type) bool  { o, ok := t.(ProddefODIMH5); return ok && p.h.equal(o.h) }
func (p ProddefODIMH5) Compare(t Type) int { return p.h.compare(t.(ProddefODIMH5).h) }
func (p ProddefODIMH5) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProddefStyleODIMH5)
	p.h.encode(e)
}
func (p ProddefODIMH5) String() string     { return "ODIMH5(" + p.h.bag.String() + ")" }
func (p ProddefODIMH5) ExactQuery() string { return "proddef:" + p.String() }
func (p ProddefODIMH5) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeProddef.String(), k.StyleField: "ODIMH5", k.field("values"): p.h.bag.String()}
}
func (p ProddefODIMH5) Values() *value.Bag { return p.h.bag }

// ProddefVM2 identifies a value-monitor-v2 station's product
// definition by station id, together with a derived ValueBag that is
// either retained verbatim from the wire or lazily resolved via
// VM2StationLookup (spec.md §3, §9).
type ProddefVM2 struct {
	StationID int
	Derived   *value.Bag
}

func (p ProddefVM2) Code() Code   { return CodeProddef }
func (p ProddefVM2) Style() uint8 { return ProddefStyleVM2 }
func (p ProddefVM2) Clone() Type  { return p }
func (p ProddefVM2) Equal(t Type) bool {
	o, ok := t.(ProddefVM2)
	return ok && p.StationID == o.StationID
}
func (p ProddefVM2) Compare(t Type) int { return p.StationID - t.(ProddefVM2).StationID }

func (p ProddefVM2) DerivedValues() *value.Bag {
	return resolveVM2(p.Derived, VM2StationLookup, p.StationID)
}

func (p ProddefVM2) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProddefStyleVM2)
	e.AddVarint(uint64(p.StationID))
	p.DerivedValues().Encode(e)
}

func (p ProddefVM2) EncodeForIndexingWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProddefStyleVM2)
	e.AddVarint(uint64(p.StationID))
}

func (p ProddefVM2) String() string {
	return fmt.Sprintf("VM2(%d%s)", p.StationID, (&valueBagHolder{bag: p.DerivedValues()}).suffix())
}
func (p ProddefVM2) ExactQuery() string { return fmt.Sprintf("proddef:VM2,%d", p.StationID) }
func (p ProddefVM2) Serialize(k Keys) map[string]any {
	m := map[string]any{k.TypeField: CodeProddef.String(), k.StyleField: "VM2", k.field("station_id"): p.StationID}
	(&valueBagHolder{bag: p.DerivedValues()}).addTo(m, k.field("derived_values"))
	return m
}

func init() {
	RegisterDecoder(CodeProddef, func(style uint8, body *binary.Decoder) (Type, error) {
		switch style {
		case ProddefStyleGRIB:
			h, err := decodeValueBagHolder(body)
			if err != nil {
				return nil, err
			}
			return ProddefGRIB{h}, nil
		case ProddefStyleODIMH5:
			h, err := decodeValueBagHolder(body)
			if err != nil {
				return nil, err
			}
			return ProddefODIMH5{h}, nil
		case ProddefStyleVM2:
			id, err := body.PopVarint("proddef vm2 station id")
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
			return ProddefVM2{int(id), derived}, nil
		default:
			return nil, &binary.ParseError{What: "proddef style", Reason: fmt.Sprintf("unknown style %d", style)}
		}
	})

	RegisterTextDecoder(CodeProddef, func(s string) (Type, error) {
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
			return ProddefGRIB{h}, nil
		case "ODIMH5":
			h, err := parseValueBagHolder(args)
			if err != nil {
				return nil, err
			}
			return ProddefODIMH5{h}, nil
		case "VM2":
			id, derived, err := parseVM2Args(args)
			if err != nil {
				return nil, err
			}
			return ProddefVM2{StationID: id, Derived: derived}, nil
		default:
			return nil, &binary.ParseError{What: "proddef", Reason: "unsupported textual style " + style}
		}
	})
}
