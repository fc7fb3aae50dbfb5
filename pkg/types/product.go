// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"
	"strings"

	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/value"
)

const (
	ProductStyleGRIB1 uint8 = 1
	ProductStyleGRIB2 uint8 = 2
	ProductStyleBUFR  uint8 = 3
	ProductStyleODIMH5 uint8 = 4
	ProductStyleVM2   uint8 = 5
)

// ProductGRIB1 identifies a GRIB1 product by (origin, table, product).
type ProductGRIB1 struct{ Origin, Table, Product int }

func (p ProductGRIB1) Code() Code   { return CodeProduct }
func (p ProductGRIB1) Style() uint8 { return ProductStyleGRIB1 }
func (p ProductGRIB1) Clone() Type  { return p }
func (p ProductGRIB1) Equal(t Type) bool { o, ok := t.(ProductGRIB1); return ok && p == o }
func (p ProductGRIB1) Compare(t Type) int {
	o := t.(ProductGRIB1)
	if d := p.Origin - o.Origin; d != 0 {
		return d
	}
	if d := p.Table - o.Table; d != 0 {
		return d
	}
	return p.Product - o.Product
}
func (p ProductGRIB1) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProductStyleGRIB1)
	e.AddUint(uint64(p.Origin), 1)
	e.AddUint(uint64(p.Table), 1)
	e.AddUint(uint64(p.Product), 1)
}
func (p ProductGRIB1) String() string { return fmt.Sprintf("GRIB1(%d, %d, %d)", p.Origin, p.Table, p.Product) }
func (p ProductGRIB1) ExactQuery() string { return fmt.Sprintf("product:GRIB1,%d,%d,%d", p.Origin, p.Table, p.Product) }
func (p ProductGRIB1) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeProduct.String(), k.StyleField: "GRIB1",
		k.field("origin"): p.Origin, k.field("table"): p.Table, k.field("product"): p.Product}
}

// ProductGRIB2 identifies a GRIB2 product by (centre, discipline, category, number, ...table versions).
type ProductGRIB2 struct{ Centre, Discipline, Category, Number, TableVersion, LocalTableVersion int }

func (p ProductGRIB2) Code() Code   { return CodeProduct }
func (p ProductGRIB2) Style() uint8 { return ProductStyleGRIB2 }
func (p ProductGRIB2) Clone() Type  { return p }
func (p ProductGRIB2) Equal(t Type) bool { o, ok := t.(ProductGRIB2); return ok && p == o }
func (p ProductGRIB2) Compare(t Type) int {
	o := t.(ProductGRIB2)
	for _, d := range []int{p.Centre - o.Centre, p.Discipline - o.Discipline, p.Category - o.Category,
		p.Number - o.Number, p.TableVersion - o.TableVersion, p.LocalTableVersion - o.LocalTableVersion} {
		if d != 0 {
			return d
		}
	}
	return 0
}
func (p ProductGRIB2) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProductStyleGRIB2)
	e.AddUint(uint64(p.Centre), 2)
	e.AddUint(uint64(p.Discipline), 1)
	e.AddUint(uint64(p.Category), 1)
	e.AddUint(uint64(p.Number), 1)
	e.AddUint(uint64(p.TableVersion), 1)
	e.AddUint(uint64(p.LocalTableVersion), 1)
}
func (p ProductGRIB2) String() string {
	return fmt.Sprintf("GRIB2(%d, %d, %d, %d, %d, %d)", p.Centre, p.Discipline, p.Category, p.Number, p.TableVersion, p.LocalTableVersion)
}
func (p ProductGRIB2) ExactQuery() string {
	return fmt.Sprintf("product:GRIB2,%d,%d,%d,%d,%d,%d", p.Centre, p.Discipline, p.Category, p.Number, p.TableVersion, p.LocalTableVersion)
}
func (p ProductGRIB2) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeProduct.String(), k.StyleField: "GRIB2",
		k.field("centre"): p.Centre, k.field("discipline"): p.Discipline, k.field("category"): p.Category,
		k.field("number"): p.Number, k.field("table_version"): p.TableVersion, k.field("local_table_version"): p.LocalTableVersion}
}

// ProductBUFR identifies a BUFR product by (type, subtype, localsubtype) plus a descriptive ValueBag.
type ProductBUFR struct {
	Type, Subtype, Localsubtype int
	Values                      *valueBagHolder
}

func (p ProductBUFR) Code() Code   { return CodeProduct }
func (p ProductBUFR) Style() uint8 { return ProductStyleBUFR }
func (p ProductBUFR) Clone() Type  { return p }
func (p ProductBUFR) Equal(t Type) bool {
	o, ok := t.(ProductBUFR)
	return ok && p.Type == o.Type && p.Subtype == o.Subtype && p.Localsubtype == o.Localsubtype && p.Values.equal(o.Values)
}
func (p ProductBUFR) Compare(t Type) int {
	o := t.(ProductBUFR)
	if d := p.Type - o.Type; d != 0 {
		return d
	}
	if d := p.Subtype - o.Subtype; d != 0 {
		return d
	}
	if d := p.Localsubtype - o.Localsubtype; d != 0 {
		return d
	}
	return p.Values.compare(o.Values)
}
func (p ProductBUFR) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProductStyleBUFR)
	e.AddUint(uint64(p.Type), 1)
	e.AddUint(uint64(p.Subtype), 1)
	e.AddUint(uint64(p.Localsubtype), 1)
	p.Values.encode(e)
}
func (p ProductBUFR) String() string {
	return fmt.Sprintf("BUFR(%d, %d, %d%s)", p.Type, p.Subtype, p.Localsubtype, p.Values.suffix())
}
func (p ProductBUFR) ExactQuery() string {
	return fmt.Sprintf("product:BUFR,%d,%d,%d%s", p.Type, p.Subtype, p.Localsubtype, p.Values.suffix())
}
func (p ProductBUFR) Serialize(k Keys) map[string]any {
	m := map[string]any{k.TypeField: CodeProduct.String(), k.StyleField: "BUFR",
		k.field("type"): p.Type, k.field("subtype"): p.Subtype, k.field("localsubtype"): p.Localsubtype}
	p.Values.addTo(m, k.field("values"))
	return m
}

// ValueBag returns the descriptive ValueBag attached to a BUFR product.
func (p ProductBUFR) ValueBag() *value.Bag { return p.Values.bag }

// NewProductBUFR builds a ProductBUFR from its numeric fields and an
// optional descriptive ValueBag (nil for none).
func NewProductBUFR(tp, subtype, localsubtype int, bag *value.Bag) ProductBUFR {
	return ProductBUFR{Type: tp, Subtype: subtype, Localsubtype: localsubtype, Values: newValueBagHolder(bag)}
}

// ProductODIMH5 identifies an ODIM-H5 product by its /what.object and
// /dataset/what.product attributes.
type ProductODIMH5 struct{ Obj, Prod string }

func (p ProductODIMH5) Code() Code   { return CodeProduct }
func (p ProductODIMH5) Style() uint8 { return ProductStyleODIMH5 }
func (p ProductODIMH5) Clone() Type  { return p }
func (p ProductODIMH5) Equal(t Type) bool { o, ok := t.(ProductODIMH5); return ok && p == o }
func (p ProductODIMH5) Compare(t Type) int {
	o := t.(ProductODIMH5)
	if c := strings.Compare(p.Obj, o.Obj); c != 0 {
		return c
	}
	return strings.Compare(p.Prod, o.Prod)
}
func (p ProductODIMH5) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProductStyleODIMH5)
	encodeShortString(e, p.Obj)
	encodeShortString(e, p.Prod)
}
func (p ProductODIMH5) String() string     { return fmt.Sprintf("ODIMH5(%s, %s)", p.Obj, p.Prod) }
func (p ProductODIMH5) ExactQuery() string { return fmt.Sprintf("product:ODIMH5,%s,%s", p.Obj, p.Prod) }
func (p ProductODIMH5) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeProduct.String(), k.StyleField: "ODIMH5",
		k.field("obj"): p.Obj, k.field("prod"): p.Prod}
}

// ProductVM2 identifies a value-monitor-v2 product by its numeric
// variable id, together with a derived ValueBag (the variable's bcode,
// level, timerange, unit, ...) that is either retained verbatim from
// the wire or lazily resolved via VM2VariableLookup (spec.md §3, §9).
type ProductVM2 struct {
	VariableID int
	// Derived is non-nil only when the wire carried an explicit
	// derived-value ValueBag on decode; nil means "resolve lazily".
	Derived *value.Bag
}

func (p ProductVM2) Code() Code   { return CodeProduct }
func (p ProductVM2) Style() uint8 { return ProductStyleVM2 }
func (p ProductVM2) Clone() Type  { return p }
func (p ProductVM2) Equal(t Type) bool {
	o, ok := t.(ProductVM2)
	return ok && p.VariableID == o.VariableID
}
func (p ProductVM2) Compare(t Type) int { return p.VariableID - t.(ProductVM2).VariableID }

// DerivedValues returns the derived ValueBag: verbatim if the wire
// carried one, otherwise resolved via VM2VariableLookup (empty if no
// resolver is installed or the variable is unknown).
func (p ProductVM2) DerivedValues() *value.Bag {
	return resolveVM2(p.Derived, VM2VariableLookup, p.VariableID)
}

func (p ProductVM2) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProductStyleVM2)
	e.AddVarint(uint64(p.VariableID))
	p.DerivedValues().Encode(e)
}

// EncodeForIndexingWithoutEnvelope elides the derived ValueBag
// (spec.md §4.6, §9): the attribute table stores only the variable id,
// so a variable-table update never changes a previously-indexed row's
// encoding.
func (p ProductVM2) EncodeForIndexingWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ProductStyleVM2)
	e.AddVarint(uint64(p.VariableID))
}

func (p ProductVM2) String() string {
	return fmt.Sprintf("VM2(%d%s)", p.VariableID, (&valueBagHolder{bag: p.DerivedValues()}).suffix())
}
func (p ProductVM2) ExactQuery() string { return fmt.Sprintf("product:VM2,%d", p.VariableID) }
func (p ProductVM2) Serialize(k Keys) map[string]any {
	m := map[string]any{k.TypeField: CodeProduct.String(), k.StyleField: "VM2", k.field("variable_id"): p.VariableID}
	(&valueBagHolder{bag: p.DerivedValues()}).addTo(m, k.field("derived_values"))
	return m
}

func init() {
	RegisterDecoder(CodeProduct, func(style uint8, body *binary.Decoder) (Type, error) {
		switch style {
		case ProductStyleGRIB1:
			o, t, p, err := pop3(body, 1, "product grib1")
			if err != nil {
				return nil, err
			}
			return ProductGRIB1{o, t, p}, nil
		case ProductStyleGRIB2:
			centre, err := body.PopUint(2, "product grib2 centre")
			if err != nil {
				return nil, err
			}
			rest, err := popN(body, 1, 4, "product grib2")
			if err != nil {
				return nil, err
			}
			local, err := popOptionalLocalTable(body)
			if err != nil {
				return nil, err
			}
			return ProductGRIB2{int(centre), rest[0], rest[1], rest[2], rest[3], local}, nil
		case ProductStyleBUFR:
			tp, st, lst, err := pop3(body, 1, "product bufr")
			if err != nil {
				return nil, err
			}
			vals, err := decodeValueBagHolder(body)
			if err != nil {
				return nil, err
			}
			return ProductBUFR{tp, st, lst, vals}, nil
		case ProductStyleODIMH5:
			obj, err := decodeShortString(body, "product odimh5 obj")
			if err != nil {
				return nil, err
			}
			prod, err := decodeShortString(body, "product odimh5 prod")
			if err != nil {
				return nil, err
			}
			return ProductODIMH5{obj, prod}, nil
		case ProductStyleVM2:
			v, err := body.PopVarint("product vm2 variable id")
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
			return ProductVM2{int(v), derived}, nil
		default:
			return nil, &binary.ParseError{What: "product style", Reason: fmt.Sprintf("unknown style %d", style)}
		}
	})

	RegisterTextDecoder(CodeProduct, func(s string) (Type, error) {
		style, args, err := splitStyleArgs(s)
		if err != nil {
			return nil, err
		}
		switch style {
		case "GRIB1":
			v, err := parseInts(args, 3)
			if err != nil {
				return nil, err
			}
			return ProductGRIB1{v[0], v[1], v[2]}, nil
		case "GRIB2":
			v, err := parseInts(args, 6)
			if err != nil {
				return nil, err
			}
			return ProductGRIB2{v[0], v[1], v[2], v[3], v[4], v[5]}, nil
		case "ODIMH5":
			parts, err := splitArgs(args, 2)
			if err != nil {
				return nil, err
			}
			return ProductODIMH5{parts[0], parts[1]}, nil
		case "VM2":
			id, derived, err := parseVM2Args(args)
			if err != nil {
				return nil, err
			}
			return ProductVM2{VariableID: id, Derived: derived}, nil
		case "BUFR":
			fields := strings.SplitN(args, ",", 4)
			if len(fields) < 3 {
				return nil, fmt.Errorf("cannot parse product BUFR args %q", args)
			}
			v, err := parseInts(strings.Join(fields[:3], ","), 3)
			if err != nil {
				return nil, err
			}
			var bag *value.Bag
			if len(fields) == 4 {
				bag, err = value.ParseBag(fields[3])
				if err != nil {
					return nil, err
				}
			}
			return NewProductBUFR(v[0], v[1], v[2], bag), nil
		default:
			return nil, fmt.Errorf("cannot parse product: unsupported textual style %q", style)
		}
	})
}

// popOptionalLocalTable reads GRIB2's 6th field (local table version),
// which older archives may omit entirely at the end of the body.
func popOptionalLocalTable(body *binary.Decoder) (int, error) {
	if !body.HasData() {
		return 0, nil
	}
	v, err := body.PopUint(1, "product grib2 local table version")
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func pop3(body *binary.Decoder, width int, what string) (a, b, c int, err error) {
	av, err := body.PopUint(width, what+" field 1")
	if err != nil {
		return 0, 0, 0, err
	}
	bv, err := body.PopUint(width, what+" field 2")
	if err != nil {
		return 0, 0, 0, err
	}
	cv, err := body.PopUint(width, what+" field 3")
	if err != nil {
		return 0, 0, 0, err
	}
	return int(av), int(bv), int(cv), nil
}

func popN(body *binary.Decoder, width, n int, what string) ([]int, error) {
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := body.PopUint(width, fmt.Sprintf("%s field %d", what, i+1))
		if err != nil {
			return nil, err
		}
		out[i] = int(v)
	}
	return out, nil
}
