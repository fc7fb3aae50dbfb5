// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"fmt"
	"strings"

	"github.com/arkimet/arkimet/pkg/types"
	"github.com/arkimet/arkimet/pkg/value"
)

type productGRIB1Leaf struct{ origin, table, product intField }

func (l productGRIB1Leaf) Match(t types.Type) bool {
	p, ok := t.(types.ProductGRIB1)
	return ok && l.origin.match(p.Origin) && l.table.match(p.Table) && l.product.match(p.Product)
}
func (l productGRIB1Leaf) String() string { return "GRIB1" }

type productGRIB2Leaf struct{ centre, discipline, category, number, tver, ltver intField }

func (l productGRIB2Leaf) Match(t types.Type) bool {
	p, ok := t.(types.ProductGRIB2)
	return ok && l.centre.match(p.Centre) && l.discipline.match(p.Discipline) && l.category.match(p.Category) &&
		l.number.match(p.Number) && l.tver.match(p.TableVersion) && l.ltver.match(p.LocalTableVersion)
}
func (l productGRIB2Leaf) String() string { return "GRIB2" }

type productBUFRLeaf struct {
	ptype, subtype, localsubtype intField
	values                       *value.Bag // subset match: every key=val here must match
}

func (l productBUFRLeaf) Match(t types.Type) bool {
	p, ok := t.(types.ProductBUFR)
	if !ok || !l.ptype.match(p.Type) || !l.subtype.match(p.Subtype) || !l.localsubtype.match(p.Localsubtype) {
		return false
	}
	return bagSubsetMatches(l.values, p.ValueBag())
}
func (l productBUFRLeaf) String() string { return "BUFR" }

type productVM2Leaf struct{ variableID intField }

func (l productVM2Leaf) Match(t types.Type) bool {
	p, ok := t.(types.ProductVM2)
	return ok && l.variableID.match(p.VariableID)
}
func (l productVM2Leaf) String() string { return "VM2" }

func init() {
	registerLeafParser(types.CodeProduct, func(style, args string) (Leaf, error) {
		a := splitArgs(args)
		switch style {
		case "GRIB1":
			fs, err := intFields(a, 3)
			if err != nil {
				return nil, err
			}
			return productGRIB1Leaf{fs[0], fs[1], fs[2]}, nil
		case "GRIB2":
			fs, err := intFields(a, 6)
			if err != nil {
				return nil, err
			}
			return productGRIB2Leaf{fs[0], fs[1], fs[2], fs[3], fs[4], fs[5]}, nil
		case "BUFR":
			fs, err := intFields(a, 3)
			if err != nil {
				return nil, err
			}
			var bag *value.Bag
			if len(a) > 3 {
				b, err := value.ParseBag(strings.Join(a[3:], ","))
				if err != nil {
					return nil, err
				}
				bag = b
			}
			return productBUFRLeaf{fs[0], fs[1], fs[2], bag}, nil
		case "VM2":
			f, err := parseIntField(argAt(a, 0))
			if err != nil {
				return nil, err
			}
			return productVM2Leaf{f}, nil
		default:
			return nil, fmt.Errorf("matcher: unknown product style %q", style)
		}
	})
}

func intFields(a []string, n int) ([]intField, error) {
	out := make([]intField, n)
	for i := 0; i < n; i++ {
		f, err := parseIntField(argAt(a, i))
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// bagSubsetMatches reports whether every entry in want is present with
// an equal value in have (spec.md §4.5: ValueBag-bearing leaves match
// when every present field equals the candidate's field).
func bagSubsetMatches(want, have *value.Bag) bool {
	if want == nil || want.Len() == 0 {
		return true
	}
	if have == nil {
		return false
	}
	for _, e := range want.Entries() {
		v := have.Get(e.Key)
		if v == nil || !v.Equal(e.Val) {
			return false
		}
	}
	return true
}
