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

// areaGRIBLeaf and areaODIMH5Leaf match a ValueBag-bearing area style by
// subset (spec.md §4.5: "matching succeeds when every present field
// equals the candidate's field"), the same rule as productBUFRLeaf.
type areaGRIBLeaf struct{ want *value.Bag }

func (l areaGRIBLeaf) Match(t types.Type) bool {
	a, ok := t.(types.AreaGRIB)
	return ok && bagSubsetMatches(l.want, a.Values())
}
func (l areaGRIBLeaf) String() string { return "GRIB" }

type areaODIMH5Leaf struct{ want *value.Bag }

func (l areaODIMH5Leaf) Match(t types.Type) bool {
	a, ok := t.(types.AreaODIMH5)
	return ok && bagSubsetMatches(l.want, a.Values())
}
func (l areaODIMH5Leaf) String() string { return "ODIMH5" }

// areaVM2Leaf matches by station id (absent means "any station") and,
// if given, a subset of the derived ValueBag (original_source's
// matcher/area-test.cc: "area:VM2,1:lon=1207738").
type areaVM2Leaf struct {
	stationID intField
	want      *value.Bag
}

func (l areaVM2Leaf) Match(t types.Type) bool {
	a, ok := t.(types.AreaVM2)
	if !ok || !l.stationID.match(a.StationID) {
		return false
	}
	return bagSubsetMatches(l.want, a.DerivedValues())
}
func (l areaVM2Leaf) String() string { return "VM2" }

type proddefGRIBLeaf struct{ want *value.Bag }

func (l proddefGRIBLeaf) Match(t types.Type) bool {
	p, ok := t.(types.ProddefGRIB)
	return ok && bagSubsetMatches(l.want, p.Values())
}
func (l proddefGRIBLeaf) String() string { return "GRIB" }

type proddefODIMH5Leaf struct{ want *value.Bag }

func (l proddefODIMH5Leaf) Match(t types.Type) bool {
	p, ok := t.(types.ProddefODIMH5)
	return ok && bagSubsetMatches(l.want, p.Values())
}
func (l proddefODIMH5Leaf) String() string { return "ODIMH5" }

type proddefVM2Leaf struct {
	stationID intField
	want      *value.Bag
}

func (l proddefVM2Leaf) Match(t types.Type) bool {
	p, ok := t.(types.ProddefVM2)
	if !ok || !l.stationID.match(p.StationID) {
		return false
	}
	return bagSubsetMatches(l.want, p.DerivedValues())
}
func (l proddefVM2Leaf) String() string { return "VM2" }

func parseValuesBagLeaf(args string, build func(*value.Bag) Leaf) (Leaf, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return build(nil), nil
	}
	bag, err := value.ParseBag(args)
	if err != nil {
		return nil, fmt.Errorf("matcher: invalid values expression %q: %w", args, err)
	}
	return build(bag), nil
}

// parseVM2Leaf parses the shared VM2 leaf grammar "[id][:k=v,...]", used
// by both area:VM2 and proddef:VM2 (spec.md §4.5, original_source's
// matcher/area-test.cc: "VM2", "VM2,1", "VM2,1:lon=1207738").
func parseVM2Leaf(args string) (id intField, want *value.Bag, err error) {
	args = strings.TrimSpace(args)
	idPart, bagPart, hasBag := strings.Cut(args, ":")
	id, err = parseIntField(strings.TrimSpace(idPart))
	if err != nil {
		return intField{}, nil, err
	}
	if hasBag && strings.TrimSpace(bagPart) != "" {
		want, err = value.ParseBag(bagPart)
		if err != nil {
			return intField{}, nil, err
		}
	}
	return id, want, nil
}

func init() {
	registerLeafParser(types.CodeArea, func(style, args string) (Leaf, error) {
		switch style {
		case "GRIB":
			return parseValuesBagLeaf(args, func(b *value.Bag) Leaf { return areaGRIBLeaf{b} })
		case "ODIMH5":
			return parseValuesBagLeaf(args, func(b *value.Bag) Leaf { return areaODIMH5Leaf{b} })
		case "VM2":
			id, want, err := parseVM2Leaf(args)
			if err != nil {
				return nil, fmt.Errorf("matcher: invalid area VM2 expression %q: %w", args, err)
			}
			return areaVM2Leaf{id, want}, nil
		default:
			return nil, fmt.Errorf("matcher: unknown area style %q", style)
		}
	})

	registerLeafParser(types.CodeProddef, func(style, args string) (Leaf, error) {
		switch style {
		case "GRIB":
			return parseValuesBagLeaf(args, func(b *value.Bag) Leaf { return proddefGRIBLeaf{b} })
		case "ODIMH5":
			return parseValuesBagLeaf(args, func(b *value.Bag) Leaf { return proddefODIMH5Leaf{b} })
		case "VM2":
			id, want, err := parseVM2Leaf(args)
			if err != nil {
				return nil, fmt.Errorf("matcher: invalid proddef VM2 expression %q: %w", args, err)
			}
			return proddefVM2Leaf{id, want}, nil
		default:
			return nil, fmt.Errorf("matcher: unknown proddef style %q", style)
		}
	})
}
