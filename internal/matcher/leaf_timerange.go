// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arkimet/arkimet/pkg/types"
)

// timedefLeaf matches any Timerange style through its Timedef projection
// (spec.md §8 scenario B: "Matcher timerange:Timedef,+2h matches
// [a GRIB1 value]").
type timedefLeaf struct {
	stepUnit          intField
	stepLen           int64Field
	wantStat          bool
	statType          intField
	statLen           int64Field
}

// canonicalTimedef is implemented by every Timerange style.
type canonicalTimedef interface{ ToTimedef() types.TimerangeTimedef }

func (l timedefLeaf) Match(t types.Type) bool {
	ct, ok := t.(canonicalTimedef)
	if !ok {
		return false
	}
	td := ct.ToTimedef()
	if !l.stepUnit.match(td.StepUnit) || !l.stepLen.match(td.StepLen) {
		return false
	}
	if l.wantStat {
		if !td.HasStat || !l.statType.match(td.StatType) || !l.statLen.match(td.StatLen) {
			return false
		}
	}
	return true
}
func (l timedefLeaf) String() string { return "Timedef" }

// parseStep parses a Timedef step like "+2h", "3d", "90m" into (unit,
// length); the leading sign is cosmetic.
func parseStep(s string) (unit int, length int64, err error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if s == "" {
		return 0, 0, nil
	}
	i := len(s)
	for i > 0 && !(s[i-1] >= '0' && s[i-1] <= '9') {
		i--
	}
	numPart, suffix := s[:i], s[i:]
	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("matcher: invalid timedef step %q: %w", s, err)
	}
	switch suffix {
	case "m", "":
		return 0, n, nil
	case "h":
		return 1, n, nil
	case "d":
		return 2, n, nil
	case "mo":
		return 3, n, nil
	case "y":
		return 4, n, nil
	default:
		return 0, 0, fmt.Errorf("matcher: unknown timedef step unit %q", suffix)
	}
}

func init() {
	registerLeafParser(types.CodeTimerange, func(style, args string) (Leaf, error) {
		a := splitArgs(args)
		switch style {
		case "GRIB1":
			fs, err := intFields(a, 4)
			if err != nil {
				return nil, err
			}
			return timerangeGRIB1Leaf{fs[0], fs[1], fs[2], fs[3]}, nil
		case "GRIB2":
			fs, err := int64Fields(a, 4)
			if err != nil {
				return nil, err
			}
			return timerangeGRIB2Leaf{fs[0], fs[1], fs[2], fs[3]}, nil
		case "TIMEDEF":
			var leaf timedefLeaf
			unit, length, err := parseStep(argAt(a, 0))
			if err != nil {
				return nil, err
			}
			if argAt(a, 0) != "" {
				leaf.stepUnit = intField{true, unit}
				leaf.stepLen = int64Field{true, length}
			}
			if len(a) > 1 {
				leaf.wantStat = true
				st, err := parseIntField(a[1])
				if err != nil {
					return nil, err
				}
				leaf.statType = st
				if len(a) > 2 {
					_, sl, err := parseStep(a[2])
					if err != nil {
						return nil, err
					}
					leaf.statLen = int64Field{true, sl}
				}
			}
			return leaf, nil
		case "BUFR":
			f, err := int64Fields(a, 1)
			if err != nil {
				return nil, err
			}
			return timerangeBUFRLeaf{f[0]}, nil
		default:
			return nil, fmt.Errorf("matcher: unknown timerange style %q", style)
		}
	})
}

func int64Fields(a []string, n int) ([]int64Field, error) {
	out := make([]int64Field, n)
	for i := 0; i < n; i++ {
		f, err := parseInt64Field(argAt(a, i))
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

type timerangeGRIB1Leaf struct{ ttype, unit, p1, p2 intField }

func (l timerangeGRIB1Leaf) Match(t types.Type) bool {
	v, ok := t.(types.TimerangeGRIB1)
	return ok && l.ttype.match(v.Type) && l.unit.match(v.Unit) && l.p1.match(v.P1) && l.p2.match(v.P2)
}
func (l timerangeGRIB1Leaf) String() string { return "GRIB1" }

type timerangeGRIB2Leaf struct{ ttype, unit, p1, p2 int64Field }

func (l timerangeGRIB2Leaf) Match(t types.Type) bool {
	v, ok := t.(types.TimerangeGRIB2)
	return ok && l.ttype.match(int64(v.Type)) && l.unit.match(int64(v.Unit)) && l.p1.match(v.P1) && l.p2.match(v.P2)
}
func (l timerangeGRIB2Leaf) String() string { return "GRIB2" }

type timerangeBUFRLeaf struct{ value int64Field }

func (l timerangeBUFRLeaf) Match(t types.Type) bool {
	v, ok := t.(types.TimerangeBUFR)
	return ok && l.value.match(v.Value)
}
func (l timerangeBUFRLeaf) String() string { return "BUFR" }
