// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/types"
)

type levelGRIB1Leaf struct{ levelType, l1, l2 intField }

func (l levelGRIB1Leaf) Match(t types.Type) bool {
	v, ok := t.(types.LevelGRIB1)
	if !ok || !l.levelType.match(v.LevelType) {
		return false
	}
	if l.l1.set && (!v.HasL1 || v.L1 != l.l1.v) {
		return false
	}
	if l.l2.set && (!v.HasL2 || v.L2 != l.l2.v) {
		return false
	}
	return true
}
func (l levelGRIB1Leaf) String() string { return "GRIB1" }

type levelGRIB2SLeaf struct{ levelType, scale, value intField }

func (l levelGRIB2SLeaf) Match(t types.Type) bool {
	v, ok := t.(types.LevelGRIB2S)
	if !ok || !l.levelType.match(v.LevelType) {
		return false
	}
	if l.scale.set && (!v.HasValue || v.Scale != l.scale.v) {
		return false
	}
	if l.value.set && (!v.HasValue || v.Value != l.value.v) {
		return false
	}
	return true
}
func (l levelGRIB2SLeaf) String() string { return "GRIB2S" }

type levelGRIB2DLeaf struct{ t1, s1, v1, t2, s2, v2 intField }

func (l levelGRIB2DLeaf) Match(t types.Type) bool {
	v, ok := t.(types.LevelGRIB2D)
	return ok && l.t1.match(v.Type1) && l.s1.match(v.Scale1) && l.v1.match(v.Value1) &&
		l.t2.match(v.Type2) && l.s2.match(v.Scale2) && l.v2.match(v.Value2)
}
func (l levelGRIB2DLeaf) String() string { return "GRIB2D" }

type levelODIMH5Leaf struct {
	r1, r2   float64
	hasR1, hasR2 bool
}

func (l levelODIMH5Leaf) Match(t types.Type) bool {
	v, ok := t.(types.LevelODIMH5)
	if !ok {
		return false
	}
	if l.hasR1 && v.Range1 != l.r1 {
		return false
	}
	if l.hasR2 && v.Range2 != l.r2 {
		return false
	}
	return true
}
func (l levelODIMH5Leaf) String() string { return "ODIMH5" }

func init() {
	registerLeafParser(types.CodeLevel, func(style, args string) (Leaf, error) {
		a := splitArgs(args)
		switch style {
		case "GRIB1":
			fs, err := intFields(a, 3)
			if err != nil {
				return nil, err
			}
			return levelGRIB1Leaf{fs[0], fs[1], fs[2]}, nil
		case "GRIB2S":
			fs, err := intFields(a, 3)
			if err != nil {
				return nil, err
			}
			return levelGRIB2SLeaf{fs[0], fs[1], fs[2]}, nil
		case "GRIB2D":
			fs, err := intFields(a, 6)
			if err != nil {
				return nil, err
			}
			return levelGRIB2DLeaf{fs[0], fs[1], fs[2], fs[3], fs[4], fs[5]}, nil
		case "ODIMH5":
			leaf := levelODIMH5Leaf{}
			if s := argAt(a, 0); s != "" {
				if _, err := fmt.Sscanf(s, "%g", &leaf.r1); err != nil {
					return nil, err
				}
				leaf.hasR1 = true
			}
			if s := argAt(a, 1); s != "" {
				if _, err := fmt.Sscanf(s, "%g", &leaf.r2); err != nil {
					return nil, err
				}
				leaf.hasR2 = true
			}
			return leaf, nil
		default:
			return nil, fmt.Errorf("matcher: unknown level style %q", style)
		}
	})
}
