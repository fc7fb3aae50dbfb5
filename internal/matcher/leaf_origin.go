// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/types"
)

type originGRIB1Leaf struct{ centre, subcentre, process intField }

func (l originGRIB1Leaf) Match(t types.Type) bool {
	o, ok := t.(types.OriginGRIB1)
	return ok && l.centre.match(o.Centre) && l.subcentre.match(o.Subcentre) && l.process.match(o.Process)
}
func (l originGRIB1Leaf) String() string { return "GRIB1" }

type originGRIB2Leaf struct{ centre, subcentre, ptype, bgproc, pid intField }

func (l originGRIB2Leaf) Match(t types.Type) bool {
	o, ok := t.(types.OriginGRIB2)
	return ok && l.centre.match(o.Centre) && l.subcentre.match(o.Subcentre) &&
		l.ptype.match(o.ProcessType) && l.bgproc.match(o.BgProcess) && l.pid.match(o.ProcessID)
}
func (l originGRIB2Leaf) String() string { return "GRIB2" }

type originBUFRLeaf struct{ centre, subcentre intField }

func (l originBUFRLeaf) Match(t types.Type) bool {
	o, ok := t.(types.OriginBUFR)
	return ok && l.centre.match(o.Centre) && l.subcentre.match(o.Subcentre)
}
func (l originBUFRLeaf) String() string { return "BUFR" }

type originODIMH5Leaf struct{ wmo, rad, plc stringField }

func (l originODIMH5Leaf) Match(t types.Type) bool {
	o, ok := t.(types.OriginODIMH5)
	return ok && l.wmo.match(o.WMO) && l.rad.match(o.Rad) && l.plc.match(o.Plc)
}
func (l originODIMH5Leaf) String() string { return "ODIMH5" }

func init() {
	registerLeafParser(types.CodeOrigin, func(style, args string) (Leaf, error) {
		a := splitArgs(args)
		switch style {
		case "GRIB1":
			c, err := parseIntField(argAt(a, 0))
			if err != nil {
				return nil, err
			}
			s, err := parseIntField(argAt(a, 1))
			if err != nil {
				return nil, err
			}
			p, err := parseIntField(argAt(a, 2))
			if err != nil {
				return nil, err
			}
			return originGRIB1Leaf{c, s, p}, nil
		case "GRIB2":
			vals := make([]intField, 5)
			for i := range vals {
				f, err := parseIntField(argAt(a, i))
				if err != nil {
					return nil, err
				}
				vals[i] = f
			}
			return originGRIB2Leaf{vals[0], vals[1], vals[2], vals[3], vals[4]}, nil
		case "BUFR":
			c, err := parseIntField(argAt(a, 0))
			if err != nil {
				return nil, err
			}
			s, err := parseIntField(argAt(a, 1))
			if err != nil {
				return nil, err
			}
			return originBUFRLeaf{c, s}, nil
		case "ODIMH5":
			return originODIMH5Leaf{parseStringField(argAt(a, 0)), parseStringField(argAt(a, 1)), parseStringField(argAt(a, 2))}, nil
		default:
			return nil, fmt.Errorf("matcher: unknown origin style %q", style)
		}
	})
}
