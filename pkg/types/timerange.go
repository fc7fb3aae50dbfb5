// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/binary"
)

const (
	TimerangeStyleGRIB1   uint8 = 1
	TimerangeStyleGRIB2   uint8 = 2
	TimerangeStyleTimedef uint8 = 3
	TimerangeStyleBUFR    uint8 = 4
)

// TimerangeGRIB1 is GRIB1's (type, unit, p1, p2) forecast/statistical range.
type TimerangeGRIB1 struct{ Type, Unit, P1, P2 int }

func (t TimerangeGRIB1) Code() Code   { return CodeTimerange }
func (t TimerangeGRIB1) Style() uint8 { return TimerangeStyleGRIB1 }
func (t TimerangeGRIB1) Clone() Type  { return t }
func (t TimerangeGRIB1) Equal(o Type) bool { x, ok := o.(TimerangeGRIB1); return ok && t == x }
func (t TimerangeGRIB1) Compare(o Type) int {
	x := o.(TimerangeGRIB1)
	for _, d := range []int{t.Type - x.Type, t.Unit - x.Unit, t.P1 - x.P1, t.P2 - x.P2} {
		if d != 0 {
			return d
		}
	}
	return 0
}
func (t TimerangeGRIB1) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, TimerangeStyleGRIB1)
	e.AddUint(uint64(t.Type), 1)
	e.AddUint(uint64(t.Unit), 1)
	e.AddUint(uint64(t.P1), 2)
	e.AddUint(uint64(t.P2), 2)
}
func (t TimerangeGRIB1) String() string {
	return fmt.Sprintf("GRIB1(%d, %d, %d, %d)", t.Type, t.Unit, t.P1, t.P2)
}
func (t TimerangeGRIB1) ExactQuery() string { return "timerange:" + t.String() }
func (t TimerangeGRIB1) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeTimerange.String(), k.StyleField: "GRIB1",
		k.field("type"): t.Type, k.field("unit"): t.Unit, k.field("p1"): t.P1, k.field("p2"): t.P2}
}

// TimerangeGRIB2 is GRIB2's single statistically-processed range
// (type, unit, p1, p2).
type TimerangeGRIB2 struct{ Type, Unit int; P1, P2 int64 }

func (t TimerangeGRIB2) Code() Code   { return CodeTimerange }
func (t TimerangeGRIB2) Style() uint8 { return TimerangeStyleGRIB2 }
func (t TimerangeGRIB2) Clone() Type  { return t }
func (t TimerangeGRIB2) Equal(o Type) bool { x, ok := o.(TimerangeGRIB2); return ok && t == x }
func (t TimerangeGRIB2) Compare(o Type) int {
	x := o.(TimerangeGRIB2)
	if d := t.Type - x.Type; d != 0 {
		return d
	}
	if d := t.Unit - x.Unit; d != 0 {
		return d
	}
	if d := t.P1 - x.P1; d != 0 {
		return int(d)
	}
	return int(t.P2 - x.P2)
}
func (t TimerangeGRIB2) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, TimerangeStyleGRIB2)
	e.AddUint(uint64(t.Type), 1)
	e.AddUint(uint64(t.Unit), 1)
	e.AddSint(t.P1, 4)
	e.AddSint(t.P2, 4)
}
func (t TimerangeGRIB2) String() string {
	return fmt.Sprintf("GRIB2(%d, %d, %d, %d)", t.Type, t.Unit, t.P1, t.P2)
}
func (t TimerangeGRIB2) ExactQuery() string { return "timerange:" + t.String() }
func (t TimerangeGRIB2) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeTimerange.String(), k.StyleField: "GRIB2",
		k.field("type"): t.Type, k.field("unit"): t.Unit, k.field("p1"): t.P1, k.field("p2"): t.P2}
}

// TimerangeTimedef is the general ECMWF-style time definition: a forecast
// step (unit + value) plus an optional statistical processing period
// (stat type, stat unit, stat len).
type TimerangeTimedef struct {
	StepUnit          int
	StepLen           int64
	HasStat           bool
	StatType          int
	StatUnit          int
	StatLen           int64
}

func (t TimerangeTimedef) Code() Code   { return CodeTimerange }
func (t TimerangeTimedef) Style() uint8 { return TimerangeStyleTimedef }
func (t TimerangeTimedef) Clone() Type  { return t }
func (t TimerangeTimedef) Equal(o Type) bool { x, ok := o.(TimerangeTimedef); return ok && t == x }
func (t TimerangeTimedef) Compare(o Type) int {
	x := o.(TimerangeTimedef)
	if d := t.StepUnit - x.StepUnit; d != 0 {
		return d
	}
	if d := t.StepLen - x.StepLen; d != 0 {
		return int(d)
	}
	if d := t.StatType - x.StatType; d != 0 {
		return d
	}
	if d := t.StatUnit - x.StatUnit; d != 0 {
		return d
	}
	return int(t.StatLen - x.StatLen)
}
func (t TimerangeTimedef) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, TimerangeStyleTimedef)
	e.AddUint(uint64(t.StepUnit), 1)
	e.AddVarint(uint64(t.StepLen))
	if t.HasStat {
		e.Dest = append(e.Dest, 1)
		e.AddUint(uint64(t.StatType), 1)
		e.AddUint(uint64(t.StatUnit), 1)
		e.AddVarint(uint64(t.StatLen))
	} else {
		e.Dest = append(e.Dest, 0)
	}
}
func (t TimerangeTimedef) String() string {
	if !t.HasStat {
		return fmt.Sprintf("Timedef(%d%s)", t.StepLen, unitSuffix(t.StepUnit))
	}
	return fmt.Sprintf("Timedef(%d%s, %d, %d%s)", t.StepLen, unitSuffix(t.StepUnit), t.StatType, t.StatLen, unitSuffix(t.StatUnit))
}
func (t TimerangeTimedef) ExactQuery() string { return "timerange:" + t.String() }
func (t TimerangeTimedef) Serialize(k Keys) map[string]any {
	m := map[string]any{k.TypeField: CodeTimerange.String(), k.StyleField: "Timedef",
		k.field("step_unit"): t.StepUnit, k.field("step_len"): t.StepLen}
	if t.HasStat {
		m[k.field("stat_type")] = t.StatType
		m[k.field("stat_unit")] = t.StatUnit
		m[k.field("stat_len")] = t.StatLen
	}
	return m
}

// unitSuffix renders a time unit code as arkimet's textual suffix
// (0=minute, 1=hour, 2=day, 3=month, 4=year).
func unitSuffix(unit int) string {
	switch unit {
	case 0:
		return "m"
	case 1:
		return "h"
	case 2:
		return "d"
	case 3:
		return "mo"
	case 4:
		return "y"
	default:
		return fmt.Sprintf("u%d", unit)
	}
}

// TimerangeBUFR distinguishes BUFR forecast vs. observed data (value is a
// forecast step in seconds, or 0 for observations).
type TimerangeBUFR struct{ Value int64; IsForecast bool }

func (t TimerangeBUFR) Code() Code   { return CodeTimerange }
func (t TimerangeBUFR) Style() uint8 { return TimerangeStyleBUFR }
func (t TimerangeBUFR) Clone() Type  { return t }
func (t TimerangeBUFR) Equal(o Type) bool { x, ok := o.(TimerangeBUFR); return ok && t == x }
func (t TimerangeBUFR) Compare(o Type) int {
	x := o.(TimerangeBUFR)
	return int(t.Value - x.Value)
}
func (t TimerangeBUFR) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, TimerangeStyleBUFR)
	flag := byte(0)
	if t.IsForecast {
		flag = 1
	}
	e.Dest = append(e.Dest, flag)
	e.AddVarint(uint64(t.Value))
}
func (t TimerangeBUFR) String() string {
	if !t.IsForecast {
		return "BUFR(-)"
	}
	return fmt.Sprintf("BUFR(%d)", t.Value)
}
func (t TimerangeBUFR) ExactQuery() string { return "timerange:" + t.String() }
func (t TimerangeBUFR) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeTimerange.String(), k.StyleField: "BUFR",
		k.field("is_forecast"): t.IsForecast, k.field("value"): t.Value}
}

// unitSeconds converts a timerange unit code to seconds (0=minute,
// 1=hour, 2=day, 3=month treated as 30 days, 4=year treated as 365 days;
// months/years are approximate since a timerange step is not tied to a
// calendar instant).
func unitSeconds(unit int) int64 {
	switch unit {
	case 0:
		return 60
	case 1:
		return 3600
	case 2:
		return 86400
	case 3:
		return 86400 * 30
	case 4:
		return 86400 * 365
	default:
		return 1
	}
}

// noStatProcType is the sentinel "no statistical processing" proc type
// used by ToTimedef's canonicalization (matches GRIB1 table 5's 254).
const noStatProcType = 254

// ToTimedef projects any Timerange style onto the general Timedef shape,
// used by the matcher to compare "timerange:Timedef,..." expressions
// against data stored in other styles (spec.md §8 scenario B).
func (t TimerangeGRIB1) ToTimedef() TimerangeTimedef {
	step := int64(t.P1) * unitSeconds(t.Unit)
	switch t.Type {
	case 0, 10, 13:
		// instantaneous forecast product valid at reftime+P1
		return TimerangeTimedef{StepUnit: 1, StepLen: step / 3600, HasStat: false}
	case 3, 4, 5:
		// average(3)/accumulation(4)/difference(5) over [P1,P2]
		dur := (int64(t.P2) - int64(t.P1)) * unitSeconds(t.Unit)
		return TimerangeTimedef{
			StepUnit: 1, StepLen: step / 3600,
			HasStat: true, StatType: t.Type - 2, StatUnit: 1, StatLen: dur / 3600,
		}
	default:
		return TimerangeTimedef{StepUnit: 1, StepLen: step / 3600, HasStat: false}
	}
}

func (t TimerangeGRIB2) ToTimedef() TimerangeTimedef {
	if t.Type == noStatProcType {
		return TimerangeTimedef{StepUnit: t.Unit, StepLen: t.P1, HasStat: false}
	}
	return TimerangeTimedef{
		StepUnit: t.Unit, StepLen: t.P1,
		HasStat: true, StatType: t.Type, StatUnit: t.Unit, StatLen: t.P2,
	}
}

func (t TimerangeTimedef) ToTimedef() TimerangeTimedef { return t }

func (t TimerangeBUFR) ToTimedef() TimerangeTimedef {
	if !t.IsForecast {
		return TimerangeTimedef{StepUnit: 1, StepLen: 0}
	}
	return TimerangeTimedef{StepUnit: 0, StepLen: t.Value / 60}
}

func init() {
	RegisterDecoder(CodeTimerange, func(style uint8, body *binary.Decoder) (Type, error) {
		switch style {
		case TimerangeStyleGRIB1:
			tp, un, err := pop2(body, 1, "timerange grib1")
			if err != nil {
				return nil, err
			}
			p1, err := body.PopUint(2, "timerange grib1 p1")
			if err != nil {
				return nil, err
			}
			p2, err := body.PopUint(2, "timerange grib1 p2")
			if err != nil {
				return nil, err
			}
			return TimerangeGRIB1{tp, un, int(p1), int(p2)}, nil
		case TimerangeStyleGRIB2:
			tp, un, err := pop2(body, 1, "timerange grib2")
			if err != nil {
				return nil, err
			}
			p1, err := body.PopSint(4, "timerange grib2 p1")
			if err != nil {
				return nil, err
			}
			p2, err := body.PopSint(4, "timerange grib2 p2")
			if err != nil {
				return nil, err
			}
			return TimerangeGRIB2{tp, un, p1, p2}, nil
		case TimerangeStyleTimedef:
			unit, err := body.PopUint(1, "timerange timedef step unit")
			if err != nil {
				return nil, err
			}
			steplen, err := body.PopVarint("timerange timedef step len")
			if err != nil {
				return nil, err
			}
			flag, err := body.PopByte("timerange timedef stat flag")
			if err != nil {
				return nil, err
			}
			td := TimerangeTimedef{StepUnit: int(unit), StepLen: int64(steplen)}
			if flag != 0 {
				td.HasStat = true
				st, err := body.PopUint(1, "timerange timedef stat type")
				if err != nil {
					return nil, err
				}
				su, err := body.PopUint(1, "timerange timedef stat unit")
				if err != nil {
					return nil, err
				}
				sl, err := body.PopVarint("timerange timedef stat len")
				if err != nil {
					return nil, err
				}
				td.StatType, td.StatUnit, td.StatLen = int(st), int(su), int64(sl)
			}
			return td, nil
		case TimerangeStyleBUFR:
			flag, err := body.PopByte("timerange bufr flag")
			if err != nil {
				return nil, err
			}
			v, err := body.PopVarint("timerange bufr value")
			if err != nil {
				return nil, err
			}
			return TimerangeBUFR{int64(v), flag != 0}, nil
		default:
			return nil, &binary.ParseError{What: "timerange style", Reason: fmt.Sprintf("unknown style %d", style)}
		}
	})
}

func pop2(body *binary.Decoder, width int, what string) (a, b int, err error) {
	av, err := body.PopUint(width, what+" field 1")
	if err != nil {
		return 0, 0, err
	}
	bv, err := body.PopUint(width, what+" field 2")
	if err != nil {
		return 0, 0, err
	}
	return int(av), int(bv), nil
}
