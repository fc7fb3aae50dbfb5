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
	LevelStyleGRIB1  uint8 = 1
	LevelStyleGRIB2S uint8 = 2
	LevelStyleGRIB2D uint8 = 3
	LevelStyleODIMH5 uint8 = 4
)

// LevelGRIB1 is a single-level GRIB1 vertical level (type + up to two scaled values).
type LevelGRIB1 struct {
	LevelType  int
	HasL1, HasL2 bool
	L1, L2     int
}

func (l LevelGRIB1) Code() Code   { return CodeLevel }
func (l LevelGRIB1) Style() uint8 { return LevelStyleGRIB1 }
func (l LevelGRIB1) Clone() Type  { return l }
func (l LevelGRIB1) Equal(t Type) bool { o, ok := t.(LevelGRIB1); return ok && l == o }
func (l LevelGRIB1) Compare(t Type) int {
	o := t.(LevelGRIB1)
	if d := l.LevelType - o.LevelType; d != 0 {
		return d
	}
	if d := l.L1 - o.L1; d != 0 {
		return d
	}
	return l.L2 - o.L2
}
func (l LevelGRIB1) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, LevelStyleGRIB1)
	e.AddUint(uint64(l.LevelType), 1)
	flags := byte(0)
	if l.HasL1 {
		flags |= 1
	}
	if l.HasL2 {
		flags |= 2
	}
	e.Dest = append(e.Dest, flags)
	if l.HasL1 {
		e.AddUint(uint64(l.L1), 2)
	}
	if l.HasL2 {
		e.AddUint(uint64(l.L2), 2)
	}
}
func (l LevelGRIB1) String() string {
	switch {
	case l.HasL1 && l.HasL2:
		return fmt.Sprintf("GRIB1(%d, %d, %d)", l.LevelType, l.L1, l.L2)
	case l.HasL1:
		return fmt.Sprintf("GRIB1(%d, %d)", l.LevelType, l.L1)
	default:
		return fmt.Sprintf("GRIB1(%d)", l.LevelType)
	}
}
func (l LevelGRIB1) ExactQuery() string { return "level:" + l.String() }
func (l LevelGRIB1) Serialize(k Keys) map[string]any {
	m := map[string]any{k.TypeField: CodeLevel.String(), k.StyleField: "GRIB1", k.field("level_type"): l.LevelType}
	if l.HasL1 {
		m[k.field("l1")] = l.L1
	}
	if l.HasL2 {
		m[k.field("l2")] = l.L2
	}
	return m
}

// LevelGRIB2S is a single GRIB2 surface level (type, scale, value).
type LevelGRIB2S struct {
	LevelType    int
	HasValue     bool
	Scale, Value int
}

func (l LevelGRIB2S) Code() Code   { return CodeLevel }
func (l LevelGRIB2S) Style() uint8 { return LevelStyleGRIB2S }
func (l LevelGRIB2S) Clone() Type  { return l }
func (l LevelGRIB2S) Equal(t Type) bool { o, ok := t.(LevelGRIB2S); return ok && l == o }
func (l LevelGRIB2S) Compare(t Type) int {
	o := t.(LevelGRIB2S)
	if d := l.LevelType - o.LevelType; d != 0 {
		return d
	}
	if d := l.Scale - o.Scale; d != 0 {
		return d
	}
	return l.Value - o.Value
}
func (l LevelGRIB2S) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, LevelStyleGRIB2S)
	e.AddUint(uint64(l.LevelType), 1)
	if l.HasValue {
		e.Dest = append(e.Dest, 1)
		e.AddUint(uint64(l.Scale), 1)
		e.AddSint(int64(l.Value), 4)
	} else {
		e.Dest = append(e.Dest, 0)
	}
}
func (l LevelGRIB2S) String() string {
	if !l.HasValue {
		return fmt.Sprintf("GRIB2S(%d, -, -)", l.LevelType)
	}
	return fmt.Sprintf("GRIB2S(%d, %d, %d)", l.LevelType, l.Scale, l.Value)
}
func (l LevelGRIB2S) ExactQuery() string { return "level:" + l.String() }
func (l LevelGRIB2S) Serialize(k Keys) map[string]any {
	m := map[string]any{k.TypeField: CodeLevel.String(), k.StyleField: "GRIB2S", k.field("level_type"): l.LevelType}
	if l.HasValue {
		m[k.field("scale")] = l.Scale
		m[k.field("value")] = l.Value
	}
	return m
}

// LevelGRIB2D is a double (layer) GRIB2 level: two (type, scale, value) triplets.
type LevelGRIB2D struct {
	Type1, Scale1, Value1 int
	Type2, Scale2, Value2 int
}

func (l LevelGRIB2D) Code() Code   { return CodeLevel }
func (l LevelGRIB2D) Style() uint8 { return LevelStyleGRIB2D }
func (l LevelGRIB2D) Clone() Type  { return l }
func (l LevelGRIB2D) Equal(t Type) bool { o, ok := t.(LevelGRIB2D); return ok && l == o }
func (l LevelGRIB2D) Compare(t Type) int {
	o := t.(LevelGRIB2D)
	for _, d := range []int{l.Type1 - o.Type1, l.Scale1 - o.Scale1, l.Value1 - o.Value1,
		l.Type2 - o.Type2, l.Scale2 - o.Scale2, l.Value2 - o.Value2} {
		if d != 0 {
			return d
		}
	}
	return 0
}
func (l LevelGRIB2D) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, LevelStyleGRIB2D)
	e.AddUint(uint64(l.Type1), 1)
	e.AddUint(uint64(l.Scale1), 1)
	e.AddSint(int64(l.Value1), 4)
	e.AddUint(uint64(l.Type2), 1)
	e.AddUint(uint64(l.Scale2), 1)
	e.AddSint(int64(l.Value2), 4)
}
func (l LevelGRIB2D) String() string {
	return fmt.Sprintf("GRIB2D(%d, %d, %d, %d, %d, %d)", l.Type1, l.Scale1, l.Value1, l.Type2, l.Scale2, l.Value2)
}
func (l LevelGRIB2D) ExactQuery() string { return "level:" + l.String() }
func (l LevelGRIB2D) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeLevel.String(), k.StyleField: "GRIB2D",
		k.field("type1"): l.Type1, k.field("scale1"): l.Scale1, k.field("value1"): l.Value1,
		k.field("type2"): l.Type2, k.field("scale2"): l.Scale2, k.field("value2"): l.Value2}
}

// LevelODIMH5 is a radar elevation angle level (hundredths of a degree).
type LevelODIMH5 struct{ Range1, Range2 float64 }

func (l LevelODIMH5) Code() Code   { return CodeLevel }
func (l LevelODIMH5) Style() uint8 { return LevelStyleODIMH5 }
func (l LevelODIMH5) Clone() Type  { return l }
func (l LevelODIMH5) Equal(t Type) bool { o, ok := t.(LevelODIMH5); return ok && l == o }
func (l LevelODIMH5) Compare(t Type) int {
	o := t.(LevelODIMH5)
	if l.Range1 != o.Range1 {
		if l.Range1 < o.Range1 {
			return -1
		}
		return 1
	}
	if l.Range2 != o.Range2 {
		if l.Range2 < o.Range2 {
			return -1
		}
		return 1
	}
	return 0
}
func (l LevelODIMH5) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, LevelStyleODIMH5)
	e.AddFloat64(l.Range1)
	e.AddFloat64(l.Range2)
}
func (l LevelODIMH5) String() string     { return fmt.Sprintf("ODIMH5(%g, %g)", l.Range1, l.Range2) }
func (l LevelODIMH5) ExactQuery() string { return "level:" + l.String() }
func (l LevelODIMH5) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeLevel.String(), k.StyleField: "ODIMH5",
		k.field("min"): l.Range1, k.field("max"): l.Range2}
}

func init() {
	RegisterDecoder(CodeLevel, func(style uint8, body *binary.Decoder) (Type, error) {
		switch style {
		case LevelStyleGRIB1:
			lt, err := body.PopUint(1, "level grib1 type")
			if err != nil {
				return nil, err
			}
			flags, err := body.PopByte("level grib1 flags")
			if err != nil {
				return nil, err
			}
			l := LevelGRIB1{LevelType: int(lt), HasL1: flags&1 != 0, HasL2: flags&2 != 0}
			if l.HasL1 {
				v, err := body.PopUint(2, "level grib1 l1")
				if err != nil {
					return nil, err
				}
				l.L1 = int(v)
			}
			if l.HasL2 {
				v, err := body.PopUint(2, "level grib1 l2")
				if err != nil {
					return nil, err
				}
				l.L2 = int(v)
			}
			return l, nil
		case LevelStyleGRIB2S:
			lt, err := body.PopUint(1, "level grib2s type")
			if err != nil {
				return nil, err
			}
			flag, err := body.PopByte("level grib2s flag")
			if err != nil {
				return nil, err
			}
			if flag == 0 {
				return LevelGRIB2S{LevelType: int(lt)}, nil
			}
			scale, err := body.PopUint(1, "level grib2s scale")
			if err != nil {
				return nil, err
			}
			val, err := body.PopSint(4, "level grib2s value")
			if err != nil {
				return nil, err
			}
			return LevelGRIB2S{int(lt), true, int(scale), int(val)}, nil
		case LevelStyleGRIB2D:
			t1, s1, v1, err := popTriplet(body, "level grib2d first")
			if err != nil {
				return nil, err
			}
			t2, s2, v2, err := popTriplet(body, "level grib2d second")
			if err != nil {
				return nil, err
			}
			return LevelGRIB2D{t1, s1, v1, t2, s2, v2}, nil
		case LevelStyleODIMH5:
			r1, err := body.PopFloat64("level odimh5 range1")
			if err != nil {
				return nil, err
			}
			r2, err := body.PopFloat64("level odimh5 range2")
			if err != nil {
				return nil, err
			}
			return LevelODIMH5{r1, r2}, nil
		default:
			return nil, &binary.ParseError{What: "level style", Reason: fmt.Sprintf("unknown style %d", style)}
		}
	})
}

func popTriplet(body *binary.Decoder, what string) (tp, scale, val int, err error) {
	t, err := body.PopUint(1, what+" type")
	if err != nil {
		return 0, 0, 0, err
	}
	s, err := body.PopUint(1, what+" scale")
	if err != nil {
		return 0, 0, 0, err
	}
	v, err := body.PopSint(4, what+" value")
	if err != nil {
		return 0, 0, 0, err
	}
	return int(t), int(s), int(v), nil
}
