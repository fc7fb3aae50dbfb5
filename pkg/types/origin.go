// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arkimet/arkimet/pkg/binary"
)

const (
	OriginStyleGRIB1 uint8 = 1
	OriginStyleGRIB2 uint8 = 2
	OriginStyleBUFR  uint8 = 3
	OriginStyleODIMH5 uint8 = 4
)

// OriginGRIB1 identifies the originating centre of a GRIB1 message.
type OriginGRIB1 struct{ Centre, Subcentre, Process int }

func (o OriginGRIB1) Code() Code  { return CodeOrigin }
func (o OriginGRIB1) Style() uint8 { return OriginStyleGRIB1 }
func (o OriginGRIB1) Clone() Type { return o }

func (o OriginGRIB1) Equal(t Type) bool {
	other, ok := t.(OriginGRIB1)
	return ok && o == other
}

func (o OriginGRIB1) Compare(t Type) int {
	other := t.(OriginGRIB1)
	if d := o.Centre - other.Centre; d != 0 {
		return d
	}
	if d := o.Subcentre - other.Subcentre; d != 0 {
		return d
	}
	return o.Process - other.Process
}

func (o OriginGRIB1) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, OriginStyleGRIB1)
	e.AddUint(uint64(o.Centre), 1)
	e.AddUint(uint64(o.Subcentre), 1)
	e.AddUint(uint64(o.Process), 1)
}

func (o OriginGRIB1) String() string {
	return fmt.Sprintf("GRIB1(%d, %d, %d)", o.Centre, o.Subcentre, o.Process)
}

func (o OriginGRIB1) ExactQuery() string {
	return fmt.Sprintf("origin:GRIB1,%d,%d,%d", o.Centre, o.Subcentre, o.Process)
}

func (o OriginGRIB1) Serialize(k Keys) map[string]any {
	return map[string]any{
		k.TypeField: CodeOrigin.String(), k.StyleField: "GRIB1",
		k.field("centre"): o.Centre, k.field("subcentre"): o.Subcentre, k.field("process"): o.Process,
	}
}

// OriginGRIB2 identifies the originating centre of a GRIB2 message.
type OriginGRIB2 struct{ Centre, Subcentre, ProcessType, BgProcess, ProcessID int }

func (o OriginGRIB2) Code() Code   { return CodeOrigin }
func (o OriginGRIB2) Style() uint8 { return OriginStyleGRIB2 }
func (o OriginGRIB2) Clone() Type  { return o }

func (o OriginGRIB2) Equal(t Type) bool {
	other, ok := t.(OriginGRIB2)
	return ok && o == other
}

func (o OriginGRIB2) Compare(t Type) int {
	other := t.(OriginGRIB2)
	for _, d := range []int{
		o.Centre - other.Centre, o.Subcentre - other.Subcentre,
		o.ProcessType - other.ProcessType, o.BgProcess - other.BgProcess,
		o.ProcessID - other.ProcessID,
	} {
		if d != 0 {
			return d
		}
	}
	return 0
}

func (o OriginGRIB2) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, OriginStyleGRIB2)
	e.AddUint(uint64(o.Centre), 2)
	e.AddUint(uint64(o.Subcentre), 2)
	e.AddUint(uint64(o.ProcessType), 1)
	e.AddUint(uint64(o.BgProcess), 1)
	e.AddUint(uint64(o.ProcessID), 1)
}

func (o OriginGRIB2) String() string {
	return fmt.Sprintf("GRIB2(%d, %d, %d, %d, %d)", o.Centre, o.Subcentre, o.ProcessType, o.BgProcess, o.ProcessID)
}

func (o OriginGRIB2) ExactQuery() string {
	return fmt.Sprintf("origin:GRIB2,%d,%d,%d,%d,%d", o.Centre, o.Subcentre, o.ProcessType, o.BgProcess, o.ProcessID)
}

func (o OriginGRIB2) Serialize(k Keys) map[string]any {
	return map[string]any{
		k.TypeField: CodeOrigin.String(), k.StyleField: "GRIB2",
		k.field("centre"): o.Centre, k.field("subcentre"): o.Subcentre,
		k.field("processtype"): o.ProcessType, k.field("background_process"): o.BgProcess,
		k.field("process_id"): o.ProcessID,
	}
}

// OriginBUFR identifies the originating centre of a BUFR message.
type OriginBUFR struct{ Centre, Subcentre int }

func (o OriginBUFR) Code() Code   { return CodeOrigin }
func (o OriginBUFR) Style() uint8 { return OriginStyleBUFR }
func (o OriginBUFR) Clone() Type  { return o }

func (o OriginBUFR) Equal(t Type) bool {
	other, ok := t.(OriginBUFR)
	return ok && o == other
}

func (o OriginBUFR) Compare(t Type) int {
	other := t.(OriginBUFR)
	if d := o.Centre - other.Centre; d != 0 {
		return d
	}
	return o.Subcentre - other.Subcentre
}

func (o OriginBUFR) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, OriginStyleBUFR)
	e.AddUint(uint64(o.Centre), 2)
	e.AddUint(uint64(o.Subcentre), 2)
}

func (o OriginBUFR) String() string { return fmt.Sprintf("BUFR(%d, %d)", o.Centre, o.Subcentre) }

func (o OriginBUFR) ExactQuery() string {
	return fmt.Sprintf("origin:BUFR,%d,%d", o.Centre, o.Subcentre)
}

func (o OriginBUFR) Serialize(k Keys) map[string]any {
	return map[string]any{
		k.TypeField: CodeOrigin.String(), k.StyleField: "BUFR",
		k.field("centre"): o.Centre, k.field("subcentre"): o.Subcentre,
	}
}

// OriginODIMH5 identifies the originating radar of an ODIM-H5 message.
type OriginODIMH5 struct {
	WMO, Rad, Plc string
}

func (o OriginODIMH5) Code() Code   { return CodeOrigin }
func (o OriginODIMH5) Style() uint8 { return OriginStyleODIMH5 }
func (o OriginODIMH5) Clone() Type  { return o }

func (o OriginODIMH5) Equal(t Type) bool {
	other, ok := t.(OriginODIMH5)
	return ok && o == other
}

func (o OriginODIMH5) Compare(t Type) int {
	other := t.(OriginODIMH5)
	if c := strings.Compare(o.WMO, other.WMO); c != 0 {
		return c
	}
	if c := strings.Compare(o.Rad, other.Rad); c != 0 {
		return c
	}
	return strings.Compare(o.Plc, other.Plc)
}

func (o OriginODIMH5) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, OriginStyleODIMH5)
	encodeShortString(e, o.WMO)
	encodeShortString(e, o.Rad)
	encodeShortString(e, o.Plc)
}

func (o OriginODIMH5) String() string {
	return fmt.Sprintf("ODIMH5(%s, %s, %s)", o.WMO, o.Rad, o.Plc)
}

func (o OriginODIMH5) ExactQuery() string {
	return fmt.Sprintf("origin:ODIMH5,%s,%s,%s", o.WMO, o.Rad, o.Plc)
}

func (o OriginODIMH5) Serialize(k Keys) map[string]any {
	return map[string]any{
		k.TypeField: CodeOrigin.String(), k.StyleField: "ODIMH5",
		k.field("wmo"): o.WMO, k.field("rad"): o.Rad, k.field("plc"): o.Plc,
	}
}

// encodeShortString writes a 1-byte-length-prefixed string, used by the
// handful of variants (ODIMH5) whose fields are short identifiers rather
// than a ValueBag.
func encodeShortString(e *binary.Encoder, s string) {
	e.Dest = append(e.Dest, byte(len(s)))
	e.AddString(s)
}

func decodeShortString(d *binary.Decoder, what string) (string, error) {
	n, err := d.PopByte(what + " length")
	if err != nil {
		return "", err
	}
	return d.PopString(int(n), what)
}

func init() {
	RegisterDecoder(CodeOrigin, func(style uint8, body *binary.Decoder) (Type, error) {
		switch style {
		case OriginStyleGRIB1:
			centre, err := body.PopUint(1, "origin grib1 centre")
			if err != nil {
				return nil, err
			}
			sub, err := body.PopUint(1, "origin grib1 subcentre")
			if err != nil {
				return nil, err
			}
			proc, err := body.PopUint(1, "origin grib1 process")
			if err != nil {
				return nil, err
			}
			return OriginGRIB1{int(centre), int(sub), int(proc)}, nil
		case OriginStyleGRIB2:
			centre, err := body.PopUint(2, "origin grib2 centre")
			if err != nil {
				return nil, err
			}
			sub, err := body.PopUint(2, "origin grib2 subcentre")
			if err != nil {
				return nil, err
			}
			pt, err := body.PopUint(1, "origin grib2 process type")
			if err != nil {
				return nil, err
			}
			bg, err := body.PopUint(1, "origin grib2 background process")
			if err != nil {
				return nil, err
			}
			pid, err := body.PopUint(1, "origin grib2 process id")
			if err != nil {
				return nil, err
			}
			return OriginGRIB2{int(centre), int(sub), int(pt), int(bg), int(pid)}, nil
		case OriginStyleBUFR:
			centre, err := body.PopUint(2, "origin bufr centre")
			if err != nil {
				return nil, err
			}
			sub, err := body.PopUint(2, "origin bufr subcentre")
			if err != nil {
				return nil, err
			}
			return OriginBUFR{int(centre), int(sub)}, nil
		case OriginStyleODIMH5:
			wmo, err := decodeShortString(body, "origin odimh5 wmo")
			if err != nil {
				return nil, err
			}
			rad, err := decodeShortString(body, "origin odimh5 rad")
			if err != nil {
				return nil, err
			}
			plc, err := decodeShortString(body, "origin odimh5 plc")
			if err != nil {
				return nil, err
			}
			return OriginODIMH5{wmo, rad, plc}, nil
		default:
			return nil, &binary.ParseError{What: "origin style", Reason: fmt.Sprintf("unknown style %d", style)}
		}
	})

	RegisterTextDecoder(CodeOrigin, func(s string) (Type, error) {
		style, args, err := splitStyleArgs(s)
		if err != nil {
			return nil, err
		}
		switch style {
		case "GRIB1":
			ints, err := parseInts(args, 3)
			if err != nil {
				return nil, err
			}
			return OriginGRIB1{ints[0], ints[1], ints[2]}, nil
		case "GRIB2":
			ints, err := parseInts(args, 5)
			if err != nil {
				return nil, err
			}
			return OriginGRIB2{ints[0], ints[1], ints[2], ints[3], ints[4]}, nil
		case "BUFR":
			ints, err := parseInts(args, 2)
			if err != nil {
				return nil, err
			}
			return OriginBUFR{ints[0], ints[1]}, nil
		case "ODIMH5":
			parts, err := splitArgs(args, 3)
			if err != nil {
				return nil, err
			}
			return OriginODIMH5{parts[0], parts[1], parts[2]}, nil
		default:
			return nil, fmt.Errorf("cannot parse origin: unknown style %q", style)
		}
	})
}

// splitStyleArgs splits "Style(a, b, c)" into ("Style", "a, b, c").
func splitStyleArgs(s string) (style, args string, err error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", "", fmt.Errorf("cannot parse %q: expected Style(args)", s)
	}
	return strings.TrimSpace(s[:open]), s[open+1 : len(s)-1], nil
}

func splitArgs(args string, n int) ([]string, error) {
	parts := strings.Split(args, ",")
	if n > 0 && len(parts) != n {
		return nil, fmt.Errorf("cannot parse args %q: expected %d fields, got %d", args, n, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func parseInts(args string, n int) ([]int, error) {
	parts, err := splitArgs(args, n)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("cannot parse integer field %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
