// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/binary"
)

const (
	ReftimeStylePosition uint8 = 1
	ReftimeStylePeriod   uint8 = 2
)

// ReftimePosition is a single reference-time instant.
type ReftimePosition struct{ Time aktime.Time }

func (r ReftimePosition) Code() Code   { return CodeReftime }
func (r ReftimePosition) Style() uint8 { return ReftimeStylePosition }
func (r ReftimePosition) Clone() Type  { return r }
func (r ReftimePosition) Equal(t Type) bool { o, ok := t.(ReftimePosition); return ok && r.Time == o.Time }
func (r ReftimePosition) Compare(t Type) int { return r.Time.Compare(t.(ReftimePosition).Time) }
func (r ReftimePosition) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ReftimeStylePosition)
	r.Time.Encode(e)
}
func (r ReftimePosition) String() string     { return "POSITION(" + r.Time.ToISO8601('T') + ")" }
func (r ReftimePosition) ExactQuery() string { return "reftime:=" + r.Time.ToISO8601('T') }
func (r ReftimePosition) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeReftime.String(), k.StyleField: "POSITION", k.field("time"): r.Time.ToSQL()}
}

// ReftimePeriod is a reference-time interval [Begin, End].
type ReftimePeriod struct{ Begin, End aktime.Time }

func (r ReftimePeriod) Code() Code   { return CodeReftime }
func (r ReftimePeriod) Style() uint8 { return ReftimeStylePeriod }
func (r ReftimePeriod) Clone() Type  { return r }
func (r ReftimePeriod) Equal(t Type) bool {
	o, ok := t.(ReftimePeriod)
	return ok && r.Begin == o.Begin && r.End == o.End
}
func (r ReftimePeriod) Compare(t Type) int {
	o := t.(ReftimePeriod)
	if c := r.Begin.Compare(o.Begin); c != 0 {
		return c
	}
	return r.End.Compare(o.End)
}
func (r ReftimePeriod) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ReftimeStylePeriod)
	r.Begin.Encode(e)
	r.End.Encode(e)
}
func (r ReftimePeriod) String() string {
	return fmt.Sprintf("PERIOD(%s, %s)", r.Begin.ToISO8601('T'), r.End.ToISO8601('T'))
}
func (r ReftimePeriod) ExactQuery() string {
	return fmt.Sprintf("reftime:>=%s,<=%s", r.Begin.ToISO8601('T'), r.End.ToISO8601('T'))
}
func (r ReftimePeriod) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeReftime.String(), k.StyleField: "PERIOD",
		k.field("begin"): r.Begin.ToSQL(), k.field("end"): r.End.ToSQL()}
}

func init() {
	RegisterDecoder(CodeReftime, func(style uint8, body *binary.Decoder) (Type, error) {
		switch style {
		case ReftimeStylePosition:
			t, err := aktime.Decode(body)
			if err != nil {
				return nil, err
			}
			return ReftimePosition{t}, nil
		case ReftimeStylePeriod:
			b, err := aktime.Decode(body)
			if err != nil {
				return nil, err
			}
			e, err := aktime.Decode(body)
			if err != nil {
				return nil, err
			}
			return ReftimePeriod{b, e}, nil
		default:
			return nil, &binary.ParseError{What: "reftime style", Reason: fmt.Sprintf("unknown style %d", style)}
		}
	})

	RegisterTextDecoder(CodeReftime, func(s string) (Type, error) {
		style, args, err := splitStyleArgs(s)
		if err != nil {
			return nil, err
		}
		switch style {
		case "POSITION":
			t, err := aktime.ParseISO8601(args)
			if err != nil {
				return nil, err
			}
			return ReftimePosition{t}, nil
		case "PERIOD":
			parts, err := splitArgs(args, 2)
			if err != nil {
				return nil, err
			}
			b, err := aktime.ParseISO8601(parts[0])
			if err != nil {
				return nil, err
			}
			e, err := aktime.ParseISO8601(parts[1])
			if err != nil {
				return nil, err
			}
			return ReftimePeriod{b, e}, nil
		default:
			return nil, fmt.Errorf("cannot parse reftime: unknown style %q", style)
		}
	})
}
