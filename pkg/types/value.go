// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"github.com/arkimet/arkimet/pkg/binary"
)

const ValueStylePlain uint8 = 1

// Value carries an arbitrary opaque textual payload alongside a Metadata
// record (spec.md §3), e.g. a sub-format-specific auxiliary string that
// does not deserve a dedicated typed attribute.
type Value struct{ Data string }

func (v Value) Code() Code   { return CodeValue }
func (v Value) Style() uint8 { return ValueStylePlain }
func (v Value) Clone() Type  { return v }
func (v Value) Equal(t Type) bool { o, ok := t.(Value); return ok && v == o }
func (v Value) Compare(t Type) int { return cmpStr(v.Data, t.(Value).Data) }
func (v Value) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, ValueStylePlain)
	e.AddVarint(uint64(len(v.Data)))
	e.AddString(v.Data)
}
func (v Value) String() string     { return v.Data }
func (v Value) ExactQuery() string { return "value:" + v.Data }
func (v Value) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeValue.String(), k.StyleField: "PLAIN", k.field("value"): v.Data}
}

func init() {
	RegisterDecoder(CodeValue, func(style uint8, body *binary.Decoder) (Type, error) {
		if style != ValueStylePlain {
			return nil, &binary.ParseError{What: "value style", Reason: "unknown style"}
		}
		n, err := body.PopVarint("value data length")
		if err != nil {
			return nil, err
		}
		s, err := body.PopString(int(n), "value data")
		if err != nil {
			return nil, err
		}
		return Value{s}, nil
	})

	RegisterTextDecoder(CodeValue, func(s string) (Type, error) { return Value{s}, nil })
}
