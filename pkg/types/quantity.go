// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"sort"
	"strings"

	"github.com/arkimet/arkimet/pkg/binary"
)

const QuantityStyleList uint8 = 1

// Quantity names the physical quantities carried by a product (e.g. ODIM-H5
// "TH,VRAD"), as a sorted set of short names; spec.md §3.
type Quantity struct{ names []string }

// NewQuantity builds a Quantity from names, sorting and de-duplicating them.
func NewQuantity(names []string) Quantity {
	cp := append([]string(nil), names...)
	sort.Strings(cp)
	out := cp[:0]
	for i, n := range cp {
		if i == 0 || n != cp[i-1] {
			out = append(out, n)
		}
	}
	return Quantity{out}
}

func (q Quantity) Code() Code   { return CodeQuantity }
func (q Quantity) Style() uint8 { return QuantityStyleList }
func (q Quantity) Clone() Type  { return NewQuantity(q.names) }
func (q Quantity) Equal(t Type) bool {
	o, ok := t.(Quantity)
	if !ok || len(o.names) != len(q.names) {
		return false
	}
	for i := range q.names {
		if q.names[i] != o.names[i] {
			return false
		}
	}
	return true
}
func (q Quantity) Compare(t Type) int {
	o := t.(Quantity)
	return strings.Compare(strings.Join(q.names, ","), strings.Join(o.names, ","))
}
func (q Quantity) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, QuantityStyleList)
	e.AddString(strings.Join(q.names, ","))
}
func (q Quantity) String() string     { return "VALUES(" + strings.Join(q.names, ", ") + ")" }
func (q Quantity) ExactQuery() string { return "quantity:" + strings.Join(q.names, ",") }
func (q Quantity) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeQuantity.String(), k.StyleField: "VALUES", k.field("values"): q.names}
}
func (q Quantity) Names() []string { return q.names }

func init() {
	RegisterDecoder(CodeQuantity, func(style uint8, body *binary.Decoder) (Type, error) {
		if style != QuantityStyleList {
			return nil, &binary.ParseError{What: "quantity style", Reason: "unknown quantity style"}
		}
		raw := make([]byte, 0, 32)
		for body.HasData() {
			b, err := body.PopByte("quantity byte")
			if err != nil {
				return nil, err
			}
			raw = append(raw, b)
		}
		s := string(raw)
		if s == "" {
			return NewQuantity(nil), nil
		}
		return NewQuantity(strings.Split(s, ",")), nil
	})

	RegisterTextDecoder(CodeQuantity, func(s string) (Type, error) {
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "VALUES(") && strings.HasSuffix(s, ")") {
			s = s[len("VALUES(") : len(s)-1]
		}
		var names []string
		for _, n := range strings.Split(s, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		return NewQuantity(names), nil
	})
}
