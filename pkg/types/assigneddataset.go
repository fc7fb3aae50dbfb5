// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/binary"
)

const AssignedDatasetStylePlain uint8 = 1

// AssignedDataset records which dataset a piece of metadata was filed
// into, plus its position within that dataset, so a metadata record can
// be traced back after being merged into a cross-dataset result set
// (spec.md §3).
type AssignedDataset struct {
	Name string
	ID   int64
}

func (a AssignedDataset) Code() Code   { return CodeAssignedDataset }
func (a AssignedDataset) Style() uint8 { return AssignedDatasetStylePlain }
func (a AssignedDataset) Clone() Type  { return a }
func (a AssignedDataset) Equal(t Type) bool { o, ok := t.(AssignedDataset); return ok && a == o }
func (a AssignedDataset) Compare(t Type) int {
	o := t.(AssignedDataset)
	if c := cmpStr(a.Name, o.Name); c != 0 {
		return c
	}
	return int(a.ID - o.ID)
}
func (a AssignedDataset) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, AssignedDatasetStylePlain)
	e.AddVarint(uint64(len(a.Name)))
	e.AddString(a.Name)
	e.AddVarint(uint64(a.ID))
}
func (a AssignedDataset) String() string     { return fmt.Sprintf("%s:%d", a.Name, a.ID) }
func (a AssignedDataset) ExactQuery() string { return "" }
func (a AssignedDataset) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeAssignedDataset.String(), k.StyleField: "PLAIN",
		k.field("name"): a.Name, k.field("id"): a.ID}
}

func init() {
	RegisterDecoder(CodeAssignedDataset, func(style uint8, body *binary.Decoder) (Type, error) {
		if style != AssignedDatasetStylePlain {
			return nil, &binary.ParseError{What: "assigneddataset style", Reason: "unknown style"}
		}
		n, err := body.PopVarint("assigneddataset name length")
		if err != nil {
			return nil, err
		}
		name, err := body.PopString(int(n), "assigneddataset name")
		if err != nil {
			return nil, err
		}
		id, err := body.PopVarint("assigneddataset id")
		if err != nil {
			return nil, err
		}
		return AssignedDataset{name, int64(id)}, nil
	})
}
