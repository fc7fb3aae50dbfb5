// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"github.com/arkimet/arkimet/pkg/binary"
)

const TaskStylePlain uint8 = 1

// Task is a free-form label naming the processing task that produced a
// product, e.g. an ODIM-H5 "pvol"/"vp" scan task (spec.md §3).
type Task struct{ Name string }

func (t Task) Code() Code   { return CodeTask }
func (t Task) Style() uint8 { return TaskStylePlain }
func (t Task) Clone() Type  { return t }
func (t Task) Equal(o Type) bool { x, ok := o.(Task); return ok && t == x }
func (t Task) Compare(o Type) int { return cmpStr(t.Name, o.(Task).Name) }
func (t Task) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, TaskStylePlain)
	e.AddVarint(uint64(len(t.Name)))
	e.AddString(t.Name)
}
func (t Task) String() string     { return t.Name }
func (t Task) ExactQuery() string { return "task:" + t.Name }
func (t Task) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeTask.String(), k.StyleField: "PLAIN", k.field("task"): t.Name}
}

func init() {
	RegisterDecoder(CodeTask, func(style uint8, body *binary.Decoder) (Type, error) {
		if style != TaskStylePlain {
			return nil, &binary.ParseError{What: "task style", Reason: "unknown task style"}
		}
		n, err := body.PopVarint("task name length")
		if err != nil {
			return nil, err
		}
		s, err := body.PopString(int(n), "task name")
		if err != nil {
			return nil, err
		}
		return Task{s}, nil
	})

	RegisterTextDecoder(CodeTask, func(s string) (Type, error) { return Task{s}, nil })
}
