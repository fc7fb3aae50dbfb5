// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/binary"
)

const RunStyleMinute uint8 = 1

// Run is the model/observation run time of day, in minutes since midnight
// (spec.md §3); used to group forecasts sharing an initialisation run.
type Run struct{ Minute int }

func (r Run) Code() Code   { return CodeRun }
func (r Run) Style() uint8 { return RunStyleMinute }
func (r Run) Clone() Type  { return r }
func (r Run) Equal(t Type) bool { o, ok := t.(Run); return ok && r == o }
func (r Run) Compare(t Type) int { return r.Minute - t.(Run).Minute }
func (r Run) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, RunStyleMinute)
	e.AddUint(uint64(r.Minute), 2)
}
func (r Run) String() string     { return fmt.Sprintf("MINUTE(%02d:%02d)", r.Minute/60, r.Minute%60) }
func (r Run) ExactQuery() string { return fmt.Sprintf("run:MINUTE,%02d:%02d", r.Minute/60, r.Minute%60) }
func (r Run) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeRun.String(), k.StyleField: "MINUTE", k.field("hour"): r.Minute}
}

func init() {
	RegisterDecoder(CodeRun, func(style uint8, body *binary.Decoder) (Type, error) {
		if style != RunStyleMinute {
			return nil, &binary.ParseError{What: "run style", Reason: "unknown run style"}
		}
		v, err := body.PopUint(2, "run minute")
		if err != nil {
			return nil, err
		}
		return Run{int(v)}, nil
	})

	RegisterTextDecoder(CodeRun, func(s string) (Type, error) {
		style, args, err := splitStyleArgs(s)
		if err != nil {
			return nil, err
		}
		if style != "MINUTE" {
			return nil, fmt.Errorf("cannot parse run: unknown style %q", style)
		}
		var h, m int
		if _, err := fmt.Sscanf(args, "%d:%d", &h, &m); err != nil {
			return nil, fmt.Errorf("cannot parse run time %q: %w", args, err)
		}
		return Run{h*60 + m}, nil
	})
}
