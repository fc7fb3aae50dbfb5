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

const NoteStylePlain uint8 = 1

// Note is a timestamped free-text annotation attached to a Metadata
// record, e.g. recording which import step produced it (spec.md §3).
type Note struct {
	Time aktime.Time
	Text string
}

func (n Note) Code() Code   { return CodeNote }
func (n Note) Style() uint8 { return NoteStylePlain }
func (n Note) Clone() Type  { return n }
func (n Note) Equal(t Type) bool { o, ok := t.(Note); return ok && n == o }
func (n Note) Compare(t Type) int {
	o := t.(Note)
	if c := n.Time.Compare(o.Time); c != 0 {
		return c
	}
	return cmpStr(n.Text, o.Text)
}
func (n Note) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, NoteStylePlain)
	n.Time.Encode(e)
	e.AddVarint(uint64(len(n.Text)))
	e.AddString(n.Text)
}
func (n Note) String() string     { return fmt.Sprintf("%s %s", n.Time.ToISO8601('T'), n.Text) }
func (n Note) ExactQuery() string { return "" }
func (n Note) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeNote.String(), k.StyleField: "PLAIN",
		k.field("time"): n.Time.ToSQL(), k.field("note"): n.Text}
}

func init() {
	RegisterDecoder(CodeNote, func(style uint8, body *binary.Decoder) (Type, error) {
		if style != NoteStylePlain {
			return nil, &binary.ParseError{What: "note style", Reason: "unknown note style"}
		}
		t, err := aktime.Decode(body)
		if err != nil {
			return nil, err
		}
		n, err := body.PopVarint("note text length")
		if err != nil {
			return nil, err
		}
		text, err := body.PopString(int(n), "note text")
		if err != nil {
			return nil, err
		}
		return Note{t, text}, nil
	})
}
