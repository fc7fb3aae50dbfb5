// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package summary

import (
	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/types"
)

// Stats is one node's aggregate payload: how many records it covers,
// their total size, and the envelope of reference times seen (spec.md
// §4.7, grounded on original_source's arki/summary/stats.h).
type Stats struct {
	Count uint64
	Size  uint64
	Begin aktime.Time
	End   aktime.Time
}

// Merge folds o into s, widening the reftime envelope and summing count
// and size. An empty receiver (Count == 0) simply adopts o.
func (s *Stats) Merge(o Stats) {
	if s.Count == 0 {
		*s = o
		return
	}
	s.Count += o.Count
	s.Size += o.Size
	if o.Begin.Compare(s.Begin) < 0 {
		s.Begin = o.Begin
	}
	if o.End.Compare(s.End) > 0 {
		s.End = o.End
	}
}

// Reftime renders the envelope as the Type a matcher's reftime clause
// expects to compare against: a Position when begin == end, else a
// Period.
func (s Stats) Reftime() types.Type {
	if s.Begin == s.End {
		return types.ReftimePosition{Time: s.Begin}
	}
	return types.ReftimePeriod{Begin: s.Begin, End: s.End}
}

// Encode appends the stats envelope: count, size (both varint), then
// the 5-byte packed begin/end times (spec.md §4.7 "Binary format").
func (s Stats) Encode(e *binary.Encoder) {
	e.AddVarint(s.Count)
	e.AddVarint(s.Size)
	s.Begin.Encode(e)
	s.End.Encode(e)
}

func decodeStats(d *binary.Decoder) (Stats, error) {
	count, err := d.PopVarint("summary stats count")
	if err != nil {
		return Stats{}, err
	}
	size, err := d.PopVarint("summary stats size")
	if err != nil {
		return Stats{}, err
	}
	begin, err := aktime.Decode(d)
	if err != nil {
		return Stats{}, err
	}
	end, err := aktime.Decode(d)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Count: count, Size: size, Begin: begin, End: end}, nil
}
