// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package summary implements the MSO-ordered prefix trie that
// summarizes a dataset's metadata without keeping every record (spec.md
// §4.7), grounded on original_source's arki/summary/{node,stats,intern}.h
// and summary-test.cc/summary-tut.cc for the additivity and traversal
// semantics they exercise.
package summary

import (
	"fmt"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/types"
)

const bundleSignature = "SU"
const bundleVersion uint16 = 3

// Summary is a single prefix trie over the MSO-ordered attribute tuples
// seen in a dataset, each leaf carrying the merged Stats for every
// record sharing that tuple.
type Summary struct {
	root   *Node
	intern *typeIntern
}

// New returns an empty Summary.
func New() *Summary {
	return &Summary{root: &Node{}, intern: newTypeIntern()}
}

func reftimeEnvelope(item types.Type) (begin, end aktime.Time) {
	switch rt := item.(type) {
	case types.ReftimePosition:
		return rt.Time, rt.Time
	case types.ReftimePeriod:
		return rt.Begin, rt.End
	default:
		return aktime.Time{}, aktime.Time{}
	}
}

func dataSize(source types.Type) uint64 {
	switch s := source.(type) {
	case types.SourceBlob:
		return s.Size
	case types.SourceInline:
		return s.Size
	default:
		return 0
	}
}

// mdVector computes md's MSO-ordered, interned, trailing-null-trimmed
// item vector (spec.md §4.7 "add(metadata)").
func (s *Summary) mdVector(md *metadata.Metadata) []types.Type {
	items := make([]types.Type, len(types.MSOOrder))
	last := -1
	for i, code := range types.MSOOrder {
		item := s.intern.intern(md.Get(code))
		items[i] = item
		if item != nil {
			last = i
		}
	}
	return items[:last+1]
}

// Add folds one metadata record into the trie.
func (s *Summary) Add(md *metadata.Metadata) {
	begin, end := reftimeEnvelope(md.Get(types.CodeReftime))
	stats := Stats{Count: 1, Size: dataSize(md.Source), Begin: begin, End: end}
	s.root.merge(s.mdVector(md), stats)
}

// AddSummary folds every leaf of other into s (spec.md §4.7
// "add(summary)").
func (s *Summary) AddSummary(other *Summary) {
	visitmd := make([]types.Type, 0, len(types.MSOOrder))
	other.root.visit(func(items []types.Type, stats Stats) bool {
		interned := make([]types.Type, len(items))
		for i, item := range items {
			interned[i] = s.intern.intern(item)
		}
		s.root.merge(interned, stats)
		return true
	}, visitmd, 0)
}

// Stats returns the overall count/size/reftime envelope for everything
// in the summary.
func (s *Summary) Stats() Stats { return s.root.Stats }

// Visit performs a depth-first traversal of every leaf, stopping early
// if fn returns false. filter may be nil for an unconditional visit, or
// a matcher to prune branches that cannot contribute a match (spec.md
// §4.7 "visit").
func (s *Summary) Visit(filter *matcher.Matcher, fn Visitor) {
	visitmd := make([]types.Type, 0, len(types.MSOOrder))
	if filter == nil {
		s.root.visit(fn, visitmd, 0)
		return
	}
	s.root.visitFiltered(filter, fn, visitmd, 0)
}

// ResolveMatcher enumerates every distinct attribute combination in the
// trie that m fully matches, each as a fresh ItemSet (spec.md §4.7
// "resolveMatcher").
func (s *Summary) ResolveMatcher(m *matcher.Matcher) []*metadata.ItemSet {
	var out []*metadata.ItemSet
	s.Visit(m, func(items []types.Type, _ Stats) bool {
		set := metadata.NewItemSet()
		for _, item := range items {
			if item != nil {
				set.Set(item)
			}
		}
		out = append(out, set)
		return true
	})
	return out
}

// Encode serializes the trie to the version-3 bundle format (spec.md
// §4.7 "Binary format"): signature "SU", the MSO size-hint table
// (always zero in this implementation; it is a pure preallocation hint
// in the original C++ with no effect on decoding, so a Go decoder never
// needs real values there), then the root node.
func (s *Summary) Encode() []byte {
	e := binary.NewEncoder()
	payload := binary.NewEncoder()
	payload.AddVarint(uint64(len(types.MSOOrder)))
	for range types.MSOOrder {
		payload.AddVarint(0)
	}
	encodeNode(payload, s.root, 0)
	e.AddBundle(bundleSignature, bundleVersion, payload.Dest)
	return e.Dest
}

// Decode parses a Summary previously written by Encode.
func Decode(buf []byte) (*Summary, error) {
	d := binary.NewDecoder(buf)
	sig, version, payload, err := d.PopBundle()
	if err != nil {
		return nil, err
	}
	if sig != bundleSignature {
		return nil, &binary.ParseError{What: "summary", Reason: fmt.Sprintf("unexpected bundle signature %q", sig)}
	}
	if version != bundleVersion {
		return nil, &binary.ParseError{What: "summary", Reason: fmt.Sprintf("unsupported summary version %d", version)}
	}

	hints, err := payload.PopVarint("summary mso hint table length")
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < hints; i++ {
		if _, err := payload.PopVarint("summary mso hint"); err != nil {
			return nil, err
		}
	}

	root, err := decodeNode(payload, 0)
	if err != nil {
		return nil, err
	}
	return &Summary{root: root, intern: newTypeIntern()}, nil
}
