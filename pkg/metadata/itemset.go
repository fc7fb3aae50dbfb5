// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metadata implements the Metadata/ItemSet record (spec.md
// §4.4): a code-sorted, at-most-one-entry-per-code mapping of typed
// attributes, plus the owned Source, ordered Notes, and the data-access
// operations that resolve a Source into actual bytes.
package metadata

import (
	"sort"

	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/types"
)

// ItemSet is a TypeCode -> Type mapping with at most one entry per code,
// kept in code-sorted order so iteration and encoding are deterministic.
type ItemSet struct {
	items []types.Type
}

// NewItemSet returns an empty ItemSet.
func NewItemSet() *ItemSet { return &ItemSet{} }

func (s *ItemSet) search(code types.Code) int {
	return sort.Search(len(s.items), func(i int) bool { return s.items[i].Code() >= code })
}

// Get returns the item for code, or nil if absent.
func (s *ItemSet) Get(code types.Code) types.Type {
	i := s.search(code)
	if i < len(s.items) && s.items[i].Code() == code {
		return s.items[i]
	}
	return nil
}

// Set inserts or replaces the item for its Code.
func (s *ItemSet) Set(item types.Type) {
	i := s.search(item.Code())
	if i < len(s.items) && s.items[i].Code() == item.Code() {
		s.items[i] = item
		return
	}
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = item
}

// Unset removes the item for code, if present.
func (s *ItemSet) Unset(code types.Code) {
	i := s.search(code)
	if i < len(s.items) && s.items[i].Code() == code {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

// Items returns the code-sorted items.
func (s *ItemSet) Items() []types.Type { return s.items }

// Clone returns a shallow copy (Type values are immutable).
func (s *ItemSet) Clone() *ItemSet {
	out := &ItemSet{items: make([]types.Type, len(s.items))}
	copy(out.items, s.items)
	return out
}

// Equal reports whether two item sets hold the same code/value pairs.
func (s *ItemSet) Equal(o *ItemSet) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if !s.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// Encode writes every item as a type envelope, in code-sorted order.
func (s *ItemSet) Encode(e *binary.Encoder) {
	for _, it := range s.items {
		e.AddRaw(types.Encode(it))
	}
}

// DecodeItems decodes type envelopes from d until it runs dry, returning
// them in the order read (callers insert via Set to re-sort by code).
func DecodeItems(d *binary.Decoder) ([]types.Type, error) {
	var out []types.Type
	for d.HasData() {
		t, err := types.Decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
