// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package summary

import (
	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/types"
)

// Node is one trie node of a Summary (spec.md §4.7). MD holds a
// contiguous, trailing-null-trimmed run of MSOOrder items starting at
// this node's depth (the depth itself is not stored: callers track it
// as they descend, the same "scanpos" the original threads through
// every Node method).
type Node struct {
	MD       []types.Type
	Stats    Stats
	Children []*Node
}

// Visitor receives one leaf's full MSO item vector (nil at any absent
// position) together with the merged stats for that combination.
type Visitor func(items []types.Type, stats Stats) bool

func itemEqual(a, b types.Type) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equal(b)
}

// candidateForMerge reports whether n is a plausible child to descend
// into for the given remaining items, matching on the first element
// only (original_source's Node::candidate_for_merge).
func (n *Node) candidateForMerge(items []types.Type) bool {
	if len(items) == 0 {
		return len(n.MD) == 0
	}
	if len(n.MD) == 0 {
		return false
	}
	return itemEqual(n.MD[0], items[0])
}

// split truncates n.MD to pos, handing the tail and all of n's existing
// children to a single new child node (spec.md §4.7 "add(metadata)").
func (n *Node) split(pos int) {
	child := &Node{
		MD:       append([]types.Type(nil), n.MD[pos:]...),
		Stats:    n.Stats,
		Children: n.Children,
	}
	n.MD = n.MD[:pos]
	n.Children = []*Node{child}
}

// merge folds items/stats into the subtree rooted at n (spec.md §4.7
// "add(metadata)"): compute the common prefix with n.MD, split n if the
// match is partial, then either merge into an existing child whose
// first item agrees, or create a new leaf.
func (n *Node) merge(items []types.Type, stats Stats) {
	common := 0
	for common < len(items) && common < len(n.MD) && itemEqual(items[common], n.MD[common]) {
		common++
	}

	if common < len(n.MD) {
		n.split(common)
	}
	items = items[common:]

	if len(items) == 0 && len(n.Children) == 0 {
		n.Stats.Merge(stats)
		return
	}

	for _, child := range n.Children {
		if child.candidateForMerge(items) {
			child.merge(items, stats)
			n.Stats.Merge(stats)
			return
		}
	}

	leaf := &Node{MD: append([]types.Type(nil), items...)}
	leaf.Stats.Merge(stats)
	n.Children = append(n.Children, leaf)
	n.Stats.Merge(stats)
}

func setAt(s []types.Type, pos int, val types.Type) []types.Type {
	for len(s) <= pos {
		s = append(s, nil)
	}
	s[pos] = val
	return s
}

// visit performs an unconditional depth-first traversal, emitting one
// call to fn per leaf (spec.md §4.7 "visit").
func (n *Node) visit(fn Visitor, visitmd []types.Type, scanpos int) bool {
	for i, item := range n.MD {
		visitmd = setAt(visitmd, scanpos+i, item)
	}
	if len(n.Children) == 0 {
		return fn(visitmd[:scanpos+len(n.MD)], n.Stats)
	}
	for _, child := range n.Children {
		if !child.visit(fn, visitmd, scanpos+len(n.MD)) {
			return false
		}
	}
	return true
}

// visitFiltered is visit with early pruning: a node whose md clashes
// with the matcher's constraint for the corresponding MSO position, or
// whose merged reftime envelope the matcher's reftime clause rejects,
// is skipped without visiting its subtree (spec.md §4.7 "visit" with a
// filter).
func (n *Node) visitFiltered(m *matcher.Matcher, fn Visitor, visitmd []types.Type, scanpos int) bool {
	for i, item := range n.MD {
		code := types.MSOOrder[scanpos+i]
		if or := m.Get(code); or != nil {
			if item == nil || !or.MatchItem(item) {
				return true
			}
		}
	}
	if or := m.Get(types.CodeReftime); or != nil {
		if !or.MatchItem(n.Stats.Reftime()) {
			return true
		}
	}

	for i, item := range n.MD {
		visitmd = setAt(visitmd, scanpos+i, item)
	}
	if len(n.Children) == 0 {
		return fn(visitmd[:scanpos+len(n.MD)], n.Stats)
	}
	for _, child := range n.Children {
		if !child.visitFiltered(m, fn, visitmd, scanpos+len(n.MD)) {
			return false
		}
	}
	return true
}

func encodeNode(e *binary.Encoder, n *Node, depth int) {
	e.AddVarint(uint64(len(n.MD)))
	for i, item := range n.MD {
		if item == nil {
			e.AddTypeEnvelope(uint8(types.MSOOrder[depth+i]), nil)
		} else {
			e.AddRaw(types.Encode(item))
		}
	}
	n.Stats.Encode(e)
	e.AddVarint(uint64(len(n.Children)))
	for _, c := range n.Children {
		encodeNode(e, c, depth+len(n.MD))
	}
}

func decodeNode(d *binary.Decoder, depth int) (*Node, error) {
	count64, err := d.PopVarint("summary node md length")
	if err != nil {
		return nil, err
	}
	count := int(count64)
	md := make([]types.Type, count)
	for i := 0; i < count; i++ {
		code, body, err := d.PopTypeEnvelope()
		if err != nil {
			return nil, err
		}
		if !body.HasData() {
			continue
		}
		item, err := types.DecodeBody(types.Code(code), body)
		if err != nil {
			return nil, err
		}
		md[i] = item
	}

	stats, err := decodeStats(d)
	if err != nil {
		return nil, err
	}

	nchildren, err := d.PopVarint("summary node children count")
	if err != nil {
		return nil, err
	}
	children := make([]*Node, nchildren)
	for i := range children {
		child, err := decodeNode(d, depth+count)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	return &Node{MD: md, Stats: stats, Children: children}, nil
}
