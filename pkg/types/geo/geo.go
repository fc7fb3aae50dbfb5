// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package geo gives arkimet's BBox metadata attribute a real spatial
// index: every bounding geometry is convertible to an rtreego.Rect so a
// dataset's coverage can be queried with an R-tree instead of a linear
// scan (spec.md §3, §4.8).
package geo

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
)

// Point is a (longitude, latitude) pair in degrees.
type Point struct{ Lon, Lat float64 }

// Polygon is a closed ring of points describing a bounding hull.
type Polygon []Point

// Bounds computes the axis-aligned rtreego.Rect enclosing pts. It returns
// an error if pts is empty; a zero width or height is widened to a tiny
// epsilon, since rtreego requires a non-degenerate rectangle.
func Bounds(pts []Point) (*rtreego.Rect, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("cannot compute bounds of an empty point set")
	}
	minLon, maxLon := pts[0].Lon, pts[0].Lon
	minLat, maxLat := pts[0].Lat, pts[0].Lat
	for _, p := range pts[1:] {
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
	}
	const epsilon = 1e-9
	w, h := maxLon-minLon, maxLat-minLat
	if w == 0 {
		w = epsilon
	}
	if h == 0 {
		h = epsilon
	}
	return rtreego.NewRect(rtreego.Point{minLon, minLat}, []float64{w, h})
}

// Indexed wraps a dataset-identifying value together with its bounding
// rectangle so it can be inserted into an rtreego.Rtree.
type Indexed struct {
	Key    string
	Rect   rtreego.Rect
	Extent Polygon
}

func (i *Indexed) Bounds() rtreego.Rect { return i.Rect }

// Index is an in-memory spatial index over dataset/segment extents,
// answering bounding-rectangle intersection queries. No other package of
// this module uses it; the matcher's bbox predicate does not consult it.
type Index struct {
	tree *rtreego.Rtree
}

// NewIndex returns an empty 2-dimensional spatial index.
func NewIndex() *Index {
	return &Index{tree: rtreego.NewTree(2, 25, 50)}
}

// Insert adds key with its extent's bounding rectangle to the index.
func (idx *Index) Insert(key string, extent Polygon) error {
	rect, err := Bounds(extent)
	if err != nil {
		return fmt.Errorf("cannot index extent for %s: %w", key, err)
	}
	idx.tree.Insert(&Indexed{Key: key, Rect: *rect, Extent: extent})
	return nil
}

// Intersecting returns the keys of every indexed extent whose bounding
// rectangle intersects the query rectangle.
func (idx *Index) Intersecting(query *rtreego.Rect) []string {
	var keys []string
	for _, r := range idx.tree.SearchIntersect(*query) {
		keys = append(keys, r.(*Indexed).Key)
	}
	return keys
}

// Size reports the number of indexed extents.
func (idx *Index) Size() int { return idx.tree.Size() }
