// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"
	"strings"

	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/types/geo"
)

const (
	BBoxStylePoint uint8 = 1
	BBoxStyleBox   uint8 = 2
	BBoxStyleHull  uint8 = 3
)

// BBoxPoint is a single coordinate.
type BBoxPoint struct{ Lon, Lat float64 }

func (b BBoxPoint) Code() Code   { return CodeBBox }
func (b BBoxPoint) Style() uint8 { return BBoxStylePoint }
func (b BBoxPoint) Clone() Type  { return b }
func (b BBoxPoint) Equal(t Type) bool { o, ok := t.(BBoxPoint); return ok && b == o }
func (b BBoxPoint) Compare(t Type) int {
	o := t.(BBoxPoint)
	if b.Lon != o.Lon {
		if b.Lon < o.Lon {
			return -1
		}
		return 1
	}
	if b.Lat != o.Lat {
		if b.Lat < o.Lat {
			return -1
		}
		return 1
	}
	return 0
}
func (b BBoxPoint) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, BBoxStylePoint)
	e.AddFloat64(b.Lon)
	e.AddFloat64(b.Lat)
}
func (b BBoxPoint) String() string     { return fmt.Sprintf("POINT(%g %g)", b.Lon, b.Lat) }
func (b BBoxPoint) ExactQuery() string { return "" }
func (b BBoxPoint) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeBBox.String(), k.StyleField: "POINT", "lon": b.Lon, "lat": b.Lat}
}
func (b BBoxPoint) Polygon() geo.Polygon { return geo.Polygon{{Lon: b.Lon, Lat: b.Lat}} }

// BBoxBox is an axis-aligned bounding box (min/max lon/lat).
type BBoxBox struct{ MinLon, MinLat, MaxLon, MaxLat float64 }

func (b BBoxBox) Code() Code   { return CodeBBox }
func (b BBoxBox) Style() uint8 { return BBoxStyleBox }
func (b BBoxBox) Clone() Type  { return b }
func (b BBoxBox) Equal(t Type) bool { o, ok := t.(BBoxBox); return ok && b == o }
func (b BBoxBox) Compare(t Type) int {
	o := t.(BBoxBox)
	for _, d := range []float64{b.MinLon - o.MinLon, b.MinLat - o.MinLat, b.MaxLon - o.MaxLon, b.MaxLat - o.MaxLat} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}
func (b BBoxBox) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, BBoxStyleBox)
	e.AddFloat64(b.MinLon)
	e.AddFloat64(b.MinLat)
	e.AddFloat64(b.MaxLon)
	e.AddFloat64(b.MaxLat)
}
func (b BBoxBox) String() string {
	return fmt.Sprintf("BOX(%g %g, %g %g)", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}
func (b BBoxBox) ExactQuery() string { return "" }
func (b BBoxBox) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeBBox.String(), k.StyleField: "BOX",
		k.field("min"): [2]float64{b.MinLon, b.MinLat}, k.field("max"): [2]float64{b.MaxLon, b.MaxLat}}
}
func (b BBoxBox) Polygon() geo.Polygon {
	return geo.Polygon{{Lon: b.MinLon, Lat: b.MinLat}, {Lon: b.MaxLon, Lat: b.MinLat},
		{Lon: b.MaxLon, Lat: b.MaxLat}, {Lon: b.MinLon, Lat: b.MaxLat}}
}

// BBoxHull is an arbitrary closed polygon bounding hull.
type BBoxHull struct{ Points []BBoxPoint }

func (b BBoxHull) Code() Code   { return CodeBBox }
func (b BBoxHull) Style() uint8 { return BBoxStyleHull }
func (b BBoxHull) Clone() Type  { return BBoxHull{append([]BBoxPoint(nil), b.Points...)} }
func (b BBoxHull) Equal(t Type) bool {
	o, ok := t.(BBoxHull)
	if !ok || len(o.Points) != len(b.Points) {
		return false
	}
	for i := range b.Points {
		if b.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}
func (b BBoxHull) Compare(t Type) int {
	o := t.(BBoxHull)
	n := len(b.Points)
	if len(o.Points) < n {
		n = len(o.Points)
	}
	for i := 0; i < n; i++ {
		if c := b.Points[i].Compare(o.Points[i]); c != 0 {
			return c
		}
	}
	return len(b.Points) - len(o.Points)
}
func (b BBoxHull) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, BBoxStyleHull)
	e.AddVarint(uint64(len(b.Points)))
	for _, p := range b.Points {
		e.AddFloat64(p.Lon)
		e.AddFloat64(p.Lat)
	}
}
func (b BBoxHull) String() string {
	parts := make([]string, len(b.Points))
	for i, p := range b.Points {
		parts[i] = fmt.Sprintf("%g %g", p.Lon, p.Lat)
	}
	return "HULL(" + strings.Join(parts, ", ") + ")"
}
func (b BBoxHull) ExactQuery() string { return "" }
func (b BBoxHull) Serialize(k Keys) map[string]any {
	coords := make([][2]float64, len(b.Points))
	for i, p := range b.Points {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	return map[string]any{k.TypeField: CodeBBox.String(), k.StyleField: "HULL", "points": coords}
}
func (b BBoxHull) Polygon() geo.Polygon {
	out := make(geo.Polygon, len(b.Points))
	for i, p := range b.Points {
		out[i] = geo.Point{Lon: p.Lon, Lat: p.Lat}
	}
	return out
}

func init() {
	RegisterDecoder(CodeBBox, func(style uint8, body *binary.Decoder) (Type, error) {
		switch style {
		case BBoxStylePoint:
			lon, err := body.PopFloat64("bbox point lon")
			if err != nil {
				return nil, err
			}
			lat, err := body.PopFloat64("bbox point lat")
			if err != nil {
				return nil, err
			}
			return BBoxPoint{lon, lat}, nil
		case BBoxStyleBox:
			vals, err := popFloats(body, 4, "bbox box")
			if err != nil {
				return nil, err
			}
			return BBoxBox{vals[0], vals[1], vals[2], vals[3]}, nil
		case BBoxStyleHull:
			n, err := body.PopVarint("bbox hull point count")
			if err != nil {
				return nil, err
			}
			pts := make([]BBoxPoint, n)
			for i := range pts {
				lon, err := body.PopFloat64("bbox hull lon")
				if err != nil {
					return nil, err
				}
				lat, err := body.PopFloat64("bbox hull lat")
				if err != nil {
					return nil, err
				}
				pts[i] = BBoxPoint{lon, lat}
			}
			return BBoxHull{pts}, nil
		default:
			return nil, &binary.ParseError{What: "bbox style", Reason: fmt.Sprintf("unknown style %d", style)}
		}
	})
}

func popFloats(body *binary.Decoder, n int, what string) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := body.PopFloat64(fmt.Sprintf("%s field %d", what, i+1))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Polygoner is implemented by every BBox variant that can hand geo its
// bounding points for spatial indexing.
type Polygoner interface {
	Polygon() geo.Polygon
}
