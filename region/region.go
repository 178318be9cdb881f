// seehuhn.de/go/colouring - a boundary-constrained colouring canvas
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package region decides whether points lie inside a closed outline.
//
// A [Boundary] is built once from a path and then queried many times, by
// the canvas for every pointer event and by the coverage estimator for
// every sample point.  Curves are flattened when the boundary is built,
// so that a query only has to walk a list of line segments.
package region

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/colouring/raster"
)

// FillRule determines which points are inside a self-intersecting or
// nested outline.
type FillRule int

const (
	// NonZero includes points around which the outline winds a
	// non-zero number of times.
	NonZero FillRule = iota

	// EvenOdd includes points from which a ray crosses the outline an
	// odd number of times.
	EvenOdd
)

func (r FillRule) String() string {
	switch r {
	case NonZero:
		return "nonzero"
	case EvenOdd:
		return "evenodd"
	default:
		return "unknown"
	}
}

// segment is one edge of the flattened outline.
type segment struct {
	a, b vec.Vec2
}

// Boundary is a closed region of the plane.
//
// The zero-area and empty outlines are valid boundaries which contain no
// points.  A nil *Boundary stands for the whole plane: Contains always
// returns true.
type Boundary struct {
	outline *path.Data
	rule    FillRule
	segs    []segment
	bbox    rect.Rect
	area    float64
}

// New flattens the outline p and returns the region it encloses under the
// given fill rule.  Every subpath of p is treated as closed.  The path is
// retained but not modified.
func New(p *path.Data, rule FillRule) *Boundary {
	return NewWithFlatness(p, rule, raster.DefaultFlatness)
}

// NewWithFlatness is like New, but approximates curves to within the
// given tolerance instead of raster.DefaultFlatness.
func NewWithFlatness(p *path.Data, rule FillRule, flatness float64) *Boundary {
	b := &Boundary{
		outline: p,
		rule:    rule,
	}

	first := true
	var twiceArea float64
	raster.Flatten(p, flatness, func(s, e vec.Vec2) {
		if s == e {
			return
		}
		b.segs = append(b.segs, segment{a: s, b: e})
		twiceArea += s.X*e.Y - e.X*s.Y

		if first {
			b.bbox = rect.Rect{LLx: s.X, LLy: s.Y, URx: s.X, URy: s.Y}
			first = false
		}
		b.bbox.LLx = min(b.bbox.LLx, s.X, e.X)
		b.bbox.LLy = min(b.bbox.LLy, s.Y, e.Y)
		b.bbox.URx = max(b.bbox.URx, s.X, e.X)
		b.bbox.URy = max(b.bbox.URy, s.Y, e.Y)
	})
	b.area = math.Abs(twiceArea) / 2

	return b
}

// Contains reports whether pt lies inside the boundary.
//
// Edges are treated as half-open in y, and a point is counted as inside
// when the crossing lies strictly to its right.  For points exactly on
// the outline the result therefore depends only on the geometry, never on
// the order of queries.
func (b *Boundary) Contains(pt vec.Vec2) bool {
	if b == nil {
		return true
	}
	if len(b.segs) == 0 ||
		pt.X < b.bbox.LLx || pt.X > b.bbox.URx ||
		pt.Y < b.bbox.LLy || pt.Y > b.bbox.URy {
		return false
	}

	winding := 0
	for i := range b.segs {
		s := &b.segs[i]
		if (s.a.Y > pt.Y) == (s.b.Y > pt.Y) {
			continue
		}
		x := s.a.X + (pt.Y-s.a.Y)*(s.b.X-s.a.X)/(s.b.Y-s.a.Y)
		if pt.X >= x {
			continue
		}
		if s.b.Y > s.a.Y {
			winding++
		} else {
			winding--
		}
	}

	if b.rule == EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// BBox returns the axis-aligned bounding box of the flattened outline.
// The result is the zero rectangle if the outline is empty.
// For a nil boundary, the zero rectangle is returned.
func (b *Boundary) BBox() rect.Rect {
	if b == nil {
		return rect.Rect{}
	}
	return b.bbox
}

// Area returns the absolute value of the signed area enclosed by the
// flattened outline.  For outlines with holes or self-intersections this
// is not the area of the region, but it is zero exactly for degenerate
// outlines.
func (b *Boundary) Area() float64 {
	if b == nil {
		return math.Inf(1)
	}
	return b.area
}

// IsEmpty reports whether the boundary has no edges or encloses no area.
func (b *Boundary) IsEmpty() bool {
	return b != nil && (len(b.segs) == 0 || b.area < minArea)
}

// Path returns the outline the boundary was built from.
func (b *Boundary) Path() *path.Data {
	if b == nil {
		return nil
	}
	return b.outline
}

// Rule returns the fill rule of the boundary.
func (b *Boundary) Rule() FillRule {
	if b == nil {
		return NonZero
	}
	return b.rule
}

// NumSegments returns the number of line segments after flattening.
func (b *Boundary) NumSegments() int {
	if b == nil {
		return 0
	}
	return len(b.segs)
}

// minArea is the area below which an outline is considered degenerate.
const minArea = 1e-9
