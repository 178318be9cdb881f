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

// Package raster converts outlines and brush strokes into per-pixel
// coverage values.
//
// Coordinates are device pixels with the origin in the top-left corner
// and y growing downwards. Pixel (x, y) covers the unit square
// [x, x+1) × [y, y+1).
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// EmitFunc receives the coverage of one scanline.  coverage[i] is the
// fraction of pixel (xMin+i, y) covered by the shape, in the range [0, 1].
// The slice is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) top() float64    { return min(e.y0, e.y1) }
func (e *edge) bottom() float64 { return max(e.y0, e.y1) }

func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.dxdy*(y-e.y0)
}

// Rasteriser computes anti-aliased coverage for filled outlines and for
// round-capped brush strokes. Internal buffers are reused between calls,
// so a single instance should be kept for the lifetime of a canvas.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// Clip limits the output to this rectangle.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Flatness is the curve flattening tolerance in pixels.
	// Must be positive.
	Flatness float64

	// Width is the brush diameter used by StrokePolyline.
	Width float64

	cover   []float32 // signed vertical extent per pixel column
	area    []float32 // cover weighted by the horizontal position
	edges   []edge
	active  []int      // indices into edges, crossing the current scanline
	outline []vec.Vec2 // scratch polygon for stroke geometry

	haveEdges      bool
	bbXMin, bbXMax float64
	bbYMin, bbYMax float64
}

// NewRasteriser returns a Rasteriser which clips to the given rectangle.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	return &Rasteriser{
		Clip:     clip,
		Flatness: DefaultFlatness,
		Width:    1,
	}
}

// FillNonZero computes the coverage of p using the nonzero winding rule.
func (r *Rasteriser) FillNonZero(p *path.Data, emit EmitFunc) {
	r.resetEdges()
	Flatten(p, r.Flatness, r.addEdge)
	r.scan(fillNonZero, emit)
}

// FillEvenOdd computes the coverage of p using the even-odd rule.
func (r *Rasteriser) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.resetEdges()
	Flatten(p, r.Flatness, r.addEdge)
	r.scan(fillEvenOdd, emit)
}

type fillRule int

const (
	fillNonZero fillRule = iota
	fillEvenOdd
)

func (r *Rasteriser) resetEdges() {
	r.edges = r.edges[:0]
	r.haveEdges = false
}

// addEdge records the segment a→b.  Horizontal segments do not
// contribute to coverage and are skipped.
func (r *Rasteriser) addEdge(a, b vec.Vec2) {
	dy := b.Y - a.Y
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
	})

	if !r.haveEdges {
		r.bbXMin, r.bbXMax = min(a.X, b.X), max(a.X, b.X)
		r.bbYMin, r.bbYMax = min(a.Y, b.Y), max(a.Y, b.Y)
		r.haveEdges = true
		return
	}
	r.bbXMin = min(r.bbXMin, a.X, b.X)
	r.bbXMax = max(r.bbXMax, a.X, b.X)
	r.bbYMin = min(r.bbYMin, a.Y, b.Y)
	r.bbYMax = max(r.bbYMax, a.Y, b.Y)
}

// addPolygon records the closed polygon through pts.
func (r *Rasteriser) addPolygon(pts []vec.Vec2) {
	n := len(pts)
	for i := range n {
		r.addEdge(pts[i], pts[(i+1)%n])
	}
}

// scan runs an active edge list over the recorded edges and emits
// the non-zero part of every scanline.
//
// For every pixel column two values are accumulated: cover, the signed
// vertical extent of edge pieces inside the pixel, and area, the same
// quantity weighted by the part of the pixel to the right of the edge.
// Walking a scanline from left to right, the coverage of pixel i is
// the running sum of cover[0:i] plus area[i].
func (r *Rasteriser) scan(rule fillRule, emit EmitFunc) {
	if !r.haveEdges {
		return
	}

	xMin := max(int(math.Floor(r.bbXMin)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.bbXMax))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.bbYMin)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.bbYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.top(), b.top())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yNext := float64(y + 1)
		for next < len(r.edges) && r.edges[next].top() < yNext {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)

		touched := false
		kept := r.active[:0]
		for _, idx := range r.active {
			e := &r.edges[idx]
			if e.bottom() <= float64(y) {
				continue
			}
			kept = append(kept, idx)
			if r.accumulate(e, y, xMin, xMax) {
				touched = true
			}
		}
		r.active = kept
		if !touched {
			continue
		}

		if rule == fillNonZero {
			integrateNonZero(r.cover, r.area)
		} else {
			integrateEvenOdd(r.cover, r.area)
		}
		if row, offset := trimZeros(r.cover); row != nil {
			emit(y, xMin+offset, row)
		}
	}
}

// accumulate adds the part of e inside scanline y to the cover and area
// buffers, splitting it at pixel column boundaries.  Contributions left of
// xMin are folded into column 0.  The return value reports whether any
// contribution was made.
func (r *Rasteriser) accumulate(e *edge, y, xMin, xMax int) bool {
	yTop := max(float64(y), e.top())
	yBot := min(float64(y+1), e.bottom())
	if yBot <= yTop {
		return false
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa, xb := e.xAt(yTop), e.xAt(yBot)
	pixLo := int(math.Floor(min(xa, xb)))
	pixHi := int(math.Floor(max(xa, xb)))

	switch {
	case pixLo >= xMax:
		return false
	case pixHi < xMin:
		c := sign * float32(yBot-yTop)
		r.cover[0] += c
		r.area[0] += c
		return true
	case pixLo == pixHi:
		r.deposit(e, pixLo, yTop, yBot, sign, xMin, xMax)
		return true
	}

	dydx := 1 / e.dxdy
	for pix := pixLo; pix <= pixHi; pix++ {
		ya := e.y0 + dydx*(float64(pix)-e.x0)
		yb := e.y0 + dydx*(float64(pix+1)-e.x0)
		s0 := max(min(ya, yb), yTop)
		s1 := min(max(ya, yb), yBot)
		if s1 <= s0 {
			continue
		}
		r.deposit(e, pix, s0, s1, sign, xMin, xMax)
	}
	return true
}

// deposit adds the piece of e between y0 and y1, which lies inside pixel
// column pix, to the buffers.
func (r *Rasteriser) deposit(e *edge, pix int, y0, y1 float64, sign float32, xMin, xMax int) {
	c := sign * float32(y1-y0)
	switch {
	case pix < xMin:
		r.cover[0] += c
		r.area[0] += c
	case pix < xMax:
		frac := e.xAt((y0+y1)/2) - float64(pix)
		i := pix - xMin
		r.cover[i] += c
		r.area[i] += c * float32(1-frac)
	}
}

// integrateNonZero turns accumulated cover/area into coverage values,
// in place, using the nonzero winding rule.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		cover[i] = min(raw, 1)
	}
}

// integrateEvenOdd turns accumulated cover/area into coverage values,
// in place, using the even-odd rule.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		m := raw - 2*float32(int(raw/2))
		d := 1 - m
		if d < 0 {
			d = -d
		}
		cover[i] = 1 - d
	}
}

// trimZeros returns the non-zero part of coverage and its offset,
// or nil if all values are zero.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

const (
	// DefaultFlatness is the default curve flattening tolerance in pixels.
	DefaultFlatness = 0.25

	// horizontalEdgeThreshold is the minimal vertical extent of an edge.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the minimal length of a stroke segment.
	zeroLengthThreshold = 1e-10
)
