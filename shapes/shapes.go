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

// Package shapes contains the outlines which can be coloured in.
//
// Every shape is defined inside the square [-1, 1] × [-1, 1], with y
// pointing down, and is scaled to the canvas when a boundary is built.
package shapes

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/colouring/region"
)

// ErrUnknownShape is returned for shape identifiers not in the catalogue.
var ErrUnknownShape = errors.New("unknown shape")

// Margin is the fraction of the shorter canvas side left free on each
// side of a shape.
const Margin = 0.05

// kappa for cubic Bézier approximation of a quarter circle
const kappa = 0.5522847498307936

type shape struct {
	rule    region.FillRule
	outline func() *path.Data
}

var catalogue = map[string]shape{
	"circle":   {region.NonZero, func() *path.Data { return circle(&path.Data{}, 1) }},
	"square":   {region.NonZero, square},
	"triangle": {region.NonZero, triangle},
	"star":     {region.NonZero, fivePointStar},
	"heart":    {region.NonZero, heart},
	"ring":     {region.EvenOdd, ring},
}

// IDs returns the identifiers of all shapes, in sorted order.
func IDs() []string {
	return slices.Sorted(maps.Keys(catalogue))
}

// Outline returns the outline of the given shape, scaled to fit into
// bounds, together with the fill rule which must be used for it.
func Outline(id string, bounds rect.Rect) (*path.Data, region.FillRule, error) {
	s, ok := catalogue[id]
	if !ok {
		return nil, region.NonZero, fmt.Errorf("shape %q: %w", id, ErrUnknownShape)
	}

	w, h := bounds.URx-bounds.LLx, bounds.URy-bounds.LLy
	side := min(w, h)
	scale := side * (1 - 2*Margin) / 2
	m := matrix.Matrix{scale, 0, 0, scale, bounds.LLx + w/2, bounds.LLy + h/2}

	return transform(s.outline(), m), s.rule, nil
}

// Boundary returns the region of the given shape, centred on a canvas of
// the given size.
func Boundary(id string, width, height int) (*region.Boundary, error) {
	outline, rule, err := Outline(id, rect.Rect{URx: float64(width), URy: float64(height)})
	if err != nil {
		return nil, err
	}
	return region.New(outline, rule), nil
}

// transform returns a copy of p with all coordinates mapped by m.
func transform(p *path.Data, m matrix.Matrix) *path.Data {
	coords := make([]vec.Vec2, len(p.Coords))
	for i, c := range p.Coords {
		coords[i] = vec.Vec2{
			X: m[0]*c.X + m[2]*c.Y + m[4],
			Y: m[1]*c.X + m[3]*c.Y + m[5],
		}
	}
	return &path.Data{
		Cmds:   slices.Clone(p.Cmds),
		Coords: coords,
	}
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// circle appends a circle of radius r around the origin to p.
func circle(p *path.Data, r float64) *path.Data {
	k := r * kappa
	return p.
		MoveTo(pt(r, 0)).
		CubeTo(pt(r, k), pt(k, r), pt(0, r)).
		CubeTo(pt(-k, r), pt(-r, k), pt(-r, 0)).
		CubeTo(pt(-r, -k), pt(-k, -r), pt(0, -r)).
		CubeTo(pt(k, -r), pt(r, -k), pt(r, 0)).
		Close()
}

func square() *path.Data {
	return (&path.Data{}).
		MoveTo(pt(-1, -1)).
		LineTo(pt(1, -1)).
		LineTo(pt(1, 1)).
		LineTo(pt(-1, 1)).
		Close()
}

// triangle is equilateral, inscribed in the unit circle, pointing up.
func triangle() *path.Data {
	s := math.Sqrt(3) / 2
	return (&path.Data{}).
		MoveTo(pt(0, -1)).
		LineTo(pt(s, 0.5)).
		LineTo(pt(-s, 0.5)).
		Close()
}

// fivePointStar connects every second vertex of a regular pentagon.
// The outline intersects itself; under the nonzero rule the central
// pentagon is part of the star.
func fivePointStar() *path.Data {
	var pts [5]vec.Vec2
	for i := range 5 {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		pts[i] = pt(math.Cos(angle), math.Sin(angle))
	}

	p := (&path.Data{}).MoveTo(pts[0])
	for _, i := range []int{2, 4, 1, 3} {
		p = p.LineTo(pts[i])
	}
	return p.Close()
}

func heart() *path.Data {
	return (&path.Data{}).
		MoveTo(pt(0, 0.95)).
		CubeTo(pt(-0.35, 0.6), pt(-1, 0.25), pt(-1, -0.3)).
		CubeTo(pt(-1, -0.8), pt(-0.35, -1), pt(0, -0.45)).
		CubeTo(pt(0.35, -1), pt(1, -0.8), pt(1, -0.3)).
		CubeTo(pt(1, 0.25), pt(0.35, 0.6), pt(0, 0.95)).
		Close()
}

// ring is an annulus; it needs the even-odd rule.
func ring() *path.Data {
	p := circle(&path.Data{}, 1)
	return circle(p, 0.5)
}
