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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Flatten walks p and calls emit for every line segment of its outline.
// Curves are replaced by polylines which deviate from the curve by at
// most flatness. Every subpath is treated as closed: if a subpath does
// not end at its start point, a closing segment is emitted.
func Flatten(p *path.Data, flatness float64, emit func(a, b vec.Vec2)) {
	if p == nil {
		return
	}
	if flatness <= 0 {
		flatness = DefaultFlatness
	}

	var current, start vec.Vec2
	open := false
	closeSubpath := func() {
		if open && current != start {
			emit(current, start)
		}
		current = start
		open = false
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			closeSubpath()
			current = p.Coords[k]
			start = current
			open = true
			k++

		case path.CmdLineTo:
			emit(current, p.Coords[k])
			current = p.Coords[k]
			open = true
			k++

		case path.CmdQuadTo:
			ctrl := [3]vec.Vec2{current, p.Coords[k], p.Coords[k+1]}
			flattenBezier(ctrl[:], flatness, emit)
			current = ctrl[2]
			open = true
			k += 2

		case path.CmdCubeTo:
			ctrl := [4]vec.Vec2{current, p.Coords[k], p.Coords[k+1], p.Coords[k+2]}
			flattenBezier(ctrl[:], flatness, emit)
			current = ctrl[3]
			open = true
			k += 3

		case path.CmdClose:
			closeSubpath()
		}
	}
	closeSubpath()
}

// flattenBezier replaces the Bézier curve with control points ctrl by a
// polyline.  Wang's formula gives the number of pieces: for a curve of
// degree d whose second differences are bounded by m, n pieces of equal
// parameter length stay within d(d-1)m/(8n²) of the curve.
func flattenBezier(ctrl []vec.Vec2, flatness float64, emit func(a, b vec.Vec2)) {
	d := len(ctrl) - 1

	var m float64
	for i := 0; i+2 <= d; i++ {
		dd := ctrl[i].Sub(ctrl[i+1].Mul(2)).Add(ctrl[i+2])
		m = max(m, dd.Length())
	}
	n := 1
	if nf := math.Sqrt(float64(d*(d-1)) * m / (8 * flatness)); nf > 1 {
		n = int(math.Ceil(nf))
	}

	var work [4]vec.Vec2
	prev := ctrl[0]
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)

		// de Casteljau
		w := work[:copy(work[:], ctrl)]
		for len(w) > 1 {
			for j := range len(w) - 1 {
				w[j] = w[j].Mul(1 - t).Add(w[j+1].Mul(t))
			}
			w = w[:len(w)-1]
		}

		emit(prev, w[0])
		prev = w[0]
	}
	emit(prev, ctrl[d])
}
