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
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// distToSegment returns the distance from p to the segment a-b.
func distToSegment(p, a, b vec.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = min(max(t, 0), 1)
	return p.Sub(a.Add(ab.Mul(t))).Length()
}

func TestFlattenCurves(t *testing.T) {
	type curve struct {
		name string
		ctrl []vec.Vec2
		at   func(t float64) vec.Vec2
	}
	q := []vec.Vec2{{X: 0, Y: 0}, {X: 50, Y: 120}, {X: 100, Y: 0}}
	c := []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 90}, {X: 130, Y: -60}, {X: 100, Y: 40}}
	curves := []curve{
		{"quadratic", q, func(t float64) vec.Vec2 {
			s := 1 - t
			return q[0].Mul(s * s).Add(q[1].Mul(2 * s * t)).Add(q[2].Mul(t * t))
		}},
		{"cubic", c, func(t float64) vec.Vec2 {
			s := 1 - t
			return c[0].Mul(s * s * s).Add(c[1].Mul(3 * s * s * t)).
				Add(c[2].Mul(3 * s * t * t)).Add(c[3].Mul(t * t * t))
		}},
	}

	for _, cv := range curves {
		for _, flatness := range []float64{0.1, 0.25, 1} {
			p := (&path.Data{}).MoveTo(cv.ctrl[0])
			if len(cv.ctrl) == 3 {
				p.QuadTo(cv.ctrl[1], cv.ctrl[2])
			} else {
				p.CubeTo(cv.ctrl[1], cv.ctrl[2], cv.ctrl[3])
			}

			var segs [][2]vec.Vec2
			Flatten(p, flatness, func(a, b vec.Vec2) {
				segs = append(segs, [2]vec.Vec2{a, b})
			})

			// the last segment closes the subpath
			end := cv.ctrl[len(cv.ctrl)-1]
			if n := len(segs); n < 3 || segs[n-2][1] != end || segs[n-1][0] != end {
				t.Fatalf("%s: polyline does not end at the curve end point", cv.name)
			}
			curveSegs := segs[:len(segs)-1]
			for i := 1; i < len(curveSegs); i++ {
				if curveSegs[i][0] != curveSegs[i-1][1] {
					t.Fatalf("%s: gap after segment %d", cv.name, i-1)
				}
			}

			for i := 0; i <= 1000; i++ {
				pt := cv.at(float64(i) / 1000)
				best := math.Inf(1)
				for _, s := range curveSegs {
					best = min(best, distToSegment(pt, s[0], s[1]))
				}
				if best > flatness+1e-9 {
					t.Errorf("%s, flatness %g: curve point %v is %g away from the polyline",
						cv.name, flatness, pt, best)
					break
				}
			}
		}
	}
}
