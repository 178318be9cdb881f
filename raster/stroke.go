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

	"seehuhn.de/go/geom/vec"
)

// StrokePolyline computes the coverage of a brush of diameter Width
// dragged along pts.  Ends and corners are round.  A polyline whose
// points all coincide produces a round dot.
//
// The outline is built as one capsule per segment.  All capsules have
// the same orientation, so filling them together with the nonzero rule
// yields their union, including the round joins.
func (r *Rasteriser) StrokePolyline(pts []vec.Vec2, emit EmitFunc) {
	r.resetEdges()
	d := r.Width / 2
	if len(pts) == 0 || !(d > 0) {
		return
	}

	segments := 0
	for i := 1; i < len(pts); i++ {
		if r.addCapsule(pts[i-1], pts[i], d) {
			segments++
		}
	}
	if segments == 0 {
		r.outline = r.outline[:0]
		r.outline = append(r.outline, pts[0].Add(vec.Vec2{X: d}))
		r.addArc(pts[0], d, vec.Vec2{X: 1}, -2*math.Pi)
		r.addPolygon(r.outline)
	}

	r.scan(fillNonZero, emit)
}

// addCapsule records the outline of the segment a→b widened by d on both
// sides, with semicircular ends.  Degenerate segments are skipped and
// false is returned.
func (r *Rasteriser) addCapsule(a, b vec.Vec2, d float64) bool {
	delta := b.Sub(a)
	length := delta.Length()
	if length < zeroLengthThreshold {
		return false
	}
	t := delta.Mul(1 / length)
	n := vec.Vec2{X: -t.Y, Y: t.X}

	r.outline = r.outline[:0]
	r.outline = append(r.outline, a.Add(n.Mul(d)), b.Add(n.Mul(d)))
	r.addArc(b, d, n, -math.Pi)
	r.outline = append(r.outline, a.Sub(n.Mul(d)))
	r.addArc(a, d, n.Mul(-1), -math.Pi)
	r.addPolygon(r.outline)
	return true
}

// addArc appends points of a circular arc to r.outline.  The arc starts
// at center+radius*startDir (which is not appended) and turns by sweep
// radians.  The number of points keeps the chord error below Flatness.
func (r *Rasteriser) addArc(center vec.Vec2, radius float64, startDir vec.Vec2, sweep float64) {
	n := 2
	if radius > r.Flatness {
		// a chord spanning angle θ deviates from the arc by radius*(1-cos(θ/2))
		step := 2 * math.Acos(1-r.Flatness/radius)
		if step > 0 && !math.IsNaN(step) {
			n = max(n, int(math.Ceil(math.Abs(sweep)/step)))
		}
	}

	dt := sweep / float64(n)
	for i := 1; i <= n; i++ {
		sin, cos := math.Sincos(float64(i) * dt)
		dir := vec.Vec2{
			X: startDir.X*cos - startDir.Y*sin,
			Y: startDir.X*sin + startDir.Y*cos,
		}
		r.outline = append(r.outline, center.Add(dir.Mul(radius)))
	}
}
