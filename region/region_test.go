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

package region

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func square(p *path.Data, x, y, size float64) *path.Data {
	return p.MoveTo(vec.Vec2{X: x, Y: y}).
		LineTo(vec.Vec2{X: x + size, Y: y}).
		LineTo(vec.Vec2{X: x + size, Y: y + size}).
		LineTo(vec.Vec2{X: x, Y: y + size}).
		Close()
}

// unitCircle approximates the circle of radius 1 around the origin.
func unitCircle() *path.Data {
	const k = 0.5522847498307936
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: 1, Y: 0}).
		CubeTo(vec.Vec2{X: 1, Y: k}, vec.Vec2{X: k, Y: 1}, vec.Vec2{X: 0, Y: 1}).
		CubeTo(vec.Vec2{X: -k, Y: 1}, vec.Vec2{X: -1, Y: k}, vec.Vec2{X: -1, Y: 0}).
		CubeTo(vec.Vec2{X: -1, Y: -k}, vec.Vec2{X: -k, Y: -1}, vec.Vec2{X: 0, Y: -1}).
		CubeTo(vec.Vec2{X: k, Y: -1}, vec.Vec2{X: 1, Y: -k}, vec.Vec2{X: 1, Y: 0}).
		Close()
}

func TestContainsSquare(t *testing.T) {
	b := New(square(&path.Data{}, 10, 10, 20), NonZero)

	cases := []struct {
		pt   vec.Vec2
		want bool
	}{
		{vec.Vec2{X: 20, Y: 20}, true},
		{vec.Vec2{X: 10.001, Y: 29.999}, true},
		{vec.Vec2{X: 9.999, Y: 20}, false},
		{vec.Vec2{X: 20, Y: 30.001}, false},
		{vec.Vec2{X: -5, Y: -5}, false},
		{vec.Vec2{X: 100, Y: 20}, false},
	}
	for _, tc := range cases {
		if got := b.Contains(tc.pt); got != tc.want {
			t.Errorf("Contains(%v) = %t, want %t", tc.pt, got, tc.want)
		}
	}
}

func TestContainsOnEdgeIsStable(t *testing.T) {
	b := New(square(&path.Data{}, 0, 0, 10), NonZero)
	edgePoints := []vec.Vec2{
		{X: 0, Y: 5}, {X: 10, Y: 5}, {X: 5, Y: 0}, {X: 5, Y: 10}, {X: 0, Y: 0}, {X: 10, Y: 10},
	}
	for _, pt := range edgePoints {
		first := b.Contains(pt)
		for range 10 {
			if b.Contains(pt) != first {
				t.Fatalf("Contains(%v) is not stable", pt)
			}
		}
	}
}

func TestContainsCircle(t *testing.T) {
	b := New(unitCircle(), NonZero)
	// use a fine tolerance, the circle is tiny
	fine := NewWithFlatness(unitCircle(), NonZero, 1e-4)

	for _, bb := range []*Boundary{b, fine} {
		if !bb.Contains(vec.Vec2{}) {
			t.Error("centre is outside")
		}
		if bb.Contains(vec.Vec2{X: 0.9, Y: 0.9}) {
			t.Error("corner of the bounding box is inside")
		}
		if bb.Contains(vec.Vec2{X: 1.01, Y: 0}) {
			t.Error("point right of the circle is inside")
		}
	}
	if !fine.Contains(vec.Vec2{X: 0.7, Y: 0.7}) {
		t.Error("(0.7, 0.7) is outside the finely flattened circle")
	}
	if got := fine.Area(); math.Abs(got-math.Pi) > 5e-3 {
		t.Errorf("area: expected %.4f, got %.4f", math.Pi, got)
	}
}

func TestFillRules(t *testing.T) {
	p := square(&path.Data{}, 0, 0, 30)
	square(p, 10, 10, 10)

	centre := vec.Vec2{X: 15, Y: 15}
	ring := vec.Vec2{X: 5, Y: 5}

	nz := New(p, NonZero)
	eo := New(p, EvenOdd)

	if !nz.Contains(centre) || !nz.Contains(ring) {
		t.Error("nonzero: both points should be inside")
	}
	if eo.Contains(centre) {
		t.Error("even-odd: hole should be outside")
	}
	if !eo.Contains(ring) {
		t.Error("even-odd: ring should be inside")
	}
}

func TestSelfIntersectingStar(t *testing.T) {
	// five-pointed star drawn by connecting every second vertex
	pts := make([]vec.Vec2, 5)
	for i := range 5 {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		pts[i] = vec.Vec2{X: 50 + 40*math.Cos(angle), Y: 50 + 40*math.Sin(angle)}
	}
	p := &path.Data{}
	p.MoveTo(pts[0])
	for _, i := range []int{2, 4, 1, 3} {
		p.LineTo(pts[i])
	}
	p.Close()

	centre := vec.Vec2{X: 50, Y: 50}
	if !New(p, NonZero).Contains(centre) {
		t.Error("nonzero: centre of the star should be inside")
	}
	if New(p, EvenOdd).Contains(centre) {
		t.Error("even-odd: centre of the star should be outside")
	}
}

func TestBBox(t *testing.T) {
	b := New(square(&path.Data{}, 3, 4, 5), NonZero)
	bbox := b.BBox()
	if bbox.LLx != 3 || bbox.LLy != 4 || bbox.URx != 8 || bbox.URy != 9 {
		t.Errorf("unexpected bounding box %v", bbox)
	}
	if b.Area() != 25 {
		t.Errorf("expected area 25, got %g", b.Area())
	}
}

func TestDegenerate(t *testing.T) {
	empty := New(&path.Data{}, NonZero)
	if !empty.IsEmpty() {
		t.Error("empty outline is not empty")
	}
	if empty.Contains(vec.Vec2{}) {
		t.Error("empty outline contains a point")
	}

	line := New((&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 10}).
		Close(), NonZero)
	if !line.IsEmpty() {
		t.Error("zero-area outline is not empty")
	}
	if line.Contains(vec.Vec2{X: 5, Y: 5}) {
		t.Error("zero-area outline contains a point")
	}

	if New(nil, EvenOdd).NumSegments() != 0 {
		t.Error("nil path has segments")
	}
}

func TestNilBoundaryContainsEverything(t *testing.T) {
	var b *Boundary
	for _, pt := range []vec.Vec2{{}, {X: -1e9, Y: 1e9}, {X: 3, Y: 4}} {
		if !b.Contains(pt) {
			t.Errorf("nil boundary rejects %v", pt)
		}
	}
	if b.IsEmpty() {
		t.Error("nil boundary is empty")
	}
}
