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

// Package coverage estimates which fraction of a region has been painted.
//
// The estimate is computed by testing a regular grid of sample pixels:
// every sample whose centre lies inside the region counts towards the
// total, and those whose alpha exceeds a threshold count as painted.
package coverage

import (
	"image"
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/colouring/region"
)

// Default parameters used by New.
const (
	DefaultStride         = 4
	DefaultAlphaThreshold = 51 // 20% of 255
)

// Estimator samples a colour buffer on a strided grid.
type Estimator struct {
	// Stride is the distance in pixels between neighbouring samples.
	// Values smaller than 1 are treated as 1.
	Stride int

	// AlphaThreshold is the alpha value a sample must exceed to count
	// as painted.
	AlphaThreshold uint8
}

// New returns an Estimator with the default parameters.
func New() *Estimator {
	return &Estimator{
		Stride:         DefaultStride,
		AlphaThreshold: DefaultAlphaThreshold,
	}
}

// Result holds the sample counts of one estimate.
type Result struct {
	Painted int // samples inside the region with alpha above the threshold
	Total   int // samples inside the region
}

// Ratio returns Painted/Total, or 0 if no sample fell inside the region.
func (r Result) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Painted) / float64(r.Total)
}

// Sample counts painted and in-region samples of buf.
//
// The sample grid covers the bounding box of b, intersected with the
// bounds of buf.  If b is nil, the whole buffer is sampled.
func (e *Estimator) Sample(buf *image.RGBA, b *region.Boundary) Result {
	var res Result
	if buf == nil {
		return res
	}

	area := buf.Rect
	if b != nil {
		if b.IsEmpty() {
			return res
		}
		bbox := b.BBox()
		area = area.Intersect(image.Rect(
			int(math.Floor(bbox.LLx)), int(math.Floor(bbox.LLy)),
			int(math.Ceil(bbox.URx)), int(math.Ceil(bbox.URy)),
		))
	}

	stride := max(e.Stride, 1)
	for y := area.Min.Y; y < area.Max.Y; y += stride {
		for x := area.Min.X; x < area.Max.X; x += stride {
			if !b.Contains(pixelCentre(x, y)) {
				continue
			}
			res.Total++
			if buf.RGBAAt(x, y).A > e.AlphaThreshold {
				res.Painted++
			}
		}
	}
	return res
}

// Estimate returns the fraction of the region b which is painted in buf.
// The result is always in the range [0, 1]; a region without any sample
// points has coverage 0.
func (e *Estimator) Estimate(buf *image.RGBA, b *region.Boundary) float64 {
	return e.Sample(buf, b).Ratio()
}

func pixelCentre(x, y int) vec.Vec2 {
	return vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}
