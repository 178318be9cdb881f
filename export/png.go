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

// Package export writes the contents of a colouring canvas to files.
package export

import (
	"image"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
)

// WritePNG encodes img as a PNG image.  If maxSide is positive and the
// image is larger than maxSide pixels in either direction, the image is
// scaled down first, keeping its aspect ratio.
func WritePNG(w io.Writer, img image.Image, maxSide int) error {
	return png.Encode(w, Thumbnail(img, maxSide))
}

// Thumbnail returns img scaled down so that neither side exceeds maxSide.
// Images which are small enough, and all images if maxSide is not
// positive, are returned unchanged.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if maxSide <= 0 || longest <= maxSide {
		return img
	}

	scale := float64(maxSide) / float64(longest)
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst
}
