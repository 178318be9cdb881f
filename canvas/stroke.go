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

package canvas

import (
	"image/color"

	"seehuhn.de/go/geom/vec"
)

// Paint holds the brush attributes of a stroke.
type Paint struct {
	Color color.NRGBA // brush colour, alpha is the brush opacity
	Width float64     // brush diameter in pixels
}

// Stroke is one committed gesture.
//
// Strokes are never modified once committed.  Points is shared between
// all copies of a Stroke and must be treated as read-only.
type Stroke struct {
	ID     string
	Paint  Paint
	Points []vec.Vec2
}
