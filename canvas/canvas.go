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

// Package canvas implements a drawing surface which only accepts strokes
// inside a boundary.
//
// Pointer gestures arrive as BeginStroke, a sequence of ExtendStroke
// calls, and CommitStroke.  A gesture which starts outside the boundary
// is ignored completely; points of a gesture which wander outside the
// boundary are dropped.  Committed strokes form a linear history with
// undo and redo, and are rendered into an RGBA colour buffer.
//
// A Canvas is owned by a single gesture loop and is not safe for
// concurrent use.
package canvas

import (
	"image"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/colouring/history"
	"seehuhn.de/go/colouring/raster"
	"seehuhn.de/go/colouring/region"
)

// Canvas is a boundary-constrained drawing surface.
type Canvas struct {
	boundary *region.Boundary
	clip     *image.Alpha // coverage of the boundary, nil in open mode
	strokes  history.History[Stroke]

	buf  *image.RGBA
	mask *image.Alpha // scratch coverage of the stroke being rendered
	r    *raster.Rasteriser

	capturing bool
	paint     Paint
	points    []vec.Vec2
}

// New returns an empty, transparent canvas of the given size.  The canvas
// has no boundary and accepts strokes everywhere until SetBoundary is
// called.
func New(width, height int) *Canvas {
	bounds := image.Rect(0, 0, width, height)
	return &Canvas{
		buf:  image.NewRGBA(bounds),
		mask: image.NewAlpha(bounds),
		r:    raster.NewRasteriser(rect.Rect{URx: float64(width), URy: float64(height)}),
	}
}

// SetBoundary replaces the region in which strokes are accepted.  Since
// existing strokes may not be meaningful for the new region, the history,
// the colour buffer, and any stroke in progress are cleared.
// A nil boundary accepts all points.
func (c *Canvas) SetBoundary(b *region.Boundary) {
	c.boundary = b
	c.clip = nil
	if b != nil {
		c.clip = image.NewAlpha(c.buf.Rect)
		emit := func(y, xMin int, coverage []float32) {
			row := c.clip.Pix[y*c.clip.Stride+xMin:]
			for i, v := range coverage {
				row[i] = uint8(v*255 + 0.5)
			}
		}
		if b.Rule() == region.EvenOdd {
			c.r.FillEvenOdd(b.Path(), emit)
		} else {
			c.r.FillNonZero(b.Path(), emit)
		}
	}

	c.CancelStroke()
	c.strokes.Clear()
	clear(c.buf.Pix)
}

// Boundary returns the current boundary, or nil in open mode.
func (c *Canvas) Boundary() *region.Boundary {
	return c.boundary
}

// Bounds returns the pixel rectangle of the canvas.
func (c *Canvas) Bounds() image.Rectangle {
	return c.buf.Rect
}

// Contains reports whether a stroke may pass through pt.
func (c *Canvas) Contains(pt vec.Vec2) bool {
	return c.boundary.Contains(pt)
}

// BeginStroke starts a new gesture at pt.  If pt is outside the boundary,
// the whole gesture is ignored: subsequent ExtendStroke calls have no
// effect and CommitStroke commits nothing.  An uncommitted gesture in
// progress is discarded.
func (c *Canvas) BeginStroke(pt vec.Vec2, paint Paint) {
	c.CancelStroke()
	if !c.Contains(pt) {
		return
	}
	c.capturing = true
	c.paint = paint
	c.points = append(c.points, pt)
}

// ExtendStroke adds pt to the gesture in progress.  Points outside the
// boundary, and repetitions of the previous point, are dropped.
func (c *Canvas) ExtendStroke(pt vec.Vec2) {
	if !c.capturing || !c.Contains(pt) {
		return
	}
	if n := len(c.points); n > 0 && c.points[n-1] == pt {
		return
	}
	c.points = append(c.points, pt)
}

// CommitStroke ends the gesture in progress.  If the gesture captured any
// points, it is appended to the history, discarding strokes available for
// redo, and drawn into the colour buffer.  The return value reports
// whether a stroke was committed.
func (c *Canvas) CommitStroke() bool {
	if !c.capturing || len(c.points) == 0 {
		c.CancelStroke()
		return false
	}

	s := Stroke{
		ID:     uuid.NewString(),
		Paint:  c.paint,
		Points: slices.Clone(c.points),
	}
	c.CancelStroke()

	c.strokes.Push(s)
	c.draw(&s)
	return true
}

// CancelStroke abandons the gesture in progress, if any.
func (c *Canvas) CancelStroke() {
	c.capturing = false
	c.points = c.points[:0]
}

// Capturing reports whether a gesture is in progress.
func (c *Canvas) Capturing() bool {
	return c.capturing
}

// Undo deactivates the most recent active stroke and redraws the canvas.
// It reports false if there was nothing to undo.
func (c *Canvas) Undo() bool {
	if !c.strokes.Undo() {
		return false
	}
	c.rebuild()
	return true
}

// Redo reactivates the most recently undone stroke and redraws the canvas.
// It reports false if there was nothing to redo.
func (c *Canvas) Redo() bool {
	if !c.strokes.Redo() {
		return false
	}
	c.rebuild()
	return true
}

// CanUndo reports whether Undo would change the canvas.
func (c *Canvas) CanUndo() bool { return c.strokes.CanUndo() }

// CanRedo reports whether Redo would change the canvas.
func (c *Canvas) CanRedo() bool { return c.strokes.CanRedo() }

// Clear removes all strokes and empties the colour buffer.
// Clear cannot be undone.
func (c *Canvas) Clear() {
	c.CancelStroke()
	c.strokes.Clear()
	clear(c.buf.Pix)
}

// StrokeCount returns the number of active strokes.
func (c *Canvas) StrokeCount() int {
	return c.strokes.Cursor() + 1
}

// Strokes returns the active strokes, oldest first.
func (c *Canvas) Strokes() []Stroke {
	return slices.Clone(c.strokes.Active())
}

// Buffer returns the colour buffer.  The image is owned by the canvas and
// changes with every commit, undo, redo and clear; callers must not
// modify it.
func (c *Canvas) Buffer() *image.RGBA {
	return c.buf
}

// rebuild redraws the colour buffer from scratch by replaying all active
// strokes.  Strokes are blended on top of each other, so the only way to
// remove one is to repaint everything below it.
func (c *Canvas) rebuild() {
	clear(c.buf.Pix)
	for _, s := range c.strokes.Active() {
		c.draw(&s)
	}
}

// draw composites s onto the colour buffer.  The brush coverage is
// multiplied by the coverage of the boundary, so that paint never spills
// over the outline.
func (c *Canvas) draw(s *Stroke) {
	c.r.Width = s.Paint.Width

	var dirty image.Rectangle
	c.r.StrokePolyline(s.Points, func(y, xMin int, coverage []float32) {
		row := c.mask.Pix[y*c.mask.Stride+xMin:]
		var clipRow []uint8
		if c.clip != nil {
			clipRow = c.clip.Pix[y*c.clip.Stride+xMin:]
		}
		for i, v := range coverage {
			if clipRow != nil {
				v *= float32(clipRow[i]) / 255
			}
			row[i] = uint8(v*255 + 0.5)
		}
		dirty = dirty.Union(image.Rect(xMin, y, xMin+len(coverage), y+1))
	})
	if dirty.Empty() {
		return
	}

	draw.DrawMask(c.buf, dirty, image.NewUniform(s.Paint.Color), image.Point{}, c.mask, dirty.Min, draw.Over)

	for y := dirty.Min.Y; y < dirty.Max.Y; y++ {
		off := y * c.mask.Stride
		clear(c.mask.Pix[off+dirty.Min.X : off+dirty.Max.X])
	}
}
