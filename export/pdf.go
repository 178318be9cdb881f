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

package export

import (
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/colouring/canvas"
	"seehuhn.de/go/colouring/region"
)

// OutlineWidth is the line width used for the boundary on colouring pages.
const OutlineWidth = 2

// WriteColouringPage writes a single-page PDF file showing the outline of
// b and the given strokes.  One pixel of the canvas maps to one PDF point.
// Strokes are drawn in shades of grey, so that the page can be printed
// and coloured in by hand.  If b is nil, only the strokes are shown.
func WriteColouringPage(filename string, b *region.Boundary, strokes []canvas.Stroke, width, height int) error {
	paper := &pdf.Rectangle{
		URx: float64(width),
		URy: float64(height),
	}
	page, err := document.CreateSinglePage(filename, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// canvas coordinates have the origin at the top left
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(height)})

	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)
	for _, s := range strokes {
		if len(s.Points) == 0 || s.Paint.Width <= 0 {
			continue
		}
		page.SetLineWidth(s.Paint.Width)
		page.SetStrokeColor(pdfcolor.DeviceGray(grey(s.Paint.Color)))
		page.MoveTo(s.Points[0].X, s.Points[0].Y)
		if len(s.Points) == 1 {
			page.LineTo(s.Points[0].X, s.Points[0].Y)
		}
		for _, pt := range s.Points[1:] {
			page.LineTo(pt.X, pt.Y)
		}
		page.Stroke()
	}

	if b != nil && !b.IsEmpty() {
		page.SetLineWidth(OutlineWidth)
		page.SetStrokeColor(pdfcolor.DeviceGray(0))
		for cmd, pts := range b.Path().Iter().ToCubic() {
			switch cmd {
			case path.CmdMoveTo:
				page.MoveTo(pts[0].X, pts[0].Y)
			case path.CmdLineTo:
				page.LineTo(pts[0].X, pts[0].Y)
			case path.CmdCubeTo:
				page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
			case path.CmdClose:
				page.ClosePath()
			}
		}
		page.Stroke()
	}

	return page.Close()
}

// grey returns the grey level of c painted over white paper, where 0 is
// black and 1 is white.
func grey(c color.NRGBA) float64 {
	lum := (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
	alpha := float64(c.A) / 255
	return 1 - alpha*(1-lum)
}
