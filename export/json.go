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
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/colouring/canvas"
	"seehuhn.de/go/colouring/region"
)

// jsonDrawing is the JSON form of a canvas: its size, its boundary and
// the active strokes.
type jsonDrawing struct {
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	FillRule string        `json:"fill_rule,omitempty"`
	Boundary []jsonSegment `json:"boundary,omitempty"`
	Strokes  []jsonStroke  `json:"strokes"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

type jsonStroke struct {
	ID     string      `json:"id"`
	Color  [4]uint8    `json:"color"` // non-premultiplied RGBA
	Width  float64     `json:"width"`
	Points [][]float64 `json:"points"`
}

// WriteDrawing writes the boundary and the active strokes of c as JSON.
// The result can be turned back into a canvas with [ReadDrawing].
func WriteDrawing(w io.Writer, c *canvas.Canvas) error {
	bounds := c.Bounds()
	out := jsonDrawing{
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Strokes: []jsonStroke{},
	}
	if b := c.Boundary(); b != nil {
		out.FillRule = b.Rule().String()
		out.Boundary = pathToJSON(b.Path())
	}
	for _, s := range c.Strokes() {
		col := s.Paint.Color
		out.Strokes = append(out.Strokes, jsonStroke{
			ID:     s.ID,
			Color:  [4]uint8{col.R, col.G, col.B, col.A},
			Width:  s.Paint.Width,
			Points: pointsToJSON(s.Points),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ReadDrawing reads a drawing written by [WriteDrawing] and replays it
// onto a new canvas.  Stroke IDs are not preserved.
func ReadDrawing(r io.Reader) (*canvas.Canvas, error) {
	var in jsonDrawing
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode drawing: %w", err)
	}
	if in.Width <= 0 || in.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", in.Width, in.Height)
	}

	c := canvas.New(in.Width, in.Height)
	if in.Boundary != nil {
		p, err := pathFromJSON(in.Boundary)
		if err != nil {
			return nil, err
		}
		rule := region.NonZero
		switch in.FillRule {
		case "", region.NonZero.String():
			// pass
		case region.EvenOdd.String():
			rule = region.EvenOdd
		default:
			return nil, fmt.Errorf("unknown fill rule %q", in.FillRule)
		}
		c.SetBoundary(region.New(p, rule))
	}

	for i, s := range in.Strokes {
		pts, err := pointsFromJSON(s.Points)
		if err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
		if len(pts) == 0 {
			continue
		}
		paint := canvas.Paint{
			Color: color.NRGBA{R: s.Color[0], G: s.Color[1], B: s.Color[2], A: s.Color[3]},
			Width: s.Width,
		}
		c.BeginStroke(pts[0], paint)
		for _, pt := range pts[1:] {
			c.ExtendStroke(pt)
		}
		c.CommitStroke()
	}
	return c, nil
}

var segmentName = map[path.Command]string{
	path.CmdMoveTo: "M",
	path.CmdLineTo: "L",
	path.CmdQuadTo: "Q",
	path.CmdCubeTo: "C",
	path.CmdClose:  "Z",
}

// segmentPoints is the number of points each segment type carries.
var segmentPoints = map[string]int{"M": 1, "L": 1, "Q": 2, "C": 3, "Z": 0}

func pathToJSON(p *path.Data) []jsonSegment {
	var segs []jsonSegment
	for cmd, pts := range p.Iter() {
		segs = append(segs, jsonSegment{
			Cmd: segmentName[cmd],
			Pts: pointsToJSON(pts),
		})
	}
	return segs
}

func pathFromJSON(segs []jsonSegment) (*path.Data, error) {
	p := &path.Data{}
	for i, seg := range segs {
		n, ok := segmentPoints[seg.Cmd]
		if !ok {
			return nil, fmt.Errorf("segment %d: unknown command %q", i, seg.Cmd)
		}
		pts, err := pointsFromJSON(seg.Pts)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		if len(pts) != n {
			return nil, fmt.Errorf("segment %d: %s needs %d points, got %d", i, seg.Cmd, n, len(pts))
		}
		switch seg.Cmd {
		case "M":
			p.MoveTo(pts[0])
		case "L":
			p.LineTo(pts[0])
		case "Q":
			p.QuadTo(pts[0], pts[1])
		case "C":
			p.CubeTo(pts[0], pts[1], pts[2])
		case "Z":
			p.Close()
		}
	}
	return p, nil
}

func pointsToJSON(pts []vec.Vec2) [][]float64 {
	res := make([][]float64, len(pts))
	for i, pt := range pts {
		res[i] = []float64{pt.X, pt.Y}
	}
	return res
}

var errBadPoint = errors.New("points must have two coordinates")

func pointsFromJSON(pts [][]float64) ([]vec.Vec2, error) {
	res := make([]vec.Vec2, len(pts))
	for i, pt := range pts {
		if len(pt) != 2 {
			return nil, errBadPoint
		}
		res[i] = vec.Vec2{X: pt[0], Y: pt[1]}
	}
	return res, nil
}
