// seehuhn.de/go/glyphedit - a variable font glyph outline editor
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

// Package fixtures provides glyph geometry and a small two-master font
// shared by the tests of the editor packages.
package fixtures

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/glyphedit/glyph"
)

// Master IDs of the fixture font.
const (
	Regular = "m01"
	Bold    = "m02"
	Alt     = "alt01"
)

// Axes returns the axes of the fixture font. The weight axis has a
// non-trivial mapping between user and design space.
func Axes() glyph.Axes {
	return glyph.Axes{
		{Tag: "wght", Name: "Weight", Min: 100, Default: 400, Max: 900, Map: []glyph.AxisMap{
			{User: 100, Design: 20},
			{User: 400, Design: 80},
			{User: 900, Design: 200},
		}},
		{Tag: "wdth", Name: "Width", Min: 50, Default: 100, Max: 100},
	}
}

// Masters returns the masters of the fixture font, in user space.
func Masters() []glyph.Master {
	return []glyph.Master{
		{ID: Regular, Name: "Regular", Location: glyph.Location{"wght": 400, "wdth": 100}},
		{ID: Bold, Name: "Bold", Location: glyph.Location{"wght": 700, "wdth": 100}},
	}
}

// Rect returns a closed rectangular contour made of line nodes.
func Rect(x1, y1, x2, y2 float64) *glyph.Path {
	return &glyph.Path{Nodes: []glyph.Node{
		{X: x1, Y: y1, Type: glyph.Line},
		{X: x2, Y: y1, Type: glyph.Line},
		{X: x2, Y: y2, Type: glyph.Line},
		{X: x1, Y: y2, Type: glyph.Line},
	}}
}

// Circle returns a closed contour of four smooth cubic arcs.
func Circle(cx, cy, r float64) *glyph.Path {
	k := r * 4 * (math.Sqrt2 - 1) / 3
	on := func(x, y float64) glyph.Node { return glyph.Node{X: x, Y: y, Type: glyph.CurveSmooth} }
	off := func(x, y float64) glyph.Node { return glyph.Node{X: x, Y: y, Type: glyph.OffCurve} }
	return &glyph.Path{Nodes: []glyph.Node{
		on(cx+r, cy),
		off(cx+r, cy+k), off(cx+k, cy+r), on(cx, cy+r),
		off(cx-k, cy+r), off(cx-r, cy+k), on(cx-r, cy),
		off(cx-r, cy-k), off(cx-k, cy-r), on(cx, cy-r),
		off(cx+k, cy-r), off(cx+r, cy-k),
	}}
}

// Ref returns a component referencing glyph name, translated by (tx, ty).
func Ref(name string, tx, ty float64) *glyph.Component {
	return &glyph.Component{Ref: name, Transform: &matrix.Matrix{1, 0, 0, 1, tx, ty}}
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// rectangle builds a closed rectangular path.
func rectangle(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// ring builds two concentric squares; the inner one runs in the same
// direction as the outer one, so the two fill rules disagree inside it.
func ring(c, outer, inner float64) *path.Data {
	return rectangle(c-outer, c-outer, c+outer, c+outer).
		MoveTo(pt(c-inner, c-inner)).
		LineTo(pt(c+inner, c-inner)).
		LineTo(pt(c+inner, c+inner)).
		LineTo(pt(c-inner, c+inner)).
		Close()
}

// cubicBlob builds a closed shape bounded by a single cubic curve and a
// straight line.
func cubicBlob(x1, y1, c1x, c1y, c2x, c2y, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		CubeTo(pt(c1x, c1y), pt(c2x, c2y), pt(x2, y2)).
		Close()
}

// triangle builds a triangular path with one quadratic edge.
func triangle(x1, y1, cx, cy, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		QuadTo(pt(cx, cy), pt(x2, y2)).
		LineTo(pt(x3, y3)).
		Close()
}
