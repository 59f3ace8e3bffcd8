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

package glyph

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Outline converts the contour into a path.
//
// Closed contours start at their first on-curve node. A segment with no
// control points becomes a line, one control point a quadratic and two
// cubic control points a cubic curve. Longer runs of control points are
// split into quadratic segments with implied on-curve points halfway
// between consecutive controls. Contours without any on-curve node
// produce no output.
func (p *Path) Outline() *path.Data {
	return p.appendOutline(&path.Data{})
}

func (p *Path) appendOutline(d *path.Data) *path.Data {
	n := len(p.Nodes)
	start := -1
	for i, node := range p.Nodes {
		if !node.Type.IsOffCurve() {
			start = i
			break
		}
	}
	if start < 0 {
		return d
	}

	d = d.MoveTo(pt(p.Nodes[start]))
	var offs []Node
	steps := n
	if p.Open {
		steps = n - 1 - start
	}
	for k := 1; k <= steps; k++ {
		node := p.Nodes[(start+k)%n]
		if node.Type.IsOffCurve() {
			offs = append(offs, node)
			continue
		}
		d = appendSegment(d, offs, node)
		offs = offs[:0]
	}
	if !p.Open {
		d = d.Close()
	}
	return d
}

func appendSegment(d *path.Data, offs []Node, to Node) *path.Data {
	switch {
	case len(offs) == 0:
		return d.LineTo(pt(to))
	case len(offs) == 1:
		return d.QuadTo(pt(offs[0]), pt(to))
	case len(offs) == 2 && offs[0].Type != QuadControl && offs[1].Type != QuadControl:
		return d.CubeTo(pt(offs[0]), pt(offs[1]), pt(to))
	}
	for j := 0; j < len(offs)-1; j++ {
		mid := pt(offs[j]).Add(pt(offs[j+1])).Mul(0.5)
		d = d.QuadTo(pt(offs[j]), mid)
	}
	return d.QuadTo(pt(offs[len(offs)-1]), pt(to))
}

// Outline returns the contours of all paths in the layer. Components are
// not included; see [Arena.Flatten].
func (l *Layer) Outline() *path.Data {
	d := &path.Data{}
	if l == nil {
		return d
	}
	for _, s := range l.Shapes {
		if p, ok := s.(*Path); ok {
			d = p.appendOutline(d)
		}
	}
	return d
}

// Point returns the position of the node.
func (n Node) Point() vec.Vec2 {
	return pt(n)
}

func pt(n Node) vec.Vec2 {
	return vec.Vec2{X: n.X, Y: n.Y}
}
