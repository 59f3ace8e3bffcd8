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

import "seehuhn.de/go/geom/matrix"

// The functions in this file edit geometry in place. Indices which are out
// of range, for example because the geometry changed underneath an active
// drag, turn the call into a no-op and false is returned.

// MoveNode adds (dx, dy) to the position of a path node.
func MoveNode(l *Layer, shape, node int, dx, dy float64) bool {
	p, ok := l.Path(shape)
	if !ok || node < 0 || node >= len(p.Nodes) {
		return false
	}
	p.Nodes[node].X += dx
	p.Nodes[node].Y += dy
	return true
}

// MoveAnchor adds (dx, dy) to the position of an anchor.
func MoveAnchor(l *Layer, anchor int, dx, dy float64) bool {
	if l == nil || anchor < 0 || anchor >= len(l.Anchors) {
		return false
	}
	l.Anchors[anchor].X += dx
	l.Anchors[anchor].Y += dy
	return true
}

// MoveComponentOrigin adds (dx, dy) to the translation of a component.
// A missing transform is set to the identity first.
func MoveComponentOrigin(l *Layer, shape int, dx, dy float64) bool {
	c, ok := l.Component(shape)
	if !ok {
		return false
	}
	if c.Transform == nil {
		m := matrix.Identity
		c.Transform = &m
	}
	c.Transform[4] += dx
	c.Transform[5] += dy
	return true
}

// ToggleNodeSmooth flips the smoothness of a path node.
func ToggleNodeSmooth(l *Layer, shape, node int) bool {
	p, ok := l.Path(shape)
	if !ok || node < 0 || node >= len(p.Nodes) {
		return false
	}
	p.Nodes[node].ToggleSmooth()
	return true
}
