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

package selection

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/glyphedit/glyph"
)

// Drag converts successive pointer positions, given in the local
// coordinates of the layer being edited, into integer geometry deltas.
//
// Positions are rounded before they are differenced. Rounding the
// difference instead would lose sub-unit motion on every step and the
// dragged geometry would drift away from the pointer.
type Drag struct {
	active bool
	last   vec.Vec2
}

// Begin starts a drag at the given local position.
func (d *Drag) Begin(local vec.Vec2) {
	d.active = true
	d.last = local
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.active
}

// Move records the new pointer position and returns the delta to apply.
// The second return value is false if no drag is active or if the
// rounded position did not change.
func (d *Drag) Move(local vec.Vec2) (vec.Vec2, bool) {
	if !d.active {
		return vec.Vec2{}, false
	}
	delta := vec.Vec2{
		X: math.Round(local.X) - math.Round(d.last.X),
		Y: math.Round(local.Y) - math.Round(d.last.Y),
	}
	d.last = local
	if delta.X == 0 && delta.Y == 0 {
		return delta, false
	}
	return delta, true
}

// End stops the drag.
func (d *Drag) End() {
	d.active = false
}

// Apply moves every selected point, anchor and component origin of l by
// delta. Selected entities which no longer exist in l are skipped.
// The return value reports whether anything moved.
func Apply(l *glyph.Layer, s *State, delta vec.Vec2) bool {
	moved := false
	for ref := range s.points {
		moved = glyph.MoveNode(l, ref.Shape, ref.Node, delta.X, delta.Y) || moved
	}
	for i := range s.anchors {
		moved = glyph.MoveAnchor(l, i, delta.X, delta.Y) || moved
	}
	for i := range s.components {
		moved = glyph.MoveComponentOrigin(l, i, delta.X, delta.Y) || moved
	}
	return moved
}

// ToggleSmooth flips the smoothness of every selected point of l, or of
// clicked alone if no point is selected. The return value reports
// whether any node changed.
func ToggleSmooth(l *glyph.Layer, s *State, clicked PointRef) bool {
	refs := s.Points()
	if len(refs) == 0 {
		refs = []PointRef{clicked}
	}
	changed := false
	for _, ref := range refs {
		changed = glyph.ToggleNodeSmooth(l, ref.Shape, ref.Node) || changed
	}
	return changed
}
