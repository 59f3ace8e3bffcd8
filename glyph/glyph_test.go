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
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func square(x0, y0, size float64) *Path {
	return &Path{Nodes: []Node{
		{X: x0, Y: y0, Type: Line},
		{X: x0 + size, Y: y0, Type: Line},
		{X: x0 + size, Y: y0 + size, Type: Line},
		{X: x0, Y: y0 + size, Type: Line},
	}}
}

func translated(ref string, tx, ty float64) *Component {
	return &Component{Ref: ref, Transform: &matrix.Matrix{1, 0, 0, 1, tx, ty}}
}

func TestToggleSmoothInvolution(t *testing.T) {
	all := []NodeType{Curve, CurveSmooth, Line, LineSmooth, OffCurve, OffCurveSmooth, QuadControl, "x"}
	for _, nt := range all {
		once := ToggleSmooth(nt)
		if twice := ToggleSmooth(once); twice != nt {
			t.Errorf("%q: toggled twice gives %q", nt, twice)
		}
		if nt == QuadControl && once != nt {
			t.Errorf("quadratic control changed to %q", once)
		}
		if nt != QuadControl && nt != "x" {
			if once.IsSmooth() == nt.IsSmooth() {
				t.Errorf("%q: smoothness did not flip", nt)
			}
			if once.IsOffCurve() != nt.IsOffCurve() {
				t.Errorf("%q: kind changed to %q", nt, once)
			}
		}
	}
}

func TestMoveOutOfRange(t *testing.T) {
	l := &Layer{
		Shapes:  []Shape{square(0, 0, 10), &Component{Ref: "period"}},
		Anchors: []Anchor{{Name: "top", X: 5, Y: 20}},
	}
	cases := []struct {
		name string
		ok   bool
		call func() bool
	}{
		{"node", true, func() bool { return MoveNode(l, 0, 1, 1, 1) }},
		{"node_bad_shape", false, func() bool { return MoveNode(l, 5, 0, 1, 1) }},
		{"node_bad_index", false, func() bool { return MoveNode(l, 0, 4, 1, 1) }},
		{"node_on_component", false, func() bool { return MoveNode(l, 1, 0, 1, 1) }},
		{"anchor", true, func() bool { return MoveAnchor(l, 0, 1, 1) }},
		{"anchor_bad", false, func() bool { return MoveAnchor(l, -1, 1, 1) }},
		{"component", true, func() bool { return MoveComponentOrigin(l, 1, 3, 4) }},
		{"component_on_path", false, func() bool { return MoveComponentOrigin(l, 0, 3, 4) }},
		{"nil_layer", false, func() bool { return MoveNode(nil, 0, 0, 1, 1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.call(); got != tc.ok {
				t.Errorf("got %t, want %t", got, tc.ok)
			}
		})
	}

	p := l.Shapes[0].(*Path)
	if p.Nodes[1].X != 11 || p.Nodes[1].Y != 1 {
		t.Errorf("node moved to (%g, %g)", p.Nodes[1].X, p.Nodes[1].Y)
	}
	c := l.Shapes[1].(*Component)
	if c.Transform == nil || *c.Transform != (matrix.Matrix{1, 0, 0, 1, 3, 4}) {
		t.Errorf("component transform = %v", c.Transform)
	}
}

func TestOutlineSegments(t *testing.T) {
	p := &Path{Nodes: []Node{
		{X: 0, Y: 0, Type: Line},
		{X: 100, Y: 0, Type: Line},
		{X: 100, Y: 50, Type: OffCurve},
		{X: 50, Y: 100, Type: OffCurve},
		{X: 0, Y: 100, Type: CurveSmooth},
		{X: 0, Y: 50, Type: QuadControl},
	}}
	got := p.Outline()
	want := []path.Command{path.CmdMoveTo, path.CmdLineTo, path.CmdCubeTo, path.CmdQuadTo, path.CmdClose}
	if len(got.Cmds) != len(want) {
		t.Fatalf("commands = %v, want %v", got.Cmds, want)
	}
	for i := range want {
		if got.Cmds[i] != want[i] {
			t.Errorf("command %d = %v, want %v", i, got.Cmds[i], want[i])
		}
	}
	if last := got.Coords[len(got.Coords)-1]; last != (vec.Vec2{X: 0, Y: 0}) {
		t.Errorf("quadratic ends at %v", last)
	}
}

func TestOutlineStartsOnCurve(t *testing.T) {
	p := &Path{Nodes: []Node{
		{X: 0, Y: 50, Type: OffCurve},
		{X: 0, Y: 0, Type: Curve},
		{X: 50, Y: 0, Type: Line},
	}}
	got := p.Outline()
	if got.Cmds[0] != path.CmdMoveTo || got.Coords[0] != (vec.Vec2{X: 0, Y: 0}) {
		t.Errorf("outline starts with %v at %v", got.Cmds[0], got.Coords[0])
	}

	offOnly := &Path{Nodes: []Node{{Type: OffCurve}, {X: 1, Type: OffCurve}}}
	if d := offOnly.Outline(); len(d.Cmds) != 0 {
		t.Errorf("off-curve only contour produced %v", d.Cmds)
	}
}

func TestAxisMapping(t *testing.T) {
	ax := Axis{Tag: "wght", Min: 100, Default: 400, Max: 900, Map: []AxisMap{
		{User: 100, Design: 20},
		{User: 400, Design: 80},
		{User: 900, Design: 200},
	}}
	cases := []struct{ user, design float64 }{
		{100, 20}, {250, 50}, {400, 80}, {650, 140}, {900, 200},
	}
	for _, c := range cases {
		if got := ax.UserToDesign(c.user); math.Abs(got-c.design) > 1e-9 {
			t.Errorf("UserToDesign(%g) = %g, want %g", c.user, got, c.design)
		}
		if got := ax.DesignToUser(c.design); math.Abs(got-c.user) > 1e-9 {
			t.Errorf("DesignToUser(%g) = %g, want %g", c.design, got, c.user)
		}
	}

	plain := Axis{Tag: "wdth"}
	if got := plain.UserToDesign(87.5); got != 87.5 {
		t.Errorf("unmapped axis changed value to %g", got)
	}
}

func TestLocationEqual(t *testing.T) {
	a := Location{"wght": 400, "wdth": 0}
	b := Location{"wght": 400}
	if !a.Equal(b) || !b.Equal(a) {
		t.Error("missing axis should count as zero")
	}
	if a.Equal(Location{"wght": 400.0001}) {
		t.Error("different locations compare equal")
	}
}

func TestFlattenCycle(t *testing.T) {
	a := NewArena()
	a.Put(Key{"A", "m"}, &Layer{Shapes: []Shape{square(0, 0, 10), translated("B", 100, 0)}})
	a.Put(Key{"B", "m"}, &Layer{Shapes: []Shape{square(0, 0, 20), translated("A", 0, 100)}})

	root, _ := a.Get(Key{"A", "m"})
	placed := a.Flatten("m", "A", root.Shapes[1].(*Component))
	if len(placed) != 1 {
		t.Fatalf("got %d placed paths, want 1", len(placed))
	}
	if placed[0].Glyph != "B" || placed[0].Transform[4] != 100 {
		t.Errorf("unexpected placement %+v", placed[0])
	}
	if !a.Renderable("m", "A", root) {
		t.Error("layer with cyclic component should still be renderable")
	}
}

func TestFlattenNestedTransforms(t *testing.T) {
	a := NewArena()
	a.Put(Key{"colon", "m"}, &Layer{Shapes: []Shape{
		translated("period", 0, 0),
		translated("period", 0, 300),
	}})
	scaled := matrix.Matrix{2, 0, 0, 2, 10, 10}
	a.Put(Key{"dots", "m"}, &Layer{Shapes: []Shape{&Component{Ref: "colon", Transform: &scaled}}})
	a.Put(Key{"period", "m"}, &Layer{Shapes: []Shape{square(0, 0, 50)}})

	dots, _ := a.Get(Key{"dots", "m"})
	placed := a.Flatten("m", "dots", dots.Shapes[0].(*Component))
	if len(placed) != 2 {
		t.Fatalf("got %d placed paths, want 2", len(placed))
	}
	want := matrix.Matrix{2, 0, 0, 2, 10, 610}
	if placed[1].Transform != want {
		t.Errorf("second period transform = %v, want %v", placed[1].Transform, want)
	}

	r, ok := a.Bounds("m", "dots", dots)
	if !ok || r.LLx != 10 || r.URy != 710 {
		t.Errorf("bounds = %v, %t", r, ok)
	}
}

func TestCloneIsDeep(t *testing.T) {
	l := &Layer{ID: "m", Shapes: []Shape{square(0, 0, 1), translated("x", 1, 1)}}
	c := l.Clone()
	MoveNode(c, 0, 0, 5, 5)
	MoveComponentOrigin(c, 1, 5, 5)
	if l.Shapes[0].(*Path).Nodes[0].X != 0 {
		t.Error("clone shares nodes")
	}
	if l.Shapes[1].(*Component).Transform[4] != 1 {
		t.Error("clone shares transform")
	}
}
