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

// Package hittest resolves pointer positions to the component, anchor or
// point under the pointer.
//
// Positions arrive in view coordinates. They are mapped through the
// inverse viewport transform into the coordinates of the edited glyph, and
// through the inverse of the accumulated component transform into the
// coordinates of the nesting level currently being edited. Hit radii are
// given in pixels and scaled by the current zoom.
package hittest

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/affine"
	"seehuhn.de/go/glyphedit/glyph"
	"seehuhn.de/go/glyphedit/selection"
)

// Default hit radii in pixels.
const (
	DefaultHitRadius       = 6
	DefaultComponentRadius = 12
)

// Query describes one hit test.
type Query struct {
	// Point is the pointer position in view coordinates.
	Point vec.Vec2

	// Viewport maps glyph coordinates to view coordinates.
	Viewport matrix.Matrix

	// Stack maps the coordinates of the edited nesting level to glyph
	// coordinates. This is the accumulated transform of the component
	// navigation stack.
	Stack matrix.Matrix

	// Layer is the layer being edited, Glyph the name of its glyph.
	Layer *glyph.Layer
	Glyph string

	// LayerID is the key under which nested component geometry is stored
	// in the arena.
	LayerID string
}

// Engine performs hit tests against the layers stored in an arena.
// An Engine is not safe for concurrent use.
type Engine struct {
	Arena *glyph.Arena

	// HitRadius is the pick radius for points and anchors, and
	// ComponentRadius the pick radius for component origin markers, both
	// in pixels.
	HitRadius       float64
	ComponentRadius float64

	// Flatness is the curve flattening tolerance in pixels.
	Flatness float64

	sampler *Sampler
}

// New returns an engine with the default radii and flatness.
func New(a *glyph.Arena) *Engine {
	return &Engine{
		Arena:           a,
		HitRadius:       DefaultHitRadius,
		ComponentRadius: DefaultComponentRadius,
		Flatness:        defaultFlatness,
	}
}

// Local maps a view position into the coordinates of the edited nesting
// level. It also returns the number of view pixels per local unit.
// The result is false if either transform is not invertible.
func Local(p vec.Vec2, viewport, stack matrix.Matrix) (vec.Vec2, float64, bool) {
	inv, err := affine.Invert(viewport)
	if err != nil {
		return vec.Vec2{}, 0, false
	}
	p = affine.Apply(inv, p)
	inv, err = affine.Invert(stack)
	if err != nil {
		return vec.Vec2{}, 0, false
	}
	p = affine.Apply(inv, p)
	scale := affine.Scale(affine.Compose(viewport, stack))
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return vec.Vec2{}, 0, false
	}
	return p, scale, true
}

// Test returns the entity under the pointer, in the order of priority
// components, anchors, points. If nothing is hit, or no layer is loaded,
// or a transform cannot be inverted, the result has kind
// [selection.None].
func (e *Engine) Test(q Query) selection.Entity {
	if q.Layer == nil {
		return selection.Entity{}
	}
	p, scale, ok := Local(q.Point, q.Viewport, q.Stack)
	if !ok {
		glyphedit.Logger().Warn("hit test skipped, transform not invertible",
			"glyph", q.Glyph)
		return selection.Entity{}
	}

	if i, ok := e.component(q, p, e.ComponentRadius/scale, scale); ok {
		return selection.ComponentEntity(i)
	}
	if i, ok := nearestAnchor(q.Layer, p, e.HitRadius/scale); ok {
		return selection.AnchorEntity(i)
	}
	if ref, ok := nearestPoint(q.Layer, p, e.HitRadius/scale); ok {
		return selection.PointEntity(ref.Shape, ref.Node)
	}
	return selection.Entity{}
}

// component tests the origin markers of all components first and falls
// back to the filled outlines of their resolved geometry.
func (e *Engine) component(q Query, p vec.Vec2, r, scale float64) (int, bool) {
	hit := -1
	best := r
	for i, s := range q.Layer.Shapes {
		c, ok := s.(*glyph.Component)
		if !ok {
			continue
		}
		m := c.Matrix()
		if d := p.Sub(vec.Vec2{X: m[4], Y: m[5]}).Length(); d <= best {
			hit, best = i, d
		}
	}
	if hit >= 0 {
		return hit, true
	}

	if e.Arena == nil {
		return -1, false
	}
	for i, s := range q.Layer.Shapes {
		c, ok := s.(*glyph.Component)
		if !ok {
			continue
		}
		if e.insideComponent(q, c, p, scale) {
			hit = i
		}
	}
	return hit, hit >= 0
}

// insideComponent reports whether p lies inside the filled outline of the
// geometry reachable through c. Every nested path is placed with the
// combined transform of all components leading to it, starting from the
// identity at the edited level.
func (e *Engine) insideComponent(q Query, c *glyph.Component, p vec.Vec2, scale float64) bool {
	bbox, ok := e.Arena.ComponentBounds(q.LayerID, q.Glyph, c)
	if !ok || p.X < bbox.LLx || p.X > bbox.URx || p.Y < bbox.LLy || p.Y > bbox.URy {
		return false
	}

	if e.sampler == nil {
		e.sampler = NewSampler()
	}
	s := e.sampler
	s.Clear()
	s.Flatness = e.Flatness / scale
	if !(s.Flatness > 0) {
		s.Flatness = defaultFlatness
	}
	for _, placed := range e.Arena.Flatten(q.LayerID, q.Glyph, c) {
		s.CTM = placed.Transform
		s.AddPath(placed.Path.Outline())
	}
	return s.Contains(p, NonZero)
}

// nearestAnchor returns the anchor closest to p within radius r.
// Of several anchors at the same distance the last one wins.
func nearestAnchor(l *glyph.Layer, p vec.Vec2, r float64) (int, bool) {
	hit := -1
	best := r
	for i, a := range l.Anchors {
		if d := p.Sub(vec.Vec2{X: a.X, Y: a.Y}).Length(); d <= best {
			hit, best = i, d
		}
	}
	return hit, hit >= 0
}

// nearestPoint returns the node closest to p within radius r, skipping
// component shapes. Of several nodes at the same distance the last one
// wins.
func nearestPoint(l *glyph.Layer, p vec.Vec2, r float64) (selection.PointRef, bool) {
	var hit selection.PointRef
	found := false
	best := r
	for si, s := range l.Shapes {
		path, ok := s.(*glyph.Path)
		if !ok {
			continue
		}
		for ni, n := range path.Nodes {
			if d := p.Sub(n.Point()).Length(); d <= best {
				hit = selection.PointRef{Shape: si, Node: ni}
				best = d
				found = true
			}
		}
	}
	return hit, found
}
