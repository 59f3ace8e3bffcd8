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

// Package glyph holds the geometry model of the editor: layers with their
// paths, components and anchors, and the primitives used to edit them in
// place.
package glyph

import (
	"slices"

	"seehuhn.de/go/geom/matrix"
)

// Layer is one concrete outline of a glyph.
type Layer struct {
	ID string

	// MasterID refers to the master this layer belongs to. It is empty for
	// master layers, whose own ID doubles as the master ID.
	MasterID string

	Name    string
	Shapes  []Shape
	Anchors []Anchor
	Width   float64

	// Interpolated marks synthesised preview geometry. Such layers are
	// never saved.
	Interpolated bool
}

// Master returns the ID of the master this layer belongs to.
func (l *Layer) Master() string {
	if l.MasterID != "" {
		return l.MasterID
	}
	return l.ID
}

// Path returns the i-th shape if it is a path.
func (l *Layer) Path(i int) (*Path, bool) {
	if l == nil || i < 0 || i >= len(l.Shapes) {
		return nil, false
	}
	p, ok := l.Shapes[i].(*Path)
	return p, ok
}

// Component returns the i-th shape if it is a component.
func (l *Layer) Component(i int) (*Component, bool) {
	if l == nil || i < 0 || i >= len(l.Shapes) {
		return nil, false
	}
	c, ok := l.Shapes[i].(*Component)
	return c, ok
}

// Clone returns a deep copy of l.
func (l *Layer) Clone() *Layer {
	if l == nil {
		return nil
	}
	res := *l
	if l.Shapes != nil {
		res.Shapes = make([]Shape, len(l.Shapes))
		for i, s := range l.Shapes {
			res.Shapes[i] = s.clone()
		}
	}
	res.Anchors = slices.Clone(l.Anchors)
	return &res
}

// Shape is either a *Path or a *Component.
type Shape interface {
	clone() Shape
}

// Path is an outline contour.
type Path struct {
	Nodes []Node

	// Open is set for contours which do not return to their first node.
	Open bool
}

func (p *Path) clone() Shape {
	return &Path{Nodes: slices.Clone(p.Nodes), Open: p.Open}
}

// Component places the geometry of another glyph into a layer.
type Component struct {
	// Ref is the name of the referenced glyph.
	Ref string

	// Transform maps the referenced geometry into the layer.
	// A nil Transform means identity.
	Transform *matrix.Matrix
}

// Matrix returns the effective transform of the component.
func (c *Component) Matrix() matrix.Matrix {
	if c.Transform == nil {
		return matrix.Identity
	}
	return *c.Transform
}

func (c *Component) clone() Shape {
	res := &Component{Ref: c.Ref}
	if c.Transform != nil {
		m := *c.Transform
		res.Transform = &m
	}
	return res
}

// Node is a single outline vertex.
type Node struct {
	X, Y float64
	Type NodeType
}

// Anchor is a named attachment point.
type Anchor struct {
	Name string
	X, Y float64
}

// Key identifies a layer of a glyph.
type Key struct {
	Glyph string
	Layer string
}

// InterpolatedLayer is the layer ID under which interpolated preview
// geometry is stored.
const InterpolatedLayer = "~interpolated"

// Resolved is a layer together with the layers of all glyphs reachable
// through its components, for the same layer ID.
type Resolved struct {
	Glyph string
	Layer *Layer

	// Nested maps referenced glyph names to their layers.
	Nested map[string]*Layer
}

// Clone returns a deep copy of r.
func (r *Resolved) Clone() *Resolved {
	if r == nil {
		return nil
	}
	res := &Resolved{Glyph: r.Glyph, Layer: r.Layer.Clone()}
	if r.Nested != nil {
		res.Nested = make(map[string]*Layer, len(r.Nested))
		for name, l := range r.Nested {
			res.Nested[name] = l.Clone()
		}
	}
	return res
}

// MarkInterpolated sets the Interpolated flag on the layer and all nested
// layers.
func (r *Resolved) MarkInterpolated() {
	if r == nil {
		return
	}
	if r.Layer != nil {
		r.Layer.Interpolated = true
	}
	for _, l := range r.Nested {
		if l != nil {
			l.Interpolated = true
		}
	}
}
