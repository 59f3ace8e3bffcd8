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

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/affine"
)

// Arena stores layers by glyph name and layer ID. Components refer to
// other glyphs by name only; the referenced geometry is looked up in the
// arena when needed, so that the layer graph never contains pointers
// between layers.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	layers map[Key]*Layer
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{layers: make(map[Key]*Layer)}
}

// Put stores l under the given key, replacing any previous layer.
func (a *Arena) Put(k Key, l *Layer) {
	if l == nil {
		delete(a.layers, k)
		return
	}
	a.layers[k] = l
}

// Get returns the layer stored under k.
func (a *Arena) Get(k Key) (*Layer, bool) {
	l, ok := a.layers[k]
	return l, ok
}

// Load stores a resolved layer and all its nested layers under layerID.
func (a *Arena) Load(layerID string, r *Resolved) {
	if r == nil {
		return
	}
	a.Put(Key{Glyph: r.Glyph, Layer: layerID}, r.Layer)
	for name, l := range r.Nested {
		a.Put(Key{Glyph: name, Layer: layerID}, l)
	}
}

// Drop removes all layers stored under layerID.
func (a *Arena) Drop(layerID string) {
	for k := range a.layers {
		if k.Layer == layerID {
			delete(a.layers, k)
		}
	}
}

// Reset removes all layers.
func (a *Arena) Reset() {
	clear(a.layers)
}

// Nested returns the layer a component resolves to when it appears in a
// layer with the given ID.
func (a *Arena) Nested(layerID string, c *Component) (*Layer, bool) {
	if c == nil || c.Ref == "" {
		return nil, false
	}
	return a.Get(Key{Glyph: c.Ref, Layer: layerID})
}

// Placed is a path together with the transform which maps it into the
// coordinate system of the layer being resolved.
type Placed struct {
	Glyph     string
	Path      *Path
	Transform matrix.Matrix
}

// Flatten returns every path reachable through the component c, which
// appears in glyph owner, with the combined transform of all components
// on the way. Each resolution pass keeps a set of visited glyph names;
// a branch which would visit a glyph a second time is dropped.
func (a *Arena) Flatten(layerID, owner string, c *Component) []Placed {
	visited := map[string]bool{owner: true}
	var res []Placed
	a.flatten(layerID, c, matrix.Identity, visited, &res)
	return res
}

func (a *Arena) flatten(layerID string, c *Component, base matrix.Matrix, visited map[string]bool, res *[]Placed) {
	if c.Ref == "" {
		return
	}
	if visited[c.Ref] {
		glyphedit.Logger().Warn("cyclic component reference", "glyph", c.Ref)
		return
	}
	nested, ok := a.Nested(layerID, c)
	if !ok {
		return
	}
	m := affine.Compose(base, c.Matrix())

	visited[c.Ref] = true
	defer delete(visited, c.Ref)

	for _, s := range nested.Shapes {
		switch s := s.(type) {
		case *Path:
			*res = append(*res, Placed{Glyph: c.Ref, Path: s, Transform: m})
		case *Component:
			a.flatten(layerID, s, m, visited, res)
		}
	}
}

// Renderable reports whether the layer, or any geometry reachable through
// its components, contains at least one node.
func (a *Arena) Renderable(layerID, owner string, l *Layer) bool {
	if l == nil {
		return false
	}
	for _, s := range l.Shapes {
		switch s := s.(type) {
		case *Path:
			if len(s.Nodes) > 0 {
				return true
			}
		case *Component:
			for _, p := range a.Flatten(layerID, owner, s) {
				if len(p.Path.Nodes) > 0 {
					return true
				}
			}
		}
	}
	return false
}

// ComponentBounds returns the bounding box of all nodes reachable through
// c, in the coordinate system of the layer containing c. The box covers
// control points, so it is conservative for curves.
func (a *Arena) ComponentBounds(layerID, owner string, c *Component) (rect.Rect, bool) {
	b := newBounds()
	for _, p := range a.Flatten(layerID, owner, c) {
		for _, n := range p.Path.Nodes {
			b.add(affine.Apply(p.Transform, n.Point()))
		}
	}
	return b.rect()
}

// Bounds returns the bounding box of the nodes and anchors of l and of
// the geometry of its components.
func (a *Arena) Bounds(layerID, owner string, l *Layer) (rect.Rect, bool) {
	b := newBounds()
	if l == nil {
		return b.rect()
	}
	for _, s := range l.Shapes {
		switch s := s.(type) {
		case *Path:
			for _, n := range s.Nodes {
				b.add(n.Point())
			}
		case *Component:
			if r, ok := a.ComponentBounds(layerID, owner, s); ok {
				b.add(vec.Vec2{X: r.LLx, Y: r.LLy})
				b.add(vec.Vec2{X: r.URx, Y: r.URy})
			}
		}
	}
	for _, an := range l.Anchors {
		b.add(vec.Vec2{X: an.X, Y: an.Y})
	}
	return b.rect()
}

type bounds struct {
	r   rect.Rect
	any bool
}

func newBounds() *bounds {
	return &bounds{r: rect.Rect{
		LLx: math.Inf(1), LLy: math.Inf(1),
		URx: math.Inf(-1), URy: math.Inf(-1),
	}}
}

func (b *bounds) add(p vec.Vec2) {
	b.any = true
	b.r.LLx = min(b.r.LLx, p.X)
	b.r.LLy = min(b.r.LLy, p.Y)
	b.r.URx = max(b.r.URx, p.X)
	b.r.URy = max(b.r.URy, p.Y)
}

func (b *bounds) rect() (rect.Rect, bool) {
	if !b.any {
		return rect.Rect{}, false
	}
	return b.r, true
}
