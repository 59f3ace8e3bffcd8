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

// Package compstack implements navigation into nested components.
//
// At depth 0 the top-level glyph outline is edited. Entering a component
// pushes a frame and makes the referenced glyph's layer the current one;
// exiting pops the frame and restores the parent layer together with the
// selection which was active before the component was entered.
package compstack

import (
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/affine"
	"seehuhn.de/go/glyphedit/glyph"
	"seehuhn.de/go/glyphedit/selection"
)

// Frame records one level of component nesting.
type Frame struct {
	// ComponentIndex is the shape index of the entered component in the
	// parent layer.
	ComponentIndex int

	// Glyph is the name of the glyph owning Parent.
	Glyph  string
	Parent *glyph.Layer

	// Before is the accumulated transform at the time of entry, and
	// Component the transform of the entered component.
	Before    matrix.Matrix
	Component matrix.Matrix

	// Ref is the name of the entered glyph.
	Ref string

	// Saved is the parent's selection at the time of entry.
	Saved selection.Snapshot
}

// Stack is the component navigation stack of one editing session.
// The zero value is an empty stack without a layer.
type Stack struct {
	root    string
	glyph   string
	current *glyph.Layer
	frames  []Frame
}

// Reset discards all frames and starts editing layer l of the named glyph
// at depth 0.
func (s *Stack) Reset(glyphName string, l *glyph.Layer) {
	s.root = glyphName
	s.glyph = glyphName
	s.current = l
	s.frames = s.frames[:0]
}

// Depth returns the number of entered components.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Current returns the layer edited at the current depth.
func (s *Stack) Current() *glyph.Layer {
	return s.current
}

// Glyph returns the name of the glyph owning the current layer.
func (s *Stack) Glyph() string {
	return s.glyph
}

// Root returns the name of the glyph edited at depth 0.
func (s *Stack) Root() string {
	return s.root
}

// RootLayer returns the layer edited at depth 0.
func (s *Stack) RootLayer() *glyph.Layer {
	if len(s.frames) > 0 {
		return s.frames[0].Parent
	}
	return s.current
}

// Frames returns the frames, outermost first. The slice must not be
// modified.
func (s *Stack) Frames() []Frame {
	return s.frames
}

// Indices returns the recorded component indices, outermost first.
func (s *Stack) Indices() []int {
	res := make([]int, len(s.frames))
	for i, f := range s.frames {
		res[i] = f.ComponentIndex
	}
	return res
}

// Breadcrumbs returns the names of the glyphs on the navigation path,
// starting with the top-level glyph.
func (s *Stack) Breadcrumbs() []string {
	if s.root == "" {
		return nil
	}
	res := make([]string, 0, len(s.frames)+1)
	res = append(res, s.root)
	for _, f := range s.frames {
		res = append(res, f.Ref)
	}
	return res
}

// Target returns the component at shape index i of the current layer, if
// it can be entered.
func (s *Stack) Target(i int) (*glyph.Component, bool) {
	c, ok := s.current.Component(i)
	if !ok || c.Ref == "" {
		return nil, false
	}
	return c, true
}

// Accumulated composes the transforms of all entered components,
// outermost to innermost. It maps coordinates of the current layer into
// the coordinates of the top-level glyph. The result is the identity if
// the stack is empty.
func (s *Stack) Accumulated() matrix.Matrix {
	acc := matrix.Identity
	for _, f := range s.frames {
		acc = affine.Compose(acc, f.Component)
	}
	return acc
}

// Enter descends into the component at shape index i of the current
// layer. The nested layer must have been resolved by the caller.
// The selection is saved in the new frame and then cleared.
//
// If shape i is not a component with a reference, or nested is nil,
// nothing changes and false is returned.
func (s *Stack) Enter(i int, nested *glyph.Layer, sel *selection.State) bool {
	c, ok := s.Target(i)
	if !ok || nested == nil {
		glyphedit.Logger().Debug("cannot enter shape", "glyph", s.glyph, "shape", i)
		return false
	}
	f := Frame{
		ComponentIndex: i,
		Glyph:          s.glyph,
		Parent:         s.current,
		Before:         s.Accumulated(),
		Component:      c.Matrix(),
		Ref:            c.Ref,
	}
	if sel != nil {
		f.Saved = sel.Snapshot()
		sel.Clear()
	}
	s.frames = append(s.frames, f)
	s.glyph = c.Ref
	s.current = nested
	return true
}

// Exit returns to the parent layer, restoring the selection saved when
// the component was entered. Exit returns false if the stack is empty.
func (s *Stack) Exit(sel *selection.State) bool {
	n := len(s.frames)
	if n == 0 {
		return false
	}
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]
	s.current = f.Parent
	s.glyph = f.Glyph
	if sel != nil {
		sel.Restore(f.Saved)
	}
	return true
}

// ExitTo pops frames until the given depth is reached.
// It returns false if depth is negative or not below the current depth.
func (s *Stack) ExitTo(depth int, sel *selection.State) bool {
	if depth < 0 || depth >= len(s.frames) {
		return false
	}
	for len(s.frames) > depth {
		s.Exit(sel)
	}
	return true
}

// ExitAll returns to depth 0.
func (s *Stack) ExitAll(sel *selection.State) {
	for s.Exit(sel) {
	}
}

// Refresh rebuilds the stack on top of a new layer of the top-level
// glyph, replaying the recorded component indices. This is used when the
// active layer changes while a component is being edited.
//
// resolve returns the layer of a referenced glyph in the new context, or
// nil if it is not available. If an index is no longer valid the rebuild
// stops at that depth. Refresh returns the depth which was reached.
func (s *Stack) Refresh(root *glyph.Layer, resolve func(ref string) *glyph.Layer) int {
	old := s.frames
	s.frames = nil
	s.glyph = s.root
	s.current = root

	for depth, f := range old {
		c, ok := s.Target(f.ComponentIndex)
		var nested *glyph.Layer
		if ok {
			nested = resolve(c.Ref)
		}
		if nested == nil || !s.Enter(f.ComponentIndex, nested, nil) {
			glyphedit.Logger().Warn("component stack refresh stopped early",
				"glyph", s.root, "reached", depth, "wanted", len(old))
			return depth
		}
		s.frames[depth].Saved = f.Saved
	}
	return len(s.frames)
}
