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

// Package selection tracks the selected and hovered points, anchors and
// components of the layer being edited, and converts pointer motion into
// geometry edits.
package selection

import (
	"cmp"
	"maps"
	"slices"
)

// Kind is the category of an editable entity.
type Kind int

// The entity categories.
const (
	None Kind = iota
	Point
	Anchor
	Component
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case Anchor:
		return "anchor"
	case Component:
		return "component"
	}
	return "none"
}

// PointRef identifies a node by shape index and node index.
type PointRef struct {
	Shape int
	Node  int
}

// Entity identifies a single point, anchor or component.
// For anchors only Index is used, for components only Shape.
type Entity struct {
	Kind  Kind
	Shape int
	Node  int
	Index int
}

// PointEntity returns the entity for a point.
func PointEntity(shape, node int) Entity {
	return Entity{Kind: Point, Shape: shape, Node: node}
}

// AnchorEntity returns the entity for an anchor.
func AnchorEntity(i int) Entity {
	return Entity{Kind: Anchor, Index: i}
}

// ComponentEntity returns the entity for a component.
func ComponentEntity(shape int) Entity {
	return Entity{Kind: Component, Shape: shape}
}

// State holds the current selection and hover.
//
// The three selection sets are independent of each other. Hover is
// single-valued: at most one entity is hovered at any time.
type State struct {
	points     map[PointRef]bool
	anchors    map[int]bool
	components map[int]bool

	hover Entity

	// extended is set by shift-clicks and cleared when a plain click
	// resets the selection.
	extended bool
}

// New returns an empty selection.
func New() *State {
	return &State{
		points:     make(map[PointRef]bool),
		anchors:    make(map[int]bool),
		components: make(map[int]bool),
	}
}

// Snapshot is a copy of the three selection sets.
type Snapshot struct {
	Points     []PointRef
	Anchors    []int
	Components []int
}

// Snapshot returns a copy of the selection sets in sorted order.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Points:     s.Points(),
		Anchors:    s.Anchors(),
		Components: s.Components(),
	}
}

// Restore replaces the selection sets with the contents of snap and
// clears the hover.
func (s *State) Restore(snap Snapshot) {
	s.Clear()
	for _, p := range snap.Points {
		s.points[p] = true
	}
	for _, a := range snap.Anchors {
		s.anchors[a] = true
	}
	for _, c := range snap.Components {
		s.components[c] = true
	}
	s.extended = false
}

// Clear empties all selection sets and the hover.
func (s *State) Clear() {
	clear(s.points)
	clear(s.anchors)
	clear(s.components)
	s.hover = Entity{}
	s.extended = false
}

// Empty reports whether nothing is selected.
func (s *State) Empty() bool {
	return len(s.points) == 0 && len(s.anchors) == 0 && len(s.components) == 0
}

// Points returns the selected points, sorted by shape and node.
func (s *State) Points() []PointRef {
	res := slices.Collect(maps.Keys(s.points))
	slices.SortFunc(res, func(a, b PointRef) int {
		if c := cmp.Compare(a.Shape, b.Shape); c != 0 {
			return c
		}
		return cmp.Compare(a.Node, b.Node)
	})
	return res
}

// Anchors returns the selected anchor indices in increasing order.
func (s *State) Anchors() []int {
	return slices.Sorted(maps.Keys(s.anchors))
}

// Components returns the selected shape indices of components in
// increasing order.
func (s *State) Components() []int {
	return slices.Sorted(maps.Keys(s.components))
}

// ClearComponents deselects all components.
func (s *State) ClearComponents() {
	clear(s.components)
}

// Contains reports whether e is selected.
func (s *State) Contains(e Entity) bool {
	switch e.Kind {
	case Point:
		return s.points[PointRef{e.Shape, e.Node}]
	case Anchor:
		return s.anchors[e.Index]
	case Component:
		return s.components[e.Shape]
	}
	return false
}

func (s *State) count(k Kind) int {
	switch k {
	case Point:
		return len(s.points)
	case Anchor:
		return len(s.anchors)
	case Component:
		return len(s.components)
	}
	return 0
}

func (s *State) set(e Entity, on bool) {
	switch e.Kind {
	case Point:
		ref := PointRef{e.Shape, e.Node}
		if on {
			s.points[ref] = true
		} else {
			delete(s.points, ref)
		}
	case Anchor:
		if on {
			s.anchors[e.Index] = true
		} else {
			delete(s.anchors, e.Index)
		}
	case Component:
		if on {
			s.components[e.Shape] = true
		} else {
			delete(s.components, e.Shape)
		}
	}
}

func (s *State) clearKind(k Kind) {
	switch k {
	case Point:
		clear(s.points)
	case Anchor:
		clear(s.anchors)
	case Component:
		clear(s.components)
	}
}

// Click updates the selection for a click on e.
//
// A shift-click toggles e and leaves the other categories alone. A plain
// click on an already selected entity keeps the selection, so that a
// multi-selection can be dragged. A plain click on an unselected entity
// makes it the only member of its category. The other categories are
// cleared too, unless the selection was built up with shift-clicks and
// the clicked category already had members.
//
// A plain click on nothing (Kind None) clears everything.
func (s *State) Click(e Entity, shift bool) {
	if e.Kind == None {
		if !shift {
			clear(s.points)
			clear(s.anchors)
			clear(s.components)
			s.extended = false
		}
		return
	}

	if shift {
		s.set(e, !s.Contains(e))
		s.extended = true
		return
	}

	if s.Contains(e) {
		return
	}

	keepOthers := s.extended && s.count(e.Kind) > 0
	s.clearKind(e.Kind)
	s.set(e, true)
	if keepOthers {
		return
	}
	for _, k := range []Kind{Point, Anchor, Component} {
		if k != e.Kind {
			s.clearKind(k)
		}
	}
	s.extended = false
}

// Hover returns the hovered entity. The Kind is None if nothing is
// hovered.
func (s *State) Hover() Entity {
	return s.hover
}

// SetHover sets the hovered entity and reports whether it changed.
func (s *State) SetHover(e Entity) bool {
	if e.Kind == None {
		e = Entity{}
	}
	if e == s.hover {
		return false
	}
	s.hover = e
	return true
}

// ClearHover removes the hover and reports whether one was set.
func (s *State) ClearHover() bool {
	return s.SetHover(Entity{})
}
