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

package editor

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/glyphedit/glyph"
)

// Command is a user input for the editor. The command types are defined
// in this package.
type Command interface {
	// run executes the command on the event loop and reports whether a
	// new snapshot should be published.
	run(e *Editor) bool
}

// OpenGlyph starts editing the named glyph.
type OpenGlyph struct {
	Name string
}

func (c OpenGlyph) run(e *Editor) bool {
	e.openGlyph(c.Name)
	return true
}

// CloseGlyph leaves edit mode.
type CloseGlyph struct{}

func (CloseGlyph) run(e *Editor) bool {
	e.closeGlyph()
	return true
}

// SelectLayer selects a layer of the edited glyph, for example from a
// layer list. The axis location moves to the layer's master.
type SelectLayer struct {
	ID string
}

func (c SelectLayer) run(e *Editor) bool {
	e.chooseLayer(c.ID)
	return true
}

// SetAxes changes the axis location, given in user space. Dragging is set
// while a slider is being moved; the final position is sent with Dragging
// unset.
type SetAxes struct {
	Location glyph.Location
	Dragging bool
}

func (c SetAxes) run(e *Editor) bool {
	e.setAxes(c.Location, c.Dragging)
	return true
}

// SetViewport sets the transform from glyph coordinates to view
// coordinates.
type SetViewport struct {
	Matrix matrix.Matrix
}

func (c SetViewport) run(e *Editor) bool {
	e.viewport = c.Matrix
	return false
}

// PointerDown selects the entity under the pointer and starts a drag.
type PointerDown struct {
	Point vec.Vec2
	Shift bool
}

func (c PointerDown) run(e *Editor) bool {
	return e.pointerDown(c.Point, c.Shift)
}

// PointerMove updates the hover, or moves the selection while dragging.
type PointerMove struct {
	Point vec.Vec2
}

func (c PointerMove) run(e *Editor) bool {
	return e.pointerMove(c.Point)
}

// PointerUp ends a drag.
type PointerUp struct{}

func (PointerUp) run(e *Editor) bool {
	e.drag.End()
	return false
}

// DoubleClick enters a component, toggles the smoothness of points, or,
// if Glyph names a different glyph, switches to that glyph.
type DoubleClick struct {
	Point vec.Vec2
	Glyph string
}

func (c DoubleClick) run(e *Editor) bool {
	return e.doubleClick(c.Point, c.Glyph)
}

// EnterComponent enters the component at the given shape index of the
// current layer.
type EnterComponent struct {
	Shape int
}

func (c EnterComponent) run(e *Editor) bool {
	return e.enterComponent(c.Shape)
}

// ExitComponent returns to the given depth of the component stack, as
// when clicking a breadcrumb.
type ExitComponent struct {
	Depth int
}

func (c ExitComponent) run(e *Editor) bool {
	return e.exitComponent(c.Depth)
}

// Escape undoes the most recent slider interruption, or leaves the
// current component, or leaves edit mode, in this order of priority.
type Escape struct{}

func (Escape) run(e *Editor) bool {
	e.escape()
	return true
}

// ToggleSmooth toggles the smoothness of all selected points.
type ToggleSmooth struct{}

func (ToggleSmooth) run(e *Editor) bool {
	return e.toggleSmooth(nil)
}

// Save writes the current layer through the font data service.
type Save struct{}

func (Save) run(e *Editor) bool {
	e.persist()
	return true
}

type syncCmd struct {
	done chan struct{}
}

func (syncCmd) run(*Editor) bool { return false }

type snapshotCmd struct {
	reply chan Snapshot
}

func (snapshotCmd) run(*Editor) bool { return false }
