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
	"slices"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/glyph"
)

// RestoreReason tells why a restore entry was recorded.
type RestoreReason int

// These are the reasons for restore entries.
const (
	// RestoreSlider records the layer and location before a slider drag
	// moved away from it.
	RestoreSlider RestoreReason = iota + 1

	// RestoreComponent records a descent into a component.
	RestoreComponent
)

func (r RestoreReason) String() string {
	switch r {
	case RestoreSlider:
		return "slider"
	case RestoreComponent:
		return "component"
	default:
		return "invalid"
	}
}

type restoreEntry struct {
	reason RestoreReason

	// RestoreSlider
	loc     glyph.Location
	layerID string

	// RestoreComponent: the depth to return to
	depth int
}

// escapeOrder lists the restore reasons in the order Escape handles
// them. With no entry left, Escape leaves edit mode.
var escapeOrder = []RestoreReason{RestoreSlider, RestoreComponent}

func (e *Editor) pushRestore(r restoreEntry) {
	e.restore = append(e.restore, r)
}

// dropRestore removes all entries with the given reason.
func (e *Editor) dropRestore(reason RestoreReason) {
	e.restore = slices.DeleteFunc(e.restore, func(r restoreEntry) bool {
		return r.reason == reason
	})
}

// trimComponentEntries removes component entries which point at or below
// the given depth.
func (e *Editor) trimComponentEntries(depth int) {
	e.restore = slices.DeleteFunc(e.restore, func(r restoreEntry) bool {
		return r.reason == RestoreComponent && r.depth >= depth
	})
}

func (e *Editor) escape() {
	for _, reason := range escapeOrder {
		for i := len(e.restore) - 1; i >= 0; i-- {
			r := e.restore[i]
			if r.reason != reason {
				continue
			}
			e.restore = append(e.restore[:i], e.restore[i+1:]...)
			e.undo(r)
			return
		}
	}
	if e.glyph != "" {
		e.closeGlyph()
	}
}

func (e *Editor) undo(r restoreEntry) {
	log := glyphedit.Logger()
	switch r.reason {
	case RestoreSlider:
		log.Info("restoring layer after slider change", "glyph", e.glyph, "layer", r.layerID)
		e.slider = false
		e.loc = r.loc
		e.matcher.Set(r.layerID)
		e.selectLayer(r.layerID)
	case RestoreComponent:
		e.drag.End()
		e.stack.ExitTo(r.depth, e.sel)
		e.trimComponentEntries(r.depth)
	}
}
