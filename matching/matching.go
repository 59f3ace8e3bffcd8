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

// Package matching decides whether the current axis location coincides
// with a master, so that the master's layer can be edited directly, or
// whether an interpolated preview has to be shown.
//
// All locations in this package are in user space.
package matching

import (
	"seehuhn.de/go/glyphedit/fontdata"
	"seehuhn.de/go/glyphedit/glyph"
)

// Match returns the first layer, in stored order, whose master sits
// exactly at loc. Every axis given in the master's location must equal
// the corresponding value of loc, where a missing axis in loc counts as
// zero. Layers whose master is unknown are skipped.
func Match(loc glyph.Location, layers []fontdata.LayerSummary, masters []glyph.Master) (string, bool) {
	for _, l := range layers {
		m, ok := findMaster(masters, l.Master())
		if !ok {
			continue
		}
		if at(m.Location, loc) {
			return l.ID, true
		}
	}
	return "", false
}

func findMaster(masters []glyph.Master, id string) (glyph.Master, bool) {
	for _, m := range masters {
		if m.ID == id {
			return m, true
		}
	}
	return glyph.Master{}, false
}

// at reports whether every axis of master has the same value in loc.
func at(master, loc glyph.Location) bool {
	for tag, v := range master {
		if loc.Get(tag) != v {
			return false
		}
	}
	return true
}

// Decision is the outcome of [Matcher.Evaluate].
type Decision int

// These are the possible decisions.
const (
	// Unchanged means that the previous decision still holds.
	Unchanged Decision = iota

	// Select means that the layer in [Result.LayerID] should become the
	// current layer.
	Select

	// Deselect means that no master matches and an interpolated preview
	// should be shown.
	Deselect
)

func (d Decision) String() string {
	switch d {
	case Unchanged:
		return "unchanged"
	case Select:
		return "select"
	case Deselect:
		return "deselect"
	default:
		return "invalid"
	}
}

// Result is returned by [Matcher.Evaluate].
type Result struct {
	Decision Decision
	LayerID  string
}

// Matcher tracks the matched layer of one glyph across axis changes.
// Evaluating the same location twice gives [Unchanged] the second time.
//
// The zero value is ready to use and has no layer selected.
type Matcher struct {
	valid    bool
	selected bool
	layerID  string
}

// Evaluate matches loc against the masters of the glyph described by info.
func (m *Matcher) Evaluate(loc glyph.Location, info *fontdata.GlyphInfo) Result {
	var id string
	var ok bool
	if info != nil {
		id, ok = Match(loc, info.Layers, info.Masters)
	}

	if m.valid && ok == m.selected && id == m.layerID {
		return Result{Decision: Unchanged, LayerID: id}
	}
	m.valid = true
	m.selected = ok
	m.layerID = id
	if ok {
		return Result{Decision: Select, LayerID: id}
	}
	return Result{Decision: Deselect}
}

// Set records a layer selected by other means, for example from a layer
// list. An empty layerID records that no layer is selected.
func (m *Matcher) Set(layerID string) {
	m.valid = true
	m.selected = layerID != ""
	m.layerID = layerID
}

// Current returns the currently matched layer.
func (m *Matcher) Current() (string, bool) {
	return m.layerID, m.selected
}

// Reset forgets the previous decision. The next call to Evaluate never
// returns [Unchanged].
func (m *Matcher) Reset() {
	*m = Matcher{}
}
