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
	"context"
	"maps"
	"slices"
	"time"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/glyph"
	"seehuhn.de/go/glyphedit/hittest"
	"seehuhn.de/go/glyphedit/selection"
)

// editable reports whether the displayed geometry may be modified.
func (e *Editor) editable() bool {
	l := e.stack.Current()
	return l != nil && !l.Interpolated && !e.preview
}

func (e *Editor) hitTest(p vec.Vec2) selection.Entity {
	return e.hit.Test(hittest.Query{
		Point:    p,
		Viewport: e.viewport,
		Stack:    e.stack.Accumulated(),
		Layer:    e.stack.Current(),
		Glyph:    e.stack.Glyph(),
		LayerID:  e.shown,
	})
}

func (e *Editor) local(p vec.Vec2) (vec.Vec2, bool) {
	q, _, ok := hittest.Local(p, e.viewport, e.stack.Accumulated())
	return q, ok
}

func (e *Editor) pointerDown(p vec.Vec2, shift bool) bool {
	h := e.hitTest(p)
	e.sel.Click(h, shift)
	e.sel.SetHover(h)
	if h.Kind != selection.None && !shift && e.editable() {
		if q, ok := e.local(p); ok {
			e.drag.Begin(q)
		}
	}
	return true
}

// pointerMove moves the selection during a drag and updates the hover
// otherwise. A snapshot is only published if something changed.
func (e *Editor) pointerMove(p vec.Vec2) bool {
	if e.drag.Active() && !e.sel.Empty() {
		q, ok := e.local(p)
		if !ok {
			return false
		}
		delta, ok := e.drag.Move(q)
		if !ok || !e.editable() {
			return false
		}
		if selection.Apply(e.stack.Current(), e.sel, delta) {
			e.persist()
			return true
		}
		return false
	}
	return e.sel.SetHover(e.hitTest(p))
}

func (e *Editor) doubleClick(p vec.Vec2, other string) bool {
	if other != "" && other != e.glyph {
		e.openGlyph(other)
		return true
	}
	h := e.hitTest(p)
	switch h.Kind {
	case selection.Component:
		e.sel.ClearComponents()
		e.enterComponent(h.Shape)
		return true
	case selection.Point:
		return e.toggleSmooth(&selection.PointRef{Shape: h.Shape, Node: h.Node})
	}
	return false
}

// toggleSmooth toggles the selected points, or clicked if nothing is
// selected, and saves the layer.
func (e *Editor) toggleSmooth(clicked *selection.PointRef) bool {
	if !e.editable() {
		return false
	}
	ref := selection.PointRef{Shape: -1, Node: -1}
	if clicked != nil {
		ref = *clicked
	}
	if !selection.ToggleSmooth(e.stack.Current(), e.sel, ref) {
		return false
	}
	e.persist()
	return true
}

// enterComponent descends into a component. If the nested geometry is
// not yet known it is fetched first.
func (e *Editor) enterComponent(i int) bool {
	c, ok := e.stack.Target(i)
	if !ok {
		return false
	}
	if nested, ok := e.arena.Nested(e.shown, c); ok {
		e.descend(i, nested)
		return true
	}

	seq, key, depth, parent := e.seq, e.shown, e.stack.Depth(), e.stack.Current()
	ref := c.Ref
	e.spawn(func(ctx context.Context) func() {
		r, err := e.svc.ComponentLayerData(ctx, ref, key)
		return func() {
			if seq != e.seq || key != e.shown || depth != e.stack.Depth() || parent != e.stack.Current() {
				glyphedit.Logger().Debug("discarding stale component data", "glyph", ref)
				return
			}
			if err != nil {
				glyphedit.Logger().Warn("fetching component failed", "glyph", ref, "error", err)
				return
			}
			e.arena.Load(key, r)
			e.descend(i, r.Layer)
		}
	})
	return false
}

func (e *Editor) descend(i int, nested *glyph.Layer) {
	if !e.stack.Enter(i, nested, e.sel) {
		return
	}
	e.drag.End()
	e.pushRestore(restoreEntry{reason: RestoreComponent, depth: e.stack.Depth() - 1})
	glyphedit.Logger().Info("entered component",
		"glyph", e.stack.Glyph(), "depth", e.stack.Depth())
}

func (e *Editor) exitComponent(depth int) bool {
	if !e.stack.ExitTo(depth, e.sel) {
		return false
	}
	e.drag.End()
	e.trimComponentEntries(depth)
	return true
}

// persist saves the layer edited at the current depth. The call does not
// block; failures are logged. Interpolated layers are never saved.
func (e *Editor) persist() {
	l := e.stack.Current()
	if l == nil {
		return
	}
	if l.Interpolated || e.preview {
		glyphedit.Logger().Warn("not saving interpolated geometry", "glyph", e.stack.Glyph())
		return
	}

	key := glyph.Key{Glyph: e.stack.Glyph(), Layer: l.ID}
	e.version++
	e.dirty[key] = e.version
	p := pendingSave{layer: l.Clone(), version: e.version, root: e.stack.Root()}
	if e.saving[key] {
		// written once the running save has finished
		e.queued[key] = p
		return
	}
	e.save(key, p)
}

// pendingSave is a copy of a layer waiting to be written.
type pendingSave struct {
	layer   *glyph.Layer
	version uint64
	root    string
}

// save writes one layer. At most one save per layer runs at a time, so
// that an older copy never overwrites a newer one.
func (e *Editor) save(key glyph.Key, p pendingSave) {
	e.saving[key] = true
	e.spawn(func(ctx context.Context) func() {
		err := e.svc.SaveLayer(ctx, key.Glyph, key.Layer, p.layer)
		return func() {
			delete(e.saving, key)
			if err != nil {
				glyphedit.Logger().Warn("saving layer failed",
					"glyph", key.Glyph, "layer", key.Layer, "error", err)
			} else {
				if e.dirty[key] == p.version {
					delete(e.dirty, key)
				}
				e.scheduleCompile(key.Glyph, p.root)
			}
			if next, ok := e.queued[key]; ok {
				delete(e.queued, key)
				e.save(key, next)
			}
		}
	})
}

// scheduleCompile marks glyphs for recompilation. The compiler runs once
// the configured delay has passed without further edits.
func (e *Editor) scheduleCompile(glyphs ...string) {
	if e.compiler == nil {
		return
	}
	for _, g := range glyphs {
		if g != "" {
			e.compileGlyphs[g] = true
		}
	}
	if e.compileTimer == nil {
		e.compileTimer = time.NewTimer(e.cfg.RecompileDelay)
	} else {
		e.compileTimer.Reset(e.cfg.RecompileDelay)
	}
}

func (e *Editor) compileC() <-chan time.Time {
	if e.compileTimer == nil {
		return nil
	}
	return e.compileTimer.C
}

func (e *Editor) compile() {
	glyphs := slices.Sorted(maps.Keys(e.compileGlyphs))
	clear(e.compileGlyphs)
	if len(glyphs) == 0 {
		return
	}
	e.spawn(func(ctx context.Context) func() {
		err := e.compiler.Compile(ctx, glyphs)
		if err != nil {
			glyphedit.Logger().Warn("compiling font failed", "glyphs", glyphs, "error", err)
		} else {
			glyphedit.Logger().Debug("font compiled", "glyphs", glyphs)
		}
		return nil
	})
}
