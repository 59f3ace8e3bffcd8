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
	"errors"

	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/fontdata"
	"seehuhn.de/go/glyphedit/glyph"
	"seehuhn.de/go/glyphedit/interp"
	"seehuhn.de/go/glyphedit/matching"
)

// resetEditing discards all per-glyph state.
func (e *Editor) resetEditing() {
	if e.glyph != "" {
		e.interp.Cancel(e.glyph)
	}
	e.seq++
	e.stack.Reset("", nil)
	e.sel.Clear()
	e.drag.End()
	e.restore = e.restore[:0]
	e.matcher.Reset()
	e.arena.Reset()
	e.glyph = ""
	e.info = nil
	e.layerID = ""
	e.shown = ""
	e.preview = false
	e.previewAt = nil
	e.slider = false
}

func (e *Editor) closeGlyph() {
	glyphedit.Logger().Info("leaving edit mode", "glyph", e.glyph)
	e.resetEditing()
}

// openGlyph starts editing a glyph. The glyph summary and the layer the
// glyph was last edited on are fetched concurrently; the master matcher
// then decides which layer to show.
func (e *Editor) openGlyph(name string) {
	e.resetEditing()
	e.glyph = name
	seq := e.seq
	last := e.lastLayer[name]
	glyphedit.Logger().Info("glyph opened", "glyph", name, "seq", seq)

	e.spawn(func(ctx context.Context) func() {
		var info *fontdata.GlyphInfo
		var prefetched *glyph.Resolved
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			info, err = e.svc.GlyphData(gctx, name)
			return err
		})
		if last != "" {
			g.Go(func() error {
				r, err := e.svc.LayerData(gctx, name, last)
				if err != nil {
					// settle fetches the layer again if it is chosen
					if !errors.Is(err, fontdata.ErrNotFound) {
						glyphedit.Logger().Warn("prefetching layer failed",
							"glyph", name, "layer", last, "error", err)
					}
					return nil
				}
				prefetched = r
				return nil
			})
		}
		err := g.Wait()

		return func() {
			if seq != e.seq {
				glyphedit.Logger().Debug("discarding stale glyph data", "glyph", name, "seq", seq)
				return
			}
			if err != nil {
				glyphedit.Logger().Warn("opening glyph failed", "glyph", name, "error", err)
				return
			}
			e.info = info
			if prefetched != nil {
				e.arena.Load(last, prefetched)
			}
			e.settle(last)
		}
	})
}

// chooseLayer selects a layer explicitly and moves the axis location to
// the layer's master.
func (e *Editor) chooseLayer(id string) {
	if e.info == nil {
		return
	}
	var masterID string
	for _, l := range e.info.Layers {
		if l.ID == id {
			masterID = l.Master()
		}
	}
	if masterID == "" {
		glyphedit.Logger().Warn("no such layer", "glyph", e.glyph, "layer", id)
		return
	}
	for _, m := range e.info.Masters {
		if m.ID == masterID {
			e.loc = m.Location.Clone()
		}
	}
	e.dropRestore(RestoreSlider)
	e.matcher.Set(id)
	e.selectLayer(id)
}

// setAxes handles axis changes. While a slider is dragged only previews
// are requested; the matcher runs once the value settles.
func (e *Editor) setAxes(loc glyph.Location, dragging bool) {
	if !dragging {
		e.slider = false
		e.loc = loc.Clone()
		e.settle("")
		return
	}

	if !e.slider && e.layerID != "" {
		e.pushRestore(restoreEntry{
			reason:  RestoreSlider,
			loc:     e.loc.Clone(),
			layerID: e.layerID,
		})
	}
	e.slider = true
	e.loc = loc.Clone()
	if e.glyph == "" {
		return
	}
	e.deselect()
	e.requestPreview()
}

// settle runs the master matcher for the current location. If prefer is
// a layer of the matched master, it is chosen over the master layer.
func (e *Editor) settle(prefer string) {
	if e.info == nil {
		return
	}
	res := e.matcher.Evaluate(e.loc, e.info)
	id, ok := e.matcher.Current()
	if !ok {
		e.deselect()
		e.requestPreview()
		return
	}

	if prefer != "" && prefer != id && e.sameMaster(prefer, id) {
		id = prefer
		e.matcher.Set(id)
	}
	if res.Decision == matching.Select {
		glyphedit.Logger().Info("master matched", "glyph", e.glyph, "layer", id)
	}
	e.dropRestore(RestoreSlider)
	if e.layerID != id || e.preview || e.shown == "" {
		e.selectLayer(id)
	}
}

func (e *Editor) sameMaster(a, b string) bool {
	var ma, mb string
	for _, l := range e.info.Layers {
		switch l.ID {
		case a:
			ma = l.Master()
		case b:
			mb = l.Master()
		}
	}
	return ma != "" && ma == mb
}

// selectLayer makes id the current layer, fetching its geometry unless it
// is cached.
func (e *Editor) selectLayer(id string) {
	e.interp.Cancel(e.glyph)
	e.layerID = id
	e.preview = false
	e.previewAt = nil
	e.lastLayer[e.glyph] = id

	if _, ok := e.arena.Get(glyph.Key{Glyph: e.glyph, Layer: id}); ok {
		e.fetchSeq++
		e.install(id)
		return
	}
	e.fetchLayer(id)
}

// fetchLayer loads the geometry of a layer of the edited glyph.
func (e *Editor) fetchLayer(id string) {
	e.fetchSeq++
	seq, fetch, name := e.seq, e.fetchSeq, e.glyph
	e.spawn(func(ctx context.Context) func() {
		r, err := e.svc.LayerData(ctx, name, id)
		return func() {
			if seq != e.seq || fetch != e.fetchSeq {
				glyphedit.Logger().Debug("discarding stale layer data",
					"glyph", name, "layer", id)
				return
			}
			if err != nil {
				glyphedit.Logger().Warn("fetching layer failed",
					"glyph", name, "layer", id, "error", err)
				return
			}
			e.arena.Drop(id)
			e.arena.Load(id, r)
			if e.layerID == id && !e.preview {
				e.install(id)
			}
		}
	})
}

// install displays the geometry stored in the arena under key. If a
// component of the same glyph is being edited, the component stack is
// rebuilt on top of the new geometry.
func (e *Editor) install(key string) {
	root, ok := e.arena.Get(glyph.Key{Glyph: e.glyph, Layer: key})
	if !ok {
		return
	}
	e.shown = key
	if e.stack.Depth() == 0 || e.stack.Root() != e.glyph {
		e.stack.Reset(e.glyph, root)
		return
	}
	depth := e.stack.Refresh(root, func(ref string) *glyph.Layer {
		l, _ := e.arena.Get(glyph.Key{Glyph: ref, Layer: key})
		return l
	})
	e.trimComponentEntries(depth)
}

// deselect drops the current layer. The displayed geometry stays until a
// preview replaces it.
func (e *Editor) deselect() {
	if e.layerID != "" {
		glyphedit.Logger().Info("layer deselected", "glyph", e.glyph, "layer", e.layerID)
	}
	e.layerID = ""
	e.preview = true
	e.drag.End()
}

// requestPreview asks for interpolated geometry at the current location,
// unless a preview for that location has already been requested.
func (e *Editor) requestPreview() {
	if e.glyph == "" {
		return
	}
	at := e.axes.ToDesign(e.loc)
	if e.previewAt != nil && e.previewAt.Equal(at) {
		return
	}
	e.previewAt = at

	seq := e.seq
	t := e.interp.Request(e.ctx, e.glyph, at)
	e.spawn(func(ctx context.Context) func() {
		r, err := t.Wait(ctx)
		return func() {
			if errors.Is(err, interp.ErrSuperseded) || seq != e.seq || !e.interp.IsLatest(t) {
				glyphedit.Logger().Debug("discarding superseded preview",
					"glyph", t.Glyph(), "seq", t.Seq())
				return
			}
			if err != nil {
				glyphedit.Logger().Warn("interpolation failed", "glyph", t.Glyph(), "error", err)
				return
			}
			if !e.preview {
				return
			}
			e.showPreview(r)
		}
	})
}

// showPreview displays interpolated geometry. A preview without
// renderable geometry never replaces a renderable one.
func (e *Editor) showPreview(r *glyph.Resolved) {
	r.MarkInterpolated()
	scratch := glyph.NewArena()
	scratch.Load(glyph.InterpolatedLayer, r)
	if !scratch.Renderable(glyph.InterpolatedLayer, r.Glyph, r.Layer) && e.displayRenderable() {
		glyphedit.Logger().Debug("keeping preview, new one is empty", "glyph", r.Glyph)
		return
	}
	e.arena.Drop(glyph.InterpolatedLayer)
	e.arena.Load(glyph.InterpolatedLayer, r)
	e.install(glyph.InterpolatedLayer)
}

func (e *Editor) displayRenderable() bool {
	if e.shown == "" {
		return false
	}
	root, ok := e.arena.Get(glyph.Key{Glyph: e.glyph, Layer: e.shown})
	return ok && e.arena.Renderable(e.shown, e.glyph, root)
}

// externalChange reloads the displayed geometry after a glyph was
// changed by another program.
func (e *Editor) externalChange(name string) {
	if e.glyph == "" || !e.affects(name) {
		return
	}
	e.arena.Reset()
	if e.preview {
		e.previewAt = nil
		e.requestPreview()
		return
	}
	if e.layerID != "" {
		e.fetchLayer(e.layerID)
	}
}

// affects reports whether a change to the named glyph can alter the
// displayed geometry, either directly or through a component.
func (e *Editor) affects(name string) bool {
	if name == e.glyph {
		return true
	}
	root, ok := e.arena.Get(glyph.Key{Glyph: e.glyph, Layer: e.shown})
	if !ok {
		return true
	}
	visited := map[string]bool{e.glyph: true}
	var walk func(l *glyph.Layer) bool
	walk = func(l *glyph.Layer) bool {
		for _, s := range l.Shapes {
			c, ok := s.(*glyph.Component)
			if !ok || c.Ref == "" || visited[c.Ref] {
				continue
			}
			if c.Ref == name {
				return true
			}
			visited[c.Ref] = true
			if nested, ok := e.arena.Nested(e.shown, c); ok && walk(nested) {
				return true
			}
		}
		return false
	}
	return walk(root)
}
