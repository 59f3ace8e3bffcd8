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

package fontdata

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/glyph"
)

// Font is an in-memory font implementing [Service].
// All methods are safe for concurrent use. Layers passed in and out are
// copied, so callers may modify them freely.
type Font struct {
	mu      sync.RWMutex
	axes    glyph.Axes
	masters []glyph.Master
	glyphs  map[string][]*glyph.Layer
}

var _ Service = (*Font)(nil)

// NewFont returns a font without glyphs.
func NewFont(axes glyph.Axes, masters []glyph.Master) *Font {
	return &Font{
		axes:    slices.Clone(axes),
		masters: slices.Clone(masters),
		glyphs:  make(map[string][]*glyph.Layer),
	}
}

// SetGlyph replaces all layers of the named glyph.
func (f *Font) SetGlyph(name string, layers []*glyph.Layer) {
	cp := make([]*glyph.Layer, len(layers))
	for i, l := range layers {
		cp[i] = l.Clone()
	}
	f.mu.Lock()
	f.glyphs[name] = cp
	f.mu.Unlock()
}

// Glyph returns copies of all layers of the named glyph.
func (f *Font) Glyph(name string) ([]*glyph.Layer, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	layers, ok := f.glyphs[name]
	if !ok {
		return nil, false
	}
	cp := make([]*glyph.Layer, len(layers))
	for i, l := range layers {
		cp[i] = l.Clone()
	}
	return cp, true
}

// Glyphs returns the names of all glyphs in sorted order.
func (f *Font) Glyphs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Sorted(maps.Keys(f.glyphs))
}

// Masters returns the masters of the font.
func (f *Font) Masters() []glyph.Master {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.masters)
}

// Axes implements [Service].
func (f *Font) Axes(ctx context.Context) (glyph.Axes, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.axes), nil
}

// GlyphData implements [Service].
func (f *Font) GlyphData(ctx context.Context, name string) (*GlyphInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	layers, ok := f.glyphs[name]
	if !ok {
		return nil, fmt.Errorf("glyph %q: %w", name, ErrNotFound)
	}
	info := &GlyphInfo{
		Name:      name,
		Masters:   slices.Clone(f.masters),
		AxesOrder: f.axes.Tags(),
	}
	for _, l := range layers {
		info.Layers = append(info.Layers, LayerSummary{ID: l.ID, MasterID: l.MasterID, Name: l.Name})
	}
	return info, nil
}

// LayerData implements [Service].
func (f *Font) LayerData(ctx context.Context, name, layerID string) (*glyph.Resolved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	root := f.findLayer(name, layerID, "")
	if root == nil {
		return nil, fmt.Errorf("glyph %q layer %q: %w", name, layerID, ErrNotFound)
	}
	res := &glyph.Resolved{
		Glyph:  name,
		Layer:  root.Clone(),
		Nested: make(map[string]*glyph.Layer),
	}
	visited := map[string]bool{name: true}
	f.resolve(root, layerID, root.Master(), visited, res.Nested)
	return res, nil
}

// ComponentLayerData implements [Service].
func (f *Font) ComponentLayerData(ctx context.Context, ref, layerID string) (*glyph.Resolved, error) {
	return f.LayerData(ctx, ref, layerID)
}

// resolve collects the layers of all glyphs reachable from l.
// The caller must hold f.mu.
func (f *Font) resolve(l *glyph.Layer, layerID, masterID string, visited map[string]bool, out map[string]*glyph.Layer) {
	for _, s := range l.Shapes {
		c, ok := s.(*glyph.Component)
		if !ok || c.Ref == "" {
			continue
		}
		if visited[c.Ref] {
			glyphedit.Logger().Warn("cyclic component reference", "glyph", c.Ref)
			continue
		}
		nested := f.findLayer(c.Ref, layerID, masterID)
		if nested == nil {
			continue
		}
		if _, seen := out[c.Ref]; !seen {
			out[c.Ref] = nested.Clone()
		}
		visited[c.Ref] = true
		f.resolve(nested, layerID, masterID, visited, out)
		delete(visited, c.Ref)
	}
}

// findLayer returns the layer with the given ID, or else the master layer
// of masterID. The caller must hold f.mu.
func (f *Font) findLayer(name, layerID, masterID string) *glyph.Layer {
	layers := f.glyphs[name]
	for _, l := range layers {
		if l.ID == layerID {
			return l
		}
	}
	if masterID == "" {
		return nil
	}
	for _, l := range layers {
		if l.MasterID == "" && l.ID == masterID {
			return l
		}
	}
	return nil
}

// SaveLayer implements [Service].
func (f *Font) SaveLayer(ctx context.Context, name, layerID string, l *glyph.Layer) error {
	if l == nil {
		return fmt.Errorf("glyph %q layer %q: nil layer", name, layerID)
	}
	if l.Interpolated {
		return ErrInterpolated
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, old := range f.glyphs[name] {
		if old.ID == layerID {
			cp := l.Clone()
			cp.ID = layerID
			f.glyphs[name][i] = cp
			return nil
		}
	}
	return fmt.Errorf("glyph %q layer %q: %w", name, layerID, ErrNotFound)
}
