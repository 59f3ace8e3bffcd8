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
	"math"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/glyphedit/glyph"
)

// Blender is a simple [Interpolator] which combines the master layers of
// a glyph by inverse distance weighting in design space. It reproduces
// every master exactly at the master's location.
//
// This is a stand-in for a full variation model; it is good enough for
// previews and tests.
type Blender struct {
	Source Service
}

var _ Interpolator = (*Blender)(nil)

type weighted struct {
	masterID string
	w        float64
}

// Interpolate implements [Interpolator]. The location is in design space.
func (b *Blender) Interpolate(ctx context.Context, name string, loc glyph.Location) (*glyph.Resolved, error) {
	info, err := b.Source.GlyphData(ctx, name)
	if err != nil {
		return nil, err
	}
	axes, err := b.Source.Axes(ctx)
	if err != nil {
		return nil, err
	}

	weights := masterWeights(axes, info, loc)
	if len(weights) == 0 {
		return nil, fmt.Errorf("glyph %q: no master layers: %w", name, ErrNotFound)
	}

	var parts []*glyph.Resolved
	for _, w := range weights {
		r, err := b.Source.LayerData(ctx, name, w.masterID)
		if err != nil {
			return nil, err
		}
		parts = append(parts, r)
	}

	res := &glyph.Resolved{Glyph: name, Nested: make(map[string]*glyph.Layer)}
	layers := make([]*glyph.Layer, len(parts))
	for i, p := range parts {
		layers[i] = p.Layer
	}
	res.Layer, err = blendLayers(layers, weights)
	if err != nil {
		return nil, fmt.Errorf("glyph %q: %w", name, err)
	}

	for ref := range parts[0].Nested {
		nested := make([]*glyph.Layer, 0, len(parts))
		for _, p := range parts {
			if l, ok := p.Nested[ref]; ok {
				nested = append(nested, l)
			}
		}
		if len(nested) != len(parts) {
			continue
		}
		l, err := blendLayers(nested, weights)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", ref, err)
		}
		res.Nested[ref] = l
	}

	res.MarkInterpolated()
	return res, nil
}

// masterWeights returns normalised weights of the master layers of a
// glyph for the design space location loc. An exact hit gives weight 1
// to that master alone.
func masterWeights(axes glyph.Axes, info *GlyphInfo, loc glyph.Location) []weighted {
	span := make(map[string]float64, len(axes))
	for i := range axes {
		lo := axes[i].UserToDesign(axes[i].Min)
		hi := axes[i].UserToDesign(axes[i].Max)
		if s := math.Abs(hi - lo); s > 0 {
			span[axes[i].Tag] = s
		}
	}

	var res []weighted
	total := 0.0
	for _, m := range info.Masters {
		if !hasMasterLayer(info, m.ID) {
			continue
		}
		mloc := axes.ToDesign(m.Location)
		d2 := 0.0
		for _, tag := range unionTags(loc, mloc) {
			d := loc.Get(tag) - mloc.Get(tag)
			if s, ok := span[tag]; ok {
				d /= s
			}
			d2 += d * d
		}
		if d2 == 0 {
			return []weighted{{masterID: m.ID, w: 1}}
		}
		w := 1 / d2
		res = append(res, weighted{masterID: m.ID, w: w})
		total += w
	}
	for i := range res {
		res[i].w /= total
	}
	return res
}

func hasMasterLayer(info *GlyphInfo, masterID string) bool {
	for _, l := range info.Layers {
		if l.MasterID == "" && l.ID == masterID {
			return true
		}
	}
	return false
}

func unionTags(a, b glyph.Location) []string {
	var tags []string
	for t := range a {
		tags = append(tags, t)
	}
	for t := range b {
		if _, ok := a[t]; !ok {
			tags = append(tags, t)
		}
	}
	return tags
}

// blendLayers returns the weighted sum of structurally identical layers.
func blendLayers(layers []*glyph.Layer, weights []weighted) (*glyph.Layer, error) {
	first := layers[0]
	res := first.Clone()
	res.ID = glyph.InterpolatedLayer
	res.MasterID = ""
	res.Name = "interpolated"

	for _, l := range layers[1:] {
		if !compatible(first, l) {
			return nil, ErrIncompatible
		}
	}

	res.Width = 0
	for i := range res.Anchors {
		res.Anchors[i].X, res.Anchors[i].Y = 0, 0
	}
	for _, s := range res.Shapes {
		switch s := s.(type) {
		case *glyph.Path:
			for ni := range s.Nodes {
				s.Nodes[ni].X, s.Nodes[ni].Y = 0, 0
			}
		case *glyph.Component:
			s.Transform = &matrix.Matrix{}
		}
	}

	for k, l := range layers {
		w := weights[k].w
		res.Width += w * l.Width
		for i, a := range l.Anchors {
			res.Anchors[i].X += w * a.X
			res.Anchors[i].Y += w * a.Y
		}
		for si, s := range l.Shapes {
			switch s := s.(type) {
			case *glyph.Path:
				dst := res.Shapes[si].(*glyph.Path)
				for ni, n := range s.Nodes {
					dst.Nodes[ni].X += w * n.X
					dst.Nodes[ni].Y += w * n.Y
				}
			case *glyph.Component:
				dst := res.Shapes[si].(*glyph.Component)
				m := s.Matrix()
				for j := range m {
					dst.Transform[j] += w * m[j]
				}
			}
		}
	}
	return res, nil
}

func compatible(a, b *glyph.Layer) bool {
	if len(a.Shapes) != len(b.Shapes) || len(a.Anchors) != len(b.Anchors) {
		return false
	}
	for i := range a.Anchors {
		if a.Anchors[i].Name != b.Anchors[i].Name {
			return false
		}
	}
	for i := range a.Shapes {
		switch sa := a.Shapes[i].(type) {
		case *glyph.Path:
			sb, ok := b.Shapes[i].(*glyph.Path)
			if !ok || len(sa.Nodes) != len(sb.Nodes) {
				return false
			}
		case *glyph.Component:
			sb, ok := b.Shapes[i].(*glyph.Component)
			if !ok || sa.Ref != sb.Ref {
				return false
			}
		}
	}
	return true
}
