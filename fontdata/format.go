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
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/glyphedit/glyph"
)

// The types in this file describe the YAML representation of a font
// directory.

type fontFile struct {
	Axes    []axisFile   `yaml:"axes"`
	Masters []masterFile `yaml:"masters"`
}

type axisFile struct {
	Tag     string       `yaml:"tag"`
	Name    string       `yaml:"name,omitempty"`
	Min     float64      `yaml:"min"`
	Default float64      `yaml:"default"`
	Max     float64      `yaml:"max"`
	Map     [][2]float64 `yaml:"map,omitempty,flow"`
}

type masterFile struct {
	ID       string             `yaml:"id"`
	Name     string             `yaml:"name,omitempty"`
	Location map[string]float64 `yaml:"location,flow"`
}

type glyphFile struct {
	Name   string      `yaml:"name"`
	Layers []layerFile `yaml:"layers"`
}

type layerFile struct {
	ID       string       `yaml:"id"`
	MasterID string       `yaml:"master,omitempty"`
	Name     string       `yaml:"name,omitempty"`
	Width    float64      `yaml:"width"`
	Shapes   []shapeFile  `yaml:"shapes,omitempty"`
	Anchors  []anchorFile `yaml:"anchors,omitempty"`
}

type shapeFile struct {
	Nodes     []nodeFile `yaml:"nodes,omitempty,flow"`
	Open      bool       `yaml:"open,omitempty"`
	Ref       string     `yaml:"ref,omitempty"`
	Transform []float64  `yaml:"transform,omitempty,flow"`
}

type nodeFile struct {
	X    float64        `yaml:"x"`
	Y    float64        `yaml:"y"`
	Type glyph.NodeType `yaml:"t"`
}

type anchorFile struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

func (ff *fontFile) decode() (glyph.Axes, []glyph.Master) {
	axes := make(glyph.Axes, len(ff.Axes))
	for i, a := range ff.Axes {
		axes[i] = glyph.Axis{Tag: a.Tag, Name: a.Name, Min: a.Min, Default: a.Default, Max: a.Max}
		for _, m := range a.Map {
			axes[i].Map = append(axes[i].Map, glyph.AxisMap{User: m[0], Design: m[1]})
		}
	}
	masters := make([]glyph.Master, len(ff.Masters))
	for i, m := range ff.Masters {
		masters[i] = glyph.Master{ID: m.ID, Name: m.Name, Location: glyph.Location(m.Location)}
	}
	return axes, masters
}

func encodeFont(axes glyph.Axes, masters []glyph.Master) *fontFile {
	ff := &fontFile{}
	for _, a := range axes {
		af := axisFile{Tag: a.Tag, Name: a.Name, Min: a.Min, Default: a.Default, Max: a.Max}
		for _, m := range a.Map {
			af.Map = append(af.Map, [2]float64{m.User, m.Design})
		}
		ff.Axes = append(ff.Axes, af)
	}
	for _, m := range masters {
		ff.Masters = append(ff.Masters, masterFile{ID: m.ID, Name: m.Name, Location: m.Location})
	}
	return ff
}

func (gf *glyphFile) decode() []*glyph.Layer {
	layers := make([]*glyph.Layer, len(gf.Layers))
	for i, lf := range gf.Layers {
		l := &glyph.Layer{ID: lf.ID, MasterID: lf.MasterID, Name: lf.Name, Width: lf.Width}
		for _, sf := range lf.Shapes {
			if sf.Ref != "" {
				c := &glyph.Component{Ref: sf.Ref}
				if len(sf.Transform) == 6 {
					var m matrix.Matrix
					copy(m[:], sf.Transform)
					c.Transform = &m
				}
				l.Shapes = append(l.Shapes, c)
				continue
			}
			p := &glyph.Path{Open: sf.Open, Nodes: make([]glyph.Node, len(sf.Nodes))}
			for j, n := range sf.Nodes {
				p.Nodes[j] = glyph.Node{X: n.X, Y: n.Y, Type: n.Type}
			}
			l.Shapes = append(l.Shapes, p)
		}
		for _, a := range lf.Anchors {
			l.Anchors = append(l.Anchors, glyph.Anchor{Name: a.Name, X: a.X, Y: a.Y})
		}
		layers[i] = l
	}
	return layers
}

func encodeGlyph(name string, layers []*glyph.Layer) *glyphFile {
	gf := &glyphFile{Name: name}
	for _, l := range layers {
		lf := layerFile{ID: l.ID, MasterID: l.MasterID, Name: l.Name, Width: l.Width}
		for _, s := range l.Shapes {
			switch s := s.(type) {
			case *glyph.Path:
				sf := shapeFile{Open: s.Open}
				for _, n := range s.Nodes {
					sf.Nodes = append(sf.Nodes, nodeFile{X: n.X, Y: n.Y, Type: n.Type})
				}
				lf.Shapes = append(lf.Shapes, sf)
			case *glyph.Component:
				sf := shapeFile{Ref: s.Ref}
				if s.Transform != nil {
					sf.Transform = s.Transform[:]
				}
				lf.Shapes = append(lf.Shapes, sf)
			}
		}
		for _, a := range l.Anchors {
			lf.Anchors = append(lf.Anchors, anchorFile{Name: a.Name, X: a.X, Y: a.Y})
		}
		gf.Layers = append(gf.Layers, lf)
	}
	return gf
}
