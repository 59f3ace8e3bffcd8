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

package fixtures

import (
	"seehuhn.de/go/glyphedit/fontdata"
	"seehuhn.de/go/glyphedit/glyph"
)

// Font returns a new two-master font with the following glyphs:
//
//   - "A": one contour, anchors "top" and "bottom", and an alternate
//     layer Alt belonging to the Regular master
//   - "period": a square dot
//   - "exclam": two contours and a "period" component at shape index 2
//   - "colon": two "period" components
//   - "dots": a "colon" component, giving three levels of nesting
//   - "cycleA", "cycleB": components referencing each other
//   - "space": no geometry
func Font() *fontdata.Font {
	f := fontdata.NewFont(Axes(), Masters())
	for name, layers := range glyphs() {
		f.SetGlyph(name, layers)
	}
	return f
}

type weights struct {
	id, name string
	stem     float64 // stroke thickness
}

var masterWeights = []weights{
	{Regular, "Regular", 100},
	{Bold, "Bold", 160},
}

func glyphs() map[string][]*glyph.Layer {
	res := make(map[string][]*glyph.Layer)
	for _, w := range masterWeights {
		s := w.stem
		layer := func(width float64, shapes []glyph.Shape, anchors ...glyph.Anchor) *glyph.Layer {
			return &glyph.Layer{ID: w.id, Name: w.name, Width: width, Shapes: shapes, Anchors: anchors}
		}

		res["A"] = append(res["A"], layer(600+s,
			[]glyph.Shape{&glyph.Path{Nodes: []glyph.Node{
				{X: 0, Y: 0, Type: glyph.Line},
				{X: s, Y: 0, Type: glyph.Line},
				{X: 300 + s/2, Y: 600, Type: glyph.Line},
				{X: 600, Y: 0, Type: glyph.Line},
				{X: 600 + s, Y: 0, Type: glyph.Line},
				{X: 300 + s, Y: 700, Type: glyph.Line},
				{X: 300, Y: 700, Type: glyph.Line},
			}}},
			glyph.Anchor{Name: "top", X: 300 + s/2, Y: 700},
			glyph.Anchor{Name: "bottom", X: 300 + s/2, Y: 0},
		))
		res["period"] = append(res["period"], layer(s+100,
			[]glyph.Shape{Rect(0, 0, s, s)},
		))
		res["exclam"] = append(res["exclam"], layer(s+100,
			[]glyph.Shape{
				Rect(0, 250, s, 700),
				Circle(s/2, 200, s/4),
				Ref("period", 0, 0),
			},
		))
		res["colon"] = append(res["colon"], layer(s+100,
			[]glyph.Shape{Ref("period", 0, 0), Ref("period", 0, 400)},
		))
		res["dots"] = append(res["dots"], layer(3*s+300,
			[]glyph.Shape{Rect(0, -200, 3*s+300, -150), Ref("colon", 100, 0)},
		))
		res["cycleA"] = append(res["cycleA"], layer(400,
			[]glyph.Shape{Rect(0, 0, s, s), Ref("cycleB", 200, 0)},
		))
		res["cycleB"] = append(res["cycleB"], layer(400,
			[]glyph.Shape{Rect(0, 0, s, 2*s), Ref("cycleA", 0, 300)},
		))
		res["space"] = append(res["space"], layer(250, nil))
	}

	alt := res["A"][0].Clone()
	alt.ID = Alt
	alt.MasterID = Regular
	alt.Name = "Regular alternate"
	res["A"] = append(res["A"], alt)

	return res
}
