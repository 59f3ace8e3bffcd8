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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// FillRule selects how overlapping contours are combined.
type FillRule int

// The supported fill rules.
const (
	NonZero FillRule = iota
	EvenOdd
)

// ContainmentCase is a point-in-outline test.
type ContainmentCase struct {
	Name    string        // lowercase a-z and _ only
	Path    *path.Data    // the outline
	CTM     matrix.Matrix // maps outline coordinates to test coordinates
	Rule    FillRule
	Inside  []vec.Vec2 // test coordinates which must be inside
	Outside []vec.Vec2 // test coordinates which must be outside
}

// Containment lists the point-in-outline cases, grouped by category.
var Containment = map[string][]ContainmentCase{
	"fill": {
		{
			Name:    "rectangle",
			Path:    rectangle(10, 10, 44, 44),
			CTM:     matrix.Identity,
			Inside:  []vec.Vec2{pt(11, 11), pt(27, 27), pt(43.5, 20)},
			Outside: []vec.Vec2{pt(9, 27), pt(45, 27), pt(27, 50)},
		},
		{
			Name:    "ring_nonzero",
			Path:    ring(32, 20, 8),
			CTM:     matrix.Identity,
			Inside:  []vec.Vec2{pt(32, 32), pt(15, 15)},
			Outside: []vec.Vec2{pt(5, 5), pt(60, 32)},
		},
		{
			Name:    "ring_evenodd",
			Path:    ring(32, 20, 8),
			CTM:     matrix.Identity,
			Rule:    EvenOdd,
			Inside:  []vec.Vec2{pt(15, 15), pt(50, 32)},
			Outside: []vec.Vec2{pt(32, 32), pt(60, 32)},
		},
	},
	"curve": {
		{
			Name:    "cubic_bulge",
			Path:    cubicBlob(0, 0, 0, 40, 40, 40, 40, 0),
			CTM:     matrix.Identity,
			Inside:  []vec.Vec2{pt(20, 20), pt(5, 10)},
			Outside: []vec.Vec2{pt(20, 35), pt(20, -1), pt(1, 25)},
		},
		{
			Name:    "quadratic_edge",
			Path:    triangle(0, 0, 20, 40, 40, 0, 20, -10),
			CTM:     matrix.Identity,
			Inside:  []vec.Vec2{pt(20, 15), pt(20, -5)},
			Outside: []vec.Vec2{pt(20, 25), pt(39, -5)},
		},
	},
	"ctm": {
		{
			Name:    "translate",
			Path:    rectangle(0, 0, 10, 10),
			CTM:     matrix.Matrix{1, 0, 0, 1, 100, 50},
			Inside:  []vec.Vec2{pt(105, 55)},
			Outside: []vec.Vec2{pt(5, 5), pt(111, 55)},
		},
		{
			Name:    "scale_2x",
			Path:    rectangle(0, 0, 20, 20),
			CTM:     matrix.Matrix{2, 0, 0, 2, 24, 24},
			Inside:  []vec.Vec2{pt(30, 30), pt(63, 63)},
			Outside: []vec.Vec2{pt(23, 30), pt(65, 30)},
		},
		{
			Name:    "rotate_90deg",
			Path:    rectangle(0, 0, 30, 10),
			CTM:     matrix.Matrix{0, 1, -1, 0, 0, 0},
			Inside:  []vec.Vec2{pt(-5, 15)},
			Outside: []vec.Vec2{pt(5, 15), pt(-5, 35)},
		},
		{
			Name:    "mirror",
			Path:    rectangle(0, 0, 10, 10),
			CTM:     matrix.Matrix{-1, 0, 0, 1, 0, 0},
			Inside:  []vec.Vec2{pt(-5, 5)},
			Outside: []vec.Vec2{pt(5, 5)},
		},
	},
}
