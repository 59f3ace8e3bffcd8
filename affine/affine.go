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

// Package affine implements the 2D affine transform arithmetic used for
// nested component editing.
//
// Transforms are [matrix.Matrix] values [a b c d tx ty] mapping a point
// (x, y) to (a·x + c·y + tx, b·x + d·y + ty).
package affine

import (
	"errors"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Epsilon is the smallest determinant magnitude for which a transform is
// considered invertible.
const Epsilon = 1e-12

// ErrSingular is returned by [Invert] for transforms which collapse the
// plane onto a line or a point.
var ErrSingular = errors.New("affine: transform is not invertible")

// Translate returns a pure translation.
func Translate(tx, ty float64) matrix.Matrix {
	return matrix.Matrix{1, 0, 0, 1, tx, ty}
}

// Compose returns the transform which applies child first and then parent.
//
// Nested component transforms are accumulated outermost to innermost as
// acc = Compose(acc, component).
func Compose(parent, child matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		parent[0]*child[0] + parent[2]*child[1],
		parent[1]*child[0] + parent[3]*child[1],
		parent[0]*child[2] + parent[2]*child[3],
		parent[1]*child[2] + parent[3]*child[3],
		parent[0]*child[4] + parent[2]*child[5] + parent[4],
		parent[1]*child[4] + parent[3]*child[5] + parent[5],
	}
}

// Determinant returns a·d − b·c.
func Determinant(m matrix.Matrix) float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of m.
// If the determinant of m is smaller than [Epsilon] in magnitude,
// ErrSingular is returned.
func Invert(m matrix.Matrix) (matrix.Matrix, error) {
	det := Determinant(m)
	if math.Abs(det) < Epsilon || math.IsNaN(det) {
		return matrix.Matrix{}, ErrSingular
	}
	return matrix.Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

// Apply maps the point p through m.
func Apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ApplyLinear maps the vector v through the 2×2 linear part of m,
// ignoring the translation.
func ApplyLinear(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}

// Scale returns the geometric mean scale factor of m, sqrt(|det m|).
// This is used to convert fixed pixel distances into local units.
func Scale(m matrix.Matrix) float64 {
	return math.Sqrt(math.Abs(Determinant(m)))
}

// Equal reports whether a and b agree in every coefficient to within tol.
func Equal(a, b matrix.Matrix, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
