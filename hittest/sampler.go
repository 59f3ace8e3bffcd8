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

package hittest

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// FillRule selects how overlapping contours are combined.
type FillRule int

// The supported fill rules.
const (
	NonZero FillRule = iota
	EvenOdd
)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// Sampler decides whether points lie inside filled outlines.
// Paths are flattened into line segments in device space and a point is
// classified by the winding number of these segments around it.
//
// The caller creates one instance and reuses it; the edge buffer grows as
// needed but is never shrunk.
type Sampler struct {
	// CTM maps path coordinates to device coordinates.
	CTM matrix.Matrix

	// Flatness is the curve flattening tolerance in device units.
	// Must be > 0.
	Flatness float64

	edges []edge

	bboxEmpty              bool
	xMin, xMax, yMin, yMax float64
}

// NewSampler returns a sampler with the identity CTM and the default
// flattening tolerance.
func NewSampler() *Sampler {
	s := &Sampler{}
	s.Reset()
	return s
}

// Reset discards all edges and restores the default CTM and flatness.
func (s *Sampler) Reset() {
	s.CTM = matrix.Identity
	s.Flatness = defaultFlatness
	s.Clear()
}

// Clear discards all edges, keeping CTM and Flatness.
func (s *Sampler) Clear() {
	s.edges = s.edges[:0]
	s.bboxEmpty = true
}

// Empty reports whether no edges have been added since the last Clear.
func (s *Sampler) Empty() bool {
	return len(s.edges) == 0
}

// BBox returns the bounding box of all edges in device space.
func (s *Sampler) BBox() (rect.Rect, bool) {
	if s.bboxEmpty {
		return rect.Rect{}, false
	}
	return rect.Rect{LLx: s.xMin, LLy: s.yMin, URx: s.xMax, URy: s.yMax}, true
}

// AddPath transforms p by the CTM and adds its edges. Open subpaths are
// closed implicitly, as for filling.
func (s *Sampler) AddPath(p *path.Data) {
	if p == nil {
		return
	}

	var current, subpath vec.Vec2
	open := false
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open && current != subpath {
				s.addEdge(current, subpath)
			}
			current = p.Coords[k]
			subpath = current
			open = true
			k++

		case path.CmdLineTo:
			s.addEdge(current, p.Coords[k])
			current = p.Coords[k]
			k++

		case path.CmdQuadTo:
			s.flattenQuadratic(current, p.Coords[k], p.Coords[k+1], s.addEdge)
			current = p.Coords[k+1]
			k += 2

		case path.CmdCubeTo:
			s.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], s.addEdge)
			current = p.Coords[k+2]
			k += 3

		case path.CmdClose:
			if current != subpath {
				s.addEdge(current, subpath)
			}
			current = subpath
			open = false
		}
	}
	if open && current != subpath {
		s.addEdge(current, subpath)
	}
}

// Winding returns the winding number of the edges around the device
// space point p. Edges are treated as half-open in y, so that points on
// shared vertices are counted once.
func (s *Sampler) Winding(p vec.Vec2) int {
	if s.bboxEmpty || p.X < s.xMin || p.X > s.xMax || p.Y < s.yMin || p.Y > s.yMax {
		return 0
	}
	w := 0
	for i := range s.edges {
		e := &s.edges[i]
		if (e.y0 <= p.Y) == (e.y1 <= p.Y) {
			continue
		}
		x := e.x0 + e.dxdy*(p.Y-e.y0)
		if x <= p.X {
			continue
		}
		if e.y1 > e.y0 {
			w++
		} else {
			w--
		}
	}
	return w
}

// Contains reports whether the device space point p lies inside the
// outline, using the given fill rule.
func (s *Sampler) Contains(p vec.Vec2, rule FillRule) bool {
	w := s.Winding(p)
	if rule == EvenOdd {
		return w%2 != 0
	}
	return w != 0
}

// transformLinear applies only the 2×2 linear part of CTM to a vector.
func (s *Sampler) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: s.CTM[0]*v.X + s.CTM[2]*v.Y,
		Y: s.CTM[1]*v.X + s.CTM[3]*v.Y,
	}
}

// flattenQuadratic flattens a quadratic Bézier curve given in path
// coordinates. The number of segments is chosen from the device space
// deviation of the control point.
func (s *Sampler) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	// e = (P0 - 2*P1 + P2) / 4
	e := s.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))

	n := 1
	if d := e.Length(); d > s.Flatness {
		n = int(math.Ceil(math.Sqrt(d / s.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic flattens a cubic Bézier curve given in path coordinates,
// using Wang's formula for the segment count.
func (s *Sampler) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	d1 := s.transformLinear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := s.transformLinear(p1.Sub(p2.Mul(2)).Add(p3))

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		// n = ceil(sqrt(3 * m / (4 * ε)))
		if nf := math.Sqrt(3 * m / (4 * s.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		pt := p0.Mul(omt2 * omt).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t2 * t))
		emit(prev, pt)
		prev = pt
	}
}

// addEdge transforms a segment to device space and records it.
// Horizontal segments never cross a scan line and are skipped, but still
// extend the bounding box.
func (s *Sampler) addEdge(p0, p1 vec.Vec2) {
	x0 := s.CTM[0]*p0.X + s.CTM[2]*p0.Y + s.CTM[4]
	y0 := s.CTM[1]*p0.X + s.CTM[3]*p0.Y + s.CTM[5]
	x1 := s.CTM[0]*p1.X + s.CTM[2]*p1.Y + s.CTM[4]
	y1 := s.CTM[1]*p1.X + s.CTM[3]*p1.Y + s.CTM[5]

	if s.bboxEmpty {
		s.xMin, s.xMax = min(x0, x1), max(x0, x1)
		s.yMin, s.yMax = min(y0, y1), max(y0, y1)
		s.bboxEmpty = false
	} else {
		s.xMin = min(s.xMin, x0, x1)
		s.xMax = max(s.xMax, x0, x1)
		s.yMin = min(s.yMin, y0, y1)
		s.yMax = max(s.yMax, y0, y1)
	}

	dy := y1 - y0
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	s.edges = append(s.edges, edge{
		x0: x0, y0: y0,
		x1: x1, y1: y1,
		dxdy: (x1 - x0) / dy,
	})
}

const (
	// defaultFlatness is the default curve flattening tolerance in device
	// units.
	defaultFlatness = 0.25

	// horizontalEdgeThreshold is the minimum vertical extent for an edge
	// to take part in winding computations.
	horizontalEdgeThreshold = 1e-10
)
