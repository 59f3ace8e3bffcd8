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

package glyph

import (
	"maps"
	"slices"
	"sort"
)

// Axis is a continuous design dimension of a variable font.
// Min, Default and Max are given in user space.
type Axis struct {
	Tag     string
	Name    string
	Min     float64
	Default float64
	Max     float64

	// Map lists user space to design space correspondences, sorted by
	// User. An empty Map means both spaces coincide.
	Map []AxisMap
}

// AxisMap is one point of a piecewise linear axis mapping.
type AxisMap struct {
	User   float64
	Design float64
}

// UserToDesign converts an axis value from user space to design space.
func (a *Axis) UserToDesign(v float64) float64 {
	return interpolateMap(a.Map, v, func(m AxisMap) (float64, float64) { return m.User, m.Design })
}

// DesignToUser converts an axis value from design space to user space.
func (a *Axis) DesignToUser(v float64) float64 {
	return interpolateMap(a.Map, v, func(m AxisMap) (float64, float64) { return m.Design, m.User })
}

func interpolateMap(pts []AxisMap, v float64, split func(AxisMap) (from, to float64)) float64 {
	if len(pts) == 0 {
		return v
	}
	pts = slices.Clone(pts)
	sort.Slice(pts, func(i, j int) bool {
		fi, _ := split(pts[i])
		fj, _ := split(pts[j])
		return fi < fj
	})

	// outside the mapped range the first/last segment is shifted, not scaled
	x0, y0 := split(pts[0])
	if v <= x0 {
		return y0 + (v - x0)
	}
	xn, yn := split(pts[len(pts)-1])
	if v >= xn {
		return yn + (v - xn)
	}
	for i := 1; i < len(pts); i++ {
		x1, y1 := split(pts[i])
		if v <= x1 {
			if x1 == x0 {
				return y1
			}
			return y0 + (v-x0)*(y1-y0)/(x1-x0)
		}
		x0, y0 = x1, y1
	}
	return yn
}

// Axes is the ordered set of axes defined by a font.
type Axes []Axis

// Tags returns the axis tags in font order.
func (ax Axes) Tags() []string {
	tags := make([]string, len(ax))
	for i := range ax {
		tags[i] = ax[i].Tag
	}
	return tags
}

// Defaults returns the default location in user space.
func (ax Axes) Defaults() Location {
	loc := make(Location, len(ax))
	for i := range ax {
		loc[ax[i].Tag] = ax[i].Default
	}
	return loc
}

// ToDesign converts a user space location to design space.
// Tags which are not defined axes are copied unchanged.
func (ax Axes) ToDesign(loc Location) Location {
	return ax.convert(loc, (*Axis).UserToDesign)
}

// ToUser converts a design space location to user space.
func (ax Axes) ToUser(loc Location) Location {
	return ax.convert(loc, (*Axis).DesignToUser)
}

func (ax Axes) convert(loc Location, f func(*Axis, float64) float64) Location {
	out := make(Location, len(loc))
	for tag, v := range loc {
		out[tag] = v
		for i := range ax {
			if ax[i].Tag == tag {
				out[tag] = f(&ax[i], v)
				break
			}
		}
	}
	return out
}

// Location maps axis tags to axis values.
type Location map[string]float64

// Get returns the value for tag, or 0 if the axis is not present.
func (loc Location) Get(tag string) float64 {
	return loc[tag]
}

// Clone returns an independent copy of loc.
func (loc Location) Clone() Location {
	if loc == nil {
		return nil
	}
	return maps.Clone(loc)
}

// Equal reports whether loc and other assign the same value to every axis.
// A missing axis counts as 0.
func (loc Location) Equal(other Location) bool {
	for tag, v := range loc {
		if other.Get(tag) != v {
			return false
		}
	}
	for tag, v := range other {
		if loc.Get(tag) != v {
			return false
		}
	}
	return true
}

// Master is a named fixed point in the design space, given in user space
// coordinates. Masters do not change during editing.
type Master struct {
	ID       string
	Name     string
	Location Location
}
