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

// NodeType classifies an outline node.
type NodeType string

// The node types. Smoothness is orthogonal to the curve/line/off-curve
// kind.
const (
	Curve          NodeType = "c"
	CurveSmooth    NodeType = "cs"
	Line           NodeType = "l"
	LineSmooth     NodeType = "ls"
	OffCurve       NodeType = "o"
	OffCurveSmooth NodeType = "os"
	QuadControl    NodeType = "q"
)

var smoothToggle = map[NodeType]NodeType{
	Curve:          CurveSmooth,
	CurveSmooth:    Curve,
	Line:           LineSmooth,
	LineSmooth:     Line,
	OffCurve:       OffCurveSmooth,
	OffCurveSmooth: OffCurve,
}

// ToggleSmooth flips the smoothness of t, keeping its kind.
// Types without a smooth counterpart are returned unchanged.
func ToggleSmooth(t NodeType) NodeType {
	if u, ok := smoothToggle[t]; ok {
		return u
	}
	return t
}

// IsSmooth reports whether t is a smooth node type.
func (t NodeType) IsSmooth() bool {
	switch t {
	case CurveSmooth, LineSmooth, OffCurveSmooth:
		return true
	}
	return false
}

// IsOffCurve reports whether t is a control point.
func (t NodeType) IsOffCurve() bool {
	switch t {
	case OffCurve, OffCurveSmooth, QuadControl:
		return true
	}
	return false
}

// ToggleSmooth flips the smoothness of the node.
func (n *Node) ToggleSmooth() {
	n.Type = ToggleSmooth(n.Type)
}
