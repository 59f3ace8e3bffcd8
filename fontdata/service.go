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

// Package fontdata defines the font data services used by the editor and
// provides implementations backed by memory and by a directory of YAML
// files.
package fontdata

import (
	"context"
	"errors"

	"seehuhn.de/go/glyphedit/glyph"
)

// Errors returned by the services in this package.
var (
	ErrNotFound     = errors.New("fontdata: not found")
	ErrInterpolated = errors.New("fontdata: refusing to save interpolated layer")
	ErrIncompatible = errors.New("fontdata: incompatible master outlines")
)

// LayerSummary describes a layer without its geometry.
type LayerSummary struct {
	ID       string
	MasterID string
	Name     string
}

// Master returns the ID of the master the layer belongs to.
func (s LayerSummary) Master() string {
	if s.MasterID != "" {
		return s.MasterID
	}
	return s.ID
}

// GlyphInfo is the summary information of a glyph used for layer lists and
// master matching.
type GlyphInfo struct {
	Name      string
	Layers    []LayerSummary
	Masters   []glyph.Master
	AxesOrder []string
}

// Service gives access to the glyph geometry of a font.
//
// LayerData and ComponentLayerData return the layer together with the
// geometry of all glyphs reachable through its components. Cyclic
// component references are dropped. A missing glyph or layer is reported
// as ErrNotFound.
type Service interface {
	Axes(ctx context.Context) (glyph.Axes, error)
	GlyphData(ctx context.Context, name string) (*GlyphInfo, error)
	LayerData(ctx context.Context, name, layerID string) (*glyph.Resolved, error)
	ComponentLayerData(ctx context.Context, ref, layerID string) (*glyph.Resolved, error)

	// SaveLayer stores the geometry of a layer. Interpolated layers are
	// rejected with ErrInterpolated.
	SaveLayer(ctx context.Context, name, layerID string, l *glyph.Layer) error
}

// Interpolator synthesises glyph geometry at a design space location.
// Results have the Interpolated flag set.
type Interpolator interface {
	Interpolate(ctx context.Context, name string, loc glyph.Location) (*glyph.Resolved, error)
}

// Compiler rebuilds the binary font after glyphs were edited.
type Compiler interface {
	Compile(ctx context.Context, glyphs []string) error
}
