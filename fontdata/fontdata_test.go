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

package fontdata_test

import (
	"context"
	"errors"
	"maps"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
	"time"

	"seehuhn.de/go/glyphedit/fontdata"
	"seehuhn.de/go/glyphedit/glyph"
	"seehuhn.de/go/glyphedit/internal/fixtures"
)

func TestGlyphData(t *testing.T) {
	f := fixtures.Font()
	info, err := f.GlyphData(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, l := range info.Layers {
		ids = append(ids, l.ID)
	}
	if want := []string{fixtures.Regular, fixtures.Bold, fixtures.Alt}; !slices.Equal(ids, want) {
		t.Errorf("layers = %v, want %v", ids, want)
	}
	if info.Layers[2].Master() != fixtures.Regular {
		t.Errorf("alternate layer belongs to %q", info.Layers[2].Master())
	}
	if !slices.Equal(info.AxesOrder, []string{"wght", "wdth"}) {
		t.Errorf("axes order = %v", info.AxesOrder)
	}

	_, err = f.GlyphData(context.Background(), "nonexistent")
	if !errors.Is(err, fontdata.ErrNotFound) {
		t.Errorf("missing glyph error = %v", err)
	}
}

func TestLayerDataResolvesNested(t *testing.T) {
	f := fixtures.Font()
	r, err := f.LayerData(context.Background(), "dots", fixtures.Bold)
	if err != nil {
		t.Fatal(err)
	}
	got := slices.Sorted(maps.Keys(r.Nested))
	if want := []string{"colon", "period"}; !slices.Equal(got, want) {
		t.Errorf("nested = %v, want %v", got, want)
	}
	if r.Nested["period"].ID != fixtures.Bold {
		t.Errorf("nested period layer = %q", r.Nested["period"].ID)
	}
}

func TestLayerDataFallsBackToMaster(t *testing.T) {
	f := fixtures.Font()
	layers, _ := f.Glyph("A")
	alt := layers[2]
	alt.Shapes = append(alt.Shapes, fixtures.Ref("period", 700, 0))
	if err := f.SaveLayer(context.Background(), "A", fixtures.Alt, alt); err != nil {
		t.Fatal(err)
	}

	r, err := f.LayerData(context.Background(), "A", fixtures.Alt)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := r.Nested["period"]
	if !ok || p.ID != fixtures.Regular {
		t.Errorf("period resolved to %+v", p)
	}
}

func TestLayerDataCycle(t *testing.T) {
	f := fixtures.Font()
	r, err := f.LayerData(context.Background(), "cycleA", fixtures.Regular)
	if err != nil {
		t.Fatal(err)
	}
	got := slices.Sorted(maps.Keys(r.Nested))
	if !slices.Equal(got, []string{"cycleB"}) {
		t.Errorf("nested = %v, want [cycleB]", got)
	}
}

func TestSaveLayerRejectsInterpolated(t *testing.T) {
	f := fixtures.Font()
	layers, _ := f.Glyph("period")
	l := layers[0]
	l.Interpolated = true
	err := f.SaveLayer(context.Background(), "period", l.ID, l)
	if !errors.Is(err, fontdata.ErrInterpolated) {
		t.Errorf("error = %v, want ErrInterpolated", err)
	}

	l.Interpolated = false
	err = f.SaveLayer(context.Background(), "period", "no-such-layer", l)
	if !errors.Is(err, fontdata.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	orig := fixtures.Font()
	if err := fontdata.WriteFont(dir, orig); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	s, err := fontdata.Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if !slices.Equal(s.Glyphs(), orig.Glyphs()) {
		t.Fatalf("glyphs = %v, want %v", s.Glyphs(), orig.Glyphs())
	}
	for _, name := range orig.Glyphs() {
		want, _ := orig.Glyph(name)
		got, _ := s.Glyph(name)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("glyph %q differs after round trip", name)
		}
	}
	origAxes, _ := orig.Axes(ctx)
	gotAxes, _ := s.Axes(ctx)
	if !reflect.DeepEqual(gotAxes, origAxes) {
		t.Errorf("axes = %+v, want %+v", gotAxes, origAxes)
	}
}

func TestStoreSavePersists(t *testing.T) {
	dir := t.TempDir()
	if err := fontdata.WriteFont(dir, fixtures.Font()); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s, err := fontdata.Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}

	r, err := s.LayerData(ctx, "period", fixtures.Regular)
	if err != nil {
		t.Fatal(err)
	}
	glyph.MoveNode(r.Layer, 0, 2, 7, 11)
	if err := s.SaveLayer(ctx, "period", fixtures.Regular, r.Layer); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := fontdata.Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := s2.LayerData(ctx, "period", fixtures.Regular)
	if err != nil {
		t.Fatal(err)
	}
	n := r2.Layer.Shapes[0].(*glyph.Path).Nodes[2]
	if n.X != 107 || n.Y != 111 {
		t.Errorf("saved node at (%g, %g), want (107, 111)", n.X, n.Y)
	}
}

func TestStoreWatch(t *testing.T) {
	dir := t.TempDir()
	if err := fontdata.WriteFont(dir, fixtures.Font()); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s, err := fontdata.Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Watch(); err != nil {
		t.Fatal(err)
	}

	// saving through the store must not be reported as an external change
	r, _ := s.LayerData(ctx, "colon", fixtures.Regular)
	if err := s.SaveLayer(ctx, "colon", fixtures.Regular, r.Layer); err != nil {
		t.Fatal(err)
	}

	content := "name: period\nlayers:\n  - id: m01\n    width: 999\n"
	fname := filepath.Join(dir, fontdata.GlyphDirName, "period.yaml")
	if err := os.WriteFile(fname, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case name := <-s.Changes():
			if name == "colon" {
				t.Fatal("own write reported as external change")
			}
			if name != "period" {
				continue
			}
			layers, _ := s.Glyph("period")
			if len(layers) != 1 || layers[0].Width != 999 {
				t.Errorf("reloaded layers = %+v", layers)
			}
			return
		case <-timeout:
			t.Fatal("no change notification")
		}
	}
}

// TestStoreWatchTruncatedWrite rewrites a glyph file in place, the way
// editors without atomic saves do. Only the final content may be loaded.
func TestStoreWatchTruncatedWrite(t *testing.T) {
	dir := t.TempDir()
	if err := fontdata.WriteFont(dir, fixtures.Font()); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s, err := fontdata.Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Watch(); err != nil {
		t.Fatal(err)
	}

	fname := filepath.Join(dir, fontdata.GlyphDirName, "period.yaml")
	fd, err := os.OpenFile(fname, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if err := fd.Close(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	content := "name: period\nlayers:\n  - id: m01\n    width: 777\n"
	if err := os.WriteFile(fname, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case name := <-s.Changes():
			if name != "period" {
				continue
			}
			layers, _ := s.Glyph("period")
			if len(layers) != 1 || layers[0].Width != 777 {
				t.Fatalf("reloaded layers = %+v", layers)
			}
			return
		case <-timeout:
			t.Fatal("no change notification")
		}
	}
}

func TestOpenRejectsEmptyGlyph(t *testing.T) {
	dir := t.TempDir()
	if err := fontdata.WriteFont(dir, fixtures.Font()); err != nil {
		t.Fatal(err)
	}
	fname := filepath.Join(dir, fontdata.GlyphDirName, "period.yaml")
	if err := os.WriteFile(fname, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := fontdata.Open(context.Background(), dir); err == nil {
		t.Error("empty glyph file accepted")
	}
}

func TestBlenderExactAtMasters(t *testing.T) {
	f := fixtures.Font()
	b := &fontdata.Blender{Source: f}
	ctx := context.Background()
	axes, _ := f.Axes(ctx)

	for _, m := range f.Masters() {
		r, err := b.Interpolate(ctx, "exclam", axes.ToDesign(m.Location))
		if err != nil {
			t.Fatal(err)
		}
		want, _ := f.LayerData(ctx, "exclam", m.ID)
		if !r.Layer.Interpolated || !r.Nested["period"].Interpolated {
			t.Error("result not marked as interpolated")
		}
		got := r.Layer.Shapes[0].(*glyph.Path).Nodes
		exp := want.Layer.Shapes[0].(*glyph.Path).Nodes
		if !slices.Equal(got, exp) {
			t.Errorf("%s: nodes = %v, want %v", m.ID, got, exp)
		}
	}
}

func TestBlenderMidway(t *testing.T) {
	f := fixtures.Font()
	b := &fontdata.Blender{Source: f}
	ctx := context.Background()
	axes, _ := f.Axes(ctx)

	lo := axes.ToDesign(glyph.Location{"wght": 400, "wdth": 100})
	hi := axes.ToDesign(glyph.Location{"wght": 700, "wdth": 100})
	mid := glyph.Location{"wght": (lo["wght"] + hi["wght"]) / 2, "wdth": 100}

	r, err := b.Interpolate(ctx, "period", mid)
	if err != nil {
		t.Fatal(err)
	}
	n := r.Layer.Shapes[0].(*glyph.Path).Nodes[2]
	if math.Abs(n.X-130) > 1e-9 || math.Abs(n.Y-130) > 1e-9 {
		t.Errorf("midway corner at (%g, %g), want (130, 130)", n.X, n.Y)
	}
	if math.Abs(r.Layer.Width-230) > 1e-9 {
		t.Errorf("width = %g, want 230", r.Layer.Width)
	}
	if r.Layer.ID != glyph.InterpolatedLayer {
		t.Errorf("layer id = %q", r.Layer.ID)
	}
}

func TestBlenderIncompatible(t *testing.T) {
	f := fixtures.Font()
	layers, _ := f.Glyph("period")
	layers[1].Shapes = append(layers[1].Shapes, fixtures.Rect(0, 0, 1, 1))
	f.SetGlyph("period", layers)

	b := &fontdata.Blender{Source: f}
	_, err := b.Interpolate(context.Background(), "period", glyph.Location{"wght": 100})
	if !errors.Is(err, fontdata.ErrIncompatible) {
		t.Errorf("error = %v, want ErrIncompatible", err)
	}
}
