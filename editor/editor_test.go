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

package editor

import (
	"context"
	"errors"
	"math"
	"reflect"
	"slices"
	"sync"
	"testing"
	"time"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/glyphedit/config"
	"seehuhn.de/go/glyphedit/fontdata"
	"seehuhn.de/go/glyphedit/glyph"
	"seehuhn.de/go/glyphedit/internal/fixtures"
	"seehuhn.de/go/glyphedit/selection"
)

// service wraps the fixture font, counting saves and optionally holding
// back the summary of one glyph.
type service struct {
	*fontdata.Font

	mu       sync.Mutex
	saves    int
	failSave bool

	slow    string
	started chan struct{}
	release chan struct{}

	fetches   int
	failFetch map[glyph.Key]int // remaining failures per layer
}

func newService() *service {
	return &service{
		Font:      fixtures.Font(),
		started:   make(chan struct{}, 1),
		release:   make(chan struct{}),
		failFetch: make(map[glyph.Key]int),
	}
}

func (s *service) GlyphData(ctx context.Context, name string) (*fontdata.GlyphInfo, error) {
	if name == s.slow {
		s.started <- struct{}{}
		<-s.release
	}
	return s.Font.GlyphData(ctx, name)
}

func (s *service) LayerData(ctx context.Context, name, layerID string) (*glyph.Resolved, error) {
	s.mu.Lock()
	s.fetches++
	key := glyph.Key{Glyph: name, Layer: layerID}
	fail := s.failFetch[key] > 0
	if fail {
		s.failFetch[key]--
	}
	s.mu.Unlock()
	if fail {
		return nil, errors.New("connection reset")
	}
	return s.Font.LayerData(ctx, name, layerID)
}

func (s *service) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func (s *service) SaveLayer(ctx context.Context, name, layerID string, l *glyph.Layer) error {
	s.mu.Lock()
	s.saves++
	fail := s.failSave
	s.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return s.Font.SaveLayer(ctx, name, layerID, l)
}

func (s *service) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *service) setFail(fail bool) {
	s.mu.Lock()
	s.failSave = fail
	s.mu.Unlock()
}

// compiler records the glyph lists it is asked to compile.
type compiler struct {
	calls chan []string
}

func (c *compiler) Compile(ctx context.Context, glyphs []string) error {
	c.calls <- glyphs
	return nil
}

func start(t *testing.T, svc fontdata.Service, opts ...Option) *Editor {
	t.Helper()
	e := New(svc, &fontdata.Blender{Source: svc}, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- e.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errc
	})
	return e
}

// do runs the commands, waits for all resulting work and returns the
// final state.
func do(t *testing.T, e *Editor, cmds ...Command) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, cmd := range cmds {
		if err := e.Do(ctx, cmd); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.Sync(ctx); err != nil {
		t.Fatal(err)
	}
	s, err := e.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func at(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func node(t *testing.T, l *glyph.Layer, shape, i int) glyph.Node {
	t.Helper()
	p, ok := l.Path(shape)
	if !ok || i >= len(p.Nodes) {
		t.Fatalf("no node %d of shape %d", i, shape)
	}
	return p.Nodes[i]
}

func TestOpenGlyph(t *testing.T) {
	e := start(t, newService())

	s := do(t, e, OpenGlyph{Name: "exclam"})
	if s.Glyph != "exclam" || s.LayerID != fixtures.Regular || s.Preview {
		t.Fatalf("got glyph %q layer %q preview %t", s.Glyph, s.LayerID, s.Preview)
	}
	if s.Layer == nil || len(s.Layer.Shapes) != 3 {
		t.Fatalf("layer = %+v", s.Layer)
	}
	if s.Depth != 0 || !slices.Equal(s.Breadcrumbs, []string{"exclam"}) {
		t.Errorf("depth %d, breadcrumbs %v", s.Depth, s.Breadcrumbs)
	}

	s2 := do(t, e, OpenGlyph{Name: "period"})
	if s2.Seq <= s.Seq {
		t.Errorf("sequence number did not increase: %d, %d", s.Seq, s2.Seq)
	}
}

// TestEnterEscapeRestores enters the "period" component of "exclam" and
// leaves it with Escape.
func TestEnterEscapeRestores(t *testing.T) {
	e := start(t, newService())

	before := do(t, e,
		OpenGlyph{Name: "exclam"},
		PointerDown{Point: at(101, 251)},
		PointerUp{},
		PointerDown{Point: at(50, 226), Shift: true},
	)
	want := []selection.PointRef{{Shape: 0, Node: 1}, {Shape: 1, Node: 3}}
	if !slices.Equal(before.Selection.Points, want) {
		t.Fatalf("selection = %v, want %v", before.Selection.Points, want)
	}

	inside := do(t, e, EnterComponent{Shape: 2})
	if inside.Depth != 1 || inside.EditGlyph != "period" {
		t.Fatalf("depth %d, editing %q", inside.Depth, inside.EditGlyph)
	}
	if len(inside.Selection.Points) != 0 {
		t.Error("selection not cleared on enter")
	}
	if !slices.Equal(inside.Restore, []RestoreReason{RestoreComponent}) {
		t.Errorf("restore = %v", inside.Restore)
	}

	after := do(t, e, Escape{})
	if after.Depth != 0 || after.EditGlyph != "exclam" || after.LayerID != before.LayerID {
		t.Fatalf("after escape: depth %d, editing %q, layer %q", after.Depth, after.EditGlyph, after.LayerID)
	}
	if !reflect.DeepEqual(after.Selection, before.Selection) {
		t.Errorf("selection = %+v, want %+v", after.Selection, before.Selection)
	}
	if !reflect.DeepEqual(after.Layer, before.Layer) {
		t.Error("layer changed")
	}
	if after.Hover.Kind != selection.None {
		t.Error("hover not cleared")
	}
}

func TestStaleOpenDiscarded(t *testing.T) {
	svc := newService()
	svc.slow = "A"
	e := start(t, svc)

	ctx := context.Background()
	if err := e.Do(ctx, OpenGlyph{Name: "A"}); err != nil {
		t.Fatal(err)
	}
	select {
	case <-svc.started:
	case <-time.After(5 * time.Second):
		t.Fatal("glyph data not requested")
	}
	if err := e.Do(ctx, OpenGlyph{Name: "period"}); err != nil {
		t.Fatal(err)
	}
	close(svc.release)

	s := do(t, e)
	if s.Glyph != "period" || s.EditGlyph != "period" {
		t.Errorf("editing %q / %q, want period", s.Glyph, s.EditGlyph)
	}
	if n := node(t, s.Layer, 0, 2); n.X != 100 {
		t.Errorf("displayed geometry is not the period: %+v", n)
	}
}

func TestMasterMatching(t *testing.T) {
	e := start(t, newService())
	do(t, e, OpenGlyph{Name: "period"})

	s := do(t, e, SetAxes{Location: glyph.Location{"wght": 700, "wdth": 100}})
	if s.LayerID != fixtures.Bold || s.Preview {
		t.Fatalf("layer %q preview %t", s.LayerID, s.Preview)
	}
	if n := node(t, s.Layer, 0, 2); n.X != 160 {
		t.Errorf("bold corner at %g", n.X)
	}

	s = do(t, e, SetAxes{Location: glyph.Location{"wght": 550, "wdth": 100}})
	if s.LayerID != "" || !s.Preview || !s.Layer.Interpolated {
		t.Fatalf("layer %q preview %t", s.LayerID, s.Preview)
	}
	if n := node(t, s.Layer, 0, 2); math.Abs(n.X-130) > 1e-6 {
		t.Errorf("interpolated corner at %g, want 130", n.X)
	}

	// the same location again changes nothing
	again := do(t, e, SetAxes{Location: glyph.Location{"wght": 550, "wdth": 100}})
	if !reflect.DeepEqual(again, s) {
		t.Error("repeated location changed the state")
	}

	s = do(t, e, SetAxes{Location: glyph.Location{"wght": 400, "wdth": 100}})
	if s.LayerID != fixtures.Regular || s.Preview || s.Layer.Interpolated {
		t.Errorf("layer %q preview %t", s.LayerID, s.Preview)
	}
}

func TestEscapePriority(t *testing.T) {
	e := start(t, newService())
	do(t, e, OpenGlyph{Name: "exclam"}, EnterComponent{Shape: 2})

	s := do(t, e, SetAxes{Location: glyph.Location{"wght": 550, "wdth": 100}, Dragging: true})
	if !slices.Equal(s.Restore, []RestoreReason{RestoreComponent, RestoreSlider}) {
		t.Fatalf("restore = %v", s.Restore)
	}
	if s.Depth != 1 || !s.Preview || !s.Layer.Interpolated {
		t.Fatalf("depth %d preview %t", s.Depth, s.Preview)
	}

	s = do(t, e, Escape{})
	if s.LayerID != fixtures.Regular || s.Preview || s.Depth != 1 {
		t.Fatalf("first escape: layer %q preview %t depth %d", s.LayerID, s.Preview, s.Depth)
	}
	if s.Location["wght"] != 400 {
		t.Errorf("location not restored: %v", s.Location)
	}

	s = do(t, e, Escape{})
	if s.Depth != 0 || s.Glyph != "exclam" {
		t.Fatalf("second escape: depth %d glyph %q", s.Depth, s.Glyph)
	}

	s = do(t, e, Escape{})
	if s.Glyph != "" || s.Layer != nil {
		t.Errorf("third escape: still editing %q", s.Glyph)
	}
}

func TestDragPersists(t *testing.T) {
	svc := newService()
	e := start(t, svc)
	do(t, e, OpenGlyph{Name: "period"})

	s := do(t, e,
		PointerDown{Point: at(100, 100)},
		PointerMove{Point: at(110.4, 100)},
		PointerMove{Point: at(110.6, 100)},
		PointerUp{},
	)
	if n := node(t, s.Layer, 0, 2); n.X != 111 || n.Y != 100 {
		t.Errorf("node at (%g, %g), want (111, 100)", n.X, n.Y)
	}
	if svc.saveCount() != 2 {
		t.Errorf("%d saves, want 2", svc.saveCount())
	}
	if len(s.Dirty) != 0 {
		t.Errorf("dirty after successful saves: %v", s.Dirty)
	}

	layers, _ := svc.Glyph("period")
	if n := layers[0].Shapes[0].(*glyph.Path).Nodes[2]; n.X != 111 {
		t.Errorf("saved node at %g", n.X)
	}
}

func TestDirtyTracking(t *testing.T) {
	svc := newService()
	svc.setFail(true)
	e := start(t, svc)
	do(t, e, OpenGlyph{Name: "period"})

	s := do(t, e,
		PointerDown{Point: at(0, 100)},
		PointerMove{Point: at(0, 105)},
		PointerUp{},
	)
	want := []glyph.Key{{Glyph: "period", Layer: fixtures.Regular}}
	if !slices.Equal(s.Dirty, want) {
		t.Fatalf("dirty = %v, want %v", s.Dirty, want)
	}

	svc.setFail(false)
	s = do(t, e, Save{})
	if len(s.Dirty) != 0 {
		t.Errorf("dirty after save: %v", s.Dirty)
	}
}

func TestInterpolatedNeverSaved(t *testing.T) {
	svc := newService()
	e := start(t, svc)
	do(t, e,
		OpenGlyph{Name: "period"},
		SetAxes{Location: glyph.Location{"wght": 550, "wdth": 100}},
	)

	s := do(t, e,
		PointerDown{Point: at(130, 130)},
		PointerMove{Point: at(140, 140)},
		PointerUp{},
		ToggleSmooth{},
		Save{},
	)
	if svc.saveCount() != 0 {
		t.Errorf("%d saves of interpolated geometry", svc.saveCount())
	}
	if n := node(t, s.Layer, 0, 2); math.Abs(n.X-130) > 1e-6 {
		t.Errorf("preview geometry modified: %+v", n)
	}
}

func TestDebouncedCompile(t *testing.T) {
	cfg := config.Default()
	cfg.RecompileDelay = 200 * time.Millisecond
	comp := &compiler{calls: make(chan []string, 10)}
	e := start(t, newService(), WithConfig(cfg), WithCompiler(comp))
	do(t, e, OpenGlyph{Name: "period"})

	do(t, e,
		PointerDown{Point: at(100, 100)},
		PointerMove{Point: at(101, 100)},
		PointerMove{Point: at(102, 100)},
		PointerMove{Point: at(103, 100)},
		PointerUp{},
	)

	select {
	case glyphs := <-comp.calls:
		if !slices.Equal(glyphs, []string{"period"}) {
			t.Errorf("compiled %v", glyphs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no compilation")
	}

	time.Sleep(400 * time.Millisecond)
	if n := len(comp.calls); n != 0 {
		t.Errorf("%d extra compilations", n)
	}
}

func TestDoubleClick(t *testing.T) {
	svc := newService()
	e := start(t, svc)
	do(t, e, OpenGlyph{Name: "exclam"})

	s := do(t, e, DoubleClick{Point: at(2, 3)})
	if s.Depth != 1 || s.EditGlyph != "period" {
		t.Fatalf("double-click on component origin: depth %d", s.Depth)
	}

	s = do(t, e, Escape{}, DoubleClick{Point: at(101, 251)})
	if got := node(t, s.Layer, 0, 1).Type; got != glyph.LineSmooth {
		t.Errorf("node type %q, want %q", got, glyph.LineSmooth)
	}
	if svc.saveCount() != 1 {
		t.Errorf("%d saves", svc.saveCount())
	}

	s = do(t, e, DoubleClick{Glyph: "A"})
	if s.Glyph != "A" {
		t.Errorf("editing %q, want A", s.Glyph)
	}
}

func TestHoverPublishesOnChange(t *testing.T) {
	e := start(t, newService())
	do(t, e, OpenGlyph{Name: "exclam"})
	drain(e)

	s := do(t, e, PointerMove{Point: at(101, 251)})
	if s.Hover != selection.PointEntity(0, 1) {
		t.Fatalf("hover = %+v", s.Hover)
	}
	select {
	case <-e.Snapshots():
	default:
		t.Fatal("no snapshot for hover change")
	}

	do(t, e, PointerMove{Point: at(102, 251)})
	select {
	case s := <-e.Snapshots():
		t.Errorf("snapshot without hover change: %+v", s.Hover)
	default:
	}
}

func drain(e *Editor) {
	for {
		select {
		case <-e.Snapshots():
		default:
			return
		}
	}
}

func TestSelectLayer(t *testing.T) {
	e := start(t, newService())
	do(t, e, OpenGlyph{Name: "A"})

	s := do(t, e, SelectLayer{ID: fixtures.Bold})
	if s.LayerID != fixtures.Bold || s.Location["wght"] != 700 {
		t.Errorf("layer %q at %v", s.LayerID, s.Location)
	}

	s = do(t, e, SelectLayer{ID: fixtures.Alt})
	if s.LayerID != fixtures.Alt || s.Location["wght"] != 400 || s.Preview {
		t.Errorf("layer %q at %v", s.LayerID, s.Location)
	}

	// reopening the glyph returns to the alternate layer
	s = do(t, e, OpenGlyph{Name: "period"}, OpenGlyph{Name: "A"})
	if s.LayerID != fixtures.Alt {
		t.Errorf("reopened on layer %q", s.LayerID)
	}
}

func TestLayerSwitchWhileNested(t *testing.T) {
	e := start(t, newService())
	s := do(t, e,
		OpenGlyph{Name: "dots"},
		EnterComponent{Shape: 1},
		EnterComponent{Shape: 1},
	)
	if s.Depth != 2 || !slices.Equal(s.Breadcrumbs, []string{"dots", "colon", "period"}) {
		t.Fatalf("depth %d, breadcrumbs %v", s.Depth, s.Breadcrumbs)
	}

	s = do(t, e, SelectLayer{ID: fixtures.Bold})
	if s.Depth != 2 || s.EditGlyph != "period" {
		t.Fatalf("after layer switch: depth %d editing %q", s.Depth, s.EditGlyph)
	}
	if n := node(t, s.Layer, 0, 2); n.X != 160 {
		t.Errorf("nested geometry not refreshed: %+v", n)
	}

	s = do(t, e, ExitComponent{Depth: 0})
	if s.Depth != 0 || len(s.Restore) != 0 {
		t.Errorf("breadcrumb exit: depth %d, restore %v", s.Depth, s.Restore)
	}
}

func TestExternalChange(t *testing.T) {
	svc := newService()
	changes := make(chan string)
	e := start(t, svc, WithChanges(changes))
	do(t, e, OpenGlyph{Name: "period"})

	layers, _ := svc.Glyph("period")
	glyph.MoveNode(layers[0], 0, 2, 50, 0)
	if err := svc.Font.SaveLayer(context.Background(), "period", fixtures.Regular, layers[0]); err != nil {
		t.Fatal(err)
	}
	changes <- "period"

	s := do(t, e)
	if n := node(t, s.Layer, 0, 2); n.X != 150 {
		t.Errorf("geometry not reloaded: %+v", n)
	}
}

func TestPrefetchFailureIgnored(t *testing.T) {
	svc := newService()
	e := start(t, svc)
	do(t, e, OpenGlyph{Name: "A"})
	do(t, e, SelectLayer{ID: fixtures.Alt}, OpenGlyph{Name: "period"})

	svc.mu.Lock()
	svc.failFetch[glyph.Key{Glyph: "A", Layer: fixtures.Alt}] = 1
	svc.mu.Unlock()

	s := do(t, e, OpenGlyph{Name: "A"})
	if s.Glyph != "A" || s.LayerID != fixtures.Alt || s.Layer == nil {
		t.Errorf("editing %q on layer %q, layer %v", s.Glyph, s.LayerID, s.Layer)
	}
}

func TestExternalChangeUnrelated(t *testing.T) {
	svc := newService()
	changes := make(chan string)
	e := start(t, svc, WithChanges(changes))
	do(t, e, OpenGlyph{Name: "dots"})

	n := svc.fetchCount()
	changes <- "A"
	do(t, e)
	if got := svc.fetchCount(); got != n {
		t.Errorf("%d fetches after a change to an unrelated glyph", got-n)
	}

	// "period" is reached through "colon"
	changes <- "period"
	do(t, e)
	if got := svc.fetchCount(); got == n {
		t.Error("no fetch after a change to a nested component")
	}
}
