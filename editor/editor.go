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

// Package editor implements the glyph editing session.
//
// An [Editor] owns the component navigation stack, the selection, the
// hit tester, the master matcher and the interpolation coordinator of one
// session. All of its state is mutated by a single event loop, started
// with [Editor.Run]. User input arrives as typed [Command] values, and
// results of asynchronous work (layer fetches, interpolation previews,
// saves) are applied on the same loop. After every change a read-only
// [Snapshot] is published on [Editor.Snapshots].
//
// Every change of the edited glyph increments a selection sequence
// number. Completions of asynchronous work started for an earlier glyph
// compare their captured sequence number with the current one and
// discard themselves.
package editor

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/compstack"
	"seehuhn.de/go/glyphedit/config"
	"seehuhn.de/go/glyphedit/fontdata"
	"seehuhn.de/go/glyphedit/glyph"
	"seehuhn.de/go/glyphedit/hittest"
	"seehuhn.de/go/glyphedit/interp"
	"seehuhn.de/go/glyphedit/matching"
	"seehuhn.de/go/glyphedit/selection"
)

// ErrClosed is returned when commands are sent to an editor whose event
// loop has stopped.
var ErrClosed = errors.New("editor: closed")

// Option configures an [Editor].
type Option func(*Editor)

// WithConfig sets hit radii, flattening tolerance and recompile delay.
func WithConfig(c *config.Config) Option {
	return func(e *Editor) {
		e.cfg = c
	}
}

// WithCompiler enables debounced recompilation after edits.
func WithCompiler(c fontdata.Compiler) Option {
	return func(e *Editor) {
		e.compiler = c
	}
}

// WithChanges makes the editor reload geometry whenever a glyph name is
// received on ch, for example from [fontdata.Store.Changes].
func WithChanges(ch <-chan string) Option {
	return func(e *Editor) {
		e.changes = ch
	}
}

// Editor is one editing session. Create it with [New] and start its event
// loop with [Editor.Run].
type Editor struct {
	svc      fontdata.Service
	interp   *interp.Coordinator
	compiler fontdata.Compiler
	cfg      *config.Config

	cmds      chan Command
	results   chan func()
	snapshots chan Snapshot
	changes   <-chan string
	done      chan struct{}

	// The fields below are owned by the event loop.

	ctx     context.Context
	pending int
	waiters []chan struct{}

	arena   *glyph.Arena
	hit     *hittest.Engine
	stack   compstack.Stack
	sel     *selection.State
	drag    selection.Drag
	matcher matching.Matcher
	restore []restoreEntry

	axes glyph.Axes
	loc  glyph.Location // user space

	seq       uint64 // selection sequence number
	glyph     string
	info      *fontdata.GlyphInfo
	layerID   string // selected layer, empty while previewing
	shown     string // arena key of the displayed geometry
	preview   bool
	previewAt glyph.Location // design location of the last preview request
	fetchSeq  uint64
	slider    bool // continuous axis change in progress
	lastLayer map[string]string

	viewport matrix.Matrix

	version uint64
	dirty   map[glyph.Key]uint64
	saving  map[glyph.Key]bool
	queued  map[glyph.Key]pendingSave

	compileTimer  *time.Timer
	compileGlyphs map[string]bool
}

// New returns an editor which reads and writes geometry through svc and
// obtains interpolation previews from ip.
func New(svc fontdata.Service, ip fontdata.Interpolator, opts ...Option) *Editor {
	e := &Editor{
		svc:       svc,
		interp:    interp.New(ip),
		cfg:       config.Default(),
		cmds:      make(chan Command),
		results:   make(chan func()),
		snapshots: make(chan Snapshot, 1),
		done:      make(chan struct{}),

		arena:         glyph.NewArena(),
		sel:           selection.New(),
		lastLayer:     make(map[string]string),
		viewport:      matrix.Identity,
		dirty:         make(map[glyph.Key]uint64),
		saving:        make(map[glyph.Key]bool),
		queued:        make(map[glyph.Key]pendingSave),
		compileGlyphs: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.hit = hittest.New(e.arena)
	e.hit.HitRadius = e.cfg.HitRadius
	e.hit.ComponentRadius = e.cfg.ComponentRadius
	e.hit.Flatness = e.cfg.Flatness
	return e
}

// Run executes the event loop until ctx is cancelled. It must be called
// exactly once.
func (e *Editor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer close(e.done)

	e.ctx = ctx
	axes, err := e.svc.Axes(ctx)
	if err != nil {
		return fmt.Errorf("editor: reading axes: %w", err)
	}
	e.axes = axes
	e.loc = axes.Defaults()
	e.publish()

	log := glyphedit.Logger()
	for {
		select {
		case <-ctx.Done():
			e.interp.CancelAll()
			if e.compileTimer != nil {
				e.compileTimer.Stop()
			}
			return ctx.Err()

		case cmd := <-e.cmds:
			switch c := cmd.(type) {
			case syncCmd:
				e.waiters = append(e.waiters, c.done)
				e.releaseWaiters()
			case snapshotCmd:
				c.reply <- e.snapshot()
			default:
				if cmd.run(e) {
					e.publish()
				}
			}

		case apply := <-e.results:
			if apply != nil {
				apply()
			}
			e.publish()
			e.pending--
			e.releaseWaiters()

		case name, ok := <-e.changes:
			if !ok {
				e.changes = nil
				continue
			}
			log.Info("glyph changed on disk", "glyph", name)
			e.externalChange(name)
			e.publish()

		case <-e.compileC():
			e.compileTimer = nil
			e.compile()
		}
	}
}

// Do sends a command to the event loop.
func (e *Editor) Do(ctx context.Context, cmd Command) error {
	select {
	case e.cmds <- cmd:
		return nil
	case <-e.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sync waits until all commands sent before have been executed and all
// asynchronous work started by them has completed.
func (e *Editor) Sync(ctx context.Context) error {
	done := make(chan struct{})
	if err := e.Do(ctx, syncCmd{done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-e.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns a snapshot of the current state.
func (e *Editor) Current(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := e.Do(ctx, snapshotCmd{reply: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Snapshots returns the channel on which state snapshots are published.
// Only the most recent snapshot is kept; older ones are dropped if the
// reader falls behind.
func (e *Editor) Snapshots() <-chan Snapshot {
	return e.snapshots
}

// spawn runs work in a new goroutine. The function returned by work, if
// not nil, is then executed on the event loop.
func (e *Editor) spawn(work func(ctx context.Context) func()) {
	e.pending++
	go func() {
		apply := work(e.ctx)
		select {
		case e.results <- apply:
		case <-e.done:
		}
	}()
}

func (e *Editor) releaseWaiters() {
	if e.pending > 0 {
		return
	}
	for _, w := range e.waiters {
		close(w)
	}
	e.waiters = e.waiters[:0]
}

func (e *Editor) publish() {
	s := e.snapshot()
	select {
	case <-e.snapshots:
	default:
	}
	e.snapshots <- s
}

// Snapshot is a read-only copy of the editor state.
type Snapshot struct {
	// Seq is the selection sequence number.
	Seq uint64

	// Glyph is the edited top-level glyph, or empty outside edit mode.
	Glyph string

	// LayerID is the selected layer. It is empty while an interpolated
	// preview is shown.
	LayerID string
	Preview bool

	// Location is the current axis location in user space.
	Location glyph.Location

	// Layer is a copy of the layer edited at the current depth, and
	// EditGlyph the name of its glyph.
	Layer     *glyph.Layer
	EditGlyph string

	Depth       int
	Breadcrumbs []string

	Selection selection.Snapshot
	Hover     selection.Entity

	// Dirty lists layers with edits which have not been saved yet.
	Dirty []glyph.Key

	// Restore lists the pending restore entries, oldest first.
	Restore []RestoreReason
}

func (e *Editor) snapshot() Snapshot {
	s := Snapshot{
		Seq:         e.seq,
		Glyph:       e.glyph,
		LayerID:     e.layerID,
		Preview:     e.preview,
		Location:    e.loc.Clone(),
		Layer:       e.stack.Current().Clone(),
		EditGlyph:   e.stack.Glyph(),
		Depth:       e.stack.Depth(),
		Breadcrumbs: e.stack.Breadcrumbs(),
		Selection:   e.sel.Snapshot(),
		Hover:       e.sel.Hover(),
	}
	s.Dirty = slices.SortedFunc(maps.Keys(e.dirty), func(a, b glyph.Key) int {
		if a.Glyph != b.Glyph {
			return cmp.Compare(a.Glyph, b.Glyph)
		}
		return cmp.Compare(a.Layer, b.Layer)
	})
	for _, r := range e.restore {
		s.Restore = append(s.Restore, r.reason)
	}
	return s
}
