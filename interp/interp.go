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

// Package interp coordinates interpolation preview requests.
//
// At most one request per glyph is current. Issuing a new request for a
// glyph rejects the pending one with [ErrSuperseded] and cancels its
// context. Every request carries a per-glyph sequence number; a completion
// whose sequence number is no longer the latest is discarded.
package interp

import (
	"context"
	"errors"
	"sync"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/fontdata"
	"seehuhn.de/go/glyphedit/glyph"
)

// ErrSuperseded is the outcome of a request which was replaced by a newer
// request for the same glyph, or cancelled.
var ErrSuperseded = errors.New("interp: request superseded")

// Coordinator issues interpolation requests. It is safe for concurrent
// use.
type Coordinator struct {
	svc fontdata.Interpolator

	mu      sync.Mutex
	seq     map[string]uint64
	pending map[string]*Ticket
}

// New returns a coordinator which sends requests to svc.
func New(svc fontdata.Interpolator) *Coordinator {
	return &Coordinator{
		svc:     svc,
		seq:     make(map[string]uint64),
		pending: make(map[string]*Ticket),
	}
}

// Ticket is the handle of one request.
type Ticket struct {
	glyph  string
	seq    uint64
	loc    glyph.Location
	cancel context.CancelFunc

	once sync.Once
	done chan struct{}
	res  *glyph.Resolved
	err  error
}

// Request asks for the geometry of the named glyph at the design space
// location loc. A pending request for the same glyph is rejected with
// [ErrSuperseded] before the new one is issued.
//
// The request runs in its own goroutine. Its context is derived from ctx.
func (c *Coordinator) Request(ctx context.Context, name string, loc glyph.Location) *Ticket {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if old := c.pending[name]; old != nil {
		old.reject()
	}
	c.seq[name]++
	t := &Ticket{
		glyph:  name,
		seq:    c.seq[name],
		loc:    loc.Clone(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	c.pending[name] = t
	c.mu.Unlock()

	go func() {
		res, err := c.svc.Interpolate(ctx, name, t.loc)
		c.complete(t, res, err)
	}()
	return t
}

func (c *Coordinator) complete(t *Ticket, res *glyph.Resolved, err error) {
	c.mu.Lock()
	if c.seq[t.glyph] != t.seq {
		c.mu.Unlock()
		glyphedit.Logger().Debug("discarding stale interpolation",
			"glyph", t.glyph, "seq", t.seq)
		return
	}
	delete(c.pending, t.glyph)
	c.mu.Unlock()

	if err == nil && res == nil {
		err = fontdata.ErrNotFound
	}
	if err == nil {
		res.MarkInterpolated()
	}
	t.finish(res, err)
	t.cancel()
}

// Latest returns the sequence number of the most recent request for the
// named glyph, or 0 if there was none.
func (c *Coordinator) Latest(name string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq[name]
}

// IsLatest reports whether t is the most recent request for its glyph.
func (c *Coordinator) IsLatest(t *Ticket) bool {
	return t != nil && c.Latest(t.glyph) == t.seq
}

// Cancel rejects the pending request for the named glyph, if any, with
// [ErrSuperseded]. A completion arriving later is discarded.
func (c *Coordinator) Cancel(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t := c.pending[name]; t != nil {
		t.reject()
		delete(c.pending, name)
		c.seq[name]++
	}
}

// CancelAll cancels the pending requests of all glyphs.
func (c *Coordinator) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, t := range c.pending {
		t.reject()
		delete(c.pending, name)
		c.seq[name]++
	}
}

// reject finishes t with ErrSuperseded and cancels its context.
func (t *Ticket) reject() {
	t.finish(nil, ErrSuperseded)
	t.cancel()
}

func (t *Ticket) finish(res *glyph.Resolved, err error) {
	t.once.Do(func() {
		t.res = res
		t.err = err
		close(t.done)
	})
}

// Glyph returns the name of the requested glyph.
func (t *Ticket) Glyph() string {
	return t.glyph
}

// Seq returns the sequence number of the request.
func (t *Ticket) Seq() uint64 {
	return t.seq
}

// Location returns the requested design space location.
func (t *Ticket) Location() glyph.Location {
	return t.loc.Clone()
}

// Done is closed once the request has succeeded, failed or been
// superseded.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the request is finished or ctx is done.
// A superseded request returns [ErrSuperseded]. A successful result has
// the Interpolated flag set on all its layers.
func (t *Ticket) Wait(ctx context.Context) (*glyph.Resolved, error) {
	select {
	case <-t.done:
		return t.res, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
