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

// Package glyphedit is the editing core of a variable font glyph editor.
//
// The sub-packages implement nested component navigation ([compstack]),
// coordinate transforms ([affine]), hit testing ([hittest]), exact master
// matching ([matching]), interpolation preview coordination ([interp]) and
// selection and drag handling ([selection]). Package [editor] ties them
// together into a single event loop driven by typed commands.
//
// Rendering, text shaping and font compilation are not part of this module;
// they are reached through the interfaces in package [fontdata].
//
// [compstack]: seehuhn.de/go/glyphedit/compstack
// [affine]: seehuhn.de/go/glyphedit/affine
// [hittest]: seehuhn.de/go/glyphedit/hittest
// [matching]: seehuhn.de/go/glyphedit/matching
// [interp]: seehuhn.de/go/glyphedit/interp
// [selection]: seehuhn.de/go/glyphedit/selection
// [editor]: seehuhn.de/go/glyphedit/editor
// [fontdata]: seehuhn.de/go/glyphedit/fontdata
package glyphedit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all log records. Enabled reports false, so callers
// skip formatting entirely while logging is disabled.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by glyphedit and all its
// sub-packages. By default nothing is logged. Pass nil to restore the
// silent default.
//
// Log levels:
//   - [slog.LevelDebug]: stale or superseded asynchronous completions
//   - [slog.LevelInfo]: lifecycle events (glyph opened, layer selected)
//   - [slog.LevelWarn]: recoverable problems (cyclic components, failed saves)
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
