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

package fontdata

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/glyph"
)

// Layout of a font directory.
const (
	FontFileName = "font.yaml"
	GlyphDirName = "glyphs"
	glyphExt     = ".yaml"
)

// loadConcurrency limits the number of glyph files read in parallel.
const loadConcurrency = 8

// Store is a [Font] backed by a directory of YAML files: font.yaml holds
// the axes and masters, and glyphs/ holds one file per glyph. Saving a
// layer rewrites the file of its glyph.
type Store struct {
	*Font
	dir string

	fileMu  sync.Mutex
	written map[string][]byte

	watch      *watcher
	reloadDone chan struct{}
	closeOnce  sync.Once
}

var _ Service = (*Store)(nil)

// Open loads the font directory dir.
func Open(ctx context.Context, dir string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(dir, FontFileName))
	if err != nil {
		return nil, err
	}
	var ff fontFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("%s: %w", FontFileName, err)
	}
	axes, masters := ff.decode()

	s := &Store{
		Font:    NewFont(axes, masters),
		dir:     dir,
		written: make(map[string][]byte),
	}

	files, err := filepath.Glob(filepath.Join(dir, GlyphDirName, "*"+glyphExt))
	if err != nil {
		return nil, err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, fname := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := s.loadGlyph(fname)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	glyphedit.Logger().Info("font loaded", "dir", dir, "glyphs", len(files))
	return s, nil
}

// Dir returns the font directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) loadGlyph(fname string) (string, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	var gf glyphFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(fname), err)
	}
	if len(gf.Layers) == 0 {
		// an empty or truncated file, possibly still being written
		return "", fmt.Errorf("%s: no layers", filepath.Base(fname))
	}
	if gf.Name == "" {
		gf.Name = glyphNameFromFile(fname)
	}
	s.Font.SetGlyph(gf.Name, gf.decode())
	return gf.Name, nil
}

// SaveLayer implements [Service]. The layer is stored in memory and the
// glyph file is rewritten.
func (s *Store) SaveLayer(ctx context.Context, name, layerID string, l *glyph.Layer) error {
	if err := s.Font.SaveLayer(ctx, name, layerID, l); err != nil {
		return err
	}
	layers, _ := s.Font.Glyph(name)
	return s.writeGlyph(name, layers)
}

func (s *Store) writeGlyph(name string, layers []*glyph.Layer) error {
	data, err := yaml.Marshal(encodeGlyph(name, layers))
	if err != nil {
		return err
	}
	fname := glyphFileName(s.dir, name)

	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if err := writeAtomic(fname, data); err != nil {
		return err
	}
	s.written[fname] = data
	return nil
}

// ownWrite reports whether the file content is what the store last wrote.
func (s *Store) ownWrite(fname string, data []byte) bool {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	prev, ok := s.written[fname]
	return ok && bytes.Equal(prev, data)
}

// Watch starts watching the glyph directory for changes made by other
// programs. Changed glyphs are reloaded and their names are sent on
// [Store.Changes].
func (s *Store) Watch() error {
	if s.watch != nil {
		return nil
	}
	w, err := newWatcher(filepath.Join(s.dir, GlyphDirName))
	if err != nil {
		return err
	}
	s.watch = w
	s.reloadDone = make(chan struct{})
	go func() {
		defer close(s.reloadDone)
		s.reloadLoop()
	}()
	return nil
}

// Changes returns the channel of externally changed glyph names.
// The channel is nil until [Store.Watch] has been called and is closed
// by [Store.Close].
func (s *Store) Changes() <-chan string {
	if s.watch == nil {
		return nil
	}
	return s.watch.changes
}

func (s *Store) reloadLoop() {
	log := glyphedit.Logger()
	for {
		select {
		case fname, ok := <-s.watch.events:
			if !ok {
				return
			}
			data, err := os.ReadFile(fname)
			if err != nil {
				// removed or renamed away; keep the in-memory copy
				log.Debug("glyph file vanished", "file", fname, "error", err)
				continue
			}
			if s.ownWrite(fname, data) {
				continue
			}
			name, err := s.loadGlyph(fname)
			if err != nil {
				log.Warn("reloading glyph failed", "file", fname, "error", err)
				continue
			}
			log.Info("glyph reloaded", "glyph", name)
			select {
			case s.watch.changes <- name:
			case <-s.watch.closeCh:
				return
			}
		case err, ok := <-s.watch.errors:
			if !ok {
				return
			}
			log.Warn("font directory watcher", "error", err)
		case <-s.watch.closeCh:
			return
		}
	}
}

// Close stops watching the font directory and closes the
// [Store.Changes] channel.
func (s *Store) Close() error {
	if s.watch == nil {
		return nil
	}
	var err error
	s.closeOnce.Do(func() {
		err = s.watch.Close()
		<-s.reloadDone
		close(s.watch.changes)
	})
	return err
}

// WriteFont writes f as a font directory into dir, creating it if needed.
func WriteFont(dir string, f *Font) error {
	if err := os.MkdirAll(filepath.Join(dir, GlyphDirName), 0o755); err != nil {
		return err
	}
	axes, _ := f.Axes(context.Background())
	data, err := yaml.Marshal(encodeFont(axes, f.Masters()))
	if err != nil {
		return err
	}
	err = writeAtomic(filepath.Join(dir, FontFileName), data)
	for _, name := range f.Glyphs() {
		layers, _ := f.Glyph(name)
		data, merr := yaml.Marshal(encodeGlyph(name, layers))
		if merr != nil {
			err = multierr.Append(err, merr)
			continue
		}
		err = multierr.Append(err, writeAtomic(glyphFileName(dir, name), data))
	}
	return err
}

func writeAtomic(fname string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(fname), ".tmp-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	err = multierr.Append(err, tmp.Close())
	if err == nil {
		err = os.Rename(tmp.Name(), fname)
	}
	if err != nil {
		os.Remove(tmp.Name())
	}
	return err
}

func glyphFileName(dir, name string) string {
	return filepath.Join(dir, GlyphDirName, url.PathEscape(name)+glyphExt)
}

func glyphNameFromFile(fname string) string {
	base := strings.TrimSuffix(filepath.Base(fname), glyphExt)
	if name, err := url.PathUnescape(base); err == nil {
		return name
	}
	return base
}
