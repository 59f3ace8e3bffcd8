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

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if *c != *Default() {
		t.Errorf("empty file gave %+v", c)
	}
	if l, _ := c.Level(); l != slog.LevelInfo {
		t.Errorf("level = %v", l)
	}
}

func TestParse(t *testing.T) {
	in := `
fontDir: fonts/test
watch: true
hitRadius: 4
recompileDelay: 2s
logLevel: debug
`
	c, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.FontDir = "fonts/test"
	want.Watch = true
	want.HitRadius = 4
	want.RecompileDelay = 2 * time.Second
	want.LogLevel = "debug"
	if *c != *want {
		t.Errorf("got %+v, want %+v", c, want)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in    string
		field string
	}{
		{"hitRadius: 0", "hitRadius"},
		{"componentRadius: -1", "componentRadius"},
		{"flatness: 0", "flatness"},
		{"recompileDelay: -1s", "recompileDelay"},
		{"logLevel: loud", "logLevel"},
		{`fontDir: ""`, "fontDir"},
	}
	for _, tc := range cases {
		_, err := Parse(strings.NewReader(tc.in))
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%q: error %v is not a ValidationError", tc.in, err)
			continue
		}
		if verr.Field != tc.field {
			t.Errorf("%q: field = %q, want %q", tc.in, verr.Field, tc.field)
		}
		if !strings.HasPrefix(err.Error(), "config: invalid "+tc.field) {
			t.Errorf("%q: message %q", tc.in, err)
		}
	}

	if _, err := Parse(strings.NewReader("hitRadus: 3")); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if *c != *Default() {
		t.Error("missing file did not give defaults")
	}

	fname := filepath.Join(dir, "glyphedit.yaml")
	if err := os.WriteFile(fname, []byte("flatness: 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load(fname)
	if err != nil {
		t.Fatal(err)
	}
	if c.Flatness != 0.5 {
		t.Errorf("flatness = %g", c.Flatness)
	}

	if err := os.WriteFile(fname, []byte("flatness: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(fname); err == nil || !strings.Contains(err.Error(), fname) {
		t.Errorf("broken file: err = %v", err)
	}
}
