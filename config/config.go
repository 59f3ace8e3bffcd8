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

// Package config reads the editor configuration from a YAML file.
//
// Every setting has a default, so an empty or missing file is valid.
// Unknown keys are rejected.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the editor settings.
type Config struct {
	// FontDir is the font directory opened on start-up.
	FontDir string `yaml:"fontDir"`

	// Watch enables reloading of glyph files changed by other programs.
	Watch bool `yaml:"watch"`

	// HitRadius is the pick radius for points and anchors, in pixels.
	HitRadius float64 `yaml:"hitRadius"`

	// ComponentRadius is the pick radius for component origin markers, in
	// pixels.
	ComponentRadius float64 `yaml:"componentRadius"`

	// Flatness is the curve flattening tolerance for hit tests, in pixels.
	Flatness float64 `yaml:"flatness"`

	// RecompileDelay is the quiet period after the last edit before the
	// font is recompiled.
	RecompileDelay time.Duration `yaml:"recompileDelay"`

	// LogLevel is one of "debug", "info", "warn" and "error".
	LogLevel string `yaml:"logLevel"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		FontDir:         ".",
		HitRadius:       6,
		ComponentRadius: 12,
		Flatness:        0.25,
		RecompileDelay:  500 * time.Millisecond,
		LogLevel:        "info",
	}
}

// Load reads the configuration file fname. A missing file gives the
// default configuration.
func Load(fname string) (*Config, error) {
	fd, err := os.Open(fname)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, err
	}
	defer fd.Close()

	c, err := Parse(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return c, nil
}

// Parse reads a configuration from r. Settings not present in r keep
// their default values. The result is validated.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that all settings are within range.
func (c *Config) Validate() error {
	switch {
	case c.FontDir == "":
		return &ValidationError{Field: "fontDir", Reason: "must not be empty"}
	case !(c.HitRadius > 0):
		return &ValidationError{Field: "hitRadius", Reason: "must be positive"}
	case !(c.ComponentRadius > 0):
		return &ValidationError{Field: "componentRadius", Reason: "must be positive"}
	case !(c.Flatness > 0):
		return &ValidationError{Field: "flatness", Reason: "must be positive"}
	case c.RecompileDelay < 0:
		return &ValidationError{Field: "recompileDelay", Reason: "must not be negative"}
	}
	if _, err := c.Level(); err != nil {
		return &ValidationError{Field: "logLevel", Reason: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}

// ValidationError reports a setting which is out of range.
type ValidationError struct {
	// Field is the YAML key of the offending setting.
	Field string

	// Reason is a short, human-readable explanation.
	Reason string
}

func (e *ValidationError) Error() string {
	return "config: invalid " + e.Field + ": " + e.Reason
}
