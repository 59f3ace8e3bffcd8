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

// Command glyphedit runs the glyph editor on a font directory and
// drives it from a command script.
//
// Usage:
//
//	glyphedit [-config file] [-font dir] [-watch] [script]
//
// The script is read from the named file, or from standard input if no
// file is given. Each line holds one command:
//
//	open NAME            start editing a glyph
//	close                leave edit mode
//	layer ID             select a layer
//	axes TAG=V ... [drag]
//	                     set the axis location (user space)
//	viewport A B C D E F set the canvas transform
//	down X Y [shift]     pointer pressed
//	move X Y             pointer moved
//	up                   pointer released
//	dblclick X Y         double-click on the canvas
//	glyph NAME           double-click on a glyph in the glyph list
//	enter I              enter the component at shape index I
//	exit D               leave components until depth D is reached
//	esc                  Escape key
//	smooth               toggle smoothness of the selected points
//	save                 save the current layer
//	show                 wait for pending work and print the state
//
// Empty lines and lines starting with '#' are ignored.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/glyphedit"
	"seehuhn.de/go/glyphedit/config"
	"seehuhn.de/go/glyphedit/editor"
	"seehuhn.de/go/glyphedit/fontdata"
	"seehuhn.de/go/glyphedit/glyph"
)

func main() {
	configFile := flag.String("config", "glyphedit.yaml", "configuration file")
	fontDir := flag.String("font", "", "font directory (overrides the configuration)")
	watch := flag.Bool("watch", false, "reload glyphs changed by other programs")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *configFile, *fontDir, *watch, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "glyphedit:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, fontDir string, watch bool, script string) (err error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if fontDir != "" {
		cfg.FontDir = fontDir
	}
	cfg.Watch = cfg.Watch || watch

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	glyphedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	in := io.Reader(os.Stdin)
	if script != "" {
		fd, err := os.Open(script)
		if err != nil {
			return err
		}
		defer fd.Close()
		in = fd
	}

	store, err := fontdata.Open(ctx, cfg.FontDir)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	opts := []editor.Option{editor.WithConfig(cfg)}
	if cfg.Watch {
		if err := store.Watch(); err != nil {
			return err
		}
		opts = append(opts, editor.WithChanges(store.Changes()))
	}

	e := editor.New(store, &fontdata.Blender{Source: store}, opts...)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- e.Run(ctx) }()

	err = runScript(ctx, e, in, os.Stdout)
	cancel()
	if runErr := <-errc; !errors.Is(runErr, context.Canceled) {
		err = multierr.Append(err, runErr)
	}
	return err
}

func runScript(ctx context.Context, e *editor.Editor, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if fields[0] == "show" {
			if err := show(ctx, e, w); err != nil {
				return err
			}
			continue
		}
		cmd, err := parseCommand(fields)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := e.Do(ctx, cmd); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return show(ctx, e, w)
}

func parseCommand(fields []string) (editor.Command, error) {
	args := fields[1:]
	switch fields[0] {
	case "open":
		if len(args) != 1 {
			return nil, errUsage(fields[0])
		}
		return editor.OpenGlyph{Name: args[0]}, nil
	case "close":
		return editor.CloseGlyph{}, nil
	case "layer":
		if len(args) != 1 {
			return nil, errUsage(fields[0])
		}
		return editor.SelectLayer{ID: args[0]}, nil
	case "axes":
		return parseAxes(args)
	case "viewport":
		x, err := parseFloats(args, 6)
		if err != nil {
			return nil, err
		}
		var m matrix.Matrix
		copy(m[:], x)
		return editor.SetViewport{Matrix: m}, nil
	case "down":
		shift := len(args) == 3 && args[2] == "shift"
		if shift {
			args = args[:2]
		}
		p, err := parsePoint(args)
		if err != nil {
			return nil, err
		}
		return editor.PointerDown{Point: p, Shift: shift}, nil
	case "move":
		p, err := parsePoint(args)
		if err != nil {
			return nil, err
		}
		return editor.PointerMove{Point: p}, nil
	case "up":
		return editor.PointerUp{}, nil
	case "dblclick":
		p, err := parsePoint(args)
		if err != nil {
			return nil, err
		}
		return editor.DoubleClick{Point: p}, nil
	case "glyph":
		if len(args) != 1 {
			return nil, errUsage(fields[0])
		}
		return editor.DoubleClick{Glyph: args[0]}, nil
	case "enter":
		i, err := parseInt(args)
		if err != nil {
			return nil, err
		}
		return editor.EnterComponent{Shape: i}, nil
	case "exit":
		d, err := parseInt(args)
		if err != nil {
			return nil, err
		}
		return editor.ExitComponent{Depth: d}, nil
	case "esc":
		return editor.Escape{}, nil
	case "smooth":
		return editor.ToggleSmooth{}, nil
	case "save":
		return editor.Save{}, nil
	}
	return nil, fmt.Errorf("unknown command %q", fields[0])
}

func errUsage(cmd string) error {
	return fmt.Errorf("wrong number of arguments for %q", cmd)
}

func parseAxes(args []string) (editor.Command, error) {
	c := editor.SetAxes{Location: make(glyph.Location)}
	for _, arg := range args {
		if arg == "drag" {
			c.Dragging = true
			continue
		}
		tag, val, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("malformed axis value %q", arg)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, err
		}
		c.Location[tag] = v
	}
	return c, nil
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	res := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func parsePoint(args []string) (vec.Vec2, error) {
	x, err := parseFloats(args, 2)
	if err != nil {
		return vec.Vec2{}, err
	}
	return vec.Vec2{X: x[0], Y: x[1]}, nil
}

func parseInt(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one integer, got %d arguments", len(args))
	}
	return strconv.Atoi(args[0])
}

func show(ctx context.Context, e *editor.Editor, w io.Writer) error {
	if err := e.Sync(ctx); err != nil {
		return err
	}
	s, err := e.Current(ctx)
	if err != nil {
		return err
	}
	printSnapshot(w, s)
	return nil
}

func printSnapshot(w io.Writer, s editor.Snapshot) {
	if s.Glyph == "" {
		fmt.Fprintln(w, "not editing")
		return
	}
	layer := s.LayerID
	if s.Preview {
		layer = "(preview)"
	}
	fmt.Fprintf(w, "glyph %s layer %s at %v\n", s.Glyph, layer, s.Location)
	if s.Depth > 0 {
		fmt.Fprintf(w, "  editing %s, path %s\n", s.EditGlyph, strings.Join(s.Breadcrumbs, " > "))
	}
	if s.Layer != nil {
		for i, sh := range s.Layer.Shapes {
			switch sh := sh.(type) {
			case *glyph.Path:
				fmt.Fprintf(w, "  %d: path", i)
				for _, n := range sh.Nodes {
					fmt.Fprintf(w, " %g,%g,%s", n.X, n.Y, n.Type)
				}
				fmt.Fprintln(w)
			case *glyph.Component:
				fmt.Fprintf(w, "  %d: component %s %v\n", i, sh.Ref, sh.Matrix())
			}
		}
		for _, a := range s.Layer.Anchors {
			fmt.Fprintf(w, "  anchor %s %g,%g\n", a.Name, a.X, a.Y)
		}
	}
	if sel := s.Selection; len(sel.Points)+len(sel.Anchors)+len(sel.Components) > 0 {
		fmt.Fprintf(w, "  selected points %v anchors %v components %v\n",
			sel.Points, sel.Anchors, sel.Components)
	}
	if len(s.Dirty) > 0 {
		fmt.Fprintf(w, "  unsaved %v\n", s.Dirty)
	}
	if len(s.Restore) > 0 {
		fmt.Fprintf(w, "  escape stack %v\n", s.Restore)
	}
}
