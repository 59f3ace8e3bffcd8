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

// Command export writes the fixture font as a font directory, for trying
// out the glyphedit command.
package main

import (
	"flag"
	"fmt"
	"os"

	"seehuhn.de/go/glyphedit/fontdata"
	"seehuhn.de/go/glyphedit/internal/fixtures"
)

func main() {
	dir := flag.String("o", "testdata/font", "output directory")
	flag.Parse()

	f := fixtures.Font()
	if err := fontdata.WriteFont(*dir, f); err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d glyphs to %s\n", len(f.Glyphs()), *dir)
}
