// tachyfont - incremental loading of CFF-based OpenType fonts
// Copyright (C) 2026  The tachyfont Authors
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

// Package incremental maintains partially loaded fonts in a store.
//
// A base font contains the complete font structure, but the CharStrings of
// most glyphs are empty.  When glyph data arrives, it is injected into the
// stored font inside a single store transaction: the font is read, the
// CharStrings INDEX is replaced, the DICT offsets following the CharStrings
// are patched in place, and the result is written back.
//
// Fonts are stored either as OpenType files with CFF outlines or as bare
// CFF tables.
package incremental

import (
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("tachyfont.incremental")
}
