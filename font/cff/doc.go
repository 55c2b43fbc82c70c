// tachyfont - incremental loading of CFF-based OpenType fonts
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
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

// Package cff reads and patches the DICT structures of CFF fonts.
//
// When glyph data is loaded incrementally, the CharStrings INDEX of a CFF
// font grows and all offsets in the Top DICT which point past the
// CharStrings need to be adjusted.  A Dict allows to do this in place: the
// operands are re-encoded using their original width, so that the size of
// the DICT never changes.
//
// CFF fonts are typically found embedded in OpenType font files.
// The specification is at
// https://adobe-type-tools.github.io/font-tech-notes/pdfs/5176.CFF.pdf .
package cff

import (
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("tachyfont.cff")
}
