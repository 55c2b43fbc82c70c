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

package incremental

import (
	"bytes"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/sfnt/header"

	"github.com/bstell/tachyfont/font/cff"
	"github.com/bstell/tachyfont/future"
	"github.com/bstell/tachyfont/store"
)

var testPrivate = []byte{139, 20, 139, 21} // defaultWidthX 0, nominalWidthX 0

// makeBaseCFF returns a CFF table where all glyphs consist of a single
// endchar operator, together with the offsets of the CharStrings INDEX and
// the Private DICT.
func makeBaseCFF(t *testing.T, numGlyphs int) ([]byte, int, int) {
	t.Helper()

	enc5 := func(x int) []byte {
		buf, err := cff.EncodeOperand(int64(x), 5)
		require.NoError(t, err)
		return buf
	}
	index := func(items ...[]byte) []byte {
		out := []byte{byte(len(items) >> 8), byte(len(items))}
		if len(items) == 0 {
			return out
		}
		out = append(out, 1) // offSize
		pos := 1
		out = append(out, byte(pos))
		for _, item := range items {
			pos += len(item)
			out = append(out, byte(pos))
		}
		for _, item := range items {
			out = append(out, item...)
		}
		return out
	}

	glyphs := make([][]byte, numGlyphs)
	charset := []byte{0}
	for i := range glyphs {
		glyphs[i] = []byte{14}
		if i > 0 {
			charset = append(charset, 0, byte(i))
		}
	}

	assemble := func(charsetPos, csPos, privPos int) ([]byte, [3]int) {
		var top []byte
		top = append(top, enc5(charsetPos)...)
		top = append(top, byte(cff.OpCharset))
		top = append(top, enc5(csPos)...)
		top = append(top, byte(cff.OpCharStrings))
		top = append(top, byte(139+len(testPrivate)))
		top = append(top, enc5(privPos)...)
		top = append(top, byte(cff.OpPrivate))

		var pos [3]int
		out := []byte{1, 0, 4, 1}
		out = append(out, index([]byte("Test"))...)
		out = append(out, index(top)...)
		out = append(out, index()...) // String INDEX
		out = append(out, index()...) // Global Subr INDEX
		pos[0] = len(out)
		out = append(out, charset...)
		pos[1] = len(out)
		out = append(out, index(glyphs...)...)
		pos[2] = len(out)
		out = append(out, testPrivate...)
		return out, pos
	}
	_, pos := assemble(0, 0, 0)
	data, _ := assemble(pos[0], pos[1], pos[2])
	return data, pos[1], pos[2]
}

func makeBaseOTF(t *testing.T, cffData []byte) []byte {
	t.Helper()
	tables := map[string][]byte{
		"CFF ": cffData,
		"head": make([]byte, 54),
	}
	buf := &bytes.Buffer{}
	_, err := header.Write(buf, ScalerTypeCFF, tables)
	require.NoError(t, err)
	return buf.Bytes()
}

func openTestFonts(t *testing.T) *Fonts {
	t.Helper()
	s, err := store.Open("", &store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s)
}

func getTable(t *testing.T, fonts *Fonts, name string) *cff.Table {
	t.Helper()
	res := fonts.Get(name)
	require.NoError(t, res.Err())
	data := res.Value().([]byte)
	cffData, err := CFFTable(data)
	require.NoError(t, err)
	tbl, err := cff.OpenTable(cffData)
	require.NoError(t, err)
	return tbl
}

func TestInjectGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tachyfont.incremental")
	defer teardown()

	glyph := []byte{139, 139, 21, 239, 139, 5, 159, 139, 5, 14}

	for _, otf := range []bool{false, true} {
		fonts := openTestFonts(t)
		base, _, privPos := makeBaseCFF(t, 5)
		data := base
		if otf {
			data = makeBaseOTF(t, base)
		}
		require.NoError(t, fonts.PutBase("test", data).Err())

		res := fonts.InjectGlyphs("test", map[int][]byte{1: glyph, 3: glyph})
		require.Equal(t, future.StateResolved, res.State(), "injection failed: %v", res.Err())

		stored := fonts.Get("test").Value().([]byte)
		require.Equal(t, len(stored), res.Value())
		require.Equal(t, otf, !IsBareCFF(stored))

		tbl := getTable(t, fonts, "test")
		glyphs, err := tbl.CharStrings()
		require.NoError(t, err)
		require.Equal(t, [][]byte{{14}, glyph, {14}, glyph, {14}}, glyphs)

		delta := 2 * (len(glyph) - 1)
		offs, err := tbl.TopDict().Int(cff.OpPrivate, 1)
		require.NoError(t, err)
		require.Equal(t, privPos+delta, int(offs))
		require.Equal(t, testPrivate, tbl.Bytes()[int(offs):int(offs)+len(testPrivate)])
	}
}

func TestInjectRepeated(t *testing.T) {
	fonts := openTestFonts(t)
	base, _, _ := makeBaseCFF(t, 3)
	require.NoError(t, fonts.PutBase("test", base).Err())

	a := []byte{139, 139, 21, 14}
	b := []byte{139, 139, 21, 139, 139, 5, 14}
	require.NoError(t, fonts.InjectGlyphs("test", map[int][]byte{2: a}).Err())
	require.NoError(t, fonts.InjectGlyphs("test", map[int][]byte{1: b}).Err())

	glyphs, err := getTable(t, fonts, "test").CharStrings()
	require.NoError(t, err)
	require.Equal(t, [][]byte{{14}, b, a}, glyphs)
}

func TestInjectErrors(t *testing.T) {
	fonts := openTestFonts(t)

	res := fonts.InjectGlyphs("missing", map[int][]byte{0: {14}})
	var notFound *NotFoundError
	require.ErrorAs(t, res.Err(), &notFound)
	require.Equal(t, "missing", notFound.Name)

	base, _, _ := makeBaseCFF(t, 3)
	require.NoError(t, fonts.PutBase("test", base).Err())
	res = fonts.InjectGlyphs("test", map[int][]byte{3: {14}})
	var fontErr *cff.InvalidFontError
	require.ErrorAs(t, res.Err(), &fontErr)

	// the stored font is unchanged
	require.Equal(t, base, fonts.Get("test").Value())

	res = fonts.PutBase("bad", []byte("not a font"))
	require.Equal(t, future.StateRejected, res.State())
	require.ErrorAs(t, fonts.Get("bad").Err(), &notFound)
}

func TestShiftOffsets(t *testing.T) {
	fonts := openTestFonts(t)
	base, csPos, privPos := makeBaseCFF(t, 3)
	require.NoError(t, fonts.PutBase("test", base).Err())

	res := fonts.ShiftOffsets("test", int64(csPos), 5)
	require.NoError(t, res.Err())
	require.Equal(t, 1, res.Value())

	top := getTable(t, fonts, "test").TopDict()
	offs, err := top.Int(cff.OpPrivate, 1)
	require.NoError(t, err)
	require.Equal(t, privPos+5, int(offs))
	offs, err = top.Int(cff.OpCharStrings, 0)
	require.NoError(t, err)
	require.Equal(t, csPos, int(offs))
}
