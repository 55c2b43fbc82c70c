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

package cff

import (
	"bytes"
	"fmt"
	"math"

	"github.com/bstell/tachyfont/font/parser"
)

// Table is a CFF table containing a single font.
//
// The Top DICT of the table aliases the table data, so that updates to
// the Top DICT directly modify the table.
type Table struct {
	buf   []byte
	name  string
	topAt span
	top   *Dict
}

// OpenTable parses the header, the Name INDEX and the Top DICT of a CFF
// table.  The table takes ownership of buf.
func OpenTable(buf []byte) (*Table, error) {
	p := parser.New("CFF", bytes.NewReader(buf))

	var header [4]byte
	_, err := p.Read(header[:])
	if err != nil {
		return nil, err
	}
	major, hdrSize := header[0], header[2]
	if major != 1 {
		return nil, invalidSince(fmt.Sprintf("unsupported CFF version %d", major))
	}
	if hdrSize < 4 {
		return nil, invalidSince("invalid CFF header size")
	}
	err = p.SeekPos(int64(hdrSize))
	if err != nil {
		return nil, err
	}

	names, err := readIndex(p)
	if err != nil {
		return nil, err
	}
	if len(names.Items) != 1 {
		return nil, invalidSince(fmt.Sprintf("%d fonts in Name INDEX, expected 1", len(names.Items)))
	}
	topIndex, err := readIndex(p)
	if err != nil {
		return nil, err
	}
	if len(topIndex.Items) != 1 {
		return nil, invalidSince(fmt.Sprintf("%d entries in Top DICT INDEX, expected 1", len(topIndex.Items)))
	}

	topAt := topIndex.Items[0]
	top, err := New("Top", buf[topAt.Start:topAt.End:topAt.End])
	if err != nil {
		return nil, err
	}

	return &Table{
		buf:   buf,
		name:  string(names.get(buf, 0)),
		topAt: topAt,
		top:   top,
	}, nil
}

// Bytes returns the table data, including all updates.
func (t *Table) Bytes() []byte {
	return t.buf
}

// FontName returns the name of the font, as given in the Name INDEX.
func (t *Table) FontName() string {
	return t.name
}

// TopDict returns the Top DICT of the font.
func (t *Table) TopDict() *Dict {
	return t.top
}

// IsCIDFont reports whether the font is CID-keyed.
func (t *Table) IsCIDFont() bool {
	return t.top.Has(OpROS)
}

func (t *Table) indexAt(op Op) (*cffIndex, error) {
	offs, err := t.top.Int(op, 0)
	if err != nil {
		return nil, err
	}
	if offs <= 0 || int(offs) >= len(t.buf) {
		return nil, invalidSince(fmt.Sprintf("invalid %s offset %d", op.Name(), offs))
	}
	p := parser.New("CFF", bytes.NewReader(t.buf))
	err = p.SeekPos(int64(offs))
	if err != nil {
		return nil, err
	}
	return readIndex(p)
}

// CharStrings returns a copy of the glyph data in the CharStrings INDEX.
func (t *Table) CharStrings() ([][]byte, error) {
	idx, err := t.indexAt(OpCharStrings)
	if err != nil {
		return nil, err
	}
	res := make([][]byte, len(idx.Items))
	for i := range res {
		res[i] = bytes.Clone(idx.get(t.buf, i))
	}
	return res, nil
}

// FontDicts returns the Font DICTs of a CID-keyed font.  Like the Top DICT,
// the Font DICTs alias the table data.  For fonts without an FDArray,
// nil is returned.
func (t *Table) FontDicts() ([]*Dict, error) {
	if !t.top.Has(OpFDArray) {
		return nil, nil
	}
	idx, err := t.indexAt(OpFDArray)
	if err != nil {
		return nil, err
	}
	res := make([]*Dict, len(idx.Items))
	for i, item := range idx.Items {
		res[i], err = New(fmt.Sprintf("Font %d", i), t.buf[item.Start:item.End:item.End])
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ShiftOffsets adds delta to all offsets in the Top DICT and in the Font
// DICTs which are greater than threshold.  This is used after all table data
// following threshold has been moved by delta bytes; the Font DICTs are
// looked up at their new location.
//
// Either all offsets are updated, or the table is left unchanged.  The
// number of changed operands is returned.
func (t *Table) ShiftOffsets(threshold int64, delta int32) (int, error) {
	tmp, err := OpenTable(bytes.Clone(t.buf))
	if err != nil {
		return 0, err
	}
	n, err := tmp.shiftOffsets(threshold, delta)
	if err != nil {
		return 0, err
	}

	copy(t.buf, tmp.buf)
	t.top, err = New("Top", t.buf[t.topAt.Start:t.topAt.End:t.topAt.End])
	if err != nil {
		return 0, err
	}
	return n, nil
}

// shiftOffsets updates the table in place.  Font DICTs are located after
// the Top DICT has been updated, since the FDArray itself may move.
func (t *Table) shiftOffsets(threshold int64, delta int32) (int, error) {
	total, err := ShiftOffsets(t.top, threshold, delta)
	if err != nil {
		return 0, err
	}

	fontDicts, err := t.FontDicts()
	if err != nil {
		return 0, err
	}
	for _, fd := range fontDicts {
		n, err := ShiftOffsets(fd, threshold, delta)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// ReplaceCharStrings returns a copy of the table where the given glyphs
// have been replaced.  The map keys are glyph IDs.
//
// All Top DICT and Font DICT offsets which point past the start of the
// CharStrings INDEX are adjusted for the change in size.  The Top DICT must
// precede the CharStrings INDEX.  The receiver is not modified.
func (t *Table) ReplaceCharStrings(glyphs map[int][]byte) ([]byte, error) {
	cs, err := t.indexAt(OpCharStrings)
	if err != nil {
		return nil, err
	}
	if t.topAt.End > cs.Start {
		return nil, invalidSince("Top DICT follows the CharStrings INDEX")
	}

	data := make([][]byte, len(cs.Items))
	for i := range data {
		data[i] = cs.get(t.buf, i)
	}
	for gid, glyph := range glyphs {
		if gid < 0 || gid >= len(data) {
			return nil, invalidSince(fmt.Sprintf("glyph %d out of range", gid))
		}
		data[gid] = glyph
	}

	newIndex := &bytes.Buffer{}
	_, err = writeIndex(newIndex, data)
	if err != nil {
		return nil, err
	}
	delta := int64(newIndex.Len()) - (cs.End - cs.Start)
	if delta < math.MinInt32 || delta > math.MaxInt32 {
		return nil, invalidSince("CharStrings size change too large")
	}

	res := make([]byte, 0, int64(len(t.buf))+delta)
	res = append(res, t.buf[:cs.Start]...)
	res = append(res, newIndex.Bytes()...)
	res = append(res, t.buf[cs.End:]...)

	out, err := OpenTable(res)
	if err != nil {
		return nil, err
	}
	n, err := out.shiftOffsets(cs.Start, int32(delta))
	if err != nil {
		return nil, err
	}
	tracer().Infof("%s: replaced %d glyphs, CharStrings size %+d, %d offsets updated",
		t.name, len(glyphs), delta, n)

	return res, nil
}
