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

// Update describes a change to a single DICT operand.
type Update struct {
	Op    Op
	Index int
	Delta int32
}

type patch struct {
	rec   *Record
	index int
	pos   int
	value int64
	data  []byte
}

// UpdateOperand adds delta to operand index of the given operator.
//
// The new value is written into the buffer using the same number of bytes
// as the old value.  If the new value does not fit, or if the operand is a
// real number, an error is returned and the buffer is not modified.
func (d *Dict) UpdateOperand(op Op, index int, delta int32) error {
	return d.UpdateOperands(Update{Op: op, Index: index, Delta: delta})
}

// UpdateOperands applies several updates.  Either all updates are applied,
// or none are and an error is returned.
//
// Updates which refer to the same operand are applied one after another.
func (d *Dict) UpdateOperands(updates ...Update) error {
	patches := make([]patch, 0, len(updates))
	current := make(map[int]int64) // buffer position -> value after earlier updates
	for _, u := range updates {
		rec, err := d.lookupOperand(u.Op, u.Index)
		if err != nil {
			return err
		}
		pos := rec.operandOffset(u.Index)
		width := rec.Widths[u.Index]
		if d.buf[pos] == realLead {
			return &UnsupportedWidthError{Width: width, Real: true}
		}

		old, ok := current[pos]
		if !ok {
			old = int64(rec.Operands[u.Index])
		}
		value := old + int64(u.Delta)
		data, err := EncodeOperand(value, width)
		if err != nil {
			return err
		}
		current[pos] = value
		patches = append(patches, patch{
			rec:   rec,
			index: u.Index,
			pos:   pos,
			value: value,
			data:  data,
		})
	}

	for _, p := range patches {
		copy(d.buf[p.pos:], p.data)
		p.rec.Operands[p.index] = float64(p.value)
		tracer().Debugf("%s DICT: %s[%d] = %d", d.name, p.rec.Op, p.index, p.value)
	}
	return nil
}

// OffsetOperand names a DICT operand which holds a byte offset relative to
// the start of the CFF table.
type OffsetOperand struct {
	Op    Op
	Index int
}

// OffsetOperands lists the Top DICT and Font DICT operands which hold
// offsets into the CFF table.  Charset and Encoding values 0–2 are
// predefined identifiers rather than offsets, but these values are always
// smaller than any position after the CFF header.
var OffsetOperands = []OffsetOperand{
	{OpCharset, 0},
	{OpEncoding, 0},
	{OpCharStrings, 0},
	{OpPrivate, 1},
	{OpFDArray, 0},
	{OpFDSelect, 0},
}

// ShiftOffsets adds delta to every offset operand of d whose value is
// greater than threshold.  This is used after the data at threshold has
// grown or shrunk by delta bytes.  Either all offsets are updated, or none.
//
// ShiftOffsets returns the number of operands which were changed.
func ShiftOffsets(d *Dict, threshold int64, delta int32) (int, error) {
	var updates []Update
	for _, o := range OffsetOperands {
		x, err := d.Int(o.Op, o.Index)
		if err != nil {
			// offsets which are missing or stored as reals are left alone
			continue
		}
		if int64(x) > threshold {
			updates = append(updates, Update{Op: o.Op, Index: o.Index, Delta: delta})
		}
	}
	if len(updates) == 0 {
		return 0, nil
	}
	err := d.UpdateOperands(updates...)
	if err != nil {
		return 0, err
	}
	return len(updates), nil
}
