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

package cff

import (
	"errors"
	"io"
	"slices"

	"golang.org/x/exp/maps"
)

// maxOperands is the largest number of operands accepted before an
// operator.
const maxOperands = 49

// Record is one operands/operator entry of a DICT.
type Record struct {
	Op       Op
	Operands []float64

	// Offset is the position of the first operand byte within the DICT.
	Offset int

	// Widths gives the number of bytes used to encode each operand.
	Widths []int
}

// Len returns the number of bytes used to encode the record.
func (r *Record) Len() int {
	n := r.Op.Len()
	for _, w := range r.Widths {
		n += w
	}
	return n
}

// operandOffset returns the position of operand i within the DICT.
func (r *Record) operandOffset(i int) int {
	pos := r.Offset
	for _, w := range r.Widths[:i] {
		pos += w
	}
	return pos
}

func (r *Record) clone() Record {
	return Record{
		Op:       r.Op,
		Operands: slices.Clone(r.Operands),
		Offset:   r.Offset,
		Widths:   slices.Clone(r.Widths),
	}
}

// Dict is a parsed CFF DICT.
//
// The Dict owns the underlying byte buffer.  Operand values can be changed
// in place using UpdateOperand; this never changes the length of the
// buffer or the operators it contains.
//
// A Dict is not safe for concurrent use.
type Dict struct {
	name string
	buf  []byte

	records []Record
	index   map[Op]int
	dups    []Op
}

// New parses the DICT stored in buf.  The name is used in error messages.
// The buffer must contain a whole number of operands/operator records.
//
// If an operator occurs more than once, the last occurrence is used.
func New(name string, buf []byte) (*Dict, error) {
	d := &Dict{
		name:  name,
		buf:   buf,
		index: make(map[Op]int),
	}

	pos := 0
	for pos < len(buf) {
		rec, err := d.readRecord(pos)
		if err != nil {
			return nil, err
		}
		if _, seen := d.index[rec.Op]; seen {
			tracer().Debugf("%s DICT: operator %s at offset %d overrides earlier entry",
				name, rec.Op, rec.Offset)
			if !slices.Contains(d.dups, rec.Op) {
				d.dups = append(d.dups, rec.Op)
			}
		}
		d.index[rec.Op] = len(d.records)
		d.records = append(d.records, rec)
		pos += rec.Len()
	}

	return d, nil
}

// readRecord decodes the operands/operator record starting at pos.
func (d *Dict) readRecord(pos int) (Record, error) {
	rec := Record{Offset: pos}
	for {
		if pos >= len(d.buf) {
			return Record{}, d.invalid(rec.Offset, "missing operator")
		}
		x, width, err := decodeOperand(d.buf, pos)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, d.invalid(pos, "truncated operand")
		} else if err != nil {
			return Record{}, err
		}

		if width == 0 {
			b0 := d.buf[pos]
			if b0 != escape {
				rec.Op = Op(b0)
				return rec, nil
			}
			if pos+1 >= len(d.buf) {
				return Record{}, d.invalid(pos, "truncated operator")
			}
			rec.Op = escape<<8 | Op(d.buf[pos+1])
			return rec, nil
		}

		if len(rec.Operands) >= maxOperands {
			return Record{}, d.invalid(rec.Offset, "too many operands")
		}
		rec.Operands = append(rec.Operands, x)
		rec.Widths = append(rec.Widths, width)
		pos += width
	}
}

func (d *Dict) invalid(pos int, reason string) error {
	return &InvalidDictError{Dict: d.name, Offset: pos, Reason: reason}
}

// Name returns the name of the DICT.
func (d *Dict) Name() string {
	return d.name
}

// Bytes returns the underlying buffer.  The returned slice reflects all
// updates made through the Dict.
func (d *Dict) Bytes() []byte {
	return d.buf
}

// Len returns the number of distinct operators in the DICT.
func (d *Dict) Len() int {
	return len(d.index)
}

// Has reports whether the DICT contains the given operator.
func (d *Dict) Has(op Op) bool {
	_, ok := d.index[op]
	return ok
}

// Ops returns the operators present in the DICT, in increasing order.
func (d *Dict) Ops() []Op {
	ops := maps.Keys(d.index)
	slices.Sort(ops)
	return ops
}

// Records returns copies of the records which can be reached by operator,
// in the order they appear in the buffer.
func (d *Dict) Records() []Record {
	res := make([]Record, 0, len(d.index))
	for i := range d.records {
		if d.index[d.records[i].Op] == i {
			res = append(res, d.records[i].clone())
		}
	}
	return res
}

// Duplicates lists the operators which occurred more than once.  For these
// operators only the last occurrence can be accessed.
func (d *Dict) Duplicates() []Op {
	return slices.Clone(d.dups)
}

// Record returns a copy of the record for the given operator.
func (d *Dict) Record(op Op) (Record, error) {
	rec, err := d.lookup(op)
	if err != nil {
		return Record{}, err
	}
	return rec.clone(), nil
}

// Operands returns a copy of the operands for the given operator.
func (d *Dict) Operands(op Op) ([]float64, error) {
	rec, err := d.lookup(op)
	if err != nil {
		return nil, err
	}
	return slices.Clone(rec.Operands), nil
}

// Operand returns operand i of the given operator.
func (d *Dict) Operand(op Op, i int) (float64, error) {
	rec, err := d.lookupOperand(op, i)
	if err != nil {
		return 0, err
	}
	return rec.Operands[i], nil
}

// Int returns operand i of the given operator as an integer.  Real-valued
// operands are rejected, even if their value is integral.
func (d *Dict) Int(op Op, i int) (int32, error) {
	rec, err := d.lookupOperand(op, i)
	if err != nil {
		return 0, err
	}
	if d.buf[rec.operandOffset(i)] == realLead {
		return 0, &UnsupportedWidthError{Width: rec.Widths[i], Real: true}
	}
	return int32(rec.Operands[i]), nil
}

func (d *Dict) lookup(op Op) (*Record, error) {
	idx, ok := d.index[op]
	if !ok {
		return nil, &NotFoundError{Dict: d.name, Op: op, Index: -1}
	}
	return &d.records[idx], nil
}

func (d *Dict) lookupOperand(op Op, i int) (*Record, error) {
	rec, err := d.lookup(op)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(rec.Operands) {
		return nil, &NotFoundError{Dict: d.name, Op: op, Index: i}
	}
	return rec, nil
}
