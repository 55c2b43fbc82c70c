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
	"fmt"
)

// ReservedOperandError indicates that a DICT contains one of the reserved
// lead bytes 22–27, 31 or 255.
type ReservedOperandError struct {
	Code   byte
	Offset int
}

func (err *ReservedOperandError) Error() string {
	return fmt.Sprintf("cff: reserved operand code 0x%02x at offset %d",
		err.Code, err.Offset)
}

// MalformedRealError indicates a problem with a nibble-encoded real number.
type MalformedRealError struct {
	Offset int
	Reason string
}

func (err *MalformedRealError) Error() string {
	return fmt.Sprintf("cff: malformed real number at offset %d: %s",
		err.Offset, err.Reason)
}

// InvalidDictError indicates that the DICT data is truncated or otherwise
// not a sequence of operand/operator records.
type InvalidDictError struct {
	Dict   string
	Offset int
	Reason string
}

func (err *InvalidDictError) Error() string {
	return fmt.Sprintf("cff: invalid %s DICT at offset %d: %s",
		err.Dict, err.Offset, err.Reason)
}

// NotFoundError is returned by the Dict accessors if an operator is not
// present, or if an operand index is out of range.
type NotFoundError struct {
	Dict  string
	Op    Op
	Index int // -1 if the operator itself is missing
}

func (err *NotFoundError) Error() string {
	if err.Index < 0 {
		return fmt.Sprintf("cff: %s DICT has no operator %s", err.Dict, err.Op)
	}
	return fmt.Sprintf("cff: %s DICT operator %s has no operand %d",
		err.Dict, err.Op, err.Index)
}

// UnsupportedWidthError indicates that an operand cannot be re-encoded
// using its existing width.  Only the fixed-width integer encodings of
// length 1, 2, 3 and 5 can be written.
type UnsupportedWidthError struct {
	Width int
	Real  bool
}

func (err *UnsupportedWidthError) Error() string {
	if err.Real {
		return "cff: real number operands cannot be updated"
	}
	return fmt.Sprintf("cff: unsupported operand width %d", err.Width)
}

// RangeError indicates that a value does not fit into the given operand
// width.
type RangeError struct {
	Value int64
	Width int
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("cff: value %d does not fit into %d bytes",
		err.Value, err.Width)
}

// InvalidFontError indicates a problem with the structure of a CFF table.
type InvalidFontError struct {
	Reason string
}

func (err *InvalidFontError) Error() string {
	return "cff: " + err.Reason
}

func invalidSince(reason string) error {
	return &InvalidFontError{reason}
}
