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
	"errors"
	"io"
	"math"
	"strconv"
)

// Operand encoding, from table 3 of the CFF specification:
//
//	Size   b0 range    Value range            Value calculation
//	  1     32–246     -107 to +107           b0-139
//	  2    247–250     +108 to +1131          (b0-247)*256+b1+108
//	  2    251–254     -1131 to -108          -(b0-251)*256-b1-108
//	  3      28        -32768 to +32767       b1<<8|b2
//	  5      29        -(2^31) to +(2^31-1)   b1<<24|b2<<16|b3<<8|b4
//
// Lead byte 30 introduces a nibble-encoded real number.  The lead bytes
// 22–27, 31 and 255 are reserved.

const (
	realLead = 30

	// maxRealBytes bounds the number of data bytes of a real number.
	maxRealBytes = 49
)

func isReserved(b0 byte) bool {
	return b0 >= 22 && b0 <= 27 || b0 == 31 || b0 == 255
}

// decodeOperand decodes the operand which starts at buf[pos].  If buf[pos]
// is an operator byte, width is 0.  Truncated input is reported as
// io.ErrUnexpectedEOF.
func decodeOperand(buf []byte, pos int) (x float64, width int, err error) {
	b0 := buf[pos]
	need := func(n int) bool {
		return pos+n <= len(buf)
	}

	switch {
	case isReserved(b0):
		return 0, 0, &ReservedOperandError{Code: b0, Offset: pos}
	case b0 <= maxOneByteOp:
		return 0, 0, nil
	case b0 == 28:
		if !need(3) {
			return 0, 0, io.ErrUnexpectedEOF
		}
		v := int16(uint16(buf[pos+1])<<8 | uint16(buf[pos+2]))
		return float64(v), 3, nil
	case b0 == 29:
		if !need(5) {
			return 0, 0, io.ErrUnexpectedEOF
		}
		v := int32(uint32(buf[pos+1])<<24 | uint32(buf[pos+2])<<16 |
			uint32(buf[pos+3])<<8 | uint32(buf[pos+4]))
		return float64(v), 5, nil
	case b0 == realLead:
		return decodeReal(buf, pos)
	case b0 <= 246:
		return float64(int(b0) - 139), 1, nil
	case b0 <= 250:
		if !need(2) {
			return 0, 0, io.ErrUnexpectedEOF
		}
		return float64((int(b0)-247)*256 + int(buf[pos+1]) + 108), 2, nil
	default: // 251–254
		if !need(2) {
			return 0, 0, io.ErrUnexpectedEOF
		}
		return float64(-(int(b0)-251)*256 - int(buf[pos+1]) - 108), 2, nil
	}
}

// decodeReal decodes the nibble-encoded real number which starts with the
// lead byte at buf[pos].  The returned width includes the lead byte.
func decodeReal(buf []byte, pos int) (float64, int, error) {
	var s []byte
	for i := 1; i <= maxRealBytes; i++ {
		if pos+i >= len(buf) {
			return 0, 0, &MalformedRealError{Offset: pos, Reason: "unterminated"}
		}
		b := buf[pos+i]
		for _, nibble := range [2]byte{b >> 4, b & 15} {
			switch {
			case nibble <= 9:
				s = append(s, '0'+nibble)
			case nibble == 0xa:
				s = append(s, '.')
			case nibble == 0xb:
				s = append(s, 'E')
			case nibble == 0xc:
				s = append(s, 'E', '-')
			case nibble == 0xe:
				s = append(s, '-')
			case nibble == 0xf:
				if len(s) == 0 {
					return 0, i + 1, nil
				}
				x, err := strconv.ParseFloat(string(s), 64)
				if err != nil {
					return 0, 0, &MalformedRealError{Offset: pos, Reason: "invalid number " + strconv.Quote(string(s))}
				}
				return x, i + 1, nil
			default: // 0xd is reserved
				return 0, 0, &MalformedRealError{Offset: pos, Reason: "invalid nibble 0xd"}
			}
		}
	}
	return 0, 0, &MalformedRealError{Offset: pos, Reason: "too long"}
}

// DecodeOperand decodes a single operand at the start of buf.  It returns
// the value and the number of bytes used.
func DecodeOperand(buf []byte) (float64, int, error) {
	if len(buf) == 0 {
		return 0, 0, io.ErrUnexpectedEOF
	}
	x, width, err := decodeOperand(buf, 0)
	if err != nil {
		return 0, 0, err
	}
	if width == 0 {
		return 0, 0, errNotAnOperand
	}
	return x, width, nil
}

var errNotAnOperand = errors.New("cff: operator byte where an operand was expected")

// EncodeOperand encodes an integer operand using exactly width bytes.
//
// Widths 1, 2, 3 and 5 are supported, corresponding to the integer
// encodings of the CFF specification.  If the value cannot be represented
// using the given width, a *RangeError is returned.
func EncodeOperand(value int64, width int) ([]byte, error) {
	switch width {
	case 1:
		if value < -107 || value > 107 {
			return nil, &RangeError{Value: value, Width: width}
		}
		return []byte{byte(value + 139)}, nil
	case 2:
		switch {
		case value >= 108 && value <= 1131:
			// value = (b0-247)*256+b1+108
			v := value - 108
			return []byte{byte(v>>8 + 247), byte(v)}, nil
		case value >= -1131 && value <= -108:
			// value = -(b0-251)*256-b1-108
			v := -value - 108
			return []byte{byte(v>>8 + 251), byte(v)}, nil
		default:
			return nil, &RangeError{Value: value, Width: width}
		}
	case 3:
		if value < math.MinInt16 || value > math.MaxInt16 {
			return nil, &RangeError{Value: value, Width: width}
		}
		v := uint16(value)
		return []byte{28, byte(v >> 8), byte(v)}, nil
	case 5:
		if value < math.MinInt32 || value > math.MaxInt32 {
			return nil, &RangeError{Value: value, Width: width}
		}
		v := uint32(value)
		return []byte{29, byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}, nil
	default:
		return nil, &UnsupportedWidthError{Width: width}
	}
}
