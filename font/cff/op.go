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
	"strconv"
	"strings"
)

// Op identifies a DICT operator.
//
// One-byte operators are stored as their byte value.  Two-byte operators,
// which start with the escape byte 12, are stored as 0x0C00 plus the value
// of the second byte.
type Op uint16

// escape is the first byte of all two-byte operators.
const escape = 12

// IsEscaped reports whether op is a two-byte operator.
func (op Op) IsEscaped() bool {
	return op>>8 == escape
}

// Len returns the number of bytes used to encode the operator.
func (op Op) Len() int {
	if op.IsEscaped() {
		return 2
	}
	return 1
}

// Bytes returns the encoded form of the operator.
func (op Op) Bytes() []byte {
	if op.IsEscaped() {
		return []byte{escape, byte(op)}
	}
	return []byte{byte(op)}
}

// String returns the operator token, for example "17" or "12 36".
func (op Op) String() string {
	if op.IsEscaped() {
		return fmt.Sprintf("%d %d", escape, op&0xff)
	}
	return strconv.Itoa(int(op))
}

// Name returns the name of the operator in the CFF specification.
// For unknown operators the operator token is returned.
func (op Op) Name() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return op.String()
}

// ParseOp converts an operator token like "17" or "12 36" into an Op.
func ParseOp(token string) (Op, error) {
	fields := strings.Fields(token)
	switch len(fields) {
	case 1:
		b0, err := strconv.ParseUint(fields[0], 10, 8)
		if err != nil || b0 > maxOneByteOp || b0 == escape {
			return 0, fmt.Errorf("cff: invalid operator %q", token)
		}
		return Op(b0), nil
	case 2:
		b0, err0 := strconv.ParseUint(fields[0], 10, 8)
		b1, err1 := strconv.ParseUint(fields[1], 10, 8)
		if err0 != nil || err1 != nil || b0 != escape {
			return 0, fmt.Errorf("cff: invalid operator %q", token)
		}
		return escape<<8 | Op(b1), nil
	default:
		return 0, fmt.Errorf("cff: invalid operator %q", token)
	}
}

// maxOneByteOp is the largest lead byte which encodes an operator.
const maxOneByteOp = 21

// Top DICT operators.
const (
	OpVersion            Op = 0x0000
	OpNotice             Op = 0x0001
	OpFullName           Op = 0x0002
	OpFamilyName         Op = 0x0003
	OpWeight             Op = 0x0004
	OpFontBBox           Op = 0x0005
	OpUniqueID           Op = 0x000D
	OpXUID               Op = 0x000E
	OpCharset            Op = 0x000F
	OpEncoding           Op = 0x0010
	OpCharStrings        Op = 0x0011
	OpPrivate            Op = 0x0012
	OpCopyright          Op = 0x0C00
	OpIsFixedPitch       Op = 0x0C01
	OpItalicAngle        Op = 0x0C02
	OpUnderlinePosition  Op = 0x0C03
	OpUnderlineThickness Op = 0x0C04
	OpPaintType          Op = 0x0C05
	OpCharstringType     Op = 0x0C06
	OpFontMatrix         Op = 0x0C07
	OpStrokeWidth        Op = 0x0C08
	OpSyntheticBase      Op = 0x0C14
	OpPostScript         Op = 0x0C15
	OpBaseFontName       Op = 0x0C16
	OpBaseFontBlend      Op = 0x0C17
	OpROS                Op = 0x0C1E
	OpCIDFontVersion     Op = 0x0C1F
	OpCIDFontRevision    Op = 0x0C20
	OpCIDFontType        Op = 0x0C21
	OpCIDCount           Op = 0x0C22
	OpUIDBase            Op = 0x0C23
	OpFDArray            Op = 0x0C24
	OpFDSelect           Op = 0x0C25
	OpFontName           Op = 0x0C26
)

// Private DICT operators.
const (
	OpBlueValues        Op = 0x0006
	OpOtherBlues        Op = 0x0007
	OpFamilyBlues       Op = 0x0008
	OpFamilyOtherBlues  Op = 0x0009
	OpStdHW             Op = 0x000A
	OpStdVW             Op = 0x000B
	OpSubrs             Op = 0x0013 // offset relative to the Private DICT
	OpDefaultWidthX     Op = 0x0014
	OpNominalWidthX     Op = 0x0015
	OpBlueScale         Op = 0x0C09
	OpBlueShift         Op = 0x0C0A
	OpBlueFuzz          Op = 0x0C0B
	OpStemSnapH         Op = 0x0C0C
	OpStemSnapV         Op = 0x0C0D
	OpForceBold         Op = 0x0C0E
	OpLanguageGroup     Op = 0x0C11
	OpExpansionFactor   Op = 0x0C12
	OpInitialRandomSeed Op = 0x0C13
)

var opNames = map[Op]string{
	OpVersion:            "Version",
	OpNotice:             "Notice",
	OpFullName:           "FullName",
	OpFamilyName:         "FamilyName",
	OpWeight:             "Weight",
	OpFontBBox:           "FontBBox",
	OpUniqueID:           "UniqueID",
	OpXUID:               "XUID",
	OpCharset:            "charset",
	OpEncoding:           "Encoding",
	OpCharStrings:        "CharStrings",
	OpPrivate:            "Private",
	OpCopyright:          "Copyright",
	OpIsFixedPitch:       "isFixedPitch",
	OpItalicAngle:        "ItalicAngle",
	OpUnderlinePosition:  "UnderlinePosition",
	OpUnderlineThickness: "UnderlineThickness",
	OpPaintType:          "PaintType",
	OpCharstringType:     "CharstringType",
	OpFontMatrix:         "FontMatrix",
	OpStrokeWidth:        "StrokeWidth",
	OpSyntheticBase:      "SyntheticBase",
	OpPostScript:         "PostScript",
	OpBaseFontName:       "BaseFontName",
	OpBaseFontBlend:      "BaseFontBlend",
	OpROS:                "ROS",
	OpCIDFontVersion:     "CIDFontVersion",
	OpCIDFontRevision:    "CIDFontRevision",
	OpCIDFontType:        "CIDFontType",
	OpCIDCount:           "CIDCount",
	OpUIDBase:            "UIDBase",
	OpFDArray:            "FDArray",
	OpFDSelect:           "FDSelect",
	OpFontName:           "FontName",

	OpBlueValues:        "BlueValues",
	OpOtherBlues:        "OtherBlues",
	OpFamilyBlues:       "FamilyBlues",
	OpFamilyOtherBlues:  "FamilyOtherBlues",
	OpStdHW:             "StdHW",
	OpStdVW:             "StdVW",
	OpSubrs:             "Subrs",
	OpDefaultWidthX:     "defaultWidthX",
	OpNominalWidthX:     "nominalWidthX",
	OpBlueScale:         "BlueScale",
	OpBlueShift:         "BlueShift",
	OpBlueFuzz:          "BlueFuzz",
	OpStemSnapH:         "StemSnapH",
	OpStemSnapV:         "StemSnapV",
	OpForceBold:         "ForceBold",
	OpLanguageGroup:     "LanguageGroup",
	OpExpansionFactor:   "ExpansionFactor",
	OpInitialRandomSeed: "initialRandomSeed",
}
