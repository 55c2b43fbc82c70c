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
	"fmt"

	"seehuhn.de/go/sfnt/header"

	"github.com/bstell/tachyfont/font/cff"
)

// ScalerTypeCFF is the sfnt version tag of OpenType fonts with CFF outlines.
const ScalerTypeCFF = 0x4F54544F // "OTTO"

// IsBareCFF reports whether data starts with a CFF table header, rather
// than with an sfnt table directory.
func IsBareCFF(data []byte) bool {
	return len(data) >= 4 && data[0] == 1 && data[2] >= 4
}

// CFFTable extracts the CFF table from a font file.  If data is a bare
// CFF table, a copy of data is returned.
func CFFTable(data []byte) ([]byte, error) {
	if IsBareCFF(data) {
		return bytes.Clone(data), nil
	}
	r := bytes.NewReader(data)
	info, err := header.Read(r)
	if err != nil {
		return nil, err
	}
	return info.ReadTableBytes(r, "CFF ")
}

// editCFF applies edit to the CFF table of a font file and returns the
// new font file.  All other tables are copied unchanged.
func editCFF(data []byte, edit func(t *cff.Table) ([]byte, error)) ([]byte, error) {
	if IsBareCFF(data) {
		t, err := cff.OpenTable(bytes.Clone(data))
		if err != nil {
			return nil, err
		}
		return edit(t)
	}

	r := bytes.NewReader(data)
	info, err := header.Read(r)
	if err != nil {
		return nil, err
	}
	if info.ScalerType != ScalerTypeCFF {
		return nil, fmt.Errorf("incremental: unsupported scaler type 0x%08x", info.ScalerType)
	}

	tables := make(map[string][]byte, len(info.Toc))
	for name := range info.Toc {
		tables[name], err = info.ReadTableBytes(r, name)
		if err != nil {
			return nil, err
		}
	}
	cffData, ok := tables["CFF "]
	if !ok {
		return nil, fmt.Errorf("incremental: no CFF table")
	}
	t, err := cff.OpenTable(cffData)
	if err != nil {
		return nil, err
	}
	tables["CFF "], err = edit(t)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	_, err = header.Write(buf, info.ScalerType, tables)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReplaceGlyphs returns a copy of a font file where the CharStrings of the
// given glyphs have been replaced.  The map keys are glyph IDs.
func ReplaceGlyphs(data []byte, glyphs map[int][]byte) ([]byte, error) {
	return editCFF(data, func(t *cff.Table) ([]byte, error) {
		return t.ReplaceCharStrings(glyphs)
	})
}

// ShiftOffsets returns a copy of a font file where delta has been added to
// all CFF offsets greater than threshold, together with the number of
// changed offsets.  Offsets are relative to the start of the CFF table.
func ShiftOffsets(data []byte, threshold int64, delta int32) ([]byte, int, error) {
	var n int
	out, err := editCFF(data, func(t *cff.Table) ([]byte, error) {
		var err error
		n, err = t.ShiftOffsets(threshold, delta)
		if err != nil {
			return nil, err
		}
		return t.Bytes(), nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, n, nil
}
