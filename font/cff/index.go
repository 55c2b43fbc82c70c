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
	"bufio"
	"errors"
	"io"

	"github.com/bstell/tachyfont/font/parser"
)

type span struct {
	Start, End int64
}

// cffIndex gives the location of a CFF INDEX and of its items within the
// table.
type cffIndex struct {
	span
	Items []span
}

// get returns the data of item i.
func (idx *cffIndex) get(buf []byte, i int) []byte {
	item := idx.Items[i]
	return buf[item.Start:item.End]
}

// readIndex reads the CFF INDEX starting at the current position of p.
// Afterwards, p is positioned after the end of the INDEX.
func readIndex(p *parser.Parser) (*cffIndex, error) {
	res := &cffIndex{}
	res.Start = p.Pos()

	count, err := p.ReadUInt16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		res.End = p.Pos()
		return res, nil
	}

	offSize, err := p.ReadUInt8()
	if err != nil {
		return nil, err
	}
	if offSize < 1 || offSize > 4 {
		return nil, p.Error("invalid CFF INDEX offset size %d", offSize)
	}

	offsets := make([]int64, count+1)
	prevOffset := uint32(1)
	size := p.Size()
	for i := range offsets {
		offs, err := p.ReadOffset(int(offSize))
		if err != nil {
			return nil, err
		}
		if i == 0 && offs != 1 || offs < prevOffset {
			return nil, p.Error("invalid CFF INDEX")
		}
		offsets[i] = int64(offs)
		prevOffset = offs
	}

	// offsets are relative to the byte before the object data
	base := p.Pos() - 1
	res.End = base + offsets[count]
	if res.End > size {
		return nil, p.Error("CFF INDEX extends beyond end of table")
	}
	res.Items = make([]span, count)
	for i := range res.Items {
		res.Items[i] = span{Start: base + offsets[i], End: base + offsets[i+1]}
	}

	err = p.SeekPos(res.End)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// writeIndex writes a CFF INDEX containing the given data.
func writeIndex(w io.Writer, data [][]byte) (int, error) {
	count := len(data)
	if count >= 1<<16 {
		return 0, errors.New("too many items for CFF INDEX")
	}
	if count == 0 {
		return w.Write([]byte{0, 0})
	}

	bodyLength := 0
	for _, blob := range data {
		bodyLength += len(blob)
	}

	offSize := 1
	for bodyLength+1 >= 1<<(8*offSize) {
		offSize++
	}
	if offSize > 4 {
		return 0, errors.New("too much data for CFF INDEX")
	}

	total := 0
	out := bufio.NewWriter(w)

	n, _ := out.Write([]byte{
		byte(count >> 8), byte(count), // count
		byte(offSize), // offSize
	})
	total += n

	// offset
	var buf [4]byte
	pos := uint32(1)
	for i := 0; i <= count; i++ {
		for j := 0; j < offSize; j++ {
			buf[j] = byte(pos >> (8 * (offSize - j - 1)))
		}
		n, _ = out.Write(buf[:offSize])
		total += n
		if i < count {
			pos += uint32(len(data[i]))
		}
	}

	// data
	for i := 0; i < count; i++ {
		n, _ = out.Write(data[i])
		total += n
	}

	return total, out.Flush()
}
