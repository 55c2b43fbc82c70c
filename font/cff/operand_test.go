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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOperandRoundTrip(t *testing.T) {
	check := func(value int64, width int) {
		t.Helper()
		buf, err := EncodeOperand(value, width)
		if err != nil {
			t.Fatalf("EncodeOperand(%d, %d): %v", value, width, err)
		}
		if len(buf) != width {
			t.Fatalf("EncodeOperand(%d, %d) used %d bytes", value, width, len(buf))
		}
		x, w, err := DecodeOperand(buf)
		if err != nil {
			t.Fatalf("DecodeOperand(%v): %v", buf, err)
		}
		if x != float64(value) || w != width {
			t.Fatalf("%d/%d: decoded as %g/%d", value, width, x, w)
		}
	}

	for v := int64(-107); v <= 107; v++ {
		check(v, 1)
	}
	for v := int64(108); v <= 1131; v++ {
		check(v, 2)
		check(-v, 2)
	}
	for v := int64(math.MinInt16); v <= math.MaxInt16; v += 97 {
		check(v, 3)
	}
	check(math.MinInt16, 3)
	check(math.MaxInt16, 3)
	for _, v := range []int64{math.MinInt32, -65536, -1, 0, 1, 65536, 100000, math.MaxInt32} {
		check(v, 5)
	}
}

func TestEncodeOperand(t *testing.T) {
	cases := []struct {
		value int64
		width int
		out   []byte
	}{
		{0, 1, []byte{139}},
		{-107, 1, []byte{32}},
		{107, 1, []byte{246}},
		{108, 2, []byte{247, 0}},
		{1131, 2, []byte{250, 255}},
		{-108, 2, []byte{251, 0}},
		{-1131, 2, []byte{254, 255}},
		{391, 2, []byte{248, 27}},
		{1000, 3, []byte{28, 0x03, 0xe8}},
		{-1, 3, []byte{28, 0xff, 0xff}},
		{100000, 5, []byte{29, 0x00, 0x01, 0x86, 0xa0}},
		{-2, 5, []byte{29, 0xff, 0xff, 0xff, 0xfe}},
	}
	for _, test := range cases {
		out, err := EncodeOperand(test.value, test.width)
		if err != nil {
			t.Errorf("%d/%d: %v", test.value, test.width, err)
			continue
		}
		if d := cmp.Diff(test.out, out); d != "" {
			t.Errorf("%d/%d: %s", test.value, test.width, d)
		}
	}
}

func TestEncodeOperandRange(t *testing.T) {
	cases := []struct {
		value int64
		width int
	}{
		{108, 1},
		{-108, 1},
		{0, 2},
		{107, 2},
		{-107, 2},
		{1132, 2},
		{-1132, 2},
		{math.MaxInt16 + 1, 3},
		{math.MinInt16 - 1, 3},
		{math.MaxInt32 + 1, 5},
		{math.MinInt32 - 1, 5},
	}
	for _, test := range cases {
		_, err := EncodeOperand(test.value, test.width)
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("%d/%d: expected RangeError, got %v", test.value, test.width, err)
			continue
		}
		if rangeErr.Value != test.value || rangeErr.Width != test.width {
			t.Errorf("%d/%d: wrong error %v", test.value, test.width, err)
		}
	}

	for _, width := range []int{-1, 0, 4, 6, 7} {
		_, err := EncodeOperand(0, width)
		var widthErr *UnsupportedWidthError
		if !errors.As(err, &widthErr) {
			t.Errorf("width %d: expected UnsupportedWidthError, got %v", width, err)
		}
	}
}

func TestDecodeReal(t *testing.T) {
	cases := []struct {
		in    []byte
		out   float64
		width int
	}{
		{[]byte{30, 0x12, 0xa3, 0xff}, 12.3, 4},
		{[]byte{30, 0xe1, 0xff}, -1, 3},
		{[]byte{30, 0xe2, 0xa2, 0x5f}, -2.25, 4},
		{[]byte{30, 0x0a, 0x14, 0x05, 0x41, 0xc3, 0xff}, 0.140541e-3, 7},
		{[]byte{30, 0x1b, 0x2f}, 100, 3},
		{[]byte{30, 0xff}, 0, 2},
		{[]byte{30, 0x12, 0xf0, 139}, 12, 3}, // data after the terminator is not consumed
	}
	for _, test := range cases {
		x, width, err := DecodeOperand(test.in)
		if err != nil {
			t.Errorf("%x: %v", test.in, err)
			continue
		}
		if math.Abs(x-test.out) > 1e-9 {
			t.Errorf("%x: wrong result: %g - %g = %g", test.in, x, test.out, x-test.out)
		}
		if width != test.width {
			t.Errorf("%x: wrong width %d != %d", test.in, width, test.width)
		}
	}
}

func TestDecodeRealErrors(t *testing.T) {
	long := []byte{30}
	for i := 0; i < maxRealBytes+1; i++ {
		long = append(long, 0x11)
	}

	cases := [][]byte{
		{30, 0xd1, 0xff}, // reserved nibble
		{30, 0x1d, 0xff},
		{30, 0x12},       // unterminated
		{30},             // no data
		{30, 0xe0, 0xef}, // "-0-"
		long,
	}
	for _, in := range cases {
		_, _, err := DecodeOperand(in)
		var realErr *MalformedRealError
		if !errors.As(err, &realErr) {
			t.Errorf("%x: expected MalformedRealError, got %v", in, err)
		}
	}

	// the longest accepted real number
	maxLen := []byte{30}
	for i := 0; i < maxRealBytes-1; i++ {
		maxLen = append(maxLen, 0x11)
	}
	maxLen = append(maxLen, 0x1f)
	_, width, err := DecodeOperand(maxLen)
	if err != nil {
		t.Fatal(err)
	}
	if width != maxRealBytes+1 {
		t.Errorf("wrong width %d", width)
	}
}

func TestDecodeOperandErrors(t *testing.T) {
	for _, in := range [][]byte{{}, {28, 1}, {29, 1, 2, 3}, {247}, {254}} {
		_, _, err := DecodeOperand(in)
		if err == nil {
			t.Errorf("%x: missing error", in)
		}
	}

	_, _, err := DecodeOperand([]byte{17})
	if err != errNotAnOperand {
		t.Errorf("expected errNotAnOperand, got %v", err)
	}
}
