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

package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/bstell/tachyfont", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	info := fromBuildInfo(bi)
	expected := Info{
		Module:   "github.com/bstell/tachyfont",
		Revision: "01234567",
		Dirty:    true,
	}
	if diff := cmp.Diff(expected, info); diff != "" {
		t.Errorf("wrong info (-want +got):\n%s", diff)
	}
}

func TestInfoString(t *testing.T) {
	cases := []struct {
		info Info
		out  string
	}{
		{Info{}, "devel"},
		{Info{Version: "v0.1.0", Revision: "01234567"}, "v0.1.0"},
		{Info{Revision: "01234567"}, "01234567"},
		{Info{Revision: "01234567", Dirty: true}, "01234567+dirty"},
	}
	for _, test := range cases {
		if got := test.info.String(); got != test.out {
			t.Errorf("%v: %q != %q", test.info, got, test.out)
		}
	}
}

func TestShort(t *testing.T) {
	s := Short("cff-dict")
	if !strings.HasPrefix(s, "cff-dict") {
		t.Errorf("wrong version string %q", s)
	}
}
