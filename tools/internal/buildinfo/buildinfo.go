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

// Package buildinfo formats version information for the command line tools.
package buildinfo

import (
	"runtime/debug"
)

// Info describes the build of the running binary.
type Info struct {
	Module   string
	Version  string // module version, empty for development builds
	Revision string // VCS revision, shortened to 8 characters
	Dirty    bool   // the working tree had uncommitted changes
}

// Read returns the build information of the running binary.
func Read() Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{}
	}
	return fromBuildInfo(bi)
}

func fromBuildInfo(bi *debug.BuildInfo) Info {
	info := Info{Module: bi.Main.Path}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.Revision) > 8 {
		info.Revision = info.Revision[:8]
	}
	return info
}

// String returns the module version if available, and the VCS revision
// otherwise.  For builds without either, "devel" is returned.
func (info Info) String() string {
	if info.Version != "" {
		return info.Version
	}
	if info.Revision == "" {
		return "devel"
	}
	if info.Dirty {
		return info.Revision + "+dirty"
	}
	return info.Revision
}

// Short returns a short version string for a CLI tool, e.g.
// "cff-dict (github.com/bstell/tachyfont v0.1.0)".
func Short(toolName string) string {
	info := Read()
	if info.Module == "" {
		return toolName
	}
	return toolName + " (" + info.Module + " " + info.String() + ")"
}
