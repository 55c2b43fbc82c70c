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

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bstell/tachyfont/incremental"
)

func (a *app) shiftCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "shift <font> <threshold> <delta>",
		Short:   "add delta to all CFF offsets greater than threshold",
		Example: `  cff-dict shift -o out.otf font.otf 1200 64`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, delta, err := parseShift(args[1], args[2])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, n, err := incremental.ShiftOffsets(data, threshold, delta)
			if err != nil {
				return err
			}
			pterm.Info.Println(fmt.Sprintf("%d offsets changed", n))
			return a.writeOutput(output, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to `file`")
	return cmd
}

func (a *app) injectCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "inject <font> <gid>:<hex>...",
		Short: "replace the CharStrings of glyphs",
		Long: `Replace the CharStrings of glyphs.  Each glyph is given by its glyph ID
and the hex-encoded Type 2 charstring, separated by a colon.`,
		Example: `  cff-dict inject -o out.otf font.otf 3:8b8b15ef8b05 4:0e`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			glyphs, err := parseGlyphs(args[1:])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, err := incremental.ReplaceGlyphs(data, glyphs)
			if err != nil {
				return err
			}
			pterm.Info.Println(fmt.Sprintf("font size changed by %+d bytes", len(out)-len(data)))
			return a.writeOutput(output, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to `file`")
	return cmd
}

func parseShift(thresholdArg, deltaArg string) (int64, int32, error) {
	threshold, err := strconv.ParseInt(thresholdArg, 0, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid threshold %q", thresholdArg)
	}
	delta, err := strconv.ParseInt(deltaArg, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid delta %q", deltaArg)
	}
	return threshold, int32(delta), nil
}

// parseGlyphs parses arguments of the form "gid:hexdata".
func parseGlyphs(args []string) (map[int][]byte, error) {
	glyphs := make(map[int][]byte, len(args))
	for _, arg := range args {
		gidStr, hexStr, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("invalid glyph %q, expected <gid>:<hex>", arg)
		}
		gid, err := strconv.Atoi(gidStr)
		if err != nil || gid < 0 {
			return nil, fmt.Errorf("invalid glyph ID %q", gidStr)
		}
		if _, dup := glyphs[gid]; dup {
			return nil, fmt.Errorf("glyph %d given more than once", gid)
		}
		data, err := hex.DecodeString(hexStr)
		if err != nil {
			return nil, fmt.Errorf("glyph %d: %w", gid, err)
		}
		glyphs[gid] = data
	}
	return glyphs, nil
}
