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
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bstell/tachyfont/incremental"
	"github.com/bstell/tachyfont/store"
)

func (a *app) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "maintain incrementally loaded fonts in the font store",
	}
	cmd.AddCommand(a.storePutCmd(), a.storeGetCmd(), a.storeInjectCmd(), a.storeShiftCmd())
	return cmd
}

// withFonts opens the font store for the duration of fn.
func (a *app) withFonts(fn func(fonts *incremental.Fonts) error) error {
	s, err := store.Open(a.conf.Store.Dir, a.conf.StoreOptions())
	if err != nil {
		return err
	}
	err = fn(incremental.New(s))
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) storePutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <name> <font>",
		Short: "store the base version of a font",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			return a.withFonts(func(fonts *incremental.Fonts) error {
				return fonts.PutBase(args[0], data).Err()
			})
		},
	}
}

func (a *app) storeGetCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "retrieve the current version of a font",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withFonts(func(fonts *incremental.Fonts) error {
				res := fonts.Get(args[0])
				if err := res.Err(); err != nil {
					return err
				}
				return a.writeOutput(output, res.Value().([]byte))
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the font to `file`")
	return cmd
}

func (a *app) storeInjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inject <name> <gid>:<hex>...",
		Short: "replace the CharStrings of glyphs in a stored font",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			glyphs, err := parseGlyphs(args[1:])
			if err != nil {
				return err
			}
			return a.withFonts(func(fonts *incremental.Fonts) error {
				res := fonts.InjectGlyphs(args[0], glyphs)
				if err := res.Err(); err != nil {
					return err
				}
				pterm.Info.Println(fmt.Sprintf("%s: %d glyphs injected, font size now %d",
					args[0], len(glyphs), res.Value()))
				return nil
			})
		},
	}
}

func (a *app) storeShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shift <name> <threshold> <delta>",
		Short: "add delta to the CFF offsets of a stored font",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, delta, err := parseShift(args[1], args[2])
			if err != nil {
				return err
			}
			return a.withFonts(func(fonts *incremental.Fonts) error {
				res := fonts.ShiftOffsets(args[0], threshold, delta)
				if err := res.Err(); err != nil {
					return err
				}
				pterm.Info.Println(fmt.Sprintf("%s: %d offsets changed", args[0], res.Value()))
				return nil
			})
		},
	}
}
