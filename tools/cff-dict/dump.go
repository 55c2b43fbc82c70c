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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bstell/tachyfont/font/cff"
	"github.com/bstell/tachyfont/incremental"
)

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <font>...",
		Short: "list the Top DICT and Font DICT entries of CFF fonts",
		Example: `  cff-dict dump NotoSansJP-Regular.otf
  cff-dict dump font.cff`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, fname := range args {
				data, err := os.ReadFile(fname)
				if err != nil {
					return err
				}
				err = dumpFont(a.out, fname, data)
				if err != nil {
					return fmt.Errorf("%s: %w", fname, err)
				}
			}
			return nil
		},
	}
}

func dumpFont(w io.Writer, fname string, data []byte) error {
	cffData, err := incremental.CFFTable(data)
	if err != nil {
		return err
	}
	t, err := cff.OpenTable(cffData)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: font %q, CFF table %d bytes\n", fname, t.FontName(), len(cffData))
	err = dumpDict(w, t.TopDict())
	if err != nil {
		return err
	}

	fontDicts, err := t.FontDicts()
	if err != nil {
		return err
	}
	for _, fd := range fontDicts {
		err = dumpDict(w, fd)
		if err != nil {
			return err
		}
	}
	return nil
}

func dumpDict(w io.Writer, d *cff.Dict) error {
	fmt.Fprintf(w, "\n%s DICT, %d bytes\n", d.Name(), len(d.Bytes()))

	data := pterm.TableData{
		{"Offset", "Operator", "Code", "Operands", "Widths"},
	}
	for _, rec := range d.Records() {
		operands := make([]string, len(rec.Operands))
		widths := make([]string, len(rec.Widths))
		for i, x := range rec.Operands {
			operands[i] = strconv.FormatFloat(x, 'g', -1, 64)
			widths[i] = strconv.Itoa(rec.Widths[i])
		}
		data = append(data, []string{
			strconv.Itoa(rec.Offset),
			rec.Op.Name(),
			rec.Op.String(),
			strings.Join(operands, " "),
			strings.Join(widths, " "),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)

	for _, op := range d.Duplicates() {
		fmt.Fprintf(w, "warning: operator %s occurs more than once, the last value is used\n",
			op.Name())
	}
	return nil
}
