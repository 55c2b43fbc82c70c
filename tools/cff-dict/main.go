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

// Command cff-dict inspects and patches the DICTs of CFF fonts, and
// maintains incrementally loaded fonts in a font store.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bstell/tachyfont/tools/internal/buildinfo"
	"github.com/bstell/tachyfont/tools/internal/config"
	"github.com/bstell/tachyfont/tools/internal/profile"
)

var traceKeys = []string{
	"tachyfont.cff",
	"tachyfont.store",
	"tachyfont.incremental",
}

func main() {
	err := newApp(os.Stdout).rootCmd().Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

// app holds the state shared by all subcommands.
type app struct {
	configFile string
	traceLevel string
	storeDir   string
	prof       profile.Options

	conf *config.Config

	out        io.Writer
	isTerminal func() bool
}

func newApp(out io.Writer) *app {
	a := &app{out: out}
	if f, ok := out.(*os.File); ok {
		a.isTerminal = func() bool { return term.IsTerminal(int(f.Fd())) }
	} else {
		a.isTerminal = func() bool { return false }
	}
	return a
}

func (a *app) rootCmd() *cobra.Command {
	var stopProfile func() error

	root := &cobra.Command{
		Use:   "cff-dict",
		Short: "inspect and patch the DICTs of CFF fonts",
		Long: buildinfo.Short("cff-dict") + `

cff-dict reads OpenType fonts with CFF outlines, or bare CFF tables.
It lists the Top DICT and Font DICT entries, adjusts offsets after the
font data has been moved, and replaces glyph CharStrings.  The store
subcommands keep incrementally loaded fonts in a font store.`,
		Version:       buildinfo.Read().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			err = setupTracing(a.conf)
			if err != nil {
				return err
			}
			stopProfile, err = a.prof.Start()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if stopProfile == nil {
				return nil
			}
			return stopProfile()
		},
	}
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "read configuration from `file`")
	flags.StringVar(&a.traceLevel, "trace", "", "trace level [Debug|Info|Error]")
	flags.StringVar(&a.storeDir, "store", "", "font store `directory`")
	a.prof.AddFlags(root)

	root.AddCommand(a.dumpCmd(), a.shiftCmd(), a.injectCmd(), a.storeCmd())
	return root
}

// loadConfig reads the configuration file and applies the command line
// overrides.
func (a *app) loadConfig(cmd *cobra.Command) error {
	path := a.configFile
	if path == "" {
		path = config.DefaultPath()
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	if path == "" {
		a.conf = config.DefaultConfig()
	} else {
		conf, err := config.Load(path)
		if err != nil {
			return err
		}
		a.conf = conf
	}

	if cmd.Flags().Changed("trace") {
		a.conf.Trace.Level = a.traceLevel
	}
	if cmd.Flags().Changed("store") {
		a.conf.Store.Dir = a.storeDir
	}
	return nil
}

var tracingConfigured bool

func setupTracing(conf *config.Config) error {
	level, err := conf.TraceLevel()
	if err != nil {
		return err
	}

	if !tracingConfigured {
		tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
		tc := testconfig.Conf{
			"tracing.adapter": "go",
		}
		for _, key := range traceKeys {
			tc["trace."+key] = "Error"
		}
		err := trace2go.ConfigureRoot(tc, "trace", trace2go.ReplaceTracers(true))
		if err != nil {
			return fmt.Errorf("error configuring tracing: %w", err)
		}
		tracing.SetTraceSelector(trace2go.Selector())
		tracingConfigured = true
	}

	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}

// writeOutput writes binary font data to the named file, or to standard
// output if fname is empty.
func (a *app) writeOutput(fname string, data []byte) error {
	if fname == "" || fname == "-" {
		if a.isTerminal() {
			return errors.New("refusing to write binary data to a terminal, use -o")
		}
		_, err := a.out.Write(data)
		return err
	}
	return os.WriteFile(fname, data, 0o644)
}
