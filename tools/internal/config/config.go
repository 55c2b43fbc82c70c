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

// Package config reads the configuration file of the command line tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"

	"github.com/bstell/tachyfont/store"
)

// Config is the tool configuration.
type Config struct {
	Store Store `yaml:"store"`
	Trace Trace `yaml:"trace"`
}

// Store configures the font store.
type Store struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
	Sync     bool   `yaml:"sync"`
}

// Trace configures diagnostic output.
type Trace struct {
	Level string `yaml:"level"` // Debug, Info or Error
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Store: Store{
			Dir: "./tachyfont-data",
		},
		Trace: Trace{
			Level: "Error",
		},
	}
}

// DefaultPath returns the location of the configuration file in the
// user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tachyfont.yaml"
	}
	return filepath.Join(home, ".config", "tachyfont", "config.yaml")
}

// Load reads a configuration file.  Settings missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	conf := DefaultConfig()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if _, err := conf.TraceLevel(); err != nil {
		return nil, err
	}
	return conf, nil
}

// StoreOptions returns the options for opening the font store.
func (c *Config) StoreOptions() *store.Options {
	return &store.Options{
		InMemory: c.Store.InMemory,
		Sync:     c.Store.Sync,
	}
}

// TraceLevel returns the configured trace level.
func (c *Config) TraceLevel() (tracing.TraceLevel, error) {
	switch strings.ToLower(c.Trace.Level) {
	case "debug":
		return tracing.LevelDebug, nil
	case "info":
		return tracing.LevelInfo, nil
	case "error", "":
		return tracing.LevelError, nil
	default:
		return tracing.LevelError, fmt.Errorf("invalid trace level %q", c.Trace.Level)
	}
}
