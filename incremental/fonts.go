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
	"fmt"

	"github.com/bstell/tachyfont/font/cff"
	"github.com/bstell/tachyfont/future"
	"github.com/bstell/tachyfont/store"
)

// NotFoundError indicates that no font is stored under the given name.
type NotFoundError struct {
	Name string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("incremental: font %q not found", err.Name)
}

// Fonts gives access to the fonts kept in a store.
type Fonts struct {
	store *store.Store
}

// New returns a Fonts object which keeps its data in s.
func New(s *store.Store) *Fonts {
	return &Fonts{store: s}
}

func fontKey(name string) []byte {
	return []byte("font/" + name)
}

// PutBase stores the base version of a font.  The data must either be an
// OpenType font with CFF outlines, or a bare CFF table.  The returned future
// resolves with nil once the data has been committed.
func (f *Fonts) PutBase(name string, data []byte) *future.Future {
	cffData, err := CFFTable(data)
	if err != nil {
		return future.Rejected(fmt.Errorf("incremental: %s: %w", name, err))
	}
	_, err = cff.OpenTable(cffData)
	if err != nil {
		return future.Rejected(fmt.Errorf("incremental: %s: %w", name, err))
	}

	return f.store.Transaction(store.ReadWrite, func(tx *store.Tx) {
		tx.Put(fontKey(name), data)
	}).Then(func(any) (any, error) {
		tracer().Infof("%s: stored base font, %d bytes", name, len(data))
		return nil, nil
	}, nil)
}

// Get returns the current data of a font.  The returned future resolves
// with a []byte.
func (f *Fonts) Get(name string) *future.Future {
	var res *future.Future
	done := f.store.Transaction(store.ReadOnly, func(tx *store.Tx) {
		res = tx.Get(fontKey(name)).Then(func(value any) (any, error) {
			if value == nil {
				return nil, &NotFoundError{Name: name}
			}
			return value, nil
		}, nil)
	})
	return done.Then(func(any) (any, error) {
		return res, nil
	}, nil)
}

// InjectGlyphs adds CharStrings to a stored font.  The map keys are glyph
// IDs, the values are Type 2 charstrings which replace the existing data.
// The returned future resolves with the new size of the font data.
func (f *Fonts) InjectGlyphs(name string, glyphs map[int][]byte) *future.Future {
	return f.update(name, func(data []byte) ([]byte, any, error) {
		out, err := ReplaceGlyphs(data, glyphs)
		if err != nil {
			return nil, nil, err
		}
		tracer().Infof("%s: injected %d glyphs, font size now %d", name, len(glyphs), len(out))
		return out, len(out), nil
	})
}

// ShiftOffsets adds delta to all offsets in the Top DICT and the Font DICTs
// of a stored font which are greater than threshold.  The returned future
// resolves with the number of changed offsets.
func (f *Fonts) ShiftOffsets(name string, threshold int64, delta int32) *future.Future {
	return f.update(name, func(data []byte) ([]byte, any, error) {
		out, n, err := ShiftOffsets(data, threshold, delta)
		if err != nil {
			return nil, nil, err
		}
		tracer().Infof("%s: shifted %d offsets by %d", name, n, delta)
		return out, n, nil
	})
}

// update runs the get-edit-put cycle for a font in a single read-write
// transaction.  The put is issued from the continuation of the get, so that
// the transaction is still active.  The returned future resolves with the
// result of edit.
func (f *Fonts) update(name string, edit func(data []byte) ([]byte, any, error)) *future.Future {
	var res *future.Future
	done := f.store.Transaction(store.ReadWrite, func(tx *store.Tx) {
		res = tx.Get(fontKey(name)).Then(func(value any) (any, error) {
			data, ok := value.([]byte)
			if !ok {
				return nil, &NotFoundError{Name: name}
			}

			out, result, err := edit(data)
			if err != nil {
				tracer().Errorf("%s: %v", name, err)
				return nil, fmt.Errorf("incremental: %s: %w", name, err)
			}

			return tx.Put(fontKey(name), out).Then(func(any) (any, error) {
				return result, nil
			}, nil), nil
		}, nil)
	})
	return done.Then(func(any) (any, error) {
		return res, nil
	}, nil)
}
