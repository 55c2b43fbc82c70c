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

package store

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var (
	// ErrTransactionInactive is returned for requests issued after a
	// transaction has committed or aborted.
	ErrTransactionInactive = errors.New("store: transaction is not active")

	// ErrReadOnly is returned for write requests in read-only transactions.
	ErrReadOnly = errors.New("store: transaction is read-only")

	// ErrAborted is used to reject aborted transactions, and the requests
	// which were still queued when the transaction was aborted.
	ErrAborted = errors.New("store: transaction aborted")

	// ErrClosed is returned when a transaction is started on a closed store.
	ErrClosed = errors.New("store: closed")
)

// Options control how a store is opened.
type Options struct {
	// InMemory keeps all data in memory.  The directory passed to Open is
	// ignored in this case.
	InMemory bool

	// Sync makes commits wait until the data has reached stable storage.
	Sync bool
}

// Store is a key/value store for font data.
type Store struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

// Open opens the store in the given directory, creating it if needed.
// If opt is nil, default options are used.
func Open(dir string, opt *Options) (*Store, error) {
	if opt == nil {
		opt = &Options{}
	}

	dbOpt := &pebble.Options{
		Logger: traceLogger{},
	}
	if opt.InMemory {
		dbOpt.FS = vfs.NewMem()
		dir = ""
	}
	db, err := pebble.Open(dir, dbOpt)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", dir, err)
	}

	s := &Store{
		db:        db,
		writeOpts: pebble.NoSync,
	}
	if opt.Sync {
		s.writeOpts = pebble.Sync
	}
	tracer().Infof("opened store %q (in memory: %t)", dir, opt.InMemory)
	return s, nil
}

// Close closes the store.  Transactions must not be started after Close
// has been called.
func (s *Store) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// traceLogger routes the messages of the database engine to the trace.
type traceLogger struct{}

func (traceLogger) Infof(format string, args ...interface{}) {
	tracer().Debugf(format, args...)
}

func (traceLogger) Errorf(format string, args ...interface{}) {
	tracer().Errorf(format, args...)
}

func (traceLogger) Fatalf(format string, args ...interface{}) {
	tracer().Errorf(format, args...)
	panic(fmt.Sprintf(format, args...))
}
