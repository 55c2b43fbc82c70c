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
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/bstell/tachyfont/future"
)

// Mode selects whether a transaction can modify the store.
type Mode int

// These are the supported transaction modes.
const (
	ReadOnly Mode = iota
	ReadWrite
)

func (m Mode) String() string {
	switch m {
	case ReadOnly:
		return "readonly"
	case ReadWrite:
		return "readwrite"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Tx is a transaction.  Requests are executed in the order they are
// issued.  Writes become visible to later requests of the same
// transaction immediately, and to other transactions after the commit.
type Tx struct {
	// ID identifies the transaction in trace messages.
	ID ksuid.KSUID

	mode   Mode
	reader reader
	batch  *pebble.Batch // nil for read-only transactions

	queue    []*request
	active   bool
	aborted  bool
	requests int
}

// reader is implemented by *pebble.Batch and *pebble.Snapshot.
type reader interface {
	Get(key []byte) ([]byte, io.Closer, error)
	Close() error
}

type request struct {
	what    string
	exec    func() (any, error)
	resolve func(any)
	reject  func(error)
}

// Transaction starts a new transaction and calls fn to issue the first
// requests.  The transaction then executes its requests until none are
// left, and commits.
//
// The returned future resolves once the transaction has committed, and is
// rejected if the transaction was aborted or the commit failed.  Since all
// requests are executed before Transaction returns, the returned future is
// always settled.
func (s *Store) Transaction(mode Mode, fn func(tx *Tx)) *future.Future {
	if s.db == nil {
		return future.Rejected(ErrClosed)
	}

	tx := &Tx{
		ID:     ksuid.New(),
		mode:   mode,
		active: true,
	}
	if mode == ReadWrite {
		tx.batch = s.db.NewIndexedBatch()
		tx.reader = tx.batch
	} else {
		tx.reader = s.db.NewSnapshot()
	}
	tracer().Debugf("tx %s: begin %s", tx.ID, mode)

	return future.New(func(resolve func(any), _ func(error)) error {
		defer tx.release()

		fn(tx)
		for len(tx.queue) > 0 {
			req := tx.queue[0]
			tx.queue = tx.queue[1:]
			if tx.aborted {
				req.reject(ErrAborted)
				continue
			}
			tx.execute(req)
		}
		tx.active = false

		if tx.aborted {
			tracer().Infof("tx %s: aborted after %d requests", tx.ID, tx.requests)
			return ErrAborted
		}
		if tx.batch != nil {
			err := tx.batch.Commit(s.writeOpts)
			if err != nil {
				tracer().Errorf("tx %s: commit failed: %v", tx.ID, err)
				return fmt.Errorf("store: commit %s: %w", tx.ID, err)
			}
		}
		tracer().Debugf("tx %s: committed %d requests", tx.ID, tx.requests)
		resolve(nil)
		return nil
	})
}

// Mode returns the mode of the transaction.
func (tx *Tx) Mode() Mode {
	return tx.mode
}

// Active reports whether the transaction accepts new requests.
func (tx *Tx) Active() bool {
	return tx.active
}

// Get looks up the value stored under key.  The returned future resolves
// with a []byte, or with nil if the key is not present.
func (tx *Tx) Get(key []byte) *future.Future {
	key = bytes.Clone(key)
	return tx.enqueue("get", func() (any, error) {
		val, closer, err := tx.reader.Get(key)
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		} else if err != nil {
			return nil, err
		}
		defer closer.Close()
		return bytes.Clone(val), nil
	})
}

// Put stores value under key.  The returned future resolves with nil.
func (tx *Tx) Put(key, value []byte) *future.Future {
	key = bytes.Clone(key)
	value = bytes.Clone(value)
	return tx.enqueue("put", func() (any, error) {
		if tx.batch == nil {
			return nil, ErrReadOnly
		}
		return nil, tx.batch.Set(key, value, nil)
	})
}

// Delete removes key from the store.  The returned future resolves with nil.
func (tx *Tx) Delete(key []byte) *future.Future {
	key = bytes.Clone(key)
	return tx.enqueue("delete", func() (any, error) {
		if tx.batch == nil {
			return nil, ErrReadOnly
		}
		return nil, tx.batch.Delete(key, nil)
	})
}

// Abort discards all changes made by the transaction.  Requests which are
// still queued are rejected with ErrAborted, and no new requests are
// accepted.
func (tx *Tx) Abort() {
	if !tx.active {
		return
	}
	tx.aborted = true
	tx.active = false
}

func (tx *Tx) enqueue(what string, exec func() (any, error)) *future.Future {
	if !tx.active {
		tracer().Debugf("tx %s: %s after the transaction finished", tx.ID, what)
		return future.Rejected(ErrTransactionInactive)
	}
	req := &request{what: what, exec: exec}
	f := future.New(func(resolve func(any), reject func(error)) error {
		req.resolve = resolve
		req.reject = reject
		return nil
	})
	tx.queue = append(tx.queue, req)
	return f
}

// execute runs a request and settles its future.  Continuations of the
// future run before execute returns and may queue further requests.
func (tx *Tx) execute(req *request) {
	tx.requests++
	val, err := req.exec()
	if err != nil {
		tracer().Debugf("tx %s: %s failed: %v", tx.ID, req.what, err)
		req.reject(err)
		return
	}
	req.resolve(val)
}

func (tx *Tx) release() {
	tx.active = false
	for _, req := range tx.queue {
		req.reject(ErrAborted)
	}
	tx.queue = nil
	err := tx.reader.Close()
	if err != nil {
		tracer().Errorf("tx %s: %v", tx.ID, err)
	}
}
