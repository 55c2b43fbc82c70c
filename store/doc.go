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

// Package store implements a transactional key/value store for font data.
//
// Transactions commit automatically: every request issued in a transaction
// returns a [future.Future], and the transaction stays active only while
// requests are queued.  A request which is issued from a continuation of an
// earlier request is queued before the transaction checks for more work,
// since futures run their continuations synchronously.  Once the queue
// drains, the transaction commits and later requests fail with
// [ErrTransactionInactive].
//
// The data is kept in a Pebble database, either on disk or in memory.
package store

import (
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("tachyfont.store")
}
