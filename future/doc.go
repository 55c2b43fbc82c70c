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

// Package future implements deferred values whose continuations run
// synchronously.
//
// A Future is either pending, resolved with a value, or rejected with an
// error.  Continuations are attached using [Future.Then].  When a future
// settles, all continuations registered so far run immediately, in
// registration order, before the call which settled the future returns.
// Continuations attached to a settled future run inside Then.
//
// This is needed for storage transactions which commit automatically as soon
// as no further request is pending: a continuation can issue the next
// request of a transaction before control returns to the transaction's
// driver loop.
//
// Long chains of pending futures are settled recursively, so that the stack
// grows with the length of the chain.  The chain length is limited to
// [MaxChainDepth].
//
// Futures are not safe for concurrent use.
package future
