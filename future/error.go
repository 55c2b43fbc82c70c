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

package future

import (
	"errors"
	"fmt"
)

var (
	// ErrSelfResolution is used to reject a future which was resolved
	// with itself.
	ErrSelfResolution = errors.New("future: resolved with itself")

	// ErrChainTooDeep is used to reject futures returned by Then, if the
	// chain of pending futures would exceed MaxChainDepth.
	ErrChainTooDeep = errors.New("future: chain of pending futures too deep")

	// ErrNilReason is used when a future is rejected with a nil error.
	ErrNilReason = errors.New("future: rejected with nil error")
)

// PanicError is used to reject a future when a setup function or a
// continuation panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (err *PanicError) Error() string {
	return fmt.Sprintf("future: panic: %v", err.Value)
}

// Unwrap returns the panic value, if it is an error.
func (err *PanicError) Unwrap() error {
	if e, ok := err.Value.(error); ok {
		return e
	}
	return nil
}
