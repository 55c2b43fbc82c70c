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
	"runtime/debug"
)

// MaxChainDepth is the maximal number of pending futures which can be
// chained behind each other using Then.
const MaxChainDepth = 1 << 14

// State describes whether a future has settled.
type State int

// These are the possible states of a future.
// StateResolved and StateRejected are final.
const (
	StatePending State = iota
	StateResolved
	StateRejected
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateRejected:
		return "rejected"
	default:
		return "invalid"
	}
}

// Handler is called with the value of a resolved future.
type Handler func(value any) (any, error)

// ErrorHandler is called with the error of a rejected future.
type ErrorHandler func(err error) (any, error)

// Thenable is implemented by values which settle at some later point.
// Resolving a future with a Thenable makes the future adopt the outcome
// of the Thenable.
type Thenable interface {
	Then(onResolve Handler, onReject ErrorHandler) *Future
}

// Future is a deferred value.
type Future struct {
	state State
	value any
	err   error

	// adopting is set while the future follows the outcome of a Thenable.
	// Calls to resolve and reject are ignored during this time.
	adopting bool

	// depth is the number of pending futures this future waits for.
	depth int

	queue []continuation
}

type continuation struct {
	onResolve Handler
	onReject  ErrorHandler
	next      *Future
}

// New allocates a new future and immediately calls setup.  The setup
// function can settle the future using the resolve and reject functions,
// either during the call or at a later time.  If setup returns an error or
// panics, the future is rejected.  Only the first call to resolve or reject
// has an effect.  Resolving with a Thenable counts as that first call: the
// future follows the Thenable, and further calls to resolve or reject are
// ignored even though the future is still pending.
func New(setup func(resolve func(any), reject func(error)) error) *Future {
	f := &Future{}
	_, err := protect(func() (any, error) {
		return nil, setup(f.resolve, f.reject)
	})
	if err != nil {
		f.reject(err)
	}
	return f
}

// Resolved returns a future which is resolved with the given value.
// If value is a Thenable, the future adopts its outcome instead.
func Resolved(value any) *Future {
	f := &Future{}
	f.resolve(value)
	return f
}

// Rejected returns a future which is rejected with the given error.
func Rejected(err error) *Future {
	f := &Future{}
	f.reject(err)
	return f
}

// State returns the current state of the future.
func (f *Future) State() State {
	return f.state
}

// Value returns the value of a resolved future, and nil otherwise.
func (f *Future) Value() any {
	if f.state != StateResolved {
		return nil
	}
	return f.value
}

// Err returns the error of a rejected future, and nil otherwise.
func (f *Future) Err() error {
	if f.state != StateRejected {
		return nil
	}
	return f.err
}

// Then attaches continuations to the future and returns a new future for
// their result.
//
// If f resolves, onResolve is called with the value; if f is rejected,
// onReject is called with the error.  The value returned by the handler
// resolves the new future, and a returned error (or a panic) rejects it.
// A nil handler passes the outcome of f on unchanged.
//
// If f has already settled, the handler is called before Then returns.
func (f *Future) Then(onResolve Handler, onReject ErrorHandler) *Future {
	c := continuation{
		onResolve: onResolve,
		onReject:  onReject,
		next:      &Future{},
	}
	if f.state == StatePending {
		if f.depth >= MaxChainDepth {
			return Rejected(ErrChainTooDeep)
		}
		c.next.depth = f.depth + 1
		f.queue = append(f.queue, c)
		return c.next
	}
	f.run(c)
	return c.next
}

// Catch is a shorthand for f.Then(nil, onReject).
func (f *Future) Catch(onReject ErrorHandler) *Future {
	return f.Then(nil, onReject)
}

func (f *Future) resolve(value any) {
	if f.state != StatePending || f.adopting {
		return
	}
	if value, ok := value.(*Future); ok {
		if value == f {
			f.settle(StateRejected, nil, ErrSelfResolution)
			return
		}
		if value == nil {
			f.settle(StateResolved, nil, nil)
			return
		}
	}
	if t, ok := value.(Thenable); ok {
		f.adopt(t)
		return
	}
	f.settle(StateResolved, value, nil)
}

func (f *Future) reject(err error) {
	if f.state != StatePending || f.adopting {
		return
	}
	if err == nil {
		err = ErrNilReason
	}
	if t, ok := err.(Thenable); ok {
		f.adopt(t)
		return
	}
	f.settle(StateRejected, nil, err)
}

// adopt makes f follow the outcome of t.
func (f *Future) adopt(t Thenable) {
	f.adopting = true
	if tf, ok := t.(*Future); ok && tf.state == StatePending {
		f.depth = max(f.depth, tf.depth+1)
	}
	var g *Future
	_, err := protect(func() (any, error) {
		g = t.Then(
			func(value any) (any, error) {
				f.adopting = false
				f.resolve(value)
				return nil, nil
			},
			func(err error) (any, error) {
				f.adopting = false
				f.reject(err)
				return nil, nil
			})
		return nil, nil
	})
	if err != nil {
		if f.adopting {
			f.adopting = false
			f.reject(err)
		}
		return
	}
	if g != nil && g.state == StateRejected && f.adopting {
		// t refused the continuation, e.g. because of ErrChainTooDeep
		f.adopting = false
		f.reject(g.err)
	}
}

func (f *Future) settle(state State, value any, err error) {
	f.state = state
	f.value = value
	f.err = err

	queue := f.queue
	f.queue = nil
	for _, c := range queue {
		f.run(c)
	}
}

// run passes the outcome of the settled future f to a continuation.
func (f *Future) run(c continuation) {
	var value any
	var err error
	switch {
	case f.state == StateResolved && c.onResolve != nil:
		value, err = protect(func() (any, error) { return c.onResolve(f.value) })
	case f.state == StateResolved:
		value = f.value
	case c.onReject != nil:
		value, err = protect(func() (any, error) { return c.onReject(f.err) })
	default:
		err = f.err
	}

	if err != nil {
		c.next.reject(err)
	} else {
		c.next.resolve(value)
	}
}

// protect calls fn and converts a panic into a *PanicError.
func protect(fn func() (any, error)) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
