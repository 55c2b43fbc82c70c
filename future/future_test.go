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
	"testing"

	"github.com/google/go-cmp/cmp"
)

var errTest = errors.New("test error")

// pending returns a pending future together with its settle functions.
func pending() (*Future, func(any), func(error)) {
	var resolve func(any)
	var reject func(error)
	f := New(func(res func(any), rej func(error)) error {
		resolve, reject = res, rej
		return nil
	})
	return f, resolve, reject
}

func TestChainOrder(t *testing.T) {
	f, resolve, _ := pending()

	counter := 0
	step := func(expected int) Handler {
		return func(value any) (any, error) {
			if counter != expected {
				t.Errorf("handler %d called at step %d", expected, counter)
			}
			counter++
			return value.(int) + 1, nil
		}
	}
	g := f.Then(step(0), nil).Then(step(1), nil).Then(step(2), nil)

	if counter != 0 || g.State() != StatePending {
		t.Fatal("handlers called before resolution")
	}
	resolve(10)
	if counter != 3 {
		t.Errorf("only %d handlers ran inside resolve", counter)
	}
	if g.State() != StateResolved || g.Value() != 13 {
		t.Errorf("wrong final state %s %v", g.State(), g.Value())
	}
}

func TestRegistrationOrder(t *testing.T) {
	f, resolve, _ := pending()

	var seq []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		f.Then(func(any) (any, error) {
			seq = append(seq, name)
			return nil, nil
		}, nil)
	}
	resolve(nil)
	seq = append(seq, "after")

	if diff := cmp.Diff([]string{"a", "b", "c", "after"}, seq); diff != "" {
		t.Errorf("wrong order (-want +got):\n%s", diff)
	}
}

func TestLateRegistration(t *testing.T) {
	called := false
	g := Resolved(3).Then(func(value any) (any, error) {
		called = true
		return value.(int) * 2, nil
	}, nil)
	if !called {
		t.Fatal("handler on settled future was deferred")
	}
	if g.Value() != 6 {
		t.Errorf("wrong value %v", g.Value())
	}

	called = false
	h := Rejected(errTest).Catch(func(err error) (any, error) {
		called = true
		return "recovered", nil
	})
	if !called || h.Value() != "recovered" {
		t.Errorf("Catch on rejected future: %t %v", called, h.Value())
	}
}

func TestIdempotence(t *testing.T) {
	f, resolve, reject := pending()
	calls := 0
	f.Then(func(any) (any, error) {
		calls++
		return nil, nil
	}, func(error) (any, error) {
		calls++
		return nil, nil
	})

	resolve(1)
	resolve(2)
	reject(errTest)
	if f.State() != StateResolved || f.Value() != 1 || f.Err() != nil {
		t.Errorf("settled future changed: %s %v %v", f.State(), f.Value(), f.Err())
	}
	if calls != 1 {
		t.Errorf("continuation called %d times", calls)
	}

	g, _, reject := pending()
	reject(errTest)
	reject(errors.New("other"))
	if !errors.Is(g.Err(), errTest) || g.Value() != nil {
		t.Errorf("rejected future changed: %v", g.Err())
	}
}

func TestAdoption(t *testing.T) {
	inner, resolveInner, _ := pending()
	f := Resolved(inner)
	if f.State() != StatePending {
		t.Fatalf("future settled before the adopted future: %s", f.State())
	}
	resolveInner("x")
	if f.State() != StateResolved || f.Value() != "x" {
		t.Errorf("adoption failed: %s %v", f.State(), f.Value())
	}

	inner, _, rejectInner := pending()
	g := New(func(resolve func(any), _ func(error)) error {
		resolve(inner)
		return nil
	})
	rejectInner(errTest)
	if !errors.Is(g.Err(), errTest) {
		t.Errorf("rejection was not adopted: %s %v", g.State(), g.Err())
	}

	h := Resolved(Resolved(Resolved(5)))
	if h.Value() != 5 {
		t.Errorf("nested adoption failed: %v", h.Value())
	}
}

func TestAdoptionLocks(t *testing.T) {
	inner, resolveInner, _ := pending()
	f := New(func(resolve func(any), reject func(error)) error {
		resolve(inner)
		resolve(7)
		reject(errTest)
		return errTest
	})
	if f.State() != StatePending {
		t.Fatalf("settle call during adoption had an effect: %s", f.State())
	}
	resolveInner(1)
	if f.Value() != 1 {
		t.Errorf("wrong value %v", f.Value())
	}
}

type thenable struct {
	value any
}

func (t thenable) Then(onResolve Handler, onReject ErrorHandler) *Future {
	return Resolved(t.value).Then(onResolve, onReject)
}

type deferredError struct {
	f *Future
}

func (e deferredError) Error() string {
	return "deferred error"
}

func (e deferredError) Then(onResolve Handler, onReject ErrorHandler) *Future {
	return e.f.Then(onResolve, onReject)
}

func TestForeignThenable(t *testing.T) {
	f := Resolved(thenable{value: 9})
	if f.Value() != 9 {
		t.Errorf("wrong value %v", f.Value())
	}

	g := Rejected(deferredError{f: Resolved(3)})
	if g.State() != StateResolved || g.Value() != 3 {
		t.Errorf("thenable error not adopted: %s %v", g.State(), g.Value())
	}

	h := Rejected(deferredError{f: Rejected(errTest)})
	if !errors.Is(h.Err(), errTest) {
		t.Errorf("wrong error %v", h.Err())
	}
}

// panicThenable is a Thenable whose Then method panics.
type panicThenable struct{}

func (panicThenable) Then(Handler, ErrorHandler) *Future {
	panic("broken thenable")
}

func TestPanickingThenable(t *testing.T) {
	var panicErr *PanicError

	f := New(func(resolve func(any), reject func(error)) error {
		resolve(panicThenable{})
		return nil
	})
	if f.State() != StateRejected || !errors.As(f.Err(), &panicErr) {
		t.Fatalf("setup: got %s %v", f.State(), f.Err())
	}
	if panicErr.Value != "broken thenable" {
		t.Errorf("wrong panic value %v", panicErr.Value)
	}

	g := Resolved(1).Then(func(any) (any, error) {
		return panicThenable{}, nil
	}, nil)
	if g.State() != StateRejected || !errors.As(g.Err(), &panicErr) {
		t.Errorf("settled parent: got %s %v", g.State(), g.Err())
	}

	p, resolve, _ := pending()
	h := p.Then(func(any) (any, error) {
		return panicThenable{}, nil
	}, nil)
	resolve(1)
	if p.State() != StateResolved {
		t.Errorf("parent not resolved: %s", p.State())
	}
	if h.State() != StateRejected || !errors.As(h.Err(), &panicErr) {
		t.Errorf("pending parent: got %s %v", h.State(), h.Err())
	}
}

func TestSelfResolution(t *testing.T) {
	f, resolve, _ := pending()
	resolve(f)
	if !errors.Is(f.Err(), ErrSelfResolution) {
		t.Errorf("expected ErrSelfResolution, got %s %v", f.State(), f.Err())
	}
}

func TestForwarding(t *testing.T) {
	called := false
	f := Rejected(errTest).Then(func(any) (any, error) {
		called = true
		return nil, nil
	}, nil)
	if called {
		t.Error("onResolve called for rejected future")
	}
	if !errors.Is(f.Err(), errTest) {
		t.Errorf("error not forwarded: %v", f.Err())
	}

	g := Resolved("v").Catch(func(error) (any, error) {
		called = true
		return nil, nil
	})
	if called || g.Value() != "v" {
		t.Errorf("value not forwarded: %t %v", called, g.Value())
	}
}

func TestHandlerErrors(t *testing.T) {
	f := Resolved(1).Then(func(any) (any, error) {
		return nil, errTest
	}, nil)
	if !errors.Is(f.Err(), errTest) {
		t.Errorf("handler error not propagated: %v", f.Err())
	}

	g := f.Catch(func(err error) (any, error) {
		return "ok", nil
	})
	if g.Value() != "ok" {
		t.Errorf("onReject result did not resolve: %s %v", g.State(), g.Value())
	}

	h := Rejected(errTest).Catch(func(err error) (any, error) {
		return nil, errors.New("again")
	})
	if h.Err() == nil || h.Err().Error() != "again" {
		t.Errorf("wrong error %v", h.Err())
	}
}

func TestPanics(t *testing.T) {
	f := Resolved(1).Then(func(any) (any, error) {
		panic("boom")
	}, nil)
	var panicErr *PanicError
	if !errors.As(f.Err(), &panicErr) {
		t.Fatalf("expected PanicError, got %v", f.Err())
	}
	if panicErr.Value != "boom" || len(panicErr.Stack) == 0 {
		t.Errorf("wrong PanicError %v", panicErr)
	}

	g := New(func(func(any), func(error)) error {
		panic(errTest)
	})
	if !errors.Is(g.Err(), errTest) {
		t.Errorf("setup panic not converted: %v", g.Err())
	}

	h := New(func(func(any), func(error)) error {
		return errTest
	})
	if !errors.Is(h.Err(), errTest) {
		t.Errorf("setup error not converted: %v", h.Err())
	}

	// a settled future ignores a later setup error
	k := New(func(resolve func(any), _ func(error)) error {
		resolve(2)
		return errTest
	})
	if k.Value() != 2 {
		t.Errorf("wrong state %s %v", k.State(), k.Err())
	}
}

func TestNilReason(t *testing.T) {
	f := Rejected(nil)
	if f.State() != StateRejected || !errors.Is(f.Err(), ErrNilReason) {
		t.Errorf("wrong state %s %v", f.State(), f.Err())
	}

	var nilFuture *Future
	g := Resolved(nilFuture)
	if g.State() != StateResolved || g.Value() != nil {
		t.Errorf("wrong state %s %v", g.State(), g.Value())
	}
}

func TestChainDepth(t *testing.T) {
	f, resolve, _ := pending()
	g := f
	for i := 0; i < MaxChainDepth; i++ {
		g = g.Then(nil, nil)
		if g.State() != StatePending {
			t.Fatalf("step %d: %s %v", i, g.State(), g.Err())
		}
	}

	tooDeep := g.Then(nil, nil)
	if !errors.Is(tooDeep.Err(), ErrChainTooDeep) {
		t.Errorf("expected ErrChainTooDeep, got %s %v", tooDeep.State(), tooDeep.Err())
	}
	adopted := Resolved(g)
	if !errors.Is(adopted.Err(), ErrChainTooDeep) {
		t.Errorf("expected ErrChainTooDeep, got %s %v", adopted.State(), adopted.Err())
	}

	resolve(1)
	if g.Value() != 1 {
		t.Errorf("chain not resolved: %s %v", g.State(), g.Value())
	}
	if g.Then(nil, nil).Value() != 1 {
		t.Error("Then on settled future failed")
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StatePending:  "pending",
		StateResolved: "resolved",
		StateRejected: "rejected",
		State(7):      "invalid",
	}
	for s, expected := range cases {
		if s.String() != expected {
			t.Errorf("%d: %q != %q", int(s), s.String(), expected)
		}
	}
}
