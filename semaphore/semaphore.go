// Package semaphore implements a fair counting semaphore with per-request
// wait bounds.
//
// Fairness is strict: every request joins a FIFO queue, even one that could
// be satisfied instantly, and permits are granted in queue order only. A
// request that arrives later can never be granted before an earlier one.
//
// Completion is delivered on a buffered channel, one per request, so a
// caller can never observe its own grant or failure before the call that
// produced it has returned, and a release that grants queued waiters never
// runs their continuations on the releasing goroutine's stack.
package semaphore

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fairq/fairq"
	"github.com/fairq/fairq/types"
)

// Request carries the optional parameters of an acquisition.
type Request struct {
	// Wait bounds how long the request may stay queued. Invalid (the zero
	// value) means wait without bound; zero means fail immediately unless a
	// permit is free; a positive value means wait at most that long.
	Wait types.NullDuration

	// Data is an arbitrary caller value. It is returned verbatim in the
	// Result on grant, and carried inside the NotAvailableError otherwise.
	Data any
}

// Result is the outcome of one acquisition: either Data from the request
// with a nil Err, or a *fairq.NotAvailableError.
type Result struct {
	Data any
	Err  error
}

type waiter struct {
	data   any
	result chan Result
	elem   *list.Element
	timer  *time.Timer
	done   bool
}

// Semaphore is a fair counting gate over a fixed number of permits. The
// zero value is not usable; use New. Safe for concurrent use.
type Semaphore struct {
	mx       sync.Mutex
	total    int
	acquired int
	waiters  *list.List
}

// New returns a Semaphore with the given fixed number of permits. The total
// must be at least 1.
func New(total int) (*Semaphore, error) {
	if total < 1 {
		return nil, fmt.Errorf("semaphore: invalid total %d, must be at least 1", total)
	}
	return &Semaphore{total: total, waiters: list.New()}, nil
}

// Acquire requests one permit. The returned channel is buffered and
// receives exactly one Result: the request's Data on grant, or a
// *fairq.NotAvailableError if the request's wait bound ran out first.
func (s *Semaphore) Acquire(req Request) <-chan Result {
	return s.enqueue(req).result
}

// AcquireContext requests one permit and blocks until it is granted, the
// request's own wait bound runs out, or ctx is done. It returns the
// request's Data on grant. A ctx that is already done fails immediately
// without consuming a permit. Cancellation wins over a concurrently
// arriving grant: the permit goes straight back via Release and the caller
// gets the ctx error, so a caller that gave up never holds a permit.
func (s *Semaphore) AcquireContext(ctx context.Context, req Request) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	w := s.enqueue(req)
	select {
	case res := <-w.result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Data, nil
	case <-ctx.Done():
		err := ctx.Err()
		s.mx.Lock()
		if w.done {
			// Completed concurrently with the cancellation. The caller
			// gave up, so a grant goes straight back instead of sticking
			// to it.
			s.mx.Unlock()
			if res := <-w.result; res.Err == nil {
				s.Release()
			}
			return nil, err
		}
		// Still queued; withdraw. Removal cannot strand a free permit:
		// waiters only queue up while nothing is available.
		if w.timer != nil {
			w.timer.Stop()
		}
		s.waiters.Remove(w.elem)
		w.done = true
		s.mx.Unlock()
		return nil, err
	}
}

// TryAcquire grabs a permit without queueing and reports whether it got
// one. It fails when no permit is free or when earlier requests are still
// waiting for theirs.
func (s *Semaphore) TryAcquire() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.acquired < s.total && s.waiters.Len() == 0 {
		s.acquired++
		return true
	}
	return false
}

// Release returns one permit and grants as many queued waiters, in arrival
// order, as the freed availability allows. It panics when called with no
// permit held, like unlocking an unlocked sync.Mutex.
func (s *Semaphore) Release() {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.acquired == 0 {
		panic("semaphore: released more than held")
	}
	s.acquired--
	s.drain()
}

// Total returns the fixed permit count.
func (s *Semaphore) Total() int {
	return s.total
}

// Acquired returns the number of permits currently granted.
func (s *Semaphore) Acquired() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.acquired
}

// Available returns the number of free permits.
func (s *Semaphore) Available() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.total - s.acquired
}

// Waiting returns the number of queued requests.
func (s *Semaphore) Waiting() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.waiters.Len()
}

// enqueue parks a new waiter at the back of the queue, drains the queue,
// and arms the waiter's deadline if it is still parked afterwards.
func (s *Semaphore) enqueue(req Request) *waiter {
	w := &waiter{data: req.Data, result: make(chan Result, 1)}

	s.mx.Lock()
	defer s.mx.Unlock()

	w.elem = s.waiters.PushBack(w)
	s.drain()
	if w.done {
		return w
	}

	if !req.Wait.Valid {
		return w // unbounded wait
	}
	if d := req.Wait.TimeDuration(); d > 0 {
		w.timer = time.AfterFunc(d, func() { s.expire(w) })
	} else {
		s.retire(w)
	}
	return w
}

// drain grants queued waiters in arrival order while free permits remain.
// Callers must hold s.mx.
func (s *Semaphore) drain() {
	for s.acquired < s.total {
		front := s.waiters.Front()
		if front == nil {
			return
		}
		w := front.Value.(*waiter)
		s.waiters.Remove(front)
		w.done = true
		if w.timer != nil {
			w.timer.Stop()
		}
		s.acquired++
		w.result <- Result{Data: w.data}
	}
}

// retire fails a parked waiter with a not-available error. Callers must
// hold s.mx.
func (s *Semaphore) retire(w *waiter) {
	s.waiters.Remove(w.elem)
	w.done = true
	w.result <- Result{Err: &fairq.NotAvailableError{Data: w.data}}
}

// expire is the deadline callback of a single waiter. A waiter granted
// after its timer fired but before this ran is left alone.
func (s *Semaphore) expire(w *waiter) {
	s.mx.Lock()
	defer s.mx.Unlock()
	if w.done {
		return
	}
	s.retire(w)
}
