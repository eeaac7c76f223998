// Package pool implements a bounded pool of lazily provisioned resources.
//
// A pool composes a fair semaphore, which admits checkouts in strict
// arrival order up to the pool's capacity, with a ring buffer holding the
// resources currently idle. Nothing is provisioned up front: the factory
// runs the first capacity times a checkout finds the buffer short, and the
// resources it produced are recycled through the buffer from then on. At
// any moment checked-out resources plus idle ones never exceed capacity.
package pool

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fairq/fairq/ring"
	"github.com/fairq/fairq/semaphore"
	"github.com/fairq/fairq/types"
)

// Factory is the pool's provisioning capability: given the options the pool
// was configured with, produce a fresh resource or fail. What the resource
// is and what the options mean are opaque to the pool.
type Factory[T any] func(ctx context.Context, opts any) (T, error)

// Result is the outcome of one checkout: either a Resource with a nil Err,
// or a *fairq.NotAvailableError when no slot freed up within the pool's
// timeout, or the factory's own error.
type Result[T any] struct {
	Resource T
	Err      error
}

// Stats is an advisory snapshot of a pool's occupancy.
type Stats struct {
	Capacity int64 `json:"capacity"`
	InUse    int64 `json:"in_use"`
	Idle     int64 `json:"idle"`
	Waiting  int64 `json:"waiting"`
}

// Pool hands out up to its capacity of reusable resources. The zero value
// is not usable; use New. Safe for concurrent use.
type Pool[T any] struct {
	capacity    int
	timeout     time.Duration
	factory     Factory[T]
	factoryOpts any
	logger      logrus.FieldLogger

	// both nil when the pool runs unbounded
	sem *semaphore.Semaphore
	buf *ring.Buffer[T]
}

// New returns a Pool built from cfg that provisions through factory,
// forwarding factoryOpts verbatim on every provisioning call. A capacity of
// zero (or less) disables pooling: checkouts always provision and returns
// are dropped. A nil logger discards all pool logging.
func New[T any](logger logrus.FieldLogger, cfg Config, factory Factory[T], factoryOpts any) (*Pool[T], error) {
	if factory == nil {
		return nil, errors.New("pool: missing resource factory")
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	capacity := int64(DefaultCapacity)
	if cfg.Capacity.Valid {
		capacity = cfg.Capacity.Int64
	}
	timeout := DefaultTimeout
	if cfg.Timeout.Valid {
		timeout = cfg.Timeout.TimeDuration()
	}

	p := &Pool[T]{
		timeout:     timeout,
		factory:     factory,
		factoryOpts: factoryOpts,
		logger:      logger.WithField("component", "pool"),
	}
	if capacity <= 0 {
		p.logger.Debug("pooling disabled, every checkout will provision")
		return p, nil
	}

	sem, err := semaphore.New(int(capacity))
	if err != nil {
		return nil, err
	}
	buf, err := ring.New[T](int(capacity))
	if err != nil {
		return nil, err
	}
	p.capacity, p.sem, p.buf = int(capacity), sem, buf
	return p, nil
}

// Get checks a resource out of the pool. The returned channel is buffered
// and receives exactly one Result: an idle resource, a freshly provisioned
// one, or an error.
//
// When the factory fails, the checkout's pool slot stays consumed: no
// resource exists to return, so nothing will ever release it. A factory
// that can fail transiently makes the pool shrink with each failure.
func (p *Pool[T]) Get() <-chan Result[T] {
	res := make(chan Result[T], 1)
	if p.sem == nil {
		go func() {
			r, err := p.factory(context.Background(), p.factoryOpts)
			res <- Result[T]{Resource: r, Err: err}
		}()
		return res
	}

	grant := p.sem.Acquire(p.request())
	go func() {
		g := <-grant
		if g.Err != nil {
			p.logger.WithError(g.Err).Debug("no pool slot within the allowed wait")
			res <- Result[T]{Err: g.Err}
			return
		}
		res <- p.provide(context.Background())
	}()
	return res
}

// GetContext is Get in blocking form: it waits for a slot until the pool's
// timeout or ctx ends, whichever is first, and runs the factory with ctx on
// the calling goroutine. The factory-failure slot accounting matches Get.
func (p *Pool[T]) GetContext(ctx context.Context) (T, error) {
	if p.sem == nil {
		return p.factory(ctx, p.factoryOpts)
	}

	if _, err := p.sem.AcquireContext(ctx, p.request()); err != nil {
		var zero T
		p.logger.WithError(err).Debug("no pool slot within the allowed wait")
		return zero, err
	}
	r := p.provide(ctx)
	return r.Resource, r.Err
}

// Put returns a checked-out resource to the pool, making it the next
// candidate for reuse. The buffer write happens before the slot release:
// a waiter unblocked by the release must find the resource already
// readable. Returning more resources than were checked out is a usage
// error and panics. In an unbounded pool Put drops the resource.
func (p *Pool[T]) Put(resource T) {
	if p.sem == nil {
		return
	}
	if err := p.buf.Write(resource); err != nil {
		panic("pool: put of a resource that was never checked out")
	}
	p.sem.Release()
	p.logger.Debug("resource returned to pool")
}

// Stats returns an advisory snapshot of the pool's occupancy. Each field is
// consistent on its own but the snapshot as a whole is not atomic. An
// unbounded pool reports all zeroes.
func (p *Pool[T]) Stats() Stats {
	if p.sem == nil {
		return Stats{}
	}
	return Stats{
		Capacity: int64(p.capacity),
		InUse:    int64(p.sem.Acquired()),
		Idle:     int64(p.buf.Len()),
		Waiting:  int64(p.sem.Waiting()),
	}
}

// request translates the pool's timeout into a semaphore request: negative
// waits without bound, zero fails fast, positive is the bound itself.
func (p *Pool[T]) request() semaphore.Request {
	req := semaphore.Request{}
	if p.timeout >= 0 {
		req.Wait = types.NullDurationFrom(p.timeout)
	}
	return req
}

// provide turns a granted slot into a resource: an idle one from the
// buffer if it has any, a freshly provisioned one otherwise.
func (p *Pool[T]) provide(ctx context.Context) Result[T] {
	if item, err := p.buf.Read(); err == nil {
		p.logger.Debug("reusing idle resource")
		return Result[T]{Resource: item}
	}

	r, err := p.factory(ctx, p.factoryOpts)
	if err != nil {
		// no resource came back, so nothing will release the slot
		p.logger.WithError(err).Warn("resource provisioning failed, pool slot stays consumed")
		return Result[T]{Err: err}
	}
	p.logger.Debug("provisioned new resource")
	return Result[T]{Resource: r}
}
