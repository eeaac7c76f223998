package fairq

import "errors"

// ErrNotAvailable is the failure for an acquire that could not be granted
// within its allowed wait: either the requester declined to wait and no
// permit was free, or its wait bound expired first. Recoverable; the caller
// decides whether to retry.
var ErrNotAvailable = errors.New("fairq: not available")

// Buffer misuse signals. Under correct pool usage neither ever reaches a
// caller: the semaphore gate guarantees a read is possible after every
// grant and a write after every release.
var (
	ErrBufferFull  = errors.New("fairq: buffer full")
	ErrBufferEmpty = errors.New("fairq: buffer empty")
)

// Make sure *NotAvailableError satisfies error interface.
var _ error = (*NotAvailableError)(nil)

// NotAvailableError is the concrete error delivered to a requester that was
// not granted a permit. It carries the value the requester attached to its
// request, so a shared failure handler can correlate the error with the
// request that produced it. It matches ErrNotAvailable under errors.Is.
type NotAvailableError struct {
	// Data is the caller-supplied value from the originating request.
	Data any
}

func (e *NotAvailableError) Error() string {
	return ErrNotAvailable.Error()
}

func (e *NotAvailableError) Unwrap() error {
	return ErrNotAvailable
}
