// Package ring implements a fixed-capacity circular FIFO buffer.
//
// The buffer is strictly synchronous: reads and writes never block and
// there are no callbacks. A full buffer rejects writes and an empty one
// rejects reads; waiting for a slot or an item is the caller's concern.
package ring

import (
	"fmt"
	"sync"

	"github.com/fairq/fairq"
)

// Buffer is a fixed-capacity circular store of items, read back in the
// order they were written. Safe for concurrent use.
type Buffer[T any] struct {
	mx    sync.Mutex
	slots []T
	head  int
	tail  int
	count int
}

// New returns a Buffer holding at most capacity items. The capacity must
// be a concrete positive size.
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("ring: invalid capacity %d, must be at least 1", capacity)
	}
	return &Buffer[T]{slots: make([]T, capacity)}, nil
}

// Write stores item at the tail of the buffer. If the buffer is full it
// returns fairq.ErrBufferFull and leaves the buffer untouched.
func (b *Buffer[T]) Write(item T) error {
	b.mx.Lock()
	defer b.mx.Unlock()

	if b.count == len(b.slots) {
		return fairq.ErrBufferFull
	}
	b.slots[b.tail] = item
	b.tail = (b.tail + 1) % len(b.slots)
	b.count++
	return nil
}

// Read removes and returns the item at the head of the buffer. If the
// buffer is empty it returns fairq.ErrBufferEmpty and leaves the buffer
// untouched.
func (b *Buffer[T]) Read() (T, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	var zero T
	if b.count == 0 {
		return zero, fairq.ErrBufferEmpty
	}
	item := b.slots[b.head]
	b.slots[b.head] = zero // release the stored reference
	b.head = (b.head + 1) % len(b.slots)
	b.count--
	return item, nil
}

// Len returns the number of items currently stored.
func (b *Buffer[T]) Len() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.count
}

// Cap returns the buffer's fixed capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.slots)
}

// Available returns the number of free slots.
func (b *Buffer[T]) Available() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return len(b.slots) - b.count
}

// CanWrite reports whether a Write would currently succeed.
func (b *Buffer[T]) CanWrite() bool {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.count < len(b.slots)
}

// CanRead reports whether a Read would currently succeed.
func (b *Buffer[T]) CanRead() bool {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.count > 0
}

// Full reports whether every slot is occupied.
func (b *Buffer[T]) Full() bool {
	return !b.CanWrite()
}

// Empty reports whether the buffer holds nothing.
func (b *Buffer[T]) Empty() bool {
	return !b.CanRead()
}
