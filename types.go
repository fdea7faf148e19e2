// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "unsafe"

// Queue is the combined producer-consumer interface for a bounded FIFO
// queue over a machine-word-sized type.
//
// Queue provides non-blocking TryPush and TryPop operations. Both return
// ErrWouldBlock when they cannot proceed (queue full or empty).
//
// The interface intentionally excludes Size; concrete queue types still
// expose Size directly, and QueuePtr implementations do too.
//
// Example:
//
//	q := lfq.NewMPMC[int](1024)
//
//	if err := q.TryPush(42); err != nil {
//	    // Handle full queue
//	}
//
//	elem, err := q.TryPop()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T Word] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the interface for pushing elements without blocking.
type Producer[T Word] interface {
	// TryPush adds an element to the queue (non-blocking).
	// Returns nil on success, ErrWouldBlock if the queue is full.
	//
	// Thread safety depends on queue type:
	//   - MPSC/MPMC: multiple producers safe
	TryPush(elem T) error
}

// Consumer is the interface for popping elements without blocking.
type Consumer[T Word] interface {
	// TryPop removes and returns an element from the queue (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	//
	// Thread safety depends on queue type:
	//   - MPSC: single consumer only
	//   - MPMC: multiple consumers safe
	TryPop() (T, error)
}

// QueuePtr is the combined interface for unsafe.Pointer queues.
//
// QueuePtr passes pointers directly without copying, enabling zero-copy
// transfer of objects between goroutines. The producer transfers
// ownership of the pointee to the consumer; after TryPush succeeds, the
// producer must not access the object again.
//
// Example:
//
//	type Message struct {
//	    Data []byte
//	}
//
//	q := lfq.NewMPMCPtr(1024)
//
//	msg := &Message{Data: largePayload}
//	q.TryPush(unsafe.Pointer(msg))
//	// msg ownership transferred - do not use msg after this
//
//	ptr, _ := q.TryPop()
//	msg = (*Message)(ptr)
type QueuePtr interface {
	ProducerPtr
	ConsumerPtr
	Cap() int
}

// ProducerPtr pushes unsafe.Pointer values (non-blocking).
type ProducerPtr interface {
	// TryPush adds an element to the queue.
	// Returns ErrWouldBlock immediately if the queue is full.
	TryPush(elem unsafe.Pointer) error
}

// ConsumerPtr pops unsafe.Pointer values (non-blocking).
type ConsumerPtr interface {
	// TryPop removes and returns an element from the queue.
	// Returns (nil, ErrWouldBlock) immediately if the queue is empty.
	TryPop() (unsafe.Pointer, error)
}

// Sized reports the current occupancy of a queue. The count is
// best-effort: accurate counts in lock-free algorithms require expensive
// cross-core synchronization, so the value may be stale the instant it
// is returned under concurrent access.
type Sized interface {
	Size() int
}

// Drainer removes every remaining element from a queue, invoking a
// callback once per element in dequeue order.
//
// Example:
//
//	prodWg.Wait()  // producers have all finished
//	q.Drain(func(v int) { fmt.Println(v) })
type Drainer[T any] interface {
	Drain(fn func(T))
}
