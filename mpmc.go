// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// MPMC is a bounded multi-producer multi-consumer queue over a
// machine-word-sized integer type. See mpmcCore for the algorithm.
type MPMC[T Word] struct {
	core *mpmcCore
}

// NewMPMC creates an MPMC queue. Capacity rounds up to the next power of
// two, with a minimum of 2; panics if capacity < 1.
func NewMPMC[T Word](capacity int) *MPMC[T] {
	return &MPMC[T]{core: newMPMCCore(capacity)}
}

// Push enqueues elem, blocking until a slot is available. Never fails.
func (q *MPMC[T]) Push(elem T) {
	ticket := q.core.tail.AddAcqRel(1) - 1
	q.core.publish(ticket, wordToUint64(elem))
}

// TryPush enqueues elem without blocking.
// Returns ErrWouldBlock if the queue was observed full.
func (q *MPMC[T]) TryPush(elem T) error {
	ticket, ok := q.core.claimTail()
	if !ok {
		return ErrWouldBlock
	}
	q.core.publish(ticket, wordToUint64(elem))
	return nil
}

// Pop dequeues an element, blocking until one is available.
func (q *MPMC[T]) Pop() T {
	ticket := q.core.head.AddAcqRel(1) - 1
	return uint64ToWord[T](q.core.claim(ticket))
}

// TryPop dequeues an element without blocking.
// Returns (zero-value, ErrWouldBlock) if the queue was observed empty.
func (q *MPMC[T]) TryPop() (T, error) {
	ticket, ok := q.core.claimHead()
	if !ok {
		var zero T
		return zero, ErrWouldBlock
	}
	return uint64ToWord[T](q.core.claim(ticket)), nil
}

// Size returns a best-effort current element count. Never negative; may
// transiently over-report under concurrent access.
func (q *MPMC[T]) Size() int { return q.core.size() }

// Cap returns the queue's capacity.
func (q *MPMC[T]) Cap() int { return q.core.cap() }

// Drain removes every remaining element, calling fn once per element in
// dequeue order. Call this before discarding the queue so any cleanup
// tied to T's values runs exactly once.
func (q *MPMC[T]) Drain(fn func(T)) {
	for {
		v, err := q.TryPop()
		if err != nil {
			return
		}
		if fn != nil {
			fn(v)
		}
	}
}
