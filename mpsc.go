// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// MPSC is a bounded multi-producer single-consumer queue over a
// machine-word-sized integer type. See mpscCore for the algorithm.
//
// T's zero value is reserved as the slot's empty sentinel and cannot be
// enqueued; TryPush panics if elem is the zero value.
type MPSC[T Word] struct {
	core *mpscCore
}

// NewMPSC creates an MPSC queue. Usable capacity rounds up to one less
// than the next power of 2 at or above capacity, with a ring of at least
// 2 slots (so capacity 1 gives usable capacity 1); panics if capacity < 1.
func NewMPSC[T Word](capacity int) *MPSC[T] {
	return &MPSC[T]{core: newMPSCCore(capacity)}
}

// TryPush enqueues elem without blocking.
// Returns ErrWouldBlock if the queue was observed full.
func (q *MPSC[T]) TryPush(elem T) error {
	_, err := q.TryPushSize(elem)
	return err
}

// TryPushSize behaves like TryPush but also reports the queue's size
// immediately after the push succeeded. On failure it reports the size
// observed at the time of the failed claim.
func (q *MPSC[T]) TryPushSize(elem T) (int, error) {
	index, ok := q.core.claimSlot()
	if !ok {
		return q.core.size(), ErrWouldBlock
	}
	q.core.publish(index, wordToUint64(elem))
	return q.core.size(), nil
}

// TryPop dequeues an element without blocking. Only one goroutine may
// call TryPop/Drain on a given MPSC at a time.
// Returns (zero-value, ErrWouldBlock) if the queue was observed empty.
func (q *MPSC[T]) TryPop() (T, error) {
	v, ok := q.core.tryPop()
	if !ok {
		var zero T
		return zero, ErrWouldBlock
	}
	return uint64ToWord[T](v), nil
}

// Size returns a best-effort current element count.
func (q *MPSC[T]) Size() int { return q.core.size() }

// Cap returns the queue's usable capacity.
func (q *MPSC[T]) Cap() int { return q.core.cap() }

// Drain removes every remaining element, calling fn once per element in
// dequeue order.
func (q *MPSC[T]) Drain(fn func(T)) {
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
