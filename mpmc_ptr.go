// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "unsafe"

// MPMCPtr is a bounded multi-producer multi-consumer queue of
// unsafe.Pointer values. It shares mpmcCore with MPMC[T]; only the
// packing of a payload into the slot's 64-bit value half differs.
type MPMCPtr struct {
	core *mpmcCore
}

// NewMPMCPtr creates an MPMCPtr queue. Capacity rounds up to the next
// power of two, with a minimum of 2; panics if capacity < 1.
func NewMPMCPtr(capacity int) *MPMCPtr {
	return &MPMCPtr{core: newMPMCCore(capacity)}
}

// Push enqueues elem, blocking until a slot is available. Never fails.
func (q *MPMCPtr) Push(elem unsafe.Pointer) {
	ticket := q.core.tail.AddAcqRel(1) - 1
	q.core.publish(ticket, uint64(uintptr(elem)))
}

// TryPush enqueues elem without blocking.
// Returns ErrWouldBlock if the queue was observed full.
func (q *MPMCPtr) TryPush(elem unsafe.Pointer) error {
	ticket, ok := q.core.claimTail()
	if !ok {
		return ErrWouldBlock
	}
	q.core.publish(ticket, uint64(uintptr(elem)))
	return nil
}

// Pop dequeues an element, blocking until one is available.
func (q *MPMCPtr) Pop() unsafe.Pointer {
	ticket := q.core.head.AddAcqRel(1) - 1
	return unsafe.Pointer(uintptr(q.core.claim(ticket)))
}

// TryPop dequeues an element without blocking.
// Returns (nil, ErrWouldBlock) if the queue was observed empty.
func (q *MPMCPtr) TryPop() (unsafe.Pointer, error) {
	ticket, ok := q.core.claimHead()
	if !ok {
		return nil, ErrWouldBlock
	}
	return unsafe.Pointer(uintptr(q.core.claim(ticket))), nil
}

// Size returns a best-effort current element count.
func (q *MPMCPtr) Size() int { return q.core.size() }

// Cap returns the queue's capacity.
func (q *MPMCPtr) Cap() int { return q.core.cap() }

// Drain removes every remaining element, calling fn once per element in
// dequeue order.
func (q *MPMCPtr) Drain(fn func(unsafe.Pointer)) {
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
