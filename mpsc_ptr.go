// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "unsafe"

// MPSCPtr is a bounded multi-producer single-consumer queue of
// unsafe.Pointer values. It shares mpscCore with MPSC[T]; nil cannot be
// enqueued since the zero bit pattern is the slot's empty sentinel.
type MPSCPtr struct {
	core *mpscCore
}

// NewMPSCPtr creates an MPSCPtr queue. Usable capacity rounds up to one
// less than the next power of 2 at or above capacity, with a ring of at
// least 2 slots (so capacity 1 gives usable capacity 1); panics if
// capacity < 1.
func NewMPSCPtr(capacity int) *MPSCPtr {
	return &MPSCPtr{core: newMPSCCore(capacity)}
}

// TryPush enqueues elem without blocking.
// Returns ErrWouldBlock if the queue was observed full.
func (q *MPSCPtr) TryPush(elem unsafe.Pointer) error {
	index, ok := q.core.claimSlot()
	if !ok {
		return ErrWouldBlock
	}
	q.core.publish(index, uint64(uintptr(elem)))
	return nil
}

// TryPop dequeues an element without blocking. Only one goroutine may
// call TryPop/Drain on a given MPSCPtr at a time.
// Returns (nil, ErrWouldBlock) if the queue was observed empty.
func (q *MPSCPtr) TryPop() (unsafe.Pointer, error) {
	v, ok := q.core.tryPop()
	if !ok {
		return nil, ErrWouldBlock
	}
	return unsafe.Pointer(uintptr(v)), nil
}

// Size returns a best-effort current element count.
func (q *MPSCPtr) Size() int { return q.core.size() }

// Cap returns the queue's usable capacity.
func (q *MPSCPtr) Cap() int { return q.core.cap() }

// Drain removes every remaining element, calling fn once per element in
// dequeue order.
func (q *MPSCPtr) Drain(fn func(unsafe.Pointer)) {
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
