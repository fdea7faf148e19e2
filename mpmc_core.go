// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMC is a ticket-ring multi-producer multi-consumer bounded queue.
//
// Each operation first claims a monotonically increasing tag by atomic
// fetch-add (blocking Push/Pop) or bounded CAS (TryPush/TryPop) on the
// head or tail counter, then rendezvouses with its counterparty on the
// one ring slot that ticket owns. The per-slot cell packs a 64-bit claim
// tag and a 64-bit value into a single atomix.Uint128, so the producer's
// publish and the consumer's take are each a single atomic operation.
//
// The tag's top two bits are role/coordination flags; the remaining 62
// bits are a lap-counted sequence number. A producer holding ticket p may
// only write once the slot shows the tag paired one lap behind p; a
// consumer holding ticket c may only read once the slot shows the
// producer's tag at c's own lap. This "previous paired tag" relation is
// what makes the design ABA-safe without a generation counter per element:
// a slot at sequence s can never be confused with the same slot at
// sequence s+capacity, because their tags differ.
//
// Memory: capacity slots, 64 bytes each (a 16-byte cell padded out to a
// cache line).
type mpmcSlot struct {
	entry atomix.Uint128 // lo = tag, hi = value bits
	_     padShort
}

const (
	mpmcConsumerBit = uint64(1) << 63
	mpmcWaiterBit   = uint64(1) << 62
	mpmcSeqMask     = mpmcWaiterBit - 1
)

// mpmcSpinLimit bounds the busy-spin phase before a blocked Push/Pop
// commits to an OS-level wait. Chosen to keep short-lived contention
// (the common case: a counterparty is a few instructions from publishing)
// off the wait table entirely.
const mpmcSpinLimit = 64

// mpmcCore holds the fields shared by every MPMC instantiation (MPMC[T]
// and MPMCPtr); the generic and pointer wrappers differ only in how a
// payload is packed into/out of the slot's 64-bit value half.
type mpmcCore struct {
	_        pad
	tail     atomix.Uint64 // producer ticket counter
	_        pad
	head     atomix.Uint64 // consumer ticket counter
	_        pad
	buffer   []mpmcSlot
	capacity uint64
	mask     uint64
	waiters  *waitTable
}

func newMPMCCore(capacity int) *mpmcCore {
	if capacity < 1 {
		panic("lfq: capacity must be >= 1")
	}
	n := uint64(roundToPow2(capacity))

	c := &mpmcCore{
		buffer:   make([]mpmcSlot, n),
		capacity: n,
		mask:     n - 1,
		waiters:  newWaitTable(),
	}
	// Head and tail start one full lap ahead so the first pass needs no
	// special-casing: ticket n+i computes prevVal = i, matching the seed
	// below.
	c.tail.StoreRelaxed(n)
	c.head.StoreRelaxed(n)
	for i := uint64(0); i < n; i++ {
		c.buffer[i].entry.StoreRelaxed(i, 0)
	}
	return c
}

func (c *mpmcCore) size() int {
	// Load head before tail: the only ordering that keeps size() from
	// ever going negative, though it may transiently over-report by one
	// under races.
	head := c.head.LoadAcquire()
	tail := c.tail.LoadAcquire()
	d := tail - head
	if int64(d) < 0 {
		return 0
	}
	return int(d)
}

func (c *mpmcCore) cap() int { return int(c.capacity) }

// claimTail reserves the next ticket for a non-blocking push, failing if
// doing so would exceed capacity as currently observed.
func (c *mpmcCore) claimTail() (uint64, bool) {
	head := c.head.LoadAcquire()
	for {
		tail := c.tail.LoadAcquire()
		if tail >= head+c.capacity {
			return 0, false
		}
		if c.tail.CompareAndSwapAcqRel(tail, tail+1) {
			return tail, true
		}
		head = c.head.LoadAcquire()
	}
}

// claimHead reserves the next ticket for a non-blocking pop, failing if
// the queue is observed empty.
func (c *mpmcCore) claimHead() (uint64, bool) {
	for {
		tail := c.tail.LoadAcquire()
		head := c.head.LoadAcquire()
		if head >= tail {
			return 0, false
		}
		if c.head.CompareAndSwapAcqRel(head, head+1) {
			return head, true
		}
	}
}

// publish performs the producer-side rendezvous for ticket, writing
// valueBits into the slot it owns. Used by both Push and TryPush — the
// two differ only in how the ticket was obtained.
func (c *mpmcCore) publish(ticket uint64, valueBits uint64) {
	slot := &c.buffer[ticket&c.mask]
	prev := ticket - c.capacity
	expected := prev & mpmcSeqMask // AwaitProducer(prev): C=0

	sw := spin.Wait{}
	spins := 0
	for {
		lo, hi := slot.entry.LoadAcquire()
		if lo&^mpmcWaiterBit == expected {
			newLo := expected | mpmcConsumerBit // Full(prev): C=1
			if slot.entry.CompareAndSwapAcqRel(lo, hi, newLo, valueBits) {
				if lo&mpmcWaiterBit != 0 {
					c.waiters.wake(unsafe.Pointer(slot))
				}
				return
			}
			continue
		}
		if spins < mpmcSpinLimit {
			spins++
			sw.Once()
			continue
		}
		if slot.entry.CompareAndSwapAcqRel(lo, hi, lo|mpmcWaiterBit, hi) {
			c.waiters.block(unsafe.Pointer(slot), func() bool {
				l, _ := slot.entry.LoadAcquire()
				return l&^mpmcWaiterBit != expected
			})
		}
		spins = 0
	}
}

// claim performs the consumer-side rendezvous for ticket, returning the
// value bits the matching producer published.
func (c *mpmcCore) claim(ticket uint64) uint64 {
	slot := &c.buffer[ticket&c.mask]
	prev := ticket - c.capacity
	expected := prev&mpmcSeqMask | mpmcConsumerBit // Full(prev): C=1

	sw := spin.Wait{}
	spins := 0
	for {
		lo, hi := slot.entry.LoadAcquire()
		if lo&^mpmcWaiterBit == expected {
			newLo := ticket & mpmcSeqMask // AwaitProducer(prev+capacity): C=0
			if slot.entry.CompareAndSwapAcqRel(lo, hi, newLo, 0) {
				if lo&mpmcWaiterBit != 0 {
					c.waiters.wake(unsafe.Pointer(slot))
				}
				return hi
			}
			continue
		}
		if spins < mpmcSpinLimit {
			spins++
			sw.Once()
			continue
		}
		if slot.entry.CompareAndSwapAcqRel(lo, hi, lo|mpmcWaiterBit, hi) {
			c.waiters.block(unsafe.Pointer(slot), func() bool {
				l, _ := slot.entry.LoadAcquire()
				return l&^mpmcWaiterBit != expected
			})
		}
		spins = 0
	}
}
