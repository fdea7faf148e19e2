// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "code.hybscloud.com/atomix"

// mpscCore is a bounded multi-producer single-consumer ring.
//
// Producers reserve a slot by CAS-incrementing a packed head/tail counter
// (low 32 bits = consumer's read position, high 32 bits = the next free
// write position), then publish by a CAS from the slot's zero sentinel
// to the encoded value, retrying until any previous occupant has been
// cleared. Since there is exactly one consumer, Pop needs no claim step
// on the slot itself: it reads its own head position directly. But head
// and tail share one packed word, so advancing head after a pop still
// has to go through a CAS against the current word, preserving whatever
// tail half producers have concurrently advanced to.
//
// Both TryPush and TryPop are pure spin-on-CAS: there is no blocking
// path and nothing ever parks, so there is no wait table here.
//
// One slot is always left unused so a full ring (tail caught up to
// head+capacity) is distinguishable from an empty one, giving an
// effective capacity of bufSize-1.
type mpscCore struct {
	_        pad
	headTail atomix.Uint64 // low32 = head (consumer), high32 = tail (producers)
	_        pad
	slots    []atomix.Uint64
	mask     uint32
	bufSize  uint32
}

func mpscPack(head, tail uint32) uint64 {
	return uint64(head) | uint64(tail)<<32
}

func mpscUnpack(v uint64) (head, tail uint32) {
	return uint32(v), uint32(v >> 32)
}

func newMPSCCore(capacity int) *mpscCore {
	if capacity < 1 {
		panic("lfq: capacity must be >= 1")
	}
	n := uint32(roundToPow2(capacity))

	c := &mpscCore{
		slots:   make([]atomix.Uint64, n),
		mask:    n - 1,
		bufSize: n,
	}
	return c
}

func (c *mpscCore) cap() int { return int(c.bufSize) - 1 }

func (c *mpscCore) size() int {
	head, tail := mpscUnpack(c.headTail.LoadAcquire())
	d := int32(tail - head)
	if d < 0 {
		d += int32(c.bufSize)
	}
	return int(d)
}

// claimSlot reserves the next free write position for a producer,
// failing if the ring is observed full.
func (c *mpscCore) claimSlot() (uint32, bool) {
	for {
		ht := c.headTail.LoadAcquire()
		head, tail := mpscUnpack(ht)
		if tail-head >= c.bufSize-1 {
			return 0, false
		}
		if c.headTail.CompareAndSwapAcqRel(ht, mpscPack(head, tail+1)) {
			return tail & c.mask, true
		}
	}
}

// publish writes valueBits into slot index. valueBits must never be
// zero: zero is the slot's empty sentinel.
//
// The reserved capacity gap (bufSize-1 usable slots out of bufSize)
// means the consumer will always have cleared this slot's previous
// occupant before a producer can claim it again, but the rendezvous is
// still expressed as the CAS the claim/publish split calls for rather
// than assumed from that gap.
func (c *mpscCore) publish(index uint32, valueBits uint64) {
	if valueBits == 0 {
		panic("lfq: mpsc cannot carry a zero-bit value")
	}
	slot := &c.slots[index]
	for !slot.CompareAndSwapAcqRel(0, valueBits) {
	}
}

// tryPop removes the element at the consumer's current head position,
// failing if no producer has published there yet.
func (c *mpscCore) tryPop() (uint64, bool) {
	for {
		ht := c.headTail.LoadAcquire()
		head, tail := mpscUnpack(ht)
		if head == tail {
			return 0, false
		}
		slot := &c.slots[head&c.mask]
		v := slot.LoadAcquire()
		if v == 0 {
			// a producer claimed the slot but hasn't published yet
			return 0, false
		}
		// headTail is one word shared with producers CASing the tail
		// half; a blind store here would clobber any tail advance that
		// happened since the load above, so the head advance itself
		// must go through CAS against the word just read.
		if !c.headTail.CompareAndSwapAcqRel(ht, mpscPack(head+1, tail)) {
			continue
		}
		slot.StoreRelease(0)
		return v, true
	}
}
