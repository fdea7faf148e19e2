// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"sync"
	"unsafe"
)

// waitTable is the OS-level word wait/wake facility blocking Push and Pop
// suspend on. code.hybscloud.com/atomix and code.hybscloud.com/spin give
// atomics and spin-pause only, with no portable futex wrapper, so this
// falls back to park/unpark keyed off a small table of buckets rather
// than one OS object per slot, which would make every ring slot allocate
// a condition variable it almost never uses.
//
// Hashing many slots into few buckets means wake can broadcast to
// goroutines blocked on unrelated slots; each waiter re-checks its own
// pairing condition before returning, so these spurious wakeups are
// harmless.
const waitBuckets = 64

type waitTable struct {
	buckets [waitBuckets]waitBucket
}

type waitBucket struct {
	mu   sync.Mutex
	cond sync.Cond
}

func newWaitTable() *waitTable {
	wt := &waitTable{}
	for i := range wt.buckets {
		wt.buckets[i].cond.L = &wt.buckets[i].mu
	}
	return wt
}

func (wt *waitTable) bucket(addr unsafe.Pointer) *waitBucket {
	h := uintptr(addr) >> 4
	return &wt.buckets[h%waitBuckets]
}

// block waits until stillWaiting reports false, re-checking it each time
// this bucket is woken (by wake on this or any colliding slot).
func (wt *waitTable) block(addr unsafe.Pointer, stillWaiting func() bool) {
	b := wt.bucket(addr)
	b.mu.Lock()
	for stillWaiting() {
		b.cond.Wait()
	}
	b.mu.Unlock()
}

// wake wakes every goroutine blocked on addr's bucket.
func (wt *waitTable) wake(addr unsafe.Pointer) {
	b := wt.bucket(addr)
	b.mu.Lock()
	b.cond.Broadcast()
	b.mu.Unlock()
}
