// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfq provides bounded lock-free FIFO queues for values that fit
// in a machine word.
//
// Two algorithms are provided:
//
//   - MPMC: multi-producer multi-consumer, blocking and non-blocking ops
//   - MPSC: multi-producer single-consumer, non-blocking ops only
//
// Each comes in a generic [Word]-constrained variant (MPMC[T], MPSC[T])
// and an unsafe.Pointer variant (MPMCPtr, MPSCPtr) for zero-copy passing
// of larger values.
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	q := lfq.NewMPMC[int](4096)
//	q := lfq.NewMPSC[uint64](1024)
//
// Builder API for call sites that want a single Config value threaded
// through construction:
//
//	q := lfq.BuildMPMC[int](lfq.New(4096))
//	p := lfq.BuildMPSCPtr(lfq.New(1024))
//
// # Basic Usage
//
//	q := lfq.NewMPMC[int](1024)
//
//	// blocking: never fails, suspends the caller until room/data exists
//	q.Push(42)
//	v := q.Pop()
//
//	// non-blocking: returns immediately
//	if err := q.TryPush(42); lfq.IsWouldBlock(err) {
//	    // queue full - handle backpressure
//	}
//	v, err := q.TryPop()
//	if lfq.IsWouldBlock(err) {
//	    // queue empty - try again later
//	}
//
// MPSC only exposes the non-blocking forms: TryPush/TryPop.
//
// # Common Patterns
//
// Event Aggregation (MPSC):
//
//	// Multiple event sources → Single processor
//	q := lfq.NewMPSC[uint64](4096)
//
//	for _, s := range sensors {
//	    go func(s Sensor) {
//	        backoff := iox.Backoff{}
//	        for ev := range s.Events() {
//	            for q.TryPush(ev) != nil {
//	                backoff.Wait()
//	            }
//	            backoff.Reset()
//	        }
//	    }(s)
//	}
//
//	go func() { // single consumer (aggregator)
//	    backoff := iox.Backoff{}
//	    for {
//	        ev, err := q.TryPop()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        aggregate(ev)
//	    }
//	}()
//
// Worker Pool (MPMC):
//
//	// Multiple submitters → Multiple workers, blocking throughout
//	q := lfq.NewMPMC[uintptr](4096)
//
//	for range numWorkers {
//	    go func() {
//	        for {
//	            job := q.Pop()
//	            run(job)
//	        }
//	    }()
//	}
//
//	func Submit(job uintptr) { q.Push(job) }
//
// # Pointer Variants
//
// MPMCPtr and MPSCPtr pass unsafe.Pointer directly, for zero-copy
// transfer of values larger than a machine word:
//
//	type Message struct{ Data []byte }
//
//	q := lfq.NewMPMCPtr(1024)
//
//	msg := &Message{Data: payload}
//	q.Push(unsafe.Pointer(msg))
//	// ownership transferred - do not touch msg again
//
//	ptr := q.Pop()
//	msg = (*Message)(ptr)
//
// # Error Handling
//
// Non-blocking operations return [ErrWouldBlock] when they cannot
// proceed. This error is sourced from [code.hybscloud.com/iox] for
// ecosystem consistency.
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.TryPush(item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !lfq.IsWouldBlock(err) {
//	        return err // unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	lfq.IsWouldBlock(err)  // true if queue full/empty
//	lfq.IsSemantic(err)    // true if control flow signal
//	lfq.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// # Capacity
//
// MPMC capacity rounds up to the next power of 2 and is the exact usable
// capacity:
//
//	q := lfq.NewMPMC[int](3)     // usable capacity: 4
//	q := lfq.NewMPMC[int](1000)  // usable capacity: 1024
//
// MPSC reserves one ring slot to distinguish full from empty, so usable
// capacity is one less than the next power of 2 at or above the
// requested capacity (the ring has at least 2 physical slots):
//
//	q := lfq.NewMPSC[int](1)  // usable capacity: 1 (2 physical slots)
//	q := lfq.NewMPSC[int](7)  // usable capacity: 7 (8 physical slots)
//	q := lfq.NewMPSC[int](8)  // usable capacity: 7 (8 physical slots)
//	q := lfq.NewMPSC[int](9)  // usable capacity: 15 (16 physical slots)
//
// Cap() always reports the usable capacity.
//
// # Zero Values
//
// MPSC reserves T's zero value as the ring's empty-slot sentinel.
// TryPush panics if elem is the zero value; MPMC has no such
// restriction since its slots carry an explicit state tag alongside the
// value.
//
// # Thread Safety
//
//   - MPMC: multiple producer and consumer goroutines
//   - MPSC: multiple producer goroutines, one consumer goroutine — only
//     one goroutine may call TryPop/Drain on a given MPSC at a time
//
// Violating these constraints causes undefined behavior including data
// corruption and races.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm
// verification. It tracks explicit synchronization primitives (mutex,
// channels, WaitGroup) but cannot observe happens-before relationships
// established through atomic memory orderings (acquire-release
// semantics) on separate variables.
//
// Both queues use acquire-release atomics to protect non-atomic data
// fields. The algorithms are correct, but the race detector may report
// false positives on the value half of a published slot. Tests that
// would trip this skip themselves at run time when [RaceEnabled] is
// true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering (including 128-bit CAS for the MPMC ring), and
// [code.hybscloud.com/spin] for CPU pause instructions during the
// bounded spin phase of a blocking Push/Pop.
package lfq
