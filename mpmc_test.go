// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq_test

import (
	"sync"
	"testing"
	"time"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/nyxforge/lfq"
)

func TestMPMCCapacityRoundsUpToPow2(t *testing.T) {
	cases := []struct{ in, want int }{
		{1, 2}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {1000, 1024}, {1024, 1024},
	}
	for _, c := range cases {
		q := lfq.NewMPMC[int](c.in)
		if got := q.Cap(); got != c.want {
			t.Errorf("NewMPMC[int](%d).Cap() = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMPMCTryPushTryPopBounded(t *testing.T) {
	q := lfq.NewMPMC[int](4)

	for i := 1; i <= 4; i++ {
		if err := q.TryPush(i); err != nil {
			t.Fatalf("TryPush(%d) = %v, want nil", i, err)
		}
	}
	if err := q.TryPush(5); !lfq.IsWouldBlock(err) {
		t.Fatalf("TryPush on full queue = %v, want ErrWouldBlock", err)
	}

	v, err := q.TryPop()
	if err != nil || v != 1 {
		t.Fatalf("TryPop() = (%d, %v), want (1, nil)", v, err)
	}

	if err := q.TryPush(5); err != nil {
		t.Fatalf("TryPush(5) after freeing a slot = %v, want nil", err)
	}

	want := []int{2, 3, 4, 5}
	var got []int
	q.Drain(func(v int) { got = append(got, v) })
	if len(got) != len(want) {
		t.Fatalf("Drain got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Drain got %v, want %v", got, want)
		}
	}

	if _, err := q.TryPop(); !lfq.IsWouldBlock(err) {
		t.Fatalf("TryPop on empty queue = %v, want ErrWouldBlock", err)
	}
}

func TestMPMCBlockingPushPop(t *testing.T) {
	q := lfq.NewMPMC[int](2)

	var wg sync.WaitGroup
	wg.Add(1)
	results := make([]int, 0, 4)
	var mu sync.Mutex
	go func() {
		defer wg.Done()
		for range 4 {
			v := q.Pop()
			mu.Lock()
			results = append(results, v)
			mu.Unlock()
		}
	}()

	for i := 1; i <= 4; i++ {
		q.Push(i)
	}
	wg.Wait()

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
}

// TestMPMCMinCapacityAlternating drives a capacity-2 queue with a single
// producer and single consumer alternating pushes and pops, the minimum
// meaningful ring size.
func TestMPMCMinCapacityAlternating(t *testing.T) {
	q := lfq.NewMPMC[int](2)
	for i := range 1000 {
		q.Push(i)
		if v := q.Pop(); v != i {
			t.Fatalf("Pop() = %d, want %d", v, i)
		}
	}
}

// TestMPMCWraparoundIdentity pushes and pops 2*capacity+1 values on a
// single producer/consumer pair, crossing the ring boundary twice, and
// verifies the identity sequence comes back out.
func TestMPMCWraparoundIdentity(t *testing.T) {
	const capacity = 16
	q := lfq.NewMPMC[int](capacity)
	n := 2*capacity + 1
	for i := range n {
		q.Push(i)
		if v := q.Pop(); v != i {
			t.Fatalf("Pop() at i=%d = %d, want %d", i, v, i)
		}
	}
}

// TestMPMCBlockingPushOrdering mirrors the blocking-push ordering
// scenario directly: two producers each push [0..itemsPerProd) via the
// blocking Push, one consumer drains via blocking Pop, and each
// producer's values come back out in its own push order.
func TestMPMCBlockingPushOrdering(t *testing.T) {
	const (
		numProducers = 2
		itemsPerProd = 10000
	)
	q := lfq.NewMPMC[int](128)
	total := numProducers * itemsPerProd

	var wg sync.WaitGroup
	for p := range numProducers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range itemsPerProd {
				q.Push(id<<32 | i)
			}
		}(p)
	}

	lastSeen := make([]int, numProducers)
	for i := range lastSeen {
		lastSeen[i] = -1
	}
	for range total {
		v := q.Pop()
		id := v >> 32
		seq := v & 0xffffffff
		if seq <= lastSeen[id] {
			t.Fatalf("producer %d: out-of-order delivery, got seq %d after %d", id, seq, lastSeen[id])
		}
		lastSeen[id] = seq
	}
	wg.Wait()
}

// TestMPMCPerProducerOrder verifies that values from a single producer
// are dequeued in the order that producer pushed them, even when many
// producers and consumers contend for the same ring concurrently. Each
// consumer's claims are in increasing ticket order, so every consumer
// must receive each producer's values in increasing push order.
func TestMPMCPerProducerOrder(t *testing.T) {
	if lfq.RaceEnabled {
		t.Skip("skip: cross-variable acquire-release ordering confuses the race detector")
	}

	const (
		numProducers = 4
		numConsumers = 4
		itemsPerProd = 5000
		timeout      = 10 * time.Second
	)

	q := lfq.NewMPMC[int](64)
	var wg sync.WaitGroup
	var produced, consumed atomix.Int64
	deadline := time.Now().Add(timeout)

	var violations atomix.Int64

	for p := range numProducers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			for i := range itemsPerProd {
				v := id<<32 | i
				for q.TryPush(v) != nil {
					if time.Now().After(deadline) {
						return
					}
					backoff.Wait()
				}
				produced.Add(1)
				backoff.Reset()
			}
		}(p)
	}

	for range numConsumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lastSeen := make([]int64, numProducers)
			for i := range lastSeen {
				lastSeen[i] = -1
			}
			backoff := iox.Backoff{}
			for consumed.Load() < int64(numProducers*itemsPerProd) {
				if time.Now().After(deadline) {
					return
				}
				v, err := q.TryPop()
				if err != nil {
					backoff.Wait()
					continue
				}
				backoff.Reset()
				id := v >> 32
				seq := int64(v & 0xffffffff)
				if seq <= lastSeen[id] {
					violations.Add(1)
				}
				lastSeen[id] = seq
				consumed.Add(1)
			}
		}()
	}

	wg.Wait()

	if got := consumed.Load(); got != int64(numProducers*itemsPerProd) {
		t.Errorf("consumed %d, want %d", got, numProducers*itemsPerProd)
	}
	if v := violations.Load(); v > 0 {
		t.Errorf("%d per-producer ordering violations", v)
	}
}

func TestMPMCSizeMonotonicUnderDrain(t *testing.T) {
	q := lfq.NewMPMC[int](16)
	for i := range 10 {
		if err := q.TryPush(i); err != nil {
			t.Fatalf("TryPush(%d) = %v", i, err)
		}
	}
	if got := q.Size(); got != 10 {
		t.Fatalf("Size() = %d, want 10", got)
	}

	prev := q.Size()
	q.Drain(func(int) {
		cur := q.Size()
		if cur > prev {
			t.Fatalf("Size() increased during Drain: %d -> %d", prev, cur)
		}
		prev = cur
	})
	if got := q.Size(); got != 0 {
		t.Fatalf("Size() after Drain = %d, want 0", got)
	}
}

func TestMPMCPtrRoundTrip(t *testing.T) {
	q := lfq.NewMPMCPtr(4)
	type payload struct{ v int }
	items := []*payload{{1}, {2}, {3}}
	for _, p := range items {
		if err := q.TryPush(unsafe.Pointer(p)); err != nil {
			t.Fatalf("TryPush = %v", err)
		}
	}
	for _, want := range items {
		got, err := q.TryPop()
		if err != nil {
			t.Fatalf("TryPop = %v", err)
		}
		if (*payload)(got) != want {
			t.Fatalf("TryPop = %v, want %v", got, want)
		}
	}
}
