// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// Config carries queue construction parameters recognized by the
// Builder. MaxSize is the only option currently recognized; callers
// that don't need a builder can go straight to NewMPMC/NewMPSC.
type Config struct {
	MaxSize int
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	q := lfq.BuildMPMC[Request](lfq.New(4096))
//	p := lfq.BuildMPMCPtr(lfq.New(4096))
type Builder struct {
	cfg Config
}

// New creates a queue builder with the given capacity.
//
// Capacity rounds up to the next power of 2. For example, capacity=4
// results in actual capacity 4, capacity=1000 results in actual
// capacity 1024. MPSC queues built from it reserve one of those slots,
// so their usable capacity is one less (3 and 1023).
//
// Panics if capacity < 1.
func New(capacity int) *Builder {
	if capacity < 1 {
		panic("lfq: capacity must be >= 1")
	}
	return &Builder{cfg: Config{MaxSize: capacity}}
}

// NewFromConfig creates a queue builder from an explicit Config.
func NewFromConfig(cfg Config) *Builder {
	return New(cfg.MaxSize)
}

// BuildMPMC creates an MPMC[T] queue from the builder's capacity.
func BuildMPMC[T Word](b *Builder) *MPMC[T] {
	return NewMPMC[T](b.cfg.MaxSize)
}

// BuildMPSC creates an MPSC[T] queue from the builder's capacity.
func BuildMPSC[T Word](b *Builder) *MPSC[T] {
	return NewMPSC[T](b.cfg.MaxSize)
}

// BuildMPMCPtr creates an MPMCPtr queue from the builder's capacity.
func BuildMPMCPtr(b *Builder) *MPMCPtr {
	return NewMPMCPtr(b.cfg.MaxSize)
}

// BuildMPSCPtr creates an MPSCPtr queue from the builder's capacity.
func BuildMPSCPtr(b *Builder) *MPSCPtr {
	return NewMPSCPtr(b.cfg.MaxSize)
}
