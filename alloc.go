// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Allocator produces fresh buffers. Implementations differ in backing
// memory (on-heap, off-heap) and in pooling strategy, but every buffer they
// hand out follows the same ownership contract.
type Allocator interface {
	// Allocate returns a fresh writable owned buffer of the given capacity.
	Allocate(size int) (Buffer, error)
	// ConstBufferSupplier snapshots data and returns a factory of read-only
	// const-view buffers over the shared snapshot. Every call to the
	// factory yields an independently owned handle.
	ConstBufferSupplier(data []byte) (func() Buffer, error)
	// Close releases allocator resources. Buffers already handed out stay
	// valid until their own close.
	Close() error
}

// AllocatorControl lets a buffer ask its originating allocator for more
// memory without knowing the allocator's identity.
type AllocatorControl interface {
	// AllocateUntethered returns a raw region of the given size that is not
	// yet enrolled with any reclamation. Growth installs it together with
	// the returned Drop.
	AllocateUntethered(origin Buffer, size int) (UntetheredMemory, error)
}

// UntetheredMemory is a raw backend region plus the handle that reclaims it.
type UntetheredMemory struct {
	Seg  []byte
	Drop Drop
}

// Option configures an allocator.
type Option func(o *allocOptions)

type allocOptions struct {
	logger        *zap.Logger
	leakDetection bool
}

var defaultAllocOptions = allocOptions{logger: zap.NewNop()}

// WithLogger directs allocator diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *allocOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLeakDetection attaches a finalizer to every allocated buffer that
// reports and reclaims buffers garbage-collected while still accessible.
func WithLeakDetection(enable bool) Option {
	return func(o *allocOptions) { o.leakDetection = enable }
}

func applyOptions(opts []Option) allocOptions {
	o := defaultAllocOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// traceLeak arms leak detection on b when the allocator asks for it.
func traceLeak(o allocOptions, b *buf) {
	if !o.leakDetection {
		return
	}
	b.leak = true
	lg := o.logger
	runtime.SetFinalizer(b, func(x *buf) {
		if !x.closed {
			lg.Warn("buffer leaked; reclaiming",
				zap.Int("capacity", x.Capacity()),
				zap.Stringer("kind", x.kind))
			_ = x.Close()
		}
	})
}

// constSupplier builds the shared-snapshot factory used by every allocator
// flavor. Each handle carries its own count over the snapshot region, so
// const-view buffers can be split and sent independently.
func constSupplier(a *supplierRegistry, data []byte, kind Kind, ctl AllocatorControl) (func() Buffer, error) {
	if data == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil const buffer data")
	}
	snapshot := make([]byte, len(data))
	copy(snapshot, data)
	region := ShareDrop(NopDrop)
	a.track(region)
	return func() Buffer {
		if err := region.Acquire(); err != nil {
			panic(err)
		}
		h := newLeaf(snapshot, kind, ctl, DropFunc(region.Drop))
		h.woff = len(snapshot)
		h.readOnly = true
		h.constView = true
		return h
	}, nil
}

// supplierRegistry remembers const-supplier regions so allocator close can
// release its arc over each.
type supplierRegistry struct {
	mu      sync.Mutex
	regions []*SharedDrop
}

func (r *supplierRegistry) track(region *SharedDrop) {
	r.mu.Lock()
	r.regions = append(r.regions, region)
	r.mu.Unlock()
}

func (r *supplierRegistry) release() {
	r.mu.Lock()
	regions := r.regions
	r.regions = nil
	r.mu.Unlock()
	for _, region := range regions {
		region.Drop()
	}
}

// heapAllocator produces unpooled on-heap buffers. Reclamation is the
// garbage collector's job, so the reclamation handle is a no-op.
type heapAllocator struct {
	opts      allocOptions
	mgr       MemoryManager
	suppliers supplierRegistry
	closed    atomic.Bool
}

// OnHeap returns an unpooled allocator of on-heap buffers.
func OnHeap(opts ...Option) Allocator {
	return &heapAllocator{opts: applyOptions(opts), mgr: HeapManager()}
}

func (a *heapAllocator) Allocate(size int) (Buffer, error) {
	if a.closed.Load() {
		return nil, errors.Wrap(ErrClosed, "allocator is closed")
	}
	b, err := a.mgr.AllocateShared(a, size)
	if err != nil {
		return nil, err
	}
	traceLeak(a.opts, b.(*buf))
	return b, nil
}

func (a *heapAllocator) ConstBufferSupplier(data []byte) (func() Buffer, error) {
	if a.closed.Load() {
		return nil, errors.Wrap(ErrClosed, "allocator is closed")
	}
	return constSupplier(&a.suppliers, data, KindHeap, a)
}

func (a *heapAllocator) AllocateUntethered(origin Buffer, size int) (UntetheredMemory, error) {
	if size < 0 {
		return UntetheredMemory{}, errors.Wrapf(ErrInvalidArgument, "negative allocation size %d", size)
	}
	return UntetheredMemory{Seg: make([]byte, size), Drop: NopDrop}, nil
}

func (a *heapAllocator) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	a.suppliers.release()
	return nil
}

// directAllocator produces unpooled off-heap buffers backed by anonymous
// memory mappings.
type directAllocator struct {
	opts      allocOptions
	mgr       MemoryManager
	suppliers supplierRegistry
	closed    atomic.Bool
}

// OffHeap returns an unpooled allocator of off-heap buffers.
func OffHeap(opts ...Option) Allocator {
	return &directAllocator{opts: applyOptions(opts), mgr: DirectManager()}
}

func (a *directAllocator) Allocate(size int) (Buffer, error) {
	if a.closed.Load() {
		return nil, errors.Wrap(ErrClosed, "allocator is closed")
	}
	b, err := a.mgr.AllocateShared(a, size)
	if err != nil {
		return nil, err
	}
	traceLeak(a.opts, b.(*buf))
	return b, nil
}

func (a *directAllocator) ConstBufferSupplier(data []byte) (func() Buffer, error) {
	if a.closed.Load() {
		return nil, errors.Wrap(ErrClosed, "allocator is closed")
	}
	// Const snapshots are read-shared and never grown, so they live on the
	// heap even for the off-heap allocator.
	return constSupplier(&a.suppliers, data, KindHeap, a)
}

func (a *directAllocator) AllocateUntethered(origin Buffer, size int) (UntetheredMemory, error) {
	return mmapRegion(size)
}

func (a *directAllocator) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	a.suppliers.release()
	return nil
}
