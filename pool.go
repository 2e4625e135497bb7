// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
)

// pooledHeapAllocator leases backing regions from a byte-buffer pool. The
// reclamation handle of every buffer returns its region to the pool, so
// steady-state allocation stops producing garbage.
type pooledHeapAllocator struct {
	opts      allocOptions
	pool      bytebufferpool.Pool
	suppliers supplierRegistry
	closed    atomic.Bool
}

// PooledOnHeap returns a pooled allocator of on-heap buffers.
func PooledOnHeap(opts ...Option) Allocator {
	return &pooledHeapAllocator{opts: applyOptions(opts)}
}

// lease obtains a zeroed region of the given size from the pool together
// with the drop that returns it.
func (a *pooledHeapAllocator) lease(size int) (UntetheredMemory, error) {
	if size < 0 {
		return UntetheredMemory{}, errors.Wrapf(ErrInvalidArgument, "negative allocation size %d", size)
	}
	bb := a.pool.Get()
	if cap(bb.B) < size {
		bb.B = make([]byte, size)
	} else {
		bb.B = bb.B[:size]
		clear(bb.B)
	}
	seg := bb.B
	lg := a.opts.logger
	drop := DropFunc(func() {
		a.pool.Put(bb)
		lg.Debug("returned region to pool", zap.Int("capacity", size))
	})
	return UntetheredMemory{Seg: seg, Drop: drop}, nil
}

func (a *pooledHeapAllocator) Allocate(size int) (Buffer, error) {
	if a.closed.Load() {
		return nil, errors.Wrap(ErrClosed, "allocator is closed")
	}
	mem, err := a.lease(size)
	if err != nil {
		return nil, err
	}
	b := newLeaf(mem.Seg, KindHeap, a, mem.Drop)
	traceLeak(a.opts, b)
	return b, nil
}

func (a *pooledHeapAllocator) ConstBufferSupplier(data []byte) (func() Buffer, error) {
	if a.closed.Load() {
		return nil, errors.Wrap(ErrClosed, "allocator is closed")
	}
	return constSupplier(&a.suppliers, data, KindHeap, a)
}

func (a *pooledHeapAllocator) AllocateUntethered(origin Buffer, size int) (UntetheredMemory, error) {
	return a.lease(size)
}

func (a *pooledHeapAllocator) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	a.suppliers.release()
	return nil
}
