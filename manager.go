// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// RecoverableMemory is a backend region unbound from any reclamation
// handle. Pooled allocators use it to rebind reusable memory to a new drop.
type RecoverableMemory struct {
	Seg  []byte
	Kind Kind
}

// MemoryManager is the per-backend engine producing and recovering raw
// memory regions. AllocateConfined and AllocateShared produce the same
// buffers in Go, which has no thread-confinement primitive; both are kept
// so allocators can state their intent.
type MemoryManager interface {
	Name() string
	AllocateShared(ctl AllocatorControl, size int) (Buffer, error)
	AllocateConfined(ctl AllocatorControl, size int) (Buffer, error)
	// UnwrapRecoverableMemory detaches an owned buffer from its current
	// drop without invoking it and returns the raw region. The buffer
	// becomes inaccessible.
	UnwrapRecoverableMemory(b Buffer) (RecoverableMemory, error)
	// RecoverMemory wraps a recovered region in a fresh owned buffer
	// enrolled with the given drop.
	RecoverMemory(ctl AllocatorControl, mem RecoverableMemory, drop Drop) Buffer
}

// HeapManager returns the memory manager of the on-heap backend.
func HeapManager() MemoryManager { return heapManager{} }

// DirectManager returns the memory manager of the off-heap backend.
func DirectManager() MemoryManager { return directManager{} }

type heapManager struct{}

func (heapManager) Name() string { return "heap" }

func (heapManager) AllocateShared(ctl AllocatorControl, size int) (Buffer, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "negative allocation size %d", size)
	}
	return newLeaf(make([]byte, size), KindHeap, ctl, NopDrop), nil
}

func (m heapManager) AllocateConfined(ctl AllocatorControl, size int) (Buffer, error) {
	return m.AllocateShared(ctl, size)
}

func (heapManager) UnwrapRecoverableMemory(b Buffer) (RecoverableMemory, error) {
	return unwrapLeaf(b, KindHeap)
}

func (heapManager) RecoverMemory(ctl AllocatorControl, mem RecoverableMemory, drop Drop) Buffer {
	if drop == nil {
		drop = NopDrop
	}
	return newLeaf(mem.Seg, KindHeap, ctl, drop)
}

type directManager struct{}

func (directManager) Name() string { return "direct" }

func (directManager) AllocateShared(ctl AllocatorControl, size int) (Buffer, error) {
	mem, err := mmapRegion(size)
	if err != nil {
		return nil, err
	}
	return newLeaf(mem.Seg, KindDirect, ctl, mem.Drop), nil
}

func (m directManager) AllocateConfined(ctl AllocatorControl, size int) (Buffer, error) {
	return m.AllocateShared(ctl, size)
}

func (directManager) UnwrapRecoverableMemory(b Buffer) (RecoverableMemory, error) {
	return unwrapLeaf(b, KindDirect)
}

func (directManager) RecoverMemory(ctl AllocatorControl, mem RecoverableMemory, drop Drop) Buffer {
	if drop == nil {
		drop = NopDrop
	}
	return newLeaf(mem.Seg, KindDirect, ctl, drop)
}

// unwrapLeaf detaches an owned leaf buffer of the expected backend from
// its drop without reclaiming the region.
func unwrapLeaf(b Buffer, kind Kind) (RecoverableMemory, error) {
	lb, ok := b.(*buf)
	if !ok || lb.kind != kind {
		return RecoverableMemory{}, errors.Wrapf(ErrInvalidArgument,
			"buffer is not a recoverable %v buffer", kind)
	}
	if lb.closed {
		return RecoverableMemory{}, errors.Wrap(ErrClosed, "cannot unwrap")
	}
	if !lb.arc.IsOwned() {
		return RecoverableMemory{}, errors.Wrap(ErrNotOwned, "cannot unwrap")
	}
	detachOwner(lb.arc, lb)
	lb.closed = true
	return RecoverableMemory{Seg: lb.seg, Kind: lb.kind}, nil
}

// mmapRegion maps an anonymous private region. Zero-size regions degrade
// to an empty heap slice since mmap rejects a zero length.
func mmapRegion(size int) (UntetheredMemory, error) {
	if size < 0 {
		return UntetheredMemory{}, errors.Wrapf(ErrInvalidArgument, "negative allocation size %d", size)
	}
	if size == 0 {
		return UntetheredMemory{Seg: []byte{}, Drop: NopDrop}, nil
	}
	seg, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return UntetheredMemory{}, errors.Wrapf(err, "mmap of %d bytes failed", size)
	}
	return UntetheredMemory{Seg: seg, Drop: DropFunc(func() { _ = unix.Munmap(seg) })}, nil
}
