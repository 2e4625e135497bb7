// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestMemoryManagers exercises both backend engines directly.
func TestMemoryManagers(t *testing.T) {
	for _, mgr := range []MemoryManager{HeapManager(), DirectManager()} {
		t.Run(mgr.Name(), func(t *testing.T) {
			b, err := mgr.AllocateShared(nil, 8)
			require.NoError(t, err)
			assert.Equal(t, 8, b.Capacity())
			assert.True(t, b.IsOwned())

			confined, err := mgr.AllocateConfined(nil, 4)
			require.NoError(t, err)
			require.NoError(t, confined.Close())

			_, err = mgr.AllocateShared(nil, -1)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			b.PutU32(0xCAFEBABE)
			require.NoError(t, b.Close())
		})
	}
}

// TestUnwrapAndRecoverMemory unbinds a region from its drop and rebinds
// the same memory to a new one, the pooled-allocator reuse path.
func TestUnwrapAndRecoverMemory(t *testing.T) {
	mgr := HeapManager()
	b, err := mgr.AllocateShared(nil, 8)
	require.NoError(t, err)
	b.PutU32(7)

	rec, err := mgr.UnwrapRecoverableMemory(b)
	require.NoError(t, err)
	assert.Equal(t, KindHeap, rec.Kind)
	assert.Len(t, rec.Seg, 8)
	assert.False(t, b.IsAccessible())

	var dropped bool
	nb := mgr.RecoverMemory(nil, rec, DropFunc(func() { dropped = true }))
	assert.Equal(t, 8, nb.Capacity())
	assert.True(t, nb.IsOwned())
	assert.Equal(t, 0, nb.WriterOffset())
	// The recovered region still holds the old bytes.
	assert.Equal(t, uint32(7), nb.PeekU32(0))

	require.NoError(t, nb.Close())
	assert.True(t, dropped)
}

// TestUnwrapRequiresOwnership refuses borrowed and closed buffers.
func TestUnwrapRequiresOwnership(t *testing.T) {
	mgr := HeapManager()
	b, err := mgr.AllocateShared(nil, 8)
	require.NoError(t, err)

	s := b.Slice(0, 4)
	_, err = mgr.UnwrapRecoverableMemory(b)
	assert.ErrorIs(t, err, ErrNotOwned)
	require.NoError(t, s.Close())

	require.NoError(t, b.Close())
	_, err = mgr.UnwrapRecoverableMemory(b)
	assert.ErrorIs(t, err, ErrClosed)
}

// TestPooledAllocatorReusesRegions closes a buffer and allocates again;
// the fresh buffer must come back zeroed no matter where its region came
// from.
func TestPooledAllocatorReusesRegions(t *testing.T) {
	alloc := PooledOnHeap(WithLogger(zaptest.NewLogger(t)))
	defer alloc.Close()

	b := mustAllocate(t, alloc, 32)
	b.Fill(0xFF)
	require.NoError(t, b.Close())

	b2 := mustAllocate(t, alloc, 32)
	defer b2.Close()
	for i := 0; i < 32; i++ {
		assert.Equal(t, uint8(0), b2.PeekU8(i))
	}
	assert.True(t, b2.IsOwned())
}

// TestPooledGrowth grows a pooled buffer through its allocator control.
func TestPooledGrowth(t *testing.T) {
	alloc := PooledOnHeap()
	defer alloc.Close()

	b := mustAllocate(t, alloc, 8)
	defer b.Close()
	b.PutU64(42)
	require.NoError(t, b.EnsureWritable(8, 0, false))
	assert.GreaterOrEqual(t, b.Capacity(), 16)
	assert.Equal(t, uint64(42), b.TakeU64())
}

// TestLeakDetectionOption arms the finalizer path without disturbing the
// normal lifecycle.
func TestLeakDetectionOption(t *testing.T) {
	alloc := OnHeap(WithLogger(zaptest.NewLogger(t)), WithLeakDetection(true))
	defer alloc.Close()

	b := mustAllocate(t, alloc, 8)
	b.PutU32(1)
	assert.Equal(t, uint32(1), b.TakeU32())
	require.NoError(t, b.Close())
	assert.NoError(t, b.Close())
}

// TestAllocateUntethered returns raw regions not yet enrolled anywhere.
func TestAllocateUntethered(t *testing.T) {
	for name, alloc := range testAllocators() {
		t.Run(name, func(t *testing.T) {
			defer alloc.Close()
			ctl, ok := alloc.(AllocatorControl)
			require.True(t, ok)

			mem, err := ctl.AllocateUntethered(nil, 16)
			require.NoError(t, err)
			assert.Len(t, mem.Seg, 16)
			require.NotNil(t, mem.Drop)
			mem.Drop.Drop()

			_, err = ctl.AllocateUntethered(nil, -1)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

// TestConstSupplierAfterAllocatorClose releases the shared snapshot once
// the allocator and all handles are gone.
func TestConstSupplierAfterAllocatorClose(t *testing.T) {
	alloc := OnHeap()
	supplier, err := alloc.ConstBufferSupplier([]byte{1, 2})
	require.NoError(t, err)

	b := supplier()
	require.NoError(t, alloc.Close())

	// An outstanding handle keeps the snapshot alive.
	assert.Equal(t, uint8(1), b.TakeU8())
	two := supplier()
	assert.Equal(t, uint8(1), two.PeekU8(0))
	require.NoError(t, two.Close())
	require.NoError(t, b.Close())

	// With the allocator closed and every handle gone, the snapshot region
	// is terminal.
	assertPanicsIs(t, ErrClosed, func() { supplier() })
}
