// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCopyIntoBytes copies into a byte slice without moving cursors.
func TestCopyIntoBytes(t *testing.T) {
	for name, alloc := range testAllocators() {
		t.Run(name, func(t *testing.T) {
			defer alloc.Close()
			b := mustAllocate(t, alloc, 8)
			defer b.Close()
			b.PutArr8([]byte{1, 2, 3, 4, 5})

			dst := make([]byte, 6)
			require.NoError(t, b.CopyInto(1, dst, 2, 3))
			assert.Equal(t, []byte{0, 0, 2, 3, 4, 0}, dst)
			assert.Equal(t, 0, b.ReaderOffset())
			assert.Equal(t, 5, b.WriterOffset())

			assert.ErrorIs(t, b.CopyInto(6, dst, 0, 3), ErrOutOfBounds)
			assert.ErrorIs(t, b.CopyInto(0, dst, 5, 3), ErrOutOfBounds)
			assert.ErrorIs(t, b.CopyInto(0, dst, 0, -1), ErrInvalidArgument)
		})
	}
}

// TestCopyIntoBufferCrossBackend copies between heap and direct buffers.
func TestCopyIntoBufferCrossBackend(t *testing.T) {
	heap := OnHeap()
	direct := OffHeap()
	defer heap.Close()
	defer direct.Close()

	src := mustAllocate(t, heap, 8)
	defer src.Close()
	dst := mustAllocate(t, direct, 8)
	defer dst.Close()
	src.PutArr8([]byte{1, 2, 3, 4})

	require.NoError(t, src.CopyIntoBuffer(0, dst, 4, 4))
	assert.Equal(t, 0, dst.WriterOffset())
	got := make([]byte, 4)
	dst.PeekArr8(4, got)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

// TestCopyIntoSelfOverlap copies an overlapping range within one buffer.
func TestCopyIntoSelfOverlap(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 8)
	defer b.Close()
	b.PutArr8([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	require.NoError(t, b.CopyIntoBuffer(0, b, 2, 6))
	got := make([]byte, 8)
	b.PeekArr8(0, got)
	assert.Equal(t, []byte{1, 2, 1, 2, 3, 4, 5, 6}, got)
}

// TestWriteBytesCrossBackend is the end-to-end copy scenario: bytes move
// between backends with differing orders, and both cursors advance.
func TestWriteBytesCrossBackend(t *testing.T) {
	heap := OnHeap()
	direct := OffHeap()
	defer heap.Close()
	defer direct.Close()

	source := mustAllocate(t, direct, 35)
	source.SetOrder(LittleEndian)
	payload := make([]byte, 35)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	source.PutArr8(payload)

	target := mustAllocate(t, heap, 37)
	target.SetOrder(BigEndian)
	require.NoError(t, target.WriteBytes(source))

	assert.Equal(t, 0, target.ReaderOffset())
	assert.Equal(t, 35, target.WriterOffset())
	assert.Equal(t, 35, source.ReaderOffset())
	assert.Equal(t, 35, source.WriterOffset())

	view := target.ReadableSlice()
	got := make([]byte, 35)
	view.TakeArr8(got)
	assert.Equal(t, payload, got)
	require.NoError(t, view.Close())

	require.NoError(t, source.Close())
	require.NoError(t, target.Close())
}

// TestWriteBytesBounds rejects a source larger than the writable room.
func TestWriteBytesBounds(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	src := mustAllocate(t, alloc, 8)
	defer src.Close()
	dst := mustAllocate(t, alloc, 4)
	defer dst.Close()
	src.PutU64(1)

	assert.ErrorIs(t, dst.WriteBytes(src), ErrOutOfBounds)
	assert.Equal(t, 0, src.ReaderOffset())
	assert.Equal(t, 0, dst.WriterOffset())
}
