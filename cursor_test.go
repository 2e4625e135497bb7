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

// TestForwardCursorWalk walks bytes and checks offsets along the way.
func TestForwardCursorWalk(t *testing.T) {
	for name, alloc := range testAllocators() {
		t.Run(name, func(t *testing.T) {
			defer alloc.Close()
			b := mustAllocate(t, alloc, 8)
			defer b.Close()
			b.PutArr8([]byte{1, 2, 3})

			cur := b.OpenCursor(b.ReaderOffset(), b.ReadableBytes())
			assert.Equal(t, 0, cur.CurrentOffset())
			assert.Equal(t, 3, cur.BytesLeft())

			var got []byte
			for cur.ReadByte() {
				got = append(got, cur.Byte())
			}
			assert.Equal(t, []byte{1, 2, 3}, got)
			assert.Equal(t, 3, cur.CurrentOffset())
			assert.Equal(t, 0, cur.BytesLeft())
			assert.False(t, cur.ReadByte())

			// Cursors never move the buffer's own cursors.
			assert.Equal(t, 0, b.ReaderOffset())
		})
	}
}

// TestCursorUint64RoundTrip is the write-then-walk property: a big-endian
// PutU64 reads back bit-exact through a forward cursor.
func TestCursorUint64RoundTrip(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 8)
	defer b.Close()
	b.SetOrder(BigEndian)
	b.PutU64(0x0102030405060708)

	cur := b.OpenCursor(0, 8)
	require.True(t, cur.ReadUint64())
	assert.Equal(t, uint64(0x0102030405060708), cur.Uint64())
	assert.False(t, cur.ReadUint64())
	assert.Equal(t, 0, cur.BytesLeft())
}

// TestCursorIgnoresBufferOrder pins the cursor to big-endian decoding
// regardless of the buffer's order setting.
func TestCursorIgnoresBufferOrder(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 8)
	defer b.Close()
	b.SetOrder(LittleEndian)
	b.PutU64(0x0102030405060708)

	cur := b.OpenCursor(0, 8)
	require.True(t, cur.ReadUint64())
	assert.Equal(t, uint64(0x0807060504030201), cur.Uint64())
}

// TestReverseCursorWalk walks backward over memory.
func TestReverseCursorWalk(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 8)
	defer b.Close()
	b.PutArr8([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	cur := b.OpenReverseCursor(7, 8)
	assert.Equal(t, 7, cur.CurrentOffset())
	assert.Equal(t, 8, cur.BytesLeft())

	var got []byte
	for cur.ReadByte() {
		got = append(got, cur.Byte())
	}
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, got)
	assert.False(t, cur.ReadByte())
}

// TestReverseCursorUint64 decodes the walked bytes as the mirror image of
// the forward decoding.
func TestReverseCursorUint64(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 8)
	defer b.Close()
	b.PutArr8([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	cur := b.OpenReverseCursor(7, 8)
	require.True(t, cur.ReadUint64())
	assert.Equal(t, uint64(0x0102030405060708), cur.Uint64())
	assert.Equal(t, 0, cur.BytesLeft())
	assert.False(t, cur.ReadUint64())
}

// TestCursorRangeValidation rejects invalid ranges.
func TestCursorRangeValidation(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 8)
	defer b.Close()

	assertPanicsIs(t, ErrOutOfBounds, func() { b.OpenCursor(-1, 4) })
	assertPanicsIs(t, ErrOutOfBounds, func() { b.OpenCursor(4, 5) })
	assertPanicsIs(t, ErrOutOfBounds, func() { b.OpenReverseCursor(8, 1) })
	assertPanicsIs(t, ErrOutOfBounds, func() { b.OpenReverseCursor(3, 5) })
}
