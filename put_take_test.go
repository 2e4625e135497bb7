// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPutTakeRoundTrip writes one value of every width and reads it back,
// on every backend.
func TestPutTakeRoundTrip(t *testing.T) {
	for name, alloc := range testAllocators() {
		t.Run(name, func(t *testing.T) {
			defer alloc.Close()
			b := mustAllocate(t, alloc, 64)
			defer b.Close()
			b.SetOrder(BigEndian)

			b.PutU8(0xFE)
			b.PutI8(-2)
			b.PutU16(0xBEEF)
			b.PutI16(-2)
			b.PutU24(0xABCDEF)
			b.PutI24(-2)
			b.PutU32(0xDEADBEEF)
			b.PutI32(-2)
			b.PutU64(0x0102030405060708)
			b.PutI64(-2)
			b.PutF32(3.5)
			b.PutF64(-2.25)
			b.PutChar('宝')

			assert.Equal(t, 1+1+2+2+3+3+4+4+8+8+4+8+2, b.WriterOffset())

			assert.Equal(t, uint8(0xFE), b.TakeU8())
			assert.Equal(t, int8(-2), b.TakeI8())
			assert.Equal(t, uint16(0xBEEF), b.TakeU16())
			assert.Equal(t, int16(-2), b.TakeI16())
			assert.Equal(t, uint32(0xABCDEF), b.TakeU24())
			assert.Equal(t, int32(-2), b.TakeI24())
			assert.Equal(t, uint32(0xDEADBEEF), b.TakeU32())
			assert.Equal(t, int32(-2), b.TakeI32())
			assert.Equal(t, uint64(0x0102030405060708), b.TakeU64())
			assert.Equal(t, int64(-2), b.TakeI64())
			assert.Equal(t, float32(3.5), b.TakeF32())
			assert.Equal(t, -2.25, b.TakeF64())
			assert.Equal(t, '宝', b.TakeChar())
			assert.Equal(t, b.WriterOffset(), b.ReaderOffset())
		})
	}
}

// TestMediumLayout pins the byte layout of the 3-byte medium in both
// orders and its sign extension from bit 23.
func TestMediumLayout(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 16)
	defer b.Close()

	b.SetOrder(BigEndian)
	b.PutU24(0x123456)
	b.SetOrder(LittleEndian)
	b.PutU24(0x123456)

	var raw [6]byte
	b.PeekArr8(0, raw[:])
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x56, 0x34, 0x12}, raw[:])

	b.SetOrder(BigEndian)
	b.SetReaderOffset(0)
	b.SetWriterOffset(3)
	assert.Equal(t, int32(0x123456), b.TakeI24())

	b.OverwriteU24(0, 0x800000)
	b.SetReaderOffset(0)
	assert.Equal(t, int32(-8388608), b.TakeI24())
	b.OverwriteU24(0, 0xFFFFFE)
	b.SetReaderOffset(0)
	assert.Equal(t, int32(-2), b.TakeI24())
}

// TestUnsignedWidening checks that unsigned reads zero-extend.
func TestUnsignedWidening(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 16)
	defer b.Close()

	b.PutI8(-1)
	b.PutI16(-1)
	b.PutI24(-1)
	b.PutI32(-1)
	assert.Equal(t, uint8(0xFF), b.TakeU8())
	assert.Equal(t, uint16(0xFFFF), b.TakeU16())
	assert.Equal(t, uint32(0xFFFFFF), b.TakeU24())
	assert.Equal(t, uint32(0xFFFFFFFF), b.TakeU32())
}

// TestTakeUnderflowPanics verifies reads beyond the writer offset fail
// without moving the cursor.
func TestTakeUnderflowPanics(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 8)
	defer b.Close()

	b.PutU32(7)
	b.TakeU16()
	assertPanicsIs(t, ErrOutOfBounds, func() { b.TakeU32() })
	assert.Equal(t, 2, b.ReaderOffset())
	assertPanicsIs(t, ErrOutOfBounds, func() { b.TakeU64() })
	assert.Equal(t, 2, b.ReaderOffset())
}

// TestPutOverflowPanics verifies writes beyond the capacity fail without
// moving the cursor.
func TestPutOverflowPanics(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 6)
	defer b.Close()

	b.PutU32(7)
	assertPanicsIs(t, ErrOutOfBounds, func() { b.PutU32(8) })
	assert.Equal(t, 4, b.WriterOffset())
	b.PutU16(8)
	assertPanicsIs(t, ErrOutOfBounds, func() { b.PutU8(9) })
	assert.Equal(t, 6, b.WriterOffset())
}

// TestPutCharRange rejects values above the 16-bit code-unit range.
func TestPutCharRange(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 8)
	defer b.Close()

	assertPanicsIs(t, ErrInvalidArgument, func() { b.PutChar('\U0001F600') })
	assert.Equal(t, 0, b.WriterOffset())
}

// TestArr8 checks the bulk byte-slice accessors.
func TestArr8(t *testing.T) {
	for name, alloc := range testAllocators() {
		t.Run(name, func(t *testing.T) {
			defer alloc.Close()
			b := mustAllocate(t, alloc, 8)
			defer b.Close()

			b.PutArr8([]byte{1, 2, 3, 4, 5})
			assert.Equal(t, 5, b.WriterOffset())

			got := make([]byte, 5)
			b.TakeArr8(got)
			assert.Equal(t, []byte{1, 2, 3, 4, 5}, got)
			assert.Equal(t, 5, b.ReaderOffset())

			assertPanicsIs(t, ErrOutOfBounds, func() { b.TakeArr8(make([]byte, 1)) })
			assertPanicsIs(t, ErrOutOfBounds, func() { b.PutArr8(make([]byte, 4)) })
		})
	}
}

// TestFloatBits pins the float codecs to their IEEE 754 bit patterns.
func TestFloatBits(t *testing.T) {
	alloc := OnHeap()
	defer alloc.Close()
	b := mustAllocate(t, alloc, 16)
	defer b.Close()
	b.SetOrder(BigEndian)

	b.PutF64(1.0)
	assert.Equal(t, uint64(0x3FF0000000000000), b.PeekU64(0))
	b.PutF32(float32(math.Inf(1)))
	assert.Equal(t, uint32(0x7F800000), b.PeekU32(8))
}
