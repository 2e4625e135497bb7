// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import "math"

// PeekU8 reads a uint8 at an absolute offset without moving either cursor.
func (b *buf) PeekU8(offset int) uint8 {
	b.mustHavePeekable(offset, 1)
	return b.seg[offset]
}

// PeekI8 reads an int8 at an absolute offset without moving either cursor.
func (b *buf) PeekI8(offset int) int8 { return int8(b.PeekU8(offset)) }

// PeekU16 reads a uint16 at an absolute offset without moving either cursor.
func (b *buf) PeekU16(offset int) uint16 {
	b.mustHavePeekable(offset, 2)
	return b.end.order().Uint16(b.seg[offset : offset+2])
}

// PeekI16 reads an int16 at an absolute offset without moving either cursor.
func (b *buf) PeekI16(offset int) int16 { return int16(b.PeekU16(offset)) }

// PeekU24 reads a 3-byte medium at an absolute offset without moving either
// cursor. The value is zero-extended.
func (b *buf) PeekU24(offset int) uint32 {
	b.mustHavePeekable(offset, 3)
	return u24(b.end, b.seg[offset:offset+3])
}

// PeekI24 reads a signed 3-byte medium at an absolute offset without moving
// either cursor. The value is sign-extended from bit 23.
func (b *buf) PeekI24(offset int) int32 { return signExtend24(b.PeekU24(offset)) }

// PeekU32 reads a uint32 at an absolute offset without moving either cursor.
func (b *buf) PeekU32(offset int) uint32 {
	b.mustHavePeekable(offset, 4)
	return b.end.order().Uint32(b.seg[offset : offset+4])
}

// PeekI32 reads an int32 at an absolute offset without moving either cursor.
func (b *buf) PeekI32(offset int) int32 { return int32(b.PeekU32(offset)) }

// PeekU64 reads a uint64 at an absolute offset without moving either cursor.
func (b *buf) PeekU64(offset int) uint64 {
	b.mustHavePeekable(offset, 8)
	return b.end.order().Uint64(b.seg[offset : offset+8])
}

// PeekI64 reads an int64 at an absolute offset without moving either cursor.
func (b *buf) PeekI64(offset int) int64 { return int64(b.PeekU64(offset)) }

// PeekF32 reads a float32 at an absolute offset without moving either cursor.
func (b *buf) PeekF32(offset int) float32 { return math.Float32frombits(b.PeekU32(offset)) }

// PeekF64 reads a float64 at an absolute offset without moving either cursor.
func (b *buf) PeekF64(offset int) float64 { return math.Float64frombits(b.PeekU64(offset)) }

// PeekChar reads a 16-bit code unit at an absolute offset without moving
// either cursor.
func (b *buf) PeekChar(offset int) rune { return rune(b.PeekU16(offset)) }

// PeekArr8 reads len(v) bytes at an absolute offset into v without moving
// either cursor.
func (b *buf) PeekArr8(offset int, v []byte) {
	b.mustHavePeekable(offset, len(v))
	copy(v, b.seg[offset:offset+len(v)])
}
