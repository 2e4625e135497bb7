// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import "math"

// TakeU8 reads and returns a uint8 at the reader offset, then advances it.
func (b *buf) TakeU8() uint8 {
	b.mustHaveReadable(1)
	v := b.seg[b.roff]
	b.roff += 1
	return v
}

// TakeI8 reads and returns an int8 at the reader offset, then advances it.
func (b *buf) TakeI8() int8 { return int8(b.TakeU8()) }

// TakeU16 reads and returns a uint16 at the reader offset, then advances it.
func (b *buf) TakeU16() uint16 {
	b.mustHaveReadable(2)
	v := b.end.order().Uint16(b.seg[b.roff : b.roff+2])
	b.roff += 2
	return v
}

// TakeI16 reads and returns an int16 at the reader offset, then advances it.
func (b *buf) TakeI16() int16 { return int16(b.TakeU16()) }

// TakeU24 reads and returns a 3-byte medium at the reader offset, then
// advances it. The value is zero-extended.
func (b *buf) TakeU24() uint32 {
	b.mustHaveReadable(3)
	v := u24(b.end, b.seg[b.roff:b.roff+3])
	b.roff += 3
	return v
}

// TakeI24 reads and returns a signed 3-byte medium at the reader offset,
// then advances it. The value is sign-extended from bit 23.
func (b *buf) TakeI24() int32 { return signExtend24(b.TakeU24()) }

// TakeU32 reads and returns a uint32 at the reader offset, then advances it.
func (b *buf) TakeU32() uint32 {
	b.mustHaveReadable(4)
	v := b.end.order().Uint32(b.seg[b.roff : b.roff+4])
	b.roff += 4
	return v
}

// TakeI32 reads and returns an int32 at the reader offset, then advances it.
func (b *buf) TakeI32() int32 { return int32(b.TakeU32()) }

// TakeU64 reads and returns a uint64 at the reader offset, then advances it.
func (b *buf) TakeU64() uint64 {
	b.mustHaveReadable(8)
	v := b.end.order().Uint64(b.seg[b.roff : b.roff+8])
	b.roff += 8
	return v
}

// TakeI64 reads and returns an int64 at the reader offset, then advances it.
func (b *buf) TakeI64() int64 { return int64(b.TakeU64()) }

// TakeF32 reads and returns a float32 at the reader offset, then advances it.
func (b *buf) TakeF32() float32 { return math.Float32frombits(b.TakeU32()) }

// TakeF64 reads and returns a float64 at the reader offset, then advances it.
func (b *buf) TakeF64() float64 { return math.Float64frombits(b.TakeU64()) }

// TakeChar reads and returns a 16-bit code unit at the reader offset, then
// advances it.
func (b *buf) TakeChar() rune { return rune(b.TakeU16()) }

// TakeArr8 reads len(v) bytes at the reader offset into v, then advances it.
func (b *buf) TakeArr8(v []byte) {
	b.mustHaveReadable(len(v))
	n := copy(v, b.seg[b.roff:b.woff])
	b.roff += n
}
