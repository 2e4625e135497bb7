// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"math"

	"github.com/pkg/errors"
)

// PutU8 writes a uint8 at the writer offset and advances it.
func (b *buf) PutU8(v uint8) {
	b.mustHaveWritable(1)
	b.seg[b.woff] = v
	b.woff += 1
}

// PutI8 writes an int8 at the writer offset and advances it.
func (b *buf) PutI8(v int8) { b.PutU8(uint8(v)) }

// PutU16 writes a uint16 at the writer offset and advances it.
func (b *buf) PutU16(v uint16) {
	b.mustHaveWritable(2)
	b.end.order().PutUint16(b.seg[b.woff:], v)
	b.woff += 2
}

// PutI16 writes an int16 at the writer offset and advances it.
func (b *buf) PutI16(v int16) { b.PutU16(uint16(v)) }

// PutU24 writes a 3-byte medium at the writer offset and advances it. Only
// the low 24 bits of v are written.
func (b *buf) PutU24(v uint32) {
	b.mustHaveWritable(3)
	putU24(b.end, b.seg[b.woff:b.woff+3], v)
	b.woff += 3
}

// PutI24 writes a signed 3-byte medium at the writer offset and advances it.
func (b *buf) PutI24(v int32) { b.PutU24(uint32(v) & 0xFFFFFF) }

// PutU32 writes a uint32 at the writer offset and advances it.
func (b *buf) PutU32(v uint32) {
	b.mustHaveWritable(4)
	b.end.order().PutUint32(b.seg[b.woff:], v)
	b.woff += 4
}

// PutI32 writes an int32 at the writer offset and advances it.
func (b *buf) PutI32(v int32) { b.PutU32(uint32(v)) }

// PutU64 writes a uint64 at the writer offset and advances it.
func (b *buf) PutU64(v uint64) {
	b.mustHaveWritable(8)
	b.end.order().PutUint64(b.seg[b.woff:], v)
	b.woff += 8
}

// PutI64 writes an int64 at the writer offset and advances it.
func (b *buf) PutI64(v int64) { b.PutU64(uint64(v)) }

// PutF32 writes a float32 at the writer offset and advances it.
func (b *buf) PutF32(v float32) { b.PutU32(math.Float32bits(v)) }

// PutF64 writes a float64 at the writer offset and advances it.
func (b *buf) PutF64(v float64) { b.PutU64(math.Float64bits(v)) }

// PutChar writes a 16-bit code unit at the writer offset and advances it.
func (b *buf) PutChar(v rune) {
	if v < 0 || v > 0xFFFF {
		panic(errors.Wrapf(ErrInvalidArgument, "membuf.Buffer: %q is not a 16-bit code unit", v))
	}
	b.PutU16(uint16(v))
}

// PutArr8 writes a byte slice at the writer offset and advances it.
func (b *buf) PutArr8(v []byte) {
	b.mustHaveWritable(len(v))
	n := copy(b.seg[b.woff:], v)
	b.woff += n
}
