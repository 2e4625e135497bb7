// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"math"

	"github.com/pkg/errors"
)

// OverwriteU8 writes a uint8 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteU8(offset int, v uint8) {
	b.mustHaveOverwritable(offset, 1)
	b.seg[offset] = v
}

// OverwriteI8 writes an int8 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteI8(offset int, v int8) { b.OverwriteU8(offset, uint8(v)) }

// OverwriteU16 writes a uint16 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteU16(offset int, v uint16) {
	b.mustHaveOverwritable(offset, 2)
	b.end.order().PutUint16(b.seg[offset:offset+2], v)
}

// OverwriteI16 writes an int16 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteI16(offset int, v int16) { b.OverwriteU16(offset, uint16(v)) }

// OverwriteU24 writes a 3-byte medium at an absolute offset without moving
// either cursor. Only the low 24 bits of v are written.
func (b *buf) OverwriteU24(offset int, v uint32) {
	b.mustHaveOverwritable(offset, 3)
	putU24(b.end, b.seg[offset:offset+3], v)
}

// OverwriteI24 writes a signed 3-byte medium at an absolute offset without
// moving either cursor.
func (b *buf) OverwriteI24(offset int, v int32) { b.OverwriteU24(offset, uint32(v)&0xFFFFFF) }

// OverwriteU32 writes a uint32 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteU32(offset int, v uint32) {
	b.mustHaveOverwritable(offset, 4)
	b.end.order().PutUint32(b.seg[offset:offset+4], v)
}

// OverwriteI32 writes an int32 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteI32(offset int, v int32) { b.OverwriteU32(offset, uint32(v)) }

// OverwriteU64 writes a uint64 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteU64(offset int, v uint64) {
	b.mustHaveOverwritable(offset, 8)
	b.end.order().PutUint64(b.seg[offset:offset+8], v)
}

// OverwriteI64 writes an int64 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteI64(offset int, v int64) { b.OverwriteU64(offset, uint64(v)) }

// OverwriteF32 writes a float32 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteF32(offset int, v float32) { b.OverwriteU32(offset, math.Float32bits(v)) }

// OverwriteF64 writes a float64 at an absolute offset without moving either
// cursor.
func (b *buf) OverwriteF64(offset int, v float64) { b.OverwriteU64(offset, math.Float64bits(v)) }

// OverwriteChar writes a 16-bit code unit at an absolute offset without
// moving either cursor.
func (b *buf) OverwriteChar(offset int, v rune) {
	if v < 0 || v > 0xFFFF {
		panic(errors.Wrapf(ErrInvalidArgument, "membuf.Buffer: %q is not a 16-bit code unit", v))
	}
	b.OverwriteU16(offset, uint16(v))
}

// OverwriteArr8 writes a byte slice at an absolute offset without moving
// either cursor.
func (b *buf) OverwriteArr8(offset int, v []byte) {
	b.mustHaveOverwritable(offset, len(v))
	copy(b.seg[offset:offset+len(v)], v)
}
