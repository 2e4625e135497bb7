// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// mustHaveCursorRange validates a forward cursor range against the capacity.
func mustHaveCursorRange(capacity, fromOffset, length int) {
	if fromOffset < 0 || length < 0 || fromOffset+length > capacity {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.ByteCursor: range [%d, %d) exceeds capacity %d", fromOffset, fromOffset+length, capacity))
	}
}

// mustHaveReverseCursorRange validates a reverse cursor range. The walk
// starts at fromOffset and covers length bytes toward the start.
func mustHaveReverseCursorRange(capacity, fromOffset, length int) {
	if length < 0 || fromOffset >= capacity || fromOffset-length < -1 {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.ByteCursor: reverse range of %d bytes from offset %d exceeds capacity %d", length, fromOffset, capacity))
	}
}

func (b *buf) OpenCursor(fromOffset, length int) ByteCursor {
	b.mustBeAccessible()
	mustHaveCursorRange(len(b.seg), fromOffset, length)
	return &forwardCursor{seg: b.seg, idx: fromOffset, end: fromOffset + length}
}

func (b *buf) OpenReverseCursor(fromOffset, length int) ByteCursor {
	b.mustBeAccessible()
	mustHaveReverseCursorRange(len(b.seg), fromOffset, length)
	return &reverseCursor{seg: b.seg, idx: fromOffset, end: fromOffset - length}
}

// forwardCursor walks seg from idx up to end. ReadUint64 decodes eight
// bytes big-endian regardless of any buffer order setting, presenting a
// stable byte-by-byte view of memory.
type forwardCursor struct {
	seg  []byte
	idx  int
	end  int
	byt  byte
	long uint64
}

func (c *forwardCursor) ReadByte() bool {
	if c.idx >= c.end {
		return false
	}
	c.byt = c.seg[c.idx]
	c.idx++
	return true
}

func (c *forwardCursor) Byte() byte { return c.byt }

func (c *forwardCursor) ReadUint64() bool {
	if c.end-c.idx < 8 {
		return false
	}
	c.long = binary.BigEndian.Uint64(c.seg[c.idx : c.idx+8])
	c.idx += 8
	return true
}

func (c *forwardCursor) Uint64() uint64 { return c.long }

func (c *forwardCursor) CurrentOffset() int { return c.idx }

func (c *forwardCursor) BytesLeft() int { return c.end - c.idx }

// reverseCursor walks seg from idx down to just above end. ReadUint64
// composes the eight walked bytes little-endian, the mirror image of the
// forward decoding.
type reverseCursor struct {
	seg  []byte
	idx  int
	end  int
	byt  byte
	long uint64
}

func (c *reverseCursor) ReadByte() bool {
	if c.idx <= c.end {
		return false
	}
	c.byt = c.seg[c.idx]
	c.idx--
	return true
}

func (c *reverseCursor) Byte() byte { return c.byt }

func (c *reverseCursor) ReadUint64() bool {
	if c.idx-c.end < 8 {
		return false
	}
	c.long = binary.BigEndian.Uint64(c.seg[c.idx-7 : c.idx+1])
	c.idx -= 8
	return true
}

func (c *reverseCursor) Uint64() uint64 { return c.long }

func (c *reverseCursor) CurrentOffset() int { return c.idx }

func (c *reverseCursor) BytesLeft() int { return c.idx - c.end }
