// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// compositeBuf concatenates leaf components end to end behind the Buffer
// contract. Offsets span the components through a prefix sum; the composite
// cursors and the per-component cursors are kept consistent so that
// component iteration always sees the right readable and writable windows.
type compositeBuf struct {
	alloc     Allocator
	comps     []*buf
	starts    []int // starts[i] is the absolute offset of comps[i]; starts[len(comps)] is the capacity
	roff      int
	woff      int
	end       Endian
	readOnly  bool
	constView bool
	closed    bool
	sent      bool
	arc       *SharedDrop
}

var _ Buffer = (*compositeBuf)(nil)

// Compose builds a composite buffer over the given parts. Composite parts
// are flattened into their components. Every part must be accessible and
// share one byte order. The composite acquires a reference per component;
// the caller keeps its own handles and closes them separately.
func Compose(alloc Allocator, parts ...Buffer) (Buffer, error) {
	if alloc == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil allocator")
	}
	var flat []*buf
	for _, p := range parts {
		if p == nil {
			return nil, errors.Wrap(ErrInvalidArgument, "nil component")
		}
		if !p.IsAccessible() {
			return nil, errors.Wrap(ErrClosed, "cannot compose a closed buffer")
		}
		switch t := p.(type) {
		case *buf:
			flat = append(flat, t)
		case *compositeBuf:
			flat = append(flat, t.comps...)
		default:
			return nil, errors.Wrapf(ErrInvalidArgument, "unknown buffer implementation %T", p)
		}
	}
	end := NativeEndian
	if len(flat) > 0 {
		end = flat[0].Order()
	}
	constView := len(flat) > 0
	for _, l := range flat {
		if l.Order() != end {
			return nil, errors.Wrapf(ErrInvalidArgument,
				"components with mixed byte orders: %v and %v", end, l.Order())
		}
		constView = constView && l.IsConst()
	}
	// The readable region must be one contiguous run: no written bytes
	// after the first component with writable space, no consumed bytes
	// after the first component with readable bytes.
	roff, woff := 0, 0
	seenWritable, seenReadable := false, false
	for _, l := range flat {
		if seenWritable && l.WriterOffset() > 0 {
			return nil, errors.Wrap(ErrInvalidArgument,
				"components leave an unwritten gap in the middle")
		}
		if seenReadable && l.ReaderOffset() > 0 {
			return nil, errors.Wrap(ErrInvalidArgument,
				"components leave an unread gap in the middle")
		}
		woff += l.WriterOffset()
		roff += l.ReaderOffset()
		if l.WriterOffset() < l.Capacity() {
			seenWritable = true
		}
		if l.ReaderOffset() < l.WriterOffset() {
			seenReadable = true
		}
	}
	comps := make([]*buf, 0, len(flat))
	for _, l := range flat {
		h, ok := l.Acquire().(*buf)
		if !ok {
			panic(errors.Wrap(ErrInvalidArgument, "membuf.Compose: non-leaf component"))
		}
		comps = append(comps, h)
	}
	c := newCompositeRaw(alloc, comps, end, roff, woff)
	for _, l := range comps {
		if l.IsReadOnly() {
			c.readOnly = true
			break
		}
	}
	c.constView = constView
	return c, nil
}

// newCompositeRaw assumes ownership of comps and derives the prefix sums.
func newCompositeRaw(alloc Allocator, comps []*buf, end Endian, roff, woff int) *compositeBuf {
	c := &compositeBuf{
		alloc: alloc,
		comps: comps,
		end:   end,
		roff:  roff,
		woff:  woff,
	}
	c.arc = ShareDrop(NopDrop)
	c.recomputeStarts()
	c.distributeOffsets()
	return c
}

func (c *compositeBuf) recomputeStarts() {
	c.starts = make([]int, len(c.comps)+1)
	for i, l := range c.comps {
		c.starts[i+1] = c.starts[i] + l.Capacity()
	}
}

// distributeOffsets projects the composite cursors onto every component so
// that bytes before the read cursor are consumed, bytes between the
// cursors readable, and bytes after the write cursor writable, component
// by component.
func (c *compositeBuf) distributeOffsets() {
	for i, l := range c.comps {
		start := c.starts[i]
		w := min(max(c.woff-start, 0), l.Capacity())
		r := min(max(c.roff-start, 0), w)
		l.woff = w
		l.roff = r
	}
}

// findComp returns the index of the component containing the absolute
// offset. The offset must be below the capacity.
func (c *compositeBuf) findComp(offset int) int {
	return sort.Search(len(c.comps), func(i int) bool { return c.starts[i+1] > offset })
}

// peekRaw copies len(p) bytes starting at an absolute offset into p. The
// range must already be validated.
func (c *compositeBuf) peekRaw(offset int, p []byte) {
	for n := 0; n < len(p); {
		i := c.findComp(offset + n)
		l := c.comps[i]
		rel := offset + n - c.starts[i]
		n += copy(p[n:], l.seg[rel:])
	}
}

// overwriteRaw copies p into the composite at an absolute offset. The
// range must already be validated.
func (c *compositeBuf) overwriteRaw(offset int, p []byte) {
	for n := 0; n < len(p); {
		i := c.findComp(offset + n)
		l := c.comps[i]
		rel := offset + n - c.starts[i]
		n += copy(l.seg[rel:], p[n:])
	}
}

func (c *compositeBuf) mustBeAccessible() {
	if c.closed {
		panic(errors.Wrap(ErrClosed, "membuf.Buffer: inaccessible"))
	}
}

func (c *compositeBuf) mustHaveReadable(n int) {
	c.mustBeAccessible()
	if c.roff+n > c.woff {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: read of %d bytes at offset %d exceeds writer offset %d", n, c.roff, c.woff))
	}
}

func (c *compositeBuf) mustBeWritable() {
	c.mustBeAccessible()
	if c.IsReadOnly() {
		panic(errors.Wrap(ErrReadOnly, "membuf.Buffer: read-only"))
	}
	if !c.IsOwned() {
		panic(errors.Wrap(ErrReadOnly, "membuf.Buffer: borrowed buffers cannot be mutated"))
	}
}

func (c *compositeBuf) mustHaveWritable(n int) {
	c.mustBeWritable()
	if c.woff+n > c.Capacity() {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: write of %d bytes at offset %d exceeds capacity %d", n, c.woff, c.Capacity()))
	}
}

func (c *compositeBuf) mustHavePeekable(offset, n int) {
	c.mustBeAccessible()
	if offset < 0 || offset+n > c.Capacity() {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: peek of %d bytes at offset %d exceeds capacity %d", n, offset, c.Capacity()))
	}
}

func (c *compositeBuf) mustHaveOverwritable(offset, n int) {
	c.mustBeWritable()
	if offset < 0 || offset+n > c.Capacity() {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: overwrite of %d bytes at offset %d exceeds capacity %d", n, offset, c.Capacity()))
	}
}

func (c *compositeBuf) Capacity() int { return c.starts[len(c.comps)] }

func (c *compositeBuf) ReaderOffset() int { return c.roff }

func (c *compositeBuf) SetReaderOffset(offset int) {
	c.mustBeAccessible()
	if offset < 0 || offset > c.woff {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: reader offset %d out of bounds [0, %d]", offset, c.woff))
	}
	c.roff = offset
	c.distributeOffsets()
}

func (c *compositeBuf) WriterOffset() int { return c.woff }

func (c *compositeBuf) SetWriterOffset(offset int) {
	c.mustBeWritable()
	if offset < c.roff || offset > c.Capacity() {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: writer offset %d out of bounds [%d, %d]", offset, c.roff, c.Capacity()))
	}
	c.woff = offset
	c.distributeOffsets()
}

func (c *compositeBuf) ReadableBytes() int { return c.woff - c.roff }

func (c *compositeBuf) WritableBytes() int { return c.Capacity() - c.woff }

func (c *compositeBuf) Order() Endian { return c.end }

func (c *compositeBuf) SetOrder(e Endian) {
	c.end = e
	for _, l := range c.comps {
		l.SetOrder(e)
	}
}

func (c *compositeBuf) Kind() Kind { return KindComposite }

func (c *compositeBuf) IsReadOnly() bool {
	if c.readOnly {
		return true
	}
	for _, l := range c.comps {
		if l.IsReadOnly() {
			return true
		}
	}
	return false
}

func (c *compositeBuf) MakeReadOnly() Buffer {
	c.mustBeAccessible()
	c.readOnly = true
	for _, l := range c.comps {
		l.MakeReadOnly()
	}
	return c
}

func (c *compositeBuf) IsAccessible() bool { return !c.closed }

func (c *compositeBuf) IsOwned() bool {
	if c.closed || !c.arc.IsOwned() {
		return false
	}
	for _, l := range c.comps {
		if !l.IsOwned() {
			return false
		}
	}
	return true
}

func (c *compositeBuf) IsConst() bool { return c.constView }

func (c *compositeBuf) Fill(v byte) {
	c.mustBeWritable()
	for _, l := range c.comps {
		l.Fill(v)
	}
}

func (c *compositeBuf) Acquire() Buffer {
	c.mustBeAccessible()
	if err := c.arc.Acquire(); err != nil {
		panic(err)
	}
	comps := make([]*buf, len(c.comps))
	for i, l := range c.comps {
		comps[i] = l.Acquire().(*buf)
	}
	h := &compositeBuf{
		alloc:     c.alloc,
		comps:     comps,
		roff:      c.roff,
		woff:      c.woff,
		end:       c.end,
		readOnly:  c.readOnly,
		constView: c.constView,
		arc:       c.arc,
	}
	h.recomputeStarts()
	return h
}

func (c *compositeBuf) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.readOnly = false
	for _, l := range c.comps {
		_ = l.Close()
	}
	c.arc.Drop()
	return nil
}

func (c *compositeBuf) Slice(offset, length int) Buffer {
	c.mustBeAccessible()
	if offset < 0 || length < 0 || offset+length > c.Capacity() {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: slice [%d, %d) exceeds capacity %d", offset, offset+length, c.Capacity()))
	}
	if err := c.arc.Acquire(); err != nil {
		panic(err)
	}
	var comps []*buf
	for i, l := range c.comps {
		lo := max(offset, c.starts[i])
		hi := min(offset+length, c.starts[i+1])
		if lo >= hi {
			continue
		}
		comps = append(comps, l.Slice(lo-c.starts[i], hi-lo).(*buf))
	}
	s := &compositeBuf{
		alloc:     c.alloc,
		comps:     comps,
		roff:      0,
		woff:      length,
		end:       c.end,
		readOnly:  true,
		constView: c.constView,
		arc:       c.arc,
	}
	s.recomputeStarts()
	return s
}

func (c *compositeBuf) ReadableSlice() Buffer { return c.Slice(c.roff, c.ReadableBytes()) }

func (c *compositeBuf) Split() (Buffer, error) { return c.SplitAt(c.woff) }

func (c *compositeBuf) SplitAt(offset int) (Buffer, error) {
	if c.closed {
		return nil, errors.Wrap(ErrClosed, "cannot split")
	}
	if offset < 0 || offset > c.Capacity() {
		return nil, errors.Wrapf(ErrOutOfBounds,
			"split offset %d out of bounds [0, %d]", offset, c.Capacity())
	}
	if !c.IsOwned() {
		return nil, errors.Wrap(ErrNotOwned, "cannot split")
	}
	i := len(c.comps)
	if offset < c.Capacity() {
		i = c.findComp(offset)
	}
	var frontComps []*buf
	rest := c.comps[i:]
	frontComps = append(frontComps, c.comps[:i]...)
	if offset < c.Capacity() && offset > c.starts[i] {
		// The split lands inside a component; split it and keep the tail.
		frontPart, err := c.comps[i].SplitAt(offset - c.starts[i])
		if err != nil {
			return nil, err
		}
		frontComps = append(frontComps, frontPart.(*buf))
	}
	front := newCompositeRaw(c.alloc, frontComps, c.end, min(c.roff, offset), min(c.woff, offset))
	front.readOnly = c.readOnly
	front.constView = c.constView
	c.comps = rest
	c.roff = max(c.roff-offset, 0)
	c.woff = max(c.woff-offset, 0)
	c.recomputeStarts()
	c.distributeOffsets()
	return front, nil
}

func (c *compositeBuf) Compact() error {
	if c.closed {
		return errors.Wrap(ErrClosed, "cannot compact")
	}
	if c.IsReadOnly() {
		return errors.Wrap(ErrReadOnly, "cannot compact")
	}
	if !c.IsOwned() {
		return errors.Wrap(ErrNotOwned, "cannot compact")
	}
	n := c.ReadableBytes()
	if c.roff == 0 {
		return nil
	}
	if n > 0 {
		scratch := make([]byte, n)
		c.peekRaw(c.roff, scratch)
		c.overwriteRaw(0, scratch)
	}
	c.roff = 0
	c.woff = n
	c.distributeOffsets()
	return nil
}

func (c *compositeBuf) EnsureWritable(size, minimumGrowth int, allowCompaction bool) error {
	if c.closed {
		return errors.Wrap(ErrClosed, "cannot grow")
	}
	if size < 0 || minimumGrowth < 0 {
		return errors.Wrapf(ErrInvalidArgument,
			"size %d and minimum growth %d must be non-negative", size, minimumGrowth)
	}
	if c.IsReadOnly() {
		return errors.Wrap(ErrReadOnly, "cannot grow")
	}
	if !c.IsOwned() {
		return errors.Wrap(ErrNotOwned, "cannot grow")
	}
	if c.WritableBytes() >= size {
		return nil
	}
	if allowCompaction && c.WritableBytes()+c.roff >= size {
		return c.Compact()
	}
	// A composite grows by appending a component, not by moving memory.
	growth := max(size-c.WritableBytes(), minimumGrowth)
	nb, err := c.alloc.Allocate(growth)
	if err != nil {
		return err
	}
	l, ok := nb.(*buf)
	if !ok {
		_ = nb.Close()
		return errors.Wrapf(ErrInvalidArgument, "allocator produced a non-leaf buffer %T", nb)
	}
	l.SetOrder(c.end)
	c.comps = append(c.comps, l)
	c.recomputeStarts()
	c.distributeOffsets()
	return nil
}

func (c *compositeBuf) CopyInto(srcPos int, dst []byte, dstPos, length int) error {
	if c.closed {
		return errors.Wrap(ErrClosed, "cannot copy")
	}
	if length < 0 {
		return errors.Wrapf(ErrInvalidArgument, "negative copy length %d", length)
	}
	if srcPos < 0 || srcPos+length > c.Capacity() {
		return errors.Wrapf(ErrOutOfBounds,
			"copy of %d bytes at offset %d exceeds capacity %d", length, srcPos, c.Capacity())
	}
	if dstPos < 0 || dstPos+length > len(dst) {
		return errors.Wrapf(ErrOutOfBounds,
			"copy of %d bytes at offset %d exceeds destination length %d", length, dstPos, len(dst))
	}
	c.peekRaw(srcPos, dst[dstPos:dstPos+length])
	return nil
}

func (c *compositeBuf) CopyIntoBuffer(srcPos int, dst Buffer, dstPos, length int) error {
	if err := checkBufferCopy(c, srcPos, dst, dstPos, length); err != nil {
		return err
	}
	copyByteWalk(c, srcPos, dst, dstPos, length)
	return nil
}

func (c *compositeBuf) WriteBytes(src Buffer) error { return writeBytes(c, src) }

func (c *compositeBuf) Send() (*Send, error) {
	if c.sent {
		return nil, errors.Wrap(ErrSendState, "Cannot send() a buffer that has already been sent")
	}
	if c.closed {
		return nil, errors.Wrap(ErrClosed, "cannot send")
	}
	if !c.IsOwned() {
		return nil, errors.Wrap(ErrNotOwned, "cannot send a borrowed buffer")
	}
	sends := make([]*Send, len(c.comps))
	for i, l := range c.comps {
		cs, err := l.Send()
		if err != nil {
			// Ownership was checked up front; a component send can only
			// fail if the caller raced this operation.
			for _, prev := range sends[:i] {
				_ = prev.Discard()
			}
			return nil, err
		}
		sends[i] = cs
	}
	alloc, end, roff, woff := c.alloc, c.end, c.roff, c.woff
	readOnly, constView := c.readOnly, c.constView
	c.closed = true
	c.sent = true
	c.comps = nil
	c.recomputeStarts()
	s := &Send{kind: KindComposite}
	s.receive = func() Buffer {
		comps := make([]*buf, len(sends))
		for i, cs := range sends {
			nb, err := cs.Receive()
			if err != nil {
				panic(err)
			}
			comps[i] = nb.(*buf)
		}
		nc := newCompositeRaw(alloc, comps, end, roff, woff)
		nc.readOnly = readOnly
		nc.constView = constView
		return nc
	}
	s.discard = func() {
		for _, cs := range sends {
			_ = cs.Discard()
		}
	}
	return s, nil
}

func (c *compositeBuf) OpenCursor(fromOffset, length int) ByteCursor {
	c.mustBeAccessible()
	mustHaveCursorRange(c.Capacity(), fromOffset, length)
	return &compositeForwardCursor{c: c, idx: fromOffset, end: fromOffset + length}
}

func (c *compositeBuf) OpenReverseCursor(fromOffset, length int) ByteCursor {
	c.mustBeAccessible()
	mustHaveReverseCursorRange(c.Capacity(), fromOffset, length)
	return &compositeReverseCursor{c: c, idx: fromOffset, end: fromOffset - length}
}

func (c *compositeBuf) CountComponents() int { return len(c.comps) }

func (c *compositeBuf) CountReadableComponents() int {
	n := 0
	for _, l := range c.comps {
		n += l.CountReadableComponents()
	}
	return n
}

func (c *compositeBuf) CountWritableComponents() int {
	n := 0
	for _, l := range c.comps {
		n += l.CountWritableComponents()
	}
	return n
}

func (c *compositeBuf) ForEachReadable(startIndex int, fn ReadableProcessor) int {
	c.mustBeAccessible()
	processed := 0
	for _, l := range c.comps {
		if l.ReadableBytes() == 0 {
			continue
		}
		if !fn(startIndex+processed, l) {
			return -(processed + 1)
		}
		processed++
	}
	return processed
}

func (c *compositeBuf) ForEachWritable(startIndex int, fn WritableProcessor) int {
	c.mustBeAccessible()
	processed := 0
	for _, l := range c.comps {
		if l.WritableBytes() == 0 {
			continue
		}
		if !fn(startIndex+processed, l) {
			return -(processed + 1)
		}
		processed++
	}
	return processed
}

// takeRaw reads n bytes at the read cursor into scratch and advances.
func (c *compositeBuf) takeRaw(n int) []byte {
	c.mustHaveReadable(n)
	var scratch [8]byte
	c.peekRaw(c.roff, scratch[:n])
	c.roff += n
	c.distributeOffsets()
	return scratch[:n]
}

// putRaw writes p at the write cursor and advances.
func (c *compositeBuf) putRaw(p []byte) {
	c.mustHaveWritable(len(p))
	c.overwriteRaw(c.woff, p)
	c.woff += len(p)
	c.distributeOffsets()
}

func (c *compositeBuf) TakeU8() uint8 { return c.takeRaw(1)[0] }

func (c *compositeBuf) TakeI8() int8 { return int8(c.TakeU8()) }

func (c *compositeBuf) TakeU16() uint16 { return c.end.order().Uint16(c.takeRaw(2)) }

func (c *compositeBuf) TakeI16() int16 { return int16(c.TakeU16()) }

func (c *compositeBuf) TakeU24() uint32 { return u24(c.end, c.takeRaw(3)) }

func (c *compositeBuf) TakeI24() int32 { return signExtend24(c.TakeU24()) }

func (c *compositeBuf) TakeU32() uint32 { return c.end.order().Uint32(c.takeRaw(4)) }

func (c *compositeBuf) TakeI32() int32 { return int32(c.TakeU32()) }

func (c *compositeBuf) TakeU64() uint64 { return c.end.order().Uint64(c.takeRaw(8)) }

func (c *compositeBuf) TakeI64() int64 { return int64(c.TakeU64()) }

func (c *compositeBuf) TakeF32() float32 { return math.Float32frombits(c.TakeU32()) }

func (c *compositeBuf) TakeF64() float64 { return math.Float64frombits(c.TakeU64()) }

func (c *compositeBuf) TakeChar() rune { return rune(c.TakeU16()) }

func (c *compositeBuf) TakeArr8(v []byte) {
	c.mustHaveReadable(len(v))
	c.peekRaw(c.roff, v)
	c.roff += len(v)
	c.distributeOffsets()
}

func (c *compositeBuf) PutU8(v uint8) { c.putRaw([]byte{v}) }

func (c *compositeBuf) PutI8(v int8) { c.PutU8(uint8(v)) }

func (c *compositeBuf) PutU16(v uint16) {
	var p [2]byte
	c.end.order().PutUint16(p[:], v)
	c.putRaw(p[:])
}

func (c *compositeBuf) PutI16(v int16) { c.PutU16(uint16(v)) }

func (c *compositeBuf) PutU24(v uint32) {
	var p [3]byte
	putU24(c.end, p[:], v)
	c.putRaw(p[:])
}

func (c *compositeBuf) PutI24(v int32) { c.PutU24(uint32(v) & 0xFFFFFF) }

func (c *compositeBuf) PutU32(v uint32) {
	var p [4]byte
	c.end.order().PutUint32(p[:], v)
	c.putRaw(p[:])
}

func (c *compositeBuf) PutI32(v int32) { c.PutU32(uint32(v)) }

func (c *compositeBuf) PutU64(v uint64) {
	var p [8]byte
	c.end.order().PutUint64(p[:], v)
	c.putRaw(p[:])
}

func (c *compositeBuf) PutI64(v int64) { c.PutU64(uint64(v)) }

func (c *compositeBuf) PutF32(v float32) { c.PutU32(math.Float32bits(v)) }

func (c *compositeBuf) PutF64(v float64) { c.PutU64(math.Float64bits(v)) }

func (c *compositeBuf) PutChar(v rune) {
	if v < 0 || v > 0xFFFF {
		panic(errors.Wrapf(ErrInvalidArgument, "membuf.Buffer: %q is not a 16-bit code unit", v))
	}
	c.PutU16(uint16(v))
}

func (c *compositeBuf) PutArr8(v []byte) {
	c.mustHaveWritable(len(v))
	c.overwriteRaw(c.woff, v)
	c.woff += len(v)
	c.distributeOffsets()
}

// peekN reads n bytes at an absolute offset into scratch.
func (c *compositeBuf) peekN(offset, n int) []byte {
	c.mustHavePeekable(offset, n)
	var scratch [8]byte
	c.peekRaw(offset, scratch[:n])
	return scratch[:n]
}

func (c *compositeBuf) PeekU8(offset int) uint8 { return c.peekN(offset, 1)[0] }

func (c *compositeBuf) PeekI8(offset int) int8 { return int8(c.PeekU8(offset)) }

func (c *compositeBuf) PeekU16(offset int) uint16 { return c.end.order().Uint16(c.peekN(offset, 2)) }

func (c *compositeBuf) PeekI16(offset int) int16 { return int16(c.PeekU16(offset)) }

func (c *compositeBuf) PeekU24(offset int) uint32 { return u24(c.end, c.peekN(offset, 3)) }

func (c *compositeBuf) PeekI24(offset int) int32 { return signExtend24(c.PeekU24(offset)) }

func (c *compositeBuf) PeekU32(offset int) uint32 { return c.end.order().Uint32(c.peekN(offset, 4)) }

func (c *compositeBuf) PeekI32(offset int) int32 { return int32(c.PeekU32(offset)) }

func (c *compositeBuf) PeekU64(offset int) uint64 { return c.end.order().Uint64(c.peekN(offset, 8)) }

func (c *compositeBuf) PeekI64(offset int) int64 { return int64(c.PeekU64(offset)) }

func (c *compositeBuf) PeekF32(offset int) float32 { return math.Float32frombits(c.PeekU32(offset)) }

func (c *compositeBuf) PeekF64(offset int) float64 { return math.Float64frombits(c.PeekU64(offset)) }

func (c *compositeBuf) PeekChar(offset int) rune { return rune(c.PeekU16(offset)) }

func (c *compositeBuf) PeekArr8(offset int, v []byte) {
	c.mustHavePeekable(offset, len(v))
	c.peekRaw(offset, v)
}

// overwriteN writes p at an absolute offset after validation.
func (c *compositeBuf) overwriteN(offset int, p []byte) {
	c.mustHaveOverwritable(offset, len(p))
	c.overwriteRaw(offset, p)
}

func (c *compositeBuf) OverwriteU8(offset int, v uint8) { c.overwriteN(offset, []byte{v}) }

func (c *compositeBuf) OverwriteI8(offset int, v int8) { c.OverwriteU8(offset, uint8(v)) }

func (c *compositeBuf) OverwriteU16(offset int, v uint16) {
	var p [2]byte
	c.end.order().PutUint16(p[:], v)
	c.overwriteN(offset, p[:])
}

func (c *compositeBuf) OverwriteI16(offset int, v int16) { c.OverwriteU16(offset, uint16(v)) }

func (c *compositeBuf) OverwriteU24(offset int, v uint32) {
	var p [3]byte
	putU24(c.end, p[:], v)
	c.overwriteN(offset, p[:])
}

func (c *compositeBuf) OverwriteI24(offset int, v int32) {
	c.OverwriteU24(offset, uint32(v)&0xFFFFFF)
}

func (c *compositeBuf) OverwriteU32(offset int, v uint32) {
	var p [4]byte
	c.end.order().PutUint32(p[:], v)
	c.overwriteN(offset, p[:])
}

func (c *compositeBuf) OverwriteI32(offset int, v int32) { c.OverwriteU32(offset, uint32(v)) }

func (c *compositeBuf) OverwriteU64(offset int, v uint64) {
	var p [8]byte
	c.end.order().PutUint64(p[:], v)
	c.overwriteN(offset, p[:])
}

func (c *compositeBuf) OverwriteI64(offset int, v int64) { c.OverwriteU64(offset, uint64(v)) }

func (c *compositeBuf) OverwriteF32(offset int, v float32) {
	c.OverwriteU32(offset, math.Float32bits(v))
}

func (c *compositeBuf) OverwriteF64(offset int, v float64) {
	c.OverwriteU64(offset, math.Float64bits(v))
}

func (c *compositeBuf) OverwriteChar(offset int, v rune) {
	if v < 0 || v > 0xFFFF {
		panic(errors.Wrapf(ErrInvalidArgument, "membuf.Buffer: %q is not a 16-bit code unit", v))
	}
	c.OverwriteU16(offset, uint16(v))
}

func (c *compositeBuf) OverwriteArr8(offset int, v []byte) { c.overwriteN(offset, v) }

// compositeForwardCursor walks the composite byte by byte across component
// boundaries, decoding ReadUint64 big-endian like the leaf cursor.
type compositeForwardCursor struct {
	c    *compositeBuf
	idx  int
	end  int
	byt  byte
	long uint64
}

func (cc *compositeForwardCursor) ReadByte() bool {
	if cc.idx >= cc.end {
		return false
	}
	i := cc.c.findComp(cc.idx)
	cc.byt = cc.c.comps[i].seg[cc.idx-cc.c.starts[i]]
	cc.idx++
	return true
}

func (cc *compositeForwardCursor) Byte() byte { return cc.byt }

func (cc *compositeForwardCursor) ReadUint64() bool {
	if cc.end-cc.idx < 8 {
		return false
	}
	var v uint64
	for i := 0; i < 8; i++ {
		cc.ReadByte()
		v = v<<8 | uint64(cc.byt)
	}
	cc.long = v
	return true
}

func (cc *compositeForwardCursor) Uint64() uint64 { return cc.long }

func (cc *compositeForwardCursor) CurrentOffset() int { return cc.idx }

func (cc *compositeForwardCursor) BytesLeft() int { return cc.end - cc.idx }

// compositeReverseCursor mirrors the leaf reverse cursor across components.
type compositeReverseCursor struct {
	c    *compositeBuf
	idx  int
	end  int
	byt  byte
	long uint64
}

func (cc *compositeReverseCursor) ReadByte() bool {
	if cc.idx <= cc.end {
		return false
	}
	i := cc.c.findComp(cc.idx)
	cc.byt = cc.c.comps[i].seg[cc.idx-cc.c.starts[i]]
	cc.idx--
	return true
}

func (cc *compositeReverseCursor) Byte() byte { return cc.byt }

func (cc *compositeReverseCursor) ReadUint64() bool {
	if cc.idx-cc.end < 8 {
		return false
	}
	var v uint64
	for i := 0; i < 8; i++ {
		cc.ReadByte()
		v = v | uint64(cc.byt)<<(8*i)
	}
	cc.long = v
	return true
}

func (cc *compositeReverseCursor) Uint64() uint64 { return cc.long }

func (cc *compositeReverseCursor) CurrentOffset() int { return cc.idx }

func (cc *compositeReverseCursor) BytesLeft() int { return cc.idx - cc.end }
