// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"runtime"

	"github.com/pkg/errors"
)

// buf is the leaf buffer implementation. Heap and direct regions share it;
// in Go an mmapped region is a []byte like any other, so the backend only
// shows through Kind, NativeAddress, and the reclamation handle.
type buf struct {
	seg       []byte // the full backing region; len(seg) == capacity
	roff      int
	woff      int
	end       Endian
	kind      Kind
	readOnly  bool
	constView bool
	closed    bool
	sent      bool
	leak      bool
	arc       *SharedDrop
	ctl       AllocatorControl
}

var (
	_ Buffer            = (*buf)(nil)
	_ ReadableComponent = (*buf)(nil)
	_ WritableComponent = (*buf)(nil)
)

// newLeaf wraps seg in a fresh owned buffer. The drop is decorated so that
// reclamation forces the buffer into the closed state.
func newLeaf(seg []byte, kind Kind, ctl AllocatorControl, drop Drop) *buf {
	b := &buf{seg: seg, end: NativeEndian, kind: kind, ctl: ctl}
	b.arc = ShareDrop(makeInaccessibleDrop(b, drop))
	return b
}

// mustBeAccessible panics when the buffer no longer backs memory.
func (b *buf) mustBeAccessible() {
	if b.closed {
		panic(errors.Wrap(ErrClosed, "membuf.Buffer: inaccessible"))
	}
}

// mustHaveReadable checks that n bytes can be read at the reader offset.
func (b *buf) mustHaveReadable(n int) {
	b.mustBeAccessible()
	if b.roff+n > b.woff {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: read of %d bytes at offset %d exceeds writer offset %d", n, b.roff, b.woff))
	}
}

// mustBeWritable panics unless the buffer may be mutated. Borrowed buffers
// reject writes like read-only ones: writable state is never shared, so a
// buffer with outstanding references has no writable bytes to offer.
func (b *buf) mustBeWritable() {
	b.mustBeAccessible()
	if b.readOnly {
		panic(errors.Wrap(ErrReadOnly, "membuf.Buffer: read-only"))
	}
	if !b.arc.IsOwned() {
		panic(errors.Wrap(ErrReadOnly, "membuf.Buffer: borrowed buffers cannot be mutated"))
	}
}

// mustHaveWritable checks that n bytes can be written at the writer offset.
func (b *buf) mustHaveWritable(n int) {
	b.mustBeWritable()
	if b.woff+n > len(b.seg) {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: write of %d bytes at offset %d exceeds capacity %d", n, b.woff, len(b.seg)))
	}
}

// mustHavePeekable checks an absolute cursor-invariant read.
func (b *buf) mustHavePeekable(offset, n int) {
	b.mustBeAccessible()
	if offset < 0 || offset+n > len(b.seg) {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: peek of %d bytes at offset %d exceeds capacity %d", n, offset, len(b.seg)))
	}
}

// mustHaveOverwritable checks an absolute cursor-invariant write.
func (b *buf) mustHaveOverwritable(offset, n int) {
	b.mustBeWritable()
	if offset < 0 || offset+n > len(b.seg) {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: overwrite of %d bytes at offset %d exceeds capacity %d", n, offset, len(b.seg)))
	}
}

func (b *buf) Capacity() int { return len(b.seg) }

func (b *buf) ReaderOffset() int { return b.roff }

func (b *buf) SetReaderOffset(offset int) {
	b.mustBeAccessible()
	if offset < 0 || offset > b.woff {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: reader offset %d out of bounds [0, %d]", offset, b.woff))
	}
	b.roff = offset
}

func (b *buf) WriterOffset() int { return b.woff }

func (b *buf) SetWriterOffset(offset int) {
	b.mustBeWritable()
	if offset < b.roff || offset > len(b.seg) {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: writer offset %d out of bounds [%d, %d]", offset, b.roff, len(b.seg)))
	}
	b.woff = offset
}

func (b *buf) ReadableBytes() int { return b.woff - b.roff }

func (b *buf) WritableBytes() int { return len(b.seg) - b.woff }

func (b *buf) Order() Endian { return b.end }

func (b *buf) SetOrder(e Endian) { b.end = e }

func (b *buf) Kind() Kind { return b.kind }

func (b *buf) IsReadOnly() bool { return b.readOnly }

func (b *buf) MakeReadOnly() Buffer {
	b.mustBeAccessible()
	b.readOnly = true
	return b
}

func (b *buf) IsAccessible() bool { return !b.closed }

func (b *buf) IsOwned() bool { return !b.closed && b.arc.IsOwned() }

func (b *buf) IsConst() bool { return b.constView }

func (b *buf) Fill(v byte) {
	b.mustBeWritable()
	for i := range b.seg {
		b.seg[i] = v
	}
}

func (b *buf) Acquire() Buffer {
	b.mustBeAccessible()
	if err := b.arc.Acquire(); err != nil {
		panic(err)
	}
	h := *b
	h.leak = false
	return &h
}

func (b *buf) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.readOnly = false
	if b.leak {
		runtime.SetFinalizer(b, nil)
		b.leak = false
	}
	b.arc.Drop()
	return nil
}

func (b *buf) Slice(offset, length int) Buffer {
	b.mustBeAccessible()
	if offset < 0 || length < 0 || offset+length > len(b.seg) {
		panic(errors.Wrapf(ErrOutOfBounds,
			"membuf.Buffer: slice [%d, %d) exceeds capacity %d", offset, offset+length, len(b.seg)))
	}
	if err := b.arc.Acquire(); err != nil {
		panic(err)
	}
	return &buf{
		seg:       b.seg[offset : offset+length : offset+length],
		roff:      0,
		woff:      length,
		end:       b.end,
		kind:      b.kind,
		readOnly:  true,
		constView: b.constView,
		arc:       b.arc,
		ctl:       b.ctl,
	}
}

func (b *buf) ReadableSlice() Buffer { return b.Slice(b.roff, b.ReadableBytes()) }

func (b *buf) Split() (Buffer, error) { return b.SplitAt(b.woff) }

func (b *buf) SplitAt(offset int) (Buffer, error) {
	if b.closed {
		return nil, errors.Wrap(ErrClosed, "cannot split")
	}
	if offset < 0 || offset > len(b.seg) {
		return nil, errors.Wrapf(ErrOutOfBounds,
			"split offset %d out of bounds [0, %d]", offset, len(b.seg))
	}
	if !b.arc.IsOwned() {
		return nil, errors.Wrap(ErrNotOwned, "cannot split")
	}
	// The current count becomes the region-level count: one arc per half,
	// each half owned through a fresh count of one over it.
	region := b.arc
	if err := region.Acquire(); err != nil {
		return nil, err
	}
	detachOwner(region, b)
	front := &buf{
		seg:       b.seg[:offset:offset],
		roff:      min(b.roff, offset),
		woff:      min(b.woff, offset),
		end:       b.end,
		kind:      b.kind,
		readOnly:  b.readOnly,
		constView: b.constView,
		ctl:       b.ctl,
	}
	front.arc = ShareDrop(makeInaccessibleDrop(front, DropFunc(region.Drop)))
	b.seg = b.seg[offset:]
	b.roff = max(b.roff-offset, 0)
	b.woff = max(b.woff-offset, 0)
	b.arc = ShareDrop(makeInaccessibleDrop(b, DropFunc(region.Drop)))
	return front, nil
}

func (b *buf) Compact() error {
	if b.closed {
		return errors.Wrap(ErrClosed, "cannot compact")
	}
	if b.readOnly {
		return errors.Wrap(ErrReadOnly, "cannot compact")
	}
	if !b.arc.IsOwned() {
		return errors.Wrap(ErrNotOwned, "cannot compact")
	}
	copy(b.seg, b.seg[b.roff:b.woff])
	b.woff -= b.roff
	b.roff = 0
	return nil
}

func (b *buf) EnsureWritable(size, minimumGrowth int, allowCompaction bool) error {
	if b.closed {
		return errors.Wrap(ErrClosed, "cannot grow")
	}
	if size < 0 || minimumGrowth < 0 {
		return errors.Wrapf(ErrInvalidArgument,
			"size %d and minimum growth %d must be non-negative", size, minimumGrowth)
	}
	if b.readOnly {
		return errors.Wrap(ErrReadOnly, "cannot grow")
	}
	if !b.arc.IsOwned() {
		return errors.Wrap(ErrNotOwned, "cannot grow")
	}
	if b.WritableBytes() >= size {
		return nil
	}
	if allowCompaction && b.WritableBytes()+b.roff >= size {
		return b.Compact()
	}
	if b.ctl == nil {
		return errors.Wrap(ErrInvalidArgument, "buffer has no allocator control")
	}
	growth := max(size-b.WritableBytes(), minimumGrowth)
	mem, err := b.ctl.AllocateUntethered(b, len(b.seg)+growth)
	if err != nil {
		return err
	}
	copy(mem.Seg, b.seg[:b.woff])
	// Detach the old region. Other references to it, created by earlier
	// splits, stay valid until their own close.
	old := b.arc
	detachOwner(old, b)
	b.seg = mem.Seg
	b.arc = ShareDrop(makeInaccessibleDrop(b, mem.Drop))
	old.Drop()
	return nil
}

func (b *buf) CopyInto(srcPos int, dst []byte, dstPos, length int) error {
	if b.closed {
		return errors.Wrap(ErrClosed, "cannot copy")
	}
	if length < 0 {
		return errors.Wrapf(ErrInvalidArgument, "negative copy length %d", length)
	}
	if srcPos < 0 || srcPos+length > len(b.seg) {
		return errors.Wrapf(ErrOutOfBounds,
			"copy of %d bytes at offset %d exceeds capacity %d", length, srcPos, len(b.seg))
	}
	if dstPos < 0 || dstPos+length > len(dst) {
		return errors.Wrapf(ErrOutOfBounds,
			"copy of %d bytes at offset %d exceeds destination length %d", length, dstPos, len(dst))
	}
	copy(dst[dstPos:dstPos+length], b.seg[srcPos:srcPos+length])
	return nil
}

func (b *buf) CopyIntoBuffer(srcPos int, dst Buffer, dstPos, length int) error {
	if err := checkBufferCopy(b, srcPos, dst, dstPos, length); err != nil {
		return err
	}
	if db, ok := dst.(*buf); ok {
		// copy is memmove under the hood, so overlapping regions of the
		// same backing memory are handled.
		copy(db.seg[dstPos:dstPos+length], b.seg[srcPos:srcPos+length])
		return nil
	}
	copyByteWalk(b, srcPos, dst, dstPos, length)
	return nil
}

func (b *buf) WriteBytes(src Buffer) error { return writeBytes(b, src) }

// checkBufferCopy validates a cursor-invariant buffer-to-buffer copy.
func checkBufferCopy(src Buffer, srcPos int, dst Buffer, dstPos, length int) error {
	if !src.IsAccessible() {
		return errors.Wrap(ErrClosed, "copy source is closed")
	}
	if dst == nil {
		return errors.Wrap(ErrInvalidArgument, "nil copy destination")
	}
	if !dst.IsAccessible() {
		return errors.Wrap(ErrClosed, "copy destination is closed")
	}
	if dst.IsReadOnly() {
		return errors.Wrap(ErrReadOnly, "copy destination is read-only")
	}
	if !dst.IsOwned() {
		return errors.Wrap(ErrReadOnly, "copy destination is borrowed")
	}
	if length < 0 {
		return errors.Wrapf(ErrInvalidArgument, "negative copy length %d", length)
	}
	if srcPos < 0 || srcPos+length > src.Capacity() {
		return errors.Wrapf(ErrOutOfBounds,
			"copy of %d bytes at offset %d exceeds source capacity %d", length, srcPos, src.Capacity())
	}
	if dstPos < 0 || dstPos+length > dst.Capacity() {
		return errors.Wrapf(ErrOutOfBounds,
			"copy of %d bytes at offset %d exceeds destination capacity %d", length, dstPos, dst.Capacity())
	}
	return nil
}

// copyByteWalk is the cross-backend fallback. It walks in reverse cursor
// order, so an overlapping copy over shared memory is correct when the
// destination lies above the source; an overlapping destination below the
// source is not handled.
func copyByteWalk(src Buffer, srcPos int, dst Buffer, dstPos, length int) {
	for i := length - 1; i >= 0; i-- {
		dst.OverwriteU8(dstPos+i, src.PeekU8(srcPos+i))
	}
}

// writeBytes drains the readable region of src into dst, advancing the
// write cursor of dst and the read cursor of src.
func writeBytes(dst, src Buffer) error {
	if src == nil {
		return errors.Wrap(ErrInvalidArgument, "nil source buffer")
	}
	n := src.ReadableBytes()
	if n == 0 {
		return nil
	}
	if dst.WritableBytes() < n {
		return errors.Wrapf(ErrOutOfBounds,
			"write of %d bytes exceeds %d writable bytes", n, dst.WritableBytes())
	}
	if err := src.CopyIntoBuffer(src.ReaderOffset(), dst, dst.WriterOffset(), n); err != nil {
		return err
	}
	dst.SetWriterOffset(dst.WriterOffset() + n)
	src.SetReaderOffset(src.ReaderOffset() + n)
	return nil
}
