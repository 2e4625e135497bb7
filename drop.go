// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// Drop is the reclamation handle of a memory region. It is invoked exactly
// once, when the last owner of the region releases it.
type Drop interface {
	Drop()
}

// DropFunc adapts a plain function to the Drop interface.
type DropFunc func()

func (f DropFunc) Drop() { f() }

// NopDrop is a Drop that does nothing. Heap regions use it because the
// garbage collector reclaims them.
var NopDrop Drop = DropFunc(func() {})

// SharedDrop maintains an atomic positive count of logical owners over a
// single underlying Drop. Acquire increments the count, Drop decrements it
// and invokes the underlying handle only on the transition to zero. A count
// of zero is a permanent terminal state.
type SharedDrop struct {
	count atomic.Int32
	inner Drop
}

// ShareDrop wraps d in a SharedDrop with an initial count of one. Wrapping
// is idempotent: sharing an already-shared drop returns it unchanged.
func ShareDrop(d Drop) *SharedDrop {
	if sd, ok := d.(*SharedDrop); ok {
		return sd
	}
	sd := &SharedDrop{inner: d}
	sd.count.Store(1)
	return sd
}

// Acquire registers one more owner. It fails once the count has reached
// zero, since the underlying region is already reclaimed.
func (d *SharedDrop) Acquire() error {
	for {
		n := d.count.Load()
		if n <= 0 {
			return errors.Wrap(ErrClosed, "cannot acquire a released drop")
		}
		if d.count.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Drop releases one owner. The decrement that reaches zero invokes the
// underlying handle; further calls are no-ops.
func (d *SharedDrop) Drop() {
	for {
		n := d.count.Load()
		if n <= 0 {
			return
		}
		if d.count.CompareAndSwap(n, n-1) {
			if n == 1 {
				d.inner.Drop()
			}
			return
		}
	}
}

// IsOwned reports whether at most one owner remains.
func (d *SharedDrop) IsOwned() bool { return d.count.Load() <= 1 }

// Borrows returns the number of owners beyond the first.
func (d *SharedDrop) Borrows() int {
	n := int(d.count.Load()) - 1
	if n < 0 {
		return 0
	}
	return n
}

// Unwrap returns the underlying Drop.
func (d *SharedDrop) Unwrap() Drop { return d.inner }

// ownerDrop decorates a reclamation handle so that reclaiming the region
// also forces the attached buffer into the closed state. The attachment is
// severed when the buffer detaches from the region, e.g. when it installs a
// fresh region during growth.
type ownerDrop struct {
	owner *buf
	inner Drop
}

func (d *ownerDrop) Drop() {
	if d.owner != nil {
		d.owner.closed = true
	}
	d.inner.Drop()
}

func makeInaccessibleDrop(b *buf, inner Drop) Drop {
	return &ownerDrop{owner: b, inner: inner}
}

// detachOwner severs the region-to-buffer attachment of arc when it targets
// b, leaving the reclamation itself in place.
func detachOwner(arc *SharedDrop, b *buf) {
	if od, ok := arc.Unwrap().(*ownerDrop); ok && od.owner == b {
		od.owner = nil
	}
}
