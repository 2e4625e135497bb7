// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

const (
	sendPending int32 = iota
	sendConsumed
	sendDiscarded
)

// Send is a one-shot carrier of exclusive buffer ownership across threads.
// It is produced by Buffer.Send, which makes the origin buffer
// inaccessible, and consumed by Receive, which materializes a fresh owned
// buffer carrying the origin's snapshot (offsets, order, read-only and
// const-view state). The state transition uses an atomic compare-and-swap,
// so every write made before Send is visible after Receive.
type Send struct {
	state   atomic.Int32
	kind    Kind
	receive func() Buffer
	discard func()
}

// IsSendOf reports whether s carries a buffer of the given kind. The
// answer stays truthful after the envelope is consumed or discarded.
func IsSendOf(kind Kind, s *Send) bool { return s != nil && s.kind == kind }

// BufferKind returns the kind of the carried buffer.
func (s *Send) BufferKind() Kind { return s.kind }

// Receive materializes the carried buffer. It succeeds exactly once;
// further calls, and calls after Discard, fail.
func (s *Send) Receive() (Buffer, error) {
	if !s.state.CompareAndSwap(sendPending, sendConsumed) {
		return nil, errors.Wrap(ErrSendState, "envelope already consumed or discarded")
	}
	return s.receive(), nil
}

// Discard releases the carried buffer without receiving it. The backing
// memory is reclaimed as if the buffer was closed.
func (s *Send) Discard() error {
	if !s.state.CompareAndSwap(sendPending, sendDiscarded) {
		return errors.Wrap(ErrSendState, "envelope already consumed or discarded")
	}
	s.discard()
	return nil
}

func (b *buf) Send() (*Send, error) {
	if b.sent {
		return nil, errors.Wrap(ErrSendState, "Cannot send() a buffer that has already been sent")
	}
	if b.closed {
		return nil, errors.Wrap(ErrClosed, "cannot send")
	}
	if !b.arc.IsOwned() {
		return nil, errors.Wrap(ErrNotOwned, "cannot send a borrowed buffer")
	}
	snapshot := *b
	detachOwner(b.arc, b)
	b.closed = true
	b.sent = true
	s := &Send{kind: b.kind}
	s.receive = func() Buffer {
		nb := &buf{
			seg:       snapshot.seg,
			roff:      snapshot.roff,
			woff:      snapshot.woff,
			end:       snapshot.end,
			kind:      snapshot.kind,
			readOnly:  snapshot.readOnly,
			constView: snapshot.constView,
			ctl:       snapshot.ctl,
		}
		nb.arc = snapshot.arc
		attachOwner(nb.arc, nb)
		return nb
	}
	s.discard = func() { snapshot.arc.Drop() }
	return s, nil
}

// attachOwner points the region's make-inaccessible adapter at b when the
// adapter is currently unattached.
func attachOwner(arc *SharedDrop, b *buf) {
	if od, ok := arc.Unwrap().(*ownerDrop); ok && od.owner == nil {
		od.owner = b
	}
}
