// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import "errors"

var (
	// ErrOutOfBounds reports an offset or length outside the valid range of
	// the operation.
	ErrOutOfBounds = errors.New("membuf: offset or length out of bounds")

	// ErrClosed reports an access to a buffer, envelope, or shared drop that
	// has been closed or otherwise made inaccessible.
	ErrClosed = errors.New("membuf: buffer is closed")

	// ErrReadOnly reports a mutating operation on a read-only buffer.
	ErrReadOnly = errors.New("membuf: buffer is read-only")

	// ErrNotOwned reports an operation that requires exclusive ownership on a
	// buffer that is currently borrowed.
	ErrNotOwned = errors.New("membuf: buffer is borrowed")

	// ErrSendState reports a send of an already-sent buffer, or a receive on
	// an envelope that was already consumed or discarded.
	ErrSendState = errors.New("membuf: invalid send state")

	// ErrInvalidArgument reports invalid input such as a negative size or
	// mixed byte-order composite components.
	ErrInvalidArgument = errors.New("membuf: invalid argument")
)
