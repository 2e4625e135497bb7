// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import "github.com/pkg/errors"

// Holder is an embeddable base for types that wrap and mediate access to a
// single buffer, such as mutable reference carriers. It owns the wrapped
// buffer: replacing or closing the holder closes the buffer it held.
type Holder struct {
	b Buffer
}

// NewHolder wraps b.
func NewHolder(b Buffer) Holder {
	if b == nil {
		panic(errors.Wrap(ErrInvalidArgument, "membuf.Holder: nil buffer"))
	}
	return Holder{b: b}
}

// NewHolderReceiving wraps the buffer carried by s.
func NewHolderReceiving(s *Send) (Holder, error) {
	if s == nil {
		return Holder{}, errors.Wrap(ErrInvalidArgument, "nil envelope")
	}
	b, err := s.Receive()
	if err != nil {
		return Holder{}, err
	}
	return Holder{b: b}, nil
}

// Get returns the wrapped buffer.
func (h *Holder) Get() Buffer { return h.b }

// Replace closes the current buffer and installs b in its place.
func (h *Holder) Replace(b Buffer) {
	if b == nil {
		panic(errors.Wrap(ErrInvalidArgument, "membuf.Holder: nil buffer"))
	}
	_ = h.b.Close()
	h.b = b
}

// ReplaceReceiving replaces the current buffer with the one carried by s.
func (h *Holder) ReplaceReceiving(s *Send) error {
	if s == nil {
		return errors.Wrap(ErrInvalidArgument, "nil envelope")
	}
	b, err := s.Receive()
	if err != nil {
		return err
	}
	h.Replace(b)
	return nil
}

// IsAccessible reports whether the wrapped buffer is accessible.
func (h *Holder) IsAccessible() bool { return h.b != nil && h.b.IsAccessible() }

// Close closes the wrapped buffer.
func (h *Holder) Close() error {
	if h.b == nil {
		return nil
	}
	return h.b.Close()
}
