// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package membuf

import "encoding/binary"

// Endian represents byte order for multi-byte values.
type Endian bool

const (
	// BigEndian represents big-endian byte order.
	BigEndian Endian = false
	// LittleEndian represents little-endian byte order.
	LittleEndian Endian = true
)

// NativeEndian is the byte order of the host. Freshly allocated buffers
// start out in this order.
var NativeEndian = func() Endian {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 0x0102)
	if probe[0] == 0x02 {
		return LittleEndian
	}
	return BigEndian
}()

// order returns the encoding/binary codec for this byte order.
func (e Endian) order() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e Endian) String() string {
	if e == LittleEndian {
		return "LittleEndian"
	}
	return "BigEndian"
}
