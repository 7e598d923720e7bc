// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import "fmt"

// Stop-bit encoding packs an integer as a sequence of 7-bit groups,
// least-significant group first; every byte but the last has its top bit
// set to signal "more to come" (hence "stop bit": the first byte with the
// top bit clear stops the sequence). This looks like LEB128 but is not
// wire-compatible with it or with encoding/binary's (Un)Varint: a negative
// value is encoded by first emitting a lone continuation byte whose 7 value
// bits are all zero (0x80), then encoding the bitwise complement of the
// value as an ordinary unsigned stop-bit sequence. The all-zero leading
// continuation byte is the decode-time signal that a sign-flip follows; it
// can never appear as the output of the unsigned path (which always leaves
// at least one group's low bits nonzero except for the literal value 0,
// which stops immediately in a single non-continuation byte).
const maxStopBitBytes = 10

// WriteStopBitUint writes v as an unsigned stop-bit sequence.
func (b *Bytes) WriteStopBitUint(v uint64) error {
	for v >= 0x80 {
		if err := b.WriteByte(byte(v&0x7f) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return b.WriteByte(byte(v))
}

// ReadStopBitUint reads an unsigned stop-bit sequence.
func (b *Bytes) ReadStopBitUint() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < maxStopBitBytes; i++ {
		v, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(v&0x7f) << shift
		if v&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, fmt.Errorf("membytes: stop-bit sequence exceeds %d bytes", maxStopBitBytes)
}

// WriteStopBitInt writes a signed value, using the negative-sentinel
// encoding described above for v < 0.
func (b *Bytes) WriteStopBitInt(v int64) error {
	if v < 0 {
		if err := b.WriteByte(0x80); err != nil {
			return err
		}
		v = ^v
	}
	return b.WriteStopBitUint(uint64(v))
}

// ReadStopBitInt reads a value written by WriteStopBitInt.
func (b *Bytes) ReadStopBitInt() (int64, error) {
	first, err := b.ReadByte()
	if err != nil {
		return 0, err
	}
	if first == 0x80 {
		u, err := b.ReadStopBitUint()
		if err != nil {
			return 0, err
		}
		return ^int64(u), nil
	}
	if first&0x80 == 0 {
		return int64(first), nil
	}
	// Continuation of an ordinary (non-negative) sequence: unread the first
	// byte's contribution by re-running the unsigned decode loop starting
	// from it.
	var result uint64 = uint64(first & 0x7f)
	var shift uint = 7
	for i := 1; i < maxStopBitBytes; i++ {
		v, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(v&0x7f) << shift
		if v&0x80 == 0 {
			return int64(result), nil
		}
		shift += 7
	}
	return 0, fmt.Errorf("membytes: stop-bit sequence exceeds %d bytes", maxStopBitBytes)
}
