// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"unicode/utf8"
)

// Write8BitString writes s as a stop-bit length (the byte count) followed by
// one byte per rune. Every rune must fit in a single byte (ISO-8859-1
// range); WriteUTF8String is the general-purpose codec for anything wider.
func (b *Bytes) Write8BitString(s string) error {
	runes := []rune(s)
	if err := b.WriteStopBitUint(uint64(len(runes))); err != nil {
		return err
	}
	for _, r := range runes {
		if r < 0 || r > 0xFF {
			return &ErrInvalidArgument{Where: "Write8BitString", Value: r}
		}
		if err := b.WriteByte(byte(r)); err != nil {
			return err
		}
	}
	return nil
}

// Read8BitString reads a string written by Write8BitString.
func (b *Bytes) Read8BitString() (string, error) {
	n, err := b.ReadStopBitUint()
	if err != nil {
		return "", err
	}
	runes := make([]rune, n)
	for i := range runes {
		v, err := b.ReadByte()
		if err != nil {
			return "", err
		}
		runes[i] = rune(v)
	}
	return string(runes), nil
}

// WriteUTF8String writes s as a stop-bit byte-length prefix followed by its
// UTF-8 bytes, restricted to the Basic Multilingual Plane: runes whose
// UTF-8 encoding would take 4 bytes (U+10000 and above) are rejected rather
// than silently re-encoded as a surrogate pair, since the wire format has
// no room for one and round-tripping a rejected rune would silently
// corrupt it.
func (b *Bytes) WriteUTF8String(s string) error {
	for _, r := range s {
		if utf8.RuneLen(r) > 3 {
			return &ErrInvalidArgument{Where: "WriteUTF8String", Value: r}
		}
	}
	raw := []byte(s)
	if err := b.WriteStopBitUint(uint64(len(raw))); err != nil {
		return err
	}
	return b.Write(raw)
}

// ReadUTF8String reads a string written by WriteUTF8String, rejecting any
// 4-byte UTF-8 sequence it encounters.
func (b *Bytes) ReadUTF8String() (string, error) {
	n, err := b.ReadStopBitUint()
	if err != nil {
		return "", err
	}
	raw := make([]byte, n)
	for i := range raw {
		v, err := b.ReadByte()
		if err != nil {
			return "", err
		}
		raw[i] = v
	}
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			return "", &ErrInvalidArgument{Where: "ReadUTF8String", Value: "invalid utf8"}
		}
		if size == 4 {
			return "", &ErrInvalidArgument{Where: "ReadUTF8String", Value: "4-byte utf8 sequence rejected"}
		}
		i += size
	}
	return string(raw), nil
}
