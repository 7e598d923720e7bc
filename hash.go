// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"encoding/binary"

	"github.com/klauspost/cpuid/v2"
	"github.com/spaolacci/murmur3"
)

// fastHash specializes for lengths 0, 1, 2, 4 and 8, falling back to
// genericHash (murmur3) for any other length.
func fastHash(b []byte, offset, length int64) int32 {
	var ret int64
	switch length {
	case 0:
		return 0
	case 1:
		ret = int64(getByte(b, offset))
	case 2:
		ret = int64(getShort(b, offset))
	case 4:
		ret = int64(getInt(b, offset))
	case 8:
		lo := int64(getInt(b, offset))
		hi := int64(getInt(b, offset+4))
		ret = lo*0x6d0f27bd + hi
	default:
		return genericHash(b[offset : offset+length])
	}
	hash := ret * 0x855dd4db
	return int32(hash ^ (hash >> 32))
}

// genericHash is fastHash's fallback for lengths outside the specialized
// table.
func genericHash(b []byte) int32 {
	h := murmur3.Sum32(b)
	return int32(h)
}

// hash32 returns the canonical 32-bit content hash over b; two byte slices
// equal under contentEqual must hash equal here, so trailing zero bytes
// (which contentEqual's padding rule ignores) are left out of the hash.
func hash32(b []byte) int32 {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	if len(b) == 0 {
		return 0
	}
	return genericHash(b)
}

// copyTail is the minimum remaining-byte count below which we fall back to a
// byte-at-a-time copy/compare/zero loop instead of an 8-byte stride.
const copyTail = 8

// copyStrided copies src into dst (len(src) == len(dst) is assumed, checked
// by callers) proceeding in 8-byte strides until fewer than 8 bytes remain.
func copyStrided(dst, src []byte) {
	n := len(src)
	i := 0
	for ; i+copyTail <= n; i += copyTail {
		binary.NativeEndian.PutUint64(dst[i:i+8], binary.NativeEndian.Uint64(src[i:i+8]))
	}
	for ; i < n; i++ {
		dst[i] = src[i]
	}
}

// zeroOutStrided zeros b, aligning to an 8-byte boundary first and then
// striding by 8, skipping already-zero longs to avoid dirtying cache lines
// unnecessarily.
func zeroOutStrided(b []byte) {
	n := len(b)
	i := 0
	for ; i < n && i%8 != 0; i++ {
		b[i] = 0
	}
	for ; i+8 <= n; i += 8 {
		if binary.NativeEndian.Uint64(b[i:i+8]) != 0 {
			binary.NativeEndian.PutUint64(b[i:i+8], 0)
		}
	}
	for ; i < n; i++ {
		b[i] = 0
	}
}

// contentEqualBytes compares a (this store's entire readable content) with
// other's entire readable content: when the longer side has extra length,
// the surplus must be all zero.
func contentEqualBytes(a []byte, other BytesStore) bool {
	if other == nil {
		return a == nil
	}
	ob, err := other.BytesForRange(0, other.RealCapacity())
	if err != nil {
		return false
	}
	return contentEqual(a, ob)
}

// contentEqual compares the equal length prefix in 8-byte strides
// (accelerated by findFirstMismatch when the CPU and slice length qualify,
// scalar otherwise), with any surplus on the longer side required to be all
// zero.
func contentEqual(a, b []byte) bool {
	short, long := a, b
	if len(long) < len(short) {
		short, long = long, short
	}
	n := len(short)
	if mismatch := findFirstMismatch(short[:n], long[:n]); mismatch != n {
		return false
	}
	for _, v := range long[n:] {
		if v != 0 {
			return false
		}
	}
	return true
}

// wideCompareStride is the number of bytes consumed per loop iteration when
// the host CPU advertises AVX2 (two 8-byte lanes unrolled per compare,
// halving the loop-overhead-to-payload ratio versus the plain 8-byte
// stride) and a 16-byte stride otherwise falls back to 8. This is not a real
// SIMD path — there is no assembly in this pure-Go build — only a loop
// unroll gated on a capability query, used as an optional acceleration over
// the scalar loop, which always remains definitive.
var wideCompareStride = func() int {
	if cpuid.CPU.Supports(cpuid.AVX2) {
		return 16
	}
	return 8
}()

// findFirstMismatch returns the index of the first byte at which a and b
// (equal length) differ, or len(a) if they are identical. The scalar 8-byte
// tail loop is always definitive; wideCompareStride only changes how many
// bytes are checked per iteration of the fast path above it.
func findFirstMismatch(a, b []byte) int {
	n := len(a)
	i := 0
	for ; i+wideCompareStride <= n; i += wideCompareStride {
		if !bytes8Equal(a[i:i+wideCompareStride], b[i:i+wideCompareStride]) {
			break
		}
	}
	for ; i+8 <= n; i += 8 {
		if binary.NativeEndian.Uint64(a[i:i+8]) != binary.NativeEndian.Uint64(b[i:i+8]) {
			break
		}
	}
	for ; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// bytes8Equal compares equal-length byte slices whose length is a multiple
// of 8 using 8-byte-at-a-time loads.
func bytes8Equal(a, b []byte) bool {
	for i := 0; i < len(a); i += 8 {
		if binary.NativeEndian.Uint64(a[i:i+8]) != binary.NativeEndian.Uint64(b[i:i+8]) {
			return false
		}
	}
	return true
}
