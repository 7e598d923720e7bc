// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"unsafe"
)

// The functions in this file operate on a raw []byte view of a region,
// shared by every store variant (native, heap and mapped stores all end up
// exposing their backing memory as a []byte — for native/mapped stores that
// slice is produced via unsafe.Slice over the mapped address, for heap
// stores it is the Go slice itself). Centralizing the typed accesses here
// keeps the per-variant files (store_native.go, store_heap.go,
// store_mapped.go) down to bookkeeping and bounds checks.

func getByte(b []byte, off int64) byte { return b[off] }
func putByte(b []byte, off int64, v byte) { b[off] = v }

func getShort(b []byte, off int64) int16 {
	return int16(binary.NativeEndian.Uint16(b[off : off+2]))
}
func putShort(b []byte, off int64, v int16) {
	binary.NativeEndian.PutUint16(b[off:off+2], uint16(v))
}

func getInt(b []byte, off int64) int32 {
	return int32(binary.NativeEndian.Uint32(b[off : off+4]))
}
func putInt(b []byte, off int64, v int32) {
	binary.NativeEndian.PutUint32(b[off:off+4], uint32(v))
}

func getLong(b []byte, off int64) int64 {
	return int64(binary.NativeEndian.Uint64(b[off : off+8]))
}
func putLong(b []byte, off int64, v int64) {
	binary.NativeEndian.PutUint64(b[off:off+8], uint64(v))
}

func getFloat(b []byte, off int64) float32 {
	return math.Float32frombits(binary.NativeEndian.Uint32(b[off : off+4]))
}
func putFloat(b []byte, off int64, v float32) {
	binary.NativeEndian.PutUint32(b[off:off+4], math.Float32bits(v))
}

func getDouble(b []byte, off int64) float64 {
	return math.Float64frombits(binary.NativeEndian.Uint64(b[off : off+8]))
}
func putDouble(b []byte, off int64, v float64) {
	binary.NativeEndian.PutUint64(b[off:off+8], math.Float64bits(v))
}

// int32Ptr and int64Ptr produce pointers into b for use with sync/atomic.
// Callers (store_*.go) are responsible for the bounds check and for the
// offset's alignment; these are purely pointer arithmetic.
func int32Ptr(b []byte, off int64) *int32 {
	return (*int32)(unsafe.Pointer(&b[off]))
}
func int64Ptr(b []byte, off int64) *int64 {
	return (*int64)(unsafe.Pointer(&b[off]))
}

func getVolatileInt(b []byte, off int64) int32   { return atomic.LoadInt32(int32Ptr(b, off)) }
func getVolatileLong(b []byte, off int64) int64  { return atomic.LoadInt64(int64Ptr(b, off)) }
func putVolatileInt(b []byte, off int64, v int32) { atomic.StoreInt32(int32Ptr(b, off), v) }
func putVolatileLong(b []byte, off int64, v int64) { atomic.StoreInt64(int64Ptr(b, off), v) }

// putOrderedInt/Long are release-only stores: on every architecture Go's
// sync/atomic targets, a plain atomic store already has release semantics,
// so an "ordered" write (store without the full seq-cst fence on some
// platforms) is implemented identically to a volatile write.
func putOrderedInt(b []byte, off int64, v int32)  { atomic.StoreInt32(int32Ptr(b, off), v) }
func putOrderedLong(b []byte, off int64, v int64) { atomic.StoreInt64(int64Ptr(b, off), v) }

func casInt(b []byte, off int64, expected, new int32) bool {
	return atomic.CompareAndSwapInt32(int32Ptr(b, off), expected, new)
}
func casLong(b []byte, off int64, expected, new int64) bool {
	return atomic.CompareAndSwapInt64(int64Ptr(b, off), expected, new)
}

func addAndGetInt(b []byte, off int64, delta int32) int32 {
	return atomic.AddInt32(int32Ptr(b, off), delta)
}
func addAndGetLong(b []byte, off int64, delta int64) int64 {
	return atomic.AddInt64(int64Ptr(b, off), delta)
}
