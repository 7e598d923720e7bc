// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package membytes provides high-throughput, off-heap, random-access and
// streaming views over raw memory, heap buffers and memory-mapped files.
//
// The core types are BytesStore (a family of byte containers: Native, Heap,
// Mapped and Empty) and Bytes (a position/limit cursor streaming over a
// store). Every store and cursor is reference-counted (see ReferenceCounted)
// so native and mapped resources are released deterministically rather than
// left to the garbage collector.
package membytes

import "math"

// Variant tags the concrete kind of a BytesStore. Bulk operations do not
// dispatch on it: every pair of variants is copied through the same
// strided []byte copy.
type Variant int

const (
	// VariantNative is off-heap memory obtained from the OS (anonymous mmap).
	VariantNative Variant = iota
	// VariantHeap is a Go-heap-backed []byte.
	VariantHeap
	// VariantMapped is a region produced by mapping a file.
	VariantMapped
	// VariantEmpty is the process-wide zero-length singleton.
	VariantEmpty
	// VariantNoStore is reported by a Native, Heap or Mapped store once its
	// reference count has reached zero and its backing memory has been
	// released; it is never the variant a live store reports.
	VariantNoStore
)

func (v Variant) String() string {
	switch v {
	case VariantNative:
		return "native"
	case VariantHeap:
		return "heap"
	case VariantMapped:
		return "mapped"
	case VariantEmpty:
		return "empty"
	case VariantNoStore:
		return "no-store"
	default:
		return "unknown"
	}
}

// MaxCapacity is the capacity() reported by an elastic store: it never
// reflects the store's current allocation, only the theoretical ceiling.
const MaxCapacity = math.MaxInt64

// BytesStore is the uniform typed random-access contract shared by every
// store variant. Offsets are absolute byte offsets within the store;
// callers needing a streaming view should use a Bytes cursor instead.
type BytesStore interface {
	// Variant reports which concrete kind of store this is.
	Variant() Variant

	// Capacity returns the store's nominal capacity. For an elastic store
	// this is MaxCapacity; use RealCapacity for the currently backed size.
	Capacity() int64
	// RealCapacity returns the currently allocated/backed size.
	RealCapacity() int64
	// IsElastic reports whether writes past RealCapacity trigger a grow
	// instead of signaling ErrBufferOverflow.
	IsElastic() bool

	ReadByte(offset int64) (byte, error)
	ReadShort(offset int64) (int16, error)
	ReadInt(offset int64) (int32, error)
	ReadLong(offset int64) (int64, error)
	ReadFloat(offset int64) (float32, error)
	ReadDouble(offset int64) (float64, error)

	WriteByte(offset int64, v byte) error
	WriteShort(offset int64, v int16) error
	WriteInt(offset int64, v int32) error
	WriteLong(offset int64, v int64) error
	WriteFloat(offset int64, v float32) error
	WriteDouble(offset int64, v float64) error

	ReadVolatileInt(offset int64) (int32, error)
	ReadVolatileLong(offset int64) (int64, error)
	WriteVolatileInt(offset int64, v int32) error
	WriteVolatileLong(offset int64, v int64) error
	WriteOrderedInt(offset int64, v int32) error
	WriteOrderedLong(offset int64, v int64) error

	CompareAndSwapInt(offset int64, expected, new int32) (bool, error)
	CompareAndSwapLong(offset int64, expected, new int64) (bool, error)
	AddAndGetInt(offset int64, delta int32) (int32, error)
	AddAndGetLong(offset int64, delta int64) (int64, error)

	// Write copies length bytes from src[offset:offset+length) to this
	// store at destOffset.
	Write(destOffset int64, src []byte, offset, length int) error
	// WriteFrom copies length bytes from another store at srcOffset to
	// this store at destOffset, with the same strided copy whatever the
	// pair of variants involved.
	WriteFrom(destOffset int64, src BytesStore, srcOffset int64, length int64) error
	// CopyTo copies this store's entire readable content into dst,
	// starting at dst offset 0.
	CopyTo(dst BytesStore) error

	// ByteCheckSum returns the low 8 bits of the unsigned sum of bytes in
	// [start, end).
	ByteCheckSum(start, end int64) (byte, error)
	// FastHash returns a 32-bit hash of the length bytes starting at
	// offset, using a specialized-length table and falling through to the
	// generic hash otherwise.
	FastHash(offset int64, length int64) (int32, error)

	// ZeroOut writes zeros over [start, end) ∩ [0, RealCapacity()).
	ZeroOut(start, end int64) error

	// AddressForRead and AddressForWrite return the absolute native
	// address backing offset, for direct interop. Heap stores return
	// ErrUnsupported.
	AddressForRead(offset int64) (uintptr, error)
	AddressForWrite(offset int64) (uintptr, error)

	// Equals reports whether other's readable content is byte-for-byte
	// identical to this store's.
	Equals(other BytesStore) bool
	// HashCode returns the 32-bit content hash over readable content.
	HashCode() int32

	// Reserve, Release, TryReserve, ReleaseLast and ReservedBy implement
	// the reference-counting contract.
	Reserve(owner Owner) error
	Release(owner Owner) error
	TryReserve(owner Owner) bool
	ReleaseLast(owner Owner) error
	ReservedBy(owner Owner) bool
	RefCount() int64

	// BytesForRange returns a direct []byte view of [offset, offset+length)
	// for internal use by Bytes (Copy), WriteFrom and content equality; it
	// is not part of the external contract callers outside this package
	// should rely on.
	BytesForRange(offset, length int64) ([]byte, error)

	// growIfNeeded is invoked before every write; an elastic store grows
	// when the write's end exceeds RealCapacity(). Fixed stores return nil
	// and leave ErrBufferOverflow to the write's own bounds check.
	growIfNeeded(end int64) error
}

const (
	sizeByte   = 1
	sizeShort  = 2
	sizeInt    = 4
	sizeLong   = 8
	sizeFloat  = 4
	sizeDouble = 8
)

// checkRead validates a read of length bytes at offset against limit (the
// store's RealCapacity for direct BytesStore access).
func checkRead(where string, offset, length, limit int64) error {
	if offset < 0 {
		return &ErrInvalidArgument{Where: where, Value: offset}
	}
	if offset+length > limit {
		return &ErrBufferUnderflow{Where: where, Offset: offset, Length: length}
	}
	return nil
}

// checkWrite validates a write of length bytes at offset against limit for a
// non-elastic store.
func checkWrite(where string, offset, length, limit int64) error {
	if offset < 0 {
		return &ErrInvalidArgument{Where: where, Value: offset}
	}
	if offset+length > limit {
		return &ErrBufferOverflow{Where: where, Offset: offset, Length: length}
	}
	return nil
}
