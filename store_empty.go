// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

// emptyStore is the process-wide zero-length singleton returned when a
// caller passes a zero/empty argument. reserve/release are no-ops; it is
// never freed.
type emptyStore struct{}

var _ BytesStore = emptyStore{}

// Empty is the process-wide EmptyStore singleton.
var Empty BytesStore = emptyStore{}

func (emptyStore) Variant() Variant    { return VariantEmpty }
func (emptyStore) Capacity() int64     { return 0 }
func (emptyStore) RealCapacity() int64 { return 0 }
func (emptyStore) IsElastic() bool     { return false }

func (emptyStore) ReadByte(offset int64) (byte, error) {
	return 0, &ErrBufferUnderflow{Where: "EmptyStore.ReadByte", Offset: offset, Length: sizeByte}
}
func (emptyStore) ReadShort(offset int64) (int16, error) {
	return 0, &ErrBufferUnderflow{Where: "EmptyStore.ReadShort", Offset: offset, Length: sizeShort}
}
func (emptyStore) ReadInt(offset int64) (int32, error) {
	return 0, &ErrBufferUnderflow{Where: "EmptyStore.ReadInt", Offset: offset, Length: sizeInt}
}
func (emptyStore) ReadLong(offset int64) (int64, error) {
	return 0, &ErrBufferUnderflow{Where: "EmptyStore.ReadLong", Offset: offset, Length: sizeLong}
}
func (emptyStore) ReadFloat(offset int64) (float32, error) {
	return 0, &ErrBufferUnderflow{Where: "EmptyStore.ReadFloat", Offset: offset, Length: sizeFloat}
}
func (emptyStore) ReadDouble(offset int64) (float64, error) {
	return 0, &ErrBufferUnderflow{Where: "EmptyStore.ReadDouble", Offset: offset, Length: sizeDouble}
}

func (emptyStore) WriteByte(offset int64, _ byte) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteByte", Offset: offset, Length: sizeByte}
}
func (emptyStore) WriteShort(offset int64, _ int16) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteShort", Offset: offset, Length: sizeShort}
}
func (emptyStore) WriteInt(offset int64, _ int32) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteInt", Offset: offset, Length: sizeInt}
}
func (emptyStore) WriteLong(offset int64, _ int64) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteLong", Offset: offset, Length: sizeLong}
}
func (emptyStore) WriteFloat(offset int64, _ float32) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteFloat", Offset: offset, Length: sizeFloat}
}
func (emptyStore) WriteDouble(offset int64, _ float64) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteDouble", Offset: offset, Length: sizeDouble}
}

func (emptyStore) ReadVolatileInt(offset int64) (int32, error) {
	return 0, &ErrBufferUnderflow{Where: "EmptyStore.ReadVolatileInt", Offset: offset, Length: sizeInt}
}
func (emptyStore) ReadVolatileLong(offset int64) (int64, error) {
	return 0, &ErrBufferUnderflow{Where: "EmptyStore.ReadVolatileLong", Offset: offset, Length: sizeLong}
}
func (emptyStore) WriteVolatileInt(offset int64, _ int32) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteVolatileInt", Offset: offset, Length: sizeInt}
}
func (emptyStore) WriteVolatileLong(offset int64, _ int64) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteVolatileLong", Offset: offset, Length: sizeLong}
}
func (emptyStore) WriteOrderedInt(offset int64, _ int32) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteOrderedInt", Offset: offset, Length: sizeInt}
}
func (emptyStore) WriteOrderedLong(offset int64, _ int64) error {
	return &ErrBufferOverflow{Where: "EmptyStore.WriteOrderedLong", Offset: offset, Length: sizeLong}
}

func (emptyStore) CompareAndSwapInt(offset int64, _, _ int32) (bool, error) {
	return false, &ErrBufferOverflow{Where: "EmptyStore.CompareAndSwapInt", Offset: offset, Length: sizeInt}
}
func (emptyStore) CompareAndSwapLong(offset int64, _, _ int64) (bool, error) {
	return false, &ErrBufferOverflow{Where: "EmptyStore.CompareAndSwapLong", Offset: offset, Length: sizeLong}
}
func (emptyStore) AddAndGetInt(offset int64, _ int32) (int32, error) {
	return 0, &ErrBufferOverflow{Where: "EmptyStore.AddAndGetInt", Offset: offset, Length: sizeInt}
}
func (emptyStore) AddAndGetLong(offset int64, _ int64) (int64, error) {
	return 0, &ErrBufferOverflow{Where: "EmptyStore.AddAndGetLong", Offset: offset, Length: sizeLong}
}

func (emptyStore) Write(destOffset int64, _ []byte, _, length int) error {
	if length == 0 {
		return nil
	}
	return &ErrBufferOverflow{Where: "EmptyStore.Write", Offset: destOffset, Length: int64(length)}
}
func (emptyStore) WriteFrom(destOffset int64, _ BytesStore, _, length int64) error {
	if length == 0 {
		return nil
	}
	return &ErrBufferOverflow{Where: "EmptyStore.WriteFrom", Offset: destOffset, Length: length}
}
func (emptyStore) CopyTo(BytesStore) error { return nil }

func (emptyStore) ByteCheckSum(int64, int64) (byte, error) { return 0, nil }
func (emptyStore) FastHash(int64, int64) (int32, error)    { return 0, nil }
func (emptyStore) ZeroOut(int64, int64) error              { return nil }

func (emptyStore) AddressForRead(int64) (uintptr, error) {
	return 0, &ErrUnsupported{Where: "EmptyStore.AddressForRead"}
}
func (emptyStore) AddressForWrite(int64) (uintptr, error) {
	return 0, &ErrUnsupported{Where: "EmptyStore.AddressForWrite"}
}

func (emptyStore) Equals(other BytesStore) bool {
	return other != nil && other.RealCapacity() == 0
}
func (emptyStore) HashCode() int32 { return 0 }

func (emptyStore) BytesForRange(offset, length int64) ([]byte, error) {
	if offset != 0 || length != 0 {
		return nil, &ErrBufferUnderflow{Where: "EmptyStore.BytesForRange", Offset: offset, Length: length}
	}
	return nil, nil
}

// Reserve/Release/TryReserve/ReleaseLast/ReservedBy are no-ops on the
// singleton: it is never freed.
func (emptyStore) Reserve(Owner) error      { return nil }
func (emptyStore) Release(Owner) error      { return nil }
func (emptyStore) TryReserve(Owner) bool    { return true }
func (emptyStore) ReleaseLast(Owner) error  { return nil }
func (emptyStore) ReservedBy(Owner) bool    { return true }
func (emptyStore) RefCount() int64          { return 1 }
func (emptyStore) growIfNeeded(int64) error { return nil }
