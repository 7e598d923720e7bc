// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import "sync"

// storeCore implements the bulk of the BytesStore contract against a
// plain []byte view of whatever memory the concrete variant owns. Native,
// Heap and Mapped stores each embed *storeCore and override only the methods
// that differ by variant: Variant and AddressForRead/Write. How a store
// grows on an elastic write is supplied once, at construction, as the grow
// closure — every variant shares almost every method's semantics and
// differs only in how reads and writes ultimately touch storage.
type storeCore struct {
	ReferenceCounted

	mu       sync.RWMutex
	buf      []byte
	elastic  bool
	readOnly bool
	// grow is called with the minimum required length before every write
	// that could exceed the current buffer; nil for fixed-capacity stores,
	// which instead rely on checkWrite to signal ErrBufferOverflow.
	grow func(end int64) error
}

func (s *storeCore) Capacity() int64 {
	if s.elastic {
		return MaxCapacity
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.buf))
}

func (s *storeCore) RealCapacity() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.buf))
}

func (s *storeCore) IsElastic() bool { return s.elastic }

func (s *storeCore) view() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buf
}

// variantOr reports live once this store is still open, and VariantNoStore
// once its reference count has reached zero: Native/Heap/Mapped stores all
// null their backing buf in performRelease, leaving a dead object a caller
// may still hold a (now-invalid) handle to.
func (s *storeCore) variantOr(live Variant) Variant {
	if s.isClosed() {
		return VariantNoStore
	}
	return live
}

// growIfNeeded triggers the variant's grow hook if end exceeds the current
// real capacity. Fixed stores have grow == nil and rely on the subsequent
// checkWrite to signal ErrBufferOverflow. It is also the single chokepoint
// every typed Write*/bulk-Write call passes through first, so it doubles as
// the read-only guard for a store mapped off a file opened O_RDONLY, and
// the guard that makes a write to a released store fail with ErrClosed.
func (s *storeCore) growIfNeeded(end int64) error {
	if s.isClosed() {
		return &ErrClosed{Where: "write to released store"}
	}
	if s.readOnly {
		return &ErrUnsupported{Where: "write to read-only store"}
	}
	if s.grow == nil {
		return nil
	}
	s.mu.RLock()
	cur := int64(len(s.buf))
	s.mu.RUnlock()
	if end <= cur {
		return nil
	}
	return s.grow(end)
}

func (s *storeCore) ReadByte(offset int64) (byte, error) {
	b := s.view()
	if err := checkRead("ReadByte", offset, sizeByte, int64(len(b))); err != nil {
		return 0, err
	}
	return getByte(b, offset), nil
}

func (s *storeCore) ReadShort(offset int64) (int16, error) {
	b := s.view()
	if err := checkRead("ReadShort", offset, sizeShort, int64(len(b))); err != nil {
		return 0, err
	}
	return getShort(b, offset), nil
}

func (s *storeCore) ReadInt(offset int64) (int32, error) {
	b := s.view()
	if err := checkRead("ReadInt", offset, sizeInt, int64(len(b))); err != nil {
		return 0, err
	}
	return getInt(b, offset), nil
}

func (s *storeCore) ReadLong(offset int64) (int64, error) {
	b := s.view()
	if err := checkRead("ReadLong", offset, sizeLong, int64(len(b))); err != nil {
		return 0, err
	}
	return getLong(b, offset), nil
}

func (s *storeCore) ReadFloat(offset int64) (float32, error) {
	b := s.view()
	if err := checkRead("ReadFloat", offset, sizeFloat, int64(len(b))); err != nil {
		return 0, err
	}
	return getFloat(b, offset), nil
}

func (s *storeCore) ReadDouble(offset int64) (float64, error) {
	b := s.view()
	if err := checkRead("ReadDouble", offset, sizeDouble, int64(len(b))); err != nil {
		return 0, err
	}
	return getDouble(b, offset), nil
}

func (s *storeCore) WriteByte(offset int64, v byte) error {
	if err := s.growIfNeeded(offset + sizeByte); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteByte", offset, sizeByte, int64(len(s.buf))); err != nil {
		return err
	}
	putByte(s.buf, offset, v)
	return nil
}

func (s *storeCore) WriteShort(offset int64, v int16) error {
	if err := s.growIfNeeded(offset + sizeShort); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteShort", offset, sizeShort, int64(len(s.buf))); err != nil {
		return err
	}
	putShort(s.buf, offset, v)
	return nil
}

func (s *storeCore) WriteInt(offset int64, v int32) error {
	if err := s.growIfNeeded(offset + sizeInt); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteInt", offset, sizeInt, int64(len(s.buf))); err != nil {
		return err
	}
	putInt(s.buf, offset, v)
	return nil
}

func (s *storeCore) WriteLong(offset int64, v int64) error {
	if err := s.growIfNeeded(offset + sizeLong); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteLong", offset, sizeLong, int64(len(s.buf))); err != nil {
		return err
	}
	putLong(s.buf, offset, v)
	return nil
}

func (s *storeCore) WriteFloat(offset int64, v float32) error {
	if err := s.growIfNeeded(offset + sizeFloat); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteFloat", offset, sizeFloat, int64(len(s.buf))); err != nil {
		return err
	}
	putFloat(s.buf, offset, v)
	return nil
}

func (s *storeCore) WriteDouble(offset int64, v float64) error {
	if err := s.growIfNeeded(offset + sizeDouble); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteDouble", offset, sizeDouble, int64(len(s.buf))); err != nil {
		return err
	}
	putDouble(s.buf, offset, v)
	return nil
}

func (s *storeCore) ReadVolatileInt(offset int64) (int32, error) {
	b := s.view()
	if err := checkRead("ReadVolatileInt", offset, sizeInt, int64(len(b))); err != nil {
		return 0, err
	}
	return getVolatileInt(b, offset), nil
}

func (s *storeCore) ReadVolatileLong(offset int64) (int64, error) {
	b := s.view()
	if err := checkRead("ReadVolatileLong", offset, sizeLong, int64(len(b))); err != nil {
		return 0, err
	}
	return getVolatileLong(b, offset), nil
}

func (s *storeCore) WriteVolatileInt(offset int64, v int32) error {
	if err := s.growIfNeeded(offset + sizeInt); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteVolatileInt", offset, sizeInt, int64(len(s.buf))); err != nil {
		return err
	}
	putVolatileInt(s.buf, offset, v)
	return nil
}

func (s *storeCore) WriteVolatileLong(offset int64, v int64) error {
	if err := s.growIfNeeded(offset + sizeLong); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteVolatileLong", offset, sizeLong, int64(len(s.buf))); err != nil {
		return err
	}
	putVolatileLong(s.buf, offset, v)
	return nil
}

func (s *storeCore) WriteOrderedInt(offset int64, v int32) error {
	if err := s.growIfNeeded(offset + sizeInt); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteOrderedInt", offset, sizeInt, int64(len(s.buf))); err != nil {
		return err
	}
	putOrderedInt(s.buf, offset, v)
	return nil
}

func (s *storeCore) WriteOrderedLong(offset int64, v int64) error {
	if err := s.growIfNeeded(offset + sizeLong); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("WriteOrderedLong", offset, sizeLong, int64(len(s.buf))); err != nil {
		return err
	}
	putOrderedLong(s.buf, offset, v)
	return nil
}

func (s *storeCore) CompareAndSwapInt(offset int64, expected, new int32) (bool, error) {
	if s.readOnly {
		return false, &ErrUnsupported{Where: "CompareAndSwapInt on read-only store"}
	}
	b := s.view()
	if err := checkWrite("CompareAndSwapInt", offset, sizeInt, int64(len(b))); err != nil {
		return false, err
	}
	return casInt(b, offset, expected, new), nil
}

func (s *storeCore) CompareAndSwapLong(offset int64, expected, new int64) (bool, error) {
	if s.readOnly {
		return false, &ErrUnsupported{Where: "CompareAndSwapLong on read-only store"}
	}
	b := s.view()
	if err := checkWrite("CompareAndSwapLong", offset, sizeLong, int64(len(b))); err != nil {
		return false, err
	}
	return casLong(b, offset, expected, new), nil
}

func (s *storeCore) AddAndGetInt(offset int64, delta int32) (int32, error) {
	if s.readOnly {
		return 0, &ErrUnsupported{Where: "AddAndGetInt on read-only store"}
	}
	b := s.view()
	if err := checkWrite("AddAndGetInt", offset, sizeInt, int64(len(b))); err != nil {
		return 0, err
	}
	return addAndGetInt(b, offset, delta), nil
}

func (s *storeCore) AddAndGetLong(offset int64, delta int64) (int64, error) {
	if s.readOnly {
		return 0, &ErrUnsupported{Where: "AddAndGetLong on read-only store"}
	}
	b := s.view()
	if err := checkWrite("AddAndGetLong", offset, sizeLong, int64(len(b))); err != nil {
		return 0, err
	}
	return addAndGetLong(b, offset, delta), nil
}

func (s *storeCore) Write(destOffset int64, src []byte, offset, length int) error {
	if err := s.growIfNeeded(destOffset + int64(length)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkWrite("Write", destOffset, int64(length), int64(len(s.buf))); err != nil {
		return err
	}
	if offset < 0 || length < 0 || offset+length > len(src) {
		return &ErrInvalidArgument{Where: "Write src range", Value: []int{offset, length, len(src)}}
	}
	copyStrided(s.buf[destOffset:destOffset+int64(length)], src[offset:offset+length])
	return nil
}

// WriteFrom does not dispatch on the pair of variants involved: a native or
// mapped source uses the same strided copy as a heap source, because in this
// Go implementation every variant ultimately exposes a []byte view — every
// copy funnels through copyStrided, which always proceeds in 8-byte strides
// for lengths >= 8.
func (s *storeCore) WriteFrom(destOffset int64, src BytesStore, srcOffset, length int64) error {
	srcBytes, err := src.BytesForRange(srcOffset, length)
	if err != nil {
		return err
	}
	return s.Write(destOffset, srcBytes, 0, int(length))
}

func (s *storeCore) CopyTo(dst BytesStore) error {
	b := s.view()
	return dst.WriteFrom(0, storeView{b}, 0, int64(len(b)))
}

// storeView adapts a plain []byte to the BytesStore interface just enough to
// serve as the source of a CopyTo/WriteFrom call without allocating a full
// store; it is not reference-counted and is never exposed to callers.
type storeView struct{ b []byte }

func (v storeView) BytesForRange(offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > int64(len(v.b)) {
		return nil, &ErrInvalidArgument{Where: "storeView.BytesForRange", Value: []int64{offset, length}}
	}
	return v.b[offset : offset+length], nil
}
func (v storeView) Variant() Variant                                    { return VariantHeap }
func (v storeView) Capacity() int64                                     { return int64(len(v.b)) }
func (v storeView) RealCapacity() int64                                 { return int64(len(v.b)) }
func (v storeView) IsElastic() bool                                     { return false }
func (v storeView) ReadByte(int64) (byte, error)                        { return 0, unsupportedView }
func (v storeView) ReadShort(int64) (int16, error)                      { return 0, unsupportedView }
func (v storeView) ReadInt(int64) (int32, error)                        { return 0, unsupportedView }
func (v storeView) ReadLong(int64) (int64, error)                       { return 0, unsupportedView }
func (v storeView) ReadFloat(int64) (float32, error)                    { return 0, unsupportedView }
func (v storeView) ReadDouble(int64) (float64, error)                   { return 0, unsupportedView }
func (v storeView) WriteByte(int64, byte) error                         { return unsupportedView }
func (v storeView) WriteShort(int64, int16) error                       { return unsupportedView }
func (v storeView) WriteInt(int64, int32) error                         { return unsupportedView }
func (v storeView) WriteLong(int64, int64) error                        { return unsupportedView }
func (v storeView) WriteFloat(int64, float32) error                     { return unsupportedView }
func (v storeView) WriteDouble(int64, float64) error                    { return unsupportedView }
func (v storeView) ReadVolatileInt(int64) (int32, error)                { return 0, unsupportedView }
func (v storeView) ReadVolatileLong(int64) (int64, error)               { return 0, unsupportedView }
func (v storeView) WriteVolatileInt(int64, int32) error                 { return unsupportedView }
func (v storeView) WriteVolatileLong(int64, int64) error                { return unsupportedView }
func (v storeView) WriteOrderedInt(int64, int32) error                  { return unsupportedView }
func (v storeView) WriteOrderedLong(int64, int64) error                 { return unsupportedView }
func (v storeView) CompareAndSwapInt(int64, int32, int32) (bool, error) { return false, unsupportedView }
func (v storeView) CompareAndSwapLong(int64, int64, int64) (bool, error) {
	return false, unsupportedView
}
func (v storeView) AddAndGetInt(int64, int32) (int32, error)  { return 0, unsupportedView }
func (v storeView) AddAndGetLong(int64, int64) (int64, error) { return 0, unsupportedView }
func (v storeView) Write(int64, []byte, int, int) error       { return unsupportedView }
func (v storeView) WriteFrom(int64, BytesStore, int64, int64) error {
	return unsupportedView
}
func (v storeView) CopyTo(BytesStore) error                  { return unsupportedView }
func (v storeView) ByteCheckSum(int64, int64) (byte, error)  { return 0, unsupportedView }
func (v storeView) FastHash(int64, int64) (int32, error)     { return 0, unsupportedView }
func (v storeView) ZeroOut(int64, int64) error                { return unsupportedView }
func (v storeView) AddressForRead(int64) (uintptr, error)    { return 0, unsupportedView }
func (v storeView) AddressForWrite(int64) (uintptr, error)   { return 0, unsupportedView }
func (v storeView) Equals(BytesStore) bool                   { return false }
func (v storeView) HashCode() int32                          { return hash32(v.b) }
func (v storeView) Reserve(Owner) error                      { return unsupportedView }
func (v storeView) Release(Owner) error                      { return unsupportedView }
func (v storeView) TryReserve(Owner) bool                    { return false }
func (v storeView) ReleaseLast(Owner) error                  { return unsupportedView }
func (v storeView) ReservedBy(Owner) bool                    { return false }
func (v storeView) RefCount() int64                          { return 1 }
func (v storeView) growIfNeeded(int64) error                 { return unsupportedView }

var unsupportedView = &ErrUnsupported{Where: "storeView"}

func (s *storeCore) ByteCheckSum(start, end int64) (byte, error) {
	b := s.view()
	if err := checkRead("ByteCheckSum", start, end-start, int64(len(b))); err != nil {
		return 0, err
	}
	var sum byte
	for i := start; i < end; i++ {
		sum += b[i]
	}
	return sum, nil
}

func (s *storeCore) FastHash(offset, length int64) (int32, error) {
	b := s.view()
	if err := checkRead("FastHash", offset, length, int64(len(b))); err != nil {
		return 0, err
	}
	return fastHash(b, offset, length), nil
}

func (s *storeCore) ZeroOut(start, end int64) error {
	if s.readOnly {
		return &ErrUnsupported{Where: "ZeroOut on read-only store"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	capacity := int64(len(s.buf))
	if start < 0 {
		start = 0
	}
	if end > capacity {
		end = capacity
	}
	if end <= start {
		return nil
	}
	zeroOutStrided(s.buf[start:end])
	return nil
}

func (s *storeCore) Equals(other BytesStore) bool {
	b := s.view()
	return contentEqualBytes(b, other)
}

func (s *storeCore) HashCode() int32 {
	b := s.view()
	return hash32(b)
}

func (s *storeCore) BytesForRange(offset, length int64) ([]byte, error) {
	b := s.view()
	if err := checkRead("BytesForRange", offset, length, int64(len(b))); err != nil {
		return nil, err
	}
	return b[offset : offset+length], nil
}

func (s *storeCore) Reserve(owner Owner) error     { return s.reserve(owner) }
func (s *storeCore) Release(owner Owner) error     { return s.release_(owner) }
func (s *storeCore) TryReserve(owner Owner) bool   { return s.tryReserve(owner) }
func (s *storeCore) ReleaseLast(owner Owner) error { return s.releaseLast(owner) }
func (s *storeCore) ReservedBy(owner Owner) bool   { return s.reservedBy(owner) }
func (s *storeCore) RefCount() int64               { return s.refCount() }
