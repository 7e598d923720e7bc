// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

// Bytes is a streaming position/limit cursor over a BytesStore.
// It tracks four marks — readPosition, writePosition, readLimit and
// writeLimit — with the invariant
//
//	0 <= readPosition <= writePosition <= writeLimit <= store.Capacity
//	readPosition <= readLimit == writePosition
//
// readLimit always tracks writePosition: every write extends what a
// subsequent read may consume.
//
// A Bytes holds one reservation (under itself as Owner) on the underlying
// store for as long as it is open; Close releases that reservation.
type Bytes struct {
	ReferenceCounted

	store BytesStore

	readPos, writePos int64
	readLim, writeLim int64

	writerCheck writerCheck
}

// NewBytes wraps store in a fresh, empty cursor: both positions at 0,
// writeLimit at store.RealCapacity (or MaxCapacity for an elastic store)
// and readLimit at 0, exactly the state Clear produces. It reserves store
// under the new Bytes as Owner. Use WrapForRead to get a read-only cursor
// over a store's existing content instead.
func NewBytes(store BytesStore) (*Bytes, error) {
	if store == nil {
		store = Empty
	}
	b := &Bytes{store: store}
	if err := store.Reserve(b); err != nil {
		return nil, err
	}
	b.writeLim = store.Capacity()
	b.initRefCount(b.performRelease)
	return b, nil
}

// WrapForRead wraps store's existing content for reading: writePosition and
// readLimit both start at store.RealCapacity, so the whole store is
// immediately readable without writing through the cursor first.
func WrapForRead(store BytesStore) (*Bytes, error) {
	b, err := NewBytes(store)
	if err != nil {
		return nil, err
	}
	b.writePos = store.RealCapacity()
	b.readLim = b.writePos
	return b, nil
}

func (b *Bytes) performRelease() {
	_ = b.store.Release(b)
}

// Close releases the cursor's reservation on its store. It is idiomatic Go
// sugar over Release(b) with the cursor itself as owner.
func (b *Bytes) Close() error { return b.release_(b) }

// Store returns the underlying BytesStore.
func (b *Bytes) Store() BytesStore { return b.store }

func (b *Bytes) ReadPosition() int64  { return b.readPos }
func (b *Bytes) WritePosition() int64 { return b.writePos }
func (b *Bytes) ReadLimit() int64     { return b.readLim }
func (b *Bytes) WriteLimit() int64    { return b.writeLim }

// SetReadPosition moves the read cursor to p, which must lie within
// [0, readLimit].
func (b *Bytes) SetReadPosition(p int64) error {
	if p < 0 || p > b.readLim {
		return &ErrInvalidArgument{Where: "SetReadPosition", Value: p}
	}
	b.readPos = p
	return nil
}

// SetWritePosition moves the write cursor to p, which must lie within
// [0, writeLimit]; readLimit is brought along to track it, and readPosition
// is clamped back if it would now exceed the new readLimit.
func (b *Bytes) SetWritePosition(p int64) error {
	if p < 0 || p > b.writeLim {
		return &ErrInvalidArgument{Where: "SetWritePosition", Value: p}
	}
	b.writePos = p
	b.readLim = p
	if b.readPos > b.readLim {
		b.readPos = b.readLim
	}
	return nil
}

// SetWriteLimit moves the write ceiling. It may not be set below the current
// writePosition, and on a fixed (non-elastic) store it may not exceed the
// store's RealCapacity.
func (b *Bytes) SetWriteLimit(l int64) error {
	if l < b.writePos {
		return &ErrInvalidArgument{Where: "SetWriteLimit", Value: l}
	}
	if !b.store.IsElastic() && l > b.store.RealCapacity() {
		return &ErrBufferOverflow{Where: "SetWriteLimit", Offset: l, Length: 0}
	}
	b.writeLim = l
	return nil
}

// Clear resets all four marks to an empty cursor over the full store: both
// positions to 0, writeLimit to Capacity (MaxCapacity for an elastic store),
// readLimit to 0.
func (b *Bytes) Clear() {
	b.readPos = 0
	b.writePos = 0
	b.readLim = 0
	b.writeLim = b.store.Capacity()
}

// ReadRemaining returns readLimit - readPosition.
func (b *Bytes) ReadRemaining() int64 { return b.readLim - b.readPos }

// WriteRemaining returns writeLimit - writePosition (MaxCapacity-writePos for
// an elastic store).
func (b *Bytes) WriteRemaining() int64 { return b.writeLim - b.writePos }

func (b *Bytes) checkReadAdvance(n int64) error {
	if b.readPos+n > b.readLim {
		return &ErrBufferUnderflow{Where: "Bytes read", Offset: b.readPos, Length: n}
	}
	return nil
}

func (b *Bytes) ensureWriteAdvance(n int64) error {
	end := b.writePos + n
	if end > b.writeLim {
		if !b.store.IsElastic() {
			return &ErrBufferOverflow{Where: "Bytes write", Offset: b.writePos, Length: n}
		}
		b.writeLim = end
	}
	if err := b.store.growIfNeeded(end); err != nil {
		return err
	}
	return nil
}

// ReadByte, ReadShort, ... read a typed value at readPosition and advance it.
func (b *Bytes) ReadByte() (byte, error) {
	if err := b.checkReadAdvance(sizeByte); err != nil {
		return 0, err
	}
	v, err := b.store.ReadByte(b.readPos)
	if err != nil {
		return 0, err
	}
	b.readPos += sizeByte
	return v, nil
}

func (b *Bytes) ReadShort() (int16, error) {
	if err := b.checkReadAdvance(sizeShort); err != nil {
		return 0, err
	}
	v, err := b.store.ReadShort(b.readPos)
	if err != nil {
		return 0, err
	}
	b.readPos += sizeShort
	return v, nil
}

func (b *Bytes) ReadInt() (int32, error) {
	if err := b.checkReadAdvance(sizeInt); err != nil {
		return 0, err
	}
	v, err := b.store.ReadInt(b.readPos)
	if err != nil {
		return 0, err
	}
	b.readPos += sizeInt
	return v, nil
}

func (b *Bytes) ReadLong() (int64, error) {
	if err := b.checkReadAdvance(sizeLong); err != nil {
		return 0, err
	}
	v, err := b.store.ReadLong(b.readPos)
	if err != nil {
		return 0, err
	}
	b.readPos += sizeLong
	return v, nil
}

func (b *Bytes) ReadFloat() (float32, error) {
	if err := b.checkReadAdvance(sizeFloat); err != nil {
		return 0, err
	}
	v, err := b.store.ReadFloat(b.readPos)
	if err != nil {
		return 0, err
	}
	b.readPos += sizeFloat
	return v, nil
}

func (b *Bytes) ReadDouble() (float64, error) {
	if err := b.checkReadAdvance(sizeDouble); err != nil {
		return 0, err
	}
	v, err := b.store.ReadDouble(b.readPos)
	if err != nil {
		return 0, err
	}
	b.readPos += sizeDouble
	return v, nil
}

// WriteByte, WriteShort, ... write a typed value at writePosition and
// advance it, growing the store/limit first on an elastic store.
func (b *Bytes) WriteByte(v byte) error {
	if err := checkWriter(&b.writerCheck); err != nil {
		return err
	}
	if err := b.ensureWriteAdvance(sizeByte); err != nil {
		return err
	}
	if err := b.store.WriteByte(b.writePos, v); err != nil {
		return err
	}
	b.writePos += sizeByte
	b.readLim = b.writePos
	return nil
}

func (b *Bytes) WriteShort(v int16) error {
	if err := checkWriter(&b.writerCheck); err != nil {
		return err
	}
	if err := b.ensureWriteAdvance(sizeShort); err != nil {
		return err
	}
	if err := b.store.WriteShort(b.writePos, v); err != nil {
		return err
	}
	b.writePos += sizeShort
	b.readLim = b.writePos
	return nil
}

func (b *Bytes) WriteInt(v int32) error {
	if err := checkWriter(&b.writerCheck); err != nil {
		return err
	}
	if err := b.ensureWriteAdvance(sizeInt); err != nil {
		return err
	}
	if err := b.store.WriteInt(b.writePos, v); err != nil {
		return err
	}
	b.writePos += sizeInt
	b.readLim = b.writePos
	return nil
}

func (b *Bytes) WriteLong(v int64) error {
	if err := checkWriter(&b.writerCheck); err != nil {
		return err
	}
	if err := b.ensureWriteAdvance(sizeLong); err != nil {
		return err
	}
	if err := b.store.WriteLong(b.writePos, v); err != nil {
		return err
	}
	b.writePos += sizeLong
	b.readLim = b.writePos
	return nil
}

func (b *Bytes) WriteFloat(v float32) error {
	if err := checkWriter(&b.writerCheck); err != nil {
		return err
	}
	if err := b.ensureWriteAdvance(sizeFloat); err != nil {
		return err
	}
	if err := b.store.WriteFloat(b.writePos, v); err != nil {
		return err
	}
	b.writePos += sizeFloat
	b.readLim = b.writePos
	return nil
}

func (b *Bytes) WriteDouble(v float64) error {
	if err := checkWriter(&b.writerCheck); err != nil {
		return err
	}
	if err := b.ensureWriteAdvance(sizeDouble); err != nil {
		return err
	}
	if err := b.store.WriteDouble(b.writePos, v); err != nil {
		return err
	}
	b.writePos += sizeDouble
	b.readLim = b.writePos
	return nil
}

// AppendDouble writes v as human-readable decimal ASCII text at the current
// write position, via DefaultDecimalizer: digits left-to-right with the
// decimal point inserted, rather than WriteDouble's fixed 8-byte binary
// encoding. It fails if DefaultDecimalizer can't decompose v (NaN, Inf, or
// a value LiteDecimalizer can't represent whose magnitude lies outside
// BigDecimalDecimalizer's [1e-29, 1e45] range).
func (b *Bytes) AppendDouble(v float64) error {
	neg, mantissa, exponent, err := DefaultDecimalizer.Decimalize(v)
	if err != nil {
		return err
	}
	return b.Write([]byte(formatDecimalTuple(neg, mantissa, exponent)))
}

// AppendFloat is the float32 counterpart of AppendDouble.
func (b *Bytes) AppendFloat(v float32) error {
	return b.AppendDouble(float64(v))
}

// Write copies src into the store at writePosition and advances it.
func (b *Bytes) Write(src []byte) error {
	if err := checkWriter(&b.writerCheck); err != nil {
		return err
	}
	n := int64(len(src))
	if n == 0 {
		return nil
	}
	if err := b.ensureWriteAdvance(n); err != nil {
		return err
	}
	if err := b.store.Write(b.writePos, src, 0, len(src)); err != nil {
		return err
	}
	b.writePos += n
	b.readLim = b.writePos
	return nil
}

// ReadSkip advances readPosition by n without reading; ReadSkip(-n) moves it
// back. A forward skip past readLimit is an underflow.
func (b *Bytes) ReadSkip(n int64) error {
	target := b.readPos + n
	if target < 0 || target > b.readLim {
		return &ErrBufferUnderflow{Where: "ReadSkip", Offset: b.readPos, Length: n}
	}
	b.readPos = target
	return nil
}

// WriteSkip advances writePosition by n, reserving the skipped span without
// writing to it. A forward skip is bounds-checked over its whole span, and
// an elastic store is grown to cover it; WriteSkip(-n) moves the position
// back.
func (b *Bytes) WriteSkip(n int64) error {
	if err := checkWriter(&b.writerCheck); err != nil {
		return err
	}
	if n < 0 {
		target := b.writePos + n
		if target < 0 {
			return &ErrInvalidArgument{Where: "WriteSkip", Value: n}
		}
		b.writePos = target
		b.readLim = b.writePos
		return nil
	}
	if err := b.ensureWriteAdvance(n); err != nil {
		return err
	}
	b.writePos += n
	b.readLim = b.writePos
	return nil
}

// Copy returns a new, detached HeapStore containing a snapshot of
// [readPosition, readLimit). It does not affect this cursor's positions.
func (b *Bytes) Copy() (*HeapStore, error) {
	n := b.ReadRemaining()
	raw, err := b.store.BytesForRange(b.readPos, n)
	if err != nil {
		return nil, err
	}
	dup := make([]byte, n)
	copy(dup, raw)
	return NewHeapStore(dup), nil
}
