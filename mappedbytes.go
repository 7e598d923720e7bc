// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

// MappedBytes is a streaming cursor over a chunked MappedFile. It
// tracks absolute file offsets exactly like Bytes tracks offsets within a
// single BytesStore, but before every access it checks whether the current
// chunk's window (store.Inside) still covers that offset; on a miss it
// releases its reservation on the old chunk and acquires (and reserves) the
// new one. This hand-off is invisible to the caller: a record that straddles
// a chunk boundary reads and writes exactly as if the whole file were one
// contiguous store, courtesy of MappedFile's overlap windows.
type MappedBytes struct {
	ReferenceCounted

	mf  *MappedFile
	cur *MappedBytesStore

	readPos, writePos int64
	readLim, writeLim int64
}

// NewMappedBytes opens a cursor over mf starting at offset 0. It reserves mf
// under itself for its whole lifetime.
func NewMappedBytes(mf *MappedFile) (*MappedBytes, error) {
	m := &MappedBytes{mf: mf, writeLim: mf.Capacity()}
	if err := mf.reserve(m); err != nil {
		return nil, err
	}
	m.initRefCount(m.performRelease)
	return m, nil
}

func (m *MappedBytes) performRelease() {
	if m.cur != nil {
		_ = m.cur.Release(m)
		m.cur = nil
	}
	_ = m.mf.release_(m)
}

// Close releases the cursor's reservation on its MappedFile (and any
// currently-held chunk).
func (m *MappedBytes) Close() error { return m.release_(m) }

func (m *MappedBytes) ReadPosition() int64   { return m.readPos }
func (m *MappedBytes) WritePosition() int64  { return m.writePos }
func (m *MappedBytes) ReadLimit() int64      { return m.readLim }
func (m *MappedBytes) WriteLimit() int64     { return m.writeLim }
func (m *MappedBytes) ReadRemaining() int64  { return m.readLim - m.readPos }
func (m *MappedBytes) WriteRemaining() int64 { return m.writeLim - m.writePos }

// Clear resets both positions and readLimit to 0 and writeLimit to the
// file's capacity, exactly as Bytes.Clear does for a single store.
func (m *MappedBytes) Clear() {
	m.readPos = 0
	m.writePos = 0
	m.readLim = 0
	m.writeLim = m.mf.Capacity()
}

// ReadPositionRemaining sets readPosition to p and readLimit to p+r in one
// step, growing writeLimit to cover p+r if it doesn't already (the same
// capacity check ensureWriteAdvance applies).
func (m *MappedBytes) ReadPositionRemaining(p, r int64) error {
	if p < 0 || r < 0 {
		return &ErrInvalidArgument{Where: "MappedBytes.ReadPositionRemaining", Value: []int64{p, r}}
	}
	end := p + r
	if end > m.writeLim {
		if m.mf.capacity != 0 && end > m.mf.capacity {
			return &ErrBufferOverflow{Where: "MappedBytes.ReadPositionRemaining", Offset: p, Length: r}
		}
		m.writeLim = end
	}
	m.readPos = p
	m.readLim = end
	return nil
}

// WriteSkip advances writePosition by n, reserving the skipped span without
// writing to it. Unlike Bytes.WriteSkip, only the first min(128, n) bytes of
// a forward skip are bounds-checked (the chunk covering them is acquired and
// validated); the remainder is trusted, so a pretoucher can skip far ahead of
// the currently-mapped chunks without forcing every intervening one to be
// acquired and grown up front. The whole skip is still capped at mf's
// declared capacity, if any.
func (m *MappedBytes) WriteSkip(n int64) error {
	if n < 0 {
		target := m.writePos + n
		if target < 0 {
			return &ErrInvalidArgument{Where: "MappedBytes.WriteSkip", Value: n}
		}
		m.writePos = target
		m.readLim = m.writePos
		return nil
	}
	end := m.writePos + n
	if m.mf.capacity != 0 && end > m.mf.capacity {
		return &ErrBufferOverflow{Where: "MappedBytes.WriteSkip", Offset: m.writePos, Length: n}
	}
	checked := n
	if checked > 128 {
		checked = 128
	}
	if err := m.ensureChunk(m.writePos, checked); err != nil {
		return err
	}
	m.writePos = end
	m.readLim = m.writePos
	if end > m.writeLim {
		m.writeLim = end
	}
	return nil
}

// ensureChunk makes m.cur the chunk covering [offset, offset+length), handing
// off from whatever chunk m.cur currently points to if it no longer covers
// the access (overlap windows mean straddling records up to the overlap
// size never actually need a hand-off mid-record).
func (m *MappedBytes) ensureChunk(offset, length int64) error {
	if m.cur != nil && m.cur.Inside(offset, length) {
		return nil
	}
	next, err := m.mf.AcquireChunk(offset)
	if err != nil {
		return err
	}
	if err := next.Reserve(m); err != nil {
		return err
	}
	if m.cur != nil {
		_ = m.cur.Release(m)
	}
	m.cur = next
	return nil
}

func (m *MappedBytes) ReadByte() (byte, error) {
	if m.readPos+sizeByte > m.readLim {
		return 0, &ErrBufferUnderflow{Where: "MappedBytes.ReadByte", Offset: m.readPos, Length: sizeByte}
	}
	if err := m.ensureChunk(m.readPos, sizeByte); err != nil {
		return 0, err
	}
	v, err := m.cur.ReadByte(m.cur.LocalOffset(m.readPos))
	if err != nil {
		return 0, err
	}
	m.readPos += sizeByte
	return v, nil
}

func (m *MappedBytes) WriteByte(v byte) error {
	if err := m.ensureWriteAdvance(sizeByte); err != nil {
		return err
	}
	if err := m.ensureChunk(m.writePos, sizeByte); err != nil {
		return err
	}
	if err := m.cur.WriteByte(m.cur.LocalOffset(m.writePos), v); err != nil {
		return err
	}
	m.writePos += sizeByte
	m.readLim = m.writePos
	return nil
}

func (m *MappedBytes) ReadInt() (int32, error) {
	if m.readPos+sizeInt > m.readLim {
		return 0, &ErrBufferUnderflow{Where: "MappedBytes.ReadInt", Offset: m.readPos, Length: sizeInt}
	}
	if err := m.ensureChunk(m.readPos, sizeInt); err != nil {
		return 0, err
	}
	v, err := m.cur.ReadInt(m.cur.LocalOffset(m.readPos))
	if err != nil {
		return 0, err
	}
	m.readPos += sizeInt
	return v, nil
}

func (m *MappedBytes) WriteInt(v int32) error {
	if err := m.ensureWriteAdvance(sizeInt); err != nil {
		return err
	}
	if err := m.ensureChunk(m.writePos, sizeInt); err != nil {
		return err
	}
	if err := m.cur.WriteInt(m.cur.LocalOffset(m.writePos), v); err != nil {
		return err
	}
	m.writePos += sizeInt
	m.readLim = m.writePos
	return nil
}

func (m *MappedBytes) ReadLong() (int64, error) {
	if m.readPos+sizeLong > m.readLim {
		return 0, &ErrBufferUnderflow{Where: "MappedBytes.ReadLong", Offset: m.readPos, Length: sizeLong}
	}
	if err := m.ensureChunk(m.readPos, sizeLong); err != nil {
		return 0, err
	}
	v, err := m.cur.ReadLong(m.cur.LocalOffset(m.readPos))
	if err != nil {
		return 0, err
	}
	m.readPos += sizeLong
	return v, nil
}

func (m *MappedBytes) WriteLong(v int64) error {
	if err := m.ensureWriteAdvance(sizeLong); err != nil {
		return err
	}
	if err := m.ensureChunk(m.writePos, sizeLong); err != nil {
		return err
	}
	if err := m.cur.WriteLong(m.cur.LocalOffset(m.writePos), v); err != nil {
		return err
	}
	m.writePos += sizeLong
	m.readLim = m.writePos
	return nil
}

// PeekVolatileInt reads a volatile int at the current read position without
// advancing it, for a lock-free "has the writer caught up" polling loop a
// tailing reader runs. When the current chunk's window does not cover the
// four bytes, it hands off to the covering chunk exactly as the other reads
// do.
func (m *MappedBytes) PeekVolatileInt() (int32, error) {
	if m.cur == nil || !m.cur.Inside(m.readPos, sizeInt) {
		if err := m.ensureChunk(m.readPos, sizeInt); err != nil {
			return 0, err
		}
	}
	return m.cur.ReadVolatileInt(m.cur.LocalOffset(m.readPos))
}

func (m *MappedBytes) ensureWriteAdvance(n int64) error {
	end := m.writePos + n
	if end > m.writeLim {
		if m.mf.capacity != 0 {
			return &ErrBufferOverflow{Where: "MappedBytes write", Offset: m.writePos, Length: n}
		}
		m.writeLim = end
	}
	return nil
}

// Write copies src at the current write position, advancing it; it may span
// a chunk boundary internally via repeated ensureChunk hand-offs.
func (m *MappedBytes) Write(src []byte) error {
	if err := m.ensureWriteAdvance(int64(len(src))); err != nil {
		return err
	}
	remaining := src
	for len(remaining) > 0 {
		if err := m.ensureChunk(m.writePos, 1); err != nil {
			return err
		}
		local := m.cur.LocalOffset(m.writePos)
		avail := m.cur.WindowLen() - local
		n := int64(len(remaining))
		if n > avail {
			n = avail
		}
		if err := m.cur.Write(local, remaining, 0, int(n)); err != nil {
			return err
		}
		remaining = remaining[n:]
		m.writePos += n
		m.readLim = m.writePos
	}
	return nil
}
