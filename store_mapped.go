// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// MappedBytesStore is a store whose backing address came from mapping a
// slice of a file. It knows its chunk index and the chunk's absolute
// offset within the file so that Inside(offset, length) can answer "is this
// access entirely within my window, including trailing overlap?" in
// constant time.
//
// This is a specialization of the native-store idea (direct-address,
// off-GC-heap memory), generalized here from byte-range ReadAt/WriteAt
// into an actual memory mapping.
type MappedBytesStore struct {
	*storeCore
	mapping         mmap.MMap
	chunkIndex      int
	chunkFileOffset int64
	windowLen       int64
}

var _ BytesStore = (*MappedBytesStore)(nil)

// newMappedBytesStore wraps an already-established mapping covering
// [fileOffset, fileOffset+len(mapping)) of some file as chunk chunkIndex.
// readOnly must match the protection the mapping was created with (mmap.RDONLY
// vs mmap.RDWR); a write attempted against a RDONLY mapping would fault the
// process instead of returning a Go error, so storeCore's write path checks
// readOnly itself rather than relying on the OS to catch the mistake.
func newMappedBytesStore(mapping mmap.MMap, chunkIndex int, fileOffset int64, readOnly bool) *MappedBytesStore {
	m := &MappedBytesStore{
		storeCore:       &storeCore{buf: []byte(mapping), readOnly: readOnly},
		mapping:         mapping,
		chunkIndex:      chunkIndex,
		chunkFileOffset: fileOffset,
		windowLen:       int64(len(mapping)),
	}
	m.initRefCount(m.performRelease)
	return m
}

func (m *MappedBytesStore) Variant() Variant { return m.variantOr(VariantMapped) }

// Inside reports whether an access of length bytes starting at the
// absolute file offset fileOffset lies entirely within this chunk's mapped
// window, including its trailing overlap.
func (m *MappedBytesStore) Inside(fileOffset, length int64) bool {
	if fileOffset < m.chunkFileOffset {
		return false
	}
	local := fileOffset - m.chunkFileOffset
	return local+length <= m.windowLen
}

// LocalOffset converts an absolute file offset within this chunk's window
// into the chunk-local offset the typed BytesStore primitives expect.
func (m *MappedBytesStore) LocalOffset(fileOffset int64) int64 {
	return fileOffset - m.chunkFileOffset
}

// ChunkIndex and FileOffset expose the bookkeeping MappedFile needs to
// install and retire chunks in its sparse stores[] vector.
func (m *MappedBytesStore) ChunkIndex() int   { return m.chunkIndex }
func (m *MappedBytesStore) FileOffset() int64 { return m.chunkFileOffset }
func (m *MappedBytesStore) WindowLen() int64  { return m.windowLen }

func (m *MappedBytesStore) AddressForRead(offset int64) (uintptr, error) {
	b := m.view()
	if err := checkRead("AddressForRead", offset, 0, int64(len(b))); err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	return uintptr(unsafe.Pointer(&b[offset])), nil
}

func (m *MappedBytesStore) AddressForWrite(offset int64) (uintptr, error) {
	return m.AddressForRead(offset)
}

// performRelease unmaps the chunk synchronously: unlike freeing anonymous
// native memory, the OS may reuse a file mapping's address range
// immediately, so this release can never be deferred to the background
// worker.
func (m *MappedBytesStore) performRelease() {
	m.mu.Lock()
	mapping := m.mapping
	m.mapping = nil
	m.buf = nil
	m.mu.Unlock()
	if mapping != nil {
		_ = mapping.Unmap()
	}
}
