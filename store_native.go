// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"unsafe"

	"github.com/jcorbin/membytes/internal/nativemem"
)

// minSaneAddress is a sanity check on a native store's backing address:
// addresses below this are assumed to be an uninitialized/null pointer
// rather than a genuine mapping. It will misfire for legitimate addresses
// below 16 KiB, which no supported OS hands out for an mmap-style
// allocation, so the false-positive window is theoretical only.
const minSaneAddress = 1 << 14

// NativeStore is off-heap memory obtained from an anonymous OS mapping
// (see internal/nativemem). It is never scanned or relocated by the Go
// garbage collector, and exposes AddressForRead/Write for direct interop.
type NativeStore struct {
	*storeCore
	region       *nativemem.Region
	deferredFree bool
}

var _ BytesStore = (*NativeStore)(nil)

// NewNativeStore allocates a new fixed-capacity off-heap store of exactly
// size bytes. WithDeferredFree defaults to true (the only Option it honors);
// every other Config field is meaningless for a native store and is ignored.
func NewNativeStore(size int64, opts ...Option) (*NativeStore, error) {
	c := buildConfig(opts)
	region, err := nativemem.Alloc(size)
	if err != nil {
		return nil, err
	}
	if err := checkNativeAddress(region.Addr); err != nil {
		region.Free()
		return nil, err
	}
	n := &NativeStore{
		storeCore:    &storeCore{buf: region.Bytes()[:size:size]},
		region:       region,
		deferredFree: c.DeferredFree,
	}
	n.initRefCount(n.performRelease)
	return n, nil
}

// NewElasticNativeStore allocates a new elastic off-heap store with an
// initial real capacity of initialSize bytes; writes past the current real
// capacity grow the region by at least 3/2, or to the requested end,
// whichever is larger.
func NewElasticNativeStore(initialSize int64, opts ...Option) (*NativeStore, error) {
	n, err := NewNativeStore(initialSize, opts...)
	if err != nil {
		return nil, err
	}
	n.elastic = true
	n.grow = n.growRegion
	return n, nil
}

func checkNativeAddress(addr uintptr) error {
	if addr < minSaneAddress {
		return &ErrInvalidArgument{Where: "NativeStore address sanity check", Value: addr}
	}
	return nil
}

// growRegion implements the elastic grow: allocate a new region of at least
// max(realCapacity*3/2, requested end), copy the live prefix, release the
// old region, and swap atomically from the point of view of the single
// owning cursor.
func (n *NativeStore) growRegion(end int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	cur := int64(len(n.buf))
	if end <= cur {
		return nil
	}
	target := cur * 3 / 2
	if target < end {
		target = end
	}
	newRegion, err := nativemem.Alloc(target)
	if err != nil {
		return &ErrBufferOverflow{Where: "NativeStore grow", Offset: end, Length: target}
	}
	if err := checkNativeAddress(newRegion.Addr); err != nil {
		newRegion.Free()
		return err
	}
	newBuf := newRegion.Bytes()[:target:target]
	copy(newBuf, n.buf)
	oldRegion := n.region
	n.region = newRegion
	n.buf = newBuf
	if oldRegion != nil {
		oldRegion.Free()
	}
	return nil
}

func (n *NativeStore) Variant() Variant { return n.variantOr(VariantNative) }

func (n *NativeStore) AddressForRead(offset int64) (uintptr, error) {
	b := n.view()
	if err := checkRead("AddressForRead", offset, 0, int64(len(b))); err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	return uintptr(unsafe.Pointer(&b[offset])), nil
}

func (n *NativeStore) AddressForWrite(offset int64) (uintptr, error) {
	return n.AddressForRead(offset)
}

// performRelease is invoked exactly once, when the store's reference count
// reaches zero. Native-memory frees may be dispatched to a background worker,
// per n.deferredFree (Config.DeferredFree, true by default), because freeing
// doesn't invalidate any other process's view of memory the way unmapping a
// file does (contrast MappedBytesStore.performRelease, which never defers);
// we null the buffer synchronously first so a late, buggy caller fails
// instead of corrupting freed memory: a write gets ErrClosed (from
// storeCore.growIfNeeded), a read gets ErrBufferUnderflow from the bounds
// check against the now-empty buf.
func (n *NativeStore) performRelease() {
	n.mu.Lock()
	region := n.region
	n.region = nil
	n.buf = nil
	n.mu.Unlock()
	if region == nil {
		return
	}
	if n.deferredFree {
		go region.Free()
	} else {
		region.Free()
	}
}
