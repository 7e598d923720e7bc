// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import "testing"

func TestHeapStoreReadWrite(t *testing.T) {
	h := NewHeapStore(make([]byte, 16))
	if err := h.WriteInt(0, 42); err != nil {
		t.Fatal(err)
	}
	if g, e := must(h.ReadInt(0)), int32(42); g != e {
		t.Fatal(g, e)
	}
	if err := h.WriteLong(8, 1<<40); err != nil {
		t.Fatal(err)
	}
	if g, e := must(h.ReadLong(8)), int64(1<<40); g != e {
		t.Fatal(g, e)
	}
}

func TestHeapStoreBoundsChecks(t *testing.T) {
	h := NewHeapStore(make([]byte, 4))
	if _, err := h.ReadInt(1); err == nil {
		t.Fatal("expected ErrBufferUnderflow, got nil")
	}
	if err := h.WriteInt(1, 1); err == nil {
		t.Fatal("expected ErrBufferOverflow, got nil")
	}
	if _, err := h.ReadInt(-1); err == nil {
		t.Fatal("expected ErrInvalidArgument, got nil")
	}
}

func TestElasticHeapStoreGrows(t *testing.T) {
	h := NewElasticHeapStore(4)
	if g, e := h.RealCapacity(), int64(4); g != e {
		t.Fatal(g, e)
	}
	if err := h.WriteLong(100, 7); err != nil {
		t.Fatal(err)
	}
	if g, e := h.RealCapacity(), int64(108); g != e {
		t.Fatal(g, e)
	}
	if g, e := must(h.ReadLong(100)), int64(7); g != e {
		t.Fatal(g, e)
	}
	if g, e := h.Capacity(), int64(MaxCapacity); g != e {
		t.Fatal(g, e)
	}
}

func TestHeapStoreCASAndAdd(t *testing.T) {
	h := NewHeapStore(make([]byte, 8))
	ok, err := h.CompareAndSwapInt(0, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected CAS to succeed against zero value")
	}
	ok, err = h.CompareAndSwapInt(0, 0, 9)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected CAS to fail: current value is 5, not 0")
	}
	if g, e := must(h.AddAndGetInt(0, 1)), int32(6); g != e {
		t.Fatal(g, e)
	}
}

func TestHeapStoreWriteFromAndEquals(t *testing.T) {
	src := NewHeapStore([]byte{1, 2, 3, 4})
	dst := NewElasticHeapStore(0)
	if err := dst.WriteFrom(0, src, 0, 4); err != nil {
		t.Fatal(err)
	}
	if !src.Equals(dst) {
		t.Fatal("expected equal content after WriteFrom")
	}
}

func TestHeapStoreZeroOut(t *testing.T) {
	h := NewHeapStore([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	if err := h.ZeroOut(2, 8); err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 0, 0, 0, 0, 0, 0, 9, 10}
	got, err := h.BytesForRange(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatal(got, want)
		}
	}
}

func TestHeapStoreReservationLifecycle(t *testing.T) {
	h := NewHeapStore(make([]byte, 4))
	ownerA := &struct{}{}
	if err := h.Reserve(ownerA); err != nil {
		t.Fatal(err)
	}
	if g, e := h.RefCount(), int64(2); g != e {
		t.Fatal(g, e)
	}
	if err := h.Release(initOwner); err != nil {
		t.Fatal(err)
	}
	if g, e := h.RefCount(), int64(1); g != e {
		t.Fatal(g, e)
	}
	if h.isClosed() {
		t.Fatal("store released by only one of two owners should not be closed")
	}
	if err := h.Release(ownerA); err != nil {
		t.Fatal(err)
	}
	if !h.isClosed() {
		t.Fatal("store should be closed once every owner has released")
	}
	if _, err := h.ReadByte(0); err == nil {
		t.Fatal("expected read on a released store to fail")
	}
	if g, e := h.Variant(), VariantNoStore; g != e {
		t.Fatal(g, e)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
