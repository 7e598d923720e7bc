// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import "testing"

func TestEmptyStoreRejectsNonZeroAccess(t *testing.T) {
	if _, err := Empty.ReadByte(0); err == nil {
		t.Fatal("expected any read on EmptyStore to fail")
	}
	if err := Empty.WriteByte(0, 1); err == nil {
		t.Fatal("expected any write on EmptyStore to fail")
	}
}

func TestEmptyStoreZeroLengthOpsAreNoops(t *testing.T) {
	if err := Empty.Write(0, nil, 0, 0); err != nil {
		t.Fatal(err)
	}
	b, err := Empty.BytesForRange(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 0 {
		t.Fatal(b)
	}
}

func TestEmptyStoreRefCountNeverCloses(t *testing.T) {
	if g, e := Empty.RefCount(), int64(1); g != e {
		t.Fatal(g, e)
	}
	if err := Empty.Release(nil); err != nil {
		t.Fatal(err)
	}
	if g, e := Empty.RefCount(), int64(1); g != e {
		t.Fatal(g, e)
	}
}

func TestEmptyStoreEquals(t *testing.T) {
	if !Empty.Equals(Empty) {
		t.Fatal("expected EmptyStore to equal itself")
	}
	if Empty.Equals(NewHeapStore([]byte{1})) {
		t.Fatal("expected EmptyStore not to equal a non-empty store")
	}
}
