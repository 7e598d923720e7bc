// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBytesReadWriteRoundTrip(t *testing.T) {
	b, err := NewBytes(NewElasticHeapStore(0))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := b.WriteInt(7); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteLong(1 << 40); err != nil {
		t.Fatal(err)
	}
	if err := b.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}

	if g, e := b.WritePosition(), int64(4+8+5); g != e {
		t.Fatal(g, e)
	}
	if g, e := b.ReadLimit(), b.WritePosition(); g != e {
		t.Fatal(g, e)
	}

	if g, e := must(b.ReadInt()), int32(7); g != e {
		t.Fatal(g, e)
	}
	if g, e := must(b.ReadLong()), int64(1<<40); g != e {
		t.Fatal(g, e)
	}
	tail, err := b.Copy()
	if err != nil {
		t.Fatal(err)
	}
	got, err := tail.BytesForRange(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatal(string(got))
	}
}

func TestBytesReadPastLimitUnderflows(t *testing.T) {
	b, err := NewBytes(NewHeapStore(make([]byte, 4)))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if _, err := b.ReadInt(); err == nil {
		t.Fatal("expected underflow: readLimit starts at 0 until something is written")
	}
}

func TestBytesClear(t *testing.T) {
	b, err := NewBytes(NewHeapStore(make([]byte, 16)))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := b.WriteLong(1); err != nil {
		t.Fatal(err)
	}
	b.Clear()
	if g, e := b.ReadPosition(), int64(0); g != e {
		t.Fatal(g, e)
	}
	if g, e := b.WritePosition(), int64(0); g != e {
		t.Fatal(g, e)
	}
	if g, e := b.ReadLimit(), int64(0); g != e {
		t.Fatal(g, e)
	}
	if g, e := b.WriteLimit(), int64(16); g != e {
		t.Fatal(g, e)
	}
}

func TestBytesSkip(t *testing.T) {
	b, err := NewBytes(NewElasticHeapStore(0))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := b.WriteSkip(10); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteInt(99); err != nil {
		t.Fatal(err)
	}
	if err := b.ReadSkip(10); err != nil {
		t.Fatal(err)
	}
	if g, e := must(b.ReadInt()), int32(99); g != e {
		t.Fatal(g, e)
	}
}

func TestBytesCopySnapshotMatchesSource(t *testing.T) {
	b, err := NewBytes(NewElasticHeapStore(0))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := b.Write(want); err != nil {
		t.Fatal(err)
	}
	snap, err := b.Copy()
	if err != nil {
		t.Fatal(err)
	}
	got, err := snap.BytesForRange(0, int64(len(want)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}

	// The snapshot is detached: mutating the live cursor's underlying store
	// must not be observable through the already-taken Copy.
	if err := b.Store().WriteByte(0, 99); err != nil {
		t.Fatal(err)
	}
	gotAfter, err := snap.BytesForRange(0, int64(len(want)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, gotAfter); diff != "" {
		t.Fatal(diff)
	}
}

func TestBytesFixedStoreOverflows(t *testing.T) {
	b, err := NewBytes(NewHeapStore(make([]byte, 2)))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := b.WriteInt(1); err == nil {
		t.Fatal("expected ErrBufferOverflow writing 4 bytes into a 2-byte fixed store")
	}
}
