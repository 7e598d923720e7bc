// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"path/filepath"
	"testing"
)

func TestMappedFileAcquireChunkAndReadWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(4096))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	chunk, err := mf.AcquireChunk(0)
	if err != nil {
		t.Fatal(err)
	}
	owner := &struct{}{}
	if err := chunk.Reserve(owner); err != nil {
		t.Fatal(err)
	}
	defer chunk.Release(owner)

	if err := chunk.WriteLong(0, 987654321); err != nil {
		t.Fatal(err)
	}
	if g, e := must(chunk.ReadLong(0)), int64(987654321); g != e {
		t.Fatal(g, e)
	}

	same, err := mf.AcquireChunk(100)
	if err != nil {
		t.Fatal(err)
	}
	if same != chunk {
		t.Fatal("expected a second acquire within the same chunk to return the same store")
	}
}

func TestMappedFileGrowsAcrossChunkBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(4096))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	chunk0, err := mf.AcquireChunk(0)
	if err != nil {
		t.Fatal(err)
	}
	chunk1, err := mf.AcquireChunk(5000)
	if err != nil {
		t.Fatal(err)
	}
	if chunk0 == chunk1 {
		t.Fatal("expected distinct stores for distinct chunks")
	}
	if chunk1.ChunkIndex() != 1 {
		t.Fatal(chunk1.ChunkIndex())
	}
	if chunk1.FileOffset() != 4096 {
		t.Fatal(chunk1.FileOffset())
	}
}

func TestMappedChunkVariantBecomesNoStoreAfterRelease(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(4096))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	chunk, err := mf.AcquireChunk(0)
	if err != nil {
		t.Fatal(err)
	}
	if g, e := chunk.Variant(), VariantMapped; g != e {
		t.Fatal(g, e)
	}
	// chunk starts with a single implicit reservation (its own construction);
	// one release brings the count to zero and runs performRelease.
	if err := chunk.Release(chunk); err != nil {
		t.Fatal(err)
	}
	if g, e := chunk.Variant(), VariantNoStore; g != e {
		t.Fatal(g, e)
	}
}

func TestMappedBytesCrossesChunkBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(64), WithOverlapSize(0))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	cur, err := NewMappedBytes(mf)
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	// The requested 64-byte chunk size is aligned up to the page size, so
	// the real boundary is mf.ChunkSize().
	boundary := mf.ChunkSize()
	if err := cur.Write(make([]byte, boundary)); err != nil {
		t.Fatal(err)
	}
	// This int starts exactly at the chunk-0/chunk-1 boundary, so writing
	// it hands the cursor off from chunk 0 to chunk 1.
	if err := cur.WriteInt(0x11223344); err != nil {
		t.Fatal(err)
	}

	cur2, err := NewMappedBytes(mf)
	if err != nil {
		t.Fatal(err)
	}
	defer cur2.Close()
	cur2.readLim = cur.WritePosition()
	cur2.readPos = boundary
	v, err := cur2.ReadInt()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x11223344 {
		t.Fatalf("got %x", v)
	}
}

func TestMappedBytesOverlapAvoidsRemapAcrossBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(8192), WithOverlapSize(4096))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	cur, err := NewMappedBytes(mf)
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	if err := cur.WriteSkip(8192 - 2); err != nil {
		t.Fatal(err)
	}
	firstChunk := cur.cur
	if firstChunk == nil || firstChunk.ChunkIndex() != 0 {
		t.Fatal("expected chunk 0 to be acquired by the skip")
	}

	// This int's last two bytes fall past the declared chunk-0/chunk-1
	// boundary at offset 8192, but the 4096-byte overlap means the whole
	// access is still Inside chunk 0's mapped window, so no hand-off happens.
	if err := cur.WriteInt(0x11223344); err != nil {
		t.Fatal(err)
	}
	if cur.cur != firstChunk {
		t.Fatal("expected overlap to avoid a chunk hand-off across this boundary")
	}

	got, err := firstChunk.ReadInt(firstChunk.LocalOffset(8192 - 2))
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x11223344 {
		t.Fatalf("got %x", got)
	}
}

func TestMappedBytesWriteSkipPartialBoundsCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(4096), WithCapacity(1<<20))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	cur, err := NewMappedBytes(mf)
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	// Skip far past the first chunk without forcing every intervening chunk
	// to be mapped; only the first 128 bytes of the skip are bounds-checked.
	if err := cur.WriteSkip(1 << 16); err != nil {
		t.Fatal(err)
	}
	if g, e := cur.WritePosition(), int64(1<<16); g != e {
		t.Fatal(g, e)
	}
	if g, e := cur.WriteLimit(), int64(1<<20); g != e {
		t.Fatal(g, e)
	}
	// A write at the new position lazily acquires whatever chunk covers it.
	if err := cur.WriteInt(0x2a2a2a2a); err != nil {
		t.Fatal(err)
	}
}

func TestMappedBytesReadPositionRemaining(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(4096), WithCapacity(4096))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	cur, err := NewMappedBytes(mf)
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	if err := cur.WriteLong(42); err != nil {
		t.Fatal(err)
	}
	if err := cur.ReadPositionRemaining(0, 8); err != nil {
		t.Fatal(err)
	}
	if g, e := cur.ReadPosition(), int64(0); g != e {
		t.Fatal(g, e)
	}
	if g, e := cur.ReadLimit(), int64(8); g != e {
		t.Fatal(g, e)
	}
	if g, e := must(cur.ReadLong()), int64(42); g != e {
		t.Fatal(g, e)
	}
}

func TestMappedBytesReadPositionRemainingGrowsWriteLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(4096))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	cur, err := NewMappedBytes(mf)
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	if g, e := cur.WriteLimit(), int64(0); g != e {
		t.Fatal(g, e)
	}
	if err := cur.ReadPositionRemaining(100, 200); err != nil {
		t.Fatal(err)
	}
	if g, e := cur.WriteLimit(), int64(300); g != e {
		t.Fatal(g, e)
	}
	if g, e := cur.ReadPosition(), int64(100); g != e {
		t.Fatal(g, e)
	}
	if g, e := cur.ReadLimit(), int64(300); g != e {
		t.Fatal(g, e)
	}
}

func TestMappedBytesPeekVolatileIntDoesNotAdvance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(4096))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	cur, err := NewMappedBytes(mf)
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	if err := cur.WriteInt(0x2a2a2a2a); err != nil {
		t.Fatal(err)
	}
	before := cur.ReadPosition()
	g, err := cur.PeekVolatileInt()
	if err != nil {
		t.Fatal(err)
	}
	if e := int32(0x2a2a2a2a); g != e {
		t.Fatal(g, e)
	}
	if cur.ReadPosition() != before {
		t.Fatal("PeekVolatileInt must not advance readPosition")
	}
}

func TestMappedBytesClearResetsMarks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(4096), WithCapacity(4096))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()

	cur, err := NewMappedBytes(mf)
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	if err := cur.WriteLong(42); err != nil {
		t.Fatal(err)
	}
	cur.Clear()
	if g, e := cur.ReadPosition(), int64(0); g != e {
		t.Fatal(g, e)
	}
	if g, e := cur.WritePosition(), int64(0); g != e {
		t.Fatal(g, e)
	}
	if g, e := cur.ReadLimit(), int64(0); g != e {
		t.Fatal(g, e)
	}
	if g, e := cur.WriteLimit(), int64(4096); g != e {
		t.Fatal(g, e)
	}
}

func TestOpenMappedFileReadOnlyRejectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	mf, err := OpenMappedFile(path, WithChunkSize(4096), WithCapacity(4096))
	if err != nil {
		t.Fatal(err)
	}
	mf.Close()

	ro, err := OpenMappedFile(path, WithChunkSize(4096), WithReadOnly(true))
	if err != nil {
		t.Fatal(err)
	}
	defer ro.Close()

	chunk, err := ro.AcquireChunk(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := chunk.WriteByte(0, 1); err == nil {
		t.Fatal("expected write against a read-only mapping to fail")
	}
}
