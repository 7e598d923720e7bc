// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/gofrs/flock"

	"github.com/jcorbin/membytes/internal/nativemem"
)

// MappedFile is the chunked memory-mapped-file engine. It lazily maps
// fixed-size chunks of an underlying *os.File on demand, grows the file
// under an inter-process lock when a chunk would run past the current file
// length, and hands each chunk out as a *MappedBytesStore that callers
// reserve for as long as they hold a cursor into it.
//
// This generalizes a single ReadAt/WriteAt handle onto one *os.File into a
// vector of independently-mapped, independently-refcounted windows onto the
// same file; the chunk bookkeeping here is grounded on SPEC_FULL.md plus
// mmap-go's MapRegion as the mechanism.
type MappedFile struct {
	ReferenceCounted

	path        string
	file        *os.File
	readOnly    bool
	chunkSize   int64
	overlapSize int64
	capacity    int64
	retained    bool
	log         Logger

	mu     sync.Mutex
	stores []*MappedBytesStore // sparse; nil until a chunk is first acquired
}

// OpenMappedFile opens (creating if necessary) the file at path and returns
// a chunked mapping engine over it, per the supplied options.
func OpenMappedFile(path string, opts ...Option) (*MappedFile, error) {
	cfg := buildConfig(opts)
	if cfg.ChunkSize <= 0 {
		return nil, &ErrInvalidArgument{Where: "OpenMappedFile chunkSize", Value: cfg.ChunkSize}
	}
	chunkSize := alignUp(cfg.ChunkSize)
	overlapSize := int64(0)
	if cfg.OverlapSize > 0 {
		overlapSize = alignUp(cfg.OverlapSize)
	}

	flag := os.O_RDWR | os.O_CREATE
	if cfg.ReadOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, &ErrIO{Path: path, Err: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	mf := &MappedFile{
		path:        abs,
		file:        f,
		readOnly:    cfg.ReadOnly,
		chunkSize:   chunkSize,
		overlapSize: overlapSize,
		capacity:    cfg.Capacity,
		retained:    cfg.Retained,
		log:         cfg.Logger,
	}
	mf.initRefCount(mf.performRelease)

	if !cfg.ReadOnly && cfg.Capacity > 0 {
		if err := mf.resizeFileIfTooSmall(mf.chunkIndexFor(cfg.Capacity - 1)); err != nil {
			f.Close()
			return nil, err
		}
	}
	mf.log.Info().Str("path", abs).Int64("chunkSize", chunkSize).Int64("overlap", overlapSize).Msg("mapped file opened")
	return mf, nil
}

func alignUp(n int64) int64 {
	if n <= 0 {
		return int64(nativemem.PageSize)
	}
	return nativemem.AlignUp(n)
}

// lockContext bounds how long resizeFileIfTooSmall will wait on the
// inter-process flock before giving up; growth is rare and should not hang
// a caller forever behind a stuck or crashed peer holding the lock.
func lockContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// ChunkSize, OverlapSize and Capacity expose the engine's fixed geometry.
func (mf *MappedFile) ChunkSize() int64   { return mf.chunkSize }
func (mf *MappedFile) OverlapSize() int64 { return mf.overlapSize }
func (mf *MappedFile) Capacity() int64    { return mf.capacity }
func (mf *MappedFile) Path() string       { return mf.path }

// Reserve, Release, TryReserve, ReleaseLast, ReservedBy and RefCount expose
// the embedded ReferenceCounted's contract to callers outside this
// package, the same delegation storeCore does for every BytesStore variant.
func (mf *MappedFile) Reserve(owner Owner) error     { return mf.reserve(owner) }
func (mf *MappedFile) Release(owner Owner) error     { return mf.release_(owner) }
func (mf *MappedFile) TryReserve(owner Owner) bool   { return mf.tryReserve(owner) }
func (mf *MappedFile) ReleaseLast(owner Owner) error { return mf.releaseLast(owner) }
func (mf *MappedFile) ReservedBy(owner Owner) bool   { return mf.reservedBy(owner) }
func (mf *MappedFile) RefCount() int64               { return mf.refCount() }

// Close releases mf's own implicit reservation, running performRelease once
// no other owner holds one.
func (mf *MappedFile) Close() error { return mf.release_(mf) }

func (mf *MappedFile) chunkIndexFor(fileOffset int64) int {
	return int(fileOffset / mf.chunkSize)
}

// AcquireChunk returns the store for the chunk containing fileOffset,
// mapping it on first use. The caller must Reserve(owner) on the returned
// store before using it and Release(owner) when done; AcquireChunk itself
// does not reserve on the caller's behalf.
func (mf *MappedFile) AcquireChunk(fileOffset int64) (*MappedBytesStore, error) {
	if fileOffset < 0 {
		return nil, &ErrInvalidArgument{Where: "AcquireChunk", Value: fileOffset}
	}
	chunk := mf.chunkIndexFor(fileOffset)

	mf.mu.Lock()
	if store := mf.storeAtLocked(chunk); store != nil {
		mf.mu.Unlock()
		return store, nil
	}
	mf.mu.Unlock()

	// Growing the file takes an inter-process lock and can block; never do
	// it while holding mf.mu, or every other goroutine wanting an unrelated
	// chunk would stall behind a disk operation.
	if err := mf.resizeFileIfTooSmall(chunk); err != nil {
		return nil, err
	}

	mf.mu.Lock()
	defer mf.mu.Unlock()
	if store := mf.storeAtLocked(chunk); store != nil {
		return store, nil
	}

	windowLen := mf.chunkSize + mf.overlapSize
	chunkFileOffset := int64(chunk) * mf.chunkSize

	prot := mmap.RDWR
	if mf.readOnly {
		prot = mmap.RDONLY
	}
	mapping, err := mmap.MapRegion(mf.file, int(windowLen), prot, 0, chunkFileOffset)
	if err != nil {
		return nil, &ErrIO{Path: mf.path, Offset: chunkFileOffset, Err: err}
	}

	store := newMappedBytesStore(mapping, chunk, chunkFileOffset, mf.readOnly)
	if mf.retained {
		if err := store.Reserve(mf); err != nil {
			_ = mapping.Unmap()
			return nil, err
		}
	}
	mf.installLocked(chunk, store)
	mf.log.Debug().Int("chunk", chunk).Int64("offset", chunkFileOffset).Int64("window", windowLen).Msg("chunk mapped")
	return store, nil
}

func (mf *MappedFile) storeAtLocked(chunk int) *MappedBytesStore {
	if chunk < len(mf.stores) {
		return mf.stores[chunk]
	}
	return nil
}

func (mf *MappedFile) installLocked(chunk int, store *MappedBytesStore) {
	if chunk >= len(mf.stores) {
		grown := make([]*MappedBytesStore, chunk+1)
		copy(grown, mf.stores)
		mf.stores = grown
	}
	mf.stores[chunk] = store
}

// resizeFileIfTooSmall grows the underlying file, under the canonical-path
// lock, so that chunk's full window (including overlap) fits within the
// file's length. It is a no-op once another goroutine or process has
// already grown the file far enough.
func (mf *MappedFile) resizeFileIfTooSmall(chunk int) error {
	if mf.readOnly {
		return nil
	}
	needed := int64(chunk+1)*mf.chunkSize + mf.overlapSize

	local := canonicalLockFor(mf.path)
	local.Lock()
	defer local.Unlock()

	fi, err := mf.file.Stat()
	if err != nil {
		return &ErrIO{Path: mf.path, Err: err}
	}
	if fi.Size() >= needed {
		return nil
	}

	lockPath := mf.path
	if resolved, err := filepath.EvalSymlinks(mf.path); err == nil {
		lockPath = resolved
	}
	interProcess := flock.New(lockPath + ".lock")
	ctx, cancel := lockContext()
	defer cancel()
	locked, err := interProcess.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return &ErrIO{Path: mf.path, Err: fmt.Errorf("acquire growth lock: %w", err)}
	}
	if !locked {
		return &ErrIO{Path: mf.path, Err: fmt.Errorf("growth lock busy")}
	}
	defer interProcess.Unlock()

	// Re-check: another process may have grown the file while we waited on
	// the flock.
	fi, err = mf.file.Stat()
	if err != nil {
		return &ErrIO{Path: mf.path, Err: err}
	}
	if fi.Size() >= needed {
		return nil
	}
	if err := mf.file.Truncate(needed); err != nil {
		return &ErrIO{Path: mf.path, Offset: needed, Err: err}
	}
	mf.log.Info().Str("path", mf.path).Int64("size", needed).Msg("mapped file grown")
	return nil
}

// performRelease releases the engine's own reservations on every mapped
// chunk (the one each chunk was created with, plus the retained-mode one if
// any), logs at warn any chunk some other owner still holds, and closes the
// file. Chunks a caller is still holding a cursor-level reservation on stay
// mapped until that cursor releases them.
func (mf *MappedFile) performRelease() {
	mf.mu.Lock()
	stores := mf.stores
	mf.stores = nil
	mf.mu.Unlock()

	for _, s := range stores {
		if s == nil {
			continue
		}
		if mf.retained {
			_ = s.Release(mf)
		}
		if leaked := s.survivingOwners(); len(leaked) > 0 {
			mf.log.Warn().Str("path", mf.path).Int("chunk", s.ChunkIndex()).Int("owners", len(leaked)).Msg("chunk still reserved at close")
		}
		_ = s.Release(initOwner)
	}
	mf.log.Info().Str("path", mf.path).Msg("mapped file closed")
	_ = mf.file.Close()
}
