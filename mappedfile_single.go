// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
)

// SingleMappedFile is the unchunked counterpart to MappedFile: it
// maps a file's entire current length in one mmap call instead of lazily
// mapping fixed-size windows. It suits files whose size is known up front
// and small enough that mapping it whole is cheaper than chunk bookkeeping
// — a log segment or a snapshot, say, rather than an open-ended append-only
// store. Growth is supported but expensive: it remaps the whole file, so a
// caller expecting frequent growth should use MappedFile instead.
type SingleMappedFile struct {
	ReferenceCounted

	path     string
	file     *os.File
	readOnly bool
	log      Logger

	store *MappedBytesStore
}

// OpenSingleMappedFile opens path and maps its first size bytes (growing the
// file first if it is currently shorter).
func OpenSingleMappedFile(path string, size int64, opts ...Option) (*SingleMappedFile, error) {
	cfg := buildConfig(opts)
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

	smf := &SingleMappedFile{path: abs, file: f, readOnly: cfg.ReadOnly, log: cfg.Logger}
	smf.initRefCount(smf.performRelease)

	if !cfg.ReadOnly {
		if err := smf.growTo(size); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := smf.remap(size); err != nil {
		f.Close()
		return nil, err
	}
	smf.log.Info().Str("path", abs).Int64("size", size).Msg("single-mapped file opened")
	return smf, nil
}

func (smf *SingleMappedFile) growTo(size int64) error {
	local := canonicalLockFor(smf.path)
	local.Lock()
	defer local.Unlock()
	fi, err := smf.file.Stat()
	if err != nil {
		return &ErrIO{Path: smf.path, Err: err}
	}
	if fi.Size() >= size {
		return nil
	}
	if err := smf.file.Truncate(size); err != nil {
		return &ErrIO{Path: smf.path, Offset: size, Err: err}
	}
	return nil
}

func (smf *SingleMappedFile) remap(size int64) error {
	prot := mmap.RDWR
	if smf.readOnly {
		prot = mmap.RDONLY
	}
	mapping, err := mmap.MapRegion(smf.file, int(size), prot, 0, 0)
	if err != nil {
		return &ErrIO{Path: smf.path, Err: err}
	}
	smf.store = newMappedBytesStore(mapping, 0, 0, smf.readOnly)
	return nil
}

// Store returns the single BytesStore covering the whole mapped region.
// Callers must Reserve/Release it themselves like any other store.
func (smf *SingleMappedFile) Store() *MappedBytesStore { return smf.store }

// Grow remaps the file at a new, larger size. Any store previously returned
// by Store is released by the caller before calling Grow; Grow itself only
// unmaps and remaps this SingleMappedFile's own handle.
func (smf *SingleMappedFile) Grow(newSize int64) error {
	if err := smf.growTo(newSize); err != nil {
		return err
	}
	old := smf.store
	if err := smf.remap(newSize); err != nil {
		return err
	}
	if old != nil {
		old.performRelease()
	}
	smf.log.Info().Str("path", smf.path).Int64("size", newSize).Msg("single-mapped file grown")
	return nil
}

func (smf *SingleMappedFile) performRelease() {
	if smf.store != nil {
		smf.store.performRelease()
		smf.store = nil
	}
	smf.log.Info().Str("path", smf.path).Msg("single-mapped file closed")
	_ = smf.file.Close()
}
