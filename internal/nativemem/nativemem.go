// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nativemem obtains and releases page-aligned, off-heap native
// memory regions (component A of the membytes design: the
// Allocator/Deallocator pair). It is a thin wrapper over an anonymous mmap,
// which keeps the allocation outside the Go heap (so the garbage collector
// never scans or relocates it) without requiring cgo.
package nativemem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// addrOf returns the address of buf's backing array. Safe as long as buf is
// kept reachable (callers retain it in Region.buf) for the lifetime of the
// returned address, per Go's unsafe.Pointer rules.
func addrOf(buf []byte) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

// PageSize is the OS page size, queried once at process start.
var PageSize = unix.Getpagesize()

// AlignUp rounds n up to the next multiple of PageSize.
func AlignUp(n int64) int64 {
	ps := int64(PageSize)
	return (n + ps - 1) / ps * ps
}

// Region is a single anonymous mapping: Addr is its base address and Len its
// length in bytes, both page-aligned.
type Region struct {
	Addr uintptr
	Len  int64
	buf  []byte // keeps the mapping reachable for unix.Munmap's slice arg
}

// Alloc obtains a new zero-filled off-heap region of at least size bytes,
// rounded up to a whole number of pages.
func Alloc(size int64) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("nativemem: invalid size %d", size)
	}
	aligned := AlignUp(size)
	buf, err := unix.Mmap(-1, 0, int(aligned), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("nativemem: mmap anon %d bytes: %w", aligned, err)
	}
	return &Region{Addr: addrOf(buf), Len: aligned, buf: buf}, nil
}

// Free releases r. r must not be used again after Free returns.
func (r *Region) Free() error {
	if r.buf == nil {
		return nil
	}
	err := unix.Munmap(r.buf)
	r.buf = nil
	r.Addr = 0
	if err != nil {
		return fmt.Errorf("nativemem: munmap: %w", err)
	}
	return nil
}

// Bytes returns a []byte view of the whole region, valid until Free is
// called.
func (r *Region) Bytes() []byte { return r.buf }
