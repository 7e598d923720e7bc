// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import "fmt"

// ErrInvalidArgument is returned for negative offsets/lengths or other
// arguments outside the range a call requires.
type ErrInvalidArgument struct {
	Where string
	Value interface{}
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("membytes: invalid argument at %s: %v", e.Where, e.Value)
}

// ErrBufferUnderflow is returned when a read would pass readLimit or fall
// below start().
type ErrBufferUnderflow struct {
	Where          string
	Offset, Length int64
}

func (e *ErrBufferUnderflow) Error() string {
	return fmt.Sprintf("membytes: buffer underflow at %s: offset=%d length=%d", e.Where, e.Offset, e.Length)
}

// ErrBufferOverflow is returned when a write would pass writeLimit (fixed
// store) or the elastic maximum capacity.
type ErrBufferOverflow struct {
	Where          string
	Offset, Length int64
}

func (e *ErrBufferOverflow) Error() string {
	return fmt.Sprintf("membytes: buffer overflow at %s: offset=%d length=%d", e.Where, e.Offset, e.Length)
}

// ErrClosed is returned for any operation on a store/cursor whose reference
// count has already reached zero.
type ErrClosed struct {
	Where string
}

func (e *ErrClosed) Error() string {
	return fmt.Sprintf("membytes: use after close: %s", e.Where)
}

// ErrThreadingViolation is returned (diagnostic builds only, see
// bytes_diagnostics.go) when a second goroutine is observed mutating a
// single-writer Bytes cursor concurrently with another.
type ErrThreadingViolation struct {
	Where string
}

func (e *ErrThreadingViolation) Error() string {
	return fmt.Sprintf("membytes: threading violation: %s", e.Where)
}

// ErrIO wraps an OS error from the file/channel path, with the file path and
// offset that were in play.
type ErrIO struct {
	Path   string
	Offset int64
	Err    error
}

func (e *ErrIO) Error() string {
	return fmt.Sprintf("membytes: i/o error on %s at offset %d: %v", e.Path, e.Offset, e.Err)
}

func (e *ErrIO) Unwrap() error { return e.Err }

// ErrUnsupported is returned for a primitive that is meaningless on a given
// store variant, e.g. addressForRead on a heap store.
type ErrUnsupported struct {
	Where string
}

func (e *ErrUnsupported) Error() string {
	return fmt.Sprintf("membytes: unsupported on this variant: %s", e.Where)
}
